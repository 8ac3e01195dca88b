package client

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"cloudchat/internal/models"
	"cloudchat/internal/storage"
	"cloudchat/internal/utils"
)

// handleEvent is the single dispatch point for inbound events. The union is
// closed, so this switch is exhaustive over everything the transport can
// deliver.
func (c *Client) handleEvent(ev models.Event) {
	switch e := ev.(type) {
	case models.NewMessageEvent:
		c.handleNewMessage(e.WireMessage)
	case models.MessageHistoryEvent:
		c.handleHistory(e)
	case models.DisplayTypingEvent:
		c.handleTyping(e)
	case models.ActivityUpdateEvent:
		c.handleActivity(e)
	case models.ForceDisconnectEvent:
		c.handleForceDisconnect(e)
	default:
		c.Session.Log.Logf("unhandled event kind: %s", ev.Kind())
	}
}

// handleNewMessage routes one live message: Dedup → Codec → render or
// unread. Order matters: admission happens before decode so a redelivered
// frame never reaches the codec twice.
func (c *Client) handleNewMessage(w models.WireMessage) {
	w = withDedupID(w)
	if !c.Session.Ledger.Admit(w.MessageID) {
		return
	}
	disp, err := c.Codec.ToDisplayRecord(w)
	if err != nil {
		// Malformed (empty body): dropped, not rendered, not counted.
		c.Session.Log.Logf("dropping message %s: %v", w.MessageID, err)
		return
	}
	c.ensureRoomFor(disp)
	if c.Session.Rooms.RecordIncoming(disp) {
		c.Session.AppendMessage(*disp)
	}
	c.changed()
}

// handleHistory replays a batch for the focused room in delivery order.
// History order is trusted as delivered; the dedup ledger is the only
// defense against overlap with live delivery or a repeated replay.
func (c *Client) handleHistory(e models.MessageHistoryEvent) {
	if e.Room != c.Session.Rooms.Focused() {
		return
	}
	for _, w := range e.Messages {
		w = withDedupID(w)
		if !c.Session.Ledger.Admit(w.MessageID) {
			continue
		}
		disp, err := c.Codec.ToDisplayRecord(w)
		if err != nil {
			c.Session.Log.Logf("dropping history message %s: %v", w.MessageID, err)
			continue
		}
		c.Session.AppendMessage(*disp)
	}
	c.changed()
}

func (c *Client) handleTyping(e models.DisplayTypingEvent) {
	if e.Username == c.Session.Identity {
		return
	}
	if e.Room != c.Session.Rooms.Focused() {
		return
	}
	c.Session.Typing.Remote(e)
	c.changed()
}

func (c *Client) handleActivity(e models.ActivityUpdateEvent) {
	lastSeen := models.ParseFloatSeconds(e.LastSeen)
	c.Session.Rooms.UpdateActivity(e.Username, e.Activity, lastSeen)
	if c.Session.DB != nil {
		if err := c.Session.DB.UpdateActivity(context.Background(), e.Username, e.Activity, e.LastSeen); err != nil {
			c.Session.Log.Logf("activity cache write failed: %v", err)
		}
	}
	c.changed()
}

// handleForceDisconnect resets the whole session when the server orders this
// identity off. Notifications for other identities are ignored.
func (c *Client) handleForceDisconnect(e models.ForceDisconnectEvent) {
	if e.Username != c.Session.Identity {
		return
	}
	c.forced = true
	c.Session.Reset()
	c.changed()
	_ = c.Conn.Close()
}

// withDedupID guarantees a usable dedup key: the rare message delivered
// without a server id gets a random one, so it renders once and can never
// collide with a real identifier.
func withDedupID(w models.WireMessage) models.WireMessage {
	if w.MessageID == "" {
		w.MessageID = models.MessageID(uuid.NewString())
	}
	return w
}

// ensureRoomFor creates or refreshes the room a message belongs to, so a
// first message from an unknown peer materializes its conversation.
func (c *Client) ensureRoomFor(msg *models.DisplayMessage) {
	desc := models.Room{ID: msg.Room}
	switch {
	case msg.Room == models.GlobalRoom:
		desc.Kind = models.Broadcast
		desc.Name = models.GlobalRoom
	case utils.DMPeer(msg.Room, c.Session.Identity) != "":
		desc.Kind = models.Direct
		desc.PeerUsername = utils.DMPeer(msg.Room, c.Session.Identity)
		if !msg.Self {
			desc.Name = msg.Nickname
			desc.Avatar = msg.Avatar
		}
	default:
		desc.Kind = models.Group
		desc.Name = msg.Room
	}
	c.Session.Rooms.Upsert(desc)
}

// LoadDirectory fetches the room/contact directory and rebuilds the room
// list. Active chats and pure contacts stay separate populations.
func (c *Client) LoadDirectory() error {
	dir, err := c.API.FetchDirectory()
	if err != nil {
		return err
	}
	for _, chat := range dir.Chats {
		c.Session.Rooms.Upsert(c.roomFromChat(chat))
	}
	for _, u := range dir.Users {
		c.Session.Rooms.Upsert(c.roomFromContact(u))
		c.cacheProfile(u)
	}
	c.changed()
	return nil
}

func (c *Client) roomFromChat(e ChatEntry) models.Room {
	room := models.Room{
		ID:            e.Room,
		Name:          e.Name,
		Avatar:        models.Avatar{Color: e.AvatarColor, Emoji: e.AvatarEmoji},
		LastPreview:   e.LastMsg,
		LastActivity:  models.ParseFloatSeconds(e.LastMsgTime),
		PeerUsername:  e.Username,
		PeerPublicKey: e.PublicKey,
	}
	if room.Name == "" {
		room.Name = e.Nickname
	}
	switch {
	case e.Room == models.GlobalRoom:
		room.Kind = models.Broadcast
	case e.Type == "group":
		room.Kind = models.Group
	default:
		room.Kind = models.Direct
		if room.PeerUsername == "" {
			room.PeerUsername = utils.DMPeer(e.Room, c.Session.Identity)
		}
	}
	return room
}

func (c *Client) roomFromContact(e ContactEntry) models.Room {
	return models.Room{
		ID:            utils.DMRoomID(c.Session.Identity, e.Username),
		Name:          e.Nickname,
		Avatar:        models.Avatar{Color: e.AvatarColor, Emoji: e.AvatarEmoji},
		Kind:          models.Direct,
		PeerUsername:  e.Username,
		PeerPublicKey: e.PublicKey,
		PeerActivity:  e.Activity,
		PeerLastSeen:  models.ParseFloatSeconds(e.LastSeen),
	}
}

func (c *Client) cacheProfile(e ContactEntry) {
	if c.Session.DB == nil {
		return
	}
	err := c.Session.DB.SaveProfile(context.Background(), &storage.ProfileRow{
		Username:    e.Username,
		Nickname:    e.Nickname,
		AvatarColor: e.AvatarColor,
		AvatarEmoji: e.AvatarEmoji,
		Activity:    e.Activity,
		LastSeen:    e.LastSeen,
		PublicKey:   e.PublicKey,
	})
	if err != nil {
		c.Session.Log.Logf("profile cache write failed: %v", err)
	}
}

// OpenRoom focuses a room: join intents, unread reset, fresh view, history
// request. Also resolves the peer's public key for direct rooms when it is
// not known yet, so the first send can already be sealed.
func (c *Client) OpenRoom(roomID string) error {
	room, known := c.Session.Rooms.Room(roomID)
	if !known {
		return ErrNotInitialized.WithDetails("unknown room: " + roomID)
	}

	previous := c.Session.Rooms.Focus(roomID)
	if previous != roomID {
		c.Session.Typing.FocusChanged(previous)
		c.Session.ClearMessages()
	}

	if err := c.Conn.Emit(models.JoinIntent{Room: roomID}); err != nil {
		return err
	}
	if room.Kind == models.Direct {
		if err := c.Conn.Emit(models.JoinDMIntent{Username: room.PeerUsername}); err != nil {
			return err
		}
		if room.PeerPublicKey == "" {
			c.resolvePeerKey(roomID, room.PeerUsername)
		}
	}
	if err := c.Conn.Emit(models.RequestHistoryIntent{Room: roomID}); err != nil {
		return err
	}
	c.changed()
	return nil
}

func (c *Client) resolvePeerKey(roomID, peer string) {
	profile, err := c.API.FetchProfile(peer)
	if err != nil {
		c.Session.Log.Logf("peer key lookup for %s failed: %v", peer, err)
		return
	}
	if profile.PublicKey != "" {
		c.Session.Rooms.Upsert(models.Room{ID: roomID, PeerPublicKey: profile.PublicKey})
	}
}

// ReplyDraft is the user's pending quoted reply.
type ReplyDraft struct {
	ToID     models.MessageID
	Content  string
	Nickname string
}

// NewReplyDraft builds a bounded draft from a visible message.
func NewReplyDraft(msg models.DisplayMessage) ReplyDraft {
	return ReplyDraft{
		ToID:     msg.ID,
		Content:  utils.ClampRunes(msg.Content, replyExcerptRunes, "..."),
		Nickname: msg.Nickname,
	}
}

// SendMessage emits a send intent for the focused room. Direct rooms with a
// known peer key get the body sealed; any cryptographic failure falls back
// to a plaintext send rather than failing the message.
func (c *Client) SendMessage(content string, reply *ReplyDraft) error {
	focused := c.Session.Rooms.Focused()
	if focused == "" {
		return ErrNoRoomFocused
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyMessage
	}
	content = utils.ClampRunes(content, maxContentRunes, "")

	encrypted := false
	if room, ok := c.Session.Rooms.Room(focused); ok &&
		room.Kind == models.Direct && room.HasPublicKey() && c.Keys.Ready() {
		if ct, err := c.Keys.EncryptFor(content, room.PeerPublicKey); err == nil {
			content = ct
			encrypted = true
		} else {
			c.Session.Log.Logf("encrypt for %s failed, sending plaintext: %v", focused, err)
		}
	}

	intent := models.SendMessageIntent{
		Room:        focused,
		Content:     content,
		IsEncrypted: encrypted,
	}
	if reply != nil {
		intent.ReplyToID = reply.ToID
		intent.ReplyContent = reply.Content
		intent.ReplyNickname = reply.Nickname
	}
	if err := c.Conn.Emit(intent); err != nil {
		return ErrSendMessageFailed.WithDetails(err.Error())
	}

	// Input is empty after a send; the typing machine goes idle.
	c.Session.Typing.Input(focused, "")
	return nil
}

// InputChanged feeds the input box content into the typing state machine.
func (c *Client) InputChanged(text string) {
	c.Session.Typing.Input(c.Session.Rooms.Focused(), text)
}

// UpdateProfile posts profile edits to the server.
func (c *Client) UpdateProfile(edit models.ProfileEdit) error {
	return c.API.UpdateProfile(edit)
}

// SetThemeColor persists the selected theme color locally.
func (c *Client) SetThemeColor(color string) error {
	if c.Session.DB == nil {
		return storage.ErrDBNotConnected
	}
	return c.Session.DB.SaveSetting(context.Background(), "theme_color", color)
}
