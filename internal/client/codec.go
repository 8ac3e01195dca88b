package client

import (
	"strings"
	"unicode"

	"cloudchat/internal/keyring"
	"cloudchat/internal/models"
	"cloudchat/internal/utils"
)

// Placeholders rendered when ciphertext cannot be opened. The self variant
// is deliberately distinct: an asymmetric-only scheme seals outgoing
// messages for the recipient's key, so the sender's own encrypted history is
// unreadable on replay. That is a property of the scheme, not a failure.
const (
	PlaceholderUndecryptable = "[encrypted message - cannot be decrypted on this device]"
	PlaceholderSelfEncrypted = "[encrypted message - sealed for the recipient]"
)

const (
	replyExcerptRunes = 50
	maxContentRunes   = 500
)

// Codec converts wire messages into display records: decryption routing,
// placeholder substitution, reply excerpt bounding, and the literal-text
// guarantee. It never fails a message over a crypto problem; only an empty
// body is rejected.
type Codec struct {
	keys *keyring.Keyring
	self string
}

func NewCodec(keys *keyring.Keyring, self string) *Codec {
	return &Codec{keys: keys, self: self}
}

// ToDisplayRecord builds the display record for a wire message. Returns
// ErrEmptyMessage for bodies with no content; such messages are dropped by
// the controller, not rendered and not counted as unread.
func (c *Codec) ToDisplayRecord(w models.WireMessage) (*models.DisplayMessage, error) {
	body := strings.TrimSpace(w.Content)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	self := w.SenderUsername == c.self

	content := body
	if w.IsEncrypted {
		if self {
			content = PlaceholderSelfEncrypted
		} else if pt, err := c.keys.Decrypt(body); err != nil {
			content = PlaceholderUndecryptable
		} else {
			content = pt
		}
	}
	content = utils.ClampRunes(sanitize(content), maxContentRunes, "")

	var reply *models.ReplyRef
	if w.ReplyContent != "" {
		nick := w.ReplyNickname
		if nick == "" {
			nick = "Unknown"
		}
		reply = &models.ReplyRef{
			Nickname: nick,
			Excerpt:  utils.ClampRunes(sanitize(w.ReplyContent), replyExcerptRunes, "..."),
		}
	}

	return &models.DisplayMessage{
		ID:       w.MessageID,
		Room:     w.Room,
		Sender:   w.SenderUsername,
		Nickname: w.SenderNickname,
		Avatar: models.Avatar{
			Color: w.SenderAvatarColor,
			Emoji: w.SenderAvatarEmoji,
		},
		Content:   content,
		Self:      self,
		Encrypted: w.IsEncrypted,
		Reply:     reply,
		Timestamp: w.Time(),
	}, nil
}

// sanitize strips control characters so the body stays inert display text.
// Markup safety is the renderer's second line of defense; the content field
// leaves here carrying nothing executable either way.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
