package client

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"cloudchat/internal/models"
	"cloudchat/internal/utils"
)

const previewRunes = 30

// RoomStore holds every room the session knows about, plus which one is
// focused. All mutation happens on the controller's event loop; the lock
// exists for the render boundary's read accessors.
type RoomStore struct {
	mu      sync.RWMutex
	rooms   map[string]*models.Room
	focused string
	self    string
}

func NewRoomStore(self string) *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*models.Room),
		self:  self,
	}
}

// Upsert inserts or merges room metadata. Display fields overwrite when the
// descriptor carries them; unread and activity state are preserved unless
// the descriptor explicitly carries newer activity.
func (rs *RoomStore) Upsert(desc models.Room) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	existing, ok := rs.rooms[desc.ID]
	if !ok {
		room := desc
		rs.rooms[desc.ID] = &room
		return
	}
	if desc.Name != "" {
		existing.Name = desc.Name
	}
	if desc.Avatar.Color != "" {
		existing.Avatar.Color = desc.Avatar.Color
	}
	if desc.Avatar.Emoji != "" {
		existing.Avatar.Emoji = desc.Avatar.Emoji
	}
	if desc.PeerUsername != "" {
		existing.PeerUsername = desc.PeerUsername
	}
	if desc.PeerPublicKey != "" {
		existing.PeerPublicKey = desc.PeerPublicKey
	}
	if desc.LastPreview != "" && desc.LastActivity.After(existing.LastActivity) {
		existing.LastPreview = desc.LastPreview
		existing.LastActivity = desc.LastActivity
	}
	// The zero kind doubles as "unspecified": partial descriptors (a peer
	// key refresh, say) must not downgrade a Direct room to Broadcast.
	if desc.Kind != models.Broadcast {
		existing.Kind = desc.Kind
	}
}

// Focus makes roomID the focused room and resets its unread counter.
// Focusing the already-focused room is a no-op beyond the reset. Returns the
// previously focused room id.
func (rs *RoomStore) Focus(roomID string) (previous string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	previous = rs.focused
	rs.focused = roomID
	if room, ok := rs.rooms[roomID]; ok {
		room.Unread = 0
	}
	return previous
}

func (rs *RoomStore) Focused() string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.focused
}

// RecordIncoming applies a message to room state. For a non-focused room it
// bumps unread by one, rewrites the preview and promotes the room to the top
// of the activity ordering, returning false. For the focused room it leaves
// unread state alone and returns true: the message belongs to the view.
func (rs *RoomStore) RecordIncoming(msg *models.DisplayMessage) (renderable bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	room, ok := rs.rooms[msg.Room]
	if !ok {
		room = &models.Room{ID: msg.Room}
		rs.rooms[msg.Room] = room
	}

	preview := utils.PreviewText(msg.Content, previewRunes)
	if msg.Self {
		preview = "you: " + preview
	}
	room.LastPreview = preview
	if msg.Timestamp.After(room.LastActivity) {
		room.LastActivity = msg.Timestamp
	} else {
		// Promote anyway; "most recent" is defined by arrival here.
		room.LastActivity = time.Now()
	}

	if msg.Room == rs.focused {
		return true
	}
	room.Unread++
	return false
}

// UpdateActivity refreshes presence on the direct room for username, if any.
func (rs *RoomStore) UpdateActivity(username, activity string, lastSeen time.Time) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	id := utils.DMRoomID(rs.self, username)
	if room, ok := rs.rooms[id]; ok {
		room.PeerActivity = activity
		room.PeerLastSeen = lastSeen
	}
}

// ActiveRooms returns rooms with activity, most recent first.
func (rs *RoomStore) ActiveRooms() []models.Room {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]models.Room, 0, len(rs.rooms))
	for _, room := range rs.rooms {
		if room.LastPreview != "" || !room.LastActivity.IsZero() {
			out = append(out, *room)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out
}

// Contacts returns rooms that never carried a message (pure contacts),
// alphabetical by name.
func (rs *RoomStore) Contacts() []models.Room {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]models.Room, 0, len(rs.rooms))
	for _, room := range rs.rooms {
		if room.LastPreview == "" && room.LastActivity.IsZero() {
			out = append(out, *room)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func (rs *RoomStore) Room(roomID string) (models.Room, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	room, ok := rs.rooms[roomID]
	if !ok {
		return models.Room{}, false
	}
	return *room, true
}

func (rs *RoomStore) Unread(roomID string) int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	if room, ok := rs.rooms[roomID]; ok {
		return room.Unread
	}
	return 0
}

func (rs *RoomStore) TotalUnread() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	total := 0
	for _, room := range rs.rooms {
		total += room.Unread
	}
	return total
}

// UnreadBadge is the render form of the total: "" when zero, clamped to
// "99+" above 99. The exact count stays queryable through TotalUnread.
func (rs *RoomStore) UnreadBadge() string {
	total := rs.TotalUnread()
	switch {
	case total <= 0:
		return ""
	case total > 99:
		return "99+"
	}
	return strconv.Itoa(total)
}

// Reset drops all rooms and focus, for session teardown.
func (rs *RoomStore) Reset() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.rooms = make(map[string]*models.Room)
	rs.focused = ""
}
