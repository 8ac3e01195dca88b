package models

import "time"

// GlobalRoom is the well-known broadcast room identifier.
const GlobalRoom = "#Global"

type RoomKind int

const (
	Broadcast RoomKind = iota
	Direct
	Group
)

func (k RoomKind) String() string {
	switch k {
	case Broadcast:
		return "broadcast"
	case Direct:
		return "direct"
	case Group:
		return "group"
	}
	return "unknown"
}

// Avatar is the color + glyph descriptor used everywhere an avatar shows up.
type Avatar struct {
	Color string `json:"avatar_color"`
	Emoji string `json:"avatar_emoji"`
}

// Room is one conversation channel known to the session. Unread and
// LastPreview are maintained by the room store; display fields merge
// additively on upsert.
type Room struct {
	ID           string
	Name         string
	Avatar       Avatar
	Kind         RoomKind
	Unread       int
	LastPreview  string
	LastActivity time.Time

	// Direct rooms only.
	PeerUsername  string
	PeerPublicKey string // exported key material, "" when the peer has none
	PeerActivity  string
	PeerLastSeen  time.Time
}

// HasPublicKey reports whether encrypted sends to this room are possible.
func (r *Room) HasPublicKey() bool {
	return r.PeerPublicKey != ""
}
