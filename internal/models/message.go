// Package models defines the data records shared across the client core.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// MessageID is the server-assigned message identifier, used as the dedup key.
// Some server versions emit it as a JSON number, newer ones as a string; both
// decode to the same opaque value.
type MessageID string

func (id *MessageID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = MessageID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = MessageID(n.String())
	return nil
}

func (id MessageID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// WireMessage is a message record as delivered by the transport, either live
// (new_message) or inside a history batch.
type WireMessage struct {
	MessageID         MessageID `json:"message_id"`
	Room              string    `json:"room"`
	Content           string    `json:"content"`
	IsEncrypted       bool      `json:"is_encrypted"`
	SenderUsername    string    `json:"sender_username"`
	SenderNickname    string    `json:"sender_nickname"`
	SenderAvatarColor string    `json:"sender_avatar_color"`
	SenderAvatarEmoji string    `json:"sender_avatar_emoji"`
	Timestamp         float64   `json:"timestamp"`
	ReplyToID         MessageID `json:"reply_to_id,omitempty"`
	ReplyContent      string    `json:"reply_content,omitempty"`
	ReplyNickname     string    `json:"reply_nickname,omitempty"`
}

// Time converts the float-seconds wire timestamp.
func (w WireMessage) Time() time.Time {
	sec := int64(w.Timestamp)
	nsec := int64((w.Timestamp - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// ReplyRef is a bounded quoted reference carried on a display record.
type ReplyRef struct {
	Nickname string
	Excerpt  string
}

// DisplayMessage is the rendered form of a wire message. Content is always
// literal text; decryption and placeholder substitution have already been
// applied by the codec.
type DisplayMessage struct {
	ID        MessageID
	Room      string
	Sender    string
	Nickname  string
	Avatar    Avatar
	Content   string
	Self      bool
	Encrypted bool
	Reply     *ReplyRef
	Timestamp time.Time
}

// ParseFloatSeconds is a helper for fields like last_seen that share the
// float-precision epoch convention.
func ParseFloatSeconds(v float64) time.Time {
	sec := int64(v)
	nsec := int64((v - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
