package models

import (
	"encoding/json"
	"fmt"
)

// EventKind names an inbound transport event.
type EventKind string

const (
	EvNewMessage      EventKind = "new_message"
	EvMessageHistory  EventKind = "message_history"
	EvDisplayTyping   EventKind = "display_typing"
	EvActivityUpdate  EventKind = "activity_update"
	EvForceDisconnect EventKind = "force_disconnect"
)

// Event is the closed union of inbound transport events. Decoding happens
// once at the transport boundary; everything past it switches exhaustively
// on the concrete types.
type Event interface {
	Kind() EventKind
}

type NewMessageEvent struct {
	WireMessage
}

func (NewMessageEvent) Kind() EventKind { return EvNewMessage }

type MessageHistoryEvent struct {
	Room     string        `json:"room"`
	Messages []WireMessage `json:"messages"`
}

func (MessageHistoryEvent) Kind() EventKind { return EvMessageHistory }

// WireTypingState is the remote composition state carried on the wire.
type WireTypingState string

const (
	WireTyping WireTypingState = "typing"
	WirePaused WireTypingState = "paused"
	WireStop   WireTypingState = "stop"
)

type DisplayTypingEvent struct {
	Room     string          `json:"room"`
	Username string          `json:"username"`
	State    WireTypingState `json:"state"`
}

func (DisplayTypingEvent) Kind() EventKind { return EvDisplayTyping }

type ActivityUpdateEvent struct {
	Username string  `json:"username"`
	Activity string  `json:"activity"`
	LastSeen float64 `json:"last_seen"`
}

func (ActivityUpdateEvent) Kind() EventKind { return EvActivityUpdate }

type ForceDisconnectEvent struct {
	Username string `json:"username"`
}

func (ForceDisconnectEvent) Kind() EventKind { return EvForceDisconnect }

// DecodeEvent turns a named transport frame payload into its typed event.
// Unknown names are an error; the transport logs and drops them.
func DecodeEvent(name string, data []byte) (Event, error) {
	var ev Event
	switch EventKind(name) {
	case EvNewMessage:
		ev = new(NewMessageEvent)
	case EvMessageHistory:
		ev = new(MessageHistoryEvent)
	case EvDisplayTyping:
		ev = new(DisplayTypingEvent)
	case EvActivityUpdate:
		ev = new(ActivityUpdateEvent)
	case EvForceDisconnect:
		ev = new(ForceDisconnectEvent)
	default:
		return nil, fmt.Errorf("unknown event kind: %s", name)
	}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, err
	}
	switch v := ev.(type) {
	case *NewMessageEvent:
		return *v, nil
	case *MessageHistoryEvent:
		return *v, nil
	case *DisplayTypingEvent:
		return *v, nil
	case *ActivityUpdateEvent:
		return *v, nil
	case *ForceDisconnectEvent:
		return *v, nil
	}
	return ev, nil
}

// IntentKind names an outbound transport intent.
type IntentKind string

const (
	InJoin           IntentKind = "join"
	InJoinDM         IntentKind = "join_dm"
	InRequestHistory IntentKind = "request_history"
	InSendMessage    IntentKind = "send_message"
	InTyping         IntentKind = "typing_event"
	InUpdateActivity IntentKind = "update_activity"
)

// Intent is the closed union of outbound intents.
type Intent interface {
	Kind() IntentKind
}

type JoinIntent struct {
	Room string `json:"room"`
}

func (JoinIntent) Kind() IntentKind { return InJoin }

type JoinDMIntent struct {
	Username string `json:"username"`
}

func (JoinDMIntent) Kind() IntentKind { return InJoinDM }

type RequestHistoryIntent struct {
	Room string `json:"room"`
}

func (RequestHistoryIntent) Kind() IntentKind { return InRequestHistory }

type SendMessageIntent struct {
	Room          string    `json:"room"`
	Content       string    `json:"content"`
	IsEncrypted   bool      `json:"is_encrypted"`
	ReplyToID     MessageID `json:"reply_to_id,omitempty"`
	ReplyContent  string    `json:"reply_content,omitempty"`
	ReplyNickname string    `json:"reply_nickname,omitempty"`
}

func (SendMessageIntent) Kind() IntentKind { return InSendMessage }

type TypingIntent struct {
	Room  string          `json:"room"`
	State WireTypingState `json:"state"`
}

func (TypingIntent) Kind() IntentKind { return InTyping }

type UpdateActivityIntent struct {
	Activity string `json:"activity"`
}

func (UpdateActivityIntent) Kind() IntentKind { return InUpdateActivity }
