package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeEventNewMessage(t *testing.T) {
	data := []byte(`{
		"message_id": 42,
		"room": "#Global",
		"content": "hello",
		"is_encrypted": false,
		"sender_username": "bob",
		"sender_nickname": "Bob",
		"timestamp": 1700000000.5
	}`)
	ev, err := DecodeEvent("new_message", data)
	require.NoError(t, err)

	msg, ok := ev.(NewMessageEvent)
	require.True(t, ok)
	require.Equal(t, MessageID("42"), msg.MessageID)
	require.Equal(t, "#Global", msg.Room)
	require.Equal(t, "hello", msg.Content)
}

func TestDecodeEventHistory(t *testing.T) {
	data := []byte(`{
		"room": "alice_bob",
		"messages": [
			{"message_id": "1", "room": "alice_bob", "content": "a", "sender_username": "bob"},
			{"message_id": 2, "room": "alice_bob", "content": "b", "sender_username": "alice"}
		]
	}`)
	ev, err := DecodeEvent("message_history", data)
	require.NoError(t, err)

	hist, ok := ev.(MessageHistoryEvent)
	require.True(t, ok)
	require.Equal(t, "alice_bob", hist.Room)
	require.Len(t, hist.Messages, 2)
	require.Equal(t, MessageID("1"), hist.Messages[0].MessageID)
	require.Equal(t, MessageID("2"), hist.Messages[1].MessageID)
}

func TestDecodeEventTyping(t *testing.T) {
	ev, err := DecodeEvent("display_typing", []byte(`{"room":"alice_bob","username":"bob","state":"typing"}`))
	require.NoError(t, err)

	typing, ok := ev.(DisplayTypingEvent)
	require.True(t, ok)
	require.Equal(t, WireTyping, typing.State)
}

func TestDecodeEventActivity(t *testing.T) {
	ev, err := DecodeEvent("activity_update", []byte(`{"username":"bob","activity":"Away","last_seen":1700000000.5}`))
	require.NoError(t, err)

	act, ok := ev.(ActivityUpdateEvent)
	require.True(t, ok)
	require.Equal(t, "Away", act.Activity)
	require.Equal(t, 1700000000.5, act.LastSeen)
}

func TestDecodeEventForceDisconnect(t *testing.T) {
	ev, err := DecodeEvent("force_disconnect", []byte(`{"username":"alice"}`))
	require.NoError(t, err)
	require.Equal(t, ForceDisconnectEvent{Username: "alice"}, ev)
}

func TestDecodeEventUnknownKind(t *testing.T) {
	_, err := DecodeEvent("server_gossip", []byte(`{}`))
	require.Error(t, err)
}

func TestDecodeEventMalformedPayload(t *testing.T) {
	_, err := DecodeEvent("new_message", []byte(`{"room": 7}`))
	require.Error(t, err)
}

func TestMessageIDAcceptsNumberStringNull(t *testing.T) {
	var w WireMessage
	require.NoError(t, json.Unmarshal([]byte(`{"message_id": 123}`), &w))
	require.Equal(t, MessageID("123"), w.MessageID)

	require.NoError(t, json.Unmarshal([]byte(`{"message_id": "abc"}`), &w))
	require.Equal(t, MessageID("abc"), w.MessageID)

	require.NoError(t, json.Unmarshal([]byte(`{"message_id": null}`), &w))
	require.Equal(t, MessageID(""), w.MessageID)
}

func TestWireMessageTime(t *testing.T) {
	w := WireMessage{Timestamp: 1700000000.5}
	got := w.Time()
	require.Equal(t, int64(1700000000), got.Unix())
	require.InDelta(t, 5e8, float64(got.Nanosecond()), 1e3)
}

func TestParseFloatSeconds(t *testing.T) {
	require.True(t, ParseFloatSeconds(0).Equal(time.Unix(0, 0)))
	got := ParseFloatSeconds(1700000000.25)
	require.Equal(t, int64(1700000000), got.Unix())
}

func TestIntentKinds(t *testing.T) {
	require.Equal(t, InJoin, JoinIntent{}.Kind())
	require.Equal(t, InJoinDM, JoinDMIntent{}.Kind())
	require.Equal(t, InRequestHistory, RequestHistoryIntent{}.Kind())
	require.Equal(t, InSendMessage, SendMessageIntent{}.Kind())
	require.Equal(t, InTyping, TypingIntent{}.Kind())
	require.Equal(t, InUpdateActivity, UpdateActivityIntent{}.Kind())
}

func TestSendMessageIntentOmitsEmptyReply(t *testing.T) {
	data, err := json.Marshal(SendMessageIntent{Room: "#Global", Content: "hi"})
	require.NoError(t, err)
	require.NotContains(t, string(data), "reply_to_id")
	require.NotContains(t, string(data), "reply_content")
}
