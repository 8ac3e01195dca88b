package client

import (
	"testing"
	"time"

	"cloudchat/internal/models"

	"github.com/stretchr/testify/require"
)

func incoming(room, content string, self bool, at time.Time) *models.DisplayMessage {
	return &models.DisplayMessage{
		Room:      room,
		Content:   content,
		Self:      self,
		Timestamp: at,
	}
}

func TestRoomStoreUnreadCounting(t *testing.T) {
	rs := NewRoomStore("alice")
	rs.Upsert(models.Room{ID: "alice_bob", Name: "Bob", Kind: models.Direct, Unread: 3})
	rs.Upsert(models.Room{ID: models.GlobalRoom, Name: models.GlobalRoom, Kind: models.Broadcast})
	rs.Focus(models.GlobalRoom)

	renderable := rs.RecordIncoming(incoming("alice_bob", "hey", false, time.Now()))
	require.False(t, renderable)
	require.Equal(t, 4, rs.Unread("alice_bob"))

	room, ok := rs.Room("alice_bob")
	require.True(t, ok)
	require.Equal(t, "hey", room.LastPreview)
}

func TestRoomStoreFocusedMessagesNotCounted(t *testing.T) {
	rs := NewRoomStore("alice")
	rs.Upsert(models.Room{ID: "alice_bob", Kind: models.Direct})
	rs.Focus("alice_bob")

	renderable := rs.RecordIncoming(incoming("alice_bob", "hi", false, time.Now()))
	require.True(t, renderable)
	require.Equal(t, 0, rs.Unread("alice_bob"))
}

func TestRoomStoreFocusResetsOnlyThatRoom(t *testing.T) {
	rs := NewRoomStore("alice")
	rs.Upsert(models.Room{ID: "alice_bob", Kind: models.Direct, Unread: 5})
	rs.Upsert(models.Room{ID: "alice_carol", Kind: models.Direct, Unread: 2})

	prev := rs.Focus("alice_bob")
	require.Equal(t, "", prev)
	require.Equal(t, 0, rs.Unread("alice_bob"))
	require.Equal(t, 2, rs.Unread("alice_carol"))

	prev = rs.Focus("alice_carol")
	require.Equal(t, "alice_bob", prev)
	require.Equal(t, 0, rs.Unread("alice_carol"))
}

func TestRoomStoreSelfPreviewPrefix(t *testing.T) {
	rs := NewRoomStore("alice")
	rs.Upsert(models.Room{ID: "alice_bob", Kind: models.Direct})
	rs.Focus("alice_bob")

	rs.RecordIncoming(incoming("alice_bob", "on my way", true, time.Now()))
	room, _ := rs.Room("alice_bob")
	require.Equal(t, "you: on my way", room.LastPreview)
}

func TestRoomStorePreviewTruncation(t *testing.T) {
	rs := NewRoomStore("alice")
	long := "0123456789012345678901234567890123456789"
	rs.RecordIncoming(incoming("alice_bob", long, false, time.Now()))

	room, _ := rs.Room("alice_bob")
	require.Equal(t, "012345678901234567890123456789", room.LastPreview)
}

func TestRoomStoreActivityOrdering(t *testing.T) {
	rs := NewRoomStore("alice")
	base := time.Now().Add(-time.Hour)
	rs.RecordIncoming(incoming("alice_bob", "old", false, base))
	rs.RecordIncoming(incoming("alice_carol", "newer", false, base.Add(time.Minute)))
	rs.Upsert(models.Room{ID: "alice_zed", Name: "Zed", Kind: models.Direct})
	rs.Upsert(models.Room{ID: "alice_amy", Name: "Amy", Kind: models.Direct})

	active := rs.ActiveRooms()
	require.Len(t, active, 2)
	require.Equal(t, "alice_carol", active[0].ID)
	require.Equal(t, "alice_bob", active[1].ID)

	contacts := rs.Contacts()
	require.Len(t, contacts, 2)
	require.Equal(t, "Amy", contacts[0].Name)
	require.Equal(t, "Zed", contacts[1].Name)
}

func TestRoomStoreNewMessagePromotesRoom(t *testing.T) {
	rs := NewRoomStore("alice")
	base := time.Now().Add(-time.Hour)
	rs.RecordIncoming(incoming("alice_bob", "first", false, base))
	rs.RecordIncoming(incoming("alice_carol", "second", false, base.Add(time.Minute)))

	// A fresh message in the older room moves it to the top.
	rs.RecordIncoming(incoming("alice_bob", "third", false, base.Add(2*time.Minute)))
	active := rs.ActiveRooms()
	require.Equal(t, "alice_bob", active[0].ID)
}

func TestRoomStoreUpsertPreservesUnread(t *testing.T) {
	rs := NewRoomStore("alice")
	rs.Upsert(models.Room{ID: "alice_bob", Name: "Bob", Kind: models.Direct, Unread: 7})

	// A directory refresh must not clobber the counter.
	rs.Upsert(models.Room{ID: "alice_bob", Name: "Bobby", Kind: models.Direct})
	require.Equal(t, 7, rs.Unread("alice_bob"))
	room, _ := rs.Room("alice_bob")
	require.Equal(t, "Bobby", room.Name)
}

func TestRoomStoreUpsertKeepsKindOnPartialUpdate(t *testing.T) {
	rs := NewRoomStore("alice")
	rs.Upsert(models.Room{ID: "alice_bob", Kind: models.Direct, PeerUsername: "bob"})

	// A key refresh carries only the id and the key.
	rs.Upsert(models.Room{ID: "alice_bob", PeerPublicKey: "bob-key"})

	room, _ := rs.Room("alice_bob")
	require.Equal(t, models.Direct, room.Kind)
	require.Equal(t, "bob-key", room.PeerPublicKey)
	require.Equal(t, "bob", room.PeerUsername)
}

func TestRoomStoreUpsertUpgradesUnspecifiedKind(t *testing.T) {
	rs := NewRoomStore("alice")

	// A message for an unknown room materializes it with no kind yet; the
	// directory refresh fills it in.
	rs.RecordIncoming(incoming("alice_bob", "hi", false, time.Now()))
	rs.Upsert(models.Room{ID: "alice_bob", Kind: models.Direct, PeerUsername: "bob"})

	room, _ := rs.Room("alice_bob")
	require.Equal(t, models.Direct, room.Kind)
}

func TestRoomStoreUnreadBadge(t *testing.T) {
	rs := NewRoomStore("alice")
	require.Equal(t, "", rs.UnreadBadge())

	rs.Upsert(models.Room{ID: "alice_bob", Kind: models.Direct, Unread: 5})
	require.Equal(t, "5", rs.UnreadBadge())

	rs.Upsert(models.Room{ID: "alice_carol", Kind: models.Direct, Unread: 200})
	require.Equal(t, "99+", rs.UnreadBadge())
	require.Equal(t, 205, rs.TotalUnread())
}

func TestRoomStoreUpdateActivity(t *testing.T) {
	rs := NewRoomStore("alice")
	rs.Upsert(models.Room{ID: "alice_bob", Kind: models.Direct, PeerUsername: "bob"})

	seen := time.Now()
	rs.UpdateActivity("bob", "Away", seen)
	room, _ := rs.Room("alice_bob")
	require.Equal(t, "Away", room.PeerActivity)
	require.Equal(t, seen, room.PeerLastSeen)
}
