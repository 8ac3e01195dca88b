package client

import (
	"context"
	"strings"
	"testing"

	"cloudchat/internal/keyring"
	"cloudchat/internal/models"
	"cloudchat/internal/storage"

	"github.com/stretchr/testify/require"
)

func testKeyring(t *testing.T, identity string) *keyring.Keyring {
	t.Helper()
	db, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate())

	keys := keyring.EnsureKeys(context.Background(), db, identity, "hunter2", nil, nil)
	require.True(t, keys.Ready())
	return keys
}

func TestCodecPlaintextPassthrough(t *testing.T) {
	c := NewCodec(nil, "alice")

	disp, err := c.ToDisplayRecord(models.WireMessage{
		MessageID:      "1",
		Room:           models.GlobalRoom,
		Content:        "hello world",
		SenderUsername: "bob",
		SenderNickname: "Bob",
	})
	require.NoError(t, err)
	require.Equal(t, "hello world", disp.Content)
	require.False(t, disp.Self)
	require.False(t, disp.Encrypted)
}

func TestCodecDecryptsForLocalKey(t *testing.T) {
	keys := testKeyring(t, "alice")
	c := NewCodec(keys, "alice")

	ct, err := keys.EncryptFor("secret plans", keys.PublicExport())
	require.NoError(t, err)

	disp, err := c.ToDisplayRecord(models.WireMessage{
		MessageID:      "1",
		Room:           "alice_bob",
		Content:        ct,
		IsEncrypted:    true,
		SenderUsername: "bob",
	})
	require.NoError(t, err)
	require.Equal(t, "secret plans", disp.Content)
	require.True(t, disp.Encrypted)
}

func TestCodecSelfEncryptedPlaceholder(t *testing.T) {
	keys := testKeyring(t, "alice")
	c := NewCodec(keys, "alice")

	// Own sent ciphertext was sealed for the peer; it can never open here.
	disp, err := c.ToDisplayRecord(models.WireMessage{
		MessageID:      "1",
		Room:           "alice_bob",
		Content:        "b64-ciphertext-for-bob",
		IsEncrypted:    true,
		SenderUsername: "alice",
	})
	require.NoError(t, err)
	require.Equal(t, PlaceholderSelfEncrypted, disp.Content)
	require.True(t, disp.Self)
}

func TestCodecUndecryptablePlaceholder(t *testing.T) {
	keys := testKeyring(t, "alice")
	c := NewCodec(keys, "alice")

	disp, err := c.ToDisplayRecord(models.WireMessage{
		MessageID:      "1",
		Room:           "alice_bob",
		Content:        "bm90IGEgcmVhbCBjaXBoZXJ0ZXh0",
		IsEncrypted:    true,
		SenderUsername: "bob",
	})
	require.NoError(t, err)
	require.Equal(t, PlaceholderUndecryptable, disp.Content)
}

func TestCodecNoKeysPlaceholder(t *testing.T) {
	c := NewCodec(nil, "alice")

	disp, err := c.ToDisplayRecord(models.WireMessage{
		MessageID:      "1",
		Room:           "alice_bob",
		Content:        "whatever",
		IsEncrypted:    true,
		SenderUsername: "bob",
	})
	require.NoError(t, err)
	require.Equal(t, PlaceholderUndecryptable, disp.Content)
}

func TestCodecRejectsEmptyBody(t *testing.T) {
	c := NewCodec(nil, "alice")

	_, err := c.ToDisplayRecord(models.WireMessage{MessageID: "1", Room: "alice_bob"})
	require.ErrorIs(t, err, ErrEmptyMessage)

	_, err = c.ToDisplayRecord(models.WireMessage{MessageID: "2", Room: "alice_bob", Content: "   \n\t "})
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestCodecReplyExcerptBounded(t *testing.T) {
	c := NewCodec(nil, "alice")
	long := strings.Repeat("x", 80)

	disp, err := c.ToDisplayRecord(models.WireMessage{
		MessageID:      "1",
		Room:           "alice_bob",
		Content:        "reply body",
		SenderUsername: "bob",
		ReplyContent:   long,
		ReplyNickname:  "Carol",
	})
	require.NoError(t, err)
	require.NotNil(t, disp.Reply)
	require.Equal(t, "Carol", disp.Reply.Nickname)
	require.Equal(t, strings.Repeat("x", 50)+"...", disp.Reply.Excerpt)
}

func TestCodecReplyNicknameDefault(t *testing.T) {
	c := NewCodec(nil, "alice")

	disp, err := c.ToDisplayRecord(models.WireMessage{
		MessageID:      "1",
		Room:           "alice_bob",
		Content:        "reply body",
		SenderUsername: "bob",
		ReplyContent:   "quoted",
	})
	require.NoError(t, err)
	require.Equal(t, "Unknown", disp.Reply.Nickname)
}

func TestCodecStripsControlCharacters(t *testing.T) {
	c := NewCodec(nil, "alice")

	disp, err := c.ToDisplayRecord(models.WireMessage{
		MessageID:      "1",
		Room:           "alice_bob",
		Content:        "a\x00b\x1bc\nd\te",
		SenderUsername: "bob",
	})
	require.NoError(t, err)
	require.Equal(t, "abc\nd\te", disp.Content)
}

func TestCodecClampsOversizeBody(t *testing.T) {
	c := NewCodec(nil, "alice")

	disp, err := c.ToDisplayRecord(models.WireMessage{
		MessageID:      "1",
		Room:           "alice_bob",
		Content:        strings.Repeat("y", 900),
		SenderUsername: "bob",
	})
	require.NoError(t, err)
	require.Equal(t, 500, len([]rune(disp.Content)))
}
