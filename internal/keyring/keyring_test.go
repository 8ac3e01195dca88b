package keyring

import (
	"context"
	"testing"

	"cloudchat/internal/crypto"
	"cloudchat/internal/storage"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate())
	return db
}

func TestEnsureKeysGeneratesAndPersists(t *testing.T) {
	ctx := context.Background()
	db := testStore(t)

	var publishedID, publishedKey string
	publish := func(identity, publicKey string) error {
		publishedID, publishedKey = identity, publicKey
		return nil
	}

	kr := EnsureKeys(ctx, db, "alice", "hunter2", publish, nil)
	require.True(t, kr.Ready())
	require.NotEmpty(t, kr.PublicExport())
	require.Equal(t, "alice", publishedID)
	require.Equal(t, kr.PublicExport(), publishedKey)

	rec, err := db.GetKeyMaterial(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, kr.PublicExport(), rec.PublicKey)
	require.NotEmpty(t, rec.SealedPrivate)
}

func TestEnsureKeysReloadsSamePair(t *testing.T) {
	ctx := context.Background()
	db := testStore(t)

	first := EnsureKeys(ctx, db, "alice", "hunter2", nil, nil)
	require.True(t, first.Ready())

	ct, err := first.EncryptFor("remember me", first.PublicExport())
	require.NoError(t, err)

	second := EnsureKeys(ctx, db, "alice", "hunter2", nil, nil)
	require.True(t, second.Ready())
	require.Equal(t, first.PublicExport(), second.PublicExport())

	pt, err := second.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, "remember me", pt)
}

func TestEnsureKeysWrongPassphraseDegrades(t *testing.T) {
	ctx := context.Background()
	db := testStore(t)

	require.True(t, EnsureKeys(ctx, db, "alice", "hunter2", nil, nil).Ready())

	kr := EnsureKeys(ctx, db, "alice", "wrong", nil, nil)
	require.False(t, kr.Ready())
	require.Empty(t, kr.PublicExport())

	_, err := kr.Decrypt("anything")
	require.ErrorIs(t, err, crypto.ErrNoKeys)
}

func TestEnsureKeysPublishFailureNotFatal(t *testing.T) {
	ctx := context.Background()
	db := testStore(t)

	publish := func(identity, publicKey string) error {
		return crypto.ErrBadKey.WithDetails("directory down")
	}
	kr := EnsureKeys(ctx, db, "alice", "hunter2", publish, nil)
	require.True(t, kr.Ready())
}

func TestEnsureKeysPerIdentityMaterial(t *testing.T) {
	ctx := context.Background()
	db := testStore(t)

	alice := EnsureKeys(ctx, db, "alice", "pw-a", nil, nil)
	bob := EnsureKeys(ctx, db, "bob", "pw-b", nil, nil)
	require.True(t, alice.Ready())
	require.True(t, bob.Ready())
	require.NotEqual(t, alice.PublicExport(), bob.PublicExport())
}

func TestSealUnsealRoundTrip(t *testing.T) {
	pair, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	rec, err := seal("alice", pair, "hunter2")
	require.NoError(t, err)
	require.Len(t, rec.Salt, 16)

	got, err := unseal(rec, "hunter2")
	require.NoError(t, err)
	require.True(t, pair.Private.Equal(got.Private))

	_, err = unseal(rec, "wrong")
	require.Error(t, err)
}

func TestUnsealTruncatedBlob(t *testing.T) {
	rec := &storage.KeyRecord{Salt: make([]byte, 16), SealedPrivate: []byte{1, 2, 3}}
	_, err := unseal(rec, "pw")
	require.ErrorIs(t, err, crypto.ErrBadKey)
}
