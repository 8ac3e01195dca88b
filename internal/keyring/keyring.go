// Package keyring owns the lifecycle of the local identity's key pair:
// load-or-generate, seal at rest, publish the public half. The private half
// never leaves the machine; at rest it is sealed with an argon2id-derived
// key and ChaCha20-Poly1305.
//
// The scheme is asymmetric-only. A sender cannot decrypt their own sent
// ciphertext on replay because it was sealed for the recipient's key; that
// is an inherent property of the scheme, and the codec renders a dedicated
// placeholder for it rather than working around it.
package keyring

import (
	"context"
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
	chacha "golang.org/x/crypto/chacha20poly1305"

	"cloudchat/internal/crypto"
	"cloudchat/internal/storage"
	"cloudchat/internal/utils"
)

// Publisher registers the public half with the server-side directory.
type Publisher func(identity, publicKey string) error

type Keyring struct {
	identity string
	pair     *crypto.KeyPair
	public   string // exported public half
	log      *utils.RemoteLogger
}

// EnsureKeys loads the persisted pair for identity, or generates, persists
// and publishes a fresh one. It never fails hard: any error degrades into a
// keyring with no material, which means "no encryption available" — sends
// fall back to plaintext and decrypts resolve to placeholders.
func EnsureKeys(ctx context.Context, store *storage.Store, identity, passphrase string, publish Publisher, log *utils.RemoteLogger) *Keyring {
	kr := &Keyring{identity: identity, log: log}

	rec, err := store.GetKeyMaterial(ctx, identity)
	switch {
	case err == nil:
		pair, perr := unseal(rec, passphrase)
		if perr != nil {
			log.Logf("keyring: unseal for %s failed: %v", identity, perr)
			return kr
		}
		kr.pair = pair
		kr.public = rec.PublicKey
	case errors.Is(err, storage.ErrNoRows):
		pair, gerr := crypto.GenerateKeyPair()
		if gerr != nil {
			log.Logf("keyring: generate for %s failed: %v", identity, gerr)
			return kr
		}
		rec, serr := seal(identity, pair, passphrase)
		if serr != nil {
			log.Logf("keyring: seal for %s failed: %v", identity, serr)
			return kr
		}
		if serr := store.SaveKeyMaterial(ctx, rec); serr != nil {
			log.Logf("keyring: persist for %s failed: %v", identity, serr)
			return kr
		}
		kr.pair = pair
		kr.public = rec.PublicKey
	default:
		log.Logf("keyring: load for %s failed: %v", identity, err)
		return kr
	}

	if publish != nil {
		if perr := publish(identity, kr.public); perr != nil {
			// Directory registration is retried on the next session; local
			// encryption still works.
			log.Logf("keyring: publish for %s failed: %v", identity, perr)
		}
	}
	return kr
}

// Ready reports whether key material is available. Decrypt before Ready is
// true resolves to the placeholder path, never a crash.
func (k *Keyring) Ready() bool {
	return k != nil && k.pair != nil
}

// PublicExport returns the exported public half, "" when unavailable.
func (k *Keyring) PublicExport() string {
	if k == nil {
		return ""
	}
	return k.public
}

// EncryptFor seals plaintext for a peer's exported public key.
func (k *Keyring) EncryptFor(plaintext, peerPublicKey string) (string, error) {
	return crypto.EncryptFor(plaintext, peerPublicKey)
}

// Decrypt opens ciphertext with the local private key.
func (k *Keyring) Decrypt(ciphertext string) (string, error) {
	if !k.Ready() {
		return "", crypto.ErrNoKeys
	}
	return k.pair.Decrypt(ciphertext)
}

func sealingKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, chacha.KeySize)
}

func seal(identity string, pair *crypto.KeyPair, passphrase string) (*storage.KeyRecord, error) {
	pub, err := crypto.ExportPublicKey(pair.Public)
	if err != nil {
		return nil, err
	}
	priv, err := crypto.ExportPrivateKey(pair.Private)
	if err != nil {
		return nil, err
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	aead, err := chacha.New(sealingKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	sealed := aead.Seal(nonce, nonce, []byte(priv), nil)

	return &storage.KeyRecord{
		Identity:      identity,
		PublicKey:     pub,
		Salt:          salt,
		SealedPrivate: sealed,
	}, nil
}

func unseal(rec *storage.KeyRecord, passphrase string) (*crypto.KeyPair, error) {
	aead, err := chacha.New(sealingKey(passphrase, rec.Salt))
	if err != nil {
		return nil, err
	}
	if len(rec.SealedPrivate) < aead.NonceSize() {
		return nil, crypto.ErrBadKey.WithDetails("sealed blob too short")
	}
	nonce := rec.SealedPrivate[:aead.NonceSize()]
	priv, err := aead.Open(nil, nonce, rec.SealedPrivate[aead.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	return crypto.ImportKeyPair(string(priv))
}
