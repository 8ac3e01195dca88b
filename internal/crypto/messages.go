package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
)

// EncryptFor seals UTF-8 plaintext under a peer's exported public key and
// returns base64 ciphertext. Any failure — bad key material, plaintext over
// the OAEP bound (190 bytes for 2048/SHA-256) — comes back as
// ErrEncryptionFailed; the caller falls back to a plaintext send instead of
// failing the message.
func EncryptFor(plaintext string, peerPublicKey string) (string, error) {
	pub, err := ImportPublicKey(peerPublicKey)
	if err != nil {
		return "", ErrEncryptionFailed.WithDetails(err.Error())
	}
	ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, []byte(plaintext), nil)
	if err != nil {
		return "", ErrEncryptionFailed.WithDetails(err.Error())
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// Decrypt opens base64 ciphertext with the pair's private key. There is no
// way to tell a corrupted payload from one sealed for a different recipient;
// both surface as ErrDecryptionFailed and the codec renders a placeholder.
func (kp *KeyPair) Decrypt(ciphertext string) (string, error) {
	if kp == nil || kp.Private == nil {
		return "", ErrNoKeys
	}
	ct, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed.WithDetails(err.Error())
	}
	pt, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, kp.Private, ct, nil)
	if err != nil {
		return "", ErrDecryptionFailed.WithDetails(err.Error())
	}
	return string(pt), nil
}
