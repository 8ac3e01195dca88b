// Package crypto implements the asymmetric message scheme: RSA-2048 with
// OAEP padding and SHA-256. Key export is format-stable base64 DER (PKIX for
// the public half, PKCS#8 for the private half), byte-compatible with what
// the web client exports, so keys round-trip across sessions and clients.
package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
)

const KeyBits = 2048

type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

func GenerateKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, KeyBits)
	if err != nil {
		return nil, ErrBadKey.WithDetails(err.Error())
	}
	return &KeyPair{Private: priv, Public: &priv.PublicKey}, nil
}

// ExportPublicKey serializes the public half to base64(PKIX DER).
func ExportPublicKey(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", ErrBadKey.WithDetails(err.Error())
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// ExportPrivateKey serializes the private half to base64(PKCS#8 DER).
func ExportPrivateKey(priv *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", ErrBadKey.WithDetails(err.Error())
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

func ImportPublicKey(material string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(material)
	if err != nil {
		return nil, ErrBadKey.WithDetails(err.Error())
	}
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, ErrBadKey.WithDetails(err.Error())
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, ErrBadKey.WithDetails("not an RSA public key")
	}
	return pub, nil
}

func ImportPrivateKey(material string) (*rsa.PrivateKey, error) {
	der, err := base64.StdEncoding.DecodeString(material)
	if err != nil {
		return nil, ErrBadKey.WithDetails(err.Error())
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, ErrBadKey.WithDetails(err.Error())
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrBadKey.WithDetails("not an RSA private key")
	}
	return priv, nil
}

// ImportKeyPair rebuilds a pair from its exported private half.
func ImportKeyPair(privMaterial string) (*KeyPair, error) {
	priv, err := ImportPrivateKey(privMaterial)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Private: priv, Public: &priv.PublicKey}, nil
}
