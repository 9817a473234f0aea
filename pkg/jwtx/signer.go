package jwtx

import (
	"errors"
	"fmt"
	"strings"
)

// Supported signing algorithms.
const (
	AlgHS256 = "HS256"
	AlgEdDSA = "EdDSA"
)

// MinHS256SecretLen is the shortest shared secret accepted for HS256.
const MinHS256SecretLen = 32

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	Validate() error
}

// KeyPair is a matched Signer and Verifier for one key.
type KeyPair struct {
	Signer   Signer
	Verifier Verifier
}

// NewHS256 returns a KeyPair backed by a shared secret.
func NewHS256(secret []byte, issuer string) (KeyPair, error) {
	s, err := newHS256Signer(secret)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Signer: s, Verifier: newHS256Verifier(secret, issuer)}, nil
}

// NewEdDSA returns a KeyPair backed by an Ed25519 PKCS8 PEM private key.
func NewEdDSA(pemKey []byte, issuer string) (KeyPair, error) {
	s, err := newEdDSASigner(pemKey)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Signer: s, Verifier: newEdDSAVerifier(s.kid, s.pub, issuer)}, nil
}

// ParseAlg normalises a configured algorithm name.
func ParseAlg(alg string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "HS256":
		return AlgHS256, nil
	case "EDDSA", "ED25519":
		return AlgEdDSA, nil
	default:
		return "", fmt.Errorf("jwtx: unsupported algorithm %q", alg)
	}
}

var errEmptySecret = errors.New("jwtx: HS256 secret is empty")
