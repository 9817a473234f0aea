package jwtx

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Signer signs with HMAC-SHA256 over a shared secret.
type HS256Signer struct {
	kid    string
	secret []byte
}

func newHS256Signer(secret []byte) (*HS256Signer, error) {
	if len(secret) == 0 {
		return nil, errEmptySecret
	}
	return &HS256Signer{kid: secretKID(secret), secret: secret}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }
func (s *HS256Signer) KID() string { return s.kid }

func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.secret)
}

func (s *HS256Signer) Validate() error {
	if len(s.secret) == 0 {
		return errEmptySecret
	}
	return nil
}

// secretKID derives a stable key id from the secret without revealing it.
func secretKID(secret []byte) string {
	sum := sha256.Sum256(secret)
	return base64.RawURLEncoding.EncodeToString(sum[:8])
}
