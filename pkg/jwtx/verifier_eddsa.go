package jwtx

import (
	"crypto/ed25519"

	"github.com/golang-jwt/jwt/v5"
)

// EdDSAVerifier validates JWTs signed using EdDSA (Ed25519).
type EdDSAVerifier struct {
	kid    string
	pub    ed25519.PublicKey
	issuer string
}

func newEdDSAVerifier(kid string, pub ed25519.PublicKey, issuer string) *EdDSAVerifier {
	return &EdDSAVerifier{kid: kid, pub: pub, issuer: issuer}
}

func (v *EdDSAVerifier) Verify(tokenStr string) (Claims, error) {
	return parseWithKey(tokenStr, jwt.SigningMethodEdDSA, v.kid, v.pub, v.issuer)
}
