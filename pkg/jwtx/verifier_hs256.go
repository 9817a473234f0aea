package jwtx

import "github.com/golang-jwt/jwt/v5"

// HS256Verifier validates tokens signed by an HS256Signer with the same secret.
type HS256Verifier struct {
	kid    string
	secret []byte
	issuer string
}

func newHS256Verifier(secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{kid: secretKID(secret), secret: secret, issuer: issuer}
}

func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	return parseWithKey(tokenStr, jwt.SigningMethodHS256, v.kid, v.secret, v.issuer)
}
