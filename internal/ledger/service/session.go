package service

import (
	"time"

	"github.com/aussiebroadwan/ledger/pkg/jwtx"
)

// SessionIssuer mints and checks the stateless bearer credential. There is
// no refresh; logging in again is the only renewal path.
type SessionIssuer struct {
	Keys   jwtx.KeyPair
	Issuer string
	TTL    time.Duration

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *SessionIssuer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SessionIssuer) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return jwtx.DefaultSessionTTL
}

// Issue returns a signed token for userID and when it expires.
func (s *SessionIssuer) Issue(userID string) (string, time.Time, error) {
	claims := jwtx.NewSessionClaims(userID, s.Issuer, s.ttl(), s.now())
	token, err := s.Keys.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// Verify returns the user id carried by token. Any failure is ErrInvalidToken.
func (s *SessionIssuer) Verify(token string) (string, error) {
	claims, err := s.Keys.Verifier.Verify(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	if err := claims.ValidateSubject(); err != nil {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
