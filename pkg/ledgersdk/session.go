package ledgersdk

import (
	"context"
	"net/http"
	"time"
)

// Session is an authenticated client. Tokens are not refreshed; once a
// token expires every call fails with 401 and the caller must log in again.
type Session struct {
	client    *Client
	token     string
	expiresAt time.Time
	user      User
}

func newSession(c *Client, auth *AuthResponse) *Session {
	return &Session{
		client:    c,
		token:     auth.Token,
		expiresAt: auth.ExpiresAt,
		user:      auth.User,
	}
}

// Token returns the bearer token of this session.
func (s *Session) Token() string { return s.token }

// ExpiresAt is when the server stops accepting the token.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// User is the account as it was when the session was opened.
func (s *Session) User() User { return s.user }

// Me fetches the caller's current account.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var out MeResponse
	if err := s.call(ctx, http.MethodGet, "/auth/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	s.user = out.User
	return &out.User, nil
}

func (s *Session) call(ctx context.Context, method, path string, payload, target any, expectedStatus int) error {
	resp, err := s.client.doRequest(ctx, method, path, s.token, payload)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expectedStatus)
}
