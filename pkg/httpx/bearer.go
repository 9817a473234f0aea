package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// ErrNoBearer is returned when the Authorization header is absent or does
// not carry a bearer token.
var ErrNoBearer = errors.New("missing bearer token")

// BearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrNoBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoBearer
	}
	return token, nil
}

// WriteBearerChallenge sets an RFC 6750 challenge ahead of a 401 response.
// An empty desc gives the bare challenge for requests that sent no token;
// otherwise the token is reported as invalid_token.
func WriteBearerChallenge(w http.ResponseWriter, desc string) {
	if desc == "" {
		w.Header().Set("WWW-Authenticate", "Bearer")
		return
	}
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
}
