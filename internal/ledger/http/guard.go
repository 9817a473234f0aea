package http

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

type identityKey struct{}

func withIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller attached by Guard.Authenticate.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}

// Guard resolves bearer tokens to the live caller and enforces role and
// permission checks.
type Guard struct {
	AuthService *service.AuthService
}

// Authenticate requires a valid bearer token for a whitelisted user and
// attaches that user's identity to the request context.
func (g *Guard) Authenticate() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := httpx.BearerToken(r)
			if err != nil {
				writeError(w, r, service.ErrAccessTokenRequired)
				return
			}

			id, err := g.AuthService.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := withIdentity(r.Context(), id)
			ctx = httpx.WithUserID(ctx, id.UserID)
			ctx = slogx.With(ctx, slog.String("user_id", id.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role is not in allowed.
func RequireRole(allowed ...domain.Role) httpx.Middleware {
	required := make([]string, len(allowed))
	for i, role := range allowed {
		required[i] = string(role)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				writeError(w, r, service.ErrAccessTokenRequired)
				return
			}
			if !slices.Contains(allowed, id.Role) {
				slogx.FromContext(r.Context()).Warn("role check failed",
					slog.String("role", string(id.Role)),
					slog.Any("required", required),
				)
				writeError(w, r, &service.InsufficientPermissionsError{Required: required, Current: string(id.Role)})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission rejects callers whose permission does not satisfy
// required.
func RequirePermission(required domain.Permission) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				writeError(w, r, service.ErrAccessTokenRequired)
				return
			}
			if !id.Permission.Satisfies(required) {
				slogx.FromContext(r.Context()).Warn("permission check failed",
					slog.String("permission", string(id.Permission)),
					slog.String("required", string(required)),
				)
				writeError(w, r, &service.InsufficientPermissionsError{
					Required: []string{string(required)},
					Current:  string(id.Permission),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// identity returns the caller for handlers mounted behind Authenticate. It
// writes a 401 and returns false when no caller is attached.
func identity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrAccessTokenRequired)
	}
	return id, ok
}
