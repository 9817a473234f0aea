package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

const msgInternal = "Internal server error"

// writeError is the only place service errors become HTTP responses.
// Anything that does not wrap a known kind is logged and hidden behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *service.ValidationError
		perr *service.InsufficientPermissionsError
	)

	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, ledgersdk.ErrorResponse{
			Error:   verr.Error(),
			Details: verr.Fields,
		})
	case errors.As(err, &perr):
		httpx.WriteJSON(w, http.StatusForbidden, ledgersdk.ErrorResponse{
			Error:    perr.Error(),
			Required: perr.Required,
			Current:  perr.Current,
		})
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteBearerChallenge(w, tokenRejection(err))
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
	}
}

// tokenRejection is the challenge description for a bearer token that was
// sent but refused. It is empty when no token was presented.
func tokenRejection(err error) string {
	if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrUserNotAuthorized) {
		return err.Error()
	}
	return ""
}

// writeBadBody reports a request body that could not be decoded.
func writeBadBody(w http.ResponseWriter, err error) {
	httpx.WriteJSON(w, http.StatusBadRequest, ledgersdk.ErrorResponse{
		Error:   "Invalid request body",
		Details: map[string]string{"body": err.Error()},
	})
}
