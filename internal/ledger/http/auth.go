package http

import (
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister creates an account for an approved email.
//
//	@Summary		Register
//	@Description	Creates an account for an email on the approval list. Role and permission come from the approval.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ledgersdk.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	ledgersdk.AuthResponse		"Session token and user"
//	@Failure		400		{object}	ledgersdk.ErrorResponse		"Validation failed or user already exists"
//	@Failure		403		{object}	ledgersdk.ErrorResponse		"Email not approved"
//	@Failure		429		{object}	ledgersdk.ErrorResponse		"Rate limited"
//	@Router			/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req ledgersdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	res, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, ledgersdk.AuthResponse{
		Message:   "Registration successful",
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      toUser(res.User),
	})
}

// HandleLogin exchanges credentials for a session token.
//
//	@Summary		Login
//	@Description	Checks email and password and returns a bearer token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ledgersdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	ledgersdk.AuthResponse	"Session token and user"
//	@Failure		400		{object}	ledgersdk.ErrorResponse	"Validation failed"
//	@Failure		401		{object}	ledgersdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	ledgersdk.ErrorResponse	"Rate limited"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req ledgersdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ledgersdk.AuthResponse{
		Message:   "Login successful",
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      toUser(res.User),
	})
}

// HandleMe returns the caller's account.
//
//	@Summary		Current user
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	ledgersdk.MeResponse	"The caller"
//	@Failure		401	{object}	ledgersdk.ErrorResponse	"Missing or invalid token"
//	@Router			/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	u, err := h.AuthService.Me(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user := toUser(u)
	user.CreatedAt = &u.CreatedAt
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.MeResponse{User: user})
}
