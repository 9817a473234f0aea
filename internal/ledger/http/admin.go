package http

import (
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
)

// AdminHandler serves the approval list and user management. Every route
// is mounted behind RequireRole(ADMIN).
type AdminHandler struct {
	AdminService *service.AdminService
}

// HandleApprove adds or updates an approval.
//
//	@Summary		Approve email
//	@Description	Adds an email to the approval list, or replaces its role and permission.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ledgersdk.ApproveRequest	true	"Approval"
//	@Success		201		{object}	ledgersdk.ApproveResponse
//	@Failure		400		{object}	ledgersdk.ErrorResponse
//	@Failure		401		{object}	ledgersdk.ErrorResponse
//	@Failure		403		{object}	ledgersdk.ErrorResponse
//	@Router			/admin/approve [post].
func (h *AdminHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req ledgersdk.ApproveRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	a, err := h.AdminService.Approve(r.Context(), id, service.ApproveInput{
		Email:      req.Email,
		Role:       req.Role,
		Permission: req.Permission,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, ledgersdk.ApproveResponse{
		Message:      "User approved successfully",
		ApprovedUser: toApproval(a),
	})
}

// HandleListApproved lists the approval list.
//
//	@Summary		List approvals
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	ledgersdk.ApprovedUsersResponse
//	@Failure		401	{object}	ledgersdk.ErrorResponse
//	@Failure		403	{object}	ledgersdk.ErrorResponse
//	@Router			/admin/approved [get].
func (h *AdminHandler) HandleListApproved(w http.ResponseWriter, r *http.Request) {
	list, err := h.AdminService.ListApproved(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.ApprovedUsersResponse{ApprovedUsers: toApprovals(list)})
}

// HandleRevoke removes an approval.
//
//	@Summary		Revoke approval
//	@Description	Registered accounts for the email are not affected.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Approval ID"
//	@Success		200	{object}	ledgersdk.MessageResponse
//	@Failure		401	{object}	ledgersdk.ErrorResponse
//	@Failure		403	{object}	ledgersdk.ErrorResponse
//	@Failure		404	{object}	ledgersdk.ErrorResponse
//	@Router			/admin/approved/{id} [delete].
func (h *AdminHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.AdminService.RevokeApproval(r.Context(), id, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.MessageResponse{Message: "Approval revoked successfully"})
}

// HandleListUsers lists every account with its transaction count.
//
//	@Summary		List users
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	ledgersdk.UsersResponse
//	@Failure		401	{object}	ledgersdk.ErrorResponse
//	@Failure		403	{object}	ledgersdk.ErrorResponse
//	@Router			/admin/users [get].
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.AdminService.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.UsersResponse{Users: toAdminUsers(users)})
}

// HandleUpdateUser changes an account's details, role, permission or
// whitelist flag.
//
//	@Summary		Update user
//	@Description	Admins cannot demote or disable their own account.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User ID"
//	@Param			request	body		ledgersdk.UpdateUserRequest	true	"Fields to change"
//	@Success		200		{object}	ledgersdk.UpdateUserResponse
//	@Failure		400		{object}	ledgersdk.ErrorResponse
//	@Failure		401		{object}	ledgersdk.ErrorResponse
//	@Failure		403		{object}	ledgersdk.ErrorResponse
//	@Failure		404		{object}	ledgersdk.ErrorResponse
//	@Router			/admin/users/{id} [put].
func (h *AdminHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req ledgersdk.UpdateUserRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	u, err := h.AdminService.UpdateUser(r.Context(), id, r.PathValue("id"), service.UserPatch{
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
		Permission:    req.Permission,
		IsWhitelisted: req.IsWhitelisted,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.UpdateUserResponse{
		Message: "User updated successfully",
		User:    toManagedUser(u),
	})
}

// HandleDeleteUser removes an account and its approval.
//
//	@Summary		Delete user
//	@Description	Also removes the approval for the user's email. Their transactions are kept.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	ledgersdk.MessageResponse
//	@Failure		400	{object}	ledgersdk.ErrorResponse	"Cannot delete your own account"
//	@Failure		401	{object}	ledgersdk.ErrorResponse
//	@Failure		403	{object}	ledgersdk.ErrorResponse
//	@Failure		404	{object}	ledgersdk.ErrorResponse
//	@Router			/admin/users/{id} [delete].
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.AdminService.DeleteUser(r.Context(), id, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.MessageResponse{Message: "User and approved email removed successfully"})
}
