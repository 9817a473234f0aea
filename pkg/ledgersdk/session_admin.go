package ledgersdk

import (
	"context"
	"net/http"
	"net/url"
)

// Admin operations. All of these require the ADMIN role.

// ApproveUser allows email to register with the given role and permission.
// Approving an email again replaces its role and permission.
func (s *Session) ApproveUser(ctx context.Context, req ApproveRequest) (*ApprovedUser, error) {
	var out ApproveResponse
	if err := s.call(ctx, http.MethodPost, "/admin/approve", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.ApprovedUser, nil
}

func (s *Session) ListApprovedUsers(ctx context.Context) ([]ApprovedUser, error) {
	var out ApprovedUsersResponse
	if err := s.call(ctx, http.MethodGet, "/admin/approved", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.ApprovedUsers, nil
}

// RevokeApproval removes an approval. Existing accounts are untouched.
func (s *Session) RevokeApproval(ctx context.Context, id string) error {
	var out MessageResponse
	return s.call(ctx, http.MethodDelete, "/admin/approved/"+url.PathEscape(id), nil, &out, http.StatusOK)
}

func (s *Session) ListUsers(ctx context.Context) ([]AdminUser, error) {
	var out UsersResponse
	if err := s.call(ctx, http.MethodGet, "/admin/users", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (s *Session) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*ManagedUser, error) {
	var out UpdateUserResponse
	if err := s.call(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// DeleteUser removes an account and its approval. The account's
// transactions are kept.
func (s *Session) DeleteUser(ctx context.Context, id string) error {
	var out MessageResponse
	return s.call(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, &out, http.StatusOK)
}
