package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// AdminService manages the approval list and registered users. Callers must
// already hold the ADMIN role; the checks here only guard an admin against
// locking themselves out.
type AdminService struct {
	Store store.Store
}

type ApproveInput struct {
	Email      string
	Role       string
	Permission string
}

// UserPatch is a partial user update; nil fields are left alone.
type UserPatch struct {
	Name          *string
	Email         *string
	Role          *string
	Permission    *string
	IsWhitelisted *bool
}

// Approve adds email to the approval list, or replaces the role and
// permission of an existing approval.
func (s *AdminService) Approve(ctx context.Context, actor domain.Identity, in ApproveInput) (domain.Approval, error) {
	email := domain.NormalizeEmail(in.Email)

	errs := fieldErrors{}
	validateEmail(errs, "email", email)
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		errs.add("role", "Role must be ADMIN or USER")
	}
	perm, ok := domain.ParsePermission(in.Permission)
	if !ok {
		errs.add("permission", "Permission must be READ or WRITE")
	}
	if err := errs.err(); err != nil {
		return domain.Approval{}, err
	}

	now := time.Now().UTC()
	a, err := s.Store.Approvals().UpsertApproval(ctx, domain.Approval{
		ID:         idx.NewAt(now).String(),
		Email:      email,
		Role:       role,
		Permission: perm,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return domain.Approval{}, fmt.Errorf("upsert approval: %w", err)
	}

	slogx.FromContext(ctx).Info("email approved",
		slog.String("approval_id", a.ID),
		slog.String("email", a.Email),
		slog.String("role", string(a.Role)),
		slog.String("permission", string(a.Permission)),
		slog.String("by", actor.UserID),
	)
	return a, nil
}

func (s *AdminService) ListApproved(ctx context.Context) ([]domain.Approval, error) {
	list, err := s.Store.Approvals().ListApprovals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	return list, nil
}

// RevokeApproval removes an approval. A user already registered under that
// email is not affected.
func (s *AdminService) RevokeApproval(ctx context.Context, actor domain.Identity, id string) error {
	if err := s.Store.Approvals().DeleteApproval(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrApprovalNotFound
		}
		return fmt.Errorf("delete approval: %w", err)
	}
	slogx.FromContext(ctx).Info("approval revoked",
		slog.String("approval_id", id),
		slog.String("by", actor.UserID),
	)
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies patch to the user with id. An admin may not demote or
// disable their own account.
func (s *AdminService) UpdateUser(ctx context.Context, actor domain.Identity, id string, patch UserPatch) (domain.User, error) {
	l := slogx.FromContext(ctx)

	errs := fieldErrors{}
	var (
		role  domain.Role
		perm  domain.Permission
		email string
	)
	if patch.Name != nil {
		validateName(errs, "name", *patch.Name)
	}
	if patch.Email != nil {
		email = domain.NormalizeEmail(*patch.Email)
		validateEmail(errs, "email", email)
	}
	if patch.Role != nil {
		var ok bool
		if role, ok = domain.ParseRole(*patch.Role); !ok {
			errs.add("role", "Role must be ADMIN or USER")
		}
	}
	if patch.Permission != nil {
		var ok bool
		if perm, ok = domain.ParsePermission(*patch.Permission); !ok {
			errs.add("permission", "Permission must be READ or WRITE")
		}
	}
	if err := errs.err(); err != nil {
		return domain.User{}, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}

	if id == actor.UserID {
		if patch.Role != nil && role != domain.RoleAdmin {
			l.Warn("admin self-demotion rejected", slog.String("user_id", id))
			return domain.User{}, ErrSelfDemotion
		}
		if patch.IsWhitelisted != nil && !*patch.IsWhitelisted {
			l.Warn("admin self-disable rejected", slog.String("user_id", id))
			return domain.User{}, ErrSelfDisable
		}
	}

	oldEmail := u.Email
	if patch.Email != nil && email != u.Email {
		other, err := s.Store.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil && other.ID != u.ID:
			return domain.User{}, ErrEmailTaken
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return domain.User{}, fmt.Errorf("lookup user: %w", err)
		}
		u.Email = email
	}
	if patch.Name != nil {
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Role != nil {
		u.Role = role
	}
	if patch.Permission != nil {
		u.Permission = perm
	}
	if patch.IsWhitelisted != nil {
		u.IsWhitelisted = *patch.IsWhitelisted
	}
	u.UpdatedAt = time.Now().UTC()

	// The approval moves with the email; the old address loses its grant.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			return err
		}
		if u.Email == oldEmail {
			return nil
		}
		if err := tx.Approvals().UpdateApprovalEmail(ctx, oldEmail, u.Email, u.UpdatedAt); err != nil {
			return fmt.Errorf("move approval: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.User{}, ErrEmailTaken
		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}

	l.Info("user updated",
		slog.String("user_id", u.ID),
		slog.String("role", string(u.Role)),
		slog.String("permission", string(u.Permission)),
		slog.Bool("whitelisted", u.IsWhitelisted),
		slog.String("by", actor.UserID),
	)
	return u, nil
}

// DeleteUser removes a user and the approval for their email in one store
// transaction. Their transactions stay behind without an owner.
func (s *AdminService) DeleteUser(ctx context.Context, actor domain.Identity, id string) error {
	l := slogx.FromContext(ctx)

	if id == actor.UserID {
		l.Warn("admin self-deletion rejected", slog.String("user_id", id))
		return ErrSelfDeletion
	}

	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().DeleteUser(ctx, u.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if err := tx.Approvals().DeleteApprovalByEmail(ctx, u.Email); err != nil {
			return fmt.Errorf("delete approval: %w", err)
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	l.Info("user deleted",
		slog.String("user_id", u.ID),
		slog.String("email", u.Email),
		slog.String("by", actor.UserID),
	)
	return nil
}
