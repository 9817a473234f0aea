package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/pkg/cryptox"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

const defaultBootstrapName = "Administrator"

// BootstrapService seeds the first administrator into an empty store.
type BootstrapService struct {
	Store store.Store
}

type BootstrapInput struct {
	Name     string
	Email    string
	Password string
}

// SeedAdmin creates an ADMIN/WRITE approval and matching user when the
// store has no users. It reports whether anything was created.
func (s *BootstrapService) SeedAdmin(ctx context.Context, in BootstrapInput) (bool, error) {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, fmt.Errorf("check users: %w", err)
	}
	if !empty {
		l.Debug("bootstrap skipped: users exist")
		return false, nil
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultBootstrapName
	}
	email := domain.NormalizeEmail(in.Email)

	errs := fieldErrors{}
	validateName(errs, "name", name)
	validateEmail(errs, "email", email)
	validatePassword(errs, "password", in.Password)
	if err := errs.err(); err != nil {
		return false, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Approvals().UpsertApproval(ctx, domain.Approval{
			ID:         idx.NewAt(now).String(),
			Email:      email,
			Role:       domain.RoleAdmin,
			Permission: domain.PermissionWrite,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("approve admin: %w", err)
		}

		user = domain.User{
			ID:            idx.NewAt(now).String(),
			Name:          name,
			Email:         email,
			PasswordHash:  hash,
			Role:          domain.RoleAdmin,
			Permission:    domain.PermissionWrite,
			IsWhitelisted: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	l.Info("bootstrap admin created", slog.String("user_id", user.ID), slog.String("email", email))
	return true, nil
}
