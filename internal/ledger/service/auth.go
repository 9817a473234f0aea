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
	"github.com/aussiebroadwan/ledger/pkg/cryptox"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// AuthService covers registration, login and resolving bearer tokens to the
// live caller.
type AuthService struct {
	Store    store.Store
	Sessions *SessionIssuer
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is a freshly issued session and the user it belongs to.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// Register creates a user for an approved email. Role and permission are
// copied from the approval.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	l := slogx.FromContext(ctx)

	email := domain.NormalizeEmail(in.Email)
	errs := fieldErrors{}
	validateName(errs, "name", in.Name)
	validateEmail(errs, "email", email)
	validatePassword(errs, "password", in.Password)
	if err := errs.err(); err != nil {
		return AuthResult{}, err
	}

	approval, err := s.Store.Approvals().GetApprovalByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		l.Warn("registration rejected: email not approved", slog.String("email", email))
		return AuthResult{}, ErrNotApproved
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("lookup approval: %w", err)
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		l.Warn("registration rejected: user exists", slog.String("email", email))
		return AuthResult{}, ErrUserAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:            idx.NewAt(now).String(),
		Name:          strings.TrimSpace(in.Name),
		Email:         email,
		PasswordHash:  hash,
		Role:          approval.Role,
		Permission:    approval.Permission,
		IsWhitelisted: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return AuthResult{}, ErrUserAlreadyExists
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	token, expiresAt, err := s.Sessions.Issue(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue session: %w", err)
	}

	l.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.String("permission", string(user.Permission)),
	)
	return AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Login checks credentials. Unknown, disabled and wrong-password attempts
// all fail with the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	l := slogx.FromContext(ctx)

	email = domain.NormalizeEmail(email)
	errs := fieldErrors{}
	validateEmail(errs, "email", email)
	if password == "" {
		errs.add("password", "Password "+reasonRequired)
	}
	if err := errs.err(); err != nil {
		return AuthResult{}, err
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		l.Warn("login failed: unknown email", slog.String("email", email))
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsWhitelisted {
		l.Warn("login failed: user not whitelisted", slog.String("user_id", user.ID))
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			l.Error("stored password digest unreadable", slog.String("user_id", user.ID), slog.Any("error", err))
		} else {
			l.Warn("login failed: wrong password", slog.String("user_id", user.ID))
		}
		return AuthResult{}, ErrInvalidCredentials
	}

	if cryptox.IsLegacyDigest(user.PasswordHash) {
		s.upgradeDigest(ctx, user, password)
	}

	token, expiresAt, err := s.Sessions.Issue(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue session: %w", err)
	}

	l.Info("user logged in", slog.String("user_id", user.ID))
	return AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// upgradeDigest replaces an imported bcrypt digest with argon2id. Failure
// only costs another upgrade attempt on the next login.
func (s *AuthService) upgradeDigest(ctx context.Context, user domain.User, password string) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to rehash legacy password", slog.String("user_id", user.ID), slog.Any("error", err))
		return
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := s.Store.Users().UpdateUser(ctx, user); err != nil {
		l.Error("failed to store upgraded password", slog.String("user_id", user.ID), slog.Any("error", err))
		return
	}
	l.Info("legacy password digest upgraded", slog.String("user_id", user.ID))
}

// Authenticate resolves a bearer token to the caller's live identity. The
// user is re-read on every call so role, permission and whitelist changes
// apply to the very next request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	userID, err := s.Sessions.Verify(token)
	if err != nil {
		return domain.Identity{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, ErrUserNotAuthorized
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("load user %s: %w", userID, err)
	}
	if !user.IsWhitelisted {
		return domain.Identity{}, ErrUserNotAuthorized
	}
	return domain.IdentityOf(user), nil
}

// Me returns the caller's current record.
func (s *AuthService) Me(ctx context.Context, actor domain.Identity) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, actor.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotAuthorized
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
