package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T) (*service.AuthService, *service.AdminService) {
	t.Helper()
	st := newStore(t)
	return &service.AuthService{Store: st, Sessions: newSessions(t)}, &service.AdminService{Store: st}
}

func TestRegister(t *testing.T) {
	t.Run("unapproved email is rejected", func(t *testing.T) {
		auth, _ := newAuth(t)
		_, err := auth.Register(t.Context(), service.RegisterInput{Name: "Jane Doe", Email: "jane@example.com", Password: "secret1"})
		require.ErrorIs(t, err, service.ErrNotApproved)
		require.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("copies role and permission from the approval", func(t *testing.T) {
		auth, admin := newAuth(t)
		approve(t, admin.Store, "Jane@Example.com", domain.RoleUser, domain.PermissionRead)

		res, err := auth.Register(t.Context(), service.RegisterInput{Name: " Jane Doe ", Email: "JANE@example.com", Password: "secret1"})
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)
		require.Equal(t, "jane@example.com", res.User.Email)
		require.Equal(t, "Jane Doe", res.User.Name)
		require.Equal(t, domain.RoleUser, res.User.Role)
		require.Equal(t, domain.PermissionRead, res.User.Permission)
		require.True(t, res.User.IsWhitelisted)

		// The approval is not consumed.
		_, err = admin.Store.Approvals().GetApprovalByEmail(t.Context(), "jane@example.com")
		require.NoError(t, err)
	})

	t.Run("second registration conflicts", func(t *testing.T) {
		auth, admin := newAuth(t)
		approve(t, admin.Store, "jane@example.com", domain.RoleUser, domain.PermissionWrite)

		in := service.RegisterInput{Name: "Jane Doe", Email: "jane@example.com", Password: "secret1"}
		_, err := auth.Register(t.Context(), in)
		require.NoError(t, err)

		_, err = auth.Register(t.Context(), in)
		require.ErrorIs(t, err, service.ErrUserAlreadyExists)
		require.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("validation reports every field", func(t *testing.T) {
		auth, _ := newAuth(t)
		_, err := auth.Register(t.Context(), service.RegisterInput{Name: "J", Email: "nope", Password: "123"})
		require.ErrorIs(t, err, service.ErrValidation)

		var verr *service.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Fields, 3)
		require.Contains(t, verr.Fields, "name")
		require.Contains(t, verr.Fields, "email")
		require.Contains(t, verr.Fields, "password")
	})
}

func TestLogin(t *testing.T) {
	auth, admin := newAuth(t)
	approve(t, admin.Store, "jane@example.com", domain.RoleUser, domain.PermissionWrite)
	reg, err := auth.Register(t.Context(), service.RegisterInput{Name: "Jane Doe", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		res, err := auth.Login(t.Context(), "Jane@Example.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, reg.User.ID, res.User.ID)
		require.NotEmpty(t, res.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(t.Context(), "jane@example.com", "wrong-password")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := auth.Login(t.Context(), "nobody@example.com", "secret1")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("not whitelisted", func(t *testing.T) {
		u := reg.User
		u.IsWhitelisted = false
		require.NoError(t, admin.Store.Users().UpdateUser(t.Context(), u))
		t.Cleanup(func() {
			u.IsWhitelisted = true
			_ = admin.Store.Users().UpdateUser(t.Context(), u)
		})

		_, err := auth.Login(t.Context(), "jane@example.com", "secret1")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("missing password is a validation error", func(t *testing.T) {
		_, err := auth.Login(t.Context(), "jane@example.com", "")
		require.ErrorIs(t, err, service.ErrValidation)
	})
}

func TestLoginUpgradesLegacyDigest(t *testing.T) {
	auth, _ := newAuth(t)
	id := addUser(t, auth.Store, "legacy", domain.RoleUser, domain.PermissionRead)

	legacy, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := auth.Store.Users().GetUserByID(t.Context(), id.UserID)
	require.NoError(t, err)
	u.PasswordHash = string(legacy)
	require.NoError(t, auth.Store.Users().UpdateUser(t.Context(), u))

	_, err = auth.Login(t.Context(), u.Email, "secret1")
	require.NoError(t, err)

	u, err = auth.Store.Users().GetUserByID(t.Context(), id.UserID)
	require.NoError(t, err)
	require.Contains(t, u.PasswordHash, "$argon2id$")

	_, err = auth.Login(t.Context(), u.Email, "secret1")
	require.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	auth, admin := newAuth(t)
	approve(t, admin.Store, "jane@example.com", domain.RoleUser, domain.PermissionWrite)
	reg, err := auth.Register(t.Context(), service.RegisterInput{Name: "Jane Doe", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("valid token yields identity", func(t *testing.T) {
		id, err := auth.Authenticate(t.Context(), reg.Token)
		require.NoError(t, err)
		require.Equal(t, reg.User.ID, id.UserID)
		require.Equal(t, domain.PermissionWrite, id.Permission)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := auth.Authenticate(t.Context(), "not-a-jwt")
		require.ErrorIs(t, err, service.ErrInvalidToken)
		require.ErrorIs(t, err, service.ErrUnauthenticated)
	})

	t.Run("expired token", func(t *testing.T) {
		old := *auth.Sessions
		old.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := old.Issue(reg.User.ID)
		require.NoError(t, err)

		_, err = auth.Authenticate(t.Context(), token)
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("live permission change applies immediately", func(t *testing.T) {
		_, err := admin.UpdateUser(t.Context(), domain.Identity{UserID: "someone-else"}, reg.User.ID, service.UserPatch{Permission: ptr("READ")})
		require.NoError(t, err)

		id, err := auth.Authenticate(t.Context(), reg.Token)
		require.NoError(t, err)
		require.Equal(t, domain.PermissionRead, id.Permission)
	})

	t.Run("disabled user is rejected with a valid token", func(t *testing.T) {
		_, err := admin.UpdateUser(t.Context(), domain.Identity{UserID: "someone-else"}, reg.User.ID, service.UserPatch{IsWhitelisted: ptr(false)})
		require.NoError(t, err)

		_, err = auth.Authenticate(t.Context(), reg.Token)
		require.ErrorIs(t, err, service.ErrUserNotAuthorized)
	})

	t.Run("deleted user is rejected", func(t *testing.T) {
		require.NoError(t, admin.DeleteUser(t.Context(), domain.Identity{UserID: "someone-else"}, reg.User.ID))

		_, err := auth.Authenticate(t.Context(), reg.Token)
		require.ErrorIs(t, err, service.ErrUserNotAuthorized)
	})
}

func TestMe(t *testing.T) {
	auth, _ := newAuth(t)
	id := addUser(t, auth.Store, "jane", domain.RoleUser, domain.PermissionRead)

	u, err := auth.Me(t.Context(), id)
	require.NoError(t, err)
	require.Equal(t, id.UserID, u.ID)
	require.False(t, u.CreatedAt.IsZero())
}
