package service_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/sqlite"
	"github.com/aussiebroadwan/ledger/pkg/cryptox"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/aussiebroadwan/ledger/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "ledger-service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newStore(t *testing.T) store.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newSessions(t *testing.T) *service.SessionIssuer {
	t.Helper()
	keys, err := jwtx.NewHS256([]byte(testSecret), "ledger-test")
	require.NoError(t, err)
	return &service.SessionIssuer{Keys: keys, Issuer: "ledger-test", TTL: time.Hour}
}

// addUser inserts a whitelisted user straight into the store.
func addUser(t *testing.T, st store.Store, name string, role domain.Role, perm domain.Permission) domain.Identity {
	t.Helper()
	now := time.Now().UTC()
	u := domain.User{
		ID:            idx.NewAt(now).String(),
		Name:          name,
		Email:         domain.NormalizeEmail(name + "@example.com"),
		PasswordHash:  "unused",
		Role:          role,
		Permission:    perm,
		IsWhitelisted: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, st.Users().CreateUser(t.Context(), u))
	return domain.IdentityOf(u)
}

func approve(t *testing.T, st store.Store, email string, role domain.Role, perm domain.Permission) {
	t.Helper()
	admin := &service.AdminService{Store: st}
	_, err := admin.Approve(t.Context(), domain.Identity{}, service.ApproveInput{
		Email:      email,
		Role:       string(role),
		Permission: string(perm),
	})
	require.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }
