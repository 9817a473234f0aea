package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/postgres"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway postgres container and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "ledger",
			"POSTGRES_PASSWORD": "ledger",
			"POSTGRES_DB":       "ledger",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://ledger:ledger@%s:%s/ledger?sslmode=disable", host, port.Port())
}

func TestPostgresStore(t *testing.T) {
	dsn := startPostgres(t)
	ctx := t.Context()

	st, err := postgres.NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(ctx))

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	ada := domain.User{
		ID:            idx.New().String(),
		Name:          "Ada Lovelace",
		Email:         "ada@example.com",
		PasswordHash:  "hash",
		Role:          domain.RoleAdmin,
		Permission:    domain.PermissionWrite,
		IsWhitelisted: true,
	}
	require.NoError(t, st.Users().CreateUser(ctx, ada))

	t.Run("unique email", func(t *testing.T) {
		dup := ada
		dup.ID = idx.New().String()
		require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("approval upsert", func(t *testing.T) {
		first, err := st.Approvals().UpsertApproval(ctx, domain.Approval{
			ID: idx.New().String(), Email: ada.Email, Role: domain.RoleUser, Permission: domain.PermissionRead,
		})
		require.NoError(t, err)

		second, err := st.Approvals().UpsertApproval(ctx, domain.Approval{
			ID: idx.New().String(), Email: ada.Email, Role: domain.RoleAdmin, Permission: domain.PermissionWrite,
		})
		require.NoError(t, err)
		require.Equal(t, first.ID, second.ID)
		require.Equal(t, domain.RoleAdmin, second.Role)
	})

	t.Run("approval email move", func(t *testing.T) {
		require.NoError(t, st.Approvals().UpdateApprovalEmail(ctx, ada.Email, "ada@moved.example.com", time.Now()))
		_, err := st.Approvals().GetApprovalByEmail(ctx, ada.Email)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Approvals().UpsertApproval(ctx, domain.Approval{
			ID: idx.New().String(), Email: "held@example.com", Role: domain.RoleUser, Permission: domain.PermissionRead,
		})
		require.NoError(t, err)
		err = st.Approvals().UpdateApprovalEmail(ctx, "ada@moved.example.com", "held@example.com", time.Now())
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		require.NoError(t, st.Approvals().UpdateApprovalEmail(ctx, "ada@moved.example.com", ada.Email, time.Now()))
	})

	jan := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	tx := domain.Transaction{
		ID:          idx.New().String(),
		Type:        domain.TypeIncome,
		Amount:      500,
		Category:    "Salary",
		Description: "January pay",
		Date:        jan,
		UserID:      ada.ID,
	}
	require.NoError(t, st.Transactions().CreateTransaction(ctx, tx))

	t.Run("list with filters", func(t *testing.T) {
		from := jan.Add(-time.Hour)
		got, err := st.Transactions().ListTransactions(ctx, domain.TransactionFilter{
			From: &from, Type: domain.TypeIncome, Category: "Salary", UserID: ada.ID, Limit: 5,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].Owner)
		require.True(t, got[0].Date.Equal(jan))

		users, err := st.Users().ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, 1, users[0].TransactionCount)
	})

	t.Run("cascade in one transaction", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().DeleteUser(ctx, ada.ID); err != nil {
				return err
			}
			return tx.Approvals().DeleteApprovalByEmail(ctx, ada.Email)
		})
		require.NoError(t, err)

		_, err = st.Approvals().GetApprovalByEmail(ctx, ada.Email)
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := st.Transactions().GetTransaction(ctx, tx.ID)
		require.NoError(t, err)
		require.Nil(t, got.Owner)
	})

	t.Run("rollback", func(t *testing.T) {
		bob := ada
		bob.ID = idx.New().String()
		bob.Email = "bob@example.com"

		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, bob); err != nil {
				return err
			}
			return tx.Users().DeleteUser(ctx, "missing")
		})
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Users().GetUserByEmail(ctx, bob.Email)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
