package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/sqlite"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedUser(t *testing.T, st store.Store, name, email string) domain.User {
	t.Helper()
	u := domain.User{
		ID:            idx.New().String(),
		Name:          name,
		Email:         email,
		PasswordHash:  "hash",
		Role:          domain.RoleUser,
		Permission:    domain.PermissionWrite,
		IsWhitelisted: true,
	}
	require.NoError(t, st.Users().CreateUser(t.Context(), u))
	return u
}

func seedTransaction(t *testing.T, st store.Store, owner string, typ domain.TransactionType, amount float64, category string, date time.Time) domain.Transaction {
	t.Helper()
	tx := domain.Transaction{
		ID:          idx.New().String(),
		Type:        typ,
		Amount:      amount,
		Category:    category,
		Description: "desc",
		Date:        date,
		UserID:      owner,
	}
	require.NoError(t, st.Transactions().CreateTransaction(t.Context(), tx))
	return tx
}

func TestMigrationsAreIdempotent(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(t.Context()))
}

func TestTransactionsOutliveOwnersInSchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	st := sqlite.NewStoreFromDB(db)
	require.NoError(t, st.ApplyMigrations())

	var fks int
	require.NoError(t, db.QueryRowContext(t.Context(),
		`SELECT COUNT(*) FROM pragma_foreign_key_list('transactions')`).Scan(&fks))
	require.Zero(t, fks)
}

func TestFileStoreWithPragmas(t *testing.T) {
	dsn := "file:" + t.TempDir() + "/ledger.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	u := seedUser(t, st, "Ada", "ada@example.com")
	seedTransaction(t, st, u.ID, domain.TypeIncome, 10, "Gift", time.Now())
	require.NoError(t, st.Users().DeleteUser(t.Context(), u.ID))

	txs, err := st.Transactions().ListTransactions(t.Context(), domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Nil(t, txs[0].Owner)
}

func TestUsers(t *testing.T) {
	st := newStore(t)
	ctx := t.Context()

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	u := seedUser(t, st, "Ada Lovelace", "ada@example.com")

	t.Run("get by id and email", func(t *testing.T) {
		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "ada@example.com", got.Email)
		require.Equal(t, domain.PermissionWrite, got.Permission)
		require.True(t, got.IsWhitelisted)
		require.False(t, got.CreatedAt.IsZero())

		got, err = st.Users().GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.Users().GetUserByEmail(ctx, "nope@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("update", func(t *testing.T) {
		upd := u
		upd.Role = domain.RoleAdmin
		upd.IsWhitelisted = false
		upd.Name = "Countess"
		require.NoError(t, st.Users().UpdateUser(ctx, upd))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, got.Role)
		require.False(t, got.IsWhitelisted)
		require.Equal(t, "Countess", got.Name)

		upd.ID = "nope"
		require.ErrorIs(t, st.Users().UpdateUser(ctx, upd), store.ErrNotFound)
	})

	t.Run("update to taken email", func(t *testing.T) {
		other := seedUser(t, st, "Bob", "bob@example.com")
		other.Email = "ada@example.com"
		require.ErrorIs(t, st.Users().UpdateUser(ctx, other), store.ErrAlreadyExists)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Users().DeleteUser(ctx, u.ID))
		require.ErrorIs(t, st.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)
	})
}

func TestListUsersCountsTransactions(t *testing.T) {
	st := newStore(t)
	ctx := t.Context()

	a := seedUser(t, st, "Ada", "ada@example.com")
	b := seedUser(t, st, "Bob", "bob@example.com")
	now := time.Now()
	seedTransaction(t, st, a.ID, domain.TypeIncome, 10, "Pay", now)
	seedTransaction(t, st, a.ID, domain.TypeIncome, 10, "Pay", now)

	users, err := st.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	// newest first
	require.Equal(t, b.ID, users[0].ID)
	require.Equal(t, 0, users[0].TransactionCount)
	require.Equal(t, a.ID, users[1].ID)
	require.Equal(t, 2, users[1].TransactionCount)
}

func TestApprovals(t *testing.T) {
	st := newStore(t)
	ctx := t.Context()

	first, err := st.Approvals().UpsertApproval(ctx, domain.Approval{
		ID:         idx.New().String(),
		Email:      "new@example.com",
		Role:       domain.RoleUser,
		Permission: domain.PermissionRead,
	})
	require.NoError(t, err)
	require.Equal(t, domain.PermissionRead, first.Permission)

	t.Run("upsert keeps id and replaces grants", func(t *testing.T) {
		second, err := st.Approvals().UpsertApproval(ctx, domain.Approval{
			ID:         idx.New().String(),
			Email:      "new@example.com",
			Role:       domain.RoleAdmin,
			Permission: domain.PermissionWrite,
		})
		require.NoError(t, err)
		require.Equal(t, first.ID, second.ID)
		require.Equal(t, domain.RoleAdmin, second.Role)
		require.Equal(t, domain.PermissionWrite, second.Permission)

		list, err := st.Approvals().ListApprovals(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("lookup", func(t *testing.T) {
		got, err := st.Approvals().GetApprovalByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		require.Equal(t, first.ID, got.ID)

		got, err = st.Approvals().GetApprovalByID(ctx, first.ID)
		require.NoError(t, err)
		require.Equal(t, "new@example.com", got.Email)

		_, err = st.Approvals().GetApprovalByEmail(ctx, "other@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("move email", func(t *testing.T) {
		require.NoError(t, st.Approvals().UpdateApprovalEmail(ctx, "new@example.com", "moved@example.com", time.Now()))

		got, err := st.Approvals().GetApprovalByEmail(ctx, "moved@example.com")
		require.NoError(t, err)
		require.Equal(t, first.ID, got.ID)
		_, err = st.Approvals().GetApprovalByEmail(ctx, "new@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		// Nothing to move.
		require.NoError(t, st.Approvals().UpdateApprovalEmail(ctx, "missing@example.com", "x@example.com", time.Now()))

		_, err = st.Approvals().UpsertApproval(ctx, domain.Approval{
			ID: idx.New().String(), Email: "taken@example.com", Role: domain.RoleUser, Permission: domain.PermissionRead,
		})
		require.NoError(t, err)
		err = st.Approvals().UpdateApprovalEmail(ctx, "moved@example.com", "taken@example.com", time.Now())
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Approvals().DeleteApprovalByEmail(ctx, "missing@example.com"))
		require.NoError(t, st.Approvals().DeleteApproval(ctx, first.ID))
		require.ErrorIs(t, st.Approvals().DeleteApproval(ctx, first.ID), store.ErrNotFound)
	})
}

func TestTransactions(t *testing.T) {
	st := newStore(t)
	ctx := t.Context()

	ada := seedUser(t, st, "Ada Lovelace", "ada@example.com")
	bob := seedUser(t, st, "Bob", "bob@example.com")

	jan := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t1 := seedTransaction(t, st, ada.ID, domain.TypeIncome, 500, "Salary", jan)
	t2 := seedTransaction(t, st, bob.ID, domain.TypeExpenditure, 200, "Rent", feb)
	t3 := seedTransaction(t, st, ada.ID, domain.TypeExpenditure, 50, "Food", mar)

	ids := func(txs []domain.Transaction) []string {
		out := make([]string, len(txs))
		for i, tx := range txs {
			out[i] = tx.ID
		}
		return out
	}

	t.Run("get with owner", func(t *testing.T) {
		got, err := st.Transactions().GetTransaction(ctx, t1.ID)
		require.NoError(t, err)
		require.Equal(t, 500.0, got.Amount)
		require.True(t, got.Date.Equal(jan))
		require.NotNil(t, got.Owner)
		require.Equal(t, "Ada Lovelace", got.Owner.Name)

		_, err = st.Transactions().GetTransaction(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		got, err := st.Transactions().ListTransactions(ctx, domain.TransactionFilter{})
		require.NoError(t, err)
		require.Equal(t, []string{t3.ID, t2.ID, t1.ID}, ids(got))
	})

	t.Run("filters", func(t *testing.T) {
		from := feb
		to := mar
		got, err := st.Transactions().ListTransactions(ctx, domain.TransactionFilter{From: &from, To: &to})
		require.NoError(t, err)
		require.Equal(t, []string{t3.ID, t2.ID}, ids(got))

		got, err = st.Transactions().ListTransactions(ctx, domain.TransactionFilter{Type: domain.TypeExpenditure, UserID: ada.ID})
		require.NoError(t, err)
		require.Equal(t, []string{t3.ID}, ids(got))

		got, err = st.Transactions().ListTransactions(ctx, domain.TransactionFilter{Category: "Rent"})
		require.NoError(t, err)
		require.Equal(t, []string{t2.ID}, ids(got))

		got, err = st.Transactions().ListTransactions(ctx, domain.TransactionFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("update", func(t *testing.T) {
		upd := t2
		upd.Amount = 250
		upd.Category = "Housing"
		require.NoError(t, st.Transactions().UpdateTransaction(ctx, upd))

		got, err := st.Transactions().GetTransaction(ctx, t2.ID)
		require.NoError(t, err)
		require.Equal(t, 250.0, got.Amount)
		require.Equal(t, "Housing", got.Category)
		require.Equal(t, bob.ID, got.UserID)

		upd.ID = "nope"
		require.ErrorIs(t, st.Transactions().UpdateTransaction(ctx, upd), store.ErrNotFound)
	})

	t.Run("owner deleted", func(t *testing.T) {
		require.NoError(t, st.Users().DeleteUser(ctx, bob.ID))

		got, err := st.Transactions().GetTransaction(ctx, t2.ID)
		require.NoError(t, err)
		require.Nil(t, got.Owner)
		require.Equal(t, bob.ID, got.UserID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Transactions().DeleteTransaction(ctx, t1.ID))
		require.ErrorIs(t, st.Transactions().DeleteTransaction(ctx, t1.ID), store.ErrNotFound)
	})
}

func TestWithTx(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	u := seedUser(t, st, "Ada", "ada@example.com")
	_, err := st.Approvals().UpsertApproval(ctx, domain.Approval{
		ID: idx.New().String(), Email: u.Email, Role: domain.RoleUser, Permission: domain.PermissionRead,
	})
	require.NoError(t, err)

	t.Run("rollback on error", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Users().DeleteUser(ctx, u.ID))
			return tx.Approvals().DeleteApproval(ctx, "missing")
		})
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
	})

	t.Run("commit", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().DeleteUser(ctx, u.ID); err != nil {
				return err
			}
			return tx.Approvals().DeleteApprovalByEmail(ctx, u.Email)
		})
		require.NoError(t, err)

		_, err = st.Users().GetUserByID(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.Approvals().GetApprovalByEmail(ctx, u.Email)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nested", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			return tx.WithTx(ctx, func(store.Tx) error { return nil })
		})
		require.Error(t, err)
	})
}
