package service_test

import (
	"errors"
	"testing"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/stretchr/testify/require"
)

func TestApprove(t *testing.T) {
	st := newStore(t)
	admin := &service.AdminService{Store: st}
	actor := addUser(t, st, "root", domain.RoleAdmin, domain.PermissionWrite)

	t.Run("normalises input", func(t *testing.T) {
		a, err := admin.Approve(t.Context(), actor, service.ApproveInput{Email: " New@Example.COM ", Role: "user", Permission: "read"})
		require.NoError(t, err)
		require.Equal(t, "new@example.com", a.Email)
		require.Equal(t, domain.RoleUser, a.Role)
		require.Equal(t, domain.PermissionRead, a.Permission)
	})

	t.Run("upserts on email", func(t *testing.T) {
		first, err := admin.ListApproved(t.Context())
		require.NoError(t, err)
		require.Len(t, first, 1)

		a, err := admin.Approve(t.Context(), actor, service.ApproveInput{Email: "new@example.com", Role: "ADMIN", Permission: "WRITE"})
		require.NoError(t, err)
		require.Equal(t, first[0].ID, a.ID)
		require.Equal(t, domain.RoleAdmin, a.Role)

		list, err := admin.ListApproved(t.Context())
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("rejects unknown role and permission", func(t *testing.T) {
		_, err := admin.Approve(t.Context(), actor, service.ApproveInput{Email: "x@example.com", Role: "OWNER", Permission: "ALL"})
		var verr *service.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Contains(t, verr.Fields, "role")
		require.Contains(t, verr.Fields, "permission")
	})

	t.Run("revoke", func(t *testing.T) {
		list, err := admin.ListApproved(t.Context())
		require.NoError(t, err)
		require.NoError(t, admin.RevokeApproval(t.Context(), actor, list[0].ID))
		require.ErrorIs(t, admin.RevokeApproval(t.Context(), actor, list[0].ID), service.ErrApprovalNotFound)
	})
}

func TestAdminUpdateUser(t *testing.T) {
	st := newStore(t)
	admin := &service.AdminService{Store: st}
	root := addUser(t, st, "root", domain.RoleAdmin, domain.PermissionWrite)
	jane := addUser(t, st, "jane", domain.RoleUser, domain.PermissionRead)

	t.Run("updates provided fields", func(t *testing.T) {
		u, err := admin.UpdateUser(t.Context(), root, jane.UserID, service.UserPatch{
			Name:       ptr("Jane Doe"),
			Permission: ptr("write"),
		})
		require.NoError(t, err)
		require.Equal(t, "Jane Doe", u.Name)
		require.Equal(t, domain.PermissionWrite, u.Permission)
		require.Equal(t, domain.RoleUser, u.Role)
	})

	t.Run("email taken by another user", func(t *testing.T) {
		_, err := admin.UpdateUser(t.Context(), root, jane.UserID, service.UserPatch{Email: ptr(root.Email)})
		require.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := admin.UpdateUser(t.Context(), root, "missing", service.UserPatch{Name: ptr("Nobody")})
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("self-demotion", func(t *testing.T) {
		_, err := admin.UpdateUser(t.Context(), root, root.UserID, service.UserPatch{Role: ptr("USER")})
		require.ErrorIs(t, err, service.ErrSelfDemotion)
		require.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("self-disable", func(t *testing.T) {
		_, err := admin.UpdateUser(t.Context(), root, root.UserID, service.UserPatch{IsWhitelisted: ptr(false)})
		require.ErrorIs(t, err, service.ErrSelfDisable)
	})

	t.Run("self rename is allowed", func(t *testing.T) {
		u, err := admin.UpdateUser(t.Context(), root, root.UserID, service.UserPatch{Name: ptr("Root Admin"), Role: ptr("ADMIN")})
		require.NoError(t, err)
		require.Equal(t, "Root Admin", u.Name)
	})

	t.Run("invalid fields", func(t *testing.T) {
		_, err := admin.UpdateUser(t.Context(), root, jane.UserID, service.UserPatch{Email: ptr("broken"), Role: ptr("GOD")})
		var verr *service.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Fields, 2)
	})
}

func TestAdminUpdateUserEmailMovesApproval(t *testing.T) {
	st := newStore(t)
	admin := &service.AdminService{Store: st}
	auth := &service.AuthService{Store: st, Sessions: newSessions(t)}
	root := addUser(t, st, "root", domain.RoleAdmin, domain.PermissionWrite)
	alice := addUser(t, st, "alice", domain.RoleAdmin, domain.PermissionWrite)
	approve(t, st, alice.Email, domain.RoleAdmin, domain.PermissionWrite)

	u, err := admin.UpdateUser(t.Context(), root, alice.UserID, service.UserPatch{Email: ptr("Alice@New.Example.com")})
	require.NoError(t, err)
	require.Equal(t, "alice@new.example.com", u.Email)

	_, err = st.Approvals().GetApprovalByEmail(t.Context(), alice.Email)
	require.ErrorIs(t, err, store.ErrNotFound)
	moved, err := st.Approvals().GetApprovalByEmail(t.Context(), u.Email)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, moved.Role)

	t.Run("old email can no longer register", func(t *testing.T) {
		_, err := auth.Register(t.Context(), service.RegisterInput{Name: "Mallory", Email: alice.Email, Password: "hunter22"})
		require.ErrorIs(t, err, service.ErrNotApproved)
	})

	t.Run("email with its own approval is taken", func(t *testing.T) {
		approve(t, st, "pending@example.com", domain.RoleUser, domain.PermissionRead)

		_, err := admin.UpdateUser(t.Context(), root, alice.UserID, service.UserPatch{Email: ptr("pending@example.com")})
		require.ErrorIs(t, err, service.ErrEmailTaken)

		// The user update rolled back with the approval move.
		got, err := st.Users().GetUserByID(t.Context(), alice.UserID)
		require.NoError(t, err)
		require.Equal(t, "alice@new.example.com", got.Email)
	})

	t.Run("delete after the change leaves no approval", func(t *testing.T) {
		require.NoError(t, admin.DeleteUser(t.Context(), root, alice.UserID))

		list, err := admin.ListApproved(t.Context())
		require.NoError(t, err)
		for _, a := range list {
			require.NotEqual(t, alice.Email, a.Email)
			require.NotEqual(t, "alice@new.example.com", a.Email)
		}
	})
}

func TestAdminDeleteUser(t *testing.T) {
	st := newStore(t)
	admin := &service.AdminService{Store: st}
	ledger := &service.LedgerService{Store: st}
	root := addUser(t, st, "root", domain.RoleAdmin, domain.PermissionWrite)
	jane := addUser(t, st, "jane", domain.RoleUser, domain.PermissionWrite)
	approve(t, st, jane.Email, domain.RoleUser, domain.PermissionWrite)

	tx, err := ledger.Create(t.Context(), jane, service.TransactionInput{
		Type: "INCOME", Amount: ptr(25.0), Category: "Gift", Description: "birthday", Date: "2025-05-05",
	})
	require.NoError(t, err)

	t.Run("cannot delete self", func(t *testing.T) {
		require.ErrorIs(t, admin.DeleteUser(t.Context(), root, root.UserID), service.ErrSelfDeletion)
	})

	t.Run("unknown user", func(t *testing.T) {
		require.ErrorIs(t, admin.DeleteUser(t.Context(), root, "missing"), service.ErrUserNotFound)
	})

	t.Run("cascades to the approval and keeps transactions", func(t *testing.T) {
		require.NoError(t, admin.DeleteUser(t.Context(), root, jane.UserID))

		_, err := st.Users().GetUserByID(t.Context(), jane.UserID)
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.Approvals().GetApprovalByEmail(t.Context(), jane.Email)
		require.ErrorIs(t, err, store.ErrNotFound)

		txs, err := ledger.List(t.Context(), root, service.ListQuery{})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, tx.ID, txs[0].ID)
		require.Nil(t, txs[0].Owner)
		require.Empty(t, txs[0].UserPrefix())
	})

	t.Run("orphaned transactions are admin-only", func(t *testing.T) {
		other := addUser(t, st, "other", domain.RoleUser, domain.PermissionWrite)
		_, err := ledger.Update(t.Context(), other, tx.ID, service.TransactionPatch{Amount: ptr(1.0)})
		require.ErrorIs(t, err, service.ErrNotAuthorizedToUpdate)

		require.NoError(t, ledger.Delete(t.Context(), root, tx.ID))
	})

	t.Run("list users reports transaction counts", func(t *testing.T) {
		_, err := ledger.Create(t.Context(), root, service.TransactionInput{
			Type: "EXPENDITURE", Amount: ptr(3.0), Category: "Coffee", Description: "flat white", Date: "2025-05-06",
		})
		require.NoError(t, err)

		users, err := admin.ListUsers(t.Context())
		require.NoError(t, err)
		counts := map[string]int{}
		for _, u := range users {
			counts[u.ID] = u.TransactionCount
		}
		require.Equal(t, 1, counts[root.UserID])
	})
}
