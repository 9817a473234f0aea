package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
)

type approvalsRepo struct {
	db dbtx
}

const approvalColumns = `id, email, role, permission, created_at, updated_at`

func scanApproval(row rowScanner) (domain.Approval, error) {
	var (
		a                    domain.Approval
		role, perm           string
		createdAt, updatedAt string
	)
	if err := row.Scan(&a.ID, &a.Email, &role, &perm, &createdAt, &updatedAt); err != nil {
		return domain.Approval{}, err
	}
	a.Role = domain.Role(role)
	a.Permission = domain.Permission(perm)

	var err error
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Approval{}, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Approval{}, err
	}
	return a, nil
}

func (r *approvalsRepo) UpsertApproval(ctx context.Context, a domain.Approval) (domain.Approval, error) {
	now := stamp(a.UpdatedAt)
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO approved_users (`+approvalColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (email) DO UPDATE
		    SET role = excluded.role,
		        permission = excluded.permission,
		        updated_at = excluded.updated_at
		 RETURNING `+approvalColumns,
		a.ID, a.Email, string(a.Role), string(a.Permission), stamp(a.CreatedAt), now,
	)
	out, err := scanApproval(row)
	if err != nil {
		return domain.Approval{}, mapConstraint(err)
	}
	return out, nil
}

func (r *approvalsRepo) GetApprovalByEmail(ctx context.Context, email string) (domain.Approval, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+approvalColumns+` FROM approved_users WHERE email = ?`, email)
	a, err := scanApproval(row)
	if err != nil {
		return domain.Approval{}, mapNotFound(err)
	}
	return a, nil
}

func (r *approvalsRepo) GetApprovalByID(ctx context.Context, id string) (domain.Approval, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+approvalColumns+` FROM approved_users WHERE id = ?`, id)
	a, err := scanApproval(row)
	if err != nil {
		return domain.Approval{}, mapNotFound(err)
	}
	return a, nil
}

func (r *approvalsRepo) ListApprovals(ctx context.Context) ([]domain.Approval, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+approvalColumns+` FROM approved_users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Approval
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *approvalsRepo) DeleteApproval(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM approved_users WHERE id = ?`, id))
}

func (r *approvalsRepo) DeleteApprovalByEmail(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM approved_users WHERE email = ?`, email)
	return err
}

func (r *approvalsRepo) UpdateApprovalEmail(ctx context.Context, from, to string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE approved_users SET email = ?, updated_at = ? WHERE email = ?`,
		to, stamp(at), from,
	)
	return mapConstraint(err)
}
