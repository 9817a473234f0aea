package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/jackc/pgx/v5"
)

type approvalsRepo struct {
	db dbtx
}

const approvalColumns = `id, email, role, permission, created_at, updated_at`

func scanApproval(row pgx.Row) (domain.Approval, error) {
	var (
		a          domain.Approval
		role, perm string
	)
	if err := row.Scan(&a.ID, &a.Email, &role, &perm, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return domain.Approval{}, err
	}
	a.Role = domain.Role(role)
	a.Permission = domain.Permission(perm)
	return a, nil
}

func (r *approvalsRepo) UpsertApproval(ctx context.Context, a domain.Approval) (domain.Approval, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO approved_users (`+approvalColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email) DO UPDATE
		    SET role = EXCLUDED.role,
		        permission = EXCLUDED.permission,
		        updated_at = EXCLUDED.updated_at
		 RETURNING `+approvalColumns,
		a.ID, a.Email, string(a.Role), string(a.Permission), orNow(a.CreatedAt), orNow(a.UpdatedAt),
	)
	out, err := scanApproval(row)
	if err != nil {
		return domain.Approval{}, mapConstraint(err)
	}
	return out, nil
}

func (r *approvalsRepo) GetApprovalByEmail(ctx context.Context, email string) (domain.Approval, error) {
	a, err := scanApproval(r.db.QueryRow(ctx, `SELECT `+approvalColumns+` FROM approved_users WHERE email = $1`, email))
	if err != nil {
		return domain.Approval{}, mapNotFound(err)
	}
	return a, nil
}

func (r *approvalsRepo) GetApprovalByID(ctx context.Context, id string) (domain.Approval, error) {
	a, err := scanApproval(r.db.QueryRow(ctx, `SELECT `+approvalColumns+` FROM approved_users WHERE id = $1`, id))
	if err != nil {
		return domain.Approval{}, mapNotFound(err)
	}
	return a, nil
}

func (r *approvalsRepo) ListApprovals(ctx context.Context) ([]domain.Approval, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+approvalColumns+` FROM approved_users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
	return expectOne(r.db.Exec(ctx, `DELETE FROM approved_users WHERE id = $1`, id))
}

func (r *approvalsRepo) DeleteApprovalByEmail(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM approved_users WHERE email = $1`, email)
	return err
}

func (r *approvalsRepo) UpdateApprovalEmail(ctx context.Context, from, to string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE approved_users SET email = $1, updated_at = $2 WHERE email = $3`,
		to, orNow(at), from,
	)
	return mapConstraint(err)
}
