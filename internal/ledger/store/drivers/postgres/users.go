package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/jackc/pgx/v5"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, name, email, password_hash, role, permission, is_whitelisted, created_at, updated_at`

func scanUser(row pgx.Row, extra ...any) (domain.User, error) {
	var (
		u          domain.User
		role, perm string
	)
	dest := append([]any{
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &perm, &u.IsWhitelisted, &u.CreatedAt, &u.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.Permission = domain.Permission(perm)
	return u, nil
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	created := orNow(u.CreatedAt)
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), string(u.Permission), u.IsWhitelisted, created,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE users
		    SET name = $1, email = $2, password_hash = $3, role = $4, permission = $5,
		        is_whitelisted = $6, updated_at = $7
		  WHERE id = $8`,
		u.Name, u.Email, u.PasswordHash, string(u.Role), string(u.Permission), u.IsWhitelisted,
		orNow(u.UpdatedAt), u.ID,
	))
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	return expectOne(r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email, u.password_hash, u.role, u.permission, u.is_whitelisted,
		        u.created_at, u.updated_at,
		        (SELECT COUNT(*) FROM transactions t WHERE t.user_id = u.id)
		   FROM users u
		  ORDER BY u.created_at DESC, u.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserSummary
	for rows.Next() {
		var count int64
		u, err := scanUser(rows, &count)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.UserSummary{User: u, TransactionCount: int(count)})
	}
	return out, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&exists); err != nil {
		return false, err
	}
	return !exists, nil
}
