package sqlite

import (
	"context"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, name, email, password_hash, role, permission, is_whitelisted, created_at, updated_at`

func scanUser(row rowScanner, extra ...any) (domain.User, error) {
	var (
		u                    domain.User
		role, perm           string
		createdAt, updatedAt string
	)
	dest := append([]any{
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &perm, &u.IsWhitelisted, &createdAt, &updatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.Permission = domain.Permission(perm)

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.User{}, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	created := stamp(u.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), string(u.Permission), u.IsWhitelisted,
		created, created,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users
		    SET name = ?, email = ?, password_hash = ?, role = ?, permission = ?, is_whitelisted = ?, updated_at = ?
		  WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, string(u.Role), string(u.Permission), u.IsWhitelisted,
		stamp(u.UpdatedAt), u.ID,
	))
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id))
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email, u.password_hash, u.role, u.permission, u.is_whitelisted,
		        u.created_at, u.updated_at,
		        (SELECT COUNT(*) FROM transactions t WHERE t.user_id = u.id)
		   FROM users u
		  ORDER BY u.created_at DESC, u.id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.UserSummary
	for rows.Next() {
		var count int
		u, err := scanUser(rows, &count)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.UserSummary{User: u, TransactionCount: count})
	}
	return out, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
