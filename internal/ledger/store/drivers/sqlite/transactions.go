package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
)

type transactionsRepo struct {
	db dbtx
}

// The owner columns come from a LEFT JOIN and are NULL once the user is gone.
const transactionSelect = `SELECT t.id, t.type, t.amount, t.category, t.description, t.date, t.user_id,
       t.created_at, t.updated_at, u.id, u.name, u.email
  FROM transactions t
  LEFT JOIN users u ON u.id = t.user_id`

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		t                          domain.Transaction
		typ                        string
		date, createdAt, updatedAt string
		ownerID, ownerName, email  sql.NullString
	)
	if err := row.Scan(
		&t.ID, &typ, &t.Amount, &t.Category, &t.Description, &date, &t.UserID,
		&createdAt, &updatedAt, &ownerID, &ownerName, &email,
	); err != nil {
		return domain.Transaction{}, err
	}
	t.Type = domain.TransactionType(typ)

	var err error
	if t.Date, err = parseTime(date); err != nil {
		return domain.Transaction{}, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Transaction{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Transaction{}, err
	}
	if ownerID.Valid {
		t.Owner = &domain.Owner{ID: ownerID.String, Name: ownerName.String, Email: email.String}
	}
	return t, nil
}

func (r *transactionsRepo) CreateTransaction(ctx context.Context, t domain.Transaction) error {
	created := stamp(t.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, type, amount, category, description, date, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Type), t.Amount, t.Category, t.Description, formatTime(t.Date), t.UserID,
		created, created,
	)
	return mapConstraint(err)
}

func (r *transactionsRepo) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		return domain.Transaction{}, mapNotFound(err)
	}
	return t, nil
}

func (r *transactionsRepo) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE transactions
		    SET type = ?, amount = ?, category = ?, description = ?, date = ?, updated_at = ?
		  WHERE id = ?`,
		string(t.Type), t.Amount, t.Category, t.Description, formatTime(t.Date), stamp(t.UpdatedAt), t.ID,
	))
}

func (r *transactionsRepo) DeleteTransaction(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id))
}

func (r *transactionsRepo) ListTransactions(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if f.From != nil {
		where = append(where, "t.date >= ?")
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		where = append(where, "t.date <= ?")
		args = append(args, formatTime(*f.To))
	}
	if f.Type != "" {
		where = append(where, "t.type = ?")
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		where = append(where, "t.category = ?")
		args = append(args, f.Category)
	}
	if f.UserID != "" {
		where = append(where, "t.user_id = ?")
		args = append(args, f.UserID)
	}

	var q strings.Builder
	q.WriteString(transactionSelect)
	if len(where) > 0 {
		q.WriteString(" WHERE ")
		q.WriteString(strings.Join(where, " AND "))
	}
	q.WriteString(" ORDER BY t.created_at DESC, t.id DESC")
	if f.Limit > 0 {
		q.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
