package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/jackc/pgx/v5"
)

type transactionsRepo struct {
	db dbtx
}

const transactionSelect = `SELECT t.id, t.type, t.amount, t.category, t.description, t.date, t.user_id,
       t.created_at, t.updated_at, u.id, u.name, u.email
  FROM transactions t
  LEFT JOIN users u ON u.id = t.user_id`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var (
		t                         domain.Transaction
		typ                       string
		ownerID, ownerName, email *string
	)
	if err := row.Scan(
		&t.ID, &typ, &t.Amount, &t.Category, &t.Description, &t.Date, &t.UserID,
		&t.CreatedAt, &t.UpdatedAt, &ownerID, &ownerName, &email,
	); err != nil {
		return domain.Transaction{}, err
	}
	t.Type = domain.TransactionType(typ)
	t.Date = t.Date.UTC()
	if ownerID != nil {
		t.Owner = &domain.Owner{ID: *ownerID, Name: deref(ownerName), Email: deref(email)}
	}
	return t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *transactionsRepo) CreateTransaction(ctx context.Context, t domain.Transaction) error {
	created := orNow(t.CreatedAt)
	_, err := r.db.Exec(ctx,
		`INSERT INTO transactions (id, type, amount, category, description, date, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		t.ID, string(t.Type), t.Amount, t.Category, t.Description, t.Date.UTC(), t.UserID, created,
	)
	return mapConstraint(err)
}

func (r *transactionsRepo) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, transactionSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return domain.Transaction{}, mapNotFound(err)
	}
	return t, nil
}

func (r *transactionsRepo) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE transactions
		    SET type = $1, amount = $2, category = $3, description = $4, date = $5, updated_at = $6
		  WHERE id = $7`,
		string(t.Type), t.Amount, t.Category, t.Description, t.Date.UTC(), orNow(t.UpdatedAt), t.ID,
	))
}

func (r *transactionsRepo) DeleteTransaction(ctx context.Context, id string) error {
	return expectOne(r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id))
}

func (r *transactionsRepo) ListTransactions(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("t.date >= $%d", f.From.UTC())
	}
	if f.To != nil {
		add("t.date <= $%d", f.To.UTC())
	}
	if f.Type != "" {
		add("t.type = $%d", string(f.Type))
	}
	if f.Category != "" {
		add("t.category = $%d", f.Category)
	}
	if f.UserID != "" {
		add("t.user_id = $%d", f.UserID)
	}

	var q strings.Builder
	q.WriteString(transactionSelect)
	if len(where) > 0 {
		q.WriteString(" WHERE ")
		q.WriteString(strings.Join(where, " AND "))
	}
	q.WriteString(" ORDER BY t.created_at DESC, t.id DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&q, " LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
