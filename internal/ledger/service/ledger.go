package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// RecentTransactionsLimit is how many entries the dashboard shows.
const RecentTransactionsLimit = 5

// LedgerService is transaction CRUD plus the report reductions over it.
// The ledger is shared: every authenticated user reads every transaction,
// while changes are limited to the owner or an admin.
type LedgerService struct {
	Store store.Store

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *LedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ListQuery holds the raw listing parameters as the client sent them.
type ListQuery struct {
	StartDate string
	EndDate   string
	Type      string
	Category  string
	UserID    string
}

type TransactionInput struct {
	Type        string
	Amount      *float64
	Category    string
	Description string
	Date        string
}

// TransactionPatch is a partial update; nil fields are left alone.
type TransactionPatch struct {
	Type        *string
	Amount      *float64
	Category    *string
	Description *string
	Date        *string
}

func requirePermission(actor domain.Identity, need domain.Permission) error {
	if !actor.Permission.Satisfies(need) {
		return &InsufficientPermissionsError{
			Required: []string{string(need)},
			Current:  string(actor.Permission),
		}
	}
	return nil
}

// buildFilter turns a ListQuery into a store filter. An unknown type is
// ignored, and userId is honoured for admins only.
func buildFilter(actor domain.Identity, q ListQuery) (domain.TransactionFilter, error) {
	var f domain.TransactionFilter
	errs := fieldErrors{}

	if q.StartDate != "" {
		from, _, err := parseDate(q.StartDate)
		if err != nil {
			errs.add("startDate", "Invalid startDate")
		} else {
			f.From = &from
		}
	}
	if q.EndDate != "" {
		to, wholeDay, err := parseDate(q.EndDate)
		if err != nil {
			errs.add("endDate", "Invalid endDate")
		} else {
			if wholeDay {
				to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
			f.To = &to
		}
	}
	if err := errs.err(); err != nil {
		return domain.TransactionFilter{}, err
	}

	if t, ok := domain.ParseTransactionType(q.Type); ok {
		f.Type = t
	}
	f.Category = strings.TrimSpace(q.Category)
	if actor.IsAdmin() {
		f.UserID = strings.TrimSpace(q.UserID)
	}
	return f, nil
}

// List returns transactions matching q, newest first.
func (s *LedgerService) List(ctx context.Context, actor domain.Identity, q ListQuery) ([]domain.Transaction, error) {
	if err := requirePermission(actor, domain.PermissionRead); err != nil {
		return nil, err
	}
	f, err := buildFilter(actor, q)
	if err != nil {
		return nil, err
	}
	txs, err := s.Store.Transactions().ListTransactions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *LedgerService) Get(ctx context.Context, actor domain.Identity, id string) (domain.Transaction, error) {
	if err := requirePermission(actor, domain.PermissionRead); err != nil {
		return domain.Transaction{}, err
	}
	return s.load(ctx, id)
}

func (s *LedgerService) load(ctx context.Context, id string) (domain.Transaction, error) {
	t, err := s.Store.Transactions().GetTransaction(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("load transaction: %w", err)
	}
	return t, nil
}

// Create records a transaction owned by the caller.
func (s *LedgerService) Create(ctx context.Context, actor domain.Identity, in TransactionInput) (domain.Transaction, error) {
	if err := requirePermission(actor, domain.PermissionWrite); err != nil {
		return domain.Transaction{}, err
	}

	errs := fieldErrors{}
	typ, ok := domain.ParseTransactionType(in.Type)
	if !ok {
		errs.add("type", "Type must be INCOME or EXPENDITURE")
	}
	if in.Amount == nil {
		errs.add("amount", "Amount "+reasonRequired)
	} else {
		validateAmount(errs, *in.Amount)
	}
	validateText(errs, "category", "Category", in.Category)
	validateText(errs, "description", "Description", in.Description)
	date, _, err := parseDate(in.Date)
	if err != nil {
		errs.add("date", "Invalid date format")
	}
	if err := errs.err(); err != nil {
		return domain.Transaction{}, err
	}

	now := s.now()
	t := domain.Transaction{
		ID:          idx.NewAt(now).String(),
		Type:        typ,
		Amount:      *in.Amount,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        date,
		UserID:      actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Transactions().CreateTransaction(ctx, t); err != nil {
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slogx.FromContext(ctx).Info("transaction created",
		slog.String("transaction_id", t.ID),
		slog.String("user_id", actor.UserID),
	)
	return s.load(ctx, t.ID)
}

// Update applies patch to a transaction the caller owns, or any transaction
// when the caller is an admin.
func (s *LedgerService) Update(ctx context.Context, actor domain.Identity, id string, patch TransactionPatch) (domain.Transaction, error) {
	if err := requirePermission(actor, domain.PermissionWrite); err != nil {
		return domain.Transaction{}, err
	}

	errs := fieldErrors{}
	var (
		typ  domain.TransactionType
		date time.Time
	)
	if patch.Type != nil {
		var ok bool
		if typ, ok = domain.ParseTransactionType(*patch.Type); !ok {
			errs.add("type", "Type must be INCOME or EXPENDITURE")
		}
	}
	if patch.Amount != nil {
		validateAmount(errs, *patch.Amount)
	}
	if patch.Category != nil {
		validateText(errs, "category", "Category", *patch.Category)
	}
	if patch.Description != nil {
		validateText(errs, "description", "Description", *patch.Description)
	}
	if patch.Date != nil {
		var err error
		if date, _, err = parseDate(*patch.Date); err != nil {
			errs.add("date", "Invalid date format")
		}
	}
	if err := errs.err(); err != nil {
		return domain.Transaction{}, err
	}

	t, err := s.load(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	if t.UserID != actor.UserID && !actor.IsAdmin() {
		slogx.FromContext(ctx).Warn("transaction update denied",
			slog.String("transaction_id", id),
			slog.String("user_id", actor.UserID),
		)
		return domain.Transaction{}, ErrNotAuthorizedToUpdate
	}

	if patch.Type != nil {
		t.Type = typ
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Category != nil {
		t.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Date != nil {
		t.Date = date
	}
	t.UpdatedAt = s.now()

	if err := s.Store.Transactions().UpdateTransaction(ctx, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Transaction{}, ErrTransactionNotFound
		}
		return domain.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	slogx.FromContext(ctx).Info("transaction updated",
		slog.String("transaction_id", id),
		slog.String("user_id", actor.UserID),
	)
	return s.load(ctx, id)
}

// Delete removes a transaction the caller owns, or any transaction when the
// caller is an admin.
func (s *LedgerService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if err := requirePermission(actor, domain.PermissionWrite); err != nil {
		return err
	}

	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if t.UserID != actor.UserID && !actor.IsAdmin() {
		slogx.FromContext(ctx).Warn("transaction delete denied",
			slog.String("transaction_id", id),
			slog.String("user_id", actor.UserID),
		)
		return ErrNotAuthorizedToDelete
	}

	if err := s.Store.Transactions().DeleteTransaction(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	slogx.FromContext(ctx).Info("transaction deleted",
		slog.String("transaction_id", id),
		slog.String("user_id", actor.UserID),
	)
	return nil
}

// dateRange lists the transactions inside the start/end dates of q; other
// filters are not applied to reports.
func (s *LedgerService) dateRange(ctx context.Context, actor domain.Identity, q ListQuery) ([]domain.Transaction, error) {
	return s.List(ctx, actor, ListQuery{StartDate: q.StartDate, EndDate: q.EndDate})
}

// Dashboard returns the summary over the date range and the most recent
// transactions overall.
func (s *LedgerService) Dashboard(ctx context.Context, actor domain.Identity, q ListQuery) (domain.Summary, []domain.Transaction, error) {
	txs, err := s.dateRange(ctx, actor, q)
	if err != nil {
		return domain.Summary{}, nil, err
	}
	recent, err := s.Store.Transactions().ListTransactions(ctx, domain.TransactionFilter{Limit: RecentTransactionsLimit})
	if err != nil {
		return domain.Summary{}, nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return domain.Summarize(txs), recent, nil
}

func (s *LedgerService) Summary(ctx context.Context, actor domain.Identity, q ListQuery) (domain.Summary, error) {
	txs, err := s.dateRange(ctx, actor, q)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(txs), nil
}

func (s *LedgerService) Categories(ctx context.Context, actor domain.Identity, q ListQuery) ([]domain.CategoryTotal, error) {
	txs, err := s.dateRange(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	return domain.CategoryBreakdown(txs), nil
}

// Monthly returns twelve monthly totals for year, which defaults to the
// current UTC year when empty.
func (s *LedgerService) Monthly(ctx context.Context, actor domain.Identity, year string) ([]domain.MonthlyTotal, error) {
	if err := requirePermission(actor, domain.PermissionRead); err != nil {
		return nil, err
	}

	y := s.now().Year()
	if year = strings.TrimSpace(year); year != "" {
		n, err := strconv.Atoi(year)
		if err != nil || n < 1 || n > 9999 {
			return nil, &ValidationError{Fields: map[string]string{"year": "Invalid year"}}
		}
		y = n
	}

	from, to := domain.YearBounds(y)
	txs, err := s.Store.Transactions().ListTransactions(ctx, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return domain.MonthlyTotals(txs, y), nil
}
