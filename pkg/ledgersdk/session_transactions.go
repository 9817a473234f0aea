package ledgersdk

import (
	"context"
	"net/http"
	"net/url"
)

func (q TransactionQuery) encode() string {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("startDate", q.StartDate)
	set("endDate", q.EndDate)
	set("type", q.Type)
	set("category", q.Category)
	set("userId", q.UserID)
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// ListTransactions returns the shared ledger, newest first.
func (s *Session) ListTransactions(ctx context.Context, q TransactionQuery) ([]Transaction, error) {
	var out TransactionsResponse
	if err := s.call(ctx, http.MethodGet, "/transactions"+q.encode(), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

func (s *Session) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var out TransactionResponse
	if err := s.call(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Transaction, nil
}

// CreateTransaction requires WRITE permission.
func (s *Session) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*Transaction, error) {
	var out TransactionResponse
	if err := s.call(ctx, http.MethodPost, "/transactions", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.Transaction, nil
}

// UpdateTransaction requires WRITE permission and either ownership or the
// ADMIN role.
func (s *Session) UpdateTransaction(ctx context.Context, id string, req UpdateTransactionRequest) (*Transaction, error) {
	var out TransactionResponse
	if err := s.call(ctx, http.MethodPut, "/transactions/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Transaction, nil
}

// DeleteTransaction has the same requirements as UpdateTransaction.
func (s *Session) DeleteTransaction(ctx context.Context, id string) error {
	var out MessageResponse
	return s.call(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, &out, http.StatusOK)
}
