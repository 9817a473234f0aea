package http

import (
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
)

type TransactionsHandler struct {
	LedgerService *service.LedgerService
}

func listQuery(r *http.Request) service.ListQuery {
	q := r.URL.Query()
	return service.ListQuery{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Type:      q.Get("type"),
		Category:  q.Get("category"),
		UserID:    q.Get("userId"),
	}
}

// HandleList lists the shared ledger.
//
//	@Summary		List transactions
//	@Description	Every authenticated user sees every transaction. userId is only honoured for admins.
//	@Tags			Transactions
//	@Security		BearerAuth
//	@Produce		json
//	@Param			startDate	query		string	false	"Inclusive lower bound (YYYY-MM-DD or RFC 3339)"
//	@Param			endDate		query		string	false	"Inclusive upper bound; a bare date covers the whole day"
//	@Param			type		query		string	false	"INCOME or EXPENDITURE"
//	@Param			category	query		string	false	"Exact category"
//	@Param			userId		query		string	false	"Owner filter (admins only)"
//	@Success		200			{object}	ledgersdk.TransactionsResponse
//	@Failure		400			{object}	ledgersdk.ErrorResponse	"Invalid date"
//	@Failure		401			{object}	ledgersdk.ErrorResponse
//	@Router			/transactions [get].
func (h *TransactionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	txs, err := h.LedgerService.List(r.Context(), id, listQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.TransactionsResponse{Transactions: toTransactions(txs)})
}

// HandleGet returns one transaction.
//
//	@Summary		Get transaction
//	@Tags			Transactions
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Transaction ID"
//	@Success		200	{object}	ledgersdk.TransactionResponse
//	@Failure		401	{object}	ledgersdk.ErrorResponse
//	@Failure		404	{object}	ledgersdk.ErrorResponse
//	@Router			/transactions/{id} [get].
func (h *TransactionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	t, err := h.LedgerService.Get(r.Context(), id, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.TransactionResponse{Transaction: toTransaction(t)})
}

// HandleCreate records a transaction owned by the caller.
//
//	@Summary		Create transaction
//	@Description	Requires WRITE permission.
//	@Tags			Transactions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ledgersdk.CreateTransactionRequest	true	"Transaction"
//	@Success		201		{object}	ledgersdk.TransactionResponse
//	@Failure		400		{object}	ledgersdk.ErrorResponse
//	@Failure		401		{object}	ledgersdk.ErrorResponse
//	@Failure		403		{object}	ledgersdk.ErrorResponse	"Insufficient permissions"
//	@Router			/transactions [post].
func (h *TransactionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req ledgersdk.CreateTransactionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	t, err := h.LedgerService.Create(r.Context(), id, service.TransactionInput{
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, ledgersdk.TransactionResponse{
		Message:     "Transaction created successfully",
		Transaction: toTransaction(t),
	})
}

// HandleUpdate patches a transaction.
//
//	@Summary		Update transaction
//	@Description	Requires WRITE permission and ownership of the transaction, or the ADMIN role.
//	@Tags			Transactions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Transaction ID"
//	@Param			request	body		ledgersdk.UpdateTransactionRequest	true	"Fields to change"
//	@Success		200		{object}	ledgersdk.TransactionResponse
//	@Failure		400		{object}	ledgersdk.ErrorResponse
//	@Failure		401		{object}	ledgersdk.ErrorResponse
//	@Failure		403		{object}	ledgersdk.ErrorResponse
//	@Failure		404		{object}	ledgersdk.ErrorResponse
//	@Router			/transactions/{id} [put].
func (h *TransactionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req ledgersdk.UpdateTransactionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	t, err := h.LedgerService.Update(r.Context(), id, r.PathValue("id"), service.TransactionPatch{
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.TransactionResponse{
		Message:     "Transaction updated successfully",
		Transaction: toTransaction(t),
	})
}

// HandleDelete removes a transaction.
//
//	@Summary		Delete transaction
//	@Description	Requires WRITE permission and ownership of the transaction, or the ADMIN role.
//	@Tags			Transactions
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Transaction ID"
//	@Success		200	{object}	ledgersdk.MessageResponse
//	@Failure		401	{object}	ledgersdk.ErrorResponse
//	@Failure		403	{object}	ledgersdk.ErrorResponse
//	@Failure		404	{object}	ledgersdk.ErrorResponse
//	@Router			/transactions/{id} [delete].
func (h *TransactionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.LedgerService.Delete(r.Context(), id, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.MessageResponse{Message: "Transaction deleted successfully"})
}
