package http

import (
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
)

type ReportsHandler struct {
	LedgerService *service.LedgerService
}

// HandleDashboard returns the summary for a date range and the latest
// transactions.
//
//	@Summary		Dashboard summary
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			startDate	query		string	false	"Inclusive lower bound"
//	@Param			endDate		query		string	false	"Inclusive upper bound"
//	@Success		200			{object}	ledgersdk.DashboardResponse
//	@Failure		400			{object}	ledgersdk.ErrorResponse
//	@Failure		401			{object}	ledgersdk.ErrorResponse
//	@Router			/dashboard/summary [get].
func (h *ReportsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	sum, recent, err := h.LedgerService.Dashboard(r.Context(), id, listQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.DashboardResponse{
		Summary:            toSummary(sum),
		RecentTransactions: toTransactions(recent),
	})
}

// HandleSummary returns income and expenditure totals.
//
//	@Summary		Summary report
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			startDate	query		string	false	"Inclusive lower bound"
//	@Param			endDate		query		string	false	"Inclusive upper bound"
//	@Success		200			{object}	ledgersdk.Summary
//	@Failure		400			{object}	ledgersdk.ErrorResponse
//	@Failure		401			{object}	ledgersdk.ErrorResponse
//	@Router			/reports/summary [get].
func (h *ReportsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	sum, err := h.LedgerService.Summary(r.Context(), id, listQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSummary(sum))
}

// HandleCategory returns per-category totals and their share.
//
//	@Summary		Category report
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			startDate	query		string	false	"Inclusive lower bound"
//	@Param			endDate		query		string	false	"Inclusive upper bound"
//	@Success		200			{object}	ledgersdk.CategoryResponse
//	@Failure		400			{object}	ledgersdk.ErrorResponse
//	@Failure		401			{object}	ledgersdk.ErrorResponse
//	@Router			/reports/category [get].
func (h *ReportsHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	cats, err := h.LedgerService.Categories(r.Context(), id, listQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.CategoryResponse{CategoryData: toCategories(cats)})
}

// HandleMonthly returns twelve monthly totals for a year.
//
//	@Summary		Monthly report
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			year	query		int	false	"Calendar year, defaults to the current year"
//	@Success		200		{object}	ledgersdk.MonthlyResponse
//	@Failure		400		{object}	ledgersdk.ErrorResponse	"Invalid year"
//	@Failure		401		{object}	ledgersdk.ErrorResponse
//	@Router			/reports/monthly [get].
func (h *ReportsHandler) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	months, err := h.LedgerService.Monthly(r.Context(), id, r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.MonthlyResponse{MonthlyData: toMonthly(months)})
}
