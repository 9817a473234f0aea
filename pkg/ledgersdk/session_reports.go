package ledgersdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func dateRange(startDate, endDate string) string {
	return TransactionQuery{StartDate: startDate, EndDate: endDate}.encode()
}

// Dashboard returns the summary for the date range plus the five most
// recent transactions overall.
func (s *Session) Dashboard(ctx context.Context, startDate, endDate string) (*DashboardResponse, error) {
	var out DashboardResponse
	if err := s.call(ctx, http.MethodGet, "/dashboard/summary"+dateRange(startDate, endDate), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ReportSummary(ctx context.Context, startDate, endDate string) (*Summary, error) {
	var out Summary
	if err := s.call(ctx, http.MethodGet, "/reports/summary"+dateRange(startDate, endDate), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) CategoryReport(ctx context.Context, startDate, endDate string) ([]CategoryTotal, error) {
	var out CategoryResponse
	if err := s.call(ctx, http.MethodGet, "/reports/category"+dateRange(startDate, endDate), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.CategoryData, nil
}

// MonthlyReport returns twelve monthly totals. A zero year means the
// server's current year.
func (s *Session) MonthlyReport(ctx context.Context, year int) ([]MonthlyTotal, error) {
	path := "/reports/monthly"
	if year != 0 {
		path += "?" + url.Values{"year": {strconv.Itoa(year)}}.Encode()
	}

	var out MonthlyResponse
	if err := s.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.MonthlyData, nil
}
