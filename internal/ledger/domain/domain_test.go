package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/stretchr/testify/require"
)

func TestPermissionSatisfies(t *testing.T) {
	tests := []struct {
		have, need domain.Permission
		want       bool
	}{
		{domain.PermissionWrite, domain.PermissionWrite, true},
		{domain.PermissionWrite, domain.PermissionRead, true},
		{domain.PermissionRead, domain.PermissionRead, true},
		{domain.PermissionRead, domain.PermissionWrite, false},
		{domain.Permission(""), domain.PermissionRead, false},
		{domain.Permission("ADMIN"), domain.PermissionRead, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.have)+"->"+string(tt.need), func(t *testing.T) {
			require.Equal(t, tt.want, tt.have.Satisfies(tt.need))
		})
	}
}

func TestParseRoleAndPermission(t *testing.T) {
	r, ok := domain.ParseRole(" admin ")
	require.True(t, ok)
	require.Equal(t, domain.RoleAdmin, r)

	_, ok = domain.ParseRole("root")
	require.False(t, ok)

	p, ok := domain.ParsePermission("write")
	require.True(t, ok)
	require.Equal(t, domain.PermissionWrite, p)

	_, ok = domain.ParsePermission("execute")
	require.False(t, ok)

	typ, ok := domain.ParseTransactionType("Expenditure")
	require.True(t, ok)
	require.Equal(t, domain.TypeExpenditure, typ)
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name, email, want string
	}{
		{"Ada Lovelace", "ada@example.com", "AL"},
		{"ada king lovelace", "ada@example.com", "AK"},
		{"  grace  ", "grace@example.com", "G"},
		{"", "bob@example.com", "BO"},
		{"   ", "x", "X"},
		{"", "", ""},
		{"émile zola", "", "ÉZ"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, domain.Initials(tt.name, tt.email))
		})
	}
}

func TestUserPrefixWithoutOwner(t *testing.T) {
	require.Equal(t, "", domain.Transaction{}.UserPrefix())

	tx := domain.Transaction{Owner: &domain.Owner{Name: "Jo Bloggs"}}
	require.Equal(t, "JB", tx.UserPrefix())
}

func income(amount float64) domain.Transaction {
	return domain.Transaction{Type: domain.TypeIncome, Amount: amount}
}

func expense(amount float64) domain.Transaction {
	return domain.Transaction{Type: domain.TypeExpenditure, Amount: amount}
}

func TestSummarize(t *testing.T) {
	got := domain.Summarize([]domain.Transaction{income(500), income(800), expense(200), expense(190)})
	require.Equal(t, domain.Summary{
		TotalIncome:       1300,
		TotalExpenditure:  390,
		NetBalance:        910,
		TotalTransactions: 4,
	}, got)

	require.Equal(t, domain.Summary{}, domain.Summarize(nil))
}

func TestCategoryBreakdown(t *testing.T) {
	t.Run("percentages", func(t *testing.T) {
		got := domain.CategoryBreakdown([]domain.Transaction{
			{Category: "B", Amount: 40},
			{Category: "A", Amount: 60},
		})
		require.Equal(t, []domain.CategoryTotal{
			{Name: "A", Value: 60, Percentage: 60.0},
			{Name: "B", Value: 40, Percentage: 40.0},
		}, got)
	})

	t.Run("sum stays within rounding", func(t *testing.T) {
		got := domain.CategoryBreakdown([]domain.Transaction{
			{Category: "A", Amount: 1},
			{Category: "B", Amount: 1},
			{Category: "C", Amount: 1},
		})
		var sum float64
		for _, c := range got {
			require.InDelta(t, 33.3, c.Percentage, 0.001)
			sum += c.Percentage
		}
		require.LessOrEqual(t, sum, 100.0+0.1*float64(len(got)))
		require.Equal(t, []string{"A", "B", "C"}, []string{got[0].Name, got[1].Name, got[2].Name})
	})

	t.Run("groups repeated categories", func(t *testing.T) {
		got := domain.CategoryBreakdown([]domain.Transaction{
			{Category: "Rent", Amount: 100},
			{Category: "Rent", Amount: 50},
			{Category: "Food", Amount: 50},
		})
		require.Len(t, got, 2)
		require.Equal(t, "Rent", got[0].Name)
		require.Equal(t, 150.0, got[0].Value)
		require.Equal(t, 75.0, got[0].Percentage)
	})

	t.Run("empty", func(t *testing.T) {
		require.Empty(t, domain.CategoryBreakdown(nil))
	})
}

func TestMonthlyTotals(t *testing.T) {
	at := func(s string) time.Time {
		d, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return d
	}

	txs := []domain.Transaction{
		{Type: domain.TypeIncome, Amount: 100, Date: at("2025-01-15T10:00:00Z")},
		{Type: domain.TypeExpenditure, Amount: 40, Date: at("2025-01-31T23:59:59Z")},
		{Type: domain.TypeIncome, Amount: 10, Date: at("2025-12-01T00:00:00Z")},
		{Type: domain.TypeIncome, Amount: 999, Date: at("2024-12-31T23:59:59Z")},
		// 2025-03-01 in UTC despite the offset
		{Type: domain.TypeExpenditure, Amount: 5, Date: at("2025-02-28T23:00:00-02:00")},
	}

	got := domain.MonthlyTotals(txs, 2025)
	require.Len(t, got, 12)
	require.Equal(t, domain.MonthlyTotal{Month: "Jan 2025", Income: 100, Expenditure: 40}, got[0])
	require.Equal(t, domain.MonthlyTotal{Month: "Feb 2025"}, got[1])
	require.Equal(t, domain.MonthlyTotal{Month: "Mar 2025", Expenditure: 5}, got[2])
	require.Equal(t, domain.MonthlyTotal{Month: "Dec 2025", Income: 10}, got[11])
}

func TestYearBounds(t *testing.T) {
	start, end := domain.YearBounds(2024)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, 2024, end.Year())
	require.Equal(t, time.December, end.Month())
	require.True(t, end.Add(time.Nanosecond).Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
