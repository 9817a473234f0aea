package http

import (
	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
)

func toUser(u domain.User) ledgersdk.User {
	return ledgersdk.User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		Permission: string(u.Permission),
	}
}

func toManagedUser(u domain.User) ledgersdk.ManagedUser {
	return ledgersdk.ManagedUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		Permission:    string(u.Permission),
		IsWhitelisted: u.IsWhitelisted,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toAdminUsers(users []domain.UserSummary) []ledgersdk.AdminUser {
	out := make([]ledgersdk.AdminUser, len(users))
	for i, u := range users {
		out[i] = ledgersdk.AdminUser{
			ManagedUser:      toManagedUser(u.User),
			TransactionCount: u.TransactionCount,
		}
	}
	return out
}

func toApproval(a domain.Approval) ledgersdk.ApprovedUser {
	return ledgersdk.ApprovedUser{
		ID:         a.ID,
		Email:      a.Email,
		Role:       string(a.Role),
		Permission: string(a.Permission),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func toApprovals(list []domain.Approval) []ledgersdk.ApprovedUser {
	out := make([]ledgersdk.ApprovedUser, len(list))
	for i, a := range list {
		out[i] = toApproval(a)
	}
	return out
}

func toTransaction(t domain.Transaction) ledgersdk.Transaction {
	out := ledgersdk.Transaction{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		UserPrefix:  t.UserPrefix(),
	}
	if t.Owner != nil {
		out.User = &ledgersdk.Owner{ID: t.Owner.ID, Name: t.Owner.Name, Email: t.Owner.Email}
	}
	return out
}

func toTransactions(txs []domain.Transaction) []ledgersdk.Transaction {
	out := make([]ledgersdk.Transaction, len(txs))
	for i, t := range txs {
		out[i] = toTransaction(t)
	}
	return out
}

func toSummary(s domain.Summary) ledgersdk.Summary {
	return ledgersdk.Summary{
		TotalIncome:       s.TotalIncome,
		TotalExpenditure:  s.TotalExpenditure,
		NetBalance:        s.NetBalance,
		TotalTransactions: s.TotalTransactions,
	}
}

func toCategories(cats []domain.CategoryTotal) []ledgersdk.CategoryTotal {
	out := make([]ledgersdk.CategoryTotal, len(cats))
	for i, c := range cats {
		out[i] = ledgersdk.CategoryTotal{Name: c.Name, Value: c.Value, Percentage: c.Percentage}
	}
	return out
}

func toMonthly(months []domain.MonthlyTotal) []ledgersdk.MonthlyTotal {
	out := make([]ledgersdk.MonthlyTotal, len(months))
	for i, m := range months {
		out[i] = ledgersdk.MonthlyTotal{Month: m.Month, Income: m.Income, Expenditure: m.Expenditure}
	}
	return out
}
