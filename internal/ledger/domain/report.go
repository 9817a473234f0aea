package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

type Summary struct {
	TotalIncome       float64
	TotalExpenditure  float64
	NetBalance        float64
	TotalTransactions int
}

// Summarize totals income and expenditure over txs.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			s.TotalIncome += t.Amount
		case TypeExpenditure:
			s.TotalExpenditure += t.Amount
		}
	}
	s.NetBalance = s.TotalIncome - s.TotalExpenditure
	s.TotalTransactions = len(txs)
	return s
}

type CategoryTotal struct {
	Name       string
	Value      float64
	Percentage float64 // one decimal place
}

// CategoryBreakdown groups txs by category regardless of type. The result is
// ordered by value, largest first, with ties broken by name.
func CategoryBreakdown(txs []Transaction) []CategoryTotal {
	totals := make(map[string]float64)
	var total float64
	for _, t := range txs {
		totals[t.Category] += t.Amount
		total += t.Amount
	}

	out := make([]CategoryTotal, 0, len(totals))
	for name, value := range totals {
		out = append(out, CategoryTotal{
			Name:       name,
			Value:      value,
			Percentage: percentage(value, total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func percentage(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(value/total*1000) / 10
}

type MonthlyTotal struct {
	Month       string // "Jan 2025"
	Income      float64
	Expenditure float64
}

// MonthlyTotals buckets txs dated within year into twelve calendar months
// (UTC). Transactions outside year are ignored.
func MonthlyTotals(txs []Transaction, year int) []MonthlyTotal {
	out := make([]MonthlyTotal, 12)
	for i := range out {
		out[i].Month = fmt.Sprintf("%s %d", time.Month(i + 1).String()[:3], year)
	}

	for _, t := range txs {
		d := t.Date.UTC()
		if d.Year() != year {
			continue
		}
		m := &out[d.Month()-1]
		switch t.Type {
		case TypeIncome:
			m.Income += t.Amount
		case TypeExpenditure:
			m.Expenditure += t.Amount
		}
	}
	return out
}

// YearBounds returns the first and last instants of year in UTC.
func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond)
}
