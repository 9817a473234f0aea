package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type TransactionType string

const (
	TypeIncome      TransactionType = "INCOME"
	TypeExpenditure TransactionType = "EXPENDITURE"
)

// ParseTransactionType accepts any casing of a known type.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch t := TransactionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TypeIncome, TypeExpenditure:
		return t, true
	}
	return "", false
}

type Transaction struct {
	ID          string
	Type        TransactionType
	Amount      float64
	Category    string
	Description string
	Date        time.Time
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Owner is nil when the owning user has been deleted.
	Owner *Owner
}

// Owner is the projection of a transaction's user shown alongside it.
type Owner struct {
	ID    string
	Name  string
	Email string
}

// UserPrefix returns the display initials for the transaction's owner.
func (t Transaction) UserPrefix() string {
	if t.Owner == nil {
		return ""
	}
	return Initials(t.Owner.Name, t.Owner.Email)
}

// TransactionFilter narrows a transaction listing. Zero values match
// everything.
type TransactionFilter struct {
	From     *time.Time // inclusive
	To       *time.Time // inclusive
	Type     TransactionType
	Category string
	UserID   string
	Limit    int
}

// Initials derives a short owner tag: the first letters of the first two
// name parts, else the first letter of a one-part name, else the first two
// characters of the email.
func Initials(name, email string) string {
	parts := strings.Fields(name)
	switch {
	case len(parts) >= 2:
		return firstUpper(parts[0]) + firstUpper(parts[1])
	case len(parts) == 1:
		return firstUpper(parts[0])
	}

	runes := []rune(email)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

func firstUpper(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
