package service

import (
	"math"
	"regexp"
	"strings"
	"time"
)

var reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minNameLen     = 2
	maxNameLen     = 100
	minPasswordLen = 6
	maxPasswordLen = 128
	maxTextLen     = 500

	reasonRequired = "is required"
)

func validateName(errs fieldErrors, field, name string) {
	name = strings.TrimSpace(name)
	switch n := len([]rune(name)); {
	case n == 0:
		errs.add(field, "Name "+reasonRequired)
	case n < minNameLen:
		errs.add(field, "Name must be at least 2 characters")
	case n > maxNameLen:
		errs.add(field, "Name must be at most 100 characters")
	}
}

func validateEmail(errs fieldErrors, field, email string) {
	switch {
	case email == "":
		errs.add(field, "Email "+reasonRequired)
	case len(email) > 254 || !reEmail.MatchString(email):
		errs.add(field, "Invalid email format")
	}
}

func validatePassword(errs fieldErrors, field, password string) {
	switch {
	case password == "":
		errs.add(field, "Password "+reasonRequired)
	case len(password) < minPasswordLen:
		errs.add(field, "Password must be at least 6 characters")
	case len(password) > maxPasswordLen:
		errs.add(field, "Password must be at most 128 characters")
	}
}

func validateAmount(errs fieldErrors, amount float64) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		errs.add("amount", "Amount must be positive")
	}
}

func validateText(errs fieldErrors, field, label, value string) {
	switch v := strings.TrimSpace(value); {
	case v == "":
		errs.add(field, label+" "+reasonRequired)
	case len(v) > maxTextLen:
		errs.add(field, label+" must be at most 500 characters")
	}
}

const dateOnly = "2006-01-02"

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates (midnight
// UTC). The bool reports whether s was date-only.
func parseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
