package service

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Every error a service returns to a caller either wraps one of
// these or is an unexpected infrastructure failure.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// kindError carries a client-safe message and unwraps to its kind.
type kindError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error { return &kindError{kind: kind, msg: msg} }

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

var (
	ErrAccessTokenRequired = newError(ErrUnauthenticated, "Access token required")
	ErrInvalidToken        = newError(ErrUnauthenticated, "Invalid or expired token")
	ErrUserNotAuthorized   = newError(ErrUnauthenticated, "User not found or not authorized")
	ErrInvalidCredentials  = newError(ErrUnauthenticated, "Invalid credentials")

	ErrNotApproved           = newError(ErrForbidden, "Email not approved for registration. Contact administrator.")
	ErrNotAuthorizedToUpdate = newError(ErrForbidden, "Not authorized to update this transaction")
	ErrNotAuthorizedToDelete = newError(ErrForbidden, "Not authorized to delete this transaction")

	ErrTransactionNotFound = newError(ErrNotFound, "Transaction not found")
	ErrUserNotFound        = newError(ErrNotFound, "User not found")
	ErrApprovalNotFound    = newError(ErrNotFound, "Approved user not found")

	ErrUserAlreadyExists = newError(ErrConflict, "User already exists")
	ErrEmailTaken        = newError(ErrConflict, "Email already in use")
	ErrSelfDeletion      = newError(ErrConflict, "Cannot delete your own account")
	ErrSelfDemotion      = newError(ErrConflict, "Cannot remove your own admin role")
	ErrSelfDisable       = newError(ErrConflict, "Cannot disable your own account")
)

// InsufficientPermissionsError is a failed role or permission check. It
// reports what was required and what the caller holds.
type InsufficientPermissionsError struct {
	Required []string
	Current  string
}

func (e *InsufficientPermissionsError) Error() string { return "Insufficient permissions" }
func (e *InsufficientPermissionsError) Unwrap() error { return ErrForbidden }

// ValidationError lists per-field problems with the input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for _, msg := range e.Fields {
			return msg
		}
	}
	return "Validation failed"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// String renders the fields deterministically, for logs.
func (e *ValidationError) String() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return strings.Join(parts, "; ")
}

// fieldErrors accumulates validation failures.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
