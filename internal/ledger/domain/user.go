package domain

import (
	"strings"
	"time"
)

// Role is the coarse identity class gating administrative endpoints.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole accepts any casing of a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleUser:
		return r, true
	}
	return "", false
}

// Permission gates mutating access to the ledger.
type Permission string

const (
	PermissionRead  Permission = "READ"
	PermissionWrite Permission = "WRITE"
)

// ParsePermission accepts any casing of a known permission.
func ParsePermission(s string) (Permission, bool) {
	switch p := Permission(strings.ToUpper(strings.TrimSpace(s))); p {
	case PermissionRead, PermissionWrite:
		return p, true
	}
	return "", false
}

// Satisfies reports whether p meets required. WRITE is a superset of READ.
func (p Permission) Satisfies(required Permission) bool {
	if p == PermissionWrite {
		return required == PermissionRead || required == PermissionWrite
	}
	return p == required && p == PermissionRead
}

type User struct {
	ID            string
	Name          string
	Email         string // always lowercase
	PasswordHash  string // argon2id, or bcrypt for imported accounts
	Role          Role
	Permission    Permission
	IsWhitelisted bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Identity is the live view of the caller resolved for a single request.
// It is a value; handlers receive a copy and cannot change the caller.
type Identity struct {
	UserID     string
	Name       string
	Email      string
	Role       Role
	Permission Permission
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// IdentityOf projects the fields the access guard resolves for a user.
func IdentityOf(u User) Identity {
	return Identity{
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Permission: u.Permission,
	}
}

// UserSummary is a user row with its transaction count, as listed to admins.
type UserSummary struct {
	User
	TransactionCount int
}

// Approval pre-authorizes an email to self-register with a fixed role and
// permission.
type Approval struct {
	ID         string
	Email      string // always lowercase
	Role       Role
	Permission Permission
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NormalizeEmail is the canonical form used for every email lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
