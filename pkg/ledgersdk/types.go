package ledgersdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a human-readable message
	Error string `json:"error"`

	// Details maps field names to validation messages (validation failures only)
	Details map[string]string `json:"details,omitempty"`

	// Required lists what a failed role or permission check asked for
	Required []string `json:"required,omitempty"`

	// Current is the role or permission the caller holds (failed checks only)
	Current string `json:"current,omitempty"`
}

// MessageResponse is returned by endpoints with nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Auth Types
// ============================================================================

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public projection of an account.
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Permission string     `json:"permission"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type MeResponse struct {
	User User `json:"user"`
}

// ============================================================================
// Transaction Types
// ============================================================================

// Owner is the user a transaction belongs to. It is absent once that user
// has been deleted.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Transaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	User        *Owner    `json:"user"`

	// UserPrefix is the owner's initials, empty for orphaned transactions
	UserPrefix string `json:"userPrefix"`
}

// CreateTransactionRequest creates a transaction. Date is RFC 3339 or
// YYYY-MM-DD.
type CreateTransactionRequest struct {
	Type        string   `json:"type"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
}

// UpdateTransactionRequest is a partial update; nil fields are unchanged.
type UpdateTransactionRequest struct {
	Type        *string  `json:"type,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Date        *string  `json:"date,omitempty"`
}

// TransactionQuery filters a listing. Empty fields are not sent.
type TransactionQuery struct {
	StartDate string
	EndDate   string
	Type      string
	Category  string

	// UserID is honoured for admins only
	UserID string
}

type TransactionResponse struct {
	Message     string      `json:"message,omitempty"`
	Transaction Transaction `json:"transaction"`
}

type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// ============================================================================
// Report Types
// ============================================================================

type Summary struct {
	TotalIncome       float64 `json:"totalIncome"`
	TotalExpenditure  float64 `json:"totalExpenditure"`
	NetBalance        float64 `json:"netBalance"`
	TotalTransactions int     `json:"totalTransactions"`
}

type DashboardResponse struct {
	Summary            Summary       `json:"summary"`
	RecentTransactions []Transaction `json:"recentTransactions"`
}

type CategoryTotal struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

type CategoryResponse struct {
	CategoryData []CategoryTotal `json:"categoryData"`
}

// MonthlyTotal keeps the capitalised series keys chart clients expect.
type MonthlyTotal struct {
	Month       string  `json:"month"`
	Income      float64 `json:"Income"`
	Expenditure float64 `json:"Expenditure"`
}

type MonthlyResponse struct {
	MonthlyData []MonthlyTotal `json:"monthlyData"`
}

// ============================================================================
// Admin Types
// ============================================================================

type ApproveRequest struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	Permission string `json:"permission"`
}

type ApprovedUser struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Permission string    `json:"permission"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ApproveResponse struct {
	Message      string       `json:"message"`
	ApprovedUser ApprovedUser `json:"approvedUser"`
}

type ApprovedUsersResponse struct {
	ApprovedUsers []ApprovedUser `json:"approvedUsers"`
}

// ManagedUser is the admin view of an account.
type ManagedUser struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Permission    string    `json:"permission"`
	IsWhitelisted bool      `json:"isWhitelisted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AdminUser is a ManagedUser as listed, with its transaction count.
type AdminUser struct {
	ManagedUser
	TransactionCount int `json:"transactionCount"`
}

type UsersResponse struct {
	Users []AdminUser `json:"users"`
}

// UpdateUserRequest is a partial update; nil fields are unchanged.
type UpdateUserRequest struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Role          *string `json:"role,omitempty"`
	Permission    *string `json:"permission,omitempty"`
	IsWhitelisted *bool   `json:"isWhitelisted,omitempty"`
}

type UpdateUserResponse struct {
	Message string      `json:"message"`
	User    ManagedUser `json:"user"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by /livez, /health and /readyz (readyz includes the Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`
}
