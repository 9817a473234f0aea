package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"

	_ "github.com/aussiebroadwan/ledger/api/ledger" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	AuthService   *service.AuthService
	LedgerService *service.LedgerService
	AdminService  *service.AdminService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	allowedOrigins []string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Request logging first so panics are reported with the request logger.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
		httpx.CORS(allowedOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	guard := &Guard{AuthService: r.AuthService}

	r.registerAuth(guard)
	r.registerTransactions(guard)
	r.registerReports(guard)
	r.registerAdmin(guard)
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Ledger Service API
//	@version		1.0.0
//	@description	Shared income and expenditure ledger with an approval-gated user base.
//	@description
//	@description				Users hold a role (ADMIN or USER) and a permission (READ or WRITE). Only approved emails may register.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/ledger
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:6001
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth(guard *Guard) {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints - strict limit per IP and submitted email
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	r.Mux.Handle("GET /auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			guard.Authenticate(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerTransactions(guard *Guard) {
	h := &TransactionsHandler{LedgerService: r.LedgerService}

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			guard.Authenticate(),
			RequirePermission(domain.PermissionRead),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}
	// Ownership is checked by the service; the guard only needs WRITE.
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			guard.Authenticate(),
			RequirePermission(domain.PermissionWrite),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /transactions", read(h.HandleList))
	r.Mux.Handle("GET /transactions/{id}", read(h.HandleGet))
	r.Mux.Handle("POST /transactions", write(h.HandleCreate))
	r.Mux.Handle("PUT /transactions/{id}", write(h.HandleUpdate))
	r.Mux.Handle("DELETE /transactions/{id}", write(h.HandleDelete))
}

func (r *Router) registerReports(guard *Guard) {
	h := &ReportsHandler{LedgerService: r.LedgerService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			guard.Authenticate(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /dashboard/summary", secured(h.HandleDashboard))
	r.Mux.Handle("GET /reports/summary", secured(h.HandleSummary))
	r.Mux.Handle("GET /reports/category", secured(h.HandleCategory))
	r.Mux.Handle("GET /reports/monthly", secured(h.HandleMonthly))
}

func (r *Router) registerAdmin(guard *Guard) {
	h := &AdminHandler{AdminService: r.AdminService}

	admin := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			guard.Authenticate(),
			RequireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /admin/approve", admin(h.HandleApprove))
	r.Mux.Handle("GET /admin/approved", admin(h.HandleListApproved))
	r.Mux.Handle("DELETE /admin/approved/{id}", admin(h.HandleRevoke))
	r.Mux.Handle("GET /admin/users", admin(h.HandleListUsers))
	r.Mux.Handle("PUT /admin/users/{id}", admin(h.HandleUpdateUser))
	r.Mux.Handle("DELETE /admin/users/{id}", admin(h.HandleDeleteUser))
}

func (r *Router) registerSystem() {
	// Health check endpoints - public limit (monitoring systems may poll frequently)
	livez := httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
		httpx.RateLimitByIP(httpx.PublicLimit),
	)
	r.Mux.Handle("GET /livez", livez)
	r.Mux.Handle("GET /health", livez)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
