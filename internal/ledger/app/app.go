package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/ledger/internal/ledger/http"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/postgres"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/sqlite"
	"github.com/aussiebroadwan/ledger/pkg/cryptox"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v1.0.0"
)

// Application encapsulates the ledger service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	sessions *service.SessionIssuer

	// Services
	authService      *service.AuthService
	ledgerService    *service.LedgerService
	adminService     *service.AdminService
	bootstrapService *service.BootstrapService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ledger-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  cfg.LogOutput,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	ctx := context.Background()
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	keys, err := InitSessionKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.sessions = &service.SessionIssuer{
		Keys:   keys,
		Issuer: app.cfg.JWTIssuer,
		TTL:    app.cfg.JWTExpiresIn,
	}

	app.initServices()
	if err := app.bootstrap(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the HTTP handler, for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("ledger service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down ledger service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("ledger service stopped")
	return nil
}

// initDatabase opens the configured store and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	default:
		dsn := app.cfg.DatabaseFile
		if dsn != ":memory:" {
			dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		}
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{Store: app.db, Sessions: app.sessions}
	app.ledgerService = &service.LedgerService{Store: app.db}
	app.adminService = &service.AdminService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{Store: app.db}
}

// bootstrap seeds the first admin when configured and the store is empty.
func (app *Application) bootstrap(ctx context.Context) error {
	if app.cfg.BootstrapAdminEmail == "" || app.cfg.BootstrapAdminPassword == "" {
		return nil
	}

	ctx = slogx.WithContext(ctx, app.logger)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := app.bootstrapService.SeedAdmin(ctx, service.BootstrapInput{
		Name:     app.cfg.BootstrapAdminName,
		Email:    app.cfg.BootstrapAdminEmail,
		Password: app.cfg.BootstrapAdminPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.AllowedOrigins,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.LedgerService = app.ledgerService
	router.AdminService = app.adminService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
