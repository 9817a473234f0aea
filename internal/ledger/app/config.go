package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/ledger/pkg/jwtx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DatabaseDriver string // Optional: store driver (sqlite, postgres) (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./ledger.db)
	DatabaseURL    string // Required for postgres: connection URL
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	JWTAlgorithm string        // Optional: session signing algorithm (HS256, EdDSA) (default: HS256)
	JWTSecret    string        // Required for HS256 outside dev: shared secret
	JWTKeyFile   string        // Optional: Ed25519 PEM key file for EdDSA (default: ./jwt_ed25519.pem)
	JWTIssuer    string        // Optional: issuer claim (default: ledger)
	JWTExpiresIn time.Duration // Optional: session lifetime (default: 7d)

	AllowedOrigins []string // Optional: CORS origins (default: http://localhost:5173)

	BootstrapAdminName     string // Optional: name of the seeded admin (default: Administrator)
	BootstrapAdminEmail    string // Optional: seeds an admin into an empty store when set with a password
	BootstrapAdminPassword string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 6001)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	LogOutput io.Writer // Not read from the environment; defaults to stdout
}

func LoadConfig() Config {
	return Config{
		DatabaseDriver: strings.ToLower(getEnvOrDefault("LEDGER_DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   getEnvOrDefault("LEDGER_DATABASE_FILE", "ledger.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		PepperFile:     getEnvOrDefault("LEDGER_PEPPER_FILE", "pepper"),

		JWTAlgorithm: getEnvOrDefault("LEDGER_JWT_ALG", jwtx.AlgHS256),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTKeyFile:   getEnvOrDefault("LEDGER_JWT_KEY_FILE", "jwt_ed25519.pem"),
		JWTIssuer:    getEnvOrDefault("LEDGER_JWT_ISSUER", "ledger"),
		JWTExpiresIn: getEnvDurationOrDefault("JWT_EXPIRES_IN", jwtx.DefaultSessionTTL),

		AllowedOrigins: getEnvListOrDefault("FRONTEND_URL", []string{"http://localhost:5173"}),

		BootstrapAdminName:     os.Getenv("LEDGER_BOOTSTRAP_ADMIN_NAME"),
		BootstrapAdminEmail:    os.Getenv("LEDGER_BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("LEDGER_BOOTSTRAP_ADMIN_PASSWORD"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 6001),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports every problem with cfg at once.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.DatabaseDriver))
	}

	alg, err := jwtx.ParseAlg(c.JWTAlgorithm)
	if err != nil {
		errs = append(errs, err)
	}
	if alg == jwtx.AlgHS256 && c.Env == "prod" && len(c.JWTSecret) < jwtx.MinHS256SecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes in prod", jwtx.MinHS256SecretLen))
	}

	if c.JWTExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, ok := parseDuration(value); ok {
		return d
	}
	return defaultValue
}

// parseDuration accepts Go durations ("12h", "90s"), whole days ("7d") and
// bare integers as minutes.
func parseDuration(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)

	if d, err := time.ParseDuration(value); err == nil {
		return d, true
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			return time.Duration(n) * 24 * time.Hour, true
		}
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute, true
	}

	return 0, false
}

// getEnvListOrDefault splits a comma-separated variable, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
