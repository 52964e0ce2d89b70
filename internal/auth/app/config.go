package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/pkg/cryptox"
	"github.com/capmanage/capmanage/pkg/jwtx"
)

// Database drivers selected from DATABASE_URI.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnsupportedDatabase is returned for DATABASE_URI schemes there is no
// driver for.
var ErrUnsupportedDatabase = errors.New("unsupported database")

type Config struct {
	DatabaseURI string // DATABASE_URI, or MONGO_URI for old deployments (default: file:capmanage-auth.db)

	// Signing secrets. The email verification and password reset secrets
	// are derived from the access secret when unset.
	AccessTokenSecret            string
	RefreshTokenSecret           string
	EmailVerificationTokenSecret string
	PasswordResetTokenSecret     string
	TokenSecretVersion           int // stamped into every token as "sv" (default: 1)

	AccessTokenTTL       time.Duration // default: 15m
	RefreshTokenTTL      time.Duration // default: 7d
	EmailVerificationTTL time.Duration // default: 30m
	PasswordResetTTL     time.Duration // default: 30m

	BcryptCost      int    // default: 10
	PepperFile      string // path to file containing pepper for password hashing (default: ./pepper)
	MaxFailedLogins int    // failed logins in a row before the account locks (default: 5)
	Issuer          string // issuer claim for tokens (default: capmanage-auth)

	FrontendBaseURL string // prefix of emailed links (default: http://localhost:3000)
	MailFrom        string
	SMTPHost        string // unset means mail is logged, not sent
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string

	Admin domain.BootstrapAdmin // created on startup when Admin.Email is set

	Env                  string        // Environment (dev, test, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 5000)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	// parseErrs collects values that were set but unparseable, so Validate
	// can report them instead of silently using defaults.
	parseErrs []error
}

func LoadConfig() Config {
	cfg := Config{
		DatabaseURI: getEnvOrDefault("DATABASE_URI", getEnvOrDefault("MONGO_URI", "file:capmanage-auth.db")),

		AccessTokenSecret:            os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:           os.Getenv("REFRESH_TOKEN_SECRET"),
		EmailVerificationTokenSecret: os.Getenv("EMAIL_VERIFICATION_TOKEN_SECRET"),
		PasswordResetTokenSecret:     os.Getenv("PASSWORD_RESET_TOKEN_SECRET"),

		BcryptCost:      cryptox.DefaultBcryptCost,
		PepperFile:      getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		Issuer:          getEnvOrDefault("AUTH_ISSUER", "capmanage-auth"),
		FrontendBaseURL: getEnvOrDefault("FRONTEND_BASE_URL", "http://localhost:3000"),
		MailFrom:        getEnvOrDefault("MAIL_FROM", "no-reply@example.com"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),

		Admin: domain.BootstrapAdmin{
			Email:    os.Getenv("ADMIN_EMAIL"),
			Name:     getEnvOrDefault("ADMIN_NAME", "Administrator"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}

	cfg.TokenSecretVersion = cfg.getEnvInt("TOKEN_SECRET_VERSION", 1)
	cfg.AccessTokenTTL = cfg.getEnvTTL("ACCESS_TOKEN_EXPIRES_IN", jwtx.DefaultAccessTokenTTL)
	cfg.RefreshTokenTTL = cfg.getEnvTTL("REFRESH_TOKEN_EXPIRES_IN", jwtx.DefaultRefreshTokenTTL)
	cfg.EmailVerificationTTL = time.Duration(cfg.getEnvInt("EMAIL_VERIFICATION_TOKEN_EXPIRES_IN_MINUTES", 30)) * time.Minute
	cfg.PasswordResetTTL = time.Duration(cfg.getEnvInt("PASSWORD_RESET_TOKEN_EXPIRES_IN_MINUTES", 30)) * time.Minute
	cfg.BcryptCost = cfg.getEnvInt("BCRYPT_SALT_ROUNDS", cryptox.DefaultBcryptCost)
	cfg.MaxFailedLogins = cfg.getEnvInt("MAX_FAILED_LOGINS", service.DefaultMaxFailedLogins)
	cfg.SMTPPort = cfg.getEnvInt("SMTP_PORT", 587)
	cfg.Port = cfg.getEnvInt("PORT", 5000)
	cfg.ShutdownGracePeriod = cfg.getEnvTTL("SHUTDOWN_GRACE_PERIOD", 10*time.Second)
	cfg.HousekeepingInterval = cfg.getEnvTTL("HOUSEKEEPING_INTERVAL", time.Hour)

	return cfg
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)

	if c.AccessTokenSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}
	if c.RefreshTokenSecret == "" {
		errs = append(errs, errors.New("REFRESH_TOKEN_SECRET is required"))
	}
	if c.AccessTokenSecret != "" && c.RefreshTokenSecret != "" {
		secrets, err := c.Secrets()
		if err == nil {
			err = secrets.Validate()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("token secrets: %w", err))
		}
	}

	for name, ttl := range map[string]time.Duration{
		"ACCESS_TOKEN_EXPIRES_IN":                     c.AccessTokenTTL,
		"REFRESH_TOKEN_EXPIRES_IN":                    c.RefreshTokenTTL,
		"EMAIL_VERIFICATION_TOKEN_EXPIRES_IN_MINUTES": c.EmailVerificationTTL,
		"PASSWORD_RESET_TOKEN_EXPIRES_IN_MINUTES":     c.PasswordResetTTL,
	} {
		if ttl <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}

	if c.BcryptCost < cryptox.MinBcryptCost || c.BcryptCost > cryptox.MaxBcryptCost {
		errs = append(errs, fmt.Errorf("BCRYPT_SALT_ROUNDS must be between %d and %d", cryptox.MinBcryptCost, cryptox.MaxBcryptCost))
	}
	if c.MaxFailedLogins < 1 {
		errs = append(errs, errors.New("MAX_FAILED_LOGINS must be at least 1"))
	}
	if _, _, err := c.Database(); err != nil {
		errs = append(errs, err)
	}
	if u, err := url.Parse(c.FrontendBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("FRONTEND_BASE_URL %q must be an absolute http(s) URL", c.FrontendBaseURL))
	}
	if c.RequireMail() && c.SMTPHost == "" {
		errs = append(errs, errors.New("SMTP_HOST is required when ENV=prod"))
	}

	return errors.Join(errs...)
}

// RequireMail reports whether a failed email delivery should fail the
// request that triggered it.
func (c Config) RequireMail() bool { return c.Env == "prod" }

// Database picks the store driver from DatabaseURI and returns the DSN to
// open it with.
func (c Config) Database() (driver, dsn string, err error) {
	uri := strings.TrimSpace(c.DatabaseURI)
	scheme, rest, _ := strings.Cut(uri, ":")

	switch strings.ToLower(scheme) {
	case "file":
		return DriverSQLite, uri, nil
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(rest, "//")
		if path == "" {
			return "", "", fmt.Errorf("%w: %q has no path", ErrUnsupportedDatabase, uri)
		}
		return DriverSQLite, "file:" + path, nil
	case "postgres", "postgresql":
		return DriverPostgres, uri, nil
	case "mongodb", "mongodb+srv":
		return "", "", fmt.Errorf("%w: MongoDB is not supported, set DATABASE_URI to a postgres:// or file: URI", ErrUnsupportedDatabase)
	default:
		return "", "", fmt.Errorf("%w: %q, want file:, sqlite: or postgres://", ErrUnsupportedDatabase, uri)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s: %q is not an integer", key, value))
		return defaultValue
	}
	return intValue
}

func (c *Config) getEnvTTL(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := ParseTTL(value)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

// ParseTTL accepts "<n>s", "<n>m", "<n>h" and "<n>d", any Go duration such
// as "1h30m", and a bare number of seconds.
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}

	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
