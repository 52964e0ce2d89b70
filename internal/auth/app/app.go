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

	httpapi "github.com/capmanage/capmanage/internal/auth/http"
	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/internal/auth/store"
	"github.com/capmanage/capmanage/internal/auth/store/drivers/postgres"
	"github.com/capmanage/capmanage/internal/auth/store/drivers/sqlite"
	"github.com/capmanage/capmanage/pkg/cryptox"
	"github.com/capmanage/capmanage/pkg/jwtx"
	"github.com/capmanage/capmanage/pkg/mailx"
	"github.com/capmanage/capmanage/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	issuer *jwtx.Issuer
	hasher *cryptox.PasswordHasher
	mailer mailx.Mailer

	// Services
	credentialService   *service.CredentialService
	verificationService *service.VerificationService
	accountService      *service.AccountService
	tokenService        *service.TokenService
	sessionService      *service.SessionService
	adminService        *service.AdminService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

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
			Service: "capmanage-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initCrypto(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()

	if err := app.bootstrapAdmin(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

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
			app.housekeepingService.Stop()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the store DATABASE_URI points at and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	driver, dsn, err := app.cfg.Database()
	if err != nil {
		return err
	}

	var db store.Store
	switch driver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, dsn)
	default:
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize %s database: %w", driver, err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", driver)
	return nil
}

// initCrypto loads the pepper and builds the password hasher and token issuer
func (app *Application) initCrypto() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	app.hasher, err = cryptox.NewPasswordHasher(app.cfg.BcryptCost, pepper)
	if err != nil {
		return fmt.Errorf("failed to create password hasher: %w", err)
	}

	app.issuer, err = NewIssuer(app.cfg)
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}

	if app.cfg.EmailVerificationTokenSecret == "" || app.cfg.PasswordResetTokenSecret == "" {
		app.logger.Info("deriving single-use token secrets from the access token secret")
	}
	return nil
}

// initMailer picks SMTP when configured and the log mailer otherwise
func (app *Application) initMailer() error {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("SMTP_HOST not set, emails will be written to the log")
		app.mailer = mailx.LogMailer{Logger: app.logger}
		return nil
	}

	m, err := mailx.NewSMTPMailer(mailx.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUser,
		Password: app.cfg.SMTPPass,
		From:     app.cfg.MailFrom,
	})
	if err != nil {
		return fmt.Errorf("failed to configure SMTP: %w", err)
	}
	app.mailer = m
	app.logger.Info("SMTP mailer configured", "host", app.cfg.SMTPHost, "port", app.cfg.SMTPPort)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.credentialService = &service.CredentialService{Store: app.db}
	app.verificationService = &service.VerificationService{Store: app.db, Tokens: app.issuer}
	app.accountService = &service.AccountService{
		Store:           app.db,
		Credentials:     app.credentialService,
		Verification:    app.verificationService,
		Hasher:          app.hasher,
		Mailer:          app.mailer,
		FrontendBaseURL: app.cfg.FrontendBaseURL,
		RequireMail:     app.cfg.RequireMail(),
	}
	app.tokenService = &service.TokenService{
		Store:           app.db,
		Tokens:          app.issuer,
		Hasher:          app.hasher,
		MaxFailedLogins: app.cfg.MaxFailedLogins,
	}
	app.sessionService = &service.SessionService{Store: app.db, Tokens: app.issuer}
	app.adminService = &service.AdminService{
		Store:           app.db,
		Mailer:          app.mailer,
		FrontendBaseURL: app.cfg.FrontendBaseURL,
	}
	app.bootstrapService = &service.BootstrapService{
		Credentials: app.credentialService,
		Hasher:      app.hasher,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// bootstrapAdmin creates the ADMIN_EMAIL account on first start
func (app *Application) bootstrapAdmin(ctx context.Context) error {
	if app.cfg.Admin.Email == "" {
		return nil
	}

	ctx = slogx.WithContext(ctx, app.logger)
	created, err := app.bootstrapService.EnsureAdmin(ctx, app.cfg.Admin)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if !created {
		app.logger.Info("admin account already exists", "email", app.cfg.Admin.Email)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.CredentialService = app.credentialService
	router.AccountService = app.accountService
	router.TokenService = app.tokenService
	router.SessionService = app.sessionService
	router.AdminService = app.adminService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
