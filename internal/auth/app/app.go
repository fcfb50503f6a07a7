package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/mundocomputo/authd/internal/auth/http"
	"github.com/mundocomputo/authd/internal/auth/mail"
	"github.com/mundocomputo/authd/internal/auth/service"
	"github.com/mundocomputo/authd/internal/auth/store"
	"github.com/mundocomputo/authd/internal/auth/store/drivers/rest"
	"github.com/mundocomputo/authd/internal/auth/store/drivers/sqlite"
	"github.com/mundocomputo/authd/pkg/jwtx"
	"github.com/mundocomputo/authd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	mailer mail.Mailer

	issuerService   *service.IssuerService
	verifierService *service.VerifierService
	sessionService  *service.SessionService
	invoiceService  *service.InvoiceService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}
	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	verifier, err := jwtx.NewVerifier([]byte(cfg.SessionSecret))
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize session verifier: %w", err)
	}

	app.initServices()
	app.initHTTP(verifier)

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store_driver", app.cfg.StoreDriver,
		"mail_driver", app.cfg.MailDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing profile store", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initStore opens the configured profile store driver. The sqlite driver is
// the self-hosted option and owns its schema, so migrations run here.
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply store migrations: %w", err)
		}
		app.logger.Info("store migrations applied successfully")
		app.db = db
	default:
		db, err := rest.NewStore(app.cfg.StoreURL, app.cfg.StoreServiceKey, app.cfg.OutboundTimeout)
		if err != nil {
			return fmt.Errorf("failed to initialize rest store: %w", err)
		}
		app.db = db
	}
	return nil
}

func (app *Application) initMailer() error {
	switch app.cfg.MailDriver {
	case "smtp":
		m, err := mail.NewSMTPMailer(
			app.cfg.SMTPHost,
			app.cfg.SMTPPort,
			app.cfg.SMTPUsername,
			app.cfg.SMTPPassword,
			app.cfg.OutboundTimeout,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize smtp mailer: %w", err)
		}
		app.mailer = m
	default:
		m, err := mail.NewRESTMailer(app.cfg.MailEndpoint, app.cfg.MailAPIKey, app.cfg.OutboundTimeout)
		if err != nil {
			return fmt.Errorf("failed to initialize rest mailer: %w", err)
		}
		app.mailer = m
	}
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.issuerService = &service.IssuerService{
		Store:   app.db,
		Mailer:  app.mailer,
		From:    app.cfg.MailFrom,
		CodeTTL: app.cfg.CodeTTL,
	}
	app.verifierService = &service.VerifierService{Store: app.db}
	app.sessionService = &service.SessionService{Store: app.db}
	app.invoiceService = &service.InvoiceService{
		Mailer: app.mailer,
		From:   app.cfg.MailFrom,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP(verifier *jwtx.Verifier) {
	router := httpapi.NewRouter(
		verifier,
		BuildVersion,
		app.db,
		app.mailer != nil,
		app.logger,
	)

	router.IssuerService = app.issuerService
	router.VerifierService = app.verifierService
	router.SessionService = app.sessionService
	router.InvoiceService = app.invoiceService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
