package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/campushub/campushub/internal/campus/http"
	"github.com/campushub/campushub/internal/campus/service"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/internal/campus/store/drivers/sqlite"
	"github.com/campushub/campushub/pkg/jwtx"
	"github.com/campushub/campushub/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the campus service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.Signer
	verifier jwtx.Verifier

	accountService      *service.AccountService
	societyService      *service.SocietyService
	eventService        *service.EventService
	registrationService *service.RegistrationService
	bookmarkService     *service.BookmarkService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "campus-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initSigner(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	ctx := slogx.WithContext(context.Background(), app.logger)
	app.housekeepingService.Start(ctx)

	app.logger.Info("campus service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down campus service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("campus service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initSigner sets up the token signer and verifier. With a configured
// seed the key survives restarts; without one every restart invalidates
// outstanding tokens.
func (app *Application) initSigner() error {
	var (
		keys jwtx.Keypair
		err  error
	)
	if app.cfg.TokenSeed != "" {
		seed, decodeErr := hex.DecodeString(app.cfg.TokenSeed)
		if decodeErr != nil {
			return fmt.Errorf("failed to decode token seed: %w", decodeErr)
		}
		keys, err = jwtx.KeypairFromSeed(seed)
	} else {
		app.logger.Warn("no token seed configured, using an ephemeral signing key")
		keys, err = jwtx.NewKeypair()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize signing key: %w", err)
	}

	app.signer = &jwtx.Signer{
		Key:    keys,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.TokenTTL,
	}
	app.verifier = &jwtx.EdDSAVerifier{
		Key:    keys.Public,
		Issuer: app.cfg.Issuer,
	}
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.accountService = &service.AccountService{Store: app.db}
	app.societyService = &service.SocietyService{Store: app.db}
	app.eventService = &service.EventService{Store: app.db}
	app.registrationService = &service.RegistrationService{Store: app.db}
	app.bookmarkService = &service.BookmarkService{Store: app.db}
	app.housekeepingService = &service.HousekeepingService{
		Store:    app.db,
		Interval: app.cfg.HousekeepingInterval,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AccountService = app.accountService
	router.SocietyService = app.societyService
	router.EventService = app.eventService
	router.RegistrationService = app.registrationService
	router.BookmarkService = app.bookmarkService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
