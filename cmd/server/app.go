package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/escolalib/biblio-api/internal/api"
	"github.com/escolalib/biblio-api/internal/api/middleware"
	"github.com/escolalib/biblio-api/internal/config"
	"github.com/escolalib/biblio-api/internal/platform/postgres"
	"github.com/escolalib/biblio-api/internal/service"
	"github.com/escolalib/biblio-api/internal/service/auth"
	"github.com/escolalib/biblio-api/internal/store"
	"github.com/escolalib/biblio-api/internal/task"
	"github.com/escolalib/biblio-api/internal/ws"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore         store.UserStore
	bookStore         store.BookStore
	loanStore         store.LoanStore
	notificationStore store.NotificationStore
	assetStore        store.AssetStore
	classSectorStore  store.ClassSectorStore
	transactor        store.Transactor

	// Services
	jwtService          auth.JWTService
	passwordHasher      auth.PasswordHasher
	loanService         service.LoanService
	notificationService service.NotificationService
	dashboardService    service.DashboardService

	// Live push and background derivation
	hub      *ws.Hub
	notifier *task.Notifier
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logger and database connection must be
// established before calling it.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher()

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.bookStore = postgres.NewPostgresBookStore(db, logger)
	app.loanStore = postgres.NewPostgresLoanStore(db, logger)
	app.notificationStore = postgres.NewPostgresNotificationStore(db, logger)
	app.assetStore = postgres.NewPostgresAssetStore(db, logger)
	app.classSectorStore = postgres.NewPostgresClassSectorStore(db, logger)

	// Websocket hub receives newly derived notifications.
	app.hub = ws.NewHub(logger)

	clock := service.NewClock()
	app.transactor = store.NewTransactor(db)

	app.loanService = service.NewLoanService(
		app.transactor,
		app.loanStore,
		app.bookStore,
		app.userStore,
		clock,
		logger,
	)

	app.notificationService = service.NewNotificationService(
		app.loanStore,
		app.bookStore,
		app.notificationStore,
		app.hub,
		clock,
		logger,
	)

	app.dashboardService = service.NewDashboardService(
		app.bookStore,
		app.userStore,
		app.loanStore,
		app.assetStore,
	)

	app.notifier = task.NewNotifier(
		app.notificationService,
		time.Duration(cfg.Notifier.IntervalMinutes)*time.Minute,
		logger,
	)
	app.notifier.Start()

	logger.Info("application initialized successfully")
	return app, nil
}

// setupRouter assembles the handler set and routing tree.
func (app *application) setupRouter() http.Handler {
	handlers := api.Handlers{
		Auth:         api.NewAuthHandler(app.userStore, app.jwtService, app.passwordHasher),
		Book:         api.NewBookHandler(app.bookStore, app.loanStore, app.transactor),
		Loan:         api.NewLoanHandler(app.loanService, nil),
		Notification: api.NewNotificationHandler(app.notificationService, app.hub),
		Asset:        api.NewAssetHandler(app.assetStore),
		Class:        api.NewClassSectorHandler(app.classSectorStore),
		User:         api.NewUserHandler(app.userStore, app.passwordHasher),
		Dashboard:    api.NewDashboardHandler(app.dashboardService),
	}

	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)

	return api.NewRouter(handlers, authMiddleware)
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails. Shutdown waits for in-flight requests.
func (app *application) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.notifier != nil {
		app.notifier.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
