// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/csemotors/motors-go/internal/auth"
	"github.com/csemotors/motors-go/internal/config"
	"github.com/csemotors/motors-go/internal/handler"
	"github.com/csemotors/motors-go/internal/middleware"
	"github.com/csemotors/motors-go/internal/render"
	"github.com/csemotors/motors-go/internal/session"
	"github.com/csemotors/motors-go/internal/store"
	"github.com/csemotors/motors-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "CSE Motors - dealership inventory server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MOTORS_TOKEN_SECRET    Session token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MOTORS_DB_PATH         SQLite database path (default: ./data/motors.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MOTORS_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MOTORS_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MOTORS_DO_SEED         Seed demo classifications and vehicles (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("motors %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Seed default data (admin account, optional demo inventory)
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Initialize session manager (flash-notice plumbing)
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize session token manager
	tokenManager := auth.NewTokenManager([]byte(cfg.TokenSecret), auth.DefaultTokenTTL)

	// Initialize template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))

	// Security headers middleware (CSP, HSTS, X-Frame-Options, etc.)
	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(sessionManager.LoadAndSave)

	// The authorization gate runs on every route: it turns the token cookie
	// into the request's auth context before any guard or handler sees it.
	r.Use(middleware.VerifyToken(tokenManager, sessionManager, cfg.IsDevelopment()))

	// CSRF protection for the HTML form routes
	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.TokenSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Login rate limiting and account lockout
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Initialize handlers
	pageHandler := handler.NewPageHandler(db, renderer)
	accountHandler := handler.NewAccountHandler(db, renderer, sessionManager, tokenManager, loginProtection, cfg.IsDevelopment())
	inventoryHandler := handler.NewInventoryHandler(db, renderer, sessionManager, pageHandler)

	// Public pages
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)

		r.Get(handler.RouteRoot, pageHandler.Home)
		r.Get(handler.RouteProblem, pageHandler.Problem)

		// Account routes
		r.Route(handler.RouteAccount, func(r chi.Router) {
			r.Get(handler.RouteLogin, accountHandler.LoginForm)
			r.With(loginProtection.Middleware()).Post(handler.RouteLogin, accountHandler.Login)
			r.Get(handler.RouteRegister, accountHandler.RegisterForm)
			r.Post(handler.RouteRegister, accountHandler.Register)
			r.Get(handler.RouteLogout, accountHandler.Logout)
			r.Post(handler.RouteLogout, accountHandler.Logout)

			// Authenticated account management
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireLogin(sessionManager))
				r.Get(handler.RouteRoot, accountHandler.Management)
				r.Get(handler.RouteAccountUpdateID, accountHandler.UpdateForm)
				r.Post(handler.RouteAccountUpdateID, accountHandler.Update)
			})
		})

		// Inventory routes
		r.Route(handler.RouteInv, func(r chi.Router) {
			r.Get(handler.RouteTypeID, inventoryHandler.ByClassification)
			r.Get(handler.RouteDetailID, inventoryHandler.Detail)

			// Employee management
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEmployee(sessionManager))
				r.Get(handler.RouteRoot, inventoryHandler.Management)
				r.Get(handler.RouteGetInventoryID, inventoryHandler.GetInventoryJSON)
				r.Get(handler.RouteAddClassification, inventoryHandler.AddClassificationForm)
				r.Post(handler.RouteAddClassification, inventoryHandler.AddClassification)
				r.Get(handler.RouteAddInventory, inventoryHandler.AddInventoryForm)
				r.Post(handler.RouteAddInventory, inventoryHandler.AddInventory)
				r.Get(handler.RouteEditID, inventoryHandler.EditForm)
				r.Post(handler.RouteEditID, inventoryHandler.Edit)
				r.Get(handler.RouteDeleteID, inventoryHandler.DeleteForm)
				r.Post(handler.RouteDeleteID, inventoryHandler.Delete)
			})

			// Admin classification management
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(sessionManager))
				r.Get(handler.RouteClassEditID, inventoryHandler.ClassEditForm)
				r.Post(handler.RouteClassEditID, inventoryHandler.ClassEdit)
				r.Get(handler.RouteClassDeleteID, inventoryHandler.ClassDeleteForm)
				r.Post(handler.RouteClassDeleteID, inventoryHandler.ClassDelete)
			})
		})
	})

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Vehicle images live under /images, matching the paths stored on
	// inventory rows.
	imagesFS, err := fs.Sub(web.Static, "static/images")
	if err != nil {
		return fmt.Errorf("getting images fs: %w", err)
	}
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.FS(imagesFS))))

	// Unmatched routes render the error view, never a bare 404
	r.NotFound(pageHandler.NotFound)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
