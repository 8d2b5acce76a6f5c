// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates: config + logger → passed to Server
// Server.New() creates:
//
//	jsonfile.Store → AuthService/BundleService → handlers
//	session.Registry → RequireAuth middleware + AuthService
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
// In particular the session registry is constructed HERE, once, and handed to
// everything that needs it. It is process-lifetime state: created at startup,
// gone at shutdown, never persisted — restarting the server logs everyone out.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/productivity-hub/internal/auth"
	"github.com/sakif/productivity-hub/internal/config"
	"github.com/sakif/productivity-hub/internal/handler"
	"github.com/sakif/productivity-hub/internal/middleware"
	"github.com/sakif/productivity-hub/internal/repository/jsonfile"
	"github.com/sakif/productivity-hub/internal/service"
	"github.com/sakif/productivity-hub/internal/session"
)

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	sessions *session.Registry
}

// New creates a new Server with the given config.
//
// WIRING:
//  1. Create the JSON-file store (one value, serves as both repositories)
//  2. Create the session registry (in-memory, owned by the server)
//  3. Create the services with the store + registry
//  4. Create the handlers with the services
//  5. Wire handlers to routes
//
// Each layer only receives what it needs: services get repository interfaces
// (not the concrete store), handlers get services (not repositories).
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := jsonfile.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening data store: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		sessions: session.NewRegistry(),
	}

	s.setupRoutes(store)
	return s, nil
}

// Sessions exposes the registry. Used by tests to inspect session state.
func (s *Server) Sessions() *session.Registry {
	return s.sessions
}

// Handler returns the root http.Handler. Tests mount this on httptest.Server
// instead of going through Start().
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST /api/register  → create an account                 (public)
//	POST /api/login     → open a session                    (public)
//	POST /api/logout    → close a session                   (public — never fails)
//	GET  /api/user      → fetch bundle + profileFile        (bearer)
//	POST /api/user      → save profile                      (bearer)
//	GET  /api/todos     → fetch to-do list                  (bearer)
//	POST /api/todos     → replace to-do list                (bearer)
//	GET  /api/events    → fetch calendar events             (bearer)
//	POST /api/events    → replace calendar events           (bearer)
//	GET  /static/*, /   → UI shell pass-through (when configured)
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info
// 5. CORS — the UI is served from a different origin in development
func (s *Server) setupRoutes(store *jsonfile.Store) {
	// === Global Middleware ===
	// These run on EVERY request, in order

	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500

	// Our custom logging middleware
	s.router.Use(middleware.Logger(s.logger))

	// CORS for the separately-served frontend
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// === Services & Handlers ===
	// store implements both repository interfaces; the services only see
	// the interfaces, never the concrete type.
	authService := service.NewAuthService(store, store, s.sessions, s.logger)
	bundleService := service.NewBundleService(store, store, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(bundleService, s.logger)
	todoHandler := handler.NewTodoHandler(bundleService, s.logger)
	eventHandler := handler.NewEventHandler(bundleService, s.logger)

	// === API Routes ===
	s.router.Route("/api", func(r chi.Router) {
		// Public: no session required. Logout is public too — destroying
		// a dead token is a successful no-op, it must never 401.
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		// Protected: everything below resolves the bearer token first.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.sessions))

			r.Get("/user", userHandler.HandleGet)
			r.Post("/user", userHandler.HandleSaveProfile)
			r.Get("/todos", todoHandler.HandleList)
			r.Post("/todos", todoHandler.HandleSave)
			r.Get("/events", eventHandler.HandleList)
			r.Post("/events", eventHandler.HandleSave)
		})
	})

	// === Static Files (UI shell pass-through) ===
	// The frontend is plain static files with no server-side logic.
	// http.StripPrefix removes "/static/" from the URL path before lookup,
	// so GET /static/app.js → serves {StaticDir}/app.js.
	if s.config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
		s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(s.config.StaticDir, "index.html"))
		})
	}
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
//
// There is nothing durable to flush: the JSON stores write through on every
// request, and the session registry is deliberately ephemeral — dropping it
// on shutdown IS the documented behaviour (all sessions die with the process).
func (s *Server) Start() error {
	// Create the HTTP server with sensible timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine (so it doesn't block)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("dataDir", s.config.DataDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		// Server failed to start
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		// Received shutdown signal
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully",
			slog.Int("sessionsDropped", s.sessions.Len()),
		)
	}

	return nil
}
