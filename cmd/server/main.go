// Package main is the entry point for the productivity hub server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main" package.
// The main package should be kept minimal — its job is to:
// 1. Read configuration (from env vars or a local .env file)
// 2. Create dependencies (logger, data store, etc.)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
// This separation makes the app testable and its components reusable.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/productivity-hub/internal/config"
	"github.com/sakif/productivity-hub/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// config.Load consults a .env file (local dev convenience) and then env
	// vars, with defaults for everything. Doing this FIRST means the log
	// level itself is configurable.
	cfg := config.Load()

	// === 2. SET UP LOGGING ===
	// slog.New creates a structured logger. slog.NewTextHandler outputs
	// human-readable logs to the terminal.
	//
	// Log levels (from least to most severe): Debug → Info → Warn → Error
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// === 3. CREATE AND START THE SERVER ===
	// server.New wires the whole dependency graph: the JSON-file store, the
	// in-memory session registry, services, handlers, and routes.
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM).
	// Shutting down drops every active session — sessions live only as long
	// as the process.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
