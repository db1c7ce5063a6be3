// Package main is the entry point for the shopping list server.
//
// MAIN PACKAGE IN GO:
// The main package should be kept minimal. Its job is to:
// 1. Read configuration (environment, optionally a .env file)
// 2. Create dependencies (logger)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/shopping-list/internal/config"
	"github.com/sakif/shopping-list/internal/server"
)

func main() {
	// === 1. LOAD .env ===
	// A missing .env file is fine: real deployments set the environment directly.
	_ = godotenv.Load()

	// === 2. READ CONFIGURATION ===
	// PORT, DATABASE_URL, LOG_LEVEL, LOG_FORMAT, DB_* and SHUTDOWN_TIMEOUT,
	// each with a default (see internal/config).
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 3. SET UP LOGGING ===
	// LOG_FORMAT=json for log shippers, text for humans.
	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	// === 4. CREATE AND START THE SERVER ===
	// New opens the database and applies migrations before any request is served.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := server.New(ctx, *cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
