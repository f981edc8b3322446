// Package main implements the entry point for the things-api server,
// which exposes a namespaced JSON CRUD API over a catalogue of things.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/thingworks/things-api/internal/config"
	"github.com/thingworks/things-api/internal/platform/logger"
)

// main loads configuration, sets up logging, establishes the database
// connection, applies migrations, wires dependencies, and starts the
// HTTP server.
func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up application components.
// Returns the wired application and any initialization error.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(logger.Config{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(app.db, appLogger); err != nil {
		app.cleanup()
		return nil, err
	}

	return app, nil
}
