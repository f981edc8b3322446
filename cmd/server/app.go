package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/thingworks/things-api/internal/config"
	"github.com/thingworks/things-api/internal/platform/postgres"
	"github.com/thingworks/things-api/internal/service"
	"github.com/thingworks/things-api/internal/service/auth"
	"github.com/thingworks/things-api/internal/store"
)

// application bundles the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	thingStore store.ThingStore
	userStore  store.UserStore

	thingService service.ThingService
	jwtService   auth.JWTService
	hasher       *auth.BcryptHasher
}

// newApplication wires all application components from the given
// configuration. The returned application owns the database connection;
// callers must invoke cleanup when shutting down.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := openDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	hasher := auth.NewBcryptHasher()

	thingStore := postgres.NewPostgresThingStore(db, logger)
	userStore := postgres.NewPostgresUserStore(db, hasher, logger)

	thingService, err := service.NewThingService(
		thingStore,
		service.NewSQLTransactor(db),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create thing service: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		thingStore:   thingStore,
		userStore:    userStore,
		thingService: thingService,
		jwtService:   jwtService,
		hasher:       hasher,
	}, nil
}

// openDatabase establishes a pooled connection to the database and
// verifies it with a bounded ping.
func openDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
