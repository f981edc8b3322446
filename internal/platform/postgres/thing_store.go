package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/thingworks/things-api/internal/domain"
	"github.com/thingworks/things-api/internal/platform/logger"
	"github.com/thingworks/things-api/internal/store"
)

// PostgresThingStore implements the store.ThingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresThingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresThingStore creates a new PostgreSQL implementation of the
// ThingStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresThingStore(db store.DBTX, logger *slog.Logger) *PostgresThingStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresThingStore{
		db:     db,
		logger: logger.With(slog.String("component", "thing_store")),
	}
}

// Ensure PostgresThingStore implements store.ThingStore interface
var _ store.ThingStore = (*PostgresThingStore)(nil)

// Create implements store.ThingStore.Create
// It saves a new thing to the database, handling domain validation.
func (s *PostgresThingStore) Create(ctx context.Context, thing *domain.Thing) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := thing.Validate(); err != nil {
		log.Warn("thing validation failed during create",
			slog.String("error", err.Error()),
			slog.String("thing_id", thing.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := json.Marshal(thing.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT INTO things (id, name, description, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		thing.ID,
		thing.Name,
		thing.Description,
		tags,
		thing.CreatedAt,
		thing.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create thing",
			slog.String("error", err.Error()),
			slog.String("thing_id", thing.ID.String()))
		return MapError(err)
	}

	log.Debug("thing created",
		slog.String("thing_id", thing.ID.String()),
		slog.String("name", thing.Name))
	return nil
}

// GetByID implements store.ThingStore.GetByID
// Returns store.ErrThingNotFound if the thing does not exist.
func (s *PostgresThingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, tags, created_at, updated_at
		FROM things
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, id)

	thing, err := scanThing(row)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, fmt.Errorf("%w: %v", store.ErrThingNotFound, err)
		}
		log.Error("failed to get thing",
			slog.String("error", err.Error()),
			slog.String("thing_id", id.String()))
		return nil, MapError(err)
	}

	return thing, nil
}

// List implements store.ThingStore.List
// Things are returned ordered by creation time ascending, then by ID to
// break ties, keeping index responses stable.
func (s *PostgresThingStore) List(ctx context.Context) ([]*domain.Thing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, tags, created_at, updated_at
		FROM things
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list things", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	// Non-nil so an empty collection serializes as [] rather than null.
	things := make([]*domain.Thing, 0)
	for rows.Next() {
		thing, err := scanThing(rows)
		if err != nil {
			return nil, MapError(err)
		}
		things = append(things, thing)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return things, nil
}

// Update implements store.ThingStore.Update
// Returns store.ErrThingNotFound if the thing does not exist.
func (s *PostgresThingStore) Update(ctx context.Context, thing *domain.Thing) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := thing.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := json.Marshal(thing.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		UPDATE things
		SET name = $2, description = $3, tags = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		thing.ID,
		thing.Name,
		thing.Description,
		tags,
		thing.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update thing",
			slog.String("error", err.Error()),
			slog.String("thing_id", thing.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, "thing")
}

// Delete implements store.ThingStore.Delete
// Returns store.ErrThingNotFound if the thing does not exist.
func (s *PostgresThingStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM things WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete thing",
			slog.String("error", err.Error()),
			slog.String("thing_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "thing"); err != nil {
		return err
	}

	log.Debug("thing deleted", slog.String("thing_id", id.String()))
	return nil
}

// WithTx implements store.ThingStore.WithTx
func (s *PostgresThingStore) WithTx(tx *sql.Tx) store.ThingStore {
	return &PostgresThingStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanThing.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanThing reads one things row into a domain.Thing.
func scanThing(row rowScanner) (*domain.Thing, error) {
	var (
		thing domain.Thing
		tags  []byte
	)
	if err := row.Scan(
		&thing.ID,
		&thing.Name,
		&thing.Description,
		&tags,
		&thing.CreatedAt,
		&thing.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &thing.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}

	return &thing, nil
}
