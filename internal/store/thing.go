package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/thingworks/things-api/internal/domain"
)

// ThingStore defines the interface for thing data persistence.
type ThingStore interface {
	// Create saves a new thing to the store.
	// The thing must be valid according to domain validation rules;
	// returns ErrInvalidEntity wrapping the validation error otherwise.
	// Returns ErrDuplicate if a thing with the same ID already exists.
	Create(ctx context.Context, thing *domain.Thing) error

	// GetByID retrieves a thing by its unique ID.
	// Returns ErrThingNotFound if the thing does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Thing, error)

	// List retrieves all things in the collection, ordered by creation
	// time ascending so index responses are stable across requests.
	List(ctx context.Context) ([]*domain.Thing, error)

	// Update persists changes to an existing thing.
	// Returns ErrThingNotFound if the thing does not exist.
	Update(ctx context.Context, thing *domain.Thing) error

	// Delete removes a thing from the store by its ID.
	// Returns ErrThingNotFound if the thing does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ThingStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service) via RunInTransaction.
	WithTx(tx *sql.Tx) ThingStore
}
