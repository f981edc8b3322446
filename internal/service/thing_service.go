package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/thingworks/things-api/internal/domain"
	"github.com/thingworks/things-api/internal/store"
)

// ThingRepository defines the repository interface for the thing service.
// This is aligned with store.ThingStore to keep separation of concerns.
type ThingRepository interface {
	// Create saves a new thing to the store
	Create(ctx context.Context, thing *domain.Thing) error

	// GetByID retrieves a thing by its unique ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Thing, error)

	// List retrieves all things ordered by creation time
	List(ctx context.Context) ([]*domain.Thing, error)

	// Update saves changes to an existing thing
	Update(ctx context.Context, thing *domain.Thing) error

	// Delete removes a thing by its ID
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) store.ThingStore
}

// ThingService provides thing-related operations
type ThingService interface {
	// CreateThing creates and persists a new thing
	CreateThing(ctx context.Context, name, description string, tags []string) (*domain.Thing, error)

	// GetThing retrieves a thing by its ID
	GetThing(ctx context.Context, id uuid.UUID) (*domain.Thing, error)

	// ListThings retrieves the full collection
	ListThings(ctx context.Context) ([]*domain.Thing, error)

	// UpdateThing applies the given update to the thing with the given ID
	UpdateThing(ctx context.Context, id uuid.UUID, update domain.ThingUpdate) (*domain.Thing, error)

	// DeleteThing removes a thing by its ID
	DeleteThing(ctx context.Context, id uuid.UUID) error
}

// thingServiceImpl implements the ThingService interface
type thingServiceImpl struct {
	thingRepo  ThingRepository
	transactor Transactor
	logger     *slog.Logger
}

// NewThingService creates a new ThingService.
// It returns an error if any of the required dependencies are nil.
func NewThingService(
	thingRepo ThingRepository,
	transactor Transactor,
	logger *slog.Logger,
) (ThingService, error) {
	if thingRepo == nil {
		return nil, &ThingServiceError{
			Operation: "create_service",
			Message:   "thingRepo cannot be nil",
		}
	}
	if transactor == nil {
		return nil, &ThingServiceError{
			Operation: "create_service",
			Message:   "transactor cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &thingServiceImpl{
		thingRepo:  thingRepo,
		transactor: transactor,
		logger:     logger.With("component", "thing_service"),
	}, nil
}

// CreateThing creates a new thing and persists it within a transaction.
// Domain validation errors pass through unwrapped so the API layer can
// map them to 422 responses.
func (s *thingServiceImpl) CreateThing(
	ctx context.Context,
	name, description string,
	tags []string,
) (*domain.Thing, error) {
	thing, err := domain.NewThing(name, description, tags)
	if err != nil {
		s.logger.Debug("thing validation failed",
			"error", err,
			"name", name)
		return nil, err
	}

	err = s.transactor.Transact(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.thingRepo.WithTx(tx)
		if err := txRepo.Create(ctx, thing); err != nil {
			s.logger.Error("failed to create thing in transaction",
				"error", err,
				"thing_id", thing.ID)
			return NewThingServiceError("create_thing", "failed to save thing", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("thing created",
		"thing_id", thing.ID,
		"name", thing.Name)
	return thing, nil
}

// GetThing retrieves a thing by ID.
// Returns ErrThingNotFound if no such thing exists.
func (s *thingServiceImpl) GetThing(ctx context.Context, id uuid.UUID) (*domain.Thing, error) {
	thing, err := s.thingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, NewThingServiceError("get_thing", "failed to retrieve thing", err)
	}
	return thing, nil
}

// ListThings retrieves the full collection.
func (s *thingServiceImpl) ListThings(ctx context.Context) ([]*domain.Thing, error) {
	things, err := s.thingRepo.List(ctx)
	if err != nil {
		return nil, NewThingServiceError("list_things", "failed to list things", err)
	}
	return things, nil
}

// UpdateThing looks up the thing, applies the update, and persists the
// result within a transaction. The read and write share the transaction
// so concurrent updates cannot interleave between them.
func (s *thingServiceImpl) UpdateThing(
	ctx context.Context,
	id uuid.UUID,
	update domain.ThingUpdate,
) (*domain.Thing, error) {
	var updated *domain.Thing

	err := s.transactor.Transact(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.thingRepo.WithTx(tx)

		thing, err := txRepo.GetByID(ctx, id)
		if err != nil {
			return NewThingServiceError("update_thing", "failed to retrieve thing", err)
		}

		if err := thing.Apply(update); err != nil {
			// Validation failure, returned unwrapped for 422 mapping.
			return err
		}

		if err := txRepo.Update(ctx, thing); err != nil {
			s.logger.Error("failed to update thing in transaction",
				"error", err,
				"thing_id", id)
			return NewThingServiceError("update_thing", "failed to save thing", err)
		}

		updated = thing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("thing updated", "thing_id", id)
	return updated, nil
}

// DeleteThing removes a thing by ID.
// Returns ErrThingNotFound if no such thing exists.
func (s *thingServiceImpl) DeleteThing(ctx context.Context, id uuid.UUID) error {
	if err := s.thingRepo.Delete(ctx, id); err != nil {
		return NewThingServiceError("delete_thing", "failed to delete thing", err)
	}

	s.logger.Info("thing deleted", "thing_id", id)
	return nil
}
