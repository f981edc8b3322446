package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/thingworks/things-api/internal/domain"
	"github.com/thingworks/things-api/internal/store"
)

// MockThingStore implements store.ThingStore for testing. By default it
// behaves as a working in-memory collection; individual methods can be
// overridden through the function fields.
type MockThingStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, thing *domain.Thing) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Thing, error)
	ListFn    func(ctx context.Context) ([]*domain.Thing, error)
	UpdateFn  func(ctx context.Context, thing *domain.Thing) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error

	mu     sync.Mutex
	Things map[uuid.UUID]*domain.Thing
}

// NewMockThingStore creates a new mock store with an empty collection.
func NewMockThingStore() *MockThingStore {
	return &MockThingStore{
		Things: make(map[uuid.UUID]*domain.Thing),
	}
}

// Create implements the ThingStore interface
func (m *MockThingStore) Create(ctx context.Context, thing *domain.Thing) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, thing)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Things[thing.ID]; exists {
		return store.ErrDuplicate
	}

	copied := *thing
	m.Things[thing.ID] = &copied
	return nil
}

// GetByID implements the ThingStore interface
func (m *MockThingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thing, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	thing, exists := m.Things[id]
	if !exists {
		return nil, store.ErrThingNotFound
	}

	copied := *thing
	return &copied, nil
}

// List implements the ThingStore interface
func (m *MockThingStore) List(ctx context.Context) ([]*domain.Thing, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	things := make([]*domain.Thing, 0, len(m.Things))
	for _, thing := range m.Things {
		copied := *thing
		things = append(things, &copied)
	}

	// Match the ordering contract of the real store.
	sort.Slice(things, func(i, j int) bool {
		if things[i].CreatedAt.Equal(things[j].CreatedAt) {
			return things[i].ID.String() < things[j].ID.String()
		}
		return things[i].CreatedAt.Before(things[j].CreatedAt)
	})

	return things, nil
}

// Update implements the ThingStore interface
func (m *MockThingStore) Update(ctx context.Context, thing *domain.Thing) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, thing)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Things[thing.ID]; !exists {
		return store.ErrThingNotFound
	}

	copied := *thing
	m.Things[thing.ID] = &copied
	return nil
}

// Delete implements the ThingStore interface
func (m *MockThingStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Things[id]; !exists {
		return store.ErrThingNotFound
	}

	delete(m.Things, id)
	return nil
}

// WithTx implements the ThingStore interface. The mock has no real
// transactions, so it returns itself.
func (m *MockThingStore) WithTx(tx *sql.Tx) store.ThingStore {
	return m
}

// Ensure MockThingStore implements store.ThingStore
var _ store.ThingStore = (*MockThingStore)(nil)
