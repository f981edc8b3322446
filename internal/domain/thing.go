package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Thing-specific validation errors
var (
	// ErrThingIDEmpty is returned when a thing ID is empty or nil.
	ErrThingIDEmpty = errors.New("thing ID cannot be empty")

	// ErrThingNameEmpty is returned when a thing's name is empty.
	ErrThingNameEmpty = errors.New("thing name cannot be empty")

	// ErrThingNameTooLong is returned when a thing's name exceeds the limit.
	ErrThingNameTooLong = errors.New("thing name cannot exceed 200 characters")
)

// maxThingNameLength caps names so they stay indexable and displayable.
const maxThingNameLength = 200

// Thing represents a single catalogued resource exposed over the API.
// The ID is immutable once assigned; Name and the optional descriptive
// fields may change over the entity's lifetime.
type Thing struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewThing creates a new Thing with the given name and optional fields.
// It generates a new UUID for the thing ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewThing(name, description string, tags []string) (*Thing, error) {
	now := time.Now().UTC()
	thing := &Thing{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := thing.Validate(); err != nil {
		return nil, err
	}

	return thing, nil
}

// Validate checks if the Thing has valid data.
// Returns an error if any field fails validation.
func (t *Thing) Validate() error {
	if t.ID == uuid.Nil {
		return ErrThingIDEmpty
	}

	if t.Name == "" {
		return ErrThingNameEmpty
	}

	if len(t.Name) > maxThingNameLength {
		return ErrThingNameTooLong
	}

	return nil
}

// ThingUpdate carries the mutable fields of a Thing for an update
// operation. Nil pointers mean "leave unchanged", which lets PATCH
// requests send only the fields they care about.
type ThingUpdate struct {
	Name        *string
	Description *string
	Tags        []string
}

// Apply merges the update into the thing and bumps UpdatedAt.
// If the merged entity fails validation, the thing is left unmodified
// and the validation error is returned.
func (t *Thing) Apply(update ThingUpdate) error {
	// Work on a copy so a failed validation never half-mutates the entity.
	merged := *t
	if update.Name != nil {
		merged.Name = *update.Name
	}
	if update.Description != nil {
		merged.Description = *update.Description
	}
	if update.Tags != nil {
		merged.Tags = update.Tags
	}

	if err := merged.Validate(); err != nil {
		return err
	}

	merged.UpdatedAt = time.Now().UTC()
	*t = merged
	return nil
}
