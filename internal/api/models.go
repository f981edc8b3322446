package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/thingworks/things-api/internal/domain"
)

// Common request/response structures

// CreateThingRequest defines the payload for creating a thing.
type CreateThingRequest struct {
	Name        string   `json:"name"        validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Tags        []string `json:"tags"        validate:"dive,min=1,max=50"`
}

// UpdateThingRequest defines the payload for updating a thing.
// Nil pointers mean "leave unchanged", so PATCH requests can send only
// the fields they want to modify. PUT requests use the same shape.
type UpdateThingRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Tags        []string `json:"tags"        validate:"omitempty,dive,min=1,max=50"`
}

// ThingResponse represents the response data for a thing.
// Field order here fixes the key order of the encoded JSON, keeping
// serialization deterministic.
type ThingResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	URL         string    `json:"url"`
}

// ThingToResponse converts a domain.Thing to its API representation.
// It is a pure function so serialization stays testable without an HTTP
// context.
func ThingToResponse(thing *domain.Thing) ThingResponse {
	return ThingResponse{
		ID:          thing.ID.String(),
		Name:        thing.Name,
		Description: thing.Description,
		Tags:        thing.Tags,
		CreatedAt:   thing.CreatedAt,
		UpdatedAt:   thing.UpdatedAt,
		URL:         ThingURL(thing.ID),
	}
}

// ThingsToResponse converts a slice of things, preserving order.
// The result is non-nil so an empty collection encodes as [].
func ThingsToResponse(things []*domain.Thing) []ThingResponse {
	responses := make([]ThingResponse, 0, len(things))
	for _, thing := range things {
		responses = append(responses, ThingToResponse(thing))
	}
	return responses
}

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
