package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/thingworks/things-api/internal/api/shared"
	"github.com/thingworks/things-api/internal/domain"
	"github.com/thingworks/things-api/internal/platform/logger"
	"github.com/thingworks/things-api/internal/redact"
	"github.com/thingworks/things-api/internal/service"
)

// ThingHandler handles thing-related HTTP requests
type ThingHandler struct {
	thingService service.ThingService
	logger       *slog.Logger
}

// NewThingHandler creates a new ThingHandler
func NewThingHandler(thingService service.ThingService, logger *slog.Logger) *ThingHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ThingHandler")
	}

	return &ThingHandler{
		thingService: thingService,
		logger:       logger.With(slog.String("component", "thing_handler")),
	}
}

// List handles GET /api/things requests.
// It returns the full collection as a JSON array with 200.
func (h *ThingHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	things, err := h.thingService.ListThings(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("listed things", slog.Int("count", len(things)))
	shared.RespondWithJSON(w, r, http.StatusOK, ThingsToResponse(things))
}

// Create handles POST /api/things requests.
// On success it responds 201 with the created representation; invalid
// payloads get 422 with field-level messages.
func (h *ThingHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateThingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithFieldErrors(w, r, http.StatusUnprocessableEntity,
			"Validation failed", ValidationFieldErrors(err))
		return
	}

	thing, err := h.thingService.CreateThing(r.Context(), req.Name, req.Description, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("thing created", slog.String("thing_id", thing.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, ThingToResponse(thing))
}

// Get handles GET /api/things/{id} requests.
// Responds 200 with the representation, or 404 if the thing is absent.
func (h *ThingHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.pathID(w, r, log)
	if !ok {
		return
	}

	thing, err := h.thingService.GetThing(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ThingToResponse(thing))
}

// Update handles PATCH and PUT /api/things/{id} requests.
// Responds 200 with the updated representation, 404 if the thing is
// absent, or 422 on invalid input.
func (h *ThingHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.pathID(w, r, log)
	if !ok {
		return
	}

	var req UpdateThingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("thing_id", id.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("thing_id", id.String()))
		shared.RespondWithFieldErrors(w, r, http.StatusUnprocessableEntity,
			"Validation failed", ValidationFieldErrors(err))
		return
	}

	update := domain.ThingUpdate{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	}

	thing, err := h.thingService.UpdateThing(r.Context(), id, update)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("thing updated", slog.String("thing_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, ThingToResponse(thing))
}

// Delete handles DELETE /api/things/{id} requests.
// Responds 204 on success or 404 if the thing is absent.
func (h *ThingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.pathID(w, r, log)
	if !ok {
		return
	}

	if err := h.thingService.DeleteThing(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("thing deleted", slog.String("thing_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// pathID extracts and parses the {id} path parameter, writing a 404 if it
// is missing or malformed. A malformed identifier can never name an entity
// in the collection, so it maps to not-found rather than bad-request.
func (h *ThingHandler) pathID(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (uuid.UUID, bool) {
	pathID := chi.URLParam(r, "id")
	if pathID == "" {
		log.Warn("thing ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusNotFound, "Thing not found")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathID)
	if err != nil {
		log.Warn("invalid thing ID format", slog.String("thing_id", pathID))
		shared.RespondWithError(w, r, http.StatusNotFound, "Thing not found")
		return uuid.Nil, false
	}

	return id, true
}
