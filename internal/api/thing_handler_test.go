package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thingworks/things-api/internal/domain"
	"github.com/thingworks/things-api/internal/mocks"
	"github.com/thingworks/things-api/internal/service"
)

// newTestHandlers wires handlers over in-memory mocks, mirroring the
// production wiring minus the database.
func newTestHandlers(t *testing.T) (
	*ThingHandler,
	*AuthHandler,
	*mocks.MockThingStore,
	*mocks.MockUserStore,
	*mocks.MockJWTService,
) {
	t.Helper()

	thingStore := mocks.NewMockThingStore()
	userStore := mocks.NewMockUserStore()
	jwtService := &mocks.MockJWTService{
		Token:        "test-access-token",
		RefreshToken: "test-refresh-token",
	}

	thingService, err := service.NewThingService(thingStore, &mocks.MockTransactor{}, slog.Default())
	require.NoError(t, err)

	thingHandler := NewThingHandler(thingService, slog.Default())
	authHandler := NewAuthHandler(userStore, jwtService, failVerifier{}, time.Hour, slog.Default())

	return thingHandler, authHandler, thingStore, userStore, jwtService
}

// failVerifier rejects every password. Tests that need successful logins
// swap in their own verifier.
type failVerifier struct{}

func (failVerifier) Compare(hashedPassword, password string) error {
	return errors.New("mismatch")
}

// newThingsRouter mounts the thing handler the way the server does, without
// the auth middleware, so handler behavior can be tested in isolation.
func newThingsRouter(handler *ThingHandler) http.Handler {
	r := chi.NewRouter()
	r.Get(ThingsCollectionPath, handler.List)
	r.Post(ThingsCollectionPath, handler.Create)
	r.Get(ThingsItemPattern, handler.Get)
	r.Patch(ThingsItemPattern, handler.Update)
	r.Put(ThingsItemPattern, handler.Update)
	r.Delete(ThingsItemPattern, handler.Delete)
	return r
}

func newJSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func doJSON(
	t *testing.T,
	router http.Handler,
	method, path string,
	body interface{},
) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newJSONRequest(t, method, path, body))
	return rec
}

func TestThingHandlerCreate(t *testing.T) {
	t.Run("valid payload returns 201 with representation", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		rec := doJSON(t, router, http.MethodPost, ThingsCollectionPath, map[string]interface{}{
			"name":        "Widget",
			"description": "a widget",
			"tags":        []string{"demo"},
		})

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp ThingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Widget", resp.Name)
		assert.Equal(t, "a widget", resp.Description)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "/api/things/"+resp.ID, resp.URL)
	})

	t.Run("missing name returns 422 with field errors", func(t *testing.T) {
		handler, _, thingStore, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		rec := doJSON(t, router, http.MethodPost, ThingsCollectionPath, map[string]interface{}{
			"description": "no name",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Validation failed", resp.Error)
		assert.Equal(t, "required field", resp.Fields["name"])

		assert.Empty(t, thingStore.Things, "invalid input must not create anything")
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		req := httptest.NewRequest(http.MethodPost, ThingsCollectionPath,
			bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("name at length limit accepted", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		name := make([]byte, 200)
		for i := range name {
			name[i] = 'x'
		}

		rec := doJSON(t, router, http.MethodPost, ThingsCollectionPath, map[string]interface{}{
			"name": string(name),
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestThingHandlerGet(t *testing.T) {
	t.Run("existing thing returns 200", func(t *testing.T) {
		handler, _, thingStore, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		thing, err := domain.NewThing("Widget", "", nil)
		require.NoError(t, err)
		require.NoError(t, thingStore.Create(context.Background(), thing))

		rec := doJSON(t, router, http.MethodGet, ThingURL(thing.ID), nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ThingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, thing.ID.String(), resp.ID)
		assert.Equal(t, "Widget", resp.Name)
	})

	t.Run("unknown id returns 404 with error body", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		rec := doJSON(t, router, http.MethodGet, ThingURL(uuid.New()), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Thing not found", resp.Error)
	})

	t.Run("malformed id returns 404", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		rec := doJSON(t, router, http.MethodGet, ThingsCollectionPath+"/not-a-uuid", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestThingHandlerList(t *testing.T) {
	t.Run("empty collection returns 200 with empty array", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		rec := doJSON(t, router, http.MethodGet, ThingsCollectionPath, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("returns every created thing", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		for _, name := range []string{"First", "Second", "Third"} {
			rec := doJSON(t, router, http.MethodPost, ThingsCollectionPath,
				map[string]interface{}{"name": name})
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := doJSON(t, router, http.MethodGet, ThingsCollectionPath, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []ThingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 3)
	})
}

func TestThingHandlerUpdate(t *testing.T) {
	createWidget := func(t *testing.T, router http.Handler) ThingResponse {
		t.Helper()
		rec := doJSON(t, router, http.MethodPost, ThingsCollectionPath, map[string]interface{}{
			"name":        "Widget",
			"description": "original",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp ThingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	t.Run("PATCH with partial payload returns 200", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)
		created := createWidget(t, router)

		rec := doJSON(t, router, http.MethodPatch, created.URL, map[string]interface{}{
			"name": "Gadget",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ThingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Gadget", resp.Name)
		assert.Equal(t, "original", resp.Description, "omitted fields keep their values")
	})

	t.Run("PUT routes to the same update handler", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)
		created := createWidget(t, router)

		rec := doJSON(t, router, http.MethodPut, created.URL, map[string]interface{}{
			"name": "Gadget",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		rec := doJSON(t, router, http.MethodPatch, ThingURL(uuid.New()), map[string]interface{}{
			"name": "Gadget",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty name returns 422", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)
		created := createWidget(t, router)

		rec := doJSON(t, router, http.MethodPatch, created.URL, map[string]interface{}{
			"name": "",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		// The stored entity is untouched.
		rec = doJSON(t, router, http.MethodGet, created.URL, nil)
		var resp ThingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Widget", resp.Name)
	})
}

func TestThingHandlerDelete(t *testing.T) {
	t.Run("existing thing returns 204 with empty body", func(t *testing.T) {
		handler, _, thingStore, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		thing, err := domain.NewThing("Widget", "", nil)
		require.NoError(t, err)
		require.NoError(t, thingStore.Create(context.Background(), thing))

		rec := doJSON(t, router, http.MethodDelete, ThingURL(thing.ID), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		handler, _, _, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		rec := doJSON(t, router, http.MethodDelete, ThingURL(uuid.New()), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete is not idempotent on status", func(t *testing.T) {
		handler, _, thingStore, _, _ := newTestHandlers(t)
		router := newThingsRouter(handler)

		thing, err := domain.NewThing("Widget", "", nil)
		require.NoError(t, err)
		require.NoError(t, thingStore.Create(context.Background(), thing))

		rec := doJSON(t, router, http.MethodDelete, ThingURL(thing.ID), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodDelete, ThingURL(thing.ID), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
