package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apimiddleware "github.com/thingworks/things-api/internal/api/middleware"
	"github.com/thingworks/things-api/internal/service/auth"
)

const lifecycleToken = "lifecycle-access-token"

// newLifecycleRouter assembles the full routing pipeline from the route
// table, with tracing and the auth filter in front of protected routes,
// matching the server's wiring.
func newLifecycleRouter(t *testing.T) http.Handler {
	t.Helper()

	thingHandler, authHandler, _, _, jwtService := newTestHandlers(t)
	jwtService.ValidateTokenFn = func(ctx context.Context, token string) (*auth.Claims, error) {
		if token == lifecycleToken {
			return &auth.Claims{UserID: uuid.New(), TokenType: "access"}, nil
		}
		return nil, auth.ErrInvalidToken
	}

	routes := Routes(thingHandler, authHandler)
	authMiddleware := apimiddleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Use(apimiddleware.TraceMiddleware)

	for _, route := range routes {
		if !route.Protected {
			r.Method(route.Method, route.Pattern, route.Handler)
		}
	}

	r.Get("/api/routes", NewRoutesHandler(routes))

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		for _, route := range routes {
			if route.Protected {
				r.Method(route.Method, route.Pattern, route.Handler)
			}
		}
	})

	return r
}

func doAuthedJSON(
	t *testing.T,
	router http.Handler,
	method, path string,
	body interface{},
) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := newJSONRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+lifecycleToken)
	router.ServeHTTP(rec, req)
	return rec
}

func listThings(t *testing.T, router http.Handler) []ThingResponse {
	t.Helper()

	rec := doAuthedJSON(t, router, http.MethodGet, ThingsCollectionPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var things []ThingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &things))
	return things
}

// TestThingLifecycle walks a thing through its whole life: create, read
// back individually and via the index, delete, and observe the 404
// afterwards.
func TestThingLifecycle(t *testing.T) {
	router := newLifecycleRouter(t)

	initialCount := len(listThings(t, router))

	// Create.
	rec := doAuthedJSON(t, router, http.MethodPost, ThingsCollectionPath,
		map[string]interface{}{"name": "Widget"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created ThingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "Widget", created.Name)
	require.NotEmpty(t, created.URL)

	// The index grew by one.
	assert.Len(t, listThings(t, router), initialCount+1)

	// Read back through the self-link.
	rec = doAuthedJSON(t, router, http.MethodGet, created.URL, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched ThingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Widget", fetched.Name)

	// An invalid create attempt changes nothing.
	rec = doAuthedJSON(t, router, http.MethodPost, ThingsCollectionPath,
		map[string]interface{}{"description": "nameless"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, listThings(t, router), initialCount+1)

	// Delete.
	rec = doAuthedJSON(t, router, http.MethodDelete, created.URL, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, listThings(t, router), initialCount)

	// Gone for good.
	rec = doAuthedJSON(t, router, http.MethodGet, created.URL, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newLifecycleRouter(t)

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ThingsCollectionPath, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, ThingsCollectionPath, nil)
		req.Header.Set("Authorization", "Bearer forged")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("route metadata stays public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/routes", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
