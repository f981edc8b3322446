package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/thingworks/things-api/internal/api/shared"
)

// Path patterns for the things resource. The serializer derives self-links
// from these, so the link and the route can't drift apart.
const (
	ThingsCollectionPath = "/api/things"
	ThingsItemPattern    = "/api/things/{id}"
)

// Route describes a single HTTP route: its symbolic name, verb, URL
// pattern, and handler. The handler is excluded from JSON so the route
// table doubles as the metadata document served to documentation tooling.
type Route struct {
	Name      string           `json:"name"`
	Method    string           `json:"method"`
	Pattern   string           `json:"pattern"`
	Protected bool             `json:"protected"`
	Handler   http.HandlerFunc `json:"-"`
}

// Routes builds the application's immutable route table. It is constructed
// once at startup and used both to register handlers and to serve route
// metadata. Each (method, pattern) pair appears exactly once.
func Routes(thingHandler *ThingHandler, authHandler *AuthHandler) []Route {
	return []Route{
		// Authentication endpoints (public)
		{Name: "auth.register", Method: http.MethodPost, Pattern: "/api/auth/register", Handler: authHandler.Register},
		{Name: "auth.login", Method: http.MethodPost, Pattern: "/api/auth/login", Handler: authHandler.Login},
		{Name: "auth.refresh", Method: http.MethodPost, Pattern: "/api/auth/refresh", Handler: authHandler.RefreshToken},

		// Things resource (protected)
		{Name: "things.index", Method: http.MethodGet, Pattern: ThingsCollectionPath, Protected: true, Handler: thingHandler.List},
		{Name: "things.create", Method: http.MethodPost, Pattern: ThingsCollectionPath, Protected: true, Handler: thingHandler.Create},
		{Name: "things.show", Method: http.MethodGet, Pattern: ThingsItemPattern, Protected: true, Handler: thingHandler.Get},
		{Name: "things.update", Method: http.MethodPatch, Pattern: ThingsItemPattern, Protected: true, Handler: thingHandler.Update},
		{Name: "things.update", Method: http.MethodPut, Pattern: ThingsItemPattern, Protected: true, Handler: thingHandler.Update},
		{Name: "things.destroy", Method: http.MethodDelete, Pattern: ThingsItemPattern, Protected: true, Handler: thingHandler.Delete},
	}
}

// ThingURL returns the self-link for a thing with the given ID.
func ThingURL(id uuid.UUID) string {
	return ThingsCollectionPath + "/" + id.String()
}

// NewRoutesHandler returns a handler serving the route table as JSON.
// Documentation generators read this to produce an interactive spec.
func NewRoutesHandler(routes []Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, routes)
	}
}
