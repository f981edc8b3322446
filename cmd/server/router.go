package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/thingworks/things-api/internal/api"
	apiMiddleware "github.com/thingworks/things-api/internal/api/middleware"
)

// setupRouter creates and configures the application router. The explicit
// route table built by api.Routes drives handler registration, and the
// same table is served as metadata for documentation tooling.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Standard middleware, applied uniformly to every route.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	thingHandler := api.NewThingHandler(app.thingService, app.logger)
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.hasher,
		app.config.Auth.TokenLifetime(),
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	routes := api.Routes(thingHandler, authHandler)

	// Public routes
	for _, route := range routes {
		if !route.Protected {
			r.Method(route.Method, route.Pattern, route.Handler)
		}
	}

	// Route metadata for documentation generators
	r.Get("/api/routes", api.NewRoutesHandler(routes))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		for _, route := range routes {
			if route.Protected {
				r.Method(route.Method, route.Pattern, route.Handler)
			}
		}
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
