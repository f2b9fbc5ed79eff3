package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iklobato/LightAPI/internal/utils"
	"github.com/iklobato/LightAPI/models"
)

// Route is one compiled (method, pattern, handler) triple. The route table
// is built once before the server starts and is read-only afterwards.
type Route struct {
	Method       string
	Pattern      string
	Handler      http.HandlerFunc
	RequiresAuth bool
}

// operations builds the verb dispatch table for one endpoint. Every entry
// is already wrapped in the request dispatcher, so the table maps a verb
// straight to a servable handler. Resolving the table here, at compile
// time, keeps verb lookup out of the request path entirely.
func (h *Handler) operations(ep models.Endpoint, verbs []models.Verb) map[models.Verb]http.HandlerFunc {
	return map[models.Verb]http.HandlerFunc{
		models.VerbGet:     h.dispatch(ep.Entity, h.readEntity),
		models.VerbPost:    h.dispatch(ep.Entity, h.createEntity),
		models.VerbPut:     h.dispatch(ep.Entity, h.replaceEntity),
		models.VerbPatch:   h.dispatch(ep.Entity, h.patchEntity),
		models.VerbDelete:  h.dispatch(ep.Entity, h.deleteEntity),
		models.VerbOptions: h.dispatch(ep.Entity, h.optionsEntity(verbs)),
		models.VerbHead:    h.dispatch(ep.Entity, h.headEntity),
	}
}

// compileEndpointRoutes turns one endpoint's effective verb set into
// concrete routes. GET emits two routes, collection read and single-item
// read; POST, OPTIONS and HEAD are collection-level; PUT, PATCH and DELETE
// are item-level. A verb without a bound operation fails compilation with
// ErrMissingOperation, so a structurally broken registration aborts
// startup instead of surfacing as a request-time failure.
func compileEndpointRoutes(ep models.Endpoint, verbs []models.Verb, ops map[models.Verb]http.HandlerFunc) ([]Route, error) {
	collectionPattern := "/" + ep.Entity.Name
	itemPattern := collectionPattern + "/{id}"

	var routes []Route
	for _, verb := range verbs {
		op, ok := ops[verb]
		if !ok || op == nil {
			return nil, fmt.Errorf("%w: %s for entity %q", ErrMissingOperation, verb, ep.Entity.Name)
		}

		switch verb {
		case models.VerbGet:
			routes = append(routes,
				Route{Method: string(verb), Pattern: collectionPattern, Handler: op, RequiresAuth: ep.RequiresAuth},
				Route{Method: string(verb), Pattern: itemPattern, Handler: op, RequiresAuth: ep.RequiresAuth},
			)
		case models.VerbPost, models.VerbOptions, models.VerbHead:
			routes = append(routes, Route{Method: string(verb), Pattern: collectionPattern, Handler: op, RequiresAuth: ep.RequiresAuth})
		case models.VerbPut, models.VerbPatch, models.VerbDelete:
			routes = append(routes, Route{Method: string(verb), Pattern: itemPattern, Handler: op, RequiresAuth: ep.RequiresAuth})
		}
	}

	return routes, nil
}

// compileRoutes compiles the full route table for every registered
// endpoint. Any error here is fatal to startup.
func (h *Handler) compileRoutes() ([]Route, error) {
	seen := make(map[string]bool, len(h.endpoints))

	var routes []Route
	for _, ep := range h.endpoints {
		if err := ep.Entity.Validate(); err != nil {
			return nil, err
		}
		if seen[ep.Entity.Name] {
			return nil, fmt.Errorf("%w: entity %q", ErrDuplicateEndpoint, ep.Entity.Name)
		}
		seen[ep.Entity.Name] = true

		verbs, err := ep.EffectiveVerbs()
		if err != nil {
			return nil, err
		}

		endpointRoutes, err := compileEndpointRoutes(ep, verbs, h.operations(ep, verbs))
		if err != nil {
			return nil, err
		}

		routes = append(routes, endpointRoutes...)
	}

	return routes, nil
}

// Init compiles the route table and mounts it on a fresh router together
// with the token lifecycle endpoints. Compilation errors abort startup.
func (h *Handler) Init() (*chi.Mux, error) {
	routes, err := h.compileRoutes()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// token lifecycle, never behind the auth gate
	router.Group(func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/token", h.login)
		r.Delete("/auth/token", h.revoke)
	})

	router.Group(func(r chi.Router) {
		for _, route := range routes {
			if !route.RequiresAuth {
				r.Method(route.Method, route.Pattern, route.Handler)
			}
		}
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		for _, route := range routes {
			if route.RequiresAuth {
				r.Method(route.Method, route.Pattern, route.Handler)
			}
		}
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, "Item not found", http.StatusNotFound)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return router, nil
}
