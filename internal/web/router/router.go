// Package router assembles the HTTP routes served by alchemy.
package router

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/conduit-lang/alchemy/internal/web/middleware"
)

// Router manages HTTP routing using chi framework
type Router struct {
	mux chi.Router

	// For introspection and debugging
	registeredRoutes []*RouteInfo
}

// RouteInfo provides metadata about a route for introspection
type RouteInfo struct {
	Pattern string
	Method  string
	Name    string
}

// NewRouter creates a new Router instance
func NewRouter() *Router {
	return &Router{
		mux: chi.NewRouter(),
	}
}

// ServeHTTP implements http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Use adds middleware; it must be called before any route is registered
func (r *Router) Use(middlewares ...middleware.Middleware) {
	for _, m := range middlewares {
		r.mux.Use(m)
	}
}

// Handle registers handler for method and pattern under name
func (r *Router) Handle(method, pattern, name string, handler http.Handler) {
	r.mux.Method(method, pattern, handler)
	r.registeredRoutes = append(r.registeredRoutes, &RouteInfo{
		Pattern: pattern,
		Method:  method,
		Name:    name,
	})
}

// GetRoutes returns all registered routes for introspection
func (r *Router) GetRoutes() []*RouteInfo {
	return r.registeredRoutes
}

// Config describes the routes of the API server
type Config struct {
	// APIPrefix is mounted in front of the GraphQL endpoint (e.g. "/api")
	APIPrefix string

	// GraphQL serves GraphQL requests
	GraphQL http.Handler

	// Playground serves an interactive GraphQL page under the API prefix, if set
	Playground http.Handler

	// Metrics serves the Prometheus exposition, if set
	Metrics http.Handler

	Logger *zap.Logger
}

// New builds the API router: request IDs, recovery and logging middleware,
// the GraphQL endpoint, the playground, /metrics and /healthz
func New(config Config) *Router {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logging(logger, "/healthz", "/metrics"),
	)

	r.mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	prefix := strings.TrimRight(config.APIPrefix, "/")
	r.Handle(http.MethodPost, prefix+"/graphql", "graphql", config.GraphQL)
	r.Handle(http.MethodGet, prefix+"/graphql", "graphql", config.GraphQL)

	if config.Playground != nil {
		r.Handle(http.MethodGet, prefix+"/playground", "playground", config.Playground)
	}

	if config.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", "metrics", config.Metrics)
	}

	r.Handle(http.MethodGet, "/healthz", "health", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))

	return r
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
