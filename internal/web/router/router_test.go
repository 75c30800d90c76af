package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/alchemy/internal/web/middleware"
)

func echoHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
}

func TestNew_Routes(t *testing.T) {
	r := New(Config{
		APIPrefix:  "/api/",
		GraphQL:    echoHandler("graphql"),
		Playground: echoHandler("playground"),
		Metrics:    echoHandler("metrics"),
	})

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodPost, "/api/graphql", http.StatusOK, "graphql"},
		{http.MethodGet, "/api/graphql", http.StatusOK, "graphql"},
		{http.MethodGet, "/api/playground", http.StatusOK, "playground"},
		{http.MethodPost, "/api/playground", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/metrics", http.StatusOK, "metrics"},
		{http.MethodGet, "/healthz", http.StatusOK, `{"status":"ok"}`},
		{http.MethodDelete, "/api/graphql", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestNew_WithoutMetricsOrPlayground(t *testing.T) {
	r := New(Config{GraphQL: echoHandler("graphql")})

	var names []string
	for _, route := range r.GetRoutes() {
		names = append(names, route.Method+" "+route.Pattern)
	}
	assert.Equal(t, []string{"POST /graphql", "GET /graphql", "GET /healthz"}, names)
}

func TestNew_RecoversPanics(t *testing.T) {
	r := New(Config{
		GraphQL: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			panic("boom")
		}),
	})

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
