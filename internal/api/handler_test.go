package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// failingWriter accepts headers but fails every body write
type failingWriter struct {
	*httptest.ResponseRecorder
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestHandler_LogsWriteFailures(t *testing.T) {
	schema, _ := buildSchema(t, bookMap(), &mockStore{})
	core, logs := observer.New(zapcore.DebugLevel)
	handler := NewHandler(schema, zap.New(core))

	w := failingWriter{httptest.NewRecorder()}
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql",
		strings.NewReader(`{"query":"{ books { title } }"}`)))

	entries := logs.FilterMessage("failed to write response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "connection reset by peer", entries[0].ContextMap()["error"])
}

func TestHandler_LogsWriteFailuresForBadRequests(t *testing.T) {
	schema, _ := buildSchema(t, bookMap(), &mockStore{})
	core, logs := observer.New(zapcore.DebugLevel)
	handler := NewHandler(schema, zap.New(core))

	w := failingWriter{httptest.NewRecorder()}
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("failed to write response").Len())
}

func TestPlayground(t *testing.T) {
	rec := httptest.NewRecorder()
	NewPlayground("/v1/graphql", nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/playground", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "GraphiQL.createFetcher")
	assert.Contains(t, body, "v1")
}
