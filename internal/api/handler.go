package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/conduit-lang/alchemy/internal/web/middleware"
)

// maxRequestBytes bounds the size of a GraphQL request body
const maxRequestBytes = 1 << 20

// Request is the body of a GraphQL HTTP request
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler executes GraphQL requests against a schema
type Handler struct {
	schema graphql.Schema
	logger *zap.Logger
}

// NewHandler creates a handler for schema
func NewHandler(schema graphql.Schema, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		schema: schema,
		logger: logger,
	}
}

// ServeHTTP accepts POST with a JSON body, or GET with query, variables and
// operationName URL parameters
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(w, r)
	if err != nil {
		h.writeRequestError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	if result.HasErrors() {
		for _, e := range result.Errors {
			h.logger.Debug("graphql error",
				zap.String("request_id", middleware.GetRequestID(r.Context())),
				zap.String("message", e.Message),
				zap.Any("path", e.Path),
			)
		}
	}

	h.writeJSON(w, r, http.StatusOK, result)
}

func parseRequest(w http.ResponseWriter, r *http.Request) (*Request, error) {
	var req Request

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return nil, fmt.Errorf("invalid variables: %w", err)
			}
		}
	case http.MethodPost:
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
	default:
		return nil, fmt.Errorf("method %s not allowed", r.Method)
	}

	if req.Query == "" {
		return nil, fmt.Errorf("missing query")
	}
	return &req, nil
}

// writeRequestError reports a request that could not be executed at all
func (h *Handler) writeRequestError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, r, status, map[string]interface{}{
		"data": nil,
		"errors": []map[string]interface{}{{
			"message":    message,
			"extensions": map[string]interface{}{"code": "BAD_REQUEST"},
		}},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Debug("failed to write response",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
	}
}
