// Package execution binds request arguments, runs compiled queries against the
// store and converts the returned documents.
package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/alchemy/internal/aql"
	apierrors "github.com/conduit-lang/alchemy/internal/api/errors"
	"github.com/conduit-lang/alchemy/internal/metrics"
	"github.com/conduit-lang/alchemy/internal/value"
)

// Store runs AQL against the backing database
type Store interface {
	// Query executes text with bindVars and returns the documents in cursor order
	Query(ctx context.Context, text string, bindVars map[string]interface{}) ([]json.RawMessage, error)
}

// Mode selects how a document list is shaped into a result
type Mode int

const (
	// Single takes the first document and fails when there is none
	Single Mode = iota
	// Multiple returns every document
	Multiple
)

// Pipeline executes queries on behalf of operations
type Pipeline struct {
	store   Store
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a pipeline. logger and m may be nil.
func New(store Store, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

// Logger returns the pipeline's logger
func (p *Pipeline) Logger() *zap.Logger {
	return p.logger
}

// Metrics returns the pipeline's metrics, which may be nil
func (p *Pipeline) Metrics() *metrics.Metrics {
	return p.metrics
}

// BindArguments maps scalar argument values to the query's bind keys.
// Nil values are treated as not supplied. Lists and objects cannot be bound
// and fail the request.
func (p *Pipeline) BindArguments(q *aql.Query, args map[string]interface{}) (map[string]interface{}, error) {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	binds := make(map[string]interface{}, len(args))
	for _, name := range names {
		arg := args[name]
		switch arg.(type) {
		case nil:
			continue
		case string, bool, int, int32, int64, float32, float64:
			binds[q.ArgumentKey(name)] = arg
		default:
			p.logger.Warn("unsupported argument value",
				zap.String("operation", q.Namespace),
				zap.String("argument", name),
				zap.String("type", fmt.Sprintf("%T", arg)),
			)
			return nil, apierrors.UnsupportedArgument(name, arg)
		}
	}

	return binds, nil
}

// Execute renders q, runs it with values for its binds and shapes the documents
// according to mode. entity names the result type in NotFound errors.
//
// The store call is detached from ctx cancellation so a disconnecting client
// never leaves a write half applied.
func (p *Pipeline) Execute(ctx context.Context, q *aql.Query, entity string, mode Mode, values map[string]interface{}) (value.Value, error) {
	text := q.ToAQL()

	bindVars := make(map[string]interface{})
	for _, key := range q.Binds() {
		v, ok := values[key]
		if !ok {
			return value.Value{}, fmt.Errorf("query %s: no value for bind %q", q.Namespace, key)
		}
		bindVars[key] = v
	}
	for key, collection := range q.Collections() {
		bindVars[key] = collection
	}

	start := time.Now()
	docs, err := p.store.Query(context.WithoutCancel(ctx), text, bindVars)
	elapsed := time.Since(start)
	p.metrics.ObserveQuery(collectionLabel(q), elapsed, err)

	if err != nil {
		p.logger.Warn("query failed",
			zap.String("operation", q.Namespace),
			zap.String("aql", text),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return value.Value{}, apierrors.StoreFailure(err)
	}

	p.logger.Debug("query executed",
		zap.String("operation", q.Namespace),
		zap.String("aql", text),
		zap.Duration("duration", elapsed),
		zap.Int("documents", len(docs)),
	)

	return Shape(docs, entity, mode)
}

// Shape converts documents into a single value or a list according to mode
func Shape(docs []json.RawMessage, entity string, mode Mode) (value.Value, error) {
	if mode == Single {
		if len(docs) == 0 {
			return value.Value{}, apierrors.NotFound(entity)
		}
		v, err := value.FromJSON(docs[0])
		if err != nil {
			return value.Value{}, fmt.Errorf("failed to convert %s document: %w", entity, err)
		}
		return v, nil
	}

	items := make([]value.Value, 0, len(docs))
	for i, doc := range docs {
		v, err := value.FromJSON(doc)
		if err != nil {
			return value.Value{}, fmt.Errorf("failed to convert %s document %d: %w", entity, i, err)
		}
		items = append(items, v)
	}
	return value.List(items...), nil
}

func collectionLabel(q *aql.Query) string {
	if q.Traversal != nil {
		return q.Traversal.EdgeCollection
	}
	return q.Collection
}
