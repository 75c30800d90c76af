// Package arango runs AQL against ArangoDB through the official driver.
package arango

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	driver "github.com/arangodb/go-driver"
	arangohttp "github.com/arangodb/go-driver/http"
	"go.uber.org/zap"
)

// ErrNoEndpoints is returned when the configuration names no server
var ErrNoEndpoints = errors.New("no database endpoints configured")

// Config holds the database connection settings
type Config struct {
	Endpoints []string
	Database  string
	Username  string
	Password  string
}

// Querier is the part of driver.Database the store uses
type Querier interface {
	Query(ctx context.Context, query string, bindVars map[string]interface{}) (driver.Cursor, error)
}

// Store executes queries against one database. The driver pools its
// connections, so a Store is shared by all requests.
type Store struct {
	db     Querier
	logger *zap.Logger
}

// New creates a store over an already opened database
func New(db Querier, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Open connects to the configured database
func Open(ctx context.Context, config Config, logger *zap.Logger) (*Store, error) {
	if len(config.Endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	conn, err := arangohttp.NewConnection(arangohttp.ConnectionConfig{
		Endpoints: config.Endpoints,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	clientConfig := driver.ClientConfig{Connection: conn}
	if config.Username != "" {
		clientConfig.Authentication = driver.BasicAuthentication(config.Username, config.Password)
	}

	client, err := driver.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	db, err := client.Database(ctx, config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", config.Database, err)
	}

	if logger != nil {
		logger.Info("connected to database",
			zap.Strings("endpoints", config.Endpoints),
			zap.String("database", config.Database),
		)
	}

	return New(db, logger), nil
}

// Query runs text and reads the whole cursor
func (s *Store) Query(ctx context.Context, text string, bindVars map[string]interface{}) ([]json.RawMessage, error) {
	cursor, err := s.db.Query(ctx, text, bindVars)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := cursor.Close(); err != nil {
			s.logger.Warn("failed to close cursor", zap.Error(err))
		}
	}()

	var docs []json.RawMessage
	for cursor.HasMore() {
		var doc json.RawMessage
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			if driver.IsNoMoreDocuments(err) {
				break
			}
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
