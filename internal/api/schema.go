// Package api exposes the operation registry as a GraphQL schema and serves it over HTTP.
package api

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/conduit-lang/alchemy/internal/api/operations"
)

// ErrEmptySchema is returned when the registry holds no query operations
var ErrEmptySchema = errors.New("no operations to expose")

// NewSchema builds the Query and Mutation roots from the registry. Every root
// field resolves by dispatching its name through the registry.
func NewSchema(registry *operations.Registry) (graphql.Schema, error) {
	query := rootObject("Query", registry, operations.CategoryQuery)
	if query == nil {
		return graphql.Schema{}, ErrEmptySchema
	}

	config := graphql.SchemaConfig{Query: query}
	if mutation := rootObject("Mutation", registry, operations.CategoryMutation); mutation != nil {
		config.Mutation = mutation
	}

	schema, err := graphql.NewSchema(config)
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to build schema: %w", err)
	}
	return schema, nil
}

func rootObject(name string, registry *operations.Registry, category operations.Category) *graphql.Object {
	entries := registry.Operations(category)
	if len(entries) == 0 {
		return nil
	}

	fields := graphql.Fields{}
	for _, entry := range entries {
		field, _ := registry.Field(entry.Key)
		field.Resolve = dispatch(registry)
		fields[entry.Key] = field
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name:   name,
		Fields: fields,
	})
}

func dispatch(registry *operations.Registry) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		return registry.CallByKey(p.Context, p.Info.FieldName, p.Args)
	}
}
