// Package operations generates the per-entity operations of the API and the
// registry that dispatches requests to them.
package operations

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/conduit-lang/alchemy/internal/api/execution"
	"github.com/conduit-lang/alchemy/internal/api/fields"
	"github.com/conduit-lang/alchemy/internal/aql"
	"github.com/conduit-lang/alchemy/internal/metadata"
)

// Category places an operation on the Query or the Mutation root
type Category int

const (
	CategoryQuery Category = iota
	CategoryMutation
)

// String returns the string representation of the category
func (c Category) String() string {
	switch c {
	case CategoryQuery:
		return "query"
	case CategoryMutation:
		return "mutation"
	default:
		return "unknown"
	}
}

// OperationData is shared by every operation generated for one entity
type OperationData struct {
	Entity *metadata.Entity
	// Relationships owned by Entity
	Relationships []metadata.Relationship
}

// OperationEntry is one registered operation
type OperationEntry struct {
	Key       string
	Operation Operation
	Data      *OperationData
	Category  Category
}

// Operation is one kind of generated operation
type Operation interface {
	// Name returns the operation key for data's entity
	Name(data *OperationData) string

	// Category returns the root the operation is exposed on
	Category() Category

	// BuildArguments declares the arguments the operation accepts
	BuildArguments(types *fields.Synthesizer, data *OperationData, ops *Registry) graphql.FieldConfigArgument

	// BuildField declares the root field of the operation, without a resolver
	BuildField(types *fields.Synthesizer, name string, data *OperationData, ops *Registry) *graphql.Field

	// Execute configures query from args and runs it through pipeline
	Execute(ctx context.Context, pipeline *execution.Pipeline, data *OperationData, args map[string]interface{}, query *aql.Query) (interface{}, error)
}

// Kinds returns one instance of every operation kind in registration order
func Kinds() []Operation {
	return []Operation{
		Get{},
		GetAll{},
		Create{},
		Update{},
		UpdateAll{},
		Remove{},
		RemoveAll{},
	}
}
