package operations

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/conduit-lang/alchemy/internal/api/execution"
	"github.com/conduit-lang/alchemy/internal/api/fields"
	"github.com/conduit-lang/alchemy/internal/aql"
)

// Create inserts a document built from the supplied properties
type Create struct{}

func (Create) Name(data *OperationData) string {
	return prefixed("create", SingularName(data.Entity))
}

func (Create) Category() Category {
	return CategoryMutation
}

func (Create) BuildArguments(types *fields.Synthesizer, data *OperationData, ops *Registry) graphql.FieldConfigArgument {
	return types.PropertyArguments(data.Entity.Properties, true)
}

func (op Create) BuildField(types *fields.Synthesizer, name string, data *OperationData, ops *Registry) *graphql.Field {
	return &graphql.Field{
		Name: name,
		Type: ops.EntityType(data),
		Args: op.BuildArguments(types, data, ops),
	}
}

func (Create) Execute(ctx context.Context, pipeline *execution.Pipeline, data *OperationData, args map[string]interface{}, query *aql.Query) (interface{}, error) {
	names := make([]string, 0, len(data.Entity.Properties))
	for _, prop := range data.Entity.Properties {
		names = append(names, prop.Name)
	}

	query.Action = aql.ActionInsert
	v, err := pipeline.Execute(ctx, query, data.Entity.Name, execution.Single, map[string]interface{}{
		query.PayloadKey(): supplied(args, names),
	})
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}
