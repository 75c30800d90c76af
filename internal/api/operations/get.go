package operations

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/conduit-lang/alchemy/internal/api/execution"
	"github.com/conduit-lang/alchemy/internal/api/fields"
	"github.com/conduit-lang/alchemy/internal/aql"
)

// Get fetches one document by _key or by any of the required properties
type Get struct{}

func (Get) Name(data *OperationData) string {
	return SingularName(data.Entity)
}

func (Get) Category() Category {
	return CategoryQuery
}

func (Get) BuildArguments(types *fields.Synthesizer, data *OperationData, ops *Registry) graphql.FieldConfigArgument {
	return keyArguments(types, identifyingProperties(data.Entity))
}

func (op Get) BuildField(types *fields.Synthesizer, name string, data *OperationData, ops *Registry) *graphql.Field {
	return &graphql.Field{
		Name: name,
		Type: ops.EntityType(data),
		Args: op.BuildArguments(types, data, ops),
	}
}

func (Get) Execute(ctx context.Context, pipeline *execution.Pipeline, data *OperationData, args map[string]interface{}, query *aql.Query) (interface{}, error) {
	binds, err := bindFilter(pipeline, query, args, argumentNames(identifyingProperties(data.Entity)), true)
	if err != nil {
		return nil, err
	}

	v, err := pipeline.Execute(ctx, query, data.Entity.Name, execution.Single, binds)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// GetAll lists the documents matching whichever filter arguments are supplied
type GetAll struct{}

func (GetAll) Name(data *OperationData) string {
	return PluralName(data.Entity)
}

func (GetAll) Category() Category {
	return CategoryQuery
}

func (GetAll) BuildArguments(types *fields.Synthesizer, data *OperationData, ops *Registry) graphql.FieldConfigArgument {
	return keyArguments(types, filterProperties(data.Entity))
}

func (op GetAll) BuildField(types *fields.Synthesizer, name string, data *OperationData, ops *Registry) *graphql.Field {
	return &graphql.Field{
		Name: name,
		Type: listOf(ops.EntityType(data)),
		Args: op.BuildArguments(types, data, ops),
	}
}

func (GetAll) Execute(ctx context.Context, pipeline *execution.Pipeline, data *OperationData, args map[string]interface{}, query *aql.Query) (interface{}, error) {
	binds, err := bindFilter(pipeline, query, args, argumentNames(filterProperties(data.Entity)), false)
	if err != nil {
		return nil, err
	}

	v, err := pipeline.Execute(ctx, query, data.Entity.Name, execution.Multiple, binds)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}
