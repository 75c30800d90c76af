package operations

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/conduit-lang/alchemy/internal/api/execution"
	"github.com/conduit-lang/alchemy/internal/api/fields"
	"github.com/conduit-lang/alchemy/internal/aql"
)

// Remove deletes one identified document and returns it
type Remove struct{}

func (Remove) Name(data *OperationData) string {
	return prefixed("remove", SingularName(data.Entity))
}

func (Remove) Category() Category {
	return CategoryMutation
}

func (Remove) BuildArguments(types *fields.Synthesizer, data *OperationData, ops *Registry) graphql.FieldConfigArgument {
	return keyArguments(types, identifyingProperties(data.Entity))
}

func (op Remove) BuildField(types *fields.Synthesizer, name string, data *OperationData, ops *Registry) *graphql.Field {
	return &graphql.Field{
		Name: name,
		Type: ops.EntityType(data),
		Args: op.BuildArguments(types, data, ops),
	}
}

func (Remove) Execute(ctx context.Context, pipeline *execution.Pipeline, data *OperationData, args map[string]interface{}, query *aql.Query) (interface{}, error) {
	return remove(ctx, pipeline, data, args, query, argumentNames(identifyingProperties(data.Entity)), execution.Single)
}

// RemoveAll deletes every matching document and returns them
type RemoveAll struct{}

func (RemoveAll) Name(data *OperationData) string {
	return prefixed("remove", PluralName(data.Entity))
}

func (RemoveAll) Category() Category {
	return CategoryMutation
}

func (RemoveAll) BuildArguments(types *fields.Synthesizer, data *OperationData, ops *Registry) graphql.FieldConfigArgument {
	return keyArguments(types, filterProperties(data.Entity))
}

func (op RemoveAll) BuildField(types *fields.Synthesizer, name string, data *OperationData, ops *Registry) *graphql.Field {
	return &graphql.Field{
		Name: name,
		Type: listOf(ops.EntityType(data)),
		Args: op.BuildArguments(types, data, ops),
	}
}

func (RemoveAll) Execute(ctx context.Context, pipeline *execution.Pipeline, data *OperationData, args map[string]interface{}, query *aql.Query) (interface{}, error) {
	return remove(ctx, pipeline, data, args, query, argumentNames(filterProperties(data.Entity)), execution.Multiple)
}

func remove(ctx context.Context, pipeline *execution.Pipeline, data *OperationData, args map[string]interface{}, query *aql.Query, names []string, mode execution.Mode) (interface{}, error) {
	binds, err := bindFilter(pipeline, query, args, names, mode == execution.Single)
	if err != nil {
		return nil, err
	}

	query.Action = aql.ActionRemove
	v, err := pipeline.Execute(ctx, query, data.Entity.Name, mode, binds)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}
