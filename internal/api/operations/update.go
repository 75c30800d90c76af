package operations

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/conduit-lang/alchemy/internal/api/execution"
	"github.com/conduit-lang/alchemy/internal/api/fields"
	"github.com/conduit-lang/alchemy/internal/aql"
)

// Update merges a patch into one identified document
type Update struct{}

func (Update) Name(data *OperationData) string {
	return prefixed("update", SingularName(data.Entity))
}

func (Update) Category() Category {
	return CategoryMutation
}

func (Update) BuildArguments(types *fields.Synthesizer, data *OperationData, ops *Registry) graphql.FieldConfigArgument {
	return withPatch(types, data, keyArguments(types, identifyingProperties(data.Entity)))
}

func (op Update) BuildField(types *fields.Synthesizer, name string, data *OperationData, ops *Registry) *graphql.Field {
	return &graphql.Field{
		Name: name,
		Type: ops.EntityType(data),
		Args: op.BuildArguments(types, data, ops),
	}
}

func (Update) Execute(ctx context.Context, pipeline *execution.Pipeline, data *OperationData, args map[string]interface{}, query *aql.Query) (interface{}, error) {
	return update(ctx, pipeline, data, args, query, argumentNames(identifyingProperties(data.Entity)), execution.Single)
}

// UpdateAll merges a patch into every matching document
type UpdateAll struct{}

func (UpdateAll) Name(data *OperationData) string {
	return prefixed("update", PluralName(data.Entity))
}

func (UpdateAll) Category() Category {
	return CategoryMutation
}

func (UpdateAll) BuildArguments(types *fields.Synthesizer, data *OperationData, ops *Registry) graphql.FieldConfigArgument {
	return withPatch(types, data, keyArguments(types, filterProperties(data.Entity)))
}

func (op UpdateAll) BuildField(types *fields.Synthesizer, name string, data *OperationData, ops *Registry) *graphql.Field {
	return &graphql.Field{
		Name: name,
		Type: listOf(ops.EntityType(data)),
		Args: op.BuildArguments(types, data, ops),
	}
}

func (UpdateAll) Execute(ctx context.Context, pipeline *execution.Pipeline, data *OperationData, args map[string]interface{}, query *aql.Query) (interface{}, error) {
	return update(ctx, pipeline, data, args, query, argumentNames(filterProperties(data.Entity)), execution.Multiple)
}

func withPatch(types *fields.Synthesizer, data *OperationData, args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args[patchArgument] = &graphql.ArgumentConfig{
		Type: graphql.NewNonNull(types.PatchType(data.Entity)),
	}
	return args
}

func update(ctx context.Context, pipeline *execution.Pipeline, data *OperationData, args map[string]interface{}, query *aql.Query, names []string, mode execution.Mode) (interface{}, error) {
	binds, err := bindFilter(pipeline, query, args, names, mode == execution.Single)
	if err != nil {
		return nil, err
	}

	patch, _ := args[patchArgument].(map[string]interface{})
	if patch == nil {
		patch = map[string]interface{}{}
	}

	query.Action = aql.ActionUpdate
	binds[query.PayloadKey()] = patch

	v, err := pipeline.Execute(ctx, query, data.Entity.Name, mode, binds)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}
