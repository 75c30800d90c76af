package operations

import (
	"github.com/graphql-go/graphql"

	apierrors "github.com/conduit-lang/alchemy/internal/api/errors"
	"github.com/conduit-lang/alchemy/internal/api/execution"
	"github.com/conduit-lang/alchemy/internal/api/fields"
	"github.com/conduit-lang/alchemy/internal/aql"
	"github.com/conduit-lang/alchemy/internal/metadata"
)

const (
	keyArgument   = "_key"
	patchArgument = metadata.PatchArgument
)

// identifyingProperties are the required bindable properties, which single-item
// operations accept alongside _key
func identifyingProperties(entity *metadata.Entity) []metadata.Property {
	var props []metadata.Property
	for _, prop := range entity.Properties {
		if prop.Required && prop.Type.IsBindable() {
			props = append(props, prop)
		}
	}
	return props
}

// filterProperties are all bindable properties, which list operations accept
func filterProperties(entity *metadata.Entity) []metadata.Property {
	var props []metadata.Property
	for _, prop := range entity.Properties {
		if prop.Type.IsBindable() {
			props = append(props, prop)
		}
	}
	return props
}

// keyArguments declares _key plus props, all optional
func keyArguments(types *fields.Synthesizer, props []metadata.Property) graphql.FieldConfigArgument {
	args := types.PropertyArguments(props, false)
	args[keyArgument] = &graphql.ArgumentConfig{Type: graphql.String}
	return args
}

func argumentNames(props []metadata.Property) []string {
	names := make([]string, 0, len(props)+1)
	names = append(names, keyArgument)
	for _, prop := range props {
		names = append(names, prop.Name)
	}
	return names
}

// supplied picks the non-nil values of names from args
func supplied(args map[string]interface{}, names []string) map[string]interface{} {
	out := make(map[string]interface{}, len(names))
	for _, name := range names {
		if v, ok := args[name]; ok && v != nil {
			out[name] = v
		}
	}
	return out
}

// bindFilter sets an equality filter over the supplied arguments among names
// and returns their binds. Single-item operations must identify something.
func bindFilter(pipeline *execution.Pipeline, q *aql.Query, args map[string]interface{}, names []string, single bool) (map[string]interface{}, error) {
	filter := supplied(args, names)
	if single && len(filter) == 0 {
		return nil, apierrors.MissingArgument(q.Namespace, names)
	}

	binds, err := pipeline.BindArguments(q, filter)
	if err != nil {
		return nil, err
	}

	q.Filter = aql.EqualityFilter(filter)
	if single {
		q.Limit = 1
	}
	return binds, nil
}

// listOf is the non-null list of non-null entity objects returned by list operations
func listOf(object *graphql.Object) graphql.Output {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(object)))
}
