package operations

import (
	"context"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/conduit-lang/alchemy/internal/api/execution"
	"github.com/conduit-lang/alchemy/internal/aql"
	"github.com/conduit-lang/alchemy/internal/metadata"
)

// traversalFields returns one field per relationship data's entity owns,
// listing the related documents one edge away
func (r *Registry) traversalFields(data *OperationData) graphql.Fields {
	fields := graphql.Fields{}
	for _, rel := range data.Relationships {
		related, ok := r.entities[rel.Related(data.Entity.Name)]
		if !ok {
			r.pipeline.Logger().Warn("relationship target is not registered",
				zap.String("entity", data.Entity.Name),
				zap.String("relationship", rel.Name),
			)
			continue
		}

		name := TraversalFieldName(rel)
		fields[name] = &graphql.Field{
			Name:    name,
			Type:    listOf(r.EntityType(related)),
			Resolve: r.traverse(name, rel, related),
		}
	}
	return fields
}

func (r *Registry) traverse(name string, rel metadata.Relationship, related *OperationData) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		parent, _ := p.Source.(map[string]interface{})
		id, _ := parent["_id"].(string)
		if id == "" {
			return []interface{}{}, nil
		}

		ctx := p.Context
		if ctx == nil {
			ctx = context.Background()
		}

		q := aql.NewQuery(name, related.Entity.Name)
		q.Traversal = &aql.Traversal{
			Direction:      traversalDirection(rel.Direction),
			EdgeCollection: rel.Name,
		}

		v, err := r.pipeline.Execute(ctx, q, related.Entity.Name, execution.Multiple, map[string]interface{}{
			q.StartKey(): id,
		})
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}
}

// traversalDirection walks away from the owning end: From owns outbound
// relationships, To owns inbound ones and either end owns the rest.
func traversalDirection(d metadata.Direction) aql.Direction {
	switch d {
	case metadata.Inbound:
		return aql.Inbound
	case metadata.Any:
		return aql.Any
	default:
		return aql.Outbound
	}
}
