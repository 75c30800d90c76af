package operations

import (
	"github.com/conduit-lang/alchemy/internal/metadata"
	strs "github.com/conduit-lang/alchemy/internal/util/strings"
)

// SingularName is the key stem for single-item operations (Book -> book)
func SingularName(entity *metadata.Entity) string {
	return strs.ToLowerCamel(entity.Name)
}

// PluralName is the key stem for list operations (Book -> books). Entities
// whose plural equals the singular get a List suffix (Sheep -> sheepList).
func PluralName(entity *metadata.Entity) string {
	singular := SingularName(entity)
	plural := strs.Plural(singular)
	if plural == singular {
		return singular + "List"
	}
	return plural
}

// TraversalFieldName names the field that follows rel from its owning entity
func TraversalFieldName(rel metadata.Relationship) string {
	return strs.ToSnakeCase(strs.Singular(rel.From.Name)) + "_" + rel.Name
}

func prefixed(prefix, stem string) string {
	return prefix + strs.ToUpperFirst(stem)
}
