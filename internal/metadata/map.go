package metadata

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMap is wrapped by every validation failure
var ErrInvalidMap = errors.New("invalid metadata map")

// reservedTypeNames collide with builtin GraphQL types or the generated roots
var reservedTypeNames = map[string]bool{
	"String":   true,
	"Int":      true,
	"Float":    true,
	"Boolean":  true,
	"ID":       true,
	"JSON":     true,
	"Query":    true,
	"Mutation": true,
}

// SystemAttributes are maintained by the database on every document
var SystemAttributes = []string{"_key", "_id"}

// PatchArgument carries the patch document of update operations, so no
// property may take its name
const PatchArgument = "patch"

// Map is the complete description of the database schema
type Map struct {
	Primitives    []Primitive
	Relationships []Relationship
}

// Entities returns the entities of the map in declaration order
func (m *Map) Entities() []*Entity {
	var entities []*Entity
	for _, p := range m.Primitives {
		if e, ok := p.(*Entity); ok {
			entities = append(entities, e)
		}
	}
	return entities
}

// Enums returns the enums of the map in declaration order
func (m *Map) Enums() []*Enum {
	var enums []*Enum
	for _, p := range m.Primitives {
		if e, ok := p.(*Enum); ok {
			enums = append(enums, e)
		}
	}
	return enums
}

// Entity looks up an entity by name
func (m *Map) Entity(name string) (*Entity, bool) {
	for _, e := range m.Entities() {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Enum looks up an enum by name
func (m *Map) Enum(name string) (*Enum, bool) {
	for _, e := range m.Enums() {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// OwnedRelationships returns the relationships attached to entityName, in declaration order
func (m *Map) OwnedRelationships(entityName string) []Relationship {
	var owned []Relationship
	for _, rel := range m.Relationships {
		if rel.Owns(entityName) {
			owned = append(owned, rel)
		}
	}
	return owned
}

// Validate checks the map for dangling references, duplicate names and
// names that cannot be used as attributes or GraphQL types. All problems are
// reported together.
func (m *Map) Validate() error {
	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	names := make(map[string]bool)
	enums := make(map[string]bool)
	entities := make(map[string]bool)

	for _, p := range m.Primitives {
		if p == nil {
			fail("nil primitive")
			continue
		}
		name := p.PrimitiveName()
		switch {
		case !IsIdentifier(name) || strings.HasPrefix(name, "_"):
			fail("invalid type name %q", name)
		case reservedTypeNames[name]:
			fail("type name %q is reserved", name)
		case names[name]:
			fail("duplicate type name %q", name)
		}
		names[name] = true

		switch p := p.(type) {
		case *Enum:
			enums[p.Name] = true
		case *Entity:
			entities[p.Name] = true
		}
	}

	for _, e := range m.Entities() {
		// <Entity>Patch is generated for every entity
		if names[e.Name+"Patch"] {
			fail("type name %q collides with the patch type of entity %q", e.Name+"Patch", e.Name)
		}
	}

	for _, e := range m.Enums() {
		if len(e.Values) == 0 {
			fail("enum %q has no values", e.Name)
		}
		seen := make(map[string]bool)
		for _, v := range e.Values {
			if !IsIdentifier(v) {
				fail("enum %q has invalid value %q", e.Name, v)
			}
			if seen[v] {
				fail("enum %q has duplicate value %q", e.Name, v)
			}
			seen[v] = true
		}
	}

	for _, e := range m.Entities() {
		seen := make(map[string]bool)
		for _, prop := range e.Properties {
			if !IsIdentifier(prop.Name) || strings.HasPrefix(prop.Name, "_") {
				fail("entity %q has invalid property name %q", e.Name, prop.Name)
			}
			if prop.Name == PatchArgument {
				fail("entity %q property name %q is reserved", e.Name, prop.Name)
			}
			if seen[prop.Name] {
				fail("entity %q has duplicate property %q", e.Name, prop.Name)
			}
			seen[prop.Name] = true

			if err := validateType(prop.Type, enums, 0); err != nil {
				fail("entity %q property %q: %v", e.Name, prop.Name, err)
			}
		}
	}

	seenRels := make(map[string]bool)
	for _, rel := range m.Relationships {
		if !IsIdentifier(rel.Name) {
			fail("invalid relationship name %q", rel.Name)
		}
		if !entities[rel.From.Name] {
			fail("relationship %q references unknown entity %q", rel.Name, rel.From.Name)
		}
		if !entities[rel.To.Name] {
			fail("relationship %q references unknown entity %q", rel.Name, rel.To.Name)
		}
		if rel.Direction != Outbound && rel.Direction != Inbound && rel.Direction != Any {
			fail("relationship %q has unknown direction %d", rel.Name, rel.Direction)
		}
		key := rel.Name + "|" + rel.From.Name + "|" + rel.To.Name
		if seenRels[key] {
			fail("duplicate relationship %q from %q to %q", rel.Name, rel.From.Name, rel.To.Name)
		}
		seenRels[key] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidMap, errors.Join(errs...))
	}
	return nil
}

// maxTypeDepth bounds list nesting in property types
const maxTypeDepth = 8

func validateType(t ScalarType, enums map[string]bool, depth int) error {
	if depth > maxTypeDepth {
		return fmt.Errorf("type nested deeper than %d levels", maxTypeDepth)
	}
	switch t.Kind {
	case KindString, KindInt, KindFloat, KindBoolean, KindObject:
		return nil
	case KindEnum:
		if !enums[t.Enum] {
			return fmt.Errorf("unknown enum %q", t.Enum)
		}
		return nil
	case KindArray:
		if t.Elem == nil {
			return fmt.Errorf("list type without element type")
		}
		return validateType(*t.Elem, enums, depth+1)
	default:
		return fmt.Errorf("unknown type kind %d", t.Kind)
	}
}
