// Package fields turns metadata properties into GraphQL types and arguments.
package fields

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/conduit-lang/alchemy/internal/metadata"
)

// Synthesizer builds and caches the GraphQL types of a metadata map.
// It is used while the schema is built and is not safe for concurrent use.
type Synthesizer struct {
	metadata *metadata.Map
	enums    map[string]*graphql.Enum
	objects  map[string]*graphql.Object
	patches  map[string]*graphql.InputObject
	json     *graphql.Scalar
}

// NewSynthesizer creates a synthesizer for m
func NewSynthesizer(m *metadata.Map) *Synthesizer {
	return &Synthesizer{
		metadata: m,
		enums:    make(map[string]*graphql.Enum),
		objects:  make(map[string]*graphql.Object),
		patches:  make(map[string]*graphql.InputObject),
	}
}

// OutputType maps t to a type usable for fields
func (s *Synthesizer) OutputType(t metadata.ScalarType, required, strict bool) graphql.Output {
	return s.typeOf(t, required, strict)
}

// InputType maps t to a type usable for arguments and input fields
func (s *Synthesizer) InputType(t metadata.ScalarType, required, strict bool) graphql.Input {
	return s.typeOf(t, required, strict)
}

// typeOf wraps the mapped type in non-null only when the property is required
// and non-null enforcement was requested. Array elements are always nullable.
func (s *Synthesizer) typeOf(t metadata.ScalarType, required, strict bool) graphql.Type {
	var base graphql.Type
	switch t.Kind {
	case metadata.KindString:
		base = graphql.String
	case metadata.KindInt:
		base = graphql.Int
	case metadata.KindFloat:
		base = graphql.Float
	case metadata.KindBoolean:
		base = graphql.Boolean
	case metadata.KindObject:
		base = s.JSON()
	case metadata.KindEnum:
		base = s.Enum(t.Enum)
	case metadata.KindArray:
		base = graphql.NewList(s.typeOf(*t.Elem, false, false))
	default:
		panic(fmt.Sprintf("unmapped scalar kind %s", t.Kind))
	}

	if required && strict {
		return graphql.NewNonNull(base)
	}
	return base
}

// Enum returns the GraphQL enum named name. Names the metadata map does not
// declare produce an enum without values, which schema validation rejects.
func (s *Synthesizer) Enum(name string) *graphql.Enum {
	if cached, ok := s.enums[name]; ok {
		return cached
	}

	values := graphql.EnumValueConfigMap{}
	if s.metadata != nil {
		if enum, ok := s.metadata.Enum(name); ok {
			for _, v := range enum.Values {
				values[v] = &graphql.EnumValueConfig{Value: v}
			}
		}
	}

	enum := graphql.NewEnum(graphql.EnumConfig{
		Name:   name,
		Values: values,
	})
	s.enums[name] = enum
	return enum
}

// EntityType returns the object type of entity. Its fields are the system
// attributes, the entity's properties and whatever extra returns; extra is
// evaluated lazily so mutually referencing entities can be built.
func (s *Synthesizer) EntityType(entity *metadata.Entity, extra func() graphql.Fields) *graphql.Object {
	if cached, ok := s.objects[entity.Name]; ok {
		return cached
	}

	object := graphql.NewObject(graphql.ObjectConfig{
		Name: entity.Name,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			fields := graphql.Fields{}
			for _, attr := range metadata.SystemAttributes {
				fields[attr] = &graphql.Field{Type: graphql.String}
			}
			for _, prop := range entity.Properties {
				fields[prop.Name] = &graphql.Field{
					Type: s.OutputType(prop.Type, prop.Required, true),
				}
			}
			if extra != nil {
				for name, field := range extra() {
					fields[name] = field
				}
			}
			return fields
		}),
	})
	s.objects[entity.Name] = object
	return object
}

// PatchType returns the input object accepted by updates of entity. Every
// field is optional so a patch only names what it changes.
func (s *Synthesizer) PatchType(entity *metadata.Entity) *graphql.InputObject {
	if cached, ok := s.patches[entity.Name]; ok {
		return cached
	}

	fields := graphql.InputObjectConfigFieldMap{}
	for _, prop := range entity.Properties {
		fields[prop.Name] = &graphql.InputObjectFieldConfig{
			Type: s.InputType(prop.Type, prop.Required, false),
		}
	}

	patch := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:   entity.Name + "Patch",
		Fields: fields,
	})
	s.patches[entity.Name] = patch
	return patch
}

// PropertyArguments declares one argument per property
func (s *Synthesizer) PropertyArguments(props []metadata.Property, strict bool) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{}
	for _, prop := range props {
		args[prop.Name] = &graphql.ArgumentConfig{
			Type: s.InputType(prop.Type, prop.Required, strict),
		}
	}
	return args
}
