// Package metadata describes the entities, enums and relationships stored in the
// database. A Map is produced once by an introspector (or loaded from a file),
// validated, and treated as read-only by everything downstream.
package metadata

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a ScalarType
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBoolean
	KindObject
	KindEnum
	KindArray
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBoolean:
		return "Boolean"
	case KindObject:
		return "Object"
	case KindEnum:
		return "Enum"
	case KindArray:
		return "Array"
	default:
		return "Unknown"
	}
}

// ScalarType is the recursive type of a property.
// Enum carries the enum name for KindEnum; Elem the element type for KindArray.
type ScalarType struct {
	Kind Kind
	Enum string
	Elem *ScalarType
}

// String returns a ScalarType of kind String
func String() ScalarType { return ScalarType{Kind: KindString} }

// Int returns a ScalarType of kind Int
func Int() ScalarType { return ScalarType{Kind: KindInt} }

// Float returns a ScalarType of kind Float
func Float() ScalarType { return ScalarType{Kind: KindFloat} }

// Boolean returns a ScalarType of kind Boolean
func Boolean() ScalarType { return ScalarType{Kind: KindBoolean} }

// Object returns a ScalarType for nested, schemaless objects
func Object() ScalarType { return ScalarType{Kind: KindObject} }

// EnumOf returns a ScalarType referencing a named enum
func EnumOf(name string) ScalarType { return ScalarType{Kind: KindEnum, Enum: name} }

// ArrayOf returns a list type of elem
func ArrayOf(elem ScalarType) ScalarType {
	return ScalarType{Kind: KindArray, Elem: &elem}
}

// IsArray reports whether the type is a list
func (t ScalarType) IsArray() bool {
	return t.Kind == KindArray
}

// IsBindable reports whether values of this type can be used as filter binds
func (t ScalarType) IsBindable() bool {
	switch t.Kind {
	case KindString, KindInt, KindFloat, KindBoolean, KindEnum:
		return true
	default:
		return false
	}
}

// String renders the type the way it is written in metadata files: String, [Int], Genre
func (t ScalarType) String() string {
	switch t.Kind {
	case KindArray:
		if t.Elem == nil {
			return "[]"
		}
		return "[" + t.Elem.String() + "]"
	case KindEnum:
		return t.Enum
	default:
		return t.Kind.String()
	}
}

// ParseScalarType parses the textual form produced by ScalarType.String.
// Any name that is not a builtin is taken as an enum reference; Map.Validate
// checks that the enum exists.
func ParseScalarType(s string) (ScalarType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ScalarType{}, fmt.Errorf("empty type")
	}

	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return ScalarType{}, fmt.Errorf("unterminated list type: %s", s)
		}
		elem, err := ParseScalarType(s[1 : len(s)-1])
		if err != nil {
			return ScalarType{}, fmt.Errorf("invalid list element in %s: %w", s, err)
		}
		return ArrayOf(elem), nil
	}

	switch s {
	case "String":
		return String(), nil
	case "Int":
		return Int(), nil
	case "Float":
		return Float(), nil
	case "Boolean":
		return Boolean(), nil
	case "Object":
		return Object(), nil
	}

	if !IsIdentifier(s) {
		return ScalarType{}, fmt.Errorf("invalid type name: %s", s)
	}
	return EnumOf(s), nil
}

// Property is a named, typed attribute of an entity
type Property struct {
	Name     string
	Type     ScalarType
	Required bool
}

// Primitive is a top-level element of a Map: *Entity or *Enum
type Primitive interface {
	PrimitiveName() string
	primitive()
}

// Entity is a document collection and the shape of its documents
type Entity struct {
	Name       string
	Properties []Property
}

// PrimitiveName implements Primitive
func (e *Entity) PrimitiveName() string { return e.Name }

func (e *Entity) primitive() {}

// Property returns the property with the given name
func (e *Entity) Property(name string) (Property, bool) {
	for _, p := range e.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Enum is a named set of string values
type Enum struct {
	Name   string
	Values []string
}

// PrimitiveName implements Primitive
func (e *Enum) PrimitiveName() string { return e.Name }

func (e *Enum) primitive() {}

// Direction is the direction in which a relationship is visible
type Direction int

const (
	Outbound Direction = iota
	Inbound
	Any
)

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case Outbound:
		return "outbound"
	case Inbound:
		return "inbound"
	case Any:
		return "any"
	default:
		return "unknown"
	}
}

// ParseDirection converts a string to a Direction
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "outbound", "":
		return Outbound, nil
	case "inbound":
		return Inbound, nil
	case "any":
		return Any, nil
	default:
		return 0, fmt.Errorf("unknown relationship direction: %s", s)
	}
}

// EntityRef references an entity by name
type EntityRef struct {
	Name string
}

// Relationship is a named, directed edge collection between two entities
type Relationship struct {
	Name      string
	From      EntityRef
	To        EntityRef
	Direction Direction
}

// Owns reports whether the relationship belongs to the generated fields of entityName.
// Outbound relationships belong to From, Inbound to To, Any to both ends.
func (r Relationship) Owns(entityName string) bool {
	switch r.Direction {
	case Inbound:
		return r.To.Name == entityName
	case Outbound:
		return r.From.Name == entityName
	case Any:
		return r.From.Name == entityName || r.To.Name == entityName
	default:
		return false
	}
}

// Related returns the entity at the other end of the relationship as seen from owner
func (r Relationship) Related(owner string) string {
	switch r.Direction {
	case Inbound:
		return r.From.Name
	case Outbound:
		return r.To.Name
	default:
		if r.From.Name == owner {
			return r.To.Name
		}
		return r.From.Name
	}
}

// IsIdentifier reports whether s is usable as an attribute, type or bind name
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
