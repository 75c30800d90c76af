package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libraryMap() *Map {
	return &Map{
		Primitives: []Primitive{
			&Enum{Name: "Genre", Values: []string{"SCIFI", "FANTASY"}},
			&Entity{Name: "Author", Properties: []Property{
				{Name: "name", Type: String(), Required: true},
			}},
			&Entity{Name: "Book", Properties: []Property{
				{Name: "title", Type: String(), Required: true},
				{Name: "year", Type: Int()},
				{Name: "genre", Type: EnumOf("Genre")},
				{Name: "tags", Type: ArrayOf(String())},
			}},
			&Entity{Name: "Publisher", Properties: []Property{
				{Name: "name", Type: String(), Required: true},
			}},
		},
		Relationships: []Relationship{
			{Name: "wrote", From: EntityRef{"Author"}, To: EntityRef{"Book"}, Direction: Outbound},
			{Name: "published", From: EntityRef{"Publisher"}, To: EntityRef{"Book"}, Direction: Inbound},
			{Name: "cites", From: EntityRef{"Book"}, To: EntityRef{"Author"}, Direction: Any},
		},
	}
}

func TestScalarType_StringAndParse(t *testing.T) {
	tests := []struct {
		input    string
		expected ScalarType
	}{
		{"String", String()},
		{"Int", Int()},
		{"Float", Float()},
		{"Boolean", Boolean()},
		{"Object", Object()},
		{"Genre", EnumOf("Genre")},
		{"[String]", ArrayOf(String())},
		{"[[Int]]", ArrayOf(ArrayOf(Int()))},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := ParseScalarType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed)
			assert.Equal(t, tt.input, parsed.String())
		})
	}
}

func TestParseScalarType_Invalid(t *testing.T) {
	for _, input := range []string{"", "[String", "[]", "Not-A-Type", "1abc"} {
		_, err := ParseScalarType(input)
		assert.Error(t, err, input)
	}
}

func TestScalarType_IsBindable(t *testing.T) {
	assert.True(t, String().IsBindable())
	assert.True(t, Int().IsBindable())
	assert.True(t, Float().IsBindable())
	assert.True(t, Boolean().IsBindable())
	assert.True(t, EnumOf("Genre").IsBindable())
	assert.False(t, Object().IsBindable())
	assert.False(t, ArrayOf(String()).IsBindable())
}

func TestRelationshipOwnership(t *testing.T) {
	m := libraryMap()

	names := func(rels []Relationship) []string {
		var out []string
		for _, r := range rels {
			out = append(out, r.Name)
		}
		return out
	}

	// Outbound wrote: Author only. Inbound published: Book only. Any cites: both.
	assert.Equal(t, []string{"wrote", "cites"}, names(m.OwnedRelationships("Author")))
	assert.Equal(t, []string{"published", "cites"}, names(m.OwnedRelationships("Book")))
	assert.Empty(t, m.OwnedRelationships("Publisher"))
}

func TestRelationship_Related(t *testing.T) {
	m := libraryMap()

	assert.Equal(t, "Book", m.Relationships[0].Related("Author"))
	assert.Equal(t, "Publisher", m.Relationships[1].Related("Book"))
	assert.Equal(t, "Author", m.Relationships[2].Related("Book"))
	assert.Equal(t, "Book", m.Relationships[2].Related("Author"))
}

func TestMap_Lookups(t *testing.T) {
	m := libraryMap()

	require.Len(t, m.Entities(), 3)
	require.Len(t, m.Enums(), 1)

	book, ok := m.Entity("Book")
	require.True(t, ok)
	prop, ok := book.Property("year")
	require.True(t, ok)
	assert.Equal(t, Int(), prop.Type)

	_, ok = book.Property("missing")
	assert.False(t, ok)

	_, ok = m.Entity("Genre")
	assert.False(t, ok)
	_, ok = m.Enum("Genre")
	assert.True(t, ok)
}

func TestMap_Validate(t *testing.T) {
	require.NoError(t, libraryMap().Validate())

	tests := []struct {
		name    string
		mutate  func(m *Map)
		message string
	}{
		{
			name: "unknown enum",
			mutate: func(m *Map) {
				book, _ := m.Entity("Book")
				book.Properties = append(book.Properties, Property{Name: "mood", Type: EnumOf("Mood")})
			},
			message: `unknown enum "Mood"`,
		},
		{
			name: "duplicate type",
			mutate: func(m *Map) {
				m.Primitives = append(m.Primitives, &Entity{Name: "Book"})
			},
			message: `duplicate type name "Book"`,
		},
		{
			name: "reserved type",
			mutate: func(m *Map) {
				m.Primitives = append(m.Primitives, &Entity{Name: "Query"})
			},
			message: `type name "Query" is reserved`,
		},
		{
			name: "underscore property",
			mutate: func(m *Map) {
				book, _ := m.Entity("Book")
				book.Properties = append(book.Properties, Property{Name: "_key", Type: String()})
			},
			message: `invalid property name "_key"`,
		},
		{
			name: "reserved property",
			mutate: func(m *Map) {
				book, _ := m.Entity("Book")
				book.Properties = append(book.Properties, Property{Name: "patch", Type: String(), Required: true})
			},
			message: `property name "patch" is reserved`,
		},
		{
			name: "duplicate property",
			mutate: func(m *Map) {
				book, _ := m.Entity("Book")
				book.Properties = append(book.Properties, Property{Name: "title", Type: String()})
			},
			message: `duplicate property "title"`,
		},
		{
			name: "dangling relationship",
			mutate: func(m *Map) {
				m.Relationships = append(m.Relationships, Relationship{
					Name: "edits", From: EntityRef{"Editor"}, To: EntityRef{"Book"},
				})
			},
			message: `unknown entity "Editor"`,
		},
		{
			name: "patch collision",
			mutate: func(m *Map) {
				m.Primitives = append(m.Primitives, &Entity{Name: "BookPatch"})
			},
			message: `collides with the patch type`,
		},
		{
			name: "empty enum",
			mutate: func(m *Map) {
				m.Primitives = append(m.Primitives, &Enum{Name: "Mood"})
			},
			message: `enum "Mood" has no values`,
		},
		{
			name: "list without element",
			mutate: func(m *Map) {
				book, _ := m.Entity("Book")
				book.Properties = append(book.Properties, Property{Name: "bad", Type: ScalarType{Kind: KindArray}})
			},
			message: "list type without element type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := libraryMap()
			tt.mutate(m)
			err := m.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMap))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

const libraryYAML = `
enums:
  - name: Genre
    values: [SCIFI, FANTASY]
entities:
  - name: Author
    properties:
      - {name: name, type: String, required: true}
  - name: Book
    properties:
      - {name: title, type: String, required: true}
      - {name: year, type: Int}
      - {name: genre, type: Genre}
      - {name: tags, type: "[String]"}
relationships:
  - {name: wrote, from: Author, to: Book, direction: outbound}
  - {name: cites, from: Book, to: Author, direction: any}
`

func TestDecode(t *testing.T) {
	m, err := Decode(strings.NewReader(libraryYAML))
	require.NoError(t, err)

	require.Len(t, m.Primitives, 3)
	assert.Equal(t, "Genre", m.Primitives[0].PrimitiveName())
	assert.Equal(t, "Author", m.Primitives[1].PrimitiveName())
	assert.Equal(t, "Book", m.Primitives[2].PrimitiveName())

	book, ok := m.Entity("Book")
	require.True(t, ok)
	assert.Equal(t, []Property{
		{Name: "title", Type: String(), Required: true},
		{Name: "year", Type: Int()},
		{Name: "genre", Type: EnumOf("Genre")},
		{Name: "tags", Type: ArrayOf(String())},
	}, book.Properties)

	require.Len(t, m.Relationships, 2)
	assert.Equal(t, Outbound, m.Relationships[0].Direction)
	assert.Equal(t, Any, m.Relationships[1].Direction)
}

func TestDecode_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"bad direction":  "entities: [{name: A}]\nrelationships: [{name: r, from: A, to: A, direction: sideways}]",
		"bad type":       "entities: [{name: A, properties: [{name: x, type: \"[Int\"}]}]",
		"unknown field":  "entites: []",
		"unknown enum":   "entities: [{name: A, properties: [{name: x, type: Mood}]}]",
		"malformed yaml": "entities: [",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(libraryYAML), 0o644))

	m, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, m.Entities(), 2)

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.yaml")).Load(context.Background())
	assert.Error(t, err)
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("title"))
	assert.True(t, IsIdentifier("_key"))
	assert.True(t, IsIdentifier("a1_b"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("1a"))
	assert.False(t, IsIdentifier("a-b"))
	assert.False(t, IsIdentifier("a`b"))
}
