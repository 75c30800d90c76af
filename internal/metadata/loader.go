package metadata

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Source produces the metadata map at boot
type Source interface {
	Load(ctx context.Context) (*Map, error)
}

// FileSource loads a map from a YAML (or JSON) document on disk
type FileSource struct {
	Path string
}

// NewFileSource creates a file source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load implements Source
func (s *FileSource) Load(ctx context.Context) (*Map, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

type fileDocument struct {
	Enums         []fileEnum         `yaml:"enums"`
	Entities      []fileEntity       `yaml:"entities"`
	Relationships []fileRelationship `yaml:"relationships"`
}

type fileEnum struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

type fileEntity struct {
	Name       string         `yaml:"name"`
	Properties []fileProperty `yaml:"properties"`
}

type fileProperty struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
}

type fileRelationship struct {
	Name      string `yaml:"name"`
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Direction string `yaml:"direction"`
}

// Decode reads a map document and validates it. Enums are placed before
// entities in the resulting primitive list.
func Decode(r io.Reader) (*Map, error) {
	var doc fileDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidMap)
		}
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	m := &Map{}

	for _, e := range doc.Enums {
		m.Primitives = append(m.Primitives, &Enum{Name: e.Name, Values: e.Values})
	}

	for _, e := range doc.Entities {
		entity := &Entity{Name: e.Name}
		for _, p := range e.Properties {
			t, err := ParseScalarType(p.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: entity %q property %q: %v", ErrInvalidMap, e.Name, p.Name, err)
			}
			entity.Properties = append(entity.Properties, Property{
				Name:     p.Name,
				Type:     t,
				Required: p.Required,
			})
		}
		m.Primitives = append(m.Primitives, entity)
	}

	for _, r := range doc.Relationships {
		dir, err := ParseDirection(r.Direction)
		if err != nil {
			return nil, fmt.Errorf("%w: relationship %q: %v", ErrInvalidMap, r.Name, err)
		}
		m.Relationships = append(m.Relationships, Relationship{
			Name:      r.Name,
			From:      EntityRef{Name: r.From},
			To:        EntityRef{Name: r.To},
			Direction: dir,
		})
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}
