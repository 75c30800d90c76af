package operations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/graphql-go/graphql"

	apierrors "github.com/conduit-lang/alchemy/internal/api/errors"
	"github.com/conduit-lang/alchemy/internal/api/execution"
	"github.com/conduit-lang/alchemy/internal/api/fields"
	"github.com/conduit-lang/alchemy/internal/aql"
	"github.com/conduit-lang/alchemy/internal/metadata"
)

var (
	// ErrDuplicateOperation is returned when two operations derive the same key
	ErrDuplicateOperation = errors.New("duplicate operation")

	// ErrDuplicateEntity is returned when an entity is registered twice
	ErrDuplicateEntity = errors.New("duplicate entity")

	// ErrFieldConflict is returned when a traversal field collides with another field of its entity
	ErrFieldConflict = errors.New("conflicting field")

	// ErrRegistryFrozen is returned when registering after Build
	ErrRegistryFrozen = errors.New("registry is frozen")
)

// Builder collects entity registrations until Build freezes them
type Builder struct {
	registry *Registry
	frozen   bool
}

// NewBuilder creates a builder whose registry executes through pipeline and
// synthesizes types with types
func NewBuilder(pipeline *execution.Pipeline, types *fields.Synthesizer) *Builder {
	return &Builder{
		registry: &Registry{
			entries:  make(map[string]*OperationEntry),
			entities: make(map[string]*OperationData),
			pipeline: pipeline,
			types:    types,
		},
	}
}

// RegisterEntity creates the operations of entity. relationships are the
// relationships entity owns. Nothing is registered when an error is returned.
func (b *Builder) RegisterEntity(entity *metadata.Entity, relationships []metadata.Relationship) error {
	if b.frozen {
		return ErrRegistryFrozen
	}

	r := b.registry
	if _, exists := r.entities[entity.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, entity.Name)
	}

	if err := checkTraversalFields(entity, relationships); err != nil {
		return err
	}

	data := &OperationData{
		Entity:        entity,
		Relationships: relationships,
	}

	entries := make([]*OperationEntry, 0, len(Kinds()))
	seen := make(map[string]bool)
	for _, op := range Kinds() {
		key := op.Name(data)
		if _, exists := r.entries[key]; exists || seen[key] {
			return fmt.Errorf("%w: %s (entity %s)", ErrDuplicateOperation, key, entity.Name)
		}
		seen[key] = true
		entries = append(entries, &OperationEntry{
			Key:       key,
			Operation: op,
			Data:      data,
			Category:  op.Category(),
		})
	}

	r.entities[entity.Name] = data
	for _, entry := range entries {
		r.entries[entry.Key] = entry
	}
	return nil
}

// Build freezes the builder and returns the registry
func (b *Builder) Build() *Registry {
	b.frozen = true
	return b.registry
}

// Build registers every entity of a validated map with the relationships it owns
func Build(m *metadata.Map, pipeline *execution.Pipeline) (*Registry, error) {
	b := NewBuilder(pipeline, fields.NewSynthesizer(m))
	for _, entity := range m.Entities() {
		if err := b.RegisterEntity(entity, m.OwnedRelationships(entity.Name)); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func checkTraversalFields(entity *metadata.Entity, relationships []metadata.Relationship) error {
	taken := make(map[string]bool)
	for _, attr := range metadata.SystemAttributes {
		taken[attr] = true
	}
	for _, prop := range entity.Properties {
		if prop.Name == patchArgument {
			return fmt.Errorf("%w: %s.%s shadows the update patch argument", ErrFieldConflict, entity.Name, prop.Name)
		}
		taken[prop.Name] = true
	}

	for _, rel := range relationships {
		name := TraversalFieldName(rel)
		if taken[name] {
			return fmt.Errorf("%w: %s.%s (relationship %s)", ErrFieldConflict, entity.Name, name, rel.Name)
		}
		taken[name] = true
	}
	return nil
}

// Registry maps operation keys to their entries. It is never modified after
// Build and is shared by all requests.
type Registry struct {
	entries  map[string]*OperationEntry
	entities map[string]*OperationData
	pipeline *execution.Pipeline
	types    *fields.Synthesizer
}

// Len returns the number of registered operations
func (r *Registry) Len() int {
	return len(r.entries)
}

// Keys returns every operation key in sorted order
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Entry looks up an operation by key
func (r *Registry) Entry(key string) (*OperationEntry, bool) {
	entry, ok := r.entries[key]
	return entry, ok
}

// Data looks up the operation data of an entity
func (r *Registry) Data(entityName string) (*OperationData, bool) {
	data, ok := r.entities[entityName]
	return data, ok
}

// Operations returns the entries of category sorted by key
func (r *Registry) Operations(category Category) []*OperationEntry {
	var entries []*OperationEntry
	for _, key := range r.Keys() {
		if entry := r.entries[key]; entry.Category == category {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Types returns the synthesizer the registry builds its types with
func (r *Registry) Types() *fields.Synthesizer {
	return r.types
}

// Field builds the root field of the operation registered under key
func (r *Registry) Field(key string) (*graphql.Field, bool) {
	entry, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	return entry.Operation.BuildField(r.types, key, entry.Data, r), true
}

// EntityType returns the object type of data's entity including its traversal fields
func (r *Registry) EntityType(data *OperationData) *graphql.Object {
	return r.types.EntityType(data.Entity, func() graphql.Fields {
		return r.traversalFields(data)
	})
}

// CallByKey executes the operation registered under key
func (r *Registry) CallByKey(ctx context.Context, key string, args map[string]interface{}) (interface{}, error) {
	entry, ok := r.entries[key]
	if !ok {
		return nil, apierrors.UnknownOperation(key)
	}

	start := time.Now()
	query := aql.NewQuery(key, entry.Data.Entity.Name)
	result, err := entry.Operation.Execute(ctx, r.pipeline, entry.Data, args, query)
	r.pipeline.Metrics().ObserveOperation(key, time.Since(start), err)

	return result, err
}
