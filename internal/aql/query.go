package aql

import (
	"fmt"
)

// DocumentVariable is the loop variable every query iterates with
const DocumentVariable = "doc"

// CollectionBind is the bind key for the target collection, referenced as @@collection
const CollectionBind = "@collection"

// Action is what a query does with the documents that pass its filter
type Action int

const (
	// ActionReturn returns matching documents
	ActionReturn Action = iota
	// ActionInsert inserts the payload as a new document
	ActionInsert
	// ActionUpdate merges the payload into matching documents
	ActionUpdate
	// ActionRemove removes matching documents
	ActionRemove
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionReturn:
		return "return"
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	case ActionRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Direction is the traversal direction along an edge collection
type Direction int

const (
	Outbound Direction = iota
	Inbound
	Any
)

// String returns the AQL keyword of the direction
func (d Direction) String() string {
	switch d {
	case Inbound:
		return "INBOUND"
	case Any:
		return "ANY"
	default:
		return "OUTBOUND"
	}
}

// Traversal replaces the collection scan with a one-step graph traversal
// starting at a bound vertex id and following the named edge collection.
type Traversal struct {
	Direction      Direction
	EdgeCollection string
}

// Query is a compiled-on-demand AQL statement over one collection
type Query struct {
	// Namespace qualifies every bind key; the operation key is used
	Namespace  string
	Collection string
	Filter     Node
	Action     Action
	Limit      int
	Traversal  *Traversal
}

// NewQuery creates a query returning every document of collection
func NewQuery(namespace, collection string) *Query {
	return &Query{
		Namespace:  namespace,
		Collection: collection,
		Filter:     AllOf(),
		Action:     ActionReturn,
	}
}

// ArgumentKey maps a logical argument name to its bind key
func (q *Query) ArgumentKey(name string) string {
	return fmt.Sprintf("%s_%s", q.Namespace, name)
}

// PayloadKey is the bind key of the document inserted or merged by the query
func (q *Query) PayloadKey() string {
	return q.Namespace + "__payload"
}

// StartKey is the bind key of the traversal start vertex
func (q *Query) StartKey() string {
	return q.Namespace + "__start"
}

// EdgesKey is the bind key of the traversal edge collection, including the
// leading @ that marks collection binds
func (q *Query) EdgesKey() string {
	return "@" + q.Namespace + "__edges"
}

// Collections returns the collection binds the rendered text references
func (q *Query) Collections() map[string]string {
	if q.Traversal != nil {
		return map[string]string{q.EdgesKey(): q.Traversal.EdgeCollection}
	}
	return map[string]string{CollectionBind: q.Collection}
}

// ToAQL renders the query text
func (q *Query) ToAQL() string {
	text, _ := q.compile()
	return text
}

// Binds returns the value bind keys referenced by the query in order of first use
func (q *Query) Binds() []string {
	_, binds := q.compile()
	return binds
}

func (q *Query) compile() (string, []string) {
	r := newRenderer(q)

	if q.Action == ActionInsert {
		r.addBind(q.PayloadKey())
		fmt.Fprintf(&r.sb, "INSERT @%s INTO @@collection RETURN NEW", q.PayloadKey())
		return r.sb.String(), r.binds
	}

	if q.Traversal != nil {
		r.addBind(q.StartKey())
		fmt.Fprintf(&r.sb, "FOR %s IN 1..1 %s @%s @%s",
			r.variable, q.Traversal.Direction, q.StartKey(), q.EdgesKey())
	} else {
		fmt.Fprintf(&r.sb, "FOR %s IN @@collection", r.variable)
	}

	filter := q.Filter
	if filter == nil {
		filter = AllOf()
	}
	r.sb.WriteString(" FILTER ")
	filter.render(r)

	if q.Limit > 0 {
		fmt.Fprintf(&r.sb, " LIMIT %d", q.Limit)
	}

	switch q.Action {
	case ActionUpdate:
		r.addBind(q.PayloadKey())
		fmt.Fprintf(&r.sb, " UPDATE %s WITH @%s IN @@collection OPTIONS { keepNull: true, mergeObjects: true } RETURN NEW",
			r.variable, q.PayloadKey())
	case ActionRemove:
		fmt.Fprintf(&r.sb, " REMOVE %s IN @@collection RETURN OLD", r.variable)
	default:
		fmt.Fprintf(&r.sb, " RETURN %s", r.variable)
	}

	return r.sb.String(), r.binds
}

// String implements fmt.Stringer for logging
func (q *Query) String() string {
	return q.ToAQL()
}
