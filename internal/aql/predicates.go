// Package aql provides the predicate tree and compiler for ArangoDB AQL queries.
//
// Caller values never reach the query text: every value is referenced through a
// bind placeholder and travels in the bind variable map.
package aql

import (
	"sort"
	"strings"
)

// Operator represents a comparison operator
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
)

// String returns the AQL representation of the operator
func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpGreaterThan:
		return ">"
	case OpGreaterThanOrEqual:
		return ">="
	case OpLessThan:
		return "<"
	case OpLessThanOrEqual:
		return "<="
	default:
		return "UNKNOWN"
	}
}

// LogicalOperator combines a list of predicates
type LogicalOperator int

const (
	And LogicalOperator = iota
	Or
)

// String returns the AQL keyword of the logical operator
func (o LogicalOperator) String() string {
	if o == Or {
		return "OR"
	}
	return "AND"
}

// identity is what an empty list of predicates evaluates to
func (o LogicalOperator) identity() string {
	if o == Or {
		return "false"
	}
	return "true"
}

// Node is an element of the predicate tree
type Node interface {
	render(r *renderer)
}

// FilterOperation compares two operands
type FilterOperation struct {
	Left     Node
	Operator Operator
	Right    Node
}

func (f FilterOperation) render(r *renderer) {
	f.Left.render(r)
	r.sb.WriteString(" ")
	r.sb.WriteString(f.Operator.String())
	r.sb.WriteString(" ")
	f.Right.render(r)
}

// LogicalFilter joins its nodes with AND or OR
type LogicalFilter struct {
	Operator LogicalOperator
	Nodes    []Node
}

func (l LogicalFilter) render(r *renderer) {
	if len(l.Nodes) == 0 {
		r.sb.WriteString(l.Operator.identity())
		return
	}

	r.sb.WriteString("(")
	for i, node := range l.Nodes {
		if i > 0 {
			r.sb.WriteString(" ")
			r.sb.WriteString(l.Operator.String())
			r.sb.WriteString(" ")
		}
		node.render(r)
	}
	r.sb.WriteString(")")
}

// QueryParameter accesses an attribute of the current document
type QueryParameter string

func (p QueryParameter) render(r *renderer) {
	r.sb.WriteString(r.variable)
	r.sb.WriteString(".`")
	r.sb.WriteString(string(p))
	r.sb.WriteString("`")
}

// QueryBind references a bind placeholder by logical argument name. Within
// one query distinct names always map to distinct placeholders.
type QueryBind struct {
	Name string
}

func (b QueryBind) render(r *renderer) {
	key := r.query.ArgumentKey(b.Name)
	r.addBind(key)
	r.sb.WriteString("@")
	r.sb.WriteString(key)
}

// Bind returns an unscoped bind for name
func Bind(name string) QueryBind {
	return QueryBind{Name: name}
}

// AllOf combines nodes under AND
func AllOf(nodes ...Node) LogicalFilter {
	return LogicalFilter{Operator: And, Nodes: nodes}
}

// AnyOf combines nodes under OR
func AnyOf(nodes ...Node) LogicalFilter {
	return LogicalFilter{Operator: Or, Nodes: nodes}
}

// Equals builds "attribute == @bind" for a single logical argument
func Equals(name string) FilterOperation {
	return FilterOperation{
		Left:     QueryParameter(name),
		Operator: OpEqual,
		Right:    Bind(name),
	}
}

// EqualityFilter builds one equality per key of attributes, all under a single AND.
// Keys are sorted so the rendered text does not depend on map iteration order.
func EqualityFilter(attributes map[string]interface{}) LogicalFilter {
	keys := make([]string, 0, len(attributes))
	for key := range attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	nodes := make([]Node, 0, len(keys))
	for _, key := range keys {
		nodes = append(nodes, Equals(key))
	}

	return AllOf(nodes...)
}

// renderer accumulates query text and the ordered set of binds it references
type renderer struct {
	query    *Query
	variable string
	sb       strings.Builder
	binds    []string
	seen     map[string]bool
}

func newRenderer(q *Query) *renderer {
	return &renderer{
		query:    q,
		variable: DocumentVariable,
		seen:     make(map[string]bool),
	}
}

func (r *renderer) addBind(key string) {
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	r.binds = append(r.binds, key)
}
