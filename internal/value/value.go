// Package value defines the generic value documents are converted into before
// they are handed to the API layer.
package value

import (
	"fmt"
)

// Kind identifies the variant held by a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindObject
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Field is one named member of an object value
type Field struct {
	Name  string
	Value Value
}

// Value is a tagged union over null, bool, int32, float64, string, list and
// ordered object. The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	i      int32
	f      float64
	s      string
	list   []Value
	fields []Field
}

// Null returns the null value
func Null() Value { return Value{} }

// Bool wraps a boolean
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a 32-bit integer
func Int(i int32) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string
func String(s string) Value { return Value{kind: KindString, s: s} }

// List wraps a list of values
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Object builds an object from fields, keeping their order. A repeated name
// replaces the earlier value in place.
func Object(fields ...Field) Value {
	v := Value{kind: KindObject, fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		v.set(f.Name, f.Value)
	}
	return v
}

func (v *Value) set(name string, val Value) {
	for i := range v.fields {
		if v.fields[i].Name == name {
			v.fields[i].Value = val
			return
		}
	}
	v.fields = append(v.fields, Field{Name: name, Value: val})
}

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer held by v
func (v Value) AsInt() (int32, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float held by v
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string held by v
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Items returns the elements of a list value
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Fields returns the members of an object value in order
func (v Value) Fields() []Field {
	if v.kind != KindObject {
		return nil
	}
	return v.fields
}

// Get returns the member called name of an object value
func (v Value) Get(name string) (Value, bool) {
	for _, f := range v.Fields() {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Len returns the number of list items or object members
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindObject:
		return len(v.fields)
	default:
		return 0
	}
}

// Interface converts v into plain Go values: nil, bool, int, float64, string,
// []interface{} and map[string]interface{}. This is the form GraphQL resolvers return.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return int(v.i)
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, len(v.fields))
		for _, f := range v.fields {
			out[f.Name] = f.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// String implements fmt.Stringer
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindList:
		s := "["
		for i, item := range v.list {
			if i > 0 {
				s += ", "
			}
			s += item.String()
		}
		return s + "]"
	case KindObject:
		s := "{"
		for i, f := range v.fields {
			if i > 0 {
				s += ", "
			}
			s += f.Name + ": " + f.Value.String()
		}
		return s + "}"
	default:
		return "unknown"
	}
}
