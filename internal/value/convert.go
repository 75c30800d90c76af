package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// MaxDepth bounds the nesting of lists and objects accepted from the store
const MaxDepth = 64

// ErrTooDeep is returned for documents nested deeper than MaxDepth
var ErrTooDeep = errors.New("document nested too deeply")

// SaturateInt32 clamps n into the int32 range
func SaturateInt32(n int64) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int32(n)
}

// FromNumber converts a JSON number. Integral literals become Int, clamped to
// the int32 range; anything with a fraction or exponent becomes Float.
func FromNumber(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return Int(SaturateInt32(i)), nil
		}
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			if strings.HasPrefix(s, "-") {
				return Int(math.MinInt32), nil
			}
			return Int(math.MaxInt32), nil
		}
		return Value{}, fmt.Errorf("invalid number %q: %w", s, err)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}

// FromJSON decodes a single JSON document, preserving object member order
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decode(dec, 0)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("unexpected data after document")
	}
	return v, nil
}

func decode(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("failed to read document: %w", err)
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return FromNumber(t)
	case string:
		return String(t), nil
	case json.Delim:
		if depth >= MaxDepth {
			return Value{}, ErrTooDeep
		}
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decode(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, fmt.Errorf("failed to read document: %w", err)
			}
			return List(items...), nil
		case '{':
			obj := Object()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, fmt.Errorf("failed to read document: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				member, err := decode(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				obj.set(key, member)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, fmt.Errorf("failed to read document: %w", err)
			}
			return obj, nil
		}
	}

	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// FromInterface converts already-decoded Go values. Map keys are sorted since
// Go maps carry no order.
func FromInterface(in interface{}) (Value, error) {
	return fromInterface(in, 0)
}

func fromInterface(in interface{}, depth int) (Value, error) {
	switch v := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case json.Number:
		return FromNumber(v)
	case int:
		return Int(SaturateInt32(int64(v))), nil
	case int8:
		return Int(int32(v)), nil
	case int16:
		return Int(int32(v)), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(SaturateInt32(v)), nil
	case uint:
		return fromUint(uint64(v)), nil
	case uint8:
		return Int(int32(v)), nil
	case uint16:
		return Int(int32(v)), nil
	case uint32:
		return fromUint(uint64(v)), nil
	case uint64:
		return fromUint(v), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case json.RawMessage:
		return FromJSON(v)
	}

	if depth >= MaxDepth {
		return Value{}, ErrTooDeep
	}

	switch v := in.(type) {
	case []interface{}:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			converted, err := fromInterface(item, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, converted)
		}
		return List(items...), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		obj := Object()
		for _, k := range keys {
			converted, err := fromInterface(v[k], depth+1)
			if err != nil {
				return Value{}, err
			}
			obj.set(k, converted)
		}
		return obj, nil
	}

	return Value{}, fmt.Errorf("unsupported value of type %s", reflect.TypeOf(in))
}

func fromUint(u uint64) Value {
	if u > math.MaxInt32 {
		return Int(math.MaxInt32)
	}
	return Int(int32(u))
}
