package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Value is one node in a message's additional-fields tree.
//
// The tree is a tagged variant: string leaves (which merge by
// concatenation), scalar leaves (numbers, bools and anything else
// non-string, which never merge), and nested maps (which merge
// recursively). Keeping the variants closed lets merge logic switch
// exhaustively instead of sniffing an untyped map.
type Value interface {
	// Kind returns a short variant name ("string", "scalar", "map"),
	// used in merge error messages.
	Kind() string

	clone() Value
	equal(Value) bool
}

// StringValue is a mergeable string leaf.
type StringValue string

// String wraps s as a field value.
func String(s string) Value { return StringValue(s) }

func (StringValue) Kind() string { return "string" }

func (v StringValue) clone() Value { return v }

func (v StringValue) equal(other Value) bool {
	o, ok := other.(StringValue)
	return ok && o == v
}

// ScalarValue is an opaque non-string leaf. Scalars are carried
// through splitting and merging unchanged; two scalars under the same
// key never combine.
type ScalarValue struct {
	Val any
}

// Scalar wraps v as a field value.
func Scalar(v any) Value { return ScalarValue{Val: v} }

func (ScalarValue) Kind() string { return "scalar" }

func (v ScalarValue) clone() Value { return v }

func (v ScalarValue) equal(other Value) bool {
	o, ok := other.(ScalarValue)
	return ok && reflect.DeepEqual(o.Val, v.Val)
}

// MapValue is a nested field mapping.
type MapValue struct {
	Fields *Fields
}

// Map wraps f as a field value.
func Map(f *Fields) Value { return MapValue{Fields: f} }

func (MapValue) Kind() string { return "map" }

func (v MapValue) clone() Value { return MapValue{Fields: v.Fields.Clone()} }

func (v MapValue) equal(other Value) bool {
	o, ok := other.(MapValue)
	return ok && o.Fields.Equal(v.Fields)
}

// Fields is an insertion-ordered mapping of field names to values.
// Key order is observable: it drives fragment emission order and the
// JSON encoding, so reconstruction preserves it bit-for-bit.
//
// The zero value is not usable; construct with NewFields.
type Fields struct {
	keys []string
	vals map[string]Value
}

// NewFields returns an empty ordered field mapping.
func NewFields() *Fields {
	return &Fields{vals: make(map[string]Value)}
}

// Set assigns key to v, appending the key if it is new. Returns the
// receiver for chaining.
func (f *Fields) Set(key string, v Value) *Fields {
	if _, ok := f.vals[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.vals[key] = v
	return f
}

// Get returns the value for key and whether it is present.
func (f *Fields) Get(key string) (Value, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.vals[key]
	return v, ok
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Clone returns a deep copy. A nil receiver clones to nil.
func (f *Fields) Clone() *Fields {
	if f == nil {
		return nil
	}
	out := NewFields()
	for _, k := range f.keys {
		out.Set(k, f.vals[k].clone())
	}
	return out
}

// Equal reports whether both mappings hold the same keys with equal
// values. Key order is not compared: order drives emission and the
// JSON encoding, but two mappings with the same key set describe the
// same message, so merging fragments of distinct keys in either order
// yields results that compare equal. Nil and empty compare equal.
func (f *Fields) Equal(other *Fields) bool {
	if f.Len() != other.Len() {
		return false
	}
	if f == nil || other == nil {
		return true
	}
	for _, k := range f.keys {
		ov, ok := other.vals[k]
		if !ok || !f.vals[k].equal(ov) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := marshalValue(f.vals[k])
		if err != nil {
			return nil, fmt.Errorf("marshaling field %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case StringValue:
		return json.Marshal(string(val))
	case ScalarValue:
		return json.Marshal(val.Val)
	case MapValue:
		return val.Fields.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown value kind %q", v.Kind())
	}
}

// UnmarshalJSON decodes a JSON object preserving its key order.
// Numbers decode as json.Number so numeric text survives a round trip
// unchanged.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fields: expected JSON object, got %v", tok)
	}

	decoded, err := decodeFields(dec)
	if err != nil {
		return err
	}

	*f = *decoded
	return nil
}

// decodeFields consumes object members from dec until the matching
// closing brace, preserving member order.
func decodeFields(dec *json.Decoder) (*Fields, error) {
	out := NewFields()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return out, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("fields: expected object key, got %v", tok)
		}

		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("fields: decoding %q: %w", key, err)
		}
		out.Set(key, v)
	}
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			inner, err := decodeFields(dec)
			if err != nil {
				return nil, err
			}
			return Map(inner), nil
		case '[':
			// Arrays are opaque scalars: they are never split or merged.
			var items []any
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, rawScalar(item))
			}
			// Consume the closing ']'.
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return Scalar(items), nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return String(t), nil
	default:
		// json.Number, bool, nil.
		return Scalar(t), nil
	}
}

// rawScalar unwraps a decoded Value back to its plain representation
// for storage inside an opaque array scalar.
func rawScalar(v Value) any {
	switch val := v.(type) {
	case StringValue:
		return string(val)
	case ScalarValue:
		return val.Val
	case MapValue:
		out := make(map[string]any, val.Fields.Len())
		for _, k := range val.Fields.Keys() {
			inner, _ := val.Fields.Get(k)
			out[k] = rawScalar(inner)
		}
		return out
	default:
		return nil
	}
}
