// Package record provides the value model for semi-structured JSON records.
//
// JSON values are represented as a closed variant set (Value) so the type
// inferencer and flattener switch exhaustively over kinds instead of
// dispatching on dynamic types. Composite values (objects and arrays) keep
// their decoded form for recursive routing and serialize back to JSON at
// bind time.
package record

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindNull is a JSON null (or Go nil).
	KindNull Kind = iota
	// KindBool is a JSON boolean.
	KindBool
	// KindInt is an integer-valued JSON number.
	KindInt
	// KindFloat is a non-integer JSON number.
	KindFloat
	// KindText is a JSON string.
	KindText
	// KindDocument is a JSON object or array.
	KindDocument
)

// String returns the string representation of Kind.
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
	case KindText:
		return "text"
	case KindDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Value is one JSON value as a tagged union. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	doc  any // map[string]any or []any, as decoded
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text returns a string value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Document returns a composite value (decoded JSON object or array).
func Document(v any) Value { return Value{kind: KindDocument, doc: v} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload. Valid only for KindBool.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload. Valid only for KindInt.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload. Valid only for KindFloat.
func (v Value) Float() float64 { return v.f }

// Text returns the string payload. Valid only for KindText.
func (v Value) Text() string { return v.s }

// Document returns the decoded composite payload. Valid only for KindDocument.
func (v Value) Document() any { return v.doc }

// JSON returns the canonical JSON encoding of the value.
func (v Value) JSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindText:
		return json.Marshal(v.s)
	case KindDocument:
		return json.Marshal(v.doc)
	default:
		return nil, fmt.Errorf("cannot encode value of kind %s", v.kind)
	}
}

// Arg returns the driver-level bind value: nil, bool, int64, float64, or
// string. Documents are bound as JSON text so engines with a native JSON
// type can parse and index them.
func (v Value) Arg() (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i, nil
	case KindFloat:
		return v.f, nil
	case KindText:
		return v.s, nil
	case KindDocument:
		data, err := json.Marshal(v.doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode document value: %w", err)
		}
		return string(data), nil
	default:
		return nil, fmt.Errorf("cannot bind value of kind %s", v.kind)
	}
}

// String renders the value as text. Used when coercing scalars into an
// existing TEXT column. Null renders as the empty string; documents render
// as their JSON encoding.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	case KindDocument:
		data, err := json.Marshal(v.doc)
		if err != nil {
			return fmt.Sprintf("%v", v.doc)
		}
		return string(data)
	default:
		return ""
	}
}

// FromAny converts a decoded JSON value (as produced by encoding/json with
// or without Decoder.UseNumber) into the variant set. Integer-valued numbers
// become KindInt, including forms like "2.0" and "1e3" when exactly
// representable in int64. Unrecognized Go types degrade to their text
// rendering.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		f, err := t.Float64()
		if err != nil {
			return Text(t.String())
		}
		return floatValue(f)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float32:
		return floatValue(float64(t))
	case float64:
		return floatValue(t)
	case string:
		return Text(t)
	case map[string]any:
		return Document(t)
	case []any:
		return Document(t)
	default:
		return Text(fmt.Sprintf("%v", t))
	}
}

// floatValue folds integer-valued floats into KindInt when the conversion
// to int64 is exact.
func floatValue(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f))
	}
	return Float(f)
}

// Decode reads a JSON array of objects, preserving numeric fidelity via
// json.Number. Both the fetch client and the snapshot reader decode through
// here so online and offline loads see identical values.
func Decode(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}
