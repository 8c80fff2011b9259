package record

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Kind
	}{
		{name: "nil", in: nil, want: KindNull},
		{name: "bool", in: true, want: KindBool},
		{name: "int", in: 42, want: KindInt},
		{name: "int64", in: int64(42), want: KindInt},
		{name: "float", in: 3.14, want: KindFloat},
		{name: "integral float", in: 2.0, want: KindInt},
		{name: "string", in: "falcon", want: KindText},
		{name: "object", in: map[string]any{"a": 1}, want: KindDocument},
		{name: "array", in: []any{1, 2}, want: KindDocument},
		{name: "number int", in: json.Number("42"), want: KindInt},
		{name: "number decimal", in: json.Number("3.14"), want: KindFloat},
		{name: "number integral decimal", in: json.Number("12.0"), want: KindInt},
		{name: "number exponent", in: json.Number("1e3"), want: KindInt},
		{name: "number huge", in: json.Number("1e300"), want: KindFloat},
		{name: "unrecognized type", in: struct{}{}, want: KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAny(tt.in).Kind())
		})
	}
}

func TestFromAnyPayloads(t *testing.T) {
	assert.Equal(t, int64(42), FromAny(json.Number("42")).Int())
	assert.Equal(t, int64(1000), FromAny(json.Number("1e3")).Int())
	assert.Equal(t, 3.14, FromAny(json.Number("3.14")).Float())
	assert.Equal(t, "falcon", FromAny("falcon").Text())
	assert.True(t, FromAny(true).Bool())

	// Large integers survive UseNumber decoding without float rounding.
	big := json.Number("9223372036854775807")
	assert.Equal(t, int64(9223372036854775807), FromAny(big).Int())
}

func TestValueArg(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want any
	}{
		{name: "null", v: Null(), want: nil},
		{name: "bool", v: Bool(true), want: true},
		{name: "int", v: Int(7), want: int64(7)},
		{name: "float", v: Float(1.5), want: 1.5},
		{name: "text", v: Text("x"), want: "x"},
		{name: "document", v: Document(map[string]any{"a": 1}), want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.Arg()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "", Null().String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "3.14", Float(3.14).String())
	assert.Equal(t, "abc", Text("abc").String())
	assert.Equal(t, `["x","y"]`, Document([]any{"x", "y"}).String())
}

func TestValueJSON(t *testing.T) {
	data, err := Document(map[string]any{"name": "Falcon 9", "stages": json.Number("2")}).JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Falcon 9","stages":2}`, string(data))

	data, err = Null().JSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestDecode(t *testing.T) {
	input := `[{"id":"l1","flight_number":100},{"id":"l2","success":true}]`

	records, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Numbers arrive as json.Number so int64 fidelity is preserved.
	assert.Equal(t, json.Number("100"), records[0]["flight_number"])
	assert.Equal(t, true, records[1]["success"])
}

func TestDecodeRejectsNonArray(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"id":"l1"}`))
	assert.Error(t, err)
}
