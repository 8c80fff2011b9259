package loader

import (
	"sort"
	"strings"

	"github.com/MichalMlada/ETL-spacex/pkg/record"
)

// maxIdentifierLength mirrors the tightest engine limit (PostgreSQL
// truncates at 63 bytes; truncating ourselves keeps names predictable).
const maxIdentifierLength = 63

// Field is one scalar column of a flattened record.
type Field struct {
	Name  string
	Value record.Value
}

// Fragment is a nested object or array lifted out of a record, kept in
// decoded form for routing into a child table.
type Fragment struct {
	Field string
	Value any
}

// FlatRecord is the pipeline form of one record: its id, its scalar
// columns sorted by name, and the nested fragments that did not become
// columns.
type FlatRecord struct {
	ID        string
	Fields    []Field
	Fragments []Fragment
}

// NormalizeIdentifier folds a source field name into a storage-safe
// identifier: lowercased, runs of anything outside [a-z0-9_] replaced
// rune by rune with underscores, guarded against a leading digit, and
// truncated to the engine limit.
func NormalizeIdentifier(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		s = "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	if len(s) > maxIdentifierLength {
		s = s[:maxIdentifierLength]
	}
	return s
}

// Flatten normalizes one decoded record. Scalar fields become columns;
// objects and arrays become fragments and contribute no column here.
// Returns ErrMissingIdentifier when no usable id is present and a
// ColumnCollisionError when two source fields fold to one name.
func Flatten(rec map[string]any) (*FlatRecord, error) {
	normalized := make(map[string]any, len(rec))
	sources := make(map[string]string, len(rec))
	for key, value := range rec {
		name := NormalizeIdentifier(key)
		if prev, ok := sources[name]; ok {
			fields := []string{prev, key}
			sort.Strings(fields)
			return nil, &ColumnCollisionError{Column: name, Fields: fields}
		}
		sources[name] = key
		normalized[name] = value
	}

	id, ok := identifierText(normalized["id"])
	if !ok {
		return nil, ErrMissingIdentifier
	}

	flat := &FlatRecord{ID: id}
	for name, value := range normalized {
		if name == "id" {
			continue
		}
		switch value.(type) {
		case map[string]any, []any:
			flat.Fragments = append(flat.Fragments, Fragment{Field: name, Value: value})
		default:
			flat.Fields = append(flat.Fields, Field{Name: name, Value: normalizeBoolean(record.FromAny(value))})
		}
	}

	sort.Slice(flat.Fields, func(i, j int) bool { return flat.Fields[i].Name < flat.Fields[j].Name })
	sort.Slice(flat.Fragments, func(i, j int) bool { return flat.Fragments[i].Field < flat.Fragments[j].Field })
	return flat, nil
}

// identifierText renders a usable record id as text. Strings and
// integers qualify; null, empty text, booleans, fractional numbers, and
// composites do not.
func identifierText(v any) (string, bool) {
	val := record.FromAny(v)
	switch val.Kind() {
	case record.KindText:
		if val.Text() == "" {
			return "", false
		}
		return val.Text(), true
	case record.KindInt:
		return val.String(), true
	default:
		return "", false
	}
}

// normalizeBoolean converts the literal strings "true"/"false" into real
// booleans so records that stringify their flags stay compatible with
// records that do not.
func normalizeBoolean(v record.Value) record.Value {
	if v.Kind() != record.KindText {
		return v
	}
	if strings.EqualFold(v.Text(), "true") {
		return record.Bool(true)
	}
	if strings.EqualFold(v.Text(), "false") {
		return record.Bool(false)
	}
	return v
}
