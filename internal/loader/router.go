package loader

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/MichalMlada/ETL-spacex/pkg/core"
	"github.com/MichalMlada/ETL-spacex/pkg/record"
)

// Router derives the child records a nested fragment expands into: the
// child table name, the foreign key wiring, synthesized ids, and array
// positions. It performs no I/O; the loader feeds its output back
// through the pipeline.
type Router struct{}

// childRowNamespace seeds deterministic ids for child rows that carry
// none of their own. Fixed so re-runs regenerate identical ids and the
// upsert stays idempotent.
var childRowNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("ETL-spacex/child-row"))

// ChildTable derives the table name for a nested field.
func ChildTable(parentTable, field string) string {
	return NormalizeIdentifier(parentTable + "_" + field)
}

// Expansion is the routed form of one fragment.
type Expansion struct {
	Table      string
	ForeignKey *core.ForeignKey
	Records    []map[string]any
}

// Route expands a fragment into child records. An object fragment
// becomes a single record; an array fragment becomes one record per
// element with the source order kept in item_index. Scalar elements
// become minimal {value, item_index} records, and elements that are
// themselves arrays keep their JSON form in the value column.
func (r *Router) Route(parentTable, parentID string, frag Fragment) (*Expansion, error) {
	exp := &Expansion{
		Table: ChildTable(parentTable, frag.Field),
		ForeignKey: &core.ForeignKey{
			Column:           NormalizeIdentifier(parentTable + "_id"),
			ReferencedTable:  parentTable,
			ReferencedColumn: "id",
		},
	}
	fkColumn := exp.ForeignKey.Column

	switch value := frag.Value.(type) {
	case map[string]any:
		exp.Records = append(exp.Records,
			childRecord(value, parentTable, parentID, frag.Field, fkColumn, -1))
	case []any:
		for i, elem := range value {
			if obj, ok := elem.(map[string]any); ok {
				rec := childRecord(obj, parentTable, parentID, frag.Field, fkColumn, i)
				rec["item_index"] = i
				exp.Records = append(exp.Records, rec)
				continue
			}
			exp.Records = append(exp.Records,
				scalarRecord(elem, parentTable, parentID, frag.Field, fkColumn, i))
		}
	default:
		return nil, fmt.Errorf("fragment %s of table %s is neither object nor array", frag.Field, parentTable)
	}
	return exp, nil
}

// childRecord shapes one nested object into a loadable record: embedded
// usable ids are kept, unusable ones are replaced with a synthesized id,
// and the foreign key back to the parent is injected.
func childRecord(obj map[string]any, parentTable, parentID, field, fkColumn string, index int) map[string]any {
	rec := make(map[string]any, len(obj)+2)
	hasID := false
	for k, v := range obj {
		if NormalizeIdentifier(k) == "id" {
			if _, ok := identifierText(v); !ok {
				continue
			}
			hasID = true
		}
		rec[k] = v
	}
	if !hasID {
		rec["id"] = childRowID(parentTable, parentID, field, index)
	}
	rec[fkColumn] = parentID
	return rec
}

// scalarRecord shapes one non-object array element into a {value} row.
func scalarRecord(elem any, parentTable, parentID, field, fkColumn string, index int) map[string]any {
	value := elem
	if _, ok := elem.([]any); ok {
		// Nested arrays in the scalar position keep their JSON form.
		value = record.FromAny(elem)
	}
	return map[string]any{
		"id":         childRowID(parentTable, parentID, field, index),
		fkColumn:     parentID,
		"item_index": index,
		"value":      value,
	}
}

// childRowID synthesizes a stable id for a child row from its position
// under the parent. Index is -1 for single nested objects.
func childRowID(parentTable, parentID, field string, index int) string {
	name := fmt.Sprintf("%s|%s|%s|%d", parentTable, parentID, field, index)
	return uuid.NewSHA1(childRowNamespace, []byte(name)).String()
}
