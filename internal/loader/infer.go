package loader

import (
	"strings"

	"github.com/MichalMlada/ETL-spacex/pkg/core"
	"github.com/MichalMlada/ETL-spacex/pkg/record"
)

// Infer maps a field value to the logical type a new column holding it
// gets. The choice is made once, when the column is first created;
// later values never narrow it.
func Infer(v record.Value) core.ColumnType {
	switch v.Kind() {
	case record.KindBool:
		return core.TypeBoolean
	case record.KindInt:
		return core.TypeInteger
	case record.KindFloat:
		return core.TypeReal
	case record.KindText:
		// Early loads stringified their flags, so "true"/"false" text
		// still claims a boolean column. Keeps old and new data on one
		// column type.
		if isBooleanText(v.Text()) {
			return core.TypeBoolean
		}
		return core.TypeText
	case record.KindDocument:
		return core.TypeJSON
	default:
		return core.TypeText
	}
}

func isBooleanText(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}
