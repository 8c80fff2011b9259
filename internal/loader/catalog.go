package loader

import (
	"context"
	"fmt"

	"github.com/MichalMlada/ETL-spacex/pkg/adapter"
	"github.com/MichalMlada/ETL-spacex/pkg/core"
)

// Catalog reads live table state and computes the additive delta one
// record needs. It is deliberately uncached: columns are re-read per
// table per record so DDL applied outside the loader between records is
// observed instead of raced.
type Catalog struct {
	adapter adapter.Adapter
}

func NewCatalog(adp adapter.Adapter) *Catalog {
	return &Catalog{adapter: adp}
}

// Diff describes the gap between a table's live columns and the columns
// one record requires.
type Diff struct {
	TableExists bool
	// Missing lists the columns to add, in field order.
	Missing []core.ColumnDef
	// Live maps existing column names to their logical types. Binds
	// consult it so values widen to the stored type instead of the
	// freshly inferred one.
	Live map[string]core.ColumnType
}

// Diff compares the record's fields against the table as it exists right
// now. A table the engine does not know yields TableExists false and
// every field missing.
func (c *Catalog) Diff(ctx context.Context, table string, fields []Field) (*Diff, error) {
	columns, err := c.adapter.ListColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	d := c.adapter.Dialect()
	diff := &Diff{
		TableExists: len(columns) > 0,
		Live:        make(map[string]core.ColumnType, len(columns)),
	}
	for _, col := range columns {
		diff.Live[d.NormalizeName(col.Name)] = d.ColumnTypeFor(col.Type)
	}

	for _, f := range fields {
		if _, ok := diff.Live[f.Name]; !ok {
			diff.Missing = append(diff.Missing, core.ColumnDef{Name: f.Name, Type: Infer(f.Value)})
		}
	}
	return diff, nil
}
