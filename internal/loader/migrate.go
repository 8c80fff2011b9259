package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MichalMlada/ETL-spacex/pkg/adapter"
	"github.com/MichalMlada/ETL-spacex/pkg/core"
)

// Migrator applies additive DDL. Statements run autocommitted through
// the adapter, so a schema change is durable before any dependent row
// write begins and a rolled-back record cannot take its columns with it.
type Migrator struct {
	adapter adapter.Adapter
	logger  *slog.Logger
}

func NewMigrator(adp adapter.Adapter, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Migrator{adapter: adp, logger: logger}
}

// EnsureTable creates the table when missing: a text id primary key,
// plus the foreign key column and constraint for child tables. The
// statement is idempotent and safe to issue for every record.
func (m *Migrator) EnsureTable(ctx context.Context, spec *core.TableSpec) error {
	d := m.adapter.Dialect()
	keyType := d.KeyType()

	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(d.QuoteIdentifier(spec.Name))
	b.WriteString(" (")
	b.WriteString(d.QuoteIdentifier("id"))
	b.WriteString(" ")
	b.WriteString(keyType)
	b.WriteString(" PRIMARY KEY")
	if fk := spec.ForeignKey; fk != nil {
		b.WriteString(", ")
		b.WriteString(d.QuoteIdentifier(fk.Column))
		b.WriteString(" ")
		b.WriteString(keyType)
		b.WriteString(" NOT NULL")
		// Table-level constraint: MySQL parses but ignores the inline
		// REFERENCES form.
		fmt.Fprintf(&b, ", FOREIGN KEY (%s) REFERENCES %s (%s)",
			d.QuoteIdentifier(fk.Column),
			d.QuoteIdentifier(fk.ReferencedTable),
			d.QuoteIdentifier(fk.ReferencedColumn))
	}
	b.WriteString(")")

	m.logger.Debug("ensuring table", slog.String("table", spec.Name))
	if err := m.adapter.Exec(ctx, b.String()); err != nil {
		return fmt.Errorf("failed to create table %s: %w", spec.Name, err)
	}
	return nil
}

// ColumnFailure pairs a column that could not be added with its cause.
type ColumnFailure struct {
	Column core.ColumnDef
	Err    error
}

// EnsureColumns adds each missing column as its own statement. A failed
// addition is logged and collected but does not stop the remaining
// columns from being attempted.
func (m *Migrator) EnsureColumns(ctx context.Context, table string, missing []core.ColumnDef) ([]core.ColumnDef, []ColumnFailure) {
	d := m.adapter.Dialect()

	var added []core.ColumnDef
	var failed []ColumnFailure
	for _, col := range missing {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			d.QuoteIdentifier(table), d.QuoteIdentifier(col.Name), d.TypeFor(col.Type))
		if err := m.adapter.Exec(ctx, stmt); err != nil {
			m.logger.Warn("failed to add column",
				slog.String("table", table),
				slog.String("column", col.Name),
				slog.Any("error", err))
			failed = append(failed, ColumnFailure{Column: col, Err: err})
			continue
		}
		m.logger.Debug("added column",
			slog.String("table", table),
			slog.String("column", col.Name),
			slog.String("type", string(col.Type)))
		added = append(added, col)
	}
	return added, failed
}
