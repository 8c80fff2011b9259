package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MichalMlada/ETL-spacex/pkg/adapter"
	"github.com/MichalMlada/ETL-spacex/pkg/core"
	"github.com/MichalMlada/ETL-spacex/pkg/record"
)

// Upserter writes one record's row inside the caller's transaction,
// keyed on id. On conflict the incoming values overwrite the stored
// ones column by column; columns the record does not carry keep their
// stored values.
type Upserter struct {
	adapter adapter.Adapter
	logger  *slog.Logger
}

func NewUpserter(adp adapter.Adapter, logger *slog.Logger) *Upserter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Upserter{adapter: adp, logger: logger}
}

// Upsert builds and executes the insert-or-update for one row. The
// columns map gives the live column types; values bind against those so
// scalars widen into older TEXT or document columns.
func (u *Upserter) Upsert(ctx context.Context, tx *sql.Tx, table, id string, fields []Field, columns map[string]core.ColumnType) error {
	stmt, args, err := u.build(table, id, fields, columns)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", table, err)
	}
	return nil
}

func (u *Upserter) build(table, id string, fields []Field, columns map[string]core.ColumnType) (string, []any, error) {
	d := u.adapter.Dialect()

	names := make([]string, 0, len(fields)+1)
	placeholders := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)

	names = append(names, d.QuoteIdentifier("id"))
	placeholders = append(placeholders, d.FormatPlaceholder(1))
	args = append(args, id)

	for i, f := range fields {
		target, ok := columns[f.Name]
		if !ok {
			target = Infer(f.Value)
		}
		arg, err := bindValue(f.Value, target)
		if err != nil {
			return "", nil, fmt.Errorf("failed to bind column %s: %w", f.Name, err)
		}
		names = append(names, d.QuoteIdentifier(f.Name))
		placeholders = append(placeholders, d.FormatPlaceholder(i+2))
		args = append(args, arg)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.QuoteIdentifier(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(placeholders, ", "))
	b.WriteString(")")

	switch d.Upsert {
	case core.UpsertOnDuplicateKey:
		b.WriteString(" ON DUPLICATE KEY UPDATE ")
		if len(fields) == 0 {
			// MySQL requires at least one assignment; id = id is a no-op.
			idQ := d.QuoteIdentifier("id")
			b.WriteString(idQ + " = " + idQ)
			break
		}
		assignments := make([]string, 0, len(fields))
		for _, f := range fields {
			q := d.QuoteIdentifier(f.Name)
			assignments = append(assignments, fmt.Sprintf("%s = VALUES(%s)", q, q))
		}
		b.WriteString(strings.Join(assignments, ", "))
	default:
		b.WriteString(" ON CONFLICT (")
		b.WriteString(d.QuoteIdentifier("id"))
		b.WriteString(")")
		if len(fields) == 0 {
			b.WriteString(" DO NOTHING")
			break
		}
		b.WriteString(" DO UPDATE SET ")
		assignments := make([]string, 0, len(fields))
		for _, f := range fields {
			q := d.QuoteIdentifier(f.Name)
			assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", q, q))
		}
		b.WriteString(strings.Join(assignments, ", "))
	}

	return b.String(), args, nil
}

// bindValue converts a value for a column of the given logical type.
// Scalars widen into TEXT and JSON_DOCUMENT targets; narrowing never
// happens here, so a value the engine cannot fit into an older, narrower
// column surfaces as that record's write error.
func bindValue(v record.Value, target core.ColumnType) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	switch target {
	case core.TypeText:
		return v.String(), nil
	case core.TypeJSON:
		data, err := v.JSON()
		if err != nil {
			return nil, err
		}
		return string(data), nil
	case core.TypeBoolean:
		if v.Kind() == record.KindText {
			if strings.EqualFold(v.Text(), "true") {
				return true, nil
			}
			if strings.EqualFold(v.Text(), "false") {
				return false, nil
			}
		}
		return v.Arg()
	default:
		return v.Arg()
	}
}
