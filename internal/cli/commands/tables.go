package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MichalMlada/ETL-spacex/internal/cli/output"
	"github.com/MichalMlada/ETL-spacex/internal/loader"
	"github.com/MichalMlada/ETL-spacex/pkg/adapter"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var sample int

	cmd := &cobra.Command{
		Use:   "tables [table...]",
		Short: "Inspect loaded tables in the target database",
		Long: `Show the live schema and row count of each dataset's root table, or of
the tables named as arguments. Child tables such as launches_cores are
addressed by name.`,
		Example: `  # Inspect the configured datasets' root tables
  spacex-etl tables

  # Inspect a child table and peek at its rows
  spacex-etl tables launches_cores --sample 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(cmd, args, sample)
		},
	}

	cmd.Flags().IntVar(&sample, "sample", 0, "also render the first N rows of each table")

	return cmd
}

func runTables(cmd *cobra.Command, args []string, sample int) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	adp, err := cmdCtx.OpenTarget(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = adp.Close() }()

	tables := args
	if len(tables) == 0 {
		for _, ds := range cmdCtx.Cfg.Datasets {
			tables = append(tables, loader.NormalizeIdentifier(ds))
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return tablesJSON(cmd.Context(), r, adp, tables, sample)
	}

	for i, tbl := range tables {
		if i > 0 {
			r.Println()
		}

		meta, err := adp.GetTableMetadata(cmd.Context(), tbl)
		if err != nil {
			r.StatusLine(tbl, "failed", err.Error())
			continue
		}

		r.Header(2, fmt.Sprintf("%s (%d rows)", meta.Name, meta.RowCount))

		rows := make([][]string, 0, len(meta.Columns))
		for _, col := range meta.Columns {
			nullable := "YES"
			if !col.Nullable {
				nullable = "NO"
			}
			key := ""
			if col.PrimaryKey {
				key = "primary key"
			}
			rows = append(rows, []string{col.Name, col.Type, nullable, key})
		}
		r.Table([]string{"Column", "Type", "Nullable", "Key"}, rows)

		if sample > 0 {
			if err := renderSample(cmd.Context(), r, adp, tbl, sample); err != nil {
				r.StatusLine(tbl, "failed", err.Error())
			}
		}
	}

	return nil
}

// renderSample prints the first n rows of a table, discovering the
// columns from the result set.
func renderSample(ctx context.Context, r *output.Renderer, adp adapter.Adapter, tbl string, n int) error {
	cols, results, err := sampleRows(ctx, adp, tbl, n)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		r.Muted("(0 rows)")
		return nil
	}

	rows := make([][]string, 0, len(results))
	for _, result := range results {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = formatValue(result[col])
		}
		rows = append(rows, row)
	}
	r.Table(cols, rows)
	return nil
}

// sampleRows fetches up to n rows as column-keyed maps.
func sampleRows(ctx context.Context, adp adapter.Adapter, tbl string, n int) ([]string, []map[string]any, error) {
	d := adp.Dialect()
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", d.QuoteIdentifier(tbl), n) //nolint:gosec // Identifier is quoted

	rows, err := adp.Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, err
		}

		row := make(map[string]any)
		for i, col := range cols {
			val := values[i]
			// Convert []byte to string for readability
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return cols, results, nil
}

func tablesJSON(ctx context.Context, r *output.Renderer, adp adapter.Adapter, tables []string, sample int) error {
	entries := make([]map[string]any, 0, len(tables))
	for _, tbl := range tables {
		meta, err := adp.GetTableMetadata(ctx, tbl)
		if err != nil {
			entries = append(entries, map[string]any{"table": tbl, "error": err.Error()})
			continue
		}

		cols := make([]map[string]any, 0, len(meta.Columns))
		for _, col := range meta.Columns {
			cols = append(cols, map[string]any{
				"name":        col.Name,
				"type":        col.Type,
				"nullable":    col.Nullable,
				"primary_key": col.PrimaryKey,
			})
		}
		entry := map[string]any{
			"table":     meta.Name,
			"schema":    meta.Schema,
			"row_count": meta.RowCount,
			"columns":   cols,
		}
		if sample > 0 {
			if _, results, err := sampleRows(ctx, adp, tbl, sample); err == nil {
				entry["sample"] = results
			}
		}
		entries = append(entries, entry)
	}
	return r.JSON(map[string]any{"tables": entries})
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
