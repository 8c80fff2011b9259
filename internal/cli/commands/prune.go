package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MichalMlada/ETL-spacex/internal/loader"
)

// legacyColumn held each record as a single JSON document before fields
// were split into real columns.
const legacyColumn = "data"

// NewPruneCommand creates the prune command.
func NewPruneCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "prune [table...]",
		Short: "Drop the legacy data column from loaded tables",
		Long: `Early bootstrap schemas kept every record in one JSON document column
named "data". Once fields live in real columns that column is dead
weight; prune drops it from each dataset root table, or from the tables
named as arguments.

Without --yes the command only reports what it would drop.`,
		Example: `  # See which tables still carry the legacy column
  spacex-etl prune

  # Drop it for real
  spacex-etl prune --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd, args, yes)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "drop the column instead of just reporting")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string, yes bool) error {
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

	d := adp.Dialect()
	pruned := 0
	for _, tbl := range tables {
		cols, err := adp.ListColumns(cmd.Context(), tbl)
		if err != nil {
			return fmt.Errorf("failed to list columns of %s: %w", tbl, err)
		}

		found := false
		for _, col := range cols {
			if col.Name == legacyColumn {
				found = true
				break
			}
		}
		if !found {
			r.StatusLine(tbl, "", "nothing to prune")
			continue
		}

		if !yes {
			r.StatusLine(tbl, "warning", "would drop column data, run with --yes")
			continue
		}

		stmt := fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s",
			d.QuoteIdentifier(tbl), d.QuoteIdentifier(legacyColumn))
		if err := adp.Exec(cmd.Context(), stmt); err != nil {
			return fmt.Errorf("failed to drop column %s.%s: %w", tbl, legacyColumn, err)
		}
		r.StatusLine(tbl, "success", "dropped column data")
		pruned++
	}

	if yes {
		r.Success(fmt.Sprintf("Pruned %d of %d tables", pruned, len(tables)))
	}
	return nil
}
