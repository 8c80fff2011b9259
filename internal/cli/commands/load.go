package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MichalMlada/ETL-spacex/internal/cli/output"
	"github.com/MichalMlada/ETL-spacex/internal/state"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	var (
		datasets []string
		offline  bool
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Fetch datasets and load them into the target database",
		Long: `Fetch each configured dataset from the API, snapshot the raw payload,
and load it into the target database, evolving table schemas as the
records demand. Every pass is recorded in run history.

Records that cannot be loaded are counted and reported without stopping
the batch; only a lost database connection aborts the run.`,
		Example: `  # Load the configured datasets
  spacex-etl load

  # Load a single dataset
  spacex-etl load --dataset launches

  # Reload from local snapshots without touching the API
  spacex-etl load --offline`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd, datasets, offline)
		},
	}

	cmd.Flags().StringArrayVarP(&datasets, "dataset", "d", nil, "dataset to load (repeatable, defaults to the configured list)")
	cmd.Flags().BoolVar(&offline, "offline", false, "load from local snapshots instead of the API")

	return cmd
}

func runLoad(cmd *cobra.Command, datasets []string, offline bool) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() { _ = store.Close() }()

	selected := selectDatasets(cmdCtx.Cfg, datasets)

	result, runErr := executeRun(cmd.Context(), cmdCtx, store, selected, offline, state.TriggerManual)
	if result == nil {
		return runErr
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(runJSON(result)); err != nil {
			return err
		}
		return runVerdict(result, runErr)
	}

	renderRunText(r, result)
	return runVerdict(result, runErr)
}

// runVerdict decides the command's exit: the fatal error when one aborted
// the pass, a summary error when any dataset failed, nil otherwise.
// Record-level failures alone leave the run completed and the exit clean.
func runVerdict(result *runResult, runErr error) error {
	if runErr != nil {
		return runErr
	}
	if result.Status != state.RunStatusFailed {
		return nil
	}
	failed := 0
	for _, ds := range result.Datasets {
		if ds.Err != nil {
			failed++
		}
	}
	return fmt.Errorf("failed to load %d of %d datasets", failed, len(result.Datasets))
}

// renderRunText prints the per-dataset summary table followed by failure
// details and the overall verdict.
func renderRunText(r *output.Renderer, result *runResult) {
	if len(result.Datasets) > 0 {
		rows := make([][]string, 0, len(result.Datasets))
		for _, ds := range result.Datasets {
			status := "completed"
			if ds.Err != nil {
				status = "failed"
			}
			rows = append(rows, []string{
				ds.Dataset,
				ds.Report.Table,
				strconv.Itoa(ds.Report.Processed),
				strconv.Itoa(ds.Report.Skipped),
				strconv.Itoa(ds.Report.Failed),
				ds.Report.Duration.Round(time.Millisecond).String(),
				status,
			})
		}
		r.Table([]string{"Dataset", "Table", "Processed", "Skipped", "Failed", "Duration", "Status"}, rows)
	}

	for _, ds := range result.Datasets {
		if ds.Err != nil {
			r.Error(fmt.Sprintf("%s: %v", ds.Dataset, ds.Err))
		}
		for _, f := range ds.Report.Failures {
			r.StatusLine(f.Table, "failed", fmt.Sprintf("record %s: %s", f.RecordID, f.Reason))
		}
	}

	if result.Status == state.RunStatusCompleted {
		r.Success(fmt.Sprintf("Run %s completed", result.RunID))
	} else {
		r.Error(fmt.Sprintf("Run %s failed", result.RunID))
	}
}

// runJSON shapes a run result for machine consumption.
func runJSON(result *runResult) map[string]any {
	datasets := make([]map[string]any, 0, len(result.Datasets))
	for _, ds := range result.Datasets {
		entry := map[string]any{
			"dataset":     ds.Dataset,
			"table":       ds.Report.Table,
			"processed":   ds.Report.Processed,
			"skipped":     ds.Report.Skipped,
			"failed":      ds.Report.Failed,
			"duration_ms": ds.Report.Duration.Milliseconds(),
		}
		if ds.Err != nil {
			entry["error"] = ds.Err.Error()
		}
		if len(ds.Report.Failures) > 0 {
			failures := make([]map[string]string, 0, len(ds.Report.Failures))
			for _, f := range ds.Report.Failures {
				failures = append(failures, map[string]string{
					"table":     f.Table,
					"record_id": f.RecordID,
					"reason":    f.Reason,
				})
			}
			entry["failures"] = failures
		}
		datasets = append(datasets, entry)
	}

	return map[string]any{
		"run_id":   result.RunID,
		"status":   string(result.Status),
		"datasets": datasets,
	}
}
