package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MichalMlada/ETL-spacex/internal/cli/output"
	"github.com/MichalMlada/ETL-spacex/internal/state"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "Show run history",
		Long: `List recent pipeline runs, or show one run in full with per-dataset
counts and the reason behind every rejected record.`,
		Example: `  # List the most recent runs
  spacex-etl runs

  # Show one run in full
  spacex-etl runs 2f6b0f4a-9c1d-4f7e-8a52-1f0e3b7c9d10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runShowRun(cmd, args[0])
			}
			return runListRuns(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list")

	return cmd
}

func runListRuns(cmd *cobra.Command, limit int) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		entries := make([]map[string]any, 0, len(runs))
		for _, run := range runs {
			entries = append(entries, runEntryJSON(run, false))
		}
		return r.JSON(map[string]any{"runs": entries})
	}

	if len(runs) == 0 {
		r.Muted("No runs recorded yet.")
		return nil
	}

	titleCaser := cases.Title(language.English)
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Trigger,
			titleCaser.String(string(run.Status)),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runDuration(run),
		})
	}
	r.Table([]string{"ID", "Trigger", "Status", "Started", "Duration"}, rows)
	return nil
}

func runShowRun(cmd *cobra.Command, id string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() { _ = store.Close() }()

	run, err := store.GetRun(id)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runEntryJSON(run, true))
	}

	titleCaser := cases.Title(language.English)

	r.Header(1, fmt.Sprintf("Run %s", run.ID))
	r.Printf("Trigger:   %s\n", run.Trigger)
	r.Printf("Status:    %s\n", titleCaser.String(string(run.Status)))
	r.Printf("Started:   %s\n", run.StartedAt.Local().Format(time.RFC3339))
	if run.CompletedAt != nil {
		r.Printf("Completed: %s\n", run.CompletedAt.Local().Format(time.RFC3339))
	}
	if run.Error != "" {
		r.Error(run.Error)
	}

	if len(run.Datasets) > 0 {
		r.Println()
		rows := make([][]string, 0, len(run.Datasets))
		for _, ds := range run.Datasets {
			rows = append(rows, []string{
				ds.Dataset,
				ds.Table,
				strconv.Itoa(ds.Processed),
				strconv.Itoa(ds.Skipped),
				strconv.Itoa(ds.Failed),
				(time.Duration(ds.DurationMS) * time.Millisecond).String(),
				titleCaser.String(string(ds.Status)),
			})
		}
		r.Table([]string{"Dataset", "Table", "Processed", "Skipped", "Failed", "Duration", "Status"}, rows)
	}

	for _, ds := range run.Datasets {
		if ds.Error != "" {
			r.Error(fmt.Sprintf("%s: %s", ds.Dataset, ds.Error))
		}
		for _, f := range ds.Failures {
			r.StatusLine(f.Table, "failed", fmt.Sprintf("record %s: %s", f.RecordID, f.Reason))
		}
	}

	return nil
}

func runDuration(run *state.Run) string {
	if run.CompletedAt == nil {
		return "-"
	}
	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}

// runEntryJSON shapes one run for JSON output, optionally with its
// dataset runs and their failures.
func runEntryJSON(run *state.Run, withDatasets bool) map[string]any {
	entry := map[string]any{
		"id":         run.ID,
		"trigger":    run.Trigger,
		"status":     string(run.Status),
		"started_at": run.StartedAt.Format(time.RFC3339),
	}
	if run.CompletedAt != nil {
		entry["completed_at"] = run.CompletedAt.Format(time.RFC3339)
	}
	if run.Error != "" {
		entry["error"] = run.Error
	}
	if !withDatasets {
		return entry
	}

	datasets := make([]map[string]any, 0, len(run.Datasets))
	for _, ds := range run.Datasets {
		dsEntry := map[string]any{
			"dataset":     ds.Dataset,
			"table":       ds.Table,
			"processed":   ds.Processed,
			"skipped":     ds.Skipped,
			"failed":      ds.Failed,
			"duration_ms": ds.DurationMS,
			"status":      string(ds.Status),
		}
		if ds.Error != "" {
			dsEntry["error"] = ds.Error
		}
		if len(ds.Failures) > 0 {
			failures := make([]map[string]string, 0, len(ds.Failures))
			for _, f := range ds.Failures {
				failures = append(failures, map[string]string{
					"table":     f.Table,
					"record_id": f.RecordID,
					"reason":    f.Reason,
				})
			}
			dsEntry["failures"] = failures
		}
		datasets = append(datasets, dsEntry)
	}
	entry["datasets"] = datasets
	return entry
}
