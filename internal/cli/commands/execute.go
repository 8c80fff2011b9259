package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MichalMlada/ETL-spacex/internal/fetch"
	"github.com/MichalMlada/ETL-spacex/internal/loader"
	"github.com/MichalMlada/ETL-spacex/internal/snapshot"
	"github.com/MichalMlada/ETL-spacex/internal/state"
)

// runResult is the outcome of one full pipeline pass, dataset by dataset.
type runResult struct {
	RunID    string
	Status   state.RunStatus
	Datasets []datasetResult
}

// datasetResult pairs a dataset's load report with the error that ended
// it, if any. Err is a source error (fetch or snapshot read) or a fatal
// connection loss; record-level failures live on the report.
type datasetResult struct {
	Dataset string
	Report  *loader.Report
	Err     error
}

// executeRun drives the full pipeline once: source each dataset, load it
// into the target, and record everything in run history. The run is
// created before the first dataset and completed after the last, so even
// an aborted pass leaves an inspectable trail.
//
// A dataset that cannot be sourced fails that dataset and the run status,
// but the pass moves on to the next dataset. A fatal connection loss
// aborts the pass; it is returned alongside the partial result.
func executeRun(ctx context.Context, cmdCtx *CommandContext, store *state.Store, datasets []string, offline bool, trigger string) (*runResult, error) {
	run, err := store.CreateRun(trigger)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	result := &runResult{RunID: run.ID, Status: state.RunStatusCompleted}

	adp, err := cmdCtx.OpenTarget(ctx)
	if err != nil {
		_ = store.CompleteRun(run.ID, state.RunStatusFailed, err.Error())
		result.Status = state.RunStatusFailed
		return result, err
	}
	defer func() { _ = adp.Close() }()

	ld := cmdCtx.NewLoader(adp)

	var client *fetch.Client
	if !offline {
		client = cmdCtx.FetchClient()
	}

	var fatal error
	for _, ds := range datasets {
		records, srcErr := sourceRecords(ctx, cmdCtx, client, ds)
		if srcErr != nil {
			report := loader.NewReport(loader.NormalizeIdentifier(ds))
			report.Finish()
			result.Datasets = append(result.Datasets, datasetResult{Dataset: ds, Report: report, Err: srcErr})
			result.Status = state.RunStatusFailed
			if _, err := store.SaveDatasetRun(run.ID, ds, report, srcErr); err != nil {
				cmdCtx.Logger.Error("failed to record dataset run",
					slog.String("dataset", ds), slog.Any("error", err))
			}
			continue
		}

		report, loadErr := ld.LoadDataset(ctx, ds, records)
		result.Datasets = append(result.Datasets, datasetResult{Dataset: ds, Report: report, Err: loadErr})
		if _, err := store.SaveDatasetRun(run.ID, ds, report, loadErr); err != nil {
			cmdCtx.Logger.Error("failed to record dataset run",
				slog.String("dataset", ds), slog.Any("error", err))
		}

		if loadErr != nil {
			// The connection is gone; the remaining datasets would only
			// pile up the same failure.
			result.Status = state.RunStatusFailed
			fatal = loadErr
			break
		}
	}

	errMsg := ""
	if fatal != nil {
		errMsg = fatal.Error()
	}
	if err := store.CompleteRun(run.ID, result.Status, errMsg); err != nil {
		cmdCtx.Logger.Error("failed to complete run",
			slog.String("run_id", run.ID), slog.Any("error", err))
	}

	return result, fatal
}

// sourceRecords produces a dataset's records. Online it fetches from the
// API and snapshots the payload before returning it; offline it reads the
// existing snapshot. A failed snapshot write is logged, not fatal: the
// records are already in hand.
func sourceRecords(ctx context.Context, cmdCtx *CommandContext, client *fetch.Client, dataset string) ([]map[string]any, error) {
	if client == nil {
		return snapshot.Read(cmdCtx.Cfg.DataDir, dataset)
	}

	records, err := client.Dataset(ctx, dataset)
	if err != nil {
		return nil, err
	}
	if _, err := snapshot.Write(cmdCtx.Cfg.DataDir, dataset, records); err != nil {
		cmdCtx.Logger.Warn("failed to snapshot dataset",
			slog.String("dataset", dataset), slog.Any("error", err))
	}
	return records, nil
}
