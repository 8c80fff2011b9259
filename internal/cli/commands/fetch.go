package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MichalMlada/ETL-spacex/internal/cli/output"
	"github.com/MichalMlada/ETL-spacex/internal/snapshot"
)

// fetchConcurrency bounds parallel API requests so a long dataset list
// does not hammer the upstream.
const fetchConcurrency = 4

// NewFetchCommand creates the fetch command.
func NewFetchCommand() *cobra.Command {
	var datasets []string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch datasets and write snapshots without loading",
		Long: `Fetch each configured dataset from the API and write it to the data
directory as a pretty-printed JSON snapshot. Nothing touches the target
database; combine with 'load --offline' to split fetching from loading.`,
		Example: `  # Snapshot the configured datasets
  spacex-etl fetch

  # Snapshot selected datasets
  spacex-etl fetch --dataset crew --dataset ships`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, datasets)
		},
	}

	cmd.Flags().StringArrayVarP(&datasets, "dataset", "d", nil, "dataset to fetch (repeatable, defaults to the configured list)")

	return cmd
}

type fetchResult struct {
	Dataset string
	Path    string
	Records int
	Err     error
}

func runFetch(cmd *cobra.Command, datasets []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	client := cmdCtx.FetchClient()

	selected := selectDatasets(cmdCtx.Cfg, datasets)
	results := make([]fetchResult, len(selected))

	// Each dataset gets its own result slot; a failed fetch is recorded
	// there instead of cancelling the siblings.
	eg, egctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(fetchConcurrency)
	for i, ds := range selected {
		eg.Go(func() error {
			records, err := client.Dataset(egctx, ds)
			if err != nil {
				results[i] = fetchResult{Dataset: ds, Err: err}
				return nil
			}
			path, err := snapshot.Write(cmdCtx.Cfg.DataDir, ds, records)
			results[i] = fetchResult{Dataset: ds, Path: path, Records: len(records), Err: err}
			return nil
		})
	}
	_ = eg.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		entries := make([]map[string]any, 0, len(results))
		for _, res := range results {
			entry := map[string]any{
				"dataset": res.Dataset,
				"records": res.Records,
			}
			if res.Path != "" {
				entry["path"] = res.Path
			}
			if res.Err != nil {
				entry["error"] = res.Err.Error()
			}
			entries = append(entries, entry)
		}
		if err := r.JSON(map[string]any{"datasets": entries}); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Err != nil {
				r.StatusLine(res.Dataset, "failed", res.Err.Error())
				continue
			}
			r.StatusLine(res.Dataset, "success", fmt.Sprintf("%d records, %s", res.Records, res.Path))
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to fetch %d of %d datasets", failed, len(results))
	}
	return nil
}
