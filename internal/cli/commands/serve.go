package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MichalMlada/ETL-spacex/internal/server"
	"github.com/MichalMlada/ETL-spacex/internal/state"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var (
		addr     string
		schedule string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve run history and keep loading on triggers",
		Long: `Expose run history over HTTP and keep the pipeline running: an optional
cron schedule fetches and loads on a timer, and --watch reloads from
snapshots whenever a file in the data directory changes.

Endpoints:
  GET /healthz         liveness probe
  GET /api/runs        recent runs
  GET /api/runs/{id}   one run with datasets and failures`,
		Example: `  # Serve run history only
  spacex-etl serve

  # Reload hourly and on snapshot changes
  spacex-etl serve --schedule "0 * * * *" --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, addr, schedule, watch)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron expression for scheduled loads")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload when snapshot files change")

	return cmd
}

func runServe(cmd *cobra.Command, addr, schedule string, watch bool) error {
	cmdCtx := NewCommandContext(cmd)

	store, err := cmdCtx.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() { _ = store.Close() }()

	watchDir := ""
	if watch {
		watchDir = cmdCtx.Cfg.DataDir
	}

	// Watch triggers reload from the snapshots that just changed;
	// scheduled triggers fetch fresh data first.
	runner := func(ctx context.Context, trigger string) error {
		offline := trigger == state.TriggerWatch
		_, err := executeRun(ctx, cmdCtx, store, cmdCtx.Cfg.Datasets, offline, trigger)
		return err
	}

	srv := server.New(server.Config{
		Addr:     addr,
		Store:    store,
		Runner:   runner,
		Schedule: schedule,
		WatchDir: watchDir,
		Logger:   cmdCtx.Logger,
	})

	cmdCtx.Renderer.Printf("Serving run history on %s\n", addr)
	cmdCtx.Renderer.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}
