// Package server exposes run history over HTTP and drives scheduled or
// watch-triggered loads.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/MichalMlada/ETL-spacex/internal/state"
)

// DefaultAddr is where the status server listens unless configured.
const DefaultAddr = ":8080"

// debounceDelay coalesces bursts of snapshot writes into one trigger.
const debounceDelay = 100 * time.Millisecond

// RunFunc triggers one pass of the load pipeline. The trigger names what
// started it, state.TriggerSchedule or state.TriggerWatch.
type RunFunc func(ctx context.Context, trigger string) error

// Config holds configuration for the status server.
type Config struct {
	Addr     string
	Store    *state.Store
	Runner   RunFunc
	Schedule string // cron expression, empty disables scheduling
	WatchDir string // snapshot directory, empty disables watching
	Logger   *slog.Logger
}

// Server serves run history and owns the schedule and watch triggers.
type Server struct {
	addr     string
	store    *state.Store
	runner   RunFunc
	schedule string
	watchDir string
	logger   *slog.Logger
}

// New creates a server from cfg.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	return &Server{
		addr:     addr,
		store:    cfg.Store,
		runner:   cfg.Runner,
		schedule: cfg.Schedule,
		watchDir: cfg.WatchDir,
		logger:   logger,
	}
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting status server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
	)
	s.routes(r)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(s.schedule, func() { s.triggerRun(egctx, state.TriggerSchedule) }); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", s.schedule, err)
		}
		c.Start()
		s.logger.Info("scheduled loads enabled", "schedule", s.schedule)

		eg.Go(func() error {
			<-egctx.Done()
			c.Stop()
			return nil
		})
	}

	if s.watchDir != "" {
		eg.Go(func() error {
			return s.watchSnapshots(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down status server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// triggerRun runs the pipeline once, logging the outcome. Trigger
// failures never bring the server down.
func (s *Server) triggerRun(ctx context.Context, trigger string) {
	if s.runner == nil {
		return
	}
	s.logger.Info("triggering load", "trigger", trigger)
	if err := s.runner(ctx, trigger); err != nil {
		s.logger.Error("triggered load failed", "trigger", trigger, "error", err)
	}
}

// watchSnapshots reloads when snapshot files change. Events are
// debounced so one fetch pass rewriting several files triggers a single
// load.
func (s *Server) watchSnapshots(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.watchDir); err != nil {
		s.logger.Error("failed to watch snapshot directory", "dir", s.watchDir, "error", err)
		// Don't fail - keep serving without the watcher
		<-ctx.Done()
		return nil
	}
	s.logger.Info("watching snapshots", "dir", s.watchDir)

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.logger.Debug("snapshot changed", "file", event.Name)
				s.triggerRun(ctx, state.TriggerWatch)
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}
