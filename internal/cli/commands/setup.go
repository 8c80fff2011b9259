// Package commands implements the spacex-etl CLI commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MichalMlada/ETL-spacex/internal/cli/config"
	"github.com/MichalMlada/ETL-spacex/internal/cli/output"
	"github.com/MichalMlada/ETL-spacex/internal/fetch"
	"github.com/MichalMlada/ETL-spacex/internal/loader"
	"github.com/MichalMlada/ETL-spacex/internal/state"
	"github.com/MichalMlada/ETL-spacex/pkg/adapter"
	"github.com/MichalMlada/ETL-spacex/pkg/core"

	// Register the built-in target adapters.
	_ "github.com/MichalMlada/ETL-spacex/pkg/adapters/duckdb"
	_ "github.com/MichalMlada/ETL-spacex/pkg/adapters/mysql"
	_ "github.com/MichalMlada/ETL-spacex/pkg/adapters/postgres"
	_ "github.com/MichalMlada/ETL-spacex/pkg/adapters/sqlite"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext assembles the config, logger and renderer a command
// needs. Connections are opened on demand through OpenTarget and
// OpenStore so that commands which never touch a database never pay for
// one.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenTarget connects to the configured target database. The caller owns
// the connection and must Close it.
func (c *CommandContext) OpenTarget(ctx context.Context) (adapter.Adapter, error) {
	adapterCfg := c.AdapterConfig()

	adp, err := adapter.NewAdapter(adapterCfg, c.Logger)
	if err != nil {
		return nil, err
	}
	if err := adp.Connect(ctx, adapterCfg); err != nil {
		return nil, fmt.Errorf("failed to connect to target %s: %w", adapterCfg.Type, err)
	}
	return adp, nil
}

// OpenStore opens the run-history store at the configured state path.
// The caller owns the store and must Close it.
func (c *CommandContext) OpenStore() (*state.Store, error) {
	return state.Open(c.Cfg.StatePath, c.Logger)
}

// FetchClient builds an API client from the configured base URL and
// timeout.
func (c *CommandContext) FetchClient() *fetch.Client {
	return fetch.New(c.Logger,
		fetch.WithBaseURL(c.Cfg.APIBaseURL),
		fetch.WithTimeout(c.Cfg.FetchTimeout),
	)
}

// NewLoader builds a loader bound to the given adapter with the
// configured recursion depth.
func (c *CommandContext) NewLoader(adp adapter.Adapter) *loader.Loader {
	return loader.New(adp, c.Logger, loader.Options{MaxDepth: c.Cfg.MaxDepth})
}

// AdapterConfig translates the user-facing target section into the
// adapter contract. File-backed engines accept the database name as the
// file path, resolved against the project root like every other
// configured path.
func (c *CommandContext) AdapterConfig() core.AdapterConfig {
	t := c.Cfg.Target
	if t == nil {
		t = &config.TargetConfig{Type: "sqlite", Database: config.DefaultDatabase}
	}

	adapterCfg := core.AdapterConfig{
		Type:     strings.ToLower(t.Type),
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
	}

	switch adapterCfg.Type {
	case "sqlite", "duckdb":
		if adapterCfg.Path == "" {
			adapterCfg.Path = t.Database
		}
		if adapterCfg.Path != "" && adapterCfg.Path != ":memory:" && !filepath.IsAbs(adapterCfg.Path) {
			adapterCfg.Path = filepath.Join(c.Cfg.ProjectRoot, adapterCfg.Path)
		}
	}

	return adapterCfg
}

// Helper functions shared across commands

// getConfig returns the configuration loaded by the root command, or a
// default configuration when a command runs outside the root wiring.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		APIBaseURL:   fetch.DefaultBaseURL,
		DataDir:      config.DefaultDataDir,
		StatePath:    config.DefaultStateFile,
		Datasets:     config.DefaultDatasets,
		FetchTimeout: fetch.DefaultTimeout,
		MaxDepth:     loader.DefaultMaxDepth,
		OutputFormat: config.DefaultOutput,
		Target:       &config.TargetConfig{Type: "sqlite", Database: config.DefaultDatabase},
	}
}

// selectDatasets returns the datasets a command should operate on: the
// --dataset flags when given, the configured list otherwise.
func selectDatasets(cfg *config.Config, flagged []string) []string {
	if len(flagged) > 0 {
		return flagged
	}
	return cfg.Datasets
}
