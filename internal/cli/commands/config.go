package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MichalMlada/ETL-spacex/internal/cli/config"
	"github.com/MichalMlada/ETL-spacex/internal/cli/output"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
environment variables, flags and the selected environment overlay.
Secrets are masked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd)
		},
	}
}

func runConfig(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	view := configView(cmdCtx.Cfg)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(view)
	}

	data, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	if used := config.GetConfigFileUsed(); used != "" {
		r.Muted("# " + used)
	}
	r.Printf("%s", data)
	return nil
}

// configView flattens the effective config into plain keys, masking the
// target password.
func configView(cfg *config.Config) map[string]any {
	view := map[string]any{
		"api_base_url":  cfg.APIBaseURL,
		"data_dir":      cfg.DataDir,
		"state_path":    cfg.StatePath,
		"datasets":      cfg.Datasets,
		"fetch_timeout": cfg.FetchTimeout.String(),
		"max_depth":     cfg.MaxDepth,
		"output":        cfg.OutputFormat,
	}
	if cfg.Environment != "" {
		view["environment"] = cfg.Environment
	}
	if cfg.Target != nil {
		target := map[string]any{"type": cfg.Target.Type}
		if cfg.Target.Path != "" {
			target["path"] = cfg.Target.Path
		}
		if cfg.Target.Database != "" {
			target["database"] = cfg.Target.Database
		}
		if cfg.Target.Host != "" {
			target["host"] = cfg.Target.Host
		}
		if cfg.Target.Port != 0 {
			target["port"] = cfg.Target.Port
		}
		if cfg.Target.User != "" {
			target["user"] = cfg.Target.User
		}
		if cfg.Target.Password != "" {
			target["password"] = "********"
		}
		if cfg.Target.Schema != "" {
			target["schema"] = cfg.Target.Schema
		}
		if len(cfg.Target.Options) > 0 {
			target["options"] = cfg.Target.Options
		}
		view["target"] = target
	}
	return view
}
