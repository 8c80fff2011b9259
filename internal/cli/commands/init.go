package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MichalMlada/ETL-spacex/internal/cli/config"
	"github.com/MichalMlada/ETL-spacex/internal/cli/output"
)

const configTemplate = `# spacex-etl project configuration.
api_base_url: https://api.spacexdata.com/v4/
data_dir: data
state_path: .spacex-etl/state.db

datasets:
  - launches
  - payloads

fetch_timeout: 30s
max_depth: 8

target:
  type: sqlite
  database: spacex.db

# Per-environment target overrides, selected with --target <name>.
# ${VAR} references are expanded from the environment at load time.
#
# environments:
#   prod:
#     target:
#       type: postgres
#       host: ${DB_HOST}
#       database: spacex
#       user: ${DB_USER}
#       password: ${DB_PASSWORD}
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new spacex-etl project",
		Long: `Initialize a project directory with a starter configuration.

This creates:
  - spacex.yaml configuration file
  - data/ directory for dataset snapshots`,
		Example: `  # Initialize in the current directory
  spacex-etl init

  # Initialize a new directory
  spacex-etl init my-etl

  # Overwrite an existing configuration
  spacex-etl init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "spacex.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("spacex.yaml already exists, use --force to overwrite")
	}

	if err := os.WriteFile(configPath, []byte(configTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write spacex.yaml: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, config.DefaultDataDir), 0o750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	r.StatusLine("spacex.yaml", "success", "")
	r.StatusLine(config.DefaultDataDir+"/", "success", "")

	r.Println("")
	r.Success("spacex-etl project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  spacex-etl load      Fetch and load the configured datasets")
	r.Println("  spacex-etl runs      Inspect run history")
	r.Println("  spacex-etl tables    Inspect the resulting schema")

	return nil
}
