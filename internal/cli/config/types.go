// Package config provides configuration management for the spacex-etl CLI.
//
// The shared target type lives in pkg/core and is re-exported here via a
// type alias for convenience.
package config

import (
	"time"

	"github.com/MichalMlada/ETL-spacex/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
// This allows CLI code to use config.TargetConfig without importing pkg/core.
type TargetConfig = core.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	APIBaseURL   string               `koanf:"api_base_url"`
	DataDir      string               `koanf:"data_dir"`
	StatePath    string               `koanf:"state_path"`
	Datasets     []string             `koanf:"datasets"`
	FetchTimeout time.Duration        `koanf:"fetch_timeout"`
	MaxDepth     int                  `koanf:"max_depth"`
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	Target       *TargetConfig        `koanf:"target"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths resolve against.
	// Computed at load time, never read from a config key.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	DataDir   string        `koanf:"data_dir"`
	StatePath string        `koanf:"state_path"`
	Datasets  []string      `koanf:"datasets"`
	Target    *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultDataDir   = "data"
	DefaultStateFile = ".spacex-etl/state.db"
	DefaultDatabase  = "spacex.db"
	DefaultOutput    = "auto" // Auto-detect: TTY gets styled text
)

// DefaultDatasets are the API collections loaded when none are configured.
var DefaultDatasets = []string{"launches", "payloads"}
