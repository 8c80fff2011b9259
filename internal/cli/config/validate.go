package config

import (
	"fmt"
	"strings"

	"github.com/MichalMlada/ETL-spacex/internal/cli/output"
	"github.com/MichalMlada/ETL-spacex/internal/loader"
	"github.com/MichalMlada/ETL-spacex/pkg/adapter"
	"github.com/MichalMlada/ETL-spacex/pkg/dialect"
)

// DefaultSchemaForType returns the default schema for a database type.
// It looks up the dialect in the registry; if not found, returns "main" as fallback.
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok && d.DefaultSchema != "" {
		return d.DefaultSchema
	}
	return "main"
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}

	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}

	switch strings.ToLower(t.Type) {
	case "postgres":
		if t.Port == 0 {
			t.Port = 5432
		}
	case "mysql":
		if t.Port == 0 {
			t.Port = 3306
		}
	}
}

// ValidateTarget checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func ValidateTarget(t *TargetConfig) error {
	if t == nil || t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	// Use adapter registry as single source of truth
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("at least one dataset is required")
	}
	seen := make(map[string]string, len(c.Datasets))
	for _, ds := range c.Datasets {
		if strings.TrimSpace(ds) == "" {
			return fmt.Errorf("dataset names must not be blank")
		}
		table := loader.NormalizeIdentifier(ds)
		if prev, dup := seen[table]; dup {
			return fmt.Errorf("datasets %q and %q map to the same table %q", prev, ds, table)
		}
		seen[table] = ds
	}

	valid := false
	for _, m := range output.ValidModes {
		if c.OutputFormat == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid output mode %q (valid: %s)", c.OutputFormat, strings.Join(output.ValidModes, ", "))
	}

	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}

	return ValidateTarget(c.Target)
}
