package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/MichalMlada/ETL-spacex/pkg/adapters/duckdb"
	_ "github.com/MichalMlada/ETL-spacex/pkg/adapters/mysql"
	_ "github.com/MichalMlada/ETL-spacex/pkg/adapters/postgres"
	_ "github.com/MichalMlada/ETL-spacex/pkg/adapters/sqlite"
)

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name      string
		target    *TargetConfig
		wantErr   bool
		errSubstr string
	}{
		{
			name:      "nil target",
			target:    nil,
			wantErr:   true,
			errSubstr: "target type is required",
		},
		{
			name:      "empty type",
			target:    &TargetConfig{Type: ""},
			wantErr:   true,
			errSubstr: "target type is required",
		},
		{name: "valid sqlite", target: &TargetConfig{Type: "sqlite"}},
		{name: "valid sqlite uppercase", target: &TargetConfig{Type: "SQLite"}},
		{name: "valid postgres", target: &TargetConfig{Type: "postgres"}},
		{name: "valid mysql", target: &TargetConfig{Type: "mysql"}},
		{name: "valid duckdb", target: &TargetConfig{Type: "duckdb"}},
		{
			name:      "unknown type snowflake",
			target:    &TargetConfig{Type: "snowflake"},
			wantErr:   true,
			errSubstr: "unknown adapter type",
		},
		{
			name:      "unknown type oracle",
			target:    &TargetConfig{Type: "oracle"},
			wantErr:   true,
			errSubstr: "unknown adapter type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.wantErr {
				require.Error(t, err, "expected error but got nil")
				assert.Contains(t, err.Error(), tt.errSubstr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestValidateTarget_ErrorContainsAvailable verifies that validation errors
// include the list of available adapters.
func TestValidateTarget_ErrorContainsAvailable(t *testing.T) {
	err := ValidateTarget(&TargetConfig{Type: "invalid_db"})
	require.Error(t, err, "expected error for invalid type")

	errStr := err.Error()
	assert.Contains(t, errStr, "sqlite", "error should list available adapters")
	assert.Contains(t, errStr, "spacex.yaml", "error should mention config file")
}

func TestDefaultSchemaForType(t *testing.T) {
	tests := []struct {
		dbType   string
		expected string
	}{
		{"sqlite", "main"},
		{"SQLite", "main"},
		{"postgres", "public"},
		{"duckdb", "main"},
		// MySQL resolves the schema from the connected database
		{"mysql", "main"},
		{"snowflake", "main"},
		{"unknown", "main"},
		{"", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultSchemaForType(tt.dbType))
		})
	}
}

func TestApplyTargetDefaults(t *testing.T) {
	t.Run("sets default schema for sqlite", func(t *testing.T) {
		target := &TargetConfig{Type: "sqlite"}
		ApplyTargetDefaults(target)
		assert.Equal(t, "main", target.Schema)
	})

	t.Run("postgres gets schema and port", func(t *testing.T) {
		target := &TargetConfig{Type: "postgres"}
		ApplyTargetDefaults(target)
		assert.Equal(t, "public", target.Schema)
		assert.Equal(t, 5432, target.Port)
	})

	t.Run("mysql gets default port", func(t *testing.T) {
		target := &TargetConfig{Type: "mysql"}
		ApplyTargetDefaults(target)
		assert.Equal(t, 3306, target.Port)
	})

	t.Run("preserves existing values", func(t *testing.T) {
		target := &TargetConfig{Type: "postgres", Schema: "custom", Port: 6543}
		ApplyTargetDefaults(target)
		assert.Equal(t, "custom", target.Schema)
		assert.Equal(t, 6543, target.Port)
	})
}

func TestExpandEnvVars(t *testing.T) {
	require.NoError(t, os.Setenv("TEST_VAR_ONE", "value_one"))
	require.NoError(t, os.Setenv("TEST_VAR_TWO", "value_two"))
	defer func() {
		_ = os.Unsetenv("TEST_VAR_ONE")
		_ = os.Unsetenv("TEST_VAR_TWO")
	}()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single variable", input: "${TEST_VAR_ONE}", expected: "value_one"},
		{name: "multiple variables", input: "${TEST_VAR_ONE}/${TEST_VAR_TWO}", expected: "value_one/value_two"},
		{name: "variable in path", input: "/path/to/${TEST_VAR_ONE}/file", expected: "/path/to/value_one/file"},
		{name: "unset variable stays as-is", input: "${UNSET_VARIABLE}", expected: "${UNSET_VARIABLE}"},
		{name: "no variables", input: "plain string", expected: "plain string"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestMergeTargetConfig(t *testing.T) {
	t.Run("nil base returns override", func(t *testing.T) {
		override := &TargetConfig{Type: "sqlite", Database: "test.db"}
		assert.Equal(t, override, MergeTargetConfig(nil, override))
	})

	t.Run("nil override returns base", func(t *testing.T) {
		base := &TargetConfig{Type: "sqlite", Database: "test.db"}
		assert.Equal(t, base, MergeTargetConfig(base, nil))
	})

	t.Run("override replaces base fields", func(t *testing.T) {
		base := &TargetConfig{
			Type:     "sqlite",
			Database: "base.db",
			Schema:   "main",
			Host:     "localhost",
		}
		override := &TargetConfig{
			Type:     "postgres",
			Database: "spacex",
			Schema:   "public",
		}

		result := MergeTargetConfig(base, override)

		assert.Equal(t, "postgres", result.Type)
		assert.Equal(t, "spacex", result.Database)
		assert.Equal(t, "public", result.Schema)
		assert.Equal(t, "localhost", result.Host, "Host should be inherited from base")
	})

	t.Run("options are merged", func(t *testing.T) {
		base := &TargetConfig{
			Type:    "postgres",
			Options: map[string]string{"sslmode": "disable", "a": "base"},
		}
		override := &TargetConfig{
			Options: map[string]string{"a": "override", "b": "new"},
		}

		result := MergeTargetConfig(base, override)

		assert.Equal(t, "disable", result.Options["sslmode"])
		assert.Equal(t, "override", result.Options["a"])
		assert.Equal(t, "new", result.Options["b"])
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://api.spacexdata.com/v4/", cfg.APIBaseURL)
	assert.Equal(t, DefaultDatasets, cfg.Datasets)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 8, cfg.MaxDepth)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)

	require.NotNil(t, cfg.Target)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, DefaultDatabase, cfg.Target.Database)
	assert.Equal(t, "main", cfg.Target.Schema)

	// Relative defaults resolve against the project root
	assert.True(t, filepath.IsAbs(cfg.DataDir), "data dir should be absolute, got %s", cfg.DataDir)
	assert.Equal(t, "data", filepath.Base(cfg.DataDir))
	assert.True(t, filepath.IsAbs(cfg.StatePath))
}

func TestLoadConfig_FromFile(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "spacex.yaml")
	cfgContent := `data_dir: snapshots
datasets:
  - launches
  - rockets
  - crew
fetch_timeout: 45s
max_depth: 4
target:
  type: sqlite
  database: mission.db
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o600))

	cfg, err := LoadConfigWithTarget(cfgPath, "", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"launches", "rockets", "crew"}, cfg.Datasets)
	assert.Equal(t, 45*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Equal(t, "mission.db", cfg.Target.Database)
	assert.Equal(t, filepath.Join(tmpDir, "snapshots"), cfg.DataDir)
	assert.Equal(t, tmpDir, cfg.ProjectRoot)
}

func TestLoadConfigWithTarget_Environments(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "spacex.yaml")
	cfgContent := `target:
  type: sqlite
  database: dev.db
environments:
  prod:
    target:
      type: postgres
      host: db.example.com
      database: spacex
      user: loader
      password: ${SPACEX_TEST_DB_PASSWORD}
  staging:
    datasets:
      - launches
    state_path: staging-state.db
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o600))

	t.Run("base target without override", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfigWithTarget(cfgPath, "", nil)
		require.NoError(t, err)

		assert.Equal(t, "sqlite", cfg.Target.Type)
		assert.Equal(t, "dev.db", cfg.Target.Database)
	})

	t.Run("prod override merges target and expands secrets", func(t *testing.T) {
		ResetConfig()
		require.NoError(t, os.Setenv("SPACEX_TEST_DB_PASSWORD", "hunter2"))
		defer func() { _ = os.Unsetenv("SPACEX_TEST_DB_PASSWORD") }()

		cfg, err := LoadConfigWithTarget(cfgPath, "prod", nil)
		require.NoError(t, err)

		assert.Equal(t, "postgres", cfg.Target.Type)
		assert.Equal(t, "db.example.com", cfg.Target.Host)
		assert.Equal(t, "hunter2", cfg.Target.Password)
		assert.Equal(t, 5432, cfg.Target.Port, "postgres default port applied after merge")
		assert.Equal(t, "public", cfg.Target.Schema)
		assert.Equal(t, "prod", cfg.Environment)
	})

	t.Run("staging override keeps base target", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfigWithTarget(cfgPath, "staging", nil)
		require.NoError(t, err)

		assert.Equal(t, "sqlite", cfg.Target.Type)
		assert.Equal(t, []string{"launches"}, cfg.Datasets)
		assert.Equal(t, filepath.Join(tmpDir, "staging-state.db"), cfg.StatePath)
	})

	t.Run("unknown environment errors", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfigWithTarget(cfgPath, "nonexistent", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown environment")
		assert.Contains(t, err.Error(), "prod, staging")
	})
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "spacex.yaml")
	cfgContent := `data_dir: from_file
target:
  type: sqlite
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o600))

	require.NoError(t, os.Setenv("SPACEX_DATA_DIR", "from_env"))
	defer func() { _ = os.Unsetenv("SPACEX_DATA_DIR") }()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data-dir", "", "snapshot directory")
	require.NoError(t, flags.Set("data-dir", "from_flag"))

	cfg, err := LoadConfigWithTarget(cfgPath, "", flags)
	require.NoError(t, err)

	// Flag should win, resolved against the CWD
	wantAbs, _ := filepath.Abs("from_flag")
	assert.Equal(t, wantAbs, cfg.DataDir, "flag value should override config file and env var")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "spacex.yaml")
	cfgContent := `data_dir: from_file
target:
  type: sqlite
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o600))

	require.NoError(t, os.Setenv("SPACEX_DATA_DIR", "from_env"))
	defer func() { _ = os.Unsetenv("SPACEX_DATA_DIR") }()

	cfg, err := LoadConfigWithTarget(cfgPath, "", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "from_env"), cfg.DataDir, "env var should override config file")
}

func TestLoadConfig_EnvVarTypes(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	require.NoError(t, os.Setenv("SPACEX_FETCH_TIMEOUT", "90s"))
	require.NoError(t, os.Setenv("SPACEX_DATASETS", "launches,rockets,crew"))
	defer func() {
		_ = os.Unsetenv("SPACEX_FETCH_TIMEOUT")
		_ = os.Unsetenv("SPACEX_DATASETS")
	}()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.FetchTimeout)
	assert.Equal(t, []string{"launches", "rockets", "crew"}, cfg.Datasets)
}

func TestLoadConfig_StateFlagMapsToStatePath(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state", "", "state database path")
	require.NoError(t, flags.Set("state", "runs.db"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	wantAbs, _ := filepath.Abs("runs.db")
	assert.Equal(t, wantAbs, cfg.StatePath)
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	ResetConfig()

	root := t.TempDir()
	cfgContent := `data_dir: snapshots
target:
  type: sqlite
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "spacex.yaml"), []byte(cfgContent), 0o600))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "snapshots"), cfg.DataDir)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Datasets:     []string{"launches"},
			FetchTimeout: time.Second,
			MaxDepth:     8,
			OutputFormat: "auto",
			Target:       &TargetConfig{Type: "sqlite"},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("no datasets", func(t *testing.T) {
		cfg := valid()
		cfg.Datasets = nil
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one dataset")
	})

	t.Run("blank dataset", func(t *testing.T) {
		cfg := valid()
		cfg.Datasets = []string{"launches", "  "}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blank")
	})

	t.Run("datasets colliding on table name", func(t *testing.T) {
		cfg := valid()
		cfg.Datasets = []string{"Launches", "launches"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "same table")
	})

	t.Run("invalid output mode", func(t *testing.T) {
		cfg := valid()
		cfg.OutputFormat = "yaml"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid output mode")
	})

	t.Run("max depth zero", func(t *testing.T) {
		cfg := valid()
		cfg.MaxDepth = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_depth")
	})

	t.Run("non-positive fetch timeout", func(t *testing.T) {
		cfg := valid()
		cfg.FetchTimeout = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch_timeout")
	})

	t.Run("missing target", func(t *testing.T) {
		cfg := valid()
		cfg.Target = nil
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target type is required")
	})
}
