package duckdb

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Options using mapstructure.
type Params struct {
	// Extensions to install and load (e.g. "json", "httpfs"),
	// comma-separated in the options map.
	Extensions []string `mapstructure:"extensions"`

	// Settings applied at session level (e.g. memory_limit, threads).
	// Every option other than "extensions" is treated as a setting.
	Settings map[string]string `mapstructure:",remain"`
}

// ParseParams decodes the generic options map into DuckDB parameters.
func ParseParams(options map[string]string) (*Params, error) {
	params := &Params{}
	if len(options) == 0 {
		return params, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToSliceHookFunc(","),
		Result:     params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create options decoder: %w", err)
	}

	if err := decoder.Decode(options); err != nil {
		return nil, fmt.Errorf("failed to parse duckdb options: %w", err)
	}

	return params, nil
}
