package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichalMlada/ETL-spacex/pkg/adapter"
)

func TestBuildMySQLDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		contains []string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     3306,
				Database: "spacex",
				Username: "etl",
				Password: "secret",
			},
			contains: []string{"etl:secret@tcp(localhost:3306)/spacex", "parseTime=true"},
		},
		{
			name: "defaults",
			config: adapter.Config{
				Database: "spacex",
				Username: "root",
			},
			contains: []string{"tcp(localhost:3306)/spacex"},
		},
		{
			name: "custom port",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     3307,
				Database: "spacex",
				Username: "etl",
			},
			contains: []string{"tcp(db.example.com:3307)/spacex"},
		},
		{
			name: "extra options",
			config: adapter.Config{
				Database: "spacex",
				Username: "etl",
				Options:  map[string]string{"charset": "utf8mb4"},
			},
			contains: []string{"charset=utf8mb4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := buildMySQLDSN(tt.config)
			for _, want := range tt.contains {
				assert.Contains(t, dsn, want)
			}
		})
	}
}

func TestSchemaResolution(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		database string
		want     string
	}{
		{"explicit schema wins", "staging", "spacex", "staging"},
		{"database is fallback", "", "spacex", "spacex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adp := New(nil)
			adp.Cfg.Schema = tt.schema
			adp.Cfg.Database = tt.database
			assert.Equal(t, tt.want, adp.schema())
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.NotNil(t, adp, "New() should return non-nil adapter")
	assert.Nil(t, adp.DB, "DB should be nil before Connect")
	assert.False(t, adp.IsConnected(), "should not be connected initially")
	assert.Equal(t, "mysql", adp.Dialect().Name, "dialect should be mysql")

	// Verify interface compliance
	var _ adapter.Adapter = (*Adapter)(nil)
	var _ adapter.Adapter = adp
}

func TestAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, adp *Adapter) error
	}{
		{
			name: "exec without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				return adp.Exec(ctx, "SELECT 1")
			},
		},
		{
			name: "query without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Query(ctx, "SELECT 1")
				return err
			},
		},
		{
			name: "list columns without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.ListColumns(ctx, "launches")
				return err
			},
		},
		{
			name: "get metadata without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.GetTableMetadata(ctx, "launches")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			err := tt.operation(ctx, adp)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not established")
		})
	}
}

func TestAdapter_Registry(t *testing.T) {
	assert.True(t, adapter.IsRegistered("mysql"), "mysql adapter should be registered")

	factory, ok := adapter.Get("mysql")
	require.True(t, ok, "should be able to get mysql factory")

	adp := factory(nil)
	my, ok := adp.(*Adapter)
	assert.True(t, ok, "factory should return *Adapter")
	assert.Equal(t, "mysql", my.Dialect().Name)
}

func TestAdapter_Close(t *testing.T) {
	// Close should not error even without connection
	adp := New(nil)
	assert.NoError(t, adp.Close())
}
