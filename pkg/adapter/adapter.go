// Package adapter provides database adapter interfaces and implementations
// for the loader's schema migration and upsert pipeline.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
//
// Note: Core types (Config, Column, Metadata, Rows) are defined in pkg/core.
// This package re-exports them via type aliases for convenience.
package adapter

import (
	"context"
	"database/sql"

	"github.com/MichalMlada/ETL-spacex/pkg/core"
	"github.com/MichalMlada/ETL-spacex/pkg/dialect"
)

// Type aliases for the core contract types.
type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all database adapters must implement.
// It provides methods for connecting to databases, executing SQL, and
// retrieving catalog metadata.
//
// Exec runs in autocommit mode. DDL issued through it is durable before
// the call returns, which the loader relies on: a migration survives even
// when the row write that prompted it is rolled back.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Ping verifies the connection is still alive. The loader uses it to
	// distinguish a rejected statement from a lost connection.
	Ping(ctx context.Context) error

	// Exec executes a SQL statement that doesn't return rows (e.g., INSERT, UPDATE, CREATE).
	Exec(ctx context.Context, sql string, args ...any) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string, args ...any) (*Rows, error)

	// Begin starts a transaction for a record-scoped batch of writes.
	Begin(ctx context.Context) (*sql.Tx, error)

	// ListColumns returns the live columns of a table in ordinal order.
	// A missing table reports an empty slice, not an error.
	ListColumns(ctx context.Context, table string) ([]Column, error)

	// GetTableMetadata retrieves metadata for a specified table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// Dialect returns the SQL dialect configuration for this adapter.
	// This is used to format placeholders and identifiers, map logical
	// column types to engine types, and select the upsert syntax.
	Dialect() *dialect.Dialect
}
