// Package core defines the shared language of the loader system.
//
// This package contains:
//   - The logical column type taxonomy (ColumnType)
//   - Schema building blocks (ColumnDef, TableSpec, ForeignKey)
//   - Adapter configuration and catalog metadata (AdapterConfig, Column, TableMetadata)
//   - Dialect configuration primitives (PlaceholderStyle, IdentifierConfig, UpsertStyle)
//
// The Golden Rule: pkg/core imports only the standard library.
// All other packages depend on core, not the reverse.
package core
