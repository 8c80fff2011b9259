package core

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase.
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL).
	NormCaseSensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: " or `
	QuoteEnd      string                // End quote character (usually same as Quote)
	Escape        string                // Escape sequence: "" or ``
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// UpsertStyle defines which insert-or-update syntax an engine speaks.
type UpsertStyle int

const (
	// UpsertOnConflict uses INSERT ... ON CONFLICT (pk) DO UPDATE SET col = EXCLUDED.col
	// (PostgreSQL, SQLite, DuckDB).
	UpsertOnConflict UpsertStyle = iota
	// UpsertOnDuplicateKey uses INSERT ... ON DUPLICATE KEY UPDATE col = VALUES(col)
	// (MySQL).
	UpsertOnDuplicateKey
)
