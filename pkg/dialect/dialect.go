// Package dialect provides SQL dialect configuration for the loader's
// generated DDL and DML: identifier quoting, parameter placeholders,
// reserved words, the mapping between logical column types and each
// engine's physical types, and the engine's upsert syntax.
//
// Concrete dialects are registered at init time; see builtin.go.
package dialect

import (
	"strconv"
	"strings"

	"github.com/MichalMlada/ETL-spacex/pkg/core"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// DefaultSchema is the schema tables live in when unqualified
	// ("public" for Postgres, "main" for DuckDB/SQLite).
	DefaultSchema string

	// Placeholder defines how query parameters are formatted.
	Placeholder core.PlaceholderStyle

	// Upsert defines which insert-or-update syntax the engine speaks.
	Upsert core.UpsertStyle

	reservedWords map[string]struct{}
	types         map[core.ColumnType]string
	columnTypes   map[string]core.ColumnType
	keyType       string
}

// FormatPlaceholder returns the placeholder for a 1-based parameter index.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// QuoteIdentifier quotes an identifier for safe use in generated SQL.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., " -> "")
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// IsReservedWord checks if a word is reserved and needs quoting when used
// as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	normalized := d.NormalizeName(word)
	_, ok := d.reservedWords[normalized]
	return ok
}

// NormalizeName normalizes an identifier per the dialect's strategy.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// TypeFor maps a logical column type to the engine's physical type name.
func (d *Dialect) TypeFor(t core.ColumnType) string {
	if physical, ok := d.types[t]; ok {
		return physical
	}
	return d.types[core.TypeText]
}

// KeyType returns the physical type used for primary and foreign key
// columns. Engines where TEXT cannot carry an index use a bounded type.
func (d *Dialect) KeyType() string {
	return d.keyType
}

// ColumnTypeFor maps a physical type name, as reported by the engine's
// catalog, back to the logical taxonomy. Unknown physical types report as
// TEXT, the widest scalar type.
func (d *Dialect) ColumnTypeFor(physical string) core.ColumnType {
	if logical, ok := d.columnTypes[strings.ToLower(physical)]; ok {
		return logical
	}
	return core.TypeText
}

// Builder constructs immutable Dialect instances.
type Builder struct {
	d *Dialect
}

// NewDialect starts building a dialect with the given name.
func NewDialect(name string) *Builder {
	return &Builder{d: &Dialect{
		Name: name,
		Identifiers: core.IdentifierConfig{
			Quote: `"`, QuoteEnd: `"`, Escape: `""`,
			Normalization: core.NormLowercase,
		},
		reservedWords: make(map[string]struct{}),
		types:         make(map[core.ColumnType]string),
		columnTypes:   make(map[string]core.ColumnType),
		keyType:       "TEXT",
	}}
}

// Identifiers sets the quoting and normalization rules.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.d.Identifiers = core.IdentifierConfig{
		Quote: quote, QuoteEnd: quoteEnd, Escape: escape, Normalization: norm,
	}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.d.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets the parameter placeholder style.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.d.Placeholder = style
	return b
}

// UpsertStyle sets the insert-or-update syntax.
func (b *Builder) UpsertStyle(style core.UpsertStyle) *Builder {
	b.d.Upsert = style
	return b
}

// Types sets the logical-to-physical column type mapping. Every logical
// type must be mapped; TypeFor falls back to the TEXT mapping otherwise.
func (b *Builder) Types(types map[core.ColumnType]string) *Builder {
	for logical, physical := range types {
		b.d.types[logical] = physical
		b.d.columnTypes[strings.ToLower(physical)] = logical
	}
	return b
}

// CatalogTypes adds extra physical-to-logical mappings for type names the
// catalog reports differently from how DDL declares them (e.g. Postgres
// declares BIGINT but reports "bigint", and "character varying" for older
// text columns).
func (b *Builder) CatalogTypes(types map[string]core.ColumnType) *Builder {
	for physical, logical := range types {
		b.d.columnTypes[strings.ToLower(physical)] = logical
	}
	return b
}

// KeyType sets the physical type for primary/foreign key columns.
func (b *Builder) KeyType(physical string) *Builder {
	b.d.keyType = physical
	return b
}

// WithReservedWords adds words that must be quoted when used as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.d.reservedWords[b.d.NormalizeName(w)] = struct{}{}
	}
	return b
}

// Build finalizes and returns the dialect.
func (b *Builder) Build() *Dialect {
	return b.d
}
