package dialect

import "github.com/MichalMlada/ETL-spacex/pkg/core"

// builtinPostgres is the default PostgreSQL dialect configuration.
// This is registered automatically when the package is loaded.
var builtinPostgres = NewDialect("postgres").
	Identifiers(`"`, `"`, `""`, core.NormLowercase).
	DefaultSchema("public").
	PlaceholderStyle(core.PlaceholderDollar).
	UpsertStyle(core.UpsertOnConflict).
	Types(map[core.ColumnType]string{
		core.TypeInteger: "BIGINT",
		core.TypeReal:    "DOUBLE PRECISION",
		core.TypeBoolean: "BOOLEAN",
		core.TypeText:    "TEXT",
		core.TypeJSON:    "JSONB",
	}).
	CatalogTypes(map[string]core.ColumnType{
		"integer":           core.TypeInteger,
		"smallint":          core.TypeInteger,
		"real":              core.TypeReal,
		"numeric":           core.TypeReal,
		"character varying": core.TypeText,
		"varchar":           core.TypeText,
		"json":              core.TypeJSON,
	}).
	WithReservedWords(
		"all", "and", "any", "as", "asc", "between", "both", "case", "cast",
		"check", "collate", "column", "constraint", "create", "cross",
		"current_date", "current_time", "current_timestamp", "default",
		"desc", "distinct", "do", "else", "end", "except", "exists", "false",
		"fetch", "for", "foreign", "from", "full", "grant", "group", "having",
		"in", "index", "inner", "intersect", "into", "is", "join", "leading",
		"left", "like", "limit", "localtime", "localtimestamp", "not", "null",
		"offset", "on", "only", "or", "order", "outer", "primary",
		"references", "right", "select", "table", "then", "to", "trailing",
		"true", "union", "unique", "user", "using", "when", "where", "window",
		"with",
	).
	Build()

// builtinSQLite is the default SQLite dialect configuration.
//
// SQLite accepts arbitrary type names in DDL and resolves them through
// affinity rules, so documents are declared as JSON to keep the declared
// type round-trippable through PRAGMA table_info.
var builtinSQLite = NewDialect("sqlite").
	Identifiers(`"`, `"`, `""`, core.NormLowercase).
	DefaultSchema("main").
	PlaceholderStyle(core.PlaceholderQuestion).
	UpsertStyle(core.UpsertOnConflict).
	Types(map[core.ColumnType]string{
		core.TypeInteger: "INTEGER",
		core.TypeReal:    "REAL",
		core.TypeBoolean: "BOOLEAN",
		core.TypeText:    "TEXT",
		core.TypeJSON:    "JSON",
	}).
	CatalogTypes(map[string]core.ColumnType{
		"bigint":  core.TypeInteger,
		"int":     core.TypeInteger,
		"double":  core.TypeReal,
		"numeric": core.TypeReal,
		"varchar": core.TypeText,
		"jsonb":   core.TypeJSON,
	}).
	WithReservedWords(
		"abort", "add", "all", "alter", "and", "as", "asc", "autoincrement",
		"between", "case", "check", "collate", "column", "commit",
		"constraint", "create", "cross", "default", "delete", "desc",
		"distinct", "drop", "else", "end", "escape", "except", "exists",
		"foreign", "from", "full", "group", "having", "in", "index", "inner",
		"insert", "intersect", "into", "is", "join", "left", "like", "limit",
		"not", "null", "on", "or", "order", "outer", "primary", "references",
		"right", "rollback", "select", "set", "table", "then", "to",
		"transaction", "union", "unique", "update", "using", "values", "when",
		"where",
	).
	Build()

// builtinDuckDB is the default DuckDB dialect configuration.
var builtinDuckDB = NewDialect("duckdb").
	Identifiers(`"`, `"`, `""`, core.NormLowercase).
	DefaultSchema("main").
	PlaceholderStyle(core.PlaceholderQuestion).
	UpsertStyle(core.UpsertOnConflict).
	Types(map[core.ColumnType]string{
		core.TypeInteger: "BIGINT",
		core.TypeReal:    "DOUBLE",
		core.TypeBoolean: "BOOLEAN",
		core.TypeText:    "VARCHAR",
		core.TypeJSON:    "JSON",
	}).
	CatalogTypes(map[string]core.ColumnType{
		"integer":          core.TypeInteger,
		"hugeint":          core.TypeInteger,
		"float":            core.TypeReal,
		"double precision": core.TypeReal,
		"text":             core.TypeText,
	}).
	WithReservedWords(
		"all", "and", "any", "as", "asc", "between", "both", "case", "cast",
		"check", "collate", "column", "constraint", "create", "default",
		"desc", "distinct", "else", "end", "except", "exists", "foreign",
		"from", "group", "having", "in", "index", "inner", "intersect",
		"into", "is", "join", "left", "like", "limit", "not", "null",
		"offset", "on", "or", "order", "outer", "primary", "references",
		"right", "select", "table", "then", "to", "union", "unique", "user",
		"using", "when", "where", "window", "with",
	).
	Build()

// builtinMySQL is the default MySQL dialect configuration.
//
// The default schema is left empty; the adapter resolves it from the
// connected database. Key columns are VARCHAR(255) because MySQL cannot
// index an unbounded TEXT column without a prefix length.
var builtinMySQL = NewDialect("mysql").
	Identifiers("`", "`", "``", core.NormLowercase).
	PlaceholderStyle(core.PlaceholderQuestion).
	UpsertStyle(core.UpsertOnDuplicateKey).
	Types(map[core.ColumnType]string{
		core.TypeInteger: "BIGINT",
		core.TypeReal:    "DOUBLE",
		core.TypeBoolean: "TINYINT(1)",
		core.TypeText:    "TEXT",
		core.TypeJSON:    "JSON",
	}).
	CatalogTypes(map[string]core.ColumnType{
		"tinyint":    core.TypeBoolean,
		"int":        core.TypeInteger,
		"smallint":   core.TypeInteger,
		"mediumint":  core.TypeInteger,
		"float":      core.TypeReal,
		"decimal":    core.TypeReal,
		"varchar":    core.TypeText,
		"char":       core.TypeText,
		"tinytext":   core.TypeText,
		"mediumtext": core.TypeText,
		"longtext":   core.TypeText,
	}).
	KeyType("VARCHAR(255)").
	WithReservedWords(
		"add", "all", "alter", "and", "as", "asc", "between", "both", "case",
		"change", "check", "collate", "column", "condition", "constraint",
		"create", "cross", "default", "delete", "desc", "distinct", "div",
		"drop", "else", "exists", "foreign", "from", "group", "having", "in",
		"index", "inner", "insert", "interval", "into", "is", "join", "key",
		"keys", "left", "like", "limit", "not", "null", "on", "or", "order",
		"outer", "primary", "rank", "references", "right", "select", "set",
		"table", "then", "to", "union", "unique", "update", "using", "values",
		"when", "where", "window", "with",
	).
	Build()

func init() {
	// Register the builtin dialects
	Register(builtinPostgres)
	Register(builtinSQLite)
	Register(builtinDuckDB)
	Register(builtinMySQL)
}
