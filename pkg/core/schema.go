package core

// ColumnType is the logical type tag inferred for a column from JSON values.
// Dialects map logical types to engine-specific physical types.
type ColumnType string

const (
	// TypeInteger holds integer-valued JSON numbers.
	TypeInteger ColumnType = "INTEGER"
	// TypeReal holds non-integer JSON numbers.
	TypeReal ColumnType = "REAL"
	// TypeBoolean holds JSON booleans (and the legacy "true"/"false" strings).
	TypeBoolean ColumnType = "BOOLEAN"
	// TypeText holds strings, nulls, and anything unrecognized.
	TypeText ColumnType = "TEXT"
	// TypeJSON holds structured documents (objects and arrays).
	TypeJSON ColumnType = "JSON_DOCUMENT"
)

// ColumnDef is a column the loader requires to exist, with its logical type.
type ColumnDef struct {
	Name string
	Type ColumnType
}

// ForeignKey links a child table column to its parent table's primary key.
type ForeignKey struct {
	Column           string // e.g. "launches_id"
	ReferencedTable  string // e.g. "launches"
	ReferencedColumn string // always "id" in practice
}

// TableSpec describes the minimal shape of a table the migrator must ensure:
// an id primary key and, for child tables, a foreign key to the parent.
// Data columns are added separately, one per missing field.
type TableSpec struct {
	Name       string
	PKType     ColumnType
	ForeignKey *ForeignKey
}
