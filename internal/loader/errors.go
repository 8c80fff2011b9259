package loader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingIdentifier reports a record without a usable id. Records
// failing this way are skipped and counted; the batch continues.
var ErrMissingIdentifier = errors.New("record has no usable id")

// ColumnCollisionError reports two source fields folding to the same
// column identifier after normalization.
type ColumnCollisionError struct {
	Column string
	Fields []string
}

func (e *ColumnCollisionError) Error() string {
	return fmt.Sprintf("fields %s collide on column %q after normalization",
		strings.Join(e.Fields, ", "), e.Column)
}

// SchemaConflictError reports a record whose required schema change
// could not be applied. The record is abandoned before its row write so
// a doomed INSERT never reaches the database.
type SchemaConflictError struct {
	Table    string
	RecordID string
	Columns  []string
	Err      error
}

func (e *SchemaConflictError) Error() string {
	if len(e.Columns) > 0 {
		return fmt.Sprintf("schema conflict on table %s for record %s (columns %s): %v",
			e.Table, e.RecordID, strings.Join(e.Columns, ", "), e.Err)
	}
	return fmt.Sprintf("schema conflict on table %s for record %s: %v", e.Table, e.RecordID, e.Err)
}

func (e *SchemaConflictError) Unwrap() error { return e.Err }

// WriteError reports a failed row write. The record's transaction is
// rolled back; schema changes applied for it stay in place.
type WriteError struct {
	Table    string
	RecordID string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write record %s to table %s: %v", e.RecordID, e.Table, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FatalConnectionError reports a lost database connection. Unlike
// record-scoped errors it aborts the whole run.
type FatalConnectionError struct {
	Err error
}

func (e *FatalConnectionError) Error() string {
	return fmt.Sprintf("database connection lost: %v", e.Err)
}

func (e *FatalConnectionError) Unwrap() error { return e.Err }
