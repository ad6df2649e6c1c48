package executor

import "github.com/tuannm99/safeen/internal/record"

// Result is the generic statement result returned to the caller.
type Result struct {
	Columns []string
	Rows    []record.Row

	// For DML:
	AffectedRows int64

	// Tag names the statement kind, e.g. "INSERT" or "SELECT".
	Tag string
	// Mutated is set when the statement changed the database.
	Mutated bool
}
