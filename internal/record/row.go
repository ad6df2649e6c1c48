package record

import (
	"fmt"
	"strings"
)

// Row is an ordered tuple of values. A Row stored in a table is never
// modified; replacements go through ValidateAgainst again.
type Row []Value

// NewRow copies values into a fresh Row.
func NewRow(values ...Value) Row {
	out := make(Row, len(values))
	copy(out, values)
	return out
}

// ValidateAgainst checks arity and the type of every position.
func (r Row) ValidateAgainst(s Schema) error {
	if s.IsZero() {
		return ErrEmptySchema
	}
	if len(r) != s.NumCols() {
		return fmt.Errorf("%w: row has %d values, schema has %d columns", ErrSchemaViolation, len(r), s.NumCols())
	}
	for i, v := range r {
		col := s.cols[i]
		if v.typ != col.Type {
			return fmt.Errorf("%w: column %q expects %s, got %s", ErrSchemaViolation, col.Name, col.Type, v.typ)
		}
	}
	return nil
}

func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if !Equal(r[i], o[i]) {
			return false
		}
	}
	return true
}

func (r Row) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RowView is a read-only accessor pairing a row with its schema so values
// can be resolved by column name.
type RowView struct {
	schema Schema
	row    Row
}

func NewRowView(s Schema, r Row) RowView {
	return RowView{schema: s, row: r}
}

func (v RowView) Schema() Schema { return v.schema }
func (v RowView) Len() int       { return len(v.row) }
func (v RowView) At(i int) Value { return v.row[i] }

// Values returns a copy of the underlying row.
func (v RowView) Values() Row { return NewRow(v.row...) }

// Get resolves a column by name.
func (v RowView) Get(name string) (Value, error) {
	i, err := v.schema.Lookup(name)
	if err != nil {
		return Value{}, err
	}
	return v.row[i], nil
}

func (v RowView) String() string { return v.row.String() }

// Field resolves a column by name and extracts it as T.
func Field[T Native](v RowView, name string) (T, error) {
	val, err := v.Get(name)
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := As[T](val)
	if err != nil {
		return out, fmt.Errorf("column %q: %w", name, err)
	}
	return out, nil
}
