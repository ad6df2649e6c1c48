package query

import (
	"fmt"
	"iter"

	"github.com/tuannm99/safeen/internal/record"
)

// Result is the materialized output of Execute: projected rows in scan order.
type Result struct {
	schema record.Schema
	rows   []record.Row
}

func (r *Result) Schema() record.Schema { return r.schema }
func (r *Result) Columns() []string     { return r.schema.Names() }
func (r *Result) Len() int              { return len(r.rows) }

func (r *Result) Row(i int) record.RowView {
	return record.NewRowView(r.schema, r.rows[i])
}

func (r *Result) All() iter.Seq2[int, record.RowView] {
	return func(yield func(int, record.RowView) bool) {
		for i, row := range r.rows {
			if !yield(i, record.NewRowView(r.schema, row)) {
				return
			}
		}
	}
}

// Get extracts one projected column as []T in result order. The type is
// checked against the column declaration, so a mismatch is reported even
// for an empty result.
func Get[T record.Native](r *Result, col string) ([]T, error) {
	pos, err := r.schema.Lookup(col)
	if err != nil {
		return nil, err
	}
	want := record.TypeOf[T]()
	if have := r.schema.Column(pos).Type; have != want {
		return nil, fmt.Errorf("%w: column %q is %s, requested %s", record.ErrTypeMismatch, col, have, want)
	}
	out := make([]T, len(r.rows))
	for i, row := range r.rows {
		v, err := record.As[T](row[pos])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Values returns a copy of every projected row.
func (r *Result) Values() []record.Row {
	out := make([]record.Row, len(r.rows))
	for i, row := range r.rows {
		out[i] = record.NewRow(row...)
	}
	return out
}
