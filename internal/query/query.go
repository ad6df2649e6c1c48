package query

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tuannm99/safeen/internal/record"
)

var ErrNoSource = errors.New("query: no source table")

// Source is anything that can hand out its schema and a snapshot of its
// rows in scan order.
type Source interface {
	Name() string
	Schema() record.Schema
	Rows() []record.Row
}

type State uint8

const (
	Unbuilt State = iota
	Filtered
	Projected
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Filtered:
		return "filtered"
	case Projected:
		return "projected"
	default:
		return "unknown"
	}
}

// Query describes a filter-then-project pass over one Source. It is an
// immutable value: every builder call returns a new Query and leaves the
// receiver untouched. Nothing is read from the source until Execute.
type Query struct {
	src     Source
	filters []Predicate
	cols    []string
	err     error
}

func From(src Source) Query {
	if src == nil {
		return Query{err: ErrNoSource}
	}
	return Query{src: src}
}

// Filter adds a predicate. Several filters are AND-ed in call order.
func (q Query) Filter(p Predicate) Query {
	if q.err != nil {
		return q
	}
	if p == nil {
		q.err = errors.New("query: nil predicate")
		return q
	}
	q.filters = append(slices.Clip(q.filters), p)
	return q
}

// GetWhere is an alias for Filter.
func (q Query) GetWhere(p Predicate) Query { return q.Filter(p) }

// Rows declares the projected columns and their order. Unknown names are
// reported as ErrColumnNotFound by Execute (and by Err).
func (q Query) Rows(cols ...string) Query {
	if q.err != nil {
		return q
	}
	if q.src == nil {
		q.err = ErrNoSource
		return q
	}
	if len(cols) == 0 {
		q.err = fmt.Errorf("query: %w: empty projection", record.ErrEmptySchema)
		return q
	}
	if _, _, err := project(q.src.Schema(), cols); err != nil {
		q.err = err
		return q
	}
	q.cols = slices.Clone(cols)
	return q
}

// Err reports the first builder error, if any.
func (q Query) Err() error { return q.err }

func (q Query) State() State {
	switch {
	case q.cols != nil:
		return Projected
	case len(q.filters) > 0:
		return Filtered
	default:
		return Unbuilt
	}
}

// Execute scans the source as of now, keeps matching rows in scan order
// and projects them. Re-running it over an unchanged source yields the
// same result.
func (q Query) Execute() (*Result, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.src == nil {
		return nil, ErrNoSource
	}
	schema := q.src.Schema()
	cols := q.cols
	if cols == nil {
		cols = schema.Names()
	}
	outSchema, idx, err := project(schema, cols)
	if err != nil {
		return nil, err
	}

	rows := q.src.Rows()
	res := &Result{schema: outSchema}
	for i, r := range rows {
		ok, err := q.match(record.NewRowView(schema, r))
		if err != nil {
			return nil, fmt.Errorf("query %s: row %d: %w", q.src.Name(), i, err)
		}
		if !ok {
			continue
		}
		out := make(record.Row, len(idx))
		for j, k := range idx {
			out[j] = r[k]
		}
		res.rows = append(res.rows, out)
	}
	return res, nil
}

func (q Query) match(view record.RowView) (bool, error) {
	for _, p := range q.filters {
		ok, err := p(view)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func project(s record.Schema, cols []string) (record.Schema, []int, error) {
	idx := make([]int, len(cols))
	out := make([]record.Column, len(cols))
	for i, name := range cols {
		pos, err := s.Lookup(name)
		if err != nil {
			return record.Schema{}, nil, err
		}
		idx[i] = pos
		out[i] = s.Column(pos)
	}
	ps, err := record.NewSchema(out...)
	if err != nil {
		return record.Schema{}, nil, err
	}
	return ps, idx, nil
}
