package heap

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/tuannm99/safeen/internal/query"
	"github.com/tuannm99/safeen/internal/record"
)

var ErrRowNotFound = errors.New("safeen: row not found")

// Table represents a named collection of rows under one schema. Every
// stored row has passed Row.ValidateAgainst; mutations either apply fully
// or leave the table unchanged.
//
// A Table does no locking. Callers sharing one across goroutines must
// serialize access themselves.
type Table struct {
	name   string
	schema record.Schema
	rows   []record.Row
}

func NewTable(name string, schema record.Schema) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty table name", record.ErrSchemaViolation)
	}
	if schema.IsZero() {
		return nil, record.ErrEmptySchema
	}
	return &Table{name: name, schema: schema}, nil
}

func (t *Table) Name() string          { return t.name }
func (t *Table) Schema() record.Schema { return t.schema }
func (t *Table) Len() int              { return len(t.rows) }

// Insert appends one row. On error the table is unchanged.
func (t *Table) Insert(values ...record.Value) error {
	row := record.NewRow(values...)
	if err := row.ValidateAgainst(t.schema); err != nil {
		return fmt.Errorf("insert into %s: %w", t.name, err)
	}
	t.rows = append(t.rows, row)
	return nil
}

// InsertAny converts native Go values with record.Of and inserts them.
func (t *Table) InsertAny(values ...any) error {
	vals, err := record.Values(values...)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", t.name, err)
	}
	return t.Insert(vals...)
}

// InsertMany validates every row before appending any of them.
func (t *Table) InsertMany(rows ...[]record.Value) error {
	batch := make([]record.Row, len(rows))
	for i, values := range rows {
		row := record.NewRow(values...)
		if err := row.ValidateAgainst(t.schema); err != nil {
			return fmt.Errorf("insert into %s: row %d: %w", t.name, i, err)
		}
		batch[i] = row
	}
	t.rows = append(t.rows, batch...)
	return nil
}

// Rows returns the current row sequence. The slice is capped so later
// inserts never show through it; the rows themselves must not be modified.
func (t *Table) Rows() []record.Row {
	return t.rows[:len(t.rows):len(t.rows)]
}

// Scan iterates rows in insertion order. Each iteration works on the rows
// present when it starts, and the sequence can be ranged over again.
func (t *Table) Scan() iter.Seq2[int, record.RowView] {
	return func(yield func(int, record.RowView) bool) {
		for i, row := range t.Rows() {
			if !yield(i, record.NewRowView(t.schema, row)) {
				return
			}
		}
	}
}

func (t *Table) GetAt(i int) (record.RowView, error) {
	if i < 0 || i >= len(t.rows) {
		return record.RowView{}, fmt.Errorf("%w: %s[%d]", ErrRowNotFound, t.name, i)
	}
	return record.NewRowView(t.schema, t.rows[i]), nil
}

// DeleteWhere removes every row matching p and returns how many went.
// p is evaluated over a snapshot first; if any call fails nothing is removed.
func (t *Table) DeleteWhere(p query.Predicate) (int, error) {
	snapshot := t.Rows()
	kept := make([]record.Row, 0, len(snapshot))
	for i, row := range snapshot {
		hit, err := p(record.NewRowView(t.schema, row))
		if err != nil {
			return 0, fmt.Errorf("delete from %s: row %d: %w", t.name, i, err)
		}
		if !hit {
			kept = append(kept, row)
		}
	}
	removed := len(snapshot) - len(kept)
	if removed > 0 {
		t.rows = kept
	}
	return removed, nil
}

// UpdateWhere replaces every row matching p with the values returned by fn,
// keeping positions. All replacements are built and validated before any
// is applied.
func (t *Table) UpdateWhere(p query.Predicate, fn func(row record.RowView) ([]record.Value, error)) (int, error) {
	snapshot := t.Rows()
	next := make([]record.Row, len(snapshot))
	copy(next, snapshot)

	updated := 0
	for i, row := range snapshot {
		view := record.NewRowView(t.schema, row)
		hit, err := p(view)
		if err != nil {
			return 0, fmt.Errorf("update %s: row %d: %w", t.name, i, err)
		}
		if !hit {
			continue
		}
		values, err := fn(view)
		if err != nil {
			return 0, fmt.Errorf("update %s: row %d: %w", t.name, i, err)
		}
		repl := record.NewRow(values...)
		if err := repl.ValidateAgainst(t.schema); err != nil {
			return 0, fmt.Errorf("update %s: row %d: %w", t.name, i, err)
		}
		next[i] = repl
		updated++
	}
	if updated > 0 {
		t.rows = next
	}
	return updated, nil
}

// Set returns an UpdateWhere callback that overwrites one column.
func Set(col string, v record.Value) func(record.RowView) ([]record.Value, error) {
	return func(row record.RowView) ([]record.Value, error) {
		pos, err := row.Schema().Lookup(col)
		if err != nil {
			return nil, err
		}
		out := row.Values()
		out[pos] = v
		return out, nil
	}
}

// Query starts an empty pipeline over this table.
func (t *Table) Query() query.Query { return query.From(t) }

func (t *Table) Filter(p query.Predicate) query.Query   { return t.Query().Filter(p) }
func (t *Table) GetWhere(p query.Predicate) query.Query { return t.Query().GetWhere(p) }
func (t *Table) Select(cols ...string) query.Query      { return t.Query().Rows(cols...) }

// String renders the table as a padded text grid.
func (t *Table) String() string {
	cols := t.schema.Names()
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	cells := make([][]string, len(t.rows))
	for r, row := range t.rows {
		cells[r] = make([]string, len(row))
		for i, v := range row {
			s := v.String()
			cells[r][i] = s
			widths[i] = max(widths[i], len(s))
		}
	}

	var b strings.Builder
	writeRow := func(values []string) {
		for i, v := range values {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(v)
			b.WriteString(strings.Repeat(" ", widths[i]-len(v)))
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "%s (%d rows)\n", t.name, len(t.rows))
	writeRow(cols)
	for i, w := range widths {
		if i > 0 {
			b.WriteString("-+-")
		}
		b.WriteString(strings.Repeat("-", w))
	}
	b.WriteByte('\n')
	for _, row := range cells {
		writeRow(row)
	}
	return b.String()
}
