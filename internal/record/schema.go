package record

import (
	"fmt"
	"strings"
)

type ColumnType uint8

const (
	ColInvalid ColumnType = iota
	ColInt32
	ColInt64
	ColUint64
	ColFloat32
	ColFloat64
	ColBool
	ColText  // UTF-8
	ColBytes // opaque bytes
)

func (t ColumnType) Valid() bool { return t >= ColInt32 && t <= ColBytes }

func (t ColumnType) String() string {
	switch t {
	case ColInt32:
		return "I32"
	case ColInt64:
		return "I64"
	case ColUint64:
		return "U64"
	case ColFloat32:
		return "F32"
	case ColFloat64:
		return "F64"
	case ColBool:
		return "BOOL"
	case ColText:
		return "STRING"
	case ColBytes:
		return "BYTES"
	default:
		return fmt.Sprintf("INVALID(%d)", uint8(t))
	}
}

// ParseColumnType maps a type name (case-insensitive) to a ColumnType.
func ParseColumnType(name string) (ColumnType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "I32", "INT32":
		return ColInt32, nil
	case "I64", "INT64", "INT", "INTEGER":
		return ColInt64, nil
	case "U64", "UINT64":
		return ColUint64, nil
	case "F32", "FLOAT32", "FLOAT":
		return ColFloat32, nil
	case "F64", "FLOAT64", "DOUBLE":
		return ColFloat64, nil
	case "BOOL", "BOOLEAN":
		return ColBool, nil
	case "STRING", "TEXT":
		return ColText, nil
	case "BYTES", "BLOB":
		return ColBytes, nil
	default:
		return ColInvalid, fmt.Errorf("%w: unsupported column type %q", ErrSchemaViolation, name)
	}
}

type Column struct {
	Name string
	Type ColumnType
}

func Col(name string, t ColumnType) Column {
	return Column{Name: name, Type: t}
}

// Schema is an ordered, non-empty list of uniquely named columns.
// A Schema is immutable once built by NewSchema.
type Schema struct {
	cols  []Column
	index map[string]int
}

func NewSchema(cols ...Column) (Schema, error) {
	if len(cols) == 0 {
		return Schema{}, ErrEmptySchema
	}
	s := Schema{
		cols:  make([]Column, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c.Name == "" {
			return Schema{}, fmt.Errorf("%w: column %d has no name", ErrSchemaViolation, i)
		}
		if !c.Type.Valid() {
			return Schema{}, fmt.Errorf("%w: column %q has invalid type %s", ErrSchemaViolation, c.Name, c.Type)
		}
		if _, dup := s.index[c.Name]; dup {
			return Schema{}, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		s.cols[i] = c
		s.index[c.Name] = i
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. Intended for
// schemas written as literals.
func MustSchema(cols ...Column) Schema {
	s, err := NewSchema(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Schema) NumCols() int { return len(s.cols) }

func (s Schema) IsZero() bool { return len(s.cols) == 0 }

func (s Schema) Column(i int) Column { return s.cols[i] }

func (s Schema) Columns() []Column {
	out := make([]Column, len(s.cols))
	copy(out, s.cols)
	return out
}

func (s Schema) Names() []string {
	out := make([]string, len(s.cols))
	for i, c := range s.cols {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column.
func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Lookup is Index with ErrColumnNotFound.
func (s Schema) Lookup(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return i, nil
}

func (s Schema) Equal(o Schema) bool {
	if len(s.cols) != len(o.cols) {
		return false
	}
	for i := range s.cols {
		if s.cols[i] != o.cols[i] {
			return false
		}
	}
	return true
}

func (s Schema) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range s.cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Name)
		b.WriteByte(' ')
		b.WriteString(c.Type.String())
	}
	b.WriteByte(')')
	return b.String()
}
