package query

import (
	"fmt"
	"strings"

	"github.com/tuannm99/safeen/internal/record"
)

// Predicate decides whether a row is kept. A returned error aborts the
// whole query; it never silently drops the row.
type Predicate func(row record.RowView) (bool, error)

// Where adapts an infallible func into a Predicate.
func Where(fn func(row record.RowView) bool) Predicate {
	return func(row record.RowView) (bool, error) {
		return fn(row), nil
	}
}

// And keeps a row when every predicate does. Evaluation stops at the first
// false or error.
func And(ps ...Predicate) Predicate {
	return func(row record.RowView) (bool, error) {
		for _, p := range ps {
			ok, err := p(row)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

func Or(ps ...Predicate) Predicate {
	return func(row record.RowView) (bool, error) {
		for _, p := range ps {
			ok, err := p(row)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}

func Not(p Predicate) Predicate {
	return func(row record.RowView) (bool, error) {
		ok, err := p(row)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

type Op uint8

const (
	OpEq Op = iota + 1
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

func ParseOp(s string) (Op, error) {
	switch strings.TrimSpace(s) {
	case "=", "==":
		return OpEq, nil
	case "!=", "<>":
		return OpNe, nil
	case "<":
		return OpLt, nil
	case "<=":
		return OpLe, nil
	case ">":
		return OpGt, nil
	case ">=":
		return OpGe, nil
	default:
		return 0, fmt.Errorf("query: unknown operator %q", s)
	}
}

func (o Op) holds(c int) bool {
	switch o {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	default:
		return false
	}
}

// Compare builds "col <op> v". The column must exist and have v's type,
// otherwise evaluation fails with ErrColumnNotFound or ErrTypeMismatch.
func Compare(col string, op Op, v record.Value) Predicate {
	return func(row record.RowView) (bool, error) {
		got, err := row.Get(col)
		if err != nil {
			return false, err
		}
		c, err := record.Compare(got, v)
		if err != nil {
			return false, fmt.Errorf("column %q: %w", col, err)
		}
		return op.holds(c), nil
	}
}

func Eq(col string, v record.Value) Predicate { return Compare(col, OpEq, v) }
func Ne(col string, v record.Value) Predicate { return Compare(col, OpNe, v) }
func Lt(col string, v record.Value) Predicate { return Compare(col, OpLt, v) }
func Le(col string, v record.Value) Predicate { return Compare(col, OpLe, v) }
func Gt(col string, v record.Value) Predicate { return Compare(col, OpGt, v) }
func Ge(col string, v record.Value) Predicate { return Compare(col, OpGe, v) }
