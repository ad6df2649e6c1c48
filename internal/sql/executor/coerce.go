package executor

import (
	"fmt"
	"math"

	"github.com/tuannm99/safeen/internal/record"
	"github.com/tuannm99/safeen/internal/sql/parser"
)

// coerceLiteral turns an untyped literal into a value of the column type.
// Integers fit any numeric column that holds them exactly; decimals only
// fit float columns. Anything else is a type mismatch.
func coerceLiteral(col record.Column, lit *parser.LiteralExpr) (record.Value, error) {
	mismatch := func() (record.Value, error) {
		return record.Value{}, fmt.Errorf("%w: column %q is %s, literal %s does not fit",
			record.ErrTypeMismatch, col.Name, col.Type, lit.Raw)
	}

	switch x := lit.Value.(type) {
	case int64:
		switch col.Type {
		case record.ColInt32:
			if x < math.MinInt32 || x > math.MaxInt32 {
				return mismatch()
			}
			return record.Int32(int32(x)), nil
		case record.ColInt64:
			return record.Int64(x), nil
		case record.ColUint64:
			if x < 0 {
				return mismatch()
			}
			return record.Uint64(uint64(x)), nil
		case record.ColFloat32:
			if f := float32(x); exactInt(float64(f), x) {
				return record.Float32(f), nil
			}
		case record.ColFloat64:
			if f := float64(x); exactInt(f, x) {
				return record.Float64(f), nil
			}
		}

	case uint64:
		switch col.Type {
		case record.ColUint64:
			return record.Uint64(x), nil
		case record.ColFloat32:
			if f := float32(x); exactUint(float64(f), x) {
				return record.Float32(f), nil
			}
		case record.ColFloat64:
			if f := float64(x); exactUint(f, x) {
				return record.Float64(f), nil
			}
		}

	case float64:
		switch col.Type {
		case record.ColFloat32:
			if !math.IsInf(x, 0) && math.Abs(x) > math.MaxFloat32 {
				return mismatch()
			}
			return record.Float32(float32(x)), nil
		case record.ColFloat64:
			return record.Float64(x), nil
		}

	case bool:
		if col.Type == record.ColBool {
			return record.Bool(x), nil
		}

	case string:
		if col.Type == record.ColText {
			return record.Text(x), nil
		}

	case []byte:
		if col.Type == record.ColBytes {
			return record.Bytes(x), nil
		}
	}
	return mismatch()
}

// exactInt reports whether f is exactly the integer x.
func exactInt(f float64, x int64) bool {
	return f >= -(1<<63) && f < 1<<63 && int64(f) == x
}

func exactUint(f float64, x uint64) bool {
	return f >= 0 && f < 1<<64 && uint64(f) == x
}

// coerceRow coerces literals positionally against the schema.
func coerceRow(schema record.Schema, lits []*parser.LiteralExpr) ([]record.Value, error) {
	if len(lits) != schema.NumCols() {
		return nil, fmt.Errorf("%w: insert has %d values, table has %d columns",
			record.ErrSchemaViolation, len(lits), schema.NumCols())
	}
	out := make([]record.Value, len(lits))
	for i, l := range lits {
		v, err := coerceLiteral(schema.Column(i), l)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
