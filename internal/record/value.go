package record

import (
	"bytes"
	"cmp"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
)

// Native lists the Go types a Value can be built from and extracted into.
type Native interface {
	int32 | int64 | uint64 | float32 | float64 | bool | string | []byte
}

// Value is a single typed cell. The zero Value has type ColInvalid and
// never validates against a schema.
//
// Fixed-width payloads live in num (integers sign-extended, floats as IEEE
// bits, bool as 0/1); text in str; bytes in raw.
type Value struct {
	typ ColumnType
	num uint64
	str string
	raw []byte
}

func Int32(v int32) Value     { return Value{typ: ColInt32, num: uint64(int64(v))} }
func Int64(v int64) Value     { return Value{typ: ColInt64, num: uint64(v)} }
func Uint64(v uint64) Value   { return Value{typ: ColUint64, num: v} }
func Float32(v float32) Value { return Value{typ: ColFloat32, num: uint64(math.Float32bits(v))} }
func Float64(v float64) Value { return Value{typ: ColFloat64, num: math.Float64bits(v)} }
func Text(v string) Value     { return Value{typ: ColText, str: v} }

func Bool(v bool) Value {
	if v {
		return Value{typ: ColBool, num: 1}
	}
	return Value{typ: ColBool}
}

// Bytes copies v.
func Bytes(v []byte) Value { return Value{typ: ColBytes, raw: bytes.Clone(v)} }

// TypeOf returns the column type matching the native type T.
func TypeOf[T Native]() ColumnType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return ColInt32
	case int64:
		return ColInt64
	case uint64:
		return ColUint64
	case float32:
		return ColFloat32
	case float64:
		return ColFloat64
	case bool:
		return ColBool
	case string:
		return ColText
	case []byte:
		return ColBytes
	}
	return ColInvalid
}

// From tags a native value with its matching column type.
func From[T Native](v T) Value {
	switch x := any(v).(type) {
	case int32:
		return Int32(x)
	case int64:
		return Int64(x)
	case uint64:
		return Uint64(x)
	case float32:
		return Float32(x)
	case float64:
		return Float64(x)
	case bool:
		return Bool(x)
	case string:
		return Text(x)
	case []byte:
		return Bytes(x)
	}
	return Value{}
}

// Of builds a Value from a dynamically typed Go value. A plain int is
// tagged I64; every other non-native type is rejected.
func Of(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case int32:
		return Int32(x), nil
	case int64:
		return Int64(x), nil
	case int:
		return Int64(int64(x)), nil
	case uint64:
		return Uint64(x), nil
	case float32:
		return Float32(x), nil
	case float64:
		return Float64(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case []byte:
		return Bytes(x), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported Go type %T", ErrTypeMismatch, v)
	}
}

// Values converts each argument with Of.
func Values(vs ...any) ([]Value, error) {
	out := make([]Value, len(vs))
	for i, v := range vs {
		val, err := Of(v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = val
	}
	return out, nil
}

// As extracts the payload of v as T. It never converts between types.
func As[T Native](v Value) (T, error) {
	var zero T
	want := TypeOf[T]()
	if v.typ != want {
		return zero, fmt.Errorf("%w: want %s, have %s", ErrTypeMismatch, want, v.typ)
	}
	out, _ := v.Interface().(T)
	return out, nil
}

func (v Value) Type() ColumnType { return v.typ }
func (v Value) IsValid() bool    { return v.typ.Valid() }

// Bits exposes the fixed-width payload for codecs. It is meaningless for
// text and bytes values.
func (v Value) Bits() uint64 { return v.num }

// FromBits rebuilds a fixed-width value from the payload returned by Bits.
func FromBits(t ColumnType, bits uint64) (Value, error) {
	switch t {
	case ColInt32:
		return Int32(int32(bits)), nil
	case ColInt64, ColUint64, ColFloat64:
		return Value{typ: t, num: bits}, nil
	case ColFloat32:
		return Value{typ: t, num: bits & math.MaxUint32}, nil
	case ColBool:
		if bits > 1 {
			return Value{}, fmt.Errorf("%w: bool payload %d", ErrTypeMismatch, bits)
		}
		return Value{typ: t, num: bits}, nil
	default:
		return Value{}, fmt.Errorf("%w: %s is not fixed-width", ErrTypeMismatch, t)
	}
}

// Interface returns the native Go payload, copying bytes.
func (v Value) Interface() any {
	switch v.typ {
	case ColInt32:
		return int32(v.num)
	case ColInt64:
		return int64(v.num)
	case ColUint64:
		return v.num
	case ColFloat32:
		return math.Float32frombits(uint32(v.num))
	case ColFloat64:
		return math.Float64frombits(v.num)
	case ColBool:
		return v.num == 1
	case ColText:
		return v.str
	case ColBytes:
		return bytes.Clone(v.raw)
	default:
		return nil
	}
}

// TextRef and BytesRef return payloads without copying. Callers must not
// modify the returned slice.
func (v Value) TextRef() string  { return v.str }
func (v Value) BytesRef() []byte { return v.raw }

func (v Value) String() string {
	switch v.typ {
	case ColInt32, ColInt64:
		return strconv.FormatInt(int64(v.num), 10)
	case ColUint64:
		return strconv.FormatUint(v.num, 10)
	case ColFloat32:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(v.num))), 'g', -1, 32)
	case ColFloat64:
		return strconv.FormatFloat(math.Float64frombits(v.num), 'g', -1, 64)
	case ColBool:
		return strconv.FormatBool(v.num == 1)
	case ColText:
		return v.str
	case ColBytes:
		return "x'" + hex.EncodeToString(v.raw) + "'"
	default:
		return "<invalid>"
	}
}

// Equal reports whether a and b have the same type and payload. Floats
// compare by bit pattern, so NaN equals an identical NaN.
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case ColText:
		return a.str == b.str
	case ColBytes:
		return bytes.Equal(a.raw, b.raw)
	default:
		return a.num == b.num
	}
}

// Compare orders two values of the same type: -1, 0 or +1. Values of
// different types fail with ErrTypeMismatch.
func Compare(a, b Value) (int, error) {
	if a.typ != b.typ {
		return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, a.typ, b.typ)
	}
	switch a.typ {
	case ColInt32, ColInt64:
		return cmp.Compare(int64(a.num), int64(b.num)), nil
	case ColUint64, ColBool:
		return cmp.Compare(a.num, b.num), nil
	case ColFloat32:
		return cmp.Compare(math.Float32frombits(uint32(a.num)), math.Float32frombits(uint32(b.num))), nil
	case ColFloat64:
		return cmp.Compare(math.Float64frombits(a.num), math.Float64frombits(b.num)), nil
	case ColText:
		return cmp.Compare(a.str, b.str), nil
	case ColBytes:
		return bytes.Compare(a.raw, b.raw), nil
	default:
		return 0, fmt.Errorf("%w: invalid value", ErrTypeMismatch)
	}
}
