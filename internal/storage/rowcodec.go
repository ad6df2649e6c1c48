package storage

import (
	"fmt"

	"github.com/tuannm99/safeen/internal/alias/bx"
	"github.com/tuannm99/safeen/internal/record"
)

// ---- value layout ----
// [type tag u8] [payload]
//   I32, F32       4 bytes LE
//   I64, U64, F64  8 bytes LE
//   BOOL           1 byte, 0 or 1
//   STRING, BYTES  u32 length LE + data

func errCorrupt(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrCorruptFile, what)
	}
	return fmt.Errorf("%w: %s: %w", ErrCorruptFile, what, err)
}

// EncodeValue appends one tagged value.
func EncodeValue(w *bx.Writer, v record.Value) error {
	w.U8(uint8(v.Type()))

	switch v.Type() {
	case record.ColInt32, record.ColFloat32:
		w.U32(uint32(v.Bits()))
	case record.ColInt64, record.ColUint64, record.ColFloat64:
		w.U64(v.Bits())
	case record.ColBool:
		w.U8(uint8(v.Bits()))
	case record.ColText:
		if err := w.Var32([]byte(v.TextRef())); err != nil {
			return err
		}
	case record.ColBytes:
		if err := w.Var32(v.BytesRef()); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: cannot encode %s", record.ErrTypeMismatch, v.Type())
	}
	return nil
}

// DecodeValue reads one tagged value. Any malformed input is ErrCorruptFile.
func DecodeValue(r *bx.Reader) (record.Value, error) {
	tag, err := r.U8()
	if err != nil {
		return record.Value{}, errCorrupt("value tag", err)
	}
	t := record.ColumnType(tag)

	switch t {
	case record.ColInt32, record.ColFloat32:
		u, err := r.U32()
		if err != nil {
			return record.Value{}, errCorrupt("value payload", err)
		}
		return record.FromBits(t, uint64(u))

	case record.ColInt64, record.ColUint64, record.ColFloat64:
		u, err := r.U64()
		if err != nil {
			return record.Value{}, errCorrupt("value payload", err)
		}
		return record.FromBits(t, u)

	case record.ColBool:
		b, err := r.U8()
		if err != nil {
			return record.Value{}, errCorrupt("value payload", err)
		}
		if b > 1 {
			return record.Value{}, errCorrupt(fmt.Sprintf("bool payload %#x", b), nil)
		}
		return record.Bool(b == 1), nil

	case record.ColText:
		b, err := r.Var32()
		if err != nil {
			return record.Value{}, errCorrupt("string payload", err)
		}
		return record.Text(string(b)), nil

	case record.ColBytes:
		b, err := r.Var32()
		if err != nil {
			return record.Value{}, errCorrupt("bytes payload", err)
		}
		// record.Bytes copies, so the value never aliases the file buffer.
		return record.Bytes(b), nil

	default:
		return record.Value{}, errCorrupt(fmt.Sprintf("unknown type tag %d", tag), nil)
	}
}

// EncodeRow validates row against s and appends its values in column order.
func EncodeRow(w *bx.Writer, s record.Schema, row record.Row) error {
	if err := row.ValidateAgainst(s); err != nil {
		return err
	}
	for _, v := range row {
		if err := EncodeValue(w, v); err != nil {
			return err
		}
	}
	return nil
}

// DecodeRow reads one value per column and re-validates the row, so a
// stream that decodes cleanly still cannot smuggle a mistyped row in.
func DecodeRow(r *bx.Reader, s record.Schema) (record.Row, error) {
	row := make(record.Row, s.NumCols())
	for i := range row {
		v, err := DecodeValue(r)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	if err := row.ValidateAgainst(s); err != nil {
		return nil, err
	}
	return row, nil
}
