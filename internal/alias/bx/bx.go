// stand for bytes helper
package bx

import (
	"encoding/binary"
	"errors"
	"math"
)

var LE = binary.LittleEndian

var (
	ErrShort      = errors.New("bx: buffer underflow")
	ErrVarTooLong = errors.New("bx: variable length exceeds u32")
)

// --- LE: read ---
func U16(b []byte) uint16 { return LE.Uint16(b) }
func U32(b []byte) uint32 { return LE.Uint32(b) }
func U64(b []byte) uint64 { return LE.Uint64(b) }

// --- LE: write ---
func PutU16(b []byte, v uint16) { LE.PutUint16(b, v) }
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { LE.PutUint64(b, v) }

// Writer appends little-endian fields to a growing buffer.
type Writer struct {
	buf []byte
}

func NewWriter(capHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capHint)}
}

func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int      { return len(w.buf) }

func (w *Writer) U8(v uint8)   { w.buf = append(w.buf, v) }
func (w *Writer) U16(v uint16) { w.buf = LE.AppendUint16(w.buf, v) }
func (w *Writer) U32(v uint32) { w.buf = LE.AppendUint32(w.buf, v) }
func (w *Writer) U64(v uint64) { w.buf = LE.AppendUint64(w.buf, v) }
func (w *Writer) Raw(b []byte) { w.buf = append(w.buf, b...) }

// Var32 writes a u32 length prefix followed by b.
func (w *Writer) Var32(b []byte) error {
	if uint64(len(b)) > math.MaxUint32 {
		return ErrVarTooLong
	}
	w.U32(uint32(len(b)))
	w.Raw(b)
	return nil
}

// Reader consumes fields from a fixed buffer. Every read is bounds-checked
// and fails with ErrShort instead of panicking.
type Reader struct {
	buf []byte
	off int
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) Offset() int    { return r.off }
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) U8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, ErrShort
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.Raw(2)
	if err != nil {
		return 0, err
	}
	return U16(b), nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.Raw(4)
	if err != nil {
		return 0, err
	}
	return U32(b), nil
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.Raw(8)
	if err != nil {
		return 0, err
	}
	return U64(b), nil
}

// Raw returns the next n bytes. The result aliases the underlying buffer.
func (r *Reader) Raw(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrShort
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Var32 reads a u32 length prefix and the bytes it announces.
func (r *Reader) Var32() ([]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(r.Remaining()) {
		return nil, ErrShort
	}
	return r.Raw(int(n))
}
