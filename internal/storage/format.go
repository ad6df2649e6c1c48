package storage

import (
	"fmt"

	"github.com/tuannm99/safeen/internal/alias/bx"
	"github.com/tuannm99/safeen/internal/record"
)

// ---- file layout ----
// [magic "SFNDB"] [version u16]
// [dbname var32]
// [table count u32]
//   per table:
//   [name var32] [column count u32]
//     per column: [name var32] [type tag u8]
//   [row count u64]
//     per row: one tagged value per column
// [BLAKE2b-256 digest of everything above]

// TableImage is the serialized form of one table.
type TableImage struct {
	Name   string
	Schema record.Schema
	Rows   []record.Row
}

// Image is the serialized form of a whole database, tables in creation order.
type Image struct {
	Name   string
	Tables []TableImage
}

// EncodeDatabase serializes img and seals it. The returned bytes are the
// exact file content (payload followed by trailer).
func EncodeDatabase(img Image) ([]byte, Envelope, error) {
	w := bx.NewWriter(4096)
	w.Raw([]byte(Magic))
	w.U16(FormatVersion)

	if err := w.Var32([]byte(img.Name)); err != nil {
		return nil, Envelope{}, err
	}
	w.U32(uint32(len(img.Tables)))

	for _, t := range img.Tables {
		if err := encodeTable(w, t); err != nil {
			return nil, Envelope{}, fmt.Errorf("table %q: %w", t.Name, err)
		}
	}

	env := Seal(w.Bytes())
	return env.Bytes(), env, nil
}

func encodeTable(w *bx.Writer, t TableImage) error {
	if err := w.Var32([]byte(t.Name)); err != nil {
		return err
	}
	w.U32(uint32(t.Schema.NumCols()))
	for _, c := range t.Schema.Columns() {
		if err := w.Var32([]byte(c.Name)); err != nil {
			return err
		}
		w.U8(uint8(c.Type))
	}

	w.U64(uint64(len(t.Rows)))
	for i, row := range t.Rows {
		if err := EncodeRow(w, t.Schema, row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// DecodeDatabase parses file bytes. The digest is NOT checked here; the
// returned envelope lets the caller decide how to treat a mismatch.
func DecodeDatabase(data []byte) (Image, Envelope, error) {
	env, err := Open(data)
	if err != nil {
		return Image{}, Envelope{}, err
	}
	r := bx.NewReader(env.Payload)

	magic, err := r.Raw(len(Magic))
	if err != nil || string(magic) != Magic {
		return Image{}, Envelope{}, errCorrupt("bad magic", nil)
	}
	ver, err := r.U16()
	if err != nil {
		return Image{}, Envelope{}, errCorrupt("version", err)
	}
	if ver != FormatVersion {
		return Image{}, Envelope{}, errCorrupt(fmt.Sprintf("unsupported version %d", ver), nil)
	}

	name, err := r.Var32()
	if err != nil {
		return Image{}, Envelope{}, errCorrupt("database name", err)
	}
	img := Image{Name: string(name)}

	nTables, err := r.U32()
	if err != nil {
		return Image{}, Envelope{}, errCorrupt("table count", err)
	}

	seen := make(map[string]struct{})
	for i := range nTables {
		t, err := decodeTable(r)
		if err != nil {
			return Image{}, Envelope{}, fmt.Errorf("table #%d: %w", i, err)
		}
		if _, dup := seen[t.Name]; dup {
			return Image{}, Envelope{}, errCorrupt(fmt.Sprintf("duplicate table %q", t.Name), nil)
		}
		seen[t.Name] = struct{}{}
		img.Tables = append(img.Tables, t)
	}

	if r.Remaining() != 0 {
		return Image{}, Envelope{}, errCorrupt(fmt.Sprintf("%d trailing bytes", r.Remaining()), nil)
	}
	return img, env, nil
}

func decodeTable(r *bx.Reader) (TableImage, error) {
	name, err := r.Var32()
	if err != nil {
		return TableImage{}, errCorrupt("table name", err)
	}
	if len(name) == 0 {
		return TableImage{}, errCorrupt("empty table name", nil)
	}

	nCols, err := r.U32()
	if err != nil {
		return TableImage{}, errCorrupt("column count", err)
	}
	// every column needs at least a length prefix and a tag
	if uint64(nCols)*5 > uint64(r.Remaining()) {
		return TableImage{}, errCorrupt(fmt.Sprintf("column count %d exceeds data", nCols), nil)
	}

	cols := make([]record.Column, 0, nCols)
	for range nCols {
		cn, err := r.Var32()
		if err != nil {
			return TableImage{}, errCorrupt("column name", err)
		}
		tag, err := r.U8()
		if err != nil {
			return TableImage{}, errCorrupt("column type", err)
		}
		ct := record.ColumnType(tag)
		if !ct.Valid() {
			return TableImage{}, errCorrupt(fmt.Sprintf("unknown column type %d", tag), nil)
		}
		cols = append(cols, record.Col(string(cn), ct))
	}

	schema, err := record.NewSchema(cols...)
	if err != nil {
		return TableImage{}, errCorrupt("schema", err)
	}

	nRows, err := r.U64()
	if err != nil {
		return TableImage{}, errCorrupt("row count", err)
	}
	// smallest encoded value is 2 bytes (tag + bool)
	if nRows > uint64(r.Remaining())/uint64(2*schema.NumCols()) {
		return TableImage{}, errCorrupt(fmt.Sprintf("row count %d exceeds data", nRows), nil)
	}

	t := TableImage{Name: string(name), Schema: schema, Rows: make([]record.Row, 0, nRows)}
	for i := range nRows {
		row, err := DecodeRow(r, schema)
		if err != nil {
			return TableImage{}, fmt.Errorf("%q row %d: %w", t.Name, i, err)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
