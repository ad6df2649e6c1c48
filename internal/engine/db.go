package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuannm99/safeen/internal/catalog"
	"github.com/tuannm99/safeen/internal/heap"
	"github.com/tuannm99/safeen/internal/record"
	"github.com/tuannm99/safeen/internal/storage"
)

var (
	ErrTableAlreadyExists = errors.New("safeen: table already exists")
	ErrTableNotFound      = errors.New("safeen: table not found")
	ErrInvalidName        = errors.New("safeen: invalid name")
)

type DatabaseOperation interface {
	CreateTable(name string, schema record.Schema) (*heap.Table, error)
	Table(name string) (*heap.Table, error)
	DropTable(name string) error
	Save(path string) error
	IntegrityCheck() bool
}

var _ DatabaseOperation = (*Database)(nil)

// ReadOptions tunes Read. With Strict set, a digest mismatch fails the read
// instead of being reported later by IntegrityCheck.
type ReadOptions struct {
	Strict bool
}

// Database owns named tables in declaration order. It is not safe for
// concurrent use.
type Database struct {
	name   string
	tables *catalog.Catalog[*heap.Table]

	// envelope of the last successful Save or Read
	env storage.Envelope
}

func New() *Database {
	return &Database{tables: catalog.New[*heap.Table]()}
}

func (db *Database) Name() string { return db.name }

func (db *Database) SetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: database name is empty", ErrInvalidName)
	}
	db.name = name
	return nil
}

func (db *Database) TableCount() int { return db.tables.Len() }

// TableNames lists tables in creation order.
func (db *Database) TableNames() []string { return db.tables.Names() }

// Tables returns the tables in creation order.
func (db *Database) Tables() []*heap.Table { return db.tables.Values() }

// Describe lists table metadata in creation order.
func (db *Database) Describe() []catalog.TableMeta {
	tables := db.tables.Values()
	out := make([]catalog.TableMeta, len(tables))
	for i, t := range tables {
		out[i] = catalog.TableMeta{Name: t.Name(), Columns: t.Schema().Columns(), RowCount: t.Len()}
	}
	return out
}

func (db *Database) CreateTable(name string, schema record.Schema) (*heap.Table, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: table name is empty", ErrInvalidName)
	}
	if _, ok := db.tables.Get(name); ok {
		return nil, fmt.Errorf("%w: %q", ErrTableAlreadyExists, name)
	}

	tbl, err := heap.NewTable(name, schema)
	if err != nil {
		return nil, fmt.Errorf("create table %q: %w", name, err)
	}
	if err := db.tables.Add(name, tbl); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTableAlreadyExists, name)
	}

	slog.Debug("engine.table.created", "table", name, "schema", schema.String())
	return tbl, nil
}

func (db *Database) Table(name string) (*heap.Table, error) {
	t, ok := db.tables.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return t, nil
}

// DropTable removes a table; the others keep their relative order.
func (db *Database) DropTable(name string) error {
	if err := db.tables.Remove(name); err != nil {
		return fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}

	slog.Debug("engine.table.dropped", "table", name)
	return nil
}

func (db *Database) image() storage.Image {
	tables := db.tables.Values()
	img := storage.Image{Name: db.name, Tables: make([]storage.TableImage, len(tables))}
	for i, t := range tables {
		img.Tables[i] = storage.TableImage{Name: t.Name(), Schema: t.Schema(), Rows: t.Rows()}
	}
	return img
}

// Save encodes the database and replaces the file at path atomically. The
// in-memory state is never modified; the recorded envelope only changes
// once the file is in place.
func (db *Database) Save(path string) error {
	data, env, err := storage.EncodeDatabase(db.image())
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := storage.WriteFileAtomic(path, data, storage.FileMode0644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	db.env = env
	slog.Debug("engine.db.saved",
		"path", path,
		"name", db.name,
		"tables", db.tables.Len(),
		"bytes", len(data),
	)
	return nil
}

// Read loads the database at path. A digest mismatch does not fail the
// read; it is reported by IntegrityCheck.
func Read(path string) (*Database, error) {
	return ReadWithOptions(path, ReadOptions{})
}

func ReadWithOptions(path string, opts ReadOptions) (*Database, error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, env, err := storage.DecodeDatabase(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if !env.Verify() {
		if opts.Strict {
			return nil, fmt.Errorf("%w: %s", storage.ErrIntegrityFailure, path)
		}
		slog.Warn("engine.db.integrity_mismatch", "path", path)
	}

	db, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	db.env = env

	slog.Debug("engine.db.read", "path", path, "name", db.name, "tables", db.tables.Len())
	return db, nil
}

// FromImage rebuilds a database through the normal CreateTable and
// InsertMany path so every row is validated again.
func FromImage(img storage.Image) (*Database, error) {
	db := New()
	db.name = img.Name

	for _, ti := range img.Tables {
		tbl, err := db.CreateTable(ti.Name, ti.Schema)
		if err != nil {
			return nil, err
		}
		rows := make([][]record.Value, len(ti.Rows))
		for i, r := range ti.Rows {
			rows[i] = r
		}
		if err := tbl.InsertMany(rows...); err != nil {
			return nil, fmt.Errorf("table %q: %w", ti.Name, err)
		}
	}
	return db, nil
}

// IntegrityCheck recomputes the digest of the payload recorded at the last
// Save or Read. It is false when neither happened.
func (db *Database) IntegrityCheck() bool {
	return db.env.Verify()
}

// Verify is IntegrityCheck as an error.
func (db *Database) Verify() error {
	if db.env.IsZero() {
		return fmt.Errorf("%w: database was never saved or read", storage.ErrIntegrityFailure)
	}
	if !db.env.Verify() {
		return storage.ErrIntegrityFailure
	}
	return nil
}

// Digest returns the trailer recorded at the last Save or Read.
func (db *Database) Digest() (storage.Digest, bool) {
	return db.env.Trailer, !db.env.IsZero()
}
