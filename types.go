// Package safeen is an embedded, schema-typed table store. A Database owns
// named tables of typed rows, persists them to a single .sfn file sealed
// with a BLAKE2b-256 digest, and answers predicate queries in memory.
package safeen

import (
	"github.com/tuannm99/safeen/internal/engine"
	"github.com/tuannm99/safeen/internal/heap"
	"github.com/tuannm99/safeen/internal/query"
	"github.com/tuannm99/safeen/internal/record"
	"github.com/tuannm99/safeen/internal/storage"
)

type (
	Database    = engine.Database
	ReadOptions = engine.ReadOptions
	Table       = heap.Table

	Schema     = record.Schema
	Column     = record.Column
	ColumnType = record.ColumnType
	Value      = record.Value
	Row        = record.Row
	RowView    = record.RowView
	Native     = record.Native

	Query     = query.Query
	Predicate = query.Predicate
	Op        = query.Op
	Result    = query.Result
)

const (
	Int32   = record.ColInt32
	Int64   = record.ColInt64
	Uint64  = record.ColUint64
	Float32 = record.ColFloat32
	Float64 = record.ColFloat64
	Bool    = record.ColBool
	String  = record.ColText
	Bytes   = record.ColBytes
)

const (
	OpEq = query.OpEq
	OpNe = query.OpNe
	OpLt = query.OpLt
	OpLe = query.OpLe
	OpGt = query.OpGt
	OpGe = query.OpGe
)

var (
	ErrTableAlreadyExists = engine.ErrTableAlreadyExists
	ErrTableNotFound      = engine.ErrTableNotFound
	ErrInvalidName        = engine.ErrInvalidName
	ErrColumnNotFound     = record.ErrColumnNotFound
	ErrDuplicateColumn    = record.ErrDuplicateColumn
	ErrEmptySchema        = record.ErrEmptySchema
	ErrSchemaViolation    = record.ErrSchemaViolation
	ErrTypeMismatch       = record.ErrTypeMismatch
	ErrRowNotFound        = heap.ErrRowNotFound
	ErrCorruptFile        = storage.ErrCorruptFile
	ErrIntegrityFailure   = storage.ErrIntegrityFailure
	ErrIO                 = storage.ErrIO
)

// New returns an empty, unnamed database.
func New() *Database { return engine.New() }

// Read loads a database file. A digest mismatch is reported by
// IntegrityCheck, not by Read.
func Read(path string) (*Database, error) { return engine.Read(path) }

func ReadWithOptions(path string, opts ReadOptions) (*Database, error) {
	return engine.ReadWithOptions(path, opts)
}

// VerifyFile checks the digest trailer of a file without loading it.
func VerifyFile(path string) (bool, error) { return storage.VerifyFile(path) }

func Col(name string, t ColumnType) Column { return record.Col(name, t) }

func NewSchema(cols ...Column) (Schema, error) { return record.NewSchema(cols...) }

func ParseColumnType(name string) (ColumnType, error) { return record.ParseColumnType(name) }

// From tags a native Go value with its column type.
func From[T Native](v T) Value { return record.From(v) }

// Of builds a Value from a dynamic Go value; int is stored as Int64.
func Of(v any) (Value, error) { return record.Of(v) }

// As extracts v as T without any coercion.
func As[T Native](v Value) (T, error) { return record.As[T](v) }

// Field resolves a column by name and extracts it as T.
func Field[T Native](row RowView, name string) (T, error) { return record.Field[T](row, name) }

// Get extracts one projected column of a query result.
func Get[T Native](res *Result, col string) ([]T, error) { return query.Get[T](res, col) }

func Where(fn func(RowView) bool) Predicate { return query.Where(fn) }

func Compare(col string, op Op, v Value) Predicate { return query.Compare(col, op, v) }

func And(ps ...Predicate) Predicate { return query.And(ps...) }
func Or(ps ...Predicate) Predicate  { return query.Or(ps...) }
func Not(p Predicate) Predicate     { return query.Not(p) }
