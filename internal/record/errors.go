package record

import "errors"

var (
	ErrColumnNotFound  = errors.New("safeen: column not found")
	ErrDuplicateColumn = errors.New("safeen: duplicate column")
	ErrEmptySchema     = errors.New("safeen: schema has no columns")
	ErrSchemaViolation = errors.New("safeen: schema violation")
	ErrTypeMismatch    = errors.New("safeen: type mismatch")
)
