package storage

import "errors"

const (
	FileMode0644 = 0o644 // rw-r--r--
	FileMode0755 = 0o755 // rwxr-xr-x
)

const (
	// Magic opens every .sfn file.
	Magic = "SFNDB"
	// FormatVersion is bumped on any incompatible layout change.
	FormatVersion uint16 = 1

	HeaderSize = len(Magic) + 2
)

var (
	ErrCorruptFile      = errors.New("safeen: corrupt file")
	ErrIntegrityFailure = errors.New("safeen: integrity check failed")
	ErrIO               = errors.New("safeen: i/o error")
)
