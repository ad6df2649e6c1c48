package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// renameFile is swapped out by tests to fail the final step.
var renameFile = os.Rename

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, so a crash never leaves a half-written database behind.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", ErrIO, err)
	}
	tmpName := tmp.Name()

	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Warn("storage.tmp.remove_failed", "path", tmpName, "err", rmErr)
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, tmpName, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrIO, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, tmpName, err)
	}

	if err := renameFile(tmpName, path); err != nil {
		return fmt.Errorf("%w: atomic rename: %w", ErrIO, err)
	}

	ok = true
	slog.Debug("storage.file.written", "path", path, "bytes", len(data))
	return nil
}

// ReadFile loads a whole database file. Open failures wrap ErrIO and keep
// the fs error, so errors.Is(err, fs.ErrNotExist) still works.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	return data, nil
}

// VerifyFile reports whether the trailer of the file at path matches its
// content. Structural problems are returned as errors.
func VerifyFile(path string) (bool, error) {
	data, err := ReadFile(path)
	if err != nil {
		return false, err
	}
	env, err := Open(data)
	if err != nil {
		return false, err
	}
	return env.Verify(), nil
}
