package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tuannm99/safeen/internal/storage"
)

// cmdWatch watches the directory of path, since saves replace the file by
// rename and a watch on the file itself would be lost after the first one.
func cmdWatch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: sfn watch <path>")
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	slog.Info("watching", "path", path)
	verifyAndLog(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isWriteOf(event, path) {
				continue
			}
			verifyAndLog(path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		}
	}
}

func isWriteOf(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func verifyAndLog(path string) bool {
	ok, err := storage.VerifyFile(path)
	switch {
	case err != nil:
		slog.Warn("verify failed", "path", path, "err", err)
		return false
	case !ok:
		slog.Error("integrity mismatch", "path", path)
		return false
	default:
		slog.Info("integrity ok", "path", path)
		return true
	}
}
