package liveconfig

import (
	"os"
	"path/filepath"

	"ccswitch/internal/apperr"
)

// writeFileAtomic commits data to path via a temp file in the same directory
// plus an atomic rename. Readers observe either the old complete file or the
// new complete file, never a truncated mix. renameFn is os.Rename outside of
// tests.
func writeFileAtomic(path string, data []byte, renameFn func(oldpath, newpath string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &apperr.IoError{Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return &apperr.IoError{Path: dir, Err: err}
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &apperr.IoError{Path: tmp.Name(), Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &apperr.IoError{Path: tmp.Name(), Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &apperr.IoError{Path: tmp.Name(), Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return &apperr.IoError{Path: tmp.Name(), Err: err}
	}

	if err := renameFn(tmp.Name(), path); err != nil {
		return &apperr.IoError{Path: path, Err: err}
	}
	return nil
}
