// Package liveconfig reads and writes each app's native config file. It
// renders a provider's credentials into the app's own dialect, merges the
// sections it does not own instead of replacing them, and commits every
// write atomically. The live files remain advisory: the store's current
// pointer, not the file, is the authoritative notion of "current".
package liveconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"ccswitch/internal/apperr"
	"ccswitch/internal/apptype"
	"ccswitch/internal/provider"
)

// unparseableError marks a failure to read the existing live file, as
// opposed to a failure rendering the new content. Only the former is a
// corrupt live config.
type unparseableError struct {
	err error
}

func (e *unparseableError) Error() string { return e.err.Error() }
func (e *unparseableError) Unwrap() error { return e.err }

func unparseable(err error) error { return &unparseableError{err: err} }

// Snapshot is the advisory credential view parsed out of a live config
// file, used for status and drift display only.
type Snapshot struct {
	Exists  bool
	APIKey  string
	BaseURL string
	Model   string
}

// Syncer translates provider records to and from the live config files
// described by its Paths.
type Syncer struct {
	paths apptype.Paths

	// rename commits the temp file; replaced in tests to simulate a crash
	// between temp-file creation and the atomic replace.
	rename func(oldpath, newpath string) error
}

// NewSyncer returns a Syncer writing to the given resolved paths.
func NewSyncer(paths apptype.Paths) *Syncer {
	return &Syncer{paths: paths, rename: os.Rename}
}

// Write renders the provider into app's live config file. Sections the
// engine does not own are preserved: unknown keys verbatim, MCP entries via
// name-keyed merge. A missing file is created from a minimal template; an
// unparseable file fails closed with CorruptError and no write happens.
func (s *Syncer) Write(app apptype.AppType, p provider.Provider) error {
	path := s.paths.LiveConfigPath(app)

	original, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		original = nil
	case err != nil:
		return &apperr.IoError{Path: path, Err: err}
	}

	var updated []byte
	switch app {
	case apptype.Claude:
		updated, err = renderClaude(original, p)
	case apptype.Codex:
		updated, err = renderCodex(original, p)
	case apptype.Gemini:
		updated, err = renderGemini(original, p)
	case apptype.OpenCode:
		updated, err = renderOpenCode(original, p)
	default:
		return &apperr.ValidationError{Field: "app_type", Reason: "unknown app type"}
	}
	if err != nil {
		var parseErr *unparseableError
		if errors.As(err, &parseErr) {
			return &apperr.CorruptError{Path: path, Err: parseErr.err}
		}
		return fmt.Errorf("render %s live config: %w", app, err)
	}

	return writeFileAtomic(path, updated, s.rename)
}

// ReadCurrent parses whatever credential fields the live file holds. A
// missing file yields Snapshot{Exists: false}; an unparseable file yields
// CorruptError.
func (s *Syncer) ReadCurrent(app apptype.AppType) (Snapshot, error) {
	path := s.paths.LiveConfigPath(app)

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, &apperr.IoError{Path: path, Err: err}
	}

	var snap Snapshot
	switch app {
	case apptype.Claude:
		snap, err = snapshotClaude(raw)
	case apptype.Codex:
		snap, err = snapshotCodex(raw)
	case apptype.Gemini:
		snap, err = snapshotGemini(raw)
	case apptype.OpenCode:
		snap, err = snapshotOpenCode(raw)
	default:
		return Snapshot{}, &apperr.ValidationError{Field: "app_type", Reason: "unknown app type"}
	}
	if err != nil {
		var parseErr *unparseableError
		if errors.As(err, &parseErr) {
			err = parseErr.err
		}
		return Snapshot{}, &apperr.CorruptError{Path: path, Err: err}
	}
	snap.Exists = true
	return snap, nil
}
