// Package store persists provider profiles and the per-app current pointer
// in an embedded SQLite database. It is the source of truth: the live config
// files on disk are derived from it, never the reverse.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ccswitch/internal/apperr"
	"ccswitch/internal/apptype"
	"ccswitch/internal/provider"
)

// Store wraps the SQLite handle. All mutating operations run inside a
// transaction so a crash mid-operation leaves the prior state intact.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the database at path. Pass ":memory:" for an
// isolated in-memory store in tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &apperr.IoError{Path: filepath.Dir(path), Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite single-writer: cap pool
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// migrate applies the additive schema. Columns are only ever added, never
// renamed or dropped, so older binaries keep working against newer files.
func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS providers (
			id TEXT PRIMARY KEY,
			app_type TEXT NOT NULL,
			name TEXT NOT NULL,
			api_key TEXT NOT NULL,
			base_url TEXT NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			small_model TEXT NOT NULL DEFAULT '',
			mcp_servers TEXT NOT NULL DEFAULT '[]',
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(app_type, name)
		)`,
		`CREATE TABLE IF NOT EXISTS current_pointers (
			app_type TEXT PRIMARY KEY,
			provider_id TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_providers_app_type ON providers(app_type)`,
	}
	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// Create inserts a new provider. Fails with ErrDuplicateName when the
// (app type, name) pair already exists.
func (s *Store) Create(p provider.Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	taken, err := nameTaken(tx, p.AppType, p.Name, "")
	if err != nil {
		return err
	}
	if taken {
		return apperr.Duplicatef("provider %q for %s", p.Name, p.AppType)
	}

	if err := insertProvider(tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns the provider with the given id.
func (s *Store) Get(id string) (provider.Provider, error) {
	return scanProvider(s.db.QueryRow(selectColumns+" FROM providers WHERE id = ?", id), id)
}

// FindByName returns the provider with the given name within one app scope.
func (s *Store) FindByName(app apptype.AppType, name string) (provider.Provider, error) {
	return scanProvider(
		s.db.QueryRow(selectColumns+" FROM providers WHERE app_type = ? AND name = ?", string(app), name),
		name,
	)
}

// Find resolves a user-supplied reference: exact id, then exact name, then a
// unique case-insensitive name prefix.
func (s *Store) Find(app apptype.AppType, nameOrID string) (provider.Provider, error) {
	if p, err := s.Get(nameOrID); err == nil && p.AppType == app {
		return p, nil
	}
	if p, err := s.FindByName(app, nameOrID); err == nil {
		return p, nil
	}

	all, err := s.List(app)
	if err != nil {
		return provider.Provider{}, err
	}
	prefix := strings.ToLower(nameOrID)
	var matches []provider.Provider
	for _, p := range all {
		if strings.HasPrefix(strings.ToLower(p.Name), prefix) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return provider.Provider{}, fmt.Errorf("ambiguous provider reference %q (%d matches)", nameOrID, len(matches))
	}
	return provider.Provider{}, apperr.NotFoundf("provider %q for %s", nameOrID, app)
}

// Update applies a patch to the provider with the given id and returns the
// updated record. Renames are checked against the uniqueness invariant.
func (s *Store) Update(id string, patch provider.Patch) (provider.Provider, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return provider.Provider{}, err
	}
	defer func() { _ = tx.Rollback() }()

	p, err := scanProvider(tx.QueryRow(selectColumns+" FROM providers WHERE id = ?", id), id)
	if err != nil {
		return provider.Provider{}, err
	}

	p.Apply(patch)
	if err := p.Validate(); err != nil {
		return provider.Provider{}, err
	}

	if patch.Name != nil {
		taken, err := nameTaken(tx, p.AppType, p.Name, p.ID)
		if err != nil {
			return provider.Provider{}, err
		}
		if taken {
			return provider.Provider{}, apperr.Duplicatef("provider %q for %s", p.Name, p.AppType)
		}
	}

	mcp, meta, err := encodeBlobs(p)
	if err != nil {
		return provider.Provider{}, err
	}
	_, err = tx.Exec(
		`UPDATE providers SET name=?, api_key=?, base_url=?, model=?, small_model=?,
		 mcp_servers=?, metadata=?, updated_at=? WHERE id=?`,
		p.Name, p.APIKey, p.BaseURL, p.Model, p.SmallModel,
		mcp, meta, p.UpdatedAt.Format(time.RFC3339Nano), p.ID,
	)
	if err != nil {
		return provider.Provider{}, err
	}
	if err := tx.Commit(); err != nil {
		return provider.Provider{}, err
	}
	return p, nil
}

// Delete removes a provider and, in the same transaction, clears any current
// pointer referencing it. Both commit together or neither does.
func (s *Store) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec("DELETE FROM providers WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFoundf("provider %q", id)
	}

	if _, err := tx.Exec("DELETE FROM current_pointers WHERE provider_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns the providers of one app type in insertion order. An empty
// app lists every provider.
func (s *Store) List(app apptype.AppType) ([]provider.Provider, error) {
	query := selectColumns + " FROM providers ORDER BY rowid"
	args := []any{}
	if app != "" {
		query = selectColumns + " FROM providers WHERE app_type = ? ORDER BY rowid"
		args = append(args, string(app))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []provider.Provider
	for rows.Next() {
		p, err := scanProviderRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Current returns the active provider id for app, or "" when none is set.
func (s *Store) Current(app apptype.AppType) (string, error) {
	var id string
	err := s.db.QueryRow(
		"SELECT provider_id FROM current_pointers WHERE app_type = ?", string(app),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// CurrentProvider returns the active provider record for app, if any.
func (s *Store) CurrentProvider(app apptype.AppType) (provider.Provider, bool, error) {
	id, err := s.Current(app)
	if err != nil || id == "" {
		return provider.Provider{}, false, err
	}
	p, err := s.Get(id)
	if err != nil {
		return provider.Provider{}, false, err
	}
	return p, true, nil
}

// SetCurrent points app at the provider with the given id. The id must
// reference an existing provider of the same app type.
func (s *Store) SetCurrent(app apptype.AppType, id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var gotApp string
	err = tx.QueryRow("SELECT app_type FROM providers WHERE id = ?", id).Scan(&gotApp)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFoundf("provider %q", id)
	}
	if err != nil {
		return err
	}
	if gotApp != string(app) {
		return apperr.NotFoundf("provider %q for %s", id, app)
	}

	_, err = tx.Exec(
		`INSERT INTO current_pointers(app_type, provider_id) VALUES(?, ?)
		 ON CONFLICT(app_type) DO UPDATE SET provider_id = excluded.provider_id`,
		string(app), id,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

const selectColumns = `SELECT id, app_type, name, api_key, base_url, model, small_model,
	mcp_servers, metadata, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProvider(row *sql.Row, ref string) (provider.Provider, error) {
	p, err := scanProviderRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return provider.Provider{}, apperr.NotFoundf("provider %q", ref)
	}
	return p, err
}

func scanProviderRow(row rowScanner) (provider.Provider, error) {
	var (
		p                    provider.Provider
		appType              string
		mcpJSON, metaJSON    string
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &appType, &p.Name, &p.APIKey, &p.BaseURL, &p.Model,
		&p.SmallModel, &mcpJSON, &metaJSON, &createdAt, &updatedAt)
	if err != nil {
		return provider.Provider{}, err
	}

	p.AppType = apptype.AppType(appType)
	if err := json.Unmarshal([]byte(mcpJSON), &p.McpServers); err != nil {
		return provider.Provider{}, fmt.Errorf("decode mcp_servers for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(metaJSON), &p.Metadata); err != nil {
		return provider.Provider{}, fmt.Errorf("decode metadata for %s: %w", p.ID, err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return provider.Provider{}, fmt.Errorf("decode created_at for %s: %w", p.ID, err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return provider.Provider{}, fmt.Errorf("decode updated_at for %s: %w", p.ID, err)
	}
	return p, nil
}

func encodeBlobs(p provider.Provider) (mcp string, meta string, err error) {
	servers := p.McpServers
	if servers == nil {
		servers = []provider.McpServer{}
	}
	mcpBytes, err := json.Marshal(servers)
	if err != nil {
		return "", "", fmt.Errorf("encode mcp_servers: %w", err)
	}
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metaBytes, err := json.Marshal(metadata)
	if err != nil {
		return "", "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(mcpBytes), string(metaBytes), nil
}

func insertProvider(tx *sql.Tx, p provider.Provider) error {
	mcp, meta, err := encodeBlobs(p)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		`INSERT INTO providers
		 (id, app_type, name, api_key, base_url, model, small_model, mcp_servers, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.AppType), p.Name, p.APIKey, p.BaseURL, p.Model, p.SmallModel,
		mcp, meta, p.CreatedAt.Format(time.RFC3339Nano), p.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func nameTaken(tx *sql.Tx, app apptype.AppType, name, excludeID string) (bool, error) {
	var id string
	err := tx.QueryRow(
		"SELECT id FROM providers WHERE app_type = ? AND name = ?", string(app), name,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return id != excludeID, nil
}
