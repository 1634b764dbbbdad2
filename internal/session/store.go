// Package session owns the active editing session: the current document,
// analysis result and UI step, with an explicit load/save boundary to a
// SQLite-backed store and an append-only history of past analyses.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"careerstealth/internal/errors"
)

const (
	keySession = "session"
	keyHistory = "history"
)

// Store persists session state as JSON blobs in a small SQLite database.
// Corrupt blobs load as absent: losing a saved session is a normal
// condition, never a startup failure.
type Store struct {
	db     *sql.DB
	path   string
	logger *errors.Logger
}

// NewStore opens (or creates) the session database at path. An empty
// path defaults to ~/.careerstealth/session.db.
func NewStore(path string, logger *errors.Logger) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
				"failed to resolve home directory", err)
		}
		path = filepath.Join(home, ".careerstealth", "session.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"failed to create session data directory", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"failed to open session database", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		db.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"failed to create session schema", err)
	}

	return &Store{db: db, path: path, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) loadBlob(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewStorageError(errors.ErrCodeStorageFailed,
			fmt.Sprintf("failed to load %q", key), err)
	}
	return value, true, nil
}

func (s *Store) saveBlob(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO blobs (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed,
			fmt.Sprintf("failed to save %q", key), err)
	}
	return nil
}

func (s *Store) deleteBlob(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed,
			fmt.Sprintf("failed to delete %q", key), err)
	}
	return nil
}

// LoadSession returns the saved session, or nil when none is stored.
// A corrupt blob is logged and treated as absent.
func (s *Store) LoadSession(ctx context.Context) (*Session, error) {
	data, ok, err := s.loadBlob(ctx, keySession)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn("Discarding corrupt saved session",
			"error", err.Error(),
			"bytes", len(data))
		return nil, nil
	}
	if sess.Result != nil {
		sess.Result.StructuredResume.Normalize()
	}
	return &sess, nil
}

// SaveSession persists the session under the current-session key.
func (s *Store) SaveSession(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeSessionCorrupt,
			"failed to encode session", err)
	}
	return s.saveBlob(ctx, keySession, data)
}

// ClearSession removes the saved current session. History is untouched.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.deleteBlob(ctx, keySession)
}

// LoadHistory returns the saved history snapshots, newest first. Corrupt
// history is logged and treated as empty.
func (s *Store) LoadHistory(ctx context.Context) ([]HistoryEntry, error) {
	data, ok, err := s.loadBlob(ctx, keyHistory)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []HistoryEntry{}, nil
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("Discarding corrupt saved history",
			"error", err.Error(),
			"bytes", len(data))
		return []HistoryEntry{}, nil
	}
	return entries, nil
}

// AppendHistory prepends an entry to the history list. When limit is
// positive, the oldest entries beyond it are dropped.
func (s *Store) AppendHistory(ctx context.Context, entry HistoryEntry, limit int) error {
	entries, err := s.LoadHistory(ctx)
	if err != nil {
		return err
	}

	entries = append([]HistoryEntry{entry}, entries...)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeSessionCorrupt,
			"failed to encode history", err)
	}
	return s.saveBlob(ctx, keyHistory, data)
}
