// Package store persists the profile collection. The whole collection is
// serialized as one JSON document kept under a fixed key in a SQLite
// key/value table, and replaced wholesale on every mutation.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abhisek/egotutor/internal/profile"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// profilesKey is the fixed key the profile document lives under.
const profilesKey = "profiles"

// Store owns all persisted profile, lesson, and message data. Callers hold
// only transient copies and reconcile through Load/SaveAll/Append/Delete.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open creates a Store backed by the SQLite database at dsn. It applies
// recommended pragmas and creates the key/value table if missing.
func Open(dsn string, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}
	return &Store{db: db, log: log}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the entire persisted profile collection. A missing document,
// malformed JSON, or a document that fails schema validation all surface as
// an empty collection, never as an error.
func (s *Store) Load() []profile.Profile {
	var raw []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, profilesKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		s.log.Warn("read profile document failed, starting empty", "error", err)
		return nil
	}

	if err := validateDocument(raw); err != nil {
		s.log.Warn("profile document failed validation, starting empty", "error", err)
		return nil
	}

	var profiles []profile.Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		s.log.Warn("parse profile document failed, starting empty", "error", err)
		return nil
	}
	return profiles
}

// SaveAll replaces the persisted collection wholesale.
func (s *Store) SaveAll(profiles []profile.Profile) error {
	if profiles == nil {
		profiles = []profile.Profile{}
	}
	raw, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, profilesKey, raw)
	if err != nil {
		return fmt.Errorf("write profile document: %w", err)
	}
	return nil
}

// Append adds a lesson to the front of the named profile's lesson sequence
// and persists the updated collection.
func (s *Store) Append(profileID string, lesson profile.Lesson) error {
	profiles := s.Load()
	found := false
	for i := range profiles {
		if profiles[i].ID == profileID {
			profiles[i].Lessons = append([]profile.Lesson{lesson}, profiles[i].Lessons...)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("profile %q not found", profileID)
	}
	return s.SaveAll(profiles)
}

// Delete removes the named profile, along with all its lessons.
func (s *Store) Delete(profileID string) error {
	profiles := s.Load()
	kept := profiles[:0]
	for _, p := range profiles {
		if p.ID != profileID {
			kept = append(kept, p)
		}
	}
	return s.SaveAll(kept)
}

// RawDocument returns the persisted document bytes, for inspection and
// byte-stability checks. Returns nil when no document exists.
func (s *Store) RawDocument() []byte {
	var raw []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, profilesKey).Scan(&raw)
	if err != nil {
		return nil
	}
	return raw
}

// applyPragmas configures SQLite for single-user desktop use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. EGOTUTOR_DB environment variable
// 2. $XDG_DATA_HOME/egotutor/egotutor.db
// 3. ~/.local/share/egotutor/egotutor.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("EGOTUTOR_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "egotutor", "egotutor.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
