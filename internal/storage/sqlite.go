package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/logbook/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStorage implements Storage using a SQLite database. Several
// collections can share one database file; rows are scoped by key.
type SQLiteStorage struct {
	db   *sql.DB
	path string
	opts Options
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string, opts Options) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas below are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path, opts: opts}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}
	if version >= currentSchemaVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS collections (
			key TEXT PRIMARY KEY NOT NULL,
			saved_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS entries (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			media TEXT NOT NULL DEFAULT '',
			media_type TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			datetime TEXT NOT NULL,
			created TEXT NOT NULL,
			updated TEXT,
			title TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			director TEXT NOT NULL DEFAULT '',
			rating REAL,
			PRIMARY KEY (collection, id)
		);

		CREATE INDEX IF NOT EXISTS idx_entries_position ON entries(collection, position);

		CREATE TABLE IF NOT EXISTS tags (
			collection TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (collection, name)
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads both collections. A tags key that was never saved loads as
// the starter tags; stored entries are backfilled.
func (s *SQLiteStorage) Load() (*model.Store, error) {
	entries, err := s.loadEntries()
	if err != nil {
		return nil, err
	}

	var saved int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM collections WHERE key = ?", s.opts.Keys.Tags,
	).Scan(&saved); err != nil {
		return nil, err
	}

	var tags []string
	if saved == 0 {
		tags = append([]string{}, s.opts.StarterTags...)
	} else if tags, err = s.loadTags(); err != nil {
		return nil, err
	}

	return newLoadedStore(entries, tags), nil
}

func (s *SQLiteStorage) loadEntries() ([]model.Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, content, media, media_type, tags, datetime, created, updated,
			title, category, director, rating
		FROM entries
		WHERE collection = ?
		ORDER BY position
	`, s.opts.Keys.Entries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		var e model.Entry
		var mediaType, category string
		var tagsJSON string
		var datetimeStr, createdStr string
		var updatedStr sql.NullString
		var rating sql.NullFloat64

		if err := rows.Scan(
			&e.ID, &e.Content, &e.Media, &mediaType, &tagsJSON,
			&datetimeStr, &createdStr, &updatedStr,
			&e.Title, &category, &e.Director, &rating,
		); err != nil {
			return nil, err
		}

		e.MediaType = model.MediaType(mediaType)
		e.Category = model.Category(category)

		if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
			e.Tags = []string{}
		}

		e.Datetime, _ = time.Parse(time.RFC3339Nano, datetimeStr)
		e.Created, _ = time.Parse(time.RFC3339Nano, createdStr)
		if updatedStr.Valid {
			if t, err := time.Parse(time.RFC3339Nano, updatedStr.String); err == nil {
				e.Updated = &t
			}
		}
		if rating.Valid {
			r := rating.Float64
			e.Rating = &r
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *SQLiteStorage) loadTags() ([]string, error) {
	rows, err := s.db.Query(
		"SELECT name FROM tags WHERE collection = ? ORDER BY position", s.opts.Keys.Tags,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// Save writes both collections to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(store *model.Store) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Clear existing data
	if _, err := tx.Exec("DELETE FROM entries WHERE collection = ?", s.opts.Keys.Entries); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM tags WHERE collection = ?", s.opts.Keys.Tags); err != nil {
		return err
	}

	entryStmt, err := tx.Prepare(`
		INSERT INTO entries (collection, id, position, content, media, media_type, tags,
			datetime, created, updated, title, category, director, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer entryStmt.Close()

	for i, e := range store.Entries {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return err
		}

		var updated *string
		if e.Updated != nil {
			u := e.Updated.Format(time.RFC3339Nano)
			updated = &u
		}

		if _, err := entryStmt.Exec(
			s.opts.Keys.Entries, e.ID, i,
			e.Content, e.Media, string(e.MediaType), string(tagsJSON),
			e.Datetime.Format(time.RFC3339Nano), e.Created.Format(time.RFC3339Nano), updated,
			e.Title, string(e.Category), e.Director, e.Rating,
		); err != nil {
			return err
		}
	}

	tagStmt, err := tx.Prepare("INSERT INTO tags (collection, name, position) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer tagStmt.Close()

	for i, name := range store.Tags {
		if _, err := tagStmt.Exec(s.opts.Keys.Tags, name, i); err != nil {
			return err
		}
	}

	savedAt := time.Now().Format(time.RFC3339)
	for _, key := range []string{s.opts.Keys.Entries, s.opts.Keys.Tags} {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO collections (key, saved_at) VALUES (?, ?)", key, savedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
