package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nikbrunner/logbook/internal/model"
)

// Storage defines the interface for persisting the entry collection and the
// tag registry. Save always rewrites both collections completely.
type Storage interface {
	Load() (*model.Store, error)
	Save(store *model.Store) error
}

// Keys names the two stored collections.
type Keys struct {
	Entries string
	Tags    string
}

// DefaultKeys returns the collection names used by each variant.
func DefaultKeys(v model.Variant) Keys {
	if v == model.VariantMediaLog {
		return Keys{Entries: "mediaRecords", Tags: "mediaTags"}
	}
	return Keys{Entries: "pixel_blogs", Tags: "pixel_tags"}
}

// DefaultStarterTags returns the tag set used when no registry is stored yet.
func DefaultStarterTags(v model.Variant) []string {
	if v == model.VariantMediaLog {
		return []string{}
	}
	return []string{"daily", "tech", "thoughts", "notes"}
}

// Options configures a Storage backend.
type Options struct {
	Keys        Keys
	StarterTags []string // registry used when the tags key is absent
}

// JSONStorage implements Storage with one JSON file per key in a directory.
type JSONStorage struct {
	dir  string
	opts Options
}

// NewJSONStorage creates a new JSONStorage rooted at dir.
func NewJSONStorage(dir string, opts Options) *JSONStorage {
	return &JSONStorage{dir: dir, opts: opts}
}

// Dir returns the storage directory.
func (s *JSONStorage) Dir() string {
	return s.dir
}

func (s *JSONStorage) keyPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads both collections. Missing files load as an empty collection and
// the starter tags; stored entries are backfilled.
func (s *JSONStorage) Load() (*model.Store, error) {
	var entries []model.Entry
	entriesFound, err := readKey(s.keyPath(s.opts.Keys.Entries), &entries)
	if err != nil {
		return nil, err
	}
	if !entriesFound {
		entries = []model.Entry{}
	}

	var tags []string
	tagsFound, err := readKey(s.keyPath(s.opts.Keys.Tags), &tags)
	if err != nil {
		return nil, err
	}
	if !tagsFound {
		tags = append([]string{}, s.opts.StarterTags...)
	}

	return newLoadedStore(entries, tags), nil
}

// Save writes both collections.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(store *model.Store) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	if err := writeKey(s.keyPath(s.opts.Keys.Entries), nonNilEntries(store.Entries)); err != nil {
		return err
	}
	return writeKey(s.keyPath(s.opts.Keys.Tags), nonNilTags(store.Tags))
}

func readKey(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func writeKey(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// newLoadedStore backfills loaded entries and ensures slices are not nil.
func newLoadedStore(entries []model.Entry, tags []string) *model.Store {
	now := time.Now()
	for i := range entries {
		model.Backfill(&entries[i], now)
	}
	return &model.Store{
		Entries: nonNilEntries(entries),
		Tags:    nonNilTags(tags),
	}
}

func nonNilEntries(entries []model.Entry) []model.Entry {
	if entries == nil {
		return []model.Entry{}
	}
	return entries
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendAuto   = "auto"
)

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "logbook.db"

// DefaultDataDir returns the default data directory: ~/.config/logbook
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "logbook"), nil
}

// Open opens the backend in dir. "auto" prefers SQLite if the database file
// exists, otherwise falls back to JSON.
func Open(backend, dir string, opts Options) (Storage, error) {
	dbPath := filepath.Join(dir, DatabaseFile)

	switch backend {
	case BackendJSON:
		return NewJSONStorage(dir, opts), nil
	case BackendSQLite:
		return NewSQLiteStorage(dbPath, opts)
	case BackendAuto, "":
		if _, err := os.Stat(dbPath); err == nil {
			return NewSQLiteStorage(dbPath, opts)
		}
		return NewJSONStorage(dir, opts), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
