package model

import (
	"fmt"
	"time"
)

// Store holds the entry collection and the tag registry, both in insertion order.
type Store struct {
	Entries []Entry  `json:"entries"`
	Tags    []string `json:"tags"`
}

// NewStore creates an empty Store with initialized slices.
func NewStore() *Store {
	return &Store{
		Entries: []Entry{},
		Tags:    []string{},
	}
}

// GetEntryByID finds an entry by ID, returns nil if not found.
func (s *Store) GetEntryByID(id string) *Entry {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			return &s.Entries[i]
		}
	}
	return nil
}

// HasEntryID reports whether an entry with the id exists.
func (s *Store) HasEntryID(id string) bool {
	return s.GetEntryByID(id) != nil
}

// AddEntry appends an entry to the collection.
func (s *Store) AddEntry(e Entry) error {
	if s.HasEntryID(e.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	s.Entries = append(s.Entries, e)
	return nil
}

// UpdateEntry applies an edit to an existing entry. Empty media and a zero
// datetime keep the current values. The merged entry is validated before the
// store is touched.
func (s *Store) UpdateEntry(variant Variant, id string, params NewEntryParams) (Entry, error) {
	existing := s.GetEntryByID(id)
	if existing == nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated := *existing
	updated.Content = params.Content
	updated.Title = params.Title
	updated.Category = params.Category
	updated.Director = params.Director
	updated.Rating = params.Rating
	updated.Tags = NormalizeTags(params.Tags)

	switch {
	case params.Media != "":
		updated.Media = params.Media
		updated.MediaType = params.MediaType
	case params.ClearMedia:
		updated.Media = ""
		updated.MediaType = ""
	}
	if !params.Datetime.IsZero() {
		updated.Datetime = params.Datetime
	}

	if err := updated.Validate(variant); err != nil {
		return Entry{}, err
	}

	now := time.Now()
	updated.Updated = &now
	*existing = updated
	return updated, nil
}

// DeleteEntry removes an entry by id.
func (s *Store) DeleteEntry(id string) error {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Clear removes every entry. The tag registry is kept.
func (s *Store) Clear() {
	s.Entries = []Entry{}
}

// Stats summarizes the store.
type Stats struct {
	Entries    int
	Tags       int
	WithMedia  int
	ByCategory map[Category]int
}

// Stats counts entries, tags, attachments, and entries per category.
func (s *Store) Stats() Stats {
	st := Stats{
		Entries:    len(s.Entries),
		Tags:       len(s.Tags),
		ByCategory: make(map[Category]int),
	}
	for _, e := range s.Entries {
		if e.Media != "" {
			st.WithMedia++
		}
		if e.Category != "" {
			st.ByCategory[e.Category]++
		}
	}
	return st
}
