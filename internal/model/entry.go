package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Entry is one user-authored record: a blog post or a media-log item.
type Entry struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Media     string     `json:"media,omitempty"` // data URI
	MediaType MediaType  `json:"mediaType,omitempty"`
	Tags      []string   `json:"tags"`
	Datetime  time.Time  `json:"datetime"` // when the logged event happened
	Created   time.Time  `json:"created"`
	Updated   *time.Time `json:"updated"` // nil = never edited

	// Media-log fields.
	Title    string   `json:"title,omitempty"`
	Category Category `json:"type,omitempty"`
	Director string   `json:"director,omitempty"`
	Rating   *float64 `json:"rating,omitempty"` // nil = unrated
}

// NewEntryParams holds parameters for creating or editing an Entry.
type NewEntryParams struct {
	Content   string
	Media     string
	MediaType MediaType
	Tags      []string
	Datetime  time.Time // zero = now on create, unchanged on edit

	Title    string
	Category Category
	Director string
	Rating   *float64

	// ClearMedia drops the existing attachment on edit.
	ClearMedia bool
}

// NewEntry creates a validated Entry with a generated id and timestamps.
func NewEntry(variant Variant, params NewEntryParams) (Entry, error) {
	now := time.Now()

	e := Entry{
		ID:        NewID(),
		Content:   params.Content,
		Media:     params.Media,
		MediaType: params.MediaType,
		Tags:      NormalizeTags(params.Tags),
		Datetime:  params.Datetime,
		Created:   now,
		Updated:   nil,
		Title:     strings.TrimSpace(params.Title),
		Category:  params.Category,
		Director:  strings.TrimSpace(params.Director),
		Rating:    params.Rating,
	}
	if e.Datetime.IsZero() {
		e.Datetime = now
	}
	if e.Media == "" {
		e.MediaType = ""
	}

	if err := e.Validate(variant); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the creation-time requirements for the given variant.
func (e Entry) Validate(variant Variant) error {
	if e.Media != "" && e.MediaType != MediaImage && e.MediaType != MediaVideo {
		return fmt.Errorf("%w: unknown media type %q", ErrValidation, e.MediaType)
	}

	if variant == VariantMediaLog {
		if e.Title == "" {
			return fmt.Errorf("%w: title is required", ErrValidation)
		}
		if !e.Category.Valid() {
			return fmt.Errorf("%w: unknown type %q", ErrValidation, e.Category)
		}
		if e.Rating != nil && (math.IsNaN(*e.Rating) || *e.Rating < 0 || *e.Rating > 10) {
			return fmt.Errorf("%w: rating must be between 0 and 10", ErrValidation)
		}
		if e.Media != "" && e.MediaType != MediaImage {
			return fmt.Errorf("%w: only images can be attached to a record", ErrValidation)
		}
		return nil
	}

	if strings.TrimSpace(e.Content) == "" && e.Title == "" && e.Media == "" {
		return fmt.Errorf("%w: content or media is required", ErrValidation)
	}
	return nil
}

// HasTag reports whether the entry references the tag (exact match).
func (e Entry) HasTag(name string) bool {
	for _, t := range e.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// Backfill fills missing fields with defaults. Used on load and on import;
// it never rejects an entry.
func Backfill(e *Entry, now time.Time) {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.Created.IsZero() {
		e.Created = now
	}
	if e.Datetime.IsZero() {
		e.Datetime = e.Created
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.Updated != nil && e.Updated.IsZero() {
		e.Updated = nil
	}
	if e.Media != "" && e.MediaType == "" {
		e.MediaType = MediaTypeOf(e.Media)
	}
	if e.Media == "" {
		e.MediaType = ""
	}
}

// MediaTypeOf guesses the media type from a data URI.
func MediaTypeOf(dataURI string) MediaType {
	if strings.HasPrefix(dataURI, "data:video/") {
		return MediaVideo
	}
	return MediaImage
}
