package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order when reading timestamps written by older
// versions or typed by hand. Layouts without a zone are read in local time.
var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses RFC 3339 or one of the wall-clock layouts.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// entryWire is the permissive on-disk shape. It accepts both the current
// field names and the older media-log ones (notes, image, date, createdAt,
// updatedAt), numeric ids, and numeric or string ratings.
type entryWire struct {
	ID        json.RawMessage `json:"id"`
	Content   string          `json:"content"`
	Notes     string          `json:"notes"`
	Media     string          `json:"media"`
	Image     string          `json:"image"`
	MediaType MediaType       `json:"mediaType"`
	Tags      []string        `json:"tags"`
	Datetime  json.RawMessage `json:"datetime"`
	Date      json.RawMessage `json:"date"`
	Created   json.RawMessage `json:"created"`
	CreatedAt json.RawMessage `json:"createdAt"`
	Updated   json.RawMessage `json:"updated"`
	UpdatedAt json.RawMessage `json:"updatedAt"`
	Title     string          `json:"title"`
	Category  Category        `json:"type"`
	Director  string          `json:"director"`
	Rating    json.RawMessage `json:"rating"`
}

// UnmarshalJSON decodes an entry, tolerating legacy field names and types.
// Missing fields are left zero for Backfill to handle.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w entryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*e = Entry{
		ID:        rawID(w.ID),
		Content:   firstNonEmpty(w.Content, w.Notes),
		Media:     firstNonEmpty(w.Media, w.Image),
		MediaType: w.MediaType,
		Tags:      w.Tags,
		Datetime:  firstTime(w.Datetime, w.Date),
		Created:   firstTime(w.Created, w.CreatedAt),
		Title:     w.Title,
		Category:  w.Category,
		Director:  w.Director,
		Rating:    rawRating(w.Rating),
	}
	if updated := firstTime(w.Updated, w.UpdatedAt); !updated.IsZero() {
		e.Updated = &updated
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// rawID keeps string ids as-is and renders numeric ids as their literal text.
func rawID(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func rawTime(raw json.RawMessage) time.Time {
	if isNull(raw) {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, _ := ParseTimestamp(s)
		return t
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return time.UnixMilli(ms)
	}
	return time.Time{}
}

func firstTime(raws ...json.RawMessage) time.Time {
	for _, raw := range raws {
		if t := rawTime(raw); !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

func rawRating(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &f
		}
	}
	return nil
}
