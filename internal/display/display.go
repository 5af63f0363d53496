// Package display turns entries into the formatted records shared by the
// exporters, the preview server and the terminal UI.
package display

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/logbook/internal/model"
)

const (
	TimeLayout = "2006/01/02 15:04"
	DateLayout = "2006/01/02"

	excerptLength = 150
)

// Record is an entry prepared for display. Every field is plain text; HTML
// escaping is left to the renderer.
type Record struct {
	ID       string
	ShortID  string // "#" + last four characters of the id
	Title    string
	Body     string
	Excerpt  string
	When     string // event time
	Date     string // event date
	ISODate  string // event date as YYYY-MM-DD
	Created  string
	Updated  string
	Tags     []string
	TagLine  string
	Category string // label
	Kind     model.Category
	Director string
	Stars    string
	Rating   string

	HasMedia  bool
	MediaType model.MediaType
	MediaURL  template.URL // only set for data:image/ and data:video/ URIs
	MediaNote string
	Thumbnail template.URL
}

// Formatter builds Records in a fixed time zone.
type Formatter struct {
	Location *time.Location
}

// NewFormatter returns a Formatter for loc; nil means time.Local.
func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.Local
	}
	return Formatter{Location: loc}
}

// Format builds the display record for e.
func (f Formatter) Format(e model.Entry) Record {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}

	r := Record{
		ID:       e.ID,
		ShortID:  ShortID(e.ID),
		Title:    e.Title,
		Body:     e.Content,
		Excerpt:  Excerpt(e.Content, excerptLength),
		Tags:     e.Tags,
		TagLine:  TagLine(e.Tags),
		Kind:     e.Category,
		Director: e.Director,
		Stars:    Stars(e.Rating),
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if e.Category != "" {
		r.Category = e.Category.Label()
	}
	if e.Rating != nil {
		r.Rating = strconv.FormatFloat(*e.Rating, 'f', -1, 64)
	}

	if !e.Datetime.IsZero() {
		t := e.Datetime.In(loc)
		r.When = t.Format(TimeLayout)
		r.Date = t.Format(DateLayout)
		r.ISODate = t.Format("2006-01-02")
	}
	if !e.Created.IsZero() {
		r.Created = e.Created.In(loc).Format(TimeLayout)
	}
	if e.Updated != nil {
		r.Updated = e.Updated.In(loc).Format(TimeLayout)
	}

	if e.Media != "" {
		r.HasMedia = true
		r.MediaType = e.MediaType
		r.MediaNote = MediaNote(e.MediaType)
		if TrustedMediaURL(e.Media) {
			r.MediaURL = template.URL(e.Media)
		}
	}

	return r
}

// FormatAll formats every entry.
func (f Formatter) FormatAll(entries []model.Entry) []Record {
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = f.Format(e)
	}
	return records
}

// ShortID returns "#" followed by the last four characters of id.
func ShortID(id string) string {
	runes := []rune(id)
	if len(runes) > 4 {
		runes = runes[len(runes)-4:]
	}
	return "#" + string(runes)
}

// TagLine joins tags with ", " or returns "none".
func TagLine(tags []string) string {
	if len(tags) == 0 {
		return "none"
	}
	return strings.Join(tags, ", ")
}

// Excerpt returns the first n runes of s followed by "..." when truncated.
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// MediaNote describes an attachment in one line.
func MediaNote(t model.MediaType) string {
	if t == model.MediaVideo {
		return "[contains video]"
	}
	return "[contains image]"
}

// TrustedMediaURL reports whether uri is an inline image or video data URI.
func TrustedMediaURL(uri string) bool {
	return strings.HasPrefix(uri, "data:image/") || strings.HasPrefix(uri, "data:video/")
}
