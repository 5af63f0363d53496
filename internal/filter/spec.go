// Package filter selects the entries matching a keyword, time and tag criteria.
package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/logbook/internal/model"
)

// ErrUnknownMode is returned when a time mode, tag mode or category is not recognized.
var ErrUnknownMode = errors.New("unknown filter mode")

// TimeMode selects which time clause is active.
type TimeMode string

const (
	TimeAll   TimeMode = "all"
	TimeYear  TimeMode = "year"
	TimeMonth TimeMode = "month"
	TimeDay   TimeMode = "day"
	TimeRange TimeMode = "range"
)

// TagMode selects how the selected tags are matched.
type TagMode string

const (
	TagAll         TagMode = "all" // tag filtering disabled
	TagAny         TagMode = "any"
	TagAllSelected TagMode = "allSelected"
)

// Date is a calendar date without a time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, false
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
}

// Start returns midnight of the date in loc.
func (d Date) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// End returns the last millisecond of the date in loc.
func (d Date) End(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, int(999*time.Millisecond), loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeValues holds the inputs of the time clauses. A nil field means the
// value was not given (or could not be parsed) and disables its clause.
type TimeValues struct {
	Year  *int
	Month *int
	Day   *Date
	Start *Date
	End   *Date
}

// RawTimeValues is TimeValues as typed by the user.
type RawTimeValues struct {
	Year  string
	Month string
	Day   string
	Start string
	End   string
}

// ParseTimeValues converts raw inputs. Anything unparsable is left unset.
func ParseTimeValues(raw RawTimeValues) TimeValues {
	var v TimeValues
	if y, err := strconv.Atoi(strings.TrimSpace(raw.Year)); err == nil && y > 0 {
		v.Year = &y
	}
	if m, err := strconv.Atoi(strings.TrimSpace(raw.Month)); err == nil && m >= 1 && m <= 12 {
		v.Month = &m
	}
	if d, ok := ParseDate(raw.Day); ok {
		v.Day = &d
	}
	if d, ok := ParseDate(raw.Start); ok {
		v.Start = &d
	}
	if d, ok := ParseDate(raw.End); ok {
		v.End = &d
	}
	return v
}

// Spec is the combined filter criteria. The zero value matches everything.
type Spec struct {
	Keyword  string
	Time     TimeMode
	Values   TimeValues
	TagMode  TagMode
	Selected []string
	Category model.Category // empty or "all" = every category

	// Location is used to compute calendar fields of event times.
	// Nil means time.Local.
	Location *time.Location
}

// Reset returns the default spec, keeping only the location.
func (s Spec) Reset() Spec {
	return Spec{Time: TimeAll, TagMode: TagAll, Location: s.Location}
}

// IsZero reports whether no clause would filter anything out.
func (s Spec) IsZero() bool {
	return strings.TrimSpace(s.Keyword) == "" &&
		!s.timeActive() &&
		!s.tagsActive() &&
		!s.categoryActive()
}

func (s Spec) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func (s Spec) timeActive() bool {
	v := s.Values
	switch s.Time {
	case TimeYear:
		return v.Year != nil
	case TimeMonth:
		return v.Year != nil && v.Month != nil
	case TimeDay:
		return v.Day != nil
	case TimeRange:
		return v.Start != nil && v.End != nil
	}
	return false
}

func (s Spec) tagsActive() bool {
	return (s.TagMode == TagAny || s.TagMode == TagAllSelected) && len(s.Selected) > 0
}

func (s Spec) categoryActive() bool {
	return s.Category != "" && s.Category != "all"
}

// ParseTimeMode maps a string onto a TimeMode. Empty means TimeAll.
func ParseTimeMode(s string) (TimeMode, error) {
	switch m := TimeMode(strings.TrimSpace(s)); m {
	case "":
		return TimeAll, nil
	case TimeAll, TimeYear, TimeMonth, TimeDay, TimeRange:
		return m, nil
	}
	return "", fmt.Errorf("%w: time %q", ErrUnknownMode, s)
}

// ParseTagMode maps a string onto a TagMode. Empty means TagAll.
func ParseTagMode(s string) (TagMode, error) {
	switch m := TagMode(strings.TrimSpace(s)); m {
	case "":
		return TagAll, nil
	case TagAll, TagAny, TagAllSelected:
		return m, nil
	case "every":
		return TagAllSelected, nil
	}
	return "", fmt.Errorf("%w: tag mode %q", ErrUnknownMode, s)
}

// Raw is a Spec in string form, as it arrives from flags or query strings.
type Raw struct {
	Keyword  string
	Time     string
	Values   RawTimeValues
	TagMode  string
	Tags     []string
	Category string
}

// Spec converts the raw values. Only unknown modes are errors; bad numbers
// and dates silently disable their clause.
func (r Raw) Spec(loc *time.Location) (Spec, error) {
	timeMode, err := ParseTimeMode(r.Time)
	if err != nil {
		return Spec{}, err
	}
	tagMode, err := ParseTagMode(r.TagMode)
	if err != nil {
		return Spec{}, err
	}

	category := model.Category(strings.TrimSpace(r.Category))
	if category != "" && category != "all" && !category.Valid() {
		return Spec{}, fmt.Errorf("%w: category %q", ErrUnknownMode, r.Category)
	}

	var selected []string
	for _, t := range r.Tags {
		selected = append(selected, model.SplitTags(t)...)
	}

	// A tag selection without an explicit mode means "has every tag".
	if strings.TrimSpace(r.TagMode) == "" && len(selected) > 0 {
		tagMode = TagAllSelected
	}

	return Spec{
		Keyword:  r.Keyword,
		Time:     timeMode,
		Values:   ParseTimeValues(r.Values),
		TagMode:  tagMode,
		Selected: model.NormalizeTags(selected),
		Category: category,
		Location: loc,
	}, nil
}
