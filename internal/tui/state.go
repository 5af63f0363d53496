package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/logbook/internal/filter"
	"github.com/nikbrunner/logbook/internal/model"
	"github.com/nikbrunner/logbook/internal/tui/layout"
)

// Mode is the current interaction mode.
type Mode int

const (
	ModeNormal        Mode = iota
	ModeKeyword            // typing into the keyword box
	ModeConfirmDelete      // waiting for y/n
	ModeHelp               // key binding overlay
)

// MessageType selects how the status message is styled.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// messageTimeout is how long a status message stays visible.
const messageTimeout = 4 * time.Second

// clearMessageMsg clears the status message if no newer one replaced it.
type clearMessageMsg struct {
	seq int
}

// FilterState holds the filter controls shown above the list.
type FilterState struct {
	Keyword   textinput.Model
	TagCursor int // index into the tag registry
}

// NewFilterState creates a FilterState with an initialized keyword input.
func NewFilterState(cfg layout.LayoutConfig) FilterState {
	input := textinput.New()
	input.Placeholder = "keyword..."
	input.Prompt = "/"
	input.CharLimit = cfg.Input.KeywordCharLimit
	input.Width = cfg.Input.KeywordWidth
	return FilterState{Keyword: input}
}

// Reset clears the keyword input and moves the tag cursor home.
func (f *FilterState) Reset() {
	f.Keyword.Reset()
	f.Keyword.Blur()
	f.TagCursor = 0
}

// nextTagMode cycles all -> any -> allSelected -> all.
func nextTagMode(m filter.TagMode) filter.TagMode {
	switch m {
	case filter.TagAny:
		return filter.TagAllSelected
	case filter.TagAllSelected:
		return filter.TagAll
	}
	return filter.TagAny
}

// nextCategory cycles every category -> movie -> tv -> documentary -> book.
func nextCategory(c model.Category) model.Category {
	if c == "" || c == "all" {
		return model.Categories[0]
	}
	for i, cat := range model.Categories {
		if cat == c && i+1 < len(model.Categories) {
			return model.Categories[i+1]
		}
	}
	return ""
}

// nextTimeMode cycles all -> this year -> this month -> today -> all, with
// values taken from now.
func nextTimeMode(spec filter.Spec, now time.Time) filter.Spec {
	year, month := now.Year(), int(now.Month())
	today := filter.Date{Year: year, Month: now.Month(), Day: now.Day()}

	switch spec.Time {
	case filter.TimeYear:
		spec.Time = filter.TimeMonth
		spec.Values = filter.TimeValues{Year: &year, Month: &month}
	case filter.TimeMonth:
		spec.Time = filter.TimeDay
		spec.Values = filter.TimeValues{Day: &today}
	case filter.TimeDay, filter.TimeRange:
		spec.Time = filter.TimeAll
		spec.Values = filter.TimeValues{}
	default:
		spec.Time = filter.TimeYear
		spec.Values = filter.TimeValues{Year: &year}
	}
	return spec
}

// timeLabel describes the active time clause.
func timeLabel(spec filter.Spec) string {
	v := spec.Values
	switch spec.Time {
	case filter.TimeYear:
		if v.Year != nil {
			return time.Date(*v.Year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
		}
	case filter.TimeMonth:
		if v.Year != nil && v.Month != nil {
			return time.Date(*v.Year, time.Month(*v.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
		}
	case filter.TimeDay:
		if v.Day != nil {
			return v.Day.String()
		}
	case filter.TimeRange:
		from, to := "...", "..."
		if v.Start != nil {
			from = v.Start.String()
		}
		if v.End != nil {
			to = v.End.String()
		}
		return from + " to " + to
	}
	return "all"
}
