package filter

import (
	"strings"

	"github.com/nikbrunner/logbook/internal/model"
)

// Apply returns the entries matching every active clause of spec, in input
// order. Clauses with missing inputs pass everything.
func Apply(entries []model.Entry, spec Spec) []model.Entry {
	keyword := strings.ToLower(strings.TrimSpace(spec.Keyword))

	result := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if !matchKeyword(e, keyword) {
			continue
		}
		if !matchTime(e, spec) {
			continue
		}
		if !matchTags(e, spec) {
			continue
		}
		if spec.categoryActive() && e.Category != spec.Category {
			continue
		}
		result = append(result, e)
	}
	return result
}

func matchKeyword(e model.Entry, keyword string) bool {
	if keyword == "" {
		return true
	}
	for _, field := range []string{e.Content, e.Title, e.Director} {
		if field != "" && strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), keyword) {
			return true
		}
	}
	return false
}

func matchTime(e model.Entry, spec Spec) bool {
	if !spec.timeActive() {
		return true
	}

	loc := spec.location()
	t := e.Datetime.In(loc)
	v := spec.Values

	switch spec.Time {
	case TimeYear:
		return t.Year() == *v.Year
	case TimeMonth:
		return t.Year() == *v.Year && int(t.Month()) == *v.Month
	case TimeDay:
		return t.Year() == v.Day.Year && t.Month() == v.Day.Month && t.Day() == v.Day.Day
	case TimeRange:
		return !t.Before(v.Start.Start(loc)) && !t.After(v.End.End(loc))
	}
	return true
}

func matchTags(e model.Entry, spec Spec) bool {
	if !spec.tagsActive() {
		return true
	}

	switch spec.TagMode {
	case TagAny:
		for _, tag := range spec.Selected {
			if e.HasTag(tag) {
				return true
			}
		}
		return false
	case TagAllSelected:
		for _, tag := range spec.Selected {
			if !e.HasTag(tag) {
				return false
			}
		}
		return true
	}
	return true
}
