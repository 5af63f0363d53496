package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/logbook/internal/model"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Entry          *model.Entry
	MatchedIndexes []int // byte offsets into Haystack(Entry)
	Score          int
}

// entryTexts implements fuzzy.Source for an entry slice.
type entryTexts []*model.Entry

func (et entryTexts) String(i int) string {
	return Haystack(*et[i])
}

func (et entryTexts) Len() int {
	return len(et)
}

// Label is the one-line name of an entry: its title, else the first line of
// its content.
func Label(e model.Entry) string {
	if e.Title != "" {
		return e.Title
	}
	first, _, _ := strings.Cut(strings.TrimSpace(e.Content), "\n")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	if e.Media != "" {
		return "[" + string(e.MediaType) + "]"
	}
	return "(untitled)"
}

// Haystack is the text matched against a query: the label followed by the
// director and the flattened content. Indexes below len(Label(e)) fall
// inside the label.
func Haystack(e model.Entry) string {
	parts := []string{Label(e)}
	if e.Director != "" {
		parts = append(parts, e.Director)
	}
	if e.Title != "" && e.Content != "" {
		parts = append(parts, strings.Join(strings.Fields(e.Content), " "))
	} else if _, rest, ok := strings.Cut(strings.TrimSpace(e.Content), "\n"); ok {
		parts = append(parts, strings.Join(strings.Fields(rest), " "))
	}
	return strings.Join(parts, "  ")
}

// FuzzySearchEntries searches entry titles and contents using fuzzy
// matching. Returns results sorted by match score (best first).
func FuzzySearchEntries(entries []model.Entry, query string) []SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	texts := make(entryTexts, len(entries))
	for i := range entries {
		texts[i] = &entries[i]
	}

	matches := fuzzy.FindFrom(query, texts)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Entry:          texts[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
