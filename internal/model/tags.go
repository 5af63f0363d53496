package model

import "strings"

// SplitTags splits user input on ASCII and full-width commas, trims each
// name, and drops blanks and repeats.
func SplitTags(input string) []string {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '，'
	})
	return NormalizeTags(parts)
}

// NormalizeTags trims names and removes blanks and exact duplicates,
// keeping first-seen order. It never returns nil.
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}

// HasTag reports whether the registry contains name. Matching is case-sensitive.
func (s *Store) HasTag(name string) bool {
	for _, t := range s.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// AddTags registers every comma-separated name in input that is not
// registered yet and returns the names that were added.
func (s *Store) AddTags(input string) []string {
	var added []string
	for _, name := range SplitTags(input) {
		if s.HasTag(name) {
			continue
		}
		s.Tags = append(s.Tags, name)
		added = append(added, name)
	}
	return added
}

// RemoveTag drops name from the registry. Entries keep their references.
// It reports whether the name was registered.
func (s *Store) RemoveTag(name string) bool {
	for i, t := range s.Tags {
		if t == name {
			s.Tags = append(s.Tags[:i], s.Tags[i+1:]...)
			return true
		}
	}
	return false
}
