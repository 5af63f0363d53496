package model

import "time"

// ImportMerge adds imported entries whose id is not already present and
// unions the imported tag names into the registry. Missing ids, timestamps
// and tag lists are backfilled first. Returns counts of added and skipped
// entries.
func (s *Store) ImportMerge(entries []Entry, tags []string) (added, skipped int) {
	now := time.Now()

	existing := make(map[string]bool, len(s.Entries))
	for _, e := range s.Entries {
		existing[e.ID] = true
	}

	var incomingTags []string
	incomingTags = append(incomingTags, tags...)

	for _, e := range entries {
		Backfill(&e, now)
		if existing[e.ID] {
			skipped++
			continue
		}
		existing[e.ID] = true
		s.Entries = append(s.Entries, e)
		incomingTags = append(incomingTags, e.Tags...)
		added++
	}

	for _, name := range NormalizeTags(incomingTags) {
		if !s.HasTag(name) {
			s.Tags = append(s.Tags, name)
		}
	}

	return added, skipped
}
