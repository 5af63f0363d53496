package model

import "sort"

// SortByCreatedDesc returns a copy of entries ordered newest-created first.
func SortByCreatedDesc(entries []Entry) []Entry {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Created.After(sorted[j].Created)
	})
	return sorted
}

// SortByDatetimeDesc returns a copy of entries ordered by event time, latest first.
func SortByDatetimeDesc(entries []Entry) []Entry {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Datetime.After(sorted[j].Datetime)
	})
	return sorted
}
