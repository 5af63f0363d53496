package exporter

import (
	"encoding/json"
	"time"

	"github.com/nikbrunner/logbook/internal/model"
)

// FormatVersion is written to every JSON export.
const FormatVersion = "2.0"

// Document is the JSON export layout.
type Document struct {
	Entries    []model.Entry `json:"entries"`
	Tags       []string      `json:"tags"`
	Version    string        `json:"version"`
	ExportDate string        `json:"exportDate"`
}

// ExportJSON renders the structured export. Blog entries keep their stored
// order; media logs are sorted by event date.
func ExportJSON(in Input) ([]byte, error) {
	entries := in.Entries
	if in.Variant == model.VariantMediaLog {
		entries = model.SortByDatetimeDesc(entries)
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := Document{
		Entries:    entries,
		Tags:       tags,
		Version:    FormatVersion,
		ExportDate: in.Now.Format(time.RFC3339),
	}
	return json.MarshalIndent(doc, "", "  ")
}
