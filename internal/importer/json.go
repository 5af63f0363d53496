package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nikbrunner/logbook/internal/model"
)

// document covers every object layout that has been exported over time.
type document struct {
	Entries *[]model.Entry `json:"entries"`
	Blogs   *[]model.Entry `json:"blogs"`
	Records *[]model.Entry `json:"records"`
	Tags    []string       `json:"tags"`
}

// ParseJSON accepts a bare array of entries or an object holding them under
// "entries" (or the older "blogs"/"records") with an optional "tags" list.
func ParseJSON(r io.Reader) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Payload{}, fmt.Errorf("%w: empty file", ErrFormat)
	}

	switch data[0] {
	case '[':
		var entries []model.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return Payload{Entries: entries, Source: SourceJSON}, nil

	case '{':
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		var entries *[]model.Entry
		for _, candidate := range []*[]model.Entry{doc.Entries, doc.Blogs, doc.Records} {
			if candidate != nil {
				entries = candidate
				break
			}
		}
		if entries == nil {
			return Payload{}, fmt.Errorf("%w: no entries field", ErrFormat)
		}
		return Payload{Entries: *entries, Tags: doc.Tags, Source: SourceJSON}, nil
	}

	return Payload{}, fmt.Errorf("%w: expected a JSON array or object", ErrFormat)
}
