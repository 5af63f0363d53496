// Package importer reads JSON documents and standalone HTML exports back
// into entries and tags.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/logbook/internal/model"
)

var (
	// ErrFormat is returned when a payload is not a recognized export.
	ErrFormat = errors.New("unrecognized import format")
	// ErrUnsupportedFile is returned for file extensions that cannot be imported.
	ErrUnsupportedFile = errors.New("unsupported import file")
)

// Source records how a payload was recovered.
type Source string

const (
	SourceJSON       Source = "json"
	SourceHTMLData   Source = "html-data"
	SourceHTMLScrape Source = "html-scrape" // lossy: ids and timestamps are synthesized
)

// Payload is the parsed content of an import file.
type Payload struct {
	Entries []model.Entry
	Tags    []string
	Source  Source
}

// ParseFile parses the file at path, choosing the parser by extension.
// Unsupported extensions fail before the file is opened.
func ParseFile(path string) (Payload, error) {
	parse, err := parserFor(path)
	if err != nil {
		return Payload{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Payload{}, err
	}
	defer f.Close()

	return parse(f)
}

// Parse parses r, choosing the parser by the extension of name.
func Parse(name string, r io.Reader) (Payload, error) {
	parse, err := parserFor(name)
	if err != nil {
		return Payload{}, err
	}
	return parse(r)
}

func parserFor(name string) (func(io.Reader) (Payload, error), error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return ParseJSON, nil
	case ".html", ".htm":
		return ParseHTML, nil
	}
	return nil, fmt.Errorf("%w: %s (expected .json or .html)", ErrUnsupportedFile, filepath.Base(name))
}
