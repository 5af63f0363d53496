// Package exporter renders entries as a JSON document, a standalone HTML
// page, or a plain-text digest.
package exporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/logbook/internal/model"
)

var (
	// ErrExport wraps any failure while generating an export.
	ErrExport = errors.New("export failed")
	// ErrUnknownFormat is returned for an unsupported format name.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Format is an export format. Its value is the file extension.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatText Format = "txt"
)

// ParseFormat maps a name or extension onto a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json":
		return FormatJSON, nil
	case "html", "htm":
		return FormatHTML, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Input is everything an export needs.
type Input struct {
	Variant  model.Variant
	Entries  []model.Entry
	Tags     []string
	Now      time.Time
	Location *time.Location
	Title    string // defaults per variant

	// Thumbnails replaces inline images in the rendered HTML list with
	// downscaled copies. The embedded data keeps the originals.
	Thumbnails     bool
	ThumbnailWidth int
}

// Payload is a finished export.
type Payload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Export renders in as format. The payload is complete or absent: on error
// no data is returned.
func Export(format Format, prefix string, in Input) (p Payload, err error) {
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	if in.Location == nil {
		in.Location = time.Local
	}
	if in.Title == "" {
		in.Title = DefaultTitle(in.Variant)
	}

	defer func() {
		if r := recover(); r != nil {
			p, err = Payload{}, fmt.Errorf("%w: %v", ErrExport, r)
		}
	}()

	var data []byte
	switch format {
	case FormatJSON:
		data, err = ExportJSON(in)
	case FormatHTML:
		data, err = ExportHTML(in)
	case FormatText:
		data = []byte(ExportText(in))
	default:
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrExport, err)
	}

	return Payload{
		Name:        FileName(prefix, format, in.Now),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Selection returns filtered when it has entries, otherwise all.
func Selection(all, filtered []model.Entry) []model.Entry {
	if len(filtered) > 0 {
		return filtered
	}
	return all
}

// FileName builds "<prefix>_<YYYY-MM-DD>.<ext>".
func FileName(prefix string, format Format, now time.Time) string {
	if prefix == "" {
		prefix = "logbook"
	}
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("2006-01-02"), format)
}

// DefaultExportDir returns ~/Downloads.
func DefaultExportDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Downloads"), nil
}

// DefaultPrefix returns the file name prefix for a variant.
func DefaultPrefix(v model.Variant) string {
	if v == model.VariantMediaLog {
		return "media_log"
	}
	return "blog"
}

// DefaultTitle returns the document title for a variant.
func DefaultTitle(v model.Variant) string {
	if v == model.VariantMediaLog {
		return "Media Log"
	}
	return "Blog Archive"
}

// ordered returns the entries in presentation order: media logs by event
// date, blogs newest-created first.
func ordered(in Input) []model.Entry {
	if in.Variant == model.VariantMediaLog {
		return model.SortByDatetimeDesc(in.Entries)
	}
	return model.SortByCreatedDesc(in.Entries)
}
