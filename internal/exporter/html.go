package exporter

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/nikbrunner/logbook/internal/display"
	"github.com/nikbrunner/logbook/internal/media"
	"github.com/nikbrunner/logbook/internal/model"
)

//go:embed templates/standalone.html.tmpl
var templateFS embed.FS

var standaloneTemplate = template.Must(
	template.New("standalone.html.tmpl").ParseFS(templateFS, "templates/standalone.html.tmpl"),
)

type categoryCount struct {
	Label string
	Count int
}

type pageData struct {
	Title      string
	ExportedAt string
	Count      int
	MediaLog   bool
	Records    []display.Record
	Tags       []string
	Stats      []categoryCount
	Data       []model.Entry // embedded as the page's data literal
}

// ExportHTML renders a self-contained page with the entry list, an embedded
// copy of the entries, and an in-page keyword, date-range and tag filter.
func ExportHTML(in Input) ([]byte, error) {
	entries := ordered(in)
	records := display.NewFormatter(in.Location).FormatAll(entries)

	if in.Thumbnails {
		for i := range records {
			if records[i].MediaType != model.MediaImage || records[i].MediaURL == "" {
				continue
			}
			// Undecodable images fall back to the original.
			if thumb, err := media.Thumbnail(string(records[i].MediaURL), in.ThumbnailWidth); err == nil {
				records[i].Thumbnail = template.URL(thumb)
			}
		}
	}

	data := pageData{
		Title:      in.Title,
		ExportedAt: in.Now.In(in.Location).Format(display.TimeLayout),
		Count:      len(records),
		MediaLog:   in.Variant == model.VariantMediaLog,
		Records:    records,
		Tags:       usedTags(entries),
		Data:       entries,
	}
	if data.MediaLog {
		data.Stats = categoryCounts(entries)
	}
	if data.Data == nil {
		data.Data = []model.Entry{}
	}

	var buf bytes.Buffer
	if err := standaloneTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// usedTags lists the tags referenced by entries in first-seen order.
func usedTags(entries []model.Entry) []string {
	var all []string
	for _, e := range entries {
		all = append(all, e.Tags...)
	}
	return model.NormalizeTags(all)
}

func categoryCounts(entries []model.Entry) []categoryCount {
	counts := make(map[model.Category]int)
	for _, e := range entries {
		counts[e.Category]++
	}
	result := make([]categoryCount, 0, len(model.Categories))
	for _, c := range model.Categories {
		result = append(result, categoryCount{Label: c.Label(), Count: counts[c]})
	}
	return result
}
