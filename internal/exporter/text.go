package exporter

import (
	"fmt"
	"strings"

	"github.com/nikbrunner/logbook/internal/display"
	"github.com/nikbrunner/logbook/internal/model"
)

var (
	majorRule = strings.Repeat("=", 50)
	minorRule = strings.Repeat("-", 30)
)

// ExportText renders the plain-text digest.
func ExportText(in Input) string {
	var b strings.Builder

	records := display.NewFormatter(in.Location).FormatAll(ordered(in))
	mediaLog := in.Variant == model.VariantMediaLog

	// Header
	fmt.Fprintf(&b, "%s\n", in.Title)
	fmt.Fprintf(&b, "Exported: %s\n", in.Now.In(in.Location).Format("2006/01/02 15:04:05"))
	fmt.Fprintf(&b, "Entries: %d\n", len(records))
	fmt.Fprintf(&b, "Tags: %d\n", len(in.Tags))
	b.WriteString(majorRule + "\n\n")

	for i, r := range records {
		fmt.Fprintf(&b, "[Entry #%d]\n", i+1)
		fmt.Fprintf(&b, "Time: %s\n", r.When)
		fmt.Fprintf(&b, "ID: %s\n", r.ShortID)
		if mediaLog {
			fmt.Fprintf(&b, "Title: %s\n", r.Title)
			fmt.Fprintf(&b, "Type: %s\n", r.Category)
			if r.Director != "" {
				fmt.Fprintf(&b, "Director: %s\n", r.Director)
			}
			if r.Stars != "" {
				fmt.Fprintf(&b, "Rating: %s %s\n", r.Rating, r.Stars)
			}
		}
		fmt.Fprintf(&b, "Tags: %s\n", r.TagLine)
		b.WriteString(minorRule + "\n")

		switch {
		case strings.TrimSpace(r.Body) != "":
			b.WriteString(r.Body + "\n")
		case r.HasMedia:
			b.WriteString("[media only]\n")
		default:
			b.WriteString("[no notes]\n")
		}
		if r.HasMedia {
			fmt.Fprintf(&b, "\n%s\n", r.MediaNote)
		}

		b.WriteString("\n" + majorRule + "\n\n")
	}

	return b.String()
}
