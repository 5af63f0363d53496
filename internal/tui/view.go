package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/logbook/internal/display"
	"github.com/nikbrunner/logbook/internal/exporter"
	"github.com/nikbrunner/logbook/internal/filter"
	"github.com/nikbrunner/logbook/internal/search"
	"github.com/nikbrunner/logbook/internal/tui/layout"
)

// renderView creates the complete list + preview view.
func (a App) renderView() string {
	if a.mode == ModeConfirmDelete || a.mode == ModeHelp {
		return a.renderModal()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	split := layout.CalculateSplit(a.width, a.layoutConfig.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderListPane(split.ListWidth, paneHeight),
		a.renderPreviewPane(split.PreviewWidth, paneHeight),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			a.renderHeader(),
			a.renderFilterBar(),
			columns,
			a.renderHelpBar(),
		),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderHeader renders the title and entry counts.
func (a App) renderHeader() string {
	title := exporter.DefaultTitle(a.state.Variant())
	count := fmt.Sprintf("%d of %d entries", len(a.state.Filtered()), len(a.state.Entries()))
	return a.styles.Header.Render(title) + "  " + a.styles.Date.Render(count)
}

// renderFilterBar renders the keyword box, the time and category clauses,
// and the tag row.
func (a App) renderFilterBar() string {
	spec := a.state.Filter()

	var keyword string
	switch {
	case a.mode == ModeKeyword:
		keyword = a.filter.Keyword.View()
	case spec.Keyword != "":
		keyword = a.styles.Tag.Render("/" + spec.Keyword)
	default:
		keyword = a.styles.Empty.Render("/ keyword")
	}

	parts := []string{keyword, a.styles.Tag.Render("time: " + timeLabel(spec))}
	if a.isMediaLog() {
		category := "all"
		if spec.Category != "" && spec.Category != "all" {
			category = spec.Category.Label()
		}
		parts = append(parts, a.styles.Tag.Render("type: "+category))
	}
	first := strings.Join(parts, "   ")

	return first + "\n" + a.renderTagRow(spec)
}

func (a App) renderTagRow(spec filter.Spec) string {
	tags := a.state.Tags()
	if len(tags) == 0 {
		return a.styles.Empty.Render("tags: none")
	}

	mode := string(spec.TagMode)
	if spec.TagMode == "" || spec.TagMode == filter.TagAll {
		mode = "off"
	}

	var b strings.Builder
	b.WriteString(a.styles.Tag.Render("tags [" + mode + "]:"))
	for i, name := range tags {
		style := a.styles.Tag
		label := name
		for _, sel := range spec.Selected {
			if sel == name {
				style = a.styles.TagSelected
				label = "*" + name
				break
			}
		}
		if i == a.filter.TagCursor {
			style = style.Inherit(a.styles.TagCursor)
		}
		b.WriteString(" " + style.Render(label))
	}
	return b.String()
}

// renderListPane renders the filtered entries, newest first.
func (a App) renderListPane(width, height int) string {
	var content strings.Builder

	entries := a.state.Filtered()
	visibleHeight := layout.CalculateVisibleHeight(height, 0)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if len(entries) == 0 {
		if a.state.Filter().IsZero() {
			content.WriteString(a.styles.Empty.Render("(no entries yet)"))
		} else {
			content.WriteString(a.styles.Empty.Render("(no matches)"))
		}
	} else {
		offset := layout.CalculateViewportOffset(a.cursor, len(entries), visibleHeight)
		for i := offset; i < len(entries) && i < offset+visibleHeight; i++ {
			rec := a.formatter.Format(entries[i])
			line := rec.Date + "  " + layout.SingleLine(search.Label(entries[i]))
			line, _ = layout.TruncateText(line, itemWidth, a.layoutConfig.Text)

			if i == a.cursor {
				content.WriteString(a.styles.ItemSelected.Render(line) + "\n")
			} else {
				content.WriteString(a.styles.Item.Render(line) + "\n")
			}
		}
	}

	return a.styles.PaneActive.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderPreviewPane renders the details of the entry under the cursor.
func (a App) renderPreviewPane(width, height int) string {
	var lines []string
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	trunc := func(s string) string {
		s, _ = layout.TruncateText(s, itemWidth, a.layoutConfig.Text)
		return s
	}

	if e, ok := a.Selected(); ok {
		rec := a.formatter.Format(e)

		lines = append(lines, a.styles.Title.Render(trunc(layout.SingleLine(search.Label(e)))))
		lines = append(lines, a.styles.Date.Render(trunc(rec.When+"  "+rec.ShortID)))
		if a.isMediaLog() {
			if rec.Category != "" {
				lines = append(lines, a.styles.Date.Render(trunc("Type: "+rec.Category)))
			}
			if rec.Director != "" {
				lines = append(lines, a.styles.Date.Render(trunc("Director: "+rec.Director)))
			}
			if rec.Stars != "" {
				lines = append(lines, a.styles.Stars.Render(rec.Stars)+" "+a.styles.Date.Render(rec.Rating))
			}
		}
		lines = append(lines, a.styles.Tag.Render(trunc("Tags: "+rec.TagLine)))
		if rec.HasMedia {
			lines = append(lines, a.styles.Date.Render(rec.MediaNote))
		}
		if rec.Updated != "" {
			lines = append(lines, a.styles.Date.Render(trunc("Edited: "+rec.Updated)))
		}
		lines = append(lines, "")

		room := height - len(lines)
		if room > 0 && strings.TrimSpace(rec.Body) != "" {
			for _, l := range layout.WrapText(rec.Body, itemWidth, room, a.layoutConfig.Text) {
				lines = append(lines, a.styles.Body.Render(l))
			}
		}
	}

	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(strings.Join(lines, "\n"), "\n"))
}

// renderModal renders the delete confirmation or the help overlay.
func (a App) renderModal() string {
	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal)

	var content strings.Builder
	switch a.mode {
	case ModeConfirmDelete:
		content.WriteString(a.styles.Title.Render("Delete entry?") + "\n\n")
		if e, err := a.state.Get(a.deleteID); err == nil {
			label, _ := layout.TruncateText(layout.SingleLine(search.Label(e)), modalWidth-6, a.layoutConfig.Text)
			content.WriteString(label + "\n")
			content.WriteString(a.styles.Date.Render(display.ShortID(e.ID)) + "\n")
		}
		content.WriteString("\n" + a.renderHints(a.getContextualHints().All()))

	case ModeHelp:
		content.WriteString(a.styles.Title.Render("Keys") + "\n\n")
		for _, b := range a.keys.allBindings() {
			h := b.Help()
			content.WriteString(a.styles.HintLabel.Render(fmt.Sprintf("%-10s", h.Key)) + " " + h.Desc + "\n")
		}
	}

	modal := lipgloss.Place(
		a.width,
		a.height-3,
		lipgloss.Center,
		lipgloss.Center,
		a.styles.Modal.Width(modalWidth).Render(strings.TrimRight(content.String(), "\n")),
	)

	return lipgloss.JoinVertical(lipgloss.Left, modal, a.renderHelpBar())
}

// renderHelpBar renders the status message and the contextual hints.
func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	if hints := a.renderHints(a.getContextualHints().All()); hints != "" {
		lines = append(lines, hints)
	}

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	var msgStyle lipgloss.Style
	var prefix string

	switch a.messageType {
	case MessageError:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}).
			Bold(true)
		prefix = "✗ "
	case MessageWarning:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Bold(true)
		prefix = "⚠ "
	case MessageSuccess:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true)
		prefix = "✓ "
	default: // MessageInfo
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}).
			Bold(true)
	}

	return msgStyle.Render(prefix + a.messageText)
}
