package picker

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/logbook/internal/display"
	"github.com/nikbrunner/logbook/internal/model"
	"github.com/nikbrunner/logbook/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Underline(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)
)

// linesPerResult is the height of one rendered result.
const linesPerResult = 2

// Picker is a simple TUI for selecting from search results.
type Picker struct {
	results   []search.SearchResult
	query     string
	formatter display.Formatter
	cursor    int
	offset    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a new Picker with the given search results. Times are shown
// in loc, or the local zone if nil.
func New(results []search.SearchResult, query string, loc *time.Location) Picker {
	return Picker{
		results:   results,
		query:     query,
		formatter: display.NewFormatter(loc),
		cursor:    0,
		width:     80,
		height:    24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.scroll()
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			if len(p.results) == 0 {
				p.cancelled = true
			} else {
				p.selected = true
			}
			return p, tea.Quit

		case tea.KeyDown:
			p.move(1)
			return p, nil

		case tea.KeyUp:
			p.move(-1)
			return p, nil
		}

		// Handle j/k vim keys
		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				p.move(1)
				return p, nil
			case "k":
				p.move(-1)
				return p, nil
			case "q":
				p.cancelled = true
				return p, tea.Quit
			}
		}
	}

	return p, nil
}

func (p *Picker) move(delta int) {
	next := p.cursor + delta
	if next < 0 || next >= len(p.results) {
		return
	}
	p.cursor = next
	p.scroll()
}

// visible is how many results fit between the header and the footer.
func (p Picker) visible() int {
	n := (p.height - 4) / linesPerResult
	if n < 1 {
		return 1
	}
	return n
}

// scroll keeps the cursor inside the visible window.
func (p *Picker) scroll() {
	n := p.visible()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+n {
		p.offset = p.cursor - n + 1
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	// Header
	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	end := min(p.offset+p.visible(), len(p.results))
	for i := p.offset; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		label := highlight(search.Label(*result.Entry), result.MatchedIndexes, style)
		rec := p.formatter.Format(*result.Entry)
		meta := fmt.Sprintf("%s  %s  %s", rec.When, rec.ShortID, rec.TagLine)
		if rec.Stars != "" {
			meta += "  " + rec.Stars
		}

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, label))
		b.WriteString(fmt.Sprintf("   %s\n", metaStyle.Render(meta)))
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("j/k: move  Enter: select  q/Esc: cancel"))

	return b.String()
}

// highlight renders label with the matched byte offsets emphasized. Offsets
// past the label belong to the rest of the haystack and are ignored.
func highlight(label string, matched []int, base lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(label)
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range label {
		if hit[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// SelectedEntry returns the selected entry, or nil if cancelled.
func (p Picker) SelectedEntry() *model.Entry {
	if p.cancelled || !p.selected {
		return nil
	}
	if p.cursor < len(p.results) {
		return p.results[p.cursor].Entry
	}
	return nil
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
