package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Header       lipgloss.Style
	Pane         lipgloss.Style
	PaneActive   lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Body         lipgloss.Style
	Tag          lipgloss.Style
	TagSelected  lipgloss.Style
	TagCursor    lipgloss.Style
	Date         lipgloss.Style
	Stars        lipgloss.Style
	Empty        lipgloss.Style
	Modal        lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "/", "j/k")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "keyword", "move")
	HintLabel    lipgloss.Style // Key column of the help overlay
}

// DefaultStyles returns the default style configuration.
// Grayscale with a single desaturated teal accent and amber stars.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}  // inactive borders
	amber := lipgloss.AdaptiveColor{Light: "#B07800", Dark: "#D7A13B"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(border).
			Padding(0, 1),

		PaneActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		Body: lipgloss.NewStyle().
			Foreground(primary),

		Tag: lipgloss.NewStyle().
			Foreground(subtle),

		TagSelected: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		TagCursor: lipgloss.NewStyle().
			Underline(true),

		Date: lipgloss.NewStyle().
			Foreground(subtle),

		Stars: lipgloss.NewStyle().
			Foreground(amber),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),

		HintLabel: lipgloss.NewStyle().
			Foreground(subtle).
			Bold(true),
	}
}
