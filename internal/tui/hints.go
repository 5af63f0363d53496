package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "/")
	Desc string // Short description (e.g., "move", "keyword")
}

// hintFor builds a Hint from a binding's help text.
func hintFor(b key.Binding) Hint {
	h := b.Help()
	return Hint{Key: h.Key, Desc: h.Desc}
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar.
func (a App) renderHints(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // j/k, gg, G
	Filter []Hint // /, space, t, c, r
	Action []Hint // d, Y, e
	System []Hint // ?, q, Esc
}

// All returns all hints flattened in display order: Nav + Filter + Action + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Filter)+len(h.Action)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Filter...)
	result = append(result, h.Action...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeKeyword:
		return HintSet{
			Action: []Hint{{Key: "Enter", Desc: "keep"}},
			System: []Hint{{Key: "Esc", Desc: "clear"}},
		}
	case ModeConfirmDelete:
		return HintSet{
			Action: []Hint{hintFor(a.keys.Confirm)},
			System: []Hint{hintFor(a.keys.Cancel)},
		}
	case ModeHelp:
		return HintSet{System: []Hint{{Key: "any key", Desc: "close"}}}
	}
	return a.getNormalModeHints()
}

func (a App) getNormalModeHints() HintSet {
	hints := HintSet{
		Nav: []Hint{{Key: "j/k", Desc: "move"}},
		Filter: []Hint{
			hintFor(a.keys.Keyword),
			hintFor(a.keys.TagLeft),
			hintFor(a.keys.ToggleTag),
			hintFor(a.keys.TagMode),
			hintFor(a.keys.TimeMode),
		},
		System: []Hint{hintFor(a.keys.Help), hintFor(a.keys.Quit)},
	}
	if a.isMediaLog() {
		hints.Filter = append(hints.Filter, hintFor(a.keys.Category))
	}
	if !a.state.Filter().IsZero() {
		hints.Filter = append(hints.Filter, hintFor(a.keys.Reset))
	}
	if _, ok := a.Selected(); ok {
		hints.Action = []Hint{hintFor(a.keys.Delete), hintFor(a.keys.Yank), hintFor(a.keys.Export)}
	}
	return hints
}

// allBindings lists every binding for the help overlay.
func (k KeyMap) allBindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Top, k.Bottom,
		k.Keyword, k.TagLeft, k.ToggleTag, k.TagMode, k.TimeMode, k.Category, k.Reset,
		k.Delete, k.Yank, k.Export,
		k.Help, k.Quit,
	}
}
