package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	TagLeft   key.Binding
	TagRight  key.Binding
	ToggleTag key.Binding
	TagMode   key.Binding
	Category  key.Binding
	TimeMode  key.Binding
	Keyword   key.Binding
	Reset     key.Binding
	Delete    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Yank      key.Binding
	Export    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		TagLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/l", "pick tag"),
		),
		TagRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("h/l", "pick tag"),
		),
		ToggleTag: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select tag"),
		),
		TagMode: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tag mode"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category"),
		),
		TimeMode: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "time range"),
		),
		Keyword: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "keyword"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset filters"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/Esc", "cancel"),
		),
		Yank: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy text"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export digest"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
