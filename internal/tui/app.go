package tui

import (
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nikbrunner/logbook/internal/app"
	"github.com/nikbrunner/logbook/internal/display"
	"github.com/nikbrunner/logbook/internal/exporter"
	"github.com/nikbrunner/logbook/internal/filter"
	"github.com/nikbrunner/logbook/internal/model"
	"github.com/nikbrunner/logbook/internal/tui/layout"
)

// App is the main bubbletea model: a filterable list of entries with a
// preview pane.
type App struct {
	state        *app.App
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	formatter    display.Formatter

	mode     Mode
	filter   FilterState
	cursor   int
	deleteID string

	// For gg command
	lastKeyWasG bool

	messageText string
	messageType MessageType
	messageSeq  int

	exportDir string
	copyText  func(string) error
	now       func() time.Time

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	State        *app.App
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	ExportDir    string               // optional, ~/Downloads if empty
	Clipboard    func(string) error   // optional, system clipboard if nil
	Now          func() time.Time     // optional, time.Now if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	exportDir := params.ExportDir
	if exportDir == "" {
		exportDir, _ = exporter.DefaultExportDir()
	}

	copyText := params.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}

	return App{
		state:        params.State,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutCfg,
		formatter:    display.NewFormatter(params.State.Location()),
		filter:       NewFilterState(layoutCfg),
		exportDir:    exportDir,
		copyText:     copyText,
		now:          now,
		width:        80,
		height:       24,
	}
}

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// Message returns the current status message.
func (a App) Message() string {
	return a.messageText
}

// TagCursor returns the index of the highlighted tag.
func (a App) TagCursor() int {
	return a.filter.TagCursor
}

// State returns the application state behind the view.
func (a App) State() *app.App {
	return a.state
}

// Selected returns the entry under the cursor.
func (a App) Selected() (model.Entry, bool) {
	entries := a.state.Filtered()
	if a.cursor < 0 || a.cursor >= len(entries) {
		return model.Entry{}, false
	}
	return entries[a.cursor], true
}

func (a App) isMediaLog() bool {
	return a.state.Variant() == model.VariantMediaLog
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case clearMessageMsg:
		if msg.seq == a.messageSeq {
			a.messageText = ""
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeKeyword:
			return a.updateKeyword(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDelete(msg)
		case ModeHelp:
			a.mode = ModeNormal
			return a, nil
		}
		return a.updateNormal(msg)
	}

	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	total := len(a.state.Filtered())

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < total-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if total > 0 {
			a.cursor = total - 1
		}

	case key.Matches(msg, a.keys.Keyword):
		a.mode = ModeKeyword
		a.filter.Keyword.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.TagLeft):
		if a.filter.TagCursor > 0 {
			a.filter.TagCursor--
		}

	case key.Matches(msg, a.keys.TagRight):
		if a.filter.TagCursor < len(a.state.Tags())-1 {
			a.filter.TagCursor++
		}

	case key.Matches(msg, a.keys.ToggleTag):
		a.toggleTag()

	case key.Matches(msg, a.keys.TagMode):
		spec := a.state.Filter()
		spec.TagMode = nextTagMode(spec.TagMode)
		a.applyFilter(spec)

	case key.Matches(msg, a.keys.TimeMode):
		a.applyFilter(nextTimeMode(a.state.Filter(), a.now().In(a.state.Location())))

	case key.Matches(msg, a.keys.Category):
		if !a.isMediaLog() {
			return a.setMessage(MessageWarning, "Categories only apply to the media log")
		}
		spec := a.state.Filter()
		spec.Category = nextCategory(spec.Category)
		a.applyFilter(spec)

	case key.Matches(msg, a.keys.Reset):
		a.filter.Reset()
		a.state.ResetFilter()
		a.cursor = 0
		return a.setMessage(MessageInfo, "Filters reset")

	case key.Matches(msg, a.keys.Delete):
		if e, ok := a.Selected(); ok {
			a.deleteID = e.ID
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.Yank):
		return a.yankSelected()

	case key.Matches(msg, a.keys.Export):
		return a.exportDigest()

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

func (a App) updateKeyword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.filter.Keyword.Reset()
		a.filter.Keyword.Blur()
		a.mode = ModeNormal
		a.setKeyword("")
		return a, nil

	case tea.KeyEnter:
		a.filter.Keyword.Blur()
		a.mode = ModeNormal
		return a, nil
	}

	var cmd tea.Cmd
	a.filter.Keyword, cmd = a.filter.Keyword.Update(msg)
	a.setKeyword(a.filter.Keyword.Value())
	return a, cmd
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := a.deleteID
	a.deleteID = ""
	a.mode = ModeNormal

	if !key.Matches(msg, a.keys.Confirm) {
		return a.setMessage(MessageInfo, "Delete cancelled")
	}

	if err := a.state.Delete(id); err != nil {
		return a.setMessage(MessageError, "Delete failed: "+err.Error())
	}
	a.clampCursor()
	return a.setMessage(MessageSuccess, "Deleted "+display.ShortID(id))
}

// setKeyword applies the keyword clause; the filter is re-derived on every keystroke.
func (a *App) setKeyword(keyword string) {
	spec := a.state.Filter()
	spec.Keyword = keyword
	a.applyFilter(spec)
}

func (a *App) applyFilter(spec filter.Spec) {
	a.state.SetFilter(spec)
	a.clampCursor()
}

// toggleTag selects or deselects the tag under the tag cursor. Selecting a
// tag while tag filtering is off switches to all-selected matching.
func (a *App) toggleTag() {
	tags := a.state.Tags()
	if a.filter.TagCursor >= len(tags) {
		return
	}
	name := tags[a.filter.TagCursor]

	spec := a.state.Filter()
	if i := slices.Index(spec.Selected, name); i >= 0 {
		spec.Selected = slices.Delete(slices.Clone(spec.Selected), i, i+1)
	} else {
		spec.Selected = append(slices.Clone(spec.Selected), name)
		if spec.TagMode == filter.TagAll || spec.TagMode == "" {
			spec.TagMode = filter.TagAllSelected
		}
	}
	a.applyFilter(spec)
}

func (a *App) clampCursor() {
	total := len(a.state.Filtered())
	if a.cursor >= total {
		a.cursor = total - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// yankText is what Y copies: the body, else the title.
func yankText(e model.Entry) string {
	if strings.TrimSpace(e.Content) != "" {
		return e.Content
	}
	return e.Title
}

func (a App) yankSelected() (tea.Model, tea.Cmd) {
	e, ok := a.Selected()
	if !ok {
		return a, nil
	}
	text := yankText(e)
	if text == "" {
		return a.setMessage(MessageWarning, "Nothing to copy")
	}
	if err := a.copyText(text); err != nil {
		a.state.Logger().Warn("clipboard write failed", zap.Error(err))
		return a.setMessage(MessageError, "Copy failed: "+err.Error())
	}
	return a.setMessage(MessageSuccess, "Copied "+display.ShortID(e.ID))
}

func (a App) exportDigest() (tea.Model, tea.Cmd) {
	p, err := a.state.Export(exporter.FormatText, app.ExportOptions{Now: a.now()})
	if err != nil {
		return a.setMessage(MessageError, "Export failed: "+err.Error())
	}
	path, err := app.WriteExport(a.exportDir, p)
	if err != nil {
		return a.setMessage(MessageError, "Export failed: "+err.Error())
	}
	return a.setMessage(MessageSuccess, "Exported "+path)
}

// setMessage shows a status message and schedules its removal.
func (a App) setMessage(t MessageType, text string) (App, tea.Cmd) {
	a.messageSeq++
	a.messageText = text
	a.messageType = t
	seq := a.messageSeq
	return a, tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearMessageMsg{seq: seq}
	})
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
