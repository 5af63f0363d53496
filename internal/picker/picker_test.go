package picker

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/logbook/internal/model"
	"github.com/nikbrunner/logbook/internal/search"
)

func TestPicker_InitialState(t *testing.T) {
	results := []search.SearchResult{
		{Entry: &model.Entry{ID: "e1", Title: "Arrival"}},
		{Entry: &model.Entry{ID: "e2", Title: "Alien"}},
	}

	p := New(results, "a", time.UTC)

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
	if len(p.results) != 2 {
		t.Errorf("expected 2 results, got %d", len(p.results))
	}
}

func TestPicker_NavigateDown(t *testing.T) {
	results := []search.SearchResult{
		{Entry: &model.Entry{ID: "e1", Title: "Arrival"}},
		{Entry: &model.Entry{ID: "e2", Title: "Alien"}},
	}

	p := New(results, "a", time.UTC)
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}

	newModel, _ := p.Update(msg)
	p = newModel.(Picker)

	if p.cursor != 1 {
		t.Errorf("expected cursor at 1, got %d", p.cursor)
	}
}

func TestPicker_NavigateUp(t *testing.T) {
	results := []search.SearchResult{
		{Entry: &model.Entry{ID: "e1", Title: "Arrival"}},
		{Entry: &model.Entry{ID: "e2", Title: "Alien"}},
	}

	p := New(results, "a", time.UTC)
	// Move down first
	p.cursor = 1

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	newModel, _ := p.Update(msg)
	p = newModel.(Picker)

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_BoundsCheck(t *testing.T) {
	results := []search.SearchResult{
		{Entry: &model.Entry{ID: "e1", Title: "Arrival"}},
	}

	p := New(results, "a", time.UTC)

	// Try to go up from 0 (should stay at 0)
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	newModel, _ := p.Update(msg)
	p = newModel.(Picker)

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}

	// Try to go down from last (should stay at last)
	msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	newModel, _ = p.Update(msg)
	p = newModel.(Picker)

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 (only 1 item), got %d", p.cursor)
	}
}

func TestPicker_SelectItem(t *testing.T) {
	results := []search.SearchResult{
		{Entry: &model.Entry{ID: "e1", Title: "Arrival", Created: time.Now()}},
		{Entry: &model.Entry{ID: "e2", Title: "Alien", Created: time.Now()}},
	}

	p := New(results, "a", time.UTC)
	p.cursor = 1 // Select GitLab

	msg := tea.KeyMsg{Type: tea.KeyEnter}
	newModel, cmd := p.Update(msg)
	p = newModel.(Picker)

	if !p.selected {
		t.Error("expected selected to be true after Enter")
	}

	// Should return quit command
	if cmd == nil {
		t.Error("expected quit command after selection")
	}
}

func TestPicker_Cancel(t *testing.T) {
	results := []search.SearchResult{
		{Entry: &model.Entry{ID: "e1", Title: "Arrival"}},
	}

	p := New(results, "a", time.UTC)

	msg := tea.KeyMsg{Type: tea.KeyEsc}
	newModel, cmd := p.Update(msg)
	p = newModel.(Picker)

	if !p.cancelled {
		t.Error("expected cancelled to be true after Esc")
	}
	if cmd == nil {
		t.Error("expected quit command after cancel")
	}
}

func TestPicker_SelectedEntry(t *testing.T) {
	e := &model.Entry{ID: "e1", Title: "Arrival", Created: time.Now()}
	results := []search.SearchResult{
		{Entry: e},
	}

	p := New(results, "a", time.UTC)
	p.selected = true

	got := p.SelectedEntry()
	if got != e {
		t.Errorf("expected selected entry to be returned")
	}
}

func TestPicker_SelectedEntry_Cancelled(t *testing.T) {
	results := []search.SearchResult{
		{Entry: &model.Entry{ID: "e1", Title: "Arrival"}},
	}

	p := New(results, "a", time.UTC)
	p.cancelled = true

	got := p.SelectedEntry()
	if got != nil {
		t.Error("expected nil when cancelled")
	}
}

func TestPicker_ArrowKeys(t *testing.T) {
	results := []search.SearchResult{
		{Entry: &model.Entry{ID: "e1", Title: "Arrival"}},
		{Entry: &model.Entry{ID: "e2", Title: "Alien"}},
	}

	p := New(results, "a", time.UTC)

	// Test down arrow
	msg := tea.KeyMsg{Type: tea.KeyDown}
	newModel, _ := p.Update(msg)
	p = newModel.(Picker)
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after down arrow, got %d", p.cursor)
	}

	// Test up arrow
	msg = tea.KeyMsg{Type: tea.KeyUp}
	newModel, _ = p.Update(msg)
	p = newModel.(Picker)
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 after up arrow, got %d", p.cursor)
	}
}

func TestPicker_EnterWithNoResults(t *testing.T) {
	p := New(nil, "zzz", time.UTC)

	newModel, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = newModel.(Picker)

	if !p.Cancelled() {
		t.Error("expected Enter on an empty list to cancel")
	}
	if p.SelectedEntry() != nil {
		t.Error("expected no selection")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestPicker_ViewShowsMetadata(t *testing.T) {
	rating := 7.0
	created := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	results := []search.SearchResult{
		{Entry: &model.Entry{ID: "abcdef-1234", Title: "Arrival", Tags: []string{"scifi"}, Datetime: created, Rating: &rating}},
	}

	view := New(results, "arr", time.UTC).View()

	for _, want := range []string{"Search: arr (1 results)", "#1234", "scifi", "2024/03/09 18:30", "★★★★★★★☆☆☆"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestPicker_ScrollsWithCursor(t *testing.T) {
	var results []search.SearchResult
	for i := 0; i < 20; i++ {
		results = append(results, search.SearchResult{Entry: &model.Entry{ID: fmt.Sprintf("e%02d", i), Title: fmt.Sprintf("Entry %02d", i)}})
	}

	p := New(results, "entry", time.UTC)
	newModel, _ := p.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	p = newModel.(Picker)

	for i := 0; i < 5; i++ {
		newModel, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
		p = newModel.(Picker)
	}

	if p.cursor != 5 {
		t.Fatalf("expected cursor at 5, got %d", p.cursor)
	}
	if p.offset != 3 {
		t.Errorf("expected offset 3, got %d", p.offset)
	}
	view := p.View()
	if strings.Contains(view, "Entry 00") {
		t.Error("expected first entry to be scrolled out of view")
	}
	if !strings.Contains(view, "Entry 05") {
		t.Error("expected cursor entry to be visible")
	}
}
