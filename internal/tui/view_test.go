package tui_test

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/logbook/internal/model"
	"github.com/nikbrunner/logbook/internal/tui"
	"github.com/nikbrunner/logbook/internal/tui/layout"
)

func render(a tui.App, width, height int) string {
	return layout.StripANSI(a.WithDimensions(width, height).View())
}

func TestView_Normal(t *testing.T) {
	a := newTestApp(t, testStore(), model.VariantBlog)
	out := render(a, 100, 30)

	assert.Check(t, is.Contains(out, "Blog Archive"))
	assert.Check(t, is.Contains(out, "3 of 3 entries"))
	assert.Check(t, is.Contains(out, "time: all"))
	assert.Check(t, is.Contains(out, "tags [off]: daily tech"))
	assert.Check(t, is.Contains(out, "2024/04/03  third, about go"))
	assert.Check(t, is.Contains(out, "2024/04/01  first post"))
	// preview of the selected entry
	assert.Check(t, is.Contains(out, "2024/04/03 09:00  #0003"))
	assert.Check(t, is.Contains(out, "Tags: tech, daily"))
	assert.Check(t, !strings.Contains(out, "type:"), "blog has no category filter")
}

func TestView_FilteredState(t *testing.T) {
	a := newTestApp(t, testStore(), model.VariantBlog)
	a = press(t, a, runes("l"), tea.KeyMsg{Type: tea.KeySpace})
	out := render(a, 100, 30)

	assert.Check(t, is.Contains(out, "2 of 3 entries"))
	assert.Check(t, is.Contains(out, "tags [allSelected]: daily *tech"))
}

func TestView_NoMatches(t *testing.T) {
	a := newTestApp(t, testStore(), model.VariantBlog)
	a = press(t, a, runes("/"), runes("nothing like this"))
	out := render(a, 100, 30)

	assert.Check(t, is.Contains(out, "0 of 3 entries"))
	assert.Check(t, is.Contains(out, "(no matches)"))
}

func TestView_EmptyStore(t *testing.T) {
	a := newTestApp(t, &model.Store{Entries: []model.Entry{}, Tags: []string{}}, model.VariantBlog)
	out := render(a, 80, 24)

	assert.Check(t, is.Contains(out, "(no entries yet)"))
	assert.Check(t, is.Contains(out, "tags: none"))
}

func TestView_MediaLogPreview(t *testing.T) {
	rating := 8.5
	store := &model.Store{
		Entries: []model.Entry{{
			ID:       "media-9f3c",
			Title:    "Arrival",
			Category: model.CategoryMovie,
			Director: "Denis Villeneuve",
			Rating:   &rating,
			Content:  "Language as a weapon.",
			Tags:     []string{"scifi"},
			Datetime: time.Date(2024, 2, 10, 20, 0, 0, 0, time.UTC),
			Created:  time.Date(2024, 2, 10, 22, 0, 0, 0, time.UTC),
		}},
		Tags: []string{"scifi"},
	}
	a := newTestApp(t, store, model.VariantMediaLog)
	out := render(a, 110, 30)

	assert.Check(t, is.Contains(out, "Media Log"))
	assert.Check(t, is.Contains(out, "type: all"))
	assert.Check(t, is.Contains(out, "Type: Movie"))
	assert.Check(t, is.Contains(out, "Director: Denis Villeneuve"))
	assert.Check(t, is.Contains(out, "★★★★★★★★⯪☆ 8.5"))
	assert.Check(t, is.Contains(out, "Language as a weapon."))
}

func TestView_DeleteModal(t *testing.T) {
	a := newTestApp(t, testStore(), model.VariantBlog)
	a = press(t, a, runes("d"))
	out := render(a, 80, 24)

	assert.Check(t, is.Contains(out, "Delete entry?"))
	assert.Check(t, is.Contains(out, "third, about go"))
	assert.Check(t, is.Contains(out, "#0003"))
}
