package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/logbook/internal/app"
	"github.com/nikbrunner/logbook/internal/model"
)

func TestEntryFlags_ApplyOnlyChanged(t *testing.T) {
	var f entryFlags
	cmd := &cobra.Command{Use: "edit"}
	f.register(cmd, true)
	assert.NilError(t, cmd.Flags().Parse([]string{"--tags", "a, b,a", "--rating", "7.5", "--date", "2024-03-15"}))

	rating := 3.0
	d := app.Draft{Content: "keep me", Title: "Heat", Rating: &rating}
	assert.NilError(t, f.apply(cmd, &d))

	assert.Equal(t, d.Content, "keep me")
	assert.Equal(t, d.Title, "Heat")
	assert.DeepEqual(t, d.Tags, []string{"a", "b"})
	assert.Assert(t, d.Rating != nil)
	assert.Equal(t, *d.Rating, 7.5)
	assert.Equal(t, d.Datetime.Year(), 2024)
	assert.Equal(t, d.Datetime.Month(), time.March)
}

func TestEntryFlags_Unrated(t *testing.T) {
	var f entryFlags
	cmd := &cobra.Command{Use: "edit"}
	f.register(cmd, true)
	assert.NilError(t, cmd.Flags().Parse([]string{"--unrated", "--clear-media"}))

	rating := 3.0
	d := app.Draft{Rating: &rating}
	assert.NilError(t, f.apply(cmd, &d))
	assert.Assert(t, d.Rating == nil)
	assert.Assert(t, d.ClearMedia)
}

func TestEntryFlags_BadDate(t *testing.T) {
	var f entryFlags
	cmd := &cobra.Command{Use: "add"}
	f.register(cmd, false)
	assert.NilError(t, cmd.Flags().Parse([]string{"--date", "someday"}))

	err := f.apply(cmd, &app.Draft{})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		cmd := rmCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetIn(strings.NewReader(tt.input))

		assert.Equal(t, confirm(cmd, "Delete?"), tt.want, "input %q", tt.input)
		assert.Check(t, is.Contains(out.String(), "Delete? [y/N]"))
	}
}
