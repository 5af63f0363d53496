package display_test

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/logbook/internal/display"
	"github.com/nikbrunner/logbook/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func TestStars(t *testing.T) {
	tests := []struct {
		name   string
		rating *float64
		want   string
	}{
		{"unset", nil, ""},
		{"zero", floatPtr(0), ""},
		{"seven", floatPtr(7), "★★★★★★★☆☆☆"},
		{"six and a half", floatPtr(6.5), "★★★★★★⯪☆☆☆"},
		{"six point four", floatPtr(6.4), "★★★★★★☆☆☆☆"},
		{"ten", floatPtr(10), "★★★★★★★★★★"},
		{"nine point five", floatPtr(9.5), "★★★★★★★★★⯪"},
		{"clamped", floatPtr(12), "★★★★★★★★★★"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, display.Stars(tt.rating), tt.want)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, display.ShortID("1700000001234"), "#1234")
	assert.Equal(t, display.ShortID("ab"), "#ab")
}

func TestTagLine(t *testing.T) {
	assert.Equal(t, display.TagLine(nil), "none")
	assert.Equal(t, display.TagLine([]string{"a", "b"}), "a, b")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, display.Excerpt("  short  ", 10), "short")
	assert.Equal(t, display.Excerpt("héllo world", 5), "héllo...")
}

func TestFormatter_Format(t *testing.T) {
	f := display.NewFormatter(time.UTC)
	updated := time.Date(2024, 2, 3, 4, 5, 0, 0, time.UTC)

	r := f.Format(model.Entry{
		ID:        "abcdef",
		Content:   "body",
		Media:     "data:video/mp4;base64,AA",
		MediaType: model.MediaVideo,
		Datetime:  time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC),
		Created:   time.Date(2024, 1, 2, 16, 0, 0, 0, time.UTC),
		Updated:   &updated,
		Category:  model.CategoryTV,
		Rating:    floatPtr(7.5),
	})

	assert.Equal(t, r.ShortID, "#cdef")
	assert.Equal(t, r.When, "2024/01/02 15:04")
	assert.Equal(t, r.ISODate, "2024-01-02")
	assert.Equal(t, r.Updated, "2024/02/03 04:05")
	assert.Equal(t, r.TagLine, "none")
	assert.Equal(t, r.Category, "TV Series")
	assert.Equal(t, r.Rating, "7.5")
	assert.Equal(t, r.MediaNote, "[contains video]")
	assert.Equal(t, string(r.MediaURL), "data:video/mp4;base64,AA")
}

func TestFormatter_DropsUntrustedMediaURL(t *testing.T) {
	r := display.NewFormatter(time.UTC).Format(model.Entry{
		ID:        "x",
		Media:     "javascript:alert(1)",
		MediaType: model.MediaImage,
	})

	assert.Assert(t, r.HasMedia)
	assert.Equal(t, string(r.MediaURL), "")
}
