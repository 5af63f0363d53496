package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/logbook/internal/app"
	"github.com/nikbrunner/logbook/internal/model"
)

func newTestServer(t *testing.T, variant model.Variant, entries ...model.Entry) *Server {
	t.Helper()
	store := model.NewStore()
	store.Tags = []string{"daily", "tech"}
	store.Entries = append(store.Entries, entries...)

	state, err := app.New(app.Params{Store: store, Variant: variant, Location: time.UTC})
	require.NoError(t, err)
	return New(state, Options{})
}

func blogEntries() []model.Entry {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC) }
	return []model.Entry{
		{ID: "entry-0001", Content: "first post", Tags: []string{"daily"}, Datetime: day(1), Created: day(1)},
		{ID: "entry-0002", Content: "second", Tags: []string{"tech"}, Datetime: day(15), Created: day(15),
			Media: "data:image/png;base64,iVBORw0KGgo=", MediaType: model.MediaImage},
	}
}

type entriesResponse struct {
	Count   int           `json:"count"`
	Total   int           `json:"total"`
	Entries []model.Entry `json:"entries"`
}

func doGet(t *testing.T, s *Server, target string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, model.VariantBlog, blogEntries()...)

	resp, body := doGet(t, s, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, "blog", got["variant"])
	assert.Equal(t, float64(2), got["entries"])
}

func TestListEntries(t *testing.T) {
	s := newTestServer(t, model.VariantBlog, blogEntries()...)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"everything newest first", "", []string{"entry-0002", "entry-0001"}},
		{"keyword", "?keyword=FIRST", []string{"entry-0001"}},
		{"any tag", "?tagMode=any&tags=tech,daily", []string{"entry-0002", "entry-0001"}},
		{"tags without mode need all", "?tags=tech,daily", nil},
		{"month", "?time=month&year=2024&month=3", []string{"entry-0002", "entry-0001"}},
		{"day", "?time=day&date=2024-03-15", []string{"entry-0002"}},
		{"range is inclusive", "?time=range&start=2024-03-01&end=2024-03-01", []string{"entry-0001"}},
		{"bad year disables clause", "?time=year&year=soon", []string{"entry-0002", "entry-0001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doGet(t, s, "/api/entries"+tt.query)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			var got entriesResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, len(tt.wantIDs), got.Count)
			assert.Equal(t, 2, got.Total)

			var ids []string
			for _, e := range got.Entries {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListEntries_WithoutMedia(t *testing.T) {
	s := newTestServer(t, model.VariantBlog, blogEntries()...)

	_, body := doGet(t, s, "/api/entries?media=false&keyword=second")
	var got entriesResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Entries, 1)
	assert.Empty(t, got.Entries[0].Media)
	assert.Equal(t, model.MediaImage, got.Entries[0].MediaType)
}

func TestListEntries_BadMode(t *testing.T) {
	s := newTestServer(t, model.VariantBlog, blogEntries()...)

	for _, q := range []string{"?time=decade", "?tagMode=some", "?category=podcast"} {
		resp, body := doGet(t, s, "/api/entries"+q)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		assert.Contains(t, string(body), "unknown filter mode", q)
	}
}

func TestGetEntry(t *testing.T) {
	s := newTestServer(t, model.VariantBlog, blogEntries()...)

	resp, body := doGet(t, s, "/api/entries/0001")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var e model.Entry
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "entry-0001", e.ID)

	resp, _ = doGet(t, s, "/api/entries/zzzz")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doGet(t, s, "/api/entries/entry-0002")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetEntry_Ambiguous(t *testing.T) {
	s := newTestServer(t, model.VariantBlog,
		model.Entry{ID: "aaaa-beef", Content: "one"},
		model.Entry{ID: "bbbb-beef", Content: "two"},
	)

	resp, body := doGet(t, s, "/api/entries/beef")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "matches 2 entries")
}

func TestTagsAndStats(t *testing.T) {
	rating := 7.5
	s := newTestServer(t, model.VariantMediaLog,
		model.Entry{ID: "m1", Title: "Arrival", Category: model.CategoryMovie, Rating: &rating},
		model.Entry{ID: "m2", Title: "Dune", Category: model.CategoryBook},
		model.Entry{ID: "m3", Title: "Heat", Category: model.CategoryMovie},
	)

	_, body := doGet(t, s, "/api/tags")
	assert.JSONEq(t, `{"tags":["daily","tech"]}`, string(body))

	_, body = doGet(t, s, "/api/stats")
	assert.JSONEq(t, `{"entries":3,"tags":2,"withMedia":0,"byCategory":{"movie":2,"book":1}}`, string(body))

	_, body = doGet(t, s, "/api/entries?category=movie")
	var got entriesResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 2, got.Count)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, model.VariantBlog, blogEntries()...)

	resp, body := doGet(t, s, "/export/txt?keyword=first")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".txt")
	assert.Contains(t, string(body), "Entries: 1")
	assert.Contains(t, string(body), "first post")
	assert.NotContains(t, string(body), "second")

	resp, body = doGet(t, s, "/export/json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var doc struct {
		Entries []model.Entry `json:"entries"`
		Version string        `json:"version"`
	}
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Len(t, doc.Entries, 2)
	assert.Equal(t, "2.0", doc.Version)

	resp, body = doGet(t, s, "/export/html?inline=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Disposition"))
	assert.True(t, strings.Contains(string(body), "const entryData = "))
}

func TestExport_Errors(t *testing.T) {
	s := newTestServer(t, model.VariantBlog, blogEntries()...)

	resp, _ := doGet(t, s, "/export/pdf")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doGet(t, s, "/export/txt?tagMode=nope")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
