package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/censusindia/wikimatch/internal/match"
)

func TestTableForKind(t *testing.T) {
	tests := []struct {
		kind  string
		table string
	}{
		{"district", "wikipedia_districts"},
		{"subdistrict", "wikipedia_subdistricts"},
		{"ulb", "wikipedia_ulbs"},
		{"village", "wikipedia_villages"},
	}
	for _, tt := range tests {
		table, err := TableForKind(tt.kind)
		require.NoError(t, err)
		assert.Equal(t, tt.table, table.Name)
	}

	_, err := TableForKind("planet")
	assert.Error(t, err)
}

type fakeFinder struct {
	urls map[string]string
}

func (f *fakeFinder) FirstWikipediaURL(_ context.Context, query string) (string, error) {
	return f.urls[query], nil
}

type fakePages struct {
	pages    map[string]*match.Page
	searches map[string][]string
	qids     map[string]string
}

func (f *fakePages) Resolve(_ context.Context, term string) (*match.Page, error) {
	if p, ok := f.pages[term]; ok {
		return p, nil
	}
	return nil, nil
}

func (f *fakePages) Search(_ context.Context, query string, _ int) ([]string, error) {
	if titles, ok := f.searches[query]; ok {
		return titles, nil
	}
	return nil, errors.New("search unavailable")
}

func (f *fakePages) WikidataID(_ context.Context, title string) (string, error) {
	return f.qids[title], nil
}

func TestRescuePrefersSearchEngineHit(t *testing.T) {
	r := &Rescuer{
		Finder: &fakeFinder{urls: map[string]string{
			"Karveer Kolhapur wikipedia": "https://en.wikipedia.org/wiki/Karveer_taluka",
		}},
		Wiki: &fakePages{pages: map[string]*match.Page{
			"Karveer taluka": {Title: "Karveer taluka", Summary: "A taluka.", URL: "https://en.wikipedia.org/wiki/Karveer_taluka"},
		}},
	}

	page := r.rescue(context.Background(), match.Record{
		Name: "Karveer", District: "Kolhapur", State: "Maharashtra",
	})
	require.NotNil(t, page)
	assert.Equal(t, "Karveer taluka", page.Title)
}

func TestRescueFallsBackToSearchAPI(t *testing.T) {
	r := &Rescuer{
		Finder: &fakeFinder{urls: map[string]string{}},
		Wiki: &fakePages{
			searches: map[string][]string{
				"Karveer Maharashtra": {"Kolhapur district", "Karveer taluka"},
			},
			pages: map[string]*match.Page{
				"Karveer taluka": {Title: "Karveer taluka", Summary: "A taluka.", URL: "u"},
			},
		},
	}

	page := r.rescue(context.Background(), match.Record{
		Name: "Karveer", State: "Maharashtra",
	})
	require.NotNil(t, page)
	// "Kolhapur district" fails the first-word filter; the taluka passes.
	assert.Equal(t, "Karveer taluka", page.Title)
}

func TestRescueGivesUp(t *testing.T) {
	r := &Rescuer{
		Finder: &fakeFinder{urls: map[string]string{}},
		Wiki:   &fakePages{},
	}
	page := r.rescue(context.Background(), match.Record{Name: "Xyzabad", State: "Assam"})
	assert.Nil(t, page)
}

func TestStatsCoverage(t *testing.T) {
	assert.Equal(t, 0.0, Stats{}.Coverage())
	assert.InDelta(t, 75.0, Stats{Total: 4, Found: 3}.Coverage(), 0.001)
}

func TestReportRendering(t *testing.T) {
	rep := &Report{
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Tables: []Stats{
			{Table: "wikipedia_districts", Total: 640, Found: 610, NotFound: 20, Pending: 8, Errored: 2},
		},
		States: []StateStats{
			{State: "Andhra Pradesh", Total: 100, Found: 90},
		},
	}

	var html bytes.Buffer
	require.NoError(t, rep.RenderHTML(&html))
	assert.Contains(t, html.String(), "wikipedia_districts")
	assert.Contains(t, html.String(), "95.3%")
	assert.Contains(t, html.String(), "Andhra Pradesh")

	var text bytes.Buffer
	rep.PrintText(&text)
	assert.Contains(t, text.String(), "wikipedia_districts")
	assert.Contains(t, text.String(), "Andhra Pradesh")
}
