package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(rest, api string) *Client {
	c := NewClient(5 * time.Second)
	c.RestBase = rest
	c.APIBase = api
	return c
}

func TestResolveStandardPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/summary/"))
		w.Write([]byte(`{
			"type": "standard",
			"title": "Guntur district",
			"extract": "Guntur district is a district in Andhra Pradesh, India.",
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Guntur_district"}}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	page, err := c.Resolve(context.Background(), "Guntur district")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "Guntur district", page.Title)
	assert.Contains(t, page.Summary, "Andhra Pradesh")
	assert.Equal(t, "https://en.wikipedia.org/wiki/Guntur_district", page.URL)
}

func TestResolveRejectsOtherPageTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "redirect", "title": "Guntur", "extract": "..."}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	page, err := c.Resolve(context.Background(), "Guntur")
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestResolveMissingPageIsDefinitiveMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	page, err := c.Resolve(context.Background(), "Xyzabad")
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestResolveServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	page, err := c.Resolve(context.Background(), "Guntur")
	assert.Error(t, err)
	assert.Nil(t, page)
}

func TestResolveTruncatesSummary(t *testing.T) {
	long := strings.Repeat("a", 3000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "standard", "title": "Long", "extract": "` + long + `"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	page, err := c.Resolve(context.Background(), "Long")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Len(t, page.Summary, 1000)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "query", r.URL.Query().Get("action"))
		assert.Equal(t, "search", r.URL.Query().Get("list"))
		assert.Equal(t, "Karveer", r.URL.Query().Get("srsearch"))
		assert.Equal(t, "5", r.URL.Query().Get("srlimit"))
		w.Write([]byte(`{"query": {"search": [{"title": "Karveer taluka"}, {"title": "Karveer"}]}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	titles, err := c.Search(context.Background(), "Karveer", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Karveer taluka", "Karveer"}, titles)
}

func TestCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "coordinates", r.URL.Query().Get("prop"))
		w.Write([]byte(`{"query": {"pages": {"123": {"coordinates": [{"lat": 16.3, "lon": 80.44}]}}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	lat, lon, err := c.Coordinates(context.Background(), "Guntur district")
	require.NoError(t, err)
	require.NotNil(t, lat)
	require.NotNil(t, lon)
	assert.Equal(t, 16.3, *lat)
	assert.Equal(t, 80.44, *lon)
}

func TestCoordinatesAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"pages": {"123": {}}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	lat, lon, err := c.Coordinates(context.Background(), "Guntur district")
	require.NoError(t, err)
	assert.Nil(t, lat)
	assert.Nil(t, lon)
}

func TestCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"pages": {"123": {"categories": [
			{"title": "Category:Districts of Andhra Pradesh"},
			{"title": "Category:Guntur district"}
		]}}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	categories, err := c.Categories(context.Background(), "Guntur district")
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Contains(t, categories, "Category:Districts of Andhra Pradesh")
}

func TestWikidataID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"pages": {"123": {"pageprops": {"wikibase_item": "Q15383"}}}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	qid, err := c.WikidataID(context.Background(), "Guntur district")
	require.NoError(t, err)
	assert.Equal(t, "Q15383", qid)
}

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://en.wikipedia.org/wiki/Guntur_district", "Guntur district"},
		{"https://en.wikipedia.org/wiki/Guntur_district#History", "Guntur district"},
		{"https://en.wikipedia.org/wiki/Karveer_taluka?foo=1", "Karveer taluka"},
		{"https://example.com/no-wiki-path", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleFromURL(tt.url), tt.url)
	}
}

func TestResolveTimeoutBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"type": "standard", "title": "Slow"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/summary/", srv.URL+"/api.php")
	c.httpClient.Timeout = 50 * time.Millisecond

	page, err := c.Resolve(context.Background(), "Slow")
	assert.Error(t, err)
	assert.Nil(t, page)
}
