package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/censusindia/wikimatch/internal/match"
)

const (
	defaultRestBase  = "https://en.wikipedia.org/api/rest_v1/page/summary/"
	defaultAPIBase   = "https://en.wikipedia.org/w/api.php"
	defaultUserAgent = "censusindia-wikimatch/1.0 (wikimatch@censusindia.example)"

	// summaryLimit caps persisted summaries.
	summaryLimit = 1000
)

// Client talks to the Wikipedia REST and action APIs. Every call carries a
// bounded timeout; a hung endpoint must never stall a batch.
type Client struct {
	httpClient *http.Client
	RestBase   string
	APIBase    string
	UserAgent  string
}

// NewClient creates a Wikipedia client with the given request timeout.
// Timeouts are clamped to 15s.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 || timeout > 15*time.Second {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		RestBase:   defaultRestBase,
		APIBase:    defaultAPIBase,
		UserAgent:  defaultUserAgent,
	}
}

type summaryResponse struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Resolve looks a term up against the page-summary endpoint. Only standard
// and disambiguation pages count as results; a missing page returns
// (nil, nil) so the caller can tell a definitive miss from a transient
// failure.
func (c *Client) Resolve(ctx context.Context, term string) (*match.Page, error) {
	title := strings.ReplaceAll(term, " ", "_")
	endpoint := c.RestBase + url.PathEscape(title)

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("summary lookup for %q: HTTP %d", term, status)
	}

	var data summaryResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("summary lookup for %q: %w", term, err)
	}
	if data.Type != "standard" && data.Type != "disambiguation" {
		return nil, nil
	}

	page := &match.Page{
		Title:   data.Title,
		Summary: truncate(data.Extract, summaryLimit),
		URL:     data.ContentURLs.Desktop.Page,
	}
	if page.Title == "" {
		page.Title = term
	}
	return page, nil
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// Search queries the full-text search endpoint and returns ranked titles.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	endpoint := c.apiURL(url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"format":   {"json"},
		"srlimit":  {fmt.Sprintf("%d", limit)},
	})

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search for %q: HTTP %d", query, status)
	}

	var data searchResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("search for %q: %w", query, err)
	}

	titles := make([]string, 0, len(data.Query.Search))
	for _, hit := range data.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

type pagesResponse struct {
	Query struct {
		Pages map[string]struct {
			Coordinates []struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"coordinates"`
			Categories []struct {
				Title string `json:"title"`
			} `json:"categories"`
			PageProps struct {
				WikibaseItem string `json:"wikibase_item"`
			} `json:"pageprops"`
		} `json:"pages"`
	} `json:"query"`
}

// Coordinates returns the page coordinates for a title, or nils when the
// page carries none.
func (c *Client) Coordinates(ctx context.Context, title string) (*float64, *float64, error) {
	data, err := c.queryPages(ctx, title, "coordinates")
	if err != nil {
		return nil, nil, err
	}
	for _, page := range data.Query.Pages {
		if len(page.Coordinates) > 0 {
			lat := page.Coordinates[0].Lat
			lon := page.Coordinates[0].Lon
			return &lat, &lon, nil
		}
	}
	return nil, nil, nil
}

// Categories returns the category labels of a title.
func (c *Client) Categories(ctx context.Context, title string) ([]string, error) {
	data, err := c.queryPages(ctx, title, "categories")
	if err != nil {
		return nil, err
	}
	var categories []string
	for _, page := range data.Query.Pages {
		for _, cat := range page.Categories {
			categories = append(categories, cat.Title)
		}
	}
	return categories, nil
}

// WikidataID returns the Wikidata QID linked from a title via pageprops,
// or empty when none is recorded.
func (c *Client) WikidataID(ctx context.Context, title string) (string, error) {
	data, err := c.queryPages(ctx, title, "pageprops")
	if err != nil {
		return "", err
	}
	for _, page := range data.Query.Pages {
		if page.PageProps.WikibaseItem != "" {
			return page.PageProps.WikibaseItem, nil
		}
	}
	return "", nil
}

func (c *Client) queryPages(ctx context.Context, title, prop string) (*pagesResponse, error) {
	endpoint := c.apiURL(url.Values{
		"action": {"query"},
		"prop":   {prop},
		"titles": {title},
		"format": {"json"},
	})

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%s lookup for %q: HTTP %d", prop, title, status)
	}

	var data pagesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%s lookup for %q: %w", prop, title, err)
	}
	return &data, nil
}

func (c *Client) apiURL(params url.Values) string {
	return c.APIBase + "?" + params.Encode()
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// TitleFromURL extracts the page title from a wikipedia.org/wiki/ URL.
func TitleFromURL(pageURL string) string {
	idx := strings.Index(pageURL, "/wiki/")
	if idx < 0 {
		return ""
	}
	title := pageURL[idx+len("/wiki/"):]
	if i := strings.IndexAny(title, "?#"); i >= 0 {
		title = title[:i]
	}
	title = strings.ReplaceAll(title, "_", " ")
	if decoded, err := url.QueryUnescape(title); err == nil {
		title = decoded
	}
	return title
}

// truncate caps a string at n runes without splitting a multi-byte character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
