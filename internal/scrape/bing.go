package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultSearchBase = "https://www.bing.com/search"

// Browser-like headers; the search engine rejects obvious bots.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// Result selectors, tried in order; the engine's markup varies.
var resultSelectors = []string{
	"li.b_algo h2 a",
	"li.b_algo a",
	".b_algo h2 a",
	"#b_results h2 a",
	"h2 a[href*='wikipedia.org']",
}

// Client scrapes HTML pages that have no API: the search-engine results
// used as a last-resort URL rescue, and the Wikipedia infobox.
type Client struct {
	httpClient *http.Client
	SearchBase string
}

// NewClient creates a scraper with the given request timeout (clamped to 15s).
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 || timeout > 15*time.Second {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		SearchBase: defaultSearchBase,
	}
}

// FirstWikipediaURL searches the engine for the query and returns the first
// wikipedia.org/wiki/ link on the results page, or empty when none appears.
// The engine's own ranking is trusted; no validation happens here.
func (c *Client) FirstWikipediaURL(ctx context.Context, query string) (string, error) {
	endpoint := c.SearchBase + "?" + url.Values{"q": {query}}.Encode()

	doc, err := c.fetch(ctx, endpoint)
	if err != nil {
		return "", err
	}

	var links *goquery.Selection
	for _, sel := range resultSelectors {
		links = doc.Find(sel)
		if links.Length() > 0 {
			break
		}
	}
	if links == nil {
		return "", nil
	}

	found := ""
	links.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, "wikipedia.org/wiki/") {
			found = href
			return false
		}
		return true
	})
	return found, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", endpoint, resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
