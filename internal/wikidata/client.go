package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/censusindia/wikimatch/internal/match"
)

const (
	defaultEndpoint  = "https://query.wikidata.org/sparql"
	defaultUserAgent = "censusindia-wikimatch/1.0 (wikimatch@censusindia.example)"
)

// Client executes SPARQL queries against the Wikidata query service.
// Rate-limit responses back off and retry; other failures retry after a
// short pause.
type Client struct {
	httpClient *http.Client
	Endpoint   string
	UserAgent  string

	// Retries is the attempt count per query.
	Retries int
	// RateLimitWait is the pause after an HTTP 429.
	RateLimitWait time.Duration
	// RetryWait is the pause after other failures.
	RetryWait time.Duration
}

// NewClient creates a SPARQL client. Queries over large classes are slow,
// so the read timeout is generous but still bounded.
func NewClient() *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 90 * time.Second},
		Endpoint:      defaultEndpoint,
		UserAgent:     defaultUserAgent,
		Retries:       3,
		RateLimitWait: 30 * time.Second,
		RetryWait:     5 * time.Second,
	}
}

// Binding is one SPARQL result row: variable name to value.
type Binding map[string]struct {
	Value string `json:"value"`
}

// Get returns the value bound to a variable, or empty when unbound.
func (b Binding) Get(name string) string {
	return b[name].Value
}

type sparqlResponse struct {
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Query runs a SPARQL query and returns its row bindings. HTTP 429 waits
// RateLimitWait before retrying; other failures wait RetryWait. After
// Retries attempts the last error is returned.
func (c *Client) Query(ctx context.Context, query string) ([]Binding, error) {
	endpoint := c.Endpoint + "?" + url.Values{
		"query":  {query},
		"format": {"json"},
	}.Encode()

	var lastErr error
	for attempt := 0; attempt < c.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.UserAgent)
		req.Header.Set("Accept", "application/sparql-results+json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if !sleep(ctx, c.RetryWait) {
				return nil, ctx.Err()
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK && readErr == nil:
			var data sparqlResponse
			if err := json.Unmarshal(body, &data); err != nil {
				lastErr = fmt.Errorf("failed to decode SPARQL response: %w", err)
				if !sleep(ctx, c.RetryWait) {
					return nil, ctx.Err()
				}
				continue
			}
			return data.Results.Bindings, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			fmt.Printf("  [RATE LIMITED] Waiting %s...\n", c.RateLimitWait)
			lastErr = fmt.Errorf("SPARQL endpoint rate limited (HTTP 429)")
			if !sleep(ctx, c.RateLimitWait) {
				return nil, ctx.Err()
			}

		default:
			if readErr != nil {
				lastErr = readErr
			} else {
				lastErr = fmt.Errorf("SPARQL endpoint returned HTTP %d", resp.StatusCode)
			}
			if !sleep(ctx, c.RetryWait) {
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// sleep waits for d or until the context is cancelled; it reports whether
// the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// ParsePoint parses a WKT "Point(lon lat)" literal into latitude and
// longitude. Malformed input yields nils.
func ParsePoint(val string) (*float64, *float64) {
	if val == "" {
		return nil, nil
	}
	c := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(val, "Point("), ")"))
	parts := strings.Fields(c)
	if len(parts) != 2 {
		return nil, nil
	}
	lon, err1 := strconv.ParseFloat(parts[0], 64)
	lat, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &lat, &lon
}

// qidFromURI strips the entity URI prefix, leaving the bare QID.
func qidFromURI(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// entryFromBinding builds a bulk-match entry from one result row, with the
// parent unit read from the named variable.
func entryFromBinding(b Binding, parentVar string) match.Entry {
	lat, lon := ParsePoint(b.Get("coord"))
	return match.Entry{
		QID:       qidFromURI(b.Get("item")),
		Label:     b.Get("itemLabel"),
		AltLabel:  b.Get("altLabel"),
		Parent:    b.Get(parentVar),
		Latitude:  lat,
		Longitude: lon,
	}
}
