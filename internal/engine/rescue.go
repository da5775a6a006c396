package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/censusindia/wikimatch/internal/match"
	"github.com/censusindia/wikimatch/internal/wiki"
)

// URLFinder locates a Wikipedia URL for a free-text query via an external
// search engine.
type URLFinder interface {
	FirstWikipediaURL(ctx context.Context, query string) (string, error)
}

// PageSource resolves and searches Wikipedia pages and looks up their
// Wikidata item. *wiki.Client satisfies it.
type PageSource interface {
	match.Resolver
	WikidataID(ctx context.Context, title string) (string, error)
}

// Rescuer retries records the direct matcher gave up on, using an external
// search engine's ranking instead of the validator. The engine already
// resolved the query against the whole web, so its first Wikipedia hit is
// trusted as-is.
type Rescuer struct {
	Store  *Store
	Wiki   PageSource
	Finder URLFinder

	Delay time.Duration
	Limit int
}

// Run retries every NOT_FOUND and still-PENDING record.
func (r *Rescuer) Run(ctx context.Context) error {
	records, err := r.Store.FetchByStatus(ctx,
		[]match.Status{match.StatusNotFound, match.StatusPending, match.StatusError},
		r.Limit, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Rescuing %d unmatched records...\n", len(records))

	var rescued int
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			break
		}

		page := r.rescue(ctx, rec)
		if page == nil {
			fmt.Printf("  [%d/%d] %s -> still unmatched\n", i+1, len(records), rec.Name)
			continue
		}

		out := match.Outcome{
			Status:    match.StatusFound,
			Page:      page,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
		}
		if err := r.Store.Apply(ctx, rec.Code, out); err != nil {
			return err
		}
		if qid, err := r.Wiki.WikidataID(ctx, page.Title); err == nil && qid != "" {
			if err := r.Store.SetWikidataID(ctx, rec.Code, qid); err != nil {
				return err
			}
		}
		rescued++
		fmt.Printf("  [%d/%d] %s -> RESCUED: %s\n", i+1, len(records), rec.Name, page.Title)

		if r.Delay > 0 && !pause(ctx, r.Delay) {
			break
		}
	}

	fmt.Printf("\nDone. Rescued %d of %d.\n", rescued, len(records))
	return ctx.Err()
}

// rescue tries search-engine queries from most to least specific, then the
// Wikipedia search API as a last resort.
func (r *Rescuer) rescue(ctx context.Context, rec match.Record) *match.Page {
	queries := []string{rec.Name + " wikipedia"}
	if rec.District != "" {
		queries = append(queries, rec.Name+" "+rec.District+" wikipedia")
	}
	queries = append(queries, rec.Name+" "+rec.State+" wikipedia")

	for _, q := range queries {
		if ctx.Err() != nil {
			return nil
		}
		url, err := r.Finder.FirstWikipediaURL(ctx, q)
		if err != nil || url == "" {
			continue
		}
		title := wiki.TitleFromURL(url)
		if title == "" {
			continue
		}
		if page, err := r.Wiki.Resolve(ctx, title); err == nil && page != nil {
			return page
		}
	}

	// Search API fallback, with the first-word sanity filter.
	titles, err := r.Wiki.Search(ctx, rec.Name+" "+rec.State, 5)
	if err != nil {
		return nil
	}
	first := firstWord(rec.Name)
	for _, title := range titles {
		if first == "" || !strings.Contains(strings.ToLower(title), first) {
			continue
		}
		if page, err := r.Wiki.Resolve(ctx, title); err == nil && page != nil {
			return page
		}
	}
	return nil
}

func firstWord(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
