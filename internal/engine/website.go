package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// WebsiteScraper extracts the official website link from an article page.
type WebsiteScraper interface {
	InfoboxWebsite(ctx context.Context, pageURL string) (string, error)
}

// WebsiteFiller populates website_url for matched rows from the article
// infobox. Only the district table carries the column.
type WebsiteFiller struct {
	Store   *Store
	Scraper WebsiteScraper
	Delay   time.Duration
}

// Run scrapes the infobox of every FOUND row that has a wiki URL but no
// website yet.
func (w *WebsiteFiller) Run(ctx context.Context) error {
	if !w.Store.Table.HasWebsite {
		return fmt.Errorf("%s has no website column", w.Store.Table.Name)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, wiki_url FROM %s
		WHERE status = 'FOUND' AND wiki_url IS NOT NULL AND website_url IS NULL
		ORDER BY %s`,
		w.Store.Table.CodeCol, w.Store.Table.NameCol,
		w.Store.Table.Name, w.Store.Table.NameCol)

	rows, err := w.Store.DB.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to fetch from %s: %w", w.Store.Table.Name, err)
	}

	type target struct{ code, name, url string }
	var targets []target
	for rows.Next() {
		var t target
		var url sql.NullString
		if err := rows.Scan(&t.code, &t.name, &url); err != nil {
			rows.Close()
			return err
		}
		t.url = url.String
		targets = append(targets, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	fmt.Printf("Scraping websites for %d records...\n", len(targets))

	var filled int
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			break
		}
		site, err := w.Scraper.InfoboxWebsite(ctx, t.url)
		if err != nil || site == "" {
			fmt.Printf("  [%d/%d] %s -> no website\n", i+1, len(targets), t.name)
			continue
		}
		if err := w.Store.SetWebsite(ctx, t.code, site); err != nil {
			return err
		}
		filled++
		fmt.Printf("  [%d/%d] %s -> %s\n", i+1, len(targets), t.name, site)

		if w.Delay > 0 && !pause(ctx, w.Delay) {
			break
		}
	}

	fmt.Printf("\nDone. Websites found: %d of %d.\n", filled, len(targets))
	return ctx.Err()
}
