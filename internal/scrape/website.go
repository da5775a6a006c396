package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// InfoboxWebsite fetches a Wikipedia article and returns the official
// website link from its infobox, or empty when the infobox has none.
func (c *Client) InfoboxWebsite(ctx context.Context, pageURL string) (string, error) {
	doc, err := c.fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}

	href := ""
	doc.Find("table.infobox th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(th.Text()), "website") {
			return true
		}
		a := th.Parent().Find("td a").First()
		if v, ok := a.Attr("href"); ok {
			href = v
			return false
		}
		return true
	})
	if href == "" {
		return "", nil
	}

	// Infobox links are sometimes protocol-relative or bare domains.
	switch {
	case strings.HasPrefix(href, "//"):
		href = "https:" + href
	case !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://"):
		href = "https://" + href
	}
	return href, nil
}
