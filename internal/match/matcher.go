package match

import (
	"context"
	"strings"
)

// Resolver turns a lookup term into a candidate page. A nil page with a nil
// error is a definitive miss; a non-nil error is a transient failure worth
// distinguishing (the orchestrator decides skip vs. record-level ERROR).
type Resolver interface {
	Resolve(ctx context.Context, term string) (*Page, error)
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// CoordinateSource fetches coordinates for a matched title.
type CoordinateSource interface {
	Coordinates(ctx context.Context, title string) (lat, lon *float64, err error)
}

// CategorySource lists category labels for a title.
type CategorySource interface {
	Categories(ctx context.Context, title string) ([]string, error)
}

// Matcher drives candidate generation, resolution and validation for one
// entity kind, stopping at the first accepted candidate.
type Matcher struct {
	Kind     Kind
	Resolver Resolver

	// Coords, when set, enriches accepted matches with page coordinates.
	Coords CoordinateSource

	// Categories, when set, applies the kind's category gate. The gate is
	// advisory: a failed category fetch never rejects a candidate.
	Categories CategorySource
}

// Match resolves one record to a terminal outcome. It returns an error only
// when the context is cancelled; every other failure mode ends in a status.
//
// A record becomes ERROR only when every lookup failed transiently and
// nothing was definitively resolved. Once any lookup definitively misses,
// exhaustion means NOT_FOUND.
func (m *Matcher) Match(ctx context.Context, rec Record) (Outcome, error) {
	name := m.Kind.lookupName(rec)
	if len(name) < 2 {
		// Unsearchable name, nothing to try.
		return m.miss(rec), nil
	}

	sawDefinitive := false
	sawTransient := false

	accept := func(page *Page) (Outcome, error) {
		lat, lon := rec.Latitude, rec.Longitude
		if m.Coords != nil {
			if plat, plon, err := m.Coords.Coordinates(ctx, page.Title); err == nil && plat != nil {
				lat, lon = plat, plon
			}
		}
		return Outcome{Status: StatusFound, Page: page, Latitude: lat, Longitude: lon}, nil
	}

	// Direct lookups, cheapest first.
	for _, term := range m.Kind.Terms(rec) {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		page, err := m.Resolver.Resolve(ctx, term)
		if err != nil {
			if ctx.Err() != nil {
				return Outcome{}, ctx.Err()
			}
			sawTransient = true
			continue
		}
		if page == nil {
			sawDefinitive = true
			continue
		}
		sawDefinitive = true
		if m.Kind.Validate(page, rec) && m.categoryOK(ctx, page.Title) {
			return accept(page)
		}
	}

	// Full-text search fallback: resolve each ranked hit.
	for _, query := range m.Kind.SearchTerms(rec) {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		titles, err := m.Resolver.Search(ctx, query, m.Kind.SearchLimit)
		if err != nil {
			if ctx.Err() != nil {
				return Outcome{}, ctx.Err()
			}
			sawTransient = true
			continue
		}
		sawDefinitive = true
		for _, title := range titles {
			if !titleLooksRelated(title, name) {
				continue
			}
			page, err := m.Resolver.Resolve(ctx, title)
			if err != nil {
				if ctx.Err() != nil {
					return Outcome{}, ctx.Err()
				}
				sawTransient = true
				continue
			}
			if page != nil && m.Kind.Validate(page, rec) && m.categoryOK(ctx, page.Title) {
				return accept(page)
			}
		}
	}

	if sawTransient && !sawDefinitive {
		out := m.miss(rec)
		out.Status = StatusError
		return out, nil
	}
	return m.miss(rec), nil
}

// miss builds the NOT_FOUND outcome, preserving the record's coordinates.
func (m *Matcher) miss(rec Record) Outcome {
	return Outcome{
		Status:    StatusNotFound,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
	}
}

func (m *Matcher) categoryOK(ctx context.Context, title string) bool {
	if m.Categories == nil || len(m.Kind.CategoryMarkers) == 0 {
		return true
	}
	categories, err := m.Categories.Categories(ctx, title)
	if err != nil {
		// Category service unavailable; the gate is not required.
		return true
	}
	return m.Kind.MatchesCategory(categories)
}

// titleLooksRelated pre-filters search hits: the first word of the target
// name must appear in the hit title.
func titleLooksRelated(title, name string) bool {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(title), fields[0])
}
