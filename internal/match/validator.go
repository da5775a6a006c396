package match

import "strings"

// Validate reports whether a candidate page plausibly describes the record.
// Pure lexical rules; entity-kind specifics come from the Kind descriptor.
func (k Kind) Validate(page *Page, rec Record) bool {
	if page == nil || page.Title == "" || page.Summary == "" {
		return false
	}

	title := strings.ToLower(page.Title)
	summary := strings.ToLower(page.Summary)
	name := strings.ToLower(k.lookupName(rec))
	district := strings.ToLower(rec.District)
	state := strings.ToLower(rec.State)

	if name == "" {
		return false
	}

	// Target name must appear in title or summary.
	if !strings.Contains(title, name) && !strings.Contains(summary, name) {
		return false
	}

	// Parent hierarchy must appear in the summary.
	switch k.Parents {
	case ParentDistrictOrState:
		if (district == "" || !strings.Contains(summary, district)) &&
			(state == "" || !strings.Contains(summary, state)) {
			return false
		}
	default:
		if state == "" || !strings.Contains(summary, state) {
			return false
		}
	}

	// Kind word requirement ("district" pages must say so).
	if k.KindWord != "" {
		if !strings.Contains(title, k.KindWord) && !strings.Contains(summary, k.KindWord) {
			return false
		}
	}

	// Early summary must look geographic for town/village kinds.
	if len(k.GeoKeywords) > 0 {
		window := summary
		if k.GeoWindow > 0 && len(window) > k.GeoWindow {
			window = window[:k.GeoWindow]
		}
		hit := false
		for _, kw := range k.GeoKeywords {
			if strings.Contains(window, kw) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	// Reject known wrong page types by title.
	for _, bad := range k.Blacklist {
		if strings.Contains(title, bad) {
			return false
		}
	}

	return true
}

// MatchesCategory reports whether any category label carries one of the
// kind's marker phrases. Used as a secondary gate when category data is
// available; kinds without markers always pass.
func (k Kind) MatchesCategory(categories []string) bool {
	if len(k.CategoryMarkers) == 0 {
		return true
	}
	for _, cat := range categories {
		lc := strings.ToLower(cat)
		for _, marker := range k.CategoryMarkers {
			if strings.Contains(lc, marker) {
				return true
			}
		}
	}
	return false
}
