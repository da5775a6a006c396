package match

import (
	"strings"

	"github.com/censusindia/wikimatch/internal/normalize"
)

// Entry is one knowledge-base row used by the bulk matcher: a Wikidata item
// with its label, alternate label, recorded parent unit and coordinates.
type Entry struct {
	QID       string
	Label     string
	AltLabel  string
	Parent    string
	Latitude  *float64
	Longitude *float64
}

// Index is a read-only normalized-name lookup over knowledge-base entries,
// built once per run (or per parent region) by the bulk variant.
type Index struct {
	byName  map[string]*Entry
	entries []*Entry
}

// NewIndex builds the name index. Label and alternate label each claim their
// normalized key; the first entry to claim a key keeps it.
func NewIndex(entries []Entry) *Index {
	ix := &Index{byName: make(map[string]*Entry)}
	for i := range entries {
		e := &entries[i]
		ix.entries = append(ix.entries, e)
		for _, name := range []string{e.Label, e.AltLabel} {
			if name == "" {
				continue
			}
			key := normalize.Name(name)
			if key == "" {
				continue
			}
			if _, taken := ix.byName[key]; !taken {
				ix.byName[key] = e
			}
		}
	}
	return ix
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Find matches a census name against the index. Exact normalized keys are
// tried first (name+parent, then bare name), then a containment scan over
// every entry. The parent cross-check is soft: a candidate is rejected only
// when both parent strings are present and clearly disagree.
func (ix *Index) Find(name, parent string) *Entry {
	n := normalize.Name(name)
	if n == "" {
		return nil
	}

	keys := []string{n}
	if p := normalize.Name(parent); p != "" {
		keys = []string{n + " " + p, n}
	}
	for _, key := range keys {
		if e, ok := ix.byName[key]; ok && parentAgrees(e.Parent, parent) {
			return e
		}
	}

	for _, e := range ix.entries {
		if !nameContains(n, normalize.Name(e.Label)) &&
			!nameContains(n, normalize.Name(e.AltLabel)) {
			continue
		}
		if !parentAgrees(e.Parent, parent) {
			continue
		}
		return e
	}
	return nil
}

// nameContains reports whether the census name and a knowledge-base name
// match exactly or by containment either way.
func nameContains(n, candidate string) bool {
	if n == "" || candidate == "" {
		return false
	}
	if n == candidate {
		return true
	}
	return strings.Contains(candidate, n) || strings.Contains(n, candidate)
}

// parentAgrees applies the soft parent cross-check: skip rejection when
// either side's parent string is empty.
func parentAgrees(entryParent, recordParent string) bool {
	ep := normalize.Name(entryParent)
	rp := normalize.Name(recordParent)
	if ep == "" || rp == "" {
		return true
	}
	return strings.Contains(ep, rp) || strings.Contains(rp, ep)
}
