package match

import (
	"fmt"
	"strings"

	"github.com/censusindia/wikimatch/internal/normalize"
)

// lookupName returns the record name used in lookup terms, cleaned for
// kinds whose source names are noisy.
func (k Kind) lookupName(rec Record) string {
	if k.CleanName {
		return normalize.CleanVillageName(rec.Name)
	}
	return strings.TrimSpace(rec.Name)
}

// Terms produces the ordered direct-lookup terms for a record. Earlier
// terms are cheaper and more likely right, so they are tried first:
//
//  1. bare name
//  2. name + immediate parent unit
//  3. name + kind qualifiers, with comma/space and parent variants
//  4. name + full hierarchy
//
// Repeats are tolerated downstream; nothing is deduplicated here.
func (k Kind) Terms(rec Record) []string {
	name := k.lookupName(rec)
	if name == "" {
		return nil
	}
	parent := k.parentOf(rec)

	terms := []string{name}

	if parent != "" {
		terms = append(terms,
			fmt.Sprintf("%s, %s", name, parent),
			fmt.Sprintf("%s %s", name, parent),
		)
	}

	for _, q := range k.qualifiers(rec) {
		terms = append(terms, fmt.Sprintf("%s %s", name, q))
		if parent != "" {
			terms = append(terms,
				fmt.Sprintf("%s %s, %s", name, q, parent),
			)
		}
	}

	// Full hierarchy, for kinds whose parent is the district.
	if rec.District != "" && rec.District != parent {
		terms = append(terms, fmt.Sprintf("%s, %s", name, rec.District))
	}
	if rec.State != "" && rec.State != parent {
		terms = append(terms,
			fmt.Sprintf("%s, %s", name, rec.State),
			fmt.Sprintf("%s, %s, %s", name, rec.District, rec.State),
		)
	}

	return terms
}

// SearchTerms produces the full-text search fallback queries, tried after
// every direct lookup term has been exhausted.
func (k Kind) SearchTerms(rec Record) []string {
	name := k.lookupName(rec)
	if name == "" {
		return nil
	}
	parent := k.parentOf(rec)

	terms := []string{name}
	if parent != "" {
		terms = append(terms, fmt.Sprintf("%s %s", name, parent))
	}
	if rec.State != "" && rec.State != parent {
		terms = append(terms, fmt.Sprintf("%s %s", name, rec.State))
	}
	if len(k.Qualifiers) > 0 && parent != "" {
		q := strings.ToLower(k.Qualifiers[0])
		terms = append(terms, fmt.Sprintf("%s %s %s", name, q, parent))
	}
	return terms
}

// qualifiers returns the qualifier words for a record, promoting the census
// type hint to the front when present (e.g. a ULB known to be a Municipality).
func (k Kind) qualifiers(rec Record) []string {
	if rec.TypeHint == "" {
		return k.Qualifiers
	}
	out := []string{rec.TypeHint}
	for _, q := range k.Qualifiers {
		if !strings.EqualFold(q, rec.TypeHint) {
			out = append(out, q)
		}
	}
	return out
}
