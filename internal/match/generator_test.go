package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermsOrdering(t *testing.T) {
	kind := SubdistrictKind()
	rec := Record{
		Code:     "SD001",
		Name:     "Nellore",
		District: "Nellore",
		State:    "Andhra Pradesh",
	}

	terms := kind.Terms(rec)
	require.NotEmpty(t, terms)

	// Bare name first.
	assert.Equal(t, "Nellore", terms[0])

	// No qualifier-annotated term before the bare name and name+parent terms.
	firstQualifier := -1
	lastParentOnly := -1
	for i, term := range terms {
		hasQualifier := false
		for _, q := range kind.Qualifiers {
			if strings.Contains(term, q) {
				hasQualifier = true
				break
			}
		}
		if hasQualifier && firstQualifier == -1 {
			firstQualifier = i
		}
		if !hasQualifier && strings.Contains(term, "Nellore") && i > 0 && firstQualifier == -1 {
			lastParentOnly = i
		}
	}
	require.Greater(t, firstQualifier, 0)
	assert.Greater(t, firstQualifier, lastParentOnly)
}

func TestTermsDistrictParentIsState(t *testing.T) {
	kind := DistrictKind()
	rec := Record{Name: "Guntur", State: "Andhra Pradesh"}

	terms := kind.Terms(rec)
	require.NotEmpty(t, terms)
	assert.Equal(t, "Guntur", terms[0])
	assert.Contains(t, terms, "Guntur, Andhra Pradesh")
	assert.Contains(t, terms, "Guntur district")
	assert.Contains(t, terms, "Guntur district, Andhra Pradesh")
}

func TestTermsVillageNameCleaned(t *testing.T) {
	kind := VillageKind()
	rec := Record{
		Name:     "Rampur (North)*",
		District: "Nagaon",
		State:    "Assam",
	}

	terms := kind.Terms(rec)
	require.NotEmpty(t, terms)
	assert.Equal(t, "Rampur", terms[0])
	for _, term := range terms {
		assert.NotContains(t, term, "(")
		assert.NotContains(t, term, "*")
	}
}

func TestTermsFullHierarchyPresent(t *testing.T) {
	kind := VillageKind()
	rec := Record{Name: "Rampur", District: "Nagaon", State: "Assam"}

	terms := kind.Terms(rec)
	assert.Contains(t, terms, "Rampur, Assam")
	assert.Contains(t, terms, "Rampur, Nagaon, Assam")
}

func TestTermsEmptyName(t *testing.T) {
	kind := VillageKind()
	assert.Nil(t, kind.Terms(Record{Name: "***"}))
	assert.Nil(t, kind.Terms(Record{}))
}

func TestTermsTypeHintPromoted(t *testing.T) {
	kind := ULBKind()
	rec := Record{Name: "Guntur", State: "Andhra Pradesh", TypeHint: "Municipal Corporation"}

	terms := kind.Terms(rec)

	corpIdx, muniIdx := -1, -1
	for i, term := range terms {
		if corpIdx == -1 && strings.Contains(term, "Municipal Corporation") {
			corpIdx = i
		}
		if muniIdx == -1 && strings.Contains(term, "Municipality") {
			muniIdx = i
		}
	}
	require.NotEqual(t, -1, corpIdx)
	require.NotEqual(t, -1, muniIdx)
	assert.Less(t, corpIdx, muniIdx)
}

func TestSearchTerms(t *testing.T) {
	kind := SubdistrictKind()
	rec := Record{Name: "Karveer", District: "Kolhapur", State: "Maharashtra"}

	terms := kind.SearchTerms(rec)
	require.NotEmpty(t, terms)
	assert.Equal(t, "Karveer", terms[0])
	assert.Contains(t, terms, "Karveer Kolhapur")
	assert.Contains(t, terms, "Karveer Maharashtra")
	assert.Contains(t, terms, "Karveer tehsil Kolhapur")
}
