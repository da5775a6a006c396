package match

// ParentRule says which hierarchy names a candidate summary must mention.
type ParentRule int

const (
	// ParentState requires the state name in the summary.
	ParentState ParentRule = iota
	// ParentDistrictOrState requires the district or the state name.
	ParentDistrictOrState
)

// Kind describes one entity kind's matching behaviour: which qualifier words
// to try, which hierarchy names to require, and which pages to refuse.
// One generic matcher parameterized by a Kind replaces the per-kind scripts.
type Kind struct {
	Name string

	// Qualifiers are administrative type words appended to lookup terms,
	// in priority order.
	Qualifiers []string

	// Parents selects the summary hierarchy requirement.
	Parents ParentRule

	// KindWord, when set, must appear in the candidate title or summary
	// ("district" for districts).
	KindWord string

	// GeoKeywords, when non-empty, requires at least one keyword within
	// the first GeoWindow characters of the summary. Filters non-place
	// disambiguation hits for towns and villages.
	GeoKeywords []string
	GeoWindow   int

	// Blacklist phrases reject a candidate when present in its title.
	Blacklist []string

	// CategoryMarkers gate acceptance on Wikipedia category membership
	// when category data is available.
	CategoryMarkers []string

	// CleanName applies the village-style raw name cleanup before any
	// term is built.
	CleanName bool

	// SearchLimit is the result count requested from the search fallback.
	SearchLimit int
}

// DistrictKind returns the matching descriptor for census districts.
func DistrictKind() Kind {
	return Kind{
		Name:       "district",
		Qualifiers: []string{"district"},
		Parents:    ParentState,
		KindWord:   "district",
		Blacklist: []string{
			"list of", "mandal", "taluk", "tehsil", "village",
			"assembly constituency", "lok sabha constituency", "division",
		},
		CategoryMarkers: []string{"districts of", "districts in"},
		SearchLimit:     5,
	}
}

// SubdistrictKind returns the matching descriptor for subdistricts
// (tehsils, taluks, mandals, blocks).
func SubdistrictKind() Kind {
	return Kind{
		Name:       "subdistrict",
		Qualifiers: []string{"Tehsil", "Taluk", "Mandal", "Block", "Taluka"},
		Parents:    ParentDistrictOrState,
		Blacklist: []string{
			"list of", "assembly constituency", "lok sabha constituency",
			"elections in",
		},
		CategoryMarkers: []string{
			"tehsil", "taluk", "mandal", "community development block",
			"subdistrict",
		},
		SearchLimit: 5,
	}
}

// ULBKind returns the matching descriptor for urban local bodies (towns).
func ULBKind() Kind {
	return Kind{
		Name: "ulb",
		Qualifiers: []string{
			"Municipality", "Municipal Corporation", "City", "Town",
			"Nagar Palika", "Nagar Panchayat",
		},
		Parents: ParentState,
		GeoKeywords: []string{
			"town", "city", "municipality", "municipal", "corporation",
			"nagarpalika", "nagar panchayat", "urban", "population",
			"district", "state", "india",
		},
		GeoWindow: 600,
		Blacklist: []string{
			"list of", "assembly constituency", "lok sabha constituency",
			"elections in", "vidhan sabha", "railway station",
		},
		SearchLimit: 5,
	}
}

// VillageKind returns the matching descriptor for villages. Village source
// names are noisier than other kinds, so raw names are cleaned first.
func VillageKind() Kind {
	return Kind{
		Name:       "village",
		Qualifiers: []string{"village"},
		Parents:    ParentDistrictOrState,
		GeoKeywords: []string{
			"village", "town", "hamlet", "settlement", "populated place",
			"panchayat", "gram", "locality", "census", "population",
			"district", "tehsil", "mandal", "taluk",
		},
		GeoWindow: 700,
		Blacklist: []string{
			"list of", "constituency", "election", "railway station",
			"airport", "disambiguation",
		},
		CleanName:   true,
		SearchLimit: 5,
	}
}

// KindByName resolves a CLI kind argument to its descriptor.
func KindByName(name string) (Kind, bool) {
	switch name {
	case "district", "districts":
		return DistrictKind(), true
	case "subdistrict", "subdistricts":
		return SubdistrictKind(), true
	case "ulb", "ulbs", "town", "towns":
		return ULBKind(), true
	case "village", "villages":
		return VillageKind(), true
	}
	return Kind{}, false
}

// parentOf returns the immediate parent unit for lookup terms: the state
// for districts and towns, the district for subdistricts and villages.
func (k Kind) parentOf(rec Record) string {
	switch k.Parents {
	case ParentDistrictOrState:
		if rec.District != "" {
			return rec.District
		}
		return rec.State
	default:
		return rec.State
	}
}
