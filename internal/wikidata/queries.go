package wikidata

import (
	"context"
	"fmt"
	"strings"

	"github.com/censusindia/wikimatch/internal/match"
)

// Wikidata classes for Indian administrative units.
const (
	classDistrictOfIndia = "Q1149652"
	classStateOfIndia    = "Q12443800"
	countryIndia         = "Q668"

	// Subdistricts appear under several classes.
	subdistrictTypes = "wd:Q817477 wd:Q1229870 wd:Q6465 wd:Q2514330" // mandal, tehsil, taluka, CD block
)

// StateQIDs maps Indian state and union territory names to their Wikidata
// items, for the per-state subdistrict queries.
var StateQIDs = map[string]string{
	"Andhra Pradesh":         "Q1159",
	"Arunachal Pradesh":      "Q1162",
	"Assam":                  "Q1164",
	"Bihar":                  "Q1165",
	"Chhattisgarh":           "Q1168",
	"Goa":                    "Q1171",
	"Gujarat":                "Q1061",
	"Haryana":                "Q1174",
	"Himachal Pradesh":       "Q1177",
	"Jharkhand":              "Q1184",
	"Karnataka":              "Q1185",
	"Kerala":                 "Q1186",
	"Madhya Pradesh":         "Q1188",
	"Maharashtra":            "Q1191",
	"Manipur":                "Q1193",
	"Meghalaya":              "Q1195",
	"Mizoram":                "Q1502",
	"Nagaland":               "Q1599",
	"Odisha":                 "Q22048",
	"Punjab":                 "Q22424",
	"Rajasthan":              "Q1137",
	"Sikkim":                 "Q1505",
	"Tamil Nadu":             "Q1445",
	"Telangana":              "Q677037",
	"Tripura":                "Q1363",
	"Uttar Pradesh":          "Q1498",
	"Uttarakhand":            "Q1499",
	"West Bengal":            "Q1356",
	"Jammu and Kashmir":      "Q1030",
	"Delhi":                  "Q1353",
	"Andaman and Nicobar":    "Q40888",
	"Chandigarh":             "Q43433",
	"Dadra and Nagar Haveli": "Q46107",
	"Daman and Diu":          "Q46208",
	"Lakshadweep":            "Q26253",
	"Puducherry":             "Q66743",
}

// StateQID resolves a census state name to its Wikidata item. Census and
// Wikidata spellings differ slightly ("Andaman and Nicobar Islands" vs
// "Andaman and Nicobar"), so containment either way counts.
func StateQID(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", false
	}
	for k, qid := range StateQIDs {
		kl := strings.ToLower(k)
		if kl == n || strings.Contains(n, kl) || strings.Contains(kl, n) {
			return qid, true
		}
	}
	return "", false
}

// Districts fetches every Indian district in one query, with labels,
// alternate labels, parent state and coordinates.
func (c *Client) Districts(ctx context.Context) ([]match.Entry, error) {
	query := fmt.Sprintf(`
	SELECT ?item ?itemLabel ?stateLabel ?altLabel ?coord WHERE {
	  ?item wdt:P31 wd:%s.
	  ?item wdt:P17 wd:%s.
	  OPTIONAL { ?item wdt:P131 ?state.
	             ?state wdt:P31 wd:%s. }
	  OPTIONAL { ?item wdt:P625 ?coord. }
	  OPTIONAL { ?item skos:altLabel ?altLabel. FILTER(LANG(?altLabel)="en") }
	  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
	}`, classDistrictOfIndia, countryIndia, classStateOfIndia)

	rows, err := c.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load districts from Wikidata: %w", err)
	}

	entries := make([]match.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryFromBinding(row, "stateLabel"))
	}
	return entries, nil
}

// StateSubdistricts fetches the subdistricts of one state. The narrow
// two-hop query (item in district, district in state) is tried first
// because the broad P131* form times out; when it returns nothing, a
// direct P131=state fallback runs instead.
func (c *Client) StateSubdistricts(ctx context.Context, stateQID string) ([]match.Entry, error) {
	narrow := fmt.Sprintf(`
	SELECT ?item ?itemLabel ?districtLabel ?altLabel ?coord WHERE {
	  ?item wdt:P31 ?type.
	  VALUES ?type { %s }
	  ?item wdt:P131 ?district.
	  ?district wdt:P131 wd:%s.
	  OPTIONAL { ?item wdt:P625 ?coord. }
	  OPTIONAL { ?item skos:altLabel ?altLabel. FILTER(LANG(?altLabel)="en") }
	  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
	}`, subdistrictTypes, stateQID)

	rows, err := c.Query(ctx, narrow)
	if err != nil {
		return nil, fmt.Errorf("failed to load subdistricts for %s: %w", stateQID, err)
	}

	if len(rows) == 0 {
		broad := fmt.Sprintf(`
		SELECT ?item ?itemLabel ?districtLabel ?altLabel ?coord WHERE {
		  ?item wdt:P31 ?type.
		  VALUES ?type { %s }
		  ?item wdt:P131 wd:%s.
		  OPTIONAL { ?item wdt:P131 ?district.
		             ?district wdt:P31 wd:%s. }
		  OPTIONAL { ?item wdt:P625 ?coord. }
		  OPTIONAL { ?item skos:altLabel ?altLabel. FILTER(LANG(?altLabel)="en") }
		  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
		}`, subdistrictTypes, stateQID, classDistrictOfIndia)

		rows, err = c.Query(ctx, broad)
		if err != nil {
			return nil, fmt.Errorf("failed to load subdistricts for %s: %w", stateQID, err)
		}
	}

	entries := make([]match.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryFromBinding(row, "districtLabel"))
	}
	return entries, nil
}
