package normalize

import (
	"regexp"
	"strings"
)

// Administrative type words stripped before comparing place names. Word
// boundaries matter: "Blockapur" must keep its "block" substring intact.
var reTypeWords = regexp.MustCompile(`\b(district|mandal|tehsil|taluka?|block|subdistrict|sub-district|state|and|cd|circle|hq)\b`)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9 ]`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// Name canonicalizes a free-text place name into a comparison key:
// lowercase, administrative qualifiers removed, only [a-z0-9 ] kept,
// whitespace collapsed. Empty input yields an empty key.
func Name(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToLower(raw)
	s = reTypeWords.ReplaceAllString(s, " ")
	s = reNonAlnum.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

var (
	reParenNote = regexp.MustCompile(`\(.*?\)`)
	reSlashAlt  = regexp.MustCompile(`/.*`)
	reRawJunk   = regexp.MustCompile(`[^a-zA-Z0-9 \-.]`)
)

// CleanVillageName strips the noise census village names carry: trailing
// asterisks, parenthetical notes, slash-separated alternate names and stray
// punctuation. The result keeps its original casing for use in lookup terms.
func CleanVillageName(name string) string {
	name = strings.ReplaceAll(name, "*", "")
	name = reParenNote.ReplaceAllString(name, "")
	name = reSlashAlt.ReplaceAllString(name, "")
	name = reRawJunk.ReplaceAllString(name, " ")
	name = reSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
