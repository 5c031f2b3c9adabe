package region

import (
	"regexp"
	"strings"
)

// Rule identifies which check produced a match.
type Rule string

const (
	RuleCode   Rule = "code"   // "(TX)" already present in the name
	RuleRegion Rule = "region" // full region name found in the name
	RuleCity   Rule = "city"   // known city found in the name
)

// Match is the result of a successful inference.
type Match struct {
	Abbreviation string
	Rule         Rule
	// Term is the table entry (or code) that matched.
	Term string
}

var parenCodeRe = regexp.MustCompile(`\(([A-Z]{2,3})\)`)

// Infer returns the region abbreviation for a university name in the given
// country. Checks run in priority order: parenthesized code, region name,
// city name. The first hit wins.
func (r *Registry) Infer(name, country string) (Match, bool) {
	c := r.lookup(country)
	if c == nil || strings.TrimSpace(name) == "" {
		return Match{}, false
	}

	for _, m := range parenCodeRe.FindAllStringSubmatch(name, -1) {
		if c.codes[m[1]] {
			return Match{Abbreviation: m[1], Rule: RuleCode, Term: m[0]}, true
		}
	}

	folded := Fold(name)
	for _, e := range c.regions {
		if strings.Contains(folded, e.folded) {
			return Match{Abbreviation: e.abbr, Rule: RuleRegion, Term: e.name}, true
		}
	}
	for _, e := range c.cities {
		if strings.Contains(folded, e.folded) {
			return Match{Abbreviation: e.abbr, Rule: RuleCity, Term: e.name}, true
		}
	}
	return Match{}, false
}

// Abbreviate converts a full region name reported by a geocoder into the
// country's abbreviation. Known codes are returned upper-cased. Anything the
// table does not know, including every region of a country without a table,
// is returned unchanged.
func (r *Registry) Abbreviate(country, regionName string) string {
	regionName = strings.TrimSpace(regionName)
	c := r.lookup(country)
	if c == nil || regionName == "" {
		return regionName
	}
	if abbr, ok := c.byName[Fold(regionName)]; ok {
		return abbr
	}
	if code := strings.ToUpper(regionName); c.codes[code] {
		return code
	}
	return regionName
}

// IsAbbreviation reports whether code is a known abbreviation for the country.
func (r *Registry) IsAbbreviation(country, code string) bool {
	c := r.lookup(country)
	if c == nil {
		return false
	}
	return c.codes[strings.ToUpper(strings.TrimSpace(code))]
}
