// Package geocode resolves the first-level region (state, province) of a
// university from its name and country, either from local tables or from a
// remote geocoding API.
package geocode

import (
	"context"
	"strings"
)

// Source names reported in Result.Source.
const (
	SourceLocal     = "local"
	SourceNominatim = "nominatim"
	SourceGoogle    = "google"
	SourceCascade   = "cascade"
)

// Query identifies the university to resolve.
type Query struct {
	Name    string
	Country string
}

// Text returns the free-text search string sent to remote geocoders.
func (q Query) Text() string {
	return strings.TrimSpace(strings.TrimSpace(q.Name) + " " + strings.TrimSpace(q.Country))
}

// Result holds a region lookup outcome.
type Result struct {
	// Region is the region as the source reported it (full name, code or table term).
	Region string
	// Abbreviation is Region normalized through the country's region table.
	Abbreviation string
	Source       string
	Matched      bool
	Cached       bool
}

// Provider resolves regions for universities.
type Provider interface {
	Name() string
	// Lookup returns an unmatched Result (not an error) when the source has
	// no answer. Errors are reserved for transport and API failures.
	Lookup(ctx context.Context, q Query) (*Result, error)
}

// Abbreviator normalizes region names to per-country abbreviations.
type Abbreviator interface {
	Abbreviate(country, regionName string) string
	IsAbbreviation(country, code string) bool
}

func noMatch(source string) *Result {
	return &Result{Matched: false, Source: source}
}
