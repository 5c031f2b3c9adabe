package model

import "time"

// Variant names one of the enrichment strategies.
type Variant string

const (
	VariantLocal     Variant = "local"
	VariantNominatim Variant = "nominatim"
	VariantGoogle    Variant = "google"
)

// EnrichStats summarizes a single enrichment pass over a dataset.
type EnrichStats struct {
	Total           int `json:"total"`
	AlreadyHadState int `json:"already_had_state"`
	Processed       int `json:"total_processed"`
	StatesAdded     int `json:"states_added"`
	Failed          int `json:"failed"`
	// NoCountry counts stateless records skipped because they have no country.
	NoCountry int `json:"no_country,omitempty"`
}

// Coverage returns the share of records that carry a state after the run.
func (s EnrichStats) Coverage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.AlreadyHadState+s.StatesAdded) / float64(s.Total)
}

// Run records one invocation of an enrichment variant.
type Run struct {
	ID         string      `json:"id"`
	Variant    Variant     `json:"variant"`
	Input      string      `json:"input"`
	Output     string      `json:"output"`
	Stats      EnrichStats `json:"stats"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}
