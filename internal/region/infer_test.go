package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfer_SampleUniversities(t *testing.T) {
	r := Default()

	tests := []struct {
		name    string
		country string
		want    string
		rule    Rule
	}{
		{"Stanford University", "United States", "CA", RuleCity},
		{"University of California, Berkeley", "United States", "CA", RuleRegion},
		{"University of Toronto", "Canada", "ON", RuleCity},
		{"University of Sydney", "Australia", "NSW", RuleCity},
		{"Technical University of Munich", "Germany", "", ""},
		{"Indian Institute of Technology Bombay", "India", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := r.Infer(tt.name, tt.country)
			if tt.want == "" {
				assert.False(t, ok, "unexpected match %+v", m)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, m.Abbreviation)
			assert.Equal(t, tt.rule, m.Rule)
		})
	}
}

func TestInfer_RegionNameSubstring(t *testing.T) {
	r := Default()

	tests := []struct {
		name    string
		country string
		want    string
	}{
		{"University of Texas at Austin", "United States", "TX"},
		{"Ohio State University", "United States", "OH"},
		{"university of michigan", "United States", "MI"},
		{"University of British Columbia", "Canada", "BC"},
		{"University of Queensland", "Australia", "QLD"},
		{"Universität Hamburg", "Germany", "HH"},
		{"University of Kerala", "India", "KL"},
		{"Anna University Tamil Nadu", "India", "TN"},
	}

	for _, tt := range tests {
		m, ok := r.Infer(tt.name, tt.country)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.want, m.Abbreviation, tt.name)
		assert.Equal(t, RuleRegion, m.Rule, tt.name)
	}
}

func TestInfer_LongestRegionWins(t *testing.T) {
	r := Default()

	m, ok := r.Infer("West Virginia University", "United States")
	require.True(t, ok)
	assert.Equal(t, "WV", m.Abbreviation)

	m, ok = r.Infer("Indiana University of Pennsylvania", "United States")
	require.True(t, ok)
	assert.Equal(t, "PA", m.Abbreviation)

	m, ok = r.Infer("University of Western Australia", "Australia")
	require.True(t, ok)
	assert.Equal(t, "WA", m.Abbreviation)

	m, ok = r.Infer("Martin Luther University Halle Saxony-Anhalt", "Germany")
	require.True(t, ok)
	assert.Equal(t, "ST", m.Abbreviation)
}

func TestInfer_RegionBeatsCity(t *testing.T) {
	// "New York" is both a state and a city; the region step runs first.
	m, ok := Default().Infer("City University of New York", "United States")
	require.True(t, ok)
	assert.Equal(t, "NY", m.Abbreviation)
	assert.Equal(t, RuleRegion, m.Rule)
}

func TestInfer_ParenthesizedCode(t *testing.T) {
	r := Default()

	m, ok := r.Infer("Concordia University (TX)", "United States")
	require.True(t, ok)
	assert.Equal(t, "TX", m.Abbreviation)
	assert.Equal(t, RuleCode, m.Rule)
	assert.Equal(t, "(TX)", m.Term)

	// Code takes priority over a region name elsewhere in the name.
	m, ok = r.Infer("Columbia College Missouri (SC)", "United States")
	require.True(t, ok)
	assert.Equal(t, "SC", m.Abbreviation)

	// Unknown codes fall through to the later checks.
	m, ok = r.Infer("Institute of Technology (XX) Boston", "United States")
	require.True(t, ok)
	assert.Equal(t, "MA", m.Abbreviation)
	assert.Equal(t, RuleCity, m.Rule)

	m, ok = r.Infer("Charles Sturt University (NSW)", "Australia")
	require.True(t, ok)
	assert.Equal(t, "NSW", m.Abbreviation)
}

func TestInfer_DiacriticsAndCase(t *testing.T) {
	r := Default()

	m, ok := r.Infer("Université du Québec à Montréal", "Canada")
	require.True(t, ok)
	assert.Equal(t, "QC", m.Abbreviation)

	m, ok = r.Infer("Universität Stuttgart Baden-Wurttemberg", "Germany")
	require.True(t, ok)
	assert.Equal(t, "BW", m.Abbreviation)

	m, ok = r.Infer("ÉCOLE DE MONTREAL", "Canada")
	require.True(t, ok)
	assert.Equal(t, "QC", m.Abbreviation)
}

func TestInfer_UnknownCountry(t *testing.T) {
	r := Default()

	_, ok := r.Infer("University of California", "France")
	assert.False(t, ok)

	_, ok = r.Infer("Stanford University", "")
	assert.False(t, ok)
}

func TestInfer_NoMatch(t *testing.T) {
	_, ok := Default().Infer("Massachusetts Institute of Technology", "Canada")
	assert.False(t, ok)

	_, ok = Default().Infer("", "United States")
	assert.False(t, ok)
}

func TestInfer_CountryAlias(t *testing.T) {
	m, ok := Default().Infer("University of Oregon", "united states of america")
	require.True(t, ok)
	assert.Equal(t, "OR", m.Abbreviation)
}

func TestInfer_Deterministic(t *testing.T) {
	r := Default()
	first, ok := r.Infer("University of Virginia at Washington", "United States")
	require.True(t, ok)
	for i := 0; i < 50; i++ {
		m, _ := NewRegistry(Builtin()...).Infer("University of Virginia at Washington", "United States")
		assert.Equal(t, first, m)
	}
	// "washington" is longer than "virginia", so it is tried first.
	assert.Equal(t, "WA", first.Abbreviation)
}

func TestAbbreviate(t *testing.T) {
	r := Default()

	assert.Equal(t, "CA", r.Abbreviate("United States", "California"))
	assert.Equal(t, "DC", r.Abbreviate("United States", "district of columbia"))
	assert.Equal(t, "QC", r.Abbreviate("Canada", "Québec"))
	assert.Equal(t, "BY", r.Abbreviate("Germany", "Bavaria"))
	assert.Equal(t, "MH", r.Abbreviate("India", "Maharashtra"))
	assert.Equal(t, "NSW", r.Abbreviate("Australia", "New South Wales"))

	// Already a code.
	assert.Equal(t, "TX", r.Abbreviate("United States", "tx"))

	// Unknown names and countries pass through unchanged.
	assert.Equal(t, "Puerto Rico", r.Abbreviate("United States", "Puerto Rico"))
	assert.Equal(t, "Île-de-France", r.Abbreviate("France", "Île-de-France"))
	assert.Equal(t, "", r.Abbreviate("United States", "  "))
}

func TestIsAbbreviation(t *testing.T) {
	r := Default()
	assert.True(t, r.IsAbbreviation("United States", "ca"))
	assert.True(t, r.IsAbbreviation("Australia", "VIC"))
	assert.False(t, r.IsAbbreviation("Australia", "VI"))
	assert.False(t, r.IsAbbreviation("Narnia", "CA"))
}

func TestRegistry_Countries(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"Australia", "Canada", "Germany", "India", "United States"}, r.Countries())
	assert.True(t, r.Has("CANADA"))
	assert.True(t, r.Has("USA"))
	assert.False(t, r.Has("Mexico"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "quebec", Fold("  Québec "))
	assert.Equal(t, "baden-wurttemberg", Fold("Baden-Württemberg"))
	assert.Equal(t, "new south wales", Fold("New\tSouth   WALES"))
	assert.Equal(t, "", Fold(""))
}
