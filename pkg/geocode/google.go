package geocode

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/campus-states/pkg/google"
)

const adminAreaLevel1 = "administrative_area_level_1"

var (
	// "Stanford, CA 94305, USA"
	usZipRe = regexp.MustCompile(`,\s*([A-Z]{2})\s*\d{5}`)
	// "Toronto, ON M5S 1A1, Canada" or "Toronto, ON, Canada"
	regionCodeRe = regexp.MustCompile(`,\s*([A-Z]{2})\b`)
)

// GoogleProvider resolves regions through Google Places Text Search.
type GoogleProvider struct {
	client  google.Client
	regions Abbreviator
}

// NewGoogleProvider creates a GoogleProvider.
func NewGoogleProvider(client google.Client, regions Abbreviator) *GoogleProvider {
	return &GoogleProvider{client: client, regions: regions}
}

// Name implements Provider.
func (p *GoogleProvider) Name() string { return SourceGoogle }

// Lookup implements Provider.
func (p *GoogleProvider) Lookup(ctx context.Context, q Query) (*Result, error) {
	resp, err := p.client.TextSearch(ctx, q.Text())
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Places) == 0 {
		zap.L().Debug("google provider: no results", zap.String("query", q.Text()))
		return noMatch(SourceGoogle), nil
	}

	place := resp.Places[0]
	if r := p.fromComponents(q.Country, place.AddressComponents); r != nil {
		return r, nil
	}
	if r := p.fromFormattedAddress(q.Country, place.FormattedAddress); r != nil {
		return r, nil
	}

	zap.L().Debug("google provider: no region in result",
		zap.String("query", q.Text()),
		zap.String("formatted_address", place.FormattedAddress),
	)
	return noMatch(SourceGoogle), nil
}

func (p *GoogleProvider) fromComponents(country string, comps []google.AddressComponent) *Result {
	for _, c := range comps {
		if !c.HasType(adminAreaLevel1) {
			continue
		}
		short := strings.TrimSpace(c.ShortText)
		long := strings.TrimSpace(c.LongText)

		abbr := short
		switch {
		case short != "" && p.regions.IsAbbreviation(country, short):
			abbr = strings.ToUpper(short)
		case long != "" && p.regions.IsAbbreviation(country, p.regions.Abbreviate(country, long)):
			abbr = p.regions.Abbreviate(country, long)
		case short == "":
			abbr = long
		}
		if abbr == "" {
			return nil
		}

		raw := long
		if raw == "" {
			raw = short
		}
		return &Result{Region: raw, Abbreviation: abbr, Source: SourceGoogle, Matched: true}
	}
	return nil
}

// fromFormattedAddress looks for a known region code after a comma, preferring
// one followed by a US ZIP code.
func (p *GoogleProvider) fromFormattedAddress(country, addr string) *Result {
	var codes []string
	if m := usZipRe.FindStringSubmatch(addr); m != nil {
		codes = append(codes, m[1])
	}
	for _, m := range regionCodeRe.FindAllStringSubmatch(addr, -1) {
		codes = append(codes, m[1])
	}
	for _, code := range codes {
		if p.regions.IsAbbreviation(country, code) {
			return &Result{Region: code, Abbreviation: code, Source: SourceGoogle, Matched: true}
		}
	}
	return nil
}
