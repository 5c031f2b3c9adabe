package geocode

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/campus-states/internal/region"
	"github.com/sells-group/campus-states/pkg/nominatim"
)

// LocalProvider resolves regions from the static name and city tables.
type LocalProvider struct {
	regions *region.Registry
}

// NewLocalProvider creates a LocalProvider over the given registry.
func NewLocalProvider(regions *region.Registry) *LocalProvider {
	return &LocalProvider{regions: regions}
}

// Name implements Provider.
func (p *LocalProvider) Name() string { return SourceLocal }

// Lookup implements Provider.
func (p *LocalProvider) Lookup(_ context.Context, q Query) (*Result, error) {
	m, ok := p.regions.Infer(q.Name, q.Country)
	if !ok {
		return noMatch(SourceLocal), nil
	}
	zap.L().Debug("local provider: match",
		zap.String("university", q.Name),
		zap.String("rule", string(m.Rule)),
		zap.String("term", m.Term),
	)
	return &Result{
		Region:       m.Term,
		Abbreviation: m.Abbreviation,
		Source:       SourceLocal,
		Matched:      true,
	}, nil
}

// NominatimProvider resolves regions through OpenStreetMap Nominatim.
type NominatimProvider struct {
	client  nominatim.Client
	regions Abbreviator
}

// NewNominatimProvider creates a NominatimProvider.
func NewNominatimProvider(client nominatim.Client, regions Abbreviator) *NominatimProvider {
	return &NominatimProvider{client: client, regions: regions}
}

// Name implements Provider.
func (p *NominatimProvider) Name() string { return SourceNominatim }

// Lookup implements Provider.
func (p *NominatimProvider) Lookup(ctx context.Context, q Query) (*Result, error) {
	places, err := p.client.Search(ctx, q.Text())
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		zap.L().Debug("nominatim provider: no results", zap.String("query", q.Text()))
		return noMatch(SourceNominatim), nil
	}

	raw := places[0].Address.FirstLevelRegion()
	if raw == "" {
		zap.L().Debug("nominatim provider: result has no region",
			zap.String("query", q.Text()),
			zap.String("display_name", places[0].DisplayName),
		)
		return noMatch(SourceNominatim), nil
	}

	return &Result{
		Region:       raw,
		Abbreviation: p.regions.Abbreviate(q.Country, raw),
		Source:       SourceNominatim,
		Matched:      true,
	}, nil
}

// Cascade tries providers in order until one matches.
type Cascade struct {
	providers []Provider
}

// NewCascade creates a Cascade over the given providers.
func NewCascade(providers ...Provider) *Cascade {
	return &Cascade{providers: providers}
}

// Name implements Provider.
func (c *Cascade) Name() string { return SourceCascade }

// Lookup implements Provider. Provider errors are logged and the next
// provider is tried; the last error is returned only if no provider answered.
func (c *Cascade) Lookup(ctx context.Context, q Query) (*Result, error) {
	var lastErr error
	answered := false
	for _, p := range c.providers {
		result, err := p.Lookup(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			zap.L().Debug("cascade: provider error, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		answered = true
		if result != nil && result.Matched {
			return result, nil
		}
	}

	if !answered && lastErr != nil {
		return nil, lastErr
	}
	return noMatch(SourceCascade), nil
}
