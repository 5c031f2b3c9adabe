package geocode

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/campus-states/internal/region"
)

// CacheEntry is a cached lookup outcome. Non-matches are cached too so that
// reruns skip queries that already came back empty.
type CacheEntry struct {
	Region       string
	Abbreviation string
	Matched      bool
	CachedAt     time.Time
}

// Cache persists lookup outcomes between runs.
type Cache interface {
	// GetRegion returns (nil, nil) on a miss or an expired entry.
	GetRegion(ctx context.Context, key string, ttl time.Duration) (*CacheEntry, error)
	PutRegion(ctx context.Context, key, provider string, entry CacheEntry) error
}

// CachedProvider wraps a Provider with a persistent Cache.
type CachedProvider struct {
	next  Provider
	cache Cache
	ttl   time.Duration
}

// NewCachedProvider wraps next with cache. A zero ttl never expires entries.
func NewCachedProvider(next Provider, cache Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttl: ttl}
}

// Name implements Provider.
func (p *CachedProvider) Name() string { return p.next.Name() }

// Lookup implements Provider. Cache failures are logged and never fail the lookup.
func (p *CachedProvider) Lookup(ctx context.Context, q Query) (*Result, error) {
	key := CacheKey(q, p.next.Name())

	entry, err := p.cache.GetRegion(ctx, key, p.ttl)
	if err != nil {
		zap.L().Warn("geocode cache: read failed", zap.String("key", key[:12]), zap.Error(err))
	} else if entry != nil {
		zap.L().Debug("geocode cache hit", zap.String("key", key[:12]), zap.Bool("matched", entry.Matched))
		return &Result{
			Region:       entry.Region,
			Abbreviation: entry.Abbreviation,
			Source:       p.next.Name(),
			Matched:      entry.Matched,
			Cached:       true,
		}, nil
	}

	result, err := p.next.Lookup(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := p.cache.PutRegion(ctx, key, p.next.Name(), CacheEntry{
		Region:       result.Region,
		Abbreviation: result.Abbreviation,
		Matched:      result.Matched,
	}); err != nil {
		zap.L().Warn("geocode cache: write failed", zap.String("key", key[:12]), zap.Error(err))
	}
	return result, nil
}

// CacheKey returns the SHA-256 hex of the folded query and provider name.
func CacheKey(q Query, provider string) string {
	normalized := fmt.Sprintf("%s|%s|%s", region.Fold(q.Name), region.Fold(q.Country), provider)
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}
