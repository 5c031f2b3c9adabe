// Package enrich fills missing state codes in a university dataset using a
// geocode.Provider, in paced batches.
package enrich

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/campus-states/internal/model"
	"github.com/sells-group/campus-states/pkg/geocode"
)

// Options controls batching and pacing.
type Options struct {
	BatchSize   int
	RecordDelay time.Duration
	BatchDelay  time.Duration
	// Limit caps the number of records looked up. Zero means no cap.
	Limit int
}

// Enricher runs a provider over every record that lacks a state.
type Enricher struct {
	provider geocode.Provider
	opts     Options
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates an Enricher. A non-positive BatchSize processes everything in
// one batch.
func New(provider geocode.Provider, opts Options) *Enricher {
	return &Enricher{provider: provider, opts: opts, sleep: sleepCtx}
}

// Pending returns the indexes of records that need a state: empty state and a
// non-empty country.
func Pending(records []model.University) []int {
	var idx []int
	for i := range records {
		if !records[i].HasState() && strings.TrimSpace(records[i].Country) != "" {
			idx = append(idx, i)
		}
	}
	return idx
}

// Run looks up every pending record and sets its state in place. Lookup
// failures are counted and logged; processing continues. A canceled context
// stops the run and returns the stats gathered so far with the context error.
func (e *Enricher) Run(ctx context.Context, records []model.University) (model.EnrichStats, error) {
	log := zap.L().With(zap.String("provider", e.provider.Name()))

	pending := Pending(records)
	stats := model.EnrichStats{Total: len(records)}
	for i := range records {
		if records[i].HasState() {
			stats.AlreadyHadState++
		}
	}
	stats.NoCountry = len(records) - stats.AlreadyHadState - len(pending)
	if e.opts.Limit > 0 && len(pending) > e.opts.Limit {
		pending = pending[:e.opts.Limit]
	}

	log.Info("enrich: starting",
		zap.Int("total", stats.Total),
		zap.Int("pending", len(pending)),
		zap.Int("no_country", stats.NoCountry),
	)
	if len(pending) == 0 {
		return stats, nil
	}

	batchSize := e.opts.BatchSize
	if batchSize <= 0 {
		batchSize = len(pending)
	}
	totalBatches := (len(pending) + batchSize - 1) / batchSize

	for start := 0; start < len(pending); start += batchSize {
		end := min(start+batchSize, len(pending))
		log.Info("enrich: batch",
			zap.Int("batch", start/batchSize+1),
			zap.Int("of", totalBatches),
		)

		for n, i := range pending[start:end] {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			u := &records[i]
			added, err := e.lookup(ctx, log, u)
			if err != nil && ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Processed++
			if added {
				stats.StatesAdded++
			} else {
				stats.Failed++
			}

			last := start+n == len(pending)-1
			if !last && e.opts.RecordDelay > 0 {
				if err := e.sleep(ctx, e.opts.RecordDelay); err != nil {
					return stats, err
				}
			}
		}

		if end < len(pending) && e.opts.BatchDelay > 0 {
			log.Debug("enrich: waiting before next batch", zap.Duration("delay", e.opts.BatchDelay))
			if err := e.sleep(ctx, e.opts.BatchDelay); err != nil {
				return stats, err
			}
		}
	}

	log.Info("enrich: done",
		zap.Int("processed", stats.Processed),
		zap.Int("states_added", stats.StatesAdded),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (e *Enricher) lookup(ctx context.Context, log *zap.Logger, u *model.University) (bool, error) {
	result, err := e.provider.Lookup(ctx, geocode.Query{Name: u.Name, Country: u.Country})
	if err != nil {
		log.Warn("enrich: lookup failed", zap.String("university", u.Name), zap.Error(err))
		return false, err
	}
	if result == nil || !result.Matched || result.Abbreviation == "" {
		log.Debug("enrich: no region", zap.String("university", u.Name), zap.String("country", u.Country))
		return false, nil
	}
	if !u.SetState(result.Abbreviation) {
		return false, nil
	}
	log.Debug("enrich: state added",
		zap.String("university", u.Name),
		zap.String("state", result.Abbreviation),
		zap.Bool("cached", result.Cached),
	)
	return true, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
