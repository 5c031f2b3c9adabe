package store

import (
	"context"
	"time"

	"github.com/sells-group/campus-states/internal/model"
	"github.com/sells-group/campus-states/pkg/geocode"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Variant model.Variant `json:"variant,omitempty"`
	Limit   int           `json:"limit,omitempty"`
}

// Store persists the region lookup cache and the enrichment run log.
type Store interface {
	geocode.Cache

	// Runs
	RecordRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Cache maintenance
	DeleteExpiredRegions(ctx context.Context, ttl time.Duration) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
