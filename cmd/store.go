package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campus-states/internal/region"
	"github.com/sells-group/campus-states/internal/store"
)

// initStore opens and migrates the SQLite cache file. It returns (nil, nil)
// when the cache is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	dsn := cfg.Cache.Path
	if dsn == "" {
		dsn = "campus-states.db"
	}
	st, err := store.NewSQLite(dsn)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// requireStore is initStore for commands that cannot run without it.
func requireStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("cache is disabled (cache.enabled=false)")
	}
	return st, nil
}

func initRegions() (*region.Registry, error) {
	reg, err := region.Load(cfg.Regions.OverridesPath)
	if err != nil {
		return nil, eris.Wrap(err, "load region tables")
	}
	return reg, nil
}
