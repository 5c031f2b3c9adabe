//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campus-states/internal/config"
	"github.com/sells-group/campus-states/internal/dataset"
	"github.com/sells-group/campus-states/internal/model"
	"github.com/sells-group/campus-states/internal/store"
)

const cmdDataset = `[
  {"name": "University of Texas at Austin", "country": "United States", "domains": ["utexas.edu"], "alpha_two_code": "US"},
  {"name": "Stanford University", "country": "United States", "domains": ["stanford.edu"]},
  {"name": "Harvard University", "country": "United States", "domains": ["harvard.edu"]},
  {"name": "Rice University", "country": "United States", "domains": ["rice.edu"], "state": "TX"},
  {"name": "Universidad de Chile", "country": "Chile", "domains": ["uchile.cl"]}
]`

// setupTestConfig points cfg at a temp directory holding the sample dataset.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.json"), []byte(cmdDataset), 0o644))

	oldCfg := cfg
	cfg = &config.Config{
		Dataset: config.DatasetConfig{
			Input:        filepath.Join(dir, "in.json"),
			LocalOutput:  filepath.Join(dir, "local.json"),
			RemoteOutput: filepath.Join(dir, "enhanced.json"),
			BackupDir:    filepath.Join(dir, "backups"),
		},
		Nominatim: config.NominatimConfig{
			BaseURL:     "http://127.0.0.1:1",
			UserAgent:   "test",
			IntervalMS:  1000,
			TimeoutSecs: 5,
		},
		Google: config.GoogleConfig{
			Key:         "test-key",
			BaseURL:     "http://127.0.0.1:1",
			MaxRequests: 100,
			TimeoutSecs: 5,
		},
		Batch: config.BatchConfig{Size: 2},
		Cache: config.CacheConfig{Enabled: true, Path: filepath.Join(dir, "cache.db"), TTLHours: 1},
	}
	t.Cleanup(func() {
		cfg = oldCfg
		localFlags = enrichFlags{}
		googleFlags = enrichFlags{}
		nominatimFlags = enrichFlags{}
	})
	return dir
}

func execute(t *testing.T, cmd *cobra.Command) error {
	t.Helper()
	cmd.SetContext(context.Background())
	return cmd.RunE(cmd, nil)
}

func listRuns(t *testing.T) []model.Run {
	t.Helper()
	st, err := store.NewSQLite(cfg.Cache.Path)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	return runs
}

func TestLocalCommand_WritesOutput(t *testing.T) {
	setupTestConfig(t)

	err := execute(t, localCmd)
	require.NoError(t, err)

	records, err := dataset.Load(cfg.Dataset.LocalOutput)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "TX", records[0].State)
	assert.Equal(t, "CA", records[1].State)
	assert.Empty(t, records[2].State)
	assert.Equal(t, "TX", records[3].State)
	assert.Empty(t, records[4].State)

	data, err := os.ReadFile(cfg.Dataset.LocalOutput)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"alpha_two_code": "US"`)

	runs := listRuns(t)
	require.Len(t, runs, 1)
	assert.Equal(t, model.VariantLocal, runs[0].Variant)
	assert.Equal(t, model.EnrichStats{Total: 5, AlreadyHadState: 1, Processed: 4, StatesAdded: 2, Failed: 2}, runs[0].Stats)
}

func TestLocalCommand_FlagsOverrideConfig(t *testing.T) {
	dir := setupTestConfig(t)
	cfg.Cache.Enabled = false
	localFlags.output = filepath.Join(dir, "custom.json")

	err := execute(t, localCmd)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "custom.json"))
	assert.NoError(t, err)
	_, err = os.Stat(cfg.Dataset.LocalOutput)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalCommand_MissingInput(t *testing.T) {
	dir := setupTestConfig(t)
	localFlags.input = filepath.Join(dir, "nope.json")

	err := execute(t, localCmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func newPlacesServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))

		var req struct {
			TextQuery string `json:"textQuery"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(req.TextQuery, "Harvard"):
			_, _ = io.WriteString(w, `{"places":[{"formattedAddress":"Massachusetts Hall, Cambridge, MA 02138, USA"}]}`)
		case strings.HasPrefix(req.TextQuery, "Stanford"):
			_, _ = io.WriteString(w, `{"places":[{"addressComponents":[{"longText":"California","shortText":"CA","types":["administrative_area_level_1"]}]}]}`)
		default:
			_, _ = io.WriteString(w, `{}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleCommand_EndToEndWithCache(t *testing.T) {
	dir := setupTestConfig(t)
	var hits atomic.Int32
	cfg.Google.BaseURL = newPlacesServer(t, &hits).URL

	err := execute(t, googleCmd)
	require.NoError(t, err)
	assert.Equal(t, int32(4), hits.Load())

	records, err := dataset.Load(cfg.Dataset.RemoteOutput)
	require.NoError(t, err)
	assert.Empty(t, records[0].State, "texas lookup returned nothing")
	assert.Equal(t, "CA", records[1].State)
	assert.Equal(t, "MA", records[2].State)
	assert.Empty(t, records[4].State)

	backups, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.True(t, strings.HasPrefix(backups[0].Name(), "world_universities_backup_"))

	// Second run is answered from the cache, non-matches included.
	err = execute(t, googleCmd)
	require.NoError(t, err)
	assert.Equal(t, int32(4), hits.Load())

	runs := listRuns(t)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, model.VariantGoogle, r.Variant)
		assert.Equal(t, 2, r.Stats.StatesAdded)
	}
}

func TestGoogleCommand_LocalFirst(t *testing.T) {
	setupTestConfig(t)
	var hits atomic.Int32
	cfg.Google.BaseURL = newPlacesServer(t, &hits).URL
	googleFlags.localFirst = true
	googleFlags.noCache = true

	err := execute(t, googleCmd)
	require.NoError(t, err)
	// Texas and Stanford resolve locally.
	assert.Equal(t, int32(2), hits.Load())

	records, err := dataset.Load(cfg.Dataset.RemoteOutput)
	require.NoError(t, err)
	assert.Equal(t, "TX", records[0].State)
	assert.Equal(t, "CA", records[1].State)
	assert.Equal(t, "MA", records[2].State)
}

func TestGoogleCommand_NoStatesAddedSkipsWrite(t *testing.T) {
	dir := setupTestConfig(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"places":[]}`)
	}))
	defer srv.Close()
	cfg.Google.BaseURL = srv.URL

	err := execute(t, googleCmd)
	require.NoError(t, err)

	_, err = os.Stat(cfg.Dataset.RemoteOutput)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "backups"))
	assert.True(t, os.IsNotExist(err))
}

func TestGoogleCommand_QuotaExhausted(t *testing.T) {
	setupTestConfig(t)
	var hits atomic.Int32
	cfg.Google.BaseURL = newPlacesServer(t, &hits).URL
	cfg.Google.MaxRequests = 1
	cfg.Cache.Enabled = false

	err := execute(t, googleCmd)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGoogleCommand_MissingKey(t *testing.T) {
	setupTestConfig(t)
	cfg.Google.Key = ""

	err := execute(t, googleCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google.key is required")
}

func TestNominatimCommand_IntervalTooShort(t *testing.T) {
	setupTestConfig(t)
	cfg.Nominatim.IntervalMS = 10

	err := execute(t, nominatimCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nominatim.interval_ms")
}

func TestNominatimCommand_SingleLookup(t *testing.T) {
	dir := setupTestConfig(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "test", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, `[{"address":{"state":"Texas"}}]`)
	}))
	defer srv.Close()
	cfg.Nominatim.BaseURL = srv.URL
	nominatimFlags.limit = 1
	nominatimFlags.output = filepath.Join(dir, "osm.json")

	err := execute(t, nominatimCmd)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	records, err := dataset.Load(filepath.Join(dir, "osm.json"))
	require.NoError(t, err)
	assert.Equal(t, "TX", records[0].State)
	assert.Empty(t, records[1].State)
}
