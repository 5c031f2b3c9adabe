package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campus-states/internal/dataset"
	"github.com/sells-group/campus-states/internal/fetcher"
)

var (
	fetchURL    string
	fetchOutput string
	fetchForce  bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the upstream university dataset",
	Long:  "Downloads the world universities dataset and replaces dataset.input when the upstream file has changed. The ETag of the last download is kept next to the file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url := fetchURL
		if url == "" {
			url = cfg.Dataset.SourceURL
		}
		if url == "" {
			return eris.New("fetch: dataset.source_url is required")
		}
		dest := fetchOutput
		if dest == "" {
			dest = cfg.Dataset.Input
		}

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{UserAgent: cfg.Nominatim.UserAgent})
		res, err := refreshDataset(cmd.Context(), f, url, dest, fetchForce)
		if err != nil {
			return err
		}

		if !res.changed {
			zap.L().Info("dataset unchanged", zap.String("path", dest), zap.String("etag", res.etag))
			return nil
		}
		zap.L().Info("dataset downloaded",
			zap.String("path", dest),
			zap.Int("universities", res.records),
			zap.String("etag", res.etag),
		)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "dataset URL (default dataset.source_url)")
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "", "destination file (default dataset.input)")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "download even if the ETag is unchanged")
	rootCmd.AddCommand(fetchCmd)
}

type fetchResult struct {
	changed bool
	etag    string
	records int
}

func etagPath(dest string) string { return dest + ".etag" }

// refreshDataset downloads url into dest if the upstream copy changed. The
// body must parse as a dataset before dest is replaced.
func refreshDataset(ctx context.Context, f fetcher.Fetcher, url, dest string, force bool) (fetchResult, error) {
	etag := ""
	if !force {
		if _, err := os.Stat(dest); err == nil {
			etag = readETag(dest)
		}
	}

	body, newETag, changed, err := f.DownloadIfChanged(ctx, url, etag)
	if err != nil {
		return fetchResult{}, err
	}
	if !changed {
		return fetchResult{etag: newETag}, nil
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return fetchResult{}, eris.Wrap(err, "fetch: read body")
	}
	records, err := dataset.Decode(data)
	if err != nil {
		return fetchResult{}, eris.Wrapf(err, "fetch: %s is not a university dataset", url)
	}

	if err := dataset.Save(dest, records); err != nil {
		return fetchResult{}, err
	}

	if newETag != "" {
		if err := os.WriteFile(etagPath(dest), []byte(newETag+"\n"), 0o644); err != nil {
			zap.L().Warn("fetch: failed to write etag", zap.Error(err))
		}
	} else if err := os.Remove(etagPath(dest)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn("fetch: failed to remove stale etag", zap.Error(err))
	}

	return fetchResult{changed: true, etag: newETag, records: len(records)}, nil
}

func readETag(dest string) string {
	data, err := os.ReadFile(etagPath(filepath.Clean(dest)))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
