package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campus-states/internal/enrich"
	"github.com/sells-group/campus-states/internal/model"
	"github.com/sells-group/campus-states/pkg/geocode"
	"github.com/sells-group/campus-states/pkg/google"
)

var googleFlags enrichFlags

var googleCmd = &cobra.Command{
	Use:   "google",
	Short: "Look up missing states with Google Places (paid, quota limited)",
	Long: "Queries Google Places Text Search for every university without a state in paced batches, " +
		"writes the enhanced dataset and a timestamped backup when any state was added.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input, output := googleFlags.paths(cfg.Dataset.RemoteOutput)
		cfg.Dataset.Input = input
		if err := cfg.Validate(string(model.VariantGoogle)); err != nil {
			return err
		}

		reg, err := initRegions()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		client := newGoogleClient()
		var provider geocode.Provider = geocode.NewGoogleProvider(client, reg)
		if !googleFlags.noCache {
			provider = withCache(provider, st)
		}
		if googleFlags.localFirst {
			provider = geocode.NewCascade(geocode.NewLocalProvider(reg), provider)
		}

		_, err = runEnrichJob(ctx, enrichJob{
			variant:  model.VariantGoogle,
			input:    input,
			output:   output,
			provider: provider,
			opts: enrich.Options{
				BatchSize:   cfg.Batch.Size,
				RecordDelay: time.Duration(cfg.Batch.RecordDelayMS) * time.Millisecond,
				BatchDelay:  time.Duration(cfg.Batch.BatchDelayMS) * time.Millisecond,
				Limit:       googleFlags.limit,
			},
			backupDir: cfg.Dataset.BackupDir,
			runs:      st,
		})
		zap.L().Info("google places requests",
			zap.Int64("made", client.RequestsMade()),
			zap.Int("max", cfg.Google.MaxRequests),
		)
		return err
	},
}

func newGoogleClient() google.Client {
	return google.NewClient(cfg.Google.Key,
		google.WithBaseURL(cfg.Google.BaseURL),
		google.WithMaxRequests(int64(cfg.Google.MaxRequests)),
		google.WithHTTPClient(&http.Client{Timeout: cfg.Google.Timeout()}),
	)
}

func init() {
	googleFlags.register(googleCmd, true)
	rootCmd.AddCommand(googleCmd)
}
