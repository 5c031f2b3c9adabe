package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campus-states/internal/enrich"
	"github.com/sells-group/campus-states/internal/model"
	"github.com/sells-group/campus-states/pkg/geocode"
	"github.com/sells-group/campus-states/pkg/nominatim"
)

var nominatimFlags enrichFlags

var nominatimCmd = &cobra.Command{
	Use:   "nominatim",
	Short: "Look up missing states with OpenStreetMap Nominatim (free)",
	Long:  "Queries Nominatim for every university without a state, at most one request per configured interval, and writes the enhanced dataset.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input, output := nominatimFlags.paths(cfg.Dataset.RemoteOutput)
		cfg.Dataset.Input = input
		if err := cfg.Validate(string(model.VariantNominatim)); err != nil {
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

		client := newNominatimClient()
		var provider geocode.Provider = geocode.NewNominatimProvider(client, reg)
		if !nominatimFlags.noCache {
			provider = withCache(provider, st)
		}
		if nominatimFlags.localFirst {
			provider = geocode.NewCascade(geocode.NewLocalProvider(reg), provider)
		}

		// The client's limiter paces requests; no extra sleeps.
		_, err = runEnrichJob(ctx, enrichJob{
			variant:  model.VariantNominatim,
			input:    input,
			output:   output,
			provider: provider,
			opts:     enrich.Options{Limit: nominatimFlags.limit},
			runs:     st,
		})
		zap.L().Info("nominatim requests", zap.Int64("made", client.RequestsMade()))
		return err
	},
}

func init() {
	nominatimFlags.register(nominatimCmd, true)
	rootCmd.AddCommand(nominatimCmd)
}

func newNominatimClient() nominatim.Client {
	return nominatim.NewClient(
		nominatim.WithBaseURL(cfg.Nominatim.BaseURL),
		nominatim.WithUserAgent(cfg.Nominatim.UserAgent),
		nominatim.WithAcceptLanguage(cfg.Nominatim.AcceptLanguage),
		nominatim.WithInterval(cfg.Nominatim.Interval()),
		nominatim.WithHTTPClient(&http.Client{Timeout: cfg.Nominatim.Timeout()}),
	)
}
