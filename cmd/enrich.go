package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campus-states/internal/dataset"
	"github.com/sells-group/campus-states/internal/enrich"
	"github.com/sells-group/campus-states/internal/model"
	"github.com/sells-group/campus-states/internal/store"
	"github.com/sells-group/campus-states/pkg/geocode"
)

// enrichFlags are shared by the local, nominatim and google subcommands.
type enrichFlags struct {
	input      string
	output     string
	limit      int
	localFirst bool
	noCache    bool
}

func (f *enrichFlags) register(cmd *cobra.Command, remote bool) {
	cmd.Flags().StringVar(&f.input, "input", "", "input dataset (default dataset.input)")
	cmd.Flags().StringVar(&f.output, "output", "", "output dataset (default from config)")
	if remote {
		cmd.Flags().IntVar(&f.limit, "limit", 0, "max number of records to look up (0 = all)")
		cmd.Flags().BoolVar(&f.localFirst, "local-first", false, "try name inference before calling the API")
		cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the lookup cache")
	}
}

// paths resolves the input and output paths, flags first.
func (f *enrichFlags) paths(defaultOutput string) (string, string) {
	input, output := f.input, f.output
	if input == "" {
		input = cfg.Dataset.Input
	}
	if output == "" {
		output = defaultOutput
	}
	return input, output
}

type enrichJob struct {
	variant  model.Variant
	input    string
	output   string
	provider geocode.Provider
	opts     enrich.Options
	// writeAlways writes the output even when no state was added.
	writeAlways bool
	// backupDir, when set, receives a timestamped copy after a run that added states.
	backupDir string
	runs      store.Store
}

// runEnrichJob loads the dataset, enriches it and writes the result. A
// canceled run still writes the states found so far.
func runEnrichJob(ctx context.Context, job enrichJob) (*model.Run, error) {
	log := zap.L().With(zap.String("variant", string(job.variant)))

	records, err := dataset.Load(job.input)
	if err != nil {
		return nil, err
	}

	before := dataset.Coverage(records)
	log.Info("dataset loaded",
		zap.String("input", job.input),
		zap.Int("universities", before.Total),
		zap.Int("with_state", before.WithState),
		zap.String("coverage", fmt.Sprintf("%.1f%%", before.Percent())),
	)

	run := &model.Run{
		Variant:   job.variant,
		Input:     job.input,
		Output:    job.output,
		StartedAt: time.Now(),
	}
	stats, runErr := enrich.New(job.provider, job.opts).Run(ctx, records)
	run.Stats = stats
	run.FinishedAt = time.Now()

	if stats.StatesAdded > 0 || (job.writeAlways && runErr == nil) {
		if err := dataset.Save(job.output, records); err != nil {
			return run, err
		}
		log.Info("dataset saved", zap.String("output", job.output))

		if job.backupDir != "" && stats.StatesAdded > 0 {
			path, err := dataset.SaveBackup(job.backupDir, records, run.FinishedAt)
			if err != nil {
				return run, err
			}
			log.Info("backup saved", zap.String("path", path))
		}
	} else {
		log.Info("no new states added, output not written")
	}

	if job.runs != nil {
		if err := job.runs.RecordRun(context.WithoutCancel(ctx), run); err != nil {
			log.Warn("record run failed", zap.Error(err))
		}
	}

	log.Info("enrichment results",
		zap.String("run_id", run.ID),
		zap.Int("total", stats.Total),
		zap.Int("already_had_state", stats.AlreadyHadState),
		zap.Int("states_added", stats.StatesAdded),
		zap.Int("failed", stats.Failed),
		zap.Int("total_processed", stats.Processed),
		zap.Int("no_country", stats.NoCountry),
		zap.String("coverage", fmt.Sprintf("%.1f%%", stats.Coverage()*100)),
		zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)),
	)
	return run, runErr
}

// withCache wraps p with the lookup cache unless st is nil.
func withCache(p geocode.Provider, st store.Store) geocode.Provider {
	if st == nil {
		return p
	}
	return geocode.NewCachedProvider(p, st, cfg.Cache.TTL())
}
