package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/campus-states/internal/enrich"
	"github.com/sells-group/campus-states/internal/model"
	"github.com/sells-group/campus-states/pkg/geocode"
)

var localFlags enrichFlags

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Infer states from university names (no network)",
	Long:  "Matches each university name against region name and city tables and writes the dataset with the inferred states.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input, output := localFlags.paths(cfg.Dataset.LocalOutput)
		cfg.Dataset.Input = input
		if err := cfg.Validate(string(model.VariantLocal)); err != nil {
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

		_, err = runEnrichJob(ctx, enrichJob{
			variant:     model.VariantLocal,
			input:       input,
			output:      output,
			provider:    geocode.NewLocalProvider(reg),
			opts:        enrich.Options{},
			writeAlways: true,
			runs:        st,
		})
		return err
	},
}

func init() {
	localFlags.register(localCmd, false)
	rootCmd.AddCommand(localCmd)
}
