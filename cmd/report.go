package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/campus-states/internal/dataset"
)

var (
	reportInput string
	reportXLSX  string
	reportTop   int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show state coverage per country",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := reportInput
		if input == "" {
			input = cfg.Dataset.Input
		}

		records, err := dataset.Load(input)
		if err != nil {
			return err
		}

		report := dataset.Coverage(records)
		formatCoverage(os.Stdout, report, reportTop)

		if reportXLSX != "" {
			if err := dataset.WriteCoverageXLSX(reportXLSX, report); err != nil {
				return err
			}
			zap.L().Info("coverage workbook written", zap.String("path", reportXLSX))
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportInput, "input", "", "dataset to inspect (default dataset.input)")
	reportCmd.Flags().StringVar(&reportXLSX, "xlsx", "", "also write the report to this .xlsx file")
	reportCmd.Flags().IntVar(&reportTop, "top", 25, "number of countries to print (0 = all)")
	rootCmd.AddCommand(reportCmd)
}

// formatCoverage writes a tabular coverage report to out. Countries beyond
// top are folded into a single summary line.
func formatCoverage(out io.Writer, report dataset.CoverageReport, top int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COUNTRY\tUNIVERSITIES\tWITH STATE\tCOVERAGE")
	_, _ = fmt.Fprintln(w, "-------\t------------\t----------\t--------")

	countries := report.Countries
	if top > 0 && len(countries) > top {
		countries = countries[:top]
	}
	for _, c := range countries {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\n", c.Country, c.Total, c.WithState, c.Percent())
	}
	if rest := len(report.Countries) - len(countries); rest > 0 {
		_, _ = fmt.Fprintf(w, "(%d more)\t\t\t\n", rest)
	}
	_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\n", report.Country, report.Total, report.WithState, report.Percent())
	_ = w.Flush()
}
