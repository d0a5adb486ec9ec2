package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-sentiment/internal/report"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report <log-path> <comparison-csv> <label>",
	Short: "Chart weighted yearly mentions against a comparison dataset",
	Long: `Report reads a collection log and every result CSV it references, weights
each year by available/collected for its interval, and renders an HTML page
with the weighted volume, the volume against the comparison dataset, and the
yearly sentiment.

The comparison CSV must have "year" and "count" columns; label names it in
the charts. The yearly table is printed unless --quiet is set.`,
	Args: cobra.ExactArgs(3),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("output", "", "HTML chart path (default <log>-report.html)")
	reportCmd.Flags().String("export", "", "also write the yearly aggregates as yaml or json")
	reportCmd.Flags().Bool("quiet", false, "do not print the yearly table")

	_ = viper.BindPFlag("report.export", reportCmd.Flags().Lookup("export"))

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")

	cfg := types.ReportConfig{
		LogPath:         args[0],
		ComparisonPath:  args[1],
		ComparisonLabel: args[2],
		OutputPath:      output,
		Export:          types.ExportFormat(viper.GetString("report.export")),
	}
	switch cfg.Export {
	case types.ExportNone, types.ExportYAML, types.ExportJSON:
	default:
		return fmt.Errorf("--export %q: expected yaml or json", cfg.Export)
	}

	var progress io.Writer = os.Stdout
	if quiet {
		progress = nil
	}
	r := &report.Reporter{Renderer: report.HTMLRenderer{}, Progress: progress, Log: appLog}

	sum, err := r.Run(cfg)
	if err != nil {
		var mal *report.MalformedComparisonDataError
		if errors.As(err, &mal) {
			return fmt.Errorf("%w; fix the comparison-csv argument (%s)", err, cfg.ComparisonPath)
		}
		return err
	}

	fmt.Printf("Charted %d year(s) from %d interval(s) and %d article(s) to %s.\n",
		len(sum.Aggregates), sum.Entries, sum.Articles, sum.ChartPath)
	if sum.Truncated > 0 {
		fmt.Printf("%d interval(s) were capped by max-results and are weighted up.\n", sum.Truncated)
	}
	if sum.ExportPath != "" {
		fmt.Printf("Exported aggregates to %s.\n", sum.ExportPath)
	}
	return nil
}
