package cmd

import (
	"fmt"
	"os"

	"github.com/polybench-dev/polybench/internal/analyzer"
	"github.com/polybench-dev/polybench/internal/reporter"
	"github.com/polybench-dev/polybench/internal/storage"
	"github.com/spf13/cobra"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Report a benchmark's historical trend and anomalies",
	Long: `Trend loads a (benchmark, language) pair's persisted run history and
reports its direction, slope, and any runs that look like outliers against
that history.

Example:
  polybench trend --name bench_sort --language go
  polybench trend --name bench_sort --language rust --limit 50 --format json`,
	RunE: runTrend,
}

func init() {
	rootCmd.AddCommand(trendCmd)

	trendCmd.Flags().StringP("name", "n", "", "benchmark name (required)")
	trendCmd.Flags().StringP("language", "l", "", "language (required)")
	trendCmd.Flags().IntP("limit", "L", 0, "maximum history entries to load (0 = unbounded)")
	trendCmd.Flags().StringP("format", "o", "table", "report format: table, json, md, or csv")
	trendCmd.Flags().String("db", "polybench.db", "sqlite database path for result history")

	_ = trendCmd.MarkFlagRequired("name")
	_ = trendCmd.MarkFlagRequired("language")
}

func runTrend(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	language, _ := flags.GetString("language")
	limit, _ := flags.GetInt("limit")
	formatStr, _ := flags.GetString("format")
	dbPath, _ := flags.GetString("db")

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer store.Close()
	if err := store.Init(); err != nil {
		return err
	}

	runs, err := store.History(name, language, limit)
	if err != nil {
		return fmt.Errorf("loading history for %s/%s: %w", name, language, err)
	}
	if len(runs) == 0 {
		return fmt.Errorf("no history recorded for %s/%s", name, language)
	}

	a := analyzer.New()
	report := &reporter.TrendReport{Anomalies: a.DetectAnomalies(runs)}
	if trend, err := a.Trend(runs); err == nil {
		report.Trends = append(report.Trends, trend)
	}

	format := reporter.Format(formatStr)
	return reporter.WriteTrend(os.Stdout, report, format, &reporter.Options{})
}
