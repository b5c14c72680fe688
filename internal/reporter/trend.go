package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/polybench-dev/polybench/internal/analyzer"
)

// TrendReport bundles one run's trend/anomaly/reliability findings — the
// shape internal/cmd assembles from internal/storage history and
// internal/analyzer before handing off to WriteTrend.
type TrendReport struct {
	Trends        []*analyzer.Trend
	Anomalies     []*analyzer.Anomaly
	Reliability   []analyzer.ReliabilityFlag
	UnstableNames []string
}

// WriteTrend renders a suite's historical trend/anomaly findings.
func WriteTrend(w io.Writer, report *TrendReport, format Format, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	if report == nil {
		report = &TrendReport{}
	}
	trends := append([]*analyzer.Trend(nil), report.Trends...)
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Name != trends[j].Name {
			return trends[i].Name < trends[j].Name
		}
		return trends[i].Language < trends[j].Language
	})

	switch format {
	case FormatJSON:
		return writeTrendJSON(w, report, trends)
	case FormatCSV:
		return writeTrendCSV(w, trends)
	case FormatMD:
		return writeTrendMarkdown(w, report, trends)
	default:
		return writeTrendTable(w, report, trends, opts)
	}
}

func directionMark(direction string) string {
	switch direction {
	case "improving":
		return "improving"
	case "degrading":
		return "degrading"
	default:
		return "stable"
	}
}

func writeTrendTable(w io.Writer, report *TrendReport, trends []*analyzer.Trend, opts *Options) error {
	if opts.Title != "" {
		fmt.Fprintf(w, "%s\n\n", opts.Title)
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"BENCHMARK", "LANG", "DIRECTION", "CHANGE", "SLOPE (ns/day)", "R²", "POINTS"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, t := range trends {
		tw.Append([]string{
			t.Name, t.Language, directionMark(t.Direction),
			fmt.Sprintf("%.2f%%", t.ChangePercent),
			fmt.Sprintf("%.2f", t.SlopeNsPerDay),
			fmt.Sprintf("%.3f", t.RSquared),
			fmt.Sprintf("%d", t.DataPoints),
		})
	}
	tw.Render()

	if len(report.Anomalies) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Anomalies:")
		for _, a := range report.Anomalies {
			fmt.Fprintf(w, "  [%s] %s/%s at %s: %.1f ns/op (z=%.2f)\n",
				a.Severity, a.Name, a.Language, a.RunAt.Format("2006-01-02 15:04"), a.Value, a.ZScore)
		}
	}
	if len(report.Reliability) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Reliability warnings:")
		for _, f := range report.Reliability {
			fmt.Fprintf(w, "  %s: async success ratios spread %.1f points\n", f.BenchmarkName, f.SpreadPoints)
		}
	}
	if len(report.UnstableNames) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Unstable across runs: %v\n", report.UnstableNames)
	}
	return nil
}

func writeTrendJSON(w io.Writer, report *TrendReport, trends []*analyzer.Trend) error {
	data := map[string]any{
		"trends":         trends,
		"anomalies":      report.Anomalies,
		"reliability":    report.Reliability,
		"unstable_names": report.UnstableNames,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func writeTrendCSV(w io.Writer, trends []*analyzer.Trend) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "language", "direction", "change_percent", "slope_ns_per_day", "r_squared", "data_points"})
	for _, t := range trends {
		_ = cw.Write([]string{
			t.Name, t.Language, t.Direction,
			fmt.Sprintf("%.4f", t.ChangePercent),
			fmt.Sprintf("%.4f", t.SlopeNsPerDay),
			fmt.Sprintf("%.4f", t.RSquared),
			fmt.Sprintf("%d", t.DataPoints),
		})
	}
	cw.Flush()
	return cw.Error()
}

func writeTrendMarkdown(w io.Writer, report *TrendReport, trends []*analyzer.Trend) error {
	fmt.Fprintf(w, "| Benchmark | Lang | Direction | Change | Slope | R² | Points |\n|---|---|---|---|---|---|---|\n")
	for _, t := range trends {
		fmt.Fprintf(w, "| %s | %s | %s | %.2f%% | %.2f | %.3f | %d |\n",
			t.Name, t.Language, directionMark(t.Direction), t.ChangePercent, t.SlopeNsPerDay, t.RSquared, t.DataPoints)
	}
	if len(report.Anomalies) > 0 {
		fmt.Fprintf(w, "\n**Anomalies**\n\n")
		for _, a := range report.Anomalies {
			fmt.Fprintf(w, "- [%s] %s/%s at %s: %.1f ns/op (z=%.2f)\n",
				a.Severity, a.Name, a.Language, a.RunAt.Format("2006-01-02 15:04"), a.Value, a.ZScore)
		}
	}
	return nil
}
