package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/polybench-dev/polybench/internal/aggregator"
)

// WriteSummary renders a single suite's aggregated results: one row per
// (benchmark, language), sorted by name then language.
func WriteSummary(w io.Writer, suite *aggregator.AggregatedSuite, format Format, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	if suite == nil {
		suite = &aggregator.AggregatedSuite{}
	}
	results := sortedResults(suite.Results)

	switch format {
	case FormatJSON:
		return writeSummaryJSON(w, results, opts)
	case FormatCSV:
		return writeSummaryCSV(w, results, opts)
	case FormatMD:
		return writeSummaryMarkdown(w, results, opts)
	default:
		return writeSummaryTable(w, results, opts)
	}
}

// deltaPercent reports how much faster (negative) or slower (positive) cur
// is than prev, as a percentage of prev. ok is false when there's no prior
// run to compare against.
func deltaPercent(opts *Options, name, language string, cur float64) (pct float64, ok bool) {
	if opts == nil || opts.Previous == nil {
		return 0, false
	}
	prev, found := opts.Previous[PreviousKey(name, language)]
	if !found || prev.NanosPerOp <= 0 {
		return 0, false
	}
	return (cur - prev.NanosPerOp) / prev.NanosPerOp * 100, true
}

func sortedResults(results []*aggregator.AggregatedResult) []*aggregator.AggregatedResult {
	sorted := append([]*aggregator.AggregatedResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Language < sorted[j].Language
	})
	return sorted
}

func writeSummaryTable(w io.Writer, results []*aggregator.AggregatedResult, opts *Options) error {
	if opts.Title != "" {
		fmt.Fprintf(w, "%s\n\n", opts.Title)
	}

	tw := tablewriter.NewWriter(w)
	header := []string{"BENCHMARK", "LANG", "NS/OP", "OPS/SEC", "CV%", "STABLE", "VS LAST"}
	if opts.Verbose {
		header = append(header, "P99", "RUNS")
	}
	tw.SetHeader(header)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetAutoWrapText(false)

	for _, r := range results {
		m := r.Measured
		cv, stable := "", "yes"
		if m.Distribution != nil {
			cv = fmt.Sprintf("%.2f", m.Distribution.CVPercent)
		}
		if m.Runs != nil && !m.Runs.IsStable {
			stable = "no"
		}
		vsLast := "-"
		if pct, ok := deltaPercent(opts, r.Name, r.Language, m.NanosPerOp); ok {
			vsLast = fmt.Sprintf("%+.1f%%", pct)
		}
		row := []string{
			r.Name, r.Language,
			fmt.Sprintf("%.1f", m.NanosPerOp),
			fmt.Sprintf("%.0f", m.OpsPerSec),
			cv, stable, vsLast,
		}
		if opts.Verbose {
			p99, runs := "", ""
			if m.Distribution != nil {
				p99 = fmt.Sprintf("%.1f", m.Distribution.P99)
			}
			if m.Runs != nil {
				runs = fmt.Sprintf("%d", m.Runs.RunCount)
			}
			row = append(row, p99, runs)
		}
		tw.Append(row)
	}
	tw.Render()
	return nil
}

func writeSummaryJSON(w io.Writer, results []*aggregator.AggregatedResult, opts *Options) error {
	type row struct {
		Name          string   `json:"name"`
		Language      string   `json:"language"`
		Iterations    int64    `json:"iterations"`
		NanosPerOp    float64  `json:"nanos_per_op"`
		OpsPerSec     float64  `json:"ops_per_sec"`
		CVPercent     float64  `json:"cv_percent,omitempty"`
		IsStable      bool     `json:"is_stable"`
		DeltaPercent  *float64 `json:"delta_percent_vs_last,omitempty"`
	}
	out := make([]row, 0, len(results))
	for _, r := range results {
		m := r.Measured
		cv := 0.0
		if m.Distribution != nil {
			cv = m.Distribution.CVPercent
		}
		out = append(out, row{
			Name: r.Name, Language: r.Language, Iterations: m.Iterations,
			NanosPerOp: m.NanosPerOp, OpsPerSec: m.OpsPerSec, CVPercent: cv,
			IsStable:     m.Runs == nil || m.Runs.IsStable,
			DeltaPercent: deltaPercentPtr(opts, r.Name, r.Language, m.NanosPerOp),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func deltaPercentPtr(opts *Options, name, language string, cur float64) *float64 {
	pct, ok := deltaPercent(opts, name, language, cur)
	if !ok {
		return nil
	}
	return &pct
}

func writeSummaryCSV(w io.Writer, results []*aggregator.AggregatedResult, opts *Options) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "language", "nanos_per_op", "ops_per_sec", "cv_percent", "is_stable", "delta_percent_vs_last"})
	for _, r := range results {
		m := r.Measured
		cv := ""
		if m.Distribution != nil {
			cv = fmt.Sprintf("%.4f", m.Distribution.CVPercent)
		}
		stable := m.Runs == nil || m.Runs.IsStable
		delta := ""
		if pct, ok := deltaPercent(opts, r.Name, r.Language, m.NanosPerOp); ok {
			delta = fmt.Sprintf("%.4f", pct)
		}
		_ = cw.Write([]string{
			r.Name, r.Language,
			fmt.Sprintf("%.4f", m.NanosPerOp),
			fmt.Sprintf("%.4f", m.OpsPerSec),
			cv, fmt.Sprintf("%v", stable), delta,
		})
	}
	cw.Flush()
	return cw.Error()
}

func writeSummaryMarkdown(w io.Writer, results []*aggregator.AggregatedResult, opts *Options) error {
	fmt.Fprintf(w, "| Benchmark | Lang | ns/op | ops/sec | CV%% | Stable | vs Last |\n")
	fmt.Fprintf(w, "|---|---|---|---|---|---|---|\n")
	for _, r := range results {
		m := r.Measured
		cv := ""
		if m.Distribution != nil {
			cv = fmt.Sprintf("%.2f", m.Distribution.CVPercent)
		}
		stable := "yes"
		if m.Runs != nil && !m.Runs.IsStable {
			stable = "no"
		}
		vsLast := "-"
		if pct, ok := deltaPercent(opts, r.Name, r.Language, m.NanosPerOp); ok {
			vsLast = fmt.Sprintf("%+.1f%%", pct)
		}
		fmt.Fprintf(w, "| %s | %s | %.1f | %.0f | %s | %s | %s |\n",
			r.Name, r.Language, m.NanosPerOp, m.OpsPerSec, cv, stable, vsLast)
	}
	return nil
}
