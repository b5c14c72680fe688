package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/polybench-dev/polybench/internal/comparator"
)

// WriteComparison renders a suite's cross-language comparison: one row per
// (benchmark, pairwise verdict), a per-benchmark winner line, and the
// overall win-count/geometric-mean summary.
func WriteComparison(w io.Writer, comparisons []*comparator.BenchmarkComparison, summary *comparator.SuiteSummary, format Format, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	sorted := append([]*comparator.BenchmarkComparison(nil), comparisons...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	switch format {
	case FormatJSON:
		return writeComparisonJSON(w, sorted, summary)
	case FormatCSV:
		return writeComparisonCSV(w, sorted)
	case FormatMD:
		return writeComparisonMarkdown(w, sorted, summary)
	default:
		return writeComparisonTable(w, sorted, summary, opts)
	}
}

func writeComparisonTable(w io.Writer, comparisons []*comparator.BenchmarkComparison, summary *comparator.SuiteSummary, opts *Options) error {
	if opts.Title != "" {
		fmt.Fprintf(w, "%s\n\n", opts.Title)
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"BENCHMARK", "WINNER", "VS BASELINE", "SPEEDUP"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
	})

	for _, c := range comparisons {
		winner := c.Winner
		if c.Verdict == comparator.TieV {
			winner = fmt.Sprintf("%s (tie)", winner)
		}
		tw.Append([]string{
			c.Name, winner, c.Baseline,
			fmt.Sprintf("%.2fx", c.BaselineSpeedup),
		})
	}
	tw.Render()

	if len(comparisons) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Legend: WINNER is the fastest language for that benchmark; (tie) means within the tie margin.")
		fmt.Fprintln(w, "        VS BASELINE / SPEEDUP compare the winner against the declared (or fallback) baseline language.")
	}

	for _, c := range comparisons {
		if c.AsyncSpreadWarning {
			fmt.Fprintf(w, "warning: %s — async success ratios spread %.1f points across languages\n", c.Name, c.AsyncSpreadPoints)
		}
	}

	if summary != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Baseline: %s  Ties: %d  Geometric mean speedup: %.2fx\n", summary.Baseline, summary.TieCount, summary.GeometricMeanSpeedup)
		langs := make([]string, 0, len(summary.WinCounts))
		for lang := range summary.WinCounts {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		for _, lang := range langs {
			fmt.Fprintf(w, "  %s: %d wins\n", lang, summary.WinCounts[lang])
		}
	}
	return nil
}

func writeComparisonJSON(w io.Writer, comparisons []*comparator.BenchmarkComparison, summary *comparator.SuiteSummary) error {
	data := map[string]any{
		"comparisons": comparisons,
		"summary":     summary,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func writeComparisonCSV(w io.Writer, comparisons []*comparator.BenchmarkComparison) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "winner", "verdict", "baseline", "baseline_speedup", "async_spread_warning"})
	for _, c := range comparisons {
		_ = cw.Write([]string{
			c.Name, c.Winner, string(c.Verdict), c.Baseline,
			fmt.Sprintf("%.4f", c.BaselineSpeedup),
			fmt.Sprintf("%v", c.AsyncSpreadWarning),
		})
	}
	cw.Flush()
	return cw.Error()
}

func writeComparisonMarkdown(w io.Writer, comparisons []*comparator.BenchmarkComparison, summary *comparator.SuiteSummary) error {
	fmt.Fprintf(w, "| Benchmark | Winner | Baseline | Speedup |\n|---|---|---|---|\n")
	for _, c := range comparisons {
		winner := c.Winner
		if c.Verdict == comparator.TieV {
			winner += " (tie)"
		}
		fmt.Fprintf(w, "| %s | %s | %s | %.2fx |\n", c.Name, winner, c.Baseline, c.BaselineSpeedup)
	}
	if summary != nil {
		fmt.Fprintf(w, "\nGeometric mean speedup vs %s: **%.2fx**\n", summary.Baseline, summary.GeometricMeanSpeedup)
	}
	return nil
}
