package reporter

// Format selects a report's output serialization.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatMD    Format = "md"
	FormatCSV   Format = "csv"
)

// Options configures a report independent of which Format renders it.
type Options struct {
	Title string
	// Verbose adds per-benchmark detail a default summary table omits: the
	// P99 and RUNS (run count) columns. Other formats and reports ignore it.
	Verbose bool
	// Previous holds the prior run WriteSummary diffs each current result
	// against (storage.LatestBefore's "vs last run" delta), keyed by
	// PreviousKey(name, language). A name/language with no entry renders
	// with an empty delta rather than omitting the row.
	Previous map[string]PreviousRun
}

// PreviousRun is the single prior measurement a current result is compared
// against for the "vs last run" delta.
type PreviousRun struct {
	NanosPerOp float64
}

// PreviousKey builds the map key WriteSummary looks up in Options.Previous.
func PreviousKey(name, language string) string {
	return name + "|" + language
}
