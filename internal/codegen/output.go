package codegen

// OutputContract mirrors the stdout JSON schema every generated program
// writes as its last non-empty line (spec.md §4.6 "Output contract"). It is
// shared with internal/parser, which decodes exactly this shape back out of
// subprocess stdout.
type OutputContract struct {
	Iterations        int64     `json:"iterations"`
	TotalNanos        int64     `json:"total_nanos"`
	NanosPerOp        float64   `json:"nanos_per_op"`
	OpsPerSec         float64   `json:"ops_per_sec"`
	BytesPerOp        *float64  `json:"bytes_per_op,omitempty"`
	AllocsPerOp       *float64  `json:"allocs_per_op,omitempty"`
	Samples           []float64 `json:"samples"`
	RawResult         any       `json:"raw_result,omitempty"`
	SuccessfulResults []any     `json:"successful_results,omitempty"`
	SuccessfulCount   *int64    `json:"successful_count,omitempty"`
	ErrorCount        *int64    `json:"error_count,omitempty"`
	ErrorSamples      []string  `json:"error_samples,omitempty"`
}
