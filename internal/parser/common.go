package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/polybench-dev/polybench/internal/codegen"
	"github.com/polybench-dev/polybench/internal/measurement"
)

// lastJSONLine returns the last non-blank line of stdout, on the
// assumption (spec.md §4.6) that every generated program's final act is
// printing exactly one JSON object, regardless of anything else it wrote
// to stdout beforehand (a library under test logging its own diagnostics,
// for instance).
func lastJSONLine(stdout []byte) ([]byte, bool) {
	lines := bytes.Split(bytes.TrimSpace(stdout), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) == 0 {
			continue
		}
		return line, true
	}
	return nil, false
}

// decodeContract finds and unmarshals the trailing JSON line, or returns a
// DecodeError carrying a truncated stderr tail so the caller can surface
// why the subprocess produced nothing usable.
func decodeContract(lang string, stdout, stderr []byte) (*codegen.OutputContract, error) {
	line, ok := lastJSONLine(stdout)
	if !ok {
		return nil, &DecodeError{Language: lang, Reason: "no output", Stderr: truncate(string(stderr), 2000)}
	}
	var out codegen.OutputContract
	if err := json.Unmarshal(line, &out); err != nil {
		return nil, &DecodeError{Language: lang, Reason: fmt.Sprintf("invalid json: %v", err), Stderr: truncate(string(stderr), 2000)}
	}
	return &out, nil
}

// toMeasurement converts a decoded OutputContract into a Measurement,
// mirroring internal/measurement.FromSamples and then layering on the
// optional memory/async sections the contract carries. AsyncDetails'
// policy/cap fields are left zero-valued here — the executor, which
// alone knows the owning BenchmarkSpec, fills them in on the returned
// Result before handing it to internal/comparator.
func toMeasurement(c *codegen.OutputContract) *measurement.Measurement {
	m := measurement.FromSamples(c.Iterations, c.TotalNanos, c.Samples)

	if c.BytesPerOp != nil {
		allocs := 0.0
		if c.AllocsPerOp != nil {
			allocs = *c.AllocsPerOp
		}
		m = m.WithMemory(*c.BytesPerOp, allocs)
	}

	if c.SuccessfulCount != nil || c.ErrorCount != nil {
		var successful, errCount int64
		if c.SuccessfulCount != nil {
			successful = *c.SuccessfulCount
		}
		if c.ErrorCount != nil {
			errCount = *c.ErrorCount
		}
		total := successful + errCount
		ratio := 0.0
		if total > 0 {
			ratio = float64(successful) / float64(total)
		}
		m = m.WithAsync(successful, errCount, c.ErrorSamples, measurement.AsyncDetails{
			SuccessRatio: ratio,
		})
	}

	return m
}
