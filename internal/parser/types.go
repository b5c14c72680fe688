package parser

import (
	"fmt"

	"github.com/polybench-dev/polybench/internal/measurement"
)

// Result is a single (benchmark, language) subprocess's decoded outcome.
type Result struct {
	Name     string
	Language string
	Measured *measurement.Measurement
}

// Parser decodes one language's subprocess output into a Result.
type Parser interface {
	// Parse reads stdout/stderr captured from a single benchmark
	// subprocess invocation and returns its decoded measurement. name is
	// the benchmark name the caller already knows (the output contract
	// itself carries no name field — spec.md §4.6 keeps it anonymous
	// since the caller always knows which benchmark it ran).
	Parse(name string, stdout, stderr []byte) (*Result, error)

	// Language reports the language this parser decodes.
	Language() string
}

// DecodeError wraps a parse failure with enough of the raw output to
// debug it without re-running the subprocess.
type DecodeError struct {
	Language string
	Reason   string
	Stderr   string // truncated, see truncate()
}

func (e *DecodeError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("parser(%s): %s", e.Language, e.Reason)
	}
	return fmt.Sprintf("parser(%s): %s: %s", e.Language, e.Reason, e.Stderr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
