package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindCompileFailure, "compile failed", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find wrapped cause")
	}
	if !strings.Contains(err.Error(), "compile failed") {
		t.Fatalf("Error() missing summary: %q", err.Error())
	}
}

func TestWithDetailTruncates(t *testing.T) {
	err := ForLanguage(KindAsyncUnreliable, "rust", "low success ratio")
	detail := strings.Repeat("x", 500)

	got := err.WithDetail(detail, 120)
	if len(got.Detail) != 120 {
		t.Fatalf("expected truncated detail of 120 bytes, got %d", len(got.Detail))
	}
	if err.Detail != "" {
		t.Fatalf("WithDetail must not mutate the receiver")
	}
}

func TestSpanString(t *testing.T) {
	s := Span{Line: 3, Column: 7, File: "suite.bench"}
	if got, want := s.String(), "suite.bench:3:7"; got != want {
		t.Fatalf("Span.String() = %q, want %q", got, want)
	}
}

func TestJoin(t *testing.T) {
	a := Span{Start: 5, End: 10, Line: 1, Column: 6}
	b := Span{Start: 20, End: 25, Line: 1, Column: 21}
	j := Join(a, b)
	if j.Start != 5 || j.End != 25 {
		t.Fatalf("Join() = %+v, want Start=5 End=25", j)
	}
}
