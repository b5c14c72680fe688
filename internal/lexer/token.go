// Package lexer hand-writes a lexer over .bench source text, producing a
// stream of spanned tokens for internal/dslparser (spec.md §4.1).
package lexer

import "fmt"

// TokenType enumerates every lexical category the DSL grammar needs.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	COMMENT

	// Literals
	IDENT
	INT
	FLOAT
	STRING   // single- or double-quoted
	DURATION // canonicalized to milliseconds at lex time
	BOOL

	// Keywords
	SUITE
	BENCH
	BENCH_ASYNC
	FIXTURE
	SETUP
	IMPORT
	DECLARE
	INIT
	HELPERS
	USE
	STD
	GLOBAL_SETUP
	AFTER
	BEFORE
	EACH
	SKIP
	VALIDATE
	REQUIRES
	ORDER
	COMPARE
	BASELINE
	SHAPE
	ASYNC
	TAGS
	TIMEOUT
	ITERATIONS
	WARMUP
	TARGET_TIME
	SINK
	COUNT
	TRUE
	FALSE

	// Language identifiers used as bare words in setup/implementation slots
	LANG_GO
	LANG_TS
	LANG_RUST
	LANG_PYTHON
	LANG_C
	LANG_CSHARP
	LANG_ZIG

	// Structural punctuation
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COLON
	DCOLON
	COMMA
	DOT
	AT
	HASH

	FILE_REF // @file("path") — a single special token
)

var names = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	DURATION: "DURATION", BOOL: "BOOL",
	SUITE: "suite", BENCH: "bench", BENCH_ASYNC: "benchAsync",
	FIXTURE: "fixture", SETUP: "setup", IMPORT: "import", DECLARE: "declare",
	INIT: "init", HELPERS: "helpers", USE: "use", STD: "std",
	GLOBAL_SETUP: "globalSetup", AFTER: "after", BEFORE: "before", EACH: "each",
	SKIP: "skip", VALIDATE: "validate", REQUIRES: "requires", ORDER: "order",
	COMPARE: "compare", BASELINE: "baseline", SHAPE: "shape", ASYNC: "async",
	TAGS: "tags", TIMEOUT: "timeout", ITERATIONS: "iterations", WARMUP: "warmup",
	TARGET_TIME: "targetTime", SINK: "sink", COUNT: "count",
	TRUE: "true", FALSE: "false",
	LANG_GO: "go", LANG_TS: "ts", LANG_RUST: "rust", LANG_PYTHON: "python",
	LANG_C: "c", LANG_CSHARP: "csharp", LANG_ZIG: "zig",
	LBRACE: "{", RBRACE: "}", LPAREN: "(", RPAREN: ")",
	LBRACKET: "[", RBRACKET: "]", COLON: ":", DCOLON: "::", COMMA: ",",
	DOT: ".", AT: "@", HASH: "#", FILE_REF: "@file",
}

func (t TokenType) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// keywords maps bare identifiers to their keyword token type. Anything not
// listed here lexes as IDENT (which covers benchmark/fixture/suite names
// and per-language identifiers inside raw code blocks — those are never
// tokenized as DSL keywords since they live inside CodeBlock text).
var keywords = map[string]TokenType{
	"suite": SUITE, "bench": BENCH, "benchAsync": BENCH_ASYNC,
	"fixture": FIXTURE, "setup": SETUP, "import": IMPORT, "declare": DECLARE,
	"init": INIT, "helpers": HELPERS, "use": USE, "std": STD,
	"globalSetup": GLOBAL_SETUP, "after": AFTER, "before": BEFORE, "each": EACH,
	"skip": SKIP, "validate": VALIDATE, "requires": REQUIRES, "order": ORDER,
	"compare": COMPARE, "baseline": BASELINE, "shape": SHAPE, "async": ASYNC,
	"tags": TAGS, "timeout": TIMEOUT, "iterations": ITERATIONS, "warmup": WARMUP,
	"targetTime": TARGET_TIME, "sink": SINK, "count": COUNT,
	"true": TRUE, "false": FALSE,
	"go": LANG_GO, "ts": LANG_TS, "typescript": LANG_TS, "rust": LANG_RUST,
	"python": LANG_PYTHON, "c": LANG_C, "csharp": LANG_CSHARP, "zig": LANG_ZIG,
}

// LookupIdent classifies a bare identifier as a keyword or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is a single lexed unit with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Start   int // byte offset
	End     int
	Line    int
	Column  int
	File    string
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, %s:%d:%d}", t.Type, t.Literal, t.File, t.Line, t.Column)
}
