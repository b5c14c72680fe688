// Package dslparser is a recursive-descent, error-tolerant parser for
// .bench source files (spec.md §4.2). It accepts both the legacy
// `suite NAME { ... }` form and the required
// `declare suite NAME <suite_type> <run_mode> sameDataset: <bool> { ... }`
// form, and keeps going after a syntax error by synchronizing to the next
// top-level keyword or block boundary, the way
// sunholo-data-ailang/internal/parser recovers from bad declarations.
package dslparser

import (
	"strconv"

	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/diag"
	"github.com/polybench-dev/polybench/internal/lexer"
)

// Parser holds lexer state and the current token. It deliberately keeps no
// second token of lookahead: RawCodeBlock/RawLine resume scanning from
// exactly where the underlying lexer's cursor sits right after the current
// token, and a buffered peek token would already have scanned past the
// opening '{' into what is supposed to be verbatim embedded-language text.
type Parser struct {
	l    *lexer.Lexer
	file string

	cur lexer.Token

	errors []*ast.ErrorNode
}

// Parse lexes and parses src, returning the AST and any lexer errors
// promoted into the returned *ast.File.Errors. Parsing never fails outright
// for well-tolerated syntax errors — the caller's validator decides whether
// to proceed (spec.md §4.2, §4.10).
func Parse(src, file string) *ast.File {
	l := lexer.New(src, file)
	p := &Parser{l: l, file: file}
	p.next()

	f := &ast.File{SpanVal: diag.Span{File: file}}
	for p.cur.Type != lexer.EOF {
		switch {
		case p.cur.Type == lexer.USE:
			p.parseUseStd(f)
		case p.cur.Type == lexer.GLOBAL_SETUP:
			f.GlobalSetup = p.parseGlobalSetup()
		case p.cur.Type == lexer.DECLARE:
			if s := p.parseDeclareSuite(); s != nil {
				f.Suites = append(f.Suites, s)
			}
		case p.cur.Type == lexer.SUITE:
			if s := p.parseLegacySuite(); s != nil {
				f.Suites = append(f.Suites, s)
			}
		default:
			p.errorHere("expected 'use', 'globalSetup', 'suite', or 'declare suite'")
			p.synchronizeTopLevel()
		}
	}

	for _, lexErr := range l.Errors {
		f.Errors = append(f.Errors, &ast.ErrorNode{SpanVal: lexErr.Span, Message: lexErr.Summary})
	}
	f.Errors = append(f.Errors, p.errors...)
	return f
}

func (p *Parser) next() {
	p.cur = p.l.NextToken()
}

func (p *Parser) curSpan() diag.Span {
	return diag.Span{Start: p.cur.Start, End: p.cur.End, Line: p.cur.Line, Column: p.cur.Column, File: p.file}
}

func (p *Parser) errorHere(msg string) {
	p.errors = append(p.errors, &ast.ErrorNode{SpanVal: p.curSpan(), Message: msg})
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.cur.Type == t {
		p.next()
		return true
	}
	p.errorHere("expected " + t.String() + ", got " + p.cur.Type.String())
	return false
}

// synchronizeTopLevel discards tokens until the next top-level keyword or
// EOF (spec.md §4.2's synchronization-point recovery).
func (p *Parser) synchronizeTopLevel() {
	for p.cur.Type != lexer.EOF {
		switch p.cur.Type {
		case lexer.USE, lexer.GLOBAL_SETUP, lexer.DECLARE, lexer.SUITE:
			return
		}
		p.next()
	}
}

// synchronizeToBlockEnd discards tokens until the matching closing brace at
// depth 0 (relative to entry) or EOF, used when a nested construct fails to
// parse. Assumes the caller is positioned inside a block (depth 1 open).
func (p *Parser) synchronizeToBlockEnd() {
	depth := 1
	for p.cur.Type != lexer.EOF && depth > 0 {
		switch p.cur.Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
			if depth == 0 {
				return
			}
		}
		p.next()
	}
}

func (p *Parser) parseUseStd(f *ast.File) {
	start := p.curSpan()
	p.next() // 'use'
	if !p.expect(lexer.STD) {
		return
	}
	if !p.expect(lexer.DCOLON) {
		return
	}
	if p.cur.Type != lexer.IDENT {
		p.errorHere("expected stdlib module name after 'use std::'")
		return
	}
	name := p.cur.Literal
	p.next()
	for _, existing := range f.UseStds {
		if existing == name {
			// duplicate use — warning-level, recorded for the validator
			f.Errors = append(f.Errors, &ast.ErrorNode{SpanVal: start, Message: "duplicate use std::" + name})
		}
	}
	f.UseStds = append(f.UseStds, name)
}

// parseGlobalSetup parses `globalSetup { anvil.spawnAnvil(fork: "url"?) }`.
func (p *Parser) parseGlobalSetup() *ast.GlobalSetup {
	start := p.curSpan()
	p.next() // 'globalSetup'
	if !p.expect(lexer.LBRACE) {
		p.synchronizeToBlockEnd()
		return nil
	}
	gs := &ast.GlobalSetup{SpanVal: start}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.IDENT && p.cur.Literal == "anvil" {
			p.next()
			if p.cur.Type == lexer.DOT {
				p.next()
			}
			if p.cur.Type == lexer.IDENT && p.cur.Literal == "spawnAnvil" {
				p.next()
				gs.HasAnvil = true
				if p.cur.Type == lexer.LPAREN {
					p.next()
					args := p.parseArgList()
					gs.AnvilFork = args["fork"]
				}
				continue
			}
		}
		p.next()
	}
	p.expect(lexer.RBRACE)
	return gs
}

// parseArgList parses a `key: value, key2: value2` list up to the closing
// ')', returning a map of string-valued arguments.
func (p *Parser) parseArgList() map[string]string {
	args := map[string]string{}
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		if p.cur.Type != lexer.IDENT {
			p.errorHere("expected argument name")
			p.next()
			continue
		}
		key := p.cur.Literal
		p.next()
		if !p.expect(lexer.COLON) {
			continue
		}
		val := p.parseScalarAsString()
		args[key] = val
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parseScalarAsString() string {
	switch p.cur.Type {
	case lexer.STRING, lexer.IDENT:
		v := p.cur.Literal
		p.next()
		return v
	case lexer.INT, lexer.FLOAT, lexer.DURATION:
		v := p.cur.Literal
		p.next()
		return v
	case lexer.TRUE:
		p.next()
		return "true"
	case lexer.FALSE:
		p.next()
		return "false"
	default:
		p.errorHere("expected a scalar value")
		p.next()
		return ""
	}
}

// parseDeclareSuite parses the required
// `declare suite NAME <suite_type> <run_mode> sameDataset: <bool> { ... }`.
func (p *Parser) parseDeclareSuite() *ast.Suite {
	start := p.curSpan()
	p.next() // 'declare'
	if p.cur.Type != lexer.SUITE {
		p.errorHere("expected 'suite' after 'declare'")
		p.synchronizeTopLevel()
		return nil
	}
	p.next() // 'suite'
	return p.parseSuiteAfterHeader(start, true)
}

// parseLegacySuite parses `suite NAME { ... }`. suite_type and run_mode are
// left unset unless the body declares them; the validator reports them as
// missing, and lowering defaults them.
func (p *Parser) parseLegacySuite() *ast.Suite {
	start := p.curSpan()
	p.next() // 'suite'
	return p.parseSuiteAfterHeader(start, false)
}

func (p *Parser) parseSuiteAfterHeader(start diag.Span, required bool) *ast.Suite {
	if p.cur.Type != lexer.IDENT {
		p.errorHere("expected suite name")
		p.synchronizeTopLevel()
		return nil
	}
	s := &ast.Suite{
		SpanVal:             start,
		Name:                p.cur.Literal,
		Order:               ast.OrderSequential,
		FairnessMode:        ast.FairnessRelaxed,
		AsyncSamplingPolicy: ast.AsyncTimeBudgeted,
		Setups:              map[string]*ast.StructuredSetup{},
	}
	p.next()

	if required {
		if p.cur.Type == lexer.IDENT {
			s.SuiteType = ast.SuiteType(p.cur.Literal)
			p.next()
		} else {
			p.errorHere("missing suiteType in declare suite header")
		}
		if p.cur.Type == lexer.IDENT {
			s.RunMode = ast.RunMode(p.cur.Literal)
			p.next()
		} else {
			p.errorHere("missing runMode in declare suite header")
		}
		if p.cur.Type == lexer.IDENT && p.cur.Literal == "sameDataset" {
			p.next()
			p.expect(lexer.COLON)
			s.SameDataset = p.parseBool()
		} else {
			p.errorHere("missing sameDataset in declare suite header")
		}
	}

	if !p.expect(lexer.LBRACE) {
		p.synchronizeTopLevel()
		return s
	}

	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		p.parseSuiteMember(s)
	}
	p.expect(lexer.RBRACE)
	return s
}

func (p *Parser) parseBool() bool {
	switch p.cur.Type {
	case lexer.TRUE:
		p.next()
		return true
	case lexer.FALSE:
		p.next()
		return false
	default:
		p.errorHere("expected boolean literal")
		return false
	}
}

func (p *Parser) parseInt() int64 {
	switch p.cur.Type {
	case lexer.INT, lexer.DURATION:
		v, _ := strconv.ParseInt(p.cur.Literal, 10, 64)
		p.next()
		return v
	default:
		p.errorHere("expected integer literal")
		return 0
	}
}

func (p *Parser) parseFloat() float64 {
	switch p.cur.Type {
	case lexer.FLOAT, lexer.INT:
		v, _ := strconv.ParseFloat(p.cur.Literal, 64)
		p.next()
		return v
	default:
		p.errorHere("expected numeric literal")
		return 0
	}
}

func (p *Parser) parseStringArray() []string {
	var out []string
	if !p.expect(lexer.LBRACKET) {
		return out
	}
	for p.cur.Type != lexer.RBRACKET && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.STRING || p.cur.Type == lexer.IDENT {
			out = append(out, p.cur.Literal)
			p.next()
		} else {
			p.errorHere("expected string in array")
			p.next()
		}
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RBRACKET)
	return out
}

func (p *Parser) parseSuiteMember(s *ast.Suite) {
	switch p.cur.Type {
	case lexer.SETUP:
		p.parseSetup(s)
	case lexer.FIXTURE:
		if f := p.parseFixture(); f != nil {
			s.Fixtures = append(s.Fixtures, f)
		}
	case lexer.BENCH, lexer.BENCH_ASYNC:
		if b := p.parseBenchmark(); b != nil {
			s.Benchmarks = append(s.Benchmarks, b)
		}
	case lexer.AFTER:
		p.parseSuiteAfterBlock(s)
	case lexer.GLOBAL_SETUP:
		s.GlobalSetup = p.parseGlobalSetup()
	case lexer.IDENT, lexer.ITERATIONS, lexer.WARMUP, lexer.TARGET_TIME, lexer.TIMEOUT,
		lexer.REQUIRES, lexer.ORDER, lexer.BASELINE, lexer.SINK, lexer.COUNT:
		p.parseSuiteProperty(s)
	default:
		p.errorHere("unexpected token in suite body: " + p.cur.Type.String())
		p.next()
	}
}

func (p *Parser) parseSuiteProperty(s *ast.Suite) {
	key := p.cur.Literal
	p.next()
	if !p.expect(lexer.COLON) {
		return
	}
	switch key {
	case "iterations":
		v := p.parseInt()
		s.Iterations = &v
	case "warmup":
		v := p.parseInt()
		s.Warmup = &v
	case "targetTime", "targetTimeMs":
		v := p.parseInt()
		s.TargetTimeMs = &v
	case "timeout":
		v := p.parseInt()
		s.Timeout = &v
	case "requires":
		s.Requires = p.parseStringArray()
	case "order":
		if p.cur.Type == lexer.IDENT {
			s.Order = ast.Order(p.cur.Literal)
			p.next()
		}
	case "baseline":
		if p.cur.Type == lexer.IDENT || p.cur.Type == lexer.STRING {
			s.Baseline = p.cur.Literal
			p.next()
		}
	case "sink":
		v := p.parseBool()
		s.Sink = &v
	case "count":
		v := p.parseInt()
		s.Count = &v
	case "outlierDetection":
		v := p.parseBool()
		s.OutlierDetection = &v
	case "cvThreshold":
		v := p.parseFloat()
		s.CVThreshold = &v
	case "fairness":
		if p.cur.Type == lexer.IDENT {
			s.FairnessMode = ast.FairnessMode(p.cur.Literal)
			p.next()
		}
	case "fairnessSeed":
		v := p.parseInt()
		s.FairnessSeed = &v
	case "asyncSamplingPolicy":
		if p.cur.Type == lexer.IDENT {
			s.AsyncSamplingPolicy = ast.AsyncSamplingPolicy(p.cur.Literal)
			p.next()
		}
	case "asyncWarmupCap":
		v := p.parseInt()
		s.AsyncWarmupCap = &v
	case "asyncSampleCap":
		v := p.parseInt()
		s.AsyncSampleCap = &v
	case "sameDataset":
		s.SameDataset = p.parseBool()
	case "suiteType":
		if p.cur.Type == lexer.IDENT {
			s.SuiteType = ast.SuiteType(p.cur.Literal)
			p.next()
		}
	case "runMode":
		if p.cur.Type == lexer.IDENT {
			s.RunMode = ast.RunMode(p.cur.Literal)
			p.next()
		}
	default:
		p.errorHere("unknown suite property " + strconv.Quote(key))
		p.next()
	}
}

// parseSuiteAfterBlock parses the suite-level `after { charting.drawX(...) }`
// block into ChartDirective entries (spec.md §4.2).
func (p *Parser) parseSuiteAfterBlock(s *ast.Suite) {
	p.next() // 'after'
	if !p.expect(lexer.LBRACE) {
		p.synchronizeToBlockEnd()
		return
	}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		start := p.curSpan()
		if p.cur.Type == lexer.IDENT && p.cur.Literal == "charting" {
			p.next()
			if p.cur.Type == lexer.DOT {
				p.next()
			}
			if p.cur.Type != lexer.IDENT {
				p.errorHere("expected chart directive name after 'charting.'")
				p.next()
				continue
			}
			name := p.cur.Literal
			p.next()
			args := map[string]string{}
			if p.cur.Type == lexer.LPAREN {
				p.next()
				args = p.parseArgList()
			}
			s.ChartDirectives = append(s.ChartDirectives, &ast.ChartDirective{SpanVal: start, Name: name, Args: args})
			continue
		}
		p.next()
	}
	p.expect(lexer.RBRACE)
}

// parseSetup parses `setup <lang> { import {} declare {} async? init {} helpers {} }`.
func (p *Parser) parseSetup(s *ast.Suite) {
	start := p.curSpan()
	p.next() // 'setup'
	if !isLangToken(p.cur.Type) && p.cur.Type != lexer.IDENT {
		p.errorHere("expected language identifier after 'setup'")
		p.synchronizeToBlockEnd()
		return
	}
	lang := p.cur.Literal
	p.next()
	if !p.expect(lexer.LBRACE) {
		p.synchronizeToBlockEnd()
		return
	}

	ss := &ast.StructuredSetup{SpanVal: start, Language: lang}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		switch p.cur.Type {
		case lexer.IMPORT:
			p.next()
			ss.Imports = p.parseCodeBlockOrLine()
		case lexer.DECLARE:
			p.next()
			ss.Declarations = p.parseCodeBlockOrLine()
		case lexer.ASYNC:
			p.next()
			ss.InitIsAsync = true
		case lexer.INIT:
			p.next()
			ss.Init = p.parseCodeBlockOrLine()
		case lexer.HELPERS:
			p.next()
			ss.Helpers = p.parseCodeBlockOrLine()
		default:
			p.errorHere("unexpected token in setup body: " + p.cur.Type.String())
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	s.Setups[lang] = ss
}

func isLangToken(t lexer.TokenType) bool {
	switch t {
	case lexer.LANG_GO, lexer.LANG_TS, lexer.LANG_RUST, lexer.LANG_PYTHON, lexer.LANG_C, lexer.LANG_CSHARP, lexer.LANG_ZIG:
		return true
	}
	return false
}

// expectColonThenCode consumes a ':' and returns the CodeBlock that
// follows, which is either a brace-delimited block or a raw single-line
// expression terminated at newline (the `<lang>: <expression>` form,
// spec.md §4.2). expect(COLON) has to tokenize one word past the colon to
// decide which form applies; when it turns out to be a raw line, the
// capture is anchored right after the ':' (the same text RawLine returns),
// so that word and any whitespace before it are kept.
func (p *Parser) expectColonThenCode() *ast.CodeBlock {
	colon := p.cur
	if !p.expect(lexer.COLON) {
		return nil
	}
	if p.cur.Type == lexer.LBRACE {
		return p.parseCodeBlockOrLine()
	}
	line, span := p.l.RawLineFrom(colon.End, colon.Line, colon.Column+1)
	p.next()
	return &ast.CodeBlock{SpanVal: span, Source: line}
}

func (p *Parser) parseCodeBlockOrLine() *ast.CodeBlock {
	if p.cur.Type != lexer.LBRACE {
		p.errorHere("expected '{' to start code block")
		return nil
	}
	// The lexer already consumed the '{' into p.cur; its scan cursor sits
	// right after that brace, which is exactly RawCodeBlock's precondition.
	body, span := p.l.RawCodeBlock()
	p.next()
	return &ast.CodeBlock{SpanVal: span, Source: body}
}

// parseImplementationMap parses `{ go: { ... } ts: expr rust: { ... } }`
// style maps where each entry is either a brace block or a single-line
// `<lang>: <expr>` form terminated at end-of-line (spec.md §4.2).
func (p *Parser) parseImplementationMap() map[string]*ast.CodeBlock {
	out := map[string]*ast.CodeBlock{}
	if !p.expect(lexer.LBRACE) {
		return out
	}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if p.cur.Type != lexer.IDENT && !isLangToken(p.cur.Type) {
			p.errorHere("expected language identifier in implementation map")
			p.next()
			continue
		}
		lang := p.cur.Literal
		p.next()
		if cb := p.expectColonThenCode(); cb != nil {
			out[lang] = cb
		}
	}
	p.expect(lexer.RBRACE)
	return out
}

func (p *Parser) parseFixture() *ast.Fixture {
	start := p.curSpan()
	p.next() // 'fixture'
	if p.cur.Type != lexer.IDENT {
		p.errorHere("expected fixture name")
		p.synchronizeToBlockEnd()
		return nil
	}
	f := &ast.Fixture{SpanVal: start, Name: p.cur.Literal, Implementations: map[string]*ast.CodeBlock{}}
	p.next()

	if p.cur.Type == lexer.LPAREN {
		p.next()
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			if p.cur.Type != lexer.IDENT {
				p.errorHere("expected parameter name")
				p.next()
				continue
			}
			name := p.cur.Literal
			p.next()
			typ := ""
			if p.cur.Type == lexer.COLON {
				p.next()
				if p.cur.Type == lexer.IDENT {
					typ = p.cur.Literal
					p.next()
				}
			}
			f.Params = append(f.Params, ast.FixtureParam{Name: name, Type: typ})
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RPAREN)
	}

	if !p.expect(lexer.LBRACE) {
		p.synchronizeToBlockEnd()
		return f
	}

	ds := &ast.DataSource{Encoding: "raw"}
	hasDataSource := false
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if p.cur.Type != lexer.IDENT && p.cur.Type != lexer.SHAPE && !isLangToken(p.cur.Type) {
			p.errorHere("unexpected token in fixture body: " + p.cur.Type.String())
			p.next()
			continue
		}
		key := p.cur.Literal
		switch key {
		case "description":
			p.next()
			p.expect(lexer.COLON)
			if p.cur.Type == lexer.STRING {
				f.Description = p.cur.Literal
				p.next()
			}
		case "shape":
			p.next()
			p.expect(lexer.COLON)
			if p.cur.Type == lexer.STRING || p.cur.Type == lexer.IDENT {
				f.Shape = p.cur.Literal
				p.next()
			}
		case "hex", "raw", "utf8", "base64":
			p.next()
			p.expect(lexer.COLON)
			hasDataSource = true
			ds.Encoding = key
			if p.cur.Type == lexer.FILE_REF {
				ds.Kind = ast.DataSourceHexFile
				if key != "hex" {
					ds.Kind = ast.DataSourceFile
				}
				ds.FilePath = p.cur.Literal
				p.next()
			} else if p.cur.Type == lexer.STRING {
				ds.Kind = ast.DataSourceInline
				ds.Inline = p.cur.Literal
				p.next()
			}
		case "format":
			p.next()
			p.expect(lexer.COLON)
			hasDataSource = true
			if p.cur.Type == lexer.IDENT {
				ds.Format = p.cur.Literal
				p.next()
			}
		case "data":
			p.next()
			p.expect(lexer.COLON)
			hasDataSource = true
			if p.cur.Type == lexer.FILE_REF {
				ds.Kind = ast.DataSourceFile
				ds.FilePath = p.cur.Literal
				p.next()
			} else if p.cur.Type == lexer.STRING {
				ds.Kind = ast.DataSourceInline
				ds.Inline = p.cur.Literal
				p.next()
			}
		case "selector":
			p.next()
			p.expect(lexer.COLON)
			if p.cur.Type == lexer.STRING {
				ds.Selector = p.cur.Literal
				p.next()
			}
		default:
			// per-language code fixture: `go: { ... }`
			if isLangToken(p.cur.Type) || p.cur.Type == lexer.IDENT {
				lang := p.cur.Literal
				p.next()
				if p.cur.Type == lexer.COLON {
					if cb := p.expectColonThenCode(); cb != nil {
						f.Implementations[lang] = cb
					}
					continue
				}
			}
			p.errorHere("unknown fixture key " + strconv.Quote(key))
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	if hasDataSource {
		f.DataSource = ds
	}
	return f
}

func (p *Parser) parseBenchmark() *ast.Benchmark {
	start := p.curSpan()
	kind := ast.BenchSync
	if p.cur.Type == lexer.BENCH_ASYNC {
		kind = ast.BenchAsync
	}
	p.next() // 'bench'/'benchAsync'
	if p.cur.Type != lexer.IDENT {
		p.errorHere("expected benchmark name")
		p.synchronizeToBlockEnd()
		return nil
	}
	b := &ast.Benchmark{
		SpanVal: start, Name: p.cur.Literal, Kind: kind,
		Skip: map[string]*ast.CodeBlock{}, Validate: map[string]*ast.CodeBlock{},
		Before: map[string]*ast.CodeBlock{}, After: map[string]*ast.CodeBlock{},
		Each: map[string]*ast.CodeBlock{}, Implementations: map[string]*ast.CodeBlock{},
	}
	p.next()

	if !p.expect(lexer.LBRACE) {
		p.synchronizeToBlockEnd()
		return b
	}

	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		p.parseBenchmarkMember(b)
	}
	p.expect(lexer.RBRACE)
	return b
}

func (p *Parser) parseBenchmarkMember(b *ast.Benchmark) {
	switch p.cur.Type {
	case lexer.SKIP:
		p.next()
		p.mergeLangMap(b.Skip)
	case lexer.VALIDATE:
		p.next()
		p.mergeLangMap(b.Validate)
	case lexer.BEFORE:
		p.next()
		p.mergeLangMap(b.Before)
	case lexer.AFTER:
		p.next()
		p.mergeLangMap(b.After)
	case lexer.EACH:
		p.next()
		p.mergeLangMap(b.Each)
	case lexer.IDENT, lexer.ITERATIONS, lexer.WARMUP, lexer.TARGET_TIME, lexer.TIMEOUT,
		lexer.TAGS, lexer.SINK, lexer.COUNT:
		p.parseBenchmarkProperty(b)
	default:
		// bare `go: { ... }` implementations, outside an explicit keyword
		if isLangToken(p.cur.Type) {
			p.mergeLangMapEntry(b.Implementations)
			return
		}
		p.errorHere("unexpected token in benchmark body: " + p.cur.Type.String())
		p.next()
	}
}

// mergeLangMap parses an implementation-map-shaped block (one or more
// `lang: code` entries, optionally wrapped in braces) and merges it into
// dst, used for skip/validate/before/after/each which may be written either
// as `skip { go: {...} }` or as a single `skip go: {...}`.
func (p *Parser) mergeLangMap(dst map[string]*ast.CodeBlock) {
	if p.cur.Type == lexer.LBRACE {
		for k, v := range p.parseImplementationMap() {
			dst[k] = v
		}
		return
	}
	p.mergeLangMapEntry(dst)
}

func (p *Parser) mergeLangMapEntry(dst map[string]*ast.CodeBlock) {
	if p.cur.Type != lexer.IDENT && !isLangToken(p.cur.Type) {
		p.errorHere("expected language identifier")
		p.next()
		return
	}
	lang := p.cur.Literal
	p.next()
	if cb := p.expectColonThenCode(); cb != nil {
		dst[lang] = cb
	}
}

func (p *Parser) parseBenchmarkProperty(b *ast.Benchmark) {
	key := p.cur.Literal
	// Implementations block: `implementations { go: {...} ts: ... }` or a
	// bare language key directly (e.g. `go: {...}` at the top of the body).
	if _, isLang := map[string]bool{"go": true, "ts": true, "typescript": true, "rust": true, "python": true, "c": true, "csharp": true, "zig": true}[key]; isLang {
		p.mergeLangMapEntry(b.Implementations)
		return
	}
	p.next()
	if key == "implementations" {
		for k, v := range p.parseImplementationMap() {
			b.Implementations[k] = v
		}
		return
	}
	if !p.expect(lexer.COLON) {
		return
	}
	switch key {
	case "description":
		if p.cur.Type == lexer.STRING {
			b.Description = p.cur.Literal
			p.next()
		}
	case "iterations":
		v := p.parseInt()
		b.Iterations = &v
	case "warmup":
		v := p.parseInt()
		b.Warmup = &v
	case "targetTime", "targetTimeMs":
		v := p.parseInt()
		b.TargetTimeMs = &v
	case "timeout":
		v := p.parseInt()
		b.Timeout = &v
	case "tags":
		b.Tags = p.parseStringArray()
	case "sink":
		v := p.parseBool()
		b.Sink = &v
	case "outlierDetection":
		v := p.parseBool()
		b.OutlierDetection = &v
	case "cvThreshold":
		v := p.parseFloat()
		b.CVThreshold = &v
	case "count":
		v := p.parseInt()
		b.Count = &v
	default:
		p.errorHere("unknown benchmark property " + strconv.Quote(key))
		p.next()
	}
}

// Errors exposes any *ast.ErrorNode produced during parsing, for callers
// that want them without walking File.Errors.
func (p *Parser) Errors() []*ast.ErrorNode { return p.errors }
