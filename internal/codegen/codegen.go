// Package codegen synthesizes a standalone, self-contained translation unit
// per (benchmark, language) pair: imports, stdlib snippets, suite
// declarations/helpers, a fixture prelude, the measurement harness, and the
// benchmark body wrapped against dead-code elimination (spec.md §4.6). Each
// language's template is a text/template string in its own file, the same
// generate-source-via-template approach the fidl/gidl benchmark generators
// in the example pack use for their own per-language codegen.
package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/ir"
	"github.com/polybench-dev/polybench/internal/stdlib"
)

// Language is the closed set of codegen targets this package knows how to
// emit. Declaring more here is how C/C#/Zig (spec.md §1 "optionally") would
// be added — a new template plus an entry in registry, nothing else.
type Language string

const (
	Go         Language = "go"
	TypeScript Language = "ts"
	Rust       Language = "rust"
	Python     Language = "python"
)

// unit is the data a language template renders against.
type unit struct {
	Imports         []string
	StdlibSnippets  []string
	Declarations    string
	Helpers         string
	Init            string
	InitIsAsync     bool
	FixturePrelude  []fixtureBinding
	BenchmarkBody   string
	Kind            ast.BenchKind
	Mode            ir.Mode
	MemoryTracking  bool
	Iterations      int64
	Warmup          int64
	TargetTimeMs    int64
	Sink            bool
	AsyncPolicy     ast.AsyncSamplingPolicy
	AsyncWarmupCap  int64
	AsyncSampleCap  int64
	FairnessSeed    int64
	BeforeHook      string
	AfterHook       string
	EachHook        string
}

type fixtureBinding struct {
	Name string // local identifier
	Expr string // language-specific expression that produces the fixture's value
}

var registry = map[Language]*template.Template{
	Go:         mustParse("go", goTemplate),
	TypeScript: mustParse("ts", tsTemplate),
	Rust:       mustParse("rust", rustTemplate),
	Python:     mustParse("python", pythonTemplate),
}

func mustParse(name, body string) *template.Template {
	return template.Must(template.New(name).Parse(body))
}

// Emit renders the standalone source for spec's implementation in lang,
// given the owning suite (for fixtures and fairness/ordering context) and
// the resolved stdlib modules the file's `use std::` imports named.
func Emit(lang Language, spec *ir.BenchmarkSpec, suite *ir.SuiteIR, mods []*stdlib.Module) (string, error) {
	tmpl, ok := registry[lang]
	if !ok {
		return "", fmt.Errorf("codegen: unsupported language %q", lang)
	}
	cb, ok := spec.Implementations[string(lang)]
	if !ok {
		return "", fmt.Errorf("codegen: benchmark %q has no %s implementation", spec.Name, lang)
	}

	u := unit{
		StdlibSnippets: stdlib.SourceFor(mods, string(lang)),
		BenchmarkBody:  cb.Source,
		Kind:           spec.Kind,
		Mode:           spec.Mode,
		MemoryTracking: spec.MemoryTracking,
		Iterations:     spec.Iterations,
		Warmup:         spec.Warmup,
		TargetTimeMs:   spec.TargetTimeMs,
		Sink:           spec.Sink,
		AsyncPolicy:    spec.AsyncSamplingPolicy,
		AsyncWarmupCap: spec.AsyncWarmupCap,
		AsyncSampleCap: spec.AsyncSampleCap,
		FairnessSeed:   spec.FairnessSeed,
	}
	if setup, ok := suiteSetup(suite, string(lang)); ok {
		if setup.Declarations != nil {
			u.Declarations = setup.Declarations.Source
		}
		if setup.Helpers != nil {
			u.Helpers = setup.Helpers.Source
		}
		if setup.Init != nil {
			u.Init = setup.Init.Source
			u.InitIsAsync = setup.InitIsAsync
		}
	}
	if bh, ok := cb2(spec.Before, string(lang)); ok {
		u.BeforeHook = bh
	}
	if ah, ok := cb2(spec.After, string(lang)); ok {
		u.AfterHook = ah
	}
	if eh, ok := cb2(spec.Each, string(lang)); ok {
		u.EachHook = eh
	}

	u.Imports = importsFor(suite, string(lang))
	u.FixturePrelude = fixturePrelude(spec, suite, string(lang))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, u); err != nil {
		return "", fmt.Errorf("codegen: render %s benchmark %q: %w", lang, spec.Name, err)
	}
	return buf.String(), nil
}

func cb2(m map[string]*ast.CodeBlock, lang string) (string, bool) {
	if cb, ok := m[lang]; ok {
		return cb.Source, true
	}
	return "", false
}

func suiteSetup(suite *ir.SuiteIR, lang string) (*ast.StructuredSetup, bool) {
	if suite == nil || suite.Setups == nil {
		return nil, false
	}
	s, ok := suite.Setups[lang]
	return s, ok
}

// importsFor returns the suite setup's import block for lang, deduplicated
// and sorted. Only user-declared imports are collected: stdlib modules
// carry no import list, so nothing a stdlib snippet needs is added here
// (each harness template hard-codes its own imports).
func importsFor(suite *ir.SuiteIR, lang string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	if setup, ok := suiteSetup(suite, lang); ok && setup.Imports != nil {
		add(setup.Imports.Source)
	}
	sort.Strings(out)
	return out
}

// fixturePrelude builds one local binding per fixture referenced by spec
// (spec.md §4.5 FixtureRefs), each bound either to the fixture's decoded
// bytes or — for per-language-code-only fixtures — to that language's
// implementation expression.
func fixturePrelude(spec *ir.BenchmarkSpec, suite *ir.SuiteIR, lang string) []fixtureBinding {
	if suite == nil {
		return nil
	}
	byName := make(map[string]*ir.FixtureIR, len(suite.Fixtures))
	for _, fx := range suite.Fixtures {
		byName[fx.Name] = fx
	}
	var bindings []fixtureBinding
	for _, ref := range spec.FixtureRefs {
		fx, ok := byName[ref]
		if !ok {
			continue
		}
		if cb, ok := fx.Implementations[lang]; ok {
			bindings = append(bindings, fixtureBinding{Name: ref, Expr: cb.Source})
			continue
		}
		bindings = append(bindings, fixtureBinding{Name: ref, Expr: bytesLiteral(lang, fx.Data)})
	}
	return bindings
}
