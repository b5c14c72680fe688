// Package stdlib holds the built-in `use std::<name>` modules a .bench file
// can import: constant/helper snippets emitted verbatim into generated
// source per language, plus the subprocess environment variables a module
// requires at run time (spec.md §4.5, §6 "ANVIL_RPC_URL").
package stdlib

import "fmt"

// Module is a single `use std::<Name>` built-in. Source holds a ready-to-
// splice code snippet per language; a language absent from the map means
// the module has nothing to emit for it (e.g. a module that only sets an
// env var).
type Module struct {
	Name      string
	Source    map[string]string // language -> verbatim snippet
	EnvVars   []string          // names codegen/executor must propagate
	NeedsNode bool              // requires globalSetup to have provisioned a node (anvil)
}

// registry is the closed set of built-in modules. New modules are added
// here, not computed, matching spec.md §6's small fixed standard library.
var registry = map[string]*Module{
	"math": {
		Name: "math",
		Source: map[string]string{
			"go":     "const (\n\tStdMathPi = 3.14159265358979323846\n\tStdMathE  = 2.71828182845904523536\n)\n",
			"ts":     "const STD_MATH_PI = 3.14159265358979323846;\nconst STD_MATH_E = 2.71828182845904523536;\n",
			"rust":   "const STD_MATH_PI: f64 = std::f64::consts::PI;\nconst STD_MATH_E: f64 = std::f64::consts::E;\n",
			"python": "STD_MATH_PI = 3.14159265358979323846\nSTD_MATH_E = 2.71828182845904523536\n",
		},
	},
	"anvil": {
		Name:      "anvil",
		NeedsNode: true,
		EnvVars:   []string{"ANVIL_RPC_URL"},
		Source: map[string]string{
			"go":     "func stdAnvilRPCURL() string { \n\tv := os.Getenv(\"ANVIL_RPC_URL\")\n\tif v == \"\" {\n\t\tpanic(\"ANVIL_RPC_URL not set\")\n\t}\n\treturn v\n}\n",
			"ts":     "function stdAnvilRpcUrl(): string {\n  const v = process.env.ANVIL_RPC_URL;\n  if (!v) throw new Error(\"ANVIL_RPC_URL not set\");\n  return v;\n}\n",
			"rust":   "fn std_anvil_rpc_url() -> String {\n    std::env::var(\"ANVIL_RPC_URL\").expect(\"ANVIL_RPC_URL not set\")\n}\n",
			"python": "import os\n\n\ndef std_anvil_rpc_url() -> str:\n    v = os.environ.get(\"ANVIL_RPC_URL\")\n    if not v:\n        raise RuntimeError(\"ANVIL_RPC_URL not set\")\n    return v\n",
		},
	},
}

// Lookup returns the named built-in module, or false if name isn't one of
// the fixed set spec.md §6 defines.
func Lookup(name string) (*Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// Resolve maps every name in names to its Module, in the same order,
// erroring on the first name that isn't a registered built-in.
func Resolve(names []string) ([]*Module, error) {
	mods := make([]*Module, 0, len(names))
	for _, n := range names {
		m, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("unknown stdlib module %q", n)
		}
		mods = append(mods, m)
	}
	return mods, nil
}

// EnvVars returns the deduplicated union of env vars every module in mods
// requires, in module-declaration order.
func EnvVars(mods []*Module) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, m := range mods {
		for _, v := range m.EnvVars {
			if seen[v] {
				continue
			}
			seen[v] = true
			vars = append(vars, v)
		}
	}
	return vars
}

// RequiresNode reports whether any module in mods needs a provisioned node
// (currently just "anvil"), used to validate that globalSetup actually ran.
func RequiresNode(mods []*Module) bool {
	for _, m := range mods {
		if m.NeedsNode {
			return true
		}
	}
	return false
}

// SourceFor returns lang's snippet for every module in mods that has one,
// in declaration order, for splicing into the top of a generated file.
func SourceFor(mods []*Module, lang string) []string {
	var out []string
	for _, m := range mods {
		if src, ok := m.Source[lang]; ok {
			out = append(out, src)
		}
	}
	return out
}
