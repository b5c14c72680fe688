package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/polybench-dev/polybench/internal/codegen"
	"github.com/polybench-dev/polybench/internal/diag"
)

// runSpec is what Compiler.Build must leave behind: the command that runs
// the compiled (or interpreted) artifact. It is persisted as run.json inside
// the cache artifact directory, since internal/cache.Publish's Build closure
// is the only place this is ever known and a cache hit skips it entirely.
type runSpec struct {
	Program string   `json:"program"`
	Args    []string `json:"args"`
}

const runSpecFile = "run.json"

// writeRunCmd persists how to invoke the artifact built in dir.
func writeRunCmd(dir string, spec runSpec) error {
	b, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("executor: encoding run spec: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, runSpecFile), b, 0o644)
}

// readRunCmd recovers a previously published artifact's invocation.
func readRunCmd(dir string) (runSpec, error) {
	var spec runSpec
	b, err := os.ReadFile(filepath.Join(dir, runSpecFile))
	if err != nil {
		return spec, fmt.Errorf("executor: reading run spec: %w", err)
	}
	if err := json.Unmarshal(b, &spec); err != nil {
		return spec, fmt.Errorf("executor: decoding run spec: %w", err)
	}
	return spec, nil
}

// Compiler turns generated source for one language into a runnable artifact
// inside dir, returning how to invoke it. moduleRoot supplies the shared
// per-language toolchain dependencies (go.mod/go.sum, Cargo.lock,
// node_modules, a virtualenv) that a from-scratch cache directory doesn't
// carry itself (spec.md §6 "Workspace layout consumed").
type Compiler interface {
	Build(ctx context.Context, lang codegen.Language, source, moduleRoot, dir string) (runSpec, error)
}

// ProcessCompiler shells out to each language's real toolchain. It is the
// only Compiler implementation that actually needs go/cargo/node/python3
// installed; tests substitute a fake instead (SPEC_FULL.md's no-mocking-
// frameworks test-tooling guidance).
type ProcessCompiler struct{}

func (ProcessCompiler) Build(ctx context.Context, lang codegen.Language, source, moduleRoot, dir string) (runSpec, error) {
	switch lang {
	case codegen.Go:
		return buildGo(ctx, source, moduleRoot, dir)
	case codegen.Rust:
		return buildRust(ctx, source, moduleRoot, dir)
	case codegen.TypeScript:
		return buildTypeScript(ctx, source, moduleRoot, dir)
	case codegen.Python:
		return buildPython(ctx, source, moduleRoot, dir)
	default:
		return runSpec{}, diag.ForLanguage(diag.KindToolchainMissing, string(lang), "no compiler wired for this language")
	}
}

// copyManifest copies a module-root manifest file into dir if present,
// silently skipping it otherwise (e.g. a project with no Cargo.lock yet).
func copyManifest(moduleRoot, dir, name string) error {
	src := filepath.Join(moduleRoot, name)
	if _, err := os.Stat(src); err != nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

func buildGo(ctx context.Context, source, moduleRoot, dir string) (runSpec, error) {
	for _, manifest := range []string{"go.mod", "go.sum"} {
		if err := copyManifest(moduleRoot, dir, manifest); err != nil {
			return runSpec{}, fmt.Errorf("executor: staging %s: %w", manifest, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(source), 0o644); err != nil {
		return runSpec{}, fmt.Errorf("executor: writing main.go: %w", err)
	}
	bin := filepath.Join(dir, "bench.bin")
	cmd := exec.CommandContext(ctx, "go", "build", "-o", bin, "main.go")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return runSpec{}, diag.ForLanguage(diag.KindCompileFailure, "go", "go build failed").WithDetail(string(out), 4000)
	}
	return runSpec{Program: bin}, nil
}

func buildRust(ctx context.Context, source, moduleRoot, dir string) (runSpec, error) {
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return runSpec{}, fmt.Errorf("executor: creating src dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "main.rs"), []byte(source), 0o644); err != nil {
		return runSpec{}, fmt.Errorf("executor: writing main.rs: %w", err)
	}
	if err := copyManifest(moduleRoot, dir, "Cargo.lock"); err != nil {
		return runSpec{}, fmt.Errorf("executor: staging Cargo.lock: %w", err)
	}
	manifest := fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\nedition = \"2021\"\n\n[[bin]]\nname = \"bench\"\npath = \"src/main.rs\"\n", "polybench-bench")
	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(manifest), 0o644); err != nil {
		return runSpec{}, fmt.Errorf("executor: writing Cargo.toml: %w", err)
	}
	targetDir := filepath.Join(dir, "target")
	cmd := exec.CommandContext(ctx, "cargo", "build", "--release", "--target-dir", targetDir)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return runSpec{}, diag.ForLanguage(diag.KindCompileFailure, "rust", "cargo build failed").WithDetail(string(out), 4000)
	}
	return runSpec{Program: filepath.Join(targetDir, "release", "bench")}, nil
}

func buildTypeScript(ctx context.Context, source, moduleRoot, dir string) (runSpec, error) {
	if err := os.WriteFile(filepath.Join(dir, "bench.ts"), []byte(source), 0o644); err != nil {
		return runSpec{}, fmt.Errorf("executor: writing bench.ts: %w", err)
	}
	cmd := exec.CommandContext(ctx, "npx", "--no-install", "tsc",
		"--target", "ES2020", "--module", "commonjs", "--outDir", dir,
		filepath.Join(dir, "bench.ts"))
	cmd.Dir = moduleRoot
	cmd.Env = append(os.Environ(), "NODE_PATH="+filepath.Join(moduleRoot, "node_modules"))
	if out, err := cmd.CombinedOutput(); err != nil {
		return runSpec{}, diag.ForLanguage(diag.KindCompileFailure, "ts", "tsc transpile failed").WithDetail(string(out), 4000)
	}
	return runSpec{Program: "node", Args: []string{filepath.Join(dir, "bench.js")}}, nil
}

func buildPython(ctx context.Context, source, moduleRoot, dir string) (runSpec, error) {
	path := filepath.Join(dir, "bench.py")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return runSpec{}, fmt.Errorf("executor: writing bench.py: %w", err)
	}
	// py_compile doubles as the "compile" step for a language with no real
	// build phase: it surfaces syntax errors as CompileFailure rather than
	// letting them appear as a confusing first-run RuntimeFailure.
	cmd := exec.CommandContext(ctx, "python3", "-m", "py_compile", path)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return runSpec{}, diag.ForLanguage(diag.KindCompileFailure, "python", "py_compile failed").WithDetail(string(out), 4000)
	}
	return runSpec{Program: "python3", Args: []string{path}}, nil
}
