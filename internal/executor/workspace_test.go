package executor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/polybench-dev/polybench/internal/codegen"
)

func TestResolveModuleRootPrefersDedicatedRuntimeEnv(t *testing.T) {
	root := t.TempDir()
	dedicated := filepath.Join(root, ".polybench", "runtime-env", "go")
	if err := os.MkdirAll(dedicated, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sub := filepath.Join(root, "suite", "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveModuleRoot(sub, codegen.Go)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != dedicated {
		t.Fatalf("expected %s, got %s", dedicated, got)
	}
}

func TestResolveModuleRootFallsBackToConventionalManifest(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("[package]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveModuleRoot(sub, codegen.Rust)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != root {
		t.Fatalf("expected %s, got %s", root, got)
	}
}

func TestResolveModuleRootPythonAcceptsRequirementsTxt(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("anvil\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveModuleRoot(root, codegen.Python)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != root {
		t.Fatalf("expected %s, got %s", root, got)
	}
}

func TestResolveModuleRootErrorsWhenNothingFound(t *testing.T) {
	root := t.TempDir()
	if _, err := ResolveModuleRoot(root, codegen.Go); err == nil {
		t.Fatal("expected an error, got nil")
	}
}
