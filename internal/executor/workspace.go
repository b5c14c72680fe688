package executor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/polybench-dev/polybench/internal/codegen"
)

// conventionalRootFile is the manifest name that marks a language's module
// root absent a dedicated .polybench/runtime-env directory (spec.md §6).
var conventionalRootFile = map[codegen.Language]string{
	codegen.Go:         "go.mod",
	codegen.Rust:       "Cargo.toml",
	codegen.TypeScript: "package.json",
	codegen.Python:     "pyproject.toml",
}

// ResolveModuleRoot walks startDir and its parents looking first for
// .polybench/runtime-env/<lang>/, then the language's conventional manifest
// file; the first directory found wins (spec.md §6 "Workspace layout
// consumed").
func ResolveModuleRoot(startDir string, lang codegen.Language) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("executor: resolving module root: %w", err)
	}

	runtimeEnvName := filepath.Join(".polybench", "runtime-env", string(lang))
	manifest := conventionalRootFile[lang]

	for dir := abs; ; {
		if fi, statErr := os.Stat(filepath.Join(dir, runtimeEnvName)); statErr == nil && fi.IsDir() {
			return filepath.Join(dir, runtimeEnvName), nil
		}
		if manifest != "" {
			if _, statErr := os.Stat(filepath.Join(dir, manifest)); statErr == nil {
				return dir, nil
			}
		}
		// requirements.txt is the fallback manifest for pure-script Python
		// projects that never grew a pyproject.toml.
		if lang == codegen.Python {
			if _, statErr := os.Stat(filepath.Join(dir, "requirements.txt")); statErr == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if manifest == "" {
		return "", fmt.Errorf("executor: no conventional root file known for language %q", lang)
	}
	return "", fmt.Errorf("executor: no %s or %s found above %s", runtimeEnvName, manifest, abs)
}
