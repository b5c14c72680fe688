package executor

import (
	"fmt"
	"sync"

	"github.com/polybench-dev/polybench/internal/parser"
)

// defaultParserRegistry is a lock-guarded map from language to decoder,
// seeded with the four built-in parsers and open to more via Register.
type defaultParserRegistry struct {
	mu      sync.RWMutex
	parsers map[string]parser.Parser
}

// NewParserRegistry returns a ParserRegistry pre-populated with the Go,
// Rust, TypeScript, and Python parsers internal/parser ships.
func NewParserRegistry() ParserRegistry {
	r := &defaultParserRegistry{parsers: make(map[string]parser.Parser)}
	for _, p := range []parser.Parser{
		parser.NewGoParser(),
		parser.NewRustParser(),
		parser.NewTypeScriptParser(),
		parser.NewPythonParser(),
	} {
		r.parsers[p.Language()] = p
	}
	return r
}

// RegisterParser adds or replaces the parser for a language.
func (r *defaultParserRegistry) RegisterParser(p parser.Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Language()] = p
}

func (r *defaultParserRegistry) GetParser(language string) (parser.Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[language]
	if !ok {
		return nil, fmt.Errorf("executor: no parser registered for language %q", language)
	}
	return p, nil
}
