package codegen

import (
	"fmt"
	"strings"
)

// bytesLiteral renders data as a language-native byte-array literal, used
// to bind a fixture with no per-language code implementation (spec.md §4.4
// "fixture bytes are immutable after lowering").
func bytesLiteral(lang string, data []byte) string {
	switch lang {
	case "go":
		return fmt.Sprintf("[]byte{%s}", hexJoin(data))
	case "ts", "typescript":
		return fmt.Sprintf("Uint8Array.from([%s])", decJoin(data))
	case "rust":
		return fmt.Sprintf("vec![%s]", hexJoin(data))
	case "python":
		return fmt.Sprintf("bytes([%s])", decJoin(data))
	default:
		return fmt.Sprintf("/* unsupported language %q for fixture literal */", lang)
	}
}

func hexJoin(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("0x%02x", b)
	}
	return strings.Join(parts, ", ")
}

func decJoin(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return strings.Join(parts, ", ")
}
