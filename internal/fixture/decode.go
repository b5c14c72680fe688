// Package fixture decodes a fixture's declared data source into the
// concrete bytes every language's generated code will see (spec.md §4.4).
// Decoding happens once at lowering time; the result is immutable and
// byte-identical across languages when a suite declares sameDataset.
package fixture

import (
	"encoding/base64"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/diag"
)

// Decode resolves src's bytes. baseDir anchors any @file("...") reference
// that isn't already absolute (spec.md §4.4, §6 "relative to the .bench
// file's directory, or absolute"). name is the owning fixture's name, used
// to tag any decode error.
func Decode(src *ast.DataSource, baseDir, name string) ([]byte, *diag.Error) {
	if src == nil {
		return nil, nil
	}

	raw, err := rawBytes(src, baseDir, name)
	if err != nil {
		return nil, err
	}

	switch src.Format {
	case "json":
		return selectJSON(raw, src.Selector, name)
	case "csv":
		return selectCSV(raw, src.Selector, name)
	case "":
		return decodeEncoding(raw, src.Encoding, name)
	default:
		return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: unknown format %q", name, src.Format))
	}
}

// rawBytes returns the undecoded payload — either the inline string's bytes
// or a file's contents — without yet applying encoding/format.
func rawBytes(src *ast.DataSource, baseDir, name string) ([]byte, *diag.Error) {
	switch src.Kind {
	case ast.DataSourceInline, ast.DataSourceHex:
		return []byte(src.Inline), nil
	case ast.DataSourceFile, ast.DataSourceHexFile:
		path := src.FilePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		b, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, diag.Wrap(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: reading %s", name, path), readErr)
		}
		// A file referenced with encoding "hex"/"raw"/etc still carries its
		// encoding as text on disk (e.g. a hex-dump file); strip trailing
		// newline noise the way a human-edited fixture file would have.
		return []byte(strings.TrimRight(string(b), "\r\n")), nil
	case ast.DataSourceCode:
		return nil, nil
	default:
		return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: unsupported data source kind", name))
	}
}

// decodeEncoding applies one of hex/raw/utf8/base64 to already-resolved raw
// bytes (spec.md §4.4).
func decodeEncoding(raw []byte, encoding, name string) ([]byte, *diag.Error) {
	switch encoding {
	case "", "raw", "utf8":
		return raw, nil
	case "hex":
		s := strings.TrimPrefix(strings.TrimSpace(string(raw)), "0x")
		if len(s)%2 != 0 {
			return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: odd-length hex string", name))
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, diag.Wrap(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: invalid hex", name), err)
		}
		return b, nil
	case "base64":
		s := strings.TrimSpace(string(raw))
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			if b2, err2 := base64.RawStdEncoding.DecodeString(s); err2 == nil {
				return b2, nil
			}
			return nil, diag.Wrap(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: invalid base64", name), err)
		}
		return b, nil
	default:
		return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: unknown encoding %q", name, encoding))
	}
}

// selectJSON applies a restricted path selector (`$.field`, `$.field[index]`,
// chained) against raw JSON text, returning the UTF-8 bytes of the selected
// scalar or the re-marshaled bytes of a selected structure (spec.md §4.4,
// example E4: `$.items[1].id` over `{"items":[...]}` yields the UTF-8 bytes
// of the selected string).
func selectJSON(raw []byte, selector, name string) ([]byte, *diag.Error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, diag.Wrap(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: invalid JSON", name), err)
	}
	if selector == "" {
		return raw, nil
	}
	steps, err := parseJSONSelector(selector)
	if err != nil {
		return nil, diag.Wrap(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: invalid selector %q", name, selector), err)
	}
	cur := doc
	for _, step := range steps {
		switch {
		case step.field != "":
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: selector %q: not an object at %q", name, selector, step.field))
			}
			v, ok := m[step.field]
			if !ok {
				return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: selector %q: missing field %q", name, selector, step.field))
			}
			cur = v
		case step.hasIndex:
			a, ok := cur.([]any)
			if !ok || step.index < 0 || step.index >= len(a) {
				return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: selector %q: index %d out of range", name, selector, step.index))
			}
			cur = a[step.index]
		}
	}
	switch v := cur.(type) {
	case string:
		return []byte(v), nil
	case nil:
		return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: selector %q resolved to null", name, selector))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, diag.Wrap(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: re-marshaling selected value", name), err)
		}
		return b, nil
	}
}

type jsonSelectorStep struct {
	field    string
	hasIndex bool
	index    int
}

// parseJSONSelector parses "$.field", "$.field[2]", and chains of both
// ("$.a.b[0].c") into a flat step list.
func parseJSONSelector(selector string) ([]jsonSelectorStep, error) {
	s := strings.TrimPrefix(selector, "$")
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return nil, nil
	}
	var steps []jsonSelectorStep
	for _, part := range strings.Split(s, ".") {
		field := part
		for {
			open := strings.IndexByte(field, '[')
			if open < 0 {
				if field != "" {
					steps = append(steps, jsonSelectorStep{field: field})
				}
				break
			}
			closeIdx := strings.IndexByte(field[open:], ']')
			if closeIdx < 0 {
				return nil, fmt.Errorf("unterminated index in %q", part)
			}
			closeIdx += open
			if open > 0 {
				steps = append(steps, jsonSelectorStep{field: field[:open]})
			}
			idxStr := field[open+1 : closeIdx]
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, fmt.Errorf("invalid index %q in %q", idxStr, part)
			}
			steps = append(steps, jsonSelectorStep{hasIndex: true, index: idx})
			field = field[closeIdx+1:]
		}
	}
	return steps, nil
}

// selectCSV takes a zero-based column index or header name and joins the
// matching cell bytes down every row, newline-separated (spec.md §4.4).
func selectCSV(raw []byte, selector, name string) ([]byte, *diag.Error) {
	r := csv.NewReader(strings.NewReader(string(raw)))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, diag.Wrap(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: invalid CSV", name), err)
	}
	if len(rows) == 0 {
		return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: empty CSV", name))
	}

	col := -1
	dataRows := rows
	if idx, err := strconv.Atoi(selector); err == nil {
		col = idx
	} else {
		header := rows[0]
		for i, h := range header {
			if h == selector {
				col = i
				break
			}
		}
		if col < 0 {
			return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: no CSV column named %q", name, selector))
		}
		dataRows = rows[1:]
	}

	var sb strings.Builder
	for i, row := range dataRows {
		if col >= len(row) {
			return nil, diag.New(diag.KindFixtureDecode, fmt.Sprintf("fixture %q: row %d has no column %d", name, i, col))
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(row[col])
	}
	return []byte(sb.String()), nil
}
