package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/polybench-dev/polybench/internal/ast"
)

func TestDecodeHexInline(t *testing.T) {
	src := &ast.DataSource{Kind: ast.DataSourceInline, Inline: "deadbeef", Encoding: "hex"}
	got, err := Decode(src, ".", "data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	if string(got) != string(want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestDecodeHexWithPrefix(t *testing.T) {
	src := &ast.DataSource{Kind: ast.DataSourceInline, Inline: "0xcafe", Encoding: "hex"}
	got, err := Decode(src, ".", "data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string([]byte{0xca, 0xfe}) {
		t.Fatalf("got %x", got)
	}
}

func TestDecodeOddLengthHexErrors(t *testing.T) {
	src := &ast.DataSource{Kind: ast.DataSourceInline, Inline: "abc", Encoding: "hex"}
	if _, err := Decode(src, ".", "data"); err == nil {
		t.Fatalf("expected error for odd-length hex")
	}
}

func TestDecodeUTF8Inline(t *testing.T) {
	src := &ast.DataSource{Kind: ast.DataSourceInline, Inline: "héllo", Encoding: "utf8"}
	got, err := Decode(src, ".", "data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "héllo" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeBase64Inline(t *testing.T) {
	src := &ast.DataSource{Kind: ast.DataSourceInline, Inline: "aGVsbG8=", Encoding: "base64"}
	got, err := Decode(src, ".", "data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeFileReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")
	if err := os.WriteFile(path, []byte("deadbeef"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	src := &ast.DataSource{Kind: ast.DataSourceFile, FilePath: "payload.bin", Encoding: "hex"}
	got, err := Decode(src, dir, "data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	if string(got) != string(want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestDecodeMissingFileIsFixtureDecodeError(t *testing.T) {
	src := &ast.DataSource{Kind: ast.DataSourceFile, FilePath: "nope.bin", Encoding: "raw"}
	_, err := Decode(src, t.TempDir(), "data")
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDecodeJSONSelectorNestedIndexAndField(t *testing.T) {
	src := &ast.DataSource{
		Kind:     ast.DataSourceInline,
		Inline:   `{"items":[{"id":"abc"},{"id":"xyz"}]}`,
		Format:   "json",
		Selector: "$.items[1].id",
	}
	got, err := Decode(src, ".", "data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "xyz" {
		t.Fatalf("got %q, want %q", got, "xyz")
	}
}

func TestDecodeJSONSelectorIndexOutOfRangeErrors(t *testing.T) {
	src := &ast.DataSource{
		Kind:     ast.DataSourceInline,
		Inline:   `{"items":[]}`,
		Format:   "json",
		Selector: "$.items[0].id",
	}
	if _, err := Decode(src, ".", "data"); err == nil {
		t.Fatalf("expected out-of-range index error")
	}
}

func TestDecodeCSVByHeaderName(t *testing.T) {
	src := &ast.DataSource{
		Kind:     ast.DataSourceInline,
		Inline:   "id,value\n1,foo\n2,bar\n",
		Format:   "csv",
		Selector: "value",
	}
	got, err := Decode(src, ".", "data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "foo\nbar" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeCSVByColumnIndex(t *testing.T) {
	src := &ast.DataSource{
		Kind:     ast.DataSourceInline,
		Inline:   "1,foo\n2,bar\n",
		Format:   "csv",
		Selector: "0",
	}
	got, err := Decode(src, ".", "data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "1\n2" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeNilDataSourceReturnsNil(t *testing.T) {
	got, err := Decode(nil, ".", "data")
	if err != nil || got != nil {
		t.Fatalf("expected nil,nil for nil data source, got %v, %v", got, err)
	}
}
