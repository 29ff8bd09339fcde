package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/internal/config"
	"quill/internal/diag"
	"quill/internal/format"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func defaultOpts() FormatOptions {
	return FormatOptions{
		MaxDiagnostics: 16,
		Options:        format.DefaultOptions(),
		Config:         config.Default(),
	}
}

func TestFormatPaths_RewritesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ql", "import b\nimport a\nlet x = 1\n\n\n\nlet y = 2\n")

	results, err := FormatPaths(context.Background(), []string{path}, defaultOpts())
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("file result: %v", results[0].Err)
	}
	if !results[0].Changed {
		t.Error("file not marked changed")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "import a\nimport b\nlet x = 1\n\nlet y = 2\n"
	if string(got) != want {
		t.Errorf("rewritten file = %q, want %q", got, want)
	}
}

func TestFormatPaths_CheckDoesNotModify(t *testing.T) {
	dir := t.TempDir()
	src := "import b\nimport a\n"
	path := writeFile(t, dir, "a.ql", src)

	opts := defaultOpts()
	opts.Check = true
	results, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if !results[0].Changed {
		t.Error("check did not flag unformatted file")
	}

	got, _ := os.ReadFile(path)
	if string(got) != src {
		t.Error("check mode modified the file")
	}
}

func TestFormatPaths_StdoutReturnsBytes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ql", "let x = 1\n")

	opts := defaultOpts()
	opts.Stdout = true
	results, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if string(results[0].Formatted) != "let x = 1\n" {
		t.Errorf("formatted = %q", results[0].Formatted)
	}
	if results[0].Changed {
		t.Error("clean file marked changed")
	}
}

func TestFormatPaths_NormalizesCRLF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ql", "let x = 1\r\nlet y = 2\r\n")

	results, err := FormatPaths(context.Background(), []string{path}, defaultOpts())
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if !results[0].Changed {
		t.Error("CRLF file not marked changed")
	}
	got, _ := os.ReadFile(path)
	if string(got) != "let x = 1\nlet y = 2\n" {
		t.Errorf("rewritten file = %q", got)
	}
}

func TestFormatPaths_ParseErrorReported(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.ql", "let = 1\n")

	results, err := FormatPaths(context.Background(), []string{path}, defaultOpts())
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	r := results[0]
	if r.Err == nil {
		t.Fatal("parse error not surfaced")
	}
	if r.Bag == nil || !r.Bag.HasErrors() {
		t.Error("diagnostics bag missing")
	}

	desc := DescribeResult(r)
	if !strings.Contains(desc, "error") {
		t.Errorf("DescribeResult = %q", desc)
	}
	// error detail is indented under the summary line
	lines := strings.Split(desc, "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[1], "  ") {
		t.Errorf("detail line not indented: %q", desc)
	}
}

func TestFormatPaths_DiagnosticsRenderable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.ql", "let = 1\n")

	results, err := FormatPaths(context.Background(), []string{path}, defaultOpts())
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	r := results[0]
	if r.Source == nil {
		t.Fatal("parsed source not carried in result")
	}

	var buf bytes.Buffer
	diag.RenderBag(&buf, r.Source, r.Bag)
	out := buf.String()
	if !strings.Contains(out, "bad.ql:1") {
		t.Errorf("rendered diagnostics missing location: %q", out)
	}
	if !strings.Contains(out, "let = 1") {
		t.Errorf("rendered diagnostics missing source line: %q", out)
	}
}

func TestFormatPaths_ConfigMaxErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.ql", "let = 1\nlet = 2\nlet = 3\n")

	opts := defaultOpts()
	opts.MaxDiagnostics = 0
	opts.Config.Diag.MaxErrors = 2
	results, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	r := results[0]
	if r.Bag == nil {
		t.Fatal("diagnostics bag missing")
	}
	if r.Bag.Len() != 2 {
		t.Errorf("diagnostics = %d, want 2 (max_errors from config)", r.Bag.Len())
	}
}

func TestFormatOneFile_ReadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.ql")

	r := formatOneFile(path, defaultOpts())
	if r.Err == nil {
		t.Fatal("missing file did not error")
	}
	if r.Bag == nil || r.Bag.Len() != 1 {
		t.Fatal("read failure not recorded as a diagnostic")
	}
	if got := r.Bag.Items()[0].Code; got != diag.IOLoadFileError {
		t.Errorf("code = %s, want %s", got, diag.IOLoadFileError)
	}
}

func TestFormatPaths_RejectsNonSourceArgument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "note.txt", "not source\n")

	_, err := FormatPaths(context.Background(), []string{path}, defaultOpts())
	if err == nil {
		t.Fatal("explicit non-source argument accepted")
	}
	if !strings.Contains(err.Error(), "note.txt") {
		t.Errorf("error does not name the argument: %v", err)
	}
}

func TestFormatPaths_DirectoryCollection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ql", "let a = 1\n")
	writeFile(t, dir, "sub/b.ql", "let b = 2\n")
	writeFile(t, dir, "note.txt", "not source\n")

	results, err := FormatPaths(context.Background(), []string{dir}, defaultOpts())
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	// sorted order
	if filepath.Base(results[0].Path) != "a.ql" || filepath.Base(results[1].Path) != "b.ql" {
		t.Errorf("order = %s, %s", results[0].Path, results[1].Path)
	}
}

func TestFormatPaths_ExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ql", "let a = 1\n")
	writeFile(t, dir, "skip.gen.ql", "let g = 1\n")

	opts := defaultOpts()
	opts.Config.Format.Exclude = []string{"*.gen.ql"}
	results, err := FormatPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if len(results) != 1 || filepath.Base(results[0].Path) != "a.ql" {
		t.Errorf("excluded file was formatted: %v", results)
	}
}

func TestFormatPaths_NoSourceFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := FormatPaths(context.Background(), []string{dir}, defaultOpts()); err == nil {
		t.Fatal("empty directory should be an error")
	}
}

func TestFormatPaths_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FormatPaths(ctx, []string{t.TempDir()}, defaultOpts()); err == nil {
		t.Fatal("cancelled context not honored")
	}
}

func TestCheckPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.ql", "module demo\n\nlet x = 1\n")
	writeFile(t, dir, "bad.ql", "let = 1\n")

	results, err := CheckPaths(context.Background(), []string{dir}, defaultOpts())
	if err != nil {
		t.Fatalf("CheckPaths: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	byBase := map[string]CheckResult{}
	for _, r := range results {
		byBase[filepath.Base(r.Path)] = r
	}
	if !byBase["ok.ql"].OK {
		t.Errorf("ok.ql failed: %s", byBase["ok.ql"].Msg)
	}
	if byBase["bad.ql"].OK {
		t.Error("bad.ql passed round-trip check")
	}
}
