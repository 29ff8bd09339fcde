package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"

	"quill/internal/config"
	"quill/internal/diag"
	"quill/internal/doctext"
	"quill/internal/format"
	"quill/internal/lexer"
	"quill/internal/parser"
	"quill/internal/source"
)

// FormatOptions configures code formatting.
type FormatOptions struct {
	Check          bool
	Stdout         bool
	MaxDiagnostics int
	Options        format.Options
	Config         config.Config
	Cache          *DiskCache
}

// FormatResult captures the result of formatting a single file. Source is
// the parsed file when one was built, for rendering Bag diagnostics with
// line context.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted []byte
	Bag       *diag.Bag
	Source    *source.File
	Cached    bool
}

// FormatPaths formats provided files or directories (recursively collecting
// .ql files). When opts.Check is true, files are not modified; Changed
// indicates whether formatting would update the file contents. When
// opts.Stdout is true, formatted content is returned in the results without
// touching files on disk.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := collectSourceFiles(ctx, paths, opts.Config)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no source files found")
	}

	results := make([]FormatResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, formatOneFile(path, opts))
	}
	return results, nil
}

func formatOneFile(path string, opts FormatOptions) FormatResult {
	result := FormatResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		bag := diag.NewBag(1)
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Primary:  source.Unknown(),
			Message:  err.Error(),
		})
		result.Bag = bag
		result.Err = err
		return result
	}

	if opts.Cache != nil {
		if clean, ok := opts.Cache.LookupClean(data, opts.Options); ok && clean {
			result.Cached = true
			if opts.Stdout {
				result.Formatted = data
			}
			return result
		}
	}

	formatted, changed, sf, bag, err := formatBytes(path, data, opts)
	result.Bag = bag
	result.Source = sf
	if err != nil {
		result.Err = err
		return result
	}

	if opts.Cache != nil && !changed {
		opts.Cache.RecordClean(data, opts.Options)
	}

	if opts.Check {
		result.Changed = changed
		return result
	}

	if opts.Stdout {
		result.Formatted = formatted
		result.Changed = changed
		return result
	}

	if changed {
		mode := os.FileMode(0o644)
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, formatted, mode.Perm()); err != nil {
			result.Err = err
			return result
		}
		result.Changed = true
		if opts.Cache != nil {
			opts.Cache.RecordClean(formatted, opts.Options)
		}
	}
	return result
}

func formatBytes(path string, data []byte, opts FormatOptions) (formatted []byte, changed bool, sf *source.File, bag *diag.Bag, err error) {
	norm, flags := source.Normalize(data)
	fileSet := source.NewFileSet()
	sf = fileSet.Get(fileSet.Add(path, norm, flags))

	maxDiag := maxDiagnostics(opts)
	bag = diag.NewBag(maxDiag)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(sf, lexer.Options{Reporter: rep})
	maxErrors, convErr := safecast.Conv[uint](maxDiag)
	if convErr != nil {
		maxErrors = 0
	}
	f := parser.ParseFile(sf, lx, parser.Options{Reporter: rep, MaxErrors: maxErrors})
	if bag.HasErrors() {
		return nil, false, sf, bag, errors.New("format: parse errors present")
	}

	formatted, err = format.FormatFile(sf, f, opts.Options)
	if err != nil {
		return nil, false, sf, bag, err
	}

	// compare against the raw disk bytes so CRLF or BOM removal alone
	// counts as a change
	changed = !bytes.Equal(data, formatted)
	return formatted, changed, sf, bag, nil
}

// maxDiagnostics resolves the diagnostic cap: an explicit option wins, then
// the max_errors config key, then a fixed default.
func maxDiagnostics(opts FormatOptions) int {
	if opts.MaxDiagnostics > 0 {
		return opts.MaxDiagnostics
	}
	if opts.Config.Diag.MaxErrors > 0 {
		return int(opts.Config.Diag.MaxErrors)
	}
	return 256
}

// ListSourceFiles returns the sorted .ql files reachable from paths, with
// config exclusions applied. It is the same collection FormatPaths uses.
func ListSourceFiles(ctx context.Context, paths []string, cfg config.Config) ([]string, error) {
	return collectSourceFiles(ctx, paths, cfg)
}

func collectSourceFiles(ctx context.Context, paths []string, cfg config.Config) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if cfg.Excluded(path) {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				if filepath.Ext(path) == ".ql" {
					addFile(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		if filepath.Ext(p) != ".ql" {
			return nil, fmt.Errorf("format: %s is not a .ql source file", p)
		}
		addFile(p)
	}

	sort.Strings(files)
	return files, nil
}

// DescribeResult renders a one-line summary of a file result, followed by
// indented detail lines for any error.
func DescribeResult(r FormatResult) string {
	var b strings.Builder
	switch {
	case r.Err != nil:
		fmt.Fprintf(&b, "%s: error", r.Path)
		for _, line := range strings.Split(r.Err.Error(), "\n") {
			b.WriteString("\n")
			b.WriteString(doctext.Indent(line))
		}
	case r.Changed:
		fmt.Fprintf(&b, "%s: reformatted", r.Path)
	case r.Cached:
		fmt.Fprintf(&b, "%s: ok (cached)", r.Path)
	default:
		fmt.Fprintf(&b, "%s: ok", r.Path)
	}
	return b.String()
}
