package driver

import (
	"context"

	"quill/internal/format"
	"quill/internal/source"
)

// CheckResult is the round-trip verdict for one file.
type CheckResult struct {
	Path string
	OK   bool
	Msg  string
}

// CheckPaths runs the format round-trip check over every .ql file reachable
// from paths: parse, print, reparse, and compare the top-level shape.
func CheckPaths(ctx context.Context, paths []string, opts FormatOptions) ([]CheckResult, error) {
	files, err := collectSourceFiles(ctx, paths, opts.Config)
	if err != nil {
		return nil, err
	}

	maxDiag := maxDiagnostics(opts)

	results := make([]CheckResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		fs := source.NewFileSet()
		id, err := fs.Load(path)
		if err != nil {
			results = append(results, CheckResult{Path: path, OK: false, Msg: err.Error()})
			continue
		}
		ok, msg := format.CheckRoundTrip(fs.Get(id), opts.Options, maxDiag)
		results = append(results, CheckResult{Path: path, OK: ok, Msg: msg})
	}
	return results, nil
}
