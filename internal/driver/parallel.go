package driver

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Event reports progress on a single file during a parallel run.
type Event struct {
	Path  string
	Index int // 0-based position in the sorted file list
	Total int
	Done  FormatResult
}

// EventSink receives events as files finish. It may be called from multiple
// goroutines.
type EventSink func(Event)

// FormatDir formats every .ql file under dir in parallel. jobs caps the
// number of worker goroutines; <= 0 means GOMAXPROCS. Results come back in
// the sorted file order regardless of completion order. The sink, when not
// nil, observes each completed file.
func FormatDir(ctx context.Context, dir string, opts FormatOptions, jobs int, sink EventSink) ([]FormatResult, error) {
	files, err := collectSourceFiles(ctx, []string{dir}, opts.Config)
	if err != nil {
		return nil, err
	}
	return FormatFiles(ctx, files, opts, jobs, sink)
}

// FormatFiles formats an explicit file list in parallel, preserving its
// order in the results.
func FormatFiles(ctx context.Context, files []string, opts FormatOptions, jobs int, sink EventSink) ([]FormatResult, error) {
	if len(files) == 0 {
		return nil, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// index slots are disjoint per goroutine, no mutex needed
	results := make([]FormatResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			results[i] = formatOneFile(path, opts)
			if sink != nil {
				sink(Event{Path: path, Index: i, Total: len(files), Done: results[i]})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summarize counts results by outcome.
type Summary struct {
	Total     int
	Changed   int
	Failed    int
	FromCache int
}

// Summarize tallies a result slice.
func Summarize(results []FormatResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Changed:
			s.Changed++
		}
		if r.Cached {
			s.FromCache++
		}
	}
	return s
}

// FailedPaths lists paths that ended in error, sorted.
func FailedPaths(results []FormatResult) []string {
	var out []string
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r.Path)
		}
	}
	sort.Strings(out)
	return out
}
