// Package testkit holds structural checks shared by parser and formatter
// tests.
package testkit

import (
	"fmt"

	"quill/internal/ast"
	"quill/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span is known
// 2) every top-level span is known and contained in file.Span
// 3) file.Span covers the union of top-level spans (if any exist)
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	if !f.Span.Known() {
		return fmt.Errorf("file span is unknown")
	}

	spans := collectTopSpans(f)
	for _, sp := range spans {
		if !sp.Known() {
			return fmt.Errorf("unknown top-level span in %s", sf.Path)
		}
		if sp.RealEnd().Before(sp.RealStart()) {
			return fmt.Errorf("inverted span %s", sp)
		}
		if sp.RealStart().Before(f.Span.RealStart()) || f.Span.RealEnd().Before(sp.RealEnd()) {
			return fmt.Errorf("span %s is outside file span %s", sp, f.Span)
		}
	}

	if len(spans) > 0 {
		union := source.CoverAll(spans)
		if union.RealStart().Before(f.Span.RealStart()) || f.Span.RealEnd().Before(union.RealEnd()) {
			return fmt.Errorf("file span %s does not cover union of items %s", f.Span, union)
		}
	}
	return nil
}

func collectTopSpans(f *ast.File) []source.Span {
	var spans []source.Span
	if f.Module != nil {
		spans = append(spans, f.Module.Span)
	}
	for _, group := range f.ImportGroups {
		for _, imp := range group {
			spans = append(spans, imp.Span)
		}
	}
	for _, c := range f.Comments {
		spans = append(spans, c.Span)
	}
	for _, d := range f.Decls {
		spans = append(spans, d.Span())
	}
	return spans
}
