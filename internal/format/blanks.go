package format

import (
	"quill/internal/source"
)

// BlankLineBetween reports whether the original source had at least one
// fully blank line between the last item of first and the first item of
// second. When either endpoint has no file-backed span the answer is false:
// no information means no blank line, a conservative default rather than a
// failure.
func BlankLineBetween[T any](first, second []T, spanOf func(T) source.Span) bool {
	if len(first) == 0 || len(second) == 0 {
		return false
	}

	endLine, ok := spanOf(first[len(first)-1]).EndLine()
	if !ok {
		return false
	}
	startLine, ok := spanOf(second[0]).StartLine()
	if !ok {
		return false
	}
	return startLine >= endLine+2
}
