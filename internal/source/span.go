package source

import "fmt"

// Span is the positional extent of a syntax node: either file-backed with
// 1-based start/end positions, or of unknown origin (synthesized nodes,
// compiler-generated code). The two cases are kept explicit so every call
// site decides what "no position" means for it; there is no implicit zero
// default.
type Span struct {
	start Pos
	end   Pos
	known bool
}

// NewSpan builds a file-backed span. The end must not come strictly before
// the start; violating that is a caller bug and panics.
func NewSpan(start, end Pos) Span {
	if end.Before(start) {
		panic(fmt.Sprintf("source: span end %s before start %s", end, start))
	}
	return Span{start: start, end: end, known: true}
}

// PointSpan builds a zero-width file-backed span at p.
func PointSpan(p Pos) Span {
	return Span{start: p, end: p, known: true}
}

// Unknown returns the span of unknown origin.
func Unknown() Span {
	return Span{}
}

// Known reports whether the span is file-backed.
func (s Span) Known() bool {
	return s.known
}

func (s Span) String() string {
	if !s.known {
		return "<unknown>"
	}
	return fmt.Sprintf("%s-%s", s.start, s.end)
}

// Start returns the start position and whether the span is file-backed.
func (s Span) Start() (Pos, bool) {
	return s.start, s.known
}

// End returns the end position and whether the span is file-backed.
func (s Span) End() (Pos, bool) {
	return s.end, s.known
}

// StartLine returns the 1-based start line, or false when the span is not
// file-backed. Callers must treat false as "this node cannot participate in
// line-based heuristics", not as an error.
func (s Span) StartLine() (uint32, bool) {
	if !s.known {
		return 0, false
	}
	return s.start.Line, true
}

// EndLine returns the 1-based end line, or false when the span is not
// file-backed.
func (s Span) EndLine() (uint32, bool) {
	if !s.known {
		return 0, false
	}
	return s.end.Line, true
}

// RealStart returns the start position of a file-backed span. Calling it on
// an unknown span is a caller bug and panics.
func (s Span) RealStart() Pos {
	if !s.known {
		panic("source: RealStart on unknown span")
	}
	return s.start
}

// RealEnd returns the end position of a file-backed span. Calling it on an
// unknown span is a caller bug and panics.
func (s Span) RealEnd() Pos {
	if !s.known {
		panic("source: RealEnd on unknown span")
	}
	return s.end
}

// RealStartLine returns the 1-based start line of a file-backed span.
func (s Span) RealStartLine() uint32 {
	return s.RealStart().Line
}

// RealEndLine returns the 1-based end line of a file-backed span.
func (s Span) RealEndLine() uint32 {
	return s.RealEnd().Line
}

// Cover returns the minimal span enclosing both s and other. An unknown
// span is absorbed: covering with it returns the other span unchanged, and
// covering two unknown spans stays unknown.
func (s Span) Cover(other Span) Span {
	if !s.known {
		return other
	}
	if !other.known {
		return s
	}
	return Span{
		start: minPos(s.start, other.start),
		end:   maxPos(s.end, other.end),
		known: true,
	}
}

// CoverAll returns the minimal span enclosing every span in spans. Passing
// an empty slice is a caller bug and panics. If every input is unknown the
// result is unknown.
func CoverAll(spans []Span) Span {
	if len(spans) == 0 {
		panic("source: CoverAll on empty span list")
	}
	out := spans[0]
	for _, sp := range spans[1:] {
		out = out.Cover(sp)
	}
	return out
}

// ShiftRight returns the span translated as if cols plain characters had
// been inserted at its start: both endpoints advance column by column using
// the same single-step scan as Pos.Advance. Calling it on an unknown span
// is a caller bug and panics.
func (s Span) ShiftRight(cols uint32) Span {
	if !s.known {
		panic("source: ShiftRight on unknown span")
	}
	for range cols {
		s.start = s.start.Advance(' ')
		s.end = s.end.Advance(' ')
	}
	return s
}
