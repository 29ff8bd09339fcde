package format

import (
	"testing"

	"quill/internal/source"
)

type fakeNode struct {
	span source.Span
}

func nodeAtLines(start, end uint32) fakeNode {
	return fakeNode{span: source.NewSpan(
		source.Pos{Line: start, Col: 1},
		source.Pos{Line: end, Col: 1},
	)}
}

func nodeSpan(n fakeNode) source.Span { return n.span }

func TestBlankLineBetween_GapTable(t *testing.T) {
	tests := []struct {
		name     string
		endLine  uint32
		startLin uint32
		expected bool
	}{
		{"same line", 10, 10, false},
		{"adjacent lines", 10, 11, false},
		{"one blank line between", 10, 12, true},
		{"many blank lines between", 10, 40, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := []fakeNode{nodeAtLines(tt.endLine, tt.endLine)}
			second := []fakeNode{nodeAtLines(tt.startLin, tt.startLin)}
			if got := BlankLineBetween(first, second, nodeSpan); got != tt.expected {
				t.Errorf("BlankLineBetween(end %d, start %d) = %v, want %v",
					tt.endLine, tt.startLin, got, tt.expected)
			}
		})
	}
}

func TestBlankLineBetween_UsesGroupEndpoints(t *testing.T) {
	// only the last item of the first group and the first item of the
	// second group matter
	first := []fakeNode{nodeAtLines(1, 1), nodeAtLines(2, 5)}
	second := []fakeNode{nodeAtLines(7, 7), nodeAtLines(30, 30)}

	if !BlankLineBetween(first, second, nodeSpan) {
		t.Error("gap 5→7 not detected as blank-separated")
	}

	second[0] = nodeAtLines(6, 6)
	if BlankLineBetween(first, second, nodeSpan) {
		t.Error("gap 5→6 wrongly detected as blank-separated")
	}
}

func TestBlankLineBetween_UnknownSpans(t *testing.T) {
	real := []fakeNode{nodeAtLines(1, 1)}
	farReal := []fakeNode{nodeAtLines(50, 50)}
	unknown := []fakeNode{{span: source.Unknown()}}

	if BlankLineBetween(unknown, farReal, nodeSpan) {
		t.Error("unknown first endpoint should answer false")
	}
	if BlankLineBetween(real, unknown, nodeSpan) {
		t.Error("unknown second endpoint should answer false")
	}
	if BlankLineBetween(unknown, unknown, nodeSpan) {
		t.Error("two unknowns should answer false")
	}
}

func TestBlankLineBetween_EmptyGroups(t *testing.T) {
	some := []fakeNode{nodeAtLines(1, 1)}
	if BlankLineBetween(nil, some, nodeSpan) {
		t.Error("empty first group should answer false")
	}
	if BlankLineBetween(some, nil, nodeSpan) {
		t.Error("empty second group should answer false")
	}
}
