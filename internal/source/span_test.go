package source

import (
	"testing"
)

func sp(sl, sc, el, ec uint32) Span {
	return NewSpan(Pos{Line: sl, Col: sc}, Pos{Line: el, Col: ec})
}

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans on one line",
			a:        sp(1, 1, 1, 5),
			b:        sp(1, 10, 1, 20),
			expected: sp(1, 1, 1, 20),
		},
		{
			name:     "overlapping spans",
			a:        sp(2, 3, 4, 1),
			b:        sp(3, 1, 5, 9),
			expected: sp(2, 3, 5, 9),
		},
		{
			name:     "second contained in first",
			a:        sp(1, 1, 10, 1),
			b:        sp(3, 2, 4, 7),
			expected: sp(1, 1, 10, 1),
		},
		{
			name:     "same line ordering decided by column",
			a:        sp(7, 9, 7, 12),
			b:        sp(7, 2, 7, 4),
			expected: sp(7, 2, 7, 12),
		},
		{
			name:     "unknown left operand is absorbed",
			a:        Unknown(),
			b:        sp(3, 1, 3, 8),
			expected: sp(3, 1, 3, 8),
		},
		{
			name:     "unknown right operand is absorbed",
			a:        sp(3, 1, 3, 8),
			b:        Unknown(),
			expected: sp(3, 1, 3, 8),
		},
		{
			name:     "both unknown stays unknown",
			a:        Unknown(),
			b:        Unknown(),
			expected: Unknown(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.a.Cover(tt.b)
			if result != tt.expected {
				t.Errorf("Cover() = %v, want %v", result, tt.expected)
			}
			// Cover is symmetric
			if rev := tt.b.Cover(tt.a); rev != tt.expected {
				t.Errorf("Cover() reversed = %v, want %v", rev, tt.expected)
			}
		})
	}
}

func TestCoverAll(t *testing.T) {
	tests := []struct {
		name     string
		spans    []Span
		expected Span
	}{
		{
			name:     "single span returned unchanged",
			spans:    []Span{sp(4, 2, 6, 1)},
			expected: sp(4, 2, 6, 1),
		},
		{
			name:     "three ordered spans",
			spans:    []Span{sp(1, 1, 1, 10), sp(3, 1, 3, 5), sp(9, 2, 9, 4)},
			expected: sp(1, 1, 9, 4),
		},
		{
			name:     "unknown spans widen using real ones only",
			spans:    []Span{Unknown(), sp(2, 1, 2, 9), Unknown(), sp(5, 3, 6, 2)},
			expected: sp(2, 1, 6, 2),
		},
		{
			name:     "all unknown gives unknown",
			spans:    []Span{Unknown(), Unknown()},
			expected: Unknown(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CoverAll(tt.spans)
			if result != tt.expected {
				t.Errorf("CoverAll() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCoverAll_Associativity(t *testing.T) {
	spans := []Span{
		sp(1, 4, 2, 1),
		sp(2, 8, 2, 12),
		Unknown(),
		sp(5, 1, 7, 3),
		sp(6, 2, 6, 9),
	}

	whole := CoverAll(spans)
	for cut := 1; cut < len(spans); cut++ {
		left := CoverAll(spans[:cut])
		right := CoverAll(spans[cut:])
		if got := left.Cover(right); got != whole {
			t.Errorf("partition at %d: got %v, want %v", cut, got, whole)
		}
	}
}

func TestCoverAll_Monotonicity(t *testing.T) {
	spans := []Span{sp(3, 7, 3, 9), sp(1, 2, 2, 4), sp(8, 1, 9, 5)}
	combined := CoverAll(spans)

	for i, s := range spans {
		if s.RealStart().Before(combined.RealStart()) {
			t.Errorf("span %d start %v precedes combined start %v", i, s.RealStart(), combined.RealStart())
		}
		if combined.RealEnd().Before(s.RealEnd()) {
			t.Errorf("span %d end %v exceeds combined end %v", i, s.RealEnd(), combined.RealEnd())
		}
	}
}

func TestCoverAll_EmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("CoverAll(nil) did not panic")
		}
	}()
	CoverAll(nil)
}

func TestSpan_LineQueries(t *testing.T) {
	real := sp(4, 2, 7, 9)

	if line, ok := real.StartLine(); !ok || line != 4 {
		t.Errorf("StartLine() = %d, %v; want 4, true", line, ok)
	}
	if line, ok := real.EndLine(); !ok || line != 7 {
		t.Errorf("EndLine() = %d, %v; want 7, true", line, ok)
	}
	if real.RealStartLine() != 4 || real.RealEndLine() != 7 {
		t.Errorf("RealStartLine/RealEndLine = %d/%d, want 4/7", real.RealStartLine(), real.RealEndLine())
	}

	unknown := Unknown()
	if _, ok := unknown.StartLine(); ok {
		t.Error("StartLine() on unknown span reported a line")
	}
	if _, ok := unknown.EndLine(); ok {
		t.Error("EndLine() on unknown span reported a line")
	}
}

func TestSpan_RealAccessorsPanicOnUnknown(t *testing.T) {
	accessors := map[string]func(Span){
		"RealStart":     func(s Span) { s.RealStart() },
		"RealEnd":       func(s Span) { s.RealEnd() },
		"RealStartLine": func(s Span) { s.RealStartLine() },
		"RealEndLine":   func(s Span) { s.RealEndLine() },
		"ShiftRight":    func(s Span) { s.ShiftRight(1) },
	}

	for name, fn := range accessors {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s on unknown span did not panic", name)
				}
			}()
			fn(Unknown())
		})
	}
}

func TestNewSpan_EndBeforeStartPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewSpan with end before start did not panic")
		}
	}()
	NewSpan(Pos{Line: 5, Col: 2}, Pos{Line: 5, Col: 1})
}

func TestSpan_ShiftRight(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{
			name:     "shift single-line span by 4",
			span:     sp(2, 3, 2, 10),
			shift:    4,
			expected: sp(2, 7, 2, 14),
		},
		{
			name:     "shift by 0 is identity",
			span:     sp(2, 3, 2, 10),
			shift:    0,
			expected: sp(2, 3, 2, 10),
		},
		{
			name:     "shift multi-line span moves both endpoints",
			span:     sp(1, 1, 3, 5),
			shift:    2,
			expected: sp(1, 3, 3, 7),
		},
		{
			name:     "shift zero-width span",
			span:     sp(6, 6, 6, 6),
			shift:    3,
			expected: sp(6, 9, 6, 9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.span.ShiftRight(tt.shift)
			if result != tt.expected {
				t.Errorf("ShiftRight(%d) = %v, want %v", tt.shift, result, tt.expected)
			}
		})
	}
}

func TestSpan_ShiftRightComposition(t *testing.T) {
	base := sp(3, 2, 4, 8)
	for _, pair := range [][2]uint32{{0, 0}, {1, 0}, {0, 5}, {2, 3}, {7, 11}} {
		m, n := pair[0], pair[1]
		composed := base.ShiftRight(m).ShiftRight(n)
		direct := base.ShiftRight(m + n)
		if composed != direct {
			t.Errorf("shift %d then %d = %v, shift %d = %v", m, n, composed, m+n, direct)
		}
	}
}
