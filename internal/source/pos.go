package source

import "fmt"

// Pos is a 1-based line/column position in a source file.
type Pos struct {
	Line uint32
	Col  uint32
}

// StartOfFile is the position of the first character of any file.
var StartOfFile = Pos{Line: 1, Col: 1}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Before reports whether p comes strictly before q in document order
// (line first, then column).
func (p Pos) Before(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// After reports whether p comes strictly after q in document order.
func (p Pos) After(q Pos) bool {
	return q.Before(p)
}

// Advance returns the position after scanning a single byte from p.
// A newline resets the column to 1 and bumps the line; every other byte
// advances the column. The lexer and span shifting share this step so the
// two never disagree on where a character lands.
func (p Pos) Advance(b byte) Pos {
	if b == '\n' {
		return Pos{Line: p.Line + 1, Col: 1}
	}
	return Pos{Line: p.Line, Col: p.Col + 1}
}

// AdvanceString returns the position after scanning every byte of s from p.
func (p Pos) AdvanceString(s string) Pos {
	for i := 0; i < len(s); i++ {
		p = p.Advance(s[i])
	}
	return p
}

func minPos(a, b Pos) Pos {
	if b.Before(a) {
		return b
	}
	return a
}

func maxPos(a, b Pos) Pos {
	if a.Before(b) {
		return b
	}
	return a
}
