// Package doctext turns raw doc-comment payloads into canonical line blocks
// that the printer can re-emit without changing their meaning.
package doctext

import (
	"strings"
	"unicode"
)

// SectionMarker opens a named section when it is the first character of a
// doc line. A literal marker therefore has to be escaped on output.
const SectionMarker = '$'

// escapePrefix keeps a leading SectionMarker from being re-parsed as a
// section header.
const escapePrefix = `\`

// indentUnit is the fixed indentation step for nested doc lines.
const indentUnit = "  "

// Block is a normalized doc comment: an ordered, non-empty sequence of
// lines with no trailing blank lines, uniform padding removed, and leading
// section markers escaped.
type Block struct {
	Lines []string
}

// Text joins the block back into a raw string, one line per element.
func (b Block) Text() string {
	return strings.Join(b.Lines, "\n")
}

// Normalize converts the literal text of an extracted doc comment into a
// Block. It is pure and total: any input, including the empty string,
// produces a block of at least one line.
func Normalize(raw string) Block {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}

	// drop trailing blank lines; interior ones stay
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return Block{Lines: []string{""}}
	}

	if hasUniformPadding(lines) {
		for i, line := range lines {
			lines[i] = strings.TrimPrefix(line, " ")
		}
	}

	for i, line := range lines {
		if len(line) > 0 && line[0] == SectionMarker {
			lines[i] = escapePrefix + line
		}
	}

	return Block{Lines: lines}
}

// hasUniformPadding reports whether the first non-empty line begins with
// exactly one space. Only that line governs the decision; see Normalize.
func hasUniformPadding(lines []string) bool {
	for _, line := range lines {
		if line == "" {
			continue
		}
		return strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "  ")
	}
	return false
}

// Indent prepends one indentation unit to a single line. Multi-line text is
// the caller's problem: apply it per line.
func Indent(line string) string {
	return indentUnit + line
}
