package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"quill/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	gutterColor  = color.New(color.FgBlue)
)

func severityColor(sev Severity) *color.Color {
	switch sev {
	case SevError:
		return errorColor
	case SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// Render writes a human-readable diagnostic. When the primary span is
// file-backed and f holds the file, the offending line is echoed with a
// caret marker; display widths are measured with runewidth so wide runes do
// not skew the caret.
func Render(w io.Writer, f *source.File, d Diagnostic) {
	head := severityColor(d.Severity)
	fmt.Fprintf(w, "%s %s: %s\n", head.Sprint(d.Severity), d.Code, d.Message)

	start, known := d.Primary.Start()
	if !known || f == nil {
		return
	}
	fmt.Fprintf(w, "  --> %s:%d:%d\n", f.Path, start.Line, start.Col)

	line := f.GetLine(start.Line)
	if line == "" && start.Line > uint32(len(f.LineIdx))+1 {
		return
	}

	gutter := fmt.Sprintf("%3d", start.Line)
	pad := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(w, "%s |\n", gutterColor.Sprint(pad))
	fmt.Fprintf(w, "%s | %s\n", gutterColor.Sprint(gutter), line)
	fmt.Fprintf(w, "%s | %s%s\n", gutterColor.Sprint(pad), caretIndent(line, start.Col), head.Sprint(caret(line, d.Primary)))

	for _, note := range d.Notes {
		fmt.Fprintf(w, "%s = note: %s\n", pad, note.Msg)
	}
}

// caretIndent returns spaces matching the display width of the line up to
// (but not including) col.
func caretIndent(line string, col uint32) string {
	prefix := clipCols(line, 1, col)
	return strings.Repeat(" ", runewidth.StringWidth(prefix))
}

// caret returns the ^^^ marker covering the span on its first line.
func caret(line string, sp source.Span) string {
	start := sp.RealStart()
	end := sp.RealEnd()
	endCol := end.Col
	if end.Line != start.Line {
		// multi-line spans are marked to the end of the first line
		endCol = uint32(len(line)) + 1 // #nosec G115
	}
	if endCol <= start.Col {
		return "^"
	}
	marked := clipCols(line, start.Col, endCol)
	width := runewidth.StringWidth(marked)
	if width < 1 {
		width = 1
	}
	return strings.Repeat("^", width)
}

// clipCols returns the substring of line between 1-based columns [from, to).
func clipCols(line string, from, to uint32) string {
	if from < 1 {
		from = 1
	}
	n := uint32(len(line)) // #nosec G115
	if from > n+1 {
		from = n + 1
	}
	if to > n+1 {
		to = n + 1
	}
	if to < from {
		to = from
	}
	return line[from-1 : to-1]
}

// RenderBag renders every diagnostic of a sorted bag.
func RenderBag(w io.Writer, f *source.File, bag *Bag) {
	if bag == nil {
		return
	}
	bag.Sort()
	for _, d := range bag.Items() {
		Render(w, f, d)
	}
}
