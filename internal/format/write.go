package format

// Writer accumulates formatted output and keeps track of line state so
// blank lines and newlines never double up.
type Writer struct {
	buf         []byte
	atLineStart bool
}

// NewWriter creates a formatting writer with a capacity hint.
func NewWriter(capHint int) *Writer {
	return &Writer{
		buf:         make([]byte, 0, capHint),
		atLineStart: true,
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteString appends s to the output.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// WriteLine appends s followed by a newline.
func (w *Writer) WriteLine(s string) {
	w.WriteString(s)
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// Newline terminates the current line if it has content.
func (w *Writer) Newline() {
	if !w.atLineStart {
		w.buf = append(w.buf, '\n')
		w.atLineStart = true
	}
}

// BlankLine emits exactly one empty line after the current content.
func (w *Writer) BlankLine() {
	w.Newline()
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}
