package lexer

import (
	"strconv"
	"strings"

	"fortio.org/safecast"

	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// Options configures a Lexer.
type Options struct {
	Reporter diag.Reporter
}

// Lexer produces position-tagged tokens from a .ql source file. The
// language is line-oriented: every token lives on a single line, and the
// lexer classifies lines (blank, doc, comment, continuation, declaration)
// before splitting declaration heads into word tokens.
type Lexer struct {
	file  *source.File
	opts  Options
	lines []string
	line  int           // 0-based index into lines
	queue []token.Token // pending tokens from the current line
}

// New creates a lexer over the given file.
func New(file *source.File, opts Options) *Lexer {
	content := ""
	if file != nil {
		content = string(file.Content)
	}
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		// a trailing newline does not open a new line
		lines = lines[:len(lines)-1]
	}
	return &Lexer{
		file:  file,
		opts:  opts,
		lines: lines,
	}
}

// Next returns the next token. After the input is exhausted it always
// returns EOF.
func (lx *Lexer) Next() token.Token {
	for {
		if len(lx.queue) > 0 {
			tok := lx.queue[0]
			lx.queue = lx.queue[1:]
			return tok
		}
		if lx.line >= len(lx.lines) {
			after := uint32(len(lx.lines)) + 1 // #nosec G115
			return token.Token{
				Kind: token.EOF,
				Span: source.PointSpan(source.Pos{Line: after, Col: 1}),
			}
		}
		lx.scanLine()
	}
}

// Tokens drains the lexer into a slice ending with EOF.
func (lx *Lexer) Tokens() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) scanLine() {
	text := lx.lines[lx.line]
	lineNo, err := safecast.Conv[uint32](lx.line + 1)
	if err != nil {
		panic(err)
	}
	lx.line++

	lineSpan := func(fromCol, toCol int) source.Span {
		return source.NewSpan(
			source.Pos{Line: lineNo, Col: uint32(fromCol)}, // #nosec G115
			source.Pos{Line: lineNo, Col: uint32(toCol)},   // #nosec G115
		)
	}
	wholeLine := lineSpan(1, len(text)+1)

	switch {
	case strings.TrimSpace(text) == "":
		lx.push(token.Token{Kind: token.Blank, Span: wholeLine, Text: text})
		return
	case strings.HasPrefix(text, "##"):
		lx.push(token.Token{Kind: token.Doc, Span: wholeLine, Text: text[2:]})
		return
	case text[0] == '#':
		lx.push(token.Token{Kind: token.Comment, Span: wholeLine, Text: text[1:]})
		return
	case text[0] == ' ' || text[0] == '\t':
		// indented continuation of the previous declaration body
		lx.push(token.Token{Kind: token.Text, Span: wholeLine, Text: text})
		return
	}

	lx.scanDeclHead(text, lineNo)
}

// scanDeclHead splits a top-level declaration line into tokens: keyword,
// names, punctuation, and (after `=`) the raw body text.
func (lx *Lexer) scanDeclHead(text string, lineNo uint32) {
	pos := 0
	mk := func(kind token.Kind, from, to int, payload string) token.Token {
		return token.Token{
			Kind: kind,
			Span: source.NewSpan(
				source.Pos{Line: lineNo, Col: uint32(from + 1)}, // #nosec G115
				source.Pos{Line: lineNo, Col: uint32(to + 1)},   // #nosec G115
			),
			Text: payload,
		}
	}

	word, end := scanWord(text, pos)
	kw, isKw := token.Keywords[word]
	if !isKw || kw == token.KwAs {
		bad := mk(token.Bad, 0, len(text), text)
		diag.ReportError(lx.opts.Reporter, diag.LexUnknownLine, bad.Span,
			"unknown top-level construct "+strconv.Quote(word))
		lx.push(bad)
		return
	}
	lx.push(mk(kw, pos, end, word))
	pos = end

	for pos < len(text) {
		ch := text[pos]
		switch {
		case ch == ' ' || ch == '\t':
			pos++
		case ch == '=':
			lx.push(mk(token.Eq, pos, pos+1, "="))
			pos++
			// skip a single canonical space after `=`
			body := text[pos:]
			bodyStart := pos
			if strings.HasPrefix(body, " ") {
				body = body[1:]
				bodyStart++
			}
			lx.push(mk(token.Text, bodyStart, len(text), body))
			return
		case ch == '.':
			lx.push(mk(token.Dot, pos, pos+1, "."))
			pos++
		case ch == '(':
			lx.push(mk(token.LParen, pos, pos+1, "("))
			pos++
		case ch == ')':
			lx.push(mk(token.RParen, pos, pos+1, ")"))
			pos++
		case ch == ',':
			lx.push(mk(token.Comma, pos, pos+1, ","))
			pos++
		case isIdentStart(ch):
			w, e := scanWord(text, pos)
			if w == "as" {
				lx.push(mk(token.KwAs, pos, e, w))
			} else {
				lx.push(mk(token.Ident, pos, e, w))
			}
			pos = e
		default:
			bad := mk(token.Bad, pos, len(text), text[pos:])
			diag.ReportError(lx.opts.Reporter, diag.LexUnknownLine, bad.Span,
				"unexpected character "+strconv.Quote(string(ch)))
			lx.push(bad)
			return
		}
	}
}

func (lx *Lexer) push(tok token.Token) {
	lx.queue = append(lx.queue, tok)
}

// scanWord returns the identifier starting at pos and the index just past it.
func scanWord(text string, pos int) (string, int) {
	end := pos
	for end < len(text) && isIdentPart(text[end]) {
		end++
	}
	return text[pos:end], end
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
