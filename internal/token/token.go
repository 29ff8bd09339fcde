package token

import (
	"quill/internal/source"
)

// Kind identifies the lexical class of a token.
type Kind uint8

const (
	EOF Kind = iota
	// Blank is a line containing only whitespace. The parser uses blank
	// runs to split import groups and declaration groups.
	Blank
	// Doc is one `##` doc-comment line; Text holds everything after the
	// marker, verbatim.
	Doc
	// Comment is one `#` line comment; Text holds everything after the
	// marker.
	Comment
	// Text is raw declaration-body text: either the remainder of a line
	// after `=` or a whole indented continuation line.
	Text
	KwModule
	KwImport
	KwLet
	KwType
	KwAs
	Ident
	Dot
	Eq
	LParen
	RParen
	Comma
	Bad
)

var kindNames = [...]string{
	EOF:      "EOF",
	Blank:    "Blank",
	Doc:      "Doc",
	Comment:  "Comment",
	Text:     "Text",
	KwModule: "module",
	KwImport: "import",
	KwLet:    "let",
	KwType:   "type",
	KwAs:     "as",
	Ident:    "Ident",
	Dot:      ".",
	Eq:       "=",
	LParen:   "(",
	RParen:   ")",
	Comma:    ",",
	Bad:      "Bad",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Token is a single lexical token with its file-backed span.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsKeyword reports whether the token starts a top-level declaration.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwModule, KwImport, KwLet, KwType:
		return true
	default:
		return false
	}
}

// Keywords maps keyword spellings to their kinds.
var Keywords = map[string]Kind{
	"module": KwModule,
	"import": KwImport,
	"let":    KwLet,
	"type":   KwType,
	"as":     KwAs,
}
