// Package parser assembles the token stream into an ast.File. It is
// deliberately shallow: declaration bodies stay raw text, and the parser's
// main job is grouping (imports by blank lines, doc comments onto the
// following declaration) with accurate spans.
package parser

import (
	"strings"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/source"
	"quill/internal/token"
)

// Options configures parsing.
type Options struct {
	Reporter  diag.Reporter
	MaxErrors uint // 0 means unlimited
}

// ParseFile drains the lexer and builds the file's syntax tree. It never
// fails outright: malformed lines become KindBad declarations and
// diagnostics, so the printer can still reproduce the rest of the file.
func ParseFile(sf *source.File, lx *lexer.Lexer, opts Options) *ast.File {
	p := &parser{
		file: &ast.File{},
		rep:  &cappedReporter{inner: opts.Reporter, max: opts.MaxErrors},
	}
	if sf != nil {
		p.file.FileID = sf.ID
	}
	p.run(groupByLine(lx.Tokens()))
	return p.file
}

type parser struct {
	file *ast.File
	rep  *cappedReporter

	pendingDoc      []string
	pendingDocSpans []source.Span
	lastDecl        *ast.Decl
	blankSinceImp   bool
	sawModule       bool
	allSpans        []source.Span
}

// line is all tokens sharing one source line, excluding EOF.
type line []token.Token

func groupByLine(toks []token.Token) []line {
	var out []line
	var cur line
	curLine := uint32(0)
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			break
		}
		ln := tok.Span.RealStartLine()
		if ln != curLine && len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
		curLine = ln
		cur = append(cur, tok)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func (p *parser) run(lines []line) {
	for _, ln := range lines {
		switch ln[0].Kind {
		case token.Blank:
			p.blankSinceImp = true
			p.dropDoc()
			p.lastDecl = nil
		case token.Doc:
			p.pendingDoc = append(p.pendingDoc, ln[0].Text)
			p.pendingDocSpans = append(p.pendingDocSpans, ln[0].Span)
			p.lastDecl = nil
		case token.Comment:
			p.file.Comments = append(p.file.Comments, source.At(ln[0].Span, ln[0].Text))
			p.lastDecl = nil
		case token.Text:
			p.continueBody(ln[0])
		case token.KwModule:
			p.parseModule(ln)
		case token.KwImport:
			p.parseImport(ln)
		case token.KwLet, token.KwType:
			p.parseDecl(ln)
		case token.Bad:
			p.badDecl(ln[0])
		}
		for _, tok := range ln {
			p.allSpans = append(p.allSpans, tok.Span)
		}
	}

	if len(p.allSpans) == 0 {
		p.file.Span = source.PointSpan(source.StartOfFile)
	} else {
		p.file.Span = source.CoverAll(p.allSpans)
	}
}

func (p *parser) dropDoc() {
	p.pendingDoc = nil
	p.pendingDocSpans = nil
}

func (p *parser) takeDoc() *source.Spanned[string] {
	if len(p.pendingDoc) == 0 {
		return nil
	}
	doc := source.At(source.CoverAll(p.pendingDocSpans), strings.Join(p.pendingDoc, "\n"))
	p.dropDoc()
	return &doc
}

func (p *parser) parseModule(ln line) {
	p.lastDecl = nil
	p.dropDoc()

	if p.sawModule {
		diag.ReportError(p.rep, diag.ParseDuplicateModule, ln[0].Span,
			"duplicate module header")
		return
	}
	p.sawModule = true

	name, sp, ok := parsePath(ln[1:])
	if !ok {
		diag.ReportError(p.rep, diag.ParseExpectedName, ln[0].Span,
			"module header is missing its name")
		return
	}
	header := source.At(ln[0].Span.Cover(sp), ast.ModuleHeader{Name: name})
	p.file.Module = &header
}

func (p *parser) parseImport(ln line) {
	p.lastDecl = nil
	p.dropDoc()

	rest := ln[1:]
	path, pathSpan, ok := parsePath(rest)
	if !ok {
		diag.ReportError(p.rep, diag.ParseExpectedName, ln[0].Span,
			"import is missing its path")
		return
	}

	imp := ast.Import{Path: path}
	span := ln[0].Span.Cover(pathSpan)
	rest = afterPath(rest)
	if len(rest) > 0 && rest[0].Kind == token.KwAs {
		if len(rest) > 1 && rest[1].Kind == token.Ident {
			imp.Alias = rest[1].Text
			span = span.Cover(rest[1].Span)
		} else {
			diag.ReportError(p.rep, diag.ParseExpectedName, rest[0].Span,
				"import alias is missing its name")
		}
	}

	if p.blankSinceImp || len(p.file.ImportGroups) == 0 {
		p.file.ImportGroups = append(p.file.ImportGroups, nil)
	}
	p.blankSinceImp = false
	last := len(p.file.ImportGroups) - 1
	p.file.ImportGroups[last] = append(p.file.ImportGroups[last], source.At(span, imp))
}

func (p *parser) parseDecl(ln line) {
	kind := ast.KindLet
	if ln[0].Kind == token.KwType {
		kind = ast.KindType
	}

	decl := &ast.Decl{
		Kind: source.At(ln[0].Span, kind),
		Doc:  p.takeDoc(),
	}

	rest := ln[1:]
	switch {
	case len(rest) > 0 && rest[0].Kind == token.Ident:
		decl.Name = source.At(rest[0].Span, rest[0].Text)
		rest = rest[1:]
	case len(rest) > 0 && rest[0].Kind == token.LParen:
		name, sp, consumed, ok := parseTuplePattern(rest)
		if !ok {
			diag.ReportError(p.rep, diag.ParseUnclosedPattern, rest[0].Span,
				"binding pattern is missing `)`")
		}
		decl.Name = source.At(sp, name)
		decl.TupleBinding = true
		rest = rest[consumed:]
	default:
		diag.ReportError(p.rep, diag.ParseExpectedName, ln[0].Span,
			"declaration is missing its name")
		decl.Name = source.At(source.Unknown(), "")
	}

	if len(rest) > 0 && rest[0].Kind == token.Eq {
		rest = rest[1:]
		if len(rest) > 0 && rest[0].Kind == token.Text {
			decl.Body = source.At(rest[0].Span, []string{rest[0].Text})
		} else {
			decl.Body = source.At(syntheticBodySpan(ln), []string{""})
		}
	} else {
		diag.ReportError(p.rep, diag.ParseExpectedEq, decl.Name.Span.Cover(ln[0].Span),
			"declaration is missing `=`")
		decl.Body = source.At(syntheticBodySpan(ln), []string{""})
	}
	// synthetic body spans sit past the last token, so the file span has
	// to be widened explicitly
	p.allSpans = append(p.allSpans, decl.Body.Span)

	p.file.Decls = append(p.file.Decls, decl)
	p.lastDecl = decl
}

// continueBody folds an indented line into the previous declaration. A
// continuation with nothing to continue is a stray token.
func (p *parser) continueBody(tok token.Token) {
	if p.lastDecl == nil {
		diag.ReportError(p.rep, diag.ParseStrayToken, tok.Span,
			"indented line does not continue any declaration")
		return
	}
	p.lastDecl.Body = source.Spanned[[]string]{
		Span:  p.lastDecl.Body.Span.Cover(tok.Span),
		Value: append(p.lastDecl.Body.Value, tok.Text),
	}
}

func (p *parser) badDecl(tok token.Token) {
	// lexer already reported; keep the raw line so the printer can
	// reproduce it verbatim
	p.dropDoc()
	decl := &ast.Decl{
		Kind: source.At(tok.Span, ast.KindBad),
		Name: source.At(source.Unknown(), ""),
		Body: source.At(tok.Span, []string{tok.Text}),
	}
	p.file.Decls = append(p.file.Decls, decl)
	p.lastDecl = decl
}

// syntheticBodySpan places the span of a missing declaration body one
// column past the last real token of the line, so the placeholder never
// collides with content that is actually there.
func syntheticBodySpan(ln line) source.Span {
	last := ln[len(ln)-1]
	return source.PointSpan(last.Span.RealEnd()).ShiftRight(1)
}

// parsePath reads a dotted name (a.b.c) from the front of rest.
func parsePath(rest []token.Token) (string, source.Span, bool) {
	if len(rest) == 0 || rest[0].Kind != token.Ident {
		return "", source.Unknown(), false
	}
	var sb strings.Builder
	sb.WriteString(rest[0].Text)
	span := rest[0].Span
	i := 1
	for i+1 < len(rest) && rest[i].Kind == token.Dot && rest[i+1].Kind == token.Ident {
		sb.WriteByte('.')
		sb.WriteString(rest[i+1].Text)
		span = span.Cover(rest[i+1].Span)
		i += 2
	}
	return sb.String(), span, true
}

// afterPath skips the dotted-name tokens parsePath consumed.
func afterPath(rest []token.Token) []token.Token {
	i := 1
	for i+1 < len(rest) && rest[i].Kind == token.Dot && rest[i+1].Kind == token.Ident {
		i += 2
	}
	return rest[i:]
}

// parseTuplePattern reads `(a, b, ...)` and renders it back to canonical
// text for the declaration name.
func parseTuplePattern(rest []token.Token) (name string, sp source.Span, consumed int, ok bool) {
	sp = rest[0].Span
	var parts []string
	for i := 1; i < len(rest); i++ {
		switch rest[i].Kind {
		case token.Ident:
			parts = append(parts, rest[i].Text)
		case token.Comma:
		case token.RParen:
			return "(" + strings.Join(parts, ", ") + ")", sp.Cover(rest[i].Span), i + 1, true
		default:
			return "(" + strings.Join(parts, ", ") + ")", sp.Cover(rest[i-1].Span), i, false
		}
	}
	return "(" + strings.Join(parts, ", ") + ")", sp.Cover(rest[len(rest)-1].Span), len(rest), false
}

// cappedReporter forwards to inner until max errors have been reported.
type cappedReporter struct {
	inner diag.Reporter
	max   uint
	seen  uint
}

func (r *cappedReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if r.inner == nil {
		return
	}
	if sev >= diag.SevError {
		if r.max > 0 && r.seen >= r.max {
			return
		}
		r.seen++
	}
	r.inner.Report(code, sev, primary, msg, notes)
}
