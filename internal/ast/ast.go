// Package ast defines the syntax tree the formatter walks. Declaration
// bodies are kept as raw source lines rather than expression trees; the
// printer reproduces them verbatim, which is what keeps formatting
// structure-preserving.
package ast

import (
	"quill/internal/source"
)

// NodeKind enumerates the syntactic categories that share the generic Node
// interface.
type NodeKind uint8

const (
	// KindModule is the whole-compilation-unit node.
	KindModule NodeKind = iota
	KindImport
	KindLet
	KindType
	// KindBad covers top-level lines the parser could not classify.
	KindBad
)

func (k NodeKind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindImport:
		return "import"
	case KindLet:
		return "let"
	case KindType:
		return "type"
	case KindBad:
		return "bad"
	}
	return "unknown"
}

// Node is the generic view of any syntax value: its kind tag and span.
type Node interface {
	NodeKind() NodeKind
	NodeSpan() source.Span
}

// IsModule reports whether n is the top-level compilation-unit node. The
// check is an explicit kind-tag comparison so it stays valid for any value
// flowing through the generic Node interface.
func IsModule(n Node) bool {
	return n != nil && n.NodeKind() == KindModule
}

// ModuleHeader is the `module a.b.c` line.
type ModuleHeader struct {
	Name string
}

// Import is one `import a.b.c [as x]` line.
type Import struct {
	Path  string
	Alias string // empty when the import is unaliased
}

// Decl is a single top-level `let` or `type` declaration. Body holds the
// raw source lines of the right-hand side: the first element is the text
// after `=`, the rest are continuation lines verbatim.
type Decl struct {
	Kind source.Spanned[NodeKind]
	Name source.Spanned[string]
	Doc  *source.Spanned[string] // raw doc text, lines joined with \n; nil when absent
	Body source.Spanned[[]string]
	// TupleBinding marks `let (a, b) = ...` forms, which the printer does
	// not support yet.
	TupleBinding bool
}

// Span returns the extent of the declaration including its doc comment.
func (d *Decl) Span() source.Span {
	spans := []source.Span{d.Kind.Span, d.Name.Span, d.Body.Span}
	if d.Doc != nil {
		spans = append(spans, d.Doc.Span)
	}
	return source.CoverAll(spans)
}

// NodeKind implements Node.
func (d *Decl) NodeKind() NodeKind { return d.Kind.Value }

// NodeSpan implements Node.
func (d *Decl) NodeSpan() source.Span { return d.Span() }

// File is one parsed compilation unit.
type File struct {
	FileID source.FileID
	Span   source.Span
	// Module is nil for headerless files.
	Module *source.Spanned[ModuleHeader]
	// ImportGroups preserves the blank-line grouping of the original
	// source: imports separated by at least one fully blank line land in
	// different groups.
	ImportGroups [][]source.Spanned[Import]
	Decls        []*Decl
	// Comments are lone `#` lines in source order; the printer re-emits
	// them among the declarations by line position.
	Comments []source.Spanned[string]
}

// NodeKind implements Node.
func (f *File) NodeKind() NodeKind { return KindModule }

// NodeSpan implements Node.
func (f *File) NodeSpan() source.Span { return f.Span }

// Imports flattens the import groups in source order.
func (f *File) Imports() []source.Spanned[Import] {
	var out []source.Spanned[Import]
	for _, group := range f.ImportGroups {
		out = append(out, group...)
	}
	return out
}
