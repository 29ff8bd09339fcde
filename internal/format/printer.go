package format

import (
	"errors"
	"sort"

	"quill/internal/ast"
	"quill/internal/doctext"
	"quill/internal/source"
)

// Options configures the printer.
type Options struct {
	// SortImports orders imports alphabetically within each blank-line
	// separated group.
	SortImports bool
	// KeepComments re-emits lone `#` comment lines.
	KeepComments bool
}

// DefaultOptions preserves comments and sorts import groups.
func DefaultOptions() Options {
	return Options{SortImports: true, KeepComments: true}
}

type printer struct {
	file *ast.File
	w    *Writer
	opt  Options
}

// FormatFile renders the parsed file back to canonical text. Blank lines
// between top-level groups are preserved exactly when the original source
// had at least one fully blank line there. The returned error is an
// *UnsupportedError when the file uses a construct the printer does not
// handle yet.
func FormatFile(sf *source.File, f *ast.File, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	if f == nil {
		return nil, errors.New("format: nil ast file")
	}

	pr := printer{
		file: f,
		w:    NewWriter(len(sf.Content)),
		opt:  opt,
	}
	if err := pr.printFile(); err != nil {
		return nil, err
	}
	return pr.w.Bytes(), nil
}

// item is one top-level unit in emission order.
type item struct {
	span source.Span
	emit func(p *printer) error
}

func (p *printer) printFile() error {
	items := p.collectItems()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].span.RealStart().Before(items[j].span.RealStart())
	})

	for i, it := range items {
		if i > 0 {
			prev := []item{items[i-1]}
			next := []item{it}
			if BlankLineBetween(prev, next, func(x item) source.Span { return x.span }) {
				p.w.BlankLine()
			}
		}
		if err := it.emit(p); err != nil {
			return err
		}
	}
	p.w.Newline()
	return nil
}

func (p *printer) collectItems() []item {
	var items []item

	if p.file.Module != nil {
		mod := *p.file.Module
		items = append(items, item{
			span: mod.Span,
			emit: func(p *printer) error {
				p.w.WriteLine("module " + mod.Value.Name)
				return nil
			},
		})
	}

	for _, group := range p.file.ImportGroups {
		if len(group) == 0 {
			continue
		}
		spans := make([]source.Span, 0, len(group))
		for _, imp := range group {
			spans = append(spans, imp.Span)
		}
		items = append(items, item{
			span: source.CoverAll(spans),
			emit: func(p *printer) error {
				p.printImportGroup(group)
				return nil
			},
		})
	}

	if p.opt.KeepComments {
		for _, c := range p.file.Comments {
			items = append(items, item{
				span: c.Span,
				emit: func(p *printer) error {
					p.w.WriteLine("#" + c.Value)
					return nil
				},
			})
		}
	}

	for _, decl := range p.file.Decls {
		items = append(items, item{
			span: decl.Span(),
			emit: func(p *printer) error {
				return p.printDecl(decl)
			},
		})
	}

	return items
}

func (p *printer) printImportGroup(group []source.Spanned[ast.Import]) {
	ordered := group
	if p.opt.SortImports {
		ordered = make([]source.Spanned[ast.Import], len(group))
		copy(ordered, group)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Value.Path < ordered[j].Value.Path
		})
	}
	for _, imp := range ordered {
		line := "import " + imp.Value.Path
		if imp.Value.Alias != "" {
			line += " as " + imp.Value.Alias
		}
		p.w.WriteLine(line)
	}
}

func (p *printer) printDecl(d *ast.Decl) error {
	if d.Kind.Value == ast.KindBad {
		// reproduce the original line untouched; diagnostics already told
		// the user what is wrong with it
		for _, line := range d.Body.Value {
			p.w.WriteLine(line)
		}
		return nil
	}
	if d.TupleBinding {
		return Unsupported("tuple binding in let declaration")
	}

	if d.Doc != nil {
		p.printDoc(d.Doc.Value)
	}

	head := d.Kind.Value.String() + " " + d.Name.Value + " ="
	if len(d.Body.Value) > 0 && d.Body.Value[0] != "" {
		head += " " + d.Body.Value[0]
	}
	p.w.WriteLine(head)

	for _, line := range d.Body.Value[1:] {
		p.w.WriteLine(line)
	}
	return nil
}

// printDoc normalizes the raw doc payload and re-emits it as `##` lines.
// Normalization guarantees at least one line, no trailing blanks, and
// escaped section markers, so the emitted block re-parses to the same text.
func (p *printer) printDoc(raw string) {
	block := doctext.Normalize(raw)

	// The canonical separator space is applied uniformly or not at all.
	// After normalization the first non-empty line starts with either zero
	// or two-plus spaces; adding one space to every line in the first case
	// is exactly what the next normalization strips, and adding none in the
	// second leaves the payload verbatim. Mixing the two would grow or eat
	// padding on repeated runs.
	sep := " "
	for _, line := range block.Lines {
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			sep = ""
		}
		break
	}

	for _, line := range block.Lines {
		if line == "" {
			p.w.WriteLine("##")
			continue
		}
		p.w.WriteLine("##" + sep + line)
	}
}
