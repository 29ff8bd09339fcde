package ast

import (
	"testing"

	"quill/internal/source"
)

func lineSpan(line, fromCol, toCol uint32) source.Span {
	return source.NewSpan(source.Pos{Line: line, Col: fromCol}, source.Pos{Line: line, Col: toCol})
}

func TestIsModule(t *testing.T) {
	file := &File{Span: lineSpan(1, 1, 10)}
	decl := &Decl{
		Kind: source.At(lineSpan(3, 1, 4), KindLet),
		Name: source.At(lineSpan(3, 5, 6), "x"),
		Body: source.At(lineSpan(3, 9, 10), []string{"1"}),
	}

	tests := []struct {
		name     string
		node     Node
		expected bool
	}{
		{"file is the module node", file, true},
		{"let decl is not", decl, false},
		{"nil is not", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsModule(tt.node); got != tt.expected {
				t.Errorf("IsModule() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDecl_SpanIncludesDoc(t *testing.T) {
	doc := source.At(lineSpan(2, 1, 12), "doc text")
	decl := &Decl{
		Kind: source.At(lineSpan(3, 1, 4), KindLet),
		Name: source.At(lineSpan(3, 5, 8), "add"),
		Doc:  &doc,
		Body: source.At(
			source.NewSpan(source.Pos{Line: 3, Col: 11}, source.Pos{Line: 4, Col: 9}),
			[]string{"fold", "  zero"},
		),
	}

	sp := decl.Span()
	if sp.RealStart() != (source.Pos{Line: 2, Col: 1}) {
		t.Errorf("span start = %v, want 2:1", sp.RealStart())
	}
	if sp.RealEnd() != (source.Pos{Line: 4, Col: 9}) {
		t.Errorf("span end = %v, want 4:9", sp.RealEnd())
	}
}

func TestFile_Imports(t *testing.T) {
	f := &File{
		ImportGroups: [][]source.Spanned[Import]{
			{
				source.At(lineSpan(1, 1, 11), Import{Path: "std.io"}),
				source.At(lineSpan(2, 1, 13), Import{Path: "std.list", Alias: "l"}),
			},
			{
				source.At(lineSpan(4, 1, 12), Import{Path: "math.vec"}),
			},
		},
	}

	flat := f.Imports()
	if len(flat) != 3 {
		t.Fatalf("Imports() len = %d, want 3", len(flat))
	}
	if flat[2].Value.Path != "math.vec" {
		t.Errorf("last import = %q", flat[2].Value.Path)
	}
}
