package format

import (
	"sort"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/parser"
	"quill/internal/source"
)

// CheckRoundTrip formats the file and re-parses the result, ensuring the
// top-level shape (module header, imports, declaration kinds and names)
// survives the round trip. It guards the printer against eating or
// duplicating declarations.
func CheckRoundTrip(sf *source.File, opt Options, maxDiag int) (ok bool, msg string) {
	origBag := diag.NewBag(maxDiag)
	orig := parseOnce(sf, origBag)
	if origBag.HasErrors() {
		return false, "fmt-check: initial parse has errors"
	}

	formatted, err := FormatFile(sf, orig, opt)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}

	fs2 := source.NewFileSet()
	rebuilt := fs2.Get(fs2.AddVirtual(sf.Path, formatted))
	newBag := diag.NewBag(maxDiag)
	reparsed := parseOnce(rebuilt, newBag)
	if newBag.HasErrors() {
		return false, "fmt-check: reparse has errors"
	}

	if !sameTopShape(orig, reparsed) {
		return false, "fmt-check: top-level shape differs after round-trip"
	}

	return true, "fmt-check: OK"
}

func parseOnce(sf *source.File, bag *diag.Bag) *ast.File {
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(sf, lexer.Options{Reporter: rep})
	return parser.ParseFile(sf, lx, parser.Options{Reporter: rep, MaxErrors: uint(bag.Cap())})
}

func sameTopShape(a, b *ast.File) bool {
	if (a.Module == nil) != (b.Module == nil) {
		return false
	}
	if a.Module != nil && a.Module.Value.Name != b.Module.Value.Name {
		return false
	}

	// import order inside a group may legitimately change; compare sorted
	// paths instead
	ai, bi := importPaths(a), importPaths(b)
	if len(ai) != len(bi) {
		return false
	}
	for i := range ai {
		if ai[i] != bi[i] {
			return false
		}
	}

	if len(a.Decls) != len(b.Decls) {
		return false
	}
	for i := range a.Decls {
		if a.Decls[i].Kind.Value != b.Decls[i].Kind.Value {
			return false
		}
		if a.Decls[i].Name.Value != b.Decls[i].Name.Value {
			return false
		}
	}
	return true
}

func importPaths(f *ast.File) []string {
	var out []string
	for _, imp := range f.Imports() {
		out = append(out, imp.Value.Path)
	}
	sort.Strings(out)
	return out
}
