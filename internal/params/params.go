// Package params verifies the parameter contract of a notebook: the names a
// pipeline task intends to inject at run time must exactly match the
// variables declared in the cell tagged "parameters".
package params

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Declared extracts the declared parameter names from the isolated source
// of the parameters cell: the left-hand names of simple assignments such as
// `a = None`. Any other statement (defs, control flow, bare expressions) is
// ignored, never an error. The parse is deliberately tolerant, since a
// stray indent must not hide declarations, so it never fails either.
func Declared(source string) []string {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		return nil
	}
	defer tree.Close()

	seen := make(map[string]bool)
	var names []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "function_definition", "class_definition", "lambda":
			// assignments inside a body are not contract entries
			return
		case "assignment":
			if left := n.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
				name := left.Content([]byte(source))
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(tree.RootNode())
	sort.Strings(names)
	return names
}

// Check compares the caller's params against the declarations in source.
// label identifies the notebook in diagnostics and is reported verbatim.
// It returns nil when the sets match and a *MismatchError otherwise.
func Check(passed map[string]any, source, label string) error {
	declared := Declared(source)
	declaredSet := make(map[string]bool, len(declared))
	for _, d := range declared {
		declaredSet[d] = true
	}

	var extra []string
	for name := range passed {
		if !declaredSet[name] {
			extra = append(extra, name)
		}
	}
	var missing []string
	for _, d := range declared {
		if _, ok := passed[d]; !ok {
			missing = append(missing, d)
		}
	}
	if len(extra) == 0 && len(missing) == 0 {
		return nil
	}
	sort.Strings(extra)
	sort.Strings(missing)
	return &MismatchError{Label: label, Missing: missing, Extra: extra}
}
