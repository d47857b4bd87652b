package pylint

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// parseResult is a closed tagged result for the parse step. Exactly one of
// the three fields is set: tree on success, syntaxErr when the source does
// not parse, internalErr when the parser itself failed for a reason
// unrelated to the source.
type parseResult struct {
	tree        *sitter.Tree
	syntaxErr   *SyntaxError
	internalErr error
}

// parse builds a fresh parser per call so no state survives between
// independent documents.
func parse(source []byte) parseResult {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return parseResult{internalErr: err}
	}

	root := tree.RootNode()
	if root.HasError() {
		se := &SyntaxError{Line: 1, Column: 1, Msg: "invalid syntax"}
		if n := firstErrorNode(root); n != nil {
			p := n.StartPoint()
			se.Line = int(p.Row) + 1
			se.Column = int(p.Column) + 1
			if n.IsMissing() {
				se.Msg = "invalid syntax (expected " + n.Type() + ")"
			}
		}
		tree.Close()
		return parseResult{syntaxErr: se}
	}
	return parseResult{tree: tree}
}

// firstErrorNode finds the first ERROR or missing node in document order.
// Unnamed children are included: missing tokens are anonymous.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstErrorNode(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
