package htmlxpath

import "testing"

// 'not(...)' parses straight to a NotExpr (§3 Not variant), never to a
// FunctionCallExpr -- this exercises that AST path, not a builtin function.
func TestNotExprPredicate(t *testing.T) {
	markup := `<html><a id="1"/><a/></html>`
	tree := buildTree(t, markup)
	set := mustApply(t, markup, "/html/a[not(@id)]")
	if set.Len() != 1 {
		t.Fatalf("got %d items, want 1", set.Len())
	}
	if _, ok := tree.AttributeValue(set.At(0).Node, "id"); ok {
		t.Fatalf("selected element unexpectedly has an id attribute")
	}
}
