package htmlxpath

import "testing"

func TestFunctionLastAndPosition(t *testing.T) {
	markup := `<html><item>a</item><item>b</item><item>c</item></html>`
	tree := buildTree(t, markup)
	set := mustApply(t, markup, "/html/item[position() = last()]")
	if set.Len() != 1 {
		t.Fatalf("got %d items, want 1", set.Len())
	}
	text, _ := tree.Text(set.At(0).Node)
	if text != "c" {
		t.Fatalf("got text %q, want c", text)
	}
}

// root() is reachable only as an Expr (predicate position), never as a
// stand-alone location path, so it is exercised by evaluating a
// FunctionCallExpr directly rather than through Parse.
func TestFunctionRoot(t *testing.T) {
	markup := `<html><body><p/></body></html>`
	tree := buildTree(t, markup)
	xp, err := Parse("/html/body/p")
	if err != nil {
		t.Fatal(err)
	}
	p, err := Apply(xp, tree)
	if err != nil {
		t.Fatal(err)
	}
	ec := &evalContext{tree: tree, item: p.At(0), position: 1, size: 1}
	v, err := (FunctionCallExpr{Name: "root"}).Eval(ec)
	if err != nil {
		t.Fatal(err)
	}
	set := v.AsItemSet()
	if set == nil || set.Len() != 1 || set.At(0).Node != tree.Root() {
		t.Fatalf("root() did not return the document node: %v", set)
	}
}

func TestFunctionContainsNegative(t *testing.T) {
	markup := `<html><div>hello world</div></html>`
	set := mustApply(t, markup, "//div[contains(text(),'xyz')]")
	if set.Len() != 0 {
		t.Fatalf("got %d items, want 0", set.Len())
	}
}

func TestFunctionArityMismatch(t *testing.T) {
	tree := buildTree(t, `<html/>`)
	xp, err := Parse("/html[contains(@id)]")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Apply(xp, tree)
	var ee *ExpressionError
	if !errorsAsExpr(err, &ee) || ee.Kind != ArityMismatch {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
}
