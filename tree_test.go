package htmlxpath

import (
	"strings"
	"testing"
)

func TestBuildDocumentStructure(t *testing.T) {
	tree := buildTree(t, `<html><body><p>hi</p></body></html>`)
	root := tree.Root()
	if tree.Kind(root) != KindDocumentNodeKind {
		t.Fatalf("root kind = %v, want document", tree.Kind(root))
	}
	if _, ok := tree.Parent(root); ok {
		t.Fatalf("document node unexpectedly reports a parent")
	}
	kids := tree.Children(root)
	if len(kids) != 1 || tree.Name(kids[0]) != "html" {
		t.Fatalf("got %v", kids)
	}
}

func TestTreeTextAndAllText(t *testing.T) {
	tree := buildTree(t, `<div>a<b>b</b>c</div>`)
	root := tree.Root()
	div := tree.Children(root)[0]
	if text, ok := tree.Text(div); !ok || text != "ac" {
		t.Fatalf("Text(div) = %q, %v, want \"ac\", true", text, ok)
	}
	if all := tree.AllText(div); all != "abc" {
		t.Fatalf("AllText(div) = %q, want \"abc\"", all)
	}
}

func TestTreeItertext(t *testing.T) {
	tree := buildTree(t, `<div>a<b>b</b>c</div>`)
	div := tree.Children(tree.Root())[0]
	got := tree.Itertext(div)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTreePreorderIsDocumentOrder(t *testing.T) {
	tree := buildTree(t, `<a><b/><c><d/></c></a>`)
	root := tree.Root()
	ids := tree.Preorder(root, nil)
	names := make([]string, len(ids))
	for i, id := range ids {
		if tree.Kind(id) == KindElementNodeKind {
			names[i] = tree.Name(id)
		} else {
			names[i] = "#doc"
		}
	}
	want := []string{"#doc", "a", "b", "c", "d"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, names[i], want[i])
		}
	}
	for i := 1; i < len(ids); i++ {
		if compareOrder(ids[i-1], ids[i]) >= 0 {
			t.Fatalf("ids not in increasing document order at %d: %v", i, ids)
		}
	}
}

func TestAttributesNeverAppearAsChildren(t *testing.T) {
	tree := buildTree(t, `<a x="1" y="2"><b/></a>`)
	a := tree.Children(tree.Root())[0]
	attrs := tree.Attributes(a)
	if len(attrs) != 2 || attrs[0].Name != "x" || attrs[1].Name != "y" {
		t.Fatalf("got %v", attrs)
	}
	for _, c := range tree.Children(a) {
		if tree.Kind(c) != KindElementNodeKind {
			t.Fatalf("attribute leaked into Children()")
		}
	}
}

func TestParseHTMLComment(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader(`<a><!--hello--></a>`))
	if err != nil {
		t.Fatal(err)
	}
	tree := Build(doc)
	a := tree.Children(tree.Root())[0]
	kids := tree.Children(a)
	if len(kids) != 1 || tree.Kind(kids[0]) != KindCommentNodeKind {
		t.Fatalf("got %v", kids)
	}
}

func TestParseHTMLRejectsEmptyDocument(t *testing.T) {
	if _, err := ParseHTML(strings.NewReader("")); err == nil {
		t.Fatal("expected an error for a document with no root element")
	}
}
