package htmlxpath

import "strings"

// NodeKind distinguishes the kinds of node stored in the arena (§3).
type NodeKind int

const (
	KindDocumentNodeKind NodeKind = iota
	KindElementNodeKind
	KindTextNodeKind
	KindCommentNodeKind
	KindPINodeKind
)

// NodeID is a stable, opaque identifier into a Tree's arena. Identifiers
// are never reused and are assigned in construction (pre-)order, so
// comparing two NodeIDs is equivalent to comparing document-tree identity.
type NodeID int

// noNode is the sentinel NodeID stored as the document node's ParentID to
// mean "no parent". Parent reports it as (0, false); NodeID 0 is always the
// document node itself, so callers check Parent's second return value.
const noNode NodeID = -1

// attr is one insertion-ordered name/value pair on an element (§3).
type attr struct {
	Name  string
	Value string
}

// arenaNode is the internal representation of one tree node. Concrete kinds
// are distinguished by Kind rather than by a Go type hierarchy: the arena
// is a single flat slice, so tree topology lives entirely in ParentID and
// ChildIDs rather than in pointers, per the spec's arena-with-stable-ids
// model (§9 "Arena + identifier for tree topology").
type arenaNode struct {
	ID       NodeID
	Kind     NodeKind
	ParentID NodeID

	// Element
	Name     string
	Attrs    []attr
	ChildIDs []NodeID

	// Text/Comment/PI
	Content        string
	OnlyWhitespace bool
}

// Tree is the arena-backed item tree built from an external HTML document
// (§4.3). It is immutable after construction and safe for concurrent
// readers (§5).
type Tree struct {
	nodes []arenaNode
}

// Root returns the NodeID of the document node.
func (t *Tree) Root() NodeID { return 0 }

func (t *Tree) node(id NodeID) *arenaNode {
	return &t.nodes[id]
}

// Kind reports the kind of the node identified by id.
func (t *Tree) Kind(id NodeID) NodeKind { return t.node(id).Kind }

// Name returns an element's local name, or "" for non-elements.
func (t *Tree) Name(id NodeID) string { return t.node(id).Name }

// Children returns the tree children of id in source order. Attributes are
// never included (§4.3 "Navigation discipline").
func (t *Tree) Children(id NodeID) []NodeID {
	return t.node(id).ChildIDs
}

// Parent returns id's tree parent, and false if id is the document node.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	p := t.node(id).ParentID
	if p == noNode {
		return 0, false
	}
	return p, true
}

// Attributes returns an element's attributes, in insertion order, as
// AttributeNode items; it is empty for non-element nodes (§4.3).
func (t *Tree) Attributes(id NodeID) []AttributeNode {
	n := t.node(id)
	if n.Kind != KindElementNodeKind {
		return nil
	}
	out := make([]AttributeNode, len(n.Attrs))
	for i, a := range n.Attrs {
		out[i] = AttributeNode{Owner: id, Name: a.Name, Value: a.Value}
	}
	return out
}

// AttributeValue returns the value of the named attribute on id, and
// whether it is present.
func (t *Tree) AttributeValue(id NodeID, name string) (string, bool) {
	n := t.node(id)
	if n.Kind != KindElementNodeKind {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Text returns the concatenation of id's direct child text nodes, in
// order, or false when id has none (§4.3).
func (t *Tree) Text(id NodeID) (string, bool) {
	var b strings.Builder
	found := false
	for _, c := range t.node(id).ChildIDs {
		cn := t.node(c)
		if cn.Kind == KindTextNodeKind {
			b.WriteString(cn.Content)
			found = true
		}
	}
	if !found {
		return "", false
	}
	return b.String(), true
}

// AllText returns the concatenation of every text-node descendant of id, in
// document order (§4.3 "text_content/all_text").
func (t *Tree) AllText(id NodeID) string {
	var b strings.Builder
	t.collectText(id, &b)
	return b.String()
}

func (t *Tree) collectText(id NodeID, b *strings.Builder) {
	n := t.node(id)
	if n.Kind == KindTextNodeKind {
		b.WriteString(n.Content)
		return
	}
	for _, c := range n.ChildIDs {
		t.collectText(c, b)
	}
}

// Itertext yields one string per text-node descendant of id, in document
// order, including whitespace-only runs (§4.3 "itertext").
func (t *Tree) Itertext(id NodeID) []string {
	var out []string
	var walk func(NodeID)
	walk = func(cur NodeID) {
		n := t.node(cur)
		if n.Kind == KindTextNodeKind {
			out = append(out, n.Content)
			return
		}
		for _, c := range n.ChildIDs {
			walk(c)
		}
	}
	walk(id)
	return out
}

// Preorder appends id and all its descendants, in pre-order, to out.
// Attributes are not part of this order; the evaluator interleaves them in
// per the document-order definition (§3).
func (t *Tree) Preorder(id NodeID, out []NodeID) []NodeID {
	out = append(out, id)
	for _, c := range t.node(id).ChildIDs {
		out = t.Preorder(c, out)
	}
	return out
}

// compareOrder orders a and b in document order (§3): -1 if a precedes b,
// 1 if a follows b, 0 if they are the same node. It
// compares by arena index, which is assigned in construction pre-order and
// therefore already matches document order for tree nodes; attribute nodes
// are handled by the caller (evaluator) since they are not arena members.
func compareOrder(a, b NodeID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// --- construction ---

// builder accumulates arena nodes while walking an external HTML document
// (§4.3 "Construction").
type builder struct {
	nodes []arenaNode
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) alloc(n arenaNode) NodeID {
	id := NodeID(len(b.nodes))
	n.ID = id
	b.nodes = append(b.nodes, n)
	return id
}

// Build walks an HTMLDocument (§6.1) and produces an immutable Tree. The
// HTML parser that produced doc is an external collaborator (§1 Out of
// scope): Build only ever reads through the HTMLNode contract.
func Build(doc HTMLDocument) *Tree {
	b := newBuilder()
	docID := b.alloc(arenaNode{Kind: KindDocumentNodeKind, ParentID: noNode})
	root := doc.Root()
	if root != nil {
		child := b.buildNode(root, docID)
		b.nodes[docID].ChildIDs = append(b.nodes[docID].ChildIDs, child)
	}
	return &Tree{nodes: b.nodes}
}

func (b *builder) buildNode(n HTMLNode, parent NodeID) NodeID {
	switch n.Kind() {
	case HTMLElement:
		attrs := n.Attributes()
		na := make([]attr, len(attrs))
		for i, a := range attrs {
			na[i] = attr{Name: a.Name, Value: a.Value}
		}
		id := b.alloc(arenaNode{Kind: KindElementNodeKind, ParentID: parent, Name: n.Name(), Attrs: na})
		var kids []NodeID
		for _, c := range n.Children() {
			kids = append(kids, b.buildNode(c, id))
		}
		b.nodes[id].ChildIDs = kids
		return id
	case HTMLComment:
		return b.alloc(arenaNode{Kind: KindCommentNodeKind, ParentID: parent, Content: n.Text()})
	case HTMLProcessingInstruction:
		return b.alloc(arenaNode{Kind: KindPINodeKind, ParentID: parent, Content: n.Text()})
	default: // HTMLText
		return b.alloc(arenaNode{Kind: KindTextNodeKind, ParentID: parent, Content: n.Text(), OnlyWhitespace: n.OnlyWhitespace()})
	}
}
