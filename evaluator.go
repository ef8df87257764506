package htmlxpath

import (
	"fmt"
	"math"
	"sort"
)

// evalContext is the context a predicate/sub-expression is evaluated
// against: the candidate item under test, its 1-based position within the
// current step's candidate sequence, and that sequence's size (§4.5
// "Evaluation model").
type evalContext struct {
	tree     *Tree
	item     Item
	position int
	size     int
}

// Apply evaluates xp against tree with the document node as the initial
// context (§4.5 "apply").
func Apply(xp *Xpath, tree *Tree) (*ItemSet, error) {
	return applyFrom(xp, tree, NodeItem(tree.Root()))
}

// ApplyToItem evaluates xp against tree with item as the sole initial
// context (§4.5 "apply_to_item").
func ApplyToItem(xp *Xpath, tree *Tree, item Item) (*ItemSet, error) {
	return applyFrom(xp, tree, item)
}

func applyFrom(xp *Xpath, tree *Tree, initial Item) (*ItemSet, error) {
	contexts := []Item{initial}
	for _, step := range xp.Steps {
		var err error
		contexts, err = applyStep(tree, step, contexts)
		if err != nil {
			return nil, wrapErr(err)
		}
	}
	if xp.TreatAs != nil {
		for _, it := range contexts {
			if !kindTestMatches(tree, *xp.TreatAs, it) {
				return nil, wrapErr(&ExpressionError{
					Kind:        TreatFailure,
					Description: fmt.Sprintf("item %s does not satisfy %s", describeItem(tree, it), xp.TreatAs.String()),
					Code:        "XPDY0050",
				})
			}
		}
	}
	set := NewItemSet()
	for _, it := range contexts {
		set.Add(it)
	}
	return set, nil
}

// describeItem renders a short description of an item for error messages
// (§4.5 TreatAs, §7 "the failing construct and the item ... involved").
func describeItem(tree *Tree, it Item) string {
	switch it.Kind {
	case ItemTreeNode:
		return fmt.Sprintf("%s node %q", tree.Kind(it.Node), tree.Name(it.Node))
	case ItemAttribute:
		return fmt.Sprintf("attribute %q", it.Attr.Name)
	default:
		return it.String()
	}
}

func (k NodeKind) String() string {
	switch k {
	case KindDocumentNodeKind:
		return "document"
	case KindElementNodeKind:
		return "element"
	case KindTextNodeKind:
		return "text"
	case KindCommentNodeKind:
		return "comment"
	case KindPINodeKind:
		return "processing-instruction"
	default:
		return "?kind"
	}
}

// applyStep applies one Step to every item in contexts, in three phases
// per context item (axis expansion, node-test filtering, predicate
// filtering in declaration order), then unions the results across all
// context items in document order with duplicates collapsed (§4.5).
func applyStep(tree *Tree, step Step, contexts []Item) ([]Item, error) {
	var all []Item
	seen := make(map[any]bool)

	for _, ctx := range contexts {
		candidates := expandAxis(tree, step.Axis, ctx)

		filtered := candidates[:0:0]
		for _, c := range candidates {
			if nodeTestMatch(tree, step.Axis, step.NodeTest, c) {
				filtered = append(filtered, c)
			}
		}

		for _, pred := range step.Predicates {
			var err error
			filtered, err = applyPredicate(tree, pred, filtered)
			if err != nil {
				return nil, err
			}
		}

		for _, it := range filtered {
			key := it.identity()
			if !seen[key] {
				seen[key] = true
				all = append(all, it)
			}
		}
	}

	sortItemsDocumentOrder(tree, all)
	return all, nil
}

// applyPredicate filters candidates by a single predicate, evaluated once
// per candidate with that candidate's 1-based position within candidates
// and candidates' length as size -- "per-parent" because applyStep calls
// this once per context item, before the cross-context union (§4.5, §9
// "Positional predicates are per-parent").
func applyPredicate(tree *Tree, pred Expr, candidates []Item) ([]Item, error) {
	size := len(candidates)
	var out []Item
	for i, cand := range candidates {
		ec := &evalContext{tree: tree, item: cand, position: i + 1, size: size}
		v, err := pred.Eval(ec)
		if err != nil {
			return nil, err
		}
		keep := false
		if v.Kind() == NumberKind {
			n := v.AsNumber()
			if n == math.Trunc(n) {
				keep = int(n) == ec.position
			} else {
				keep = v.AsBoolean()
			}
		} else {
			keep = v.AsBoolean()
		}
		if keep {
			out = append(out, cand)
		}
	}
	return out, nil
}

// expandAxis produces ctx's candidate node sequence for axis (§4.5 axis
// table). Root and DescendantRoot ignore ctx entirely, per their
// definition as pseudo-axes anchored at the document node.
func expandAxis(tree *Tree, axis Axis, ctx Item) []Item {
	switch axis {
	case AxisRoot:
		return []Item{NodeItem(tree.Root())}
	case AxisDescendantRoot:
		ids := tree.Preorder(tree.Root(), nil)
		return nodeItems(ids)
	}

	if ctx.Kind != ItemTreeNode {
		// Non-tree (attribute) context items have no children/parent/
		// attributes of their own; only Self/DescendantOrSelf are
		// meaningful.
		switch axis {
		case AxisSelf, AxisDescendantOrSelf:
			return []Item{ctx}
		default:
			return nil
		}
	}

	node := ctx.Node
	switch axis {
	case AxisChild:
		return nodeItems(tree.Children(node))
	case AxisDescendant:
		ids := tree.Preorder(node, nil)
		if len(ids) > 0 {
			ids = ids[1:] // exclude self
		}
		return nodeItems(ids)
	case AxisDescendantOrSelf:
		return nodeItems(tree.Preorder(node, nil))
	case AxisParent:
		if p, ok := tree.Parent(node); ok {
			return []Item{NodeItem(p)}
		}
		return nil
	case AxisSelf:
		return []Item{ctx}
	case AxisAttribute:
		if tree.Kind(node) != KindElementNodeKind {
			return nil
		}
		attrs := tree.Attributes(node)
		out := make([]Item, len(attrs))
		for i, a := range attrs {
			out[i] = AttributeItem(a)
		}
		return out
	default:
		return nil
	}
}

func nodeItems(ids []NodeID) []Item {
	out := make([]Item, len(ids))
	for i, id := range ids {
		out[i] = NodeItem(id)
	}
	return out
}

// nodeTestMatch implements §4.5 "Node tests".
func nodeTestMatch(tree *Tree, axis Axis, nt NodeTest, it Item) bool {
	switch nt.Kind {
	case NodeTestName:
		if it.Kind == ItemAttribute {
			return it.Attr.Name == nt.Name
		}
		if it.Kind == ItemTreeNode && tree.Kind(it.Node) == KindElementNodeKind {
			return tree.Name(it.Node) == nt.Name
		}
		return false
	case NodeTestWildcard:
		if it.Kind == ItemAttribute {
			return true
		}
		return it.Kind == ItemTreeNode && tree.Kind(it.Node) == KindElementNodeKind
	case NodeTestKind_:
		return kindTestMatches(tree, nt.Test, it)
	default:
		return false
	}
}

// kindTestMatches implements the KindTest alternatives of §4.5 (and the
// TreatAs check of scenario 7).
func kindTestMatches(tree *Tree, kind KindTestKind, it Item) bool {
	switch kind {
	case KindNode:
		return true
	case KindAttribute:
		return it.Kind == ItemAttribute
	}
	if it.Kind != ItemTreeNode {
		return false
	}
	switch kind {
	case KindText:
		return tree.Kind(it.Node) == KindTextNodeKind
	case KindElement:
		return tree.Kind(it.Node) == KindElementNodeKind
	case KindDocumentNode:
		return tree.Kind(it.Node) == KindDocumentNodeKind
	case KindComment:
		return tree.Kind(it.Node) == KindCommentNodeKind
	case KindPI:
		return tree.Kind(it.Node) == KindPINodeKind
	default:
		return false
	}
}

// docKey is the sort key implementing §3 "Document order": tree nodes
// order by arena index (assigned in construction pre-order, §3
// invariants), and an element's attributes sort immediately after it and
// before its first child, in insertion order.
type docKey struct {
	id  NodeID
	sub int
}

func keyOf(tree *Tree, it Item) docKey {
	switch it.Kind {
	case ItemTreeNode:
		return docKey{id: it.Node, sub: 0}
	case ItemAttribute:
		owner := tree.node(it.Attr.Owner)
		for i, a := range owner.Attrs {
			if a.Name == it.Attr.Name {
				return docKey{id: it.Attr.Owner, sub: i + 1}
			}
		}
		return docKey{id: it.Attr.Owner, sub: len(owner.Attrs) + 1}
	default:
		return docKey{id: NodeID(1 << 30), sub: 0}
	}
}

func sortItemsDocumentOrder(tree *Tree, items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := keyOf(tree, items[i]), keyOf(tree, items[j])
		if a.id != b.id {
			return compareOrder(a.id, b.id) < 0
		}
		return a.sub < b.sub
	})
}
