package htmlxpath

import "fmt"

// Eval implementations for the Expr sum type (§3). Each variant evaluates
// against an evalContext -- the single candidate item, and its
// position/size within the step's current candidate sequence (§4.5).

func (e NumberLit) Eval(ec *evalContext) (Value, error) {
	return numberValue(e.Value), nil
}

func (e StringLit) Eval(ec *evalContext) (Value, error) {
	return stringValue(e.Value), nil
}

func (e AttributeRefExpr) Eval(ec *evalContext) (Value, error) {
	set := NewItemSet()
	if ec.item.Kind == ItemTreeNode && ec.tree.Kind(ec.item.Node) == KindElementNodeKind {
		if v, ok := ec.tree.AttributeValue(ec.item.Node, e.Name); ok {
			set.Add(AttributeItem(AttributeNode{Owner: ec.item.Node, Name: e.Name, Value: v}))
		}
	}
	return nodeSetValue{tree: ec.tree, set: set}, nil
}

func (e ContextItemExpr) Eval(ec *evalContext) (Value, error) {
	set := NewItemSet()
	set.Add(ec.item)
	return nodeSetValue{tree: ec.tree, set: set}, nil
}

func (e RelativePathExpr) Eval(ec *evalContext) (Value, error) {
	set, err := ApplyToItem(e.Path, ec.tree, ec.item)
	if err != nil {
		return nil, err
	}
	return nodeSetValue{tree: ec.tree, set: set}, nil
}

func (e ComparisonExpr) Eval(ec *evalContext) (Value, error) {
	lhs, err := e.LHS.Eval(ec)
	if err != nil {
		return nil, err
	}
	rhs, err := e.RHS.Eval(ec)
	if err != nil {
		return nil, err
	}
	return booleanValue(generalCompare(e.Op, lhs, rhs)), nil
}

func (e LogicalExpr) Eval(ec *evalContext) (Value, error) {
	lhs, err := e.LHS.Eval(ec)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case LogicalAnd:
		if !lhs.AsBoolean() {
			return booleanValue(false), nil
		}
	case LogicalOr:
		if lhs.AsBoolean() {
			return booleanValue(true), nil
		}
	}
	rhs, err := e.RHS.Eval(ec)
	if err != nil {
		return nil, err
	}
	return booleanValue(rhs.AsBoolean()), nil
}

func (e NotExpr) Eval(ec *evalContext) (Value, error) {
	v, err := e.Arg.Eval(ec)
	if err != nil {
		return nil, err
	}
	return booleanValue(!v.AsBoolean()), nil
}

func (e TreatAsExpr) Eval(ec *evalContext) (Value, error) {
	v, err := e.Arg.Eval(ec)
	if err != nil {
		return nil, err
	}
	set := v.AsItemSet()
	if set == nil {
		return v, nil
	}
	for _, it := range set.Items() {
		if !kindTestMatches(ec.tree, e.Kind, it) {
			return nil, &ExpressionError{
				Kind:        TreatFailure,
				Description: fmt.Sprintf("item %s does not satisfy %s", describeItem(ec.tree, it), e.Kind.String()),
				Code:        "XPDY0050",
			}
		}
	}
	return v, nil
}

func (e FunctionCallExpr) Eval(ec *evalContext) (Value, error) {
	fn, ok := builtinFunctions[e.Name]
	if !ok {
		return nil, &ExpressionError{Kind: UnknownFunction, Description: e.Name}
	}
	return fn(ec, e.Args)
}

// generalCompare implements §4.5's general-comparison semantics: if either
// side is a node-set, the comparison holds when some item on the left
// atomizes to a value that relates to some item on the right; otherwise
// the two atomic values are compared directly, coerced per XPath's usual
// number/string rules.
func generalCompare(op CompareOp, lhs, rhs Value) bool {
	lSet, rSet := lhs.AsItemSet(), rhs.AsItemSet()
	switch {
	case lSet != nil && rSet != nil:
		for _, l := range lSet.Items() {
			for _, r := range rSet.Items() {
				if compareStrings(op, itemString(lhs, l), itemString(rhs, r)) {
					return true
				}
			}
		}
		return false
	case lSet != nil:
		for _, l := range lSet.Items() {
			if compareValues(op, stringValue(itemString(lhs, l)), rhs) {
				return true
			}
		}
		return false
	case rSet != nil:
		for _, r := range rSet.Items() {
			if compareValues(op, lhs, stringValue(itemString(rhs, r))) {
				return true
			}
		}
		return false
	default:
		return compareValues(op, lhs, rhs)
	}
}

func itemString(owner Value, it Item) string {
	if ns, ok := owner.(nodeSetValue); ok {
		return atomizeItemString(ns.tree, it)
	}
	return it.String()
}

func compareStrings(op CompareOp, a, b string) bool {
	switch op {
	case CompareEq:
		return a == b
	case CompareNe:
		return a != b
	default:
		return compareValues(op, stringValue(a), stringValue(b))
	}
}

// compareValues compares two atomic (non-node-set) values. Equality
// compares as strings unless either side is a number; ordering
// operators always compare numerically, matching XPath 1.0's coercion
// rules for the operand shapes this subset supports.
func compareValues(op CompareOp, lhs, rhs Value) bool {
	switch op {
	case CompareEq:
		if lhs.Kind() == NumberKind || rhs.Kind() == NumberKind {
			return lhs.AsNumber() == rhs.AsNumber()
		}
		return lhs.AsString() == rhs.AsString()
	case CompareNe:
		if lhs.Kind() == NumberKind || rhs.Kind() == NumberKind {
			return lhs.AsNumber() != rhs.AsNumber()
		}
		return lhs.AsString() != rhs.AsString()
	case CompareLt:
		return lhs.AsNumber() < rhs.AsNumber()
	case CompareLe:
		return lhs.AsNumber() <= rhs.AsNumber()
	case CompareGt:
		return lhs.AsNumber() > rhs.AsNumber()
	case CompareGe:
		return lhs.AsNumber() >= rhs.AsNumber()
	default:
		return false
	}
}
