package htmlxpath

import (
	"fmt"
	"strings"
)

// builtinFunction evaluates a function call's arguments against ec.
type builtinFunction func(ec *evalContext, args []Expr) (Value, error)

// builtinFunctions is the minimum supported function set (§4.5). text()
// and node() are not listed here: the parser resolves them directly to a
// RelativePathExpr over a kind-test step, since §4.5 describes them as
// "kind test[s] in positions that take a KindTest" rather than ordinary
// functions. not(...) is likewise absent: the parser resolves every
// syntactically valid 'not(' call straight to a NotExpr (§3 Not variant),
// so a FunctionCallExpr named "not" is never constructed. A name missing
// from this map makes FunctionCallExpr.Eval report ExpressionErrorKind
// UnknownFunction.
var builtinFunctions = map[string]builtinFunction{
	"last":     fnLast,
	"position": fnPosition,
	"root":     fnRoot,
	"contains": fnContains,
}

func fnLast(ec *evalContext, args []Expr) (Value, error) {
	if len(args) != 0 {
		return nil, arityErr("last", 0, len(args))
	}
	return numberValue(ec.size), nil
}

func fnPosition(ec *evalContext, args []Expr) (Value, error) {
	if len(args) != 0 {
		return nil, arityErr("position", 0, len(args))
	}
	return numberValue(ec.position), nil
}

func fnRoot(ec *evalContext, args []Expr) (Value, error) {
	if len(args) != 0 {
		return nil, arityErr("root", 0, len(args))
	}
	set := NewItemSet()
	set.Add(NodeItem(ec.tree.Root()))
	return nodeSetValue{tree: ec.tree, set: set}, nil
}

func fnContains(ec *evalContext, args []Expr) (Value, error) {
	if len(args) != 2 {
		return nil, arityErr("contains", 2, len(args))
	}
	haystack, err := args[0].Eval(ec)
	if err != nil {
		return nil, err
	}
	needle, err := args[1].Eval(ec)
	if err != nil {
		return nil, err
	}
	for _, h := range atomizedStrings(ec.tree, haystack) {
		for _, n := range atomizedStrings(ec.tree, needle) {
			if strings.Contains(h, n) {
				return booleanValue(true), nil
			}
		}
	}
	return booleanValue(false), nil
}

// atomizedStrings returns the set of atomized strings a Value contributes
// to a general comparison: one per item for a node-set, or its single
// string form otherwise (§4.5 "contains(haystack, needle)").
func atomizedStrings(tree *Tree, v Value) []string {
	if set := v.AsItemSet(); set != nil {
		out := make([]string, set.Len())
		for i, it := range set.Items() {
			out[i] = atomizeItemString(tree, it)
		}
		return out
	}
	return []string{v.AsString()}
}

func arityErr(name string, want, got int) error {
	return &ExpressionError{
		Kind:        ArityMismatch,
		Description: fmt.Sprintf("%s() expects %d argument(s), got %d", name, want, got),
	}
}
