package htmlxpath

// Axis identifies a direction of navigation from a context node (§3, §4.5).
type Axis int

const (
	AxisChild Axis = iota
	AxisDescendant
	AxisDescendantOrSelf
	AxisParent
	AxisSelf
	AxisAttribute
	// AxisRoot and AxisDescendantRoot are pseudo-axes for a leading '/' and
	// '//' respectively; they are never spelled with '::' in source text.
	AxisRoot
	AxisDescendantRoot
)

func (a Axis) String() string {
	switch a {
	case AxisChild:
		return "child"
	case AxisDescendant:
		return "descendant"
	case AxisDescendantOrSelf:
		return "descendant-or-self"
	case AxisParent:
		return "parent"
	case AxisSelf:
		return "self"
	case AxisAttribute:
		return "attribute"
	case AxisRoot:
		return "root"
	case AxisDescendantRoot:
		return "descendant-root"
	default:
		return "?axis"
	}
}

// axisNames maps the spelled axis names legal before '::' to their Axis
// value. Any other identifier before '::' is a ParseError::UnknownAxisName
// (§4.2) -- it is never defaulted to child::.
var axisNames = map[string]Axis{
	"child":              AxisChild,
	"descendant":         AxisDescendant,
	"descendant-or-self": AxisDescendantOrSelf,
	"parent":             AxisParent,
	"self":               AxisSelf,
	"attribute":          AxisAttribute,
}

// KindTestKind identifies a node-test that matches by node kind (§3).
type KindTestKind int

const (
	KindText KindTestKind = iota
	KindNode
	KindElement
	KindAttribute
	KindDocumentNode
	KindComment
	KindPI
)

func (k KindTestKind) String() string {
	switch k {
	case KindText:
		return "text()"
	case KindNode:
		return "node()"
	case KindElement:
		return "element()"
	case KindAttribute:
		return "attribute()"
	case KindDocumentNode:
		return "document-node()"
	case KindComment:
		return "comment()"
	case KindPI:
		return "processing-instruction()"
	default:
		return "?kind()"
	}
}

// kindTestNames maps the spelled kind-test function names to KindTestKind.
var kindTestNames = map[string]KindTestKind{
	"text":                    KindText,
	"node":                    KindNode,
	"element":                 KindElement,
	"attribute":               KindAttribute,
	"document-node":           KindDocumentNode,
	"comment":                 KindComment,
	"processing-instruction":  KindPI,
}

// NodeTestKind distinguishes the three NodeTest variants (§3).
type NodeTestKind int

const (
	NodeTestName NodeTestKind = iota
	NodeTestWildcard
	NodeTestKind_
)

// NodeTest is the name or kind filter applied to a step's axis-expanded
// candidates (§3, §4.5). It is a closed sum type over NodeTestKind: Name and
// KindTestKind are only meaningful for the matching Kind.
type NodeTest struct {
	Kind NodeTestKind
	Name string       // valid when Kind == NodeTestName
	Test KindTestKind  // valid when Kind == NodeTestKind_
}

// Step is a single axis/node-test/predicates triple in a path expression
// (§3).
type Step struct {
	Axis       Axis
	NodeTest   NodeTest
	Predicates []Expr
}

// Xpath is an ordered sequence of steps (§3), optionally wrapped in a
// top-level 'treat as' KindTest (§4.2 TreatExpr, §4.5 TreatAs, scenario 7).
type Xpath struct {
	Steps   []Step
	TreatAs *KindTestKind
}

// CompareOp enumerates the general-comparison operators (§3, §4.5).
type CompareOp int

const (
	CompareEq CompareOp = iota
	CompareNe
	CompareLt
	CompareLe
	CompareGt
	CompareGe
)

func (op CompareOp) String() string {
	switch op {
	case CompareEq:
		return "="
	case CompareNe:
		return "!="
	case CompareLt:
		return "<"
	case CompareLe:
		return "<="
	case CompareGt:
		return ">"
	case CompareGe:
		return ">="
	default:
		return "?op"
	}
}

// LogicalOp distinguishes 'and' from 'or' in a LogicalExpr.
type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

// Expr is the closed sum type of predicate/sub-expression forms (§3):
// Number, StringLiteral, AttributeRef, ContextItem, RelativePath,
// FunctionCall, Comparison, TreatAs, Not, plus the Or/And forms the grammar
// names but the prose sum type leaves implicit. Adding support is done by
// adding a variant and its Eval case, not by editing a pre-existing crash
// path (§9 "AST as a tagged variant").
type Expr interface {
	Eval(ec *evalContext) (Value, error)
	exprNode()
}

// NumberLit is the Number(n) expression variant.
type NumberLit struct{ Value float64 }

// StringLit is the StringLiteral(s) expression variant.
type StringLit struct{ Value string }

// AttributeRefExpr is the AttributeRef(name) variant, from '@name'.
type AttributeRefExpr struct{ Name string }

// ContextItemExpr is the ContextItem variant, '.'.
type ContextItemExpr struct{}

// RelativePathExpr is the RelativePath(Xpath) variant: a nested location
// path evaluated relative to the current context item.
type RelativePathExpr struct{ Path *Xpath }

// FunctionCallExpr is the FunctionCall(name, args) variant.
type FunctionCallExpr struct {
	Name string
	Args []Expr
}

// ComparisonExpr is the Comparison(op, lhs, rhs) variant.
type ComparisonExpr struct {
	Op       CompareOp
	LHS, RHS Expr
}

// LogicalExpr is the 'and'/'or' grammar form.
type LogicalExpr struct {
	Op       LogicalOp
	LHS, RHS Expr
}

// TreatAsExpr is the TreatAs(expr, KindTest) variant.
type TreatAsExpr struct {
	Arg  Expr
	Kind KindTestKind
}

// NotExpr is the Not(expr) variant, from 'not(...)'.
type NotExpr struct{ Arg Expr }

func (NumberLit) exprNode()        {}
func (StringLit) exprNode()        {}
func (AttributeRefExpr) exprNode() {}
func (ContextItemExpr) exprNode()  {}
func (RelativePathExpr) exprNode() {}
func (FunctionCallExpr) exprNode() {}
func (ComparisonExpr) exprNode()   {}
func (LogicalExpr) exprNode()      {}
func (TreatAsExpr) exprNode()      {}
func (NotExpr) exprNode()          {}
