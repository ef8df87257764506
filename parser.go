package htmlxpath

import "fmt"

// Parse lexes and parses an XPath expression into an Xpath AST (§4.2). It
// is the sole entry point of the front end; callers never invoke Lex or
// the parser type directly.
func Parse(text string) (*Xpath, error) {
	tokens, err := Lex(text)
	if err != nil {
		return nil, wrapErr(err)
	}
	p := &parser{tokens: tokens}
	xp, err := p.parseTopLevel()
	if err != nil {
		return nil, wrapErr(err)
	}
	return xp, nil
}

// parser is a recursive-descent consumer over a peekable token stream
// (§4.2 "Parser discipline"): each nonterminal either consumes a definite
// prefix and commits, or leaves the cursor untouched so the caller can try
// an alternative.
type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) cur() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peekAt(k int) Token {
	i := p.pos + k
	if i >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[i]
}

func (p *parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) check(tt TokenType) bool {
	return p.cur().Type == tt
}

func (p *parser) checkIdent(name string) bool {
	t := p.cur()
	return t.Type == TokenIdentifier && t.Value == name
}

func (p *parser) expect(tt TokenType, kind ParseErrorKind, msg string) (Token, error) {
	if !p.check(tt) {
		return Token{}, &ParseError{Kind: kind, Message: msg, Token: p.cur()}
	}
	return p.advance(), nil
}

// parseTopLevel parses the whole input: a location path optionally
// followed by 'treat as' KindTest (§4.2 TreatExpr), and then requires end
// of input.
func (p *parser) parseTopLevel() (*Xpath, error) {
	xp, err := p.parseXpath()
	if err != nil {
		return nil, err
	}
	if p.checkIdent("treat") {
		p.advance()
		if !p.checkIdent("as") {
			return nil, &ParseError{Kind: UnexpectedToken, Message: "expected 'as' after 'treat'", Token: p.cur()}
		}
		p.advance()
		kind, err := p.parseKindTestName()
		if err != nil {
			return nil, err
		}
		xp.TreatAs = &kind
	}
	if !p.check(TokenEOF) {
		return nil, &ParseError{Kind: TrailingTokens, Token: p.cur()}
	}
	return xp, nil
}

// parseXpath parses (Step)+ , handling the leading '/' / '//' pseudo-axes
// and subsequent '/'/'//' separators (§3, §4.2, §9).
func (p *parser) parseXpath() (*Xpath, error) {
	xp := &Xpath{}

	switch p.cur().Type {
	case TokenSlash:
		p.advance()
		if p.atPathEnd() {
			return nil, &ParseError{Kind: TrailingSlash, Token: p.cur()}
		}
		xp.Steps = append(xp.Steps, Step{Axis: AxisRoot, NodeTest: NodeTest{Kind: NodeTestKind_, Test: KindDocumentNode}})
	case TokenDoubleSlash:
		p.advance()
		if p.atPathEnd() {
			return nil, &ParseError{Kind: TrailingSlash, Token: p.cur()}
		}
		xp.Steps = append(xp.Steps, Step{Axis: AxisDescendantRoot, NodeTest: NodeTest{Kind: NodeTestKind_, Test: KindNode}})
	}

	step, err := p.parseStep(AxisChild)
	if err != nil {
		return nil, err
	}
	xp.Steps = append(xp.Steps, step)

	for {
		switch p.cur().Type {
		case TokenSlash:
			p.advance()
			if p.atPathEnd() {
				return nil, &ParseError{Kind: TrailingSlash, Token: p.cur()}
			}
			step, err := p.parseStep(AxisChild)
			if err != nil {
				return nil, err
			}
			xp.Steps = append(xp.Steps, step)
		case TokenDoubleSlash:
			p.advance()
			if p.atPathEnd() {
				return nil, &ParseError{Kind: TrailingSlash, Token: p.cur()}
			}
			// mid-path '//' folds directly into the Descendant axis for
			// the next step, rather than a two-step descendant-or-self
			// expansion (§4.5 axis table, §6.2).
			step, err := p.parseStep(AxisDescendant)
			if err != nil {
				return nil, err
			}
			xp.Steps = append(xp.Steps, step)
		default:
			return xp, nil
		}
	}
}

// atPathEnd reports whether the cursor has reached a token that cannot
// begin a Step, used to detect a trailing '/' or '//' (§9 open question).
func (p *parser) atPathEnd() bool {
	switch p.cur().Type {
	case TokenEOF, TokenCloseParen, TokenCloseSquareBracket, TokenComma:
		return true
	}
	if p.checkIdent("treat") {
		return true
	}
	return false
}

// parseStep parses a single Step: an optional axis specifier, a node
// test, and zero or more predicates (§3, §4.2).
func (p *parser) parseStep(defaultAxis Axis) (Step, error) {
	switch p.cur().Type {
	case TokenDot:
		p.advance()
		preds, err := p.parsePredicates()
		if err != nil {
			return Step{}, err
		}
		return Step{Axis: AxisSelf, NodeTest: NodeTest{Kind: NodeTestKind_, Test: KindNode}, Predicates: preds}, nil
	case TokenDoubleDot:
		p.advance()
		preds, err := p.parsePredicates()
		if err != nil {
			return Step{}, err
		}
		return Step{Axis: AxisParent, NodeTest: NodeTest{Kind: NodeTestKind_, Test: KindNode}, Predicates: preds}, nil
	case TokenAt:
		p.advance()
		if !p.check(TokenWildcard) && !p.check(TokenIdentifier) {
			return Step{}, &ParseError{Kind: StrayAt, Token: p.cur()}
		}
		nt, err := p.parseNodeTest()
		if err != nil {
			return Step{}, err
		}
		preds, err := p.parsePredicates()
		if err != nil {
			return Step{}, err
		}
		return Step{Axis: AxisAttribute, NodeTest: nt, Predicates: preds}, nil
	}

	axis := defaultAxis
	if p.check(TokenIdentifier) && p.peekAt(1).Type == TokenDoubleColon {
		name := p.cur().Value
		a, ok := axisNames[name]
		if !ok {
			return Step{}, &ParseError{Kind: UnknownAxisName, Message: name, Token: p.cur()}
		}
		axis = a
		p.advance()
		p.advance()
	}

	nt, err := p.parseNodeTest()
	if err != nil {
		return Step{}, err
	}
	preds, err := p.parsePredicates()
	if err != nil {
		return Step{}, err
	}
	return Step{Axis: axis, NodeTest: nt, Predicates: preds}, nil
}

// parseNodeTest parses a QName, '*', or KindTest (§3).
func (p *parser) parseNodeTest() (NodeTest, error) {
	if p.check(TokenWildcard) {
		p.advance()
		return NodeTest{Kind: NodeTestWildcard}, nil
	}
	if p.check(TokenIdentifier) {
		name := p.cur().Value
		if kind, ok := kindTestNames[name]; ok && p.peekAt(1).Type == TokenOpenParen {
			p.advance()
			p.advance()
			if _, err := p.expect(TokenCloseParen, UnmatchedBracket, "kind test takes no arguments"); err != nil {
				return NodeTest{}, err
			}
			return NodeTest{Kind: NodeTestKind_, Test: kind}, nil
		}
		p.advance()
		return NodeTest{Kind: NodeTestName, Name: name}, nil
	}
	if p.check(TokenAt) {
		return NodeTest{}, &ParseError{Kind: StrayAt, Token: p.cur()}
	}
	return NodeTest{}, &ParseError{Kind: UnexpectedToken, Message: "expected a name, '*', or kind test", Token: p.cur()}
}

// parseKindTestName parses a bare KindTest, used after 'treat as' (§4.2).
func (p *parser) parseKindTestName() (KindTestKind, error) {
	if !p.check(TokenIdentifier) {
		return 0, &ParseError{Kind: UnexpectedToken, Message: "expected a kind test after 'as'", Token: p.cur()}
	}
	name := p.cur().Value
	kind, ok := kindTestNames[name]
	if !ok {
		return 0, &ParseError{Kind: UnexpectedToken, Message: fmt.Sprintf("%q is not a kind test", name), Token: p.cur()}
	}
	p.advance()
	p.advance() // '('
	if _, err := p.expect(TokenCloseParen, UnmatchedBracket, "kind test takes no arguments"); err != nil {
		return 0, err
	}
	return kind, nil
}

// parsePredicates parses zero or more bracketed predicates (§3, §4.2).
func (p *parser) parsePredicates() ([]Expr, error) {
	var preds []Expr
	for p.check(TokenOpenSquareBracket) {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenCloseSquareBracket, UnmatchedBracket, "expected ']' to close predicate"); err != nil {
			return nil, err
		}
		preds = append(preds, e)
	}
	return preds, nil
}

// --- expressions (§4.2 Expr grammar) ---

func (p *parser) parseExpr() (Expr, error) {
	return p.parseOrExpr()
}

func (p *parser) parseOrExpr() (Expr, error) {
	lhs, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.checkIdent("or") {
		p.advance()
		rhs, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		lhs = LogicalExpr{Op: LogicalOr, LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

func (p *parser) parseAndExpr() (Expr, error) {
	lhs, err := p.parseEqualityExpr()
	if err != nil {
		return nil, err
	}
	for p.checkIdent("and") {
		p.advance()
		rhs, err := p.parseEqualityExpr()
		if err != nil {
			return nil, err
		}
		lhs = LogicalExpr{Op: LogicalAnd, LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

var equalityOps = map[TokenType]CompareOp{
	TokenAssign:    CompareEq,
	TokenNotEquals: CompareNe,
}

var relationalOps = map[TokenType]CompareOp{
	TokenLt:       CompareLt,
	TokenLtEquals: CompareLe,
	TokenGt:       CompareGt,
	TokenGtEquals: CompareGe,
}

func (p *parser) parseEqualityExpr() (Expr, error) {
	lhs, err := p.parseRelationalExpr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := equalityOps[p.cur().Type]
		if !ok {
			return lhs, nil
		}
		p.advance()
		if p.atExprEnd() {
			return nil, &ParseError{Kind: MissingComparisonRHS, Token: p.cur()}
		}
		rhs, err := p.parseRelationalExpr()
		if err != nil {
			return nil, err
		}
		lhs = ComparisonExpr{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *parser) parseRelationalExpr() (Expr, error) {
	lhs, err := p.parsePrimaryMaybeTreat()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := relationalOps[p.cur().Type]
		if !ok {
			return lhs, nil
		}
		p.advance()
		if p.atExprEnd() {
			return nil, &ParseError{Kind: MissingComparisonRHS, Token: p.cur()}
		}
		rhs, err := p.parsePrimaryMaybeTreat()
		if err != nil {
			return nil, err
		}
		lhs = ComparisonExpr{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *parser) atExprEnd() bool {
	switch p.cur().Type {
	case TokenEOF, TokenCloseParen, TokenCloseSquareBracket, TokenComma:
		return true
	}
	return p.checkIdent("and") || p.checkIdent("or")
}

// parsePrimaryMaybeTreat parses a primary expression and, when followed by
// 'treat' 'as' KindTest, wraps it in a TreatAsExpr (§3 TreatAs variant).
// This extends the top-level-only TreatExpr grammar production to nested
// predicate expressions as well, supplementing rather than replacing the
// top-level 'treat as' handled in parseTopLevel.
func (p *parser) parsePrimaryMaybeTreat() (Expr, error) {
	e, err := p.parsePrimaryOrPath()
	if err != nil {
		return nil, err
	}
	if p.checkIdent("treat") {
		p.advance()
		if !p.checkIdent("as") {
			return nil, &ParseError{Kind: UnexpectedToken, Message: "expected 'as' after 'treat'", Token: p.cur()}
		}
		p.advance()
		kind, err := p.parseKindTestName()
		if err != nil {
			return nil, err
		}
		return TreatAsExpr{Arg: e, Kind: kind}, nil
	}
	return e, nil
}

// parsePrimaryOrPath parses a single Expr primary (§4.2 Expr grammar's
// "primary" production), including the relative-Xpath and function-call
// forms that require lookahead to disambiguate from a path step.
func (p *parser) parsePrimaryOrPath() (Expr, error) {
	switch p.cur().Type {
	case TokenNumber:
		n := p.advance().Num
		return NumberLit{Value: n}, nil
	case TokenText:
		s := p.advance().Value
		return StringLit{Value: s}, nil
	case TokenOpenParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenCloseParen, UnmatchedBracket, "expected ')' to close parenthesized expression"); err != nil {
			return nil, err
		}
		return e, nil
	case TokenAt:
		p.advance()
		if p.check(TokenWildcard) {
			p.advance()
			return p.relativeStepExpr(Step{Axis: AxisAttribute, NodeTest: NodeTest{Kind: NodeTestWildcard}})
		}
		if !p.check(TokenIdentifier) {
			return nil, &ParseError{Kind: MissingAttributeValue, Token: p.cur()}
		}
		name := p.advance().Value
		return AttributeRefExpr{Name: name}, nil
	case TokenDot:
		if p.peekAt(1).Type == TokenSlash || p.peekAt(1).Type == TokenDoubleSlash {
			return p.relativeXpathExpr()
		}
		p.advance()
		return ContextItemExpr{}, nil
	case TokenDoubleDot, TokenWildcard, TokenSlash, TokenDoubleSlash:
		return p.relativeXpathExpr()
	case TokenIdentifier:
		name := p.cur().Value
		if name == "not" && p.peekAt(1).Type == TokenOpenParen {
			p.advance()
			p.advance()
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenCloseParen, UnmatchedBracket, "expected ')' to close 'not('"); err != nil {
				return nil, err
			}
			return NotExpr{Arg: arg}, nil
		}
		if kind, ok := kindTestNames[name]; ok && p.peekAt(1).Type == TokenOpenParen {
			p.advance()
			p.advance()
			if _, err := p.expect(TokenCloseParen, UnmatchedBracket, "kind test takes no arguments"); err != nil {
				return nil, err
			}
			return p.relativeStepExpr(Step{Axis: AxisChild, NodeTest: NodeTest{Kind: NodeTestKind_, Test: kind}})
		}
		if p.peekAt(1).Type == TokenOpenParen {
			p.advance()
			p.advance()
			var args []Expr
			if !p.check(TokenCloseParen) {
				for {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.check(TokenComma) {
						p.advance()
						continue
					}
					break
				}
			}
			if _, err := p.expect(TokenCloseParen, UnmatchedBracket, "expected ')' to close function call"); err != nil {
				return nil, err
			}
			return FunctionCallExpr{Name: name, Args: args}, nil
		}
		if p.peekAt(1).Type == TokenDoubleColon {
			return p.relativeXpathExpr()
		}
		return p.relativeXpathExpr()
	}
	return nil, &ParseError{Kind: UnexpectedToken, Token: p.cur()}
}

// relativeStepExpr wraps a single already-parsed Step (from a kind-test or
// attribute-wildcard primary) as a one-step RelativePathExpr, then allows
// further '/'/'//' continuation and predicates on it.
func (p *parser) relativeStepExpr(first Step) (Expr, error) {
	preds, err := p.parsePredicates()
	if err != nil {
		return nil, err
	}
	first.Predicates = append(first.Predicates, preds...)
	xp := &Xpath{Steps: []Step{first}}
	if err := p.continueRelativeXpath(xp); err != nil {
		return nil, err
	}
	return RelativePathExpr{Path: xp}, nil
}

// relativeXpathExpr parses a full relative location path as a predicate
// primary (§3 "RelativePath(Xpath)", §4.2 "relative Xpath (re-entrant)").
func (p *parser) relativeXpathExpr() (Expr, error) {
	xp, err := p.parseXpath()
	if err != nil {
		return nil, err
	}
	return RelativePathExpr{Path: xp}, nil
}

// continueRelativeXpath extends xp with further '/'/'//'-separated steps,
// used after a synthetic first step built directly from a primary
// expression (kind test / attribute wildcard) rather than parseXpath.
func (p *parser) continueRelativeXpath(xp *Xpath) error {
	for {
		switch p.cur().Type {
		case TokenSlash:
			p.advance()
			if p.atPathEnd() {
				return &ParseError{Kind: TrailingSlash, Token: p.cur()}
			}
			step, err := p.parseStep(AxisChild)
			if err != nil {
				return err
			}
			xp.Steps = append(xp.Steps, step)
		case TokenDoubleSlash:
			p.advance()
			if p.atPathEnd() {
				return &ParseError{Kind: TrailingSlash, Token: p.cur()}
			}
			step, err := p.parseStep(AxisDescendant)
			if err != nil {
				return err
			}
			xp.Steps = append(xp.Steps, step)
		default:
			return nil
		}
	}
}
