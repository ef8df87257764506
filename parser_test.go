package htmlxpath

import "testing"

func TestParseAccepted(t *testing.T) {
	exprs := []string{
		"/html",
		"/html/body",
		"//div",
		"/html/body//span",
		"//div/p[2]",
		"/html/@class",
		"//p/parent::div",
		"//div[contains(text(),'select')]",
		"/html treat as document-node()",
		"child::div",
		"attribute::*",
		"self::node()",
		"..",
		".",
		"/html/*[1]",
		"//comment()",
		"//processing-instruction()",
		"/html[@id='x' and @class='y']",
		"/html[@id='x' or @class='y']",
		"/html[not(@id)]",
		"/html[1 = 1]",
		"/html[position() < 3]",
	}
	for _, e := range exprs {
		if _, err := Parse(e); err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", e, err)
		}
	}
}

func TestParseUnmatchedBracket(t *testing.T) {
	_, err := Parse("//div[@id='x'")
	var pe *ParseError
	if !errorsAsParse(err, &pe) || pe.Kind != UnmatchedBracket {
		t.Fatalf("expected UnmatchedBracket, got %v", err)
	}
}

func TestParseMissingComparisonRHS(t *testing.T) {
	_, err := Parse("//div[@id=]")
	var pe *ParseError
	if !errorsAsParse(err, &pe) || pe.Kind != MissingComparisonRHS {
		t.Fatalf("expected MissingComparisonRHS, got %v", err)
	}
}

func TestParseMissingAttributeValue(t *testing.T) {
	_, err := Parse("//div[@]")
	var pe *ParseError
	if !errorsAsParse(err, &pe) || pe.Kind != MissingAttributeValue {
		t.Fatalf("expected MissingAttributeValue, got %v", err)
	}
}

func TestParseStrayAt(t *testing.T) {
	_, err := Parse("/html/@")
	var pe *ParseError
	if !errorsAsParse(err, &pe) || pe.Kind != StrayAt {
		t.Fatalf("expected StrayAt, got %v", err)
	}
}

func TestParseTrailingSlash(t *testing.T) {
	for _, e := range []string{"/html/", "//", "/html//"} {
		_, err := Parse(e)
		var pe *ParseError
		if !errorsAsParse(err, &pe) || pe.Kind != TrailingSlash {
			t.Errorf("Parse(%q): expected TrailingSlash, got %v", e, err)
		}
	}
}

func TestParseTrailingTokens(t *testing.T) {
	_, err := Parse("/html extra")
	var pe *ParseError
	if !errorsAsParse(err, &pe) || pe.Kind != TrailingTokens {
		t.Fatalf("expected TrailingTokens, got %v", err)
	}
}

func TestParseUnknownAxisName(t *testing.T) {
	_, err := Parse("/html/foobar::div")
	var pe *ParseError
	if !errorsAsParse(err, &pe) || pe.Kind != UnknownAxisName {
		t.Fatalf("expected UnknownAxisName, got %v", err)
	}
}

func TestParseTreatAsNestedInPredicate(t *testing.T) {
	xp, err := Parse("/html[. treat as element()]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(xp.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(xp.Steps))
	}
	preds := xp.Steps[1].Predicates
	if len(preds) != 1 {
		t.Fatalf("got %d predicates, want 1", len(preds))
	}
	if _, ok := preds[0].(TreatAsExpr); !ok {
		t.Fatalf("predicate is %T, want TreatAsExpr", preds[0])
	}
}

func TestParseWildcardAttributeStep(t *testing.T) {
	xp, err := Parse("/html/@*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(xp.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(xp.Steps))
	}
	last := xp.Steps[1]
	if last.Axis != AxisAttribute || last.NodeTest.Kind != NodeTestWildcard {
		t.Fatalf("got %+v", last)
	}
}
