package script

import (
	"strings"
	"testing"
)

func TestParseRoundTripsLiteral(t *testing.T) {
	literal := "const x = 1;\nfunction f() { return x + 2; }\n"
	root := NewParser().Parse(literal, nil)

	if got := root.DeepLiteral(); got != literal {
		t.Fatalf("round trip mismatch:\n got  %q\n want %q", got, literal)
	}
}

func TestParseProducesAstNodeKinds(t *testing.T) {
	root := NewParser().Parse("const x = 1;", nil)

	kind, ok := astKindOf(root)
	if !ok {
		t.Fatal("expected the parsed root to carry AstNodeMetadata")
	}
	if kind != KindProgram {
		t.Fatalf("expected the top-level node to be %q, got %q", KindProgram, kind)
	}
}

func TestIsReparsableStatementsAndDeclarations(t *testing.T) {
	p := NewParser()

	for _, kind := range []Kind{KindProgram, "expression_statement", "lexical_declaration", "function_declaration"} {
		if !p.IsReparsable(kind) {
			t.Errorf("expected %q to be reparsable", kind)
		}
	}
	for _, kind := range []Kind{KindIdentifier, KindFunctionKeyword, "binary_expression", ";"} {
		if p.IsReparsable(kind) {
			t.Errorf("expected %q not to be reparsable", kind)
		}
	}
}

func TestColorPassthroughWithNoAncestry(t *testing.T) {
	if got := NewParser().Color("x", nil); got != "x" {
		t.Fatalf("expected passthrough with empty ancestry, got %q", got)
	}
}

func TestColorAppliesBespokeRules(t *testing.T) {
	p := NewParser()

	if got := p.Color("hello", []Kind{KindString}); got == "hello" {
		t.Fatal("expected a string literal to be colored, not passed through")
	}
	if got := p.Color("42", []Kind{KindNumber}); got == "42" {
		t.Fatal("expected a number literal to be colored, not passed through")
	}
	if got := p.Color("// hi", []Kind{KindComment}); got == "// hi" {
		t.Fatal("expected a comment to be colored, not passed through")
	}
	if got := p.Color("x", []Kind{KindIdentifier, KindVariableDeclarator}); got == "x" {
		t.Fatal("expected a declarator's identifier to be colored, not passed through")
	}
	if got := p.Color("+", []Kind{"+", "binary_expression"}); got != "+" {
		t.Fatalf("expected an operator with no bespoke rule to pass through unchanged, got %q", got)
	}
}

func TestParseTrimsLiteralOwnedByChildren(t *testing.T) {
	root := NewParser().Parse("const x = 1;", nil)

	// Every non-leaf AST node carries an empty literal of its own, so it
	// never duplicates text that one of its descendants already owns: the deep
	// concatenation has to equal the source exactly once, not some
	// multiple thereof.
	if got := root.DeepLiteral(); strings.Count(got, "const") != 1 {
		t.Fatalf("expected exactly one occurrence of \"const\" in the reconstructed literal, got %q", got)
	}
}

func TestParseWithMatchingParentKindStopsAtThatKind(t *testing.T) {
	root := NewParser().Parse("x;", nil)
	// root is the program node, so reparsing with it as parent stops the
	// single-child descent at once and returns the new program node.
	reparsed := NewParser().Parse("x;", root)
	if reparsed == nil {
		t.Fatal("expected a non-nil reparse result")
	}
	if kind, _ := astKindOf(reparsed); kind != KindProgram {
		t.Fatalf("expected the reparse to stop at %q, got %q", KindProgram, kind)
	}
}
