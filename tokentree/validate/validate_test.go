package validate_test

import (
	"testing"

	"github.com/odvcencio/tokentree"
	"github.com/odvcencio/tokentree/tokentree/validate"
)

type vKind string

const vWord vKind = "word"

func intp(n int) *int { return &n }

func TestValidateNextFlatSiblings(t *testing.T) {
	root := tokentree.NewRoot[vKind]()
	a := tokentree.NewFromLiteral[vKind]("a")
	b := tokentree.NewFromLiteral[vKind]("b")
	c := tokentree.NewFromLiteral[vKind]("c")
	root.AppendChild(a)
	root.AppendChild(b)
	root.AppendChild(c)

	assertYesNext(t, validate.ValidateNext(root, nil), "root")
	assertYesNext(t, validate.ValidateNext(a, intp(0)), "a")
	assertYesNext(t, validate.ValidateNext(b, intp(1)), "b")
	assertYesNext(t, validate.ValidateNext(c, intp(2)), "c (last node overall)")
}

func TestValidateNextRecursiveSibling(t *testing.T) {
	root := tokentree.NewRoot[vKind]()
	outer := tokentree.NewFromLiteral[vKind]("(")
	root.AppendChild(outer)
	inner1 := tokentree.NewFromLiteral[vKind]("x")
	outer.AppendChild(inner1)
	after := tokentree.NewFromLiteral[vKind]("z")
	root.AppendChild(after)

	// inner1 is outer's only child, so inner1.Next() must walk up past
	// outer to find "after" as root's next sibling.
	assertYesNext(t, validate.ValidateNext(inner1, intp(0)), "inner1")
	assertYesNext(t, validate.ValidateNext(outer, intp(0)), "outer")
	assertYesNext(t, validate.ValidateNext(after, intp(1)), "after")
}

func TestValidateNextIsolatedNode(t *testing.T) {
	standalone := tokentree.NewFromLiteral[vKind]("lonely")
	got := validate.ValidateNext(standalone, nil)
	if got.Kind != validate.NodeNextInIsolatedTree {
		t.Fatalf("expected InIsolatedTree for a childless, parentless node, got %+v", got)
	}
}

func TestValidatePreviousFirstChildIsParent(t *testing.T) {
	root := tokentree.NewRoot[vKind]()
	outer := tokentree.NewFromLiteral[vKind]("(")
	root.AppendChild(outer)
	inner1 := tokentree.NewFromLiteral[vKind]("x")
	outer.AppendChild(inner1)

	assertYesPrevious(t, validate.ValidatePrevious(inner1), "inner1")
}

func TestValidatePreviousSiblingWithNoChildren(t *testing.T) {
	root := tokentree.NewRoot[vKind]()
	a := tokentree.NewFromLiteral[vKind]("a")
	b := tokentree.NewFromLiteral[vKind]("b")
	root.AppendChild(a)
	root.AppendChild(b)

	assertYesPrevious(t, validate.ValidatePrevious(b), "b")
}

func TestValidatePreviousSiblingDeepLastChild(t *testing.T) {
	root := tokentree.NewRoot[vKind]()
	outer := tokentree.NewFromLiteral[vKind]("(")
	root.AppendChild(outer)
	inner1 := tokentree.NewFromLiteral[vKind]("x")
	outer.AppendChild(inner1)
	innerInner := tokentree.NewFromLiteral[vKind]("y")
	inner1.AppendChild(innerInner)
	after := tokentree.NewFromLiteral[vKind]("z")
	root.AppendChild(after)

	// after's previous sibling is outer, whose deepest descendant is
	// innerInner two levels down.
	got := validate.ValidatePrevious(after)
	assertYesPrevious(t, got, "after")
}

func TestValidatePreviousRootHasNoPrevious(t *testing.T) {
	root := tokentree.NewRoot[vKind]()
	got := validate.ValidatePrevious(root)
	if got.Kind != validate.NodePreviousYes {
		t.Fatalf("expected a parentless root's Previous to validate as Yes (nil), got %+v", got)
	}
}

func assertYesNext(t *testing.T, got validate.NodeNextValidReason[vKind], label string) {
	t.Helper()
	if got.Kind != validate.NodeNextYes {
		t.Fatalf("%s: expected ValidateNext to report Yes, got %+v", label, got)
	}
}

func assertYesPrevious(t *testing.T, got validate.NodePreviousValidReason[vKind], label string) {
	t.Helper()
	if got.Kind != validate.NodePreviousYes {
		t.Fatalf("%s: expected ValidatePrevious to report Yes, got %+v", label, got)
	}
}
