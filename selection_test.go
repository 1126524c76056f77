package tokentree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParser is a minimal Parser used only to exercise the reparse and
// coloring hooks from selection tests.
type testParser struct{}

func (testParser) Parse(literal string, parent *Node[testKind]) *Node[testKind] {
	node := NewFromLiteral[testKind](literal)
	text := literal
	node.SetMetadata(AstNodeMetadata[testKind]{Kind: testKindWord, Literal: &text})
	return node
}

func (testParser) IsReparsable(kind testKind) bool { return true }

func (testParser) Color(text string, ancestry []testKind) string {
	return "<" + text + ">"
}

func TestSelectionLiteralSameNode(t *testing.T) {
	root := NewRoot[testKind]()
	node := NewFromLiteral[testKind]("hello")
	root.AppendChild(node)

	sel := Selection[testKind]{Primary: NewCursorAt(node, 0), Secondary: NewCursorAt(node, 5)}
	assert.Equal(t, "hello", sel.Literal(testParser{}))

	// Order of Primary/Secondary shouldn't matter.
	sel = Selection[testKind]{Primary: NewCursorAt(node, 5), Secondary: NewCursorAt(node, 0)}
	assert.Equal(t, "hello", sel.Literal(testParser{}))
}

func TestSelectionLiteralColorsSameNode(t *testing.T) {
	root := NewRoot[testKind]()
	node := NewFromLiteral[testKind]("hello")
	root.AppendChild(node)

	sel := Selection[testKind]{Primary: NewCursorAt(node, 1), Secondary: NewCursorAt(node, 4)}
	assert.Equal(t, "<ell>", sel.LiteralColors(testParser{}))
}

func TestSelectionLiteralCrossNode(t *testing.T) {
	root := buildLine(t, "foo", "bar", "baz")
	children := root.Children()
	a, _, c := children[0], children[1], children[2]

	sel := Selection[testKind]{Primary: NewCursorAt(a, 1), Secondary: NewCursorAt(c, 1)}
	assert.Equal(t, "oobarb", sel.Literal(testParser{}))
}

func TestSelectionDeleteRawSameNode(t *testing.T) {
	root := NewRoot[testKind]()
	node := NewFromLiteral[testKind]("hello")
	root.AppendChild(node)

	sel := Selection[testKind]{Primary: NewCursorAt(node, 1), Secondary: NewCursorAt(node, 3)}
	require.NoError(t, sel.DeleteRaw())
	assert.Equal(t, "hlo", node.Literal())
}

func TestSelectionReplaceRawSameNode(t *testing.T) {
	root := NewRoot[testKind]()
	node := NewFromLiteral[testKind]("hello")
	root.AppendChild(node)

	sel := Selection[testKind]{Primary: NewCursorAt(node, 1), Secondary: NewCursorAt(node, 3)}
	require.NoError(t, sel.ReplaceRaw("XY"))
	assert.Equal(t, "hXYlo", node.Literal())
}

func TestSelectionDeleteRawCrossNodeCollapsesIntoEarlierNode(t *testing.T) {
	root := buildLine(t, "foo", "bar", "baz")
	children := root.Children()
	a, c := children[0], children[2]

	sel := Selection[testKind]{Primary: NewCursorAt(a, 1), Secondary: NewCursorAt(c, 1)}
	require.NoError(t, sel.DeleteRaw())

	require.Len(t, root.Children(), 1)
	assert.Equal(t, a, root.Children()[0])
	assert.Equal(t, "faz", a.Literal())
}

func TestSelectionDeleteCrossNodeReparses(t *testing.T) {
	root := buildLine(t, "foo", "bar", "baz")
	children := root.Children()
	a, c := children[0], children[2]

	sel := Selection[testKind]{Primary: NewCursorAt(a, 1), Secondary: NewCursorAt(c, 1)}
	require.NoError(t, sel.Delete(testParser{}))

	require.Len(t, root.Children(), 1)
	newChild := root.Children()[0]
	assert.Equal(t, "faz", newChild.Literal())

	ast, ok := newChild.Metadata().(AstNodeMetadata[testKind])
	require.True(t, ok, "reparsed child should carry AST metadata from the parser")
	assert.Equal(t, testKindWord, ast.Kind)
}

func TestSelectionReplaceRawCrossNode(t *testing.T) {
	root := buildLine(t, "foo", "bar", "baz")
	children := root.Children()
	a, c := children[0], children[2]

	sel := Selection[testKind]{Primary: NewCursorAt(a, 1), Secondary: NewCursorAt(c, 1)}
	require.NoError(t, sel.ReplaceRaw("X"))

	require.Len(t, root.Children(), 1)
	assert.Equal(t, "fXaz", root.Children()[0].Literal())
}

func TestSelectionDeleteRawSkipsLeadingEmptyAnchor(t *testing.T) {
	root := NewRoot[testKind]() // root itself carries no text (RootMetadata)
	node := NewFromLiteral[testKind]("hello")
	root.AppendChild(node)

	// A selection reaching back to the empty root should not eat the whole
	// document: it advances past the empty anchor to the first real node.
	sel := Selection[testKind]{Primary: NewCursorAt(root, 0), Secondary: NewCursorAt(node, 3)}
	require.NoError(t, sel.DeleteRaw())
	assert.Equal(t, "lo", node.Literal())
}

func TestNewSelectionAcrossSubtreeSpansWholeDocument(t *testing.T) {
	root := NewTreeFromLiteralInChunks[testKind]("hello world", 4)

	sel := NewSelectionAcrossSubtree(root)
	assert.Equal(t, "hello world", sel.Literal(testParser{}))
}

func TestNewSelectionFromCursorIsZeroLength(t *testing.T) {
	node := NewFromLiteral[testKind]("hello")
	cursor := NewCursorAt(node, 2)
	sel := NewSelectionFromCursor(cursor)

	assert.Equal(t, "", sel.Literal(testParser{}))
}
