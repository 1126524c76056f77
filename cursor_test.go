package tokentree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/tokentree/tokentree/cursorseek"
)

func TestCursorSeekForwardsAdvanceByCharCount(t *testing.T) {
	root := NewTreeFromLiteralInChunks[testKind]("hello world", 4)
	cursor := NewCursor(root.FirstChild())

	text := cursor.SeekForwards(cursorseek.AdvanceByCharCount(2))
	assert.Equal(t, "hel", text)
	assert.Equal(t, 3, cursor.Offset())
}

func TestCursorSeekForwardsAdvanceByCharCountCrossesNodeBoundary(t *testing.T) {
	root := NewTreeFromLiteralInChunks[testKind]("hello world", 4)
	cursor := NewCursor(root.FirstChild())

	// "hell" spans exactly one chunk; go one rune further to cross into
	// the next chunk ("o wo").
	text := cursor.SeekForwards(cursorseek.AdvanceByCharCount(4))
	assert.Equal(t, "hello", text)
	assert.Equal(t, "o wo", cursor.Node().Literal())
	assert.Equal(t, 1, cursor.Offset())
}

func TestCursorSeekForwardsAdvanceUntilCharThenDone(t *testing.T) {
	root := NewTreeFromLiteralInChunks[testKind]("find:target", 4)
	cursor := NewCursor(root.FirstChild())

	text := cursor.SeekForwards(cursorseek.AdvanceUntilCharThenDone(':'))
	assert.Equal(t, "find:", text)
}

func TestCursorSeekForwardsLowerWordStopsAtWhitespace(t *testing.T) {
	root := NewTreeFromLiteralInChunks[testKind]("foo bar", 8)
	cursor := NewCursor(root.FirstChild())

	text := cursor.SeekForwards(cursorseek.AdvanceLowerWord(cursorseek.Exclusive))
	assert.Equal(t, "foo", text)
}

func TestCursorSeekForwardsLowerWordInclusiveIncludesBoundaryChar(t *testing.T) {
	root := NewTreeFromLiteralInChunks[testKind]("foo bar", 8)
	cursor := NewCursor(root.FirstChild())

	text := cursor.SeekForwards(cursorseek.AdvanceLowerWord(cursorseek.Inclusive))
	assert.Equal(t, "foo ", text)
}

func TestCursorSeekForwardsUpperWordTreatsPunctuationAsWordChar(t *testing.T) {
	root := NewTreeFromLiteralInChunks[testKind]("foo-bar baz", 16)
	cursor := NewCursor(root.FirstChild())

	text := cursor.SeekForwards(cursorseek.AdvanceUpperWord(cursorseek.Exclusive))
	assert.Equal(t, "foo-bar", text)
}

func TestCursorSeekForwardsLowerEndLandsOnLastWordChar(t *testing.T) {
	root := NewTreeFromLiteralInChunks[testKind]("  foo bar", 16)
	cursor := NewCursor(root.FirstChild())

	text := cursor.SeekForwards(cursorseek.AdvanceLowerEnd())
	assert.Equal(t, "  foo", text)
}

func TestCursorSeekForwardsTwiceResumesFromCurrentOffsetInSameNode(t *testing.T) {
	root := NewTreeFromLiteralInChunks[testKind]("hello world", 16)
	cursor := NewCursor(root.FirstChild())

	first := cursor.SeekForwards(cursorseek.AdvanceByCharCount(2))
	assert.Equal(t, "hel", first)
	assert.Equal(t, 3, cursor.Offset())

	// The cursor is still in the same node (the chunk size is larger than
	// the whole literal); a second seek must resume from offset 3, not
	// re-walk the node from its start.
	second := cursor.SeekForwards(cursorseek.AdvanceByCharCount(1))
	assert.Equal(t, "lo", second)
	assert.Equal(t, 5, cursor.Offset())
}

func TestCursorSeekForwardsUntilNestedAdvanceUntilStack(t *testing.T) {
	root := NewTreeFromLiteralInChunks[testKind]("ab,cd;ef", 16)
	cursor := NewCursor(root.FirstChild())

	// A predicate that nests another AdvanceUntil: skip to the first
	// comma, then from there skip to the following semicolon, then stop.
	doneWithComma := false
	text := cursor.SeekForwardsUntil(func(c rune, i int) cursorseek.Seek {
		if i == 0 {
			return cursorseek.AdvanceUntil(func(c rune, _ int) cursorseek.Seek {
				if doneWithComma {
					return cursorseek.Stop
				}
				if c == ',' {
					doneWithComma = true
					return cursorseek.AdvanceUntilCharThenDone(';')
				}
				return cursorseek.Continue
			})
		}
		return cursorseek.Stop
	})

	require.Equal(t, "ab,cd;", text)
}
