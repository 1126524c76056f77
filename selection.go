package tokentree

import (
	"strings"

	"github.com/pkg/errors"
)

// Selection is a pair of cursors spanning a range of text: Primary is the
// end a user is actively moving, Secondary is the anchor it was opened
// from. The two may fall in either order; every method normalizes by
// comparing the cursors' node positions and offsets.
type Selection[K Kind] struct {
	Primary   Cursor[K]
	Secondary Cursor[K]
}

// NewSelection returns a zero-length selection at the start of node.
func NewSelection[K Kind](node *Node[K]) Selection[K] {
	return NewSelectionAt(node, 0)
}

// NewSelectionAt returns a zero-length selection at offset within node.
func NewSelectionAt[K Kind](node *Node[K], offset int) Selection[K] {
	return NewSelectionFromCursor(NewCursorAt(node, offset))
}

// NewSelectionFromCursor returns a zero-length selection with both ends at
// cursor.
func NewSelectionFromCursor[K Kind](cursor Cursor[K]) Selection[K] {
	return Selection[K]{Primary: cursor, Secondary: cursor}
}

// NewSelectionAcrossSubtree returns a selection spanning node and all of
// its descendants, from the start of node to the end of its deepest last
// child. Calling this on a tree's root selects the whole document.
func NewSelectionAcrossSubtree[K Kind](node *Node[K]) Selection[K] {
	deepLast := node.DeepLastChild()
	if deepLast == nil {
		deepLast = node
	}
	return Selection[K]{
		Primary:   NewCursor(node),
		Secondary: NewCursorAt(deepLast, len([]rune(deepLast.Literal()))),
	}
}

// Literal returns the plain text the selection covers.
func (s Selection[K]) Literal(parser Parser[K]) string {
	return s.generateLiteral(parser, false)
}

// LiteralColors returns the text the selection covers, with parser's
// terminal coloring applied.
func (s Selection[K]) LiteralColors(parser Parser[K]) string {
	return s.generateLiteral(parser, true)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func (s Selection[K]) generateLiteral(parser Parser[K], colored bool) string {
	if s.Primary.node == s.Secondary.node {
		start := s.Primary.offset
		if s.Secondary.offset < start {
			start = s.Secondary.offset
		}
		length := absDiff(s.Secondary.offset, s.Primary.offset)
		section := s.Primary.node.LiteralSubstring(start, length)
		if colored {
			return s.Primary.node.LiteralColored(parser, section)
		}
		return section
	}

	earlier, later := s.Primary, s.Secondary
	if !Less(s.Primary.node, s.Secondary.node) {
		earlier, later = s.Secondary, s.Primary
	}

	earlierLen := len([]rune(earlier.node.Literal()))
	earlierSuffix := earlier.node.LiteralSubstring(earlier.offset, earlierLen-earlier.offset)
	laterPrefix := later.node.LiteralSubstring(0, later.offset)

	inBetween := SeekForwardsUntil[K, string](earlier.node, Exclusive, func(n *Node[K], _ int) NodeSeek[string] {
		if n == later.node {
			return SeekStop[string]()
		}
		literal := n.Literal()
		if colored {
			literal = n.LiteralColored(parser, literal)
		}
		return SeekContinue(literal)
	})

	var b strings.Builder
	b.WriteString(earlierSuffix)
	for _, piece := range inBetween {
		b.WriteString(piece)
	}
	b.WriteString(laterPrefix)
	return b.String()
}

// splice is the shared implementation behind Delete/DeleteRaw/Replace/
// ReplaceRaw: it removes the selected span and, for a cross-node
// selection, collapses every node the selection touched into the earlier
// node, optionally reparsing the result.
func (s Selection[K]) splice(parser Parser[K], newLiteral *string, performReparse bool) error {
	earlier := s.Primary
	if !Less(s.Primary.node, s.Secondary.node) {
		earlier = s.Secondary
	}
	later := s.Secondary
	if !Less(s.Primary.node, s.Secondary.node) {
		later = s.Primary
	}

	// Advance past any empty node sitting at the very start of the
	// selection. There is always an empty anchor node at the top of a
	// token tree, so without this, a selection reaching back to offset 0
	// of that node would delete the whole document.
	for earlier.offset == 0 && earlier.node.Literal() == "" {
		if earlier.node.next == nil {
			break
		}
		earlier = NewCursor(earlier.node.next)
	}

	replacement := ""
	if newLiteral != nil {
		replacement = *newLiteral
	}

	if earlier.node == later.node {
		if earlier.offset == later.offset {
			return nil
		}

		start := earlier.offset
		if later.offset < start {
			start = later.offset
		}
		length := absDiff(later.offset, earlier.offset)
		fullLen := len([]rune(earlier.node.Literal()))

		prefix := earlier.node.LiteralSubstring(0, start)
		suffix := earlier.node.LiteralSubstring(start+length, fullLen-start)
		earlier.node.SetLiteral(prefix + replacement + suffix)
		if !performReparse {
			return nil
		}
		parent := earlier.node.parent
		childIndex, ok := earlier.node.ChildIndex()
		if parent == nil || !ok {
			return errors.Errorf("tokentree: selection splice: node %v has no parent to reparse through", earlier.node.metadata)
		}
		_, err := parent.ReparseChildAtIndex(parser, childIndex)
		return err
	}

	literalPrefixToKeep := earlier.node.LiteralSubstring(0, earlier.offset)

	laterFullLen := len([]rune(later.node.Literal()))
	laterSubstringOutsideSelection := later.node.LiteralSubstring(later.offset, laterFullLen-later.offset)

	earlierNodeDepth := earlier.node.Depth()
	reachedLaterNode := false

	pieces := RemoveNodesSequentiallyUntil[K, *string](earlier.node, Exclusive, func(n *Node[K], _ int) NodeSeek[*string] {
		if !reachedLaterNode && n == later.node {
			reachedLaterNode = true
		}
		if !reachedLaterNode {
			return SeekContinue[*string](nil)
		}
		if n == later.node {
			text := laterSubstringOutsideSelection
			return SeekContinue(&text)
		}

		literal := n.Literal()
		if n.Depth() > earlierNodeDepth {
			return SeekContinue(&literal)
		}
		return SeekDone(&literal)
	})

	var collected strings.Builder
	for _, piece := range pieces {
		if piece != nil {
			collected.WriteString(*piece)
		}
	}

	earlier.node.SetLiteral(literalPrefixToKeep + replacement + collected.String())
	earlier.node.RemoveAllChildren()

	if !performReparse {
		return nil
	}

	parent := earlier.node.parent
	childIndex, ok := earlier.node.ChildIndex()
	if parent == nil || !ok {
		return errors.Errorf("tokentree: selection splice: node %v has no parent to reparse through", earlier.node.metadata)
	}
	_, err := parent.ReparseChildAtIndex(parser, childIndex)
	return err
}

// Delete removes the selected span and reparses the result.
func (s Selection[K]) Delete(parser Parser[K]) error {
	return s.splice(parser, nil, true)
}

// DeleteRaw removes the selected span without reparsing.
func (s Selection[K]) DeleteRaw() error {
	return s.splice(nil, nil, false)
}

// Replace replaces the selected span with literal and reparses the result.
func (s Selection[K]) Replace(parser Parser[K], literal string) error {
	return s.splice(parser, &literal, true)
}

// ReplaceRaw replaces the selected span with literal without reparsing.
func (s Selection[K]) ReplaceRaw(literal string) error {
	return s.splice(nil, &literal, false)
}
