// Package validate is a test oracle: it walks a token tree's thread
// fields (Next/Previous) and reports, independently of how they got that
// way, whether each one points where the tree's owning/children structure
// says it should. It exists to be imported from tests, not from anything
// that ships.
package validate

import "github.com/odvcencio/tokentree"

// NodeNextReasonKind classifies the result of ValidateNext.
type NodeNextReasonKind int

const (
	NodeNextYes NodeNextReasonKind = iota
	NodeNextUnsetExpectedFirstChild
	NodeNextExpectedFirstChild
	NodeNextUnsetExpectedNextSibling
	NodeNextExpectedNextSibling
	NodeNextUnsetExpectedRecursiveSibling
	NodeNextExpectedRecursiveSibling
	NodeNextSetExpectedEOF
	NodeNextInIsolatedTree
)

// NodeNextValidReason is the outcome of ValidateNext. Want/Got/Levels are
// only meaningful for the reason kinds that carry them.
type NodeNextValidReason[K tokentree.Kind] struct {
	Kind   NodeNextReasonKind
	Want   tokentree.Metadata
	Got    tokentree.Metadata
	Levels int
}

// ValidateNext checks node.Next() against what it should be, given only
// node's Children and its chain of Parents: the first child if node has
// children, else the next sibling in its parent's child list, else the
// next sibling of the nearest ancestor that has one, else nil at the very
// end of the tree.
//
// parentExpectedIndex is node's own index within its parent's children,
// as an independent check on what ChildIndex reports (pass nil if node is
// the tree root).
func ValidateNext[K tokentree.Kind](node *tokentree.Node[K], parentExpectedIndex *int) NodeNextValidReason[K] {
	nodeNext := node.Next()

	if children := node.Children(); len(children) > 0 {
		firstChild := children[0]
		if nodeNext == nil {
			return NodeNextValidReason[K]{Kind: NodeNextUnsetExpectedFirstChild}
		}
		if tokentree.Equal(nodeNext, firstChild) {
			return NodeNextValidReason[K]{Kind: NodeNextYes}
		}
		return NodeNextValidReason[K]{Kind: NodeNextExpectedFirstChild, Want: firstChild.Metadata(), Got: nodeNext.Metadata()}
	}

	parent := node.Parent()
	if parent == nil {
		return NodeNextValidReason[K]{Kind: NodeNextInIsolatedTree}
	}

	nextIndexInParent := 0
	if parentExpectedIndex != nil {
		nextIndexInParent = *parentExpectedIndex + 1
	}
	if siblings := parent.Children(); nextIndexInParent < len(siblings) {
		expected := siblings[nextIndexInParent]
		if nodeNext == nil {
			return NodeNextValidReason[K]{Kind: NodeNextUnsetExpectedNextSibling}
		}
		if tokentree.Equal(nodeNext, expected) {
			return NodeNextValidReason[K]{Kind: NodeNextYes}
		}
		return NodeNextValidReason[K]{Kind: NodeNextExpectedNextSibling, Want: expected.Metadata(), Got: nodeNext.Metadata()}
	}

	// node was the last child in its parent; walk upwards looking for the
	// nearest ancestor with a further sibling of its own.
	if parentExpectedIndex != nil {
		cursorIndexInParent := *parentExpectedIndex
		cursorNode := parent
		levelsUpwardsTraversed := 0

		for cursorNode != nil {
			cursorParent := cursorNode.Parent()
			if cursorParent == nil {
				break
			}
			siblings := cursorParent.Children()
			for i, n := range siblings {
				if tokentree.Equal(n, cursorNode) {
					cursorIndexInParent = i
					break
				}
			}
			if cursorIndexInParent+1 < len(siblings) {
				sibling := siblings[cursorIndexInParent+1]
				if nodeNext == nil {
					return NodeNextValidReason[K]{Kind: NodeNextUnsetExpectedRecursiveSibling, Want: sibling.Metadata(), Levels: levelsUpwardsTraversed}
				}
				if tokentree.Equal(nodeNext, sibling) {
					return NodeNextValidReason[K]{Kind: NodeNextYes}
				}
				return NodeNextValidReason[K]{Kind: NodeNextExpectedRecursiveSibling, Want: sibling.Metadata(), Got: nodeNext.Metadata()}
			}

			cursorNode = cursorParent
			levelsUpwardsTraversed++
		}
	}

	// Walked all the way to the root without finding a further sibling:
	// node is the final leaf in the tree, so Next should be nil.
	if nodeNext != nil {
		return NodeNextValidReason[K]{Kind: NodeNextSetExpectedEOF, Got: nodeNext.Metadata()}
	}
	return NodeNextValidReason[K]{Kind: NodeNextYes}
}

// NodePreviousReasonKind classifies the result of ValidatePrevious.
type NodePreviousReasonKind int

const (
	NodePreviousYes NodePreviousReasonKind = iota
	NodePreviousUnsetExpectedParent
	NodePreviousExpectedParent
	NodePreviousUnsetExpectedPreviousSiblingDeepLastChild
	NodePreviousExpectedPreviousSiblingDeepLastChild
	NodePreviousUnsetExpectedPreviousSibling
	NodePreviousExpectedPreviousSibling
	NodePreviousExpectedParentlessNodeToHavePreviousNone
	NodePreviousInIsolatedTree
)

// NodePreviousValidReason is the outcome of ValidatePrevious.
type NodePreviousValidReason[K tokentree.Kind] struct {
	Kind   NodePreviousReasonKind
	Want   tokentree.Metadata
	Got    tokentree.Metadata
	Levels int
}

// ValidatePrevious checks node.Previous() against what it should be,
// given only node's position in its parent's Children: the parent itself
// if node is the first child, else the deepest last child of the
// preceding sibling (walked through Children, not through Next/Previous,
// since those are exactly what is being validated), else that sibling
// itself if it has no children, else nil if node has no parent at all.
func ValidatePrevious[K tokentree.Kind](node *tokentree.Node[K]) NodePreviousValidReason[K] {
	nodePrevious := node.Previous()

	parent := node.Parent()
	if parent == nil {
		if nodePrevious != nil {
			return NodePreviousValidReason[K]{Kind: NodePreviousExpectedParentlessNodeToHavePreviousNone, Got: nodePrevious.Metadata()}
		}
		return NodePreviousValidReason[K]{Kind: NodePreviousYes}
	}

	siblings := parent.Children()
	nodeIndexInParent := -1
	for i, n := range siblings {
		if tokentree.Equal(n, node) {
			nodeIndexInParent = i
			break
		}
	}

	if nodeIndexInParent == 0 {
		if nodePrevious == nil {
			return NodePreviousValidReason[K]{Kind: NodePreviousUnsetExpectedParent}
		}
		if tokentree.Equal(nodePrevious, parent) {
			return NodePreviousValidReason[K]{Kind: NodePreviousYes}
		}
		return NodePreviousValidReason[K]{Kind: NodePreviousExpectedParent, Want: parent.Metadata(), Got: nodePrevious.Metadata()}
	}

	if nodeIndexInParent > 0 {
		previousSibling := siblings[nodeIndexInParent-1]
		deepLast, levels := deepLastChildViaChildren(previousSibling)

		if deepLast != nil {
			if nodePrevious == nil {
				return NodePreviousValidReason[K]{Kind: NodePreviousUnsetExpectedPreviousSiblingDeepLastChild}
			}
			if tokentree.Equal(nodePrevious, deepLast) {
				return NodePreviousValidReason[K]{Kind: NodePreviousYes}
			}
			return NodePreviousValidReason[K]{
				Kind:   NodePreviousExpectedPreviousSiblingDeepLastChild,
				Want:   deepLast.Metadata(),
				Got:    nodePrevious.Metadata(),
				Levels: levels,
			}
		}

		if nodePrevious == nil {
			return NodePreviousValidReason[K]{Kind: NodePreviousUnsetExpectedPreviousSibling}
		}
		if tokentree.Equal(nodePrevious, previousSibling) {
			return NodePreviousValidReason[K]{Kind: NodePreviousYes}
		}
		return NodePreviousValidReason[K]{Kind: NodePreviousExpectedPreviousSibling, Want: previousSibling.Metadata(), Got: nodePrevious.Metadata()}
	}

	return NodePreviousValidReason[K]{Kind: NodePreviousInIsolatedTree}
}

// deepLastChildViaChildren walks only the owning Children edge, never
// FirstChild/LastChild/Next/Previous — those caches are exactly what a
// validator must not assume are correct.
func deepLastChildViaChildren[K tokentree.Kind](node *tokentree.Node[K]) (*tokentree.Node[K], int) {
	children := node.Children()
	if len(children) == 0 {
		return nil, 0
	}

	cursor := children[len(children)-1]
	levels := 0
	for {
		cursorChildren := cursor.Children()
		if len(cursorChildren) == 0 {
			return cursor, levels
		}
		cursor = cursorChildren[len(cursorChildren)-1]
		levels++
	}
}
