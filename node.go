package tokentree

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/odvcencio/tokentree/fractionalindex"
	"github.com/odvcencio/tokentree/tokentree/nodepool"
)

// Node is a single node in a token tree: a syntax-tree node that owns its
// children but is also woven into a doubly linked pre-order thread (next /
// previous) so the document's full text can be walked linearly without
// recursing through the tree.
//
// Unlike the reference implementation this was ported from, Node uses plain
// pointers rather than reference-counted, weak-reference-guarded cells:
// Go's garbage collector reclaims the parent/child and next/previous cycles
// on its own, so there is no upgrade-or-skip ceremony at every dereference.
type Node[K Kind] struct {
	index    fractionalindex.Index
	metadata Metadata

	parent     *Node[K]
	children   []*Node[K]
	childIndex *int
	firstChild *Node[K]
	lastChild  *Node[K]

	next     *Node[K]
	previous *Node[K]

	// pool is set only on a node that owns a slab allocation (the root
	// returned by NewTreeFromLiteralInChunks or a reparsed subtree's new
	// head); everything else leaves it nil. ReleasePool lets a caller
	// eagerly return that slab once the tree is no longer needed.
	pool *nodepool.Pool[Node[K]]
}

func newWithMetadata[K Kind](metadata Metadata) *Node[K] {
	return &Node[K]{
		index:    fractionalindex.Start(),
		metadata: metadata,
	}
}

func newWithMetadataFromPool[K Kind](pool *nodepool.Pool[Node[K]], metadata Metadata) *Node[K] {
	node := pool.Alloc()
	node.index = fractionalindex.Start()
	node.metadata = metadata
	return node
}

// NewEmpty returns a node with no text, used to anchor other nodes.
func NewEmpty[K Kind]() *Node[K] { return newWithMetadata[K](EmptyMetadata{}) }

// NewRoot returns a node suitable for sitting at the top of a token tree.
func NewRoot[K Kind]() *Node[K] { return newWithMetadata[K](RootMetadata{}) }

// NewFragment returns a node with no text of its own whose children remain
// reachable through the thread.
func NewFragment[K Kind]() *Node[K] { return newWithMetadata[K](FragmentMetadata{}) }

// NewFromLiteral returns a leaf node carrying literal as its text.
func NewFromLiteral[K Kind](literal string) *Node[K] {
	return newWithMetadata[K](LiteralMetadata{Literal: literal})
}

// NewFromParsed parses literal with parser and wraps the resulting subtree
// in a fresh root node.
func NewFromParsed[K Kind](parser Parser[K], literal string) *Node[K] {
	subtreeRoot := parser.Parse(literal, nil)
	root := NewRoot[K]()
	root.AppendChild(subtreeRoot)
	return root
}

// NewTreeFromLiteralInChunks splits literal into runs of at most
// charsPerNode characters, each held by its own leaf node, all appended
// under a fresh root in order. Chunk nodes are allocated from a
// full-size nodepool slab rather than one at a time, since a large
// document can produce thousands of them; call ReleasePool once the tree
// is discarded to return that slab for reuse.
func NewTreeFromLiteralInChunks[K Kind](literal string, charsPerNode int) *Node[K] {
	if charsPerNode <= 0 {
		charsPerNode = 1
	}

	pool := nodepool.Acquire[Node[K]](nodepool.ClassFull)
	parent := newWithMetadataFromPool[K](pool, RootMetadata{})
	parent.pool = pool

	runes := []rune(literal)
	for i := 0; i < len(runes); i += charsPerNode {
		end := i + charsPerNode
		if end > len(runes) {
			end = len(runes)
		}
		chunk := newWithMetadataFromPool[K](pool, LiteralMetadata{Literal: string(runes[i:end])})
		parent.AppendChild(chunk)
	}
	return parent
}

// ReleasePool returns node's slab allocation (if it owns one) to its
// nodepool for reuse. It is safe to call on a node that was never pooled.
func (node *Node[K]) ReleasePool() {
	node.pool.Release()
}

// Index returns the node's position key.
func (node *Node[K]) Index() fractionalindex.Index { return node.index }

// Metadata returns the node's payload.
func (node *Node[K]) Metadata() Metadata { return node.metadata }

// Parent returns the owning parent, or nil at the root.
func (node *Node[K]) Parent() *Node[K] { return node.parent }

// Children returns the node's direct children, in order. The returned
// slice must not be mutated.
func (node *Node[K]) Children() []*Node[K] { return node.children }

// ChildIndex returns this node's position in its parent's Children, and
// whether it has a parent to be positioned within.
func (node *Node[K]) ChildIndex() (int, bool) {
	if node.childIndex == nil {
		return 0, false
	}
	return *node.childIndex, true
}

// FirstChild returns the node's first child, or nil if it has none.
func (node *Node[K]) FirstChild() *Node[K] { return node.firstChild }

// LastChild returns the node's last child, or nil if it has none.
func (node *Node[K]) LastChild() *Node[K] { return node.lastChild }

// Next returns the next node in pre-order, or nil at the end of the tree.
func (node *Node[K]) Next() *Node[K] { return node.next }

// Previous returns the previous node in pre-order, or nil at the start of
// the tree.
func (node *Node[K]) Previous() *Node[K] { return node.previous }

// Equal reports whether a and b occupy the same position.
func Equal[K Kind](a, b *Node[K]) bool { return fractionalindex.Equal(a.index, b.index) }

// Less reports whether a sorts before b in document order.
func Less[K Kind](a, b *Node[K]) bool { return fractionalindex.Less(a.index, b.index) }

// Literal returns the node's own text, ignoring any text held by its
// children.
func (node *Node[K]) Literal() string {
	switch m := node.metadata.(type) {
	case LiteralMetadata:
		return m.Literal
	case AstNodeMetadata[K]:
		if m.Literal != nil {
			return *m.Literal
		}
	}
	return ""
}

// LiteralSubstring returns the length-rune slice of the node's own text
// starting at start, clamped to the text's bounds.
func (node *Node[K]) LiteralSubstring(start, length int) string {
	runes := []rune(node.Literal())
	if start < 0 || start >= len(runes) {
		return ""
	}
	end := start + length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

// SetLiteral replaces the node's own text, turning it into a plain literal
// node regardless of what it was before.
func (node *Node[K]) SetLiteral(literal string) {
	node.SetMetadata(LiteralMetadata{Literal: literal})
}

// SetMetadata replaces the node's payload outright.
func (node *Node[K]) SetMetadata(metadata Metadata) {
	node.metadata = metadata
}

// DeepLiteral recursively concatenates this node's own text with the deep
// literal of every child, in order. This is the text the node and its
// whole subtree represent.
func (node *Node[K]) DeepLiteral() string {
	literal := node.Literal()
	if len(node.children) == 0 {
		return literal
	}
	var b strings.Builder
	b.WriteString(literal)
	for _, child := range node.children {
		b.WriteString(child.DeepLiteral())
	}
	return b.String()
}

// LiteralColored asks parser to color literal, giving it the chain of
// AST kinds (innermost first) enclosing node.
func (node *Node[K]) LiteralColored(parser Parser[K], literal string) string {
	var ancestry []K
	for cursor := node; cursor != nil; cursor = cursor.parent {
		if ast, ok := cursor.metadata.(AstNodeMetadata[K]); ok {
			ancestry = append(ancestry, ast.Kind)
		}
	}
	return parser.Color(literal, ancestry)
}

// assignIndex gives node a fresh position key strictly between its
// previous and next neighbors (falling back to the start/end of the whole
// order at either end). If the neighbors are too close together for any
// key to fit, the whole subtree rooted at node is renumbered instead.
func (node *Node[K]) assignIndex() {
	var previous, next *fractionalindex.Index
	if node.previous != nil {
		idx := node.previous.index
		previous = &idx
	}
	if node.next != nil {
		idx := node.next.index
		next = &idx
	}

	newIndex, err := fractionalindex.GenerateOrFallback(previous, next)
	if err != nil {
		node.reassignSubtreeIndexes()
		return
	}
	node.index = newIndex
}

// reassignSubtreeIndexes renumbers node and every descendant's index,
// spreading them evenly between node's previous neighbor and the node
// following node's deepest last child. It is the documented fallback for
// when assignIndex runs out of fractional-index precision.
func (node *Node[K]) reassignSubtreeIndexes() {
	var before, after *fractionalindex.Index
	if node.previous != nil {
		idx := node.previous.index
		before = &idx
	}

	tail := node
	if deepLast := node.DeepLastChild(); deepLast != nil {
		tail = deepLast
	}
	if tail.next != nil {
		idx := tail.next.index
		after = &idx
	}

	indexes, err := fractionalindex.DistributedSequenceOrFallback(before, after, 1+node.deepChildrenLength())
	if err != nil {
		// A full subtree renumbering still ran out of room. This can only
		// happen if a caller has exhausted precision outside node's own
		// subtree too; there is nothing further to do from here.
		return
	}

	cursor := node
	for _, idx := range indexes {
		cursor.index = idx
		if cursor.next == nil {
			break
		}
		cursor = cursor.next
	}
}

func (node *Node[K]) deepChildrenLength() int {
	count := 0
	for _, child := range node.children {
		count += 1 + child.deepChildrenLength()
	}
	return count
}

// DeepLastChild returns the last child of the last child of ... of node,
// or nil if node has no children.
func (node *Node[K]) DeepLastChild() *Node[K] {
	if node.lastChild == nil {
		return nil
	}
	cursor := node
	for cursor.lastChild != nil {
		cursor = cursor.lastChild
	}
	return cursor
}

// Depth returns how many parent hops separate node from the root.
func (node *Node[K]) Depth() int {
	depth := 0
	for cursor := node; cursor.parent != nil; cursor = cursor.parent {
		depth++
	}
	return depth
}

// ReparseChildAtIndex reparses the child at index, walking up past any
// ancestor the parser reports as unsafe to reparse in isolation, and
// returns the head of the freshly parsed replacement subtree.
func (parent *Node[K]) ReparseChildAtIndex(parser Parser[K], index int) (*Node[K], error) {
	reparsablePointer := parent
	reparsableIndex := index

	for {
		ast, ok := reparsablePointer.metadata.(AstNodeMetadata[K])
		if !ok || parser.IsReparsable(ast.Kind) {
			break
		}
		if reparsablePointer.parent == nil || reparsablePointer.childIndex == nil {
			break
		}
		reparsableIndex = *reparsablePointer.childIndex
		reparsablePointer = reparsablePointer.parent
	}

	if reparsableIndex < 0 || reparsableIndex >= len(reparsablePointer.children) {
		return nil, errors.Errorf(
			"tokentree: no child at index %d in parent %v (originally index %d in parent %v)",
			reparsableIndex, reparsablePointer.metadata, index, parent.metadata,
		)
	}

	child := reparsablePointer.children[reparsableIndex]
	childDeepLiteral := child.DeepLiteral()

	slog.Debug("reparsing child", "index", reparsableIndex, "parent", reparsablePointer.metadata)
	newChild := parser.Parse(childDeepLiteral, reparsablePointer)

	if err := reparsablePointer.SwapChildAtIndex(reparsableIndex, newChild); err != nil {
		return nil, err
	}
	return newChild, nil
}

// PrependChild inserts child as parent's first child. Equivalent to
// InsertChild(child, 0).
func (parent *Node[K]) PrependChild(child *Node[K]) *Node[K] {
	return parent.InsertChild(child, 0)
}

// InsertChild inserts child into parent's children at index, splicing it
// into the pre-order thread between its new neighbors. Falls back to
// AppendChild when index is the length of the current child list.
func (parent *Node[K]) InsertChild(child *Node[K], index int) *Node[K] {
	numberOfChildren := len(parent.children)
	if numberOfChildren == 0 || index == numberOfChildren {
		return parent.AppendChild(child)
	}

	oldChildAtIndex := parent.children[index]

	child.parent = parent
	child.next = oldChildAtIndex
	child.previous = oldChildAtIndex.previous
	idx := index
	child.childIndex = &idx
	child.assignIndex()

	if previous := oldChildAtIndex.previous; previous != nil {
		previous.next = child
	}
	oldChildAtIndex.previous = child

	if index == 0 {
		parent.firstChild = child
		parent.next = child
	}

	parent.children = append(parent.children, nil)
	copy(parent.children[index+1:], parent.children[index:len(parent.children)-1])
	parent.children[index] = child

	for i := index + 1; i < len(parent.children); i++ {
		if parent.children[i].childIndex != nil {
			newIdx := *parent.children[i].childIndex + 1
			parent.children[i].childIndex = &newIdx
		}
	}

	return child
}

// AppendChild adds child as parent's new last child, wiring it into the
// pre-order thread so that its next points at whatever used to follow
// parent's subtree, and rethreading parent's old deepest descendant's next
// to point at child.
func (parent *Node[K]) AppendChild(child *Node[K]) *Node[K] {
	slog.Debug("append_child", "child", child.metadata, "parent", parent.metadata)

	child.parent = parent

	if child.next == nil || len(child.children) == 0 {
		if parent.firstChild == nil {
			child.next = parent.next
		} else if lastChild := parent.lastChild; lastChild != nil {
			if deepLast := lastChild.DeepLastChild(); deepLast != nil {
				child.next = deepLast.next
			} else {
				child.next = lastChild.next
			}
		}
	}

	child.previous = nil
	if lastChild := parent.lastChild; lastChild != nil {
		if deepLast := lastChild.DeepLastChild(); deepLast != nil {
			child.previous = deepLast
		} else {
			child.previous = lastChild
		}
	}
	if child.previous == nil {
		child.previous = parent
	}

	childIndex := len(parent.children)
	child.childIndex = &childIndex
	child.assignIndex()

	if deepLast := parent.DeepLastChild(); deepLast != nil {
		if deepLastNext := deepLast.next; deepLastNext != nil {
			deepLastNext.previous = child
		}
	} else if parent.next != nil {
		parent.next.previous = child
	}

	if parent.firstChild == nil {
		parent.firstChild = child
		parent.next = child
	}

	if lastChild := parent.lastChild; lastChild != nil {
		if deepLast := lastChild.DeepLastChild(); deepLast != nil {
			deepLast.next = child
		}
		if lastChild.firstChild != nil {
			lastChild.next = lastChild.firstChild
		} else {
			lastChild.next = child
		}
	}

	parent.children = append(parent.children, child)
	parent.lastChild = child

	return child
}

// RemoveChildAtIndex detaches the child at index from parent, along with
// its whole subtree, relinking the pre-order thread around the gap it
// leaves behind.
func (parent *Node[K]) RemoveChildAtIndex(index int) {
	if index < 0 || index >= len(parent.children) {
		return
	}
	child := parent.children[index]
	previousChild := child.previous
	tail := child
	if deepLast := child.DeepLastChild(); deepLast != nil {
		tail = deepLast
	}

	if previousChild != nil {
		previousChild.next = tail.next
	}
	if tailNext := tail.next; tailNext != nil {
		tailNext.previous = child.previous
	}

	maxChildIndex := len(parent.children) - 1
	if index == 0 {
		if len(parent.children) > 1 {
			parent.firstChild = parent.children[1]
		} else {
			parent.firstChild = nil
		}
	}
	if index == maxChildIndex {
		if maxChildIndex > 0 {
			parent.lastChild = parent.children[maxChildIndex-1]
		} else {
			parent.lastChild = nil
		}
	}

	parent.children = append(parent.children[:index], parent.children[index+1:]...)

	for i := index; i < len(parent.children); i++ {
		if parent.children[i].childIndex != nil {
			newIdx := *parent.children[i].childIndex - 1
			parent.children[i].childIndex = &newIdx
		}
	}
}

// RemoveAllChildren removes every child of parent, one at a time from the
// front. Removing repeatedly from index 0 (rather than iterating a stale
// snapshot of indexes) is what keeps this correct as the child list
// shrinks out from under it.
func (parent *Node[K]) RemoveAllChildren() {
	for len(parent.children) > 0 {
		parent.RemoveChildAtIndex(0)
	}
}

// SwapChildAtIndex replaces the child at index with newChild, splicing
// newChild's own subtree (if it has one) into the pre-order thread in the
// old child's place.
func (parent *Node[K]) SwapChildAtIndex(index int, newChild *Node[K]) error {
	if index < 0 || index >= len(parent.children) {
		return errors.Errorf("tokentree: no child at index %d in parent %v", index, parent.metadata)
	}

	oldChild := parent.children[index]
	oldChildPrevious := oldChild.previous
	oldChildTail := oldChild
	if deepLast := oldChild.DeepLastChild(); deepLast != nil {
		oldChildTail = deepLast
	}

	newChildDeepLast := newChild.DeepLastChild()
	newChildTail := newChild
	if newChildDeepLast != nil {
		newChildTail = newChildDeepLast
	}

	newChild.parent = parent

	if oldChildPrevious != nil {
		oldChildPrevious.next = newChild
	}

	tailNext := oldChildTail.next
	if newChildDeepLast != nil {
		newChildDeepLast.next = tailNext
	} else {
		newChild.next = tailNext
	}
	if newChild.next == nil {
		newChild.next = tailNext
	}

	if tailNext != nil {
		tailNext.previous = newChildTail
	}

	newChild.previous = oldChild.previous

	maxChildIndex := len(parent.children) - 1
	if index == 0 {
		parent.firstChild = newChild
	}
	if index == maxChildIndex {
		parent.lastChild = newChild
	}

	idx := index
	newChild.childIndex = &idx
	parent.children[index] = newChild

	return nil
}
