package tokentree

import (
	"strings"

	"github.com/odvcencio/tokentree/tokentree/cursorseek"
)

// Cursor is a position in a token tree: a node plus a rune offset into that
// node's own literal text.
type Cursor[K Kind] struct {
	node   *Node[K]
	offset int
}

// NewCursor returns a cursor at the start of node.
func NewCursor[K Kind](node *Node[K]) Cursor[K] {
	return NewCursorAt(node, 0)
}

// NewCursorAt returns a cursor at offset within node.
func NewCursorAt[K Kind](node *Node[K], offset int) Cursor[K] {
	return Cursor[K]{node: node, offset: offset}
}

// Node returns the node the cursor currently sits in.
func (c Cursor[K]) Node() *Node[K] { return c.node }

// Offset returns the cursor's rune offset into Node's literal text.
func (c Cursor[K]) Offset() int { return c.offset }

// SeekForwards performs seek once, as the first and only character fed to
// untilFn's equivalent.
func (c *Cursor[K]) SeekForwards(seek cursorseek.Seek) string {
	return c.SeekForwardsUntil(func(_ rune, index int) cursorseek.Seek {
		if index == 0 {
			return seek
		}
		return cursorseek.Stop
	})
}

// SeekForwardsUntil walks forwards character by character, starting at the
// cursor's current position, calling untilFn for each character until it
// returns Stop or Done. It leaves the cursor at the new position and
// returns the text that was walked over.
//
// untilFn may itself return AdvanceUntil to temporarily hand control to a
// nested predicate (used, for example, to skip a run of whitespace before
// resuming the outer word-motion logic); nested predicates are kept on a
// stack so they can be nested arbitrarily deep.
func (c *Cursor[K]) SeekForwardsUntil(untilFn func(ch rune, index int) cursorseek.Seek) string {
	globalCharCounter := 0
	newOffset := c.offset
	newNode := c.node
	startNode := c.node
	startOffset := c.offset

	cachedCharUntilCount := 0
	var untilFnStack []func(ch rune, index int) cursorseek.Seek
	var counterStack []int

	chunks := SeekForwardsUntil[K, []rune](c.node, Inclusive, func(node *Node[K], _ int) NodeSeek[[]rune] {
		newNode = node

		// The starting node resumes from the cursor's current offset; any
		// later node crossed by the walk starts fresh at its own beginning.
		startIndex := 0
		if node == startNode {
			newOffset = startOffset
			startIndex = startOffset
		} else {
			newOffset = 0
		}
		var result []rune

		literal := []rune(node.Literal())
		for i := startIndex; i < len(literal); i++ {
			character := literal[i]

			if cachedCharUntilCount > 0 {
				result = append(result, character)
				cachedCharUntilCount--
				newOffset++
				continue
			}

			if len(untilFnStack) > 0 {
				topFn := untilFnStack[len(untilFnStack)-1]
				topCounter := counterStack[len(counterStack)-1]
				verdict := topFn(character, topCounter)

				consumedByStack := true
				switch verdict.Verdict {
				case cursorseek.VerdictContinue:
					result = append(result, character)
					globalCharCounter++
					newOffset++
					counterStack[len(counterStack)-1]++
				case cursorseek.VerdictAdvanceByCharCount:
					result = append(result, character)
					newOffset++
					cachedCharUntilCount += verdict.Count
				case cursorseek.VerdictAdvanceUntil:
					result = append(result, character)
					newOffset++
					untilFnStack = append(untilFnStack, verdict.UntilFn)
					counterStack = append(counterStack, 0)
				case cursorseek.VerdictStop:
					untilFnStack = untilFnStack[:len(untilFnStack)-1]
					counterStack = counterStack[:len(counterStack)-1]
					consumedByStack = false
					if len(untilFnStack) > 0 {
						i-- // offer the same character to the predicate beneath
					}
				case cursorseek.VerdictDone:
					result = append(result, character)
					globalCharCounter++
					newOffset++
					untilFnStack = untilFnStack[:len(untilFnStack)-1]
					counterStack = counterStack[:len(counterStack)-1]
					consumedByStack = false
				}

				if consumedByStack || len(untilFnStack) > 0 {
					continue
				}
				// The stack just emptied out on this character (via Stop
				// or Done); fall through and feed the same character to
				// the outer predicate below.
			}

			globalCharCounter++

			verdict := untilFn(character, globalCharCounter-1)
			if verdict.Verdict != cursorseek.VerdictStop {
				newOffset++
			}
			switch verdict.Verdict {
			case cursorseek.VerdictContinue:
				result = append(result, character)
				continue
			case cursorseek.VerdictAdvanceByCharCount:
				result = append(result, character)
				cachedCharUntilCount += verdict.Count
				continue
			case cursorseek.VerdictAdvanceUntil:
				result = append(result, character)
				untilFnStack = append(untilFnStack, verdict.UntilFn)
				counterStack = append(counterStack, 0)
				continue
			case cursorseek.VerdictStop:
				return SeekDone(result)
			case cursorseek.VerdictDone:
				result = append(result, character)
				return SeekDone(result)
			}
		}

		return SeekContinue(result)
	})

	c.node = newNode
	c.offset = newOffset

	var b strings.Builder
	for _, chunk := range chunks {
		b.WriteString(string(chunk))
	}
	return b.String()
}
