package tokentree

// Inclusivity controls whether a seek operation's starting node is fed to
// the predicate before advancing, or skipped in favor of its neighbor.
type Inclusivity int

const (
	Inclusive Inclusivity = iota
	Exclusive
)

// Direction selects which thread pointer a seek walks.
type Direction int

const (
	Forwards Direction = iota
	Backwards
)

type seekVerdict int

const (
	seekContinue seekVerdict = iota
	seekStop
	seekDone
)

// NodeSeek is the per-step instruction a seek predicate returns: keep going
// and accumulate a value (Continue), stop without accumulating anything for
// this step (Stop), or accumulate a value and stop (Done).
type NodeSeek[R any] struct {
	verdict seekVerdict
	value   R
}

func SeekContinue[R any](value R) NodeSeek[R] { return NodeSeek[R]{verdict: seekContinue, value: value} }
func SeekStop[R any]() NodeSeek[R]            { return NodeSeek[R]{verdict: seekStop} }
func SeekDone[R any](value R) NodeSeek[R]     { return NodeSeek[R]{verdict: seekDone, value: value} }

// SeekUntil dispatches to SeekForwardsUntil or SeekBackwardsUntil depending
// on direction.
func SeekUntil[K Kind, R any](
	node *Node[K],
	direction Direction,
	included Inclusivity,
	untilFn func(n *Node[K], iteration int) NodeSeek[R],
) []R {
	if direction == Forwards {
		return SeekForwardsUntil(node, included, untilFn)
	}
	return SeekBackwardsUntil(node, included, untilFn)
}

// SeekForwardsUntil walks the pre-order thread starting at node (via next),
// calling untilFn for each visited node until it returns Stop or Done.
func SeekForwardsUntil[K Kind, R any](
	node *Node[K],
	included Inclusivity,
	untilFn func(n *Node[K], iteration int) NodeSeek[R],
) []R {
	cursor := node
	if included == Exclusive {
		cursor = node.next
	}
	if cursor == nil {
		return nil
	}

	var output []R
	for iteration := 0; ; iteration++ {
		result := untilFn(cursor, iteration)
		switch result.verdict {
		case seekContinue:
			output = append(output, result.value)
			if cursor.next == nil {
				return output
			}
			cursor = cursor.next
		case seekDone:
			output = append(output, result.value)
			return output
		default: // seekStop
			return output
		}
	}
}

// SeekBackwardsUntil is SeekForwardsUntil, but walks via previous instead of
// next.
func SeekBackwardsUntil[K Kind, R any](
	node *Node[K],
	included Inclusivity,
	untilFn func(n *Node[K], iteration int) NodeSeek[R],
) []R {
	cursor := node
	if included == Exclusive {
		cursor = node.previous
	}
	if cursor == nil {
		return nil
	}

	var output []R
	for iteration := 0; ; iteration++ {
		result := untilFn(cursor, iteration)
		switch result.verdict {
		case seekContinue:
			output = append(output, result.value)
			if cursor.previous == nil {
				return output
			}
			cursor = cursor.previous
		case seekDone:
			output = append(output, result.value)
			return output
		default: // seekStop
			return output
		}
	}
}

// RemoveNodesSequentiallyUntil walks forwards from startNode the same way
// SeekForwardsUntil does, collecting every visited node, then deletes each
// one: a childless node is detached outright; a node with children is
// converted to FragmentMetadata so its descendants stay reachable without
// being re-threaded. If deleting a node empties its parent's child list, the
// parent is deleted in turn.
func RemoveNodesSequentiallyUntil[K Kind, R any](
	startNode *Node[K],
	included Inclusivity,
	untilFn func(n *Node[K], iteration int) NodeSeek[R],
) []R {
	type pair struct {
		node  *Node[K]
		value R
	}

	pairs := SeekForwardsUntil(startNode, included, func(n *Node[K], iteration int) NodeSeek[pair] {
		result := untilFn(n, iteration)
		switch result.verdict {
		case seekContinue:
			return SeekContinue(pair{node: n, value: result.value})
		case seekDone:
			return SeekDone(pair{node: n, value: result.value})
		default:
			return SeekStop[pair]()
		}
	})

	values := make([]R, 0, len(pairs))
	for _, p := range pairs {
		values = append(values, p.value)
	}

	for _, p := range pairs {
		node := p.node
		parent := node.parent
		if parent == nil || node.childIndex == nil {
			continue
		}

		if len(node.children) == 0 {
			parent.RemoveChildAtIndex(*node.childIndex)

			if len(parent.children) == 0 {
				if grandparent := parent.parent; grandparent != nil && parent.childIndex != nil {
					grandparent.RemoveChildAtIndex(*parent.childIndex)
				}
			}
		} else {
			node.SetMetadata(FragmentMetadata{})
		}
	}

	return values
}
