// Package reuse matches chunks of an old parse against a new one by byte
// range, so a reparse can relink an untouched chunk's old payload instead
// of reallocating it.
package reuse

import "bytes"

// Entry is one previously-allocated chunk from an old parse: a byte range
// into the shared source plus an opaque payload worth reusing instead of
// rebuilding (typically the old tree's node for that range).
type Entry[T any] struct {
	Start int
	End   int
	Value T
}

// Cursor replays a flat, start-byte-ordered sequence of old chunks,
// matching candidates against a new chunk boundary by its starting byte.
//
// The reference this is adapted from walks a nested GLR parse-tree stack,
// since any node at any depth of that tree might be reusable. A chunked
// raw-text document has no such nesting — its chunks are already a flat,
// position-ordered sequence — so the walk here is a plain index instead of
// a node stack. The start-byte candidate caching is carried over
// unchanged.
type Cursor[T any] struct {
	entries []Entry[T]
	index   int

	cachedStart      int
	cachedStartValid bool
	cached           []Entry[T]
}

// NewCursor returns a Cursor over entries, which must already be sorted by
// Start.
func NewCursor[T any](entries []Entry[T]) *Cursor[T] {
	return &Cursor[T]{entries: entries}
}

// Candidates returns every old entry starting exactly at start, consuming
// them from the cursor. Callers that probe with a strictly increasing
// sequence of start values (as a left-to-right rechunk does) get an
// amortized linear scan; probing with a start smaller than one already
// passed returns nothing, since that entry has already been consumed.
func (c *Cursor[T]) Candidates(start int) []Entry[T] {
	if c.cachedStartValid {
		if start == c.cachedStart {
			return c.cached
		}
		if start < c.cachedStart {
			return nil
		}
	}

	c.cached = c.cached[:0]
	c.cachedStart = start
	c.cachedStartValid = true

	for c.index < len(c.entries) {
		e := c.entries[c.index]
		if e.Start < start {
			c.index++
			continue
		}
		if e.Start > start {
			break
		}
		c.cached = append(c.cached, e)
		c.index++
	}
	return c.cached
}

// BytesEqual reports whether the half-open range [start, end) is
// byte-identical between oldSource and newSource. This is the test reuse
// relies on to decide an old chunk is still valid verbatim.
func BytesEqual(start, end int, oldSource, newSource []byte) bool {
	if end < start {
		return false
	}
	if end > len(oldSource) || end > len(newSource) {
		return false
	}
	return bytes.Equal(oldSource[start:end], newSource[start:end])
}
