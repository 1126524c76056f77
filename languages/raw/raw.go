// Package raw is the fallback language backend: it performs no syntax
// parsing at all, and treats a whole document as a flat run of unparsable
// text, chunked purely for editing performance.
package raw

import (
	"github.com/odvcencio/tokentree"
	"github.com/odvcencio/tokentree/tokentree/reuse"
)

// ChunkSizeChars is how many characters of the source literal each leaf
// node stores.
const ChunkSizeChars = 32

// Kind is raw's token kind. It is never actually constructed — raw text
// has no syntax kinds of its own — and exists only so raw can satisfy
// tokentree.Parser[Kind].
type Kind struct{}

// Parser is the raw language backend.
type Parser struct{}

// NewParser returns a raw Parser.
func NewParser() Parser { return Parser{} }

// Parse ignores parent's contents and splits literal into fixed-size
// chunk nodes under a fresh root.
func (Parser) Parse(literal string, _ *tokentree.Node[Kind]) *tokentree.Node[Kind] {
	return tokentree.NewTreeFromLiteralInChunks[Kind](literal, ChunkSizeChars)
}

// IsReparsable is always true: reparsing raw text is a no-op-equivalent
// rechunk, safe at any boundary.
func (Parser) IsReparsable(Kind) bool { return true }

// Color is a passthrough: raw text carries no syntax to highlight.
func (Parser) Color(text string, _ []Kind) string { return text }

// Chunks walks root's direct children (as produced by Parse) and returns
// them as reuse.Entry values positioned by UTF-8 byte offset into root's
// own text, for use as the oldChunks argument to ParseWithReuse on a
// later edit.
func Chunks(root *tokentree.Node[Kind]) []reuse.Entry[*tokentree.Node[Kind]] {
	children := root.Children()
	entries := make([]reuse.Entry[*tokentree.Node[Kind]], 0, len(children))
	offset := 0
	for _, child := range children {
		literal := child.Literal()
		end := offset + len(literal)
		entries = append(entries, reuse.Entry[*tokentree.Node[Kind]]{Start: offset, End: end, Value: child})
		offset = end
	}
	return entries
}

// ParseWithReuse rebuilds literal's chunk tree exactly as Parse does, but
// relinks a chunk node from oldChunks instead of allocating a new one
// wherever the new chunk's byte range is unchanged from the corresponding
// old one. Chunks whose range differs are allocated afresh; an insertion or
// deletion shifts the ranges of every later chunk, so those are not reused.
func ParseWithReuse(literal string, oldChunks []reuse.Entry[*tokentree.Node[Kind]], oldSource, newSource []byte) *tokentree.Node[Kind] {
	cursor := reuse.NewCursor(oldChunks)
	root := tokentree.NewRoot[Kind]()

	runes := []rune(literal)
	byteOffset := 0
	for i := 0; i < len(runes); i += ChunkSizeChars {
		end := i + ChunkSizeChars
		if end > len(runes) {
			end = len(runes)
		}
		chunkLiteral := string(runes[i:end])
		chunkEnd := byteOffset + len(chunkLiteral)

		var chunkNode *tokentree.Node[Kind]
		for _, candidate := range cursor.Candidates(byteOffset) {
			if candidate.End == chunkEnd && reuse.BytesEqual(candidate.Start, candidate.End, oldSource, newSource) {
				chunkNode = candidate.Value
				break
			}
		}
		if chunkNode == nil {
			chunkNode = tokentree.NewFromLiteral[Kind](chunkLiteral)
		}

		root.AppendChild(chunkNode)
		byteOffset = chunkEnd
	}

	return root
}
