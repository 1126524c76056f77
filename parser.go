package tokentree

// Parser is a pluggable language backend. Passing one explicitly to the
// operations that need it (NewFromParsed, ReparseChildAtIndex, and a
// Selection's reparsing splice) stands in for the static trait dispatch the
// original design used, since Go has no equivalent of an associated
// function resolved purely from a type parameter.
type Parser[K Kind] interface {
	// Parse builds a subtree out of literal. parent, when non-nil, is the
	// node the subtree is about to be placed under; Parse does not link
	// the subtree to it.
	Parse(literal string, parent *Node[K]) *Node[K]

	// IsReparsable reports whether a node of this kind is a safe
	// boundary to reparse in isolation. ReparseChildAtIndex walks up the
	// tree past any node this returns false for.
	IsReparsable(kind K) bool

	// Color renders text for a terminal, given the chain of AST kinds
	// (innermost first) enclosing it.
	Color(text string, ancestry []K) string
}
