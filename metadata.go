package tokentree

// Kind is the constraint satisfied by a language backend's token kind type.
// It must be comparable so that AstNodeMetadata values can be compared for
// equality and so ancestry slices can be searched.
type Kind interface {
	comparable
}

// Metadata is the sealed set of payloads a Node can carry. The concrete
// variants are EmptyMetadata, RootMetadata, FragmentMetadata,
// LiteralMetadata, and AstNodeMetadata[K].
type Metadata interface {
	isMetadata()
}

// EmptyMetadata marks a node that carries no text and exists only to anchor
// other nodes.
type EmptyMetadata struct{}

func (EmptyMetadata) isMetadata() {}

// RootMetadata marks the single node at the top of a token tree.
type RootMetadata struct{}

func (RootMetadata) isMetadata() {}

// FragmentMetadata marks a node whose own literal text has been deleted but
// whose children must be kept reachable through the pre-order thread. It
// exists so a selection splice can remove "a node's own text" without
// having to re-thread every descendant.
type FragmentMetadata struct{}

func (FragmentMetadata) isMetadata() {}

// LiteralMetadata holds a leaf node's literal text.
type LiteralMetadata struct {
	Literal string
}

func (LiteralMetadata) isMetadata() {}

// AstNodeMetadata holds a language-specific syntax kind, plus an optional
// literal for AST leaves that also carry text directly (as opposed to
// deriving their text entirely from their children). HasError marks a node
// a parser produced from malformed or incomplete source, so a caller can
// surface parse failures without the engine itself needing an error type
// for "the text didn't parse".
type AstNodeMetadata[K Kind] struct {
	Kind     K
	Literal  *string
	HasError bool
}

func (AstNodeMetadata[K]) isMetadata() {}
