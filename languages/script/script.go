// Package script is a JavaScript/TypeScript-flavored language backend. It
// parses source through tree-sitter's JavaScript grammar and converts the
// resulting concrete syntax tree into a token tree, one grammar node at a
// time.
package script

import (
	"strings"

	"github.com/mgutz/ansi"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/odvcencio/tokentree"
)

// Kind is a tree-sitter node kind string (e.g. "program",
// "variable_declarator", "identifier"). Tree-sitter already hands out
// grammar kinds as plain strings, so Kind borrows that representation
// directly instead of re-enumerating every grammar production by hand.
type Kind string

// A handful of kinds referenced by IsReparsable and Color below.
const (
	KindProgram             Kind = "program"
	KindVariableDeclarator  Kind = "variable_declarator"
	KindFunctionDeclaration Kind = "function_declaration"
	KindFunctionKeyword     Kind = "function"
	KindIdentifier          Kind = "identifier"
	KindString              Kind = "string"
	KindNumber              Kind = "number"
	KindComment             Kind = "comment"
)

var jsLanguage = sitter.NewLanguage(tree_sitter_javascript.Language())

// Parser is the script language backend.
type Parser struct{}

// NewParser returns a script Parser.
func NewParser() Parser { return Parser{} }

// Parse runs literal through tree-sitter's JavaScript grammar and converts
// the result into a token tree. If parent already carries an AstNodeMetadata
// kind, Parse descends through any chain of single-child AST nodes whose
// kind differs from parent's, stopping as soon as it finds a node of that
// same kind (or one with more than one child) — shrinking the reparsed
// subtree down to the node that actually corresponds to what was reparsed,
// rather than an uninformative wrapper chain above it.
func (Parser) Parse(literal string, parent *tokentree.Node[Kind]) *tokentree.Node[Kind] {
	p := sitter.NewParser()
	defer p.Close()

	if err := p.SetLanguage(jsLanguage); err != nil {
		// Without a working grammar there is nothing to parse into nodes;
		// keep the text reachable as a single opaque leaf rather than
		// losing it.
		return tokentree.NewFromLiteral[Kind](literal)
	}

	source := []byte(literal)
	tree := p.Parse(source, nil)
	defer tree.Close()

	root := convertToTokenTree(tree.RootNode(), source)

	parentKind, ok := astKindOf(parent)
	if !ok {
		return root
	}

	pointer := root
	for {
		children := pointer.Children()
		if len(children) != 1 {
			break
		}
		kind, ok := astKindOf(pointer)
		if !ok || kind == parentKind {
			break
		}
		pointer = children[0]
	}
	return pointer
}

// IsReparsable allows reparsing at statement and declaration boundaries,
// and at the program root, but not at the level of a bare expression or
// punctuation token — reparsing those in isolation would produce a
// fragment tree-sitter can't meaningfully re-anchor.
func (Parser) IsReparsable(kind Kind) bool {
	if kind == KindProgram {
		return true
	}
	s := string(kind)
	return strings.HasSuffix(s, "_statement") || strings.HasSuffix(s, "_declaration")
}

// Color applies a small set of bespoke highlighting rules keyed on a node's
// own kind and its immediate parent's kind, falling back to passthrough —
// the same shape as the original's apply_debug_syntax_color.
func (Parser) Color(text string, ancestry []Kind) string {
	if len(ancestry) == 0 {
		return text
	}

	kind := ancestry[0]
	var parentKind Kind
	if len(ancestry) > 1 {
		parentKind = ancestry[1]
	}

	switch {
	case parentKind == KindVariableDeclarator && kind == KindIdentifier:
		return ansi.Color(text, "red+b")
	case parentKind == KindFunctionDeclaration && kind == KindFunctionKeyword:
		return ansi.Color(text, "blue+b")
	case kind == KindString:
		return ansi.Color(text, "green")
	case kind == KindNumber:
		return ansi.Color(text, "magenta")
	case kind == KindComment:
		return ansi.Color(text, "black+h")
	default:
		return text
	}
}

// astKindOf reports node's AstNodeMetadata kind, if it has one.
func astKindOf(node *tokentree.Node[Kind]) (Kind, bool) {
	if node == nil {
		return "", false
	}
	ast, ok := node.Metadata().(tokentree.AstNodeMetadata[Kind])
	if !ok {
		return "", false
	}
	return ast.Kind, true
}

// convertToTokenTree walks root's subtree with a tree-sitter TreeCursor,
// visiting every grammar node (named and anonymous alike) in preorder, and
// builds the equivalent token tree.
//
// The original conversion this is ported from trimmed each AST node's
// literal by the exact text its first child carried, relying on rowan's
// concrete syntax trees (every byte belongs to some token, including
// whitespace attached as a token's leading trivia) guaranteeing an exact
// prefix match. Tree-sitter's span model has no such guarantee: whitespace
// between sibling nodes belongs to neither of them, so a node's own span
// can have gaps its children don't cover. Those gaps are therefore
// materialized here as plain literal leaf nodes interleaved with the real
// AST children — a node with children always carries an empty literal of
// its own, and DeepLiteral() still reconstructs the source exactly.
//
// nodes/pending/ends/container are parallel stacks tracking, for each
// ancestor still open on the cursor's path: the token-tree node built for
// it, the next unfilled byte offset under it, its own span's end byte, and
// whether it has any tree-sitter children at all (a childless node keeps
// its full span as its own literal instead of being treated as a container
// with a gap to fill).
func convertToTokenTree(root *sitter.Node, source []byte) *tokentree.Node[Kind] {
	wrapper := tokentree.NewEmpty[Kind]()

	cursor := root.Walk()
	defer cursor.Close()

	nodes := []*tokentree.Node[Kind]{wrapper}
	pending := []uint{root.StartByte()}
	ends := []uint{root.EndByte()}
	container := []bool{true}

	enter := func(n *sitter.Node) {
		depth := len(nodes) - 1
		fillGap(nodes[depth], source, pending[depth], n.StartByte())

		isContainer := n.ChildCount() > 0
		child := tokentree.NewEmpty[Kind]()
		if isContainer {
			child.SetMetadata(tokentree.AstNodeMetadata[Kind]{Kind: Kind(n.Kind()), HasError: n.Kind() == "ERROR" || n.IsMissing()})
		} else {
			literal := string(source[n.StartByte():n.EndByte()])
			child.SetMetadata(tokentree.AstNodeMetadata[Kind]{Kind: Kind(n.Kind()), Literal: &literal, HasError: n.Kind() == "ERROR" || n.IsMissing()})
		}
		nodes[depth].AppendChild(child)
		pending[depth] = n.EndByte()

		nodes = append(nodes, child)
		pending = append(pending, n.StartByte())
		ends = append(ends, n.EndByte())
		container = append(container, isContainer)
	}

	leave := func() {
		depth := len(nodes) - 1
		if container[depth] {
			fillGap(nodes[depth], source, pending[depth], ends[depth])
		}
		nodes = nodes[:depth]
		pending = pending[:depth]
		ends = ends[:depth]
		container = container[:depth]
	}

	enter(cursor.Node())

	for {
		if cursor.GotoFirstChild() {
			enter(cursor.Node())
			continue
		}
		if cursor.GotoNextSibling() {
			leave()
			enter(cursor.Node())
			continue
		}

		for {
			if !cursor.GotoParent() {
				leave()
				if children := wrapper.Children(); len(children) == 1 {
					return children[0]
				}
				return wrapper
			}
			leave()
			if cursor.GotoNextSibling() {
				enter(cursor.Node())
				break
			}
		}
	}
}

// fillGap appends a plain literal leaf under parent for source[start:end],
// if that range is non-empty.
func fillGap(parent *tokentree.Node[Kind], source []byte, start, end uint) {
	if end <= start {
		return
	}
	parent.AppendChild(tokentree.NewFromLiteral[Kind](string(source[start:end])))
}
