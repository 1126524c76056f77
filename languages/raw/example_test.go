package raw_test

import (
	"fmt"

	"github.com/odvcencio/tokentree"
	"github.com/odvcencio/tokentree/languages/raw"
	"github.com/odvcencio/tokentree/tokentree/cursorseek"
)

// Example parses a document, moves a cursor to a word boundary with a
// word-motion seek, selects from there to the end of the document, and
// replaces the selection, reparsing the result.
func Example() {
	parser := raw.NewParser()
	root := parser.Parse("hello world", nil)

	cursor := tokentree.NewCursor(root.FirstChild())
	cursor.SeekForwards(cursorseek.AdvanceLowerWord(cursorseek.Exclusive))
	cursor.SeekForwards(cursorseek.AdvanceByCharCount(0)) // skip the space

	selection := tokentree.Selection[raw.Kind]{
		Primary:   cursor,
		Secondary: tokentree.NewSelectionAcrossSubtree(root).Secondary,
	}
	if err := selection.Replace(parser, "tokentree"); err != nil {
		panic(err)
	}

	fmt.Println(root.DeepLiteral())
	// Output:
	// hello tokentree
}
