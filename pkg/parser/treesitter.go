package parser

import (
	"math"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/assert-lsp/pkg/domain"
)

// GetNodeText returns the source text for the given AST node.
// Returns empty string if the node's byte range exceeds the source length.
func GetNodeText(node *sitter.Node, source []byte) (result string) {
	start := node.StartByte()
	end := node.EndByte()
	sourceLen, err := safecast.Conv[uint32](len(source))
	if err != nil {
		return ""
	}

	// Validate bounds before calling tree-sitter C code
	if start > sourceLen || end > sourceLen || start > end {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			result = ""
		}
	}()

	return node.Content(source)
}

// toInt narrows a tree-sitter coordinate, saturating on overflow.
func toInt(v uint32) int {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return math.MaxInt32
	}
	return n
}

// definitionRanges builds the header and closing ranges of a declaration node.
// The header range runs to the end-of-line sentinel; the closing range starts
// at column 0 of the last line.
func definitionRanges(node *sitter.Node) (start, end domain.Range) {
	sp := node.StartPoint()
	ep := node.EndPoint()

	startRow := toInt(sp.Row)
	endRow := toInt(ep.Row)

	start = domain.Range{
		Start: domain.Position{Line: startRow, Character: toInt(sp.Column)},
		End:   domain.Position{Line: startRow, Character: domain.MaxCharLength},
	}
	end = domain.Range{
		Start: domain.Position{Line: endRow, Character: 0},
		End:   domain.Position{Line: endRow, Character: toInt(ep.Column)},
	}
	return start, end
}
