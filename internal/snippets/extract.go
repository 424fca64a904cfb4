// Package snippets reads fenced code blocks out of markdown documents and
// indexes generated pages so prompts can quote real code from the same site.
package snippets

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Visitor is invoked for each fenced code block found in a markdown
// document. The visitor may modify block.Code in place; any changes are
// spliced back into the document by [Walk].
type Visitor func(block *Block) error

type edit struct {
	fcb   *ast.FencedCodeBlock
	block *Block
}

// span returns the byte range holding the block's code. An empty block has
// no line segments, so the position after the info string stands in for it.
func (e *edit) span() (int, int) {
	lines := e.fcb.Lines()
	if lines.Len() > 0 {
		return lines.At(0).Start, lines.At(lines.Len() - 1).Stop
	}

	anchor := e.fcb.Info.Segment.Stop + 1

	return anchor, anchor
}

// Walk parses a markdown document and calls visitor for every fenced code
// block. If the visitor modifies any block's Code, Walk returns true and the
// rewritten document; fence markers and info strings are left untouched.
// When no blocks change it returns false and a nil slice.
func Walk(source []byte, visitor Visitor) (bool, []byte, error) {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var edits []*edit

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering || node.Kind() != ast.KindFencedCodeBlock {
			return ast.WalkContinue, nil
		}

		fcb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		block, berr := newBlock(fcb, source)
		if berr != nil {
			return ast.WalkStop, berr
		}

		before := block.Code

		if berr := visitor(block); berr != nil {
			return ast.WalkStop, berr
		}

		if bytes.Equal(before, block.Code) {
			return ast.WalkContinue, nil
		}

		if fcb.Lines().Len() == 0 && fcb.Info == nil {
			// A bare empty fence leaves no position to splice at.
			return ast.WalkContinue, nil
		}

		edits = append(edits, &edit{fcb: fcb, block: block})

		return ast.WalkContinue, nil
	})
	if err != nil {
		return false, nil, err
	}

	if len(edits) == 0 {
		return false, nil, nil
	}

	return true, splice(source, edits), nil
}

// Extract parses a markdown document and returns all fenced code blocks
// without modifying the source.
func Extract(source []byte) (Blocks, error) {
	var blocks Blocks

	_, _, err := Walk(source, func(block *Block) error {
		blocks = append(blocks, block)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

func newBlock(fcb *ast.FencedCodeBlock, source []byte) (*Block, error) {
	var info []byte
	if fcb.Info != nil {
		info = fcb.Info.Text(source)
	}

	lang, meta, err := parseInfo(info)
	if err != nil {
		return nil, err
	}

	block := &Block{Lang: lang, Meta: meta, Code: blockCode(fcb, source)}
	block.StartLine, block.EndLine = blockLines(fcb, source)

	return block, nil
}

func blockCode(fcb *ast.FencedCodeBlock, source []byte) []byte {
	lines := fcb.Lines()
	if lines.Len() == 0 {
		return nil
	}

	code := make([]byte, 0, lines.At(lines.Len()-1).Stop-lines.At(0).Start)

	for i := 0; i < lines.Len(); i++ {
		code = append(code, lines.At(i).Value(source)...)
	}

	return code
}

// blockLines maps the block onto 1-based source lines, opening fence to
// closing fence.
func blockLines(fcb *ast.FencedCodeBlock, source []byte) (int, int) {
	lines := fcb.Lines()

	start := 0

	switch {
	case fcb.Info != nil:
		start = lineAt(source, fcb.Info.Segment.Start)
	case lines.Len() > 0:
		start = lineAt(source, lines.At(0).Start) - 1
	}

	end := 0

	switch {
	case lines.Len() > 0:
		end = lineAt(source, lines.At(lines.Len()-1).Stop)
	case start > 0:
		end = start + 1
	}

	return start, end
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}

	return 1 + bytes.Count(source[:offset], []byte{'\n'})
}

func splice(source []byte, edits []*edit) []byte {
	var out bytes.Buffer

	out.Grow(len(source))

	cursor := 0

	for _, e := range edits {
		start, stop := e.span()

		out.Write(source[cursor:start])
		out.Write(e.block.Code)

		cursor = stop
	}

	out.Write(source[cursor:])

	return out.Bytes()
}
