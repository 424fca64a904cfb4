package snippets

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleDoc = "# Guide\n\n```python title=demo.py\nprint(\"hi\")\n```\n\nPlain.\n\n```\nraw text\n```\n"

func TestExtractBlocks(t *testing.T) {
	t.Parallel()

	blocks, err := Extract([]byte(sampleDoc))
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, "python", blocks[0].Lang)
	assert.Equal(t, "demo.py", blocks[0].Meta.Get("title"))
	assert.Equal(t, "print(\"hi\")\n", string(blocks[0].Code))
	assert.Equal(t, 3, blocks[0].StartLine)
	assert.Equal(t, 5, blocks[0].EndLine)

	assert.Empty(t, blocks[1].Lang)
	assert.Equal(t, "raw text\n", string(blocks[1].Code))
	assert.Equal(t, 9, blocks[1].StartLine)
	assert.Equal(t, 11, blocks[1].EndLine)

	assert.Same(t, blocks[0], blocks.First("python"))
	assert.Nil(t, blocks.First("go"))
}

func TestWalkRewrites(t *testing.T) {
	t.Parallel()

	changed, out, err := Walk([]byte(sampleDoc), func(block *Block) error {
		if block.Lang == "python" {
			block.Code = []byte("print(\"bye\")\n")
		}

		return nil
	})
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, strings.Replace(sampleDoc, `"hi"`, `"bye"`, 1), string(out))
}

func TestWalkNoChanges(t *testing.T) {
	t.Parallel()

	var langs []string

	changed, out, err := Walk([]byte(sampleDoc), func(block *Block) error {
		langs = append(langs, block.Lang)

		return nil
	})
	require.NoError(t, err)

	assert.False(t, changed)
	assert.Nil(t, out)
	assert.Equal(t, []string{"python", ""}, langs)
}

func TestWalkVisitorError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	_, _, err := Walk([]byte(sampleDoc), func(block *Block) error {
		if block.Lang == "" {
			return errBoom
		}

		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
}
