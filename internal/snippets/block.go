package snippets

type Block struct {
	Lang      string
	Meta      Meta
	Code      []byte
	StartLine int
	EndLine   int
}

type Blocks []*Block

// First returns the first block tagged with lang, or nil when none is.
func (bs Blocks) First(lang string) *Block {
	for _, b := range bs {
		if b.Lang == lang {
			return b
		}
	}

	return nil
}
