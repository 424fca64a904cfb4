package document

// FormatterVersion is stamped into every header so downstream consumers can
// tell which generation of block rewriting produced a file.
const FormatterVersion = "2.1"

// Metadata mirrors the frontmatter block written by [Assembler.Assemble].
// Readers parse it back with the frontmatter package to recover provenance.
type Metadata struct {
	URL              string `yaml:"url"`
	Source           string `yaml:"source"`
	DateProcessed    string `yaml:"date_processed"`
	Domain           string `yaml:"domain"`
	ContentType      string `yaml:"content_type"`
	ContainsCode     bool   `yaml:"contains_code"`
	CodeBlocksCount  int    `yaml:"code_blocks_count"`
	FormatterVersion string `yaml:"formatter_version"`
}
