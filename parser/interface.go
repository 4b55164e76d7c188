package parser

import sitter "github.com/smacker/go-tree-sitter"

// Language tags accepted by the analysis pipeline.
const (
	LangPython = "py"
	LangSQL    = "sql"
)

// Parser defines the interface for language-specific syntax tree parsers.
// Only languages with a parseable grammar implement it; CreateParser reports
// the rest as pattern-only.
type Parser interface {
	GetLanguage() string
	Close()
	Parse(source []byte) (*ParseResult, error)
	ExtractCalls(node *sitter.Node, source []byte) []Call
}

// BaseParser provides common functionality for all language parsers
type BaseParser struct {
	parser   *sitter.Parser
	language *sitter.Language
	langName string
}

// ParseResult contains the parsed syntax tree for a source buffer
type ParseResult struct {
	Tree     *sitter.Tree
	Source   []byte
	Language string
}

// Call represents one call expression found in a syntax tree. Qualified is
// true for attribute calls such as os.system(...), false for direct calls
// such as eval(...).
type Call struct {
	Name      string
	Line      int // 1-based
	Qualified bool
}
