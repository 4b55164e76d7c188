package parser

import (
	"os"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CreateParser returns the syntax tree parser for a language tag. The second
// return value is false for languages that only get the pattern pass.
func CreateParser(lang string) (Parser, bool) {
	switch lang {
	case LangPython:
		return NewPythonParser(), true
	default:
		return nil, false
	}
}

// WalkAST recursively traverses a syntax tree and applies a visitor function
// to each node
func WalkAST(node *sitter.Node, visitor func(*sitter.Node)) {
	visitor(node)

	for i := 0; i < int(node.ChildCount()); i++ {
		WalkAST(node.Child(i), visitor)
	}
}

// ReadSourceFile reads an uploaded source file, tolerating non-UTF-8 bytes
// by falling back to a Windows-1252 decode so a stray byte never aborts
// analysis or execution.
func ReadSourceFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if utf8.Valid(raw) {
		return raw, nil
	}

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return raw, nil
	}
	return decoded, nil
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// GetLanguage returns the language name for this parser
func (bp *BaseParser) GetLanguage() string {
	return bp.langName
}
