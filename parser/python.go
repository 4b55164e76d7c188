package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

type PythonParser struct {
	BaseParser
}

func NewPythonParser() *PythonParser {
	p := sitter.NewParser()
	language := python.GetLanguage()
	p.SetLanguage(language)

	return &PythonParser{
		BaseParser: BaseParser{
			parser:   p,
			language: language,
			langName: "python",
		},
	}
}

func (p *PythonParser) Close() {
}

// Parse builds a syntax tree for the source buffer. tree-sitter is
// error-tolerant and always returns a tree, so malformed source is detected
// through ERROR nodes and reported here as a parse failure.
func (p *PythonParser) Parse(source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse python source: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse python source")
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("python source contains syntax errors")
	}

	return &ParseResult{
		Tree:     tree,
		Source:   source,
		Language: p.langName,
	}, nil
}

// ExtractCalls collects every call expression in the tree, keeping the
// 1-based source line and whether the callee was qualified.
func (p *PythonParser) ExtractCalls(node *sitter.Node, source []byte) []Call {
	var calls []Call

	WalkAST(node, func(n *sitter.Node) {
		if n.Type() == "call" {
			if call, ok := p.processCall(n, source); ok {
				calls = append(calls, call)
			}
		}
	})

	return calls
}

func (p *PythonParser) processCall(node *sitter.Node, source []byte) (Call, bool) {
	line := int(node.StartPoint().Row) + 1

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "identifier":
			// Direct function call: func()
			return Call{Name: nodeText(child, source), Line: line}, true
		case "attribute":
			// Method call: obj.method()
			if name := p.processAttribute(child, source); name != "" {
				return Call{Name: name, Line: line, Qualified: true}, true
			}
			return Call{}, false
		}
	}

	return Call{}, false
}

func (p *PythonParser) processAttribute(node *sitter.Node, source []byte) string {
	var object, attribute string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		if child.Type() == "identifier" {
			if object == "" {
				object = nodeText(child, source)
			} else {
				attribute = nodeText(child, source)
			}
		}
	}

	if object != "" && attribute != "" {
		return fmt.Sprintf("%s.%s", object, attribute)
	}

	return ""
}
