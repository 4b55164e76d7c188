package security

import (
	"fmt"

	"github.com/scriptbench/scriptbench/parser"
)

// ScanTree runs the structural pass over Python source: every call
// expression whose callee is a direct, unqualified name from the dangerous
// function catalog yields a finding with its source line. Source that does
// not parse cleanly contributes zero findings; that outcome is deliberate
// and is not surfaced as an error.
//
// A call found here has usually also been flagged by the text pass. The two
// passes do not deduplicate against each other; downstream consumers depend
// on the combined score and issue count.
func ScanTree(source []byte) []Finding {
	p, ok := parser.CreateParser(parser.LangPython)
	if !ok {
		return nil
	}
	defer p.Close()

	result, err := p.Parse(source)
	if err != nil {
		return nil
	}
	defer result.Tree.Close()

	names := make(map[string]bool, len(dangerousPythonFunctions))
	for _, name := range dangerousPythonFunctions {
		names[name] = true
	}

	var findings []Finding
	for _, call := range p.ExtractCalls(result.Tree.RootNode(), source) {
		if call.Qualified || !names[call.Name] {
			continue
		}
		findings = append(findings, Finding{
			Label:   fmt.Sprintf(structuralCallLabel, call.Name, call.Line),
			Line:    call.Line,
			Penalty: structuralCallPenalty,
		})
	}
	return findings
}

// scanStatements is the SQL counterpart of the structural pass: the script
// is split into statements and each one whose kind cannot be classified
// becomes a finding, never a fault.
func scanStatements(content string) []Finding {
	var findings []Finding
	for _, stmt := range parser.SplitStatements(content) {
		if _, ok := parser.ClassifyStatement(stmt); !ok {
			findings = append(findings, Finding{
				Label:   malformedStatementLabel,
				Penalty: malformedStatementPenalty,
			})
		}
	}
	return findings
}
