package security

import (
	"fmt"
	"strings"
)

// ScanText applies a catalog of text-level signatures to the whole file
// content, in catalog order. It is a pure function: every signature is
// evaluated independently and none short-circuits another.
func ScanText(content string, catalog []Signature) []Finding {
	var findings []Finding
	for _, sig := range catalog {
		findings = append(findings, sig.match(content)...)
	}
	return findings
}

func (s Signature) match(content string) []Finding {
	switch s.Kind {
	case MatchRegex:
		if s.Regex.MatchString(content) {
			return []Finding{{Label: s.Label, Penalty: s.Penalty}}
		}
		return nil
	default:
		haystack := content
		if s.FoldCase {
			haystack = strings.ToUpper(content)
		}

		var findings []Finding
		for _, pattern := range s.Patterns {
			if !strings.Contains(haystack, pattern) {
				continue
			}
			if !s.PerPattern {
				return []Finding{{Label: s.Label, Penalty: s.Penalty}}
			}
			findings = append(findings, Finding{
				Label:   fmt.Sprintf(s.Label, pattern),
				Penalty: s.Penalty,
			})
		}
		return findings
	}
}
