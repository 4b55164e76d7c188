package parser

import (
	"strings"
	"unicode"
)

// dmlKinds and ddlKinds hold the keywords a SQL statement can open with and
// still be classified. Plain keywords like TRUNCATE, GRANT, REVOKE, USE and
// CALL open valid statements but carry no statement type, so statements
// starting with them stay unclassifiable.
var dmlKinds = map[string]bool{
	"SELECT":  true,
	"INSERT":  true,
	"UPDATE":  true,
	"DELETE":  true,
	"UPSERT":  true,
	"REPLACE": true,
	"MERGE":   true,
}

var ddlKinds = map[string]bool{
	"CREATE": true,
	"DROP":   true,
	"ALTER":  true,
}

// SplitStatements splits a SQL script on statement terminators, ignoring
// semicolons inside string literals, quoted identifiers and comments.
// Whitespace-only fragments are dropped.
func SplitStatements(script string) []string {
	var statements []string
	var current strings.Builder

	var inSingle, inDouble, inLineComment, inBlockComment bool

	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case inLineComment:
			if r == '\n' {
				inLineComment = false
			}
		case inBlockComment:
			if r == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				current.WriteRune(r)
				i++
				r = runes[i]
				inBlockComment = false
			}
		case inSingle:
			if r == '\'' {
				inSingle = false
			}
		case inDouble:
			if r == '"' {
				inDouble = false
			}
		default:
			switch r {
			case '\'':
				inSingle = true
			case '"':
				inDouble = true
			case '-':
				if i+1 < len(runes) && runes[i+1] == '-' {
					inLineComment = true
				}
			case '/':
				if i+1 < len(runes) && runes[i+1] == '*' {
					inBlockComment = true
				}
			case ';':
				if stmt := strings.TrimSpace(current.String()); stmt != "" {
					statements = append(statements, stmt)
				}
				current.Reset()
				continue
			}
		}

		current.WriteRune(r)
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// ClassifyStatement reports the statement kind derived from the first
// meaningful keyword, and whether the statement could be classified at all.
// Comment-only statements are unclassifiable. WITH classifies only when the
// word right after it is a DML keyword; a real CTE introduces its alias
// first, so CTE statements stay unclassifiable.
func ClassifyStatement(stmt string) (string, bool) {
	rest := stripLeadingComments(stmt)

	kind, rest := leadingWord(rest)
	if kind == "WITH" {
		kind, _ = leadingWord(rest)
		if !dmlKinds[kind] {
			return "", false
		}
		return kind, true
	}

	if kind == "" || !(dmlKinds[kind] || ddlKinds[kind]) {
		return "", false
	}
	return kind, true
}

// leadingWord returns the upper-cased run of letters opening s and whatever
// follows it.
func leadingWord(s string) (string, string) {
	var word strings.Builder
	for _, r := range s {
		if !unicode.IsLetter(r) {
			break
		}
		word.WriteRune(r)
	}
	return strings.ToUpper(word.String()), strings.TrimSpace(s[word.Len():])
}

func stripLeadingComments(stmt string) string {
	rest := strings.TrimSpace(stmt)
	for {
		switch {
		case strings.HasPrefix(rest, "--"):
			idx := strings.IndexByte(rest, '\n')
			if idx < 0 {
				return ""
			}
			rest = strings.TrimSpace(rest[idx+1:])
		case strings.HasPrefix(rest, "/*"):
			idx := strings.Index(rest, "*/")
			if idx < 0 {
				return ""
			}
			rest = strings.TrimSpace(rest[idx+2:])
		default:
			return rest
		}
	}
}
