package security

import "regexp"

// MatchKind selects how a signature's patterns are applied to source text.
type MatchKind int

const (
	MatchSubstring MatchKind = iota
	MatchRegex
)

// Signature is one declarative detection rule. PerPattern rules emit a
// finding for every pattern that matches; otherwise a single finding fires
// when any pattern does, no matter how many match.
type Signature struct {
	ID         string
	Kind       MatchKind
	Patterns   []string
	Regex      *regexp.Regexp // set for MatchRegex signatures
	FoldCase   bool           // uppercase the content before substring matching
	PerPattern bool
	Label      string // %s receives the matched pattern when PerPattern
	Penalty    int
}

// dangerousPythonFunctions is shared by the text pass and the structural
// pass. The structural pass only ever matches the unqualified names, so the
// dotted entries can never fire there.
var dangerousPythonFunctions = []string{
	"eval",
	"exec",
	"pickle.loads",
	"os.system",
	"subprocess.call",
}

var (
	credentialAssignment = regexp.MustCompile(`(?i)(password|passwd|secret|key)\s*=\s*['"][^'"]+['"]`)
	sqlInjectionConcat   = regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE).*(\+|\|\|).*(input|argv|getenv)`)
)

// pythonSignatures is the fixed text-level catalog for Python uploads, in
// evaluation order.
var pythonSignatures = []Signature{
	{
		ID:         "py-dangerous-function",
		Kind:       MatchSubstring,
		Patterns:   dangerousPythonFunctions,
		PerPattern: true,
		Label:      "Dangerous function used: %s",
		Penalty:    10,
	},
	{
		ID:       "py-command-injection",
		Kind:     MatchSubstring,
		Patterns: []string{"system(input", "system(argv", "system(getenv"},
		Label:    "Potential command injection vulnerability",
		Penalty:  15,
	},
	{
		ID:      "py-hardcoded-credentials",
		Kind:    MatchRegex,
		Regex:   credentialAssignment,
		Label:   "Hardcoded credentials detected",
		Penalty: 20,
	},
}

// sqlSignatures is the fixed text-level catalog for SQL uploads, in
// evaluation order.
var sqlSignatures = []Signature{
	{
		ID:      "sql-injection",
		Kind:    MatchRegex,
		Regex:   sqlInjectionConcat,
		Label:   "Potential SQL injection vulnerability",
		Penalty: 30,
	},
	{
		ID:       "sql-dynamic-exec",
		Kind:     MatchSubstring,
		FoldCase: true,
		Patterns: []string{"EXEC(", "EXECUTE IMMEDIATE"},
		Label:    "Dynamic SQL execution detected",
		Penalty:  20,
	},
	{
		ID:         "sql-sensitive-operation",
		Kind:       MatchSubstring,
		FoldCase:   true,
		PerPattern: true,
		Patterns:   []string{"DROP TABLE", "TRUNCATE TABLE", "GRANT ALL", "ALTER USER"},
		Label:      "Sensitive operation: %s",
		Penalty:    15,
	},
}

const (
	structuralCallLabel   = "Dangerous function call: %s at line %d"
	structuralCallPenalty = 10

	malformedStatementLabel   = "Potentially malformed SQL statement"
	malformedStatementPenalty = 10
)
