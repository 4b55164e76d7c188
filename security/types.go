package security

// RiskLevel is the coarse classification derived from the final score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Finding is one concrete detection produced by applying a signature to a
// file. Line is 1-based and zero for findings with no source position.
type Finding struct {
	Label   string
	Line    int
	Penalty int
}

// Report is the normalized security assessment for one uploaded file. A
// fresh report is built on every analysis; it is never cached or mutated
// after return.
type Report struct {
	Issues             []string  `json:"security_issues"`
	VulnerabilityCount int       `json:"vulnerability_count"`
	Score              int       `json:"security_score"`
	RiskLevel          RiskLevel `json:"risk_level,omitempty"`
	Err                string    `json:"error,omitempty"`
}
