package security

import (
	"fmt"

	"github.com/scriptbench/scriptbench/parser"
)

// NewReport returns a fresh report with a perfect starting score.
func NewReport() Report {
	return Report{
		Issues:    []string{},
		Score:     100,
		RiskLevel: RiskLow,
	}
}

// ClassifyRisk maps a final score onto the coarse risk tier. Ties go to the
// safer tier: a score of exactly 50 is Medium and exactly 80 is Low.
func ClassifyRisk(score int) RiskLevel {
	switch {
	case score < 50:
		return RiskHigh
	case score < 80:
		return RiskMedium
	default:
		return RiskLow
	}
}

// GenerateReport dispatches to the language-specific analysis pipeline.
// Unsupported file types produce a report carrying only an error; faults
// inside a pipeline are caught at this boundary and reported on the
// best-effort partial result rather than propagated.
func GenerateReport(path, filetype string) Report {
	switch filetype {
	case parser.LangPython:
		return analyzePython(path)
	case parser.LangSQL:
		return analyzeSQL(path)
	default:
		return Report{Err: "Unsupported file type for security analysis"}
	}
}

func analyzePython(path string) (report Report) {
	report = NewReport()
	defer catchAnalysisFault(&report)

	source, err := parser.ReadSourceFile(path)
	if err != nil {
		report.Err = analysisFailed(err)
		return report
	}

	report.apply(ScanText(string(source), pythonSignatures))
	report.apply(ScanTree(source))
	report.finalize()
	return report
}

func analyzeSQL(path string) (report Report) {
	report = NewReport()
	defer catchAnalysisFault(&report)

	source, err := parser.ReadSourceFile(path)
	if err != nil {
		report.Err = analysisFailed(err)
		return report
	}

	content := string(source)
	report.apply(ScanText(content, sqlSignatures))
	report.apply(scanStatements(content))
	report.finalize()
	return report
}

// apply records findings in discovery order: labels append to the issue
// list and penalties subtract from the score, with no floor clamp.
func (r *Report) apply(findings []Finding) {
	for _, f := range findings {
		r.Issues = append(r.Issues, f.Label)
		r.Score -= f.Penalty
	}
}

func (r *Report) finalize() {
	r.VulnerabilityCount = len(r.Issues)
	r.RiskLevel = ClassifyRisk(r.Score)
}

// catchAnalysisFault converts an unexpected fault in either scanner into an
// error on the report, preserving whatever had accumulated before it.
func catchAnalysisFault(report *Report) {
	if rec := recover(); rec != nil {
		report.Err = fmt.Sprintf("Security analysis failed: %v", rec)
	}
}

func analysisFailed(err error) string {
	return "Security analysis failed: " + err.Error()
}
