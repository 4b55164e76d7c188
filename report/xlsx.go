package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/scriptbench/scriptbench/harness"
	"github.com/scriptbench/scriptbench/security"
)

const (
	performanceSheet = "PerformanceReport"
	combinedSheet    = "CombinedReport"
	signupSheet      = "Signups"
)

var performanceHeaders = []interface{}{
	"Filename", "Execution Time (sec)", "Peak Memory (MB)",
	"Response Time (ms)", "Throughput (RPS)", "Timestamp",
}

// Writer renders run results into per-user xlsx workbooks under a reports
// directory.
type Writer struct {
	reportsDir string
}

func NewWriter(reportsDir string) *Writer {
	return &Writer{reportsDir: reportsDir}
}

// AppendPerformance appends one run to the user's history workbook,
// creating the workbook with styled headers on first use.
func (w *Writer) AppendPerformance(username string, res *harness.Result) error {
	if err := os.MkdirAll(w.reportsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	path := filepath.Join(w.reportsDir, username+"_report.xlsx")

	f, err := openOrCreate(path, performanceSheet)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(performanceSheet)
	if err != nil {
		return fmt.Errorf("failed to read report rows: %w", err)
	}

	cell := fmt.Sprintf("A%d", len(rows)+1)
	row := []interface{}{
		res.Filename,
		round4(res.ExecTime),
		round2(res.PeakMemoryMB),
		res.ResponseTime,
		res.Throughput,
		time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := f.SetSheetRow(performanceSheet, cell, &row); err != nil {
		return fmt.Errorf("failed to append report row: %w", err)
	}
	return f.SaveAs(path)
}

// WriteCombined writes the combined performance and security workbook for
// the user's latest run, replacing any previous one.
func (w *Writer) WriteCombined(username string, res *harness.Result, sec security.Report) error {
	dir := filepath.Join(w.reportsDir, username)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, "combined_report.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", combinedSheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Performance Metrics"},
		performanceHeaders,
		{
			res.Filename,
			round4(res.ExecTime),
			round2(res.PeakMemoryMB),
			res.ResponseTime,
			res.Throughput,
			time.Now().Format("2006-01-02 15:04:05"),
		},
		{},
		{"Security Assessment"},
		{"Security Score", "Risk Level", "Vulnerability Count"},
		{sec.Score, string(sec.RiskLevel), sec.VulnerabilityCount},
		{},
		{"Security Issues Found"},
	}
	for _, issue := range sec.Issues {
		rows = append(rows, []interface{}{issue})
	}

	for i := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(combinedSheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write combined report row: %w", err)
		}
	}

	return f.SaveAs(path)
}

// LogSignup appends a signup row to the shared signup workbook.
func LogSignup(path, username string) error {
	f, err := openOrCreateWithHeaders(path, signupSheet, []interface{}{"Username", "Signup Time"})
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(signupSheet)
	if err != nil {
		return fmt.Errorf("failed to read signup log: %w", err)
	}

	cell := fmt.Sprintf("A%d", len(rows)+1)
	row := []interface{}{username, time.Now().Format("2006-01-02 15:04:05")}
	if err := f.SetSheetRow(signupSheet, cell, &row); err != nil {
		return fmt.Errorf("failed to append signup row: %w", err)
	}
	return f.SaveAs(path)
}

func openOrCreate(path, sheet string) (*excelize.File, error) {
	return openOrCreateWithHeaders(path, sheet, performanceHeaders)
}

func openOrCreateWithHeaders(path, sheet string, headers []interface{}) (*excelize.File, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
		}
		return f, nil
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		f.Close()
		return nil, err
	}
	if err := styleHeaders(f, sheet, len(headers)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// styleHeaders bolds, centers and borders the header row, matching the
// layout history consumers expect.
func styleHeaders(f *excelize.File, sheet string, width int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Style: 1, Color: "000000"},
			{Type: "right", Style: 1, Color: "000000"},
			{Type: "top", Style: 1, Color: "000000"},
			{Type: "bottom", Style: 1, Color: "000000"},
		},
	})
	if err != nil {
		return err
	}

	end, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, style)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
