package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/scriptbench/scriptbench/security"
)

var (
	analyzeType string
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run the static security analysis on a single script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		filetype := analyzeType
		if filetype == "" {
			filetype = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		}

		rep := security.GenerateReport(path, filetype)

		if analyzeJSON {
			encoded, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(encoded))
		} else {
			renderReport(path, rep)
		}

		if rep.Err == "" && rep.RiskLevel == security.RiskHigh {
			os.Exit(1)
		}
		return nil
	},
}

func renderReport(path string, rep security.Report) {
	pterm.DefaultSection.Printfln("Security Report: %s", filepath.Base(path))

	if rep.Err != "" {
		pterm.Error.Println(rep.Err)
		if rep.RiskLevel == "" {
			return
		}
	}

	table := pterm.TableData{
		{"Security Score", "Risk Level", "Vulnerabilities"},
		{strconv.Itoa(rep.Score), string(rep.RiskLevel), strconv.Itoa(rep.VulnerabilityCount)},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(table).Render(); err != nil {
		pterm.Error.Println(err)
	}

	if len(rep.Issues) == 0 {
		pterm.Success.Println("No security issues found")
		return
	}

	pterm.Println()
	for _, issue := range rep.Issues {
		switch rep.RiskLevel {
		case security.RiskHigh:
			pterm.Error.Println(issue)
		case security.RiskMedium:
			pterm.Warning.Println(issue)
		default:
			pterm.Info.Println(issue)
		}
	}
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeType, "type", "t", "", "File type (py or sql, default from extension)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Emit the report as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
