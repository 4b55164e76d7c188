package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scriptbench",
	Short: "Scriptbench - performance and security benchmarking for uploaded scripts",
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
