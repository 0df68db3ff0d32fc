package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabletalk-ai/tabletalk/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tabletalk",
	Short: "Ask natural-language questions about tabular data",
	Long: `tabletalk makes tabular datasets conversational. A question is turned
into a script by an LLM, the script is sanitized and executed in a
restricted environment against the real data, and the computed answer
is returned.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("tabletalk %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
