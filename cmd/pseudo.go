package cmd

import (
	"github.com/spf13/cobra"

	"yuzu/internal/service"
)

var pseudoCmd = &cobra.Command{
	Use:   "pseudo",
	Short: "Generate a video from an LLM-written thread",
	Long:  `Pick a theme from the configured topics table, have the LLM write a thread-style conversation and produce a narrated video.`,
	RunE:  runPseudo,
}

func init() {
	rootCmd.AddCommand(pseudoCmd)
	addRunFlags(pseudoCmd)
}

func runPseudo(cmd *cobra.Command, args []string) error {
	return executeRun(service.VariantPseudo, "")
}
