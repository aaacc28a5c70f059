package cmd

import (
	"github.com/spf13/cobra"

	"yuzu/internal/service"
)

var triviaCmd = &cobra.Command{
	Use:   "trivia",
	Short: "Generate a trivia video",
	Long:  `Have the LLM write a list of trivia facts for the configured themes and produce a single-narrator video.`,
	RunE:  runTrivia,
}

func init() {
	rootCmd.AddCommand(triviaCmd)
	addRunFlags(triviaCmd)
}

func runTrivia(cmd *cobra.Command, args []string) error {
	return executeRun(service.VariantTrivia, "")
}
