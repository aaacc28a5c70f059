package cmd

import (
	"github.com/spf13/cobra"

	"yuzu/internal/service"
)

var bulletinURL string

var bulletinCmd = &cobra.Command{
	Use:   "bulletin",
	Short: "Generate a video from a bulletin board thread",
	Long:  `Fetch a 5ch thread, distill it into a manuscript and produce a narrated video.`,
	RunE:  runBulletin,
}

func init() {
	rootCmd.AddCommand(bulletinCmd)

	addRunFlags(bulletinCmd)
	bulletinCmd.Flags().StringVar(&bulletinURL, "url", "", "thread URL (required unless resuming)")
}

func runBulletin(cmd *cobra.Command, args []string) error {
	return executeRun(service.VariantBulletin, bulletinURL)
}
