package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"yuzu/internal/service"
)

var uploadRunID string

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload finished runs to YouTube",
	Long: `Upload videos from the upload registry to YouTube.
Without --run-id every ready registry entry is uploaded; entries become
ready once their description template and client secrets paths are filled in.`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadRunID, "run-id", "", "upload a single registered run")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	svc, err := service.NewUploadService(cfg)
	if err != nil {
		return fmt.Errorf("failed to create upload service: %w", err)
	}

	ctx := context.Background()
	if uploadRunID != "" {
		videoID, err := svc.UploadRun(ctx, uploadRunID)
		if err != nil {
			return err
		}
		log.Info().Str("run_id", uploadRunID).Str("video_id", videoID).Msg("run uploaded")
		return nil
	}
	return svc.UploadReady(ctx)
}
