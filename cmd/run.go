package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"yuzu/internal/service"
)

var (
	runFormat     string
	runResumeID   string
	runResumeStep string
)

// addRunFlags 三个生成子命令共用的标志
func addRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&runFormat, "format", service.FormatShort, "video format (short/long/generated)")
	flags.StringVar(&runResumeID, "resume-id", "", "run id of a previous run to resume")
	flags.StringVar(&runResumeStep, "resume-step", "", "stage to resume from (manuscript/audio/thumbnail/movie)")
}

// executeRun 校验配置、装配服务并同步执行一次生成
func executeRun(variant, sourceURL string) error {
	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	svc, err := service.NewRunService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create run service: %w", err)
	}

	runID, err := svc.Run(ctx, service.RunRequest{
		Variant:    variant,
		Format:     runFormat,
		SourceURL:  sourceURL,
		ResumeID:   runResumeID,
		ResumeStep: runResumeStep,
	})
	if err != nil {
		return err
	}

	log.Info().Str("run_id", runID).Msg("run completed")
	return nil
}
