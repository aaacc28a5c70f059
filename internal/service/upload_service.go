package service

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"yuzu/internal/config"
	"yuzu/internal/pkg/youtube"
	"yuzu/internal/repository/checkpoint"
)

// UploadService 消费上传台账，把完成的运行发布到 YouTube
type UploadService struct {
	cfg      *config.Config
	registry *youtube.Registry
}

// NewUploadService 创建上传服务
func NewUploadService(cfg *config.Config) (*UploadService, error) {
	if cfg.Upload.RegistryFile == "" {
		return nil, fmt.Errorf("upload.registry_file is required")
	}
	return &UploadService{
		cfg:      cfg,
		registry: youtube.NewRegistry(cfg.Upload.RegistryFile),
	}, nil
}

// UploadRun 上传单次运行的成片与缩略图，成功后从台账移除
// 台账条目可覆盖描述模板与 client secrets 路径
func (s *UploadService) UploadRun(ctx context.Context, runID string) (string, error) {
	entry, ok, err := s.registry.Get(runID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("run %s is not registered for upload", runID)
	}

	paths := checkpoint.NewPaths(s.cfg.Output.Root, runID)
	m, err := checkpoint.NewManuscriptStore(paths).Load()
	if err != nil {
		return "", fmt.Errorf("load manuscript for %s: %w", runID, err)
	}

	if entry.DescriptionTemplateFile != "" {
		desc, err := os.ReadFile(entry.DescriptionTemplateFile)
		if err != nil {
			return "", fmt.Errorf("read description template: %w", err)
		}
		m.Overview = string(desc)
	}

	uploadCfg := s.cfg.Upload
	if entry.ClientSecretsFile != "" {
		uploadCfg.ClientSecretsFile = entry.ClientSecretsFile
	}

	videoID, err := youtube.NewUploader(&uploadCfg).Upload(ctx, paths.Movie(), paths.Thumbnail(), m)
	if err != nil {
		return "", err
	}

	if err := s.registry.Remove(runID); err != nil {
		return videoID, err
	}
	return videoID, nil
}

// UploadReady 上传台账中所有就绪的运行
// 单个失败不中断其余上传，最后汇总返回首个错误
func (s *UploadService) UploadReady(ctx context.Context) error {
	ids, err := s.registry.ReadyIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		log.Info().Msg("no runs ready for upload")
		return nil
	}

	var firstErr error
	for _, runID := range ids {
		videoID, err := s.UploadRun(ctx, runID)
		if err != nil {
			log.Error().Err(err).Str("run_id", runID).Msg("upload failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Info().Str("run_id", runID).Str("video_id", videoID).Msg("run uploaded")
	}
	return firstErr
}
