package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"yuzu/internal/repository/checkpoint"
)

// contentTypes 归档产物的 MIME 类型
var contentTypes = map[string]string{
	".json": "application/json",
	".png":  "image/png",
	".mp4":  "video/mp4",
	".wav":  "audio/wav",
}

// Publisher 把一次运行的产物归档到存储
type Publisher struct {
	store Storage
}

// NewPublisher 创建产物归档器
func NewPublisher(store Storage) *Publisher {
	return &Publisher{store: store}
}

// PublishRun 归档一次成功运行的核心产物（成片、封面、两个检查点）。
// 返回 产物文件名 -> 访问URL 的映射。缺失的产物整体失败，不做部分归档。
func (p *Publisher) PublishRun(ctx context.Context, paths checkpoint.Paths, runID string) (map[string]string, error) {
	artifacts := []string{
		paths.Movie(),
		paths.Thumbnail(),
		paths.ThumbnailOriginal(),
		paths.Manuscript(),
		paths.Audio(),
	}

	urls := make(map[string]string, len(artifacts))
	for _, artifact := range artifacts {
		name := filepath.Base(artifact)
		file, err := os.Open(artifact)
		if err != nil {
			return nil, fmt.Errorf("open artifact %s: %w", artifact, err)
		}

		key := path.Join(runID, name)
		url, err := p.store.Upload(ctx, key, file, contentTypeFor(name))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("publish artifact %s: %w", name, err)
		}
		urls[name] = url
	}

	log.Info().
		Str("run_id", runID).
		Str("storage", p.store.Type()).
		Int("artifacts", len(urls)).
		Msg("run artifacts published")
	return urls, nil
}

func contentTypeFor(name string) string {
	if ct, ok := contentTypes[filepath.Ext(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}
