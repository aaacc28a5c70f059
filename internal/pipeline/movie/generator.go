// Package movie 视频合成阶段：把脚本与配音排布到时间轴上，交给渲染器出片。
package movie

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/assets"
	"yuzu/internal/pkg/ffmpeg"
	"yuzu/internal/pkg/textwrap"
	"yuzu/internal/repository/checkpoint"
)

// Renderer 把合成计划渲染为成片，由 FFmpeg 客户端实现
type Renderer interface {
	Render(ctx context.Context, comp *ffmpeg.Composition, outputPath string) error
}

// ImageMaker 逐行配图变体所需的图片生成器
type ImageMaker interface {
	GenerateFromText(ctx context.Context, text, imagePath, size string) error
}

// Generator 视频合成阶段
type Generator struct {
	opts     Options
	paths    checkpoint.Paths
	selector *assets.Selector
	wrapper  *textwrap.Wrapper
	renderer Renderer
	images   ImageMaker // 仅 ImageryGenerated 变体使用
}

// NewGenerator 创建视频合成阶段
func NewGenerator(opts Options, paths checkpoint.Paths, selector *assets.Selector, wrapper *textwrap.Wrapper, renderer Renderer, images ImageMaker) *Generator {
	return &Generator{
		opts:     opts,
		paths:    paths,
		selector: selector,
		wrapper:  wrapper,
		renderer: renderer,
		images:   images,
	}
}

// Generate 构建时间轴并渲染成片，已存在的成片直接覆盖
func (g *Generator) Generate(ctx context.Context, m *video.Manuscript, a *video.Audio) error {
	if g.opts.Imagery == ImageryGenerated && g.images == nil {
		return fmt.Errorf("generated imagery variant requires an image maker")
	}

	comp, err := g.buildComposition(ctx, m, a)
	if err != nil {
		return fmt.Errorf("build composition: %w", err)
	}

	outputPath := g.paths.Movie()
	if err := g.renderer.Render(ctx, comp, outputPath); err != nil {
		return fmt.Errorf("render movie: %w", err)
	}

	log.Info().
		Str("path", outputPath).
		Float64("duration", comp.Duration).
		Msg("movie generated")
	return nil
}

// Skip 恢复运行时跳过本阶段。成片是终端产物，无需重新装载。
func (g *Generator) Skip() error {
	log.Info().Str("path", g.paths.Movie()).Msg("movie stage skipped")
	return nil
}
