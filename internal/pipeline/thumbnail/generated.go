package thumbnail

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog/log"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/textwrap"
	"yuzu/internal/repository/checkpoint"
)

// generatedBackgroundSize 生成背景图在画布上的贴放边长
const generatedBackgroundSize = 1024

// ImageMaker 从关键词生成背景图的提供者
type ImageMaker interface {
	GenerateFromKeywords(ctx context.Context, keywords []string, imagePath, size string) error
}

// GeneratedGenerator 生成式变体：关键词出图贴在白底画布中央，标题排在图片上下
type GeneratedGenerator struct {
	opts    Options
	paths   checkpoint.Paths
	images  ImageMaker
	wrapper *textwrap.Wrapper
}

// NewGeneratedGenerator 创建生成式缩略图阶段
func NewGeneratedGenerator(opts Options, paths checkpoint.Paths, images ImageMaker, wrapper *textwrap.Wrapper) *GeneratedGenerator {
	return &GeneratedGenerator{opts: opts, paths: paths, images: images, wrapper: wrapper}
}

// Generate 生成背景图并合成封面，写出原始尺寸与半尺寸两份
func (g *GeneratedGenerator) Generate(ctx context.Context, m *video.Manuscript) error {
	backgroundPath := filepath.Join(g.paths.RunDir(), "original_background.png")
	if err := g.images.GenerateFromKeywords(ctx, m.Keywords, backgroundPath,
		fmt.Sprintf("%dx%d", generatedBackgroundSize, generatedBackgroundSize)); err != nil {
		return fmt.Errorf("generate thumbnail background: %w", err)
	}

	background, err := gg.LoadImage(backgroundPath)
	if err != nil {
		return fmt.Errorf("load generated background: %w", err)
	}

	width, height := g.opts.Width, g.opts.Height
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	xOffset := float64(width-generatedBackgroundSize) / 2
	yOffset := float64(height-generatedBackgroundSize) / 2
	drawImageFit(dc, background, xOffset, yOffset, generatedBackgroundSize, generatedBackgroundSize)

	if err := g.drawTitle(dc, m.Title, yOffset); err != nil {
		return err
	}

	if err := saveWithMini(dc.Image(), g.paths.ThumbnailOriginal(), g.paths.Thumbnail()); err != nil {
		return err
	}

	log.Info().
		Str("original", g.paths.ThumbnailOriginal()).
		Str("mini", g.paths.Thumbnail()).
		Msg("thumbnail generated")
	return nil
}

// drawTitle 首行排在图片上方，其余各行排在图片下方
func (g *GeneratedGenerator) drawTitle(dc *gg.Context, title string, yOffset float64) error {
	face, err := loadFontFace(g.opts.FontPath, float64(g.opts.TitleFontSize))
	if err != nil {
		return err
	}
	if face != nil {
		dc.SetFontFace(face)
	}
	dc.SetRGB(0, 0, 0)

	lines := g.wrapper.Wrap(title, g.opts.titleLineCapacity())
	if len(lines) == 0 {
		return nil
	}

	topWidth, _ := dc.MeasureString(lines[0])
	dc.DrawString(lines[0], (float64(g.opts.Width)-topWidth)/2, yOffset-20)

	yBottom := yOffset + generatedBackgroundSize + 20
	for _, line := range lines[1:] {
		lineWidth, lineHeight := dc.MeasureString(line)
		dc.DrawString(line, (float64(g.opts.Width)-lineWidth)/2, yBottom+lineHeight)
		yBottom += lineHeight + 10
	}
	return nil
}

// Skip 恢复运行时跳过本阶段
func (g *GeneratedGenerator) Skip() error {
	log.Info().Str("path", g.paths.Thumbnail()).Msg("thumbnail stage skipped")
	return nil
}
