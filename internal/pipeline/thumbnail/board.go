// Package thumbnail 缩略图阶段：从脚本标题与素材合成封面图。
package thumbnail

import (
	"context"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog/log"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/assets"
	"yuzu/internal/pkg/textwrap"
	"yuzu/internal/repository/checkpoint"
)

// Options 缩略图画布参数
type Options struct {
	Width         int
	Height        int
	TitleFontSize int
	FontPath      string
}

// titleLineCapacity 标题单行容纳的字符数
func (o Options) titleLineCapacity() int {
	n := o.Width / o.TitleFontSize
	if n < 1 {
		n = 1
	}
	return n
}

// BoardGenerator 素材拼贴变体：随机背景 + 角色立绘 + 描边标题
type BoardGenerator struct {
	opts     Options
	paths    checkpoint.Paths
	selector *assets.Selector
	wrapper  *textwrap.Wrapper
}

// NewBoardGenerator 创建素材拼贴缩略图阶段
func NewBoardGenerator(opts Options, paths checkpoint.Paths, selector *assets.Selector, wrapper *textwrap.Wrapper) *BoardGenerator {
	return &BoardGenerator{opts: opts, paths: paths, selector: selector, wrapper: wrapper}
}

// Generate 合成封面并写出原始尺寸与半尺寸两份
func (g *BoardGenerator) Generate(ctx context.Context, m *video.Manuscript) error {
	width, height := g.opts.Width, g.opts.Height
	dc := gg.NewContext(width, height)

	backgroundPath := g.selector.RandomBackground()
	background, err := gg.LoadImage(backgroundPath)
	if err != nil {
		return fmt.Errorf("load background %s: %w", backgroundPath, err)
	}
	drawImageFit(dc, background, 0, 0, float64(width), float64(height))

	// 角色立绘贴在左下角
	characterPath := g.selector.RandomCharacterImageAny()
	character, err := gg.LoadImage(characterPath)
	if err != nil {
		return fmt.Errorf("load character image %s: %w", characterPath, err)
	}
	charWidth := float64(width) * 0.6
	charHeight := float64(height) * 0.5
	drawImageFit(dc, character, 0, float64(height)-charHeight, charWidth, charHeight)

	if err := g.drawTitle(dc, m.Title, backgroundPath); err != nil {
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

// drawTitle 标题按分词边界折行后自顶向下居中描绘
func (g *BoardGenerator) drawTitle(dc *gg.Context, title, backgroundPath string) error {
	face, err := loadFontFace(g.opts.FontPath, float64(g.opts.TitleFontSize))
	if err != nil {
		return err
	}
	if face != nil {
		dc.SetFontFace(face)
	}

	fill := titleColor(backgroundPath)
	lines := g.wrapper.Wrap(title, g.opts.titleLineCapacity())
	y := 40.0
	for _, line := range lines {
		lineWidth, lineHeight := dc.MeasureString(line)
		x := (float64(g.opts.Width) - lineWidth) / 2
		drawOutlinedString(dc, line, x, y+lineHeight, fill)
		y += lineHeight + 40
	}
	return nil
}

// Skip 恢复运行时跳过本阶段，封面沿用磁盘上已有的文件
func (g *BoardGenerator) Skip() error {
	log.Info().Str("path", g.paths.Thumbnail()).Msg("thumbnail stage skipped")
	return nil
}
