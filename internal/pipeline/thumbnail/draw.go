package thumbnail

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// loadFontFace 加载标题字体。路径为空时返回 nil，绘制端回落到 gg 内置字体。
func loadFontFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	tt, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return truetype.NewFace(tt, &truetype.Options{Size: size}), nil
}

// drawImageFit 把图片缩放到指定尺寸后绘制在 (x, y)
func drawImageFit(dc *gg.Context, img image.Image, x, y, width, height float64) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	dc.Push()
	dc.Translate(x, y)
	dc.Scale(width/float64(bounds.Dx()), height/float64(bounds.Dy()))
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// drawOutlinedString 带白色描边的标题文字，(x, y) 为基线位置
func drawOutlinedString(dc *gg.Context, text string, x, y float64, fill [3]float64) {
	const outlineWidth = 2
	dc.SetRGB(1, 1, 1)
	for dx := -outlineWidth; dx <= outlineWidth; dx++ {
		for dy := -outlineWidth; dy <= outlineWidth; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			dc.DrawString(text, x+float64(dx), y+float64(dy))
		}
	}
	dc.SetRGB(fill[0], fill[1], fill[2])
	dc.DrawString(text, x, y)
}

// titleColor 根据背景文件名选择标题颜色：深色背景用金色，否则用藏青色
func titleColor(backgroundPath string) [3]float64 {
	for _, dark := range []string{"navy", "black", "blue"} {
		if strings.Contains(backgroundPath, dark) {
			return [3]float64{1, 215.0 / 255, 0} // gold
		}
	}
	return [3]float64{0, 0, 128.0 / 255} // navy
}

// saveWithMini 保存原始尺寸与半尺寸两份。
// 原图供视频片头使用，半尺寸供平台上传用。
func saveWithMini(img image.Image, originalPath, miniPath string) error {
	if err := os.MkdirAll(filepath.Dir(originalPath), 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir: %w", err)
	}
	if err := gg.SavePNG(originalPath, img); err != nil {
		return fmt.Errorf("save thumbnail original: %w", err)
	}

	bounds := img.Bounds()
	mini := gg.NewContext(bounds.Dx()/2, bounds.Dy()/2)
	mini.Scale(0.5, 0.5)
	mini.DrawImage(img, 0, 0)
	if err := mini.SavePNG(miniPath); err != nil {
		return fmt.Errorf("save thumbnail mini: %w", err)
	}
	return nil
}
