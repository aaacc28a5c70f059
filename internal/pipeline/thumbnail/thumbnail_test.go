package thumbnail

import (
	"context"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	. "github.com/smartystreets/goconvey/convey"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/assets"
	"yuzu/internal/pkg/textwrap"
	"yuzu/internal/repository/checkpoint"
)

// writePNG 生成一张纯色测试图片
func writePNG(t *testing.T, path string, w, h int) string {
	t.Helper()
	dc := gg.NewContext(w, h)
	dc.SetRGB(0.2, 0.4, 0.6)
	dc.Clear()
	if err := dc.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertPNGSize(path string, w, h int) {
	f, err := os.Open(path)
	So(err, ShouldBeNil)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	So(err, ShouldBeNil)
	So(cfg.Width, ShouldEqual, w)
	So(cfg.Height, ShouldEqual, h)
}

func TestBoardGenerator(t *testing.T) {
	Convey("素材拼贴缩略图", t, func() {
		dir := t.TempDir()
		paths := checkpoint.NewPaths(dir, "run-1")

		background := writePNG(t, filepath.Join(dir, "navy_bg.png"), 200, 300)
		character := writePNG(t, filepath.Join(dir, "man_a.png"), 100, 100)
		selector := assets.NewSelectorFromPools(
			[]string{character}, []string{character},
			[]string{background}, []string{"bgm.mp3"}, []string{"bgv.mp4"},
			rand.New(rand.NewSource(1)))

		opts := Options{Width: 216, Height: 384, TitleFontSize: 30}
		g := NewBoardGenerator(opts, paths, selector, textwrap.New())

		Convey("写出原始尺寸与半尺寸两份", func() {
			m := &video.Manuscript{Title: "猫がかわいいスレまとめ"}
			err := g.Generate(context.Background(), m)
			So(err, ShouldBeNil)

			assertPNGSize(paths.ThumbnailOriginal(), 216, 384)
			assertPNGSize(paths.Thumbnail(), 108, 192)
		})

		Convey("背景图缺失时报错", func() {
			broken := assets.NewSelectorFromPools(
				[]string{character}, []string{character},
				[]string{filepath.Join(dir, "missing.png")},
				[]string{"bgm.mp3"}, []string{"bgv.mp4"},
				rand.New(rand.NewSource(1)))
			g := NewBoardGenerator(opts, paths, broken, textwrap.New())
			err := g.Generate(context.Background(), &video.Manuscript{Title: "タイトル"})
			So(err, ShouldNotBeNil)
		})

		Convey("Skip 不做任何事", func() {
			So(g.Skip(), ShouldBeNil)
		})
	})
}

type stubImageMaker struct {
	keywords []string
	size     string
}

func (s *stubImageMaker) GenerateFromKeywords(_ context.Context, keywords []string, imagePath, size string) error {
	s.keywords = keywords
	s.size = size
	dc := gg.NewContext(64, 64)
	dc.SetRGB(0.9, 0.9, 0.2)
	dc.Clear()
	if err := os.MkdirAll(filepath.Dir(imagePath), 0o755); err != nil {
		return err
	}
	return dc.SavePNG(imagePath)
}

func TestGeneratedGenerator(t *testing.T) {
	Convey("生成式缩略图", t, func() {
		dir := t.TempDir()
		paths := checkpoint.NewPaths(dir, "run-2")
		maker := &stubImageMaker{}

		opts := Options{Width: 1080, Height: 1920, TitleFontSize: 150}
		g := NewGeneratedGenerator(opts, paths, maker, textwrap.New())

		Convey("关键词传给图片提供者并写出两份封面", func() {
			m := &video.Manuscript{
				Title:    "世界の雑学まとめ",
				Keywords: []string{"雑学", "世界"},
			}
			err := g.Generate(context.Background(), m)
			So(err, ShouldBeNil)

			So(maker.keywords, ShouldResemble, []string{"雑学", "世界"})
			So(maker.size, ShouldEqual, "1024x1024")
			assertPNGSize(paths.ThumbnailOriginal(), 1080, 1920)
			assertPNGSize(paths.Thumbnail(), 540, 960)
		})
	})
}

func TestTitleColor(t *testing.T) {
	Convey("标题颜色随背景深浅切换", t, func() {
		gold := [3]float64{1, 215.0 / 255, 0}
		navy := [3]float64{0, 0, 128.0 / 255}
		So(titleColor("material/background/navy_sky.png"), ShouldResemble, gold)
		So(titleColor("material/background/black.png"), ShouldResemble, gold)
		So(titleColor("material/background/blue_sea.png"), ShouldResemble, gold)
		So(titleColor("material/background/sakura.png"), ShouldResemble, navy)
	})
}
