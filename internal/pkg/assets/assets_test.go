package assets

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"yuzu/internal/config"
	"yuzu/internal/model/video"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNewSelector(t *testing.T) {
	Convey("从目录构建素材池", t, func() {
		root := t.TempDir()
		dirs := map[string]string{}
		for _, name := range []string{"man", "woman", "bg", "bgm", "bgv"} {
			dir := filepath.Join(root, name)
			So(os.MkdirAll(dir, 0o755), ShouldBeNil)
			dirs[name] = dir
		}
		writeFiles(t, dirs["man"], "m1.png", "m2.png", ".gitkeep")
		writeFiles(t, dirs["woman"], "w1.png")
		writeFiles(t, dirs["bg"], "b1.png")
		writeFiles(t, dirs["bgm"], "music.mp3")
		writeFiles(t, dirs["bgv"], "loop.mp4")

		cfg := &config.AssetsConfig{
			ManImageDir:   dirs["man"],
			WomanImageDir: dirs["woman"],
			BackgroundDir: dirs["bg"],
			BGMDir:        dirs["bgm"],
			BGVDir:        dirs["bgv"],
		}

		s, err := NewSelector(cfg, rand.New(rand.NewSource(1)))
		So(err, ShouldBeNil)

		Convey("隐藏文件不入池", func() {
			So(len(s.manImages), ShouldEqual, 2)
		})

		Convey("空池报错", func() {
			empty := filepath.Join(root, "empty")
			So(os.MkdirAll(empty, 0o755), ShouldBeNil)
			cfg.BGMDir = empty
			_, err := NewSelector(cfg, rand.New(rand.NewSource(1)))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRandomCharacterImageExcept(t *testing.T) {
	Convey("立绘选取的不重复规则", t, func() {
		rng := rand.New(rand.NewSource(42))

		Convey("多张候选时与上一张不同", func() {
			s := NewSelectorFromPools(
				[]string{"m1", "m2", "m3"}, []string{"w1", "w2"},
				nil, nil, nil, rng)
			for i := 0; i < 50; i++ {
				So(s.RandomCharacterImageExcept(video.GenderMan, "m2"), ShouldNotEqual, "m2")
			}
		})

		Convey("池中只有一张时接受立即重复", func() {
			s := NewSelectorFromPools(
				[]string{"only"}, []string{"w1"},
				nil, nil, nil, rng)
			So(s.RandomCharacterImageExcept(video.GenderMan, "only"), ShouldEqual, "only")
		})

		Convey("性别决定取哪个池", func() {
			s := NewSelectorFromPools(
				[]string{"m1"}, []string{"w1"},
				nil, nil, nil, rng)
			So(s.RandomCharacterImage(video.GenderWoman), ShouldEqual, "w1")
			So(s.RandomCharacterImage(video.GenderMan), ShouldEqual, "m1")
		})
	})
}
