package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/tts"
	"yuzu/internal/repository/checkpoint"
)

type fakeSynth struct {
	calls  []string // "voiceID:text"
	failOn string   // 该文本合成失败
}

func (f *fakeSynth) Synthesize(_ context.Context, text, voiceID string) ([]byte, error) {
	if text == f.failOn {
		return nil, errors.New("tts unavailable")
	}
	f.calls = append(f.calls, voiceID+":"+text)
	return []byte("RIFF-fake-" + text), nil
}

func testRoster() []tts.Voice {
	return []tts.Voice{
		{ID: "voice_w1", Gender: video.GenderWoman},
		{ID: "voice_m1", Gender: video.GenderMan},
		{ID: "voice_w2", Gender: video.GenderWoman},
	}
}

func manuscriptWith(speakers ...string) *video.Manuscript {
	m := &video.Manuscript{Title: "タイトル"}
	for i, s := range speakers {
		m.Contents = append(m.Contents, video.Content{
			SpeakerID: s,
			Text:      fmt.Sprintf("コメント%d", i),
		})
	}
	return m
}

func TestAudioGenerator(t *testing.T) {
	Convey("配音阶段", t, func() {
		dir := t.TempDir()
		paths := checkpoint.NewPaths(dir, "run-1")
		store := checkpoint.NewAudioStore(paths)
		synth := &fakeSynth{}

		Convey("产物与原稿行一一对应且顺序一致", func() {
			g := NewGenerator(Options{Roster: testRoster()}, synth, store, paths)
			m := manuscriptWith("ID:a", "ID:b", "ID:a")

			audio, err := g.Generate(context.Background(), m)
			So(err, ShouldBeNil)
			So(len(audio.ContentDetails), ShouldEqual, 3)
			for i, d := range audio.ContentDetails {
				So(d.Transcript, ShouldEqual, m.Contents[i].Text)
				So(d.WavFilePath, ShouldEqual, paths.WavFile(i))
				_, statErr := os.Stat(d.WavFilePath)
				So(statErr, ShouldBeNil)
			}
		})

		Convey("音色按话者首次出现顺序 round-robin 分配", func() {
			g := NewGenerator(Options{Roster: testRoster()}, synth, store, paths)
			m := manuscriptWith("ID:b", "ID:a", "ID:b", "ID:c", "ID:d")

			audio, err := g.Generate(context.Background(), m)
			So(err, ShouldBeNil)
			// 首次出现顺序: b, a, c, d → voice_w1, voice_m1, voice_w2, voice_w1
			So(audio.ContentDetails[0].SpeakerID, ShouldEqual, "voice_w1")
			So(audio.ContentDetails[1].SpeakerID, ShouldEqual, "voice_m1")
			So(audio.ContentDetails[2].SpeakerID, ShouldEqual, "voice_w1") // 与第0行同话者
			So(audio.ContentDetails[3].SpeakerID, ShouldEqual, "voice_w2")
			So(audio.ContentDetails[4].SpeakerID, ShouldEqual, "voice_w1") // 名单循环
			So(audio.ContentDetails[0].SpeakerGender, ShouldEqual, video.GenderWoman)
			So(audio.ContentDetails[1].SpeakerGender, ShouldEqual, video.GenderMan)
		})

		Convey("固定音色模式下所有行同一音色", func() {
			g := NewGenerator(Options{Roster: testRoster(), PinnedVoice: "voice_m1"}, synth, store, paths)
			m := manuscriptWith("ID:a", "ID:b", "ID:c")

			audio, err := g.Generate(context.Background(), m)
			So(err, ShouldBeNil)
			for _, d := range audio.ContentDetails {
				So(d.SpeakerID, ShouldEqual, "voice_m1")
			}
		})

		Convey("概要旁白先于正文合成且使用女声", func() {
			g := NewGenerator(Options{Roster: testRoster()}, synth, store, paths)
			m := manuscriptWith("ID:a")
			m.Overview = "今日の動画では猫を紹介します。"

			audio, err := g.Generate(context.Background(), m)
			So(err, ShouldBeNil)
			So(audio.OverviewDetail, ShouldNotBeNil)
			So(audio.OverviewDetail.SpeakerID, ShouldEqual, "voice_w1")
			So(audio.OverviewDetail.WavFilePath, ShouldEqual, paths.OverviewWav())
			So(synth.calls[0], ShouldEqual, "voice_w1:今日の動画では猫を紹介します。")
		})

		Convey("某行失败时整个阶段失败，错误携带台词", func() {
			synth.failOn = "コメント1"
			g := NewGenerator(Options{Roster: testRoster()}, synth, store, paths)
			m := manuscriptWith("ID:a", "ID:b", "ID:c")

			_, err := g.Generate(context.Background(), m)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "コメント1")

			// 已完成的行保留在检查点中
			saved, loadErr := store.Load()
			So(loadErr, ShouldBeNil)
			So(len(saved.ContentDetails), ShouldEqual, 1)
		})

		Convey("Skip 从检查点装载既有产物", func() {
			g := NewGenerator(Options{Roster: testRoster()}, synth, store, paths)
			m := manuscriptWith("ID:a", "ID:b")
			generated, err := g.Generate(context.Background(), m)
			So(err, ShouldBeNil)

			loaded, err := g.Skip(context.Background())
			So(err, ShouldBeNil)
			So(loaded, ShouldResemble, generated)
		})

		Convey("无检查点时 Skip 返回 ErrNotFound", func() {
			missing := checkpoint.NewAudioStore(checkpoint.NewPaths(dir, "nonexistent"))
			g := NewGenerator(Options{Roster: testRoster()}, synth, missing, paths)
			_, err := g.Skip(context.Background())
			So(errors.Is(err, checkpoint.ErrNotFound), ShouldBeTrue)
		})
	})
}
