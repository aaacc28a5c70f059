package checkpoint

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"yuzu/internal/model/video"
)

func TestManuscriptStoreRoundTrip(t *testing.T) {
	Convey("原稿检查点往返等价", t, func() {
		paths := NewPaths(t.TempDir(), "01890000-0000-7000-8000-000000000001")
		store := NewManuscriptStore(paths)

		m := &video.Manuscript{
			Title:    "今日のスレ",
			Overview: "今日の動画では最近の話題を紹介します。",
			Keywords: []string{"話題", "雑談", "まとめ", "スレ", "紹介"},
			Contents: []video.Content{
				{SpeakerID: "u1", Text: "一行目", Links: []string{"https://example.com"}},
				{SpeakerID: "u2", Text: "二行目"},
			},
			Meta: map[string]string{"type": "bulletin_board"},
		}
		So(store.Save(m), ShouldBeNil)

		got, err := store.Load()
		So(err, ShouldBeNil)
		So(got, ShouldResemble, m)
	})
}

func TestAudioStoreRoundTrip(t *testing.T) {
	Convey("音频检查点往返等价", t, func() {
		paths := NewPaths(t.TempDir(), "01890000-0000-7000-8000-000000000002")
		store := NewAudioStore(paths)

		a := &video.Audio{
			OverviewDetail: &video.Detail{
				WavFilePath:   paths.OverviewWav(),
				Transcript:    "概要です。",
				SpeakerID:     "voice-a",
				SpeakerGender: video.GenderWoman,
			},
			ContentDetails: []video.Detail{
				{WavFilePath: paths.WavFile(0), Transcript: "一行目", SpeakerID: "voice-a", SpeakerGender: video.GenderWoman},
				{WavFilePath: paths.WavFile(1), Transcript: "二行目", SpeakerID: "voice-b", SpeakerGender: video.GenderMan},
			},
		}
		So(store.Save(a), ShouldBeNil)

		got, err := store.Load()
		So(err, ShouldBeNil)
		So(got, ShouldResemble, a)
	})
}

func TestLoadMissingCheckpoint(t *testing.T) {
	Convey("不存在的检查点返回 ErrNotFound", t, func() {
		paths := NewPaths(t.TempDir(), "no-such-run")

		_, err := NewManuscriptStore(paths).Load()
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)

		_, err = NewAudioStore(paths).Load()
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
	})
}
