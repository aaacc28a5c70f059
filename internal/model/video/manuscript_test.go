package video

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCleanseText(t *testing.T) {
	Convey("台词清洗规则", t, func() {
		Convey("去除行首引用标记", func() {
			text, links := CleanseText(">>123 それはない")
			So(text, ShouldEqual, "それはない")
			So(links, ShouldBeEmpty)
		})

		Convey("抽取并移除链接", func() {
			text, links := CleanseText("これ見て https://example.com/a?b=1 ヤバい")
			So(text, ShouldEqual, "これ見て  ヤバい")
			So(links, ShouldResemble, []string{"https://example.com/a?b=1"})
		})

		Convey("www 形式的链接同样被抽取", func() {
			text, links := CleanseText("www.example.com/page が出典")
			So(links, ShouldResemble, []string{"www.example.com/page"})
			So(text, ShouldEqual, "が出典")
		})

		Convey("只剩引用标记和链接的行清洗后为空", func() {
			text, _ := CleanseText(">>45 https://example.com")
			So(text, ShouldBeEmpty)
		})
	})
}

func TestManuscriptCleanse(t *testing.T) {
	Convey("原稿整体清洗", t, func() {
		m := &Manuscript{
			Title: "テスト",
			Contents: []Content{
				{SpeakerID: "u1", Text: ">>1 本文あり"},
				{SpeakerID: "u2", Text: ">>2"},
				{SpeakerID: "u3", Text: "リンク https://example.com だけ残す"},
			},
		}
		m.Cleanse()

		Convey("空行被整行剔除", func() {
			So(len(m.Contents), ShouldEqual, 2)
			for _, content := range m.Contents {
				So(content.Text, ShouldNotBeEmpty)
			}
		})

		Convey("链接移入 Links 字段", func() {
			So(m.Contents[1].Links, ShouldResemble, []string{"https://example.com"})
		})
	})
}

func TestDistinctSpeakerIDs(t *testing.T) {
	Convey("话者ID按首次出现顺序去重", t, func() {
		m := &Manuscript{Contents: []Content{
			{SpeakerID: "b", Text: "1"},
			{SpeakerID: "a", Text: "2"},
			{SpeakerID: "b", Text: "3"},
			{SpeakerID: "c", Text: "4"},
		}}
		So(m.DistinctSpeakerIDs(), ShouldResemble, []string{"b", "a", "c"})
	})
}

func TestManuscriptJSONRoundTrip(t *testing.T) {
	Convey("原稿 JSON 序列化往返等价", t, func() {
		m := Manuscript{
			Title:    "今日のスレ",
			Overview: "今日の動画では面白いスレを紹介します。",
			Keywords: []string{"雑談", "2ch", "まとめ", "面白", "動画"},
			Contents: []Content{
				{SpeakerID: "u1", Text: "最初のコメント", Links: []string{"https://example.com"}},
				{SpeakerID: "u2", Text: "二番目のコメント"},
			},
			Meta: map[string]string{"type": string(SourceBulletinBoard), "original_link": "https://nova.5ch.net/test/read.cgi/xxx"},
		}

		data, err := json.Marshal(m)
		So(err, ShouldBeNil)

		var got Manuscript
		So(json.Unmarshal(data, &got), ShouldBeNil)
		So(got, ShouldResemble, m)
	})
}
