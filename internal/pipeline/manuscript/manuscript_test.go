package manuscript

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"yuzu/internal/pkg/scrape"
	"yuzu/internal/repository/checkpoint"
)

type fakeProvider struct {
	systems [][]string
	users   []string
	content string
	err     error
}

func (f *fakeProvider) Generate(_ context.Context, system []string, user string) (string, error) {
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	return f.content, f.err
}

type fakeFetcher struct {
	thread *scrape.Thread
	err    error
	url    string
}

func (f *fakeFetcher) FetchThread(_ context.Context, url string) (*scrape.Thread, error) {
	f.url = url
	return f.thread, f.err
}

const llmManuscript = `{
  "title": "猫のスレまとめ",
  "overview": "今日の動画では猫スレを紹介します。",
  "keywords": ["猫", "2ch", "まとめ", "動物", "癒し"],
  "contents": [
    {"speaker_id": "ID:a", "text": ">>1 それなすぎる", "links": []},
    {"speaker_id": "ID:b", "text": "うちの猫も見てほしい https://example.com/cat", "links": []},
    {"speaker_id": "ID:c", "text": "   ", "links": []},
    {"speaker_id": "ID:a", "text": "猫は正義", "links": []}
  ],
  "meta": {"type": "llm_should_not_set_this"}
}`

func TestBulletinGenerator(t *testing.T) {
	Convey("公告板原稿阶段", t, func() {
		dir := t.TempDir()
		paths := checkpoint.NewPaths(dir, "run-1")
		store := checkpoint.NewManuscriptStore(paths)

		fetcher := &fakeFetcher{thread: &scrape.Thread{
			Title: "【朗報】猫、かわいい",
			URL:   "https://nova.5ch.net/test/read.cgi/x/1/",
			Posts: []scrape.Post{
				{UserID: "ID:a", Text: "それな"},
				{UserID: "ID:b", Text: "うちの猫も"},
			},
		}}
		provider := &fakeProvider{content: llmManuscript}

		g := NewBulletinGenerator("https://nova.5ch.net/test/read.cgi/x/1/", fetcher, provider, store)

		Convey("抓取、清洗、落盘", func() {
			m, err := g.Generate(context.Background())
			So(err, ShouldBeNil)

			// 线程内容作为用户输入传给 LLM
			var raw rawThread
			So(json.Unmarshal([]byte(provider.users[0]), &raw), ShouldBeNil)
			So(raw.Title, ShouldEqual, "【朗報】猫、かわいい")
			So(len(raw.Contents), ShouldEqual, 2)

			// 规则清洗：引用标记去除、链接抽取、空行剔除、meta 归生成器管
			So(len(m.Contents), ShouldEqual, 3)
			So(m.Contents[0].Text, ShouldEqual, "それなすぎる")
			So(m.Contents[1].Links, ShouldContain, "https://example.com/cat")
			So(m.Meta["type"], ShouldEqual, "bulletin_board")
			So(m.Meta["thread_title"], ShouldEqual, "【朗報】猫、かわいい")
			So(m.Meta["original_link"], ShouldEqual, "https://nova.5ch.net/test/read.cgi/x/1/")

			// 检查点可回读
			loaded, err := store.Load()
			So(err, ShouldBeNil)
			So(loaded.Title, ShouldEqual, m.Title)
		})

		Convey("抓取失败时报错", func() {
			g := NewBulletinGenerator("url", &fakeFetcher{err: errors.New("timeout")}, provider, store)
			_, err := g.Generate(context.Background())
			So(err, ShouldNotBeNil)
		})

		Convey("LLM 返回空内容时报错", func() {
			bad := &fakeProvider{content: `{"title": "t", "contents": []}`}
			g := NewBulletinGenerator("url", fetcher, bad, store)
			_, err := g.Generate(context.Background())
			So(err, ShouldNotBeNil)
		})

		Convey("Skip 从检查点装载", func() {
			_, err := g.Generate(context.Background())
			So(err, ShouldBeNil)
			m, err := g.Skip(context.Background())
			So(err, ShouldBeNil)
			So(m.Title, ShouldEqual, "猫のスレまとめ")
		})

		Convey("无检查点时 Skip 返回 ErrNotFound", func() {
			missing := checkpoint.NewManuscriptStore(checkpoint.NewPaths(dir, "nonexistent"))
			g := NewBulletinGenerator("url", fetcher, provider, missing)
			_, err := g.Skip(context.Background())
			So(errors.Is(err, checkpoint.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestPseudoGenerator(t *testing.T) {
	Convey("仿写原稿阶段", t, func() {
		dir := t.TempDir()
		store := checkpoint.NewManuscriptStore(checkpoint.NewPaths(dir, "run-2"))
		topics := map[string][]string{
			"ゲーム": {"レトロゲーム", "ソシャゲ"},
			"料理":  {"自炊"},
		}
		provider := &fakeProvider{content: llmManuscript}
		rng := rand.New(rand.NewSource(7))

		Convey("主题写入 meta 并传入提示词", func() {
			g := NewPseudoGenerator(topics, provider, store, rng)
			m, err := g.Generate(context.Background())
			So(err, ShouldBeNil)

			So(m.Meta["type"], ShouldEqual, "pseudo_bulletin_board")
			theme := m.Meta["theme"]
			So(theme, ShouldBeIn, "ゲーム", "料理")
			So(strings.Join(provider.systems[0], " "), ShouldContainSubstring, theme)
			// one-shot 示例作为用户输入
			So(provider.users[0], ShouldContainSubstring, "ラーメン")
		})

		Convey("未配置主题时报错", func() {
			g := NewPseudoGenerator(nil, provider, store, rng)
			_, err := g.Generate(context.Background())
			So(err, ShouldNotBeNil)
		})
	})
}

func TestTriviaGenerator(t *testing.T) {
	Convey("冷知识原稿阶段", t, func() {
		dir := t.TempDir()
		store := checkpoint.NewManuscriptStore(checkpoint.NewPaths(dir, "run-3"))
		provider := &fakeProvider{content: llmManuscript}

		Convey("所有行归并为单一话者", func() {
			g := NewTriviaGenerator([]string{"宇宙", "歴史"}, 5, provider, store)
			m, err := g.Generate(context.Background())
			So(err, ShouldBeNil)

			for _, c := range m.Contents {
				So(c.SpeakerID, ShouldEqual, triviaSpeakerID)
			}
			So(m.Meta["type"], ShouldEqual, "trivia")
			So(m.Meta["themes"], ShouldEqual, "宇宙,歴史")
			So(strings.Join(provider.systems[0], " "), ShouldContainSubstring, "宇宙,歴史")
			So(strings.Join(provider.systems[0], " "), ShouldContainSubstring, "5個")
		})

		Convey("未配置主题时报错", func() {
			g := NewTriviaGenerator(nil, 5, provider, store)
			_, err := g.Generate(context.Background())
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseManuscript(t *testing.T) {
	Convey("LLM 原稿解析", t, func() {
		Convey("markdown 代码块包装被剥除", func() {
			m, err := parseManuscript("```json\n" + llmManuscript + "\n```")
			So(err, ShouldBeNil)
			So(m.Title, ShouldEqual, "猫のスレまとめ")
		})

		Convey("LLM 给出的 meta 被忽略", func() {
			m, err := parseManuscript(llmManuscript)
			So(err, ShouldBeNil)
			So(m.Meta, ShouldBeNil)
		})

		Convey("非法 JSON 报错", func() {
			_, err := parseManuscript("ただの文章です")
			So(err, ShouldNotBeNil)
		})
	})
}
