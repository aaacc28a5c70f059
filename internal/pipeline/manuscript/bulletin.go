package manuscript

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/llm"
	"yuzu/internal/pkg/scrape"
	"yuzu/internal/repository/checkpoint"
)

// ThreadFetcher 线程抓取入口，便于测试注入
type ThreadFetcher interface {
	FetchThread(ctx context.Context, url string) (*scrape.Thread, error)
}

// BulletinGenerator 公告板变体：抓取真实线程，由 LLM 清洗成原稿
type BulletinGenerator struct {
	sourceURL string
	fetcher   ThreadFetcher
	llm       llm.Provider
	store     *checkpoint.ManuscriptStore
}

// NewBulletinGenerator 创建公告板原稿阶段
func NewBulletinGenerator(sourceURL string, fetcher ThreadFetcher, provider llm.Provider, store *checkpoint.ManuscriptStore) *BulletinGenerator {
	return &BulletinGenerator{
		sourceURL: sourceURL,
		fetcher:   fetcher,
		llm:       provider,
		store:     store,
	}
}

// rawThread 抓取结果转成的 LLM 输入
type rawThread struct {
	Title    string          `json:"title"`
	Contents []video.Content `json:"contents"`
}

// Generate 抓取线程、LLM 筛选清洗、规则清洗后落盘
func (g *BulletinGenerator) Generate(ctx context.Context) (*video.Manuscript, error) {
	thread, err := g.fetcher.FetchThread(ctx, g.sourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetch thread: %w", err)
	}

	raw := rawThread{Title: thread.Title}
	for _, post := range thread.Posts {
		raw.Contents = append(raw.Contents, video.Content{
			SpeakerID: post.UserID,
			Text:      post.Text,
			Links:     []string{},
		})
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal raw thread: %w", err)
	}

	content, err := g.llm.Generate(ctx,
		[]string{
			"与えられたJSON形式のコメント一覧から、スレッドのタイトルに関連する重要なコメントを抽出してください。コメントは必ず15件以上抽出してください。",
			"YouTubeにおいて不適切なコメントは除外してください。",
			"動画概要を口語調で生成し、概要には「今日の動画では〇〇を紹介します。」という形式を守ってください。",
			"動画のタイトルは20文字以内で生成し、keywordsも5つ考えてください。",
			manuscriptSchemaPrompt,
		},
		string(rawJSON))
	if err != nil {
		return nil, fmt.Errorf("cleanse thread with llm: %w", err)
	}

	m, err := parseManuscript(content)
	if err != nil {
		return nil, err
	}
	m.Meta = map[string]string{
		"type":          string(video.SourceBulletinBoard),
		"original_link": g.sourceURL,
		"thread_title":  thread.Title,
	}
	m.Cleanse()

	if len(m.Contents) < minBulletinLines {
		log.Error().
			Int("lines", len(m.Contents)).
			Int("expected", minBulletinLines).
			Msg("manuscript has fewer lines than requested, continuing anyway")
	}

	if err := g.store.Save(m); err != nil {
		return nil, fmt.Errorf("save manuscript checkpoint: %w", err)
	}

	log.Info().Str("title", m.Title).Int("lines", len(m.Contents)).Msg("manuscript generated from bulletin board")
	return m, nil
}

// Skip 恢复运行时从检查点装载既有原稿
func (g *BulletinGenerator) Skip(ctx context.Context) (*video.Manuscript, error) {
	return loadCheckpoint(g.store)
}

// loadCheckpoint 各变体共用的 Skip 实现
func loadCheckpoint(store *checkpoint.ManuscriptStore) (*video.Manuscript, error) {
	m, err := store.Load()
	if err != nil {
		return nil, err
	}
	log.Info().Str("title", m.Title).Int("lines", len(m.Contents)).Msg("manuscript stage skipped, checkpoint loaded")
	return m, nil
}
