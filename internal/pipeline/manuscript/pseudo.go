package manuscript

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog/log"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/llm"
	"yuzu/internal/repository/checkpoint"
)

// exampleManuscript 仿写变体的 one-shot 示例，向 LLM 展示期望的会话风格
const exampleManuscript = `{
  "title": "ワイ、深夜のラーメンに敗北する",
  "overview": "今日の動画では深夜ラーメンを巡る攻防を紹介します。",
  "keywords": ["ラーメン", "深夜飯", "ダイエット", "誘惑", "2ch"],
  "contents": [
    {"speaker_id": "1", "text": "深夜2時にラーメン食うか迷ってる", "links": []},
    {"speaker_id": "2", "text": "食え。後悔は明日のお前がすればいい", "links": []},
    {"speaker_id": "3", "text": "ワイはもう茹でとるで", "links": []},
    {"speaker_id": "1", "text": "お前らのせいで今お湯沸かしてる", "links": []},
    {"speaker_id": "4", "text": "この時間のラーメンは格別なんよな", "links": []},
    {"speaker_id": "2", "text": "ダイエットは明日から、これ定期", "links": []}
  ]
}`

// PseudoGenerator 仿写变体：不抓取外部数据，由 LLM 仿写一段会话
type PseudoGenerator struct {
	topics map[string][]string
	llm    llm.Provider
	store  *checkpoint.ManuscriptStore
	rng    *rand.Rand
}

// NewPseudoGenerator 创建仿写原稿阶段
func NewPseudoGenerator(topics map[string][]string, provider llm.Provider, store *checkpoint.ManuscriptStore, rng *rand.Rand) *PseudoGenerator {
	return &PseudoGenerator{topics: topics, llm: provider, store: store, rng: rng}
}

// pickTopic 随机选取主题与子主题。主题键先排序再选取，保证选取只取决于随机源。
func (g *PseudoGenerator) pickTopic() (theme, subTheme string, err error) {
	if len(g.topics) == 0 {
		return "", "", fmt.Errorf("no topics configured (content.topics)")
	}
	themes := make([]string, 0, len(g.topics))
	for t := range g.topics {
		themes = append(themes, t)
	}
	sort.Strings(themes)
	theme = themes[g.rng.Intn(len(themes))]

	subThemes := g.topics[theme]
	if len(subThemes) == 0 {
		return "", "", fmt.Errorf("theme %q has no sub themes", theme)
	}
	return theme, subThemes[g.rng.Intn(len(subThemes))], nil
}

// Generate 仿写一段会话并落盘
func (g *PseudoGenerator) Generate(ctx context.Context) (*video.Manuscript, error) {
	theme, subTheme, err := g.pickTopic()
	if err != nil {
		return nil, err
	}

	content, err := g.llm.Generate(ctx,
		[]string{
			fmt.Sprintf("与えられるJSONは一般的な2chの会話風景です。このような形式で%sに関する会話を生成してください。", theme),
			"なお、会話は必ず70件以上としてください。70件未満の場合は、会話を続けてください。",
			fmt.Sprintf("サブテーマは%sです。", subTheme),
			manuscriptSchemaPrompt,
		},
		exampleManuscript)
	if err != nil {
		return nil, fmt.Errorf("generate pseudo conversation: %w", err)
	}

	m, err := parseManuscript(content)
	if err != nil {
		return nil, err
	}
	m.Meta = map[string]string{
		"type":      string(video.SourcePseudoBulletinBoard),
		"theme":     theme,
		"sub_theme": subTheme,
	}
	m.Cleanse()

	if len(m.Contents) < minPseudoLines {
		log.Warn().
			Int("lines", len(m.Contents)).
			Int("expected", minPseudoLines).
			Msg("pseudo conversation shorter than requested, continuing anyway")
	}

	if err := g.store.Save(m); err != nil {
		return nil, fmt.Errorf("save manuscript checkpoint: %w", err)
	}

	log.Info().
		Str("theme", theme).
		Str("sub_theme", subTheme).
		Int("lines", len(m.Contents)).
		Msg("manuscript generated from pseudo conversation")
	return m, nil
}

// Skip 恢复运行时从检查点装载既有原稿
func (g *PseudoGenerator) Skip(ctx context.Context) (*video.Manuscript, error) {
	return loadCheckpoint(g.store)
}
