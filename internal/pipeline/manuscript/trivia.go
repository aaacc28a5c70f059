package manuscript

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/llm"
	"yuzu/internal/repository/checkpoint"
)

// triviaSpeakerID 冷知识变体的单一话者ID
const triviaSpeakerID = "trivia"

// TriviaGenerator 冷知识变体：按主题生成若干条冷知识，单话者旁白
type TriviaGenerator struct {
	themes []string
	count  int
	llm    llm.Provider
	store  *checkpoint.ManuscriptStore
}

// NewTriviaGenerator 创建冷知识原稿阶段
func NewTriviaGenerator(themes []string, count int, provider llm.Provider, store *checkpoint.ManuscriptStore) *TriviaGenerator {
	return &TriviaGenerator{themes: themes, count: count, llm: provider, store: store}
}

// Generate 生成冷知识原稿并落盘
func (g *TriviaGenerator) Generate(ctx context.Context) (*video.Manuscript, error) {
	if len(g.themes) == 0 {
		return nil, fmt.Errorf("no trivia themes configured (content.trivia_themes)")
	}
	count := g.count
	if count <= 0 {
		count = 5
	}

	content, err := g.llm.Generate(ctx,
		[]string{
			fmt.Sprintf("%sに関する誰も知らないようなトリビアを%d個生成してください。できる限り信ぴょう性の高いものを検索に基づいて生成してください。", strings.Join(g.themes, ","), count),
			"なお、各トリビアはcontentsの各要素のtextに格納してください。",
			"また、タイトルは15文字以内としてください。",
			"また、各トリビアは50文字以内としてください。",
			"また、各トリビアは個人や会社などの特定の団体を中傷する内容や嘘を含んではいけません。",
			manuscriptSchemaPrompt,
		},
		strings.Join(g.themes, ","))
	if err != nil {
		return nil, fmt.Errorf("generate trivia: %w", err)
	}

	m, err := parseManuscript(content)
	if err != nil {
		return nil, err
	}

	// 单话者旁白：话者ID统一，配音阶段配合固定音色使用
	for i := range m.Contents {
		m.Contents[i].SpeakerID = triviaSpeakerID
	}
	m.Meta = map[string]string{
		"type":   string(video.SourceTrivia),
		"themes": strings.Join(g.themes, ","),
	}
	m.Cleanse()

	if err := g.store.Save(m); err != nil {
		return nil, fmt.Errorf("save manuscript checkpoint: %w", err)
	}

	log.Info().
		Strs("themes", g.themes).
		Int("lines", len(m.Contents)).
		Msg("manuscript generated from trivia themes")
	return m, nil
}

// Skip 恢复运行时从检查点装载既有原稿
func (g *TriviaGenerator) Skip(ctx context.Context) (*video.Manuscript, error) {
	return loadCheckpoint(g.store)
}
