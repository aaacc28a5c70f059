// Package manuscript 原稿阶段：从数据源产出脚本并落盘为第一个检查点。
package manuscript

import (
	"encoding/json"
	"fmt"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/llm"
)

// minBulletinLines 公告板变体期望的最少行数（软性约束，不足时只告警）
const minBulletinLines = 15

// minPseudoLines 仿写变体期望的最少行数（软性约束）
const minPseudoLines = 70

// parseManuscript 解析 LLM 返回的原稿 JSON。
// Meta 由各生成器自行填写，模型输出中的 meta 一律忽略。
func parseManuscript(content string) (*video.Manuscript, error) {
	var m video.Manuscript
	if err := json.Unmarshal([]byte(llm.CleanJSON(content)), &m); err != nil {
		return nil, fmt.Errorf("parse manuscript response: %w", err)
	}
	m.Meta = nil
	if len(m.Contents) == 0 {
		return nil, fmt.Errorf("manuscript response contains no contents")
	}
	return &m, nil
}

// manuscriptSchemaPrompt 各变体共用的输出格式约束
const manuscriptSchemaPrompt = `結果は次の形式のJSONで返してください: ` +
	`{"title": "...", "overview": "...", "keywords": ["..."], ` +
	`"contents": [{"speaker_id": "...", "text": "...", "links": []}]}`
