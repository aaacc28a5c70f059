// Package textwrap 按词边界折行字幕与标题文本。
//
// 使用 gse 分词获取词汇边界，避免朴素按字符切断把词组劈开。
package textwrap

import (
	"strings"
	"unicode/utf8"

	"github.com/go-ego/gse"
)

// Wrapper 文本折行器
type Wrapper struct {
	segmenter *gse.Segmenter
}

// New 创建折行器实例
func New() *Wrapper {
	segmenter, err := gse.New()
	if err != nil {
		// 初始化失败时降级到按字符折行
		return &Wrapper{segmenter: nil}
	}
	return &Wrapper{segmenter: &segmenter}
}

// Wrap 将文本折行为不超过 maxRunes 个字符的行序列。
// 优先在词边界断开；单个词超过行宽时退化为按字符切分。
func (w *Wrapper) Wrap(text string, maxRunes int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxRunes <= 0 {
		return []string{text}
	}

	var lines []string
	line := ""
	for _, token := range w.tokenize(text) {
		if utf8.RuneCountInString(line)+utf8.RuneCountInString(token) > maxRunes && line != "" {
			lines = append(lines, line)
			line = ""
		}
		// 词本身超宽时按字符硬切
		for utf8.RuneCountInString(token) > maxRunes {
			runes := []rune(token)
			lines = append(lines, string(runes[:maxRunes]))
			token = string(runes[maxRunes:])
		}
		line += token
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// tokenize 分词；没有分词器时逐字符返回
func (w *Wrapper) tokenize(text string) []string {
	if w.segmenter != nil {
		return w.segmenter.Cut(text, false)
	}
	tokens := make([]string, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		tokens = append(tokens, string(r))
	}
	return tokens
}
