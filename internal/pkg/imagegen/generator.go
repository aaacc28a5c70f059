// Package imagegen 封装缩略图与配图所用的图片生成提供者。
//
// 提示词先经过 LLM 做一次合规过滤（剔除人名等触碰平台政策的词），
// 提供者拒绝生成时以通用关键词「動画」重试一次，再失败则放弃。
package imagegen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"yuzu/internal/pkg/llm"
)

// fallbackKeyword 提供者拒绝后的兜底提示词
const fallbackKeyword = "動画"

// Client 图片生成客户端接口（真实实现为 ArkClient）
type Client interface {
	GenerateImage(ctx context.Context, prompt, size string) ([]byte, error)
}

// Generator 图片生成器，组合合规过滤与兜底重试
type Generator struct {
	client Client
	llm    llm.Provider
}

// NewGenerator 创建图片生成器
func NewGenerator(client Client, provider llm.Provider) *Generator {
	return &Generator{client: client, llm: provider}
}

// GenerateFromKeywords 用关键词列表生成图片并写入 imagePath
func (g *Generator) GenerateFromKeywords(ctx context.Context, keywords []string, imagePath, size string) error {
	filtered, err := g.filterKeywords(ctx, keywords)
	if err != nil {
		return err
	}
	return g.generate(ctx, strings.Join(filtered, ","), imagePath, size)
}

// GenerateFromText 从一段文本抽取提示词并生成图片
func (g *Generator) GenerateFromText(ctx context.Context, text, imagePath, size string) error {
	keywords, err := g.extractKeywords(ctx, text)
	if err != nil {
		return err
	}
	return g.generate(ctx, strings.Join(keywords, ","), imagePath, size)
}

// generate 调用提供者；被拒绝时用兜底关键词重试一次
func (g *Generator) generate(ctx context.Context, prompt, imagePath, size string) error {
	data, err := g.client.GenerateImage(ctx, prompt, size)
	if err != nil {
		log.Warn().Err(err).Str("prompt", prompt).Msg("image generation rejected, retrying with fallback keyword")
		data, err = g.client.GenerateImage(ctx, fallbackKeyword, size)
		if err != nil {
			return fmt.Errorf("generate image (prompt %q, fallback %q): %w", prompt, fallbackKeyword, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(imagePath), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	// 覆盖语义：同路径旧文件直接替换
	if err := os.WriteFile(imagePath, data, 0o644); err != nil {
		return fmt.Errorf("write image %s: %w", imagePath, err)
	}

	log.Info().Str("path", imagePath).Int("size", len(data)).Msg("image generated")
	return nil
}

type keywordsResponse struct {
	Keywords []string `json:"keywords"`
}

// filterKeywords 剔除触碰平台政策的关键词；过滤后为空回落到兜底关键词
func (g *Generator) filterKeywords(ctx context.Context, keywords []string) ([]string, error) {
	if g.llm == nil {
		return keywords, nil
	}
	content, err := g.llm.Generate(ctx,
		[]string{
			"与えられたキーワード一覧から、画像生成プロバイダのポリシーに抵触しないものだけを抽出してください。個人名や不適切な単語は除外してください。",
			`結果は {"keywords": ["..."]} 形式のJSONで返してください。`,
		},
		strings.Join(keywords, ","))
	if err != nil {
		return nil, fmt.Errorf("filter keywords: %w", err)
	}
	return parseKeywords(content)
}

// extractKeywords 从文本中抽取画像生成用的关键词
func (g *Generator) extractKeywords(ctx context.Context, text string) ([]string, error) {
	if g.llm == nil {
		return []string{text}, nil
	}
	content, err := g.llm.Generate(ctx,
		[]string{
			"画像生成において効果的なキーワードをできるだけたくさん抽出してください。ポリシーに触れる単語（個人名や危険な単語など）は除外してください。",
			`結果は {"keywords": ["..."]} 形式のJSONで返してください。`,
		},
		text)
	if err != nil {
		return nil, fmt.Errorf("extract keywords: %w", err)
	}
	return parseKeywords(content)
}

func parseKeywords(content string) ([]string, error) {
	var resp keywordsResponse
	if err := json.Unmarshal([]byte(llm.CleanJSON(content)), &resp); err != nil {
		return nil, fmt.Errorf("parse keywords response: %w", err)
	}
	if len(resp.Keywords) == 0 {
		log.Info().Msg("no keywords left after filtering, using fallback keyword")
		return []string{fallbackKeyword}, nil
	}
	return resp.Keywords, nil
}
