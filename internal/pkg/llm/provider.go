// Package llm 封装脚本生成所依赖的大模型能力。
//
// 原稿生成阶段只依赖 Provider 接口；真实实现基于 eino ChatModel，
// 测试中用返回固定 JSON 的假实现替换。
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Provider 文本生成提供者。
// 约定：要么返回完整可用的文本，要么调用整体失败，不处理半成品。
type Provider interface {
	Generate(ctx context.Context, system []string, user string) (string, error)
}

// EinoProvider 基于 eino ChatModel 的 LLM 提供者（默认使用）
type EinoProvider struct {
	chatModel model.ChatModel
}

// NewEinoProvider 创建基于 Eino 的 LLM 提供者
func NewEinoProvider(chatModel model.ChatModel) *EinoProvider {
	return &EinoProvider{chatModel: chatModel}
}

// Generate 依次传入 system 指令与 user 内容，返回模型输出文本
func (p *EinoProvider) Generate(ctx context.Context, system []string, user string) (string, error) {
	if p.chatModel == nil {
		return "", fmt.Errorf("chatModel is required")
	}

	messages := make([]*schema.Message, 0, len(system)+1)
	for _, s := range system {
		messages = append(messages, schema.SystemMessage(s))
	}
	if user != "" {
		messages = append(messages, schema.UserMessage(user))
	}

	response, err := p.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if response.Content == "" {
		return "", fmt.Errorf("empty response from chat model")
	}
	return response.Content, nil
}
