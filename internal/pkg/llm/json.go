package llm

import (
	"regexp"
	"strings"
)

var markdownFence = regexp.MustCompile(`(?s)^\s*` + "```" + `(?:json)?\s*\n(.*?)\n\s*` + "```" + `\s*$`)

// CleanJSON 清理 LLM 返回的 JSON 内容。
// 移除 markdown 代码块标记（```json ... ``` 或 ``` ... ```）。
func CleanJSON(content string) string {
	content = strings.TrimSpace(content)

	if matches := markdownFence.FindStringSubmatch(content); len(matches) > 1 {
		content = matches[1]
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
