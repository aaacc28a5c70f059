package video

import (
	"regexp"
	"strings"
)

// Content 原稿中的一行台词
type Content struct {
	SpeakerID string   `json:"speaker_id"` // 会话身份ID，用于在多行之间稳定分配配音与立绘
	Text      string   `json:"text"`       // 台词正文，应短到可折行为 1~3 行字幕
	Links     []string `json:"links"`      // 正文中抽取出的链接（仅供参考，不参与渲染）
}

// Manuscript 一次生成任务的规范文本产物，也是第一个检查点
type Manuscript struct {
	Title    string            `json:"title"`    // 视频标题（约定 20 字以内）
	Overview string            `json:"overview"` // 概要句，长视频变体中作为开场旁白
	Keywords []string          `json:"keywords"` // 关键词（名义上 5 个），用于图片生成提示词
	Contents []Content         `json:"contents"` // 台词序列，顺序即旁白顺序
	Meta     map[string]string `json:"meta"`     // 来源元信息（type / original_link / theme 等），LLM 不得改写
}

// 清洗用正则（对应原稿行的规则化处理）
var (
	regQuoteMarker = regexp.MustCompile(`^>>\d+`)
	regEmoji       = regexp.MustCompile(`[\x{2011}-\x{27BF}\x{E000}-\x{F8FF}\x{1F000}-\x{1FAFF}\x{FE0F}]`)
	regLinks       = []*regexp.Regexp{
		regexp.MustCompile(`https?://[-_.!~*'()a-zA-Z0-9;/?:@&=+$,%#]+`),
		regexp.MustCompile(`www\.[a-zA-Z0-9;/?:@&=+$,%#]+`),
	}
)

// CleanseText 对单行台词做规则化清洗：
// 去除行首引用标记（>>N）、表情符号，抽取并移除正文内链接。
// 返回清洗后的文本与抽取出的链接。
func CleanseText(text string) (string, []string) {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(regQuoteMarker.ReplaceAllString(text, ""))
	text = regEmoji.ReplaceAllString(text, "")

	var links []string
	for _, reg := range regLinks {
		if matched := reg.FindAllString(text, -1); len(matched) > 0 {
			links = append(links, matched...)
			text = reg.ReplaceAllString(text, "")
		}
	}
	return strings.TrimSpace(text), links
}

// Cleanse 对整份原稿做一次性清洗。
// 逐行调用 CleanseText，清洗后为空的行整行剔除。
// 该清洗只在原稿生成时执行一次，从检查点重新加载时不再执行。
func (m *Manuscript) Cleanse() {
	cleaned := make([]Content, 0, len(m.Contents))
	for _, content := range m.Contents {
		text, links := CleanseText(content.Text)
		if text == "" {
			continue
		}
		content.Text = text
		content.Links = append(content.Links, links...)
		cleaned = append(cleaned, content)
	}
	m.Contents = cleaned
}

// DistinctSpeakerIDs 按首次出现顺序返回原稿中不重复的话者ID。
// 顺序确定性是配音分配（round-robin）可复现的前提。
func (m *Manuscript) DistinctSpeakerIDs() []string {
	seen := make(map[string]struct{}, len(m.Contents))
	ids := make([]string, 0, len(m.Contents))
	for _, content := range m.Contents {
		if _, ok := seen[content.SpeakerID]; ok {
			continue
		}
		seen[content.SpeakerID] = struct{}{}
		ids = append(ids, content.SpeakerID)
	}
	return ids
}
