package tts

import "yuzu/internal/model/video"

// Voice 一个可用音色及其性别属性
type Voice struct {
	ID     string       `json:"id"`
	Gender video.Gender `json:"gender"`
}

// DefaultRoster 默认音色名单。
// 音频阶段按话者首次出现顺序对名单做 round-robin 分配，
// 名单顺序即分配顺序，改动会影响既有运行的复现性。
func DefaultRoster() []Voice {
	return []Voice{
		{ID: "BV001_streaming", Gender: video.GenderWoman},
		{ID: "BV002_streaming", Gender: video.GenderMan},
		{ID: "BV005_streaming", Gender: video.GenderWoman},
		{ID: "BV056_streaming", Gender: video.GenderMan},
		{ID: "BV102_streaming", Gender: video.GenderWoman},
		{ID: "BV113_streaming", Gender: video.GenderMan},
		{ID: "BV115_streaming", Gender: video.GenderWoman},
	}
}

// FindVoice 在名单中查找音色；找不到时返回第一个
func FindVoice(roster []Voice, voiceID string) Voice {
	for _, v := range roster {
		if v.ID == voiceID {
			return v
		}
	}
	return roster[0]
}
