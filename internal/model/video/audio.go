package video

// Detail 单行台词的配音结果
type Detail struct {
	WavFilePath   string   `json:"wav_file_path"`  // 波形文件路径，由音频阶段独占写入，后续阶段只读引用
	Transcript    string   `json:"transcript"`     // 台词原文副本，便于追溯
	SpeakerID     string   `json:"speaker_id"`     // 实际使用的合成音色ID（与 Content.SpeakerID 是两个命名空间）
	SpeakerGender Gender   `json:"speaker_gender"` // 音色性别，驱动立绘选取
	Tags          []string `json:"tags"`           // 预留
}

// Audio 音频阶段的产物，也是第二个检查点
type Audio struct {
	OverviewDetail *Detail  `json:"overview_detail,omitempty"` // 概要旁白（长视频变体在正文前播放）
	ContentDetails []Detail `json:"content_details"`           // 与 Manuscript.Contents 按下标一一对应
}
