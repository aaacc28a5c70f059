package checkpoint

import (
	"yuzu/internal/model/video"
)

// ManuscriptStore 原稿检查点存取
type ManuscriptStore struct {
	paths Paths
}

// NewManuscriptStore 创建原稿检查点存取器
func NewManuscriptStore(paths Paths) *ManuscriptStore {
	return &ManuscriptStore{paths: paths}
}

// Save 持久化原稿检查点
func (s *ManuscriptStore) Save(m *video.Manuscript) error {
	return save(s.paths.Manuscript(), m)
}

// Load 加载上一次持久化的原稿；不存在时返回 ErrNotFound
func (s *ManuscriptStore) Load() (*video.Manuscript, error) {
	var m video.Manuscript
	if err := load(s.paths.Manuscript(), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// AudioStore 音频检查点存取
type AudioStore struct {
	paths Paths
}

// NewAudioStore 创建音频检查点存取器
func NewAudioStore(paths Paths) *AudioStore {
	return &AudioStore{paths: paths}
}

// Save 持久化音频检查点。
// 音频阶段每合成完一行就调用一次，崩溃后最近完成的前缀仍可恢复。
func (s *AudioStore) Save(a *video.Audio) error {
	return save(s.paths.Audio(), a)
}

// Load 加载上一次持久化的音频记录；不存在时返回 ErrNotFound
func (s *AudioStore) Load() (*video.Audio, error) {
	var a video.Audio
	if err := load(s.paths.Audio(), &a); err != nil {
		return nil, err
	}
	return &a, nil
}
