// Package checkpoint 提供按运行ID落盘的阶段检查点存取。
//
// 每个阶段的产物序列化为一份 JSON 文档，路径由运行ID与阶段名确定：
//
//	<output_root>/<run_id>/manuscript.json
//	<output_root>/<run_id>/audio.json
//
// 检查点满足往返等价：Load(Save(x)) 与 x 结构相等。
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound 请求的检查点不存在。
// skip 语义依赖它：没有历史检查点时整次运行必须失败。
var ErrNotFound = errors.New("checkpoint not found")

// Paths 一次运行的所有检查点与产物路径
type Paths struct {
	root  string
	runID string
}

// NewPaths 创建路径构造器
func NewPaths(outputRoot, runID string) Paths {
	return Paths{root: outputRoot, runID: runID}
}

// RunDir 运行目录 <root>/<run_id>
func (p Paths) RunDir() string { return filepath.Join(p.root, p.runID) }

// Manuscript 原稿检查点路径
func (p Paths) Manuscript() string { return filepath.Join(p.RunDir(), "manuscript.json") }

// Audio 音频检查点路径
func (p Paths) Audio() string { return filepath.Join(p.RunDir(), "audio.json") }

// AudioDir 单行波形文件目录
func (p Paths) AudioDir() string { return filepath.Join(p.RunDir(), "audio") }

// WavFile 第 idx 行台词的波形文件路径
func (p Paths) WavFile(idx int) string {
	return filepath.Join(p.AudioDir(), fmt.Sprintf("%d.wav", idx))
}

// OverviewWav 概要旁白的波形文件路径
func (p Paths) OverviewWav() string { return filepath.Join(p.AudioDir(), "overview.wav") }

// Thumbnail 缩略图（缩小版）路径
func (p Paths) Thumbnail() string { return filepath.Join(p.RunDir(), "thumbnail.png") }

// ThumbnailOriginal 缩略图（原始分辨率）路径
func (p Paths) ThumbnailOriginal() string { return filepath.Join(p.RunDir(), "thumbnail_original.png") }

// Movie 最终视频路径
func (p Paths) Movie() string { return filepath.Join(p.RunDir(), "movie.mp4") }

// MovieImage 逐行生成图片变体中第 idx 行的配图路径
func (p Paths) MovieImage(idx int) string {
	return filepath.Join(p.RunDir(), "movie", fmt.Sprintf("%d.png", idx))
}

// save 原子性弱的简单写入：先确保目录存在，整体覆盖
func save(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", path, err)
	}
	return nil
}

// load 读取并反序列化；文件不存在映射为 ErrNotFound
func load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("read checkpoint %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse checkpoint %s: %w", path, err)
	}
	return nil
}
