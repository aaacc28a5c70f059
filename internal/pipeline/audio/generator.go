// Package audio 配音阶段：逐行合成语音并落盘为第二个检查点。
package audio

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/tts"
	"yuzu/internal/repository/checkpoint"
)

// Synthesizer 语音合成提供者，返回完整的 WAV 字节
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// Options 配音阶段参数
type Options struct {
	// Roster 可用音色名单，名单顺序决定 round-robin 分配顺序
	Roster []tts.Voice
	// OverviewVoice 概要旁白的固定音色，为空时用名单中第一个女声
	OverviewVoice string
	// PinnedVoice 非空时所有台词固定使用该音色（单话者变体）
	PinnedVoice string
}

// Generator 配音阶段
type Generator struct {
	opts  Options
	synth Synthesizer
	store *checkpoint.AudioStore
	paths checkpoint.Paths
}

// NewGenerator 创建配音阶段
func NewGenerator(opts Options, synth Synthesizer, store *checkpoint.AudioStore, paths checkpoint.Paths) *Generator {
	return &Generator{opts: opts, synth: synth, store: store, paths: paths}
}

// Generate 逐行合成语音。
// 台词严格按原稿顺序处理，每合成一行就重写一次检查点，
// 中途失败时已完成的行不会丢失。任何一行失败都终止整个阶段。
func (g *Generator) Generate(ctx context.Context, m *video.Manuscript) (*video.Audio, error) {
	if len(g.opts.Roster) == 0 {
		return nil, fmt.Errorf("voice roster is empty")
	}
	if err := os.MkdirAll(g.paths.AudioDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}

	voiceBySpeaker := g.assignVoices(m)
	audio := &video.Audio{}

	if m.Overview != "" {
		detail, err := g.synthesizeOverview(ctx, m.Overview)
		if err != nil {
			return nil, err
		}
		audio.OverviewDetail = detail
	}

	for idx, content := range m.Contents {
		voice := voiceBySpeaker[content.SpeakerID]
		wavPath := g.paths.WavFile(idx)

		data, err := g.synth.Synthesize(ctx, content.Text, voice.ID)
		if err != nil {
			return nil, fmt.Errorf("synthesize line %d %q: %w", idx, content.Text, err)
		}
		if err := writeWav(wavPath, data); err != nil {
			return nil, fmt.Errorf("write wav for line %d: %w", idx, err)
		}

		audio.ContentDetails = append(audio.ContentDetails, video.Detail{
			WavFilePath:   wavPath,
			Transcript:    content.Text,
			SpeakerID:     voice.ID,
			SpeakerGender: voice.Gender,
			Tags:          []string{},
		})

		// 逐行持久化，失败重跑时不丢已完成的行
		if err := g.store.Save(audio); err != nil {
			return nil, fmt.Errorf("save audio checkpoint after line %d: %w", idx, err)
		}
	}

	if err := g.store.Save(audio); err != nil {
		return nil, fmt.Errorf("save audio checkpoint: %w", err)
	}

	log.Info().
		Int("lines", len(audio.ContentDetails)).
		Bool("overview", audio.OverviewDetail != nil).
		Msg("audio generated")
	return audio, nil
}

// Skip 恢复运行时从检查点装载既有产物
func (g *Generator) Skip(ctx context.Context) (*video.Audio, error) {
	audio, err := g.store.Load()
	if err != nil {
		return nil, err
	}
	log.Info().Int("lines", len(audio.ContentDetails)).Msg("audio stage skipped, checkpoint loaded")
	return audio, nil
}

// assignVoices 话者到音色的分配。
// 固定音色模式下所有话者同一音色；否则按话者首次出现顺序
// 对名单做 round-robin，保证同一原稿多次运行分配稳定。
func (g *Generator) assignVoices(m *video.Manuscript) map[string]tts.Voice {
	mapping := make(map[string]tts.Voice)
	if g.opts.PinnedVoice != "" {
		pinned := tts.FindVoice(g.opts.Roster, g.opts.PinnedVoice)
		for _, content := range m.Contents {
			mapping[content.SpeakerID] = pinned
		}
		return mapping
	}
	for i, speakerID := range m.DistinctSpeakerIDs() {
		mapping[speakerID] = g.opts.Roster[i%len(g.opts.Roster)]
	}
	return mapping
}

// overviewVoice 概要旁白音色：显式指定优先，否则用名单中第一个女声
func (g *Generator) overviewVoice() tts.Voice {
	if g.opts.OverviewVoice != "" {
		return tts.FindVoice(g.opts.Roster, g.opts.OverviewVoice)
	}
	for _, v := range g.opts.Roster {
		if v.Gender == video.GenderWoman {
			return v
		}
	}
	return g.opts.Roster[0]
}

func (g *Generator) synthesizeOverview(ctx context.Context, overview string) (*video.Detail, error) {
	voice := g.overviewVoice()
	data, err := g.synth.Synthesize(ctx, overview, voice.ID)
	if err != nil {
		return nil, fmt.Errorf("synthesize overview %q: %w", overview, err)
	}
	wavPath := g.paths.OverviewWav()
	if err := writeWav(wavPath, data); err != nil {
		return nil, fmt.Errorf("write overview wav: %w", err)
	}
	return &video.Detail{
		WavFilePath:   wavPath,
		Transcript:    overview,
		SpeakerID:     voice.ID,
		SpeakerGender: voice.Gender,
		Tags:          []string{},
	}, nil
}

// writeWav 覆盖写出波形文件
func writeWav(path string, data []byte) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
