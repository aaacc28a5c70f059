// Package pipeline 四阶段生成管线的编排器。
//
// 阶段顺序固定：原稿 → 配音 → 缩略图 → 视频。每个阶段要么全量执行，
// 要么在恢复运行时跳过并装载检查点；任一阶段失败即整次运行失败，
// 并打印可直接复制的恢复命令提示。
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"yuzu/internal/model/video"
	"yuzu/internal/repository/checkpoint"
)

// Step 管线阶段标识
type Step string

const (
	StepManuscript Step = "manuscript"
	StepAudio      Step = "audio"
	StepThumbnail  Step = "thumbnail"
	StepMovie      Step = "movie"
)

// steps 执行顺序
var steps = []Step{StepManuscript, StepAudio, StepThumbnail, StepMovie}

// ParseStep 解析阶段名；空串表示从头执行
func ParseStep(s string) (Step, error) {
	if s == "" {
		return StepManuscript, nil
	}
	for _, step := range steps {
		if string(step) == s {
			return step, nil
		}
	}
	return "", fmt.Errorf("unknown step %q, expected one of manuscript/audio/thumbnail/movie", s)
}

func (s Step) index() int {
	for i, step := range steps {
		if step == s {
			return i
		}
	}
	return 0
}

// ManuscriptStage 原稿阶段契约
type ManuscriptStage interface {
	Generate(ctx context.Context) (*video.Manuscript, error)
	Skip(ctx context.Context) (*video.Manuscript, error)
}

// AudioStage 配音阶段契约
type AudioStage interface {
	Generate(ctx context.Context, m *video.Manuscript) (*video.Audio, error)
	Skip(ctx context.Context) (*video.Audio, error)
}

// ThumbnailStage 缩略图阶段契约
type ThumbnailStage interface {
	Generate(ctx context.Context, m *video.Manuscript) error
	Skip() error
}

// MovieStage 视频合成阶段契约
type MovieStage interface {
	Generate(ctx context.Context, m *video.Manuscript, a *video.Audio) error
	Skip() error
}

// Pipeline 一次生成运行
type Pipeline struct {
	runID      string
	manuscript ManuscriptStage
	audio      AudioStage
	thumbnail  ThumbnailStage
	movie      MovieStage
}

// New 组装管线
func New(runID string, m ManuscriptStage, a AudioStage, t ThumbnailStage, mv MovieStage) *Pipeline {
	return &Pipeline{runID: runID, manuscript: m, audio: a, thumbnail: t, movie: mv}
}

// RunID 本次运行的标识
func (p *Pipeline) RunID() string { return p.runID }

// Run 从 resumeFrom 指定的阶段开始执行，之前的阶段以检查点装载代替执行。
// 四个阶段全部完成才算成功。
func (p *Pipeline) Run(ctx context.Context, resumeFrom Step) error {
	resumeIdx := resumeFrom.index()
	log.Info().Str("run_id", p.runID).Str("resume_from", string(resumeFrom)).Msg("pipeline started")

	var m *video.Manuscript
	var a *video.Audio
	var err error

	if resumeIdx > StepManuscript.index() {
		m, err = p.manuscript.Skip(ctx)
	} else {
		m, err = p.manuscript.Generate(ctx)
	}
	if err != nil {
		return p.fail(StepManuscript, err)
	}

	if resumeIdx > StepAudio.index() {
		a, err = p.audio.Skip(ctx)
	} else {
		a, err = p.audio.Generate(ctx, m)
	}
	if err != nil {
		return p.fail(StepAudio, err)
	}

	if resumeIdx > StepThumbnail.index() {
		err = p.thumbnail.Skip()
	} else {
		err = p.thumbnail.Generate(ctx, m)
	}
	if err != nil {
		return p.fail(StepThumbnail, err)
	}

	if err := p.movie.Generate(ctx, m, a); err != nil {
		return p.fail(StepMovie, err)
	}

	log.Info().Str("run_id", p.runID).Msg("pipeline completed")
	return nil
}

// fail 打印恢复提示后返回包装错误。
// 检查点缺失说明恢复参数指错了运行或阶段，这种情况没有可恢复性。
func (p *Pipeline) fail(step Step, err error) error {
	if errors.Is(err, checkpoint.ErrNotFound) {
		log.Error().
			Str("run_id", p.runID).
			Str("step", string(step)).
			Msg("checkpoint missing, run cannot be resumed from this step")
		return fmt.Errorf("step %s: checkpoint missing for run %s: %w", step, p.runID, err)
	}

	log.Error().
		Err(err).
		Str("run_id", p.runID).
		Str("step", string(step)).
		Msgf("pipeline failed, resume with --resume-id=%s --resume-step=%s", p.runID, step)
	return fmt.Errorf("step %s: %w", step, err)
}
