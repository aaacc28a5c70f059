package pipeline

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"yuzu/internal/model/video"
	"yuzu/internal/repository/checkpoint"
)

// spyCalls 记录各阶段以何种方式被调用
type spyCalls struct {
	sequence []string
}

type spyManuscript struct {
	calls   *spyCalls
	genErr  error
	skipErr error
}

func (s *spyManuscript) Generate(context.Context) (*video.Manuscript, error) {
	s.calls.sequence = append(s.calls.sequence, "manuscript.generate")
	return &video.Manuscript{Title: "t"}, s.genErr
}

func (s *spyManuscript) Skip(context.Context) (*video.Manuscript, error) {
	s.calls.sequence = append(s.calls.sequence, "manuscript.skip")
	if s.skipErr != nil {
		return nil, s.skipErr
	}
	return &video.Manuscript{Title: "t"}, nil
}

type spyAudio struct {
	calls  *spyCalls
	genErr error
}

func (s *spyAudio) Generate(_ context.Context, m *video.Manuscript) (*video.Audio, error) {
	s.calls.sequence = append(s.calls.sequence, "audio.generate")
	return &video.Audio{}, s.genErr
}

func (s *spyAudio) Skip(context.Context) (*video.Audio, error) {
	s.calls.sequence = append(s.calls.sequence, "audio.skip")
	return &video.Audio{}, nil
}

type spyThumbnail struct {
	calls *spyCalls
}

func (s *spyThumbnail) Generate(context.Context, *video.Manuscript) error {
	s.calls.sequence = append(s.calls.sequence, "thumbnail.generate")
	return nil
}

func (s *spyThumbnail) Skip() error {
	s.calls.sequence = append(s.calls.sequence, "thumbnail.skip")
	return nil
}

type spyMovie struct {
	calls  *spyCalls
	genErr error
}

func (s *spyMovie) Generate(context.Context, *video.Manuscript, *video.Audio) error {
	s.calls.sequence = append(s.calls.sequence, "movie.generate")
	return s.genErr
}

func (s *spyMovie) Skip() error {
	s.calls.sequence = append(s.calls.sequence, "movie.skip")
	return nil
}

func newSpyPipeline() (*Pipeline, *spyCalls, *spyManuscript, *spyAudio, *spyMovie) {
	calls := &spyCalls{}
	m := &spyManuscript{calls: calls}
	a := &spyAudio{calls: calls}
	th := &spyThumbnail{calls: calls}
	mv := &spyMovie{calls: calls}
	return New("run-1", m, a, th, mv), calls, m, a, mv
}

func TestPipelineRun(t *testing.T) {
	Convey("管线编排", t, func() {
		Convey("从头执行时四个阶段顺序运行", func() {
			p, calls, _, _, _ := newSpyPipeline()
			err := p.Run(context.Background(), StepManuscript)
			So(err, ShouldBeNil)
			So(calls.sequence, ShouldResemble, []string{
				"manuscript.generate", "audio.generate", "thumbnail.generate", "movie.generate",
			})
		})

		Convey("从缩略图恢复时之前的阶段只装载检查点", func() {
			p, calls, _, _, _ := newSpyPipeline()
			err := p.Run(context.Background(), StepThumbnail)
			So(err, ShouldBeNil)
			So(calls.sequence, ShouldResemble, []string{
				"manuscript.skip", "audio.skip", "thumbnail.generate", "movie.generate",
			})
		})

		Convey("从视频阶段恢复时只有视频重新执行", func() {
			p, calls, _, _, _ := newSpyPipeline()
			err := p.Run(context.Background(), StepMovie)
			So(err, ShouldBeNil)
			So(calls.sequence, ShouldResemble, []string{
				"manuscript.skip", "audio.skip", "thumbnail.skip", "movie.generate",
			})
		})

		Convey("阶段失败时后续阶段不执行", func() {
			p, calls, _, a, _ := newSpyPipeline()
			a.genErr = errors.New("tts down")
			err := p.Run(context.Background(), StepManuscript)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "step audio")
			So(calls.sequence, ShouldResemble, []string{
				"manuscript.generate", "audio.generate",
			})
		})

		Convey("恢复时检查点缺失是致命错误", func() {
			p, _, m, _, _ := newSpyPipeline()
			m.skipErr = checkpoint.ErrNotFound
			err := p.Run(context.Background(), StepMovie)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, checkpoint.ErrNotFound), ShouldBeTrue)
		})

		Convey("最后阶段失败时整次运行失败", func() {
			p, _, _, _, mv := newSpyPipeline()
			mv.genErr = errors.New("ffmpeg exploded")
			err := p.Run(context.Background(), StepManuscript)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "step movie")
		})
	})
}

func TestParseStep(t *testing.T) {
	Convey("阶段名解析", t, func() {
		Convey("空串表示从头执行", func() {
			step, err := ParseStep("")
			So(err, ShouldBeNil)
			So(step, ShouldEqual, StepManuscript)
		})

		Convey("合法阶段名", func() {
			for _, name := range []string{"manuscript", "audio", "thumbnail", "movie"} {
				step, err := ParseStep(name)
				So(err, ShouldBeNil)
				So(string(step), ShouldEqual, name)
			}
		})

		Convey("非法阶段名报错", func() {
			_, err := ParseStep("upload")
			So(err, ShouldNotBeNil)
		})
	})
}
