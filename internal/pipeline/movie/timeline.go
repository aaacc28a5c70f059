package movie

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"yuzu/internal/model/video"
	"yuzu/internal/pkg/ffmpeg"
	"yuzu/internal/pkg/wavutil"
)

// generatedImageSize 逐行配图变体的出图尺寸
const generatedImageSize = "1024x1024"

// buildComposition 时间轴引擎。
// 每行台词以自身配音时长为片段长度顺序排布；行间状态（前一话者及其立绘）
// 决定画面连续性，因此必须严格按序处理。
func (g *Generator) buildComposition(ctx context.Context, m *video.Manuscript, a *video.Audio) (*ffmpeg.Composition, error) {
	comp := &ffmpeg.Composition{
		Width:     g.opts.Width,
		Height:    g.opts.Height,
		FPS:       g.opts.FPS,
		BGM:       g.selector.RandomBGM(),
		BGMVolume: g.opts.BGMVolume,
		FontPath:  g.opts.FontPath,
	}
	if g.opts.UseBGV {
		comp.BackgroundVideo = g.selector.RandomBGV()
	}

	start := 0.0

	// 长视频变体先旁白概要，同时把标题打在画面上
	if g.opts.NarrateOverview {
		if a.OverviewDetail == nil {
			return nil, errors.New("overview narration enabled but audio has no overview detail")
		}
		info, err := wavutil.ReadInfo(a.OverviewDetail.WavFilePath)
		if err != nil {
			return nil, fmt.Errorf("read overview wav: %w", err)
		}
		comp.Clips = append(comp.Clips, ffmpeg.Clip{
			Kind:     ffmpeg.ClipText,
			Text:     m.Title,
			FontSize: g.opts.FontSize,
			Y:        g.opts.Layout.SubtitleSingleY,
			Start:    start,
			Duration: info.Duration,
		})
		comp.Voices = append(comp.Voices, ffmpeg.VoiceClip{Path: a.OverviewDetail.WavFilePath, Start: start})
		start += info.Duration
	}

	// 片头展示缩略图
	if g.opts.IntroDuration > 0 {
		comp.Clips = append(comp.Clips, ffmpeg.Clip{
			Kind:        ffmpeg.ClipImage,
			Path:        g.paths.ThumbnailOriginal(),
			ScaleHeight: g.opts.Height,
			Start:       start,
			Duration:    g.opts.IntroDuration,
		})
		start += g.opts.IntroDuration
	}

	prevImage := ""
	prevSpeakerID := ""
	for i := range a.ContentDetails {
		detail := &a.ContentDetails[i]
		info, err := wavutil.ReadInfo(detail.WavFilePath)
		if err != nil {
			return nil, fmt.Errorf("read wav %s: %w", detail.WavFilePath, err)
		}
		duration := info.Duration

		// 短视频上限：放不下的行整行丢弃，之后的行也不再考虑
		if g.opts.CapSeconds > 0 && start+duration >= g.opts.CapSeconds {
			log.Info().
				Int("line", i).
				Float64("start", start).
				Float64("duration", duration).
				Float64("cap", g.opts.CapSeconds).
				Msg("duration cap reached, dropping remaining lines")
			break
		}

		switch g.opts.Imagery {
		case ImageryCharacter:
			var image string
			if i > 0 && detail.SpeakerID == prevSpeakerID {
				image = prevImage
			} else {
				image = g.selector.RandomCharacterImageExcept(detail.SpeakerGender, prevImage)
			}
			prevImage, prevSpeakerID = image, detail.SpeakerID

			g.appendBoard(comp, start, duration)
			g.appendSubtitles(comp, detail.Transcript, start, duration)
			comp.Clips = append(comp.Clips, ffmpeg.Clip{
				Kind:        ffmpeg.ClipImage,
				Path:        image,
				ScaleHeight: g.opts.Layout.CharacterHeight,
				Y:           g.opts.Layout.CharacterY,
				Sway:        g.opts.Layout.CharacterSway,
				Start:       start,
				Duration:    duration,
			})

		case ImageryGenerated:
			imagePath := g.paths.MovieImage(i)
			if err := g.images.GenerateFromText(ctx, detail.Transcript, imagePath, generatedImageSize); err != nil {
				return nil, fmt.Errorf("generate line image %d: %w", i, err)
			}
			comp.Clips = append(comp.Clips, ffmpeg.Clip{
				Kind:     ffmpeg.ClipImage,
				Path:     imagePath,
				YCenter:  true,
				Start:    start,
				Duration: duration,
			})
			g.appendSubtitles(comp, detail.Transcript, start, duration)

		default:
			return nil, fmt.Errorf("unknown imagery source %d", g.opts.Imagery)
		}

		comp.Voices = append(comp.Voices, ffmpeg.VoiceClip{Path: detail.WavFilePath, Start: start})
		start += duration
	}

	if start <= 0 {
		return nil, errors.New("empty composition: no content fits the timeline")
	}
	comp.Duration = start
	return comp, nil
}

// appendBoard 字幕底下的留言板（边框色块 + 白色内板）
func (g *Generator) appendBoard(comp *ffmpeg.Composition, start, duration float64) {
	layout := g.opts.Layout
	if layout.BoardWidth == 0 {
		return
	}

	edgeY, boardY := layout.BoardY, layout.BoardY
	if layout.BoardY < 0 { // 贴底
		edgeY = g.opts.Height - layout.BoardEdgeHeight
		boardY = g.opts.Height - layout.BoardHeight
	}

	comp.Clips = append(comp.Clips,
		ffmpeg.Clip{
			Kind:      ffmpeg.ClipBox,
			BoxWidth:  layout.BoardEdgeWidth,
			BoxHeight: layout.BoardEdgeHeight,
			Color:     ffmpeg.BoardEdge,
			Y:         edgeY,
			Start:     start,
			Duration:  duration,
		},
		ffmpeg.Clip{
			Kind:      ffmpeg.ClipBox,
			BoxWidth:  layout.BoardWidth,
			BoxHeight: layout.BoardHeight,
			Color:     ffmpeg.White,
			Y:         boardY,
			Start:     start,
			Duration:  duration,
		})
}

// appendSubtitles 台词按分词边界折行；单行时居于偏下的固定位置
func (g *Generator) appendSubtitles(comp *ffmpeg.Composition, transcript string, start, duration float64) {
	layout := g.opts.Layout
	lines := g.wrapper.Wrap(transcript, g.opts.lineCapacity())
	if len(lines) <= 1 {
		comp.Clips = append(comp.Clips, ffmpeg.Clip{
			Kind:     ffmpeg.ClipText,
			Text:     transcript,
			FontSize: g.opts.FontSize,
			Y:        layout.SubtitleSingleY,
			Start:    start,
			Duration: duration,
		})
		return
	}
	for i, line := range lines {
		comp.Clips = append(comp.Clips, ffmpeg.Clip{
			Kind:     ffmpeg.ClipText,
			Text:     line,
			FontSize: g.opts.FontSize,
			Y:        layout.SubtitleMultiY + layout.LineHeight*i,
			Start:    start,
			Duration: duration,
		})
	}
}
