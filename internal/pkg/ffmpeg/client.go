// Package ffmpeg 封装 FFmpeg 命令调用，将合成计划渲染为成片。
package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Client FFmpeg 客户端
type Client struct {
	ffmpegPath string // FFmpeg 可执行文件路径（默认: ffmpeg）
}

// NewClient 创建 FFmpeg 客户端
func NewClient() *Client {
	ffmpegPath := os.Getenv("FFMPEG_PATH")
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Client{ffmpegPath: ffmpegPath}
}

// Render 把合成计划渲染为 MP4，已存在的输出文件直接覆盖
func (c *Client) Render(ctx context.Context, comp *Composition, outputPath string) error {
	if comp.Duration <= 0 {
		return fmt.Errorf("composition duration must be positive, got %.2f", comp.Duration)
	}

	args, err := c.buildArgs(comp, outputPath)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg render failed: %w", err)
	}

	log.Info().
		Str("output", outputPath).
		Float64("duration", comp.Duration).
		Int("clips", len(comp.Clips)).
		Int("voices", len(comp.Voices)).
		Msg("movie rendered")

	return nil
}

// buildArgs 构造完整的 FFmpeg 参数列表
func (c *Client) buildArgs(comp *Composition, outputPath string) ([]string, error) {
	args := []string{"-y"}

	// 输入 0：背景（循环 BGV 或白色底）
	if comp.BackgroundVideo != "" {
		args = append(args, "-stream_loop", "-1", "-i", comp.BackgroundVideo)
	} else {
		args = append(args, "-f", "lavfi", "-i",
			fmt.Sprintf("color=c=white:s=%dx%d:r=%d:d=%.2f", comp.Width, comp.Height, comp.FPS, comp.Duration))
	}
	inputIdx := 1

	// 图片输入
	imageInputs := make(map[int]int) // clip 下标 -> 输入下标
	for i, clip := range comp.Clips {
		if clip.Kind != ClipImage {
			continue
		}
		args = append(args, "-loop", "1", "-t", fmt.Sprintf("%.2f", clip.Duration), "-i", clip.Path)
		imageInputs[i] = inputIdx
		inputIdx++
	}

	// 人声输入
	voiceInputs := make([]int, 0, len(comp.Voices))
	for _, voice := range comp.Voices {
		args = append(args, "-i", voice.Path)
		voiceInputs = append(voiceInputs, inputIdx)
		inputIdx++
	}

	// BGM 输入
	bgmInput := -1
	if comp.BGM != "" {
		args = append(args, "-stream_loop", "-1", "-i", comp.BGM)
		bgmInput = inputIdx
		inputIdx++
	}

	filter, videoLabel, audioLabel, err := c.buildFilter(comp, imageInputs, voiceInputs, bgmInput)
	if err != nil {
		return nil, err
	}

	args = append(args, "-filter_complex", filter, "-map", videoLabel)
	if audioLabel != "" {
		args = append(args, "-map", audioLabel)
	}
	args = append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", comp.FPS),
		"-c:a", "aac",
		"-b:a", "160k",
		"-t", fmt.Sprintf("%.2f", comp.Duration),
		"-movflags", "+faststart",
		outputPath,
	)
	return args, nil
}

// buildFilter 构造 filter_complex，可视元素按切片顺序依次叠放
func (c *Client) buildFilter(comp *Composition, imageInputs map[int]int, voiceInputs []int, bgmInput int) (filter, videoLabel, audioLabel string, err error) {
	var parts []string

	// 背景统一到目标分辨率并裁到总时长
	parts = append(parts, fmt.Sprintf(
		"[0:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1,trim=duration=%.2f,setpts=PTS-STARTPTS[base]",
		comp.Width, comp.Height, comp.Width, comp.Height, comp.Duration))

	cur := "[base]"
	for i, clip := range comp.Clips {
		end := clip.Start + clip.Duration
		enable := fmt.Sprintf("enable='between(t,%.2f,%.2f)'", clip.Start, end)
		next := fmt.Sprintf("[v%d]", i)

		switch clip.Kind {
		case ClipImage:
			idx, ok := imageInputs[i]
			if !ok {
				return "", "", "", fmt.Errorf("image clip %d has no input", i)
			}
			scale := fmt.Sprintf("scale=-1:%d", clip.ScaleHeight)
			if clip.ScaleHeight == 0 {
				scale = fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", comp.Width, comp.Height)
			}
			// 平移时间戳使图片帧落在自己的时间窗内
			parts = append(parts, fmt.Sprintf("[%d:v]%s,setpts=PTS-STARTPTS+%.2f/TB[img%d]", idx, scale, clip.Start, i))

			y := fmt.Sprintf("%d", clip.Y)
			if clip.YCenter {
				y = "(H-h)/2"
			} else if clip.Sway {
				y = fmt.Sprintf("%d+50*sin(2*PI*(t-%.2f))", clip.Y, clip.Start)
			}
			parts = append(parts, fmt.Sprintf("%s[img%d]overlay=x=(W-w)/2:y=%s:eof_action=pass:%s%s", cur, i, y, enable, next))

		case ClipBox:
			parts = append(parts, fmt.Sprintf("%sdrawbox=x=(iw-%d)/2:y=%d:w=%d:h=%d:color=0x%02X%02X%02X:t=fill:%s%s",
				cur, clip.BoxWidth, clip.Y, clip.BoxWidth, clip.BoxHeight,
				clip.Color.R, clip.Color.G, clip.Color.B, enable, next))

		case ClipText:
			parts = append(parts, fmt.Sprintf("%sdrawtext=fontfile='%s':text='%s':fontsize=%d:fontcolor=black:x=(w-text_w)/2:y=%d:%s%s",
				cur, escapeDrawtext(comp.FontPath), escapeDrawtext(clip.Text), clip.FontSize, clip.Y, enable, next))

		default:
			return "", "", "", fmt.Errorf("unknown clip kind %d", clip.Kind)
		}
		cur = next
	}
	videoLabel = cur

	// 音频：人声平移到各自起点，BGM 循环压低音量后混音
	var audioInputs []string
	if bgmInput >= 0 {
		parts = append(parts, fmt.Sprintf("[%d:a]volume=%.2f,atrim=duration=%.2f[abgm]", bgmInput, comp.BGMVolume, comp.Duration))
		audioInputs = append(audioInputs, "[abgm]")
	}
	for i, idx := range voiceInputs {
		delayMS := int(comp.Voices[i].Start * 1000)
		parts = append(parts, fmt.Sprintf("[%d:a]adelay=%d:all=1[av%d]", idx, delayMS, i))
		audioInputs = append(audioInputs, fmt.Sprintf("[av%d]", i))
	}
	if len(audioInputs) > 0 {
		parts = append(parts, fmt.Sprintf("%samix=inputs=%d:duration=first:normalize=0[aout]",
			strings.Join(audioInputs, ""), len(audioInputs)))
		audioLabel = "[aout]"
	}

	return strings.Join(parts, ";"), videoLabel, audioLabel, nil
}

// escapeDrawtext 转义 drawtext 滤镜的特殊字符
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(s)
}
