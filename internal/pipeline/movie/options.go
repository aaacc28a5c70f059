package movie

import (
	"yuzu/internal/config"
)

// ImagerySource 正文画面的素材来源
type ImagerySource int

const (
	// ImageryCharacter 从素材池选角色立绘，同话者连续行复用同一张
	ImageryCharacter ImagerySource = iota
	// ImageryGenerated 每行调用图片提供者生成一张配图
	ImageryGenerated
)

// Layout 画面元素的固定位置，按分辨率缩放后得到
type Layout struct {
	SubtitleSingleY int // 单行字幕的纵坐标
	SubtitleMultiY  int // 多行字幕首行的纵坐标
	LineHeight      int // 字幕行距

	BoardWidth      int // 留言板宽度，0 表示不画留言板
	BoardHeight     int
	BoardEdgeWidth  int // 留言板边框
	BoardEdgeHeight int
	BoardY          int // -1 表示贴底

	CharacterY      int // 角色立绘纵坐标
	CharacterHeight int // 角色立绘缩放高度
	CharacterSway   bool
}

// Options 合成变体参数。
// 各变体只在参数上不同，时间轴引擎是同一套。
type Options struct {
	Width    int
	Height   int
	FPS      int
	FontSize int

	// IntroDuration 片头展示缩略图的秒数，0 表示无片头
	IntroDuration float64
	// CapSeconds 成片时长上限（短视频为 60），0 表示不设上限
	CapSeconds float64
	// NarrateOverview 正文前旁白概要（长视频变体）
	NarrateOverview bool
	// WrapMargin 字幕行容量的安全余量
	WrapMargin int

	Imagery ImagerySource
	// UseBGV 以循环背景视频为底，否则为白色底
	UseBGV bool

	BGMVolume float64
	FontPath  string

	Layout Layout
}

// lineCapacity 字幕单行容纳的字符数
func (o Options) lineCapacity() int {
	n := o.Width/o.FontSize - o.WrapMargin
	if n < 1 {
		n = 1
	}
	return n
}

// portraitLayout 竖屏布局，从 1080x1920 的基准常量按高度缩放
func portraitLayout(height int) Layout {
	s := func(v int) int { return v * height / 1920 }
	return Layout{
		SubtitleSingleY: s(1500),
		SubtitleMultiY:  s(1400),
		LineHeight:      s(70),
		BoardWidth:      s(960),
		BoardHeight:     s(530),
		BoardEdgeWidth:  s(1000),
		BoardEdgeHeight: s(550),
		BoardY:          s(1300),
		CharacterY:      s(300),
		CharacterHeight: s(900),
		CharacterSway:   true,
	}
}

// landscapeLayout 横屏布局，从 1920x1080 的基准常量按高度缩放，留言板贴底
func landscapeLayout(height int) Layout {
	s := func(v int) int { return v * height / 1080 }
	return Layout{
		SubtitleSingleY: s(800),
		SubtitleMultiY:  s(700),
		LineHeight:      s(70),
		BoardWidth:      s(1800),
		BoardHeight:     s(430),
		BoardEdgeWidth:  s(1840),
		BoardEdgeHeight: s(450),
		BoardY:          -1,
		CharacterY:      s(200),
		CharacterHeight: s(500),
	}
}

// generatedLayout 逐行配图变体：居中配图加字幕，无留言板与立绘
func generatedLayout(height int) Layout {
	s := func(v int) int { return v * height / 1920 }
	return Layout{
		SubtitleSingleY: s(1500),
		SubtitleMultiY:  s(1400),
		LineHeight:      s(70),
	}
}

// ShortBoardOptions 竖屏短视频：留言板+角色立绘+BGV，60 秒上限
func ShortBoardOptions(cfg *config.MovieConfig, fontPath string) Options {
	return Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		FPS:           cfg.FPS,
		FontSize:      cfg.FontSize,
		IntroDuration: cfg.IntroDuration,
		CapSeconds:    60,
		WrapMargin:    2,
		Imagery:       ImageryCharacter,
		UseBGV:        true,
		BGMVolume:     cfg.BGMVolume,
		FontPath:      fontPath,
		Layout:        portraitLayout(cfg.Height),
	}
}

// LongBoardOptions 横屏长视频：概要旁白开场，无时长上限、无片头
func LongBoardOptions(cfg *config.MovieConfig, fontPath string) Options {
	return Options{
		Width:           cfg.Width,
		Height:          cfg.Height,
		FPS:             cfg.FPS,
		FontSize:        cfg.FontSize,
		NarrateOverview: true,
		Imagery:         ImageryCharacter,
		UseBGV:          true,
		BGMVolume:       cfg.BGMVolume,
		FontPath:        fontPath,
		Layout:          landscapeLayout(cfg.Height),
	}
}

// ShortGeneratedOptions 竖屏短视频：每行生成配图，白底无 BGV
func ShortGeneratedOptions(cfg *config.MovieConfig, fontPath string) Options {
	return Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		FPS:           cfg.FPS,
		FontSize:      cfg.FontSize,
		IntroDuration: cfg.IntroDuration,
		CapSeconds:    60,
		Imagery:       ImageryGenerated,
		BGMVolume:     cfg.BGMVolume,
		FontPath:      fontPath,
		Layout:        generatedLayout(cfg.Height),
	}
}
