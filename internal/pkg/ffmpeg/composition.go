package ffmpeg

// RGB 纯色颜色值
type RGB struct {
	R, G, B uint8
}

var (
	White = RGB{255, 255, 255}
	Black = RGB{0, 0, 0}
	// BoardEdge 留言板边框的米褐色
	BoardEdge = RGB{222, 184, 135}
)

// ClipKind 可视元素类型
type ClipKind int

const (
	ClipImage ClipKind = iota // 图片
	ClipBox                   // 纯色矩形
	ClipText                  // 字幕文本
)

// Clip 合成时间轴上的一个可视元素。
// 元素按切片顺序自下而上叠放，水平方向始终居中。
type Clip struct {
	Kind     ClipKind
	Start    float64 // 出现时刻（秒）
	Duration float64 // 持续时长（秒）

	// ClipImage
	Path        string
	ScaleHeight int  // 按高度等比缩放，0 表示铺满画面
	Sway        bool // 角色图纵向正弦摆动

	// ClipBox
	BoxWidth  int
	BoxHeight int
	Color     RGB

	// ClipText
	Text     string
	FontSize int

	// 垂直位置
	Y       int
	YCenter bool // 垂直居中，忽略 Y
}

// VoiceClip 人声音频片段
type VoiceClip struct {
	Path  string
	Start float64
}

// Composition 一次渲染的完整合成计划
type Composition struct {
	Width    int
	Height   int
	FPS      int
	Duration float64 // 成片总时长（秒）

	// BackgroundVideo 循环播放的背景视频，空则使用白色底
	BackgroundVideo string

	Clips  []Clip
	Voices []VoiceClip

	// BGM 循环播放的背景音乐
	BGM       string
	BGMVolume float64

	FontPath string
}
