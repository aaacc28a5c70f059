package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	AI      AIConfig      `mapstructure:"ai"`
	TTS     TTSConfig     `mapstructure:"tts"`
	Image   ImageConfig   `mapstructure:"image"`
	Log     LogConfig     `mapstructure:"log"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Output  OutputConfig  `mapstructure:"output"`
	Movie   MovieConfig   `mapstructure:"movie"`
	Storage StorageConfig `mapstructure:"storage"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Content ContentConfig `mapstructure:"content"`
}

// ContentConfig 内容生成参数
type ContentConfig struct {
	// Topics 仿写变体的主题表：主题 -> 子主题列表
	Topics map[string][]string `mapstructure:"topics"`
	// TriviaThemes 冷知识变体的主题列表
	TriviaThemes []string `mapstructure:"trivia_themes"`
	// TriviaCount 单期冷知识条数
	TriviaCount int `mapstructure:"trivia_count"`
}

// ServerConfig HTTP 服务器配置（serve 模式）
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig 脚本生成 LLM 配置
type AIConfig struct {
	Provider string          `mapstructure:"provider"` // openai / azure / ark
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig LLM 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// TTSConfig 语音合成配置
type TTSConfig struct {
	APIURL      string `mapstructure:"api_url"`
	AccessToken string `mapstructure:"access_token"`
	AppID       string `mapstructure:"app_id"`
	Cluster     string `mapstructure:"cluster"`
	SampleRate  int    `mapstructure:"sample_rate"`
	// OverviewVoice 概要旁白固定音色；为空时使用音色名单中的第一个女声
	OverviewVoice string `mapstructure:"overview_voice"`
	// PinnedVoice 单话者模式下所有台词固定使用的音色（trivia 变体）
	PinnedVoice string `mapstructure:"pinned_voice"`
}

// ImageConfig 图片生成配置（Ark 文生图）
type ImageConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json / console
	TimeFormat string `mapstructure:"time_format"`
	Caller     bool   `mapstructure:"caller"`
}

// AssetsConfig 素材库路径配置
// 资源选择器在运行开始时从这些目录构建素材池，不依赖全局扫描
type AssetsConfig struct {
	ManImageDir   string `mapstructure:"man_image_dir"`   // 男性立绘目录
	WomanImageDir string `mapstructure:"woman_image_dir"` // 女性立绘目录
	BackgroundDir string `mapstructure:"background_dir"`  // 缩略图背景目录
	BGMDir        string `mapstructure:"bgm_dir"`         // 背景音乐目录
	BGVDir        string `mapstructure:"bgv_dir"`         // 背景视频目录
	FontPath      string `mapstructure:"font_path"`       // 字幕/标题字体
}

// OutputConfig 产物输出配置
type OutputConfig struct {
	Root string `mapstructure:"root"` // 每次运行在 <root>/<run_id>/ 下写检查点和产物
}

// MovieConfig 视频合成参数
// 分辨率、帧率、字号等作为配置字段而非每个变体的硬编码常量
type MovieConfig struct {
	Width         int     `mapstructure:"width"`
	Height        int     `mapstructure:"height"`
	FPS           int     `mapstructure:"fps"`
	FontSize      int     `mapstructure:"font_size"`
	IntroDuration float64 `mapstructure:"intro_duration"` // 片头缩略图展示秒数
	BGMVolume     float64 `mapstructure:"bgm_volume"`     // 背景音乐相对旁白的增益
}

// StorageConfig 产物归档存储配置
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统存储配置
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"`
	BaseURL  string `mapstructure:"base_url"`
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
}

// UploadConfig YouTube 上传配置
type UploadConfig struct {
	ClientSecretsFile string `mapstructure:"client_secrets_file"`
	TokenFile         string `mapstructure:"token_file"`
	CategoryID        string `mapstructure:"category_id"`
	Privacy           string `mapstructure:"privacy"`
	RegistryFile      string `mapstructure:"registry_file"` // 上传台账 JSON
}

// Validate 验证配置有效性
// 任何阶段开始前的快速失败：缺失的密钥、素材目录等在这里一次性暴露
func (c *Config) Validate() error {
	if c.AI.APIKey == "" {
		return errors.New("ai.api_key is required (env: YUZU_AI_API_KEY)")
	}
	if c.TTS.AccessToken == "" {
		return errors.New("tts.access_token is required (env: YUZU_TTS_ACCESS_TOKEN)")
	}
	if c.Output.Root == "" {
		return errors.New("output.root is required")
	}
	if c.Movie.Width <= 0 || c.Movie.Height <= 0 {
		return errors.New("invalid movie resolution")
	}
	if c.Movie.FPS <= 0 {
		return errors.New("invalid movie fps")
	}
	for name, dir := range map[string]string{
		"assets.man_image_dir":   c.Assets.ManImageDir,
		"assets.woman_image_dir": c.Assets.WomanImageDir,
		"assets.background_dir":  c.Assets.BackgroundDir,
		"assets.bgm_dir":         c.Assets.BGMDir,
		"assets.bgv_dir":         c.Assets.BGVDir,
	} {
		if dir == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Assets.FontPath == "" {
		return errors.New("assets.font_path is required")
	}
	return nil
}

// ValidateServer serve 模式的附加校验
func (c *Config) ValidateServer() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}
	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}
	return nil
}
