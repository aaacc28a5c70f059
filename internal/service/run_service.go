package service

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"yuzu/internal/config"
	"yuzu/internal/pipeline"
	"yuzu/internal/pipeline/audio"
	"yuzu/internal/pipeline/manuscript"
	"yuzu/internal/pipeline/movie"
	"yuzu/internal/pipeline/thumbnail"
	"yuzu/internal/pkg/assets"
	"yuzu/internal/pkg/ffmpeg"
	"yuzu/internal/pkg/id"
	"yuzu/internal/pkg/imagegen"
	"yuzu/internal/pkg/llm"
	"yuzu/internal/pkg/scrape"
	"yuzu/internal/pkg/storage"
	"yuzu/internal/pkg/storagefactory"
	"yuzu/internal/pkg/textwrap"
	"yuzu/internal/pkg/tts"
	"yuzu/internal/pkg/youtube"
	"yuzu/internal/repository/checkpoint"
)

// 视频变体：决定原稿生成方式
const (
	VariantBulletin = "bulletin" // 抓取 5ch 帖子并整理
	VariantPseudo   = "pseudo"   // LLM 仿写帖子
	VariantTrivia   = "trivia"   // 冷知识清单
)

// 视频形态：决定排版与素材来源
const (
	FormatShort     = "short"     // 竖屏短视频，60 秒封顶，片头缩略图
	FormatLong      = "long"      // 横屏长视频，概要旁白开场，不封顶
	FormatGenerated = "generated" // 竖屏短视频，逐行文生图取代立绘
)

// RunRequest 一次生成请求
type RunRequest struct {
	Variant    string
	Format     string
	SourceURL  string // bulletin 变体的帖子链接
	ResumeID   string // 非空时复用既有运行目录
	ResumeStep string // 从哪个阶段重新生成，空值等于从头
}

// RunService 装配并执行视频生成管线
// 所有外部依赖（LLM、TTS、文生图、ffmpeg、素材库）在构造时就绪，
// 每次 Run 只创建与该运行绑定的检查点与阶段对象
type RunService struct {
	cfg      *config.Config
	provider llm.Provider
	synth    *tts.Client
	images   *imagegen.Generator
	renderer *ffmpeg.Client
	selector *assets.Selector
	wrapper  *textwrap.Wrapper
	store    storage.Storage
	registry *youtube.Registry
	roster   []tts.Voice
}

// NewRunService 构建运行服务
func NewRunService(ctx context.Context, cfg *config.Config) (*RunService, error) {
	chatModel, err := llm.NewChatModel(ctx, &cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	provider := llm.NewEinoProvider(chatModel)

	synth, err := tts.NewClient(&cfg.TTS)
	if err != nil {
		return nil, fmt.Errorf("init tts client: %w", err)
	}

	var images *imagegen.Generator
	if cfg.Image.APIKey != "" {
		client, err := imagegen.NewArkClient(&cfg.Image)
		if err != nil {
			return nil, fmt.Errorf("init image client: %w", err)
		}
		images = imagegen.NewGenerator(client, provider)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selector, err := assets.NewSelector(&cfg.Assets, rng)
	if err != nil {
		return nil, fmt.Errorf("init asset selector: %w", err)
	}

	var store storage.Storage
	if cfg.Storage.Type != "" {
		store, err = storagefactory.New(&cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
	}

	var registry *youtube.Registry
	if cfg.Upload.RegistryFile != "" {
		registry = youtube.NewRegistry(cfg.Upload.RegistryFile)
	}

	return &RunService{
		cfg:      cfg,
		provider: provider,
		synth:    synth,
		images:   images,
		renderer: ffmpeg.NewClient(),
		selector: selector,
		wrapper:  textwrap.New(),
		store:    store,
		registry: registry,
		roster:   tts.DefaultRoster(),
	}, nil
}

// prepare 校验请求并装配管线，返回本次运行的 run id
func (s *RunService) prepare(req RunRequest) (string, *pipeline.Pipeline, pipeline.Step, error) {
	resumeStep, err := pipeline.ParseStep(req.ResumeStep)
	if err != nil {
		return "", nil, resumeStep, err
	}
	if req.ResumeID != "" && req.ResumeStep == "" {
		return "", nil, resumeStep, fmt.Errorf("resume-step is required when resume-id is set")
	}
	if req.ResumeID == "" && resumeStep != pipeline.StepManuscript {
		return "", nil, resumeStep, fmt.Errorf("resume-id is required when resuming from %s", resumeStep)
	}

	runID := req.ResumeID
	if runID == "" {
		runID = id.NewRun()
	}

	p, err := s.assemble(runID, req)
	if err != nil {
		return runID, nil, resumeStep, err
	}
	return runID, p, resumeStep, nil
}

// Run 执行一次完整（或续传）的生成，返回本次运行的 run id
func (s *RunService) Run(ctx context.Context, req RunRequest) (string, error) {
	runID, p, resumeStep, err := s.prepare(req)
	if err != nil {
		return runID, err
	}

	log.Info().
		Str("run_id", runID).
		Str("variant", req.Variant).
		Str("format", req.Format).
		Msg("starting run")

	if err := p.Run(ctx, resumeStep); err != nil {
		return runID, err
	}

	if err := s.finish(ctx, runID); err != nil {
		return runID, err
	}
	return runID, nil
}

// Start 在后台协程执行生成并立即返回 run id（serve 模式）
// 进度通过 Status 查询，失败只体现在日志与缺失的产物上
func (s *RunService) Start(req RunRequest) (string, error) {
	runID, p, resumeStep, err := s.prepare(req)
	if err != nil {
		return runID, err
	}

	go func() {
		ctx := context.Background()
		if err := p.Run(ctx, resumeStep); err != nil {
			log.Error().Err(err).Str("run_id", runID).Msg("background run failed")
			return
		}
		if err := s.finish(ctx, runID); err != nil {
			log.Error().Err(err).Str("run_id", runID).Msg("background run archiving failed")
		}
	}()

	return runID, nil
}

// assemble 按变体与形态装配四个阶段
func (s *RunService) assemble(runID string, req RunRequest) (*pipeline.Pipeline, error) {
	paths := checkpoint.NewPaths(s.cfg.Output.Root, runID)
	manuscriptStore := checkpoint.NewManuscriptStore(paths)
	audioStore := checkpoint.NewAudioStore(paths)

	var manuscriptStage pipeline.ManuscriptStage
	switch req.Variant {
	case VariantBulletin:
		// 从 audio 及之后续传时原稿阶段只读检查点，链接可以省略
		if req.SourceURL == "" && req.ResumeStep == "" {
			return nil, fmt.Errorf("source url is required for bulletin variant")
		}
		manuscriptStage = manuscript.NewBulletinGenerator(req.SourceURL, scrape.NewClient(), s.provider, manuscriptStore)
	case VariantPseudo:
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		manuscriptStage = manuscript.NewPseudoGenerator(s.cfg.Content.Topics, s.provider, manuscriptStore, rng)
	case VariantTrivia:
		manuscriptStage = manuscript.NewTriviaGenerator(s.cfg.Content.TriviaThemes, s.cfg.Content.TriviaCount, s.provider, manuscriptStore)
	default:
		return nil, fmt.Errorf("unknown variant %q", req.Variant)
	}

	audioOpts := audio.Options{
		Roster:        s.roster,
		OverviewVoice: s.cfg.TTS.OverviewVoice,
	}
	if req.Variant == VariantTrivia {
		audioOpts.PinnedVoice = s.cfg.TTS.PinnedVoice
		if audioOpts.PinnedVoice == "" {
			audioOpts.PinnedVoice = s.roster[0].ID
		}
	}
	audioStage := audio.NewGenerator(audioOpts, s.synth, audioStore, paths)

	thumbOpts := thumbnail.Options{
		Width:         s.cfg.Movie.Width,
		Height:        s.cfg.Movie.Height,
		TitleFontSize: s.cfg.Movie.FontSize * 2,
		FontPath:      s.cfg.Assets.FontPath,
	}
	var thumbnailStage pipeline.ThumbnailStage
	var movieOpts movie.Options
	switch req.Format {
	case FormatShort, "":
		thumbnailStage = thumbnail.NewBoardGenerator(thumbOpts, paths, s.selector, s.wrapper)
		movieOpts = movie.ShortBoardOptions(&s.cfg.Movie, s.cfg.Assets.FontPath)
	case FormatLong:
		thumbnailStage = thumbnail.NewBoardGenerator(thumbOpts, paths, s.selector, s.wrapper)
		movieOpts = movie.LongBoardOptions(&s.cfg.Movie, s.cfg.Assets.FontPath)
	case FormatGenerated:
		if s.images == nil {
			return nil, fmt.Errorf("image.api_key is required for generated format")
		}
		thumbnailStage = thumbnail.NewGeneratedGenerator(thumbOpts, paths, s.images, s.wrapper)
		movieOpts = movie.ShortGeneratedOptions(&s.cfg.Movie, s.cfg.Assets.FontPath)
	default:
		return nil, fmt.Errorf("unknown format %q", req.Format)
	}

	// 接口参数避免带类型的 nil 指针
	var movieImages movie.ImageMaker
	if s.images != nil {
		movieImages = s.images
	}
	movieStage := movie.NewGenerator(movieOpts, paths, s.selector, s.wrapper, s.renderer, movieImages)

	return pipeline.New(runID, manuscriptStage, audioStage, thumbnailStage, movieStage), nil
}

// finish 运行成功后的归档动作：产物上传到存储、登记上传台账
func (s *RunService) finish(ctx context.Context, runID string) error {
	paths := checkpoint.NewPaths(s.cfg.Output.Root, runID)

	if s.store != nil {
		urls, err := storage.NewPublisher(s.store).PublishRun(ctx, paths, runID)
		if err != nil {
			return fmt.Errorf("publish artifacts: %w", err)
		}
		log.Info().Str("run_id", runID).Int("artifacts", len(urls)).Msg("artifacts published")
	}

	if s.registry != nil {
		if err := s.registry.Register(runID); err != nil {
			return fmt.Errorf("register upload: %w", err)
		}
	}
	return nil
}

// RunStatus 单次运行的阶段完成情况，依据检查点文件推断
type RunStatus struct {
	RunID      string `json:"run_id"`
	Manuscript bool   `json:"manuscript"`
	Audio      bool   `json:"audio"`
	Thumbnail  bool   `json:"thumbnail"`
	Movie      bool   `json:"movie"`
	Title      string `json:"title,omitempty"`
}

// Status 查询指定运行的进度
// 运行目录不存在时返回错误，各阶段完成与否以产物文件存在为准
func (s *RunService) Status(runID string) (*RunStatus, error) {
	paths := checkpoint.NewPaths(s.cfg.Output.Root, runID)
	if _, err := os.Stat(paths.RunDir()); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	status := &RunStatus{
		RunID:      runID,
		Manuscript: exists(paths.Manuscript()),
		Audio:      exists(paths.Audio()),
		Thumbnail:  exists(paths.Thumbnail()),
		Movie:      exists(paths.Movie()),
	}
	if status.Manuscript {
		if m, err := checkpoint.NewManuscriptStore(paths).Load(); err == nil {
			status.Title = m.Title
		}
	}
	return status, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
