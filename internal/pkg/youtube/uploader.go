package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"yuzu/internal/config"
	"yuzu/internal/model/video"
)

// Uploader 通过 YouTube Data API v3 上传视频与缩略图
type Uploader struct {
	cfg *config.UploadConfig
}

// NewUploader 创建上传器
func NewUploader(cfg *config.UploadConfig) *Uploader {
	return &Uploader{cfg: cfg}
}

// Upload 上传视频文件及缩略图，元数据取自手稿
// 返回上传后的视频 ID
func (u *Uploader) Upload(ctx context.Context, moviePath, thumbnailPath string, m *video.Manuscript) (string, error) {
	client, err := u.oauthClient(ctx)
	if err != nil {
		return "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("youtube service: %w", err)
	}

	privacy := u.cfg.Privacy
	if privacy == "" {
		privacy = "private"
	}
	categoryID := u.cfg.CategoryID
	if categoryID == "" {
		categoryID = "24" // Entertainment
	}

	upload := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                m.Title,
			Description:          m.Overview,
			Tags:                 m.Keywords,
			CategoryId:           categoryID,
			DefaultLanguage:      "ja",
			DefaultAudioLanguage: "ja",
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	f, err := os.Open(moviePath)
	if err != nil {
		return "", fmt.Errorf("open movie file: %w", err)
	}
	defer f.Close()

	if fi, statErr := f.Stat(); statErr == nil {
		log.Info().
			Str("title", m.Title).
			Float64("size_mb", float64(fi.Size())/1024/1024).
			Msg("uploading video to youtube")
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, upload)
	call.Media(f)
	uploaded, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}

	log.Info().
		Str("video_id", uploaded.Id).
		Str("video_url", "https://www.youtube.com/watch?v="+uploaded.Id).
		Msg("video uploaded")

	if thumbnailPath != "" {
		if err := u.setThumbnail(svc, uploaded.Id, thumbnailPath); err != nil {
			// 缩略图失败不回滚视频上传，记录后继续
			log.Error().Err(err).Str("video_id", uploaded.Id).Msg("failed to set thumbnail")
		}
	}

	return uploaded.Id, nil
}

func (u *Uploader) setThumbnail(svc *youtube.Service, videoID, thumbnailPath string) error {
	f, err := os.Open(thumbnailPath)
	if err != nil {
		return fmt.Errorf("open thumbnail: %w", err)
	}
	defer f.Close()

	call := svc.Thumbnails.Set(videoID)
	call.Media(f)
	if _, err := call.Do(); err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}
	return nil
}

// oauthClient 从 client secrets 与已保存的 token 构造 OAuth2 客户端
// token 文件需事先通过一次授权流程生成
func (u *Uploader) oauthClient(ctx context.Context) (*http.Client, error) {
	if u.cfg.ClientSecretsFile == "" {
		return nil, fmt.Errorf("upload.client_secrets_file is required")
	}
	secrets, err := os.ReadFile(u.cfg.ClientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	conf, err := google.ConfigFromJSON(secrets, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}

	tokenData, err := os.ReadFile(u.cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}

	return conf.Client(ctx, &token), nil
}
