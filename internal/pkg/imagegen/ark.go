package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"

	"yuzu/internal/config"
)

const defaultImageModel = "doubao-seedream-3-0-t2i-250415"

// ArkClient Ark 图片生成客户端
// 调用火山引擎 Ark API 文生图
type ArkClient struct {
	client *arkruntime.Client
	model  string
}

// NewArkClient 创建 Ark 图片生成客户端
func NewArkClient(cfg *config.ImageConfig) (*ArkClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("image api key is required")
	}

	var opts []arkruntime.ConfigOption
	if cfg.BaseURL != "" {
		opts = append(opts, arkruntime.WithBaseUrl(cfg.BaseURL))
	}
	imageModel := cfg.Model
	if imageModel == "" {
		imageModel = defaultImageModel
	}

	return &ArkClient{
		client: arkruntime.NewClientWithApiKey(cfg.APIKey, opts...),
		model:  imageModel,
	}, nil
}

// GenerateImage 生成一张图片，返回图片二进制数据
func (c *ArkClient) GenerateImage(ctx context.Context, prompt, size string) ([]byte, error) {
	if size == "" {
		size = "1024x1024"
	}
	responseFormat := "b64_json"
	watermark := false

	input := model.GenerateImagesRequest{
		Model:          c.model,
		Prompt:         prompt,
		Size:           &size,
		ResponseFormat: &responseFormat,
		Watermark:      &watermark,
	}

	output, err := c.client.GenerateImages(ctx, input)
	if err != nil {
		log.Error().Err(err).Msg("failed to call Ark GenerateImages API")
		return nil, fmt.Errorf("Ark GenerateImages API call failed: %w", err)
	}
	if len(output.Data) == 0 {
		return nil, fmt.Errorf("no image data in response")
	}
	firstImage := output.Data[0]
	if firstImage.B64Json == nil {
		return nil, fmt.Errorf("no b64_json in response data")
	}

	imageData, err := base64.StdEncoding.DecodeString(*firstImage.B64Json)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image data: %w", err)
	}
	return imageData, nil
}
