// Package tts 封装火山引擎 openspeech 的语音合成 API。
//
// 参考: https://openspeech.bytedance.com/api/v1/tts
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"yuzu/internal/config"
	"yuzu/internal/pkg/id"
)

const (
	defaultAPIURL     = "https://openspeech.bytedance.com/api/v1/tts"
	defaultCluster    = "volcano_tts"
	defaultSampleRate = 44100
)

// Client TTS 客户端封装
type Client struct {
	apiURL      string
	accessToken string
	appID       string
	cluster     string
	sampleRate  int
	httpClient  *http.Client
}

// NewClient 创建 TTS 客户端
func NewClient(cfg *config.TTSConfig) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("TTS access token is required")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	cluster := cfg.Cluster
	if cluster == "" {
		cluster = defaultCluster
	}
	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRate
	}

	return &Client{
		apiURL:      apiURL,
		accessToken: cfg.AccessToken,
		appID:       cfg.AppID,
		cluster:     cluster,
		sampleRate:  sampleRate,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SampleRate 客户端约定的采样率
func (c *Client) SampleRate() int { return c.sampleRate }

// Synthesize 合成一段语音，返回 WAV 编码的波形数据。
// voiceType 为音色ID（如 BV001_streaming）。
func (c *Client) Synthesize(ctx context.Context, text, voiceType string) ([]byte, error) {
	requestID := id.New()
	reqBody, err := json.Marshal(c.buildRequest(text, voiceType, requestID))
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create tts request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer; %s", c.accessToken))
	req.Header.Set("Content-Type", "application/json")

	log.Debug().
		Str("request_id", requestID).
		Str("voice_type", voiceType).
		Str("text", text).
		Msg("sending TTS request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send tts request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts API request failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var apiResp struct {
		Code    float64 `json:"code"`
		Message string  `json:"message"`
		Data    string  `json:"data"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("parse tts response: %w", err)
	}
	// 3000 为 openspeech 的成功码
	if apiResp.Code != 3000 {
		message := apiResp.Message
		if message == "" {
			message = "unknown error"
		}
		return nil, fmt.Errorf("tts API response error: %s (code: %.0f)", message, apiResp.Code)
	}
	if apiResp.Data == "" {
		return nil, fmt.Errorf("audio data not found in tts response")
	}

	audioData, err := base64.StdEncoding.DecodeString(apiResp.Data)
	if err != nil {
		return nil, fmt.Errorf("decode tts audio data: %w", err)
	}
	return audioData, nil
}

// buildRequest 构建请求体
func (c *Client) buildRequest(text, voiceType, requestID string) map[string]any {
	appConfig := map[string]any{
		"token":   c.accessToken,
		"cluster": c.cluster,
	}
	if c.appID != "" {
		appConfig["appid"] = c.appID
	}
	return map[string]any{
		"app":  appConfig,
		"user": map[string]any{"uid": requestID},
		"audio": map[string]any{
			"voice_type":  voiceType,
			"encoding":    "wav",
			"rate":        c.sampleRate,
			"speed_ratio": 1.0,
		},
		"request": map[string]any{
			"reqid":     requestID,
			"text":      text,
			"operation": "query",
		},
	}
}
