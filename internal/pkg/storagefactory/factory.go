// Package storagefactory 根据配置创建存储实例。
package storagefactory

import (
	"fmt"

	"yuzu/internal/config"
	"yuzu/internal/pkg/storage"
	"yuzu/internal/pkg/storage/local"
	"yuzu/internal/pkg/storage/oss"
)

// New 根据配置创建存储实例
func New(cfg *config.StorageConfig) (storage.Storage, error) {
	switch cfg.Type {
	case storage.TypeLocal:
		if cfg.Local == nil {
			return nil, fmt.Errorf("local storage config is required")
		}
		return local.New(cfg.Local.BasePath, cfg.Local.BaseURL)
	case storage.TypeOSS:
		if cfg.OSS == nil {
			return nil, fmt.Errorf("OSS storage config is required")
		}
		return oss.New(
			cfg.OSS.Endpoint,
			cfg.OSS.Bucket,
			cfg.OSS.AccessKeyID,
			cfg.OSS.AccessKeySecret,
		)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
