// Package oss 阿里云OSS存储。
package oss

import (
	"context"
	"fmt"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"yuzu/internal/pkg/storage"
)

// Storage 阿里云OSS存储
type Storage struct {
	bucket     *oss.Bucket
	bucketName string
	endpoint   string
}

// New 创建阿里云OSS存储
func New(endpoint, bucketName, accessKeyID, accessKeySecret string) (*Storage, error) {
	client, err := oss.New(endpoint, accessKeyID, accessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("get bucket: %w", err)
	}
	return &Storage{
		bucket:     bucket,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// Upload 上传文件
func (s *Storage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	options := []oss.Option{oss.ContentType(contentType)}
	if err := s.bucket.PutObject(key, data, options...); err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, s.endpoint, key), nil
}

// Download 下载文件
func (s *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	body, err := s.bucket.GetObject(key)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	return body, nil
}

// Delete 删除文件
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.DeleteObject(key); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := s.bucket.IsObjectExist(key)
	if err != nil {
		return false, fmt.Errorf("check file existence: %w", err)
	}
	return exists, nil
}

// Type 存储类型
func (s *Storage) Type() string {
	return storage.TypeOSS
}
