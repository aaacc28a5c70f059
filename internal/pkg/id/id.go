package id

import (
	"github.com/google/uuid"
)

// NewRun 生成新的运行ID。
// 使用 UUIDv7（时间有序），运行目录按创建时间排序，
// 同一ID贯穿四个阶段的检查点与产物文件。
func NewRun() string {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 只有在系统随机源不可用时才会失败，此时退回 v4
		return uuid.New().String()
	}
	return v7.String()
}

// New 生成普通UUID（请求ID等一次性用途）
func New() string {
	return uuid.New().String()
}

// IsValid 验证UUID格式是否有效
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
