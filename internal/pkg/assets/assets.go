// Package assets 管理一次运行可用的素材池。
//
// 素材池在运行开始时由显式配置的目录构建，
// 不做任何 import 期的全局扫描，便于测试时注入假素材。
package assets

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"yuzu/internal/config"
	"yuzu/internal/model/video"
)

// Selector 素材选择器。素材只读，随机选取无排他要求。
type Selector struct {
	manImages   []string
	womanImages []string
	backgrounds []string
	bgms        []string
	bgvs        []string
	rng         *rand.Rand
}

// NewSelector 从配置目录构建素材池。
// 任一必需池为空立即报错（配置校验的一部分，不留到阶段中途）。
func NewSelector(cfg *config.AssetsConfig, rng *rand.Rand) (*Selector, error) {
	s := &Selector{rng: rng}

	var err error
	if s.manImages, err = listFiles(cfg.ManImageDir); err != nil {
		return nil, fmt.Errorf("man image pool: %w", err)
	}
	if s.womanImages, err = listFiles(cfg.WomanImageDir); err != nil {
		return nil, fmt.Errorf("woman image pool: %w", err)
	}
	if s.backgrounds, err = listFiles(cfg.BackgroundDir); err != nil {
		return nil, fmt.Errorf("background pool: %w", err)
	}
	if s.bgms, err = listFiles(cfg.BGMDir); err != nil {
		return nil, fmt.Errorf("bgm pool: %w", err)
	}
	if s.bgvs, err = listFiles(cfg.BGVDir); err != nil {
		return nil, fmt.Errorf("bgv pool: %w", err)
	}
	return s, nil
}

// NewSelectorFromPools 直接以文件列表构建（测试注入用）
func NewSelectorFromPools(man, woman, backgrounds, bgms, bgvs []string, rng *rand.Rand) *Selector {
	return &Selector{
		manImages:   man,
		womanImages: woman,
		backgrounds: backgrounds,
		bgms:        bgms,
		bgvs:        bgvs,
		rng:         rng,
	}
}

// RandomCharacterImage 按性别随机选取一张立绘
func (s *Selector) RandomCharacterImage(gender video.Gender) string {
	return s.pick(s.pool(gender))
}

// RandomCharacterImageExcept 按性别随机选取一张与 prev 不同的立绘。
// 池中只有一张候选时接受立即重复（否则重采样永不终止）。
func (s *Selector) RandomCharacterImageExcept(gender video.Gender, prev string) string {
	pool := s.pool(gender)
	if len(pool) == 1 {
		return pool[0]
	}
	img := s.pick(pool)
	for img == prev {
		img = s.pick(pool)
	}
	return img
}

// RandomCharacterImageAny 不区分性别随机选取一张立绘（缩略图用）
func (s *Selector) RandomCharacterImageAny() string {
	union := make([]string, 0, len(s.manImages)+len(s.womanImages))
	union = append(union, s.manImages...)
	union = append(union, s.womanImages...)
	return s.pick(union)
}

// RandomBackground 随机选取一张背景图
func (s *Selector) RandomBackground() string { return s.pick(s.backgrounds) }

// RandomBGM 随机选取一条背景音乐
func (s *Selector) RandomBGM() string { return s.pick(s.bgms) }

// RandomBGV 随机选取一条背景视频
func (s *Selector) RandomBGV() string { return s.pick(s.bgvs) }

func (s *Selector) pool(gender video.Gender) []string {
	if gender == video.GenderMan {
		return s.manImages
	}
	return s.womanImages
}

func (s *Selector) pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[s.rng.Intn(len(pool))]
}

// listFiles 枚举目录下的普通文件（忽略隐藏文件与 .gitkeep）
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no usable files in %s", dir)
	}
	return files, nil
}
