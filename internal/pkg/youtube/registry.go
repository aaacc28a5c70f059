package youtube

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
)

// Entry 一条上传登记
// 描述模板与密钥文件都就绪的条目才会被视为可上传
type Entry struct {
	DescriptionTemplateFile string `json:"description_template_file_path"`
	ClientSecretsFile       string `json:"client_secrets_file_path"`
}

// Ready 两个路径都已填写时条目视为就绪
func (e Entry) Ready() bool {
	return e.DescriptionTemplateFile != "" && e.ClientSecretsFile != ""
}

type registryFile struct {
	Manager map[string]Entry `json:"manager"`
}

// Registry 上传台账
// 以 run id 为键记录待上传视频，人工补全条目后由 upload 命令消费
type Registry struct {
	path string
}

// NewRegistry 创建指向指定台账文件的登记器，文件不存在时按需创建
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Register 登记一条新的运行记录，已存在时仅告警不覆盖
func (r *Registry) Register(runID string) error {
	data, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := data.Manager[runID]; ok {
		log.Warn().Str("run_id", runID).Msg("run already registered for upload")
		return nil
	}
	data.Manager[runID] = Entry{}
	return r.save(data)
}

// Remove 删除一条登记，不存在时仅告警
func (r *Registry) Remove(runID string) error {
	data, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := data.Manager[runID]; !ok {
		log.Warn().Str("run_id", runID).Msg("run not registered for upload")
		return nil
	}
	delete(data.Manager, runID)
	return r.save(data)
}

// Get 取出指定登记，第二返回值为是否存在
func (r *Registry) Get(runID string) (Entry, bool, error) {
	data, err := r.load()
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := data.Manager[runID]
	return e, ok, nil
}

// ReadyIDs 返回全部就绪条目的 run id，按字典序
func (r *Registry) ReadyIDs() ([]string, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	var ids []string
	for id, e := range data.Manager {
		if e.Ready() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Registry) load() (*registryFile, error) {
	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return &registryFile{Manager: map[string]Entry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload registry: %w", err)
	}
	var data registryFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse upload registry: %w", err)
	}
	if data.Manager == nil {
		data.Manager = map[string]Entry{}
	}
	return &data, nil
}

func (r *Registry) save(data *registryFile) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode upload registry: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("write upload registry: %w", err)
	}
	return nil
}
