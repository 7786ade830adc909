package cart

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"shopkit/errors"
)

// IPersistence 购物车持久化接口。
//
// 实现约定：
//   - Save 写入完整车态，覆盖旧值（单一命名槽位，无增量写入）；
//   - Load 在槽位不存在时返回空序列而非错误；
//   - 槽位内容损坏时 Load 返回错误，由 Store 丢弃并以空车启动。
type IPersistence interface {
	// Load 读取完整车态
	Load(ctx context.Context) ([]Line, error)

	// Save 覆盖写入完整车态
	Save(ctx context.Context, lines []Line) error
}

// MemoryPersistence 进程内持久化实现（用于测试与演示）
type MemoryPersistence struct {
	mu    sync.Mutex
	blob  []byte
	saved bool
}

// NewMemoryPersistence 创建进程内持久化
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (p *MemoryPersistence) Load(ctx context.Context) ([]Line, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.saved {
		return nil, nil
	}
	return decodeLines(p.blob)
}

func (p *MemoryPersistence) Save(ctx context.Context, lines []Line) error {
	blob, err := encodeLines(lines)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blob = blob
	p.saved = true
	return nil
}

// Seed 直接注入原始字节，用于测试损坏数据场景
func (p *MemoryPersistence) Seed(blob []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blob = blob
	p.saved = true
}

// FilePersistence 单文件 JSON 持久化实现。
//
// 写入走临时文件 + 重命名，避免进程中途退出留下半截文件。
type FilePersistence struct {
	path string
	mu   sync.Mutex
}

// NewFilePersistence 创建文件持久化，path 为 JSON 槽位文件路径
func NewFilePersistence(path string) *FilePersistence {
	return &FilePersistence{path: path}
}

func (p *FilePersistence) Load(ctx context.Context) ([]Line, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	blob, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.ErrCodeStorage, "đọc giỏ hàng thất bại")
	}
	return decodeLines(blob)
}

func (p *FilePersistence) Save(ctx context.Context, lines []Line) error {
	blob, err := encodeLines(lines)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.ErrCodeStorage, "tạo thư mục giỏ hàng thất bại")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".tmp-*")
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeStorage, "ghi giỏ hàng thất bại")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapError(err, errors.ErrCodeStorage, "ghi giỏ hàng thất bại")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapError(err, errors.ErrCodeStorage, "ghi giỏ hàng thất bại")
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		os.Remove(tmpName)
		return errors.WrapError(err, errors.ErrCodeStorage, "ghi giỏ hàng thất bại")
	}
	return nil
}

func encodeLines(lines []Line) ([]byte, error) {
	if lines == nil {
		lines = []Line{}
	}
	blob, err := json.Marshal(lines)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeStorage, "serialize giỏ hàng thất bại")
	}
	return blob, nil
}

func decodeLines(blob []byte) ([]Line, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	var lines []Line
	if err := json.Unmarshal(blob, &lines); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeStorage, "dữ liệu giỏ hàng không hợp lệ")
	}
	return lines, nil
}

var (
	_ IPersistence = (*MemoryPersistence)(nil)
	_ IPersistence = (*FilePersistence)(nil)
)
