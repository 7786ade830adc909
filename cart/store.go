package cart

import (
	"context"
	"sync"

	"shopkit/errors"
	"shopkit/logging"
	"shopkit/notify"
)

// Config 购物车存储配置
type Config struct {
	// Persistence 持久化实现，nil 时使用内存实现
	Persistence IPersistence

	// Notifier 事件通知器（可选），发布失败只记日志
	Notifier notify.Notifier

	// Logger 日志（可选）
	Logger logging.Logger
}

// Store 购物车存储
//
// 持有按插入顺序排列、按行键唯一的购物车行序列。
// 每个变更操作在返回前同步写入持久化槽位，
// 因此任何时刻进程退出都不会丢失已完成的变更。
type Store struct {
	mu          sync.Mutex
	lines       []Line
	persistence IPersistence
	notifier    notify.Notifier
	logger      logging.Logger
}

// NewStore 创建购物车存储并从持久化槽位恢复车态。
// 槽位缺失或内容损坏时以空车启动，不向调用方暴露错误。
func NewStore(ctx context.Context, cfg Config) *Store {
	if cfg.Persistence == nil {
		cfg.Persistence = NewMemoryPersistence()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NoopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "cart"))
	}

	s := &Store{
		persistence: cfg.Persistence,
		notifier:    cfg.Notifier,
		logger:      cfg.Logger,
	}

	lines, err := cfg.Persistence.Load(ctx)
	if err != nil {
		// 损坏的车态直接丢弃，以空车启动
		cfg.Logger.Warn(ctx, "恢复购物车失败，以空车启动", logging.Error(err))
		lines = nil
	}
	s.lines = lines
	return s
}

// AddItem 加入购物车。
//
// candidate 的 ID 字段被忽略，行键由 (ProductID, Size, Color) 派生。
// 已存在同键行时合并：数量为 min(原数量+新数量, 新库存上限)，
// 且以本次提供的库存上限与价格快照为准（允许重复加购刷新库存）。
// 不存在时按插入顺序追加到末尾。
func (s *Store) AddItem(ctx context.Context, candidate Line) error {
	if candidate.Quantity < 1 {
		return errors.NewValidationError("số lượng phải lớn hơn 0")
	}
	if candidate.StockLimit < 1 {
		return errors.NewValidationError("sản phẩm đã hết hàng")
	}

	candidate.ID = LineID(candidate.ProductID, candidate.Size, candidate.Color)
	if candidate.Quantity > candidate.StockLimit {
		candidate.Quantity = candidate.StockLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.lines {
		if s.lines[i].ID != candidate.ID {
			continue
		}
		quantity := s.lines[i].Quantity + candidate.Quantity
		if quantity > candidate.StockLimit {
			quantity = candidate.StockLimit
		}
		candidate.Quantity = quantity
		s.lines[i] = candidate
		merged = true
		break
	}
	if !merged {
		s.lines = append(s.lines, candidate)
	}

	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	s.publish(ctx, notify.EventCartItemAdded, candidate)
	return nil
}

// SetQuantity 修改行数量。
// n < 1 时为空操作；否则数量被钳制到行的库存上限。
func (s *Store) SetQuantity(ctx context.Context, lineID string, n int) error {
	if n < 1 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(lineID)
	if idx < 0 {
		return errors.NewError(errors.ErrCodeNotFound, "không tìm thấy sản phẩm trong giỏ hàng")
	}

	quantity := n
	if quantity > s.lines[idx].StockLimit {
		quantity = s.lines[idx].StockLimit
	}
	if quantity == s.lines[idx].Quantity {
		return nil
	}
	s.lines[idx].Quantity = quantity

	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	s.publish(ctx, notify.EventCartQuantityChanged, s.lines[idx])
	return nil
}

// RemoveItem 删除指定行。行不存在时为空操作。
func (s *Store) RemoveItem(ctx context.Context, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(lineID)
	if idx < 0 {
		return nil
	}
	removed := s.lines[idx]
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)

	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	s.publish(ctx, notify.EventCartItemRemoved, removed)
	return nil
}

// Clear 清空购物车（结账成功后由调用方显式调用）
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil

	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	s.publish(ctx, notify.EventCartCleared, nil)
	return nil
}

// Lines 返回当前车态的副本，插入顺序保持
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Get 按行键查找行
func (s *Store) Get(lineID string) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(lineID)
	if idx < 0 {
		return Line{}, false
	}
	return s.lines[idx], true
}

// TotalItems 全部行的数量总和
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice 全部行的金额总和
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// Len 当前行数
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// persistLocked 同步写入完整车态（需要持锁调用）
func (s *Store) persistLocked(ctx context.Context) error {
	if err := s.persistence.Save(ctx, s.lines); err != nil {
		s.logger.Error(ctx, "购物车持久化失败", logging.Error(err))
		return errors.WrapError(err, errors.ErrCodeStorage, "lưu giỏ hàng thất bại")
	}
	return nil
}

// publish 尽力而为地发布事件，失败只记日志
func (s *Store) publish(ctx context.Context, eventType string, payload any) {
	if err := s.notifier.Publish(ctx, notify.NewEvent(eventType, payload)); err != nil {
		s.logger.Warn(ctx, "购物车事件发布失败",
			logging.String("event_type", eventType), logging.Error(err))
	}
}

func (s *Store) indexOfLocked(lineID string) int {
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}
