// Package notify 提供店面领域事件的发布抽象。
//
// 购物车、下单、发票状态变更等本地操作完成后，以尽力而为的方式
// 向外发布事件：发布失败只记录日志，绝不让领域操作本身失败。
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// 领域事件类型常量
const (
	EventCartItemAdded       = "cart.item_added"
	EventCartQuantityChanged = "cart.quantity_changed"
	EventCartItemRemoved     = "cart.item_removed"
	EventCartCleared         = "cart.cleared"
	EventOrderCheckedOut     = "order.checked_out"
	EventOrderCancelled      = "order.cancelled"
	EventInvoiceStatusChange = "invoice.status_changed"
)

// Event 领域事件
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   any            `json:"payload"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewEvent 创建新事件，自动分配 ID 与时间戳
func NewEvent(eventType string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// Notifier 事件发布接口
type Notifier interface {
	// Publish 发布单个事件
	Publish(ctx context.Context, event Event) error

	// Close 释放底层资源
	Close() error
}

// NoopNotifier 空实现，未配置通知时使用
type NoopNotifier struct{}

func (NoopNotifier) Publish(ctx context.Context, event Event) error { return nil }
func (NoopNotifier) Close() error                                   { return nil }
