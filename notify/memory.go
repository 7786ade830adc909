package notify

import (
	"context"
	"sync"
)

// Handler 事件处理函数
type Handler func(ctx context.Context, event Event)

// MemoryNotifier 进程内事件分发实现。
//
// 同步调用全部订阅者，适合测试与单进程装配；
// 订阅者按事件类型匹配，"*" 订阅全部类型。
type MemoryNotifier struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	closed   bool
}

// NewMemoryNotifier 创建进程内通知器
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe 按事件类型订阅处理函数
func (n *MemoryNotifier) Subscribe(eventType string, handler Handler) {
	if handler == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[eventType] = append(n.handlers[eventType], handler)
}

// Publish 同步分发事件到匹配的订阅者
func (n *MemoryNotifier) Publish(ctx context.Context, event Event) error {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return nil
	}
	matched := make([]Handler, 0, len(n.handlers[event.Type])+len(n.handlers["*"]))
	matched = append(matched, n.handlers[event.Type]...)
	matched = append(matched, n.handlers["*"]...)
	n.mu.RUnlock()

	for _, h := range matched {
		h(ctx, event)
	}
	return nil
}

// Close 关闭后丢弃全部订阅
func (n *MemoryNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.handlers = make(map[string][]Handler)
	return nil
}

var _ Notifier = (*MemoryNotifier)(nil)
