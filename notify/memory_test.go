package notify

import (
	"context"
	"testing"
)

// TestNewEvent 测试事件创建
func TestNewEvent(t *testing.T) {
	event := NewEvent(EventCartItemAdded, map[string]any{"line_id": "5-M-Blue"})

	if event.ID == "" {
		t.Error("事件ID为空")
	}
	if event.Type != EventCartItemAdded {
		t.Errorf("Type = %s, 期望 %s", event.Type, EventCartItemAdded)
	}
	if event.Timestamp.IsZero() {
		t.Error("时间戳为零值")
	}

	another := NewEvent(EventCartItemAdded, nil)
	if another.ID == event.ID {
		t.Error("两个事件的ID不应相同")
	}
}

// TestMemoryNotifier_Publish 测试按类型分发
func TestMemoryNotifier_Publish(t *testing.T) {
	n := NewMemoryNotifier()
	defer n.Close()

	var gotCart, gotAll []Event
	n.Subscribe(EventCartItemAdded, func(ctx context.Context, e Event) {
		gotCart = append(gotCart, e)
	})
	n.Subscribe("*", func(ctx context.Context, e Event) {
		gotAll = append(gotAll, e)
	})

	ctx := context.Background()
	if err := n.Publish(ctx, NewEvent(EventCartItemAdded, nil)); err != nil {
		t.Fatalf("Publish失败: %v", err)
	}
	if err := n.Publish(ctx, NewEvent(EventOrderCheckedOut, nil)); err != nil {
		t.Fatalf("Publish失败: %v", err)
	}

	if len(gotCart) != 1 {
		t.Errorf("类型订阅收到 %d 个事件, 期望 1", len(gotCart))
	}
	if len(gotAll) != 2 {
		t.Errorf("通配订阅收到 %d 个事件, 期望 2", len(gotAll))
	}
}

// TestMemoryNotifier_Closed 测试关闭后发布
func TestMemoryNotifier_Closed(t *testing.T) {
	n := NewMemoryNotifier()

	received := 0
	n.Subscribe("*", func(ctx context.Context, e Event) { received++ })

	if err := n.Close(); err != nil {
		t.Fatalf("Close失败: %v", err)
	}

	// 关闭后发布不报错、不分发
	if err := n.Publish(context.Background(), NewEvent(EventCartCleared, nil)); err != nil {
		t.Errorf("关闭后Publish不应报错: %v", err)
	}
	if received != 0 {
		t.Error("关闭后不应继续分发")
	}
}

// TestMemoryNotifier_NilHandler 测试空处理函数
func TestMemoryNotifier_NilHandler(t *testing.T) {
	n := NewMemoryNotifier()
	defer n.Close()

	n.Subscribe(EventCartCleared, nil)
	if err := n.Publish(context.Background(), NewEvent(EventCartCleared, nil)); err != nil {
		t.Errorf("Publish失败: %v", err)
	}
}

// TestNoopNotifier 测试空实现
func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	if err := n.Publish(context.Background(), NewEvent(EventCartCleared, nil)); err != nil {
		t.Errorf("NoopNotifier.Publish应返回nil: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("NoopNotifier.Close应返回nil: %v", err)
	}
}
