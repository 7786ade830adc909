package logging

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"
)

// TestFieldConstructors 测试字段构造函数
func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		wantKey string
	}{
		{name: "String字段", field: String("name", "test"), wantKey: "name"},
		{name: "Int字段", field: Int("count", 123), wantKey: "count"},
		{name: "Int64字段", field: Int64("id", int64(456)), wantKey: "id"},
		{name: "Float64字段", field: Float64("price", 12.34), wantKey: "price"},
		{name: "Bool字段", field: Bool("active", true), wantKey: "active"},
		{name: "Any字段", field: Any("data", map[string]int{"a": 1}), wantKey: "data"},
		{name: "Error字段", field: Error(errors.New("test error")), wantKey: "error"},
		{name: "Duration字段", field: Duration("elapsed", time.Second), wantKey: "elapsed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.wantKey {
				t.Errorf("Key = %s, 期望 %s", tt.field.Key, tt.wantKey)
			}
			if tt.field.Value == nil {
				t.Error("Value为nil")
			}
		})
	}
}

// TestFormatValue 测试值格式化
func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "字符串", value: "test", want: "test"},
		{name: "错误", value: errors.New("error message"), want: "error message"},
		{name: "整数", value: 123, want: "123"},
		{name: "布尔值", value: true, want: "true"},
		{name: "时长", value: 1500 * time.Millisecond, want: "1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatValue(tt.value)
			if got != tt.want {
				t.Errorf("formatValue() = %s, 期望 %s", got, tt.want)
			}
		})
	}
}

// TestStdLogger_Output 测试各级别输出
func TestStdLogger_Output(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)

	logger := NewStdLogger("test")
	ctx := context.Background()

	logger.Debug(ctx, "debug message", String("key", "value"))
	logger.Info(ctx, "info message", Int("count", 123))
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message", Error(errors.New("boom")))

	output := buf.String()
	for _, expected := range []string{
		"[DEBUG]", "debug message", "key=value",
		"[INFO]", "info message", "count=123",
		"[WARN]", "warn message",
		"[ERROR]", "error message", "error=boom",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("输出不包含: %s", expected)
		}
	}
}

// TestStdLogger_Level 测试最低输出级别过滤
func TestStdLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)

	logger := NewStdLoggerAt("test", WarnLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("Debug 不应输出")
	}
	if strings.Contains(output, "info message") {
		t.Error("Info 不应输出")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("Warn 应输出")
	}
}

// TestStdLogger_WithFields 测试WithFields
func TestStdLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)

	logger := NewStdLogger("test")
	loggerWithFields := logger.WithFields(
		String("component", "cart"),
		String("store", "file"),
	)

	ctx := context.Background()
	loggerWithFields.Info(ctx, "saved", Int("lines", 3))

	output := buf.String()
	for _, expected := range []string{"component=cart", "store=file", "lines=3"} {
		if !strings.Contains(output, expected) {
			t.Errorf("输出不包含字段: %s", expected)
		}
	}

	// 原Logger的fields应该不变
	if len(logger.fields) != 0 {
		t.Error("WithFields改变了原Logger的fields")
	}
}

// TestNoopLogger 测试NoopLogger
func TestNoopLogger(t *testing.T) {
	logger := NewNoopLogger()
	ctx := context.Background()

	// 所有方法都应该不panic
	logger.Debug(ctx, "test")
	logger.Info(ctx, "test")
	logger.Warn(ctx, "test")
	logger.Error(ctx, "test")

	// WithFields应该返回自身
	if logger.WithFields(String("key", "value")) != logger {
		t.Error("NoopLogger.WithFields应该返回自身")
	}
}

// TestGlobalLogger 测试全局Logger
func TestGlobalLogger(t *testing.T) {
	originalLogger := GetLogger()
	defer SetLogger(originalLogger)

	testLogger := NewNoopLogger()
	SetLogger(testLogger)

	if GetLogger() != testLogger {
		t.Error("全局Logger未正确设置")
	}
}

// TestLoggerInterface 测试Logger接口实现
func TestLoggerInterface(t *testing.T) {
	var _ Logger = (*StdLogger)(nil)
	var _ Logger = (*NoopLogger)(nil)
}
