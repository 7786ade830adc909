package errors

import (
	stdErrors "errors"
	"strings"
	"testing"
)

// TestNewError 测试错误创建
func TestNewError(t *testing.T) {
	err := NewError(ErrCodeServer, "后端返回失败")

	if err.Code() != ErrCodeServer {
		t.Errorf("Code = %s, 期望 %s", err.Code(), ErrCodeServer)
	}
	if err.Message() != "后端返回失败" {
		t.Errorf("Message = %s", err.Message())
	}
	if err.Cause() != nil {
		t.Error("新建错误不应有 cause")
	}
	if err.Stack() == "" {
		t.Error("堆栈信息为空")
	}
	if !strings.Contains(err.Error(), "SERVER_ERROR") {
		t.Errorf("Error() 不包含错误代码: %s", err.Error())
	}
}

// TestWrapError 测试错误包装
func TestWrapError(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := WrapError(cause, ErrCodeTransport, "请求发送失败")

	if err.Cause() != cause {
		t.Error("cause 未保留")
	}
	if !stdErrors.Is(err, cause) {
		t.Error("errors.Is 无法穿透包装")
	}
	if stdErrors.Unwrap(err) != cause {
		t.Error("Unwrap 未返回原始错误")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() 不包含原始错误: %s", err.Error())
	}
}

// TestWrapError_Nil 测试包装 nil 错误
func TestWrapError_Nil(t *testing.T) {
	if WrapError(nil, ErrCodeTransport, "x") != nil {
		t.Error("包装 nil 应返回 nil")
	}
}

// TestErrorCodeChecks 测试错误代码判断函数
func TestErrorCodeChecks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{
			name:  "传输错误",
			err:   NewError(ErrCodeTransport, "网络不可达"),
			check: IsTransport,
			want:  true,
		},
		{
			name:  "服务端错误",
			err:   NewError(ErrCodeServer, "内部错误"),
			check: IsServer,
			want:  true,
		},
		{
			name:  "验证错误",
			err:   NewValidationError("字段为空"),
			check: IsValidation,
			want:  true,
		},
		{
			name:  "未找到",
			err:   NewError(ErrCodeNotFound, "记录不存在"),
			check: IsNotFound,
			want:  true,
		},
		{
			name:  "非法状态流转",
			err:   NewError(ErrCodeInvalidTransition, "DELIVERED 不可变更"),
			check: IsInvalidTransition,
			want:  true,
		},
		{
			name:  "代码不匹配",
			err:   NewError(ErrCodeServer, "内部错误"),
			check: IsTransport,
			want:  false,
		},
		{
			name:  "普通错误",
			err:   stdErrors.New("plain"),
			check: IsServer,
			want:  false,
		},
		{
			name:  "nil 错误",
			err:   nil,
			check: IsTransport,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("got %v, 期望 %v", got, tt.want)
			}
		})
	}
}

// TestGetErrorCode 测试错误代码提取
func TestGetErrorCode(t *testing.T) {
	if GetErrorCode(nil) != "" {
		t.Error("nil 错误应返回空代码")
	}
	if GetErrorCode(stdErrors.New("plain")) != ErrCodeInternal {
		t.Error("未识别错误应归入 INTERNAL_ERROR")
	}
	if GetErrorCode(NewError(ErrCodeStorage, "写入失败")) != ErrCodeStorage {
		t.Error("AppError 代码提取失败")
	}

	// 包装后的 AppError 也应能通过 errors.As 提取
	wrapped := WrapError(NewError(ErrCodeServer, "x"), ErrCodeTransport, "y")
	if GetErrorCode(wrapped) != ErrCodeTransport {
		t.Error("外层代码应优先")
	}
}

// TestServerMessage 测试服务端消息提取
func TestServerMessage(t *testing.T) {
	if got := ServerMessage(NewError(ErrCodeServer, "Tên đã tồn tại")); got != "Tên đã tồn tại" {
		t.Errorf("ServerMessage = %s", got)
	}
	if got := ServerMessage(NewError(ErrCodeTransport, "timeout")); got != "" {
		t.Errorf("非服务端错误应返回空串, got %s", got)
	}
	if got := ServerMessage(stdErrors.New("plain")); got != "" {
		t.Errorf("普通错误应返回空串, got %s", got)
	}
}

// TestAppError_Is 测试按错误代码比较
func TestAppError_Is(t *testing.T) {
	a := NewError(ErrCodeServer, "第一个")
	b := NewError(ErrCodeServer, "第二个")
	c := NewError(ErrCodeTransport, "第三个")

	if !stdErrors.Is(a, b) {
		t.Error("相同代码的 AppError 应判定相等")
	}
	if stdErrors.Is(a, c) {
		t.Error("不同代码的 AppError 不应判定相等")
	}
}

// TestWithDetail 测试错误详情
func TestWithDetail(t *testing.T) {
	err := NewError(ErrCodeServer, "x").
		WithDetail("resource", "brands").
		WithDetail("status_code", 500)

	details := err.Details()
	if details["resource"] != "brands" {
		t.Error("resource 详情丢失")
	}
	if details["status_code"] != 500 {
		t.Error("status_code 详情丢失")
	}
}
