// Package errors 提供统一的错误代码体系与应用错误类型。
//
// 错误分类来源于前端与后端交互的实际失败形态：
//   - 传输失败（网络不可达、连接被拒绝）
//   - 服务端失败（非 2xx 状态码，或 2xx 但 success=false）
//   - 客户端校验失败（提交前拦截，不产生网络请求）
//   - 本地存储失败（购物车持久化）
package errors

import (
	stdErrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 预定义错误代码
const (
	// 通用错误代码
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"

	// 客户端 / 服务端交互错误代码
	ErrCodeTransport  ErrorCode = "TRANSPORT_ERROR"
	ErrCodeServer     ErrorCode = "SERVER_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// 业务错误代码
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// 基础设施错误代码
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// AppError 应用错误实现
//
// 携带错误代码、人类可读消息、原始错误与可选的附加细节。
// 细节中通常放置 resource / status_code 等排障信息。
type AppError struct {
	code    ErrorCode
	message string
	cause   error
	details map[string]any
	stack   string
}

// NewError 创建新错误
func NewError(code ErrorCode, message string) *AppError {
	return &AppError{
		code:    code,
		message: message,
		details: make(map[string]any),
		stack:   captureStack(),
	}
}

// WrapError 包装错误
func WrapError(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	return &AppError{
		code:    code,
		message: message,
		cause:   err,
		details: make(map[string]any),
		stack:   captureStack(),
	}
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code 获取错误代码
func (e *AppError) Code() ErrorCode {
	return e.code
}

// Message 获取错误消息
func (e *AppError) Message() string {
	return e.message
}

// Cause 获取原始错误
func (e *AppError) Cause() error {
	return e.cause
}

// Details 获取错误详情
func (e *AppError) Details() map[string]any {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	return e.details
}

// Stack 获取堆栈信息
func (e *AppError) Stack() string {
	return e.stack
}

// Is 检查是否为指定类型的错误（按错误代码比较）
func (e *AppError) Is(target error) bool {
	if target == nil {
		return false
	}

	if appErr, ok := target.(*AppError); ok {
		return e.code == appErr.code
	}

	if e.cause != nil {
		return stdErrors.Is(e.cause, target)
	}

	return false
}

// Unwrap 解包错误（支持 errors.Unwrap）
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithDetail 添加单个排障细节，返回自身便于链式调用
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

// IsTransport 检查是否为传输错误
func IsTransport(err error) bool {
	return IsErrorCode(err, ErrCodeTransport)
}

// IsServer 检查是否为服务端错误
func IsServer(err error) bool {
	return IsErrorCode(err, ErrCodeServer)
}

// IsValidation 检查是否为验证错误
func IsValidation(err error) bool {
	return IsErrorCode(err, ErrCodeValidation)
}

// IsNotFound 检查是否为未找到错误
func IsNotFound(err error) bool {
	return IsErrorCode(err, ErrCodeNotFound)
}

// IsInvalidTransition 检查是否为非法状态流转错误
func IsInvalidTransition(err error) bool {
	return IsErrorCode(err, ErrCodeInvalidTransition)
}

// IsErrorCode 检查是否为指定错误代码
func IsErrorCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code == code
	}

	return false
}

// GetErrorCode 获取错误代码
// 未识别的错误一律归入 INTERNAL_ERROR
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code
	}

	return ErrCodeInternal
}

// ServerMessage 从错误中提取服务端返回的消息文本。
// 仅在 SERVER_ERROR 上有意义；其余错误返回空串，
// 由调用方回退到本地化的通用文案。
func ServerMessage(err error) string {
	var appErr *AppError
	if stdErrors.As(err, &appErr) && appErr.code == ErrCodeServer {
		return appErr.message
	}
	return ""
}

// NewValidationError 创建验证错误
func NewValidationError(msg string) error {
	return NewError(ErrCodeValidation, msg)
}

// captureStack 捕获堆栈信息
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var builder strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))

		if !more {
			break
		}
	}

	return builder.String()
}
