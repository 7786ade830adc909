// Package validation 提供表单与查询参数校验。
// 错误消息面向终端用户，使用越南语文案。
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"shopkit/errors"
	"shopkit/invoice"
)

// 越南手机号：0 或 +84 开头加 9 位数字
var phoneRegex = regexp.MustCompile(`^(0|\+84)\d{9}$`)

// IValidator 通用验证器接口
type IValidator interface {
	Validate(value any) error
}

// NoopValidator 空验证器
type NoopValidator struct{}

// Validate 实现 IValidator 接口
func (NoopValidator) Validate(value any) error {
	return nil
}

// NewValidationError 创建验证错误
func NewValidationError(message string) error {
	return errors.NewValidationError(message)
}

// ValidateRequired 必填校验
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("Vui lòng nhập %s", fieldName))
	}
	return nil
}

// ValidateStringLength 长度校验，max 为 0 时不限上限
func ValidateStringLength(value, fieldName string, min, max int) error {
	length := len([]rune(value))
	if length < min {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s phải có ít nhất %d ký tự", fieldName, min))
	}
	if max > 0 && length > max {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s không được vượt quá %d ký tự", fieldName, max))
	}
	return nil
}

// ValidatePositive 正数校验
func ValidatePositive(value int, fieldName string) error {
	if value <= 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s phải là số dương", fieldName))
	}
	return nil
}

// ValidatePhone 越南手机号校验
func ValidatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return errors.NewError(errors.ErrCodeValidation, "Vui lòng nhập số điện thoại")
	}
	if !phoneRegex.MatchString(phone) {
		return errors.NewError(errors.ErrCodeValidation, "Số điện thoại không hợp lệ")
	}
	return nil
}

// ValidatePaymentType 支付方式校验
func ValidatePaymentType(pt invoice.PaymentType) error {
	switch pt {
	case invoice.PaymentCash, invoice.PaymentBankTransfer, invoice.PaymentCreditCard:
		return nil
	}
	return errors.NewError(errors.ErrCodeValidation, "Hình thức thanh toán không hợp lệ")
}

// ValidatePageParams 分页参数校验。页码从 0 起，
// 每页数量上限 100，防止误传拖垮后端。
func ValidatePageParams(page, size int) error {
	if page < 0 {
		return errors.NewError(errors.ErrCodeValidation, "Số trang không hợp lệ")
	}
	if size <= 0 || size > 100 {
		return errors.NewError(errors.ErrCodeValidation, "Kích thước trang không hợp lệ")
	}
	return nil
}
