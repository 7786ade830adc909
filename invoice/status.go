// Package invoice 提供订单（发票）状态机。
//
// 生命周期由后端拥有；客户端只负责在发起状态变更请求前
// 依据固定的合法流转表做前置校验，后端仍是最终裁决者。
package invoice

import (
	"shopkit/errors"
)

// Status 发票状态枚举
type Status string

const (
	// StatusPending 待确认
	StatusPending Status = "PENDING"

	// StatusConfirmed 已确认
	StatusConfirmed Status = "CONFIRMED"

	// StatusShipping 配送中
	StatusShipping Status = "SHIPPING"

	// StatusDelivered 已送达（终态）
	StatusDelivered Status = "DELIVERED"

	// StatusCancelled 已取消（终态）
	StatusCancelled Status = "CANCELLED"
)

// PaymentType 支付方式枚举
type PaymentType string

const (
	PaymentCash         PaymentType = "CASH"
	PaymentBankTransfer PaymentType = "BANK_TRANSFER"
	PaymentCreditCard   PaymentType = "CREDIT_CARD"
)

// AllStatuses 返回全部状态，顺序即生命周期推进顺序
func AllStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusShipping, StatusDelivered, StatusCancelled}
}

// transitions 合法流转表。未出现的 (当前, 目标) 组合一律非法。
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipping, StatusCancelled},
	StatusShipping:  {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// IsValid 检查状态是否为已知枚举值
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal 检查状态是否为终态（无后继流转）
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// AvailableNextStates 返回当前状态的全部合法后继状态。
// 结果不包含当前状态自身；终态与未知状态返回空切片。
func AvailableNextStates(current Status) []Status {
	next, ok := transitions[current]
	if !ok {
		return nil
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition 检查 current → proposed 是否在合法流转表中
func CanTransition(current, proposed Status) bool {
	for _, s := range transitions[current] {
		if s == proposed {
			return true
		}
	}
	return false
}

// GuardTransition 流转前置校验。
// 非法流转返回 INVALID_TRANSITION 错误，供调用方在发请求前拦截。
func GuardTransition(current, proposed Status) error {
	if !current.IsValid() {
		return errors.NewError(errors.ErrCodeInvalidTransition,
			"trạng thái hiện tại không hợp lệ: "+string(current))
	}
	if !proposed.IsValid() {
		return errors.NewError(errors.ErrCodeInvalidTransition,
			"trạng thái đích không hợp lệ: "+string(proposed))
	}
	if !CanTransition(current, proposed) {
		return errors.NewError(errors.ErrCodeInvalidTransition,
			"không thể chuyển trạng thái từ "+string(current)+" sang "+string(proposed)).
			WithDetail("current", string(current)).
			WithDetail("proposed", string(proposed))
	}
	return nil
}

// CanApprove 是否可执行"duyệt"快捷操作（PENDING → CONFIRMED）
func CanApprove(current Status) bool {
	return current == StatusPending
}

// CanCancelAdmin 管理端详情视图的取消窗口。
// 与流转表一致：SHIPPING 仍可取消。
func CanCancelAdmin(current Status) bool {
	switch current {
	case StatusPending, StatusConfirmed, StatusShipping:
		return true
	default:
		return false
	}
}

// CanCancelCustomer 买家侧订单视图的取消窗口。
// 窄于管理端：发货后买家不能再取消。
// 两个窗口在源业务中就不一致，这里保持各自独立，不做统一。
func CanCancelCustomer(current Status) bool {
	return current == StatusPending || current == StatusConfirmed
}
