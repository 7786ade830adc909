// Package order 实现下单流程：收货信息校验、从购物车
// 组装订单载荷、提交后端、成功后清空购物车。
package order

import (
	"context"

	"shopkit/invoice"
)

// CheckoutInfo 收货信息表单
type CheckoutInfo struct {
	FullName    string
	Phone       string
	Address     string
	Note        string
	PaymentType invoice.PaymentType
}

// RequestItem 订单行项目
type RequestItem struct {
	ProductID int64   `json:"productId"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Request 提交后端的订单载荷
type Request struct {
	CustomerName string              `json:"customerName"`
	PhoneNumber  string              `json:"phoneNumber"`
	Address      string              `json:"address"`
	Note         string              `json:"note,omitempty"`
	PaymentType  invoice.PaymentType `json:"paymentType"`
	TotalPrice   float64             `json:"totalPrice"`
	Items        []RequestItem       `json:"items"`
}

// Confirmation 下单结果
type Confirmation struct {
	InvoiceID int64 `json:"invoiceId"`
}

// IGateway 订单后端接口，由 httpapi 实现
type IGateway interface {
	// CreateOrder 提交订单，返回生成的发票号
	CreateOrder(ctx context.Context, req Request) (*Confirmation, error)

	// CancelOrder 客户取消自己的订单
	CancelOrder(ctx context.Context, id int64) error
}
