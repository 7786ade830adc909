package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"shopkit/errors"
	"shopkit/invoice"
	"shopkit/listing"
	"shopkit/order"
)

// OrderAPI 客户端订单接口，实现 order.IGateway。
type OrderAPI struct {
	client   *Client
	basePath string
}

var _ order.IGateway = (*OrderAPI)(nil)

// NewOrderAPI 创建订单接口，basePath 为空时取 "orders"
func NewOrderAPI(client *Client, basePath string) *OrderAPI {
	if basePath == "" {
		basePath = "orders"
	}
	return &OrderAPI{client: client, basePath: basePath}
}

// CreateOrder 提交订单
func (a *OrderAPI) CreateOrder(ctx context.Context, req order.Request) (*order.Confirmation, error) {
	var raw json.RawMessage
	if err := a.client.Post(ctx, a.basePath, nil, req, &raw); err != nil {
		return nil, err
	}

	// 返回形态：{invoiceId} 或 {data: {invoiceId}}
	var env struct {
		InvoiceID int64 `json:"invoiceId"`
		Data      *struct {
			InvoiceID int64 `json:"invoiceId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeServer, "phản hồi đặt hàng không hợp lệ")
	}
	conf := &order.Confirmation{InvoiceID: env.InvoiceID}
	if env.Data != nil {
		conf.InvoiceID = env.Data.InvoiceID
	}
	return conf, nil
}

// CancelOrder 客户取消订单
func (a *OrderAPI) CancelOrder(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/%d/cancel", a.basePath, id)
	return a.client.Post(ctx, path, nil, nil, nil)
}

// ListOrders 客户订单历史，分页
func (a *OrderAPI) ListOrders(ctx context.Context, page, size int) (*listing.ListResult[invoice.Invoice], error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))

	var raw json.RawMessage
	if err := a.client.Get(ctx, a.basePath, values, &raw); err != nil {
		return nil, err
	}
	return decodePage[invoice.Invoice](raw)
}

// OrderDetail 订单详情
func (a *OrderAPI) OrderDetail(ctx context.Context, id int64) (*invoice.Invoice, error) {
	var raw json.RawMessage
	if err := a.client.Get(ctx, fmt.Sprintf("%s/%d", a.basePath, id), nil, &raw); err != nil {
		return nil, err
	}
	return decodeInvoice(raw)
}
