package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"shopkit/invoice"
	"shopkit/listing"
)

// InvoiceAPI 管理端发票接口。内嵌通用适配器承担分页查询，
// 可直接交给 listing 控制器；状态流转在发起请求前先过
// 本地状态机校验，非法流转不出网。
type InvoiceAPI struct {
	*Adapter[invoice.Invoice]

	client   *Client
	basePath string
}

// NewInvoiceAPI 创建发票接口，basePath 为空时取 "admin/invoices"
func NewInvoiceAPI(client *Client, basePath string) *InvoiceAPI {
	if basePath == "" {
		basePath = "admin/invoices"
	}
	return &InvoiceAPI{
		Adapter: NewAdapter[invoice.Invoice](AdapterConfig{
			Client:   client,
			Resource: basePath,
		}),
		client:   client,
		basePath: basePath,
	}
}

// Detail 获取发票详情（含行项目）
func (a *InvoiceAPI) Detail(ctx context.Context, id int64) (*invoice.Invoice, error) {
	var raw json.RawMessage
	if err := a.client.Get(ctx, fmt.Sprintf("%s/%d", a.basePath, id), nil, &raw); err != nil {
		return nil, err
	}
	return decodeInvoice(raw)
}

// UpdateStatus 把发票从 from 流转到 to。
// 本地状态机拒绝的流转直接返回错误，不发请求。
func (a *InvoiceAPI) UpdateStatus(ctx context.Context, id int64, from, to invoice.Status) (*listing.MutationResult, error) {
	if err := invoice.GuardTransition(from, to); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("newStatus", string(to))
	path := fmt.Sprintf("%s/%d/update-status", a.basePath, id)

	var raw json.RawMessage
	if err := a.client.Post(ctx, path, values, nil, &raw); err != nil {
		return nil, err
	}
	return decodeMutation(raw), nil
}

// Approve 确认待处理的发票（PENDING → CONFIRMED）
func (a *InvoiceAPI) Approve(ctx context.Context, id int64, from invoice.Status) (*listing.MutationResult, error) {
	return a.UpdateStatus(ctx, id, from, invoice.StatusConfirmed)
}

// Cancel 管理端取消发票。发货后（SHIPPING 含）之前都允许。
func (a *InvoiceAPI) Cancel(ctx context.Context, id int64, from invoice.Status) (*listing.MutationResult, error) {
	return a.UpdateStatus(ctx, id, from, invoice.StatusCancelled)
}

// decodeInvoice 兼容裸对象与 {data: {...}} 两种形态
func decodeInvoice(raw json.RawMessage) (*invoice.Invoice, error) {
	var env struct {
		Data *invoice.Invoice `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}
	var inv invoice.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
