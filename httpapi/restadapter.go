package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"shopkit/cache"
	"shopkit/domain"
	"shopkit/errors"
	"shopkit/invoice"
	"shopkit/listing"
)

// envelope 后端响应的统一外壳。不同端点形态不一：
// Spring 分页返回 content/totalPages/totalElements，
// 老端点返回 {data: [...]} 或裸数组，变更端点可能带
// success/message。这里全部归一。
type envelope struct {
	Success       *bool           `json:"success"`
	Message       string          `json:"message"`
	Content       json.RawMessage `json:"content"`
	Data          json.RawMessage `json:"data"`
	TotalPages    int             `json:"totalPages"`
	TotalElements int64           `json:"totalElements"`
}

// decodePage 把任意形态的列表响应归一为 ListResult。
// 裸数组视为单页完整结果。
func decodePage[T any](raw json.RawMessage) (*listing.ListResult[T], error) {
	if len(raw) == 0 {
		return &listing.ListResult[T]{}, nil
	}

	// 裸数组
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeServer, "phản hồi danh sách không hợp lệ")
		}
		return &listing.ListResult[T]{
			Items:         items,
			TotalPages:    1,
			TotalElements: int64(len(items)),
		}, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeServer, "phản hồi danh sách không hợp lệ")
	}

	payload := env.Content
	if payload == nil {
		payload = env.Data
	}
	var items []T
	if payload != nil {
		if err := json.Unmarshal(payload, &items); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeServer, "phản hồi danh sách không hợp lệ")
		}
	}

	result := &listing.ListResult[T]{
		Items:         items,
		TotalPages:    env.TotalPages,
		TotalElements: env.TotalElements,
	}
	if result.TotalPages == 0 {
		result.TotalPages = 1
	}
	if result.TotalElements == 0 {
		result.TotalElements = int64(len(items))
	}
	return result, nil
}

// decodeMutation 把变更响应归一为 MutationResult。
// 2xx 且无 success 字段按成功处理。
func decodeMutation(raw json.RawMessage) *listing.MutationResult {
	result := &listing.MutationResult{Success: true}
	if len(raw) == 0 {
		return result
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return result
	}
	if env.Success != nil {
		result.Success = *env.Success
	}
	result.Message = env.Message
	return result
}

// AdapterConfig REST 适配器配置
type AdapterConfig struct {
	// Client 必填
	Client *Client

	// Resource 资源路径，如 "admin/products"
	Resource string

	// SearchParam 搜索词的查询参数名，默认 "search"
	SearchParam string
}

// Adapter 通用 REST 适配器，端点遵循
// GET/POST {resource}、PUT/DELETE {resource}/{id} 约定。
type Adapter[T domain.IEntity[int64]] struct {
	client      *Client
	resource    string
	searchParam string
}

var _ listing.IBackendAdapter[invoice.Invoice] = (*Adapter[invoice.Invoice])(nil)

// NewAdapter 创建 REST 适配器
func NewAdapter[T domain.IEntity[int64]](cfg AdapterConfig) *Adapter[T] {
	if cfg.SearchParam == "" {
		cfg.SearchParam = "search"
	}
	return &Adapter[T]{
		client:      cfg.Client,
		resource:    cfg.Resource,
		searchParam: cfg.SearchParam,
	}
}

func (a *Adapter[T]) List(ctx context.Context, query listing.ListQuery) (*listing.ListResult[T], error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(query.Page))
	values.Set("size", strconv.Itoa(query.Size))
	if query.Search != "" {
		values.Set(a.searchParam, query.Search)
	}
	for k, v := range query.Filters {
		values.Set(k, v)
	}

	var raw json.RawMessage
	if err := a.client.Get(ctx, a.resource, values, &raw); err != nil {
		return nil, err
	}
	return decodePage[T](raw)
}

func (a *Adapter[T]) Create(ctx context.Context, data T, extra ...any) (*listing.MutationResult, error) {
	var raw json.RawMessage
	if err := a.client.Post(ctx, a.resource, nil, data, &raw); err != nil {
		return nil, err
	}
	return decodeMutation(raw), nil
}

func (a *Adapter[T]) Update(ctx context.Context, id int64, data T, extra ...any) (*listing.MutationResult, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("%s/%d", a.resource, id)
	if err := a.client.Put(ctx, path, nil, data, &raw); err != nil {
		return nil, err
	}
	return decodeMutation(raw), nil
}

func (a *Adapter[T]) Remove(ctx context.Context, id int64) (*listing.MutationResult, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("%s/%d", a.resource, id)
	if err := a.client.Delete(ctx, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeMutation(raw), nil
}

// WithToggle 给适配器叠加启用/停用能力。
// 端点为 PATCH {resource}/{id}/toggle-status?active=。
type WithToggle[T domain.IEntity[int64]] struct {
	listing.IBackendAdapter[T]

	Client   *Client
	Resource string
}

var _ listing.IActivatable = (*WithToggle[invoice.Invoice])(nil)

func (w *WithToggle[T]) ToggleActive(ctx context.Context, id int64, active bool) (*listing.MutationResult, error) {
	values := url.Values{}
	values.Set("active", strconv.FormatBool(active))
	path := fmt.Sprintf("%s/%d/toggle-status", w.Resource, id)

	var raw json.RawMessage
	if err := w.Client.Patch(ctx, path, values, nil, &raw); err != nil {
		return nil, err
	}
	return decodeMutation(raw), nil
}

// WithFormOptions 给适配器叠加表单参考数据能力，
// 结果按路径缓存，TTL 内不重复回源。
type WithFormOptions[T domain.IEntity[int64]] struct {
	listing.IBackendAdapter[T]

	Client *Client
	Path   string
	TTL    time.Duration

	cache *cache.Cache[string, json.RawMessage]
}

var _ listing.IFormOptionsProvider = (*WithFormOptions[invoice.Invoice])(nil)

// NewWithFormOptions 包装适配器，ttl<=0 时默认 5 分钟
func NewWithFormOptions[T domain.IEntity[int64]](base listing.IBackendAdapter[T], client *Client, path string, ttl time.Duration) *WithFormOptions[T] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &WithFormOptions[T]{
		IBackendAdapter: base,
		Client:          client,
		Path:            path,
		TTL:             ttl,
		cache: cache.New[string, json.RawMessage](cache.Config{
			Name: "form_options",
			TTL:  ttl,
		}),
	}
}

func (w *WithFormOptions[T]) FormOptions(ctx context.Context) (any, error) {
	raw, err := w.cache.GetOrLoad(w.Path, func() (json.RawMessage, error) {
		var out json.RawMessage
		if err := w.Client.Get(ctx, w.Path, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	var opts map[string]any
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeServer, "dữ liệu form không hợp lệ")
	}
	if data, ok := opts["data"].(map[string]any); ok {
		return data, nil
	}
	return opts, nil
}
