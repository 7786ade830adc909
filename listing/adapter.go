// Package listing 提供通用的实体列表控制器。
//
// 控制器面向"分页 + 搜索 + 过滤 + 行内编辑"的同构记录列表，
// 通过注入的后端适配器完成所有网络交互，自身只负责查询状态、
// 当前页数据、待编辑记录与瞬态消息的管理。
//
// 所有后台管理列表（商品、分类、品牌、供应商、尺码、颜色、
// 变体、入库单、发票）共享同一个控制器实现，仅适配器不同。
package listing

import (
	"context"

	"shopkit/domain"
)

// ListQuery 列表查询参数
//
// Page 从 0 开始计数。搜索词或任一过滤条件变化时
// Page 必须重置为 0，绝不携带超出新结果集的陈旧页码。
type ListQuery struct {
	// Page 页码（0 起）
	Page int

	// Size 每页数量
	Size int

	// Search 搜索词
	Search string

	// Filters 附加过滤条件，键值对直接并入查询串
	Filters map[string]string
}

// ListResult 列表查询结果
//
// Items 顺序由服务端决定，控制器不做重排。
type ListResult[T any] struct {
	Items         []T
	TotalPages    int
	TotalElements int64
}

// MutationResult 变更操作结果
//
// 后端既可能用非 2xx 状态码表达失败，也可能在 2xx 里返回
// success=false；适配器负责把两种形态归一到这里。
type MutationResult struct {
	Success bool
	Message string
}

// IBackendAdapter 后端适配器接口。
//
// 控制器对适配器错误的处理完全一致：error 非 nil 与
// Success=false 都按失败处理，服务端消息文本（若有）优先展示。
type IBackendAdapter[T domain.IEntity[int64]] interface {
	// List 分页查询
	List(ctx context.Context, query ListQuery) (*ListResult[T], error)

	// Create 创建记录，data 的 ID 字段由服务端分配、提交时忽略
	Create(ctx context.Context, data T, extra ...any) (*MutationResult, error)

	// Update 更新记录
	Update(ctx context.Context, id int64, data T, extra ...any) (*MutationResult, error)

	// Remove 删除记录。破坏性确认由调用方在调用前完成
	Remove(ctx context.Context, id int64) (*MutationResult, error)
}

// IActivatable 可选能力：启用/停用开关。
// 适配器按需实现，控制器通过类型断言探测。
type IActivatable interface {
	ToggleActive(ctx context.Context, id int64, active bool) (*MutationResult, error)
}

// IFormOptionsProvider 可选能力：表单参考数据。
// 创建/编辑表单需要关联实体下拉源（品牌、分类等）的适配器实现此接口。
type IFormOptionsProvider interface {
	FormOptions(ctx context.Context) (any, error)
}
