package listing

import (
	"context"
	"sync"
	"time"

	"shopkit/domain"
	"shopkit/errors"
	"shopkit/logging"
	"shopkit/validation"
)

// Config 控制器配置，零值字段取默认值
type Config[T domain.IEntity[int64]] struct {
	// Adapter 后端适配器，必填
	Adapter IBackendAdapter[T]

	// EntityLabel 实体名，用于拼接用户可见消息（"sản phẩm" 等）
	EntityLabel string

	// PageSize 初始每页数量，默认 10
	PageSize int

	// InitialFilters 初始过滤条件，ResetFilters 会恢复到这份快照
	InitialFilters map[string]string

	// MessageDuration 消息自动消失时长，默认 3 秒
	MessageDuration time.Duration

	// Logger 为空时使用全局日志器
	Logger logging.Logger
}

const (
	defaultPageSize        = 10
	defaultMessageDuration = 3 * time.Second
)

// State 控制器状态快照，供展示层读取
type State[T any] struct {
	Items         []T
	Loading       bool
	Message       *Message
	Page          int
	Size          int
	TotalPages    int
	TotalElements int64
	Search        string
	Filters       map[string]string
	FormOptions   any
}

// Controller 通用实体列表控制器。
//
// 所有方法并发安全。网络调用在锁外进行，并发加载时
// 后返回的响应覆盖先返回的，不做合并或取消。
// 操作失败不向上抛出，统一转成错误消息；加载失败时
// 保留上一次成功的数据继续展示。
type Controller[T domain.IEntity[int64]] struct {
	adapter IBackendAdapter[T]
	label   string
	msgTTL  time.Duration
	logger  logging.Logger

	mu             sync.Mutex
	items          []T
	loading        int
	message        *Message
	msgTimer       *time.Timer
	pendingEdit    *T
	page           int
	size           int
	totalPages     int
	totalElements  int64
	search         string
	filters        map[string]string
	initialFilters map[string]string
	formOptions    any
	closed         bool
}

// NewController 创建列表控制器。不自动加载，
// 调用方在就绪后执行一次 Load。
func NewController[T domain.IEntity[int64]](cfg Config[T]) *Controller[T] {
	if cfg.Adapter == nil {
		panic("listing: Adapter is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MessageDuration <= 0 {
		cfg.MessageDuration = defaultMessageDuration
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger()
	}

	c := &Controller[T]{
		adapter:        cfg.Adapter,
		label:          cfg.EntityLabel,
		msgTTL:         cfg.MessageDuration,
		logger:         cfg.Logger,
		size:           cfg.PageSize,
		filters:        map[string]string{},
		initialFilters: map[string]string{},
	}
	for k, v := range cfg.InitialFilters {
		c.filters[k] = v
		c.initialFilters[k] = v
	}
	return c
}

// Load 按当前查询状态加载一页数据。
// 失败时保留现有数据并展示错误消息。
func (c *Controller[T]) Load(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	query := ListQuery{
		Page:    c.page,
		Size:    c.size,
		Search:  c.search,
		Filters: copyFilters(c.filters),
	}
	c.loading++
	c.mu.Unlock()

	result, err := c.adapter.List(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.logger.Warn(ctx, "列表加载失败",
			logging.String("entity", c.label),
			logging.Int("page", query.Page),
			logging.Error(err))
		c.showMessageLocked(MessageError, formatMsg(msgLoadFail, c.label))
		return
	}
	c.items = result.Items
	c.totalPages = result.TotalPages
	c.totalElements = result.TotalElements
}

// Create 创建记录，成功后重新加载当前页。
// 返回是否成功，调用方据此决定是否关闭表单。
func (c *Controller[T]) Create(ctx context.Context, data T, extra ...any) bool {
	if !c.validate(data) {
		return false
	}
	result, err := c.adapter.Create(ctx, data, extra...)
	return c.finishMutation(ctx, result, err, msgCreateOK, msgCreateFail)
}

// Update 更新记录，成功后清除待编辑状态并重新加载。
func (c *Controller[T]) Update(ctx context.Context, id int64, data T, extra ...any) bool {
	if !c.validate(data) {
		return false
	}
	result, err := c.adapter.Update(ctx, id, data, extra...)
	ok := c.finishMutation(ctx, result, err, msgUpdateOK, msgUpdateFail)
	if ok {
		c.mu.Lock()
		c.pendingEdit = nil
		c.mu.Unlock()
	}
	return ok
}

// Remove 删除记录，成功后重新加载当前页。
// 删除前的二次确认由调用方自行完成。
func (c *Controller[T]) Remove(ctx context.Context, id int64) bool {
	result, err := c.adapter.Remove(ctx, id)
	return c.finishMutation(ctx, result, err, msgRemoveOK, msgRemoveFail)
}

// ToggleActive 切换启用状态。适配器未实现 IActivatable 时
// 不做任何事并返回 false。
func (c *Controller[T]) ToggleActive(ctx context.Context, id int64, active bool) bool {
	act, ok := c.adapter.(IActivatable)
	if !ok {
		return false
	}
	result, err := act.ToggleActive(ctx, id, active)
	return c.finishMutation(ctx, result, err, msgToggleOK, msgToggleFail)
}

// validate 提交前校验。记录实现 domain.IValidatable 时先自检，
// 失败的记录不出网，错误文本直接展示。
func (c *Controller[T]) validate(data T) bool {
	v, ok := any(data).(domain.IValidatable)
	if !ok {
		return true
	}
	if err := v.Validate(); err != nil {
		text := err.Error()
		if appErr, ok := err.(*errors.AppError); ok {
			text = appErr.Message()
		}
		c.ShowMessage(MessageError, text)
		return false
	}
	return true
}

// finishMutation 统一收口变更结果：成功则展示成功消息并重载，
// 失败则优先展示服务端消息，否则用通用文案。失败不触发重载。
func (c *Controller[T]) finishMutation(ctx context.Context, result *MutationResult, err error, okTmpl, failTmpl string) bool {
	if err != nil || result == nil || !result.Success {
		text := formatMsg(failTmpl, c.label)
		if err != nil {
			if server := errors.ServerMessage(err); server != "" {
				text = server
			}
			c.logger.Warn(ctx, "变更操作失败",
				logging.String("entity", c.label),
				logging.Error(err))
		} else if result != nil && result.Message != "" {
			text = result.Message
		}
		c.ShowMessage(MessageError, text)
		return false
	}
	c.ShowMessage(MessageSuccess, formatMsg(okTmpl, c.label))
	c.Load(ctx)
	return true
}

// Search 设置搜索词并回到第 0 页重新加载。
// 防抖由调用方负责，这里每次调用都会触发一次请求。
func (c *Controller[T]) Search(ctx context.Context, term string) {
	c.mu.Lock()
	c.search = term
	c.page = 0
	c.mu.Unlock()
	c.Load(ctx)
}

// ResetSearch 清空搜索词并回到第 0 页
func (c *Controller[T]) ResetSearch(ctx context.Context) {
	c.Search(ctx, "")
}

// UpdateFilter 设置单个过滤条件并回到第 0 页重新加载。
// value 为空串时移除该条件。
func (c *Controller[T]) UpdateFilter(ctx context.Context, key, value string) {
	c.mu.Lock()
	if value == "" {
		delete(c.filters, key)
	} else {
		c.filters[key] = value
	}
	c.page = 0
	c.mu.Unlock()
	c.Load(ctx)
}

// ResetFilters 恢复初始过滤条件并回到第 0 页
func (c *Controller[T]) ResetFilters(ctx context.Context) {
	c.mu.Lock()
	c.filters = copyFilters(c.initialFilters)
	c.page = 0
	c.mu.Unlock()
	c.Load(ctx)
}

// SetPage 跳转页码并加载。页码不做上界校验，
// 越界请求由服务端以空页回应。
func (c *Controller[T]) SetPage(ctx context.Context, page int) {
	c.mu.Lock()
	size := c.size
	c.mu.Unlock()
	if validation.ValidatePageParams(page, size) != nil {
		return
	}
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	c.Load(ctx)
}

// SetPageSize 调整每页数量并回到第 0 页重新加载
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) {
	if validation.ValidatePageParams(0, size) != nil {
		return
	}
	c.mu.Lock()
	c.size = size
	c.page = 0
	c.mu.Unlock()
	c.Load(ctx)
}

// LoadFormOptions 加载表单参考数据。适配器未实现
// IFormOptionsProvider 时不做任何事。
func (c *Controller[T]) LoadFormOptions(ctx context.Context) {
	provider, ok := c.adapter.(IFormOptionsProvider)
	if !ok {
		return
	}
	opts, err := provider.FormOptions(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn(ctx, "表单数据加载失败",
			logging.String("entity", c.label),
			logging.Error(err))
		c.showMessageLocked(MessageError, formatMsg(msgFormFail, c.label))
		return
	}
	c.formOptions = opts
}

// StartEdit 进入编辑态，记录当前待编辑记录的副本
func (c *Controller[T]) StartEdit(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	draft := item
	c.pendingEdit = &draft
}

// UpdateEditingDraft 替换编辑草稿。未处于编辑态时不做任何事。
func (c *Controller[T]) UpdateEditingDraft(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingEdit == nil {
		return
	}
	draft := item
	c.pendingEdit = &draft
}

// CancelEdit 放弃编辑，不产生任何网络请求
func (c *Controller[T]) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingEdit = nil
}

// PendingEdit 返回待编辑记录的副本
func (c *Controller[T]) PendingEdit() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingEdit == nil {
		var zero T
		return zero, false
	}
	return *c.pendingEdit, true
}

// ShowMessage 展示一条瞬态消息，顶掉旧消息并重新计时
func (c *Controller[T]) ShowMessage(kind MessageKind, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showMessageLocked(kind, text)
}

func (c *Controller[T]) showMessageLocked(kind MessageKind, text string) {
	if c.closed {
		return
	}
	if c.msgTimer != nil {
		c.msgTimer.Stop()
	}
	msg := &Message{Kind: kind, Text: text}
	c.message = msg
	c.msgTimer = time.AfterFunc(c.msgTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.message == msg {
			c.message = nil
		}
	})
}

// DismissMessage 立即清除当前消息
func (c *Controller[T]) DismissMessage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.msgTimer != nil {
		c.msgTimer.Stop()
		c.msgTimer = nil
	}
	c.message = nil
}

// Message 返回当前消息，无消息时为 nil
func (c *Controller[T]) Message() *Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Snapshot 返回完整状态快照
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return State[T]{
		Items:         items,
		Loading:       c.loading > 0,
		Message:       c.message,
		Page:          c.page,
		Size:          c.size,
		TotalPages:    c.totalPages,
		TotalElements: c.totalElements,
		Search:        c.search,
		Filters:       copyFilters(c.filters),
		FormOptions:   c.formOptions,
	}
}

// Close 停止消息计时器，之后控制器不再接受操作
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.msgTimer != nil {
		c.msgTimer.Stop()
		c.msgTimer = nil
	}
	c.message = nil
}

func copyFilters(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
