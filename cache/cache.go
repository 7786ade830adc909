// Package cache 提供泛型内存缓存，面向变化缓慢的参考数据
// （品牌、分类、尺码、颜色等表单下拉源）。
//
// 过期基于写入时间：参考数据需要周期性回源刷新，
// 不因被频繁读取而续命。容量超限时按最久未访问驱逐。
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config 缓存配置
type Config struct {
	// Name 缓存名称，用于日志
	Name string

	// MaxSize 最大条目数，0 表示不限制
	MaxSize int

	// TTL 写入后多久过期，0 表示永不过期
	TTL time.Duration
}

// Stats 缓存统计
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
	elem      *list.Element
}

// Cache 并发安全的泛型缓存
type Cache[K comparable, V any] struct {
	name    string
	maxSize int
	ttl     time.Duration

	mu    sync.Mutex
	items map[K]*entry[K, V]
	lru   *list.List // 最近访问的在前
	stats Stats
}

// New 创建缓存实例
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	if cfg.Name == "" {
		cfg.Name = "unnamed"
	}
	return &Cache[K, V]{
		name:    cfg.Name,
		maxSize: cfg.MaxSize,
		ttl:     cfg.TTL,
		items:   make(map[K]*entry[K, V]),
		lru:     list.New(),
	}
}

// Get 获取缓存值，过期条目视为未命中并被删除
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	if c.expired(e) {
		c.remove(e)
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.lru.MoveToFront(e.elem)
	c.stats.Hits++
	return e.value, true
}

// Set 写入缓存值并重置过期时间
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.lru.MoveToFront(e.elem)
		return
	}

	if c.maxSize > 0 && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	e := &entry[K, V]{key: key, value: value, expiresAt: expiresAt}
	e.elem = c.lru.PushFront(e)
	c.items[key] = e
}

// GetOrLoad 获取缓存值，未命中时调用 loader 回源并写入。
// loader 在锁外执行；并发未命中时可能回源多次，
// 对幂等的参考数据查询无害。
func (c *Cache[K, V]) GetOrLoad(key K, loader func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := loader()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Delete 删除条目，返回是否存在
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.remove(e)
	return true
}

// Clear 清空缓存
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*entry[K, V])
	c.lru = list.New()
}

// Size 当前条目数
func (c *Cache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats 统计信息副本
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = len(c.items)
	return s
}

func (c *Cache[K, V]) expired(e *entry[K, V]) bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

func (c *Cache[K, V]) evictOldest() {
	oldest := c.lru.Back()
	if oldest == nil {
		return
	}
	c.remove(oldest.Value.(*entry[K, V]))
	c.stats.Evictions++
}

func (c *Cache[K, V]) remove(e *entry[K, V]) {
	if e.elem != nil {
		c.lru.Remove(e.elem)
	}
	delete(c.items, e.key)
}
