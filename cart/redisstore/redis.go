// Package redisstore 提供基于 Redis 的购物车持久化实现。
//
// 整个车态序列化为 JSON 后 SET 到单一键位，与其他持久化实现
// 共享"整体覆盖写"的契约。适合多设备共享同一购物车的部署形态。
package redisstore

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"shopkit/cart"
	"shopkit/errors"
)

// Config Redis 持久化配置
type Config struct {
	Client   redis.UniversalClient
	Addr     string
	Username string
	Password string
	DB       int

	// Key 槽位键名，默认 shop:cart:default
	Key string

	// TTL 车态过期时间，0 表示永不过期
	TTL time.Duration
}

// Persistence Redis 键位持久化
type Persistence struct {
	cfg       Config
	client    redis.UniversalClient
	ownClient bool
}

// New 创建 Redis 持久化
func New(cfg Config) (*Persistence, error) {
	if cfg.Key == "" {
		cfg.Key = "shop:cart:default"
	}

	var cl redis.UniversalClient
	var own bool
	if cfg.Client != nil {
		cl = cfg.Client
	} else {
		if cfg.Addr == "" {
			return nil, errors.NewError(errors.ErrCodeStorage, "redis store: addr not configured")
		}
		cl = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		own = true
	}

	return &Persistence{cfg: cfg, client: cl, ownClient: own}, nil
}

// Load 读取键位车态。键不存在时返回空序列。
func (p *Persistence) Load(ctx context.Context) ([]cart.Line, error) {
	blob, err := p.client.Get(ctx, p.cfg.Key).Bytes()
	if err != nil {
		if stdErrors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.ErrCodeStorage, "đọc giỏ hàng thất bại")
	}
	if len(blob) == 0 {
		return nil, nil
	}
	var lines []cart.Line
	if err := json.Unmarshal(blob, &lines); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeStorage, "dữ liệu giỏ hàng không hợp lệ")
	}
	return lines, nil
}

// Save 覆盖写入键位车态
func (p *Persistence) Save(ctx context.Context, lines []cart.Line) error {
	if lines == nil {
		lines = []cart.Line{}
	}
	blob, err := json.Marshal(lines)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeStorage, "serialize giỏ hàng thất bại")
	}
	if err := p.client.Set(ctx, p.cfg.Key, blob, p.cfg.TTL).Err(); err != nil {
		return errors.WrapError(err, errors.ErrCodeStorage, "ghi giỏ hàng thất bại")
	}
	return nil
}

// Close 释放客户端（仅关闭自建客户端）
func (p *Persistence) Close() error {
	if p.ownClient && p.client != nil {
		return p.client.Close()
	}
	return nil
}

var _ cart.IPersistence = (*Persistence)(nil)
