// Package redisnotifier 提供基于 Redis Streams 的事件发布实现。
package redisnotifier

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"shopkit/logging"
	"shopkit/notify"
)

// Config describes how the Redis Streams notifier should connect/behave.
type Config struct {
	Client       redis.UniversalClient
	Addr         string
	Username     string
	Password     string
	DB           int
	StreamPrefix string
	MaxLen       int64 // 每个流的近似最大长度，0 表示不裁剪
	Logger       logging.Logger
}

// Notifier publishes shop events with XADD, one stream per event type.
type Notifier struct {
	cfg       Config
	client    redis.UniversalClient
	ownClient bool
	logger    logging.Logger
}

// New 创建 Redis Streams 通知器
func New(cfg Config) (*Notifier, error) {
	if cfg.StreamPrefix == "" {
		cfg.StreamPrefix = "shop:"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "notify.redis"))
	}

	var cl redis.UniversalClient
	var own bool
	if cfg.Client != nil {
		cl = cfg.Client
	} else {
		if cfg.Addr == "" {
			return nil, errors.New("redis notifier: addr not configured")
		}
		cl = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		own = true
	}

	return &Notifier{cfg: cfg, client: cl, ownClient: own, logger: cfg.Logger}, nil
}

// Publish 将事件 XADD 到对应流
func (n *Notifier) Publish(ctx context.Context, event notify.Event) error {
	values, err := encodeEvent(event)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: n.streamName(event.Type),
		Values: values,
	}
	if n.cfg.MaxLen > 0 {
		args.MaxLen = n.cfg.MaxLen
		args.Approx = true
	}
	if err := n.client.XAdd(ctx, args).Err(); err != nil {
		return err
	}
	n.logger.Debug(ctx, "event published",
		logging.String("stream", args.Stream),
		logging.String("event_id", event.ID))
	return nil
}

// Close 释放客户端（仅关闭自建客户端）
func (n *Notifier) Close() error {
	if n.ownClient && n.client != nil {
		return n.client.Close()
	}
	return nil
}

func (n *Notifier) streamName(eventType string) string {
	return n.cfg.StreamPrefix + eventType
}

func encodeEvent(event notify.Event) (map[string]interface{}, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return nil, err
	}
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return map[string]interface{}{
		"id":        event.ID,
		"type":      event.Type,
		"timestamp": ts.UnixNano(),
		"payload":   string(payload),
		"metadata":  string(metadata),
	}, nil
}

func decodeEvent(entry redis.XMessage) (notify.Event, error) {
	id, _ := entry.Values["id"].(string)
	eventType, _ := entry.Values["type"].(string)

	payloadRaw, _ := entry.Values["payload"].(string)
	metadataRaw, _ := entry.Values["metadata"].(string)

	var payload any
	if payloadRaw != "" {
		if err := json.Unmarshal([]byte(payloadRaw), &payload); err != nil {
			return notify.Event{}, err
		}
	}
	var metadata map[string]any
	if metadataRaw != "" && metadataRaw != "null" {
		if err := json.Unmarshal([]byte(metadataRaw), &metadata); err != nil {
			return notify.Event{}, err
		}
	}

	ts := time.Now()
	switch v := entry.Values["timestamp"].(type) {
	case int64:
		ts = time.Unix(0, v)
	case string:
		if ns, err := parseNanoString(v); err == nil {
			ts = time.Unix(0, ns)
		}
	}

	if id == "" {
		id = entry.ID
	}

	return notify.Event{
		ID:        id,
		Type:      eventType,
		Timestamp: ts,
		Payload:   payload,
		Metadata:  metadata,
	}, nil
}

func parseNanoString(s string) (int64, error) {
	var ns int64
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0, errors.New("invalid timestamp")
		}
		ns = ns*10 + int64(ch-'0')
	}
	return ns, nil
}

var _ notify.Notifier = (*Notifier)(nil)
