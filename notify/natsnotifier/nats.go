// Package natsnotifier 提供基于 NATS JetStream 的事件发布实现。
package natsnotifier

import (
	"encoding/json"
	"errors"
	"strings"

	"context"

	"github.com/nats-io/nats.go"

	"shopkit/logging"
	"shopkit/notify"
)

// Config configures the JetStream notifier.
type Config struct {
	URL           string
	Stream        string
	SubjectPrefix string
	Conn          *nats.Conn
	Logger        logging.Logger
}

// Notifier publishes shop events to a JetStream stream, one subject per
// event type (e.g. shop.cart.item_added).
type Notifier struct {
	cfg      Config
	logger   logging.Logger
	conn     *nats.Conn
	js       nats.JetStreamContext
	ownsConn bool
}

// New 建立连接并确保流存在
func New(cfg Config) (*Notifier, error) {
	if cfg.Stream == "" {
		cfg.Stream = "SHOPKIT"
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "shop."
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "notify.nats"))
	}

	n := &Notifier{cfg: cfg, logger: cfg.Logger}
	if cfg.Conn != nil {
		n.conn = cfg.Conn
	} else {
		if cfg.URL == "" {
			cfg.URL = nats.DefaultURL
		}
		conn, err := nats.Connect(cfg.URL)
		if err != nil {
			return nil, err
		}
		n.conn = conn
		n.ownsConn = true
	}

	js, err := n.conn.JetStream()
	if err != nil {
		if n.ownsConn {
			n.conn.Close()
		}
		return nil, err
	}
	n.js = js

	if err := n.ensureStream(); err != nil {
		if n.ownsConn {
			n.conn.Close()
		}
		return nil, err
	}
	return n, nil
}

// Publish 序列化事件并发布到对应主题
func (n *Notifier) Publish(ctx context.Context, event notify.Event) error {
	if n.js == nil {
		return errors.New("nats notifier not connected")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	subject := n.subjectName(event.Type)
	if _, err := n.js.Publish(subject, data, nats.MsgId(event.ID)); err != nil {
		return err
	}
	n.logger.Debug(ctx, "event published",
		logging.String("subject", subject),
		logging.String("event_id", event.ID))
	return nil
}

// Close 释放连接（仅关闭自建连接）
func (n *Notifier) Close() error {
	if n.ownsConn && n.conn != nil {
		n.conn.Close()
	}
	n.conn = nil
	n.js = nil
	return nil
}

func (n *Notifier) subjectName(eventType string) string {
	return n.cfg.SubjectPrefix + eventType
}

func (n *Notifier) ensureStream() error {
	_, err := n.js.StreamInfo(n.cfg.Stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) && !strings.Contains(err.Error(), "stream not found") {
		return err
	}
	_, err = n.js.AddStream(&nats.StreamConfig{
		Name:      n.cfg.Stream,
		Subjects:  []string{n.cfg.SubjectPrefix + ">"},
		Retention: nats.LimitsPolicy,
	})
	return err
}

var _ notify.Notifier = (*Notifier)(nil)
