// Package sqlitestore 提供基于 SQLite 的购物车持久化实现。
//
// 整个车态序列化为 JSON 后写入单行槽位（slot），
// 不做按行建模：持久化契约是整体覆盖写，按行建模没有收益。
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"shopkit/cart"
	"shopkit/errors"
)

// Persistence SQLite 槽位持久化
type Persistence struct {
	db        *sql.DB
	ownsDB    bool
	tableName string
	slotName  string
}

// Option 配置函数
type Option func(*Persistence)

// WithTable 指定槽位表名（默认 cart_slots）
func WithTable(name string) Option {
	return func(p *Persistence) { p.tableName = name }
}

// WithSlot 指定槽位名（默认 default，可按用户区分多个购物车）
func WithSlot(name string) Option {
	return func(p *Persistence) { p.slotName = name }
}

// New 在已有连接上创建持久化并确保槽位表存在
func New(ctx context.Context, db *sql.DB, opts ...Option) (*Persistence, error) {
	p := &Persistence{
		db:        db,
		tableName: "cart_slots",
		slotName:  "default",
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.ensureTable(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Open 打开（必要时创建）SQLite 数据库文件并创建持久化
func Open(ctx context.Context, path string, opts ...Option) (*Persistence, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeStorage, "mở cơ sở dữ liệu giỏ hàng thất bại")
	}
	p, err := New(ctx, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	p.ownsDB = true
	return p, nil
}

// Load 读取槽位车态。槽位行不存在时返回空序列。
func (p *Persistence) Load(ctx context.Context) ([]cart.Line, error) {
	q := fmt.Sprintf(`SELECT payload FROM %s WHERE slot_name = ?`, p.tableName)
	var payload string
	if err := p.db.QueryRowContext(ctx, q, p.slotName).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.ErrCodeStorage, "đọc giỏ hàng thất bại")
	}
	if payload == "" {
		return nil, nil
	}
	var lines []cart.Line
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeStorage, "dữ liệu giỏ hàng không hợp lệ")
	}
	return lines, nil
}

// Save 覆盖写入槽位车态（SQLite UPSERT）
func (p *Persistence) Save(ctx context.Context, lines []cart.Line) error {
	if lines == nil {
		lines = []cart.Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeStorage, "serialize giỏ hàng thất bại")
	}

	q := fmt.Sprintf(`
INSERT INTO %s (slot_name, payload, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(slot_name) DO UPDATE SET
	payload=excluded.payload,
	updated_at=excluded.updated_at`, p.tableName)
	if _, err := p.db.ExecContext(ctx, q, p.slotName, string(payload), time.Now()); err != nil {
		return errors.WrapError(err, errors.ErrCodeStorage, "ghi giỏ hàng thất bại")
	}
	return nil
}

// DB 返回底层连接，便于在同一数据库上创建其他槽位
func (p *Persistence) DB() *sql.DB {
	return p.db
}

// Close 释放数据库（仅关闭 Open 自建的连接）
func (p *Persistence) Close() error {
	if p.ownsDB && p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *Persistence) ensureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	slot_name TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at DATETIME NOT NULL
)`, p.tableName)
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return errors.WrapError(err, errors.ErrCodeStorage, "khởi tạo bảng giỏ hàng thất bại")
	}
	return nil
}

var _ cart.IPersistence = (*Persistence)(nil)
