// Package httpapi 提供面向店铺后端的 HTTP 客户端与 REST 适配器。
//
// 客户端统一处理认证头注入、JSON 编解码、错误归一化与
// 401 回调；适配器把具体资源端点归一到 listing 的接口语义。
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopkit/errors"
	"shopkit/logging"
)

// TokenProvider 返回当前访问令牌，空串表示未登录
type TokenProvider func() string

// Config 客户端配置
type Config struct {
	// BaseURL API 根地址，如 http://localhost:8080/api
	BaseURL string

	// HTTPClient 为空时创建带超时的默认客户端
	HTTPClient *http.Client

	// Timeout 默认客户端的请求超时，默认 10 秒
	Timeout time.Duration

	// TokenProvider 每次请求时取令牌，自动加 Bearer 头
	TokenProvider TokenProvider

	// OnUnauthorized 收到 401 时回调（清理会话、跳登录页等），
	// 回调后错误照常返回
	OnUnauthorized func()

	// Logger 为空时使用全局日志器
	Logger logging.Logger
}

// Client 店铺后端 HTTP 客户端。并发安全。
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenProvider  TokenProvider
	onUnauthorized func()
	logger         logging.Logger
}

// NewClient 创建客户端
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "BaseURL 不能为空")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger()
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     cfg.HTTPClient,
		tokenProvider:  cfg.TokenProvider,
		onUnauthorized: cfg.OnUnauthorized,
		logger:         cfg.Logger,
	}, nil
}

// Get 发起 GET 请求并把响应体解码到 out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post 发起 POST 请求，body 为 nil 时不带请求体
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

// Put 发起 PUT 请求
func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPut, path, query, body, out)
}

// Patch 发起 PATCH 请求
func (c *Client) Patch(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, query, body, out)
}

// Delete 发起 DELETE 请求
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, out)
}

// do 统一请求路径。错误分两类：
//   - 连接失败、超时等 → TRANSPORT_ERROR
//   - 非 2xx 响应 → SERVER_ERROR，消息取响应体中的文本
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WrapError(err, errors.ErrCodeInvalidInput, "请求体序列化失败")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeInvalidInput, "构造请求失败")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokenProvider != nil {
		if token := c.tokenProvider(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "请求失败",
			logging.String("method", method),
			logging.String("path", path),
			logging.Error(err))
		return errors.WrapError(err, errors.ErrCodeTransport, "không thể kết nối đến máy chủ")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeTransport, "đọc phản hồi thất bại")
	}

	c.logger.Debug(ctx, "请求完成",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverErrorText(data)
		if msg == "" {
			msg = fmt.Sprintf("máy chủ trả về mã %d", resp.StatusCode)
		}
		return errors.NewError(errors.ErrCodeServer, msg).
			WithDetail("status", resp.StatusCode).
			WithDetail("path", path)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.WrapError(err, errors.ErrCodeServer, "phản hồi không hợp lệ")
	}
	return nil
}

// serverErrorText 从错误响应体提取人类可读消息。
// 后端的错误形态不统一：{"message": ...}、{"error": ...}
// 或纯文本都见过。
func serverErrorText(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
		return ""
	}
	text := strings.TrimSpace(string(data))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
