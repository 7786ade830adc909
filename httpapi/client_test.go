package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"shopkit/errors"
)

func TestClientInjectsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:       server.URL,
		TokenProvider: func() string { return "token-123" },
	})
	require.NoError(t, err)

	require.NoError(t, client.Get(context.Background(), "products", nil, nil))
	require.Equal(t, "Bearer token-123", gotAuth)
}

func TestClientSkipsAuthWhenNoToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:       server.URL,
		TokenProvider: func() string { return "" },
	})
	require.NoError(t, err)

	require.NoError(t, client.Get(context.Background(), "products", nil, nil))
	require.Empty(t, gotAuth)
}

func TestClientUnauthorizedCallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	called := false
	client, err := NewClient(Config{
		BaseURL:        server.URL,
		OnUnauthorized: func() { called = true },
	})
	require.NoError(t, err)

	err = client.Get(context.Background(), "me", nil, nil)
	require.Error(t, err)
	require.True(t, called, "401 should trigger the callback")
	require.True(t, errors.IsServer(err))
}

func TestClientServerErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Tên sản phẩm đã tồn tại"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	err = client.Post(context.Background(), "products", nil, map[string]string{"name": "x"}, nil)
	require.Error(t, err)
	require.True(t, errors.IsServer(err))
	require.Equal(t, "Tên sản phẩm đã tồn tại", errors.ServerMessage(err))
}

func TestClientTransportError(t *testing.T) {
	// 无人监听的端口
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	err = client.Get(context.Background(), "products", nil, nil)
	require.Error(t, err)
	require.True(t, errors.IsTransport(err))
	require.Empty(t, errors.ServerMessage(err), "transport errors carry no server message")
}

func TestClientDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7,"name":"Áo thun"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, client.Get(context.Background(), "products/7", nil, &out))
	require.Equal(t, int64(7), out.ID)
	require.Equal(t, "Áo thun", out.Name)
}

func TestClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}
