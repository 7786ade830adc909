package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"shopkit/listing"
)

type brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (b brand) GetID() int64 { return b.ID }

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return client, server
}

func TestAdapterListSpringEnvelope(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"content":[{"id":1,"name":"Nike"},{"id":2,"name":"Adidas"}],"totalPages":5,"totalElements":48}`))
	}))

	adapter := NewAdapter[brand](AdapterConfig{Client: client, Resource: "admin/brands"})
	result, err := adapter.List(context.Background(), listing.ListQuery{
		Page:    2,
		Size:    10,
		Search:  "ni",
		Filters: map[string]string{"status": "active"},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.Equal(t, "Nike", result.Items[0].Name)
	require.Equal(t, 5, result.TotalPages)
	require.Equal(t, int64(48), result.TotalElements)

	require.Contains(t, gotQuery, "page=2")
	require.Contains(t, gotQuery, "size=10")
	require.Contains(t, gotQuery, "search=ni")
	require.Contains(t, gotQuery, "status=active")
}

func TestAdapterListBareArray(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Nike"}]`))
	}))

	adapter := NewAdapter[brand](AdapterConfig{Client: client, Resource: "brands"})
	result, err := adapter.List(context.Background(), listing.ListQuery{Size: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, 1, result.TotalPages)
	require.Equal(t, int64(1), result.TotalElements)
}

func TestAdapterListDataEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":3,"name":"Puma"}]}`))
	}))

	adapter := NewAdapter[brand](AdapterConfig{Client: client, Resource: "brands"})
	result, err := adapter.List(context.Background(), listing.ListQuery{Size: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, "Puma", result.Items[0].Name)
}

func TestAdapterMutations(t *testing.T) {
	var methods []string
	var paths []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"success":true,"message":"OK"}`))
	}))

	adapter := NewAdapter[brand](AdapterConfig{Client: client, Resource: "admin/brands"})
	ctx := context.Background()

	result, err := adapter.Create(ctx, brand{Name: "Nike"})
	require.NoError(t, err)
	require.True(t, result.Success)

	_, err = adapter.Update(ctx, 7, brand{ID: 7, Name: "Nike VN"})
	require.NoError(t, err)

	_, err = adapter.Remove(ctx, 7)
	require.NoError(t, err)

	require.Equal(t, []string{"POST", "PUT", "DELETE"}, methods)
	require.Equal(t, "/admin/brands", paths[0])
	require.Equal(t, "/admin/brands/7", paths[1])
	require.Equal(t, "/admin/brands/7", paths[2])
}

func TestAdapterMutationSuccessFalse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Không thể xóa thương hiệu đang sử dụng"}`))
	}))

	adapter := NewAdapter[brand](AdapterConfig{Client: client, Resource: "admin/brands"})
	result, err := adapter.Remove(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Không thể xóa thương hiệu đang sử dụng", result.Message)
}

func TestWithToggle(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"success":true}`))
	}))

	base := NewAdapter[brand](AdapterConfig{Client: client, Resource: "admin/brands"})
	toggled := &WithToggle[brand]{IBackendAdapter: base, Client: client, Resource: "admin/brands"}

	var _ listing.IActivatable = toggled

	result, err := toggled.ToggleActive(context.Background(), 5, false)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, http.MethodPatch, gotMethod)
	require.Equal(t, "/admin/brands/5/toggle-status", gotPath)
	require.Contains(t, gotQuery, "active=false")
}

func TestWithFormOptionsCaches(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"data":{"sizes":["S","M","L"],"colors":["Đen","Trắng"]}}`))
	}))

	base := NewAdapter[brand](AdapterConfig{Client: client, Resource: "admin/products"})
	provider := NewWithFormOptions[brand](base, client, "admin/products/form-options", 0)

	ctx := context.Background()
	opts, err := provider.FormOptions(ctx)
	require.NoError(t, err)

	data, ok := opts.(map[string]any)
	require.True(t, ok)
	require.Len(t, data["sizes"], 3)

	_, err = provider.FormOptions(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load(), "second call should be served from cache")
}
