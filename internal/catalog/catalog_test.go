package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticVerifier struct{}

func (staticVerifier) Verify(token string) (utils.Claims, error) {
	if token != "good" {
		return utils.Claims{}, errors.New("bad token")
	}
	return utils.Claims{ID: "admin-1", Role: "admin"}, nil
}

// fakeUpstream answers like the public catalog and counts requests.
func fakeUpstream(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/products/categories":
			_, _ = w.Write([]byte(`[{"slug":"beauty","name":"Beauty"}]`))
		case "/products/search":
			_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"` + r.URL.Query().Get("q") + `"}],"total":1,"skip":0,"limit":1}`))
		default:
			q := r.URL.Query()
			_, _ = w.Write([]byte(`{"products":[],"total":0,"skip":` + q.Get("skip") + `,"limit":` + q.Get("limit") + `,"sortBy":"` + q.Get("sortBy") + `"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := NewRedisCache(t.Context(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return mr, cache
}

func get(t *testing.T, h http.Handler, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "good"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestProductsAreCached(t *testing.T) {
	upstream, hits := fakeUpstream(t, http.StatusOK)
	mr, cache := newRedis(t)

	client := NewClient(upstream.URL+"/", cache, time.Minute)
	t.Cleanup(client.Close)
	h := SetupRoutes(client, staticVerifier{})

	for range 2 {
		status, body := get(t, h, "/products?limit=5&skip=10")
		require.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 5, body["limit"])
		assert.EqualValues(t, 10, body["skip"])
	}
	assert.EqualValues(t, 1, hits.Load())
	assert.True(t, mr.Exists("catalog:/products?limit=5&skip=10"))

	mr.FastForward(2 * time.Minute)
	status, _ := get(t, h, "/products?limit=5&skip=10")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, hits.Load())
}

func TestSearchAndTopRated(t *testing.T) {
	upstream, _ := fakeUpstream(t, http.StatusOK)
	client := NewClient(upstream.URL, nil, time.Minute)
	t.Cleanup(client.Close)
	h := SetupRoutes(client, staticVerifier{})

	status, body := get(t, h, "/products?q=phone")
	require.Equal(t, http.StatusOK, status)
	first := body["products"].([]any)[0].(map[string]any)
	assert.Equal(t, "phone", first["title"])

	status, body = get(t, h, "/top-rated?limit=500")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, maxLimit, body["limit"])
	assert.Equal(t, "rating", body["sortBy"])
}

func TestCategoriesPassThroughArrays(t *testing.T) {
	upstream, _ := fakeUpstream(t, http.StatusOK)
	client := NewClient(upstream.URL, nil, time.Minute)
	t.Cleanup(client.Close)

	raw, err := client.Categories(t.Context())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"slug":"beauty","name":"Beauty"}]`, string(raw))
}

func TestUpstreamFailure(t *testing.T) {
	upstream, _ := fakeUpstream(t, http.StatusInternalServerError)
	_, cache := newRedis(t)
	client := NewClient(upstream.URL, cache, time.Minute)
	t.Cleanup(client.Close)
	h := SetupRoutes(client, staticVerifier{})

	status, body := get(t, h, "/categories")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "UPSTREAM_ERROR", body["error"])

	// failures are not cached
	_, ok, err := cache.Get(t.Context(), "/products/categories")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheOutageFallsThrough(t *testing.T) {
	upstream, hits := fakeUpstream(t, http.StatusOK)
	mr, cache := newRedis(t)
	client := NewClient(upstream.URL, cache, time.Minute)
	t.Cleanup(client.Close)

	mr.SetError("LOADING")
	_, err := client.Products(t.Context(), 3, 0, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestRequiresAuth(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil, time.Minute)
	h := SetupRoutes(client, staticVerifier{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
