package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/hello/:username", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RealIPKey)+"|"+c.GetString(RequestIDKey))
	})
	return r
}

func do(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	r := newEngine(RequestIDMiddleware())

	w := do(r, "/hello/john", nil)
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Contains(t, w.Body.String(), id)

	given := uuid.NewString()
	w = do(r, "/hello/john", map[string]string{RequestIDHeader: given})
	assert.Equal(t, given, w.Header().Get(RequestIDHeader))

	w = do(r, "/hello/john", map[string]string{RequestIDHeader: "<script>"})
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func TestRealIPPriority(t *testing.T) {
	r := newEngine(RealIP())

	w := do(r, "/hello/john", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"})
	assert.Equal(t, "203.0.113.7|", w.Body.String())

	w = do(r, "/hello/john", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"})
	assert.Equal(t, "198.51.100.1|", w.Body.String())

	w = do(r, "/hello/john", map[string]string{"X-Forwarded-For": "garbage"})
	assert.Equal(t, "192.0.2.1|", w.Body.String())
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := newEngine(RealIP(), RateLimit(rdb, 2, time.Minute, KeyByIPAndPath(), nil))

	for i, name := range []string{"john", "jane"} {
		w := do(r, "/hello/"+name, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, []string{"1", "0"}[i], w.Header().Get("X-RateLimit-Remaining"))
	}

	w := do(r, "/hello/joe", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	w = do(r, "/hello/joe", map[string]string{"X-Forwarded-For": "198.51.100.9"})
	assert.Equal(t, http.StatusOK, w.Code)

	mr.FastForward(time.Minute + time.Second)
	w = do(r, "/hello/joe", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitBypassAndFailOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	allowLoopback := RateLimit(rdb, 1, time.Minute, KeyByIP(), AllowPrivateIP())
	r := newEngine(RealIP(), allowLoopback)
	for i := 0; i < 3; i++ {
		w := do(r, "/hello/john", map[string]string{"X-Forwarded-For": "127.0.0.1"})
		assert.Equal(t, http.StatusOK, w.Code)
	}

	mr.Close()
	r = newEngine(RealIP(), RateLimit(rdb, 1, time.Minute, KeyByIP(), nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, "/hello/john", nil).Code)
	}

	assert.Equal(t, http.StatusOK, do(newEngine(RateLimit(nil, 1, time.Minute, KeyByIP(), nil)), "/hello/john", nil).Code)
}

type durationCall struct {
	method, endpoint string
	d                time.Duration
}

type fakeRecorder struct{ calls []durationCall }

func (f *fakeRecorder) ObserveDuration(method, endpoint string, d time.Duration) {
	f.calls = append(f.calls, durationCall{method, endpoint, d})
}

func TestRequestDurationUsesRoutePattern(t *testing.T) {
	rec := &fakeRecorder{}
	r := newEngine(RequestDuration(rec))

	do(r, "/hello/john", nil)
	do(r, "/hello/ann", nil)
	do(r, "/no/such/path", nil)

	require.Len(t, rec.calls, 3)
	assert.Equal(t, "GET", rec.calls[0].method)
	assert.Equal(t, "/hello/:username", rec.calls[0].endpoint)
	assert.Equal(t, "/hello/:username", rec.calls[1].endpoint)
	assert.Equal(t, "unmatched", rec.calls[2].endpoint)
	assert.GreaterOrEqual(t, rec.calls[0].d, time.Duration(0))
}
