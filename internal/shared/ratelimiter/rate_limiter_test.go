package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestIPRateLimiter_Allow はIPごとに上限が独立して適用されることを検証します。
func TestIPRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	rl := NewIPRateLimiter(3, time.Minute)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "4th request should be limited")
	assert.True(t, rl.Allow("10.0.0.2"), "other IPs are unaffected")

	// 20秒で1トークン回復する
	now = now.Add(21 * time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
}

// TestIPRateLimiter_SweepsIdleVisitors は一定時間アクセスのないIPの状態が破棄されることを検証します。
func TestIPRateLimiter_SweepsIdleVisitors(t *testing.T) {
	t.Parallel()

	rl := NewIPRateLimiter(1, time.Minute)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	assert.Len(t, rl.visitors, 1)

	now = now.Add(idleTTL + time.Minute)
	rl.Allow("10.0.0.2")
	assert.Len(t, rl.visitors, 1)
	_, stale := rl.visitors["10.0.0.1"]
	assert.False(t, stale)
}

// TestIPRateLimiter_Middleware は上限超過時に429が返ることを検証します。
func TestIPRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewIPRateLimiter(1, time.Hour)
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"status":"error","message":"Too many requests, please try again later."}`, w.Body.String())
}
