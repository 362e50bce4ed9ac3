package ratelimiter

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"jar_backend/internal/platform/http/response"
	"jar_backend/internal/shared/apperr"
)

// idleTTL は最後のアクセスからこの時間が経過したIPの状態を破棄する目安です。
const idleTTL = 30 * time.Minute

var errTooManyRequests = apperr.New(apperr.KindRateLimited, "Too many requests, please try again later.")

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter はクライアントIPごとにトークンバケットを持つレートリミッターです。
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter は window あたり requests 回までのリクエストを許可するリミッターを生成します。
// バーストは requests と同じです。
func NewIPRateLimiter(requests int, window time.Duration) *IPRateLimiter {
	if requests <= 0 {
		requests = 1
	}
	return &IPRateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Every(window / time.Duration(requests)),
		burst:     requests,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow はipからのリクエストを1件消費できるかを返します。
func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > idleTTL {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > idleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware は上限を超えたリクエストを429で拒否するGinミドルウェアを返します。
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.Allow(ip) {
			slog.Warn("rate limit exceeded", "remote_addr", ip, "path", c.FullPath())
			c.Header("Retry-After", "60")
			response.Abort(c, errTooManyRequests)
			return
		}
		c.Next()
	}
}
