// internal/middleware/rate_limit.go
package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/guanl20/Blocktrust/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}
}

// StartCleanup evicts idle visitors every minute until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.cleanup(3 * time.Minute)
			}
		}
	}()
}

func (rl *RateLimiter) cleanup(idle time.Duration) {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()
	for ip, v := range rl.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getVisitor(c.ClientIP()).Allow() {
			utils.TooManyRequestsResponse(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// PerSecond builds a limiter allowing rps requests per second per client.
func PerSecond(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		return NewRateLimiter(rate.Inf, burst)
	}
	return NewRateLimiter(rate.Limit(rps), burst)
}

// PerMinute builds a limiter allowing n requests per minute per client.
func PerMinute(n float64, burst int) *RateLimiter {
	if n <= 0 {
		return NewRateLimiter(rate.Inf, burst)
	}
	return NewRateLimiter(rate.Limit(n/60), burst)
}
