package middleware

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1/response"
)

var errRateLimited = errors.New("too many requests")

// visitorTTL bounds how long an idle bucket is kept before cleanup.
const visitorTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token bucket per client IP. Scan endpoints sit
// behind it so a misbehaving kiosk cannot starve the claim path.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[key]
	if !ok {
		for k, stale := range rl.visitors {
			if now.Sub(stale.lastSeen) > visitorTTL {
				delete(rl.visitors, k)
			}
		}

		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !rl.limiterFor(ctx.ClientIP()).Allow() {
			response.RenderErr(ctx, response.ErrTooManyRequests(errRateLimited))
			ctx.Abort()

			return
		}

		ctx.Next()
	}
}
