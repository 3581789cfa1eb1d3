package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/scan", rl.Limit(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	return router
}

func doScan(router *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/scan", nil)
	req.RemoteAddr = ip + ":51000"
	router.ServeHTTP(w, req)

	return w.Code
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	router := newLimitedRouter(NewRateLimiter(1, 3))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doScan(router, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, doScan(router, "10.0.0.1"))
}

func TestRateLimiter_BucketsPerClient(t *testing.T) {
	router := newLimitedRouter(NewRateLimiter(1, 1))

	assert.Equal(t, http.StatusOK, doScan(router, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, doScan(router, "10.0.0.1"))

	// A different kiosk still has its own bucket.
	assert.Equal(t, http.StatusOK, doScan(router, "10.0.0.2"))
}
