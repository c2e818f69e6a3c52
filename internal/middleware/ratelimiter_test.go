package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/testutil"
)

func setupRedisLimiter(t *testing.T, limit int64) (*miniredis.Miniredis, middleware.RateLimiter) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return mr, middleware.NewRateLimiter(client, limit, time.Hour, testutil.TestLogger())
}

func setupLimitedRouter(limiter middleware.RateLimiter) *gin.Engine {
	router := gin.New()
	limited := middleware.RateLimit(limiter, testutil.TestLogger())
	router.POST("/login", limited, func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/newsletter", limited, func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func post(router *gin.Engine, path, ip string) int {
	req, _ := http.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	_, limiter := setupRedisLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "login:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "login:5.6.7.8")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_KeysExpire(t *testing.T) {
	mr, limiter := setupRedisLimiter(t, 1)

	_, err := limiter.Allow(context.Background(), "k")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestRedisRateLimiter_FailsOpen(t *testing.T) {
	mr, limiter := setupRedisLimiter(t, 1)
	mr.Close()

	allowed, err := limiter.Allow(context.Background(), "k")
	assert.Error(t, err)
	assert.True(t, allowed)
}

func TestRateLimit_Middleware(t *testing.T) {
	_, limiter := setupRedisLimiter(t, 2)
	router := setupLimitedRouter(limiter)

	assert.Equal(t, http.StatusOK, post(router, "/login", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, post(router, "/login", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, post(router, "/login", "10.0.0.1"))

	// Counters are per route and per client.
	assert.Equal(t, http.StatusOK, post(router, "/newsletter", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, post(router, "/login", "10.0.0.2"))
}

func TestRateLimit_NoOp(t *testing.T) {
	var logs bytes.Buffer
	limiter := middleware.NewNoOpRateLimiter(slog.New(slog.NewTextHandler(&logs, nil)))
	assert.Contains(t, logs.String(), "rate limiting is disabled")

	router := setupLimitedRouter(limiter)

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, post(router, "/login", "10.0.0.1"))
	}
}
