package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mediseek/medisearch-backend/internal/config"
)

func newTestLimiter(maxPerMinute int) *RateLimiter {
	return NewRateLimiter(config.RateLimitConfig{
		MaxPerMinute:    maxPerMinute,
		CleanupInterval: time.Minute,
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/diseases/search?q=x", nil)
	req.RemoteAddr = remoteAddr
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := newTestLimiter(10)
	defer rl.Stop()

	handler := rl.Limit()(okHandler())

	for i := 0; i < 10; i++ {
		rec := doRequest(handler, "1.2.3.4:1234")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := newTestLimiter(5)
	defer rl.Stop()

	handler := rl.Limit()(okHandler())

	for i := 0; i < 5; i++ {
		rec := doRequest(handler, "1.2.3.4:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(handler, "1.2.3.4:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	rl := newTestLimiter(2)
	defer rl.Stop()

	handler := rl.Limit()(okHandler())

	for i := 0; i < 2; i++ {
		doRequest(handler, "1.1.1.1:1234")
	}

	rec := doRequest(handler, "2.2.2.2:5678")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	rl := newTestLimiter(60) // 1 token per second
	defer rl.Stop()

	handler := rl.Limit()(okHandler())

	for i := 0; i < 60; i++ {
		doRequest(handler, "3.3.3.3:1234")
	}

	time.Sleep(1100 * time.Millisecond)

	rec := doRequest(handler, "3.3.3.3:1234")
	assert.Equal(t, http.StatusOK, rec.Code)
}
