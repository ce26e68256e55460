package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mediseek/medisearch-backend/internal/config"
)

// RateLimiter implements per-IP token bucket rate limiting for the search
// endpoint. Type-ahead clients fire a request per keystroke; the limiter
// keeps one misbehaving client from flooding the no-retry upstream.
type RateLimiter struct {
	maxTokens  float64
	refillRate float64  // tokens per second
	buckets    sync.Map // map[string]*bucket
	stop       chan struct{}
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a rate limiter with background cleanup of idle
// buckets. Call Stop() on shutdown.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		maxTokens:  float64(cfg.MaxPerMinute),
		refillRate: float64(cfg.MaxPerMinute) / 60.0,
		stop:       make(chan struct{}),
	}
	go rl.cleanup(cfg.CleanupInterval)
	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

// Limit returns middleware that rate-limits requests per client IP.
func (rl *RateLimiter) Limit() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := rl.getBucket(r.RemoteAddr)
			if !b.allow(rl.maxTokens, rl.refillRate) {
				retryAfter := 60.0 / rl.maxTokens
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter)+1))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) getBucket(key string) *bucket {
	val, _ := rl.buckets.LoadOrStore(key, &bucket{
		tokens:     rl.maxTokens,
		lastRefill: time.Now(),
	})
	return val.(*bucket)
}

func (b *bucket) allow(maxTokens, refillRate float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * refillRate
	if b.tokens > maxTokens {
		b.tokens = maxTokens
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			now := time.Now()
			rl.buckets.Range(func(key, value any) bool {
				b := value.(*bucket)
				b.mu.Lock()
				idle := now.Sub(b.lastRefill)
				b.mu.Unlock()
				if idle > 10*time.Minute {
					rl.buckets.Delete(key)
				}
				return true
			})
		}
	}
}
