package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterEntryTTL        = 10 * time.Minute
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	limit     rate.Limit
	perMinute int
	burst     int
	now       func() time.Time
}

// NewIPRateLimiter allows perMinute requests per IP with the given burst.
// Idle buckets are dropped until ctx is done.
func NewIPRateLimiter(ctx context.Context, perMinute, burst int) *IPRateLimiter {
	l := &IPRateLimiter{
		entries:   make(map[string]*limiterEntry),
		limit:     rate.Limit(float64(perMinute) / 60.0),
		perMinute: perMinute,
		burst:     burst,
		now:       time.Now,
	}
	go l.cleanup(ctx)
	return l
}

func (l *IPRateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

func (l *IPRateLimiter) evictIdle() {
	cutoff := l.now().Add(-limiterEntryTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if e.lastAccess.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Allow consumes one token for key.
func (l *IPRateLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastAccess = now
	l.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Middleware answers 429 once the caller's IP runs out of tokens.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			retryAfter := 60
			if l.perMinute > 0 {
				retryAfter = (60 + l.perMinute - 1) / l.perMinute
			}
			log.Warn().Str("remote_ip", ip).Str("path", c.FullPath()).Msg("rate limit exceeded")
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later"})
			return
		}
		c.Next()
	}
}
