package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	cleanupInterval = 5 * time.Minute
	staleAfter      = 10 * time.Minute
)

type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterInfo
	every    rate.Limit
	burst    int
}

// NewIPRateLimiter allows requestsPerMinute with the given burst per IP. Idle
// entries are dropped until ctx is done. A non-positive rate disables limiting.
func NewIPRateLimiter(ctx context.Context, requestsPerMinute, burst int) *IPRateLimiter {
	every := rate.Inf
	if requestsPerMinute > 0 {
		every = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	l := &IPRateLimiter{
		limiters: make(map[string]*limiterInfo),
		every:    every,
		burst:    burst,
	}
	go l.cleanup(ctx)
	return l
}

func (l *IPRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, ok := l.limiters[ip]
	if !ok {
		info = &limiterInfo{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limiters[ip] = info
	}
	info.lastAccessed = time.Now()
	return info.limiter
}

func (l *IPRateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			for ip, info := range l.limiters {
				if time.Since(info.lastAccessed) > staleAfter {
					delete(l.limiters, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Handler rejects requests over the limit with 429.
func (l *IPRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later."})
			return
		}
		c.Next()
	}
}
