package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"

	"github.com/joshsymonds/lexcura/internal/server/respond"
)

// RateLimiter hands out one token bucket per key. A bucket left unused for
// as long as it takes to refill completely is dropped; a new one for the same
// key starts full, so dropping it changes nothing.
type RateLimiter struct {
	limiters  *ttlcache.Cache[string, *rate.Limiter]
	now       func() time.Time
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	mu        sync.Mutex
}

// NewRateLimiter allows perSecond events per key with the given burst.
// A non-positive rate or burst disables limiting.
func NewRateLimiter(perSecond float64, burst int, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	idle := refillTime(perSecond, burst)
	return &RateLimiter{
		limiters:  ttlcache.New[string, *rate.Limiter](ttlcache.WithTTL[string, *rate.Limiter](idle)),
		now:       now,
		limit:     rate.Limit(perSecond),
		burst:     burst,
		idle:      idle,
		lastSweep: time.Now(),
	}
}

// refillTime is how long an empty bucket takes to fill up again.
func refillTime(perSecond float64, burst int) time.Duration {
	if perSecond <= 0 || burst <= 0 {
		return time.Minute
	}
	d := time.Duration(float64(burst) / perSecond * float64(time.Second))
	return max(d, time.Millisecond)
}

// Len returns the number of keys currently holding a bucket.
func (l *RateLimiter) Len() int {
	return l.limiters.Len()
}

// Allow reports whether key may proceed now, and otherwise how long to wait.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	if l == nil || l.limit <= 0 || l.burst <= 0 {
		return true, 0
	}

	l.mu.Lock()
	// Expiry is measured on the wall clock, as ttlcache does.
	if time.Since(l.lastSweep) >= l.idle {
		l.limiters.DeleteExpired()
		l.lastSweep = time.Now()
	}
	item, _ := l.limiters.GetOrSet(key, rate.NewLimiter(l.limit, l.burst))
	lim := item.Value()
	l.mu.Unlock()

	now := l.now()
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// RateLimit rejects requests beyond the limiter's budget, keyed by client IP.
func RateLimit(l *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := l.Allow(strings.TrimSpace(c.ClientIP()))
		if allowed {
			c.Next()
			return
		}
		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds <= 0 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many refresh requests", gin.H{
			"retry_after_ms": retryAfter.Milliseconds(),
		})
	}
}
