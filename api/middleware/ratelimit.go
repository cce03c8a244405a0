package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/bookbuddy/config"
	"github.com/use-agent/bookbuddy/models"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an unused bucket is kept.
const idleLimiterTTL = time.Hour

const refundKey = "bookbuddy.refund"

// Refund gives the submission's token back. Handlers call it when the
// request was rejected before any browser was launched, so fixing a typo
// does not use up the budget.
func Refund(c *gin.Context) {
	c.Set(refundKey, true)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// submitLimiter keeps one token bucket per caller and route, so shelf
// scrapes and price searches are budgeted separately. Every accepted
// submission launches a headless browser.
type submitLimiter struct {
	cfg config.RateLimitConfig

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func (l *submitLimiter) reserve(key string, now time.Time) *rate.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > idleLimiterTTL/12 {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > idleLimiterTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.ReserveN(now, 1)
}

// RateLimit rejects submissions beyond the configured rate with 429 and a
// Retry-After header. It must run after Auth. Submissions marked with
// Refund do not count.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	l := &submitLimiter{
		cfg:       cfg,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}

	return func(c *gin.Context) {
		now := time.Now()
		r := l.reserve(Identity(c)+" "+c.FullPath(), now)

		if !r.OK() {
			abortWithError(c, http.StatusTooManyRequests, models.ErrCodeRateLimited,
				"too many submissions, please slow down")
			return
		}
		if delay := r.DelayFrom(now); delay > 0 {
			r.CancelAt(now)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			abortWithError(c, http.StatusTooManyRequests, models.ErrCodeRateLimited,
				"too many submissions, please slow down")
			return
		}

		c.Next()

		if c.GetBool(refundKey) {
			r.CancelAt(now)
		}
	}
}
