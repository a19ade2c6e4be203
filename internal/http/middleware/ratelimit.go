package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// visitorTTL is how long an idle bucket survives, and how often the
	// bucket map is swept.
	visitorTTL = 10 * time.Minute
	// maxRetryAfter caps the advertised Retry-After, in seconds.
	maxRetryAfter = 60
)

// KeyFunc maps a request to its bucket identity.
type KeyFunc func(*gin.Context) string

// KeyByClientIP buckets requests by gin's resolved client address, which
// honours the trusted platform header configured on the engine.
func KeyByClientIP() KeyFunc {
	return func(c *gin.Context) string { return "ip:" + c.ClientIP() }
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter sheds bursts per client before they reach the database. It is
// process-local; the persistent abuse window still guards writes.
type RateLimiter struct {
	limit rate.Limit
	burst int
	keyFn KeyFunc
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// NewRateLimiter refills rps tokens per second up to burst (at least 1).
// rps <= 0 disables limiting.
func NewRateLimiter(rps float64, burst int, keyFn KeyFunc) *RateLimiter {
	rl := &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   max(burst, 1),
		keyFn:   keyFn,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
	if rps <= 0 {
		rl.limit = rate.Inf
	}
	if rl.keyFn == nil {
		rl.keyFn = KeyByClientIP()
	}
	return rl
}

// limiterFor returns the bucket for key. Buckets idle for visitorTTL are
// dropped first, at most once per visitorTTL.
func (rl *RateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= visitorTTL {
		for k, b := range rl.buckets {
			if now.Sub(b.seen) >= visitorTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.seen = now
	return b.lim
}

// take consumes a token for key. When none is available it returns how long
// until one would be.
func (rl *RateLimiter) take(key string) (bool, time.Duration) {
	now := rl.now()
	r := rl.limiterFor(key, now).ReserveN(now, 1)
	if !r.OK() {
		return false, maxRetryAfter * time.Second
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// IsRateBypass reports whether IdempotencyValidator excused this request.
func IsRateBypass(c *gin.Context) bool { return c.GetBool(ctxKeyRateBypass) }

// Handler answers over-limit requests with 429 rate_limited and a
// Retry-After in whole seconds.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}
		if ok, wait := rl.take(rl.keyFn(c)); !ok {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			abortJSON(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	return min(max(s, 1), maxRetryAfter)
}
