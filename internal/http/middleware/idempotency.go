package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"

	defaultIdemKeyLen = 200
)

var idemKeyAlphabet = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the key accepted by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	k := c.GetString(ctxKeyIdemKey)
	return k, k != ""
}

// IsReplay reports whether a stored result exists for the request's key.
func IsReplay(c *gin.Context) bool { return c.GetBool(ctxKeyIdemReplay) }

// IdempotencyOptions configures header validation. Zero values select a
// 200 byte cap and the token alphabet [A-Za-z0-9._~-:].
type IdempotencyOptions struct {
	MaxLen  int
	Pattern *regexp.Regexp
	// Routes limits the validator to these "METHOD /route/template" pairs,
	// matched against gin's FullPath. Other requests pass through untouched,
	// so their headers are never validated and never earn a rate bypass.
	// Empty means every route.
	Routes []string
}

// IdempotencyRoute formats a Routes entry.
func IdempotencyRoute(method, fullPath string) string { return method + " " + fullPath }

// IdempotencyLookup reports whether a live result is stored for the client
// address and key. Expiry is the lookup's concern.
type IdempotencyLookup func(ctx context.Context, clientIP, key string, now time.Time) (bool, error)

// IdempotencyValidator checks the Idempotency-Key header on in-scope requests
// that carry one and stashes it for the handler, which owns storing and
// replaying results. Requests whose key already has a stored result are
// flagged as replays and skip the edge rate limiter. A malformed key is
// answered with 400 bad_idempotency_key. Lookup failures count as a miss.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	if opts.MaxLen <= 0 {
		opts.MaxLen = defaultIdemKeyLen
	}
	if opts.Pattern == nil {
		opts.Pattern = idemKeyAlphabet
	}
	valid := func(k string) bool { return len(k) <= opts.MaxLen && opts.Pattern.MatchString(k) }
	scoped := make(map[string]bool, len(opts.Routes))
	for _, r := range opts.Routes {
		scoped[r] = true
	}

	return func(c *gin.Context) {
		if len(scoped) > 0 && !scoped[IdempotencyRoute(c.Request.Method, c.FullPath())] {
			c.Next()
			return
		}
		key := c.GetHeader(HeaderIdempotencyKey)
		switch {
		case key == "":
		case !valid(key):
			abortJSON(c, http.StatusBadRequest, "bad_idempotency_key", "invalid Idempotency-Key")
			return
		default:
			c.Set(ctxKeyIdemKey, key)
			if lookup != nil && hasStoredResult(c, lookup, key) {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

func hasStoredResult(c *gin.Context, lookup IdempotencyLookup, key string) bool {
	ok, err := lookup(c.Request.Context(), c.ClientIP(), key, time.Now().UTC())
	if err != nil {
		LoggerFrom(c).Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
		return false
	}
	return ok
}
