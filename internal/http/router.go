// Package httpapi wires the Gin transport to the daily quote services,
// middleware and route handlers.
//
// Middleware order:
//  1. OpenTelemetry tracing
//  2. RequestID
//  3. RedactingLogger (attaches the request-scoped logger)
//  4. Recovery
//  5. Body size limit
//  6. Prometheus metrics
//  7. Idempotency validator, POST comments only (before the rate limiter so
//     replays bypass it)
//  8. Token-bucket rate limiter per client address
//  9. CORS and security headers
//  10. gzip
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-daily-quote/internal/config"
	"github.com/tbourn/go-daily-quote/internal/events"
	"github.com/tbourn/go-daily-quote/internal/hashing"
	"github.com/tbourn/go-daily-quote/internal/http/handlers"
	"github.com/tbourn/go-daily-quote/internal/http/middleware"
	"github.com/tbourn/go-daily-quote/internal/quotes"
	"github.com/tbourn/go-daily-quote/internal/services"
	"github.com/tbourn/go-daily-quote/internal/verify"
)

// maxBodyBytes caps every request body. Comments are at most 800 runes.
const maxBodyBytes = 64 << 10

// Deps are the process-wide collaborators the routes are built from.
type Deps struct {
	DB       *gorm.DB
	Quotes   *quotes.Store
	Selector quotes.Selector
	Hasher   hashing.Hasher
	Verifier verify.Verifier
	Events   events.Publisher
	// Now overrides the service clock (tests).
	Now func() time.Time
}

// NewServices builds the service layer from deps and cfg.
func NewServices(d Deps, cfg config.Config) (handlers.Services, *services.IdempotencyService) {
	guard := services.AbuseGuard{Window: cfg.Abuse.Window, Limit: cfg.Abuse.Limit, Now: d.Now}
	idem := &services.IdempotencyService{DB: d.DB, Hasher: d.Hasher, TTL: cfg.IdempotencyTTL}

	return handlers.Services{
		Comments: &services.CommentService{
			DB:       d.DB,
			Hasher:   d.Hasher,
			Verifier: d.Verifier,
			Guard:    guard,
			Events:   d.Events,
			Now:      d.Now,
		},
		Reports: &services.ReportService{
			DB:     d.DB,
			Hasher: d.Hasher,
			Guard:  guard,
			Events: d.Events,
			Now:    d.Now,
		},
		Quotes: &services.QuoteService{Store: d.Quotes, Selector: d.Selector, Now: d.Now},
		Track:  &services.TrackService{DB: d.DB, Selector: d.Selector, Now: d.Now},
		Moderation: &services.ModerationService{
			DB:       d.DB,
			Quotes:   d.Quotes,
			Selector: d.Selector,
			Hasher:   d.Hasher,
			Events:   d.Events,
			Now:      d.Now,
		},
		Idempotency: idem,
	}, idem
}

// RegisterRoutes attaches middleware and endpoints to r. The returned
// idempotency service is the one the comment routes use; callers own its
// periodic purge.
func RegisterRoutes(r *gin.Engine, d Deps, cfg config.Config) *services.IdempotencyService {
	r.HandleMethodNotAllowed = true
	r.TrustedPlatform = cfg.ClientIPHeader

	svc, idem := NewServices(d, cfg)
	h := handlers.New(svc)

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{
		MaxLen: 200,
		Routes: []string{middleware.IdempotencyRoute(http.MethodPost, routePath(cfg.APIBasePath, "/comments"))},
	}, idem.Exists))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	r.Use(cors.New(corsConfig(cfg.CORS.AllowedOrigins)))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "quotes": d.Quotes.Len()})
	})
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/comments", h.ListComments)
		api.POST("/comments", h.PostComment)
		api.POST("/report", h.SubmitReport)
		api.POST("/track", h.Track)

		api.GET("/quote/today", h.TodayQuote)
		api.GET("/quote/:id", h.GetQuote)
		api.GET("/quotes/history", h.QuoteHistory)
	}

	admin := api.Group("/admin", middleware.AdminAuth(cfg.AdminSecret), middleware.NoStore())
	{
		admin.GET("/comments", h.AdminListComments)
		admin.POST("/comments/action", h.AdminAction)
		admin.POST("/comments/hide", h.AdminHide)
		admin.GET("/comments/:id/history", h.AdminHistory)
		admin.GET("/reports", h.AdminReports)
		admin.GET("/events", h.AdminEventCount)
	}
	return idem
}

// corsConfig allows every origin without credentials when origins is
// empty, and only the listed origins otherwise.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"If-None-Match", middleware.HeaderIdempotencyKey,
		},
		ExposeHeaders: []string{"X-Request-ID", "ETag", "Idempotency-Replayed", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// limitBody caps the request body at maxBytes; reads past it fail and
// surface as a 400 from JSON binding.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// routePath is the full path of p under the group groupWithPrefix mounts at
// prefix.
func routePath(prefix, p string) string {
	if prefix == "" || prefix == "/" {
		return p
	}
	return prefix + p
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
