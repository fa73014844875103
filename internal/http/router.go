// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, request/response logging with redaction,
// panic recovery, metrics, auth, rate limiting, CORS, and security headers.
//
// Design goals:
//   - Deterministic, minimal router setup; all dependencies injected. The
//     database handle is constructed once at startup and passed in, never
//     reached through ambient global state
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Uniform error envelopes on every path, including NoRoute/NoMethod
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-users-api/internal/config"
	"github.com/tbourn/go-users-api/internal/http/handlers"
	"github.com/tbourn/go-users-api/internal/http/middleware"
	"github.com/tbourn/go-users-api/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. gzip: compress on the way out (before the logger wraps the writer so
//     captured bodies stay uncompressed)
//  3. Body size limiter: must precede the logger, whose body capture would
//     otherwise buffer an unbounded request
//  4. RequestID: fresh correlation id per request
//  5. RequestLogger: one structured record per non-health-check exchange
//  6. Recovery: capture panics after the logger
//  7. Metrics
//  8. Bearer auth (when configured)
//  9. Rate limiter (per client IP)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Compress responses; the logger below captures pre-compression bytes.
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 3) Global body size limit (1 MiB), ahead of any middleware that reads
	// the body. The logger below drains the request into memory; the cap has
	// to be in place before that happens, not after.
	r.Use(limitBody(1 << 20))

	// 4) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 5) Structured request/response logging with redaction
	r.Use(middleware.RequestLogger(middleware.LogOptions{
		MaxRequestBody:  cfg.LogMaxRequestBody,
		MaxResponseBody: cfg.LogMaxResponseBody,
	}))

	// 6) Panic recovery to the UNKNOWN_ERROR envelope (with request id)
	r.Use(middleware.Recovery())

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Liveness/health, registered before auth so probes stay open.
	// Excluded from request logging via SkipHealthCheck.
	health := func(c *gin.Context) { c.JSON(http.StatusOK, http.StatusOK) }
	r.GET("/", health)
	r.GET("/health", health)

	// 8) Optional static bearer credential
	r.Use(middleware.BearerAuth(cfg.APIToken))

	// 9) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 10) CORS posture: allow-all unless an allowlist is configured
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks: taxonomy envelopes for unknown paths and unsupported verbs
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.CodeEndpointNotFound, "Endpoint not found.")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.CodeMethodNotAllowed, "Method not allowed.")
	})

	// Dependency injection: services ← db
	h := handlers.New(
		services.NewUserService(db),
		services.NewPostService(db),
		services.NewCarService(db),
	)

	users := r.Group("/users")
	{
		users.GET("/", h.GetUsers)
		users.POST("/", h.PostUser)
		users.GET("/:user_id", h.GetUser)
		users.DELETE("/:user_id", h.DeleteUser)
	}

	posts := r.Group("/posts")
	{
		posts.GET("/", h.GetPosts)
		posts.POST("/", h.CreatePost)
		posts.GET("/:post_id", h.GetPost)
		posts.PUT("/:post_id", h.UpdatePost)
		posts.DELETE("/:post_id", h.DeletePost)
	}

	// Template demo resource, kept for validation-pipeline coverage.
	r.POST("/car", h.CreateCar)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
