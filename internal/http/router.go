// Package httpapi wires the Gin transport to the report service, middleware
// and route handlers. It centralizes cross-cutting concerns: tracing,
// correlation IDs, access logging, panic recovery, metrics, rate limiting,
// compression, CORS and security headers.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/toast-report/docs"
	"github.com/tbourn/toast-report/internal/config"
	"github.com/tbourn/toast-report/internal/http/handlers"
	"github.com/tbourn/toast-report/internal/http/middleware"
	"github.com/tbourn/toast-report/internal/utils"
)

// maxBodyBytes caps request bodies. The API is read-only, so this is small.
const maxBodyBytes = 64 << 10

// RegisterRoutes attaches all middleware and endpoints to r and mounts the
// report API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per client IP; cached catalog reads are free)
//  8. Gzip, CORS and security headers
func RegisterRoutes(r *gin.Engine, reports handlers.ReportService, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	menusPath := joinPath(cfg.APIBasePath, "/menus")
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP()).
		Skip(func(c *gin.Context) bool { return isCachedCatalogRead(c, menusPath) })
	r.Use(rl.Handler())

	// Order tables are large and repetitive JSON.
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(reports)
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/menus", h.ListMenus)
		api.GET("/orders", h.ListOrders)
	}
}

// corsMiddleware allows any origin when none are configured, otherwise only
// the allowlist. The API is read-only and never uses credentials.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Accept", "Accept-Encoding", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
}

// isCachedCatalogRead reports whether c is a menus read that the service
// can answer from its cached catalog without calling Toast.
func isCachedCatalogRead(c *gin.Context, menusPath string) bool {
	if c.Request.Method != http.MethodGet || c.Request.URL.Path != menusPath {
		return false
	}
	return !utils.BoolDefault(c.Query("refresh"), false)
}

// limitBody caps the request body size at maxBytes.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

func joinPath(base, p string) string {
	return strings.TrimRight(base, "/") + p
}
