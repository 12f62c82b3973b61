package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"placement-readiness/internal/analyses"
	"placement-readiness/internal/shared/config"
	"placement-readiness/internal/shared/metrics"
	"placement-readiness/internal/shared/server/middleware"
	"placement-readiness/internal/shared/server/respond"
)

const (
	rateGroupRead   = "READ"
	rateGroupMutate = "MUTATE"
)

// RouterDeps are the handlers and settings the router needs.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: rateGroupMutate,
		GroupFor:     rateGroupFor,
		Limiter:      deps.RateLimiter,
		Rules: map[string]middleware.RateLimitRule{
			rateGroupMutate: middleware.PerMinute(deps.Config.RateLimitPerMinute, deps.Config.RateLimitBurst),
		},
	}))
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}

	return r
}

// Reads are never limited; every other method shares the mutating budget.
func rateGroupFor(c *gin.Context) string {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return rateGroupRead
	default:
		return rateGroupMutate
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
