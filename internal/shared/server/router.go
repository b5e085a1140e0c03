package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hiresight/internal/analysis"
	"hiresight/internal/services/health"
	"hiresight/internal/shared/config"
	"hiresight/internal/shared/metrics"
	"hiresight/internal/shared/server/middleware"
	"hiresight/internal/shared/server/respond"
)

// AnalyzeGroup is the rate limit group guarding analysis submissions.
const AnalyzeGroup = "ANALYZE"

// Deps carries the constructed handlers the router exposes.
type Deps struct {
	Analysis *analysis.Handler
	Health   *health.Service
	Limiter  *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	switch cfg.Env {
	case "production", "staging":
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})

	if deps.Analysis != nil {
		limit := middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				AnalyzeGroup: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			},
			DefaultGroup: AnalyzeGroup,
			Limiter:      deps.Limiter,
		})
		deps.Analysis.RegisterRoutes(api, limit)
	}

	return r
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
