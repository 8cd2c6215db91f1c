package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/learnpath-backend/internal/http/handlers"
	httpMW "github.com/yungbote/learnpath-backend/internal/http/middleware"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type RouterConfig struct {
	AuthMiddleware *httpMW.AuthMiddleware

	PathHandler    *httpH.PathHandler
	RoadmapHandler *httpH.RoadmapHandler
	HealthHandler  *httpH.HealthHandler

	Log            *logger.Logger
	Metrics        *observability.Metrics
	MetricsEnabled bool
	CORSOrigins    []string
	MaxBodyBytes   int64
	ServiceName    string
	TracingEnabled bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.Tracing(cfg.ServiceName, cfg.TracingEnabled))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	if cfg.MetricsEnabled {
		r.Use(httpMW.Metrics(cfg.Metrics))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	if cfg.MaxBodyBytes > 0 {
		r.Use(httpMW.LimitBody(cfg.MaxBodyBytes))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MetricsEnabled && cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}
		protected.Use(httpMW.SpanAttributes())

		// Paths
		if cfg.PathHandler != nil {
			protected.POST("/paths", cfg.PathHandler.CreatePath)
			protected.GET("/paths", cfg.PathHandler.ListPaths)
			protected.GET("/paths/:id", cfg.PathHandler.GetPath)
			protected.DELETE("/paths/:id", cfg.PathHandler.DeletePath)
		}

		// Roadmap
		if cfg.RoadmapHandler != nil {
			protected.POST("/paths/:id/generate-roadmap", cfg.RoadmapHandler.GenerateRoadmap)
			protected.POST("/paths/:id/progress", cfg.RoadmapHandler.UpdateProgress)
		}
	}

	return r
}
