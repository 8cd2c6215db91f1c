package app

import (
	"github.com/yungbote/learnpath-backend/internal/http"
	httpH "github.com/yungbote/learnpath-backend/internal/http/handlers"
	httpMW "github.com/yungbote/learnpath-backend/internal/http/middleware"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Path    *httpH.PathHandler
	Roadmap *httpH.RoadmapHandler
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Path:   httpH.NewPathHandler(log, services.Path),
		Roadmap: httpH.NewRoadmapHandler(httpH.RoadmapHandlerDeps{
			Log:        log,
			Generation: services.Generation,
			Progress:   services.Progress,
		}),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		AuthMiddleware: middleware.Auth,
		PathHandler:    handlers.Path,
		RoadmapHandler: handlers.Roadmap,
		HealthHandler:  handlers.Health,
		Log:            log,
		Metrics:        metrics,
		MetricsEnabled: cfg.Telemetry.MetricsEnabled,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		ServiceName:    cfg.App.Name,
		TracingEnabled: cfg.Telemetry.OtelEnabled,
	})
}
