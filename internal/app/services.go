package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/roadmap"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Path       services.PathService
	Generation services.RoadmapGenerationService
	Progress   services.RoadmapProgressService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet repos.Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	enricher := roadmap.NewEnricher(roadmap.Default())
	return Services{
		Auth:       services.NewAuthService(log, cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTTL),
		Path:       services.NewPathService(db, log, reposet.Path, reposet.UserProgress, clients.ViewCache),
		Generation: services.NewRoadmapGenerationService(log, reposet.Path, clients.TextGen, enricher, clients.ViewCache, metrics),
		Progress:   services.NewRoadmapProgressService(log, reposet.Path, reposet.UserProgress, clients.ViewCache, metrics),
	}
}
