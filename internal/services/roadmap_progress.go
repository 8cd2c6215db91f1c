package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/cache"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/roadmap"
)

type ProgressResult struct {
	Roadmap roadmap.Roadmap
	Percent int
	Version int
}

type RoadmapProgressService interface {
	Apply(ctx context.Context, userID, pathID uuid.UUID, m roadmap.Mutation) (*ProgressResult, error)
}

type roadmapProgressService struct {
	log      *logger.Logger
	paths    repos.PathRepo
	progress repos.UserProgressRepo
	cache    cache.ViewCache
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

func NewRoadmapProgressService(
	log *logger.Logger,
	paths repos.PathRepo,
	progress repos.UserProgressRepo,
	viewCache cache.ViewCache,
	metrics *observability.Metrics,
) RoadmapProgressService {
	if viewCache == nil {
		viewCache = cache.Noop{}
	}
	return &roadmapProgressService{
		log:      log.With("service", "RoadmapProgressService"),
		paths:    paths,
		progress: progress,
		cache:    viewCache,
		metrics:  metrics,
		tracer:   observability.Tracer(),
	}
}

func (s *roadmapProgressService) Apply(ctx context.Context, userID, pathID uuid.UUID, m roadmap.Mutation) (*ProgressResult, error) {
	if userID == uuid.Nil {
		return nil, apierr.ErrUnauthenticated
	}
	ctx, span := s.tracer.Start(ctx, "roadmap.progress", trace.WithAttributes(
		attribute.String("path.id", pathID.String()),
		attribute.Int("roadmap.week_index", m.WeekIndex),
		attribute.Bool("roadmap.complete_week", m.CompleteWeek),
	))
	defer span.End()

	res, err := s.apply(ctx, userID, pathID, m)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("roadmap.percent", res.Percent))
	}
	s.metrics.ObserveProgressMutation(outcome)
	return res, err
}

func (s *roadmapProgressService) apply(ctx context.Context, userID, pathID uuid.UUID, m roadmap.Mutation) (*ProgressResult, error) {
	if err := m.Validate(); err != nil {
		return nil, mutationError(err)
	}
	dbc := dbctx.New(ctx)
	log := s.log.With("path_id", pathID.String(), "user_id", userID.String())

	for attempt := 1; ; attempt++ {
		path, doc, err := loadOwnedDocument(dbc, s.paths, pathID, userID)
		if err != nil {
			return nil, err
		}
		current, err := doc.Roadmap()
		if err != nil {
			return nil, fmt.Errorf("decode roadmap: %w", err)
		}
		// Apply never touches current, so a rejected mutation writes nothing.
		updated, err := roadmap.Apply(current, m)
		if err != nil {
			return nil, mutationError(err)
		}
		if err := doc.SetRoadmap(updated); err != nil {
			return nil, fmt.Errorf("encode roadmap: %w", err)
		}
		raw, err := doc.Bytes()
		if err != nil {
			return nil, fmt.Errorf("encode path document: %w", err)
		}

		version, err := s.paths.UpdatePathData(dbc, path.ID, path.Version, raw, nil)
		if errors.Is(err, apierr.ErrVersionConflict) {
			s.metrics.ObserveVersionConflict("progress")
			if attempt >= maxWriteAttempts {
				return nil, fmt.Errorf("persist progress after %d attempts: %w", attempt, err)
			}
			log.Info("progress write conflicted, re-applying", "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("persist progress: %w", err)
		}

		percent := roadmap.Percent(updated)
		s.raiseProjection(dbc, log, userID, pathID, percent)
		if err := s.cache.Invalidate(ctx, cache.PathKeys(userID.String(), pathID.String())...); err != nil {
			log.Warn("view cache invalidation failed", "error", err)
		}
		return &ProgressResult{Roadmap: updated, Percent: percent, Version: version}, nil
	}
}

// raiseProjection is best-effort. The roadmap is authoritative and the
// projection rows only ever move up, so a lost raise is repaired by the next
// mutation.
func (s *roadmapProgressService) raiseProjection(dbc dbctx.Context, log *logger.Logger, userID, pathID uuid.UUID, percent int) {
	if s.progress == nil {
		return
	}
	n, err := s.progress.RaiseForPath(dbc, userID, pathID, percent)
	if err != nil {
		log.Warn("progress projection raise failed", "percent", percent, "error", err)
		return
	}
	s.metrics.AddProjectionRaised(n)
}

func mutationError(err error) error {
	switch {
	case errors.Is(err, roadmap.ErrWeekOutOfRange):
		return apierr.New(http.StatusNotFound, "week_not_found", err)
	case errors.Is(err, roadmap.ErrResourceOutOfRange):
		return apierr.New(http.StatusNotFound, "resource_not_found", err)
	default:
		return apierr.New(http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", apierr.ErrBadRequest, err))
	}
}
