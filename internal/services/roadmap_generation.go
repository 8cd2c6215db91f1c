package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/cache"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/platform/textgen"
	"github.com/yungbote/learnpath-backend/internal/roadmap"
)

// GenerationState is the lifecycle of a single generation request.
type GenerationState string

const (
	GenerationIdle      GenerationState = "idle"
	GenerationRequested GenerationState = "requested"
	GenerationParsing   GenerationState = "parsing"
	GenerationEnriching GenerationState = "enriching"
	GenerationPersisted GenerationState = "persisted"
	GenerationFailed    GenerationState = "failed"
)

// maxWriteAttempts bounds re-reads after a version conflict.
const maxWriteAttempts = 3

type GenerationResult struct {
	Roadmap roadmap.Roadmap
	Percent int
	Stage   roadmap.ParseStage
	Version int
}

type RoadmapGenerationService interface {
	// Generate replaces the path's roadmap with a freshly generated one. An
	// empty topicOverride falls back to the path title.
	Generate(ctx context.Context, userID, pathID uuid.UUID, topicOverride string) (*GenerationResult, error)
}

type roadmapGenerationService struct {
	log      *logger.Logger
	paths    repos.PathRepo
	gen      textgen.Generator
	enricher *roadmap.Enricher
	cache    cache.ViewCache
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

func NewRoadmapGenerationService(
	log *logger.Logger,
	paths repos.PathRepo,
	gen textgen.Generator,
	enricher *roadmap.Enricher,
	viewCache cache.ViewCache,
	metrics *observability.Metrics,
) RoadmapGenerationService {
	if enricher == nil {
		enricher = roadmap.NewEnricher(roadmap.Default())
	}
	if viewCache == nil {
		viewCache = cache.Noop{}
	}
	return &roadmapGenerationService{
		log:      log.With("service", "RoadmapGenerationService"),
		paths:    paths,
		gen:      gen,
		enricher: enricher,
		cache:    viewCache,
		metrics:  metrics,
		tracer:   observability.Tracer(),
	}
}

// generation tracks one request through its states and mirrors each
// transition to the span and the log.
type generation struct {
	state GenerationState
	span  trace.Span
	log   *logger.Logger
}

func (g *generation) to(state GenerationState, kv ...interface{}) {
	g.state = state
	g.span.AddEvent(string(state))
	g.log.Debug("roadmap generation state", append([]interface{}{"state", string(state)}, kv...)...)
}

func (s *roadmapGenerationService) Generate(ctx context.Context, userID, pathID uuid.UUID, topicOverride string) (*GenerationResult, error) {
	if userID == uuid.Nil {
		return nil, apierr.ErrUnauthenticated
	}
	ctx, span := s.tracer.Start(ctx, "roadmap.generate", trace.WithAttributes(
		attribute.String("path.id", pathID.String()),
	))
	defer span.End()

	g := &generation{
		state: GenerationIdle,
		span:  span,
		log:   s.log.With("path_id", pathID.String(), "user_id", userID.String()),
	}
	res, err := s.generate(ctx, g, userID, pathID, topicOverride)
	if err != nil {
		g.to(GenerationFailed, "error", err.Error())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.metrics.ObserveGeneration(string(g.state))
	return res, err
}

func (s *roadmapGenerationService) generate(ctx context.Context, g *generation, userID, pathID uuid.UUID, topicOverride string) (*GenerationResult, error) {
	dbc := dbctx.New(ctx)

	path, doc, err := loadOwnedDocument(dbc, s.paths, pathID, userID)
	if err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(topicOverride)
	if topic == "" {
		topic = strings.TrimSpace(path.Title)
	}
	prompt := roadmap.BuildPrompt(roadmap.PromptInput{
		Topic:  topic,
		Level:  doc.Difficulty(),
		Skills: decodeSkills(path.TargetSkills),
	})

	g.to(GenerationRequested, "topic", topic)
	text, err := s.gen.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apierr.ErrGenerationFailed, err)
	}

	g.to(GenerationParsing)
	raw, stage := roadmap.Parse(text)
	s.metrics.ObserveParseStage(string(stage))
	g.span.SetAttributes(attribute.String("roadmap.parse_stage", string(stage)))
	if stage.Degraded() {
		g.log.Warn("roadmap output degraded", "stage", string(stage), "response_bytes", len(text))
	}

	g.to(GenerationEnriching)
	enriched := s.enricher.Enrich(raw, topic)

	version, err := s.persist(dbc, g, path, doc, enriched)
	if err != nil {
		return nil, err
	}
	g.to(GenerationPersisted, "weeks", len(enriched.Weeks), "version", version)

	if err := s.cache.Invalidate(ctx, cache.PathKeys(userID.String(), pathID.String())...); err != nil {
		g.log.Warn("view cache invalidation failed", "error", err)
	}

	return &GenerationResult{
		Roadmap: enriched,
		Percent: roadmap.Percent(enriched),
		Stage:   stage,
		Version: version,
	}, nil
}

// persist merges r under the roadmap key. On a version conflict it re-reads
// the document and merges the same roadmap again, so sibling keys written
// concurrently survive and the model is never called twice.
func (s *roadmapGenerationService) persist(dbc dbctx.Context, g *generation, path *types.LearningPath, doc *roadmap.Document, r roadmap.Roadmap) (int, error) {
	for attempt := 1; ; attempt++ {
		if err := doc.SetRoadmap(r); err != nil {
			return 0, fmt.Errorf("encode roadmap: %w", err)
		}
		raw, err := doc.Bytes()
		if err != nil {
			return 0, fmt.Errorf("encode path document: %w", err)
		}
		version, err := s.paths.UpdatePathData(dbc, path.ID, path.Version, raw, map[string]interface{}{
			"generated_by_ai": true,
		})
		if err == nil {
			return version, nil
		}
		if !errors.Is(err, apierr.ErrVersionConflict) {
			return 0, fmt.Errorf("persist roadmap: %w", err)
		}
		s.metrics.ObserveVersionConflict("generate")
		if attempt >= maxWriteAttempts {
			return 0, fmt.Errorf("persist roadmap after %d attempts: %w", attempt, err)
		}
		g.log.Info("roadmap write conflicted, re-reading", "attempt", attempt)
		path, doc, err = loadOwnedDocument(dbc, s.paths, path.ID, path.UserID)
		if err != nil {
			return 0, err
		}
	}
}

// loadOwnedDocument loads the path only when userID owns it. A missing path
// and a foreign path are indistinguishable to the caller.
func loadOwnedDocument(dbc dbctx.Context, paths repos.PathRepo, pathID, userID uuid.UUID) (*types.LearningPath, *roadmap.Document, error) {
	path, err := paths.GetOwned(dbc, pathID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load path: %w", err)
	}
	if path == nil {
		return nil, nil, apierr.ErrNotFoundOrForbidden
	}
	doc, err := roadmap.ParseDocument(path.PathData)
	if err != nil {
		return nil, nil, fmt.Errorf("load path %s: %w", path.ID, err)
	}
	return path, doc, nil
}

func decodeSkills(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var skills []string
	if err := json.Unmarshal(raw, &skills); err != nil {
		return nil
	}
	out := skills[:0]
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
