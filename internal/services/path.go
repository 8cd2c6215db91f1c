package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/cache"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/roadmap"
)

type CreatePathInput struct {
	Title        string
	Description  string
	TargetSkills []string
	Difficulty   string
	CourseIDs    []uuid.UUID
}

// PathView is the rendered form of a path shared by the detail and list
// endpoints and stored in the view cache.
type PathView struct {
	ID                 uuid.UUID        `json:"id"`
	UserID             uuid.UUID        `json:"user_id"`
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	TargetSkills       []string         `json:"target_skills"`
	Difficulty         string           `json:"difficulty,omitempty"`
	Status             string           `json:"status"`
	GeneratedByAI      bool             `json:"generated_by_ai"`
	Version            int              `json:"version"`
	ProgressPercentage int              `json:"progress_percentage"`
	Roadmap            *roadmap.Roadmap `json:"roadmap,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type PathService interface {
	Create(ctx context.Context, userID uuid.UUID, in CreatePathInput) (*PathView, error)
	Get(ctx context.Context, userID, pathID uuid.UUID) (*PathView, error)
	List(ctx context.Context, userID uuid.UUID) ([]*PathView, error)
	Delete(ctx context.Context, userID, pathID uuid.UUID) error
}

type pathService struct {
	db       *gorm.DB
	log      *logger.Logger
	paths    repos.PathRepo
	progress repos.UserProgressRepo
	cache    cache.ViewCache
	group    singleflight.Group
}

func NewPathService(db *gorm.DB, log *logger.Logger, paths repos.PathRepo, progress repos.UserProgressRepo, viewCache cache.ViewCache) PathService {
	if viewCache == nil {
		viewCache = cache.Noop{}
	}
	return &pathService{
		db:       db,
		log:      log.With("service", "PathService"),
		paths:    paths,
		progress: progress,
		cache:    viewCache,
	}
}

// Create stores a path with an empty roadmap and one projection row per
// course, in a single transaction.
func (s *pathService) Create(ctx context.Context, userID uuid.UUID, in CreatePathInput) (*PathView, error) {
	if userID == uuid.Nil {
		return nil, apierr.ErrUnauthenticated
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apierr.ErrBadRequest)
	}

	doc, err := roadmap.ParseDocument(nil)
	if err != nil {
		return nil, err
	}
	if err := doc.SetRoadmap(roadmap.Empty()); err != nil {
		return nil, fmt.Errorf("encode roadmap: %w", err)
	}
	doc.SetDifficulty(strings.TrimSpace(in.Difficulty))
	pathData, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode path document: %w", err)
	}
	skills, err := json.Marshal(cleanSkills(in.TargetSkills))
	if err != nil {
		return nil, fmt.Errorf("encode target skills: %w", err)
	}

	path := &types.LearningPath{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		TargetSkills: datatypes.JSON(skills),
		Status:       types.PathStatusActive,
		PathData:     datatypes.JSON(pathData),
		Version:      1,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.paths.Create(dbc, []*types.LearningPath{path}); err != nil {
			return fmt.Errorf("create path: %w", err)
		}
		if len(in.CourseIDs) == 0 {
			return nil
		}
		rows := make([]*types.UserProgress, 0, len(in.CourseIDs))
		seen := map[uuid.UUID]bool{}
		for _, id := range in.CourseIDs {
			if id == uuid.Nil || seen[id] {
				continue
			}
			seen[id] = true
			courseID := id
			rows = append(rows, &types.UserProgress{
				UserID:         userID,
				LearningPathID: path.ID,
				CourseID:       &courseID,
				Status:         types.ProgressNotStarted,
			})
		}
		if _, err := s.progress.Create(dbc, rows); err != nil {
			return fmt.Errorf("create progress rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.PathListKey(userID.String()))
	return renderPath(path, true)
}

func (s *pathService) Get(ctx context.Context, userID, pathID uuid.UUID) (*PathView, error) {
	if userID == uuid.Nil {
		return nil, apierr.ErrUnauthenticated
	}
	key := cache.PathDetailKey(pathID.String())

	if view, ok := s.cachedDetail(ctx, key); ok {
		if view.UserID != userID {
			return nil, apierr.ErrNotFoundOrForbidden
		}
		return view, nil
	}

	v, err, _ := s.group.Do(userID.String()+":"+key, func() (interface{}, error) {
		path, err := s.paths.GetOwned(dbctx.New(ctx), pathID, userID)
		if err != nil {
			return nil, fmt.Errorf("load path: %w", err)
		}
		if path == nil {
			return nil, apierr.ErrNotFoundOrForbidden
		}
		view, err := renderPath(path, true)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, view)
		return view, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*PathView), nil
}

func (s *pathService) List(ctx context.Context, userID uuid.UUID) ([]*PathView, error) {
	if userID == uuid.Nil {
		return nil, apierr.ErrUnauthenticated
	}
	key := cache.PathListKey(userID.String())

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var views []*PathView
		if err := json.Unmarshal(raw, &views); err == nil {
			return views, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("view cache read failed", "key", key, "error", err)
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		rows, err := s.paths.ListByUser(dbctx.New(ctx), userID)
		if err != nil {
			return nil, fmt.Errorf("list paths: %w", err)
		}
		views := make([]*PathView, 0, len(rows))
		for _, row := range rows {
			view, err := renderPath(row, false)
			if err != nil {
				return nil, err
			}
			views = append(views, view)
		}
		s.store(ctx, key, views)
		return views, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*PathView), nil
}

func (s *pathService) Delete(ctx context.Context, userID, pathID uuid.UUID) error {
	if userID == uuid.Nil {
		return apierr.ErrUnauthenticated
	}
	ok, err := s.paths.SoftDelete(dbctx.New(ctx), pathID, userID)
	if err != nil {
		return fmt.Errorf("delete path: %w", err)
	}
	if !ok {
		return apierr.ErrNotFoundOrForbidden
	}
	s.invalidate(ctx, cache.PathKeys(userID.String(), pathID.String())...)
	return nil
}

func (s *pathService) cachedDetail(ctx context.Context, key string) (*PathView, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("view cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var view PathView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, false
	}
	return &view, true
}

func (s *pathService) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.log.Warn("view cache write failed", "key", key, "error", err)
	}
}

func (s *pathService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("view cache invalidation failed", "error", err)
	}
}

// renderPath decodes the stored document. withRoadmap controls whether the
// full roadmap is embedded; the percentage is always included.
func renderPath(p *types.LearningPath, withRoadmap bool) (*PathView, error) {
	doc, err := roadmap.ParseDocument(p.PathData)
	if err != nil {
		return nil, fmt.Errorf("path %s: %w", p.ID, err)
	}
	r, err := doc.Roadmap()
	if err != nil {
		return nil, fmt.Errorf("path %s: %w", p.ID, err)
	}
	skills := decodeSkills(p.TargetSkills)
	if skills == nil {
		skills = []string{}
	}
	view := &PathView{
		ID:                 p.ID,
		UserID:             p.UserID,
		Title:              p.Title,
		Description:        p.Description,
		TargetSkills:       skills,
		Difficulty:         doc.Difficulty(),
		Status:             p.Status,
		GeneratedByAI:      p.GeneratedByAI,
		Version:            p.Version,
		ProgressPercentage: roadmap.Percent(r),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if withRoadmap {
		view.Roadmap = &r
	}
	return view, nil
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
