package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/http/response"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/roadmap"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type RoadmapHandler struct {
	log        *logger.Logger
	generation services.RoadmapGenerationService
	progress   services.RoadmapProgressService
}

type RoadmapHandlerDeps struct {
	Log        *logger.Logger
	Generation services.RoadmapGenerationService
	Progress   services.RoadmapProgressService
}

func NewRoadmapHandler(deps RoadmapHandlerDeps) *RoadmapHandler {
	return &RoadmapHandler{
		log:        deps.Log.With("handler", "RoadmapHandler"),
		generation: deps.Generation,
		progress:   deps.Progress,
	}
}

type generateRoadmapRequest struct {
	Topic string `json:"topic" binding:"max=200"`
}

type roadmapResponse struct {
	Roadmap  roadmap.Roadmap `json:"roadmap"`
	Progress int             `json:"progress_percentage"`
	Version  int             `json:"version"`
}

// POST /api/paths/:id/generate-roadmap
func (h *RoadmapHandler) GenerateRoadmap(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	// The body is optional.
	var req generateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	res, err := h.generation.Generate(c.Request.Context(), userID, pathID, req.Topic)
	if err != nil {
		h.log.Error("GenerateRoadmap failed", "error", err, "path_id", pathID, "user_id", userID)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, roadmapResponse{Roadmap: res.Roadmap, Progress: res.Percent, Version: res.Version})
}

type progressRequest struct {
	WeekIndex     *int  `json:"weekIndex" binding:"required,min=0"`
	ResourceIndex *int  `json:"resourceIndex" binding:"omitempty,min=0"`
	Completed     *bool `json:"completed"`
	CompleteWeek  *bool `json:"completeWeek"`
}

// POST /api/paths/:id/progress
func (h *RoadmapHandler) UpdateProgress(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	m := roadmap.Mutation{
		WeekIndex:     *req.WeekIndex,
		ResourceIndex: req.ResourceIndex,
		Completed:     req.Completed != nil && *req.Completed,
		CompleteWeek:  req.CompleteWeek != nil && *req.CompleteWeek,
	}
	res, err := h.progress.Apply(c.Request.Context(), userID, pathID, m)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, roadmapResponse{Roadmap: res.Roadmap, Progress: res.Percent, Version: res.Version})
}
