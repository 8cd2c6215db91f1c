package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/http/response"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type PathHandler struct {
	log   *logger.Logger
	paths services.PathService
}

func NewPathHandler(log *logger.Logger, paths services.PathService) *PathHandler {
	log = log.With("handler", "PathHandler")
	if err := RegisterValidators(); err != nil {
		log.Error("register validators failed", "error", err)
	}
	return &PathHandler{log: log, paths: paths}
}

type createPathRequest struct {
	Title        string      `json:"title" binding:"required,max=200"`
	Description  string      `json:"description" binding:"max=4000"`
	TargetSkills []string    `json:"target_skills" binding:"max=50,dive,max=100"`
	Difficulty   string      `json:"difficulty" binding:"omitempty,level"`
	CourseIDs    []uuid.UUID `json:"course_ids" binding:"max=100"`
}

// POST /api/paths
func (h *PathHandler) CreatePath(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req createPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, err := h.paths.Create(c.Request.Context(), userID, services.CreatePathInput{
		Title:        req.Title,
		Description:  req.Description,
		TargetSkills: req.TargetSkills,
		Difficulty:   strings.ToLower(strings.TrimSpace(req.Difficulty)),
		CourseIDs:    req.CourseIDs,
	})
	if err != nil {
		h.log.Error("CreatePath failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": view})
}

// GET /api/paths
func (h *PathHandler) ListPaths(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	views, err := h.paths.List(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("ListPaths failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"paths": views})
}

// GET /api/paths/:id
func (h *PathHandler) GetPath(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	view, err := h.paths.Get(c.Request.Context(), userID, pathID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"path": view})
}

// DELETE /api/paths/:id
func (h *PathHandler) DeletePath(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	if err := h.paths.Delete(c.Request.Context(), userID, pathID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
