package lectures

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmk-contents/backend/internal/apps"
	"github.com/jmk-contents/backend/internal/models"
	"github.com/jmk-contents/backend/pkg/response"
)

// CreateLectureRequest is the body for POST /admin/lectures.
type CreateLectureRequest struct {
	AppID           string `json:"app_id" binding:"required"`
	Category        string `json:"category"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	AudioURL        string `json:"audio_url" binding:"omitempty,url"`
	DurationSeconds int    `json:"duration_seconds" binding:"omitempty,min=0"`
	Transcript      string `json:"transcript"`
}

// UpdateLectureRequest is the body for PATCH /admin/lectures/:id.
type UpdateLectureRequest struct {
	Category        *string `json:"category"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	AudioURL        *string `json:"audio_url" binding:"omitempty,url"`
	DurationSeconds *int    `json:"duration_seconds" binding:"omitempty,min=0"`
	Transcript      *string `json:"transcript"`
}

// Handler handles lecture HTTP endpoints.
type Handler struct {
	repo    *Repository
	appRepo *apps.Repository
	logger  *zap.Logger
}

// NewHandler creates a lecture handler.
func NewHandler(repo *Repository, appRepo *apps.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, appRepo: appRepo, logger: logger}
}

// ListByApp handles GET /apps/:bundle_id/lectures. Supports ?category=.
func (h *Handler) ListByApp(c *gin.Context) {
	list, err := h.repo.ListByApp(c.Request.Context(), c.Param("bundle_id"), c.Query("category"))
	if err != nil {
		response.Internal(c, "failed to list lectures")
		return
	}
	response.OK(c, list)
}

// ListAll handles GET /admin/lectures.
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list lectures")
		return
	}
	response.OK(c, list)
}

// Create handles POST /admin/lectures.
func (h *Handler) Create(c *gin.Context) {
	var req CreateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	exists, err := h.appRepo.AppExists(c.Request.Context(), req.AppID)
	if err != nil {
		response.Internal(c, "failed to check app")
		return
	}
	if !exists {
		response.NotFound(c, "app not found")
		return
	}

	m := &models.Lecture{
		AppID:           req.AppID,
		Category:        req.Category,
		Title:           req.Title,
		Description:     req.Description,
		AudioURL:        req.AudioURL,
		DurationSeconds: req.DurationSeconds,
		Transcript:      req.Transcript,
	}
	if err := h.repo.Create(c.Request.Context(), m); err != nil {
		h.logger.Error("create lecture failed", zap.Error(err), zap.String("app_id", req.AppID))
		response.Internal(c, "failed to create lecture")
		return
	}
	response.Created(c, m)
}

// Update handles PATCH /admin/lectures/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lecture id")
		return
	}
	var req UpdateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "lecture not found")
		return
	}
	m, err := h.repo.Update(c.Request.Context(), id, req.Category, req.Title, req.Description, req.AudioURL, req.DurationSeconds, req.Transcript)
	if err != nil {
		response.Internal(c, "failed to update lecture")
		return
	}
	response.OK(c, m)
}

// Delete handles DELETE /admin/lectures/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lecture id")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "lecture not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete lecture")
		return
	}
	response.NoContent(c)
}
