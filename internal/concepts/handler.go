package concepts

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmk-contents/backend/internal/apps"
	"github.com/jmk-contents/backend/internal/models"
	"github.com/jmk-contents/backend/pkg/response"
)

// CreateConceptRequest is the body for POST /admin/concepts.
type CreateConceptRequest struct {
	AppID      string `json:"app_id" binding:"required"`
	Category   string `json:"category" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Importance int    `json:"importance" binding:"required,min=1,max=5"`
	Keywords   string `json:"keywords"`
	StudyNote  string `json:"study_note"`
}

// UpdateConceptRequest is the body for PATCH /admin/concepts/:id.
type UpdateConceptRequest struct {
	Category   *string `json:"category"`
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Importance *int    `json:"importance" binding:"omitempty,min=1,max=5"`
	Keywords   *string `json:"keywords"`
	StudyNote  *string `json:"study_note"`
}

// Handler handles concept HTTP endpoints.
type Handler struct {
	repo    *Repository
	appRepo *apps.Repository
	logger  *zap.Logger
}

// NewHandler creates a concept handler.
func NewHandler(repo *Repository, appRepo *apps.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, appRepo: appRepo, logger: logger}
}

// ListByApp handles GET /apps/:bundle_id/concepts. Supports ?category=.
func (h *Handler) ListByApp(c *gin.Context) {
	list, err := h.repo.ListByApp(c.Request.Context(), c.Param("bundle_id"), c.Query("category"))
	if err != nil {
		response.Internal(c, "failed to list concepts")
		return
	}
	response.OK(c, list)
}

// ListAll handles GET /admin/concepts.
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list concepts")
		return
	}
	response.OK(c, list)
}

// Create handles POST /admin/concepts. The parent app must exist; beyond
// that the relation stays a plain back-reference.
func (h *Handler) Create(c *gin.Context) {
	var req CreateConceptRequest
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

	m := &models.Concept{
		AppID:      req.AppID,
		Category:   req.Category,
		Title:      req.Title,
		Content:    req.Content,
		Importance: req.Importance,
		Keywords:   req.Keywords,
		StudyNote:  req.StudyNote,
	}
	if err := h.repo.Create(c.Request.Context(), m); err != nil {
		h.logger.Error("create concept failed", zap.Error(err), zap.String("app_id", req.AppID))
		response.Internal(c, "failed to create concept")
		return
	}
	response.Created(c, m)
}

// Update handles PATCH /admin/concepts/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid concept id")
		return
	}
	var req UpdateConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "concept not found")
		return
	}
	m, err := h.repo.Update(c.Request.Context(), id, req.Category, req.Title, req.Content, req.Importance, req.Keywords, req.StudyNote)
	if err != nil {
		response.Internal(c, "failed to update concept")
		return
	}
	response.OK(c, m)
}

// Delete handles DELETE /admin/concepts/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid concept id")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "concept not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete concept")
		return
	}
	response.NoContent(c)
}
