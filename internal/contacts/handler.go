package contacts

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmk-contents/backend/internal/models"
	"github.com/jmk-contents/backend/pkg/response"
)

// SubmitRequest is the body for the public POST /contact.
type SubmitRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// UpdateStatusRequest is the body for PATCH /admin/contacts/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress resolved"`
}

// Handler handles contact submission HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a contact handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Submit handles the public POST /contact.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m := &models.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.repo.Create(c.Request.Context(), m); err != nil {
		h.logger.Error("create contact submission failed", zap.Error(err))
		response.Internal(c, "failed to submit message")
		return
	}
	response.Created(c, m)
}

// List handles GET /admin/contacts. Supports ?status= filtering.
func (h *Handler) List(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.ValidContactStatus(status) {
		response.BadRequest(c, "invalid status filter")
		return
	}
	list, err := h.repo.List(c.Request.Context(), status)
	if err != nil {
		response.Internal(c, "failed to list contacts")
		return
	}
	response.OK(c, list)
}

// UpdateStatus handles PATCH /admin/contacts/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid contact id")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "contact not found")
		return
	}
	m, err := h.repo.UpdateStatus(c.Request.Context(), id, models.ContactStatus(req.Status))
	if err != nil {
		response.Internal(c, "failed to update status")
		return
	}
	response.OK(c, m)
}
