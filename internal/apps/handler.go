package apps

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmk-contents/backend/internal/models"
	"github.com/jmk-contents/backend/pkg/response"
	"github.com/jmk-contents/backend/pkg/storage"
)

// CreateAppRequest is the body for POST /admin/apps.
type CreateAppRequest struct {
	BundleID        string   `json:"bundle_id" binding:"required"`
	AppName         string   `json:"app_name" binding:"required"`
	AppNameFull     string   `json:"app_name_full"`
	Description     string   `json:"description"`
	DescriptionFull string   `json:"description_full"`
	Categories      []string `json:"categories"`
	Status          string   `json:"status" binding:"omitempty,oneof=draft published archived"`
	IconURL         string   `json:"icon_url"`
	AppStoreURL     string   `json:"app_store_url"`
	Rating          float64  `json:"rating" binding:"omitempty,min=0,max=5"`
	ReviewCount     int      `json:"review_count" binding:"omitempty,min=0"`
	DownloadCount   int      `json:"download_count" binding:"omitempty,min=0"`
	IsFeatured      bool     `json:"is_featured"`
}

// UpdateAppRequest is the body for PATCH /admin/apps/:bundle_id. The bundle
// ID itself cannot be changed.
type UpdateAppRequest struct {
	AppName         *string  `json:"app_name"`
	AppNameFull     *string  `json:"app_name_full"`
	Description     *string  `json:"description"`
	DescriptionFull *string  `json:"description_full"`
	Categories      []string `json:"categories"`
	Status          *string  `json:"status" binding:"omitempty,oneof=draft published archived"`
	IconURL         *string  `json:"icon_url"`
	AppStoreURL     *string  `json:"app_store_url"`
	Rating          *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	ReviewCount     *int     `json:"review_count" binding:"omitempty,min=0"`
	DownloadCount   *int     `json:"download_count" binding:"omitempty,min=0"`
	IsFeatured      *bool    `json:"is_featured"`
}

// Handler handles app HTTP endpoints.
type Handler struct {
	repo    *Repository
	cascade *CascadeDeleter
	s3      *storage.S3
	logger  *zap.Logger
}

// NewHandler creates an app handler.
func NewHandler(repo *Repository, cascade *CascadeDeleter, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, cascade: cascade, s3: s3, logger: logger}
}

// ListPublished handles GET /apps. Supports ?category= filtering.
func (h *Handler) ListPublished(c *gin.Context) {
	list, err := h.repo.ListPublished(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Internal(c, "failed to list apps")
		return
	}
	response.OK(c, list)
}

// ListFeatured handles GET /apps/featured: top 3 by rating then downloads.
func (h *Handler) ListFeatured(c *gin.Context) {
	list, err := h.repo.ListFeatured(c.Request.Context(), 3)
	if err != nil {
		response.Internal(c, "failed to list featured apps")
		return
	}
	response.OK(c, list)
}

// GetByBundleID handles GET /apps/:bundle_id (published only).
func (h *Handler) GetByBundleID(c *gin.Context) {
	a, err := h.repo.GetPublished(c.Request.Context(), c.Param("bundle_id"))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "app not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to load app")
		return
	}
	response.OK(c, a)
}

// TrackDownload handles POST /apps/:bundle_id/download.
func (h *Handler) TrackDownload(c *gin.Context) {
	err := h.repo.IncrementDownloadCount(c.Request.Context(), c.Param("bundle_id"))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "app not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to record download")
		return
	}
	response.NoContent(c)
}

// ListAll handles GET /admin/apps (all statuses).
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list apps")
		return
	}
	response.OK(c, list)
}

// Create handles POST /admin/apps. Duplicate bundle IDs are rejected.
func (h *Handler) Create(c *gin.Context) {
	var req CreateAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	exists, err := h.repo.AppExists(c.Request.Context(), req.BundleID)
	if err != nil {
		response.Internal(c, "failed to check bundle id")
		return
	}
	if exists {
		response.Conflict(c, "bundle_id already exists")
		return
	}

	status := models.AppStatus(req.Status)
	if status == "" {
		status = models.AppStatusDraft
	}
	a := &models.App{
		BundleID:        req.BundleID,
		AppName:         req.AppName,
		AppNameFull:     req.AppNameFull,
		Description:     req.Description,
		DescriptionFull: req.DescriptionFull,
		Categories:      req.Categories,
		Status:          status,
		IconURL:         req.IconURL,
		AppStoreURL:     req.AppStoreURL,
		Rating:          req.Rating,
		ReviewCount:     req.ReviewCount,
		DownloadCount:   req.DownloadCount,
		IsFeatured:      req.IsFeatured,
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		h.logger.Error("create app failed", zap.Error(err), zap.String("bundle_id", req.BundleID))
		response.Internal(c, "failed to create app")
		return
	}
	response.Created(c, a)
}

// Update handles PATCH /admin/apps/:bundle_id.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := UpdateParams{
		AppName:         req.AppName,
		AppNameFull:     req.AppNameFull,
		Description:     req.Description,
		DescriptionFull: req.DescriptionFull,
		Categories:      req.Categories,
		IconURL:         req.IconURL,
		AppStoreURL:     req.AppStoreURL,
		Rating:          req.Rating,
		ReviewCount:     req.ReviewCount,
		DownloadCount:   req.DownloadCount,
		IsFeatured:      req.IsFeatured,
	}
	if req.Status != nil {
		s := models.AppStatus(*req.Status)
		p.Status = &s
	}
	a, err := h.repo.Update(c.Request.Context(), c.Param("bundle_id"), p)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "app not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to update app")
		return
	}
	response.OK(c, a)
}

// UploadIcon handles POST /admin/apps/:bundle_id/upload-icon: server-side
// upload of the app icon to the public images bucket. The icon_url field is
// updated in the same request.
func (h *Handler) UploadIcon(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "image storage not configured")
		return
	}
	bundleID := c.Param("bundle_id")
	exists, err := h.repo.AppExists(c.Request.Context(), bundleID)
	if err != nil {
		response.Internal(c, "failed to check app")
		return
	}
	if !exists {
		response.NotFound(c, "app not found")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file (form field: file)")
		return
	}
	if file.Size > storage.MaxImageFileSize {
		response.BadRequest(c, "file size exceeds 5MB limit")
		return
	}
	if !storage.ValidateImageFileType(file.Header.Get("Content-Type"), file.Filename) {
		response.BadRequest(c, "invalid file type: only jpg, png, webp, gif allowed")
		return
	}

	key := storage.AppIconKey(bundleID, uuid.New().String()+"-"+file.Filename)
	rc, err := file.Open()
	if err != nil {
		response.Internal(c, "failed to read file")
		return
	}
	defer rc.Close()

	url, err := h.s3.Upload(c.Request.Context(), h.s3.ImagesBucket(), key, storage.ContentTypeForFilename(file.Filename), rc, file.Size, true)
	if err != nil {
		h.logger.Error("icon upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to upload icon")
		return
	}

	a, err := h.repo.Update(c.Request.Context(), bundleID, UpdateParams{IconURL: &url})
	if err != nil {
		response.Internal(c, "failed to save icon url")
		return
	}
	response.OK(c, a)
}

// Delete handles DELETE /admin/apps/:bundle_id: cascade deletes the app and
// all its concepts/lectures, returning the dependent count removed. A
// failure mid-cascade reports the partial count; the operator re-invokes
// to finish.
func (h *Handler) Delete(c *gin.Context) {
	bundleID := c.Param("bundle_id")
	deleted, err := h.cascade.Delete(c.Request.Context(), bundleID)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "app not found")
		return
	}
	var partial *PartialDeleteError
	if errors.As(err, &partial) {
		h.logger.Error("cascade delete partial failure", zap.Error(err), zap.String("bundle_id", bundleID))
		c.JSON(http.StatusInternalServerError, response.Body{
			Success: false,
			Data:    gin.H{"deleted_dependents": partial.Deleted},
			Error:   "cascade delete incomplete; re-run to finish",
		})
		return
	}
	if err != nil {
		response.Internal(c, "failed to delete app")
		return
	}
	response.OK(c, gin.H{"bundle_id": bundleID, "deleted_dependents": deleted})
}
