package ads

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmk-contents/backend/internal/models"
	"github.com/jmk-contents/backend/pkg/queue"
	"github.com/jmk-contents/backend/pkg/response"
	"github.com/jmk-contents/backend/pkg/storage"
)

// CreateAdRequest is the body for POST /admin/ads.
type CreateAdRequest struct {
	Type            string   `json:"type" binding:"required,oneof=banner interstitial"`
	Title           string   `json:"title" binding:"required"`
	ImageURL        string   `json:"imageUrl" binding:"required,url"`
	LinkURL         string   `json:"linkUrl" binding:"required,url"`
	IsActive        *bool    `json:"isActive"`
	Priority        int      `json:"priority" binding:"omitempty,min=1,max=100"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	AppIDs          []string `json:"appIds"`
	ExperimentGroup string   `json:"experimentGroup"`
}

// UpdateAdRequest is the body for PATCH /admin/ads/:id. Absent fields are untouched;
// empty strings on the date fields clear the corresponding window bound.
type UpdateAdRequest struct {
	Type            *string  `json:"type" binding:"omitempty,oneof=banner interstitial"`
	Title           *string  `json:"title"`
	ImageURL        *string  `json:"imageUrl" binding:"omitempty,url"`
	LinkURL         *string  `json:"linkUrl" binding:"omitempty,url"`
	IsActive        *bool    `json:"isActive"`
	Priority        *int     `json:"priority" binding:"omitempty,min=1,max=100"`
	StartDate       *string  `json:"startDate"`
	EndDate         *string  `json:"endDate"`
	AppIDs          []string `json:"appIds"`
	ExperimentGroup *string  `json:"experimentGroup"`
}

// Handler handles affiliate ad HTTP endpoints.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates an affiliate ad handler.
func NewHandler(repo *Repository, s3 *storage.S3, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, queue: q, logger: logger}
}

// List handles GET /admin/ads.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list ads")
		return
	}
	response.OK(c, list)
}

// Create handles POST /admin/ads.
func (h *Handler) Create(c *gin.Context) {
	var req CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		response.BadRequest(c, "invalid startDate (want RFC 3339)")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		response.BadRequest(c, "invalid endDate (want RFC 3339)")
		return
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		response.BadRequest(c, "endDate before startDate")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	priority := req.Priority
	if priority == 0 {
		priority = 1
	}

	a := &models.AffiliateAd{
		Type:            models.AdType(req.Type),
		Title:           req.Title,
		ImageURL:        req.ImageURL,
		LinkURL:         req.LinkURL,
		IsActive:        isActive,
		Priority:        priority,
		StartDate:       startDate,
		EndDate:         endDate,
		AppIDs:          req.AppIDs,
		ExperimentGroup: req.ExperimentGroup,
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		h.logger.Error("create ad failed", zap.Error(err))
		response.Internal(c, "failed to create ad")
		return
	}
	response.Created(c, a)
}

// Update handles PATCH /admin/ads/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ad id")
		return
	}
	var req UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "ad not found")
		return
	}

	p := UpdateParams{
		Title:           req.Title,
		ImageURL:        req.ImageURL,
		LinkURL:         req.LinkURL,
		IsActive:        req.IsActive,
		Priority:        req.Priority,
		AppIDs:          req.AppIDs,
		ExperimentGroup: req.ExperimentGroup,
	}
	if req.Type != nil {
		t := models.AdType(*req.Type)
		p.Type = &t
	}
	if req.StartDate != nil {
		if *req.StartDate == "" {
			p.ClearStartDate = true
		} else {
			d, err := parseDate(*req.StartDate)
			if err != nil {
				response.BadRequest(c, "invalid startDate (want RFC 3339)")
				return
			}
			p.StartDate = d
		}
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			p.ClearEndDate = true
		} else {
			d, err := parseDate(*req.EndDate)
			if err != nil {
				response.BadRequest(c, "invalid endDate (want RFC 3339)")
				return
			}
			p.EndDate = d
		}
	}

	a, err := h.repo.Update(c.Request.Context(), id, p)
	if err != nil {
		h.logger.Error("update ad failed", zap.Error(err), zap.String("ad_id", id.String()))
		response.Internal(c, "failed to update ad")
		return
	}
	response.OK(c, a)
}

// Toggle handles PATCH /admin/ads/:id/toggle.
func (h *Handler) Toggle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ad id")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "ad not found")
		return
	}
	active, err := h.repo.ToggleActive(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to toggle ad")
		return
	}
	response.OK(c, gin.H{"id": id, "isActive": active})
}

// Delete handles DELETE /admin/ads/:id. The stored creative is removed from
// the images bucket as well; an object that is already gone does not fail
// the delete.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ad id")
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "ad not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete ad")
		return
	}
	if h.s3 != nil {
		if key := h.s3.ImageKeyFromURL(a.ImageURL); key != "" {
			if err := h.s3.DeleteImage(c.Request.Context(), key); err != nil {
				h.logger.Warn("delete ad creative failed", zap.Error(err), zap.String("key", key))
			}
		}
	}
	response.NoContent(c)
}

// UploadImage handles POST /admin/ads/upload-image. Server-side upload to
// the public images bucket; returns the public URL for the imageUrl field.
func (h *Handler) UploadImage(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "image storage not configured")
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

	contentType := storage.ContentTypeForFilename(file.Filename)
	if ct := file.Header.Get("Content-Type"); ct != "" {
		if _, ok := storage.AllowedImageTypes[ct]; ok {
			contentType = ct
		}
	}

	key := storage.AdImageKey(uuid.New().String() + "-" + file.Filename)
	rc, err := file.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		response.Internal(c, "failed to read file")
		return
	}
	defer rc.Close()

	url, err := h.s3.Upload(c.Request.Context(), h.s3.ImagesBucket(), key, contentType, rc, file.Size, true)
	if err != nil {
		h.logger.Error("S3 upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to upload file to storage")
		return
	}
	response.OK(c, gin.H{
		"s3_key":       key,
		"image_url":    url,
		"content_type": contentType,
		"file_size":    file.Size,
	})
}

// GenerateUploadURLRequest is the body for POST /admin/ads/generate-upload-url.
type GenerateUploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
}

// GenerateUploadURL handles POST /admin/ads/generate-upload-url: pre-signed
// PUT URL for direct browser upload, avoiding the server-side copy.
func (h *Handler) GenerateUploadURL(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "image storage not configured")
		return
	}
	var req GenerateUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(req.Filename)
	}
	if !storage.ValidateImageFileType(contentType, req.Filename) {
		response.BadRequest(c, "invalid file type: only jpg, png, webp, gif allowed")
		return
	}

	key := storage.AdImageKey(uuid.New().String() + "-" + req.Filename)
	uploadURL, err := h.s3.GeneratePresignedUploadURL(c.Request.Context(), h.s3.ImagesBucket(), key, contentType, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to generate upload URL")
		return
	}
	response.OK(c, gin.H{
		"upload_url":   uploadURL,
		"s3_key":       key,
		"image_url":    h.s3.PublicObjectURL(h.s3.ImagesBucket(), key),
		"content_type": contentType,
		"expires_in":   int(h.s3.PresignExpire().Seconds()),
	})
}

// Experiments handles GET /admin/experiments: A/B standings for every
// experiment group.
func (h *Handler) Experiments(c *gin.Context) {
	all, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load ads")
		return
	}
	response.OK(c, ComputeStandings(all))
}

// ServeForApp handles GET /apps/:bundle_id/ads: active, in-window ads
// targeting the app, ranked by priority.
func (h *Handler) ServeForApp(c *gin.Context) {
	appID := c.Param("bundle_id")
	if appID == "" {
		response.BadRequest(c, "missing bundle id")
		return
	}
	all, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load ads")
		return
	}
	response.OK(c, ResolveForApp(all, appID, time.Now()))
}

// TrackImpression handles POST /ads/:id/impression. The increment is
// applied asynchronously by the tracking worker.
func (h *Handler) TrackImpression(c *gin.Context) {
	h.track(c, queue.JobTypeAdImpression)
}

// TrackClick handles POST /ads/:id/click.
func (h *Handler) TrackClick(c *gin.Context) {
	h.track(c, queue.JobTypeAdClick)
}

func (h *Handler) track(c *gin.Context, jobType queue.JobType) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ad id")
		return
	}
	payload := queue.AdTrackingPayload{AdID: id, AppID: c.Query("app_id")}
	if err := h.queue.EnqueueAdTracking(c.Request.Context(), jobType, payload); err != nil {
		h.logger.Warn("enqueue tracking failed", zap.Error(err), zap.String("ad_id", id.String()))
		response.Internal(c, "failed to record event")
		return
	}
	response.Accepted(c, gin.H{"id": id})
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
