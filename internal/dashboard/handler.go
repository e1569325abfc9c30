package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/jmk-contents/backend/internal/ads"
	"github.com/jmk-contents/backend/internal/apps"
	"github.com/jmk-contents/backend/internal/concepts"
	"github.com/jmk-contents/backend/internal/contacts"
	"github.com/jmk-contents/backend/internal/lectures"
	"github.com/jmk-contents/backend/pkg/response"
)

// SummaryResponse is the JSON shape for the admin dashboard overview.
type SummaryResponse struct {
	Apps            int `json:"apps"`
	Concepts        int `json:"concepts"`
	Lectures        int `json:"lectures"`
	AffiliateAds    int `json:"affiliate_ads"`
	PendingContacts int `json:"pending_contacts"`
}

// Handler handles GET /admin/summary.
type Handler struct {
	appRepo     *apps.Repository
	conceptRepo *concepts.Repository
	lectureRepo *lectures.Repository
	adRepo      *ads.Repository
	contactRepo *contacts.Repository
}

// NewHandler creates a dashboard handler.
func NewHandler(
	appRepo *apps.Repository,
	conceptRepo *concepts.Repository,
	lectureRepo *lectures.Repository,
	adRepo *ads.Repository,
	contactRepo *contacts.Repository,
) *Handler {
	return &Handler{
		appRepo:     appRepo,
		conceptRepo: conceptRepo,
		lectureRepo: lectureRepo,
		adRepo:      adRepo,
		contactRepo: contactRepo,
	}
}

// Summary handles GET /admin/summary.
func (h *Handler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	appCount, err := h.appRepo.Count(ctx)
	if err != nil {
		response.Internal(c, "failed to load app count")
		return
	}
	conceptCount, err := h.conceptRepo.Count(ctx)
	if err != nil {
		response.Internal(c, "failed to load concept count")
		return
	}
	lectureCount, err := h.lectureRepo.Count(ctx)
	if err != nil {
		response.Internal(c, "failed to load lecture count")
		return
	}
	adCount, err := h.adRepo.Count(ctx)
	if err != nil {
		response.Internal(c, "failed to load ad count")
		return
	}
	pending, err := h.contactRepo.CountPending(ctx)
	if err != nil {
		response.Internal(c, "failed to load pending contacts")
		return
	}

	response.OK(c, SummaryResponse{
		Apps:            appCount,
		Concepts:        conceptCount,
		Lectures:        lectureCount,
		AffiliateAds:    adCount,
		PendingContacts: pending,
	})
}
