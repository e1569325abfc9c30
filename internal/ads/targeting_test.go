package ads

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jmk-contents/backend/internal/models"
)

func testAd(mod func(*models.AffiliateAd)) models.AffiliateAd {
	ad := models.AffiliateAd{
		ID:       uuid.New(),
		Type:     models.AdTypeBanner,
		Title:    "test ad",
		IsActive: true,
		Priority: 50,
		AppIDs:   []string{models.TargetAll},
	}
	if mod != nil {
		mod(&ad)
	}
	return ad
}

func TestEligible(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	tests := []struct {
		name  string
		mod   func(*models.AffiliateAd)
		appID string
		want  bool
	}{
		{"active targeting all", nil, "com.example.math", true},
		{"inactive", func(a *models.AffiliateAd) { a.IsActive = false }, "com.example.math", false},
		{"window open", func(a *models.AffiliateAd) { a.StartDate = &before; a.EndDate = &after }, "com.example.math", true},
		{"not yet started", func(a *models.AffiliateAd) { a.StartDate = &after }, "com.example.math", false},
		{"already ended", func(a *models.AffiliateAd) { a.EndDate = &before }, "com.example.math", false},
		{"start boundary inclusive", func(a *models.AffiliateAd) { a.StartDate = &now }, "com.example.math", true},
		{"end boundary inclusive", func(a *models.AffiliateAd) { a.EndDate = &now }, "com.example.math", true},
		{"targeted app matches", func(a *models.AffiliateAd) { a.AppIDs = []string{"com.example.math"} }, "com.example.math", true},
		{"targeted app mismatch", func(a *models.AffiliateAd) { a.AppIDs = []string{"com.example.math"} }, "com.example.physics", false},
		{"all sentinel among specific ids", func(a *models.AffiliateAd) { a.AppIDs = []string{"com.example.math", "all"} }, "com.example.physics", true},
		{"empty app ids targets all", func(a *models.AffiliateAd) { a.AppIDs = nil }, "com.example.physics", true},
		{"inactive beats matching target", func(a *models.AffiliateAd) {
			a.IsActive = false
			a.AppIDs = []string{"com.example.math"}
		}, "com.example.math", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ad := testAd(tt.mod)
			if got := Eligible(&ad, tt.appID, now); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveForApp(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("orders by priority desc then created_at desc", func(t *testing.T) {
		older := testAd(func(a *models.AffiliateAd) {
			a.Title = "older high"
			a.Priority = 90
			a.CreatedAt = now.Add(-48 * time.Hour)
		})
		newer := testAd(func(a *models.AffiliateAd) {
			a.Title = "newer high"
			a.Priority = 90
			a.CreatedAt = now.Add(-1 * time.Hour)
		})
		low := testAd(func(a *models.AffiliateAd) {
			a.Title = "low"
			a.Priority = 10
			a.CreatedAt = now
		})

		got := ResolveForApp([]models.AffiliateAd{low, older, newer}, "com.example.math", now)
		if len(got) != 3 {
			t.Fatalf("got %d ads, want 3", len(got))
		}
		wantOrder := []string{"newer high", "older high", "low"}
		for i, title := range wantOrder {
			if got[i].Title != title {
				t.Errorf("position %d: got %q, want %q", i, got[i].Title, title)
			}
		}
	})

	t.Run("filters ineligible ads", func(t *testing.T) {
		inactive := testAd(func(a *models.AffiliateAd) { a.IsActive = false })
		otherApp := testAd(func(a *models.AffiliateAd) { a.AppIDs = []string{"com.example.physics"} })
		eligible := testAd(func(a *models.AffiliateAd) { a.Title = "keep" })

		got := ResolveForApp([]models.AffiliateAd{inactive, otherApp, eligible}, "com.example.math", now)
		if len(got) != 1 || got[0].Title != "keep" {
			t.Fatalf("got %v, want only the eligible ad", got)
		}
	})

	t.Run("empty result for no eligible ads", func(t *testing.T) {
		inactive := testAd(func(a *models.AffiliateAd) { a.IsActive = false })
		if got := ResolveForApp([]models.AffiliateAd{inactive}, "com.example.math", now); len(got) != 0 {
			t.Fatalf("got %d ads, want 0", len(got))
		}
	})

	t.Run("does not modify input", func(t *testing.T) {
		a := testAd(func(a *models.AffiliateAd) { a.Title = "a"; a.Priority = 1 })
		b := testAd(func(a *models.AffiliateAd) { a.Title = "b"; a.Priority = 99 })
		in := []models.AffiliateAd{a, b}
		ResolveForApp(in, "com.example.math", now)
		if in[0].Title != "a" || in[1].Title != "b" {
			t.Error("input slice was reordered")
		}
	})
}

func TestTargetFromAppIDs(t *testing.T) {
	tests := []struct {
		name   string
		appIDs []string
		appID  string
		want   bool
	}{
		{"nil list matches anything", nil, "com.example.math", true},
		{"all sentinel matches anything", []string{"all"}, "com.example.math", true},
		{"specific id matches", []string{"com.example.math"}, "com.example.math", true},
		{"specific id mismatch", []string{"com.example.math"}, "com.example.physics", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := models.TargetFromAppIDs(tt.appIDs).Matches(tt.appID); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.appID, got, tt.want)
			}
		})
	}
}
