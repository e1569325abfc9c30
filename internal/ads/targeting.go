package ads

import (
	"sort"
	"time"

	"github.com/jmk-contents/backend/internal/models"
)

// Eligible reports whether the ad may be shown to appID at now: it must be
// active, inside its [startDate, endDate] window (absent bound = unbounded,
// boundaries inclusive), and target the app or every app.
func Eligible(ad *models.AffiliateAd, appID string, now time.Time) bool {
	if !ad.IsActive {
		return false
	}
	if ad.StartDate != nil && now.Before(*ad.StartDate) {
		return false
	}
	if ad.EndDate != nil && now.After(*ad.EndDate) {
		return false
	}
	return ad.Target().Matches(appID)
}

// ResolveForApp returns the eligible subset of ads for appID at now,
// ordered by descending priority, most recent created_at first on ties.
// The input slice is not modified and no counters are touched.
func ResolveForApp(all []models.AffiliateAd, appID string, now time.Time) []models.AffiliateAd {
	var eligible []models.AffiliateAd
	for i := range all {
		if Eligible(&all[i], appID, now) {
			eligible = append(eligible, all[i])
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Priority != eligible[j].Priority {
			return eligible[i].Priority > eligible[j].Priority
		}
		return eligible[i].CreatedAt.After(eligible[j].CreatedAt)
	})
	return eligible
}
