package models

import (
	"time"

	"github.com/google/uuid"
)

// AdType is the placement format of an affiliate ad.
type AdType string

const (
	AdTypeBanner       AdType = "banner"
	AdTypeInterstitial AdType = "interstitial"
)

// ValidAdType reports whether s is a known ad type.
func ValidAdType(s string) bool {
	switch AdType(s) {
	case AdTypeBanner, AdTypeInterstitial:
		return true
	}
	return false
}

// TargetAll is the wire sentinel in appIds meaning "every app".
const TargetAll = "all"

// AffiliateAd is one affiliate advertisement. Impression and click
// counters are incremented atomically by the tracking worker; clicks
// exceeding impressions is possible (the two are not coupled) and is
// reported as an anomaly, not an error.
type AffiliateAd struct {
	ID              uuid.UUID  `json:"id"`
	Type            AdType     `json:"type"`
	Title           string     `json:"title"`
	ImageURL        string     `json:"imageUrl"`
	LinkURL         string     `json:"linkUrl"`
	IsActive        bool       `json:"isActive"`
	Priority        int        `json:"priority"` // 1-100, higher shows first
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Impressions     int64      `json:"impressions"`
	Clicks          int64      `json:"clicks"`
	AppIDs          []string   `json:"appIds"` // ["all"] or specific bundle IDs
	ExperimentGroup string     `json:"experimentGroup,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Target is the typed form of an ad's appIds list: either every app, or a
// specific set of bundle IDs. It replaces string-sentinel checks at the
// decision points.
type Target struct {
	All    bool
	AppIDs map[string]struct{}
}

// TargetFromAppIDs interprets a wire appIds list. An empty list or one
// containing the "all" sentinel targets every app.
func TargetFromAppIDs(appIDs []string) Target {
	if len(appIDs) == 0 {
		return Target{All: true}
	}
	t := Target{AppIDs: make(map[string]struct{}, len(appIDs))}
	for _, id := range appIDs {
		if id == TargetAll {
			return Target{All: true}
		}
		t.AppIDs[id] = struct{}{}
	}
	return t
}

// Matches reports whether the target covers the given app.
func (t Target) Matches(appID string) bool {
	if t.All {
		return true
	}
	_, ok := t.AppIDs[appID]
	return ok
}

// Target returns the ad's typed targeting rule.
func (a *AffiliateAd) Target() Target {
	return TargetFromAppIDs(a.AppIDs)
}

// CTR returns clicks/impressions, or 0 when there are no impressions.
func (a *AffiliateAd) CTR() float64 {
	if a.Impressions <= 0 {
		return 0
	}
	return float64(a.Clicks) / float64(a.Impressions)
}
