package ads

import (
	"sort"

	"github.com/google/uuid"

	"github.com/jmk-contents/backend/internal/models"
)

// MinSampleSize is the default impression floor below which a variant
// cannot win its experiment, regardless of CTR.
const MinSampleSize = 10

// VariantResult is one ad's standing within its experiment group.
type VariantResult struct {
	Ad     models.AffiliateAd `json:"ad"`
	CTR    float64            `json:"ctr"`
	Viable bool               `json:"is_viable"`
	// Anomaly marks clicks > impressions. The counters are incremented
	// independently, so this can happen; it is reported, never rejected.
	Anomaly bool `json:"is_anomaly,omitempty"`
}

// GroupResult is the aggregate standing of one experiment group.
type GroupResult struct {
	GroupName        string          `json:"group_name"`
	Variants         []VariantResult `json:"variants"`
	TotalImpressions int64           `json:"total_impressions"`
	TotalClicks      int64           `json:"total_clicks"`
	AvgCTR           float64         `json:"avg_ctr"`
	WinnerID         *uuid.UUID      `json:"winner_id,omitempty"`
}

// Aggregator computes A/B experiment standings. The zero value uses
// MinSampleSize as the viability floor.
type Aggregator struct {
	MinSample int64
}

// ComputeStandings groups all ads carrying an experiment group label into
// experiments and computes per-variant CTR, group aggregates, and the
// winner: the viable variant (impressions >= MinSampleSize) with the
// highest CTR. Equal top CTR resolves to the lexicographically smallest
// ad ID so the outcome never depends on input order. A group with no
// viable variant has no winner.
func ComputeStandings(all []models.AffiliateAd) map[string]GroupResult {
	return Aggregator{}.ComputeStandings(all)
}

// ComputeStandings is ComputeStandings with the aggregator's sample floor.
func (ag Aggregator) ComputeStandings(all []models.AffiliateAd) map[string]GroupResult {
	minSample := ag.MinSample
	if minSample <= 0 {
		minSample = MinSampleSize
	}

	groups := make(map[string]GroupResult)
	for i := range all {
		ad := all[i]
		if ad.ExperimentGroup == "" {
			continue
		}
		g := groups[ad.ExperimentGroup]
		g.GroupName = ad.ExperimentGroup
		g.Variants = append(g.Variants, VariantResult{
			Ad:      ad,
			CTR:     ad.CTR(),
			Viable:  ad.Impressions >= minSample,
			Anomaly: ad.Clicks > ad.Impressions,
		})
		g.TotalImpressions += ad.Impressions
		g.TotalClicks += ad.Clicks
		groups[ad.ExperimentGroup] = g
	}

	for name, g := range groups {
		if g.TotalImpressions > 0 {
			g.AvgCTR = float64(g.TotalClicks) / float64(g.TotalImpressions)
		}

		var winner *VariantResult
		for i := range g.Variants {
			v := &g.Variants[i]
			if !v.Viable {
				continue
			}
			if winner == nil || v.CTR > winner.CTR ||
				(v.CTR == winner.CTR && v.Ad.ID.String() < winner.Ad.ID.String()) {
				winner = v
			}
		}
		if winner != nil {
			id := winner.Ad.ID
			g.WinnerID = &id
		}

		sort.SliceStable(g.Variants, func(i, j int) bool {
			return g.Variants[i].CTR > g.Variants[j].CTR
		})
		groups[name] = g
	}
	return groups
}
