package ads

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/jmk-contents/backend/internal/models"
)

func experimentAd(group string, impressions, clicks int64) models.AffiliateAd {
	return models.AffiliateAd{
		ID:              uuid.New(),
		Type:            models.AdTypeBanner,
		IsActive:        true,
		Impressions:     impressions,
		Clicks:          clicks,
		ExperimentGroup: group,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeStandings(t *testing.T) {
	t.Run("winner is highest CTR among viable variants", func(t *testing.T) {
		a := experimentAd("homescreen", 50, 10) // 0.20, viable
		b := experimentAd("homescreen", 5, 4)   // 0.80 but under sample floor
		c := experimentAd("homescreen", 20, 6)  // 0.30, viable

		groups := ComputeStandings([]models.AffiliateAd{a, b, c})
		g, ok := groups["homescreen"]
		if !ok {
			t.Fatal("missing homescreen group")
		}
		if g.WinnerID == nil || *g.WinnerID != c.ID {
			t.Errorf("winner = %v, want %v", g.WinnerID, c.ID)
		}
		if g.TotalImpressions != 75 || g.TotalClicks != 20 {
			t.Errorf("totals = %d/%d, want 75/20", g.TotalImpressions, g.TotalClicks)
		}
		if !almostEqual(g.AvgCTR, 20.0/75.0) {
			t.Errorf("AvgCTR = %v, want %v", g.AvgCTR, 20.0/75.0)
		}
		// variants come back sorted by CTR desc
		if g.Variants[0].Ad.ID != b.ID {
			t.Errorf("top variant by CTR = %v, want %v", g.Variants[0].Ad.ID, b.ID)
		}
		if g.Variants[0].Viable {
			t.Error("under-sampled variant reported viable")
		}
	})

	t.Run("zero impressions has CTR zero", func(t *testing.T) {
		a := experimentAd("g", 0, 0)
		groups := ComputeStandings([]models.AffiliateAd{a})
		if ctr := groups["g"].Variants[0].CTR; ctr != 0 {
			t.Errorf("CTR = %v, want 0", ctr)
		}
	})

	t.Run("no viable variant means no winner", func(t *testing.T) {
		a := experimentAd("g", 3, 1)
		b := experimentAd("g", 9, 9)
		groups := ComputeStandings([]models.AffiliateAd{a, b})
		if groups["g"].WinnerID != nil {
			t.Errorf("winner = %v, want nil", groups["g"].WinnerID)
		}
	})

	t.Run("exact sample floor is viable", func(t *testing.T) {
		a := experimentAd("g", MinSampleSize, 2)
		groups := ComputeStandings([]models.AffiliateAd{a})
		g := groups["g"]
		if !g.Variants[0].Viable {
			t.Error("variant at the floor reported non-viable")
		}
		if g.WinnerID == nil || *g.WinnerID != a.ID {
			t.Error("variant at the floor did not win")
		}
	})

	t.Run("CTR tie resolves to smallest ad ID", func(t *testing.T) {
		a := experimentAd("g", 100, 20)
		b := experimentAd("g", 50, 10)
		want := a.ID
		if b.ID.String() < a.ID.String() {
			want = b.ID
		}

		// outcome must not depend on input order
		for _, in := range [][]models.AffiliateAd{{a, b}, {b, a}} {
			groups := ComputeStandings(in)
			g := groups["g"]
			if g.WinnerID == nil || *g.WinnerID != want {
				t.Errorf("winner = %v, want %v", g.WinnerID, want)
			}
		}
	})

	t.Run("ungrouped ads are excluded", func(t *testing.T) {
		grouped := experimentAd("g", 20, 5)
		plain := experimentAd("", 1000, 500)
		groups := ComputeStandings([]models.AffiliateAd{grouped, plain})
		if len(groups) != 1 {
			t.Fatalf("got %d groups, want 1", len(groups))
		}
		if len(groups["g"].Variants) != 1 {
			t.Errorf("got %d variants, want 1", len(groups["g"].Variants))
		}
	})

	t.Run("separate groups do not mix", func(t *testing.T) {
		a := experimentAd("g1", 20, 10)
		b := experimentAd("g2", 20, 2)
		groups := ComputeStandings([]models.AffiliateAd{a, b})
		if *groups["g1"].WinnerID != a.ID || *groups["g2"].WinnerID != b.ID {
			t.Error("winners crossed group boundaries")
		}
	})

	t.Run("clicks above impressions flagged as anomaly", func(t *testing.T) {
		a := experimentAd("g", 10, 15)
		groups := ComputeStandings([]models.AffiliateAd{a})
		v := groups["g"].Variants[0]
		if !v.Anomaly {
			t.Error("anomaly not flagged")
		}
		if !almostEqual(v.CTR, 1.5) {
			t.Errorf("CTR = %v, want 1.5", v.CTR)
		}
	})

	t.Run("custom sample floor", func(t *testing.T) {
		a := experimentAd("g", 5, 4)
		groups := Aggregator{MinSample: 5}.ComputeStandings([]models.AffiliateAd{a})
		g := groups["g"]
		if !g.Variants[0].Viable {
			t.Error("variant under default floor but over custom floor reported non-viable")
		}
		if g.WinnerID == nil || *g.WinnerID != a.ID {
			t.Error("expected winner with custom floor")
		}
	})
}
