package montecarlo

import (
	"math"

	"proforma-backend/internal/domain"
	"proforma-backend/internal/params"
)

// Classification thresholds on the (growth, risk) score plane. Scores are
// normalized to [0,1]; 0.5 is the baseline market.
const (
	stressRiskFloor   = 0.70
	bullGrowthFloor   = 0.65
	bullRiskCeiling   = 0.50
	growthScoreFloor  = 0.55
	bearGrowthCeiling = 0.35
	bearRiskFloor     = 0.50
)

// Scores computes the composite growth and risk scores for one draw: each
// parameter's standardized deviation from its baseline mean is weighted per
// the snapshot and the weighted sum is squashed to [0,1] with a logistic.
// A draw exactly at baseline scores 0.5 on both axes.
func Scores(draw []float64, snap *params.Snapshot) (growth, risk float64) {
	var g, r float64
	for i, p := range snap.Parameters {
		if p.StdDev == 0 {
			continue
		}
		z := (draw[i] - p.Mean) / p.StdDev
		g += p.GrowthWeight * z
		r += p.RiskWeight * z
	}
	return logistic(g), logistic(r)
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Classify maps score quadrants to the 5-class market label:
// very high risk is STRESS regardless of growth; strong growth with
// contained risk is BULL; strong growth otherwise is GROWTH; weak growth
// with elevated risk is BEAR; everything else is NEUTRAL.
func Classify(growth, risk float64) domain.MarketClassification {
	switch {
	case risk >= stressRiskFloor:
		return domain.MarketStress
	case growth >= bullGrowthFloor && risk < bullRiskCeiling:
		return domain.MarketBull
	case growth >= growthScoreFloor:
		return domain.MarketGrowth
	case growth <= bearGrowthCeiling && risk >= bearRiskFloor:
		return domain.MarketBear
	default:
		return domain.MarketNeutral
	}
}
