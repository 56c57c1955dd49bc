package montecarlo

import (
	"math"
	"sort"

	"proforma-backend/internal/domain"
)

// Percentile returns the p-th percentile (0..100) of a sorted slice using
// linear interpolation between closest ranks. A single element collapses
// every percentile to that element.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Band computes the standard 5/25/50/75/95 percentile band. The input is
// sorted in place.
func Band(values []float64) domain.PercentileBand {
	sort.Float64s(values)
	return domain.PercentileBand{
		P5:     Percentile(values, 5),
		P25:    Percentile(values, 25),
		Median: Percentile(values, 50),
		P75:    Percentile(values, 75),
		P95:    Percentile(values, 95),
	}
}

// Aggregate folds all scenarios into the simulation result. Failed scenarios
// are counted but excluded from percentile statistics; converged-IRR values
// only feed the IRR band. Degraded is set when the failed fraction exceeds
// the threshold — the result is still returned.
func Aggregate(scenarios []domain.Scenario, requested int, seed int64, degradedThreshold float64) *domain.SimulationResult {
	res := &domain.SimulationResult{
		Seed:            seed,
		Requested:       requested,
		Classifications: make(map[domain.MarketClassification]int),
	}

	var npvs, irrs, cashFlows []float64
	var growthSum, riskSum float64

	for _, sc := range scenarios {
		res.Classifications[sc.Classification]++
		growthSum += sc.GrowthScore
		riskSum += sc.RiskScore

		if sc.Failed || sc.Metrics == nil {
			res.FailedScenarios++
			continue
		}
		res.Completed++
		npvs = append(npvs, sc.Metrics.NPV)
		if sc.Metrics.IRRConverged && !math.IsNaN(sc.Metrics.IRR) {
			irrs = append(irrs, sc.Metrics.IRR)
		}
		cashFlows = append(cashFlows, sc.Metrics.TotalReturn)
	}

	if n := len(scenarios); n > 0 {
		res.MeanGrowthScore = growthSum / float64(n)
		res.MeanRiskScore = riskSum / float64(n)
	}

	if len(npvs) > 0 {
		losses := 0
		for _, v := range npvs {
			if v < 0 {
				losses++
			}
		}
		res.Risk.ProbabilityOfLoss = float64(losses) / float64(len(npvs))

		res.NPV = Band(npvs) // sorts npvs
		res.Risk.ValueAtRisk5 = res.NPV.P5

		shortfallSum, shortfallN := 0.0, 0
		for _, v := range npvs {
			if v <= res.Risk.ValueAtRisk5 {
				shortfallSum += v
				shortfallN++
			}
		}
		if shortfallN > 0 {
			res.Risk.ExpectedShortfall = shortfallSum / float64(shortfallN)
		}
	}
	if len(irrs) > 0 {
		res.IRR = Band(irrs)
	}
	if len(cashFlows) > 0 {
		res.CashFlow = Band(cashFlows)
	}

	if requested > 0 && float64(res.FailedScenarios)/float64(requested) > degradedThreshold {
		res.Degraded = true
		res.Warnings = append(res.Warnings, "failed-scenario fraction exceeds threshold; percentiles computed from completed scenarios only")
	}
	return res
}
