package engine

import (
	"math"

	"proforma-backend/internal/domain"
)

// Thresholds is the central rule table for recommendation and risk tiers.
// Changing a rule means changing a constant here, nothing else.
type Thresholds struct {
	HurdleRate float64

	// Recommendation tiers (NPV sign, IRR spread over hurdle, equity multiple).
	StrongBuyIRRSpread      float64
	StrongBuyEquityMultiple float64
	BuyIRRSpread            float64
	BuyEquityMultiple       float64
	SellEquityMultiple      float64

	// Risk tiers (cash-flow volatility vs. invested cash, leverage, loss years).
	LeverageHigh       float64
	LeverageModerate   float64
	VolatilityHigh     float64
	VolatilityModerate float64
}

// DefaultThresholds returns the standard rule table: 8% hurdle, STRONG_BUY at
// hurdle+10% IRR and 2.5× equity, BUY at hurdle+3% and 1.8×.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HurdleRate:              0.08,
		StrongBuyIRRSpread:      0.10,
		StrongBuyEquityMultiple: 2.5,
		BuyIRRSpread:            0.03,
		BuyEquityMultiple:       1.8,
		SellEquityMultiple:      1.0,
		LeverageHigh:            0.80,
		LeverageModerate:        0.65,
		VolatilityHigh:          0.12,
		VolatilityModerate:      0.06,
	}
}

// Recommend applies the recommendation rule table. A non-converged IRR is
// treated as failing every IRR gate.
func (t Thresholds) Recommend(m *domain.FinancialMetrics) domain.Recommendation {
	irr := m.IRR
	if !m.IRRConverged || math.IsNaN(irr) {
		irr = math.Inf(-1)
	}

	switch {
	case m.NPV > 0 && irr > t.HurdleRate+t.StrongBuyIRRSpread && m.EquityMultiple > t.StrongBuyEquityMultiple:
		return domain.StrongBuy
	case m.NPV > 0 && irr > t.HurdleRate+t.BuyIRRSpread && m.EquityMultiple > t.BuyEquityMultiple:
		return domain.Buy
	case m.NPV > 0:
		return domain.Hold
	case m.EquityMultiple >= t.SellEquityMultiple:
		return domain.Sell
	default:
		return domain.StrongSell
	}
}

// AssessRisk scores leverage, cash-flow volatility, and years of negative net
// cash flow, then maps the score to a tier. Volatility is the standard
// deviation of net cash flow normalized by total cash invested.
func (t Thresholds) AssessRisk(proj *domain.CashFlowProjection, n *domain.InitialNumbers) domain.RiskLevel {
	leverage := n.LeverageRatio()
	vol := normalizedVolatility(proj.NetCashFlows(), n.TotalCashRequired)

	lossYears := 0
	for _, y := range proj.Years {
		if y.NetCashFlow < 0 {
			lossYears++
		}
	}

	score := 0
	switch {
	case leverage > t.LeverageHigh:
		score += 2
	case leverage > t.LeverageModerate:
		score++
	}
	switch {
	case vol > t.VolatilityHigh:
		score += 2
	case vol > t.VolatilityModerate:
		score++
	}
	switch {
	case lossYears >= 2:
		score += 2
	case lossYears == 1:
		score++
	}

	switch {
	case score <= 1:
		return domain.RiskLow
	case score <= 3:
		return domain.RiskModerate
	case score <= 5:
		return domain.RiskHigh
	default:
		return domain.RiskVeryHigh
	}
}

func normalizedVolatility(flows []float64, invested float64) float64 {
	if len(flows) < 2 || invested <= 0 {
		return 0
	}
	mean := 0.0
	for _, f := range flows {
		mean += f
	}
	mean /= float64(len(flows))
	variance := 0.0
	for _, f := range flows {
		variance += (f - mean) * (f - mean)
	}
	variance /= float64(len(flows) - 1)
	return math.Sqrt(variance) / invested
}
