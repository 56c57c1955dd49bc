package engine

import (
	"math"

	"proforma-backend/internal/domain"
)

// Config carries the tunable constants of the metrics calculator. All
// thresholds live here or in Thresholds, never inline in the rules.
type Config struct {
	DiscountRate       float64
	DispositionCostPct float64
	Thresholds         Thresholds
}

// DefaultConfig returns the standard metric constants: 10% discount rate and
// 5% disposition costs on sale.
func DefaultConfig() Config {
	return Config{
		DiscountRate:       0.10,
		DispositionCostPct: 0.05,
		Thresholds:         DefaultThresholds(),
	}
}

// CalculateFinancialMetrics derives the terminal metrics from a projection.
// IRR non-convergence is recovered here: the metric is NaN with
// IRRConverged=false, and everything else is still computed.
//
// Terminal value capitalizes final-year NOI grown one year at the final
// rent-growth rate, at the exit cap rate (final element of the cap-rate
// path), net of disposition costs and the remaining loan balance.
func CalculateFinancialMetrics(proj *domain.CashFlowProjection, a *domain.Assumptions, n *domain.InitialNumbers, cfg Config) (*domain.FinancialMetrics, error) {
	if proj == nil || len(proj.Years) == 0 {
		return nil, domain.Validationf("projection", "must contain at least one year")
	}
	if n == nil {
		return nil, domain.Validationf("initial_numbers", "must not be nil")
	}
	if cfg.DiscountRate <= -1 {
		return nil, domain.Validationf("discount_rate", "must be greater than -1, got %.4f", cfg.DiscountRate)
	}

	horizon := len(proj.Years)
	final := proj.FinalYear()

	terminalGrowth := a.RentGrowthRate.Final()
	exitCap := a.CapRate.Final()

	saleValue := final.NetOperatingIncome * (1 + terminalGrowth) / exitCap
	remaining := RemainingBalance(n.LoanAmount, a.InterestRate.At(1), a.LoanTermYears, horizon)
	terminalValue := saleValue - cfg.DispositionCostPct*saleValue - remaining

	invested := n.TotalCashRequired

	// NPV over [−invested, ncf_1, …, ncf_N + terminal].
	flows := make([]float64, horizon+1)
	flows[0] = -invested
	for i, y := range proj.Years {
		flows[i+1] = y.NetCashFlow
	}
	flows[horizon] += terminalValue

	npv := NPVAt(cfg.DiscountRate, flows)

	irr, irrErr := InternalRateOfReturn(flows)
	converged := irrErr == nil

	totalProceeds := proj.TotalNetCashFlow() + terminalValue
	equityMultiple := math.NaN()
	avgAnnual := math.NaN()
	if invested > 0 {
		equityMultiple = totalProceeds / invested
		avgAnnual = (totalProceeds - invested) / invested / float64(horizon)
	}

	payback := paybackPeriod(proj, invested)

	m := &domain.FinancialMetrics{
		NPV:                 npv,
		IRR:                 irr,
		IRRConverged:        converged,
		EquityMultiple:      equityMultiple,
		TotalReturn:         totalProceeds - invested,
		AverageAnnualReturn: avgAnnual,
		PaybackPeriodYears:  payback,
		TerminalValue:       terminalValue,
		TotalCashInvested:   invested,
		DiscountRate:        cfg.DiscountRate,
	}
	m.Recommendation = cfg.Thresholds.Recommend(m)
	m.RiskLevel = cfg.Thresholds.AssessRisk(proj, n)
	return m, nil
}

// paybackPeriod is the first point at which cumulative operating cash flow
// recovers the invested cash, interpolated within the crossing year.
// Terminal value is excluded: payback measures operating recovery only.
// NaN when the horizon never pays back.
func paybackPeriod(proj *domain.CashFlowProjection, invested float64) float64 {
	if invested <= 0 {
		return 0
	}
	prev := 0.0
	for _, y := range proj.Years {
		if y.CumulativeCashFlow >= invested {
			gap := invested - prev
			step := y.CumulativeCashFlow - prev
			if step <= 0 {
				return float64(y.Year)
			}
			return float64(y.Year-1) + gap/step
		}
		prev = y.CumulativeCashFlow
	}
	return math.NaN()
}
