package engine

import (
	"math"
	"testing"

	"proforma-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricsFor(t *testing.T, p *domain.PropertyInput, a *domain.Assumptions) *domain.FinancialMetrics {
	t.Helper()
	proj, n := project(t, p, a)
	m, err := CalculateFinancialMetrics(proj, a, n, DefaultConfig())
	require.NoError(t, err)
	return m
}

// 24 residential units, $2,500/month, $2.5M purchase, 75% LTV, 6% interest,
// 6-year horizon, 10% discount rate.
func TestCalculateFinancialMetrics_ReferenceProperty(t *testing.T) {
	m := metricsFor(t, testProperty(), testAssumptions())

	assert.False(t, math.IsNaN(m.NPV))
	assert.True(t, m.IRRConverged)
	assert.False(t, math.IsNaN(m.IRR))
	assert.Positive(t, m.NPV)
	assert.Greater(t, m.IRR, 0.10)
	assert.Contains(t, []domain.Recommendation{
		domain.StrongBuy, domain.Buy, domain.Hold, domain.Sell, domain.StrongSell,
	}, m.Recommendation)
	assert.Positive(t, m.TerminalValue)
	assert.Greater(t, m.EquityMultiple, 1.0)
	assert.False(t, math.IsNaN(m.PaybackPeriodYears))
}

func TestCalculateFinancialMetrics_NPVAtIRRNearZero(t *testing.T) {
	p := testProperty()
	a := testAssumptions()
	proj, n := project(t, p, a)

	m, err := CalculateFinancialMetrics(proj, a, n, DefaultConfig())
	require.NoError(t, err)
	require.True(t, m.IRRConverged)

	cfg := DefaultConfig()
	cfg.DiscountRate = m.IRR
	atIRR, err := CalculateFinancialMetrics(proj, a, n, cfg)
	require.NoError(t, err)
	assert.Less(t, math.Abs(atIRR.NPV)/m.TotalCashInvested, 1e-4)
}

func TestCalculateFinancialMetrics_PurchasePriceMonotonicity(t *testing.T) {
	a := testAssumptions()
	prevNPV := math.Inf(1)
	for _, price := range []float64{2_000_000, 2_500_000, 3_000_000, 3_500_000} {
		p := testProperty()
		p.PurchasePrice = price
		m := metricsFor(t, p, a)
		assert.Less(t, m.NPV, prevNPV, "NPV must strictly decrease as price rises (price %.0f)", price)
		prevNPV = m.NPV
	}
}

func TestCalculateFinancialMetrics_IRRNonConvergenceRecovered(t *testing.T) {
	// Deep-deficit property: every flow negative, no root in range.
	p := testProperty()
	p.Residential.MonthlyRent = 100
	a := testAssumptions()
	a.VacancyRate = domain.Constant(0.9)
	a.CapRate = domain.Constant(0.25)

	proj, n := project(t, p, a)
	m, err := CalculateFinancialMetrics(proj, a, n, DefaultConfig())
	require.NoError(t, err, "non-convergence must not surface as an error")
	assert.False(t, m.IRRConverged)
	assert.True(t, math.IsNaN(m.IRR))
	assert.False(t, math.IsNaN(m.NPV), "NPV still computed")
	assert.Negative(t, m.NPV)
}

func TestCalculateFinancialMetrics_TerminalValueFormula(t *testing.T) {
	p := testProperty()
	a := testAssumptions()
	proj, n := project(t, p, a)

	cfg := DefaultConfig()
	m, err := CalculateFinancialMetrics(proj, a, n, cfg)
	require.NoError(t, err)

	final := proj.FinalYear()
	sale := final.NetOperatingIncome * 1.03 / 0.06
	want := sale - cfg.DispositionCostPct*sale - RemainingBalance(n.LoanAmount, 0.06, a.LoanTermYears, 6)
	assert.InDelta(t, want, m.TerminalValue, 1e-6)
}

func TestCalculateFinancialMetrics_EmptyProjectionRejected(t *testing.T) {
	_, err := CalculateFinancialMetrics(&domain.CashFlowProjection{}, testAssumptions(), &domain.InitialNumbers{}, DefaultConfig())
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCalculateFinancialMetrics_PaybackNaNWhenNeverRecovered(t *testing.T) {
	a := testAssumptions()
	a.VacancyRate = domain.Constant(0.60)
	a.OperatingExpenseRatio = 0.50

	m := metricsFor(t, testProperty(), a)
	assert.True(t, math.IsNaN(m.PaybackPeriodYears))
}
