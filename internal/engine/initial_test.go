package engine

import (
	"testing"

	"proforma-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProperty() *domain.PropertyInput {
	return &domain.PropertyInput{
		Residential:   domain.UnitGroup{Units: 24, MonthlyRent: 2500},
		LocationCode:  "US-TX-AUS",
		PurchasePrice: 2_500_000,
		HorizonYears:  6,
	}
}

func testAssumptions() *domain.Assumptions {
	return &domain.Assumptions{
		Name:              "base",
		InterestRate:      domain.Constant(0.06),
		CapRate:           domain.Constant(0.06),
		VacancyRate:       domain.Constant(0.05),
		RentGrowthRate:    domain.Constant(0.03),
		ExpenseGrowthRate: domain.Constant(0.02),
		AppreciationRate:  domain.Constant(0.03),
		LTVRatio:          0.75,
		ClosingCostPct:    0.03,
		LenderReservesPct: 0.10,
	}
}

func TestCalculateInitialNumbers_PinsFormulas(t *testing.T) {
	p := testProperty()
	a := testAssumptions()

	n, err := CalculateInitialNumbers(p, a)
	require.NoError(t, err)

	// Loan = price × LTV; closing costs on purchase price.
	assert.InDelta(t, 1_875_000, n.LoanAmount, 1e-6)
	assert.InDelta(t, 75_000, n.ClosingCosts, 1e-6)
	assert.InDelta(t, 2_575_000, n.AcquisitionCost, 1e-6)

	// Lender reserves basis: pct of annual debt service.
	wantADS := AnnualDebtService(1_875_000, 0.06, 30)
	assert.InDelta(t, wantADS, n.AnnualDebtService, 1e-6)
	assert.InDelta(t, 0.10*wantADS, n.LenderReserves, 1e-6)

	// Total cash = acquisition − loan + reserves.
	assert.InDelta(t, n.AcquisitionCost-n.LoanAmount+n.LenderReserves, n.TotalCashRequired, 1e-9)
}

func TestCalculateInitialNumbers_RenovationCostIncluded(t *testing.T) {
	p := testProperty()
	p.Renovation = domain.RenovationPlan{Status: domain.RenovationPlanned, DurationMonths: 4, EstimatedCost: 200_000}

	n, err := CalculateInitialNumbers(p, testAssumptions())
	require.NoError(t, err)
	assert.InDelta(t, 200_000, n.RenovationCost, 1e-9)
	assert.InDelta(t, 2_775_000, n.AcquisitionCost, 1e-6)
}

func TestCalculateInitialNumbers_InvalidVacancyFailsFast(t *testing.T) {
	a := testAssumptions()
	a.VacancyRate = domain.Constant(1.2)

	_, err := CalculateInitialNumbers(testProperty(), a)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "vacancy_rate", verr.Field)
}

func TestCalculateInitialNumbers_LTVAboveOneRejected(t *testing.T) {
	a := testAssumptions()
	a.LTVRatio = 1.05

	_, err := CalculateInitialNumbers(testProperty(), a)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ltv_ratio", verr.Field)
}

func TestCalculateInitialNumbers_ZeroDebt(t *testing.T) {
	a := testAssumptions()
	a.LTVRatio = 0

	n, err := CalculateInitialNumbers(testProperty(), a)
	require.NoError(t, err)
	assert.Zero(t, n.LoanAmount)
	assert.Zero(t, n.AnnualDebtService)
	assert.Zero(t, n.LenderReserves)
	assert.InDelta(t, n.AcquisitionCost, n.TotalCashRequired, 1e-9)
}

func TestCalculateInitialNumbers_Deterministic(t *testing.T) {
	p := testProperty()
	a := testAssumptions()

	n1, err := CalculateInitialNumbers(p, a)
	require.NoError(t, err)
	n2, err := CalculateInitialNumbers(p, a)
	require.NoError(t, err)
	assert.Equal(t, n1, n2)
}
