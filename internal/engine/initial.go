package engine

import (
	"proforma-backend/internal/domain"
)

// CalculateInitialNumbers derives day-one acquisition figures from a property
// and one assumption set. Pure: no I/O, deterministic given inputs.
//
//	loan amount       = purchase price × LTV
//	acquisition cost  = purchase price + renovation cost + closing costs
//	lender reserves   = lender_reserves_pct × annual debt service
//	total cash        = acquisition cost − loan amount + lender reserves
func CalculateInitialNumbers(p *domain.PropertyInput, a *domain.Assumptions) (*domain.InitialNumbers, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	loanAmount := p.PurchasePrice * a.LTVRatio
	closingCosts := p.PurchasePrice * a.ClosingCostPct

	renovationCost := 0.0
	if p.Renovation.Status != domain.RenovationNone && p.Renovation.Status != "" {
		renovationCost = p.Renovation.EstimatedCost
	}

	acquisitionCost := p.PurchasePrice + renovationCost + closingCosts

	// Note rate is the first element of the interest-rate path.
	annualDebtService := AnnualDebtService(loanAmount, a.InterestRate.At(1), a.LoanTermYears)
	lenderReserves := a.LenderReservesPct * annualDebtService

	return &domain.InitialNumbers{
		PurchasePrice:     p.PurchasePrice,
		RenovationCost:    renovationCost,
		ClosingCosts:      closingCosts,
		AcquisitionCost:   acquisitionCost,
		LoanAmount:        loanAmount,
		AnnualDebtService: annualDebtService,
		LenderReserves:    lenderReserves,
		TotalCashRequired: acquisitionCost - loanAmount + lenderReserves,
	}, nil
}
