package domain

// InitialNumbers are the day-one acquisition figures derived from a
// (PropertyInput, Assumptions) pair. Computed once per pair, never mutated.
//
// Bases used (pinned by unit test):
//   - closing costs   = closing_cost_pct × purchase price
//   - lender reserves = lender_reserves_pct × annual debt service
type InitialNumbers struct {
	PurchasePrice     float64 `json:"purchase_price"`
	RenovationCost    float64 `json:"renovation_cost"`
	ClosingCosts      float64 `json:"closing_costs"`
	AcquisitionCost   float64 `json:"acquisition_cost"`
	LoanAmount        float64 `json:"loan_amount"`
	AnnualDebtService float64 `json:"annual_debt_service"`
	LenderReserves    float64 `json:"lender_reserves"`
	TotalCashRequired float64 `json:"total_cash_required"`
}

// LeverageRatio is loan amount over acquisition cost, used by risk assessment.
func (n *InitialNumbers) LeverageRatio() float64 {
	if n.AcquisitionCost == 0 {
		return 0
	}
	return n.LoanAmount / n.AcquisitionCost
}
