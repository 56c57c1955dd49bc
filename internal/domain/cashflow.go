package domain

// YearCashFlow is one year of the projection.
type YearCashFlow struct {
	Year                 int     `json:"year"`
	GrossRentalIncome    float64 `json:"gross_rental_income"`
	VacancyLoss          float64 `json:"vacancy_loss"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	NetOperatingIncome   float64 `json:"net_operating_income"`
	DebtService          float64 `json:"debt_service"`
	NetCashFlow          float64 `json:"net_cash_flow"`
	CumulativeCashFlow   float64 `json:"cumulative_cash_flow"`
}

// CashFlowProjection is the ordered year-by-year projection, year 1 first.
// Invariant: CumulativeCashFlow[k] = CumulativeCashFlow[k-1] + NetCashFlow[k].
type CashFlowProjection struct {
	Years []YearCashFlow `json:"years"`
}

// FinalYear returns the last projected year.
func (p *CashFlowProjection) FinalYear() YearCashFlow {
	if len(p.Years) == 0 {
		return YearCashFlow{}
	}
	return p.Years[len(p.Years)-1]
}

// TotalNetCashFlow is the cumulative operating cash over the whole horizon.
func (p *CashFlowProjection) TotalNetCashFlow() float64 {
	return p.FinalYear().CumulativeCashFlow
}

// NetCashFlows returns the per-year net cash flows in order.
func (p *CashFlowProjection) NetCashFlows() []float64 {
	out := make([]float64, len(p.Years))
	for i, y := range p.Years {
		out[i] = y.NetCashFlow
	}
	return out
}
