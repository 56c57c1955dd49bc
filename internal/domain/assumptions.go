package domain

// RatePath is a market parameter over the analysis horizon. A single element
// means the rate is held constant; multiple elements are read per year and
// the last element carries forward past the end of the path.
type RatePath []float64

// At returns the rate for a 1-based analysis year.
func (r RatePath) At(year int) float64 {
	if len(r) == 0 {
		return 0
	}
	idx := year - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(r) {
		idx = len(r) - 1
	}
	return r[idx]
}

// Constant builds a single-element path.
func Constant(rate float64) RatePath {
	return RatePath{rate}
}

// Final returns the last element of the path (used for exit-year parameters).
func (r RatePath) Final() float64 {
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1]
}

// Assumptions is one named set of market parameters for the full horizon.
// One instance per scenario; validated before any computation runs.
type Assumptions struct {
	Name                  string   `json:"name"`
	InterestRate          RatePath `json:"interest_rate"`
	CapRate               RatePath `json:"cap_rate"`
	VacancyRate           RatePath `json:"vacancy_rate"`
	RentGrowthRate        RatePath `json:"rent_growth_rate"`
	ExpenseGrowthRate     RatePath `json:"expense_growth_rate"`
	AppreciationRate      RatePath `json:"appreciation_rate"`
	LTVRatio              float64  `json:"ltv_ratio"`
	ClosingCostPct        float64  `json:"closing_cost_pct"`
	LenderReservesPct     float64  `json:"lender_reserves_pct"`
	OperatingExpenseRatio float64  `json:"operating_expense_ratio"`
	LoanTermYears         int      `json:"loan_term_years"`
}

// DefaultOperatingExpenseRatio applies when the caller leaves the ratio unset.
const DefaultOperatingExpenseRatio = 0.35

// DefaultLoanTermYears applies when the caller leaves the term unset.
const DefaultLoanTermYears = 30

// Normalize fills optional fields with their documented defaults.
func (a *Assumptions) Normalize() {
	if a.OperatingExpenseRatio == 0 {
		a.OperatingExpenseRatio = DefaultOperatingExpenseRatio
	}
	if a.LoanTermYears == 0 {
		a.LoanTermYears = DefaultLoanTermYears
	}
}

type pathRange struct {
	field string
	path  RatePath
	min   float64
	max   float64
}

// Validate checks every parameter against its plausible range. LTV of zero is
// a valid all-cash purchase (debt service is zero for every year).
func (a *Assumptions) Validate() error {
	a.Normalize()

	if len(a.InterestRate) == 0 {
		return Validationf("interest_rate", "path must not be empty")
	}
	if len(a.CapRate) == 0 {
		return Validationf("cap_rate", "path must not be empty")
	}
	if len(a.VacancyRate) == 0 {
		return Validationf("vacancy_rate", "path must not be empty")
	}

	ranges := []pathRange{
		{"interest_rate", a.InterestRate, 0, 0.5},
		{"cap_rate", a.CapRate, 1e-6, 0.5},
		{"vacancy_rate", a.VacancyRate, 0, 1},
		{"rent_growth_rate", a.RentGrowthRate, -0.5, 0.5},
		{"expense_growth_rate", a.ExpenseGrowthRate, -0.5, 0.5},
		{"appreciation_rate", a.AppreciationRate, -0.5, 0.5},
	}
	for _, r := range ranges {
		for i, v := range r.path {
			if v < r.min || v > r.max {
				return Validationf(r.field, "year %d value %.4f outside [%.4f, %.4f]", i+1, v, r.min, r.max)
			}
		}
	}

	if a.LTVRatio < 0 || a.LTVRatio > 1 {
		return Validationf("ltv_ratio", "must be within [0,1], got %.4f", a.LTVRatio)
	}
	if a.ClosingCostPct < 0 || a.ClosingCostPct > 0.2 {
		return Validationf("closing_cost_pct", "must be within [0,0.2], got %.4f", a.ClosingCostPct)
	}
	if a.LenderReservesPct < 0 || a.LenderReservesPct > 1 {
		return Validationf("lender_reserves_pct", "must be within [0,1], got %.4f", a.LenderReservesPct)
	}
	if a.OperatingExpenseRatio < 0 || a.OperatingExpenseRatio > 0.95 {
		return Validationf("operating_expense_ratio", "must be within [0,0.95], got %.4f", a.OperatingExpenseRatio)
	}
	if a.LoanTermYears < 1 || a.LoanTermYears > 40 {
		return Validationf("loan_term_years", "must be between 1 and 40, got %d", a.LoanTermYears)
	}
	return nil
}
