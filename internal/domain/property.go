package domain

import "proforma-backend/internal/pkg/validation"

// RenovationStatus describes where a renovation plan stands at acquisition.
type RenovationStatus string

const (
	RenovationNone       RenovationStatus = "none"
	RenovationPlanned    RenovationStatus = "planned"
	RenovationInProgress RenovationStatus = "in_progress"
	RenovationCompleted  RenovationStatus = "completed"
)

// UnitGroup is a homogeneous group of rentable units.
type UnitGroup struct {
	Units       int     `json:"units"`
	MonthlyRent float64 `json:"monthly_rent"`
}

// AnnualRent returns the stabilized gross rent for the group over a full year.
func (g UnitGroup) AnnualRent() float64 {
	return float64(g.Units) * g.MonthlyRent * 12
}

// RenovationPlan describes planned capital work. Units are treated as offline
// for the renovation months, which suppresses year-1 income proportionally.
type RenovationPlan struct {
	Status         RenovationStatus `json:"status"`
	DurationMonths int              `json:"duration_months"`
	EstimatedCost  float64          `json:"estimated_cost"`
}

// Active reports whether the plan still takes units offline.
func (r RenovationPlan) Active() bool {
	return r.Status == RenovationPlanned || r.Status == RenovationInProgress
}

// EquityStructure splits required cash between the investor pool and the sponsor.
type EquityStructure struct {
	InvestorSharePct float64 `json:"investor_share_pct"`
	SelfCashPct      float64 `json:"self_cash_pct"`
}

// PropertyInput is the static description of the asset under analysis.
// Built once per request and never mutated afterwards.
type PropertyInput struct {
	Residential   UnitGroup       `json:"residential"`
	Commercial    UnitGroup       `json:"commercial"`
	Renovation    RenovationPlan  `json:"renovation"`
	Equity        EquityStructure `json:"equity"`
	LocationCode  string          `json:"location_code"`
	PurchasePrice float64         `json:"purchase_price"`
	HorizonYears  int             `json:"horizon_years"`
}

// Validate checks every field against its plausible range.
func (p *PropertyInput) Validate() error {
	if p.Residential.Units < 0 {
		return Validationf("residential.units", "must not be negative, got %d", p.Residential.Units)
	}
	if p.Commercial.Units < 0 {
		return Validationf("commercial.units", "must not be negative, got %d", p.Commercial.Units)
	}
	if p.Residential.Units+p.Commercial.Units == 0 {
		return Validationf("units", "property must have at least one rentable unit")
	}
	if p.Residential.MonthlyRent < 0 {
		return Validationf("residential.monthly_rent", "must not be negative, got %.2f", p.Residential.MonthlyRent)
	}
	if p.Commercial.MonthlyRent < 0 {
		return Validationf("commercial.monthly_rent", "must not be negative, got %.2f", p.Commercial.MonthlyRent)
	}
	if p.LocationCode != "" && !validation.IsValidLocationCode(p.LocationCode) {
		return Validationf("location_code", "must be hyphen-joined uppercase segments, got %q", p.LocationCode)
	}
	if p.PurchasePrice <= 0 {
		return Validationf("purchase_price", "must be positive, got %.2f", p.PurchasePrice)
	}
	if p.HorizonYears < 1 || p.HorizonYears > 30 {
		return Validationf("horizon_years", "must be between 1 and 30, got %d", p.HorizonYears)
	}
	switch p.Renovation.Status {
	case "", RenovationNone, RenovationPlanned, RenovationInProgress, RenovationCompleted:
	default:
		return Validationf("renovation.status", "unknown status %q", p.Renovation.Status)
	}
	if p.Renovation.DurationMonths < 0 {
		return Validationf("renovation.duration_months", "must not be negative, got %d", p.Renovation.DurationMonths)
	}
	if p.Renovation.EstimatedCost < 0 {
		return Validationf("renovation.estimated_cost", "must not be negative, got %.2f", p.Renovation.EstimatedCost)
	}
	if p.Equity.InvestorSharePct < 0 || p.Equity.InvestorSharePct > 1 {
		return Validationf("equity.investor_share_pct", "must be within [0,1], got %.4f", p.Equity.InvestorSharePct)
	}
	if p.Equity.SelfCashPct < 0 || p.Equity.SelfCashPct > 1 {
		return Validationf("equity.self_cash_pct", "must be within [0,1], got %.4f", p.Equity.SelfCashPct)
	}
	return nil
}

// GrossAnnualRent is the stabilized (no vacancy, no downtime) annual rent roll.
func (p *PropertyInput) GrossAnnualRent() float64 {
	return p.Residential.AnnualRent() + p.Commercial.AnnualRent()
}
