package engine

import (
	"proforma-backend/internal/domain"
)

// ProjectCashFlows builds the year-by-year projection over the property's
// horizon, year 1 first.
//
// Year 1 gross income is the stabilized rent roll reduced by renovation
// downtime: while a renovation is planned or in progress, all units are
// offline for the renovation months (capped at 12), so year 1 collects only
// the remaining fraction of the year. Operating expenses are based on the
// stabilized rent roll — expenses do not pause during renovation.
//
// Subsequent years grow income and expenses by the per-year growth paths.
// Debt service is the constant annuity from InitialNumbers. Negative net cash
// flow is valid output, not an error; risk assessment reads it downstream.
func ProjectCashFlows(p *domain.PropertyInput, a *domain.Assumptions, n *domain.InitialNumbers) (*domain.CashFlowProjection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.Validationf("initial_numbers", "must not be nil")
	}

	stabilized := p.GrossAnnualRent()

	downtime := 0.0
	if p.Renovation.Active() {
		months := p.Renovation.DurationMonths
		if months > 12 {
			months = 12
		}
		downtime = float64(months) / 12
	}

	horizon := p.HorizonYears
	years := make([]domain.YearCashFlow, 0, horizon)

	gross := stabilized * (1 - downtime)
	expenses := a.OperatingExpenseRatio * stabilized
	cumulative := 0.0

	for year := 1; year <= horizon; year++ {
		if year == 2 {
			// Downtime ends after year 1: restart from the stabilized roll
			// grown by one year, rather than growing the suppressed figure.
			gross = stabilized * (1 + a.RentGrowthRate.At(year))
			expenses *= 1 + a.ExpenseGrowthRate.At(year)
		} else if year > 2 {
			gross *= 1 + a.RentGrowthRate.At(year)
			expenses *= 1 + a.ExpenseGrowthRate.At(year)
		}

		vacancyLoss := gross * a.VacancyRate.At(year)
		egi := gross - vacancyLoss
		noi := egi - expenses
		ncf := noi - n.AnnualDebtService
		cumulative += ncf

		years = append(years, domain.YearCashFlow{
			Year:                 year,
			GrossRentalIncome:    gross,
			VacancyLoss:          vacancyLoss,
			EffectiveGrossIncome: egi,
			OperatingExpenses:    expenses,
			NetOperatingIncome:   noi,
			DebtService:          n.AnnualDebtService,
			NetCashFlow:          ncf,
			CumulativeCashFlow:   cumulative,
		})
	}

	return &domain.CashFlowProjection{Years: years}, nil
}
