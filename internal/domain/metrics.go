package domain

import (
	"encoding/json"
	"math"
)

// Recommendation is the 5-tier categorical investment call.
type Recommendation string

const (
	StrongBuy  Recommendation = "STRONG_BUY"
	Buy        Recommendation = "BUY"
	Hold       Recommendation = "HOLD"
	Sell       Recommendation = "SELL"
	StrongSell Recommendation = "STRONG_SELL"
)

// RiskLevel is the 4-tier risk assessment.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
)

// FinancialMetrics is the terminal output of a single deterministic analysis.
// IRR is NaN when the solver did not converge; IRRConverged distinguishes
// that from a genuine near-zero rate.
type FinancialMetrics struct {
	NPV                 float64        `json:"npv"`
	IRR                 float64        `json:"irr"`
	IRRConverged        bool           `json:"irr_converged"`
	EquityMultiple      float64        `json:"equity_multiple"`
	TotalReturn         float64        `json:"total_return"`
	AverageAnnualReturn float64        `json:"average_annual_return"`
	PaybackPeriodYears  float64        `json:"payback_period_years"`
	TerminalValue       float64        `json:"terminal_value"`
	TotalCashInvested   float64        `json:"total_cash_invested"`
	DiscountRate        float64        `json:"discount_rate"`
	Recommendation      Recommendation `json:"recommendation"`
	RiskLevel           RiskLevel      `json:"risk_level"`
}

// financialMetricsJSON is the wire shape: NaN-able metrics become null so the
// struct survives encoding/json, which rejects NaN outright.
type financialMetricsJSON struct {
	NPV                 float64        `json:"npv"`
	IRR                 *float64       `json:"irr"`
	IRRConverged        bool           `json:"irr_converged"`
	EquityMultiple      *float64       `json:"equity_multiple"`
	TotalReturn         float64        `json:"total_return"`
	AverageAnnualReturn *float64       `json:"average_annual_return"`
	PaybackPeriodYears  *float64       `json:"payback_period_years"`
	TerminalValue       float64        `json:"terminal_value"`
	TotalCashInvested   float64        `json:"total_cash_invested"`
	DiscountRate        float64        `json:"discount_rate"`
	Recommendation      Recommendation `json:"recommendation"`
	RiskLevel           RiskLevel      `json:"risk_level"`
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func ptrOrNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func (m FinancialMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(financialMetricsJSON{
		NPV:                 m.NPV,
		IRR:                 finitePtr(m.IRR),
		IRRConverged:        m.IRRConverged,
		EquityMultiple:      finitePtr(m.EquityMultiple),
		TotalReturn:         m.TotalReturn,
		AverageAnnualReturn: finitePtr(m.AverageAnnualReturn),
		PaybackPeriodYears:  finitePtr(m.PaybackPeriodYears),
		TerminalValue:       m.TerminalValue,
		TotalCashInvested:   m.TotalCashInvested,
		DiscountRate:        m.DiscountRate,
		Recommendation:      m.Recommendation,
		RiskLevel:           m.RiskLevel,
	})
}

func (m *FinancialMetrics) UnmarshalJSON(b []byte) error {
	var w financialMetricsJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*m = FinancialMetrics{
		NPV:                 w.NPV,
		IRR:                 ptrOrNaN(w.IRR),
		IRRConverged:        w.IRRConverged,
		EquityMultiple:      ptrOrNaN(w.EquityMultiple),
		TotalReturn:         w.TotalReturn,
		AverageAnnualReturn: ptrOrNaN(w.AverageAnnualReturn),
		PaybackPeriodYears:  ptrOrNaN(w.PaybackPeriodYears),
		TerminalValue:       w.TerminalValue,
		TotalCashInvested:   w.TotalCashInvested,
		DiscountRate:        w.DiscountRate,
		Recommendation:      w.Recommendation,
		RiskLevel:           w.RiskLevel,
	}
	return nil
}
