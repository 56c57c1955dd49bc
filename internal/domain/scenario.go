package domain

// MarketClassification labels a Monte Carlo draw's market character.
type MarketClassification string

const (
	MarketBull    MarketClassification = "BULL"
	MarketBear    MarketClassification = "BEAR"
	MarketNeutral MarketClassification = "NEUTRAL"
	MarketGrowth  MarketClassification = "GROWTH"
	MarketStress  MarketClassification = "STRESS"
)

// Scenario is one Monte Carlo draw with its outcome. ID is assigned at
// creation time (0..N-1) so aggregation is order-independent under
// parallel execution.
type Scenario struct {
	ID             int                  `json:"id"`
	Assumptions    Assumptions          `json:"assumptions"`
	Metrics        *FinancialMetrics    `json:"metrics,omitempty"`
	Classification MarketClassification `json:"classification"`
	GrowthScore    float64              `json:"growth_score"`
	RiskScore      float64              `json:"risk_score"`
	Failed         bool                 `json:"failed"`
	FailureReason  string               `json:"failure_reason,omitempty"`
}

// PercentileBand holds the 5/25/50/75/95 percentiles of a metric.
type PercentileBand struct {
	P5     float64 `json:"p5"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
}

// RiskMetrics summarizes downside risk across completed scenarios.
type RiskMetrics struct {
	ProbabilityOfLoss float64 `json:"probability_of_loss"`
	ValueAtRisk5      float64 `json:"value_at_risk_5"`
	ExpectedShortfall float64 `json:"expected_shortfall"`
}

// SimulationResult aggregates all scenarios of one Monte Carlo run.
// Built once after the scenario loop finishes; read-only thereafter.
type SimulationResult struct {
	Seed            int64                        `json:"seed"`
	Requested       int                          `json:"requested_scenarios"`
	Completed       int                          `json:"completed_scenarios"`
	FailedScenarios int                          `json:"failed_scenarios"`
	NPV             PercentileBand               `json:"npv"`
	IRR             PercentileBand               `json:"irr"`
	CashFlow        PercentileBand               `json:"cash_flow"`
	Risk            RiskMetrics                  `json:"risk"`
	Classifications map[MarketClassification]int `json:"classifications"`
	MeanGrowthScore float64                      `json:"mean_growth_score"`
	MeanRiskScore   float64                      `json:"mean_risk_score"`
	Degraded        bool                         `json:"degraded"`
	Partial         bool                         `json:"partial"`
	Warnings        []string                     `json:"warnings,omitempty"`
}
