// Package params holds the versioned baseline parameter distributions and the
// correlation matrix consumed by the Monte Carlo engine. A snapshot is loaded
// (or built from defaults) once per run and treated as immutable afterwards,
// so it is safe to share across parallel scenario evaluations.
package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Canonical parameter order. The correlation matrix rows/columns follow it.
const (
	ParamInterestRate      = "interest_rate"
	ParamCapRate           = "cap_rate"
	ParamVacancyRate       = "vacancy_rate"
	ParamRentGrowthRate    = "rent_growth_rate"
	ParamExpenseGrowthRate = "expense_growth_rate"
	ParamAppreciationRate  = "appreciation_rate"
	ParamLTVRatio          = "ltv_ratio"
	ParamClosingCostPct    = "closing_cost_pct"
	ParamLenderReservesPct = "lender_reserves_pct"
)

// ParameterSpec is the marginal distribution and clamping domain of one market
// parameter, plus its weights in the growth/risk composite scores. Weight sign
// encodes direction: a positive growth weight means higher values read as a
// stronger market.
type ParameterSpec struct {
	Name         string  `yaml:"name" json:"name"`
	Mean         float64 `yaml:"mean" json:"mean"`
	StdDev       float64 `yaml:"std_dev" json:"std_dev"`
	Min          float64 `yaml:"min" json:"min"`
	Max          float64 `yaml:"max" json:"max"`
	GrowthWeight float64 `yaml:"growth_weight" json:"growth_weight"`
	RiskWeight   float64 `yaml:"risk_weight" json:"risk_weight"`
}

// Snapshot is one immutable version of the parameter repository.
type Snapshot struct {
	Version     string          `yaml:"version" json:"version"`
	Parameters  []ParameterSpec `yaml:"parameters" json:"parameters"`
	Correlation [][]float64     `yaml:"correlation" json:"correlation"`
}

// Default returns the built-in baseline: moderate-growth US market with the
// standard cross-parameter relationships (rates and cap rates move together,
// vacancy and rent growth move oppositely).
func Default() *Snapshot {
	return &Snapshot{
		Version: "baseline-2024",
		Parameters: []ParameterSpec{
			{Name: ParamInterestRate, Mean: 0.06, StdDev: 0.012, Min: 0.01, Max: 0.15, GrowthWeight: -0.20, RiskWeight: 0.30},
			{Name: ParamCapRate, Mean: 0.06, StdDev: 0.008, Min: 0.02, Max: 0.15, GrowthWeight: -0.10, RiskWeight: 0.15},
			{Name: ParamVacancyRate, Mean: 0.05, StdDev: 0.02, Min: 0, Max: 0.5, GrowthWeight: -0.25, RiskWeight: 0.30},
			{Name: ParamRentGrowthRate, Mean: 0.03, StdDev: 0.015, Min: -0.10, Max: 0.15, GrowthWeight: 0.30, RiskWeight: -0.05},
			{Name: ParamExpenseGrowthRate, Mean: 0.025, StdDev: 0.01, Min: -0.05, Max: 0.15, GrowthWeight: -0.05, RiskWeight: 0.10},
			{Name: ParamAppreciationRate, Mean: 0.03, StdDev: 0.02, Min: -0.15, Max: 0.15, GrowthWeight: 0.25, RiskWeight: -0.05},
			{Name: ParamLTVRatio, Mean: 0.75, StdDev: 0.05, Min: 0, Max: 0.9, GrowthWeight: 0, RiskWeight: 0.15},
			{Name: ParamClosingCostPct, Mean: 0.03, StdDev: 0.005, Min: 0, Max: 0.08, GrowthWeight: 0, RiskWeight: 0},
			{Name: ParamLenderReservesPct, Mean: 0.10, StdDev: 0.02, Min: 0, Max: 0.5, GrowthWeight: 0, RiskWeight: 0},
		},
		Correlation: [][]float64{
			{1, 0.6, 0.15, -0.2, 0, -0.2, 0, 0, 0},
			{0.6, 1, 0.2, 0, 0, -0.3, 0, 0, 0},
			{0.15, 0.2, 1, -0.5, 0, 0, 0, 0, 0},
			{-0.2, 0, -0.5, 1, 0.3, 0.4, 0, 0, 0},
			{0, 0, 0, 0.3, 1, 0, 0, 0, 0},
			{-0.2, -0.3, 0, 0.4, 0, 1, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 1, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 1, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 1},
		},
	}
}

// Load reads a snapshot from a YAML artifact and validates it.
func Load(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params snapshot: %w", err)
	}
	var s Snapshot
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse params snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks structural consistency: a square symmetric correlation
// matrix with unit diagonal matching the parameter count, and sane marginals.
func (s *Snapshot) Validate() error {
	k := len(s.Parameters)
	if k == 0 {
		return fmt.Errorf("snapshot %s: no parameters", s.Version)
	}
	if len(s.Correlation) != k {
		return fmt.Errorf("snapshot %s: correlation matrix has %d rows, want %d", s.Version, len(s.Correlation), k)
	}
	for i, row := range s.Correlation {
		if len(row) != k {
			return fmt.Errorf("snapshot %s: correlation row %d has %d columns, want %d", s.Version, i, len(row), k)
		}
		if row[i] != 1 {
			return fmt.Errorf("snapshot %s: correlation diagonal [%d][%d] must be 1, got %f", s.Version, i, i, row[i])
		}
		for j := 0; j < i; j++ {
			if row[j] != s.Correlation[j][i] {
				return fmt.Errorf("snapshot %s: correlation not symmetric at [%d][%d]", s.Version, i, j)
			}
			if row[j] < -1 || row[j] > 1 {
				return fmt.Errorf("snapshot %s: correlation [%d][%d]=%f outside [-1,1]", s.Version, i, j, row[j])
			}
		}
	}
	for _, p := range s.Parameters {
		if p.StdDev < 0 {
			return fmt.Errorf("snapshot %s: parameter %s has negative std_dev", s.Version, p.Name)
		}
		if p.Min > p.Max {
			return fmt.Errorf("snapshot %s: parameter %s has min > max", s.Version, p.Name)
		}
		if p.Mean < p.Min || p.Mean > p.Max {
			return fmt.Errorf("snapshot %s: parameter %s mean %f outside clamp domain [%f,%f]", s.Version, p.Name, p.Mean, p.Min, p.Max)
		}
	}
	return nil
}

// Index returns the position of a named parameter, or -1.
func (s *Snapshot) Index(name string) int {
	for i, p := range s.Parameters {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Spec returns the spec of a named parameter, or nil.
func (s *Snapshot) Spec(name string) *ParameterSpec {
	if i := s.Index(name); i >= 0 {
		return &s.Parameters[i]
	}
	return nil
}

// WithMean returns a copy of the snapshot with one parameter's mean replaced
// (clamped to the parameter's domain). The receiver is not mutated.
func (s *Snapshot) WithMean(name string, mean float64) *Snapshot {
	out := *s
	out.Parameters = make([]ParameterSpec, len(s.Parameters))
	copy(out.Parameters, s.Parameters)
	if i := out.Index(name); i >= 0 {
		p := &out.Parameters[i]
		if mean < p.Min {
			mean = p.Min
		}
		if mean > p.Max {
			mean = p.Max
		}
		p.Mean = mean
	}
	return &out
}
