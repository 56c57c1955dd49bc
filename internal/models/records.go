package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisRecord stores one deterministic analysis run: the request as
// submitted, the computed result, and any warnings attached along the way.
// Fingerprint identifies semantically identical requests for cache reuse.
type AnalysisRecord struct {
	AnalysisID  uuid.UUID      `gorm:"column:analysis_id;type:uuid;primaryKey" json:"analysis_id"`
	Fingerprint string         `gorm:"column:fingerprint;index;not null" json:"fingerprint"`
	Request     datatypes.JSON `gorm:"column:request;not null" json:"request"`
	Result      datatypes.JSON `gorm:"column:result;not null" json:"result"`
	Warnings    datatypes.JSON `gorm:"column:warnings" json:"warnings"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (AnalysisRecord) TableName() string {
	return "analysis_records"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (a *AnalysisRecord) BeforeCreate(tx *gorm.DB) error {
	if a.AnalysisID == uuid.Nil {
		a.AnalysisID = uuid.New()
	}
	return nil
}

// SimulationRecord stores one Monte Carlo run. Seed and NumScenarios are
// kept as columns so a run can be replayed bit-identically.
type SimulationRecord struct {
	SimulationID uuid.UUID      `gorm:"column:simulation_id;type:uuid;primaryKey" json:"simulation_id"`
	Fingerprint  string         `gorm:"column:fingerprint;index;not null" json:"fingerprint"`
	Seed         int64          `gorm:"column:seed;not null" json:"seed"`
	NumScenarios int            `gorm:"column:num_scenarios;not null" json:"num_scenarios"`
	Request      datatypes.JSON `gorm:"column:request;not null" json:"request"`
	Result       datatypes.JSON `gorm:"column:result;not null" json:"result"`
	Degraded     bool           `gorm:"column:degraded;not null;default:false" json:"degraded"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (SimulationRecord) TableName() string {
	return "simulation_records"
}

func (s *SimulationRecord) BeforeCreate(tx *gorm.DB) error {
	if s.SimulationID == uuid.Nil {
		s.SimulationID = uuid.New()
	}
	return nil
}

// ForecastPoint is one year of a forecast path for a market parameter in a
// location (e.g. parameter "vacancy_rate", location "US-TX-AUS", year 2).
type ForecastPoint struct {
	ID           uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Parameter    string  `gorm:"column:parameter;not null;index:idx_forecast_lookup,priority:1" json:"parameter"`
	LocationCode string  `gorm:"column:location_code;not null;index:idx_forecast_lookup,priority:2" json:"location_code"`
	Year         int     `gorm:"column:year;not null" json:"year"`
	Value        float64 `gorm:"column:value;not null" json:"value"`
	StdDev       float64 `gorm:"column:std_dev;not null;default:0" json:"std_dev"`
}

func (ForecastPoint) TableName() string {
	return "forecast_points"
}
