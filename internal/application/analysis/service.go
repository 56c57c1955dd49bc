package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"proforma-backend/internal/cache"
	"proforma-backend/internal/domain"
	"proforma-backend/internal/engine"
	"proforma-backend/internal/forecast"
	"proforma-backend/internal/models"
	"proforma-backend/internal/params"
	"proforma-backend/internal/pkg/fingerprint"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no analysis matches the requested id.
var ErrNotFound = errors.New("Analysis not found")

// Service runs the deterministic analysis pipeline: initial numbers, cash
// flow projection, financial metrics. Results are fingerprinted for cache
// reuse and persisted for later retrieval.
type Service struct {
	DB       *gorm.DB
	Cache    *cache.ResultCache
	Forecast forecast.Provider
	Snapshot *params.Snapshot
	Metrics  engine.Config
}

// Request is one analysis submission.
type Request struct {
	Property    domain.PropertyInput `json:"property"`
	Assumptions domain.Assumptions   `json:"assumptions"`
	UseForecast bool                 `json:"use_forecast"`
}

// Result is the full output of a deterministic analysis.
type Result struct {
	AnalysisID     uuid.UUID                  `json:"analysis_id"`
	Fingerprint    string                     `json:"fingerprint"`
	InitialNumbers *domain.InitialNumbers     `json:"initial_numbers"`
	Projection     *domain.CashFlowProjection `json:"projection"`
	Metrics        *domain.FinancialMetrics   `json:"metrics"`
	Warnings       []string                   `json:"warnings,omitempty"`
	Cached         bool                       `json:"cached,omitempty"`
}

// forecastedPaths maps snapshot parameter names to the assumption path they
// drive when location forecasts are requested.
var forecastedPaths = []string{
	params.ParamInterestRate,
	params.ParamCapRate,
	params.ParamVacancyRate,
	params.ParamRentGrowthRate,
	params.ParamExpenseGrowthRate,
	params.ParamAppreciationRate,
}

// Run validates the request, optionally overlays location forecasts, and
// computes the full pipeline. Identical requests hit the result cache.
func (s *Service) Run(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Property.Validate(); err != nil {
		return nil, err
	}
	req.Assumptions.Normalize()

	var warnings []string
	if req.UseForecast {
		var err error
		warnings, err = s.applyForecasts(ctx, req)
		if err != nil {
			return nil, err
		}
	}
	if err := req.Assumptions.Validate(); err != nil {
		return nil, err
	}

	fp, err := fingerprint.Of(req.Property, req.Assumptions, s.Metrics, s.snapshotVersion())
	if err != nil {
		return nil, fmt.Errorf("fingerprint request: %w", err)
	}

	cacheKey := "analysis:" + fp
	var cached Result
	if s.Cache.Get(ctx, cacheKey, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	numbers, err := engine.CalculateInitialNumbers(&req.Property, &req.Assumptions)
	if err != nil {
		return nil, err
	}
	projection, err := engine.ProjectCashFlows(&req.Property, &req.Assumptions, numbers)
	if err != nil {
		return nil, err
	}
	metrics, err := engine.CalculateFinancialMetrics(projection, &req.Assumptions, numbers, s.Metrics)
	if err != nil {
		return nil, err
	}
	if !metrics.IRRConverged {
		warnings = append(warnings, "irr did not converge; reported as null")
	}

	result := &Result{
		Fingerprint:    fp,
		InitialNumbers: numbers,
		Projection:     projection,
		Metrics:        metrics,
		Warnings:       warnings,
	}

	result.AnalysisID = uuid.New()
	if s.DB != nil {
		if err := s.persist(ctx, req, result); err != nil {
			return nil, err
		}
	}

	s.Cache.Set(ctx, cacheKey, result)

	log.Info().
		Str("analysis_id", result.AnalysisID.String()).
		Str("location", req.Property.LocationCode).
		Str("recommendation", string(metrics.Recommendation)).
		Msg("analysis completed")
	return result, nil
}

// Get loads a persisted analysis by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	if s.DB == nil {
		return nil, ErrNotFound
	}
	var record models.AnalysisRecord
	err := s.DB.WithContext(ctx).Where("analysis_id = ?", id).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// applyForecasts overlays per-location forecast paths onto the request
// assumptions. Missing data is not an error: the submitted value stays in
// place and a fallback warning is recorded.
func (s *Service) applyForecasts(ctx context.Context, req *Request) ([]string, error) {
	if s.Forecast == nil {
		return []string{"forecast_fallback: no provider configured"}, nil
	}

	var warnings []string
	horizon := req.Property.HorizonYears
	for _, name := range forecastedPaths {
		points, err := s.Forecast.Path(ctx, name, req.Property.LocationCode, horizon)
		if err != nil {
			var derr *domain.DataUnavailableError
			if errors.As(err, &derr) {
				warnings = append(warnings, "forecast_fallback: "+name)
				continue
			}
			return nil, err
		}
		path := make(domain.RatePath, len(points))
		for i, pt := range points {
			path[i] = pt.Value
		}
		setPath(&req.Assumptions, name, path)
	}
	return warnings, nil
}

func setPath(a *domain.Assumptions, name string, path domain.RatePath) {
	switch name {
	case params.ParamInterestRate:
		a.InterestRate = path
	case params.ParamCapRate:
		a.CapRate = path
	case params.ParamVacancyRate:
		a.VacancyRate = path
	case params.ParamRentGrowthRate:
		a.RentGrowthRate = path
	case params.ParamExpenseGrowthRate:
		a.ExpenseGrowthRate = path
	case params.ParamAppreciationRate:
		a.AppreciationRate = path
	}
}

func (s *Service) snapshotVersion() string {
	if s.Snapshot == nil {
		return ""
	}
	return s.Snapshot.Version
}

func (s *Service) persist(ctx context.Context, req *Request, result *Result) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal analysis request: %w", err)
	}
	resJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}
	warnJSON, _ := json.Marshal(result.Warnings)

	record := &models.AnalysisRecord{
		AnalysisID:  result.AnalysisID,
		Fingerprint: result.Fingerprint,
		Request:     datatypes.JSON(reqJSON),
		Result:      datatypes.JSON(resJSON),
		Warnings:    datatypes.JSON(warnJSON),
	}
	return s.DB.WithContext(ctx).Create(record).Error
}
