package analysis

import (
	"context"
	"testing"
	"time"

	"proforma-backend/internal/cache"
	"proforma-backend/internal/domain"
	"proforma-backend/internal/engine"
	"proforma-backend/internal/forecast"
	"proforma-backend/internal/infrastructure/database"
	"proforma-backend/internal/models"
	"proforma-backend/internal/params"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAnalysisTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := &Service{
		DB:       db,
		Cache:    &cache.ResultCache{Rdb: rdb, TTL: time.Minute},
		Forecast: &forecast.GormProvider{DB: db},
		Snapshot: params.Default(),
		Metrics:  engine.DefaultConfig(),
	}
	return svc, db
}

func testRequest() *Request {
	return &Request{
		Property: domain.PropertyInput{
			Residential:   domain.UnitGroup{Units: 24, MonthlyRent: 2500},
			LocationCode:  "US-TX-AUS",
			PurchasePrice: 2_500_000,
			HorizonYears:  6,
		},
		Assumptions: domain.Assumptions{
			Name:              "base",
			InterestRate:      domain.Constant(0.06),
			CapRate:           domain.Constant(0.06),
			VacancyRate:       domain.Constant(0.05),
			RentGrowthRate:    domain.Constant(0.03),
			ExpenseGrowthRate: domain.Constant(0.02),
			AppreciationRate:  domain.Constant(0.03),
			LTVRatio:          0.75,
			ClosingCostPct:    0.03,
			LenderReservesPct: 0.10,
		},
	}
}

func TestRun_ComputesAndPersists(t *testing.T) {
	svc, db := setupAnalysisTest(t)

	res, err := svc.Run(context.Background(), testRequest())
	require.NoError(t, err)

	require.NotNil(t, res.Metrics)
	assert.True(t, res.Metrics.IRRConverged)
	assert.NotEqual(t, uuid.Nil, res.AnalysisID)
	assert.Len(t, res.Projection.Years, 6)
	assert.False(t, res.Cached)

	var record models.AnalysisRecord
	require.NoError(t, db.Where("analysis_id = ?", res.AnalysisID).First(&record).Error)
	assert.Equal(t, res.Fingerprint, record.Fingerprint)
}

func TestRun_SecondIdenticalRequestHitsCache(t *testing.T) {
	svc, _ := setupAnalysisTest(t)
	ctx := context.Background()

	first, err := svc.Run(ctx, testRequest())
	require.NoError(t, err)
	second, err := svc.Run(ctx, testRequest())
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.AnalysisID, second.AnalysisID)
	assert.InDelta(t, first.Metrics.NPV, second.Metrics.NPV, 1e-9)
}

func TestRun_ForecastFallbackWarns(t *testing.T) {
	svc, _ := setupAnalysisTest(t)
	req := testRequest()
	req.UseForecast = true

	res, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	// No forecast rows exist: every parameter falls back to the submission.
	assert.Contains(t, res.Warnings, "forecast_fallback: "+params.ParamVacancyRate)
	assert.Contains(t, res.Warnings, "forecast_fallback: "+params.ParamRentGrowthRate)
}

func TestRun_ForecastOverridesAssumptions(t *testing.T) {
	svc, db := setupAnalysisTest(t)

	baseline, err := svc.Run(context.Background(), testRequest())
	require.NoError(t, err)

	// A much weaker rental market on file for this location.
	require.NoError(t, db.Create([]models.ForecastPoint{
		{Parameter: params.ParamVacancyRate, LocationCode: "US-TX-AUS", Year: 1, Value: 0.20},
		{Parameter: params.ParamRentGrowthRate, LocationCode: "US-TX-AUS", Year: 1, Value: 0.00},
	}).Error)

	req := testRequest()
	req.UseForecast = true
	res, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Less(t, res.Metrics.NPV, baseline.Metrics.NPV)
	// Parameters without rows still warn.
	assert.Contains(t, res.Warnings, "forecast_fallback: "+params.ParamCapRate)
	assert.NotContains(t, res.Warnings, "forecast_fallback: "+params.ParamVacancyRate)
}

func TestRun_InvalidInputRejected(t *testing.T) {
	svc, _ := setupAnalysisTest(t)
	req := testRequest()
	req.Assumptions.VacancyRate = domain.Constant(1.2)

	_, err := svc.Run(context.Background(), req)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "vacancy_rate", verr.Field)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := setupAnalysisTest(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_ReturnsPersistedRecord(t *testing.T) {
	svc, _ := setupAnalysisTest(t)
	ctx := context.Background()

	res, err := svc.Run(ctx, testRequest())
	require.NoError(t, err)

	record, err := svc.Get(ctx, res.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, res.Fingerprint, record.Fingerprint)
}
