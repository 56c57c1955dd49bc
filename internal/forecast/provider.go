package forecast

import (
	"context"

	"proforma-backend/internal/domain"
	"proforma-backend/internal/models"
	"proforma-backend/internal/params"

	"gorm.io/gorm"
)

// Point is one year of a forecast path. Year is 1-based relative to the
// analysis start.
type Point struct {
	Year   int     `json:"year"`
	Value  float64 `json:"value"`
	StdDev float64 `json:"std_dev"`
}

// Provider supplies per-location forecast paths for market parameters.
// Implementations return *domain.DataUnavailableError when no data covers
// the requested parameter/location, so callers can fall back to baselines.
type Provider interface {
	Path(ctx context.Context, parameter, locationCode string, horizonYears int) ([]Point, error)
}

// GormProvider reads forecast paths from the forecast_points table.
type GormProvider struct {
	DB *gorm.DB
}

func (p *GormProvider) Path(ctx context.Context, parameter, locationCode string, horizonYears int) ([]Point, error) {
	var rows []models.ForecastPoint
	err := p.DB.WithContext(ctx).
		Where("parameter = ? AND location_code = ? AND year <= ?", parameter, locationCode, horizonYears).
		Order("year ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.DataUnavailableError{Parameter: parameter, LocationCode: locationCode}
	}

	points := make([]Point, 0, horizonYears)
	last := Point{}
	i := 0
	for year := 1; year <= horizonYears; year++ {
		for i < len(rows) && rows[i].Year <= year {
			last = Point{Year: rows[i].Year, Value: rows[i].Value, StdDev: rows[i].StdDev}
			i++
		}
		if last.Year == 0 {
			// No data yet for the leading years: carry the first known point back.
			last = Point{Year: rows[0].Year, Value: rows[0].Value, StdDev: rows[0].StdDev}
		}
		points = append(points, Point{Year: year, Value: last.Value, StdDev: last.StdDev})
	}
	return points, nil
}

// StaticProvider serves flat paths from a parameter snapshot. It backs the
// fallback route when no location data exists.
type StaticProvider struct {
	Snapshot *params.Snapshot
}

func (p *StaticProvider) Path(ctx context.Context, parameter, locationCode string, horizonYears int) ([]Point, error) {
	spec := p.Snapshot.Spec(parameter)
	if spec == nil {
		return nil, &domain.DataUnavailableError{Parameter: parameter, LocationCode: locationCode}
	}
	points := make([]Point, horizonYears)
	for i := range points {
		points[i] = Point{Year: i + 1, Value: spec.Mean, StdDev: spec.StdDev}
	}
	return points, nil
}
