package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"proforma-backend/internal/cache"
	"proforma-backend/internal/domain"
	"proforma-backend/internal/engine"
	"proforma-backend/internal/models"
	"proforma-backend/internal/montecarlo"
	"proforma-backend/internal/params"
	"proforma-backend/internal/pkg/fingerprint"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no simulation matches the requested id.
var ErrNotFound = errors.New("Simulation not found")

// Service runs Monte Carlo simulations and keeps their results retrievable.
// Engine is the prebuilt engine for the baseline snapshot; requests with
// parameter overrides get a one-off engine over a shifted snapshot copy.
type Service struct {
	DB                *gorm.DB
	Cache             *cache.ResultCache
	Engine            *montecarlo.Engine
	Snapshot          *params.Snapshot
	Metrics           engine.Config
	Workers           int
	DegradedThreshold float64
	DefaultScenarios  int
	MaxScenarios      int
}

// Request is one simulation submission. Seed zero means "pick one": the
// chosen seed is returned so the run can be replayed exactly. Overrides shift
// the baseline mean of named snapshot parameters for this run only.
type Request struct {
	Property     domain.PropertyInput `json:"property"`
	NumScenarios int                  `json:"num_scenarios"`
	Seed         int64                `json:"seed"`
	Overrides    map[string]float64   `json:"overrides,omitempty"`
}

// Result wraps the aggregated simulation with its identity.
type Result struct {
	SimulationID uuid.UUID                `json:"simulation_id"`
	Fingerprint  string                   `json:"fingerprint"`
	Simulation   *domain.SimulationResult `json:"simulation"`
	Cached       bool                     `json:"cached,omitempty"`
}

// Run normalizes the request, executes the scenario loop, and persists the
// aggregate. Explicit-seed requests are cacheable; auto-seeded runs are not,
// since two submissions are different experiments by construction.
func (s *Service) Run(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Property.Validate(); err != nil {
		return nil, err
	}
	if req.NumScenarios == 0 {
		req.NumScenarios = s.DefaultScenarios
	}
	if req.NumScenarios < 1 {
		return nil, domain.Validationf("num_scenarios", "must be at least 1, got %d", req.NumScenarios)
	}
	if s.MaxScenarios > 0 && req.NumScenarios > s.MaxScenarios {
		return nil, domain.Validationf("num_scenarios", "must not exceed %d, got %d", s.MaxScenarios, req.NumScenarios)
	}

	eng, err := s.engineFor(req.Overrides)
	if err != nil {
		return nil, err
	}

	seeded := req.Seed != 0
	if !seeded {
		req.Seed = time.Now().UnixNano()
	}

	fp, err := fingerprint.Of(req.Property, req.NumScenarios, req.Seed, req.Overrides)
	if err != nil {
		return nil, fmt.Errorf("fingerprint request: %w", err)
	}

	cacheKey := "simulation:" + fp
	if seeded {
		var cached Result
		if s.Cache.Get(ctx, cacheKey, &cached) {
			cached.Cached = true
			return &cached, nil
		}
	}

	sim, err := eng.Run(ctx, montecarlo.RunInput{
		Property:     &req.Property,
		NumScenarios: req.NumScenarios,
		Seed:         req.Seed,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		SimulationID: uuid.New(),
		Fingerprint:  fp,
		Simulation:   sim,
	}

	if s.DB != nil {
		if err := s.persist(ctx, req, result); err != nil {
			return nil, err
		}
	}
	if seeded && !sim.Partial {
		s.Cache.Set(ctx, cacheKey, result)
	}

	log.Info().
		Str("simulation_id", result.SimulationID.String()).
		Int64("seed", req.Seed).
		Int("scenarios", req.NumScenarios).
		Bool("degraded", sim.Degraded).
		Msg("simulation completed")
	return result, nil
}

// engineFor returns the baseline engine, or builds one over a snapshot copy
// with the requested parameter means shifted. The 9x9 factorization is cheap
// next to the scenario loop, so per-request construction is fine.
func (s *Service) engineFor(overrides map[string]float64) (*montecarlo.Engine, error) {
	if len(overrides) == 0 {
		return s.Engine, nil
	}
	if s.Snapshot == nil {
		return nil, domain.Validationf("overrides", "parameter overrides are not supported without a snapshot")
	}
	snap := s.Snapshot
	for name, mean := range overrides {
		spec := snap.Spec(name)
		if spec == nil {
			return nil, domain.Validationf("overrides", "unknown parameter %q", name)
		}
		if mean < spec.Min || mean > spec.Max {
			return nil, domain.Validationf("overrides", "%s must be within [%.4f, %.4f], got %.4f", name, spec.Min, spec.Max, mean)
		}
		snap = snap.WithMean(name, mean)
	}
	return montecarlo.New(snap, s.Metrics, s.Workers, s.DegradedThreshold)
}

// Get loads a persisted simulation by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.SimulationRecord, error) {
	if s.DB == nil {
		return nil, ErrNotFound
	}
	var record models.SimulationRecord
	err := s.DB.WithContext(ctx).Where("simulation_id = ?", id).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) persist(ctx context.Context, req *Request, result *Result) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal simulation request: %w", err)
	}
	resJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal simulation result: %w", err)
	}

	record := &models.SimulationRecord{
		SimulationID: result.SimulationID,
		Fingerprint:  result.Fingerprint,
		Seed:         req.Seed,
		NumScenarios: req.NumScenarios,
		Request:      datatypes.JSON(reqJSON),
		Result:       datatypes.JSON(resJSON),
		Degraded:     result.Simulation.Degraded,
	}
	return s.DB.WithContext(ctx).Create(record).Error
}
