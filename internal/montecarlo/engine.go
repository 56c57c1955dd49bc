package montecarlo

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"proforma-backend/internal/domain"
	"proforma-backend/internal/engine"
	"proforma-backend/internal/params"
)

// DefaultDegradedThreshold is the failed-scenario fraction above which the
// result carries a degraded-quality warning.
const DefaultDegradedThreshold = 0.05

// Engine runs the Monte Carlo scenario loop: correlated draws, the
// deterministic DCF pipeline per scenario, classification, and aggregation.
// The sampler and metric config are read-only after construction, so one
// Engine is safe for concurrent Run calls.
type Engine struct {
	sampler           *Sampler
	metrics           engine.Config
	workers           int
	degradedThreshold float64
}

// New builds an engine over a validated snapshot. workers <= 0 means one
// worker per CPU.
func New(snap *params.Snapshot, metricsCfg engine.Config, workers int, degradedThreshold float64) (*Engine, error) {
	sampler, err := NewSampler(snap)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if degradedThreshold <= 0 {
		degradedThreshold = DefaultDegradedThreshold
	}
	return &Engine{
		sampler:           sampler,
		metrics:           metricsCfg,
		workers:           workers,
		degradedThreshold: degradedThreshold,
	}, nil
}

// RunInput is one simulation request.
type RunInput struct {
	Property     *domain.PropertyInput
	NumScenarios int
	Seed         int64
}

// Run evaluates NumScenarios independent scenarios and aggregates them.
//
// Reproducibility model: every scenario owns an independent RNG stream seeded
// deterministically from (master seed, scenario id), so results are
// bit-identical for a given seed regardless of worker count or scheduling.
//
// Cancellation: when ctx is done the engine stops issuing new scenarios and
// aggregates whatever completed, marking the result partial.
func (e *Engine) Run(ctx context.Context, in RunInput) (*domain.SimulationResult, error) {
	if in.Property == nil {
		return nil, domain.Validationf("property", "must not be nil")
	}
	if err := in.Property.Validate(); err != nil {
		return nil, err
	}
	if in.NumScenarios < 1 {
		return nil, domain.Validationf("num_scenarios", "must be at least 1, got %d", in.NumScenarios)
	}

	jobs := make(chan int)
	out := make(chan domain.Scenario, e.workers*2)

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				out <- e.evaluate(in.Property, in.Seed, id)
			}
		}()
	}

	var scenarios []domain.Scenario
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for sc := range out {
			scenarios = append(scenarios, sc)
		}
	}()

	issued := 0
feed:
	for id := 0; id < in.NumScenarios; id++ {
		select {
		case jobs <- id:
			issued++
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(out)
	<-collected
	// Stable id order keeps aggregation independent of worker scheduling.
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].ID < scenarios[j].ID })

	res := Aggregate(scenarios, in.NumScenarios, in.Seed, e.degradedThreshold)
	if issued < in.NumScenarios {
		res.Partial = true
		res.Warnings = append(res.Warnings, "simulation cancelled before all scenarios were issued")
	}

	log.Info().
		Int64("seed", in.Seed).
		Int("requested", in.NumScenarios).
		Int("completed", res.Completed).
		Int("failed", res.FailedScenarios).
		Bool("degraded", res.Degraded).
		Bool("partial", res.Partial).
		Msg("Monte Carlo run finished")
	return res, nil
}

// evaluate runs one scenario end to end. A scenario whose metrics cannot be
// computed (including IRR non-convergence) is recorded as failed with its
// error tag; it never aborts the batch.
func (e *Engine) evaluate(p *domain.PropertyInput, seed int64, id int) domain.Scenario {
	rng := rand.New(rand.NewSource(scenarioSeed(seed, id)))
	draw := e.sampler.Draw(rng)
	snap := e.sampler.Snapshot()

	growth, risk := Scores(draw, snap)
	sc := domain.Scenario{
		ID:             id,
		Assumptions:    assumptionsFromDraw(draw, snap, id),
		GrowthScore:    growth,
		RiskScore:      risk,
		Classification: Classify(growth, risk),
	}

	n, err := engine.CalculateInitialNumbers(p, &sc.Assumptions)
	if err != nil {
		sc.Failed = true
		sc.FailureReason = err.Error()
		return sc
	}
	proj, err := engine.ProjectCashFlows(p, &sc.Assumptions, n)
	if err != nil {
		sc.Failed = true
		sc.FailureReason = err.Error()
		return sc
	}
	m, err := engine.CalculateFinancialMetrics(proj, &sc.Assumptions, n, e.metrics)
	if err != nil {
		sc.Failed = true
		sc.FailureReason = err.Error()
		return sc
	}
	if !m.IRRConverged {
		sc.Failed = true
		sc.FailureReason = "irr did not converge"
		sc.Metrics = m
		return sc
	}
	sc.Metrics = m
	return sc
}

// assumptionsFromDraw maps a clamped draw vector to one scenario's
// assumptions, every parameter held constant over the horizon.
func assumptionsFromDraw(draw []float64, snap *params.Snapshot, id int) domain.Assumptions {
	at := func(name string) float64 {
		if i := snap.Index(name); i >= 0 {
			return draw[i]
		}
		return 0
	}
	a := domain.Assumptions{
		Name:              fmt.Sprintf("scenario-%d", id),
		InterestRate:      domain.Constant(at(params.ParamInterestRate)),
		CapRate:           domain.Constant(at(params.ParamCapRate)),
		VacancyRate:       domain.Constant(at(params.ParamVacancyRate)),
		RentGrowthRate:    domain.Constant(at(params.ParamRentGrowthRate)),
		ExpenseGrowthRate: domain.Constant(at(params.ParamExpenseGrowthRate)),
		AppreciationRate:  domain.Constant(at(params.ParamAppreciationRate)),
		LTVRatio:          at(params.ParamLTVRatio),
		ClosingCostPct:    at(params.ParamClosingCostPct),
		LenderReservesPct: at(params.ParamLenderReservesPct),
	}
	a.Normalize()
	return a
}

// scenarioSeed derives an independent stream seed from the master seed and
// scenario id via a splitmix64 step, so adjacent ids do not yield
// correlated math/rand states.
func scenarioSeed(master int64, id int) int64 {
	x := uint64(master) + uint64(id+1)*0x9E3779B97F4A7C15
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x)
}
