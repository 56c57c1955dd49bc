package montecarlo

import (
	"math"
	"math/rand"
	"testing"

	"proforma-backend/internal/params"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCholesky_Identity(t *testing.T) {
	eye := [][]float64{{1, 0}, {0, 1}}
	L, err := Cholesky(eye)
	require.NoError(t, err)
	assert.InDelta(t, 1, L[0][0], 1e-12)
	assert.InDelta(t, 0, L[1][0], 1e-12)
	assert.InDelta(t, 1, L[1][1], 1e-12)
}

func TestCholesky_Known2x2(t *testing.T) {
	rho := 0.6
	L, err := Cholesky([][]float64{{1, rho}, {rho, 1}})
	require.NoError(t, err)
	assert.InDelta(t, 1, L[0][0], 1e-12)
	assert.InDelta(t, rho, L[1][0], 1e-12)
	assert.InDelta(t, math.Sqrt(1-rho*rho), L[1][1], 1e-12)
}

func TestCholesky_NotPositiveDefinite(t *testing.T) {
	// Perfectly contradictory correlations cannot be factored.
	_, err := Cholesky([][]float64{{1, 1, -1}, {1, 1, 1}, {-1, 1, 1}})
	assert.Error(t, err)
}

func TestCholesky_DefaultSnapshotFactors(t *testing.T) {
	_, err := Cholesky(params.Default().Correlation)
	assert.NoError(t, err)
}

func TestCorrelatedDraws_ReproducesCorrelationSign(t *testing.T) {
	rho := 0.7
	means := []float64{0, 0}
	stds := []float64{1, 1}
	corr := [][]float64{{1, rho}, {rho, 1}}

	rng := rand.New(rand.NewSource(7))
	draws, err := CorrelatedDraws(means, stds, corr, 20000, rng)
	require.NoError(t, err)

	got := sampleCorrelation(draws, 0, 1)
	assert.InDelta(t, rho, got, 0.03)
}

func TestCorrelatedDraws_DimensionMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := CorrelatedDraws([]float64{0, 0}, []float64{1}, [][]float64{{1, 0}, {0, 1}}, 10, rng)
	assert.Error(t, err)
}

func TestSampler_DrawsStayInDomain(t *testing.T) {
	snap := params.Default()
	s, err := NewSampler(snap)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		draw := s.Draw(rng)
		require.Len(t, draw, len(snap.Parameters))
		for j, p := range snap.Parameters {
			assert.GreaterOrEqual(t, draw[j], p.Min, "%s below domain", p.Name)
			assert.LessOrEqual(t, draw[j], p.Max, "%s above domain", p.Name)
		}
	}
}

func TestSampler_VacancyAndRentGrowthMoveOppositely(t *testing.T) {
	snap := params.Default()
	s, err := NewSampler(snap)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(11))
	draws := make([][]float64, 20000)
	for i := range draws {
		draws[i] = s.Draw(rng)
	}
	v := snap.Index(params.ParamVacancyRate)
	r := snap.Index(params.ParamRentGrowthRate)
	assert.Negative(t, sampleCorrelation(draws, v, r))
}

func sampleCorrelation(draws [][]float64, i, j int) float64 {
	n := float64(len(draws))
	var mi, mj float64
	for _, d := range draws {
		mi += d[i]
		mj += d[j]
	}
	mi /= n
	mj /= n
	var cov, vi, vj float64
	for _, d := range draws {
		cov += (d[i] - mi) * (d[j] - mj)
		vi += (d[i] - mi) * (d[i] - mi)
		vj += (d[j] - mj) * (d[j] - mj)
	}
	return cov / math.Sqrt(vi*vj)
}
