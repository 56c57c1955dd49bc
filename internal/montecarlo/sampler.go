package montecarlo

import (
	"fmt"
	"math"
	"math/rand"

	"proforma-backend/internal/params"
)

// Cholesky factors a correlation matrix C into lower-triangular L with
// C = L·Lᵀ. Fails when the matrix is not positive definite.
func Cholesky(corr [][]float64) ([][]float64, error) {
	n := len(corr)
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := 0.0
			for k := 0; k < j; k++ {
				sum += L[i][k] * L[j][k]
			}
			if i == j {
				d := corr[i][i] - sum
				if d <= 0 {
					return nil, fmt.Errorf("correlation matrix not positive definite at row %d", i)
				}
				L[i][i] = math.Sqrt(d)
			} else {
				L[i][j] = (corr[i][j] - sum) / L[j][j]
			}
		}
	}
	return L, nil
}

// CorrelatedDraws draws n samples from a multivariate normal with the given
// marginals and correlation matrix: independent standard normals are mixed
// through the Cholesky factor, then scaled to mean + std. No clamping here;
// this is the isolated, independently testable sampling step.
func CorrelatedDraws(means, stds []float64, corr [][]float64, n int, rng *rand.Rand) ([][]float64, error) {
	k := len(means)
	if len(stds) != k || len(corr) != k {
		return nil, fmt.Errorf("dimension mismatch: %d means, %d stds, %d correlation rows", k, len(stds), len(corr))
	}
	L, err := Cholesky(corr)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, n)
	z := make([]float64, k)
	for s := 0; s < n; s++ {
		for i := range z {
			z[i] = rng.NormFloat64()
		}
		row := make([]float64, k)
		for i := 0; i < k; i++ {
			mix := 0.0
			for j := 0; j <= i; j++ {
				mix += L[i][j] * z[j]
			}
			row[i] = means[i] + stds[i]*mix
		}
		out[s] = row
	}
	return out, nil
}

// Sampler draws clamped, correlated parameter vectors from a snapshot. The
// Cholesky factor is computed once at construction and shared read-only
// across scenario workers.
type Sampler struct {
	snap  *params.Snapshot
	chol  [][]float64
	means []float64
	stds  []float64
	mins  []float64
	maxs  []float64
}

// NewSampler validates the snapshot and prefactors its correlation matrix.
func NewSampler(snap *params.Snapshot) (*Sampler, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	chol, err := Cholesky(snap.Correlation)
	if err != nil {
		return nil, err
	}
	k := len(snap.Parameters)
	s := &Sampler{
		snap:  snap,
		chol:  chol,
		means: make([]float64, k),
		stds:  make([]float64, k),
		mins:  make([]float64, k),
		maxs:  make([]float64, k),
	}
	for i, p := range snap.Parameters {
		s.means[i] = p.Mean
		s.stds[i] = p.StdDev
		s.mins[i] = p.Min
		s.maxs[i] = p.Max
	}
	return s, nil
}

// Draw produces one correlated parameter vector clamped to each parameter's
// domain, in snapshot order.
func (s *Sampler) Draw(rng *rand.Rand) []float64 {
	k := len(s.means)
	z := make([]float64, k)
	for i := range z {
		z[i] = rng.NormFloat64()
	}
	row := make([]float64, k)
	for i := 0; i < k; i++ {
		mix := 0.0
		for j := 0; j <= i; j++ {
			mix += s.chol[i][j] * z[j]
		}
		v := s.means[i] + s.stds[i]*mix
		if v < s.mins[i] {
			v = s.mins[i]
		}
		if v > s.maxs[i] {
			v = s.maxs[i]
		}
		row[i] = v
	}
	return row
}

// Snapshot returns the sampler's read-only parameter snapshot.
func (s *Sampler) Snapshot() *params.Snapshot {
	return s.snap
}
