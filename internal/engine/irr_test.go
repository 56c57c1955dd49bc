package engine

import (
	"math"
	"testing"

	"proforma-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalRateOfReturn_KnownStream(t *testing.T) {
	// -1000 now, 1100 in one year → exactly 10%.
	irr, err := InternalRateOfReturn([]float64{-1000, 1100})
	require.NoError(t, err)
	assert.InDelta(t, 0.10, irr, 1e-6)
}

func TestInternalRateOfReturn_NPVAtIRRIsZero(t *testing.T) {
	flows := []float64{-713_000, 297_000, 305_000, 313_000, 322_000, 331_000, 7_100_000}
	irr, err := InternalRateOfReturn(flows)
	require.NoError(t, err)

	npv := NPVAt(irr, flows)
	scale := math.Abs(flows[0])
	assert.Less(t, math.Abs(npv)/scale, 1e-4, "NPV at IRR must be ~0, got %f", npv)
}

func TestInternalRateOfReturn_AllNegativeNoRoot(t *testing.T) {
	_, err := InternalRateOfReturn([]float64{-1000, -50, -50, -50})
	var cerr *domain.ConvergenceError
	require.ErrorAs(t, err, &cerr)
}

func TestInternalRateOfReturn_AllPositiveNoRoot(t *testing.T) {
	_, err := InternalRateOfReturn([]float64{1000, 50, 50})
	var cerr *domain.ConvergenceError
	require.ErrorAs(t, err, &cerr)
}

func TestNPVAt_ZeroRateIsSum(t *testing.T) {
	assert.InDelta(t, 150, NPVAt(0, []float64{-100, 100, 150}), 1e-9)
}

func TestNPVAt_DiscountsFutureFlows(t *testing.T) {
	// 110 one year out at 10% is worth 100 today.
	assert.InDelta(t, 0, NPVAt(0.10, []float64{-100, 110}), 1e-9)
}
