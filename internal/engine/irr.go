package engine

import (
	"math"

	"proforma-backend/internal/domain"
)

// IRR solver bounds and budget. The rate range covers -99% to +1000%;
// anything outside is not a meaningful investment return.
const (
	irrLowerBound = -0.99
	irrUpperBound = 10.0
	irrMaxIter    = 200
	irrTolerance  = 1e-7
)

// NPVAt discounts a cash-flow stream at the given rate. flows[0] is the
// time-zero flow (typically the negative cash invested).
func NPVAt(rate float64, flows []float64) float64 {
	npv := 0.0
	for t, f := range flows {
		npv += f / math.Pow(1+rate, float64(t))
	}
	return npv
}

// InternalRateOfReturn solves NPV(rate) = 0 by bisection over a bounded rate
// range with a bounded iteration count. Returns *domain.ConvergenceError when
// the stream has no root in range; callers report IRR as NaN rather than fail.
func InternalRateOfReturn(flows []float64) (float64, error) {
	lo, hi := irrLowerBound, irrUpperBound
	fLo := NPVAt(lo, flows)
	fHi := NPVAt(hi, flows)

	if fLo == 0 {
		return lo, nil
	}
	if fHi == 0 {
		return hi, nil
	}
	if fLo*fHi > 0 {
		return math.NaN(), &domain.ConvergenceError{Method: "IRR bisection", Iterations: 0}
	}

	for i := 0; i < irrMaxIter; i++ {
		mid := (lo + hi) / 2
		fMid := NPVAt(mid, flows)
		if math.Abs(fMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, nil
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo = mid
			fLo = fMid
		}
	}
	return math.NaN(), &domain.ConvergenceError{Method: "IRR bisection", Iterations: irrMaxIter}
}
