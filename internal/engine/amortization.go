package engine

import "math"

// AnnualDebtService returns the yearly debt service for a standard fixed-rate
// mortgage amortized monthly over termYears. Zero principal means zero debt.
func AnnualDebtService(principal, annualRate float64, termYears int) float64 {
	if principal <= 0 || termYears <= 0 {
		return 0
	}
	months := float64(termYears * 12)
	if annualRate == 0 {
		return principal / float64(termYears)
	}
	r := annualRate / 12
	monthly := principal * r / (1 - math.Pow(1+r, -months))
	return monthly * 12
}

// RemainingBalance returns the outstanding principal after afterYears of
// scheduled monthly payments.
func RemainingBalance(principal, annualRate float64, termYears, afterYears int) float64 {
	if principal <= 0 || termYears <= 0 {
		return 0
	}
	if afterYears >= termYears {
		return 0
	}
	n := float64(termYears * 12)
	k := float64(afterYears * 12)
	if annualRate == 0 {
		return principal * (n - k) / n
	}
	r := annualRate / 12
	// Balance formula for a level-payment loan after k of n payments.
	return principal * (math.Pow(1+r, n) - math.Pow(1+r, k)) / (math.Pow(1+r, n) - 1)
}
