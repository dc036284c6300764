// Package poisson provides the Poisson survival and inverse-survival
// functions used to score candidate excesses against a local background
// rate, plus an inverse-survival cache keyed by the rounded mean to avoid
// repeated iterative inversion during a scan.
package poisson

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// DaysPerYear is the Julian year length used to annualize a false-positive
// rate estimated over a candidate's duration.
const DaysPerYear = 365.25

// SF returns the Poisson survival function P(X >= count) for a
// distribution with the given mean. By convention, a zero mean with zero
// count is certain (sf = 0, no excess), while a zero mean with any
// positive count gets sf = 1, the least significant score, so an excess
// against an empty background never clears a false-positive threshold.
// For a positive mean the upper tail is evaluated directly as the
// regularized lower incomplete gamma function P(count, mean), which stays
// accurate for tails far below float64 epsilon.
func SF(mean float64, count int) float64 {
	switch {
	case mean == 0 && count == 0:
		return 0
	case mean == 0:
		return 1
	case count <= 0:
		return 1
	default:
		return mathext.GammaIncReg(float64(count), mean)
	}
}

// FalsePositivePerYear annualizes a survival-function probability over the
// duration it was evaluated against, extrapolating to an expected number
// of equally significant false triggers per year of continuous data.
func FalsePositivePerYear(sf float64, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	secondsPerYear := 3600.0 * 24.0 * DaysPerYear
	return sf * (secondsPerYear / duration)
}

// ISF is the inverse survival function: the smallest count k such that
// P(X >= k) <= p for a Poisson distribution with the given mean. Computed
// by direct forward accumulation of the Poisson pmf in log space, matching
// the iterative definition used upstream rather than a closed-form
// quantile (which would require continuity correction subtleties at small
// means).
func ISF(p, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	k := 0
	cumulative := math.Exp(-lambda)
	part := 0.0
	for cumulative < 1.0-p {
		k++
		part += math.Log(lambda / float64(k))
		cumulative += math.Exp(-lambda + part)
	}
	return k
}

// ISFCache caches ISF results keyed by round(lambda*100), trading memory
// for the cost of repeatedly inverting the same handful of background
// rates across a scan's sliding window.
type ISFCache struct {
	p     float64
	cache []int
}

// NewISFCache creates a cache for a fixed target probability p, sized to
// hold entries for lambda up to maxLambda (in units of lambda*100).
func NewISFCache(p float64, maxLambda float64) *ISFCache {
	size := int(maxLambda*100) + 1
	if size < 1 {
		size = 1
	}
	return &ISFCache{p: p, cache: make([]int, size)}
}

// Get returns ISF(p, lambda), computing and caching it on first use. A
// lambda of zero is unfilled by convention and always returns 0. Lambdas
// beyond the cache's capacity bypass the cache and are computed directly.
func (c *ISFCache) Get(lambda float64) int {
	idx := int(math.Round(lambda * 100))
	if idx == 0 {
		return 0
	}
	if idx >= len(c.cache) {
		return ISF(c.p, lambda)
	}
	if c.cache[idx] == 0 {
		c.cache[idx] = ISF(c.p, lambda)
	}
	return c.cache[idx]
}
