package search

import (
	"time"

	"github.com/tgfscan/blink-scan/internal/metclock"
	"github.com/tgfscan/blink-scan/internal/poisson"
	"github.com/tgfscan/blink-scan/internal/satellite"
)

// Candidate is a detected excess: a time span whose photon count is
// statistically improbable against a locally estimated Poisson background,
// together with the bookkeeping needed to compare and merge it against
// candidates found at other scan scales.
type Candidate[S satellite.Satellite] struct {
	Start MET[S]
	Stop  MET[S]

	BinSizeMin  time.Duration
	BinSizeMax  time.Duration
	BinSizeBest time.Duration
	Delay       time.Duration

	Count int
	Mean  float64
}

// MET is a local alias so candidate.go doesn't need to repeat the
// satellite-constraint spelling everywhere.
type MET[S satellite.Satellite] = metclock.MET[S]

// NewCandidate builds a Candidate spanning [start, stop] at a single scale;
// bin_size_min/max/best all equal the span, and delay is zero.
func NewCandidate[S satellite.Satellite](start, stop MET[S], count int, mean float64) Candidate[S] {
	span := stop.Diff(start)
	return Candidate[S]{
		Start:       start,
		Stop:        stop,
		BinSizeMin:  span,
		BinSizeMax:  span,
		BinSizeBest: span,
		Delay:       0,
		Count:       count,
		Mean:        mean,
	}
}

// SF returns the Poisson survival probability of this candidate's count
// against its equivalent background mean.
func (c Candidate[S]) SF() float64 {
	return poisson.SF(c.Mean, c.Count)
}

// FalsePositivePerYear annualizes SF() over the candidate's best-scale
// bin size.
func (c Candidate[S]) FalsePositivePerYear() float64 {
	return poisson.FalsePositivePerYear(c.SF(), c.BinSizeBest.Seconds())
}

// Mergeable reports whether other touches or overlaps this candidate,
// allowing for a fractional extension of the wider of the two bin sizes
// (vision). Inside the search engine's own emit loop vision is always 0,
// meaning the two spans must literally touch or overlap.
func (c Candidate[S]) Mergeable(other Candidate[S], vision float64) bool {
	maxBin := c.BinSizeMax
	if other.BinSizeMax > maxBin {
		maxBin = other.BinSizeMax
	}
	extension := time.Duration(float64(maxBin) * vision)
	return !c.Stop.Add(extension).Before(other.Start)
}

// Merge widens c's span to cover other and, if other is the more
// significant of the two at its own scale, adopts other's count, mean,
// and best bin size as the representative scale for the merged candidate.
func (c Candidate[S]) Merge(other Candidate[S]) Candidate[S] {
	res := c

	if other.Stop.After(res.Stop) {
		res.Stop = other.Stop
	}
	if other.BinSizeMin < res.BinSizeMin {
		res.BinSizeMin = other.BinSizeMin
	}
	if other.BinSizeMax > res.BinSizeMax {
		res.BinSizeMax = other.BinSizeMax
	}

	if other.FalsePositivePerYear() < res.FalsePositivePerYear() {
		res.Count = other.Count
		res.Mean = other.Mean
		res.BinSizeBest = other.BinSizeBest
		res.Delay = other.Start.Diff(res.Start)
	}

	return res
}
