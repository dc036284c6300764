// Package search implements the snapshot-stepping multi-scale excess
// detector: a sliding window over an ordered event stream that, at every
// left anchor and every extension scale, compares the observed count
// against a two-sided Poisson background estimate and emits a Candidate
// whenever the resulting false-positive rate clears a configured
// per-year threshold.
package search

import (
	"sort"

	"github.com/tgfscan/blink-scan/internal/config"
	"github.com/tgfscan/blink-scan/internal/event"
	"github.com/tgfscan/blink-scan/internal/metclock"
	"github.com/tgfscan/blink-scan/internal/poisson"
	"github.com/tgfscan/blink-scan/internal/satellite"
)

// Search scans data (assumed sorted ascending by time) for statistically
// significant excesses between start and stop, using groupNumber disjoint
// per-group background estimates. data is expected to begin at or before
// start; events strictly before start participate in no window because the
// search only ever anchors its left cursor at or after start.
func Search[S satellite.Satellite, E event.Event](
	data []E,
	groupNumber int,
	start, stop MET[S],
	cfg *config.TuningConfig,
) []Candidate[S] {
	var result []Candidate[S]
	if len(data) == 0 || groupNumber <= 0 {
		return result
	}

	mets := make([]MET[S], len(data))
	for i, e := range data {
		mets[i] = metclock.FromUTC[S](e.Time())
	}

	minDuration := cfg.GetMinDuration()
	maxDuration := cfg.GetMaxDuration()
	neighbor := cfg.GetNeighbor()
	hollow := cfg.GetHollow()
	fpPerYear := cfg.GetFalsePositivePerYear()
	minNumber := cfg.GetMinNumber()

	cursor := sort.Search(len(mets), func(i int) bool { return !mets[i].Before(start) })
	if cursor >= len(mets) || !mets[cursor].Before(stop) {
		return result
	}

	meanStartSnap, meanStopSnap := cursor, cursor
	meanNumbersSnap := make([]int, groupNumber)
	meanNumbersSnap[data[cursor].Group()]++
	for meanStopSnap+1 < len(mets) && mets[meanStopSnap+1].Diff(mets[cursor]) < neighbor/2 {
		meanStopSnap++
		meanNumbersSnap[data[meanStopSnap].Group()]++
	}

	hollowStartSnap, hollowStopSnap := cursor, cursor
	hollowNumbersSnap := make([]int, groupNumber)
	hollowNumbersSnap[data[cursor].Group()]++
	for hollowStopSnap+1 < len(mets) && mets[hollowStopSnap+1].Diff(mets[cursor]) < hollow/2 {
		hollowStopSnap++
		hollowNumbersSnap[data[hollowStopSnap].Group()]++
	}

	for {
		numbers := make([]int, groupNumber)
		numbers[data[cursor].Group()]++

		meanStop := meanStopSnap
		meanNumbers := append([]int(nil), meanNumbersSnap...)
		hollowStop := hollowStopSnap
		hollowNumbers := append([]int(nil), hollowNumbersSnap...)

		step := 0
		for {
			totalNumber := sum(numbers)
			duration := mets[cursor+step].Diff(mets[cursor])

			if totalNumber >= minNumber && duration >= minDuration {
				meanStartTime := maxMET(mets[cursor].Sub(neighbor/2), start)
				meanStopTime := minMET(mets[cursor+step].Add(neighbor/2), stop)
				hollowStartTime := maxMET(mets[cursor].Sub(hollow/2), start)
				hollowStopTime := minMET(mets[cursor+step].Add(hollow/2), stop)

				pureMeanDuration := meanStopTime.Diff(meanStartTime) - hollowStopTime.Diff(hollowStartTime)

				var purePercent float64
				if pureMeanDuration > 0 {
					purePercent = duration.Seconds() / pureMeanDuration.Seconds()
				}

				fps := make([]float64, groupNumber)
				for g := 0; g < groupNumber; g++ {
					pureMeanNumber := meanNumbers[g] - hollowNumbers[g]
					equivalentBackground := float64(pureMeanNumber) * purePercent
					fps[g] = poisson.SF(equivalentBackground, numbers[g])
				}
				fp := fps[0]

				threshold := fpPerYear / (secondsPerYear / duration.Seconds())

				if fp < threshold {
					totalEquivalentBackground := 0.0
					for g := 0; g < groupNumber; g++ {
						totalEquivalentBackground += float64(meanNumbers[g]-hollowNumbers[g]) * purePercent
					}

					current := NewCandidate[S](mets[cursor], mets[cursor+step], totalNumber, totalEquivalentBackground)

					if n := len(result); n > 0 && result[n-1].Mergeable(current, 0.0) {
						result[n-1] = result[n-1].Merge(current)
					} else {
						result = append(result, current)
					}
				}
			}

			step++
			if cursor+step >= len(mets) ||
				mets[cursor+step].Diff(mets[cursor]) >= maxDuration ||
				!mets[cursor+step].Before(stop) {
				break
			}
			numbers[data[cursor+step].Group()]++

			for meanStop+1 < len(mets) && mets[meanStop+1].Diff(mets[cursor+step]) < neighbor/2 {
				meanStop++
				meanNumbers[data[meanStop].Group()]++
			}
			for hollowStop+1 < len(mets) && mets[hollowStop+1].Diff(mets[cursor+step]) < hollow/2 {
				hollowStop++
				hollowNumbers[data[hollowStop].Group()]++
			}
		}

		cursor++
		if cursor >= len(mets) || !mets[cursor].Before(stop) {
			break
		}

		for meanStartSnap+1 < len(mets) && mets[cursor].Diff(mets[meanStartSnap+1]) > neighbor/2 {
			meanNumbersSnap[data[meanStartSnap].Group()]--
			meanStartSnap++
		}
		for meanStopSnap+1 < len(mets) && mets[meanStopSnap+1].Diff(mets[cursor]) < neighbor/2 {
			meanStopSnap++
			meanNumbersSnap[data[meanStopSnap].Group()]++
		}
		for hollowStartSnap+1 < len(mets) && mets[cursor].Diff(mets[hollowStartSnap+1]) > hollow/2 {
			hollowNumbersSnap[data[hollowStartSnap].Group()]--
			hollowStartSnap++
		}
		for hollowStopSnap+1 < len(mets) && mets[hollowStopSnap+1].Diff(mets[cursor]) < hollow/2 {
			hollowStopSnap++
			hollowNumbersSnap[data[hollowStopSnap].Group()]++
		}
	}

	return result
}

const secondsPerYear = 3600.0 * 24.0 * poisson.DaysPerYear

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func maxMET[S satellite.Satellite](a, b MET[S]) MET[S] {
	if a.After(b) {
		return a
	}
	return b
}

func minMET[S satellite.Satellite](a, b MET[S]) MET[S] {
	if a.Before(b) {
		return a
	}
	return b
}
