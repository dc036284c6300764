// Package lightning implements the per-stroke association test and the
// chance-coincidence probability estimator: the probability that a random
// instant within a background window around a satellite sample would be
// associated with some stroke, used to rate how likely a trigger's
// lightning association is to have occurred by chance.
package lightning

import (
	"sort"
	"time"

	"github.com/tgfscan/blink-scan/internal/geodesy"
)

// Stroke is a single lightning detection from a ground network database.
// StationCount is the number of stations whose waveforms contributed to
// the location solution; EstimatedStationCount, when the network reports
// it, is a separate estimate of how many stations detected the stroke at
// all (not all of which necessarily made it into the solution). Energy,
// EnergyUncertainty, and EstimatedStationCount are carried through from
// the source schema but not consumed by the association or coincidence
// algorithms themselves.
type Stroke struct {
	Time         time.Time
	Lat          float64
	Lon          float64
	Residual     float64
	StationCount int

	Energy                *float64
	EnergyUncertainty     *float64
	EstimatedStationCount *int
}

// Sample is a satellite position sample at a UTC instant, the anchor point
// every association and coincidence computation is evaluated against.
type Sample struct {
	Time time.Time
	Lat  float64
	Lon  float64
	Alt  float64
}

// IsAssociated reports whether stroke's predicted emission time, as seen
// at sample, falls within timeTolerance of the stroke's recorded time, and
// the great-circle distance between them is within distanceToleranceM.
func IsAssociated(sample Sample, stroke Stroke, timeTolerance time.Duration, distanceToleranceM float64) bool {
	dist := geodesy.Distance(sample.Lat, sample.Lon, stroke.Lat, stroke.Lon)
	toa := geodesy.TimeOfArrival(dist, sample.Alt, geodesy.LightningAltitude)
	fixedTime := sample.Time.Add(-toa)

	delta := stroke.Time.Sub(fixedTime)
	if delta < 0 {
		delta = -delta
	}
	return delta <= timeTolerance && dist <= distanceToleranceM
}

type window struct {
	start, end time.Time
}

// CoincidenceProb estimates the probability that a random instant within
// the background window around sample would be associated with some
// stroke in candidates (already broadly prefiltered by time by the
// caller's store query). It is the length of the union of per-stroke
// acceptance intervals inside the background window, normalised to that
// window's length.
func CoincidenceProb(sample Sample, candidates []Stroke, timeTolerance time.Duration, distanceToleranceM float64, timeWindow time.Duration) float64 {
	timeStart := sample.Time.Add(-timeTolerance - time.Second - timeWindow/2)
	timeEnd := sample.Time.Add(timeTolerance + time.Second + timeWindow/2)

	var windows []window
	for _, stroke := range candidates {
		dist := geodesy.Distance(sample.Lat, sample.Lon, stroke.Lat, stroke.Lon)
		if dist > distanceToleranceM {
			continue
		}
		toa := geodesy.TimeOfArrival(dist, sample.Alt, geodesy.LightningAltitude)
		fixedTime := stroke.Time.Add(toa)
		windows = append(windows, window{
			start: fixedTime.Add(-timeTolerance),
			end:   fixedTime.Add(timeTolerance),
		})
	}

	if len(windows) == 0 {
		return 0
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].start.Before(windows[j].start) })

	coalesced := []window{windows[0]}
	for _, w := range windows[1:] {
		last := &coalesced[len(coalesced)-1]
		if !w.start.After(last.end) {
			if w.end.After(last.end) {
				last.end = w.end
			}
		} else {
			coalesced = append(coalesced, w)
		}
	}

	totalWindow := time.Duration(0)
	for _, w := range coalesced {
		start := w.start
		if timeStart.After(start) {
			start = timeStart
		}
		end := w.end
		if timeEnd.Before(end) {
			end = timeEnd
		}
		if start.Before(end) {
			totalWindow += end.Sub(start)
		}
	}

	totalTime := timeEnd.Sub(timeStart)
	if totalTime <= 0 {
		return 0
	}
	return float64(totalWindow) / float64(totalTime)
}
