package search

import (
	"time"

	"github.com/tgfscan/blink-scan/internal/satellite"
)

// Continuous removes runs of consecutive candidates whose inter-start gaps
// are all within interval of each other and whose run spans more than
// duration or contains at least count candidates. It suppresses bursts of
// spurious triggers during sustained, non-transient count-rate
// fluctuations; runs not meeting either criterion are kept in full.
// The last trigger is never removed: the run that reaches it is tested
// and vetoed without it. triggers must be sorted ascending by Start.
func Continuous[S satellite.Satellite](triggers []Candidate[S], interval, duration time.Duration, count int) []Candidate[S] {
	if len(triggers) == 0 {
		return triggers
	}

	veto := make([]bool, len(triggers))
	lastTime := triggers[0].Start
	begin := 0

	for i := 1; i < len(triggers); i++ {
		t := triggers[i].Start
		if t.Diff(lastTime) > interval || i == len(triggers)-1 {
			if lastTime.Diff(triggers[begin].Start) > duration || i-begin >= count {
				for j := begin; j < i; j++ {
					veto[j] = true
				}
			}
			begin = i
		}
		lastTime = t
	}

	out := make([]Candidate[S], 0, len(triggers))
	for i, c := range triggers {
		if !veto[i] {
			out = append(out, c)
		}
	}
	return out
}

// SaturationPredicate checks whether the instrument was saturated (e.g.
// dropped telemetry frames) at a given mission time. Instrument-defined;
// the search engine and candidate algebra treat it as an opaque boundary.
type SaturationPredicate[S satellite.Satellite] func(MET[S]) bool

// SaturationVeto drops every candidate for which pred reports saturation
// at the candidate's start.
func SaturationVeto[S satellite.Satellite](candidates []Candidate[S], pred SaturationPredicate[S]) []Candidate[S] {
	out := make([]Candidate[S], 0, len(candidates))
	for _, c := range candidates {
		if !pred(c.Start) {
			out = append(out, c)
		}
	}
	return out
}
