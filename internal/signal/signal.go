// Package signal binds a surviving Candidate to its surrounding context:
// interpolated attitude, a windowed orbit, event sets at several scales,
// multi-resolution light curves, and a lightning coincidence assessment.
package signal

import (
	"time"

	"github.com/tgfscan/blink-scan/internal/config"
	"github.com/tgfscan/blink-scan/internal/event"
	"github.com/tgfscan/blink-scan/internal/lightning"
	"github.com/tgfscan/blink-scan/internal/satellite"
	"github.com/tgfscan/blink-scan/internal/search"
	"github.com/tgfscan/blink-scan/internal/trajectory"
)

// UnifiedEvent is the JSON projection of an event.Event: its capability
// set flattened to concrete fields, independent of the instrument type
// that produced it.
type UnifiedEvent struct {
	Time    time.Time `json:"time"`
	Channel int       `json:"channel"`
	Group   int       `json:"group"`
	Keep    bool      `json:"keep"`
}

func unifyEvents[E event.Event](events []E) []UnifiedEvent {
	out := make([]UnifiedEvent, len(events))
	for i, e := range events {
		out[i] = UnifiedEvent{Time: e.Time().UTC(), Channel: e.Channel(), Group: e.Group(), Keep: e.Keep()}
	}
	return out
}

// UnifiedSignal is the satellite-tag-erased, UTC-timestamped projection
// of Signal used for JSON emission. MET is parameterized on a satellite
// type and must not appear directly in a day file that a future
// instrument might mix detectors within, so this is the serialization
// boundary every output path writes through.
type UnifiedSignal struct {
	Satellite string    `json:"satellite"`
	Start     time.Time `json:"start"`
	Stop      time.Time `json:"stop"`

	BinSizeMin  time.Duration `json:"bin_size_min_ns"`
	BinSizeMax  time.Duration `json:"bin_size_max_ns"`
	BinSizeBest time.Duration `json:"bin_size_best_ns"`
	Delay       time.Duration `json:"delay_ns"`

	Count int     `json:"count"`
	Mean  float64 `json:"mean"`

	SF                   float64 `json:"sf"`
	FalsePositivePerYear float64 `json:"false_positive_per_year"`

	Attitude trajectory.TemporalState[trajectory.Attitude] `json:"attitude"`
	Orbit    trajectory.Trajectory[trajectory.Position]    `json:"orbit"`

	EventsExtended     []UnifiedEvent `json:"events_extended"`
	EventsFull         []UnifiedEvent `json:"events_full"`
	EventsBest         []UnifiedEvent `json:"events_best"`
	EventsFilteredFull []UnifiedEvent `json:"events_filtered_full"`
	EventsFilteredBest []UnifiedEvent `json:"events_filtered_best"`

	LightCurves LightCurves `json:"light_curves"`

	PeakTime          time.Time          `json:"peak_time"`
	CoincidenceProb   float64            `json:"coincidence_prob"`
	AssociatedStrokes []lightning.Stroke `json:"associated_strokes"`
}

// Unify projects a Signal to its satellite-tag-erased JSON form.
func Unify[S satellite.Satellite, E event.Event](sig Signal[S, E]) UnifiedSignal {
	var s S
	return UnifiedSignal{
		Satellite:            s.Name(),
		Start:                sig.Start.ToUTC(),
		Stop:                 sig.Stop.ToUTC(),
		BinSizeMin:           sig.BinSizeMin,
		BinSizeMax:           sig.BinSizeMax,
		BinSizeBest:          sig.BinSizeBest,
		Delay:                sig.Delay,
		Count:                sig.Count,
		Mean:                 sig.Mean,
		SF:                   sig.SF,
		FalsePositivePerYear: sig.FalsePositivePerYear,
		Attitude:             sig.Attitude,
		Orbit:                sig.Orbit,
		EventsExtended:       unifyEvents(sig.EventsExtended),
		EventsFull:           unifyEvents(sig.EventsFull),
		EventsBest:           unifyEvents(sig.EventsBest),
		EventsFilteredFull:   unifyEvents(sig.EventsFilteredFull),
		EventsFilteredBest:   unifyEvents(sig.EventsFilteredBest),
		LightCurves:          sig.LightCurves,
		PeakTime:             sig.PeakTime,
		CoincidenceProb:      sig.CoincidenceProb,
		AssociatedStrokes:    sig.AssociatedStrokes,
	}
}

// MET is a local alias matching search's spelling.
type MET[S satellite.Satellite] = search.MET[S]

// LightCurves holds the four light curve histograms the builder emits for
// a Signal: two resolutions, each run on the filtered and unfiltered event
// streams.
type LightCurves struct {
	Seconds1Bins10ms     []uint32
	Seconds1Bins10msKept []uint32
	Ms100Bins1ms         []uint32
	Ms100Bins1msKept     []uint32
}

// Signal is a Candidate enriched with the context needed for downstream
// scientific review: the spacecraft's orientation and orbit around the
// trigger, the events that produced it, and any coincident lightning.
type Signal[S satellite.Satellite, E event.Event] struct {
	Start MET[S]
	Stop  MET[S]

	BinSizeMin  time.Duration
	BinSizeMax  time.Duration
	BinSizeBest time.Duration
	Delay       time.Duration

	Count int
	Mean  float64

	SF                   float64
	FalsePositivePerYear float64

	Attitude trajectory.TemporalState[trajectory.Attitude]
	Orbit    trajectory.Trajectory[trajectory.Position]

	EventsExtended     []E
	EventsFull         []E
	EventsBest         []E
	EventsFilteredFull []E
	EventsFilteredBest []E

	LightCurves LightCurves

	PeakTime             time.Time
	CoincidenceProb      float64
	AssociatedStrokes    []lightning.Stroke
}

// LightCurve buckets times into min(100, total/binWidth) bins starting at
// start; events before start or past the last bin boundary are dropped
// rather than clamped into an edge bin, matching the truncating behavior
// of the upstream histogram routine this is grounded on.
func LightCurve(times []time.Time, start time.Time, binWidth, total time.Duration) []uint32 {
	numBins := int(total / binWidth)
	if numBins > 100 {
		numBins = 100
	}
	if numBins <= 0 {
		return nil
	}

	bins := make([]uint32, numBins)
	for _, t := range times {
		if t.Before(start) {
			continue
		}
		idx := int(t.Sub(start) / binWidth)
		if idx < 0 || idx >= numBins {
			continue
		}
		bins[idx]++
	}
	return bins
}

func eventTimes[E event.Event](events []E) []time.Time {
	times := make([]time.Time, len(events))
	for i, e := range events {
		times[i] = e.Time()
	}
	return times
}

func filterByWindow[E event.Event](events []E, start, stop time.Time) []E {
	var out []E
	for _, e := range events {
		t := e.Time()
		if !t.Before(start) && !t.After(stop) {
			out = append(out, e)
		}
	}
	return out
}

func filterKept[E event.Event](events []E) []E {
	var out []E
	for _, e := range events {
		if e.Keep() {
			out = append(out, e)
		}
	}
	return out
}

// Build assembles a Signal from a surviving candidate. allEvents is the
// full, unfiltered event stream for the chunk the candidate was found in.
// attitudeTraj and orbitTraj are the chunk's spacecraft state trajectories.
// strokes is a pre-queried, broadly time-windowed slice of lightning
// strokes for the lightning store's own time-window query; Build narrows
// it further by distance and association window. Build returns false if
// the candidate's attitude cannot be interpolated, or if the sanity cap on
// filtered full-window event count is exceeded.
func Build[S satellite.Satellite, E event.Event](
	candidate search.Candidate[S],
	allEvents []E,
	attitudeTraj trajectory.Trajectory[trajectory.Attitude],
	orbitTraj trajectory.Trajectory[trajectory.Position],
	strokes []lightning.Stroke,
	cfg *config.TuningConfig,
) (Signal[S, E], bool) {
	startUTC := candidate.Start.ToUTC()
	stopUTC := candidate.Stop.ToUTC()

	attitude, ok := attitudeTraj.Interpolate(startUTC)
	if !ok {
		return Signal[S, E]{}, false
	}

	orbit := orbitTraj.Window(startUTC, cfg.GetOrbitWindowHalfWidth())

	extHalf := cfg.GetExtendedHalfWidth()
	eventsExtended := filterByWindow(allEvents, startUTC.Add(-extHalf), stopUTC.Add(extHalf))
	eventsFull := filterByWindow(allEvents, startUTC, stopUTC)

	bestStart := startUTC.Add(candidate.Delay)
	bestStop := bestStart.Add(candidate.BinSizeBest)
	eventsBest := filterByWindow(allEvents, bestStart, bestStop)

	eventsFilteredFull := filterKept(eventsFull)
	eventsFilteredBest := filterKept(eventsBest)

	if len(eventsFilteredFull) >= cfg.GetMaxFilteredFullEvents() {
		return Signal[S, E]{}, false
	}

	extendedTimes := eventTimes(eventsExtended)
	filteredExtendedTimes := eventTimes(filterKept(eventsExtended))

	lc := LightCurves{
		Seconds1Bins10ms:     LightCurve(extendedTimes, startUTC.Add(-500*time.Millisecond), 10*time.Millisecond, time.Second),
		Seconds1Bins10msKept: LightCurve(filteredExtendedTimes, startUTC.Add(-500*time.Millisecond), 10*time.Millisecond, time.Second),
		Ms100Bins1ms:         LightCurve(extendedTimes, startUTC.Add(-50*time.Millisecond), time.Millisecond, 100*time.Millisecond),
		Ms100Bins1msKept:     LightCurve(filteredExtendedTimes, startUTC.Add(-50*time.Millisecond), time.Millisecond, 100*time.Millisecond),
	}

	peakTime := startUTC.Add(candidate.Delay).Add(candidate.BinSizeBest / 2)

	sig := Signal[S, E]{
		Start:              candidate.Start,
		Stop:               candidate.Stop,
		BinSizeMin:         candidate.BinSizeMin,
		BinSizeMax:         candidate.BinSizeMax,
		BinSizeBest:        candidate.BinSizeBest,
		Delay:              candidate.Delay,
		Count:              candidate.Count,
		Mean:               candidate.Mean,
		SF:                 candidate.SF(),
		FalsePositivePerYear: candidate.FalsePositivePerYear(),
		Attitude:           attitude,
		Orbit:              orbit,
		EventsExtended:     eventsExtended,
		EventsFull:         eventsFull,
		EventsBest:         eventsBest,
		EventsFilteredFull: eventsFilteredFull,
		EventsFilteredBest: eventsFilteredBest,
		LightCurves:        lc,
		PeakTime:           peakTime,
	}

	if peakPos, ok := orbitTraj.Interpolate(peakTime); ok {
		sample := lightning.Sample{
			Time: peakTime,
			Lat:  peakPos.State.Latitude,
			Lon:  peakPos.State.Longitude,
			Alt:  peakPos.State.Altitude,
		}
		distToleranceM := cfg.GetLightningDistanceM()
		for _, stroke := range strokes {
			if lightning.IsAssociated(sample, stroke, cfg.GetLightningTimeTolerance(), distToleranceM) {
				sig.AssociatedStrokes = append(sig.AssociatedStrokes, stroke)
			}
		}
		sig.CoincidenceProb = lightning.CoincidenceProb(sample, strokes, cfg.GetLightningTimeTolerance(), distToleranceM, cfg.GetLightningTimeWindow())
	}

	return sig, true
}
