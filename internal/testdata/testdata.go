// Package testdata provides a synthetic, entirely in-memory EventSource
// and Chunk, standing in for the binary telemetry decoders that are out of
// scope for this module. It exists so the harness and cmd/blink-scan
// tests have a realistic end-to-end fixture to drive without a real
// instrument file on disk.
package testdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tgfscan/blink-scan/internal/adapter"
	"github.com/tgfscan/blink-scan/internal/satellite"
	"github.com/tgfscan/blink-scan/internal/search"
	"github.com/tgfscan/blink-scan/internal/trajectory"
)

// Event is a minimal event.Event implementation carrying only what the
// search core and signal builder read.
type Event struct {
	At       time.Time
	Ch       int
	Grp      int
	Keepable bool
}

func (e Event) Time() time.Time { return e.At }
func (e Event) Channel() int    { return e.Ch }
func (e Event) Group() int      { return e.Grp }
func (e Event) Keep() bool      { return e.Keepable }

// Chunk is a fixed, in-memory implementation of adapter.Chunk[S, Event].
type Chunk[S satellite.Satellite] struct {
	events       []Event
	attitude     trajectory.Trajectory[trajectory.Attitude]
	orbit        trajectory.Trajectory[trajectory.Position]
	saturated    map[int64]bool // met seconds bucket -> saturated
	lastModified time.Time
}

func (c Chunk[S]) Events() []Event                                      { return c.events }
func (c Chunk[S]) Attitude() trajectory.Trajectory[trajectory.Attitude] { return c.attitude }
func (c Chunk[S]) Orbit() trajectory.Trajectory[trajectory.Position]    { return c.orbit }
func (c Chunk[S]) LastModified() time.Time                              { return c.lastModified }

// SaturationCheck reports saturation for the one-second bucket containing
// t, if that bucket's whole second was listed in Source.SaturatedSeconds.
func (c Chunk[S]) SaturationCheck(t search.MET[S]) bool {
	return c.saturated[int64(t.Seconds())]
}

// Source is an in-memory adapter.EventSource[S, Event] backed by a fixed
// background rate plus any injected bursts, generated deterministically
// from its configuration rather than sampled, so tests using it are
// reproducible without seeding a PRNG.
type Source[S satellite.Satellite] struct {
	// BackgroundRate is the mean event count per second of simulated
	// background, spread evenly across GroupCount groups.
	BackgroundRate float64
	GroupCount     int

	// Bursts are additional events injected at fixed offsets from the
	// epoch passed to FromEpoch, simulating a trigger-worthy excess.
	Bursts []Burst

	// MissingEpochs causes FromEpoch to return adapter.ErrDataAbsent for
	// any epoch present in this set, simulating a missing telemetry file.
	MissingEpochs map[int64]bool

	// SaturatedSeconds lists one-second mission-time buckets (as whole
	// seconds since the satellite's reference epoch) that the saturation
	// check should report as saturated.
	SaturatedSeconds []int64
}

// Burst is a cluster of synthetic events offset from a chunk's epoch.
type Burst struct {
	Offset time.Duration
	Count  int
	Spread time.Duration
}

// FromEpoch builds one hour of synthetic events starting at epoch: one
// background event every 1/BackgroundRate seconds, assigned to the groups
// in turn, plus any
// configured bursts, plus a two-point attitude and orbit trajectory
// bracketing the hour.
func (s Source[S]) FromEpoch(ctx context.Context, epoch time.Time) (adapter.Chunk[S, Event], error) {
	if s.MissingEpochs[epoch.Unix()] {
		return nil, fmt.Errorf("%w: no telemetry file for epoch %s", adapter.ErrDataAbsent, epoch)
	}

	groupCount := s.GroupCount
	if groupCount <= 0 {
		groupCount = 1
	}

	var events []Event
	if s.BackgroundRate > 0 {
		step := time.Duration(float64(time.Second) / s.BackgroundRate)
		group := 0
		for t := epoch; t.Before(epoch.Add(time.Hour)); t = t.Add(step) {
			events = append(events, Event{At: t, Ch: 0, Grp: group % groupCount, Keepable: true})
			group++
		}
	}

	for _, b := range s.Bursts {
		start := epoch.Add(b.Offset)
		for i := 0; i < b.Count; i++ {
			var at time.Time
			if b.Count > 1 {
				at = start.Add(time.Duration(float64(b.Spread) * float64(i) / float64(b.Count-1)))
			} else {
				at = start
			}
			events = append(events, Event{At: at, Ch: 1, Grp: 0, Keepable: true})
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].At.Before(events[j].At) })

	attitude := trajectory.Trajectory[trajectory.Attitude]{
		Points: []trajectory.TemporalState[trajectory.Attitude]{
			{Timestamp: epoch.Add(-time.Hour), State: trajectory.Attitude{Q1: 0, Q2: 0, Q3: 0}},
			{Timestamp: epoch.Add(2 * time.Hour), State: trajectory.Attitude{Q1: 1, Q2: 0, Q3: 0}},
		},
	}
	orbit := trajectory.Trajectory[trajectory.Position]{
		Points: []trajectory.TemporalState[trajectory.Position]{
			{Timestamp: epoch.Add(-time.Hour), State: trajectory.Position{Latitude: 0, Longitude: 0, Altitude: 400_000}},
			{Timestamp: epoch.Add(2 * time.Hour), State: trajectory.Position{Latitude: 5, Longitude: 5, Altitude: 400_000}},
		},
	}

	saturated := make(map[int64]bool, len(s.SaturatedSeconds))
	for _, sec := range s.SaturatedSeconds {
		saturated[sec] = true
	}

	return Chunk[S]{
		events:       events,
		attitude:     attitude,
		orbit:        orbit,
		saturated:    saturated,
		lastModified: epoch.Add(time.Hour),
	}, nil
}

// LastModified reports epoch+1h for any epoch not in MissingEpochs,
// matching the mtime FromEpoch stamps its Chunk with, without building
// the chunk itself.
func (s Source[S]) LastModified(ctx context.Context, epoch time.Time) (time.Time, error) {
	if s.MissingEpochs[epoch.Unix()] {
		return time.Time{}, fmt.Errorf("%w: no telemetry file for epoch %s", adapter.ErrDataAbsent, epoch)
	}
	return epoch.Add(time.Hour), nil
}
