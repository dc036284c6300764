// Package adapter fixes the contract between the search core and the
// instrument-specific collaborators that feed it: binary telemetry
// decoders, trajectory/attitude sources, and the lightning store. None of
// those collaborators are implemented here; this package only describes
// the shape they must have, plus the sentinel errors the harness uses to
// decide whether a failure is local to one chunk or fatal to the task.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tgfscan/blink-scan/internal/event"
	"github.com/tgfscan/blink-scan/internal/lightning"
	"github.com/tgfscan/blink-scan/internal/satellite"
	"github.com/tgfscan/blink-scan/internal/search"
	"github.com/tgfscan/blink-scan/internal/trajectory"
)

// Sentinel errors identifying the taxonomy the harness dispatches on.
// Concrete adapters should wrap one of these with fmt.Errorf("...: %w", ...)
// so callers can recover the kind with errors.Is while still reporting
// path/field context in the error string.
var (
	// ErrDataAbsent means a required input file, row, or configuration
	// path is missing. Non-fatal at chunk granularity.
	ErrDataAbsent = errors.New("adapter: data absent")

	// ErrDataMalformed means a field could not be parsed or violates an
	// invariant the decoder expects. Same policy as ErrDataAbsent.
	ErrDataMalformed = errors.New("adapter: data malformed")

	// ErrOutOfRange means a trajectory query fell outside the available
	// samples. Suppresses the one signal that needed the sample, not the
	// chunk.
	ErrOutOfRange = errors.New("adapter: query out of range")

	// ErrUnknownPair means a (satellite, detector) pair is not registered
	// with the worker. Fatal to the enclosing task.
	ErrUnknownPair = errors.New("adapter: unknown satellite/detector pair")

	// ErrIO wraps a failure reading or writing an underlying file or
	// connection, distinct from the file simply not existing.
	ErrIO = errors.New("adapter: i/o failure")
)

// Chunk is everything the harness needs to search one hour-long span of
// one satellite's telemetry: the ordered event stream, the spacecraft's
// trajectory and attitude samples over that span, and a saturation check.
// Implementations are expected to be read-only and hold all their data
// decoded in memory; the harness calls Events and LastModified once per
// chunk, and SaturationCheck, Attitude and Orbit once per candidate.
type Chunk[S satellite.Satellite, E event.Event] interface {
	// Events returns the chunk's events, ordered ascending by time and
	// deduplicated. The search engine assumes this ordering and does not
	// re-sort.
	Events() []E

	// Attitude returns the spacecraft attitude trajectory covering the
	// chunk, used to interpolate pointing at each candidate's start.
	Attitude() trajectory.Trajectory[trajectory.Attitude]

	// Orbit returns the spacecraft position trajectory covering the
	// chunk, windowed by the signal builder around each candidate.
	Orbit() trajectory.Trajectory[trajectory.Position]

	// SaturationCheck reports whether the instrument was saturated at a
	// given mission time, e.g. due to dropped telemetry frames. Instrument-
	// defined; the core treats it as an opaque boundary.
	SaturationCheck(search.MET[S]) bool

	// LastModified returns the most recent mtime over every file this
	// chunk was built from, used to decide whether a day's output is
	// stale.
	LastModified() time.Time
}

// EventSource produces Chunks for a satellite given a UTC epoch marking
// the start of the hour to load. Concrete adapters wrap instrument-
// specific binary telemetry readers; FromEpoch returns an error wrapping
// one of this package's sentinels when the chunk cannot be produced.
type EventSource[S satellite.Satellite, E event.Event] interface {
	FromEpoch(ctx context.Context, epoch time.Time) (Chunk[S, E], error)

	// LastModified reports the most recent mtime over the files backing
	// the hour starting at epoch, without decoding them. The harness uses
	// this to decide whether a day's output is already up to date before
	// paying the cost of FromEpoch and a full search.
	LastModified(ctx context.Context, epoch time.Time) (time.Time, error)
}

// LightningSource supplies the time-windowed stroke query the signal
// builder's coincidence analysis needs. It is satisfied by
// internal/store.LightningStore, and by anything else with this shape for
// testing.
type LightningSource interface {
	GetLightnings(ctx context.Context, start, end time.Time) ([]lightning.Stroke, error)
}

// UnknownPair reports an unregistered (satellite, detector) pair, wrapping
// ErrUnknownPair with the identifying context the task layer logs.
func UnknownPair(satelliteName string, detector satellite.Detector) error {
	return fmt.Errorf("%w: satellite=%s detector=%d", ErrUnknownPair, satelliteName, detector)
}
