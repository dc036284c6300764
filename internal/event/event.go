// Package event defines the minimal capability surface the search engine
// needs from an instrument's per-sample event type. Instrument decoders are
// out of scope; this package only fixes the contract they must satisfy.
package event

import "time"

// Event is the capability set the search engine, candidate algebra, and
// signal builder require from a per-instrument event type. Implementers
// may be a concrete struct per instrument or a tagged sum; the engine never
// inspects anything beyond this interface.
type Event interface {
	// Time returns the UTC timestamp of the event.
	Time() time.Time

	// Channel returns the instrument energy channel the event was recorded
	// on, passed through uncalibrated.
	Channel() int

	// Group returns the detector/unit identifier the event belongs to.
	Group() int

	// Keep reports whether the event passes the instrument's quality
	// filter (an instrument may flag events as noise, overflow, or
	// otherwise untrustworthy without removing them from the stream). The
	// signal builder uses it for the filtered event sets and light curves;
	// the search engine counts every event regardless.
	Keep() bool
}
