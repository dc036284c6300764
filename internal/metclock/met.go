// Package metclock implements mission-elapsed-time arithmetic: a scalar
// count of seconds from a satellite's reference epoch, with leap-second
// aware conversion to and from UTC. The satellite identity is carried as a
// Go generic type parameter rather than a runtime tag, so that mixing two
// satellites' MET values in an arithmetic expression is a compile error.
package metclock

import (
	"fmt"
	"sort"
	"time"

	"github.com/tgfscan/blink-scan/internal/satellite"
)

// leapSeconds holds the UTC instants of every leap second inserted since
// the start of continuous leap-second bookkeeping. Each entry is the UTC
// instant of the leap second itself (23:59:60, represented as the midnight
// that follows, per Go's time package which has no 60th second). The table
// is frozen at the set known at the time this package was built.
var leapSeconds = []time.Time{
	time.Date(1972, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1973, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1974, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1975, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1976, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1977, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1978, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1979, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1981, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1982, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1983, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1985, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1988, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1992, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1993, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1994, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1996, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1997, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
}

// MET is a mission-elapsed-time value: a count of seconds from S's
// reference epoch. Two MET values of different satellite identities are
// different types and cannot be compared or combined.
type MET[S satellite.Satellite] struct {
	seconds float64
}

// New constructs a MET directly from a seconds-since-epoch value.
func New[S satellite.Satellite](seconds float64) MET[S] {
	return MET[S]{seconds: seconds}
}

// Seconds returns the raw seconds-since-epoch value.
func (m MET[S]) Seconds() float64 {
	return m.seconds
}

// ToUTC converts a MET to a UTC instant, subtracting one second for every
// leap second strictly between the satellite's reference epoch and the
// resulting UTC instant.
func (m MET[S]) ToUTC() time.Time {
	var s S
	ref := s.RefTime()

	wholeSeconds := int64(m.seconds)
	frac := m.seconds - float64(wholeSeconds)
	if frac < 0 {
		frac += 1
		wholeSeconds--
	}
	nanos := int64(frac * 1e9)

	t := ref.Add(time.Duration(wholeSeconds) * time.Second).Add(time.Duration(nanos))

	for _, leap := range leapSeconds {
		if ref.Before(leap) && t.After(leap) {
			t = t.Add(-time.Second)
		}
	}
	return t
}

// FromUTC converts a UTC instant to a MET, adding one second for every
// leap second strictly between the satellite's reference epoch and the
// given UTC instant. A value equal to a table entry counts that entry,
// since the entry stands for the 23:59:60 second just before it.
func FromUTC[S satellite.Satellite](value time.Time) MET[S] {
	var s S
	ref := s.RefTime()
	value = value.UTC()

	d := value.Sub(ref)
	seconds := d.Seconds()

	for _, leap := range leapSeconds {
		if ref.Before(leap) && !value.Before(leap) {
			seconds += 1
		}
	}
	return MET[S]{seconds: seconds}
}

// Add returns the MET advanced by d.
func (m MET[S]) Add(d time.Duration) MET[S] {
	return MET[S]{seconds: m.seconds + d.Seconds()}
}

// Sub returns the MET set back by d.
func (m MET[S]) Sub(d time.Duration) MET[S] {
	return MET[S]{seconds: m.seconds - d.Seconds()}
}

// Diff returns the duration from other to m (m - other).
func (m MET[S]) Diff(other MET[S]) time.Duration {
	return time.Duration((m.seconds - other.seconds) * float64(time.Second))
}

// Before reports whether m is strictly earlier than other.
func (m MET[S]) Before(other MET[S]) bool {
	return m.seconds < other.seconds
}

// After reports whether m is strictly later than other.
func (m MET[S]) After(other MET[S]) bool {
	return m.seconds > other.seconds
}

// Equal reports whether m and other denote the same instant.
func (m MET[S]) Equal(other MET[S]) bool {
	return m.seconds == other.seconds
}

// Compare returns -1, 0, or +1 as m is less than, equal to, or greater
// than other, for use with sort.Slice and similar.
func (m MET[S]) Compare(other MET[S]) int {
	switch {
	case m.seconds < other.seconds:
		return -1
	case m.seconds > other.seconds:
		return 1
	default:
		return 0
	}
}

func (m MET[S]) String() string {
	var s S
	return fmt.Sprintf("%s+%.6fs", s.Name(), m.seconds)
}

// SortMETs sorts a slice of MET values of the same satellite in ascending
// order. Convenience wrapper since MET does not implement sort.Interface
// directly (it has no len/backing slice of its own).
func SortMETs[S satellite.Satellite](mets []MET[S]) {
	sort.Slice(mets, func(i, j int) bool {
		return mets[i].Before(mets[j])
	})
}
