// Package trajectory implements linear interpolation over time-ordered
// state samples: spacecraft attitude quaternions and geodetic position,
// windowed and interpolated at an arbitrary query time.
package trajectory

import "time"

// Interpolatable is any state type that can be linearly blended with
// another instance of itself by a ratio in [0, 1].
type Interpolatable[T any] interface {
	Interpolate(other T, ratio float64) T
}

// TemporalState pairs a timestamp with a state sample.
type TemporalState[T Interpolatable[T]] struct {
	Timestamp time.Time
	State     T
}

// Trajectory is a time-ordered sequence of state samples. Points must be
// sorted ascending by Timestamp; callers that build a Trajectory from an
// unordered source must sort first.
type Trajectory[T Interpolatable[T]] struct {
	Points []TemporalState[T]
}

// Interpolate returns the linearly interpolated state at t, bracketing t
// between the two points that straddle it; both end points are inclusive.
// Returns false if t falls before the first point or after the last point.
func (tr Trajectory[T]) Interpolate(t time.Time) (TemporalState[T], bool) {
	if len(tr.Points) < 2 {
		return TemporalState[T]{}, false
	}
	if t.Before(tr.Points[0].Timestamp) {
		return TemporalState[T]{}, false
	}

	i := 0
	for i < len(tr.Points)-1 && tr.Points[i+1].Timestamp.Before(t) {
		i++
	}
	if i == len(tr.Points)-1 {
		return TemporalState[T]{}, false
	}

	t0 := tr.Points[i].Timestamp
	t1 := tr.Points[i+1].Timestamp
	ratio := lerpFactor(t, t0, t1)

	return TemporalState[T]{
		Timestamp: t,
		State:     tr.Points[i].State.Interpolate(tr.Points[i+1].State, ratio),
	}, true
}

// Window returns the subset of points within [center-halfWidth, center+halfWidth].
func (tr Trajectory[T]) Window(center time.Time, halfWidth time.Duration) Trajectory[T] {
	start := center.Add(-halfWidth)
	end := center.Add(halfWidth)

	out := Trajectory[T]{}
	for _, p := range tr.Points {
		if !p.Timestamp.Before(start) && !p.Timestamp.After(end) {
			out.Points = append(out.Points, p)
		}
	}
	return out
}

func lerpFactor(t, t0, t1 time.Time) float64 {
	total := t1.Sub(t0)
	if total == 0 {
		return 0
	}
	return float64(t.Sub(t0)) / float64(total)
}

// Attitude is a spacecraft orientation sample, componentwise-interpolated
// without renormalization: linear interpolation of quaternion components is
// not itself a unit quaternion, but matches the upstream instrument
// pipeline's convention for short time spans.
type Attitude struct {
	Q1, Q2, Q3 float64
}

func (a Attitude) Interpolate(other Attitude, ratio float64) Attitude {
	return Attitude{
		Q1: a.Q1 + (other.Q1-a.Q1)*ratio,
		Q2: a.Q2 + (other.Q2-a.Q2)*ratio,
		Q3: a.Q3 + (other.Q3-a.Q3)*ratio,
	}
}

// Position is a geodetic spacecraft position sample: longitude and
// latitude in degrees, altitude in meters.
type Position struct {
	Longitude float64
	Latitude  float64
	Altitude  float64
}

func (p Position) Interpolate(other Position, ratio float64) Position {
	return Position{
		Longitude: p.Longitude + (other.Longitude-p.Longitude)*ratio,
		Latitude:  p.Latitude + (other.Latitude-p.Latitude)*ratio,
		Altitude:  p.Altitude + (other.Altitude-p.Altitude)*ratio,
	}
}
