package trajectory

import (
	"testing"
	"time"
)

func mkPoint(sec int, lon float64) TemporalState[Position] {
	return TemporalState[Position]{
		Timestamp: time.Date(2020, 1, 1, 0, 0, sec, 0, time.UTC),
		State:     Position{Longitude: lon, Latitude: 0, Altitude: 0},
	}
}

func TestInterpolateMidpoint(t *testing.T) {
	tr := Trajectory[Position]{Points: []TemporalState[Position]{mkPoint(0, 0), mkPoint(10, 100)}}
	got, ok := tr.Interpolate(time.Date(2020, 1, 1, 0, 0, 5, 0, time.UTC))
	if !ok {
		t.Fatal("expected interpolation to succeed")
	}
	if got.State.Longitude != 50 {
		t.Errorf("Longitude = %v, want 50", got.State.Longitude)
	}
}

func TestInterpolateBeforeFirstPoint(t *testing.T) {
	tr := Trajectory[Position]{Points: []TemporalState[Position]{mkPoint(10, 0), mkPoint(20, 100)}}
	// Before the first point there is no lower bracket, so nothing is
	// interpolated and the zero state is returned.
	got, ok := tr.Interpolate(time.Date(2020, 1, 1, 0, 0, 5, 0, time.UTC))
	if ok {
		t.Fatal("expected no interpolation before the first point")
	}
	if got.State.Longitude != 0 {
		t.Errorf("expected the zero state before the first point, got %v", got.State.Longitude)
	}
}

func TestInterpolateAtOrAfterLastPoint(t *testing.T) {
	tr := Trajectory[Position]{Points: []TemporalState[Position]{mkPoint(0, 0), mkPoint(10, 100)}}
	if got, ok := tr.Interpolate(time.Date(2020, 1, 1, 0, 0, 10, 0, time.UTC)); !ok || got.State.Longitude != 100 {
		t.Errorf("at the last point: got %v, %v; want the last point's state (100), true", got.State.Longitude, ok)
	}
	if _, ok := tr.Interpolate(time.Date(2020, 1, 1, 0, 0, 20, 0, time.UTC)); ok {
		t.Error("expected no interpolation after the last point")
	}
}

func TestInterpolateTooFewPoints(t *testing.T) {
	tr := Trajectory[Position]{Points: []TemporalState[Position]{mkPoint(0, 0)}}
	if _, ok := tr.Interpolate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)); ok {
		t.Error("expected no interpolation with fewer than two points")
	}
}

func TestWindow(t *testing.T) {
	tr := Trajectory[Position]{Points: []TemporalState[Position]{
		mkPoint(0, 0), mkPoint(5, 50), mkPoint(10, 100), mkPoint(15, 150),
	}}
	center := time.Date(2020, 1, 1, 0, 0, 7, 0, time.UTC)
	win := tr.Window(center, 3*time.Second)
	if len(win.Points) != 2 {
		t.Fatalf("Window() returned %d points, want 2", len(win.Points))
	}
	if win.Points[0].State.Longitude != 50 || win.Points[1].State.Longitude != 100 {
		t.Errorf("unexpected window points: %+v", win.Points)
	}
}

func TestAttitudeInterpolate(t *testing.T) {
	a := Attitude{Q1: 0, Q2: 0, Q3: 0}
	b := Attitude{Q1: 1, Q2: 1, Q3: 1}
	got := a.Interpolate(b, 0.5)
	if got.Q1 != 0.5 || got.Q2 != 0.5 || got.Q3 != 0.5 {
		t.Errorf("Interpolate() = %+v, want {0.5 0.5 0.5}", got)
	}
}

func TestPositionInterpolate(t *testing.T) {
	a := Position{Longitude: 0, Latitude: 0, Altitude: 400000}
	b := Position{Longitude: 10, Latitude: 20, Altitude: 420000}
	got := a.Interpolate(b, 0.25)
	if got.Longitude != 2.5 || got.Latitude != 5 || got.Altitude != 405000 {
		t.Errorf("Interpolate() = %+v", got)
	}
}
