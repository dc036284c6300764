// Package satellite defines the zero-size identity tags that distinguish
// one instrument's mission-elapsed-time arithmetic from another's. Each tag
// carries a UTC reference epoch, an operational launch date, and a human
// name, and is used purely as a type parameter: no instance of a tag type
// is ever constructed.
package satellite

import "time"

// Satellite identifies a distinct instrument epoch. Implementations are
// zero-size marker types; all methods are called on the zero value.
type Satellite interface {
	// RefTime returns the UTC instant that mission-elapsed time zero refers
	// to for this satellite.
	RefTime() time.Time

	// LaunchDay returns the satellite's operational launch date.
	LaunchDay() time.Time

	// Name returns a short human-readable instrument name.
	Name() string
}

var (
	hxmtHeRefTime   = time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	hxmtHeLaunchDay = time.Date(2017, 6, 15, 0, 0, 0, 0, time.UTC)

	fermiGBMRefTime   = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	fermiGBMLaunchDay = time.Date(2008, 6, 11, 0, 0, 0, 0, time.UTC)

	svomGRMRefTime   = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	svomGRMLaunchDay = time.Date(2024, 6, 22, 0, 0, 0, 0, time.UTC)
)

// HxmtHe is the Hard X-ray Modulation Telescope's high-energy detector.
type HxmtHe struct{}

func (HxmtHe) RefTime() time.Time   { return hxmtHeRefTime }
func (HxmtHe) LaunchDay() time.Time { return hxmtHeLaunchDay }
func (HxmtHe) Name() string         { return "HXMT/HE" }

// FermiGBM is the Fermi Gamma-ray Burst Monitor.
type FermiGBM struct{}

func (FermiGBM) RefTime() time.Time   { return fermiGBMRefTime }
func (FermiGBM) LaunchDay() time.Time { return fermiGBMLaunchDay }
func (FermiGBM) Name() string         { return "Fermi/GBM" }

// SvomGRM is the Space-based multi-band astronomical Variable Objects
// Monitor's Gamma-Ray Monitor.
type SvomGRM struct{}

func (SvomGRM) RefTime() time.Time   { return svomGRMRefTime }
func (SvomGRM) LaunchDay() time.Time { return svomGRMLaunchDay }
func (SvomGRM) Name() string         { return "SVOM/GRM" }

// Detector further distinguishes co-located sensor units on a single
// satellite, e.g. HXMT-HE's 18 NaI/CsI detector heads. It carries no
// arithmetic semantics of its own; it tags events and candidates for
// per-unit saturation checks and bookkeeping.
type Detector int
