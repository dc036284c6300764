package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tgfscan/blink-scan/internal/units"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/search.defaults.json"

// TuningConfig holds the tunable parameters of the search pipeline: the
// snapshot-stepping search window, the continuous-pileup veto, the signal
// builder's sanity caps, and the lightning coincidence estimator. Fields
// are pointers so that a partial JSON file can override only the values
// it cares about; the Get* accessors supply the rest.
type TuningConfig struct {
	// Search window params (durations as parseable strings, e.g. "10us").
	MinDuration          *string  `json:"min_duration,omitempty"`
	MaxDuration          *string  `json:"max_duration,omitempty"`
	Neighbor             *string  `json:"neighbor,omitempty"`
	Hollow               *string  `json:"hollow,omitempty"`
	FalsePositivePerYear *float64 `json:"false_positive_per_year,omitempty"`
	MinNumber            *int     `json:"min_number,omitempty"`

	// Continuous-pileup veto params.
	ContinuousInterval *string `json:"continuous_interval,omitempty"`
	ContinuousDuration *string `json:"continuous_duration,omitempty"`
	ContinuousCount    *int    `json:"continuous_count,omitempty"`

	// Signal builder params.
	ExtendedHalfWidth     *string `json:"extended_half_width,omitempty"`
	OrbitWindowHalfWidth  *string `json:"orbit_window_half_width,omitempty"`
	MaxFilteredFullEvents *int    `json:"max_filtered_full_events,omitempty"`

	// Lightning coincidence params. LightningDistance takes a unit suffix
	// understood by internal/units, e.g. "800km", "800000m", or "432nmi".
	LightningTimeTolerance *string `json:"lightning_time_tolerance,omitempty"`
	LightningDistance      *string `json:"lightning_distance,omitempty"`
	LightningTimeWindow    *string `json:"lightning_time_window,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// have a .json extension and be under the max file size. Fields omitted
// from the JSON retain their default values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching from the current directory up through
// common parent directories. Panics if the file cannot be loaded;
// intended for test setup and for binaries that have already validated
// config availability.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that any set configuration values parse and are sane.
func (c *TuningConfig) Validate() error {
	durations := map[string]*string{
		"min_duration":              c.MinDuration,
		"max_duration":              c.MaxDuration,
		"neighbor":                  c.Neighbor,
		"hollow":                    c.Hollow,
		"continuous_interval":       c.ContinuousInterval,
		"continuous_duration":       c.ContinuousDuration,
		"extended_half_width":       c.ExtendedHalfWidth,
		"orbit_window_half_width":   c.OrbitWindowHalfWidth,
		"lightning_time_tolerance":  c.LightningTimeTolerance,
		"lightning_time_window":     c.LightningTimeWindow,
	}
	for name, value := range durations {
		if value != nil && *value != "" {
			if _, err := time.ParseDuration(*value); err != nil {
				return fmt.Errorf("invalid %s %q: %w", name, *value, err)
			}
		}
	}

	if c.FalsePositivePerYear != nil && *c.FalsePositivePerYear <= 0 {
		return fmt.Errorf("false_positive_per_year must be positive, got %f", *c.FalsePositivePerYear)
	}
	if c.MinNumber != nil && *c.MinNumber < 0 {
		return fmt.Errorf("min_number must be non-negative, got %d", *c.MinNumber)
	}
	if c.LightningDistance != nil && *c.LightningDistance != "" {
		meters, err := units.ParseLength(*c.LightningDistance)
		if err != nil {
			return fmt.Errorf("invalid lightning_distance %q: %w", *c.LightningDistance, err)
		}
		if meters <= 0 {
			return fmt.Errorf("lightning_distance must be positive, got %q", *c.LightningDistance)
		}
	}

	return nil
}

func getDuration(value *string, fallback time.Duration) time.Duration {
	if value == nil || *value == "" {
		return fallback
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fallback
	}
	return d
}

// GetMinDuration returns the minimum candidate span, or the default.
func (c *TuningConfig) GetMinDuration() time.Duration {
	return getDuration(c.MinDuration, 10*time.Microsecond)
}

// GetMaxDuration returns the maximum candidate span, or the default.
func (c *TuningConfig) GetMaxDuration() time.Duration {
	return getDuration(c.MaxDuration, time.Millisecond)
}

// GetNeighbor returns the two-sided background annulus width, or the default.
func (c *TuningConfig) GetNeighbor() time.Duration {
	return getDuration(c.Neighbor, time.Second)
}

// GetHollow returns the inner hollow width, or the default.
func (c *TuningConfig) GetHollow() time.Duration {
	return getDuration(c.Hollow, 10*time.Millisecond)
}

// GetFalsePositivePerYear returns the target yearly false-alarm rate, or the default.
func (c *TuningConfig) GetFalsePositivePerYear() float64 {
	if c.FalsePositivePerYear == nil {
		return 20.0
	}
	return *c.FalsePositivePerYear
}

// GetMinNumber returns the minimum photon count for a candidate, or the default.
func (c *TuningConfig) GetMinNumber() int {
	if c.MinNumber == nil {
		return 8
	}
	return *c.MinNumber
}

// GetContinuousInterval returns the continuous-veto max inter-start gap, or the default.
func (c *TuningConfig) GetContinuousInterval() time.Duration {
	return getDuration(c.ContinuousInterval, 10*time.Second)
}

// GetContinuousDuration returns the continuous-veto max run span, or the default.
func (c *TuningConfig) GetContinuousDuration() time.Duration {
	return getDuration(c.ContinuousDuration, time.Second)
}

// GetContinuousCount returns the continuous-veto max run length, or the default.
func (c *TuningConfig) GetContinuousCount() int {
	if c.ContinuousCount == nil {
		return 10
	}
	return *c.ContinuousCount
}

// GetExtendedHalfWidth returns the signal builder's extended event window half-width.
func (c *TuningConfig) GetExtendedHalfWidth() time.Duration {
	return getDuration(c.ExtendedHalfWidth, 500*time.Millisecond)
}

// GetOrbitWindowHalfWidth returns the orbit trajectory window half-width.
func (c *TuningConfig) GetOrbitWindowHalfWidth() time.Duration {
	return getDuration(c.OrbitWindowHalfWidth, 500*time.Second)
}

// GetMaxFilteredFullEvents returns the signal sanity cap on filtered full-window events.
func (c *TuningConfig) GetMaxFilteredFullEvents() int {
	if c.MaxFilteredFullEvents == nil {
		return 100_000
	}
	return *c.MaxFilteredFullEvents
}

// GetLightningTimeTolerance returns the stroke association time tolerance.
func (c *TuningConfig) GetLightningTimeTolerance() time.Duration {
	return getDuration(c.LightningTimeTolerance, 5*time.Millisecond)
}

// GetLightningDistanceM returns the stroke association distance tolerance
// in meters, the default being 800km.
func (c *TuningConfig) GetLightningDistanceM() float64 {
	if c.LightningDistance == nil || *c.LightningDistance == "" {
		return 800_000
	}
	meters, err := units.ParseLength(*c.LightningDistance)
	if err != nil {
		return 800_000
	}
	return meters
}

// GetLightningTimeWindow returns the coincidence-probability background window width.
func (c *TuningConfig) GetLightningTimeWindow() time.Duration {
	return getDuration(c.LightningTimeWindow, 10*time.Second)
}
