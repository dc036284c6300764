// Package output writes the per-day signal JSON files the scan harness
// emits, one per instrument per calendar day.
package output

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tgfscan/blink-scan/internal/fsutil"
	"github.com/tgfscan/blink-scan/internal/signal"
	"github.com/tgfscan/blink-scan/internal/timeutil"
)

// Path returns the on-disk path for instrument's signal file on the
// calendar day containing day: data/{instrument}/{YYYY}/{MM}/{YYYYMMDD}_signals.json.
func Path(instrument string, day time.Time) string {
	day = day.UTC()
	return filepath.Join(
		"data",
		instrument,
		strconv.Itoa(day.Year()),
		fmt.Sprintf("%02d", day.Month()),
		timeutil.DayKey(day)+"_signals.json",
	)
}

// ShouldSkip reports whether a day's output is already up to date: the
// output file exists and its mtime is at or after maxInputMtime, the
// freshest mtime over all input files the day depends on.
func ShouldSkip(fs fsutil.FileSystem, instrument string, day time.Time, maxInputMtime time.Time) bool {
	info, err := fs.Stat(Path(instrument, day))
	if err != nil {
		return false
	}
	return !info.ModTime().Before(maxInputMtime)
}

// Write serializes signals as a pretty-printed JSON array and writes it
// atomically to instrument's day file: write to a randomly-suffixed
// temporary path, then rename over the final path. An empty signals
// slice still produces a file containing "[]", so a day with zero
// triggers is recorded as having run rather than indistinguishable from
// one that was never scanned.
func Write(fs fsutil.FileSystem, instrument string, day time.Time, signals []signal.UnifiedSignal) error {
	path := Path(instrument, day)
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}

	if signals == nil {
		signals = []signal.UnifiedSignal{}
	}
	data, err := json.MarshalIndent(signals, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}

	tmpPath, err := tempPath(dir, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("generate temp path: %w", err)
	}

	if err := fs.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file %q: %w", tmpPath, err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %q to %q: %w", tmpPath, path, err)
	}

	return nil
}

// tempPath builds a sibling path to name inside dir with a random hex
// suffix, entirely from trusted internal inputs so it carries no path
// traversal risk.
func tempPath(dir, name string) (string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", name, hex.EncodeToString(suffix))), nil
}
