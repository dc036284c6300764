package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tgfscan/blink-scan/internal/adapter"
	"github.com/tgfscan/blink-scan/internal/config"
	"github.com/tgfscan/blink-scan/internal/event"
	"github.com/tgfscan/blink-scan/internal/fsutil"
	"github.com/tgfscan/blink-scan/internal/harness"
	"github.com/tgfscan/blink-scan/internal/output"
	"github.com/tgfscan/blink-scan/internal/satellite"
	"github.com/tgfscan/blink-scan/internal/store"
	"github.com/tgfscan/blink-scan/internal/timeutil"
)

// Options bundles the parameters RunScan needs, decoupled from flag.FlagSet
// so it is directly callable from tests without going through main.
type Options struct {
	// GroupCount is the number of disjoint background-estimate groups the
	// search engine maintains, i.e. the instrument's detector-unit count.
	GroupCount int

	// Workers bounds how many hours of a day are processed concurrently.
	Workers int

	// From and To are the inclusive UTC day range to scan, truncated to
	// midnight.
	From, To time.Time

	// Force re-runs a day even when its output already appears current.
	Force bool
}

// Result summarizes a RunScan invocation across every day in its range.
type Result struct {
	DaysRun     int
	DaysSkipped int
	ChunkErrors int
}

// RunScan iterates every UTC calendar day in opts.From..opts.To for
// satellite S, skipping days whose output already covers the freshest
// available input (per output.ShouldSkip, checked cheaply via the
// source's LastModified before paying for a full day's search), and
// otherwise running the search harness and persisting both the day's
// signal file and its scan-completion bookkeeping.
func RunScan[S satellite.Satellite, E event.Event](
	ctx context.Context,
	fs fsutil.FileSystem,
	taskStore *store.TaskStore,
	source adapter.EventSource[S, E],
	lightningSource adapter.LightningSource,
	cfg *config.TuningConfig,
	opts Options,
) (Result, error) {
	var result Result
	var sat S
	instrument := sat.Name()

	for day := opts.From.UTC().Truncate(24 * time.Hour); !day.After(opts.To); day = day.AddDate(0, 0, 1) {
		dayKey := timeutil.DayKey(day)

		if !opts.Force {
			maxMtime, ok := peekDayMtime(ctx, source, day)
			if ok && output.ShouldSkip(fs, instrument, day, maxMtime) {
				log.Printf("blink-scan: %s %s up to date, skipping", instrument, dayKey)
				result.DaysSkipped++
				continue
			}
		}

		dayResult, err := harness.RunDay[S, E](ctx, day, source, lightningSource, cfg, opts.GroupCount, opts.Workers)
		if err != nil {
			return result, fmt.Errorf("run day %s: %w", dayKey, err)
		}
		result.ChunkErrors += dayResult.ChunkErrors

		if dayResult.MaxMtime.IsZero() {
			log.Printf("blink-scan: %s %s had no usable chunks, skipping output", instrument, dayKey)
			result.DaysSkipped++
			continue
		}

		if err := output.Write(fs, instrument, day, dayResult.Signals); err != nil {
			return result, fmt.Errorf("write output for %s: %w", dayKey, err)
		}
		if err := taskStore.MarkDone(ctx, instrument, dayKey, time.Now().UTC(), dayResult.MaxMtime); err != nil {
			return result, fmt.Errorf("mark done for %s: %w", dayKey, err)
		}

		result.DaysRun++
		log.Printf("blink-scan: %s %s done, %d signals, %d chunk errors", instrument, dayKey, len(dayResult.Signals), dayResult.ChunkErrors)
	}

	return result, nil
}

// peekDayMtime returns the freshest LastModified over the day's 24 hours,
// skipping (not failing on) any hour the source reports as absent; ok is
// false only when every hour was absent, meaning there is nothing yet to
// compare against the existing output.
func peekDayMtime[S satellite.Satellite, E event.Event](ctx context.Context, source adapter.EventSource[S, E], day time.Time) (time.Time, bool) {
	var max time.Time
	var ok bool
	for _, hour := range timeutil.HourChunks(day) {
		mtime, err := source.LastModified(ctx, hour)
		if err != nil {
			continue
		}
		if mtime.After(max) {
			max = mtime
		}
		ok = true
	}
	return max, ok
}
