// Package harness dispatches the search core across a day's worth of
// hour-long chunks: it loads each chunk through an adapter.EventSource,
// runs the multi-scale search, the continuous-pileup and saturation
// vetoes, and the signal builder, and collects the day's survivors for
// the caller to persist. Chunks share no mutable state, so the day's
// hours are processed by a small bounded worker pool rather than one at
// a time.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tgfscan/blink-scan/internal/adapter"
	"github.com/tgfscan/blink-scan/internal/config"
	"github.com/tgfscan/blink-scan/internal/event"
	"github.com/tgfscan/blink-scan/internal/lightning"
	"github.com/tgfscan/blink-scan/internal/metclock"
	"github.com/tgfscan/blink-scan/internal/satellite"
	"github.com/tgfscan/blink-scan/internal/search"
	"github.com/tgfscan/blink-scan/internal/signal"
	"github.com/tgfscan/blink-scan/internal/timeutil"
)

// lightningMargin widens the stroke query window around each hour beyond
// the chunk's own span, so the signal builder's coincidence analysis at a
// candidate's peak time never starves for strokes near an hour boundary.
const lightningMargin = time.Hour

// DayResult collects one day's worth of surviving signals plus the
// bookkeeping the caller needs to persist: the day's max input mtime
// (for the output-skip check) and a count of chunks that failed.
type DayResult struct {
	Signals     []signal.UnifiedSignal
	ChunkErrors int
	MaxMtime    time.Time
}

// hourOutcome is one worker's result, collected back on the main
// goroutine so the day's signals can be ordered deterministically by
// chunk start time regardless of completion order.
type hourOutcome struct {
	epoch   time.Time
	signals []signal.UnifiedSignal
	mtime   time.Time
	err     error
}

// RunDay loads and searches every hour of day for satellite S, using
// source to load chunks and lightningSource for the coincidence query.
// groupCount is the number of disjoint background-estimate groups the
// search engine should maintain (the instrument's detector-unit count).
// workers bounds how many hours are processed concurrently; a chunk
// failing with ErrDataAbsent or ErrDataMalformed is logged and skipped,
// the day continues, and the failure is counted in the result. A chunk
// failing with ErrUnknownPair fails the whole day with that error.
func RunDay[S satellite.Satellite, E event.Event](
	ctx context.Context,
	day time.Time,
	source adapter.EventSource[S, E],
	lightningSource adapter.LightningSource,
	cfg *config.TuningConfig,
	groupCount int,
	workers int,
) (DayResult, error) {
	if workers <= 0 {
		workers = 1
	}

	hours := timeutil.HourChunks(day)

	outcomes := make([]hourOutcome, len(hours))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, epoch := range hours {
		wg.Add(1)
		go func(i int, epoch time.Time) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			signals, mtime, err := runHour[S, E](ctx, epoch, source, lightningSource, cfg, groupCount)
			outcomes[i] = hourOutcome{epoch: epoch, signals: signals, mtime: mtime, err: err}
		}(i, epoch)
	}
	wg.Wait()

	var result DayResult
	for _, o := range outcomes {
		if o.err != nil {
			if errors.Is(o.err, adapter.ErrUnknownPair) {
				return DayResult{}, fmt.Errorf("chunk %s: %w", o.epoch.Format(time.RFC3339), o.err)
			}
			log.Printf("harness: chunk %s failed: %v", o.epoch.Format(time.RFC3339), o.err)
			result.ChunkErrors++
			continue
		}
		result.Signals = append(result.Signals, o.signals...)
		if o.mtime.After(result.MaxMtime) {
			result.MaxMtime = o.mtime
		}
	}

	return result, nil
}

// runHour processes a single hour: load the chunk, search it, apply the
// continuous and saturation vetoes, and build a Signal for every
// survivor. A chunk-load failure is returned as an error for the caller
// to log and count; everything past that point (an individual signal
// failing to build, e.g. because its attitude sample is out of range) is
// silently dropped rather than failing the whole hour, matching the
// out-of-range policy of suppressing that one signal.
func runHour[S satellite.Satellite, E event.Event](
	ctx context.Context,
	epoch time.Time,
	source adapter.EventSource[S, E],
	lightningSource adapter.LightningSource,
	cfg *config.TuningConfig,
	groupCount int,
) ([]signal.UnifiedSignal, time.Time, error) {
	chunk, err := source.FromEpoch(ctx, epoch)
	if err != nil {
		return nil, time.Time{}, err
	}

	start := metclock.FromUTC[S](epoch)
	stop := metclock.FromUTC[S](epoch.Add(time.Hour))

	events := chunk.Events()
	candidates := search.Search[S, E](events, groupCount, start, stop, cfg)
	candidates = search.Continuous(candidates, cfg.GetContinuousInterval(), cfg.GetContinuousDuration(), cfg.GetContinuousCount())
	candidates = search.SaturationVeto(candidates, search.SaturationPredicate[S](chunk.SaturationCheck))

	var strokes []lightning.Stroke
	if lightningSource != nil {
		got, err := lightningSource.GetLightnings(ctx, epoch.Add(-lightningMargin), epoch.Add(time.Hour).Add(lightningMargin))
		if err != nil {
			log.Printf("harness: lightning query failed for chunk %s: %v", epoch.Format(time.RFC3339), err)
		} else {
			strokes = got
		}
	}

	var signals []signal.UnifiedSignal
	for _, c := range candidates {
		sig, ok := signal.Build[S, E](c, events, chunk.Attitude(), chunk.Orbit(), strokes, cfg)
		if !ok {
			continue
		}
		signals = append(signals, signal.Unify[S, E](sig))
	}

	return signals, chunk.LastModified(), nil
}
