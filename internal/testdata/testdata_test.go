package testdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tgfscan/blink-scan/internal/adapter"
	"github.com/tgfscan/blink-scan/internal/metclock"
	"github.com/tgfscan/blink-scan/internal/satellite"
)

func TestFromEpochGeneratesBackgroundAndBurst(t *testing.T) {
	epoch := time.Date(2022, 3, 7, 0, 0, 0, 0, time.UTC)
	src := Source[satellite.HxmtHe]{
		BackgroundRate: 10,
		GroupCount:     2,
		Bursts:         []Burst{{Offset: 30 * time.Minute, Count: 20, Spread: time.Millisecond}},
	}

	chunk, err := src.FromEpoch(context.Background(), epoch)
	if err != nil {
		t.Fatalf("FromEpoch() error = %v", err)
	}

	events := chunk.Events()
	if len(events) < 20 {
		t.Fatalf("len(events) = %d, want at least the 20-event burst", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Time().Before(events[i-1].Time()) {
			t.Fatalf("events not sorted ascending at index %d", i)
		}
	}

	if _, ok := chunk.Attitude().Interpolate(epoch); !ok {
		t.Error("attitude trajectory should bracket the chunk epoch")
	}
}

func TestFromEpochReturnsDataAbsentForMissingEpoch(t *testing.T) {
	epoch := time.Date(2022, 3, 7, 0, 0, 0, 0, time.UTC)
	src := Source[satellite.HxmtHe]{
		MissingEpochs: map[int64]bool{epoch.Unix(): true},
	}

	_, err := src.FromEpoch(context.Background(), epoch)
	if !errors.Is(err, adapter.ErrDataAbsent) {
		t.Errorf("FromEpoch() error = %v, want wrapping ErrDataAbsent", err)
	}
}

func TestSaturationCheckReportsMarkedSeconds(t *testing.T) {
	epoch := time.Date(2022, 3, 7, 0, 0, 0, 0, time.UTC)
	met := metclock.FromUTC[satellite.HxmtHe](epoch)
	src := Source[satellite.HxmtHe]{
		BackgroundRate:   1,
		SaturatedSeconds: []int64{int64(met.Seconds())},
	}

	chunk, err := src.FromEpoch(context.Background(), epoch)
	if err != nil {
		t.Fatalf("FromEpoch() error = %v", err)
	}

	if !chunk.SaturationCheck(met) {
		t.Error("expected SaturationCheck to report saturation at the marked second")
	}
	if chunk.SaturationCheck(met.Add(time.Hour)) {
		t.Error("expected SaturationCheck to report false an hour later")
	}
}
