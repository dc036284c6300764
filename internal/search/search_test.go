package search

import (
	"math/rand"
	"testing"
	"time"

	"github.com/tgfscan/blink-scan/internal/config"
	"github.com/tgfscan/blink-scan/internal/metclock"
	"github.com/tgfscan/blink-scan/internal/satellite"
)

type testEvent struct {
	t     time.Time
	group int
}

func (e testEvent) Time() time.Time { return e.t }
func (e testEvent) Channel() int    { return 0 }
func (e testEvent) Group() int      { return e.group }
func (e testEvent) Keep() bool      { return true }

func testConfig() *config.TuningConfig {
	return config.EmptyTuningConfig()
}

func TestSearchEmptyStream(t *testing.T) {
	var data []testEvent
	start := metclock.FromUTC[satellite.HxmtHe](time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	stop := start.Add(time.Hour)

	got := Search[satellite.HxmtHe](data, 1, start, stop, testConfig())
	if len(got) != 0 {
		t.Errorf("Search on empty stream returned %d candidates, want 0", len(got))
	}
}

func TestSearchUniformBackgroundFewCandidates(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	start := metclock.FromUTC[satellite.HxmtHe](base)
	stop := start.Add(time.Hour)

	rng := rand.New(rand.NewSource(42))
	var data []testEvent
	// Homogeneous Poisson process at lambda=1/s over one hour.
	cur := 0.0
	for cur < 3600 {
		cur += rng.ExpFloat64()
		if cur >= 3600 {
			break
		}
		data = append(data, testEvent{t: base.Add(time.Duration(cur * float64(time.Second)))})
	}

	got := Search[satellite.HxmtHe](data, 1, start, stop, testConfig())
	// With false_positive_per_year=20 over a ~1h uniform background, we
	// expect at most a small handful of spurious candidates, not dozens.
	if len(got) > 5 {
		t.Errorf("Search on uniform background returned %d candidates, want <= 5", len(got))
	}
}

func TestSearchInjectedBurst(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	start := metclock.FromUTC[satellite.HxmtHe](base)
	stop := start.Add(time.Hour)

	rng := rand.New(rand.NewSource(7))
	var data []testEvent
	cur := 0.0
	for cur < 3600 {
		cur += rng.ExpFloat64() / 100.0 // lambda = 100/s
		if cur >= 3600 {
			break
		}
		data = append(data, testEvent{t: base.Add(time.Duration(cur * float64(time.Second)))})
	}

	// Inject a tight cluster of 12 events within 100us at t=1800s.
	burstStart := 1800.0
	for i := 0; i < 12; i++ {
		offset := time.Duration(i) * (100 * time.Microsecond / 12)
		data = append(data, testEvent{t: base.Add(time.Duration(burstStart*float64(time.Second)) + offset)})
	}

	// Re-sort by time since the burst was appended out of order.
	for i := 1; i < len(data); i++ {
		for j := i; j > 0 && data[j].t.Before(data[j-1].t); j-- {
			data[j], data[j-1] = data[j-1], data[j]
		}
	}

	got := Search[satellite.HxmtHe](data, 1, start, stop, testConfig())

	burstTime := base.Add(time.Duration(burstStart * float64(time.Second)))
	found := false
	for _, c := range got {
		cStart := c.Start.ToUTC()
		cStop := c.Stop.ToUTC()
		if !cStart.After(burstTime) && !cStop.Before(burstTime) && c.Count >= 12 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a candidate covering the injected burst with count>=12, got %+v", got)
	}
}

func TestSearchOutputSortedAndNonOverlapping(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	start := metclock.FromUTC[satellite.HxmtHe](base)
	stop := start.Add(time.Hour)

	rng := rand.New(rand.NewSource(99))
	var data []testEvent
	cur := 0.0
	for cur < 3600 {
		cur += rng.ExpFloat64() / 50.0
		if cur >= 3600 {
			break
		}
		data = append(data, testEvent{t: base.Add(time.Duration(cur * float64(time.Second)))})
	}

	got := Search[satellite.HxmtHe](data, 1, start, stop, testConfig())
	for i := 1; i < len(got); i++ {
		if got[i].Start.Before(got[i-1].Start) {
			t.Errorf("candidates not sorted by start: %v before %v", got[i], got[i-1])
		}
		if got[i].Start.Before(got[i-1].Stop) {
			t.Errorf("adjacent candidates overlap: %+v and %+v", got[i-1], got[i])
		}
	}
}
