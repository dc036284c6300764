package poisson

import (
	"math"
	"testing"
)

func TestSFZeroMeanZeroCount(t *testing.T) {
	if got := SF(0, 0); got != 0 {
		t.Errorf("SF(0,0) = %v, want 0", got)
	}
}

func TestSFZeroMeanPositiveCount(t *testing.T) {
	if got := SF(0, 5); got != 1 {
		t.Errorf("SF(0,5) = %v, want 1", got)
	}
}

func TestSFMonotonicInCount(t *testing.T) {
	mean := 5.0
	prev := SF(mean, 0)
	for k := 1; k < 20; k++ {
		cur := SF(mean, k)
		if cur > prev {
			t.Fatalf("SF not monotonically decreasing at k=%d: prev=%v cur=%v", k, prev, cur)
		}
		prev = cur
	}
}

func TestSFLargeCountApproachesZero(t *testing.T) {
	if got := SF(2.0, 100); got > 1e-9 {
		t.Errorf("SF(2,100) = %v, want ~0", got)
	}
}

func TestISFRoundTrip(t *testing.T) {
	lambda := 10.0
	p := 0.01
	k := ISF(p, lambda)
	if k <= 0 {
		t.Fatalf("ISF(%v, %v) = %v, want > 0", p, lambda, k)
	}
	// ISF accumulates the pmf forward until the cumulative probability just
	// crosses 1-p, so SF one step beyond k must already satisfy the target.
	if sf := SF(lambda, k+1); sf > p+1e-6 {
		t.Errorf("SF(lambda, k+1)=%v exceeds target p=%v", sf, p)
	}
}

func TestISFMonotoneInLambda(t *testing.T) {
	p := 0.05
	prev := ISF(p, 1)
	for _, lambda := range []float64{2, 5, 10, 20} {
		cur := ISF(p, lambda)
		if cur < prev {
			t.Errorf("ISF not monotone non-decreasing in lambda: ISF(%v)=%v < prev=%v", lambda, cur, prev)
		}
		prev = cur
	}
}

func TestISFZeroLambda(t *testing.T) {
	if got := ISF(0.05, 0); got != 0 {
		t.Errorf("ISF(0.05, 0) = %v, want 0", got)
	}
}

func TestISFCacheMatchesDirect(t *testing.T) {
	cache := NewISFCache(0.01, 50)
	for _, lambda := range []float64{0.5, 1.0, 5.25, 10.0} {
		want := ISF(0.01, lambda)
		got := cache.Get(lambda)
		if got != want {
			t.Errorf("cache.Get(%v) = %v, want %v", lambda, got, want)
		}
		// Second call should hit the cache and return the same value.
		if got2 := cache.Get(lambda); got2 != want {
			t.Errorf("cache.Get(%v) second call = %v, want %v", lambda, got2, want)
		}
	}
}

func TestISFCacheZeroLambda(t *testing.T) {
	cache := NewISFCache(0.01, 50)
	if got := cache.Get(0); got != 0 {
		t.Errorf("cache.Get(0) = %v, want 0", got)
	}
}

func TestISFCacheBeyondCapacity(t *testing.T) {
	cache := NewISFCache(0.01, 1)
	got := cache.Get(100)
	want := ISF(0.01, 100)
	if got != want {
		t.Errorf("cache.Get(100) = %v, want %v", got, want)
	}
}

func TestFalsePositivePerYear(t *testing.T) {
	// sf=1e-9 over a 1ms duration should scale up to a large number of
	// false positives per year.
	got := FalsePositivePerYear(1e-9, 0.001)
	want := 1e-9 * (3600.0 * 24.0 * DaysPerYear / 0.001)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("FalsePositivePerYear() = %v, want %v", got, want)
	}
}

func TestFalsePositivePerYearZeroDuration(t *testing.T) {
	if got := FalsePositivePerYear(0.5, 0); got != 0 {
		t.Errorf("FalsePositivePerYear with zero duration = %v, want 0", got)
	}
}
