// Package timeutil provides the UTC day/hour iteration helpers the scan
// harness uses to dispatch one search over each hour-long chunk of a day.
package timeutil

import "time"

// HourChunks returns the UTC hour boundaries covering [dayStart, dayStart+24h),
// truncating dayStart down to midnight first. Each returned time is the start
// of one hour-long chunk that the harness hands to the search engine.
func HourChunks(dayStart time.Time) []time.Time {
	day := dayStart.UTC().Truncate(24 * time.Hour)
	chunks := make([]time.Time, 24)
	for i := range chunks {
		chunks[i] = day.Add(time.Duration(i) * time.Hour)
	}
	return chunks
}

// DayKey formats a UTC instant's calendar day as YYYYMMDD, the key used for
// per-day output filenames and task bookkeeping.
func DayKey(t time.Time) string {
	return t.UTC().Format("20060102")
}
