// Package bucket maps timestamps to aggregation buckets. Buckets are
// modulo-based: excess = (ts - adjustment) mod interval, start = ts - excess.
// Daily ids use the UTC calendar date of the zero-adjustment day bucket, so
// the calendar scheme and the modulo scheme coincide.
package bucket

import "time"

// Interval lengths in seconds.
const (
	Hour uint64 = 3600
	Day  uint64 = 86400
)

// Interval labels for bucketed entities.
const (
	IntervalHourly = "HOURLY"
	IntervalDaily  = "DAILY"
)

// Phase adjustments shift bucket boundaries away from epoch alignment.
// Both are zero for this deployment.
const (
	HourAdjustment uint64 = 0
	DayAdjustment  uint64 = 0
)

// Bucket returns the [start, end) bucket containing ts for the given
// interval length and phase adjustment.
func Bucket(ts, interval, adjustment uint64) (start, end uint64) {
	adjustment %= interval
	// Timestamps before the phase offset would underflow the subtraction;
	// they fall back to epoch alignment.
	if adjustment > ts {
		adjustment = 0
	}
	excess := (ts - adjustment) % interval
	start = ts - excess
	return start, start + interval
}

// HourStart returns the start of the hourly bucket containing ts.
func HourStart(ts uint64) uint64 {
	start, _ := Bucket(ts, Hour, HourAdjustment)
	return start
}

// DailyDate returns the UTC calendar date (YYYY-MM-DD) of the day bucket
// containing ts.
func DailyDate(ts uint64) string {
	start, _ := Bucket(ts, Day, DayAdjustment)
	return time.Unix(int64(start), 0).UTC().Format("2006-01-02")
}
