package bucket

import "testing"

func TestBucket(t *testing.T) {
	cases := []struct {
		ts, interval, adjustment uint64
		start, end               uint64
	}{
		{3661, 3600, 0, 3600, 7200},
		{3600, 3600, 0, 3600, 7200},
		{3599, 3600, 0, 0, 3600},
		{90000, 86400, 0, 86400, 172800},
		{3661, 3600, 61, 3661, 7261},
		// Adjustments wrap into the interval.
		{3661, 3600, 7261, 3661, 7261},
		// A timestamp before the phase offset aligns to the epoch.
		{50, 3600, 61, 0, 3600},
	}
	for _, tc := range cases {
		start, end := Bucket(tc.ts, tc.interval, tc.adjustment)
		if start != tc.start || end != tc.end {
			t.Fatalf("bucket(%d,%d,%d) = (%d,%d), want (%d,%d)",
				tc.ts, tc.interval, tc.adjustment, start, end, tc.start, tc.end)
		}
	}
}

func TestHourStart(t *testing.T) {
	if got := HourStart(3661); got != 3600 {
		t.Fatalf("hour start mismatch: %d", got)
	}
}

func TestDailyDate(t *testing.T) {
	if got := DailyDate(0); got != "1970-01-01" {
		t.Fatalf("epoch date mismatch: %s", got)
	}
	if got := DailyDate(1700000000); got != "2023-11-14" {
		t.Fatalf("date mismatch: %s", got)
	}
	// Last second of the day stays in the same bucket as its first second.
	if DailyDate(86399) != DailyDate(0) {
		t.Fatalf("day boundary mismatch")
	}
	if DailyDate(86400) == DailyDate(86399) {
		t.Fatalf("new day must open a new bucket")
	}
}
