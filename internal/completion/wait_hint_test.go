package completion

import (
	"testing"
	"time"
)

func TestParseDailyWait(t *testing.T) {
	d, ok := parseDailyWait("Rate limit reached ... Please try again in 1m30.0s. Visit ...")
	if !ok {
		t.Fatal("expected a match")
	}
	if d != 90*time.Second {
		t.Fatalf("expected 90s, got %s", d)
	}

	if _, ok := parseDailyWait("try again in 7.66s"); ok {
		t.Fatal("seconds-only hint must not match the daily pattern")
	}
}

func TestParseRateWait(t *testing.T) {
	d, ok := parseRateWait("rate_limit_exceeded: please try again in 7.66s")
	if !ok {
		t.Fatal("expected a match")
	}
	if d != 7660*time.Millisecond {
		t.Fatalf("expected 7.66s, got %s", d)
	}

	if _, ok := parseRateWait("try again in 1m30.0s"); ok {
		t.Fatal("minutes hint must not match the per-minute pattern")
	}

	if _, ok := parseRateWait("no hint here"); ok {
		t.Fatal("expected no match")
	}
}

func TestQuotaStateManualReset(t *testing.T) {
	q := NewQuotaState()
	q.TripDaily(time.Time{})

	if q.Available() {
		t.Fatal("expected unavailable after trip without reset time")
	}

	q.Reset()
	if !q.Available() {
		t.Fatal("expected available after manual reset")
	}
}

func TestQuotaStateAutoResetAfterDeadline(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	q := NewQuotaState()
	q.now = func() time.Time { return now }

	q.TripDaily(now.Add(time.Minute))
	if q.Available() {
		t.Fatal("expected unavailable before reset time")
	}

	now = now.Add(2 * time.Minute)
	if !q.Available() {
		t.Fatal("expected available after reset time passed")
	}

	// The cooldown flag clears once availability returns.
	if _, ok := q.ResetAt(); ok {
		t.Fatal("expected reset time to be cleared")
	}
}
