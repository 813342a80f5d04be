package completion

import (
	"sync"
	"time"
)

// QuotaState tracks whether the upstream is inside a daily-quota cooldown.
// It is owned by a Service instance; tests construct independent states with
// controlled clocks.
type QuotaState struct {
	mu                sync.Mutex
	dailyLimitReached bool
	resetAt           time.Time

	now func() time.Time
}

func NewQuotaState() *QuotaState {
	return &QuotaState{now: time.Now}
}

// Available reports whether upstream calls are currently allowed. When a
// known reset time has passed the cooldown ends and availability is restored.
func (q *QuotaState) Available() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.dailyLimitReached {
		return true
	}

	if !q.resetAt.IsZero() && q.now().After(q.resetAt) {
		q.dailyLimitReached = false
		q.resetAt = time.Time{}
		return true
	}

	return false
}

// TripDaily marks the upstream unavailable. A zero resetAt means the reset
// time could not be determined; availability then returns only via Reset.
func (q *QuotaState) TripDaily(resetAt time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dailyLimitReached = true
	q.resetAt = resetAt
}

// ResetAt returns the expected cooldown end, if one is known.
func (q *QuotaState) ResetAt() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.resetAt.IsZero() {
		return time.Time{}, false
	}
	return q.resetAt, true
}

// Reset manually restores availability.
func (q *QuotaState) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dailyLimitReached = false
	q.resetAt = time.Time{}
}
