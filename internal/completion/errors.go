package completion

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrQuotaExhausted signals the upstream daily quota has been reached
	// and no cached response was available for the request.
	ErrQuotaExhausted = errors.New("daily quota reached and no cached response available")
	// ErrRetriesExhausted signals transient rate limiting persisted past
	// the retry budget.
	ErrRetriesExhausted = errors.New("maximum retries exceeded for rate limit")
)

const dailyQuotaMarker = "tokens per day (TPD)"

// isDailyQuota reports whether the upstream error is a hard periodic quota
// cap. Such errors are never retried.
func isDailyQuota(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), dailyQuotaMarker)
}

// isRateLimited reports whether the upstream error is a transient rate limit
// worth retrying with backoff.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if isDailyQuota(err) {
		return false
	}
	if strings.Contains(err.Error(), "rate_limit_exceeded") {
		return true
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}

	return false
}
