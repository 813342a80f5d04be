package completion

import (
	"regexp"
	"strconv"
	"time"
)

// Upstream rate-limit errors embed a human-readable wait hint in one of two
// formats: "try again in 2m59.56s" for daily quotas and "try again in 7.66s"
// for per-minute limits.
var (
	dailyWaitPattern = regexp.MustCompile(`try again in (\d+)m(\d+(?:\.\d+)?)s`)
	rateWaitPattern  = regexp.MustCompile(`try again in (\d+(?:\.\d+)?)s`)
)

// parseDailyWait extracts the minutes+seconds hint from a daily-quota message.
func parseDailyWait(msg string) (time.Duration, bool) {
	m := dailyWaitPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}

	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, false
	}

	total := float64(minutes*60) + seconds
	return time.Duration(total * float64(time.Second)), true
}

// parseRateWait extracts the seconds-only hint from a per-minute rate-limit
// message.
func parseRateWait(msg string) (time.Duration, bool) {
	m := rateWaitPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	return time.Duration(seconds * float64(time.Second)), true
}
