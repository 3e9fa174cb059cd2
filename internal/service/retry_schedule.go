package service

import "time"

// retryDelays maps the 1-indexed attempt number just recorded to the wait
// before the next try: 1min, 5min, 15min, 30min, then capped at 1h.
var retryDelays = []time.Duration{
	60 * time.Second,
	300 * time.Second,
	900 * time.Second,
	1800 * time.Second,
	3600 * time.Second,
}

// BackoffDelay returns the delay to apply after the given attempt number
// (1-indexed). Attempts past the end of the table stay at the cap.
func BackoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > len(retryDelays) {
		attempt = len(retryDelays)
	}
	return retryDelays[attempt-1]
}

// NextRetryAt computes the next retry timestamp for a failed attempt.
func NextRetryAt(now time.Time, attempt int) time.Time {
	return now.Add(BackoffDelay(attempt))
}
