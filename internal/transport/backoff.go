package transport

import "time"

// backoffDelay returns base * 2^attempt, attempt starting at 0
func backoffDelay(base time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return base << uint(attempt)
}
