package ticketsafi

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// DefaultBreakerSettings trips after five requests in an interval when at
// least 60% of them failed, and lets a trial request through after 30 seconds.
func DefaultBreakerSettings(name string) *gobreaker.Settings {
	return &gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	}
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// countsAsSuccess treats client errors (4xx) and caller cancellation as
// healthy responses; only transport failures and 5xx trip the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case KindNetwork, KindServer:
			return false
		}
		return true
	}
	return false
}
