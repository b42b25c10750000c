package query

import "time"

// Outcome describes how a read was served
type Outcome string

const (
	OutcomeFresh    Outcome = "fresh"
	OutcomeStale    Outcome = "stale"
	OutcomeMiss     Outcome = "miss"
	OutcomeDisabled Outcome = "disabled"
)

// MetricsRecorder receives query-layer observations
type MetricsRecorder interface {
	RecordRead(resource string, outcome Outcome)
	RecordFetch(resource string, err error, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordRead(string, Outcome)                {}
func (nopRecorder) RecordFetch(string, error, time.Duration) {}
