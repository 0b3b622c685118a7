package usecase

import "time"

// QueryRecorder receives query outcomes for metrics.
type QueryRecorder interface {
	ObserveQuery(statKind, status string, elapsed time.Duration)
	ObserveFetch(rows int)
	IncTimeout()
}

type nopRecorder struct{}

func (nopRecorder) ObserveQuery(string, string, time.Duration) {}
func (nopRecorder) ObserveFetch(int)                           {}
func (nopRecorder) IncTimeout()                                {}
