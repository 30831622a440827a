package metrics

import "time"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncQueueUnitsFailed()
	IncMatchesCreated()
	IncMatchesLaunched()
	IncSchedulingErrors()
	SetCoaches(n int)
	IncBlackboxRounds()
	ObserveBlackboxRoundDuration(d time.Duration)
	SetBlackboxRoundScore(score int)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore keeps counters that survive restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}

// Keys of the persistent counters.
const (
	KeyMatchesLaunched = "matches_launched"
	KeyBlackboxRounds  = "blackbox_rounds"
	KeyBlackboxMatches = "blackbox_matches"
)
