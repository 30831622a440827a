package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	QueueUnitsFailed      prometheus.Counter
	MatchesCreated        prometheus.Counter
	MatchesLaunched       prometheus.Counter
	SchedulingErrors      prometheus.Counter
	Coaches               prometheus.Gauge
	BlackboxRounds        prometheus.Counter
	BlackboxRoundDuration prometheus.Histogram
	BlackboxRoundScore    prometheus.Gauge
	SlackNotifSent        prometheus.Counter
	SlackNotifFailed      prometheus.Counter
	StartupTimeSeconds    prometheus.Gauge
}
