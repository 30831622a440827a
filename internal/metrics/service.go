package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		QueueUnitsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamefinder_queue_units_failed_total",
			Help: "The total number of queued units that panicked.",
		}),
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamefinder_matches_created_total",
			Help: "The total number of candidate matches created in the graph.",
		}),
		MatchesLaunched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamefinder_matches_launched_total",
			Help: "The total number of negotiated matches that reached launch.",
		}),
		SchedulingErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamefinder_scheduling_errors_total",
			Help: "The total number of launched matches the API refused to schedule.",
		}),
		Coaches: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gamefinder_coaches",
			Help: "The number of coaches currently in the graph.",
		}),
		BlackboxRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamefinder_blackbox_rounds_total",
			Help: "The total number of Blackbox rounds drawn.",
		}),
		BlackboxRoundDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gamefinder_blackbox_round_duration_seconds",
			Help:    "The time taken to generate a Blackbox round.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		BlackboxRoundScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gamefinder_blackbox_round_score",
			Help: "The total suitability of the last Blackbox round.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamefinder_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamefinder_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gamefinder_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.QueueUnitsFailed,
		s.MatchesCreated,
		s.MatchesLaunched,
		s.SchedulingErrors,
		s.Coaches,
		s.BlackboxRounds,
		s.BlackboxRoundDuration,
		s.BlackboxRoundScore,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncQueueUnitsFailed() {
	s.QueueUnitsFailed.Inc()
}

func (s *Service) IncMatchesCreated() {
	s.MatchesCreated.Inc()
}

func (s *Service) IncMatchesLaunched() {
	s.MatchesLaunched.Inc()
}

func (s *Service) IncSchedulingErrors() {
	s.SchedulingErrors.Inc()
}

func (s *Service) SetCoaches(n int) {
	s.Coaches.Set(float64(n))
}

func (s *Service) IncBlackboxRounds() {
	s.BlackboxRounds.Inc()
}

func (s *Service) ObserveBlackboxRoundDuration(d time.Duration) {
	s.BlackboxRoundDuration.Observe(d.Seconds())
}

func (s *Service) SetBlackboxRoundScore(score int) {
	s.BlackboxRoundScore.Set(float64(score))
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
