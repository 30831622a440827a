package metrics

import (
	"sync"
	"time"
)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	queueUnitsFailed int
	matchesCreated   int
	matchesLaunched  int
	schedulingErrors int
	coaches          int
	blackboxRounds   int
	roundDurations   []time.Duration
	roundScore       int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		roundDurations: make([]time.Duration, 0),
	}
}

func (m *Mock) IncQueueUnitsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueUnitsFailed++
}

func (m *Mock) IncMatchesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCreated++
}

func (m *Mock) IncMatchesLaunched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesLaunched++
}

func (m *Mock) IncSchedulingErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedulingErrors++
}

func (m *Mock) SetCoaches(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coaches = n
}

func (m *Mock) IncBlackboxRounds() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blackboxRounds++
}

func (m *Mock) ObserveBlackboxRoundDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundDurations = append(m.roundDurations, d)
}

func (m *Mock) SetBlackboxRoundScore(score int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundScore = score
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// QueueUnitsFailed returns the number of times IncQueueUnitsFailed was called.
func (m *Mock) QueueUnitsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueUnitsFailed
}

// MatchesCreated returns the number of times IncMatchesCreated was called.
func (m *Mock) MatchesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCreated
}

// MatchesLaunched returns the number of times IncMatchesLaunched was called.
func (m *Mock) MatchesLaunched() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesLaunched
}

// SchedulingErrors returns the number of times IncSchedulingErrors was called.
func (m *Mock) SchedulingErrors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedulingErrors
}

// Coaches returns the last value passed to SetCoaches.
func (m *Mock) Coaches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coaches
}

// BlackboxRounds returns the number of times IncBlackboxRounds was called.
func (m *Mock) BlackboxRounds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blackboxRounds
}

// BlackboxRoundScore returns the last value passed to SetBlackboxRoundScore.
func (m *Mock) BlackboxRoundScore() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundScore
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
