package notifier

import (
	"sync"

	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/model"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchLaunchedFunc func(match *model.Match, dryRun bool) error
	SendBlackboxRoundFunc func(round *blackbox.Round, dryRun bool) error

	// Call records
	SendMatchLaunchedCalls []*model.Match
	SendBlackboxRoundCalls []*blackbox.Round
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchLaunchedCalls = nil
	m.SendBlackboxRoundCalls = nil
}

func (m *Mock) SendMatchLaunched(match *model.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchLaunchedCalls = append(m.SendMatchLaunchedCalls, match)
	if m.SendMatchLaunchedFunc != nil {
		return m.SendMatchLaunchedFunc(match, dryRun)
	}
	return nil
}

func (m *Mock) SendBlackboxRound(round *blackbox.Round, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendBlackboxRoundCalls = append(m.SendBlackboxRoundCalls, round)
	if m.SendBlackboxRoundFunc != nil {
		return m.SendBlackboxRoundFunc(round, dryRun)
	}
	return nil
}

// Launched returns a copy of the matches passed to SendMatchLaunched.
func (m *Mock) Launched() []*model.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Match(nil), m.SendMatchLaunchedCalls...)
}

// Rounds returns a copy of the rounds passed to SendBlackboxRound.
func (m *Mock) Rounds() []*blackbox.Round {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*blackbox.Round(nil), m.SendBlackboxRoundCalls...)
}
