package fumbbl

import (
	"context"
	"sync"

	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/model"
)

// ScheduleCall records the teams of a ScheduleGame call.
type ScheduleCall struct {
	Team1ID int
	Team2ID int
}

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	CoachFunc             func(ctx context.Context, coachID int) (*model.Coach, error)
	LfgTeamsFunc          func(ctx context.Context, coach *model.Coach) ([]*model.Team, error)
	ScheduleGameFunc      func(ctx context.Context, team1ID, team2ID int) (int, error)
	BlackboxActivatedFunc func(ctx context.Context) ([]blackbox.Activation, error)
	ActivatedCoachesFunc  func(ctx context.Context) ([]int, error)
	ReportRoundFunc       func(ctx context.Context, round *blackbox.Round) error

	CoachCalls             []int
	LfgTeamsCalls          []int
	ScheduleGameCalls      []ScheduleCall
	BlackboxActivatedCalls int
	ReportRoundCalls       []*blackbox.Round
}

var _ Client = (*MockClient)(nil)

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Coach(ctx context.Context, coachID int) (*model.Coach, error) {
	m.mu.Lock()
	m.CoachCalls = append(m.CoachCalls, coachID)
	fn := m.CoachFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, coachID)
	}
	return &model.Coach{ID: coachID, CanLfg: true}, nil
}

func (m *MockClient) LfgTeams(ctx context.Context, coach *model.Coach) ([]*model.Team, error) {
	m.mu.Lock()
	m.LfgTeamsCalls = append(m.LfgTeamsCalls, coach.ID)
	fn := m.LfgTeamsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, coach)
	}
	return []*model.Team{}, nil
}

func (m *MockClient) ScheduleGame(ctx context.Context, team1ID, team2ID int) (int, error) {
	m.mu.Lock()
	m.ScheduleGameCalls = append(m.ScheduleGameCalls, ScheduleCall{Team1ID: team1ID, Team2ID: team2ID})
	fn := m.ScheduleGameFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, team1ID, team2ID)
	}
	return 0, nil
}

func (m *MockClient) BlackboxActivated(ctx context.Context) ([]blackbox.Activation, error) {
	m.mu.Lock()
	m.BlackboxActivatedCalls++
	fn := m.BlackboxActivatedFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *MockClient) ActivatedCoaches(ctx context.Context) ([]int, error) {
	m.mu.Lock()
	fn := m.ActivatedCoachesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *MockClient) ReportRound(ctx context.Context, round *blackbox.Round) error {
	m.mu.Lock()
	m.ReportRoundCalls = append(m.ReportRoundCalls, round)
	fn := m.ReportRoundFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, round)
	}
	return nil
}

// ScheduleCalls returns a copy of the recorded ScheduleGame calls.
func (m *MockClient) ScheduleCalls() []ScheduleCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ScheduleCall(nil), m.ScheduleGameCalls...)
}
