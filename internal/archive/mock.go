package archive

import (
	"context"
	"sync"

	"github.com/mauv0809/gamefinder/internal/blackbox"
)

// Mock is an in-memory RoundStore for tests.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	ReportRoundFunc func(ctx context.Context, round *blackbox.Round) error
	RoundsFunc      func(ctx context.Context, limit int) ([]RoundRecord, error)

	ReportRoundCalls []*blackbox.Round
	records          map[string]*RoundRecord
}

var _ RoundStore = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{records: make(map[string]*RoundRecord)}
}

func (m *Mock) ReportRound(ctx context.Context, round *blackbox.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportRoundCalls = append(m.ReportRoundCalls, round)
	if m.ReportRoundFunc != nil {
		return m.ReportRoundFunc(ctx, round)
	}
	m.records[round.ID.String()] = &RoundRecord{
		ID:             round.ID.String(),
		DrawnAt:        round.DrawnAt,
		DurationMs:     round.Duration.Milliseconds(),
		Coaches:        round.Coaches,
		Heuristic:      round.Heuristic,
		Score:          round.Score,
		CandidateCount: len(round.Candidates),
		ChosenCount:    len(round.Chosen),
		Candidates:     toPairings(round.Candidates),
		Chosen:         toPairings(round.Chosen),
	}
	return nil
}

func (m *Mock) Rounds(ctx context.Context, limit int) ([]RoundRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RoundsFunc != nil {
		return m.RoundsFunc(ctx, limit)
	}
	out := make([]RoundRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out, nil
}

func (m *Mock) Round(ctx context.Context, id string) (*RoundRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, ErrRoundNotFound
	}
	cp := *r
	return &cp, nil
}
