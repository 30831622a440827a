package blackbox

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/gamefinder/internal/eligibility"
	"github.com/mauv0809/gamefinder/internal/graph"
	"github.com/mauv0809/gamefinder/internal/model"
	"github.com/mauv0809/gamefinder/internal/queue"
)

// Generator draws rounds on a disposable graph.
type Generator struct {
	rnd        Random
	now        func() time.Time
	heuristics []Heuristic
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

func WithRandom(rnd Random) GeneratorOption {
	return func(g *Generator) {
		g.rnd = rnd
	}
}

func WithNow(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

func WithHeuristics(h ...Heuristic) GeneratorOption {
	return func(g *Generator) {
		g.heuristics = h
	}
}

func NewGenerator(rnd Random, opts ...GeneratorOption) *Generator {
	g := &Generator{rnd: rnd, now: time.Now, heuristics: Heuristics}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a graph from the roster under the Blackbox policy, scores
// every candidate and picks the best selection any heuristic finds.
func (g *Generator) Generate(ctx context.Context, roster []Activation) (*Round, error) {
	started := g.now()

	q := queue.New("blackbox")
	q.Start()
	defer q.Stop()

	scratch := graph.New(eligibility.Blackbox{}, graph.WithClock(g.now))
	scratch.DisableTick()
	svc := graph.NewService(q, scratch)

	pool, err := graph.Query(ctx, svc, func(gr *graph.Graph) *Pool {
		for _, a := range roster {
			teams := make([]*model.Team, len(a.Teams))
			for i, t := range a.Teams {
				teams[i] = t.Clone()
			}
			gr.Activate(a.Coach.Clone(), teams)
		}
		return g.candidates(gr)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build blackbox candidates: %w", err)
	}

	best := Best(pool, g.heuristics)
	round := &Round{
		ID:         uuid.New(),
		DrawnAt:    started,
		Coaches:    len(roster),
		Heuristic:  best.Heuristic,
		Score:      best.Score,
		Candidates: pool.Candidates,
		Chosen:     best.Chosen,
	}
	round.Duration = g.now().Sub(started)
	log.Info("Blackbox round drawn", "round", round.ID, "coaches", round.Coaches, "candidates", len(round.Candidates), "chosen", len(round.Chosen), "heuristic", round.Heuristic, "score", round.Score)
	return round, nil
}

// candidates scores every match once and keeps the best one per pair of coaches.
func (g *Generator) candidates(gr *graph.Graph) *Pool {
	scores := make(map[model.MatchKey]int)
	games := make(map[int]int)
	best := make(map[[2]int]*model.Match)

	for _, coach := range gr.Coaches() {
		for _, m := range gr.MatchesOf(coach.ID) {
			score, ok := scores[m.Key()]
			if !ok {
				score = Suitability(m.Team1, m.Team2, g.rnd)
				scores[m.Key()] = score
				m.Suitability = &score
			}
			games[coach.ID]++

			pair := coachPair(m)
			if pair[0] != coach.ID {
				// Each pair of coaches is collapsed from the lower id's side.
				continue
			}
			if cur, ok := best[pair]; !ok || score > suitabilityOf(cur) || (score == suitabilityOf(cur) && compareKeys(m, cur) < 0) {
				best[pair] = m
			}
		}
	}

	candidates := make([]*model.Match, 0, len(best))
	for _, m := range best {
		candidates = append(candidates, m.Clone())
	}
	return NewPool(candidates, games)
}

func coachPair(m *model.Match) [2]int {
	a, b := m.Team1.CoachID(), m.Team2.CoachID()
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
