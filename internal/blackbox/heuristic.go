package blackbox

import (
	"cmp"
	"slices"

	"github.com/mauv0809/gamefinder/internal/model"
)

// Pool is the candidate set of one round, grouped by coach. Every candidate
// is the best scoring match of its pair of coaches and is listed under both.
type Pool struct {
	// Candidates lists each candidate once, ordered by key.
	Candidates []*model.Match
	// ByCoach is the adjacency list of every coach with at least one candidate.
	ByCoach map[int][]*model.Match
	// Games counts the candidate matches of each coach before collapsing
	// them to one per opponent coach.
	Games map[int]int
}

// Heuristic orders the coaches of a pool. Coaches are then visited in that
// order and each claims its best candidate whose coaches are both still free.
type Heuristic struct {
	Name  string
	order func(p *Pool) []int
}

// Heuristics are the orderings tried each round.
var Heuristics = []Heuristic{
	{Name: "FewestOpponents", order: byKey(opponentCount, false)},
	{Name: "MostOpponents", order: byKey(opponentCount, true)},
	{Name: "FewestGames", order: byKey(gameCount, false)},
	{Name: "MostGames", order: byKey(gameCount, true)},
	{Name: "HighestSuitability", order: bySuitability(true)},
	{Name: "LowestSuitability", order: bySuitability(false)},
}

// Selection is the outcome of running one heuristic over a pool.
type Selection struct {
	Heuristic string
	Chosen    []*model.Match
	Score     int
}

// Apply runs the greedy claim in the heuristic's coach order.
func (h Heuristic) Apply(p *Pool) Selection {
	sel := Selection{Heuristic: h.Name}
	claimed := make(map[int]bool)
	for _, coachID := range h.order(p) {
		if claimed[coachID] {
			continue
		}
		for _, m := range p.ByCoach[coachID] {
			c1, c2 := m.Team1.CoachID(), m.Team2.CoachID()
			if claimed[c1] || claimed[c2] {
				continue
			}
			claimed[c1] = true
			claimed[c2] = true
			sel.Chosen = append(sel.Chosen, m)
			sel.Score += suitabilityOf(m)
			break
		}
	}
	return sel
}

// Best runs every heuristic and keeps the highest scoring selection. Ties go
// to the heuristic listed first.
func Best(p *Pool, heuristics []Heuristic) Selection {
	var best Selection
	for i, h := range heuristics {
		sel := h.Apply(p)
		if i == 0 || sel.Score > best.Score {
			best = sel
		}
	}
	return best
}

// NewPool groups candidates by coach and sorts every coach's list by
// suitability, best first. Equal scores keep key order.
func NewPool(candidates []*model.Match, games map[int]int) *Pool {
	p := &Pool{
		Candidates: slices.Clone(candidates),
		ByCoach:    make(map[int][]*model.Match),
		Games:      games,
	}
	if p.Games == nil {
		p.Games = make(map[int]int)
	}
	slices.SortFunc(p.Candidates, compareKeys)
	for _, m := range p.Candidates {
		c1, c2 := m.Team1.CoachID(), m.Team2.CoachID()
		p.ByCoach[c1] = append(p.ByCoach[c1], m)
		p.ByCoach[c2] = append(p.ByCoach[c2], m)
	}
	for _, list := range p.ByCoach {
		slices.SortStableFunc(list, func(a, b *model.Match) int {
			return cmp.Compare(suitabilityOf(b), suitabilityOf(a))
		})
	}
	return p
}

// Coaches lists the pool's coach ids in ascending order.
func (p *Pool) Coaches() []int {
	ids := make([]int, 0, len(p.ByCoach))
	for id := range p.ByCoach {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func byKey(key func(p *Pool, coachID int) int, descending bool) func(p *Pool) []int {
	return func(p *Pool) []int {
		ids := p.Coaches()
		slices.SortStableFunc(ids, func(a, b int) int {
			if descending {
				return cmp.Compare(key(p, b), key(p, a))
			}
			return cmp.Compare(key(p, a), key(p, b))
		})
		return ids
	}
}

// bySuitability sorts the whole candidate list by suitability and orders
// coaches by their first appearance in it. Equal scores keep key order.
func bySuitability(descending bool) func(p *Pool) []int {
	return func(p *Pool) []int {
		cands := slices.Clone(p.Candidates)
		slices.SortStableFunc(cands, func(a, b *model.Match) int {
			if descending {
				return cmp.Compare(suitabilityOf(b), suitabilityOf(a))
			}
			return cmp.Compare(suitabilityOf(a), suitabilityOf(b))
		})
		ids := make([]int, 0, len(p.ByCoach))
		seen := make(map[int]bool, len(p.ByCoach))
		for _, m := range cands {
			for _, id := range []int{m.Team1.CoachID(), m.Team2.CoachID()} {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
		return ids
	}
}

func opponentCount(p *Pool, coachID int) int {
	opponents := make(map[int]struct{})
	for _, m := range p.ByCoach[coachID] {
		if t := m.OpponentOf(coachID); t != nil {
			opponents[t.CoachID()] = struct{}{}
		}
	}
	return len(opponents)
}

func gameCount(p *Pool, coachID int) int {
	if n, ok := p.Games[coachID]; ok {
		return n
	}
	return len(p.ByCoach[coachID])
}

func suitabilityOf(m *model.Match) int {
	if m.Suitability == nil {
		return 0
	}
	return *m.Suitability
}

func compareKeys(a, b *model.Match) int {
	return cmp.Or(cmp.Compare(a.Team1.ID, b.Team1.ID), cmp.Compare(a.Team2.ID, b.Team2.ID))
}
