package graph

import (
	"context"
	"time"

	"github.com/mauv0809/gamefinder/internal/model"
	"github.com/mauv0809/gamefinder/internal/queue"
)

// NewService binds g to q and sweeps the graph on every queue tick.
func NewService(q *queue.Queue, g *Graph) *Service {
	q.OnTick(g.Tick)
	return &Service{q: q, g: g}
}

// Query runs fn on the graph's queue and returns its result.
func Query[T any](ctx context.Context, s *Service, fn func(g *Graph) T) (T, error) {
	return queue.Call(s.q, func() T { return fn(s.g) }).Wait(ctx)
}

// Exec runs fn on the graph's queue and waits for it.
func (s *Service) Exec(ctx context.Context, fn func(g *Graph)) error {
	return queue.Do(ctx, s.q, func() { fn(s.g) })
}

// Post runs fn on the graph's queue without waiting.
func (s *Service) Post(fn func(g *Graph)) error {
	return s.q.Post(func() { fn(s.g) })
}

// OnMatchLaunched registers h behind any work already queued.
func (s *Service) OnMatchLaunched(h LaunchHandler) error {
	return s.Post(func(g *Graph) { g.OnMatchLaunched(h) })
}

func (s *Service) AddCoach(ctx context.Context, c *model.Coach) error {
	return s.Exec(ctx, func(g *Graph) { g.AddCoach(c) })
}

func (s *Service) RemoveCoach(ctx context.Context, coachID int) error {
	return s.Exec(ctx, func(g *Graph) { g.RemoveCoach(coachID) })
}

func (s *Service) AddTeam(ctx context.Context, t *model.Team) error {
	return s.Exec(ctx, func(g *Graph) { g.AddTeam(t) })
}

func (s *Service) RemoveTeam(ctx context.Context, teamID int) error {
	return s.Exec(ctx, func(g *Graph) { g.RemoveTeam(teamID) })
}

func (s *Service) Activate(ctx context.Context, c *model.Coach, teams []*model.Team) error {
	return s.Exec(ctx, func(g *Graph) { g.Activate(c, teams) })
}

// Act applies action for coachID's team against the opponent team. It reports
// whether the negotiation state changed. A coach acting for a team it does
// not own, or on a match that does not exist, changes nothing.
func (s *Service) Act(ctx context.Context, action model.TeamAction, coachID, teamID, opponentTeamID int) (bool, error) {
	return Query(ctx, s, func(g *Graph) bool {
		g.Ping(coachID, 0)
		team := g.Team(teamID)
		if team == nil || team.CoachID() != coachID {
			return false
		}
		return g.Act(action, model.KeyOf(teamID, opponentTeamID), teamID)
	})
}

func (s *Service) Ping(ctx context.Context, coachID int, offset time.Duration) error {
	return s.Exec(ctx, func(g *Graph) { g.Ping(coachID, offset) })
}

func (s *Service) SetGameID(key model.MatchKey, gameID int) error {
	return s.Post(func(g *Graph) { g.SetGameID(key, gameID) })
}

func (s *Service) SetSchedulingError(key model.MatchKey, msg string) error {
	return s.Post(func(g *Graph) { g.SetSchedulingError(key, msg) })
}

// InjectLaunchedMatch adds an externally agreed match in the launched state.
func (s *Service) InjectLaunchedMatch(ctx context.Context, team1, team2 *model.Team) (*model.Match, error) {
	return Query(ctx, s, func(g *Graph) *model.Match {
		return g.InjectLaunchedMatch(team1, team2).Clone()
	})
}

func (s *Service) Reset(ctx context.Context) error {
	return s.Exec(ctx, func(g *Graph) { g.Reset() })
}

func (s *Service) Coaches(ctx context.Context) ([]*model.Coach, error) {
	return Query(ctx, s, func(g *Graph) []*model.Coach { return cloneCoaches(g.Coaches()) })
}

func (s *Service) Teams(ctx context.Context) ([]*model.Team, error) {
	return Query(ctx, s, func(g *Graph) []*model.Team { return cloneTeams(g.Teams()) })
}

func (s *Service) TeamsOf(ctx context.Context, coachID int) ([]*model.Team, error) {
	return Query(ctx, s, func(g *Graph) []*model.Team { return cloneTeams(g.TeamsOf(coachID)) })
}

func (s *Service) Matches(ctx context.Context) ([]*model.Match, error) {
	return Query(ctx, s, func(g *Graph) []*model.Match { return cloneMatches(g.Matches()) })
}

func (s *Service) MatchesOf(ctx context.Context, coachID int) ([]*model.Match, error) {
	return Query(ctx, s, func(g *Graph) []*model.Match { return cloneMatches(g.MatchesOf(coachID)) })
}

// Match returns a snapshot of the match between two teams, or nil.
func (s *Service) Match(ctx context.Context, teamID, opponentTeamID int) (*model.Match, error) {
	return Query(ctx, s, func(g *Graph) *model.Match { return g.Match(teamID, opponentTeamID).Clone() })
}

// ActiveDialog returns a snapshot of the match the coach is prompted for, or nil.
func (s *Service) ActiveDialog(ctx context.Context, coachID int) (*model.Match, error) {
	return Query(ctx, s, func(g *Graph) *model.Match { return g.ActiveDialog(coachID).Clone() })
}
