// Package graph holds the live pool of coaches, teams and candidate matches
// and drives their negotiation.
package graph

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gamefinder/internal/dialog"
	"github.com/mauv0809/gamefinder/internal/eligibility"
	"github.com/mauv0809/gamefinder/internal/model"
	"github.com/mauv0809/gamefinder/internal/negotiation"
	"github.com/mauv0809/gamefinder/internal/store"
)

func WithClock(clock store.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func WithCoachTimeout(d time.Duration) Option {
	return func(o *options) {
		o.coachTimeout = d
	}
}

func WithMetrics(m Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New creates an empty graph applying policy to every new team pair.
func New(policy eligibility.Policy, opts ...Option) *Graph {
	o := options{clock: time.Now, coachTimeout: store.DefaultCoachTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &Graph{
		policy:      policy,
		coaches:     store.NewCoachStore(o.coachTimeout, o.clock),
		teams:       store.NewTeamStore(),
		matches:     store.NewMatchStore(),
		dialogs:     dialog.NewScheduler(),
		now:         o.clock,
		metrics:     o.metrics,
		tickEnabled: true,
	}
}

// OnMatchLaunched registers a handler called when both sides start a match.
func (g *Graph) OnMatchLaunched(h LaunchHandler) {
	g.onLaunch = append(g.onLaunch, h)
}

// DisableTick stops timeout sweeps, for graphs that only live for one computation.
func (g *Graph) DisableTick() {
	g.tickEnabled = false
}

// AddCoach stores the coach if it is new.
func (g *Graph) AddCoach(c *model.Coach) {
	if g.coaches.Add(c) {
		log.Debug("Adding coach", "coach", c)
	}
}

// RemoveCoach removes the coach, every team it owns and their matches.
func (g *Graph) RemoveCoach(coachID int) {
	if !g.coaches.Contains(coachID) {
		return
	}
	log.Debug("Removing coach", "coach", g.coaches.Get(coachID))
	g.dialogs.RemoveCoach(coachID)
	for _, t := range g.teams.TeamsOf(coachID) {
		g.RemoveTeam(t.ID)
	}
	g.coaches.Remove(coachID)
}

// AddTeam stores the team and creates a match against every present team
// both sides of the policy allow, unless that team's coach is locked.
// Only the already present opponent's lock is checked.
func (g *Graph) AddTeam(t *model.Team) {
	if t == nil || t.Coach == nil || g.teams.Contains(t.ID) {
		return
	}
	if existing := g.coaches.Get(t.Coach.ID); existing != nil {
		t.Coach = existing
	} else {
		g.AddCoach(t.Coach)
	}
	log.Debug("Adding team", "team", t, "tvLimit", t.TvLimit, "ruleset", t.RulesetID)
	g.teams.Add(t)

	for _, opponent := range g.teams.Teams() {
		if opponent.ID == t.ID || opponent.Coach.Locked {
			continue
		}
		if !g.policy.IsOpponentAllowed(t, opponent) || !g.policy.IsOpponentAllowed(opponent, t) {
			continue
		}
		m := model.NewMatch(opponent, t)
		if g.matches.Add(m) && g.metrics != nil {
			g.metrics.IncMatchesCreated()
		}
	}
}

// RemoveTeam removes the team and its matches. Matches whose launch was
// triggered stay until the launch path retires them.
func (g *Graph) RemoveTeam(teamID int) {
	if !g.teams.Contains(teamID) {
		return
	}
	log.Debug("Removing team", "team", g.teams.Get(teamID))
	g.dialogs.RemoveTeam(teamID)
	for _, m := range g.matches.RemoveTeam(teamID) {
		if m.State.TriggerLaunchGame() {
			m.Team1.Coach.Unlock()
			m.Team2.Coach.Unlock()
		}
		g.dialogs.Remove(m.Key())
	}
	g.teams.Remove(teamID)
}

// RemoveMatch drops the match. Removing a launching match unlocks its coaches.
func (g *Graph) RemoveMatch(key model.MatchKey) {
	m := g.matches.Get(key)
	if m == nil {
		return
	}
	log.Debug("Removing match", "match", m)
	g.dialogs.Remove(key)
	g.matches.Remove(key)
	if m.State.TriggerLaunchGame() {
		m.Team1.Coach.Unlock()
		m.Team2.Coach.Unlock()
	}
}

// Act applies a team action to the match. Unknown matches or teams, and
// actions the negotiation state does not allow, leave the graph unchanged.
func (g *Graph) Act(action model.TeamAction, key model.MatchKey, teamID int) bool {
	m := g.matches.Get(key)
	if m == nil {
		return false
	}
	var team *model.Team
	switch teamID {
	case m.Team1.ID:
		team = m.Team1
	case m.Team2.ID:
		team = m.Team2
	}
	return g.act(m, action, team)
}

func (g *Graph) act(m *model.Match, action model.TeamAction, team *model.Team) bool {
	changed, effect := m.Act(action, team, g.dialogs.IsActive(m.Key()), g.now())
	if !changed {
		return false
	}
	log.Debug("Match state changed", "match", m, "action", action, "state", m.State)
	switch effect {
	case negotiation.EffectTriggerStart:
		g.dialogs.Add(m)
	case negotiation.EffectTriggerLaunch:
		g.TriggerLaunchGame(m)
	case negotiation.EffectClearDialog:
		g.dialogs.Remove(m.Key())
	}
	return true
}

// TriggerLaunchGame locks both coaches, cancels every other match of their
// teams and notifies the launch handlers.
func (g *Graph) TriggerLaunchGame(m *model.Match) {
	log.Info("Launching match", "match", m)
	g.claim(m)
	if g.metrics != nil {
		g.metrics.IncMatchesLaunched()
	}
	for _, h := range g.onLaunch {
		h(m.Clone())
	}
}

// claim makes m the only live match of its two coaches.
func (g *Graph) claim(m *model.Match) {
	coach1, coach2 := m.Team1.Coach, m.Team2.Coach

	g.dialogs.Remove(m.Key())
	g.dialogs.RemoveCoach(coach1.ID)
	g.dialogs.RemoveCoach(coach2.ID)

	coach1.Lock()
	coach2.Lock()

	teams := append(g.teams.TeamsOf(coach1.ID), g.teams.TeamsOf(coach2.ID)...)
	for _, t := range teams {
		for _, other := range g.matches.MatchesOf(t.ID) {
			if other.Equals(m) {
				continue
			}
			g.act(other, model.ActionCancel, nil)
		}
	}
}

// InjectLaunchedMatch adds a match agreed outside the graph straight in the
// launched state. Missing teams are added first. No launch notification is
// raised since the game was scheduled by whoever agreed it.
func (g *Graph) InjectLaunchedMatch(team1, team2 *model.Team) *model.Match {
	for _, t := range []*model.Team{team1, team2} {
		if !g.teams.Contains(t.ID) {
			g.AddTeam(t.Clone())
		}
	}
	t1, t2 := g.teams.Get(team1.ID), g.teams.Get(team2.ID)

	m := g.matches.Get(model.KeyOf(t1.ID, t2.ID))
	if m == nil {
		m = model.NewMatch(t1, t2)
		g.matches.Add(m)
	}
	m.ForceLaunch(g.now())
	m.GameID = -1
	g.claim(m)
	log.Debug("Injected match", "match", m, "timeout", m.TimeUntilReset(g.now()))
	return m
}

// Activate upserts the coach and replaces its active teams with teams.
// A coach already in the graph keeps its lock state.
func (g *Graph) Activate(c *model.Coach, teams []*model.Team) {
	coach := g.coaches.Get(c.ID)
	if coach == nil {
		coach = c
		g.AddCoach(coach)
	} else {
		coach.Refresh(c)
	}
	g.coaches.Ping(coach.ID, 0)

	wanted := make(map[int]*model.Team, len(teams))
	for _, t := range teams {
		wanted[t.ID] = t
	}
	for _, t := range g.teams.TeamsOf(coach.ID) {
		if _, ok := wanted[t.ID]; !ok {
			g.RemoveTeam(t.ID)
		}
	}
	for _, t := range teams {
		if existing := g.teams.Get(t.ID); existing != nil {
			existing.Update(t)
			continue
		}
		t.Coach = coach
		g.AddTeam(t)
	}
}

// Ping resets the coach's inactivity clock, offset into the future if positive.
func (g *Graph) Ping(coachID int, offset time.Duration) {
	g.coaches.Ping(coachID, offset)
}

func (g *Graph) SetGameID(key model.MatchKey, gameID int) {
	if m := g.matches.Get(key); m != nil {
		m.GameID = gameID
	}
}

func (g *Graph) SetSchedulingError(key model.MatchKey, msg string) {
	if m := g.matches.Get(key); m != nil {
		m.SchedulingError = msg
		log.Error("Error scheduling match", "match", m, "error", msg)
	}
}

// Tick resets expired matches, retires launched ones whose grace window has
// passed together with their coaches, and removes silent coaches.
func (g *Graph) Tick() {
	if !g.tickEnabled {
		return
	}
	now := g.now()
	for _, m := range g.matches.Matches() {
		if !g.matches.Contains(m.Key()) || !m.Expired(now) {
			continue
		}
		if m.State.TriggerLaunchGame() {
			g.RemoveMatch(m.Key())
			g.RemoveCoach(m.Team1.CoachID())
			g.RemoveCoach(m.Team2.CoachID())
			continue
		}
		g.act(m, model.ActionTimeout, nil)
	}
	for _, c := range g.coaches.Coaches() {
		if g.coaches.IsTimedOut(c.ID) {
			log.Debug("Timed out", "coach", c)
			g.RemoveCoach(c.ID)
		}
	}
	if g.metrics != nil {
		g.metrics.SetCoaches(g.coaches.Len())
	}
}

// Reset empties the graph.
func (g *Graph) Reset() {
	log.Debug("Resetting graph")
	g.dialogs.Clear()
	g.matches.Clear()
	g.teams.Clear()
	g.coaches.Clear()
}
