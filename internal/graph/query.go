package graph

import (
	"time"

	"github.com/mauv0809/gamefinder/internal/dialog"
	"github.com/mauv0809/gamefinder/internal/model"
)

// The queries below return the graph's own objects. They must only be used
// on the graph's queue; Service hands out clones instead.

func (g *Graph) Coaches() []*model.Coach {
	return g.coaches.Coaches()
}

func (g *Graph) Coach(coachID int) *model.Coach {
	return g.coaches.Get(coachID)
}

func (g *Graph) ContainsCoach(coachID int) bool {
	return g.coaches.Contains(coachID)
}

func (g *Graph) Teams() []*model.Team {
	return g.teams.Teams()
}

func (g *Graph) TeamsOf(coachID int) []*model.Team {
	return g.teams.TeamsOf(coachID)
}

func (g *Graph) Team(teamID int) *model.Team {
	return g.teams.Get(teamID)
}

func (g *Graph) Matches() []*model.Match {
	return g.matches.Matches()
}

// MatchesOf lists the matches of every team the coach owns.
func (g *Graph) MatchesOf(coachID int) []*model.Match {
	var matches []*model.Match
	for _, t := range g.teams.TeamsOf(coachID) {
		matches = append(matches, g.matches.MatchesOf(t.ID)...)
	}
	return matches
}

// MatchesOfTeam lists the matches incident to one team.
func (g *Graph) MatchesOfTeam(teamID int) []*model.Match {
	return g.matches.MatchesOf(teamID)
}

// Match returns the match between two teams, or nil.
func (g *Graph) Match(teamID, opponentTeamID int) *model.Match {
	return g.matches.Get(model.KeyOf(teamID, opponentTeamID))
}

// ActiveDialog is the match the coach is currently prompted to start, or nil.
func (g *Graph) ActiveDialog(coachID int) *model.Match {
	return g.dialogs.ActiveDialog(coachID)
}

func (g *Graph) IsDialogActive(key model.MatchKey) bool {
	return g.dialogs.IsActive(key)
}

func (g *Graph) Dialogs() []dialog.Dialog {
	return g.dialogs.Dialogs()
}

// Now is the graph's clock.
func (g *Graph) Now() time.Time {
	return g.now()
}

func cloneCoaches(in []*model.Coach) []*model.Coach {
	out := make([]*model.Coach, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func cloneTeams(in []*model.Team) []*model.Team {
	out := make([]*model.Team, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

func cloneMatches(in []*model.Match) []*model.Match {
	out := make([]*model.Match, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}
