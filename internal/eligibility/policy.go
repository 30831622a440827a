// Package eligibility decides which team pairs may become candidate matches.
package eligibility

import (
	"github.com/mauv0809/gamefinder/internal/model"
)

// Policy is a pure predicate over a team and a candidate opponent.
type Policy interface {
	IsOpponentAllowed(team, opponent *model.Team) bool
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(team, opponent *model.Team) bool

func (f PolicyFunc) IsOpponentAllowed(team, opponent *model.Team) bool {
	return f(team, opponent)
}

// firstSeasonCurrentTvGap is the largest current team value gap allowed
// between two first season teams in a Blackbox draw.
const firstSeasonCurrentTvGap = 350000

// Gamefinder is the policy for live negotiation.
type Gamefinder struct{}

func (Gamefinder) IsOpponentAllowed(team, opponent *model.Team) bool {
	if team.Division != opponent.Division {
		return false
	}
	if sameCoach(team, opponent) {
		return false
	}
	if team.LfgMode == model.LfgStrict || opponent.LfgMode == model.LfgStrict {
		return false
	}
	if team.Competitive() {
		if !canLfg(team) || !canLfg(opponent) {
			return false
		}
		if recentlyPlayed(team, opponent) {
			return false
		}
		if !withinTvLimits(team, opponent) {
			return false
		}
	}
	if !team.IsActive || !opponent.IsActive {
		return false
	}
	if team.SchedulingTeamValue == 0 || opponent.SchedulingTeamValue == 0 {
		return false
	}
	return sharedRules(team, opponent)
}

// Blackbox is the policy for the periodic batch draw.
type Blackbox struct{}

func (Blackbox) IsOpponentAllowed(team, opponent *model.Team) bool {
	if team.LfgMode == model.LfgOpen || opponent.LfgMode == model.LfgOpen {
		return false
	}
	if sameCoach(team, opponent) {
		return false
	}
	if !team.IsActive || !opponent.IsActive {
		return false
	}
	if team.Division != opponent.Division || !team.Competitive() {
		return false
	}
	if !canLfg(team) || !canLfg(opponent) {
		return false
	}
	if team.SchedulingTeamValue == 0 || opponent.SchedulingTeamValue == 0 {
		return false
	}
	if !withinTvLimits(team, opponent) {
		return false
	}
	if (team.Season == 1) != (opponent.Season == 1) {
		return false
	}
	if team.Season == 1 && opponent.Season == 1 && abs(team.CurrentTeamValue-opponent.CurrentTeamValue) > firstSeasonCurrentTvGap {
		return false
	}
	return sharedRules(team, opponent)
}

// sharedRules are the tournament, ruleset and league checks both policies apply.
func sharedRules(team, opponent *model.Team) bool {
	if excluded(team) || excluded(opponent) {
		return false
	}
	if !tournamentAllows(team, opponent) || !tournamentAllows(opponent, team) {
		return false
	}
	if team.RulesetID != opponent.RulesetID {
		return false
	}
	if team.LeagueID != opponent.LeagueID {
		if !team.AllowCrossLeagueMatches || !opponent.AllowCrossLeagueMatches {
			return false
		}
	}
	return true
}

func sameCoach(a, b *model.Team) bool {
	return a.CoachID() == b.CoachID()
}

func canLfg(t *model.Team) bool {
	return t.Coach != nil && t.Coach.CanLfg
}

func recentlyPlayed(team, opponent *model.Team) bool {
	if team.LastOpponent == opponent.CoachID() || opponent.LastOpponent == team.CoachID() {
		return true
	}
	return team.Coach.HasRecentOpponent(opponent.CoachID()) || opponent.Coach.HasRecentOpponent(team.CoachID())
}

func withinTvLimits(team, opponent *model.Team) bool {
	return team.TvLimit.IsWithinRange(opponent.SchedulingTeamValue) &&
		opponent.TvLimit.IsWithinRange(team.SchedulingTeamValue)
}

// excluded reports whether the team's tournament bars it from matching at all.
func excluded(t *model.Team) bool {
	return t.Tournament != nil && t.Tournament.ID < 0
}

func tournamentAllows(team, opponent *model.Team) bool {
	if team.Tournament == nil || team.Tournament.ID <= 0 {
		return true
	}
	return team.Tournament.ValidOpponent(opponent.ID)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
