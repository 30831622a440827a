package fumbbl

import (
	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/model"
)

func toCoach(c apiCoach) *model.Coach {
	return &model.Coach{
		ID:     c.ID,
		Name:   c.Name,
		Rating: c.Rating,
		CanLfg: c.CanLfg,
	}
}

func toTeam(t apiTeam, coach *model.Coach) *model.Team {
	team := &model.Team{
		ID:                      t.ID,
		Coach:                   coach,
		Name:                    t.Name,
		Division:                t.Division,
		TeamValue:               t.TeamValue,
		CurrentTeamValue:        t.CurrentTeamValue,
		SchedulingTeamValue:     t.SchedulingTeamValue,
		TvDeltaReduction:        t.TvDeltaReduction,
		Roster:                  t.Race,
		RosterLogo32:            logo(t.RaceLogos, 32),
		RosterLogo64:            logo(t.RaceLogos, 64),
		AllowCrossLeagueMatches: t.AllowCrossLeagueMatches,
		RulesetID:               t.RulesetID,
		IsActive:                t.Status == statusActive,
		LfgMode:                 model.ParseLfgMode(t.LfgMode),
		LastOpponent:            t.LastOpponent,
	}
	if team.SchedulingTeamValue == 0 {
		team.SchedulingTeamValue = t.TeamValue
	}
	if team.CurrentTeamValue == 0 {
		team.CurrentTeamValue = t.TeamValue
	}
	if t.Season != nil {
		team.Season = t.Season.Number
		team.SeasonGames = t.Season.Games
	}
	if t.League != nil {
		team.LeagueName = *t.League
	}
	if t.LeagueID != nil {
		team.LeagueID = *t.LeagueID
	}
	if t.Tournament != nil {
		team.Tournament = &model.Tournament{ID: t.Tournament.ID, Opponents: t.Tournament.Opponents}
	}
	if t.TvLimit != nil {
		team.TvLimit = model.TvLimit{Min: t.TvLimit.Min, Max: t.TvLimit.Max}
	}
	return team
}

// lfgTeams maps the teams that are active and looking for a game.
func lfgTeams(ct apiCoachTeams, coach *model.Coach) []*model.Team {
	if ct.RecentOpponents != nil {
		coach.RecentOpponents = append([]int(nil), ct.RecentOpponents...)
	}
	teams := []*model.Team{}
	for _, t := range ct.Teams {
		if t.IsLfg != lfgYes || t.Status != statusActive {
			continue
		}
		teams = append(teams, toTeam(t, coach))
	}
	return teams
}

func logo(logos []apiRaceLogo, size int) int {
	for _, l := range logos {
		if l.Size == size {
			return l.Logo
		}
	}
	return unknownLogo
}

func toReport(r *blackbox.Round) apiRoundReport {
	return apiRoundReport{
		ID:         r.ID.String(),
		DrawnAt:    r.DrawnAt,
		Heuristic:  r.Heuristic,
		Score:      r.Score,
		Candidates: toPairings(r.Candidates),
		Chosen:     toPairings(r.Chosen),
	}
}

func toPairings(matches []*model.Match) []apiPairing {
	out := make([]apiPairing, 0, len(matches))
	for _, m := range matches {
		p := apiPairing{
			Team1:  m.Team1.ID,
			Team2:  m.Team2.ID,
			Coach1: m.Team1.CoachID(),
			Coach2: m.Team2.CoachID(),
		}
		if m.Suitability != nil {
			p.Suitability = *m.Suitability
		}
		out = append(out, p)
	}
	return out
}
