package fumbbl

import (
	"context"
	"errors"
	"time"

	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/model"
)

// ErrNotFound is returned when the API has no such coach or team.
var ErrNotFound = errors.New("not found")

// Client is the upstream FUMBBL API the gamefinder depends on.
type Client interface {
	Coach(ctx context.Context, coachID int) (*model.Coach, error)
	// LfgTeams returns the coach's active teams looking for a game and
	// refreshes the coach's recent opponents.
	LfgTeams(ctx context.Context, coach *model.Coach) ([]*model.Team, error)
	ScheduleGame(ctx context.Context, team1ID, team2ID int) (int, error)
	BlackboxActivated(ctx context.Context) ([]blackbox.Activation, error)
	ActivatedCoaches(ctx context.Context) ([]int, error)
	ReportRound(ctx context.Context, round *blackbox.Round) error
}

const (
	defaultTimeout = 10 * time.Second
	unknownLogo    = 486370
	lfgYes         = "Yes"
	statusActive   = "Active"
)

type apiCoach struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Rating string `json:"rating"`
	CanLfg bool   `json:"canLfg"`
}

type apiRaceLogo struct {
	Size int `json:"size"`
	Logo int `json:"logo"`
}

type apiSeason struct {
	Number int `json:"number"`
	Games  int `json:"games"`
}

type apiTournament struct {
	ID        int   `json:"id"`
	Opponents []int `json:"opponents"`
}

type apiTvLimit struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type apiTeam struct {
	ID                      int            `json:"id"`
	Name                    string         `json:"name"`
	Status                  string         `json:"status"`
	IsLfg                   string         `json:"isLfg"`
	LfgMode                 string         `json:"lfgMode"`
	Division                string         `json:"division"`
	TeamValue               int            `json:"teamValue"`
	CurrentTeamValue        int            `json:"currentTeamValue"`
	SchedulingTeamValue     int            `json:"schedulingTeamValue"`
	TvDeltaReduction        int            `json:"tvDeltaReduction"`
	Race                    string         `json:"race"`
	RaceLogos               []apiRaceLogo  `json:"raceLogos"`
	Season                  *apiSeason     `json:"season"`
	League                  *string        `json:"league"`
	LeagueID                *int           `json:"leagueId"`
	AllowCrossLeagueMatches bool           `json:"allowCrossLeagueMatches"`
	RulesetID               int            `json:"ruleset"`
	Tournament              *apiTournament `json:"tournament"`
	TvLimit                 *apiTvLimit    `json:"tvLimit"`
	LastOpponent            int            `json:"lastOpponent"`
}

type apiCoachTeams struct {
	RecentOpponents []int     `json:"recentOpponents"`
	Teams           []apiTeam `json:"teams"`
}

type apiScheduleResponse struct {
	GameID int    `json:"gameId"`
	Error  string `json:"error"`
}

type apiActivated struct {
	Coaches []int `json:"coaches"`
}

type apiPairing struct {
	Team1       int `json:"team1"`
	Team2       int `json:"team2"`
	Coach1      int `json:"coach1"`
	Coach2      int `json:"coach2"`
	Suitability int `json:"suitability"`
}

type apiRoundReport struct {
	ID         string       `json:"id"`
	DrawnAt    time.Time    `json:"drawnAt"`
	Heuristic  string       `json:"heuristic"`
	Score      int          `json:"score"`
	Candidates []apiPairing `json:"candidates"`
	Chosen     []apiPairing `json:"chosen"`
}
