package model

import (
	"time"

	"github.com/mauv0809/gamefinder/internal/negotiation"
)

// LfgMode is a team's willingness to be auto-matched.
type LfgMode int

const (
	LfgOpen LfgMode = iota
	LfgMixed
	LfgStrict
)

// Coach owns teams and negotiates matches on their behalf. Identity is the ID.
type Coach struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Rating          string `json:"rating"`
	CanLfg          bool   `json:"canLfg"`
	Locked          bool   `json:"locked"`
	RecentOpponents []int  `json:"recentOpponents,omitempty"`
}

// TvLimit is the team value band a team accepts opponents in. Max 0 means no limit.
type TvLimit struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Tournament restricts a team to an explicit list of opponent team ids.
type Tournament struct {
	ID        int   `json:"id"`
	Opponents []int `json:"opponents,omitempty"`
}

// Team is the unit paired in a match. Identity is the ID.
type Team struct {
	ID                      int         `json:"id"`
	Coach                   *Coach      `json:"coach"`
	Name                    string      `json:"name"`
	Division                string      `json:"division"`
	TeamValue               int         `json:"teamValue"`
	CurrentTeamValue        int         `json:"currentTeamValue"`
	SchedulingTeamValue     int         `json:"schedulingTeamValue"`
	TvDeltaReduction        int         `json:"tvDeltaReduction"`
	Season                  int         `json:"season"`
	SeasonGames             int         `json:"seasonGames"`
	Roster                  string      `json:"roster"`
	RosterLogo32            int         `json:"rosterLogo32,omitempty"`
	RosterLogo64            int         `json:"rosterLogo64,omitempty"`
	LeagueID                int         `json:"leagueId"`
	LeagueName              string      `json:"leagueName,omitempty"`
	AllowCrossLeagueMatches bool        `json:"allowCrossLeagueMatches"`
	RulesetID               int         `json:"rulesetId"`
	Tournament              *Tournament `json:"tournament,omitempty"`
	TvLimit                 TvLimit     `json:"tvLimit"`
	IsActive                bool        `json:"isActive"`
	LfgMode                 LfgMode     `json:"lfgMode"`
	LastOpponent            int         `json:"lastOpponent"`
}

// Kind distinguishes matches negotiated in the graph from matches injected as already agreed.
type Kind int

const (
	Negotiated Kind = iota
	Injected
)

// TeamAction is what a team does to a match, before it is bound to a slot.
type TeamAction int

const (
	ActionAccept TeamAction = iota
	ActionStart
	ActionCancel
	ActionTimeout
)

// MatchKey is the canonical identity of a match: Team1 < Team2.
type MatchKey struct {
	Team1 int
	Team2 int
}

// Match is a candidate pairing of two teams carrying its negotiation state.
type Match struct {
	Team1           *Team
	Team2           *Team
	State           negotiation.State
	Kind            Kind
	ResetAt         time.Time
	GameID          int
	SchedulingError string
	Suitability     *int
	Prioritized     bool
}
