package store

import (
	"time"

	"github.com/mauv0809/gamefinder/internal/model"
)

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

// DefaultCoachTimeout is how long a coach may stay silent before being removed.
const DefaultCoachTimeout = 10 * time.Second

// CoachStore is the set of coaches plus their last activity time.
type CoachStore struct {
	coaches    map[int]*model.Coach
	lastActive map[int]time.Time
	timeout    time.Duration
	now        Clock
}

// TeamStore is the set of teams indexed by owning coach.
type TeamStore struct {
	teams   map[int]*model.Team
	byCoach map[int]map[int]*model.Team
}

// MatchStore is the set of matches indexed by both of their teams.
type MatchStore struct {
	matches map[model.MatchKey]*model.Match
	byTeam  map[int]map[model.MatchKey]*model.Match
}
