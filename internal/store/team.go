package store

import (
	"slices"

	"github.com/mauv0809/gamefinder/internal/model"
)

func NewTeamStore() *TeamStore {
	return &TeamStore{
		teams:   make(map[int]*model.Team),
		byCoach: make(map[int]map[int]*model.Team),
	}
}

// Add stores the team under its coach. It returns false if already present.
func (s *TeamStore) Add(t *model.Team) bool {
	if _, ok := s.teams[t.ID]; ok {
		return false
	}
	s.teams[t.ID] = t
	coachID := t.CoachID()
	if s.byCoach[coachID] == nil {
		s.byCoach[coachID] = make(map[int]*model.Team)
	}
	s.byCoach[coachID][t.ID] = t
	return true
}

func (s *TeamStore) Remove(teamID int) bool {
	t, ok := s.teams[teamID]
	if !ok {
		return false
	}
	delete(s.teams, teamID)
	coachID := t.CoachID()
	if owned := s.byCoach[coachID]; owned != nil {
		delete(owned, teamID)
		if len(owned) == 0 {
			delete(s.byCoach, coachID)
		}
	}
	return true
}

func (s *TeamStore) Contains(teamID int) bool {
	_, ok := s.teams[teamID]
	return ok
}

func (s *TeamStore) Get(teamID int) *model.Team {
	return s.teams[teamID]
}

// Teams lists every team ordered by id.
func (s *TeamStore) Teams() []*model.Team {
	return sortedTeams(s.teams)
}

// TeamsOf lists the teams owned by coachID ordered by id.
func (s *TeamStore) TeamsOf(coachID int) []*model.Team {
	return sortedTeams(s.byCoach[coachID])
}

func (s *TeamStore) Len() int {
	return len(s.teams)
}

func (s *TeamStore) Clear() {
	clear(s.teams)
	clear(s.byCoach)
}

func sortedTeams(m map[int]*model.Team) []*model.Team {
	teams := make([]*model.Team, 0, len(m))
	for _, t := range m {
		teams = append(teams, t)
	}
	slices.SortFunc(teams, func(a, b *model.Team) int { return a.ID - b.ID })
	return teams
}
