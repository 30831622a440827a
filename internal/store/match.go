package store

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gamefinder/internal/model"
)

func NewMatchStore() *MatchStore {
	return &MatchStore{
		matches: make(map[model.MatchKey]*model.Match),
		byTeam:  make(map[int]map[model.MatchKey]*model.Match),
	}
}

// Add stores the match and indexes it under both teams. An existing match
// with the same key is kept.
func (s *MatchStore) Add(m *model.Match) bool {
	key := m.Key()
	if _, ok := s.matches[key]; ok {
		return false
	}
	log.Debug("MatchStore add", "match", m)
	s.matches[key] = m
	s.index(m.Team1.ID, key, m)
	s.index(m.Team2.ID, key, m)
	return true
}

// Remove drops the match and both of its index entries.
func (s *MatchStore) Remove(key model.MatchKey) bool {
	m, ok := s.matches[key]
	if !ok {
		return false
	}
	log.Debug("MatchStore remove", "match", m)
	delete(s.matches, key)
	s.unindex(key.Team1, key)
	s.unindex(key.Team2, key)
	return true
}

// RemoveTeam drops every match incident to teamID except those whose launch
// was triggered, and returns the removed matches.
func (s *MatchStore) RemoveTeam(teamID int) []*model.Match {
	var removed []*model.Match
	for _, m := range s.MatchesOf(teamID) {
		if m.State.TriggerLaunchGame() {
			continue
		}
		s.Remove(m.Key())
		removed = append(removed, m)
	}
	return removed
}

func (s *MatchStore) Contains(key model.MatchKey) bool {
	_, ok := s.matches[key]
	return ok
}

func (s *MatchStore) Get(key model.MatchKey) *model.Match {
	return s.matches[key]
}

// Matches lists every match ordered by key.
func (s *MatchStore) Matches() []*model.Match {
	return sortedMatches(s.matches)
}

// MatchesOf lists the matches incident to teamID ordered by key.
func (s *MatchStore) MatchesOf(teamID int) []*model.Match {
	return sortedMatches(s.byTeam[teamID])
}

func (s *MatchStore) Len() int {
	return len(s.matches)
}

func (s *MatchStore) Clear() {
	clear(s.matches)
	clear(s.byTeam)
}

func (s *MatchStore) index(teamID int, key model.MatchKey, m *model.Match) {
	if s.byTeam[teamID] == nil {
		s.byTeam[teamID] = make(map[model.MatchKey]*model.Match)
	}
	s.byTeam[teamID][key] = m
}

func (s *MatchStore) unindex(teamID int, key model.MatchKey) {
	if incident := s.byTeam[teamID]; incident != nil {
		delete(incident, key)
		if len(incident) == 0 {
			delete(s.byTeam, teamID)
		}
	}
}

func sortedMatches(m map[model.MatchKey]*model.Match) []*model.Match {
	matches := make([]*model.Match, 0, len(m))
	for _, match := range m {
		matches = append(matches, match)
	}
	slices.SortFunc(matches, func(a, b *model.Match) int {
		return cmp.Or(cmp.Compare(a.Team1.ID, b.Team1.ID), cmp.Compare(a.Team2.ID, b.Team2.ID))
	})
	return matches
}
