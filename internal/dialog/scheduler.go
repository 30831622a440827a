// Package dialog arbitrates the start dialogs shown to coaches so that no
// coach is ever prompted for more than one match at a time.
package dialog

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gamefinder/internal/model"
)

// Dialog is a pending or active start prompt for one match.
type Dialog struct {
	Match  *model.Match
	Coach1 *model.Coach
	Coach2 *model.Coach
	Active bool
}

// Scheduler keeps dialogs in insertion order. Activation is a greedy pass in
// that order, re-run after every structural change.
type Scheduler struct {
	dialogs map[model.MatchKey]*Dialog
	order   []model.MatchKey
	held    map[int]model.MatchKey
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		dialogs: make(map[model.MatchKey]*Dialog),
		held:    make(map[int]model.MatchKey),
	}
}

// Add registers a dialog for the match. Adding the same match twice is a no-op.
func (s *Scheduler) Add(m *model.Match) {
	key := m.Key()
	if _, ok := s.dialogs[key]; ok {
		return
	}
	log.Debug("Adding start dialog", "match", m)
	s.dialogs[key] = &Dialog{Match: m, Coach1: m.Team1.Coach, Coach2: m.Team2.Coach}
	s.order = append(s.order, key)
	s.Rescan()
}

// Remove drops the dialog for the match, releasing its coaches.
func (s *Scheduler) Remove(key model.MatchKey) {
	if _, ok := s.dialogs[key]; !ok {
		return
	}
	log.Debug("Clearing start dialog", "match", key)
	s.drop(key)
	s.Rescan()
}

// RemoveTeam drops every dialog involving the team.
func (s *Scheduler) RemoveTeam(teamID int) {
	removed := s.removeWhere(func(d *Dialog) bool {
		return d.Match.Team1.ID == teamID || d.Match.Team2.ID == teamID
	}, false)
	if removed {
		s.Rescan()
	}
}

// RemoveCoach drops every dialog involving the coach. A launching match
// interrupted this way unlocks both of its coaches.
func (s *Scheduler) RemoveCoach(coachID int) {
	removed := s.removeWhere(func(d *Dialog) bool {
		return coachOf(d.Coach1) == coachID || coachOf(d.Coach2) == coachID
	}, true)
	if removed {
		s.Rescan()
	}
}

// Rescan activates every inactive dialog whose coaches are both free.
func (s *Scheduler) Rescan() {
	clear(s.held)
	for _, key := range s.order {
		d := s.dialogs[key]
		if d.Active && d.Coach1 != nil && d.Coach2 != nil {
			s.held[d.Coach1.ID] = key
			s.held[d.Coach2.ID] = key
		}
	}
	for _, key := range s.order {
		d := s.dialogs[key]
		if d.Active || d.Coach1 == nil || d.Coach2 == nil {
			continue
		}
		_, busy1 := s.held[d.Coach1.ID]
		_, busy2 := s.held[d.Coach2.ID]
		if busy1 || busy2 {
			continue
		}
		d.Active = true
		s.held[d.Coach1.ID] = key
		s.held[d.Coach2.ID] = key
		log.Debug("Start dialog active", "match", d.Match)
	}
}

// IsActive reports whether the match's dialog is currently shown.
func (s *Scheduler) IsActive(key model.MatchKey) bool {
	d, ok := s.dialogs[key]
	return ok && d.Active
}

// Contains reports whether a dialog, active or pending, exists for the match.
func (s *Scheduler) Contains(key model.MatchKey) bool {
	_, ok := s.dialogs[key]
	return ok
}

// ActiveDialog returns the match the coach is currently prompted for, or nil.
func (s *Scheduler) ActiveDialog(coachID int) *model.Match {
	key, ok := s.held[coachID]
	if !ok {
		return nil
	}
	return s.dialogs[key].Match
}

// Dialogs lists the dialogs in insertion order.
func (s *Scheduler) Dialogs() []Dialog {
	out := make([]Dialog, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.dialogs[key])
	}
	return out
}

func (s *Scheduler) Len() int {
	return len(s.dialogs)
}

func (s *Scheduler) Clear() {
	clear(s.dialogs)
	clear(s.held)
	s.order = nil
}

func (s *Scheduler) removeWhere(match func(*Dialog) bool, unlock bool) bool {
	var keys []model.MatchKey
	for _, key := range s.order {
		if match(s.dialogs[key]) {
			keys = append(keys, key)
		}
	}
	for _, key := range keys {
		d := s.dialogs[key]
		if unlock && d.Match.State.TriggerLaunchGame() && d.Coach1 != nil && d.Coach2 != nil {
			d.Coach1.Unlock()
			d.Coach2.Unlock()
		}
		log.Debug("Clearing start dialog", "match", d.Match)
		s.drop(key)
	}
	return len(keys) > 0
}

func (s *Scheduler) drop(key model.MatchKey) {
	delete(s.dialogs, key)
	s.order = slices.DeleteFunc(s.order, func(k model.MatchKey) bool { return k == key })
	for coachID, held := range s.held {
		if held == key {
			delete(s.held, coachID)
		}
	}
}

func coachOf(c *model.Coach) int {
	if c == nil {
		return 0
	}
	return c.ID
}
