package store

import (
	"slices"
	"time"

	"github.com/mauv0809/gamefinder/internal/model"
)

// NewCoachStore creates a coach store. A nil clock means time.Now.
func NewCoachStore(timeout time.Duration, now Clock) *CoachStore {
	if now == nil {
		now = time.Now
	}
	if timeout <= 0 {
		timeout = DefaultCoachTimeout
	}
	return &CoachStore{
		coaches:    make(map[int]*model.Coach),
		lastActive: make(map[int]time.Time),
		timeout:    timeout,
		now:        now,
	}
}

// Add stores the coach and marks it active. It returns false if already present.
func (s *CoachStore) Add(c *model.Coach) bool {
	if _, ok := s.coaches[c.ID]; ok {
		return false
	}
	s.coaches[c.ID] = c
	s.lastActive[c.ID] = s.now()
	return true
}

func (s *CoachStore) Remove(coachID int) bool {
	if _, ok := s.coaches[coachID]; !ok {
		return false
	}
	delete(s.coaches, coachID)
	delete(s.lastActive, coachID)
	return true
}

func (s *CoachStore) Contains(coachID int) bool {
	_, ok := s.coaches[coachID]
	return ok
}

func (s *CoachStore) Get(coachID int) *model.Coach {
	return s.coaches[coachID]
}

// Coaches lists every coach ordered by id.
func (s *CoachStore) Coaches() []*model.Coach {
	coaches := make([]*model.Coach, 0, len(s.coaches))
	for _, c := range s.coaches {
		coaches = append(coaches, c)
	}
	slices.SortFunc(coaches, func(a, b *model.Coach) int { return a.ID - b.ID })
	return coaches
}

func (s *CoachStore) Len() int {
	return len(s.coaches)
}

// Ping moves the coach's activity clock to now plus offset. The clock never
// moves backwards, so a grace offset survives ordinary pings.
func (s *CoachStore) Ping(coachID int, offset time.Duration) {
	if !s.Contains(coachID) {
		return
	}
	t := s.now().Add(offset)
	if t.After(s.lastActive[coachID]) {
		s.lastActive[coachID] = t
	}
}

// IsTimedOut reports whether the coach has been silent longer than the timeout.
func (s *CoachStore) IsTimedOut(coachID int) bool {
	last, ok := s.lastActive[coachID]
	if !ok {
		return false
	}
	return s.now().Sub(last) > s.timeout
}

// LastActive returns the activity timestamp of the coach.
func (s *CoachStore) LastActive(coachID int) (time.Time, bool) {
	t, ok := s.lastActive[coachID]
	return t, ok
}

func (s *CoachStore) Clear() {
	clear(s.coaches)
	clear(s.lastActive)
}
