package model

import (
	"testing"
	"time"

	"github.com/mauv0809/gamefinder/internal/negotiation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTeams() (*Team, *Team) {
	c1 := &Coach{ID: 1, Name: "Coach1"}
	c2 := &Coach{ID: 2, Name: "Coach2"}
	return &Team{ID: 10, Coach: c1, Name: "Team10"}, &Team{ID: 20, Coach: c2, Name: "Team20"}
}

func TestNewMatch_Canonical(t *testing.T) {
	a, b := newTeams()

	m1 := NewMatch(a, b)
	m2 := NewMatch(b, a)

	assert.Equal(t, 10, m2.Team1.ID)
	assert.Equal(t, 20, m2.Team2.ID)
	assert.True(t, m1.Equals(m2))
	assert.Equal(t, m1.Key(), m2.Key())
	assert.Equal(t, MatchKey{10, 20}, KeyOf(20, 10))
	assert.True(t, m1.IsBetween(20, 10))
	assert.False(t, m1.IsBetween(10, 30))

	// State does not take part in equality.
	m1.State.Team1 = negotiation.Accept
	assert.True(t, m1.Equals(m2))
}

func TestMatch_Opponent(t *testing.T) {
	a, b := newTeams()
	m := NewMatch(a, b)

	assert.Equal(t, b, m.Opponent(a))
	assert.Equal(t, a, m.Opponent(b))
	assert.Nil(t, m.Opponent(&Team{ID: 99}))
	assert.Equal(t, b, m.OpponentOf(1))
	assert.Equal(t, a, m.TeamOf(1))
	assert.Nil(t, m.OpponentOf(3))
	assert.True(t, m.IncludesCoach(2))
	assert.False(t, m.IncludesCoach(3))
}

func TestMatch_Act(t *testing.T) {
	a, b := newTeams()
	m := NewMatch(a, b)
	now := time.Unix(1000, 0)

	changed, effect := m.Act(ActionAccept, a, false, now)
	assert.True(t, changed)
	assert.Equal(t, negotiation.EffectNone, effect)
	assert.Equal(t, now.Add(negotiation.DefaultTimeout), m.ResetAt)
	assert.True(t, m.IsAwaitingResponse(2))
	assert.False(t, m.IsAwaitingResponse(1))

	changed, effect = m.Act(ActionAccept, b, false, now)
	assert.True(t, changed)
	assert.Equal(t, negotiation.EffectTriggerStart, effect)

	// Start is dropped while the dialog is not active.
	changed, _ = m.Act(ActionStart, a, false, now)
	assert.False(t, changed)
	assert.Equal(t, negotiation.State{Team1: negotiation.Accept, Team2: negotiation.Accept}, m.State)

	changed, _ = m.Act(ActionStart, a, true, now)
	assert.True(t, changed)
	assert.Equal(t, []string{"Coach1"}, m.CoachNamesStarted())

	changed, effect = m.Act(ActionStart, b, true, now)
	assert.True(t, changed)
	assert.Equal(t, negotiation.EffectTriggerLaunch, effect)
	assert.Equal(t, now.Add(negotiation.LaunchedTimeout), m.ResetAt)
	assert.Equal(t, []string{"Coach1", "Coach2"}, m.CoachNamesStarted())
}

func TestMatch_ActByOutsider(t *testing.T) {
	a, b := newTeams()
	m := NewMatch(a, b)

	changed, _ := m.Act(ActionAccept, &Team{ID: 99}, false, time.Now())
	assert.False(t, changed)
	assert.True(t, m.State.IsDefault())
}

func TestMatch_TimeoutKeepsResetAt(t *testing.T) {
	a, b := newTeams()
	m := NewMatch(a, b)
	now := time.Unix(1000, 0)

	m.Act(ActionCancel, nil, false, now)
	require.True(t, m.State.IsHidden())
	assert.Equal(t, now.Add(negotiation.HiddenTimeout), m.ResetAt)

	later := now.Add(negotiation.HiddenTimeout + time.Second)
	assert.True(t, m.Expired(later))
	changed, effect := m.Act(ActionTimeout, nil, false, later)
	assert.True(t, changed)
	assert.Equal(t, negotiation.EffectClearDialog, effect)
	assert.True(t, m.State.IsDefault())
	assert.Equal(t, now.Add(negotiation.HiddenTimeout), m.ResetAt)
}

func TestMatch_ForceLaunch(t *testing.T) {
	a, b := newTeams()
	m := NewMatch(a, b)
	now := time.Unix(1000, 0)

	m.ForceLaunch(now)
	assert.True(t, m.State.TriggerLaunchGame())
	assert.Equal(t, Injected, m.Kind)
	assert.Equal(t, negotiation.LaunchedTimeout, m.TimeUntilReset(now))
	assert.Equal(t, time.Duration(0), m.TimeUntilReset(now.Add(time.Hour)))
}

func TestMatch_CloneIsDeep(t *testing.T) {
	a, b := newTeams()
	a.Tournament = &Tournament{ID: 5, Opponents: []int{20}}
	a.Coach.RecentOpponents = []int{2}
	s := 700
	m := NewMatch(a, b)
	m.Suitability = &s

	c := m.Clone()
	c.Team1.Coach.Lock()
	c.Team1.Tournament.Opponents[0] = 99
	c.Team1.Coach.RecentOpponents[0] = 99
	*c.Suitability = 1

	assert.False(t, a.Coach.Locked)
	assert.Equal(t, []int{20}, a.Tournament.Opponents)
	assert.Equal(t, []int{2}, a.Coach.RecentOpponents)
	assert.Equal(t, 700, *m.Suitability)
}

func TestTeam_UpdateKeepsCoach(t *testing.T) {
	a, _ := newTeams()
	other := &Team{ID: 10, Coach: &Coach{ID: 77}, Name: "Renamed", SchedulingTeamValue: 1200000}

	a.Update(other)
	assert.Equal(t, 1, a.Coach.ID)
	assert.Equal(t, "Renamed", a.Name)
	assert.Equal(t, 1200000, a.SchedulingTeamValue)
}

func TestCoach_Refresh(t *testing.T) {
	c := &Coach{ID: 1, Name: "Old", Locked: true}
	c.Refresh(&Coach{ID: 1, Name: "New", CanLfg: true, RecentOpponents: []int{4}})

	assert.True(t, c.Locked)
	assert.Equal(t, "New", c.Name)
	assert.True(t, c.CanLfg)
	assert.True(t, c.HasRecentOpponent(4))
}

func TestTvLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit TvLimit
		value int
		want  bool
	}{
		{"no limit", TvLimit{}, 5000000, true},
		{"inside", TvLimit{Min: 900000, Max: 1100000}, 1000000, true},
		{"lower bound", TvLimit{Min: 900000, Max: 1100000}, 900000, true},
		{"below", TvLimit{Min: 900000, Max: 1100000}, 899999, false},
		{"above", TvLimit{Min: 900000, Max: 1100000}, 1100001, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.limit.IsWithinRange(tt.value))
		})
	}
}

func TestParseLfgMode(t *testing.T) {
	assert.Equal(t, LfgStrict, ParseLfgMode("Strict"))
	assert.Equal(t, LfgMixed, ParseLfgMode("Mixed"))
	assert.Equal(t, LfgOpen, ParseLfgMode("Open"))
	assert.Equal(t, LfgOpen, ParseLfgMode(""))
}
