package graph

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/gamefinder/internal/eligibility"
	"github.com/mauv0809/gamefinder/internal/model"
	"github.com/mauv0809/gamefinder/internal/negotiation"
	"github.com/mauv0809/gamefinder/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type mockMetrics struct {
	created  int
	launched int
	coaches  int
}

func (m *mockMetrics) IncMatchesCreated()  { m.created++ }
func (m *mockMetrics) IncMatchesLaunched() { m.launched++ }
func (m *mockMetrics) SetCoaches(n int)    { m.coaches = n }

type fixture struct {
	clock    *fakeClock
	metrics  *mockMetrics
	graph    *Graph
	coaches  map[int]*model.Coach
	teams    map[int]*model.Team
	launched []*model.Match
}

func competitiveTeam(id int, coach *model.Coach) *model.Team {
	return &model.Team{
		ID:                  id,
		Coach:               coach,
		Name:                "Team" + string(rune('0'+id)),
		Division:            model.CompetitiveDivision,
		IsActive:            true,
		LfgMode:             model.LfgMixed,
		SchedulingTeamValue: 1000000,
		CurrentTeamValue:    1000000,
		Season:              2,
	}
}

// newFixture mirrors the usual pool: team1/team3 owned by coach1,
// team2/team4 by coach2, team5 and team6 by coaches of their own.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:   &fakeClock{t: time.Unix(100000, 0)},
		metrics: &mockMetrics{},
		coaches: map[int]*model.Coach{},
		teams:   map[int]*model.Team{},
	}
	f.graph = New(eligibility.Gamefinder{}, WithClock(f.clock.Now), WithCoachTimeout(10*time.Second), WithMetrics(f.metrics))
	f.graph.OnMatchLaunched(func(m *model.Match) { f.launched = append(f.launched, m) })
	owners := []struct{ team, coach int }{{1, 1}, {2, 2}, {3, 1}, {4, 2}, {5, 5}, {6, 6}}
	for _, o := range owners {
		c, ok := f.coaches[o.coach]
		if !ok {
			c = &model.Coach{ID: o.coach, Name: "Coach" + string(rune('0'+o.coach)), CanLfg: true}
			f.coaches[o.coach] = c
		}
		f.teams[o.team] = competitiveTeam(o.team, c)
	}
	return f
}

func (f *fixture) addAll() {
	for id := 1; id <= 6; id++ {
		f.graph.AddTeam(f.teams[id])
	}
}

func (f *fixture) match(a, b int) *model.Match {
	return f.graph.Match(a, b)
}

func (f *fixture) act(action model.TeamAction, team, opponent int) bool {
	return f.graph.Act(action, model.KeyOf(team, opponent), team)
}

func (f *fixture) startDialog(a, b int) {
	f.act(model.ActionAccept, a, b)
	f.act(model.ActionAccept, b, a)
}

func (f *fixture) launch(a, b int) {
	f.startDialog(a, b)
	f.act(model.ActionStart, a, b)
	f.act(model.ActionStart, b, a)
}

func TestAddTeam_CreatesMatchEitherOrder(t *testing.T) {
	for _, order := range [][]int{{1, 2}, {2, 1}} {
		f := newFixture(t)
		f.graph.AddTeam(f.teams[order[0]])
		f.graph.AddTeam(f.teams[order[1]])

		matches := f.graph.Matches()
		require.Len(t, matches, 1)
		assert.Equal(t, model.MatchKey{Team1: 1, Team2: 2}, matches[0].Key())
		assert.True(t, f.match(1, 2).Equals(f.match(2, 1)))
		assert.Len(t, f.graph.Coaches(), 2)
	}
}

func TestAddTeam_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.graph.AddTeam(f.teams[1])
	f.graph.AddTeam(f.teams[2])
	f.graph.AddTeam(f.teams[2])

	assert.Len(t, f.graph.Teams(), 2)
	assert.Len(t, f.graph.Matches(), 1)
	assert.Equal(t, 1, f.metrics.created)
}

func TestAddTeam_SameCoachNeverMatches(t *testing.T) {
	f := newFixture(t)
	f.graph.AddTeam(f.teams[1])
	f.graph.AddTeam(f.teams[3])

	assert.Empty(t, f.graph.Matches())
	assert.Len(t, f.graph.TeamsOf(1), 2)
}

func TestAddTeam_FullPool(t *testing.T) {
	f := newFixture(t)
	f.addAll()

	// Every pair of teams owned by different coaches.
	assert.Len(t, f.graph.Matches(), 13)
	assert.Len(t, f.graph.MatchesOf(1), 8)
	assert.Len(t, f.graph.MatchesOfTeam(5), 5)
}

func TestAddTeam_LockedOpponentSkipped(t *testing.T) {
	f := newFixture(t)
	f.graph.AddTeam(f.teams[1])
	f.coaches[1].Lock()
	f.graph.AddTeam(f.teams[2])

	assert.Empty(t, f.graph.Matches())
}

func TestAddTeam_OwnLockNotChecked(t *testing.T) {
	f := newFixture(t)
	f.graph.AddTeam(f.teams[1])
	f.coaches[2].Lock()
	f.graph.AddTeam(f.teams[2])

	assert.NotNil(t, f.match(1, 2))
}

func TestAddTeam_PolicyBothWays(t *testing.T) {
	f := newFixture(t)
	g := New(eligibility.PolicyFunc(func(a, b *model.Team) bool { return a.ID < b.ID }), WithClock(f.clock.Now))
	g.AddTeam(f.teams[1])
	g.AddTeam(f.teams[2])

	assert.Empty(t, g.Matches())
}

func TestNegotiation_DialogBeforeLaunch(t *testing.T) {
	f := newFixture(t)
	f.addAll()

	f.startDialog(1, 2)
	m := f.match(1, 2)
	assert.True(t, m.State.TriggerStartDialog())
	assert.False(t, m.State.TriggerLaunchGame())
	assert.True(t, f.graph.IsDialogActive(m.Key()))
	assert.Len(t, f.graph.Dialogs(), 1)
	assert.Equal(t, m, f.graph.ActiveDialog(1))
	assert.Equal(t, m, f.graph.ActiveDialog(2))
	assert.Empty(t, f.launched)
}

func TestNegotiation_StartWithoutDialogIgnored(t *testing.T) {
	f := newFixture(t)
	f.addAll()

	// A dialog for 1-2 holds both coaches, so the 3-4 dialog stays pending.
	f.startDialog(1, 2)
	f.startDialog(3, 4)
	m34 := f.match(3, 4)
	require.True(t, m34.State.TriggerStartDialog())
	require.False(t, f.graph.IsDialogActive(m34.Key()))

	assert.False(t, f.act(model.ActionStart, 3, 4))
	assert.Equal(t, negotiation.State{Team1: negotiation.Accept, Team2: negotiation.Accept}, m34.State)

	// Cancelling 1-2 frees the coaches and the 3-4 dialog becomes active.
	f.act(model.ActionCancel, 1, 2)
	assert.True(t, f.graph.IsDialogActive(m34.Key()))
	assert.True(t, f.act(model.ActionStart, 3, 4))
}

func TestNegotiation_CancelHidesUntilTimeout(t *testing.T) {
	f := newFixture(t)
	f.addAll()

	f.act(model.ActionAccept, 1, 2)
	require.True(t, f.act(model.ActionCancel, 2, 1))
	m := f.match(1, 2)
	assert.True(t, m.State.IsHidden())

	assert.False(t, f.act(model.ActionCancel, 1, 2))
	assert.False(t, f.act(model.ActionAccept, 1, 2))
	assert.False(t, f.act(model.ActionStart, 2, 1))

	// Keep the coaches alive while the cooldown runs.
	for elapsed := time.Duration(0); elapsed <= negotiation.HiddenTimeout; elapsed += 5 * time.Second {
		f.clock.Advance(5 * time.Second)
		for id := range f.coaches {
			f.graph.Ping(id, 0)
		}
		f.graph.Tick()
	}
	assert.True(t, f.match(1, 2).State.IsDefault())
	assert.True(t, f.act(model.ActionAccept, 1, 2))
}

func TestNegotiation_OutsiderIgnored(t *testing.T) {
	f := newFixture(t)
	f.addAll()

	assert.False(t, f.graph.Act(model.ActionAccept, model.KeyOf(1, 2), 5))
	assert.False(t, f.graph.Act(model.ActionAccept, model.KeyOf(1, 3), 1))
	assert.True(t, f.match(1, 2).State.IsDefault())
}

func TestRemoveCoach_CascadesExceptLaunched(t *testing.T) {
	f := newFixture(t)
	f.addAll()
	f.launch(1, 2)
	require.True(t, f.match(1, 2).State.TriggerLaunchGame())

	f.graph.RemoveCoach(1)

	assert.False(t, f.graph.ContainsCoach(1))
	assert.Nil(t, f.graph.Team(1))
	assert.Nil(t, f.graph.Team(3))
	for _, m := range f.graph.Matches() {
		if m.Key() == model.KeyOf(1, 2) {
			continue
		}
		assert.False(t, m.IncludesCoach(1), "match %v survived", m)
	}
	assert.NotNil(t, f.match(1, 2))
	assert.NotNil(t, f.match(5, 6))
}

func TestRemoveTeam(t *testing.T) {
	f := newFixture(t)
	f.addAll()
	f.startDialog(1, 2)

	f.graph.RemoveTeam(1)

	assert.Nil(t, f.graph.Team(1))
	assert.Empty(t, f.graph.MatchesOfTeam(1))
	assert.Nil(t, f.graph.ActiveDialog(2))
	assert.True(t, f.graph.ContainsCoach(1))
	assert.Len(t, f.graph.TeamsOf(1), 1)
}

func TestLaunch_LocksAndCancelsOthers(t *testing.T) {
	f := newFixture(t)
	f.addAll()
	f.act(model.ActionAccept, 5, 6)

	f.launch(1, 2)

	assert.True(t, f.coaches[1].Locked)
	assert.True(t, f.coaches[2].Locked)
	require.Len(t, f.launched, 1)
	assert.Equal(t, model.KeyOf(1, 2), f.launched[0].Key())
	assert.Equal(t, 1, f.metrics.launched)

	for _, m := range f.graph.Matches() {
		switch {
		case m.Key() == model.KeyOf(1, 2):
			assert.True(t, m.State.TriggerLaunchGame())
		case m.IncludesCoach(1) || m.IncludesCoach(2):
			assert.True(t, m.State.IsHidden(), "match %v not hidden", m)
		default:
			assert.False(t, m.State.IsHidden(), "match %v hidden", m)
		}
	}
	assert.Equal(t, negotiation.State{Team1: negotiation.Accept, Team2: negotiation.Default}, f.match(5, 6).State)
	assert.Nil(t, f.graph.ActiveDialog(1))
}

func TestLaunch_NewTeamOfLockedCoachGetsNoOffers(t *testing.T) {
	f := newFixture(t)
	f.graph.AddTeam(f.teams[1])
	f.graph.AddTeam(f.teams[2])
	f.launch(1, 2)

	f.graph.AddTeam(f.teams[5])

	assert.Nil(t, f.match(1, 5))
	assert.Nil(t, f.match(2, 5))
}

func TestTick_ResetsExpiredNegotiation(t *testing.T) {
	f := newFixture(t)
	f.addAll()
	f.startDialog(1, 2)

	f.clock.Advance(negotiation.DefaultTimeout + time.Second)
	for id := range f.coaches {
		f.graph.Ping(id, 0)
	}
	f.graph.Tick()

	m := f.match(1, 2)
	assert.True(t, m.State.IsDefault())
	assert.False(t, f.graph.IsDialogActive(m.Key()))
	assert.Nil(t, f.graph.ActiveDialog(1))
}

func TestTick_RetiresLaunchedMatch(t *testing.T) {
	f := newFixture(t)
	f.addAll()
	f.launch(1, 2)
	f.graph.Ping(1, negotiation.LaunchedTimeout)
	f.graph.Ping(2, negotiation.LaunchedTimeout)

	f.clock.Advance(negotiation.LaunchedTimeout + time.Second)
	f.graph.Ping(5, 0)
	f.graph.Ping(6, 0)
	f.graph.Tick()

	assert.Nil(t, f.match(1, 2))
	assert.False(t, f.graph.ContainsCoach(1))
	assert.False(t, f.graph.ContainsCoach(2))
	assert.False(t, f.coaches[1].Locked)
	assert.True(t, f.graph.ContainsCoach(5))
	assert.Len(t, f.graph.Matches(), 1)
	assert.Equal(t, 2, f.metrics.coaches)
}

func TestTick_RemovesSilentCoaches(t *testing.T) {
	f := newFixture(t)
	f.addAll()

	f.clock.Advance(5 * time.Second)
	f.graph.Ping(5, 0)
	f.clock.Advance(6 * time.Second)
	f.graph.Tick()

	assert.Len(t, f.graph.Coaches(), 1)
	assert.True(t, f.graph.ContainsCoach(5))
	assert.Empty(t, f.graph.Matches())
}

func TestTick_Disabled(t *testing.T) {
	f := newFixture(t)
	f.addAll()
	f.graph.DisableTick()

	f.clock.Advance(time.Hour)
	f.graph.Tick()

	assert.Len(t, f.graph.Coaches(), 4)
}

func TestInjectLaunchedMatch(t *testing.T) {
	f := newFixture(t)
	f.graph.AddTeam(f.teams[1])
	f.graph.AddTeam(f.teams[5])
	f.graph.AddTeam(f.teams[6])

	m := f.graph.InjectLaunchedMatch(competitiveTeam(1, f.coaches[1]), competitiveTeam(2, &model.Coach{ID: 2, Name: "Coach2", CanLfg: true}))

	assert.True(t, m.State.TriggerLaunchGame())
	assert.Equal(t, model.Injected, m.Kind)
	assert.Equal(t, -1, m.GameID)
	assert.NotNil(t, f.graph.Team(2))
	assert.True(t, f.graph.Coach(1).Locked)
	assert.True(t, f.graph.Coach(2).Locked)
	assert.True(t, f.match(1, 5).State.IsHidden())
	assert.False(t, f.match(5, 6).State.IsHidden())
	assert.Empty(t, f.launched)
}

func TestActivate_ReplacesTeams(t *testing.T) {
	f := newFixture(t)
	f.graph.AddTeam(f.teams[2])
	f.graph.Activate(&model.Coach{ID: 1, Name: "Coach1", CanLfg: true}, []*model.Team{competitiveTeam(1, nil), competitiveTeam(3, nil)})
	require.Len(t, f.graph.TeamsOf(1), 2)
	require.NotNil(t, f.match(1, 2))

	locked := f.graph.Coach(1)
	locked.Lock()
	updated := competitiveTeam(1, nil)
	updated.Name = "Renamed"
	f.graph.Activate(&model.Coach{ID: 1, Name: "Renamed coach", CanLfg: true}, []*model.Team{updated})

	assert.Len(t, f.graph.TeamsOf(1), 1)
	assert.Equal(t, "Renamed", f.graph.Team(1).Name)
	assert.Nil(t, f.match(3, 2))
	assert.Same(t, locked, f.graph.Coach(1))
	assert.True(t, f.graph.Coach(1).Locked)
	assert.Equal(t, "Renamed coach", f.graph.Coach(1).Name)
}

func TestSetGameIDAndError(t *testing.T) {
	f := newFixture(t)
	f.addAll()
	key := model.KeyOf(1, 2)

	f.graph.SetGameID(key, 77)
	f.graph.SetSchedulingError(key, "no server")
	f.graph.SetGameID(model.KeyOf(1, 3), 1)

	assert.Equal(t, 77, f.match(1, 2).GameID)
	assert.Equal(t, "no server", f.match(1, 2).SchedulingError)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	f.addAll()
	f.startDialog(1, 2)

	f.graph.Reset()

	assert.Empty(t, f.graph.Coaches())
	assert.Empty(t, f.graph.Teams())
	assert.Empty(t, f.graph.Matches())
	assert.Empty(t, f.graph.Dialogs())
}

// The full handshake between two fresh coaches.
func TestEndToEnd(t *testing.T) {
	f := newFixture(t)
	q := queue.New("graph-test")
	q.Start()
	t.Cleanup(q.Stop)
	s := NewService(q, f.graph)
	ctx := context.Background()

	require.NoError(t, s.AddTeam(ctx, f.teams[1]))
	require.NoError(t, s.AddTeam(ctx, f.teams[2]))

	matches, err := s.Matches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].State.IsDefault())

	state := func() negotiation.State {
		m, err := s.Match(ctx, 1, 2)
		require.NoError(t, err)
		return m.State
	}

	_, err = s.Act(ctx, model.ActionAccept, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, negotiation.State{Team1: negotiation.Accept, Team2: negotiation.Default}, state())

	_, err = s.Act(ctx, model.ActionAccept, 2, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, negotiation.State{Team1: negotiation.Accept, Team2: negotiation.Accept}, state())
	dialog, err := s.ActiveDialog(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, dialog)
	assert.Equal(t, model.KeyOf(1, 2), dialog.Key())

	_, err = s.Act(ctx, model.ActionStart, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, negotiation.State{Team1: negotiation.Start, Team2: negotiation.Accept}, state())

	_, err = s.Act(ctx, model.ActionStart, 2, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, negotiation.State{Team1: negotiation.Start, Team2: negotiation.Start}, state())

	coaches, err := s.Coaches(ctx)
	require.NoError(t, err)
	for _, c := range coaches {
		assert.True(t, c.Locked)
	}
	assert.Len(t, f.launched, 1)
}

func TestService_ActRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	q := queue.New("graph-test")
	q.Start()
	t.Cleanup(q.Stop)
	s := NewService(q, f.graph)
	ctx := context.Background()
	require.NoError(t, s.AddTeam(ctx, f.teams[1]))
	require.NoError(t, s.AddTeam(ctx, f.teams[2]))

	changed, err := s.Act(ctx, model.ActionAccept, 2, 1, 2)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.Act(ctx, model.ActionAccept, 1, 1, 2)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestService_SnapshotsAreDetached(t *testing.T) {
	f := newFixture(t)
	q := queue.New("graph-test")
	q.Start()
	t.Cleanup(q.Stop)
	s := NewService(q, f.graph)
	ctx := context.Background()
	require.NoError(t, s.AddTeam(ctx, f.teams[1]))

	teams, err := s.Teams(ctx)
	require.NoError(t, err)
	teams[0].Coach.Lock()
	teams[0].Name = "changed"

	assert.False(t, f.coaches[1].Locked)
	assert.NotEqual(t, "changed", f.teams[1].Name)

	missing, err := s.Match(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
