package model

import (
	"fmt"
	"time"

	"github.com/mauv0809/gamefinder/internal/negotiation"
)

// NewMatch pairs two teams, ordering them so the lower id is always Team1.
func NewMatch(a, b *Team) *Match {
	if a.ID > b.ID {
		a, b = b, a
	}
	return &Match{Team1: a, Team2: b}
}

// KeyOf is the canonical key of the match between two team ids.
func KeyOf(a, b int) MatchKey {
	if a > b {
		a, b = b, a
	}
	return MatchKey{Team1: a, Team2: b}
}

func (m *Match) Key() MatchKey {
	return MatchKey{Team1: m.Team1.ID, Team2: m.Team2.ID}
}

// Equals compares the team pair only, never the state.
func (m *Match) Equals(other *Match) bool {
	return other != nil && m.Key() == other.Key()
}

func (m *Match) Includes(team *Team) bool {
	return team != nil && (m.Team1.ID == team.ID || m.Team2.ID == team.ID)
}

// IncludesCoach reports whether either team is owned by coachID.
func (m *Match) IncludesCoach(coachID int) bool {
	return m.Team1.CoachID() == coachID || m.Team2.CoachID() == coachID
}

// Opponent returns the other team, or nil if team is not part of the match.
func (m *Match) Opponent(team *Team) *Team {
	switch {
	case team == nil:
		return nil
	case m.Team1.ID == team.ID:
		return m.Team2
	case m.Team2.ID == team.ID:
		return m.Team1
	default:
		return nil
	}
}

// OpponentOf returns the team playing against coachID's team.
func (m *Match) OpponentOf(coachID int) *Team {
	switch coachID {
	case m.Team1.CoachID():
		return m.Team2
	case m.Team2.CoachID():
		return m.Team1
	default:
		return nil
	}
}

// TeamOf returns coachID's team in the match.
func (m *Match) TeamOf(coachID int) *Team {
	switch coachID {
	case m.Team1.CoachID():
		return m.Team1
	case m.Team2.CoachID():
		return m.Team2
	default:
		return nil
	}
}

func (m *Match) IsBetween(myTeamID, opponentTeamID int) bool {
	return m.Key() == KeyOf(myTeamID, opponentTeamID)
}

// IsAwaitingResponse reports whether the opponent accepted and coachID has not.
func (m *Match) IsAwaitingResponse(coachID int) bool {
	switch coachID {
	case m.Team1.CoachID():
		return m.State.Team1 == negotiation.Default && m.State.Team2 == negotiation.Accept
	case m.Team2.CoachID():
		return m.State.Team2 == negotiation.Default && m.State.Team1 == negotiation.Accept
	default:
		return false
	}
}

// CoachNamesStarted lists the coaches that already clicked start.
func (m *Match) CoachNamesStarted() []string {
	names := []string{}
	if m.State.Team1 == negotiation.Start && m.Team1.Coach != nil {
		names = append(names, m.Team1.Coach.Name)
	}
	if m.State.Team2 == negotiation.Start && m.Team2.Coach != nil {
		names = append(names, m.Team2.Coach.Name)
	}
	return names
}

// Act binds a team action to the slot team occupies and applies it.
// Start is only honoured while the match's start dialog is active.
// On a change other than Timeout, the reset timestamp moves to now plus
// the window of the new state.
func (m *Match) Act(action TeamAction, team *Team, dialogActive bool, now time.Time) (bool, negotiation.Effect) {
	first := team != nil && m.Team1.ID == team.ID

	var a negotiation.Action
	switch {
	case action == ActionTimeout:
		a = negotiation.Timeout
	case action == ActionCancel:
		a = negotiation.Cancel
	case team == nil || !m.Includes(team):
		a = negotiation.None
	case action == ActionAccept && first:
		a = negotiation.Accept1
	case action == ActionAccept:
		a = negotiation.Accept2
	case action == ActionStart && dialogActive && first:
		a = negotiation.Start1
	case action == ActionStart && dialogActive:
		a = negotiation.Start2
	default:
		a = negotiation.None
	}

	changed, effect := m.State.Act(a)
	if changed && action != ActionTimeout {
		m.ResetAt = now.Add(m.State.Timeout())
	}
	return changed, effect
}

// Expired reports whether the reset timestamp has passed.
func (m *Match) Expired(now time.Time) bool {
	return now.After(m.ResetAt)
}

// TimeUntilReset is the time left before the match resets, never negative.
func (m *Match) TimeUntilReset(now time.Time) time.Duration {
	d := m.ResetAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// ForceLaunch moves the match straight to the launched state as an injected match.
func (m *Match) ForceLaunch(now time.Time) {
	m.State.ForceLaunch()
	m.Kind = Injected
	m.ResetAt = now.Add(m.State.Timeout())
}

// Clone returns a deep copy safe to hand outside the owning graph.
func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}
	clone := *m
	clone.Team1 = m.Team1.Clone()
	clone.Team2 = m.Team2.Clone()
	if m.Suitability != nil {
		s := *m.Suitability
		clone.Suitability = &s
	}
	return &clone
}

func (m *Match) String() string {
	return fmt.Sprintf("Match(%s vs %s)", m.Team1.Name, m.Team2.Name)
}

func (k Kind) String() string {
	if k == Injected {
		return "Injected"
	}
	return "Negotiated"
}

func (a TeamAction) String() string {
	switch a {
	case ActionAccept:
		return "Accept"
	case ActionStart:
		return "Start"
	case ActionCancel:
		return "Cancel"
	case ActionTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}
