package model

import (
	"fmt"
	"slices"
)

// CompetitiveDivision is the only division the Blackbox draws from.
const CompetitiveDivision = "Competitive"

// IsValid reports whether the band restricts anything.
func (l TvLimit) IsValid() bool {
	return l.Max > 0
}

func (l TvLimit) IsWithinRange(teamValue int) bool {
	return !l.IsValid() || (teamValue >= l.Min && teamValue <= l.Max)
}

func (l TvLimit) String() string {
	return fmt.Sprintf("TvLimit(%d-%d)", l.Min, l.Max)
}

// ValidOpponent reports whether teamID is on the tournament's opponent list.
func (t *Tournament) ValidOpponent(teamID int) bool {
	return slices.Contains(t.Opponents, teamID)
}

// Competitive reports whether the team plays in the competitive division.
func (t *Team) Competitive() bool {
	return t.Division == CompetitiveDivision
}

// CoachID is the owning coach's id, 0 if the team is detached.
func (t *Team) CoachID() int {
	if t.Coach == nil {
		return 0
	}
	return t.Coach.ID
}

// Update replaces every attribute of t with those of other. The owning coach is kept.
func (t *Team) Update(other *Team) {
	coach := t.Coach
	*t = *other
	t.Coach = coach
	if other.Tournament != nil {
		tournament := *other.Tournament
		tournament.Opponents = slices.Clone(other.Tournament.Opponents)
		t.Tournament = &tournament
	}
}

// Clone returns a deep copy including the owning coach.
func (t *Team) Clone() *Team {
	if t == nil {
		return nil
	}
	clone := &Team{Coach: t.Coach}
	clone.Update(t)
	clone.Coach = t.Coach.Clone()
	return clone
}

func (t *Team) String() string {
	return fmt.Sprintf("Team(%s)", t.Name)
}

func (m LfgMode) String() string {
	switch m {
	case LfgOpen:
		return "Open"
	case LfgMixed:
		return "Mixed"
	case LfgStrict:
		return "Strict"
	default:
		return "Unknown"
	}
}

// ParseLfgMode maps the API's LFG mode name, defaulting to Open.
func ParseLfgMode(s string) LfgMode {
	switch s {
	case "Mixed":
		return LfgMixed
	case "Strict":
		return LfgStrict
	default:
		return LfgOpen
	}
}
