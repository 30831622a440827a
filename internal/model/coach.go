package model

import (
	"fmt"
	"slices"
)

func (c *Coach) Lock() {
	c.Locked = true
}

func (c *Coach) Unlock() {
	c.Locked = false
}

// HasRecentOpponent reports whether the coach played coachID recently.
func (c *Coach) HasRecentOpponent(coachID int) bool {
	return slices.Contains(c.RecentOpponents, coachID)
}

// Refresh copies the attributes of other onto c, keeping the lock state.
func (c *Coach) Refresh(other *Coach) {
	c.Name = other.Name
	c.Rating = other.Rating
	c.CanLfg = other.CanLfg
	c.RecentOpponents = slices.Clone(other.RecentOpponents)
}

func (c *Coach) Clone() *Coach {
	if c == nil {
		return nil
	}
	clone := *c
	clone.RecentOpponents = slices.Clone(c.RecentOpponents)
	return &clone
}

func (c *Coach) String() string {
	return fmt.Sprintf("Coach(%s)", c.Name)
}
