package negotiation

import (
	"fmt"
	"time"
)

// State is the pair of slot states for one match. The zero value is (Default, Default).
type State struct {
	Team1 TeamState
	Team2 TeamState
}

// Act applies an action and reports whether the state changed along with the
// effect the caller has to execute. At most one effect is returned, and only
// when the state actually changed.
func (s *State) Act(action Action) (bool, Effect) {
	next := s.next(action)
	if next == *s {
		return false, EffectNone
	}
	*s = next

	switch action {
	case Cancel, Timeout:
		return true, EffectClearDialog
	}
	if s.TriggerLaunchGame() {
		return true, EffectTriggerLaunch
	}
	if s.TriggerStartDialog() && (action == Accept1 || action == Accept2) {
		return true, EffectTriggerStart
	}
	return true, EffectNone
}

func (s State) next(action Action) State {
	if action == Timeout {
		return State{Default, Default}
	}
	if s == (State{Hidden, Hidden}) {
		return s
	}
	if action == Cancel {
		return State{Hidden, Hidden}
	}

	switch {
	case s == State{Default, Default} && action == Accept1:
		return State{Accept, Default}
	case s == State{Default, Default} && action == Accept2:
		return State{Default, Accept}
	case s == State{Accept, Default} && action == Accept2:
		return State{Accept, Accept}
	case s == State{Default, Accept} && action == Accept1:
		return State{Accept, Accept}
	case s == State{Accept, Accept} && action == Start1:
		return State{Start, Accept}
	case s == State{Accept, Accept} && action == Start2:
		return State{Accept, Start}
	case s == State{Start, Accept} && action == Start2:
		return State{Start, Start}
	case s == State{Accept, Start} && action == Start1:
		return State{Start, Start}
	}
	return s
}

// ForceLaunch moves the state straight to (Start, Start) without producing an effect.
func (s *State) ForceLaunch() {
	*s = State{Start, Start}
}

func (s State) IsDefault() bool {
	return s == State{Default, Default}
}

func (s State) IsHidden() bool {
	return s.Team1 == Hidden
}

func (s State) TriggerStartDialog() bool {
	return s == State{Accept, Accept} || s == State{Accept, Start} || s == State{Start, Accept}
}

func (s State) TriggerLaunchGame() bool {
	return s == State{Start, Start}
}

func (s State) IsOffer() bool {
	return !s.IsDefault() && !s.IsHidden()
}

// Timeout returns the reset window that applies once a match has reached s.
func (s State) Timeout() time.Duration {
	if s.IsHidden() {
		return HiddenTimeout
	}
	if s.TriggerLaunchGame() {
		return LaunchedTimeout
	}
	return DefaultTimeout
}

func (s State) String() string {
	return fmt.Sprintf("(%s,%s)", s.Team1, s.Team2)
}
