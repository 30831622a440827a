package negotiation

import "time"

// TeamState is the negotiation state of one side of a match.
type TeamState int

const (
	Default TeamState = iota
	Accept
	Start
	Hidden
)

func (s TeamState) String() string {
	switch s {
	case Default:
		return "Default"
	case Accept:
		return "Accept"
	case Start:
		return "Start"
	case Hidden:
		return "Hidden"
	default:
		return "Unknown"
	}
}

// Action is an input to the state machine. The numbered actions are bound to a slot.
type Action int

const (
	None Action = iota
	Accept1
	Accept2
	Start1
	Start2
	Cancel
	Timeout
)

func (a Action) String() string {
	switch a {
	case None:
		return "None"
	case Accept1:
		return "Accept1"
	case Accept2:
		return "Accept2"
	case Start1:
		return "Start1"
	case Start2:
		return "Start2"
	case Cancel:
		return "Cancel"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Effect is the side effect the owner of a state must execute after a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectTriggerStart
	EffectTriggerLaunch
	EffectClearDialog
)

func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "None"
	case EffectTriggerStart:
		return "TriggerStart"
	case EffectTriggerLaunch:
		return "TriggerLaunch"
	case EffectClearDialog:
		return "ClearDialog"
	default:
		return "Unknown"
	}
}

// Reset windows applied by the owning match after a state change.
const (
	DefaultTimeout  = 60 * time.Second
	LaunchedTimeout = 30 * time.Second
	HiddenTimeout   = 300 * time.Second
)
