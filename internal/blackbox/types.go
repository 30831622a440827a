package blackbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/gamefinder/internal/model"
)

// Activation is a coach signed up for the next draw with their eligible teams.
type Activation struct {
	Coach *model.Coach
	Teams []*model.Team
}

// Round is the outcome of one draw.
type Round struct {
	ID         uuid.UUID
	DrawnAt    time.Time
	Duration   time.Duration
	Coaches    int
	Heuristic  string
	Score      int
	Candidates []*model.Match
	Chosen     []*model.Match
}

// RosterSource supplies the coaches activated for the next draw.
type RosterSource interface {
	BlackboxActivated(ctx context.Context) ([]Activation, error)
}

// Reporter receives every completed round.
type Reporter interface {
	ReportRound(ctx context.Context, round *Round) error
}

// Injector places the chosen matches into the live graph.
type Injector interface {
	InjectLaunched(ctx context.Context, chosen []*model.Match) error
}

// Metrics is the subset of metrics the draw reports to.
type Metrics interface {
	IncBlackboxRounds()
	ObserveBlackboxRoundDuration(d time.Duration)
	SetBlackboxRoundScore(score int)
}

// Status is the phase of the Blackbox cycle.
type Status string

const (
	StatusActive Status = "Active"
	StatusPaused Status = "Paused"
)

// State describes where the cycle currently is.
type State struct {
	Status           Status    `json:"status"`
	SecondsRemaining int       `json:"secondsRemaining"`
	PreviousDraw     time.Time `json:"previousDraw"`
	NextDraw         time.Time `json:"nextDraw"`
}
