package gamefinder

import (
	"sync"
	"time"

	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/fumbbl"
	"github.com/mauv0809/gamefinder/internal/graph"
	"github.com/mauv0809/gamefinder/internal/metrics"
	"github.com/mauv0809/gamefinder/internal/model"
	"github.com/mauv0809/gamefinder/internal/notifier"
	"github.com/mauv0809/gamefinder/internal/pubsub"
)

// DefaultScheduleTimeout bounds one call to the API's scheduler.
const DefaultScheduleTimeout = 30 * time.Second

// Offer is a negotiable match as one coach sees it.
type Offer struct {
	ID                string      `json:"id"`
	Team1             *model.Team `json:"team1"`
	Team2             *model.Team `json:"team2"`
	TimeRemaining     int64       `json:"timeRemaining"`
	Lifetime          int64       `json:"lifetime"`
	AwaitingResponse  bool        `json:"awaitingResponse"`
	ShowDialog        bool        `json:"showDialog"`
	LaunchGame        bool        `json:"launchGame"`
	CoachNamesStarted []string    `json:"coachNamesStarted"`
	GameID            int         `json:"gameId,omitempty"`
	SchedulingError   string      `json:"schedulingError,omitempty"`
}

// Opponent is an activated coach with their teams.
type Opponent struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Ranking string        `json:"ranking"`
	Teams   []*model.Team `json:"teams"`
}

// State is everything a coach's client polls for.
type State struct {
	Teams   []Opponent `json:"teams"`
	Matches []Offer    `json:"matches"`
}

// BlackboxState is the cycle phase plus the requesting coach's sign-up.
type BlackboxState struct {
	blackbox.State
	CoachCount    int  `json:"coachCount"`
	UserActivated bool `json:"userActivated"`
}

// Metrics is the subset of metrics the model reports to.
type Metrics interface {
	IncSchedulingErrors()
}

// Phaser reports the Blackbox cycle phase.
type Phaser interface {
	State() blackbox.State
}

// Model is the request-facing side of the gamefinder. It turns coach
// requests into graph commands and carries launched matches out to the API.
type Model struct {
	svc             *graph.Service
	api             fumbbl.Client
	events          pubsub.PubSubClient
	notifier        notifier.Notifier
	counters        metrics.MetricsStore
	metrics         Metrics
	cycle           Phaser
	scheduleTimeout time.Duration
	dryRun          bool

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// Option configures a Model.
type Option func(*Model)
