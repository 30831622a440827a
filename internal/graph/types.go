package graph

import (
	"time"

	"github.com/mauv0809/gamefinder/internal/dialog"
	"github.com/mauv0809/gamefinder/internal/eligibility"
	"github.com/mauv0809/gamefinder/internal/model"
	"github.com/mauv0809/gamefinder/internal/queue"
	"github.com/mauv0809/gamefinder/internal/store"
)

// Metrics is the subset of metrics the graph reports to.
type Metrics interface {
	IncMatchesCreated()
	IncMatchesLaunched()
	SetCoaches(n int)
}

// LaunchHandler receives a snapshot of a match whose launch was triggered.
type LaunchHandler func(m *model.Match)

// Graph owns the coaches, teams and candidate matches of one pool. It is not
// safe for concurrent use: every call must run on the graph's queue, which is
// what Service does.
type Graph struct {
	policy      eligibility.Policy
	coaches     *store.CoachStore
	teams       *store.TeamStore
	matches     *store.MatchStore
	dialogs     *dialog.Scheduler
	now         store.Clock
	metrics     Metrics
	tickEnabled bool
	onLaunch    []LaunchHandler
}

// Option configures a Graph.
type Option func(*options)

type options struct {
	clock        store.Clock
	coachTimeout time.Duration
	metrics      Metrics
}

// Service serializes every access to a Graph through its queue.
type Service struct {
	q *queue.Queue
	g *Graph
}
