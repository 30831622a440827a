package blackbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultActive = 5 * time.Minute
	DefaultPaused = 10 * time.Minute
)

// Cycle draws a round at the end of every active window and injects the
// result. Coaches activate during the active window; the paused window
// follows each draw.
type Cycle struct {
	gen       *Generator
	roster    RosterSource
	reporters []Reporter
	injector  Injector
	metrics   Metrics
	clock     clockwork.Clock
	active    time.Duration
	paused    time.Duration
	timeout   time.Duration

	sched gocron.Scheduler
	job   gocron.Job

	mu       sync.Mutex
	previous time.Time
	last     *Round
}

// CycleOption configures a Cycle.
type CycleOption func(*Cycle)

// WithWindows sets the length of the active and paused windows.
func WithWindows(active, paused time.Duration) CycleOption {
	return func(c *Cycle) {
		c.active = active
		c.paused = paused
	}
}

func WithClock(clock clockwork.Clock) CycleOption {
	return func(c *Cycle) {
		c.clock = clock
	}
}

func WithCycleMetrics(m Metrics) CycleOption {
	return func(c *Cycle) {
		c.metrics = m
	}
}

// WithReporters adds reporters notified after each round.
func WithReporters(r ...Reporter) CycleOption {
	return func(c *Cycle) {
		c.reporters = append(c.reporters, r...)
	}
}

func NewCycle(gen *Generator, roster RosterSource, injector Injector, opts ...CycleOption) *Cycle {
	c := &Cycle{
		gen:      gen,
		roster:   roster,
		injector: injector,
		clock:    clockwork.NewRealClock(),
		active:   DefaultActive,
		paused:   DefaultPaused,
		timeout:  time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start schedules the first draw one active window from now.
func (c *Cycle) Start() error {
	sched, err := gocron.NewScheduler(gocron.WithClock(c.clock))
	if err != nil {
		return fmt.Errorf("failed to create blackbox scheduler: %w", err)
	}
	job, err := sched.NewJob(
		gocron.DurationJob(c.active+c.paused),
		gocron.NewTask(c.draw),
		gocron.WithName("blackbox-draw"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartDateTime(c.clock.Now().Add(c.active))),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule blackbox draw: %w", err)
	}
	c.mu.Lock()
	c.sched = sched
	c.job = job
	c.mu.Unlock()
	sched.Start()
	log.Info("Blackbox cycle started", "active", c.active, "paused", c.paused)
	return nil
}

func (c *Cycle) Stop() error {
	c.mu.Lock()
	sched := c.sched
	c.mu.Unlock()
	if sched == nil {
		return nil
	}
	return sched.Shutdown()
}

func (c *Cycle) draw() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if _, err := c.RunOnce(ctx); err != nil {
		log.Error("Blackbox draw failed", "error", err)
	}
}

// RunOnce fetches the roster, draws a round, injects the chosen matches and
// reports the round.
func (c *Cycle) RunOnce(ctx context.Context) (*Round, error) {
	c.mu.Lock()
	c.previous = c.clock.Now()
	c.mu.Unlock()

	roster, err := c.roster.BlackboxActivated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blackbox roster: %w", err)
	}
	round, err := c.gen.Generate(ctx, roster)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.last = round
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IncBlackboxRounds()
		c.metrics.ObserveBlackboxRoundDuration(round.Duration)
		c.metrics.SetBlackboxRoundScore(round.Score)
	}

	var errs []error
	if len(round.Chosen) > 0 && c.injector != nil {
		if err := c.injector.InjectLaunched(ctx, round.Chosen); err != nil {
			errs = append(errs, fmt.Errorf("failed to inject blackbox matches: %w", err))
		}
	}
	for _, r := range c.reporters {
		if err := r.ReportRound(ctx, round); err != nil {
			errs = append(errs, fmt.Errorf("failed to report blackbox round: %w", err))
		}
	}
	return round, errors.Join(errs...)
}

// LastRound is the most recent round, or nil before the first draw.
func (c *Cycle) LastRound() *Round {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// State reports the current phase and the time left in it.
func (c *Cycle) State() State {
	c.mu.Lock()
	job, previous := c.job, c.previous
	c.mu.Unlock()

	now := c.clock.Now()
	next := now.Add(c.active)
	if job != nil {
		if t, err := job.NextRun(); err == nil && !t.IsZero() {
			next = t
		}
	}
	return phaseAt(now, next, previous, c.active)
}

// phaseAt places now relative to the next draw. The active window is the
// stretch right before a draw.
func phaseAt(now, next, previous time.Time, active time.Duration) State {
	s := State{PreviousDraw: previous, NextDraw: next}
	untilDraw := next.Sub(now)
	if untilDraw < 0 {
		untilDraw = 0
	}
	if untilDraw <= active {
		s.Status = StatusActive
		s.SecondsRemaining = int(untilDraw.Seconds())
		return s
	}
	s.Status = StatusPaused
	s.SecondsRemaining = int((untilDraw - active).Seconds())
	return s
}
