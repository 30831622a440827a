package gamefinder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/fumbbl"
	"github.com/mauv0809/gamefinder/internal/graph"
	"github.com/mauv0809/gamefinder/internal/metrics"
	"github.com/mauv0809/gamefinder/internal/model"
	"github.com/mauv0809/gamefinder/internal/negotiation"
	"github.com/mauv0809/gamefinder/internal/notifier"
	"github.com/mauv0809/gamefinder/internal/pubsub"
)

var _ blackbox.Injector = (*Model)(nil)
var _ blackbox.Reporter = (*Model)(nil)

func WithPublisher(p pubsub.PubSubClient) Option {
	return func(m *Model) { m.events = p }
}

func WithNotifier(n notifier.Notifier) Option {
	return func(m *Model) { m.notifier = n }
}

func WithCounters(s metrics.MetricsStore) Option {
	return func(m *Model) { m.counters = s }
}

func WithMetrics(mt Metrics) Option {
	return func(m *Model) { m.metrics = mt }
}

func WithScheduleTimeout(d time.Duration) Option {
	return func(m *Model) { m.scheduleTimeout = d }
}

// WithDryRun logs notifications instead of sending them.
func WithDryRun(dryRun bool) Option {
	return func(m *Model) { m.dryRun = dryRun }
}

// New creates the model and subscribes it to launches on svc's graph.
func New(svc *graph.Service, api fumbbl.Client, opts ...Option) (*Model, error) {
	m := &Model{
		svc:             svc,
		api:             api,
		events:          pubsub.Nop{},
		notifier:        notifier.Nop{},
		counters:        metrics.NopStore{},
		scheduleTimeout: DefaultScheduleTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := svc.OnMatchLaunched(m.matchLaunched); err != nil {
		return nil, fmt.Errorf("failed to subscribe to launches: %w", err)
	}
	return m, nil
}

// Activate refreshes the coach and their lfg teams from the API and replaces
// what the graph holds for them. Unknown coaches are ignored.
func (m *Model) Activate(ctx context.Context, coachID int) error {
	coach, err := m.api.Coach(ctx, coachID)
	if errors.Is(err, fumbbl.ErrNotFound) {
		log.Warn("Activation for unknown coach", "coach", coachID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch coach %d: %w", coachID, err)
	}
	teams, err := m.api.LfgTeams(ctx, coach)
	if err != nil {
		return fmt.Errorf("failed to fetch teams of coach %d: %w", coachID, err)
	}
	log.Debug("Activating", "coach", coach, "teams", len(teams))
	return m.svc.Activate(ctx, coach, teams)
}

// ActivatedTeams lists the coach's teams currently in the graph.
func (m *Model) ActivatedTeams(ctx context.Context, coachID int) ([]*model.Team, error) {
	return m.svc.TeamsOf(ctx, coachID)
}

// Opponents lists every coach in the graph with their teams.
func (m *Model) Opponents(ctx context.Context) ([]Opponent, error) {
	return graph.Query(ctx, m.svc, opponents)
}

// Offers pings the coach and lists their matches that are open for
// negotiation.
func (m *Model) Offers(ctx context.Context, coachID int) ([]Offer, error) {
	return graph.Query(ctx, m.svc, func(g *graph.Graph) []Offer {
		g.Ping(coachID, 0)
		return offersOf(g, coachID)
	})
}

// State pings the coach and returns opponents and offers from one snapshot.
func (m *Model) State(ctx context.Context, coachID int) (State, error) {
	return graph.Query(ctx, m.svc, func(g *graph.Graph) State {
		g.Ping(coachID, 0)
		return State{Teams: opponents(g), Matches: offersOf(g, coachID)}
	})
}

// MakeOffer accepts the match between the coach's team and the opponent team.
func (m *Model) MakeOffer(ctx context.Context, coachID, myTeamID, opponentTeamID int) (bool, error) {
	return m.svc.Act(ctx, model.ActionAccept, coachID, myTeamID, opponentTeamID)
}

func (m *Model) CancelOffer(ctx context.Context, coachID, myTeamID, opponentTeamID int) (bool, error) {
	return m.svc.Act(ctx, model.ActionCancel, coachID, myTeamID, opponentTeamID)
}

func (m *Model) StartGame(ctx context.Context, coachID, myTeamID, opponentTeamID int) (bool, error) {
	return m.svc.Act(ctx, model.ActionStart, coachID, myTeamID, opponentTeamID)
}

// Reset drops every coach, team and match.
func (m *Model) Reset(ctx context.Context) error {
	log.Warn("Resetting gamefinder")
	return m.svc.Reset(ctx)
}

// InjectLaunched places Blackbox pairings in the graph as launched matches.
// The coaches are kept alive for the launch grace window so their clients
// can pick the game up.
func (m *Model) InjectLaunched(ctx context.Context, chosen []*model.Match) error {
	for _, c := range chosen {
		team1, team2 := c.Team1, c.Team2
		err := m.svc.Exec(ctx, func(g *graph.Graph) {
			g.InjectLaunchedMatch(team1, team2)
			g.Ping(team1.CoachID(), negotiation.LaunchedTimeout)
			g.Ping(team2.CoachID(), negotiation.LaunchedTimeout)
		})
		if err != nil {
			return fmt.Errorf("failed to inject %s: %w", c, err)
		}
	}
	log.Info("Injected blackbox matches", "count", len(chosen))
	return nil
}

// ReportRound publishes a finished Blackbox round.
func (m *Model) ReportRound(ctx context.Context, round *blackbox.Round) error {
	m.counters.Increment(metrics.KeyBlackboxRounds)
	for range round.Chosen {
		m.counters.Increment(metrics.KeyBlackboxMatches)
	}
	var errs []error
	if err := m.events.SendMessage(pubsub.EventBlackboxRound, roundEvent(round)); err != nil {
		errs = append(errs, fmt.Errorf("failed to publish round: %w", err))
	}
	if err := m.notifier.SendBlackboxRound(round, m.dryRun); err != nil {
		errs = append(errs, fmt.Errorf("failed to notify round: %w", err))
	}
	return errors.Join(errs...)
}

// AttachCycle makes BlackboxState report the phase of c. The cycle injects
// into the model, so it is attached after New and before serving.
func (m *Model) AttachCycle(c Phaser) {
	m.cycle = c
}

// BlackboxState reports the cycle phase and whether the coach is signed up
// for the next draw.
func (m *Model) BlackboxState(ctx context.Context, coachID int) (BlackboxState, error) {
	var state BlackboxState
	if m.cycle != nil {
		state.State = m.cycle.State()
	}
	coaches, err := m.api.ActivatedCoaches(ctx)
	if err != nil {
		return state, fmt.Errorf("failed to fetch blackbox coaches: %w", err)
	}
	state.CoachCount = len(coaches)
	for _, id := range coaches {
		if id == coachID {
			state.UserActivated = true
			break
		}
	}
	return state, nil
}

// Wait blocks until every launched match handed to the API has been dealt with.
func (m *Model) Wait() {
	m.inflight.Wait()
}

// Close stops scheduling new launches and waits for the ones in flight.
// Matches launched afterwards stay in the graph unscheduled.
func (m *Model) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.inflight.Wait()
}

// matchLaunched runs on the graph's queue, so the API call is moved off it.
func (m *Model) matchLaunched(match *model.Match) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		log.Warn("Shutting down, not scheduling launched match", "match", match)
		return
	}
	m.inflight.Add(1)
	m.mu.Unlock()
	go func() {
		defer m.inflight.Done()
		m.schedule(match)
	}()
}

func (m *Model) schedule(match *model.Match) {
	key := match.Key()
	coach1, coach2 := match.Team1.CoachID(), match.Team2.CoachID()
	if err := m.svc.Post(func(g *graph.Graph) {
		g.Ping(coach1, negotiation.LaunchedTimeout)
		g.Ping(coach2, negotiation.LaunchedTimeout)
	}); err != nil {
		log.Warn("Could not extend launch grace", "match", match, "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.scheduleTimeout)
	defer cancel()

	gameID, err := m.api.ScheduleGame(ctx, match.Team1.ID, match.Team2.ID)
	if err != nil {
		match.SchedulingError = err.Error()
		if m.metrics != nil {
			m.metrics.IncSchedulingErrors()
		}
		err = m.svc.SetSchedulingError(key, match.SchedulingError)
	} else {
		match.GameID = gameID
		log.Info("Game scheduled", "match", match, "game", gameID)
		err = m.svc.SetGameID(key, gameID)
	}
	if err != nil {
		log.Warn("Could not record scheduling outcome", "match", match, "error", err)
	}

	m.counters.Increment(metrics.KeyMatchesLaunched)
	if err := m.events.SendMessage(pubsub.EventMatchLaunched, launchEvent(match)); err != nil {
		log.Error("Failed to publish launch", "match", match, "error", err)
	}
	if err := m.notifier.SendMatchLaunched(match, m.dryRun); err != nil {
		log.Error("Failed to notify launch", "match", match, "error", err)
	}
}

func opponents(g *graph.Graph) []Opponent {
	coaches := g.Coaches()
	out := make([]Opponent, 0, len(coaches))
	for _, c := range coaches {
		teams := g.TeamsOf(c.ID)
		op := Opponent{ID: c.ID, Name: c.Name, Ranking: c.Rating, Teams: make([]*model.Team, 0, len(teams))}
		for _, t := range teams {
			op.Teams = append(op.Teams, t.Clone())
		}
		out = append(out, op)
	}
	return out
}

func offersOf(g *graph.Graph, coachID int) []Offer {
	now := g.Now()
	dialog := g.ActiveDialog(coachID)
	offers := make([]Offer, 0)
	for _, match := range g.MatchesOf(coachID) {
		if !match.State.IsOffer() {
			continue
		}
		launch := match.State.TriggerLaunchGame()
		offers = append(offers, Offer{
			ID:                fmt.Sprintf("%d %d", match.Team1.ID, match.Team2.ID),
			Team1:             match.Team1.Clone(),
			Team2:             match.Team2.Clone(),
			TimeRemaining:     match.TimeUntilReset(now).Milliseconds(),
			Lifetime:          negotiation.DefaultTimeout.Milliseconds(),
			AwaitingResponse:  match.IsAwaitingResponse(coachID),
			ShowDialog:        dialog != nil && dialog.Equals(match) && !launch,
			LaunchGame:        launch,
			CoachNamesStarted: match.CoachNamesStarted(),
			GameID:            match.GameID,
			SchedulingError:   match.SchedulingError,
		})
	}
	return offers
}

func launchEvent(match *model.Match) pubsub.MatchLaunched {
	return pubsub.MatchLaunched{
		Team1ID:         match.Team1.ID,
		Team1Name:       match.Team1.Name,
		Coach1ID:        match.Team1.CoachID(),
		Team2ID:         match.Team2.ID,
		Team2Name:       match.Team2.Name,
		Coach2ID:        match.Team2.CoachID(),
		GameID:          match.GameID,
		SchedulingError: match.SchedulingError,
		LaunchedAt:      match.ResetAt.Add(-negotiation.LaunchedTimeout),
	}
}

func roundEvent(round *blackbox.Round) pubsub.BlackboxRound {
	ev := pubsub.BlackboxRound{
		ID:         round.ID.String(),
		DrawnAt:    round.DrawnAt,
		Coaches:    round.Coaches,
		Heuristic:  round.Heuristic,
		Score:      round.Score,
		Candidates: len(round.Candidates),
		Pairings:   make([]pubsub.TeamPairing, 0, len(round.Chosen)),
	}
	for _, c := range round.Chosen {
		p := pubsub.TeamPairing{Team1ID: c.Team1.ID, Team2ID: c.Team2.ID}
		if c.Suitability != nil {
			p.Suitability = *c.Suitability
		}
		ev.Pairings = append(ev.Pairings, p)
	}
	return ev
}
