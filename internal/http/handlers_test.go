package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/gamefinder/internal/archive"
	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/database"
	"github.com/mauv0809/gamefinder/internal/gamefinder"
	"github.com/mauv0809/gamefinder/internal/metrics"
	"github.com/mauv0809/gamefinder/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type actionCall struct {
	Action                   string
	CoachID, MyTeam, OppTeam int
}

// mockGamefinder records calls and serves canned answers.
type mockGamefinder struct {
	mu          sync.Mutex
	activated   []int
	actions     []actionCall
	resets      int
	err         error
	offers      []gamefinder.Offer
	teams       []*model.Team
	opponents   []gamefinder.Opponent
	blackbox    gamefinder.BlackboxState
	blackboxFor []int
}

func (m *mockGamefinder) Activate(_ context.Context, coachID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activated = append(m.activated, coachID)
	return m.err
}

func (m *mockGamefinder) ActivatedTeams(context.Context, int) ([]*model.Team, error) {
	return m.teams, m.err
}

func (m *mockGamefinder) Opponents(context.Context) ([]gamefinder.Opponent, error) {
	return m.opponents, m.err
}

func (m *mockGamefinder) Offers(context.Context, int) ([]gamefinder.Offer, error) {
	return m.offers, m.err
}

func (m *mockGamefinder) State(context.Context, int) (gamefinder.State, error) {
	return gamefinder.State{Teams: m.opponents, Matches: m.offers}, m.err
}

func (m *mockGamefinder) act(name string, coachID, my, opp int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, actionCall{name, coachID, my, opp})
	return m.err == nil, m.err
}

func (m *mockGamefinder) MakeOffer(_ context.Context, coachID, my, opp int) (bool, error) {
	return m.act("accept", coachID, my, opp)
}

func (m *mockGamefinder) CancelOffer(_ context.Context, coachID, my, opp int) (bool, error) {
	return m.act("cancel", coachID, my, opp)
}

func (m *mockGamefinder) StartGame(_ context.Context, coachID, my, opp int) (bool, error) {
	return m.act("start", coachID, my, opp)
}

func (m *mockGamefinder) BlackboxState(_ context.Context, coachID int) (gamefinder.BlackboxState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blackboxFor = append(m.blackboxFor, coachID)
	return m.blackbox, m.err
}

func (m *mockGamefinder) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	return m.err
}

type testServer struct {
	server   *Server
	gf       *mockGamefinder
	rounds   archive.RoundStore
	counters metrics.MetricsStore
}

// setupTestServer initializes a new server with a test database and a mock gamefinder.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	reg := prometheus.NewRegistry()
	metrics.NewService(reg)
	ts := &testServer{
		gf:       &mockGamefinder{},
		rounds:   archive.New(db),
		counters: metrics.New(db),
	}
	ts.server = NewServer(ts.gf, ts.rounds, ts.counters, metrics.NewMetricsHandler(reg), []string{"https://fumbbl.com"})
	return ts
}

func (ts *testServer) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "gamefinder_matches_launched_total")
}

func TestActivate(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(http.MethodPost, "/gamefinder/activate", url.Values{"coachId": {"42"}})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, []int{42}, ts.gf.activated)
}

func TestActivate_BadRequest(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(http.MethodPost, "/gamefinder/activate", url.Values{"coachId": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(http.MethodPost, "/gamefinder/activate", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, ts.gf.activated)
}

func TestWrongMethod(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/gamefinder/activate?coachId=1"},
		{http.MethodGet, "/gamefinder/make-offer"},
		{http.MethodGet, "/gamefinder/offers"},
		{http.MethodPost, "/blackbox/state"},
		{http.MethodPost, "/blackbox/rounds"},
		{http.MethodDelete, "/blackbox/rounds/" + uuid.NewString()},
		{http.MethodPost, "/health"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr := ts.do(tt.method, tt.target, nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		})
	}
	assert.Empty(t, ts.gf.activated)
	assert.Empty(t, ts.gf.actions)
}

func TestTeamActions(t *testing.T) {
	ts := setupTestServer(t)
	form := url.Values{"coachId": {"1"}, "myTeamId": {"10"}, "opponentTeamId": {"20"}}

	for _, path := range []string{"/gamefinder/make-offer", "/gamefinder/start-game", "/gamefinder/cancel-offer"} {
		rr := ts.do(http.MethodPost, path, form)
		require.Equal(t, http.StatusOK, rr.Code, path)
		var res struct{ Changed bool }
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.True(t, res.Changed)
	}
	assert.Equal(t, []actionCall{
		{"accept", 1, 10, 20},
		{"start", 1, 10, 20},
		{"cancel", 1, 10, 20},
	}, ts.gf.actions)
}

func TestTeamActions_MissingParam(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(http.MethodPost, "/gamefinder/make-offer", url.Values{"coachId": {"1"}, "myTeamId": {"10"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "opponentTeamId")
	assert.Empty(t, ts.gf.actions)
}

func TestOffers(t *testing.T) {
	ts := setupTestServer(t)
	ts.gf.offers = []gamefinder.Offer{{ID: "1 2", ShowDialog: true, Lifetime: 60000}}

	rr := ts.do(http.MethodPost, "/gamefinder/offers", url.Values{"coachId": {"1"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var offers []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &offers))
	require.Len(t, offers, 1)
	assert.Equal(t, "1 2", offers[0]["id"])
	assert.Equal(t, true, offers[0]["showDialog"])
	assert.Equal(t, 60000.0, offers[0]["lifetime"])
}

func TestOffers_Error(t *testing.T) {
	ts := setupTestServer(t)
	ts.gf.err = errors.New("queue stopped")

	rr := ts.do(http.MethodPost, "/gamefinder/offers", url.Values{"coachId": {"1"}})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestOpponentsAndTeams(t *testing.T) {
	ts := setupTestServer(t)
	coach := &model.Coach{ID: 1, Name: "Alice"}
	ts.gf.teams = []*model.Team{{ID: 10, Name: "Reavers", Coach: coach}}
	ts.gf.opponents = []gamefinder.Opponent{{ID: 1, Name: "Alice", Teams: ts.gf.teams}}

	rr := ts.do(http.MethodPost, "/gamefinder/opponents", url.Values{"coachId": {"1"}})
	require.Equal(t, http.StatusOK, rr.Code)
	var opponents []gamefinder.Opponent
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opponents))
	require.Len(t, opponents, 1)
	assert.Equal(t, "Reavers", opponents[0].Teams[0].Name)

	rr = ts.do(http.MethodPost, "/gamefinder/teams", url.Values{"coachId": {"1"}})
	require.Equal(t, http.StatusOK, rr.Code)
	var teams []*model.Team
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &teams))
	require.Len(t, teams, 1)
	assert.Equal(t, 10, teams[0].ID)

	rr = ts.do(http.MethodPost, "/gamefinder/state", url.Values{"coachId": {"1"}})
	require.Equal(t, http.StatusOK, rr.Code)
	var state gamefinder.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Len(t, state.Teams, 1)
}

func TestBlackboxState(t *testing.T) {
	ts := setupTestServer(t)
	ts.gf.blackbox = gamefinder.BlackboxState{
		State:         blackbox.State{Status: blackbox.StatusActive, SecondsRemaining: 90},
		CoachCount:    12,
		UserActivated: true,
	}

	rr := ts.do(http.MethodGet, "/blackbox/state?coachId=7", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Active", body["status"])
	assert.Equal(t, 90.0, body["secondsRemaining"])
	assert.Equal(t, 12.0, body["coachCount"])
	assert.Equal(t, true, body["userActivated"])
	assert.Equal(t, []int{7}, ts.gf.blackboxFor)
}

func TestRounds(t *testing.T) {
	ts := setupTestServer(t)
	round := &blackbox.Round{ID: uuid.New(), DrawnAt: time.Now(), Heuristic: "FewestGames", Score: 1200}
	require.NoError(t, ts.rounds.ReportRound(context.Background(), round))

	rr := ts.do(http.MethodGet, "/blackbox/rounds?limit=5", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var records []archive.RoundRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "FewestGames", records[0].Heuristic)

	rr = ts.do(http.MethodGet, "/blackbox/rounds/"+round.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var record archive.RoundRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &record))
	assert.Equal(t, 1200, record.Score)

	rr = ts.do(http.MethodGet, "/blackbox/rounds/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRounds_DefaultLimitAndStoreError(t *testing.T) {
	ts := setupTestServer(t)
	rounds := archive.NewMock()
	var limits []int
	rounds.RoundsFunc = func(_ context.Context, limit int) ([]archive.RoundRecord, error) {
		limits = append(limits, limit)
		if limit == archive.DefaultLimit {
			return nil, nil
		}
		return nil, errors.New("disk full")
	}
	ts.server = NewServer(ts.gf, rounds, ts.counters, metrics.NewMetricsHandler(prometheus.NewRegistry()), []string{"*"})

	rr := ts.do(http.MethodGet, "/blackbox/rounds?limit=abc", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(http.MethodGet, "/blackbox/rounds?limit=3", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, []int{archive.DefaultLimit, 3}, limits)
}

func TestStats(t *testing.T) {
	ts := setupTestServer(t)
	ts.counters.Increment(metrics.KeyMatchesLaunched)

	rr := ts.do(http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats[metrics.KeyMatchesLaunched])
}

func TestAdminReset(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(http.MethodPost, "/admin/reset", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, ts.gf.resets)
}

func TestCORS(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/gamefinder/offers", nil)
	req.Header.Set("Origin", "https://fumbbl.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, req)

	assert.Equal(t, "https://fumbbl.com", rr.Header().Get("Access-Control-Allow-Origin"))
}
