package fumbbl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/model"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// APIClient talks to the FUMBBL REST API.
type APIClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	BaseURL    string
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// NewClient creates a client for baseURL. With a client id it authenticates
// every request with an OAuth2 client credentials token.
func NewClient(baseURL, clientID, clientSecret string) *APIClient {
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := &http.Client{Timeout: defaultTimeout}
	if clientID != "" {
		creds := clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     baseURL + "/api/oauth/token",
		}
		httpClient = creds.Client(context.Background())
		httpClient.Timeout = defaultTimeout
	}
	return &APIClient{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(20), 10),
		BaseURL:    baseURL,
	}
}

// Coach fetches a coach by id.
func (c *APIClient) Coach(ctx context.Context, coachID int) (*model.Coach, error) {
	var coach apiCoach
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/coach/get/%d", coachID), nil, "", &coach); err != nil {
		return nil, fmt.Errorf("failed to get coach %d: %w", coachID, err)
	}
	return toCoach(coach), nil
}

// LfgTeams fetches the coach's teams and keeps those looking for a game.
func (c *APIClient) LfgTeams(ctx context.Context, coach *model.Coach) ([]*model.Team, error) {
	var ct apiCoachTeams
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/coach/teams/%d", coach.ID), nil, "", &ct); err != nil {
		return nil, fmt.Errorf("failed to get teams of coach %d: %w", coach.ID, err)
	}
	teams := lfgTeams(ct, coach)
	log.Debug("Fetched lfg teams", "coach", coach.ID, "teams", len(teams), "total", len(ct.Teams))
	return teams, nil
}

// ScheduleGame asks the API to create the game session and returns its id.
func (c *APIClient) ScheduleGame(ctx context.Context, team1ID, team2ID int) (int, error) {
	form := url.Values{}
	form.Set("team1", strconv.Itoa(team1ID))
	form.Set("team2", strconv.Itoa(team2ID))

	var resp apiScheduleResponse
	err := c.do(ctx, http.MethodPost, "/api/gamefinder/schedule", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &resp)
	if err != nil {
		return 0, fmt.Errorf("failed to schedule game %d vs %d: %w", team1ID, team2ID, err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("game %d vs %d rejected: %s", team1ID, team2ID, resp.Error)
	}
	return resp.GameID, nil
}

// BlackboxActivated fetches the coaches signed up for the next draw together
// with their lfg teams. Coaches that disappeared in the meantime are skipped.
func (c *APIClient) BlackboxActivated(ctx context.Context) ([]blackbox.Activation, error) {
	coaches, err := c.ActivatedCoaches(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	roster := make([]blackbox.Activation, 0, len(coaches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, coachID := range coaches {
		g.Go(func() error {
			coach, err := c.Coach(gctx, coachID)
			if err != nil {
				if isNotFound(err) {
					log.Warn("Skipping unknown blackbox coach", "coach", coachID)
					return nil
				}
				return err
			}
			teams, err := c.LfgTeams(gctx, coach)
			if err != nil {
				return err
			}
			mu.Lock()
			roster = append(roster, blackbox.Activation{Coach: coach, Teams: teams})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return roster, nil
}

// ActivatedCoaches returns the ids of the coaches signed up for the next draw.
func (c *APIClient) ActivatedCoaches(ctx context.Context) ([]int, error) {
	var activated apiActivated
	if err := c.do(ctx, http.MethodGet, "/api/blackbox/activated", nil, "", &activated); err != nil {
		return nil, fmt.Errorf("failed to get blackbox roster: %w", err)
	}
	return activated.Coaches, nil
}

// ReportRound posts a finished round for offline analysis.
func (c *APIClient) ReportRound(ctx context.Context, round *blackbox.Round) error {
	body, err := json.Marshal(toReport(round))
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, "/api/blackbox/round", bytes.NewReader(body), "application/json", nil); err != nil {
		return fmt.Errorf("failed to report round %s: %w", round.ID, err)
	}
	return nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	log.Debug("Requesting FUMBBL API", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from FUMBBL API", "status", resp.StatusCode, "body", string(b))
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
