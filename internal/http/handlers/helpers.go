package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gamefinder/internal/gamefinder"
	"github.com/mauv0809/gamefinder/internal/model"
)

// Gamefinder is what the HTTP surface needs from the gamefinder model.
type Gamefinder interface {
	Activate(ctx context.Context, coachID int) error
	ActivatedTeams(ctx context.Context, coachID int) ([]*model.Team, error)
	Opponents(ctx context.Context) ([]gamefinder.Opponent, error)
	Offers(ctx context.Context, coachID int) ([]gamefinder.Offer, error)
	State(ctx context.Context, coachID int) (gamefinder.State, error)
	MakeOffer(ctx context.Context, coachID, myTeamID, opponentTeamID int) (bool, error)
	CancelOffer(ctx context.Context, coachID, myTeamID, opponentTeamID int) (bool, error)
	StartGame(ctx context.Context, coachID, myTeamID, opponentTeamID int) (bool, error)
	BlackboxState(ctx context.Context, coachID int) (gamefinder.BlackboxState, error)
	Reset(ctx context.Context) error
}

var _ Gamefinder = (*gamefinder.Model)(nil)

// actionResult is the body of make-offer, cancel-offer and start-game.
type actionResult struct {
	Changed bool `json:"changed"`
}

// intParam reads an integer from the form body or the query string.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

// intParams reads every named integer or reports the first problem.
func intParams(r *http.Request, names ...string) ([]int, error) {
	out := make([]int, 0, len(names))
	for _, name := range names {
		n, err := intParam(r, name)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// fail logs err and answers with a generic message.
func fail(w http.ResponseWriter, msg string, err error) {
	log.Error(msg, "error", err)
	http.Error(w, msg, http.StatusInternalServerError)
}
